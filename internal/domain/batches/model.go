package batches

import "time"

// Batch is one ingestion batch of claims. Batches are created by the
// ingestion collaborator (or the seed command) and are read-only here.
type Batch struct {
	ID                 string      `db:"id" json:"id"`
	IngestionTimestamp time.Time   `db:"ingestion_timestamp" json:"ingestionTimestamp"`
	SourceSystem       string      `db:"source_system" json:"sourceSystem"`
	OriginalFileName   string      `db:"original_file_name" json:"originalFileName,omitempty"`
	ClaimCountInBatch  int         `db:"claim_count_in_batch" json:"claimCountInBatch"`
	Status             BatchStatus `db:"status" json:"status"`
	Notes              string      `db:"notes" json:"notes,omitempty"`
}

type BatchStatus string

const (
	BatchPendingProcessing BatchStatus = "PendingProcessing"
	BatchProcessing        BatchStatus = "Processing"
	BatchCompleted         BatchStatus = "Completed"
	BatchError             BatchStatus = "Error"
)

var validBatchStatuses = map[BatchStatus]bool{
	BatchPendingProcessing: true,
	BatchProcessing:        true,
	BatchCompleted:         true,
	BatchError:             true,
}

func (s BatchStatus) Valid() bool { return validBatchStatuses[s] }

// Known source systems. SourceSystem is free-form for forward compatibility
// with new ingestion channels, these are the ones the dashboard renders.
const (
	SourceManualInput = "Manual Input"
	SourceFileUpload  = "File Upload"
	SourceCoreSystemX = "API: CoreSystemX"
	SourceHL7FHIR     = "API: HL7FHIR"
	SourceOther       = "Other"
)
