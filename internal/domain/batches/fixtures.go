package batches

import "time"

func at(base time.Time, daysAgo, hour int) time.Time {
	d := base.AddDate(0, 0, -daysAgo)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC)
}

// Fixtures returns the demo batch set, dated relative to now.
func Fixtures(now time.Time) []*Batch {
	return []*Batch{
		{
			ID:                 "BATCH-MANUAL-20250527-001",
			IngestionTimestamp: at(now, 5, 9),
			SourceSystem:       SourceManualInput,
			ClaimCountInBatch:  1,
			Status:             BatchCompleted,
		},
		{
			ID:                 "BATCH-API-HL7-20250522-001",
			IngestionTimestamp: at(now, 10, 14),
			SourceSystem:       SourceHL7FHIR,
			ClaimCountInBatch:  1,
			Status:             BatchCompleted,
		},
		{
			ID:                 "BATCH-UPLOAD-20250530-001",
			IngestionTimestamp: at(now, 2, 11),
			SourceSystem:       SourceFileUpload,
			OriginalFileName:   "claims_may30_2025.csv",
			ClaimCountInBatch:  6,
			Status:             BatchProcessing,
		},
		{
			ID:                 "BATCH-UPLOAD-20250531-001",
			IngestionTimestamp: at(now, 1, 8),
			SourceSystem:       SourceFileUpload,
			OriginalFileName:   "siloam_claims_may31.xml",
			ClaimCountInBatch:  1,
			Status:             BatchCompleted,
		},
		{
			ID:                 "BATCH-API-CSX-20250531-001",
			IngestionTimestamp: at(now, 1, 10),
			SourceSystem:       SourceCoreSystemX,
			ClaimCountInBatch:  1,
			Status:             BatchCompleted,
		},
	}
}
