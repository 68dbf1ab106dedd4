package knowledge

import "time"

// MedicalConcept is a coding-system-independent clinical concept. Codes maps
// a terminology name (ICD-10, SNOMED_CT, CPT, Layman_Terms, ...) to the codes
// or terms representing the concept in that system.
type MedicalConcept struct {
	ID          string                 `db:"id" json:"id"`
	ConceptName string                 `db:"concept_name" json:"conceptName"`
	ConceptType ConceptType            `db:"concept_type" json:"conceptType"`
	Codes       map[string][]string    `db:"codes" json:"codes"`
	Description string                 `db:"description" json:"description,omitempty"`
	Synonyms    []string               `db:"synonyms" json:"synonyms,omitempty"`
	Attributes  map[string]interface{} `db:"attributes" json:"attributes,omitempty"`
}

type ConceptType string

const (
	ConceptDiagnosis    ConceptType = "Diagnosis"
	ConceptProcedure    ConceptType = "Procedure"
	ConceptIntervention ConceptType = "Intervention"
	ConceptMedication   ConceptType = "Medication"
	ConceptFinding      ConceptType = "Finding"
	ConceptObservation  ConceptType = "Observation"
)

var validConceptTypes = map[ConceptType]bool{
	ConceptDiagnosis:    true,
	ConceptProcedure:    true,
	ConceptIntervention: true,
	ConceptMedication:   true,
	ConceptFinding:      true,
	ConceptObservation:  true,
}

func (t ConceptType) Valid() bool { return validConceptTypes[t] }

// ClinicalPairing relates two concepts, typically a diagnosis to a treatment.
// Critical pairings feed the criticality assessment as few-shot exemplars.
type ClinicalPairing struct {
	ID                string        `db:"id" json:"id"`
	PrimaryConceptID  string        `db:"primary_concept_id" json:"primaryConceptId"`
	RelatedConceptID  string        `db:"related_concept_id" json:"relatedConceptId"`
	PairingCategory   string        `db:"pairing_category" json:"pairingCategory,omitempty"`
	RelationshipType  string        `db:"relationship_type" json:"relationshipType"`
	IsCritical        bool          `db:"is_critical" json:"isCritical"`
	CriticalityReason string        `db:"criticality_reason" json:"criticalityReason,omitempty"`
	CommonalityScore  float64       `db:"commonality_score" json:"commonalityScore,omitempty"`
	ConfidenceScore   float64       `db:"confidence_score" json:"confidenceScore,omitempty"`
	SourceType        []string      `db:"source_type" json:"sourceType,omitempty"`
	SourceDetails     []string      `db:"source_details" json:"sourceDetails,omitempty"`
	Notes             string        `db:"notes" json:"notes,omitempty"`
	LastReviewed      *time.Time    `db:"last_reviewed" json:"lastReviewed,omitempty"`
	Status            PairingStatus `db:"status" json:"status"`
}

type PairingStatus string

const (
	PairingActive        PairingStatus = "Active"
	PairingInactive      PairingStatus = "Inactive"
	PairingPendingReview PairingStatus = "PendingReview"
)

var validPairingStatuses = map[PairingStatus]bool{
	PairingActive: true, PairingInactive: true, PairingPendingReview: true,
}

func (s PairingStatus) Valid() bool { return validPairingStatuses[s] }

// Well-known relationship types. RelationshipType stays free-form for
// knowledge imported from external sources.
const (
	RelTreatmentFor        = "TreatmentFor"
	RelIndicates           = "Indicates"
	RelContraindicationFor = "ContraindicationFor"
	RelAssociatedWith      = "AssociatedWith"
	RelCauses              = "Causes"
)

// CriticalFinding is one logged instance of a critical diagnosis-procedure
// combination, whether produced by the AI assessment, a reviewer, or a rule.
type CriticalFinding struct {
	ID                string        `db:"id" json:"id"`
	ClaimID           string        `db:"claim_id" json:"claimId,omitempty"`
	AssessedOn        time.Time     `db:"assessed_on" json:"assessedOn"`
	DiagnosisInfo     []string      `db:"diagnosis_info" json:"diagnosisInformation"`
	ProcedureInfo     []string      `db:"procedure_info" json:"procedureOrInterventionInformation"`
	Reason            string        `db:"reason" json:"reason"`
	Source            FindingSource `db:"source" json:"source"`
	ClinicalPairingID string        `db:"clinical_pairing_id" json:"clinicalPairingId,omitempty"`
}

type FindingSource string

const (
	SourceAIAssessment FindingSource = "AI_Assessment"
	SourceManualEntry  FindingSource = "Manual_Entry"
	SourceClaimReview  FindingSource = "Claim_Review"
	SourceSystemRule   FindingSource = "System_Rule"
)

var validFindingSources = map[FindingSource]bool{
	SourceAIAssessment: true,
	SourceManualEntry:  true,
	SourceClaimReview:  true,
	SourceSystemRule:   true,
}

func (s FindingSource) Valid() bool { return validFindingSources[s] }

// Exemplar is a pairing rendered as a few-shot calibration anchor for the
// criticality assessment prompt.
type Exemplar struct {
	Diagnosis  string `json:"diagnosis"`
	Procedure  string `json:"procedure"`
	IsCritical bool   `json:"isCritical"`
	Reason     string `json:"reason,omitempty"`
}
