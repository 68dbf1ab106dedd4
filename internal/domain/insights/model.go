package insights

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Kind identifies one of the insight flavors generated for a claim.
type Kind string

const (
	KindSummary     Kind = "summary"
	KindFraud       Kind = "fraud"
	KindTAT         Kind = "tat"
	KindCriticality Kind = "criticality"
	KindChronology  Kind = "chronology"
)

// AllKinds lists every claim-level insight kind the dispatcher generates.
var AllKinds = []Kind{KindSummary, KindFraud, KindTAT, KindCriticality, KindChronology}

var validKinds = map[Kind]bool{
	KindSummary: true, KindFraud: true, KindTAT: true,
	KindCriticality: true, KindChronology: true,
}

func (k Kind) Valid() bool { return validKinds[k] }

// ClaimSummary is the summary insight payload.
type ClaimSummary struct {
	Summary string `json:"summary"`
}

// FraudAssessment is the fraud-detection insight payload.
type FraudAssessment struct {
	IsFraudulent      bool    `json:"isFraudulent"`
	FraudProbability  float64 `json:"fraudProbability"`
	FraudReason       string  `json:"fraudReason"`
	RecommendedAction string  `json:"recommendedAction,omitempty"`
}

// TATPrediction is the turnaround-time insight payload.
type TATPrediction struct {
	PredictedTAT    string  `json:"predictedTat"`
	ConfidenceScore float64 `json:"confidenceScore"`
	Factors         string  `json:"factors"`
}

// Pathway is the routing suggestion attached to a criticality assessment.
type Pathway string

const (
	PathwayCritical     Pathway = "Critical"
	PathwayNonCritical  Pathway = "Non-Critical"
	PathwayUndetermined Pathway = "Undetermined"
)

// CriticalityAssessment is the criticality insight payload.
type CriticalityAssessment struct {
	IsCritical       bool    `json:"isCritical"`
	Reason           string  `json:"reason"`
	SuggestedPathway Pathway `json:"suggestedPathway"`
}

// CriticalityInput carries the loosely-coded diagnosis and procedure strings
// to assess. Entries may be codes from any coding system or free text.
type CriticalityInput struct {
	DiagnosisInformation []string `json:"diagnosisInformation"`
	ProcedureInformation []string `json:"procedureOrInterventionInformation"`
}

// ChronologyEvent is one entry in a patient journey timeline.
type ChronologyEvent struct {
	EventDate   string `json:"eventDate"`
	EventName   string `json:"eventName"`
	Source      string `json:"source"`
	Details     string `json:"details,omitempty"`
	IsPredicted bool   `json:"isPredicted"`
}

// Chronology is the patient-chronology insight payload.
type Chronology struct {
	Events []ChronologyEvent `json:"chronology"`
}

// InsightRecord is the stored outcome of one generation run for a
// (claim, kind) pair. Payload always holds a schema-valid document; on
// failure it is the fallback payload and the failure fields say why.
type InsightRecord struct {
	ClaimID        uuid.UUID       `db:"claim_id" json:"claimId"`
	Kind           Kind            `db:"kind" json:"kind"`
	Payload        json.RawMessage `db:"payload" json:"payload"`
	Failed         bool            `db:"failed" json:"failed"`
	FailureKind    string          `db:"failure_kind" json:"failureKind,omitempty"`
	FailureMessage string          `db:"failure_message" json:"failureMessage,omitempty"`
	GeneratedAt    time.Time       `db:"generated_at" json:"generatedAt"`
}

// FeedbackStatus is the reviewer's standing verdict on an insight.
type FeedbackStatus string

const (
	FeedbackPending    FeedbackStatus = "pending"
	FeedbackAccepted   FeedbackStatus = "accepted"
	FeedbackOverridden FeedbackStatus = "overridden"
)

// Feedback is the persisted reviewer verdict for a (claim, kind) pair. A
// missing row reads as pending.
type Feedback struct {
	ClaimID        uuid.UUID      `db:"claim_id" json:"claimId"`
	Kind           Kind           `db:"kind" json:"kind"`
	Status         FeedbackStatus `db:"status" json:"status"`
	OverrideReason string         `db:"override_reason" json:"overrideReason,omitempty"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updatedAt"`
}
