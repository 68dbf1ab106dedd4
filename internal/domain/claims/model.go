package claims

import (
	"time"

	"github.com/google/uuid"
)

// Claim maps to the claim table. JSON tags follow the dashboard wire format
// (camelCase) rather than column names; nested collections are stored as
// JSONB columns.
type Claim struct {
	ID             uuid.UUID `db:"id" json:"id"`
	ClaimNumber    string    `db:"claim_number" json:"claimNumber"`
	PatientName    string    `db:"patient_name" json:"patientName"`
	MemberID       string    `db:"member_id" json:"memberId"`
	SubmissionDate time.Time `db:"submission_date" json:"submissionDate"`
	LastUpdateDate time.Time `db:"last_update_date" json:"lastUpdateDate"`

	// Status is the operational status from the source system;
	// ProcessingStatus tracks the claim through the internal pipeline.
	Status           ClaimStatus      `db:"status" json:"status"`
	ProcessingStatus ProcessingStatus `db:"processing_status" json:"processingStatus"`
	RiskLevel        RiskLevel        `db:"risk_level" json:"riskLevel"`
	PredictedTATDays int              `db:"predicted_tat_days" json:"predictedTATDays"`

	PolicyNumber     string `db:"policy_number" json:"policyNumber"`
	PolicyHolderName string `db:"policy_holder_name" json:"policyHolderName"`
	ProviderName     string `db:"provider_name" json:"providerName"`
	ProviderID       string `db:"provider_id" json:"providerId"`

	ClaimAmount    float64  `db:"claim_amount" json:"claimAmount"`
	ApprovedAmount *float64 `db:"approved_amount" json:"approvedAmount,omitempty"`
	Currency       string   `db:"currency" json:"currency"`

	DiagnosisCodes  []CodedEntry      `db:"diagnosis_codes" json:"diagnosisCodes"`
	ProcedureCodes  []CodedEntry      `db:"procedure_codes" json:"procedureCodes"`
	MedicationCodes []MedicationEntry `db:"medication_codes" json:"medicationCodes,omitempty"`

	LineItems     []ClaimLineItem `db:"line_items" json:"lineItems,omitempty"`
	RelatedClaims []string        `db:"related_claims" json:"relatedClaims,omitempty"`

	ClaimSource string `db:"claim_source" json:"claimSource"`
	ClaimType   string `db:"claim_type" json:"claimType"`
	BatchID     string `db:"batch_id" json:"batchId,omitempty"`

	ClaimDetailsFull       string `db:"claim_details_full" json:"claimDetailsFull"`
	MedicalRecordSummary   string `db:"medical_record_summary" json:"medicalRecordSummary,omitempty"`
	MemberDetailsContext   string `db:"member_details_context" json:"memberDetailsContext"`
	ProviderDetailsContext string `db:"provider_details_context" json:"providerDetailsContext"`
	ClaimHistorySummary    string `db:"claim_history_summary" json:"claimHistorySummary"`

	Documents  []Document   `db:"documents" json:"documents"`
	Notes      []Note       `db:"notes" json:"notes,omitempty"`
	AssignedTo string       `db:"assigned_to" json:"assignedTo,omitempty"`
	AuditTrail []AuditEvent `db:"audit_trail" json:"auditTrail"`

	DataQualityReview *DataQualityReview `db:"data_quality_review" json:"dataQualityReview,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// CodedEntry is a code from a clinical terminology with its display text.
type CodedEntry struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// MedicationEntry is a dispensed medication code with quantity.
type MedicationEntry struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
}

// ClaimLineItem is a single billed service line.
type ClaimLineItem struct {
	ID                   string    `json:"id"`
	ServiceDate          time.Time `json:"serviceDate"`
	ProcedureCode        string    `json:"procedureCode"`
	ProcedureDescription string    `json:"procedureDescription,omitempty"`
	DiagnosisCodes       []string  `json:"diagnosisCodes"`
	Modifiers            []string  `json:"modifiers,omitempty"`
	Units                int       `json:"units"`
	ChargeAmount         float64   `json:"chargeAmount"`
	ApprovedAmount       *float64  `json:"approvedAmount,omitempty"`
	Status               string    `json:"status,omitempty"`
}

// Document is an attached supporting file reference.
type Document struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Category string `json:"category"`
}

// Note is a free-text annotation left by a user or the system.
type Note struct {
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`
	Text      string    `json:"text"`
}

// AuditEvent is one entry in a claim's append-only audit trail.
type AuditEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Event     string    `json:"event"`
	User      string    `json:"user"`
	Details   string    `json:"details,omitempty"`
}

// DataQualityReview stores the human assessment of a claim's data quality.
type DataQualityReview struct {
	Status     ReviewStatus `json:"status"`
	Flags      []ReviewFlag `json:"flags"`
	Notes      string       `json:"notes"`
	ReviewedBy string       `json:"reviewedBy,omitempty"`
	ReviewDate *time.Time   `json:"reviewDate,omitempty"`
}

type ClaimStatus string

const (
	StatusSubmitted         ClaimStatus = "Submitted"
	StatusPendingReview     ClaimStatus = "Pending Review"
	StatusUnderReview       ClaimStatus = "Under Review"
	StatusAdditionalInfo    ClaimStatus = "Additional Info Required"
	StatusApproved          ClaimStatus = "Approved"
	StatusPartiallyApproved ClaimStatus = "Partially Approved"
	StatusDenied            ClaimStatus = "Denied"
	StatusAppealed          ClaimStatus = "Appealed"
	StatusClosed            ClaimStatus = "Closed"
	StatusFlaggedForAudit   ClaimStatus = "Flagged for Audit"
)

var validClaimStatuses = map[ClaimStatus]bool{
	StatusSubmitted:         true,
	StatusPendingReview:     true,
	StatusUnderReview:       true,
	StatusAdditionalInfo:    true,
	StatusApproved:          true,
	StatusPartiallyApproved: true,
	StatusDenied:            true,
	StatusAppealed:          true,
	StatusClosed:            true,
	StatusFlaggedForAudit:   true,
}

func (s ClaimStatus) Valid() bool { return validClaimStatuses[s] }

type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

var validRiskLevels = map[RiskLevel]bool{
	RiskLow: true, RiskMedium: true, RiskHigh: true, RiskCritical: true,
}

func (r RiskLevel) Valid() bool { return validRiskLevels[r] }

// Elevated reports whether the level alone warrants reviewer attention.
func (r RiskLevel) Elevated() bool { return r == RiskHigh || r == RiskCritical }

// ProcessingStatus tracks a claim through the internal enrichment pipeline.
type ProcessingStatus string

const (
	ProcessingRaw               ProcessingStatus = "Raw"
	ProcessingEnrichmentPending ProcessingStatus = "EnrichmentPending"
	ProcessingEnriched          ProcessingStatus = "Enriched"
	ProcessingReviewRequired    ProcessingStatus = "ReviewRequired"
	ProcessingProcessed         ProcessingStatus = "Processed"
	ProcessingArchived          ProcessingStatus = "Archived"
)

var validProcessingStatuses = map[ProcessingStatus]bool{
	ProcessingRaw:               true,
	ProcessingEnrichmentPending: true,
	ProcessingEnriched:          true,
	ProcessingReviewRequired:    true,
	ProcessingProcessed:         true,
	ProcessingArchived:          true,
}

func (p ProcessingStatus) Valid() bool { return validProcessingStatuses[p] }

// ReviewStatus is the outcome of a data-quality review.
type ReviewStatus string

const (
	ReviewNoDecision         ReviewStatus = "No Decision Yet"
	ReviewAcceptedClean      ReviewStatus = "Accepted as Clean Data"
	ReviewFlaggedFWA         ReviewStatus = "Flagged for FWA Investigation"
	ReviewRequiresCorrection ReviewStatus = "Requires Data Correction"
	ReviewExcludeFromAI      ReviewStatus = "Exclude from AI Training"
)

// AllReviewStatuses lists every review status in presentation order.
var AllReviewStatuses = []ReviewStatus{
	ReviewNoDecision,
	ReviewAcceptedClean,
	ReviewFlaggedFWA,
	ReviewRequiresCorrection,
	ReviewExcludeFromAI,
}

var validReviewStatuses = map[ReviewStatus]bool{
	ReviewNoDecision:         true,
	ReviewAcceptedClean:      true,
	ReviewFlaggedFWA:         true,
	ReviewRequiresCorrection: true,
	ReviewExcludeFromAI:      true,
}

func (s ReviewStatus) Valid() bool { return validReviewStatuses[s] }

// ReviewFlag tags a specific data-quality concern on a claim.
type ReviewFlag string

const (
	FlagPotentialFraud ReviewFlag = "Potential Fraud"
	FlagPotentialAbuse ReviewFlag = "Potential Abuse"
	FlagPotentialWaste ReviewFlag = "Potential Waste"
	FlagInconsistent   ReviewFlag = "Inconsistent Data"
	FlagMissingInfo    ReviewFlag = "Missing Critical Information"
	FlagPatternAnomaly ReviewFlag = "Pattern Anomaly"
	FlagDataEntryError ReviewFlag = "Data Entry Error"
	FlagUnbundling     ReviewFlag = "Unbundling"
)

// AllReviewFlags lists every review flag in presentation order.
var AllReviewFlags = []ReviewFlag{
	FlagPotentialFraud,
	FlagPotentialAbuse,
	FlagPotentialWaste,
	FlagInconsistent,
	FlagMissingInfo,
	FlagPatternAnomaly,
	FlagDataEntryError,
	FlagUnbundling,
}

var validReviewFlags = map[ReviewFlag]bool{
	FlagPotentialFraud: true,
	FlagPotentialAbuse: true,
	FlagPotentialWaste: true,
	FlagInconsistent:   true,
	FlagMissingInfo:    true,
	FlagPatternAnomaly: true,
	FlagDataEntryError: true,
	FlagUnbundling:     true,
}

func (f ReviewFlag) Valid() bool { return validReviewFlags[f] }

// Flagged reports whether the claim should surface on the attention queue:
// elevated risk or an operational audit flag.
func (c *Claim) Flagged() bool {
	return c.RiskLevel.Elevated() || c.Status == StatusFlaggedForAudit
}

// AppendAudit adds an event to the audit trail and bumps LastUpdateDate.
func (c *Claim) AppendAudit(at time.Time, event, user, details string) {
	c.AuditTrail = append(c.AuditTrail, AuditEvent{
		Timestamp: at,
		Event:     event,
		User:      user,
		Details:   details,
	})
	c.LastUpdateDate = at
}
