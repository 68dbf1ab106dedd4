// Package intake accepts raw claim submissions and enriches them before
// they enter the pipeline.
package intake

// EnrichInput is the raw form submission. Dates are YYYY-MM-DD strings.
type EnrichInput struct {
	PatientName          string  `json:"patientName"`
	MemberID             string  `json:"memberId"`
	PolicyNumber         string  `json:"policyNumber"`
	ProviderName         string  `json:"providerName"`
	ClaimAmount          float64 `json:"claimAmount"`
	SubmissionDate       string  `json:"submissionDate"`
	ServiceDate          string  `json:"serviceDate,omitempty"`
	ClaimSource          string  `json:"claimSource"`
	ClaimType            string  `json:"claimType"`
	DiagnosisInfo        string  `json:"diagnosisInfo"`
	ProcedureInfo        string  `json:"procedureInfo"`
	ClaimScenarioDetails string  `json:"claimScenarioDetails,omitempty"`
}

// QualityAssessment is the intake-time verdict on the submitted data.
type QualityAssessment string

const (
	QualityClean          QualityAssessment = "Clean"
	QualityRequiresReview QualityAssessment = "RequiresReview"
)

// EnrichOutput is the enriched claim. Input fields are echoed from the
// submission itself; only the enrichment fields come from the model, and
// the season and service-date bound are computed here rather than trusted.
type EnrichOutput struct {
	PatientName          string  `json:"patientName"`
	MemberID             string  `json:"memberId"`
	PolicyNumber         string  `json:"policyNumber"`
	ProviderName         string  `json:"providerName"`
	ProviderFullAddress  string  `json:"providerFullAddress"`
	ProviderType         string  `json:"providerType"`
	ClaimAmount          float64 `json:"claimAmount"`
	SubmissionDate       string  `json:"submissionDate"`
	ServiceDate          string  `json:"serviceDate"`
	PredictedServiceDate bool    `json:"predictedServiceDate"`
	ClaimSource          string  `json:"claimSource"`
	ClaimType            string  `json:"claimType"`
	DiagnosisInfo        string  `json:"diagnosisInfo"`
	ProcedureInfo        string  `json:"procedureInfo"`
	ClaimScenarioDetails string  `json:"claimScenarioDetails,omitempty"`
	SubmissionSeason     string  `json:"submissionSeason"`
	EnrichedNotes        string  `json:"enrichedNotes"`

	AIDataQualityAssessment QualityAssessment `json:"aiDataQualityAssessment"`
	AIReviewNotes           string            `json:"aiReviewNotes"`
	AIAmountAssessmentNotes string            `json:"aiAmountAssessmentNotes"`
}
