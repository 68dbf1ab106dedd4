package intake

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/claimflow/claimflow/internal/platform/ai"
)

// PromptEnrich names the enrichment prompt template.
const PromptEnrich = "enrichClaimDataPrompt"

const dateLayout = "2006-01-02"

// modelEnrichment is the slice of the output the model is trusted to
// produce. Everything else is echoed from the input or computed locally.
type modelEnrichment struct {
	ProviderFullAddress     string `json:"providerFullAddress"`
	ProviderType            string `json:"providerType"`
	ServiceDate             string `json:"serviceDate"`
	EnrichedNotes           string `json:"enrichedNotes"`
	AIDataQualityAssessment string `json:"aiDataQualityAssessment"`
	AIReviewNotes           string `json:"aiReviewNotes"`
	AIAmountAssessmentNotes string `json:"aiAmountAssessmentNotes"`
}

const enrichSchema = `{
  "type": "object",
  "properties": {
    "providerFullAddress": {"type": "string", "description": "Plausible full address for the provider, as if looked up from an external directory."},
    "providerType": {"type": "string", "description": "Plausible type of the provider (e.g., 'General Hospital', 'Specialty Clinic'), as if looked up."},
    "serviceDate": {"type": "string", "description": "The date services were rendered, YYYY-MM-DD. If originally missing, a predicted date on or before the submission date."},
    "enrichedNotes": {"type": "string", "description": "Notes about the enrichment process."},
    "aiDataQualityAssessment": {"type": "string", "enum": ["Clean", "RequiresReview"], "description": "Assessment of the initial data quality after enrichment attempts."},
    "aiReviewNotes": {"type": "string", "description": "Why review is required, when applicable."},
    "aiAmountAssessmentNotes": {"type": "string", "description": "Plausibility of the claim amount relative to the described services."}
  },
  "required": ["providerFullAddress", "providerType", "serviceDate", "aiDataQualityAssessment"],
  "additionalProperties": false
}`

type Service struct {
	backend ai.Backend
	timeout time.Duration
	log     zerolog.Logger
}

func NewService(backend ai.Backend, timeout time.Duration, log zerolog.Logger) *Service {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Service{backend: backend, timeout: timeout, log: log}
}

// seasonOf maps a date to its Northern Hemisphere season.
func seasonOf(t time.Time) string {
	switch t.Month() {
	case time.March, time.April, time.May:
		return "Spring"
	case time.June, time.July, time.August:
		return "Summer"
	case time.September, time.October, time.November:
		return "Autumn"
	default:
		return "Winter"
	}
}

func validateInput(in EnrichInput) (time.Time, error) {
	required := []struct {
		field string
		value string
	}{
		{"patientName", in.PatientName},
		{"memberId", in.MemberID},
		{"policyNumber", in.PolicyNumber},
		{"providerName", in.ProviderName},
		{"submissionDate", in.SubmissionDate},
		{"claimSource", in.ClaimSource},
		{"claimType", in.ClaimType},
		{"diagnosisInfo", in.DiagnosisInfo},
		{"procedureInfo", in.ProcedureInfo},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return time.Time{}, fmt.Errorf("%s is required", r.field)
		}
	}
	if in.ClaimAmount <= 0 {
		return time.Time{}, fmt.Errorf("claimAmount must be positive")
	}
	submitted, err := time.Parse(dateLayout, in.SubmissionDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("submissionDate must be YYYY-MM-DD: %w", err)
	}
	if in.ServiceDate != "" {
		service, err := time.Parse(dateLayout, in.ServiceDate)
		if err != nil {
			return time.Time{}, fmt.Errorf("serviceDate must be YYYY-MM-DD: %w", err)
		}
		if service.After(submitted) {
			return time.Time{}, fmt.Errorf("serviceDate %s is after submissionDate %s", in.ServiceDate, in.SubmissionDate)
		}
	}
	return submitted, nil
}

func enrichRequest(in EnrichInput) ai.Request {
	return ai.Request{
		Name:   PromptEnrich,
		System: "You are an expert data enrichment and quality assessment AI for healthcare claims.",
		Prompt: fmt.Sprintf(`You will receive simulated claim data. Your task is to:
1.  If 'Service Date' is missing or empty, predict a plausible 'serviceDate' based on the 'Submission Date'. It must be on or before the 'Submission Date'. If 'Service Date' is provided, return it unchanged.
2.  For the given 'Provider Name', generate a plausible 'providerFullAddress' and 'providerType' (e.g., "General Hospital", "Specialty Clinic", "Private Practice"). Imagine you are looking this up in a directory.
3.  Assess the overall quality of the provided input data after your enrichment attempts.
    - If the input data seems reasonably complete and unambiguous, and your enrichment attempts were successful, set 'aiDataQualityAssessment' to 'Clean' and 'aiReviewNotes' to "Data appears suitable for further processing."
    - If critical information is missing and cannot be plausibly inferred (e.g., provider name is too vague for address lookup, diagnosis/procedure info is nonsensical), or if there are significant contradictions, set 'aiDataQualityAssessment' to 'RequiresReview' and briefly explain why in 'aiReviewNotes'.
4.  Based on the diagnosis, procedure, and claim amount, provide an assessment in 'aiAmountAssessmentNotes' regarding the plausibility of the claim amount. Note if it seems unusually high or low for the described services, or if it appears reasonable. State if a detailed line item review would be beneficial.
5.  Add any relevant general 'enrichedNotes' about the process, for example, if you predicted a date or details about the provider lookup simulation.

Input Data:
Patient Name: %s
Member ID: %s
Policy Number: %s
Provider Name: %s
Claim Amount: %.2f
Submission Date: %s
Service Date: %s
Claim Source: %s
Claim Type: %s
Diagnosis Info: %s
Procedure Info: %s
Claim Scenario Details: %s`,
			in.PatientName, in.MemberID, in.PolicyNumber, in.ProviderName,
			in.ClaimAmount, in.SubmissionDate, in.ServiceDate,
			in.ClaimSource, in.ClaimType, in.DiagnosisInfo, in.ProcedureInfo,
			in.ClaimScenarioDetails),
		Schema: enrichSchema,
	}
}

// Enrich runs the intake enrichment. Unlike the claim-level insights there
// is no fallback payload: the caller is an interactive form and retries, so
// backend failures surface as errors.
func (s *Service) Enrich(ctx context.Context, in EnrichInput) (*EnrichOutput, error) {
	submitted, err := validateInput(in)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.backend.Complete(ctx, enrichRequest(in))
	if err != nil {
		return nil, ai.Classify(err)
	}
	me, err := ai.DecodeStrict[modelEnrichment](raw)
	if err != nil {
		return nil, err
	}

	out := &EnrichOutput{
		PatientName:          in.PatientName,
		MemberID:             in.MemberID,
		PolicyNumber:         in.PolicyNumber,
		ProviderName:         in.ProviderName,
		ProviderFullAddress:  me.ProviderFullAddress,
		ProviderType:         me.ProviderType,
		ClaimAmount:          in.ClaimAmount,
		SubmissionDate:       in.SubmissionDate,
		ClaimSource:          in.ClaimSource,
		ClaimType:            in.ClaimType,
		DiagnosisInfo:        in.DiagnosisInfo,
		ProcedureInfo:        in.ProcedureInfo,
		ClaimScenarioDetails: in.ClaimScenarioDetails,
		SubmissionSeason:     seasonOf(submitted),
		EnrichedNotes:        me.EnrichedNotes,

		AIReviewNotes:           me.AIReviewNotes,
		AIAmountAssessmentNotes: me.AIAmountAssessmentNotes,
	}

	// The service date is only ever predicted when the submitter left it
	// blank, and a prediction never lands after the submission date.
	if in.ServiceDate != "" {
		out.ServiceDate = in.ServiceDate
		out.PredictedServiceDate = false
	} else {
		out.PredictedServiceDate = true
		out.ServiceDate = s.clampServiceDate(me.ServiceDate, submitted)
	}

	switch QualityAssessment(me.AIDataQualityAssessment) {
	case QualityClean:
		out.AIDataQualityAssessment = QualityClean
	case QualityRequiresReview:
		out.AIDataQualityAssessment = QualityRequiresReview
	default:
		out.AIDataQualityAssessment = QualityRequiresReview
		out.AIReviewNotes = "AI quality assessment was not explicitly provided by the model; defaulting to requires review."
	}
	if out.AIAmountAssessmentNotes == "" {
		out.AIAmountAssessmentNotes = "AI assessment of claim amount was not explicitly provided by the model."
	}
	return out, nil
}

func (s *Service) clampServiceDate(predicted string, submitted time.Time) string {
	t, err := time.Parse(dateLayout, predicted)
	if err != nil {
		s.log.Warn().Str("serviceDate", predicted).Msg("unparseable predicted service date, using submission date")
		return submitted.Format(dateLayout)
	}
	if t.After(submitted) {
		s.log.Warn().Str("serviceDate", predicted).Msg("predicted service date after submission, clamping")
		return submitted.Format(dateLayout)
	}
	return predicted
}
