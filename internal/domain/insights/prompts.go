package insights

import (
	"fmt"
	"strings"
	"time"

	"github.com/claimflow/claimflow/internal/domain/claims"
	"github.com/claimflow/claimflow/internal/domain/knowledge"
	"github.com/claimflow/claimflow/internal/platform/ai"
)

// Prompt template names, stable identifiers for stubbing and metrics.
const (
	PromptSummary     = "generateClaimSummaryPrompt"
	PromptFraud       = "detectClaimFraudPrompt"
	PromptTAT         = "predictTatPrompt"
	PromptCriticality = "assessClaimCriticalityPrompt"
	PromptChronology  = "generatePatientChronologyPrompt"
)

const summarySchema = `{
  "type": "object",
  "properties": {
    "summary": {"type": "string", "description": "A concise summary of the claim details."}
  },
  "required": ["summary"],
  "additionalProperties": false
}`

const fraudSchema = `{
  "type": "object",
  "properties": {
    "isFraudulent": {"type": "boolean", "description": "Whether the claim shows indicators of fraud, waste, or abuse."},
    "fraudProbability": {"type": "number", "minimum": 0, "maximum": 1, "description": "Estimated probability that the claim is fraudulent."},
    "fraudReason": {"type": "string", "description": "The primary indicators behind the assessment."},
    "recommendedAction": {"type": "string", "description": "Suggested next step for the investigator."}
  },
  "required": ["isFraudulent", "fraudProbability", "fraudReason"],
  "additionalProperties": false
}`

const tatSchema = `{
  "type": "object",
  "properties": {
    "predictedTat": {"type": "string", "description": "The predicted turnaround time for the claim in days or weeks."},
    "confidenceScore": {"type": "number", "minimum": 0, "maximum": 1, "description": "Confidence level of the prediction."},
    "factors": {"type": "string", "description": "The key factors influencing the TAT prediction."}
  },
  "required": ["predictedTat", "confidenceScore", "factors"],
  "additionalProperties": false
}`

const criticalitySchema = `{
  "type": "object",
  "properties": {
    "isCritical": {"type": "boolean", "description": "Whether the claim is critical based on the conceptual pairing of diagnosis and procedure information."},
    "reason": {"type": "string", "description": "The primary reason for the criticality assessment."},
    "suggestedPathway": {"type": "string", "enum": ["Critical", "Non-Critical", "Undetermined"], "description": "The suggested pathway based on the criticality assessment."}
  },
  "required": ["isCritical", "reason", "suggestedPathway"],
  "additionalProperties": false
}`

const chronologySchema = `{
  "type": "object",
  "properties": {
    "chronology": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "eventDate": {"type": "string", "description": "ISO timestamp or date of the event."},
          "eventName": {"type": "string", "description": "A concise description of the event."},
          "source": {"type": "string", "description": "The source of the information."},
          "details": {"type": "string", "description": "Additional details about the event."},
          "isPredicted": {"type": "boolean", "description": "True if this event is a prediction based on logical gaps."}
        },
        "required": ["eventDate", "eventName", "source", "isPredicted"],
        "additionalProperties": false
      }
    }
  },
  "required": ["chronology"],
  "additionalProperties": false
}`

func summaryRequest(c *claims.Claim) ai.Request {
	details := c.ClaimDetailsFull
	if c.MedicalRecordSummary != "" {
		details += "\n\nMedical Record Summary: " + c.MedicalRecordSummary
	}
	return ai.Request{
		Name:   PromptSummary,
		System: "You are an expert claim summarizer.",
		Prompt: fmt.Sprintf(`Please summarize the following claim details, extracting the most important information for an auditor. Pay attention to the core diagnosis, key procedures, and any narrative details from medical professionals mentioned in the text that might influence the claim's validity or context.

Claim Details: %s`, details),
		Schema: summarySchema,
	}
}

func fraudRequest(c *claims.Claim) ai.Request {
	return ai.Request{
		Name:   PromptFraud,
		System: "You are an expert fraud, waste, and abuse investigator for health insurance claims.",
		Prompt: fmt.Sprintf(`Analyze the following claim for indicators of fraud, waste, or abuse. Consider unbundling, upcoding, phantom billing, duplicate services, and inconsistencies between the narrative and the billed codes. Weigh the member's claim history and the provider's standing.

Claim Details: %s
Medical Record Summary: %s
Member Details: %s
Provider Details: %s
Claim History: %s

Report whether the claim appears fraudulent, the probability (0-1), the primary indicators behind your assessment, and a recommended action for the investigator.`,
			c.ClaimDetailsFull, c.MedicalRecordSummary, c.MemberDetailsContext, c.ProviderDetailsContext, c.ClaimHistorySummary),
		Schema: fraudSchema,
	}
}

func tatRequest(c *claims.Claim) ai.Request {
	return ai.Request{
		Name:   PromptTAT,
		System: "You are an expert claim processing time predictor.",
		Prompt: fmt.Sprintf(`You will be given information about a claim, the member, the provider, and the member's claim history. Based on this information, you will predict the turnaround time (TAT).

Key Factors to Consider:
1.  **Claim Complexity**: Simple claims (e.g., routine check-up) have a shorter TAT. Complex surgeries have a longer TAT.
2.  **Data Quality & Credibility**: Analyze the claim details. A claim with clear, complete information and notes from a specialist will likely have a shorter TAT. A claim with vague, contradictory, or missing information will have a longer TAT as it will require manual review.
3.  **Member & Provider History**: A member with a clean claim history or a provider in good standing might lead to a shorter TAT. Conversely, a history of flagged claims will increase TAT.
4.  **Flags & Audits**: If the claim has characteristics of potential Fraud, Waste, or Abuse (FWA), the TAT will be significantly longer.

Claim Details (Medical Summary): %s
Member Details: %s
Provider Details: %s
Claim History: %s

Based on these factors, predict the TAT, your confidence level (0-1), and list the primary factors that influenced your prediction.`,
			claimDetailsWithSummary(c), c.MemberDetailsContext, c.ProviderDetailsContext, c.ClaimHistorySummary),
		Schema: tatSchema,
	}
}

func claimDetailsWithSummary(c *claims.Claim) string {
	if c.MedicalRecordSummary == "" {
		return c.ClaimDetailsFull
	}
	return c.ClaimDetailsFull + "\n" + c.MedicalRecordSummary
}

func criticalityRequest(in CriticalityInput, exemplars []knowledge.Exemplar) ai.Request {
	var b strings.Builder
	b.WriteString(`Your knowledge base contains 'MedicalConcepts' and 'ClinicalPairings'.

You will be given 'diagnosisInformation' and 'procedureOrInterventionInformation' for a claim. These inputs can be codes or natural language terms.

Your task is to:
1. Interpret the provided 'diagnosisInformation' and 'procedureOrInterventionInformation'. Attempt to map them to the most relevant MedicalConcepts.
2. Once you have inferred the core MedicalConcepts, evaluate the pairing between the inferred diagnosis concept(s) and the inferred procedure/intervention concept(s).
3. Consult your knowledge of ClinicalPairings. A claim is CRITICAL if the conceptual pairing suggests a highly severe, complex, urgent, or life-threatening medical situation. Your assessment should focus on the *interaction* and *implication* of these conceptual pairings.
4. Also consider any narrative details within the information provided. For example, if a note from a specialist confirms an urgent condition, this increases the likelihood of criticality.
`)

	var critical, nonCritical []knowledge.Exemplar
	for _, ex := range exemplars {
		if ex.IsCritical {
			critical = append(critical, ex)
		} else {
			nonCritical = append(nonCritical, ex)
		}
	}
	if len(critical) > 0 {
		b.WriteString("\nExamples of CRITICAL conceptual pairings:\n")
		for _, ex := range critical {
			fmt.Fprintf(&b, "- Diagnosis Concept %q paired with Procedure Concept %q. (%s)\n", ex.Diagnosis, ex.Procedure, ex.Reason)
		}
	}
	if len(nonCritical) > 0 {
		b.WriteString("\nExamples of NON-CRITICAL conceptual pairings:\n")
		for _, ex := range nonCritical {
			fmt.Fprintf(&b, "- Diagnosis Concept %q paired with Procedure Concept %q.\n", ex.Diagnosis, ex.Procedure)
		}
	}

	b.WriteString("\nProvided Claim Information:\nDiagnosis Information:\n")
	for _, d := range in.DiagnosisInformation {
		fmt.Fprintf(&b, "- %s\n", d)
	}
	b.WriteString("\nProcedure/Intervention Information:\n")
	for _, p := range in.ProcedureInformation {
		fmt.Fprintf(&b, "- %s\n", p)
	}
	b.WriteString(`
Based on your assessment of these conceptual pairings and any supporting narrative:
1. Determine if the claim is critical ('isCritical').
2. Provide a concise 'reason' for your determination, specifically explaining how the combination of the inferred diagnosis and procedure/intervention concepts led to your conclusion.
3. Suggest the pathway ('suggestedPathway') as 'Critical' or 'Non-Critical'. If unable to determine, use 'Undetermined'.`)

	return ai.Request{
		Name:   PromptCriticality,
		System: "You are an expert medical claims adjudicator specializing in determining claim criticality.",
		Prompt: b.String(),
		Schema: criticalitySchema,
	}
}

func chronologyRequest(c *claims.Claim) ai.Request {
	var b strings.Builder
	b.WriteString(`Your task is to construct a clear, chronological timeline of a patient's journey based on the provided claim data.
Synthesize information from the claim details narrative, the medical record summary, and the audit trail.

Instructions:
1.  Identify all key events mentioned in the provided data. Extract or infer the date and time for each event.
2.  Events include: patient admission, specific procedures, consultations, medication administration, key observations from notes, discharge, and claim processing milestones from the audit trail.
3.  Sort all identified events chronologically from oldest to newest.
4.  If there are logical gaps in the timeline (e.g., a gap between surgery and discharge), predict a plausible intermediate event (e.g., "Post-operative recovery period"). For any predicted event, you MUST set 'isPredicted' to true and briefly state the basis for the prediction in the 'details' field.
5.  For each event, specify the 'source' of the information (e.g., 'Medical Record', 'Claim Submission', 'Audit Trail', 'AI Prediction').
6.  Return the final timeline as an array of events.

`)
	fmt.Fprintf(&b, "Claim Submission Date: %s\n\nKnown Service Dates:\n", c.SubmissionDate.Format(time.RFC3339))
	for _, li := range c.LineItems {
		fmt.Fprintf(&b, "- %s\n", li.ServiceDate.Format("2006-01-02"))
	}
	fmt.Fprintf(&b, "\nClaim Details Narrative:\n%s\n\nMedical Record Summary:\n%s\n\nClaim Processing Audit Trail:\n", c.ClaimDetailsFull, c.MedicalRecordSummary)
	for _, ev := range c.AuditTrail {
		fmt.Fprintf(&b, "- %s: %s by %s (Details: %s)\n", ev.Timestamp.Format(time.RFC3339), ev.Event, ev.User, ev.Details)
	}

	return ai.Request{
		Name:   PromptChronology,
		System: "You are an expert medical data analyst.",
		Prompt: b.String(),
		Schema: chronologySchema,
	}
}
