package insights

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/claimflow/claimflow/internal/domain/claims"
	"github.com/claimflow/claimflow/internal/domain/knowledge"
	"github.com/claimflow/claimflow/internal/platform/ai"
)

var testNow = time.Date(2025, 6, 1, 17, 0, 0, 0, time.UTC)

// captureBackend records every request it sees before delegating.
type captureBackend struct {
	mu       sync.Mutex
	inner    ai.Backend
	requests []ai.Request
}

func (b *captureBackend) Complete(ctx context.Context, req ai.Request) ([]byte, error) {
	b.mu.Lock()
	b.requests = append(b.requests, req)
	b.mu.Unlock()
	return b.inner.Complete(ctx, req)
}

func (b *captureBackend) last() ai.Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests[len(b.requests)-1]
}

type stubExemplars struct{ exemplars []knowledge.Exemplar }

func (s *stubExemplars) CriticalExemplars(ctx context.Context, n int) ([]knowledge.Exemplar, error) {
	return s.exemplars, nil
}

type stubFindings struct {
	mu       sync.Mutex
	recorded []*knowledge.CriticalFinding
}

func (s *stubFindings) RecordFinding(ctx context.Context, f *knowledge.CriticalFinding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorded = append(s.recorded, f)
	return nil
}

func testClaim() *claims.Claim {
	return claims.Fixtures(testNow)[0]
}

func newTestGenerator(backend ai.Backend) *Generator {
	g := NewGenerator(GeneratorConfig{
		Backend: backend,
		Logger:  zerolog.Nop(),
	})
	g.SetClock(func() time.Time { return testNow })
	return g
}

func TestSummary_Success(t *testing.T) {
	stub := ai.NewStubBackend().Respond(PromptSummary, `{"summary":"Inpatient stay for appendectomy, routine recovery."}`)
	g := newTestGenerator(stub)

	res := g.Summary(context.Background(), testClaim())
	if res.Failed {
		t.Fatalf("unexpected failure: %s", res.FailureMessage)
	}
	if res.Data.Summary != "Inpatient stay for appendectomy, routine recovery." {
		t.Errorf("summary = %q", res.Data.Summary)
	}
}

func TestSummary_FallbackOnBackendError(t *testing.T) {
	stub := ai.NewStubBackend().Fail(PromptSummary, errors.New("connection refused"))
	g := newTestGenerator(stub)

	res := g.Summary(context.Background(), testClaim())
	if !res.Failed {
		t.Fatal("expected failed result")
	}
	if res.FailureKind != ai.FailureUnavailable {
		t.Errorf("failure kind = %s, want unavailable", res.FailureKind)
	}
	if res.Data == nil {
		t.Fatal("failed result must still carry a payload")
	}
	if !strings.Contains(res.Data.Summary, "unavailable") {
		t.Errorf("fallback summary = %q", res.Data.Summary)
	}
}

func TestSummary_MalformedResponse(t *testing.T) {
	stub := ai.NewStubBackend().Respond(PromptSummary, `the claim looks fine to me`)
	g := newTestGenerator(stub)

	res := g.Summary(context.Background(), testClaim())
	if !res.Failed || res.FailureKind != ai.FailureMalformed {
		t.Errorf("got failed=%v kind=%s, want malformed failure", res.Failed, res.FailureKind)
	}
}

func TestFraud_ProbabilityOutOfRange(t *testing.T) {
	stub := ai.NewStubBackend().Respond(PromptFraud,
		`{"isFraudulent":true,"fraudProbability":1.7,"fraudReason":"upcoding"}`)
	g := newTestGenerator(stub)

	res := g.Fraud(context.Background(), testClaim())
	if !res.Failed || res.FailureKind != ai.FailureMalformed {
		t.Errorf("got failed=%v kind=%s, want malformed failure", res.Failed, res.FailureKind)
	}
	if res.Data.IsFraudulent {
		t.Error("fallback must not carry a fraud verdict")
	}
}

func TestTAT_FallbackOnError(t *testing.T) {
	stub := ai.NewStubBackend().Fail(PromptTAT, errors.New("boom"))
	g := newTestGenerator(stub)

	res := g.TAT(context.Background(), testClaim())
	if !res.Failed {
		t.Fatal("expected failed result")
	}
	if res.Data.PredictedTAT != "Unavailable" || res.Data.ConfidenceScore != 0 {
		t.Errorf("fallback = %+v", res.Data)
	}
}

func TestCriticality_PromptCarriesExemplars(t *testing.T) {
	stub := ai.NewStubBackend().Respond(PromptCriticality,
		`{"isCritical":false,"reason":"Routine pairing.","suggestedPathway":"Non-Critical"}`)
	capture := &captureBackend{inner: stub}
	g := NewGenerator(GeneratorConfig{
		Backend: capture,
		Logger:  zerolog.Nop(),
		Exemplars: &stubExemplars{exemplars: []knowledge.Exemplar{
			{Diagnosis: "Acute Myocardial Infarction", Procedure: "Coronary Artery Bypass Graft", IsCritical: true, Reason: "Urgent revascularization."},
			{Diagnosis: "Common Cold", Procedure: "Rest and Hydration", IsCritical: false},
		}},
	})

	in := CriticalityInput{
		DiagnosisInformation: []string{"J00 (Common Cold)"},
		ProcedureInformation: []string{"rest and hydration"},
	}
	res := g.Criticality(context.Background(), in, "CN-2025-05-001")
	if res.Failed {
		t.Fatalf("unexpected failure: %s", res.FailureMessage)
	}

	prompt := capture.last().Prompt
	for _, want := range []string{
		"Acute Myocardial Infarction",
		"Common Cold",
		"CRITICAL conceptual pairings",
		"NON-CRITICAL conceptual pairings",
		"J00 (Common Cold)",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestCriticality_RecordsFindingOnCriticalVerdict(t *testing.T) {
	stub := ai.NewStubBackend().Respond(PromptCriticality,
		`{"isCritical":true,"reason":"AMI with CABG is a life-threatening pairing.","suggestedPathway":"Critical"}`)
	findings := &stubFindings{}
	g := NewGenerator(GeneratorConfig{Backend: stub, Logger: zerolog.Nop(), Findings: findings})
	g.SetClock(func() time.Time { return testNow })

	in := CriticalityInput{
		DiagnosisInformation: []string{"I21.3"},
		ProcedureInformation: []string{"36.10"},
	}
	res := g.Criticality(context.Background(), in, "CN-2025-05-006")
	if res.Failed || !res.Data.IsCritical {
		t.Fatalf("unexpected result: %+v", res)
	}

	if len(findings.recorded) != 1 {
		t.Fatalf("findings recorded = %d, want 1", len(findings.recorded))
	}
	f := findings.recorded[0]
	if f.Source != knowledge.SourceAIAssessment {
		t.Errorf("finding source = %s", f.Source)
	}
	if f.ClaimID != "CN-2025-05-006" {
		t.Errorf("finding claim = %s", f.ClaimID)
	}
	if f.Reason != res.Data.Reason {
		t.Errorf("finding reason = %q", f.Reason)
	}
}

func TestCriticality_PathwayBackfilled(t *testing.T) {
	stub := ai.NewStubBackend().Respond(PromptCriticality,
		`{"isCritical":true,"reason":"Severe pairing."}`)
	g := newTestGenerator(stub)

	res := g.Criticality(context.Background(), CriticalityInput{
		DiagnosisInformation: []string{"C34.90"},
		ProcedureInformation: []string{"32.4"},
	}, "")
	if res.Failed {
		t.Fatalf("unexpected failure: %s", res.FailureMessage)
	}
	if res.Data.SuggestedPathway != PathwayCritical {
		t.Errorf("pathway = %s, want Critical", res.Data.SuggestedPathway)
	}
}

func TestCriticality_FallbackIsUndetermined(t *testing.T) {
	stub := ai.NewStubBackend().Fail(PromptCriticality, errors.New("boom"))
	g := newTestGenerator(stub)

	res := g.Criticality(context.Background(), CriticalityInput{
		DiagnosisInformation: []string{"A01.0"},
		ProcedureInformation: []string{"99.21"},
	}, "")
	if !res.Failed {
		t.Fatal("expected failed result")
	}
	if res.Data.IsCritical || res.Data.SuggestedPathway != PathwayUndetermined {
		t.Errorf("fallback = %+v", res.Data)
	}
}

func TestChronology_EventsResorted(t *testing.T) {
	stub := ai.NewStubBackend().Respond(PromptChronology, `{
		"chronology": [
			{"eventDate":"2025-05-28","eventName":"Discharge","source":"Medical Record","isPredicted":false},
			{"eventDate":"2025-05-25","eventName":"Admission","source":"Medical Record","isPredicted":false},
			{"eventDate":"2025-05-26","eventName":"Post-operative recovery period","source":"AI Prediction","isPredicted":true}
		]
	}`)
	g := newTestGenerator(stub)

	res := g.Chronology(context.Background(), testClaim())
	if res.Failed {
		t.Fatalf("unexpected failure: %s", res.FailureMessage)
	}
	events := res.Data.Events
	if len(events) != 3 {
		t.Fatalf("events = %d, want 3", len(events))
	}
	for i := 1; i < len(events); i++ {
		prev, _ := parseEventDate(events[i-1].EventDate)
		cur, _ := parseEventDate(events[i].EventDate)
		if cur.Before(prev) {
			t.Errorf("events not ascending at index %d", i)
		}
	}
	if events[0].EventName != "Admission" {
		t.Errorf("first event = %s", events[0].EventName)
	}
	// Synthesized events always state their basis.
	for _, ev := range events {
		if ev.IsPredicted && ev.Details == "" {
			t.Errorf("predicted event %q has no details", ev.EventName)
		}
	}
}

func TestChronology_UndatedEventsKeepPosition(t *testing.T) {
	stub := ai.NewStubBackend().Respond(PromptChronology, `{
		"chronology": [
			{"eventDate":"2025-05-28","eventName":"Discharge","source":"Medical Record","isPredicted":false},
			{"eventDate":"shortly after admission","eventName":"Initial assessment","source":"Medical Record","isPredicted":false},
			{"eventDate":"2025-05-25","eventName":"Admission","source":"Medical Record","isPredicted":false}
		]
	}`)
	g := newTestGenerator(stub)

	res := g.Chronology(context.Background(), testClaim())
	if res.Failed {
		t.Fatalf("unexpected failure: %s", res.FailureMessage)
	}
	events := res.Data.Events
	if len(events) != 3 {
		t.Fatalf("events = %d, want 3", len(events))
	}
	// The dated events swap into order; the undated one stays where the
	// model put it instead of sorting to the front as a zero time.
	if events[0].EventName != "Admission" {
		t.Errorf("first event = %s, want Admission", events[0].EventName)
	}
	if events[1].EventName != "Initial assessment" {
		t.Errorf("second event = %s, want Initial assessment", events[1].EventName)
	}
	if events[2].EventName != "Discharge" {
		t.Errorf("third event = %s, want Discharge", events[2].EventName)
	}
}

func TestChronology_Fallback(t *testing.T) {
	stub := ai.NewStubBackend().Fail(PromptChronology, errors.New("boom"))
	g := newTestGenerator(stub)

	res := g.Chronology(context.Background(), testClaim())
	if !res.Failed {
		t.Fatal("expected failed result")
	}
	events := res.Data.Events
	if len(events) != 1 || events[0].EventName != "Error generating timeline" || events[0].Source != "System" {
		t.Errorf("fallback events = %+v", events)
	}
}

func TestTimeout_ClassifiedAsTimeout(t *testing.T) {
	stub := ai.NewStubBackend().Fail(PromptSummary, context.DeadlineExceeded)
	g := newTestGenerator(stub)

	res := g.Summary(context.Background(), testClaim())
	if res.FailureKind != ai.FailureTimeout {
		t.Errorf("failure kind = %s, want timeout", res.FailureKind)
	}
}
