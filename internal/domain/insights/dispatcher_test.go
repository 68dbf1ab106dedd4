package insights

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/claimflow/claimflow/internal/domain/claims"
	"github.com/claimflow/claimflow/internal/platform/ai"
)

func respondAll(stub *ai.StubBackend) *ai.StubBackend {
	stub.Respond(PromptSummary, `{"summary":"Routine inpatient claim."}`)
	stub.Respond(PromptFraud, `{"isFraudulent":false,"fraudProbability":0.05,"fraudReason":"No anomalies."}`)
	stub.Respond(PromptTAT, `{"predictedTat":"5-7 days","confidenceScore":0.8,"factors":"Clean documentation."}`)
	stub.Respond(PromptCriticality, `{"isCritical":false,"reason":"Routine pairing.","suggestedPathway":"Non-Critical"}`)
	stub.Respond(PromptChronology, `{"chronology":[{"eventDate":"2025-05-25","eventName":"Admission","source":"Medical Record","isPredicted":false}]}`)
	return stub
}

func newTestDispatcher(t *testing.T, backend ai.Backend) (*Dispatcher, *Tracker, *claims.Claim) {
	t.Helper()
	svc := claims.NewService(claims.NewRepoMem())
	svc.SetClock(func() time.Time { return testNow })
	claim := testClaim()
	if err := svc.Create(context.Background(), claim); err != nil {
		t.Fatalf("seed claim: %v", err)
	}

	gen := NewGenerator(GeneratorConfig{Backend: backend, Logger: zerolog.Nop()})
	gen.SetClock(func() time.Time { return testNow })
	tracker := newTestTracker()
	d := NewDispatcher(svc, gen, NewRecordRepoMem(), tracker, zerolog.Nop())
	d.SetClock(func() time.Time { return testNow })
	return d, tracker, claim
}

func TestRefreshAll_StoresEveryKind(t *testing.T) {
	d, _, claim := newTestDispatcher(t, respondAll(ai.NewStubBackend()))

	if err := d.RefreshAll(context.Background(), claim.ID); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	recs, err := d.records.ListByClaim(context.Background(), claim.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != len(AllKinds) {
		t.Fatalf("records = %d, want %d", len(recs), len(AllKinds))
	}
	for _, rec := range recs {
		if rec.Failed {
			t.Errorf("%s unexpectedly failed: %s", rec.Kind, rec.FailureMessage)
		}
		if len(rec.Payload) == 0 {
			t.Errorf("%s has empty payload", rec.Kind)
		}
	}
}

func TestRefreshAll_FailureIsolation(t *testing.T) {
	stub := respondAll(ai.NewStubBackend())
	stub.Fail(PromptTAT, errors.New("model overloaded"))
	d, _, claim := newTestDispatcher(t, stub)

	if err := d.RefreshAll(context.Background(), claim.ID); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	recs, err := d.records.ListByClaim(context.Background(), claim.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != len(AllKinds) {
		t.Fatalf("records = %d, want %d: one failure must not block the rest", len(recs), len(AllKinds))
	}
	for _, rec := range recs {
		if rec.Kind == KindTAT {
			if !rec.Failed {
				t.Error("tat record should be marked failed")
			}
			var tat TATPrediction
			if err := json.Unmarshal(rec.Payload, &tat); err != nil {
				t.Fatalf("decode tat payload: %v", err)
			}
			if tat.PredictedTAT != "Unavailable" {
				t.Errorf("tat fallback = %+v", tat)
			}
			continue
		}
		if rec.Failed {
			t.Errorf("%s failed alongside tat: %s", rec.Kind, rec.FailureMessage)
		}
	}
}

func TestRefreshAll_ResetsFeedback(t *testing.T) {
	d, tracker, claim := newTestDispatcher(t, respondAll(ai.NewStubBackend()))
	ctx := context.Background()

	if err := d.RefreshAll(ctx, claim.ID); err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	if _, err := tracker.Accept(ctx, claim.ID, KindSummary); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := tracker.Override(ctx, claim.ID, KindFraud, "known clean provider"); err != nil {
		t.Fatalf("override: %v", err)
	}

	if err := d.RefreshAll(ctx, claim.ID); err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	all, err := tracker.StatusAll(ctx, claim.ID)
	if err != nil {
		t.Fatalf("status all: %v", err)
	}
	for _, fb := range all {
		if fb.Status != FeedbackPending {
			t.Errorf("%s status = %s after regeneration, want pending", fb.Kind, fb.Status)
		}
	}
}

func TestRefreshAll_UnknownClaim(t *testing.T) {
	d, _, _ := newTestDispatcher(t, respondAll(ai.NewStubBackend()))

	err := d.RefreshAll(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected error for unknown claim")
	}
	if !errors.Is(err, claims.ErrNotFound) {
		t.Errorf("error = %v, want claims.ErrNotFound in chain", err)
	}
}

func TestSnapshot_PairsFeedback(t *testing.T) {
	d, tracker, claim := newTestDispatcher(t, respondAll(ai.NewStubBackend()))
	ctx := context.Background()

	if err := d.RefreshAll(ctx, claim.ID); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if _, err := tracker.Accept(ctx, claim.ID, KindChronology); err != nil {
		t.Fatalf("accept: %v", err)
	}

	views, err := d.Snapshot(ctx, claim.ID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(views) != len(AllKinds) {
		t.Fatalf("views = %d, want %d", len(views), len(AllKinds))
	}
	for _, v := range views {
		if v.Feedback == nil {
			t.Fatalf("%s view has no feedback", v.Kind)
		}
		want := FeedbackPending
		if v.Kind == KindChronology {
			want = FeedbackAccepted
		}
		if v.Feedback.Status != want {
			t.Errorf("%s feedback = %s, want %s", v.Kind, v.Feedback.Status, want)
		}
	}
	// Stable dispatch order.
	for i, v := range views {
		if v.Kind != AllKinds[i] {
			t.Errorf("view %d kind = %s, want %s", i, v.Kind, AllKinds[i])
		}
	}
}
