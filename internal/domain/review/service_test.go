package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/claimflow/claimflow/internal/domain/claims"
)

var testNow = time.Date(2025, 6, 1, 17, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *claims.Service, *claims.Claim) {
	t.Helper()
	claimSvc := claims.NewService(claims.NewRepoMem())
	claimSvc.SetClock(func() time.Time { return testNow })
	claim := claims.Fixtures(testNow)[0]
	if err := claimSvc.Create(context.Background(), claim); err != nil {
		t.Fatalf("seed claim: %v", err)
	}

	svc := NewService(claimSvc)
	svc.SetClock(func() time.Time { return testNow })
	return svc, claimSvc, claim
}

func TestSubmit_AcceptedCleanRoutesToProcessed(t *testing.T) {
	svc, claimSvc, claim := newTestService(t)

	out, err := svc.Submit(context.Background(), claim.ID, Submission{
		Status: claims.ReviewAcceptedClean,
		Notes:  "Documentation is complete and consistent.",
	}, "dr.rina")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !out.StatusChanged || out.Unresolved {
		t.Errorf("outcome = %+v", out)
	}

	stored, err := claimSvc.Get(context.Background(), claim.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.ProcessingStatus != claims.ProcessingProcessed {
		t.Errorf("processing status = %s, want Processed", stored.ProcessingStatus)
	}
	r := stored.DataQualityReview
	if r == nil {
		t.Fatal("review not stored")
	}
	if r.ReviewedBy != "dr.rina" {
		t.Errorf("reviewedBy = %s", r.ReviewedBy)
	}
	if r.ReviewDate == nil || !r.ReviewDate.Equal(testNow) {
		t.Errorf("reviewDate = %v", r.ReviewDate)
	}
}

func TestSubmit_FlaggedRoutesToReviewRequired(t *testing.T) {
	for _, status := range []claims.ReviewStatus{claims.ReviewFlaggedFWA, claims.ReviewRequiresCorrection} {
		t.Run(string(status), func(t *testing.T) {
			svc, claimSvc, claim := newTestService(t)

			out, err := svc.Submit(context.Background(), claim.ID, Submission{
				Status: status,
				Flags:  []claims.ReviewFlag{claims.FlagUnbundling},
				Notes:  "Line items look split to inflate reimbursement.",
			}, "auditor.agus")
			if err != nil {
				t.Fatalf("submit: %v", err)
			}
			if !out.StatusChanged {
				t.Error("expected processing status change")
			}

			stored, _ := claimSvc.Get(context.Background(), claim.ID)
			if stored.ProcessingStatus != claims.ProcessingReviewRequired {
				t.Errorf("processing status = %s, want ReviewRequired", stored.ProcessingStatus)
			}
		})
	}
}

func TestSubmit_ExcludeLeavesStatusUntouched(t *testing.T) {
	svc, claimSvc, claim := newTestService(t)
	before := claim.ProcessingStatus

	out, err := svc.Submit(context.Background(), claim.ID, Submission{
		Status: claims.ReviewExcludeFromAI,
		Notes:  "Atypical case, not representative for training.",
	}, "dr.rina")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.StatusChanged {
		t.Error("exclude verdict must not move the pipeline")
	}
	if !out.Unresolved {
		t.Error("exclude verdict must surface as unresolved")
	}

	stored, _ := claimSvc.Get(context.Background(), claim.ID)
	if stored.ProcessingStatus != before {
		t.Errorf("processing status moved from %s to %s", before, stored.ProcessingStatus)
	}
	if stored.DataQualityReview == nil || stored.DataQualityReview.Status != claims.ReviewExcludeFromAI {
		t.Error("review verdict not stored")
	}
}

func TestSubmit_RejectsBeforeMutation(t *testing.T) {
	cases := []struct {
		name string
		sub  Submission
	}{
		{"no decision", Submission{Status: claims.ReviewNoDecision}},
		{"unknown status", Submission{Status: "Looks Fine"}},
		{"unknown flag", Submission{
			Status: claims.ReviewFlaggedFWA,
			Flags:  []claims.ReviewFlag{"Suspicious Vibes"},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, claimSvc, claim := newTestService(t)
			statusBefore := claim.DataQualityReview.Status
			trailBefore := len(claim.AuditTrail)

			_, err := svc.Submit(context.Background(), claim.ID, tc.sub, "dr.rina")
			if err == nil {
				t.Fatal("expected validation error")
			}
			stored, _ := claimSvc.Get(context.Background(), claim.ID)
			if stored.DataQualityReview.Status != statusBefore {
				t.Error("rejected submission mutated the stored review")
			}
			if stored.ProcessingStatus != claim.ProcessingStatus {
				t.Error("rejected submission moved processing status")
			}
			if len(stored.AuditTrail) != trailBefore {
				t.Error("rejected submission left an audit entry")
			}
		})
	}
}

func TestSubmit_NoDecisionSentinel(t *testing.T) {
	svc, _, claim := newTestService(t)

	_, err := svc.Submit(context.Background(), claim.ID, Submission{Status: claims.ReviewNoDecision}, "dr.rina")
	if !errors.Is(err, ErrNoDecision) {
		t.Errorf("error = %v, want ErrNoDecision", err)
	}
}

func TestSubmit_RequiresReviewer(t *testing.T) {
	svc, _, claim := newTestService(t)

	if _, err := svc.Submit(context.Background(), claim.ID, Submission{Status: claims.ReviewAcceptedClean}, ""); err == nil {
		t.Error("expected error for missing reviewer")
	}
}

func TestSubmit_ReplacesWholesale(t *testing.T) {
	svc, claimSvc, claim := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, claim.ID, Submission{
		Status: claims.ReviewFlaggedFWA,
		Flags:  []claims.ReviewFlag{claims.FlagPotentialFraud, claims.FlagPatternAnomaly},
		Notes:  "Initial suspicion.",
	}, "auditor.agus"); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	if _, err := svc.Submit(ctx, claim.ID, Submission{
		Status: claims.ReviewAcceptedClean,
		Notes:  "Cleared after provider clarification.",
	}, "dr.rina"); err != nil {
		t.Fatalf("second submit: %v", err)
	}

	stored, _ := claimSvc.Get(ctx, claim.ID)
	r := stored.DataQualityReview
	if r.Status != claims.ReviewAcceptedClean {
		t.Errorf("status = %s", r.Status)
	}
	if len(r.Flags) != 0 {
		t.Errorf("old flags survived replacement: %v", r.Flags)
	}
	if r.ReviewedBy != "dr.rina" {
		t.Errorf("reviewedBy = %s", r.ReviewedBy)
	}
	if stored.ProcessingStatus != claims.ProcessingProcessed {
		t.Errorf("processing status = %s", stored.ProcessingStatus)
	}
}

func TestSubmit_AppendsAudit(t *testing.T) {
	svc, claimSvc, claim := newTestService(t)
	trailBefore := len(claim.AuditTrail)

	if _, err := svc.Submit(context.Background(), claim.ID, Submission{
		Status: claims.ReviewAcceptedClean,
	}, "dr.rina"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	stored, _ := claimSvc.Get(context.Background(), claim.ID)
	if len(stored.AuditTrail) != trailBefore+1 {
		t.Fatalf("audit trail = %d entries, want %d", len(stored.AuditTrail), trailBefore+1)
	}
	last := stored.AuditTrail[len(stored.AuditTrail)-1]
	if last.Event != "Data Quality Review Submitted" || last.User != "dr.rina" {
		t.Errorf("audit entry = %+v", last)
	}
}

func TestGet_NoReview(t *testing.T) {
	svc, claimSvc, _ := newTestService(t)

	fresh := &claims.Claim{
		ClaimNumber: "CN-2025-06-100",
		PatientName: "Test Patient",
		Status:      claims.StatusSubmitted,
		RiskLevel:   claims.RiskLow,
	}
	if err := claimSvc.Create(context.Background(), fresh); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Get(context.Background(), fresh.ID); !errors.Is(err, ErrNoReview) {
		t.Errorf("error = %v, want ErrNoReview", err)
	}
}
