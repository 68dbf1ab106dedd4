package claims

import (
	"context"
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 1, 17, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, Repository) {
	t.Helper()
	repo := NewRepoMem()
	svc := NewService(repo)
	svc.SetClock(func() time.Time { return testNow })
	return svc, repo
}

func seedFixtures(t *testing.T, svc *Service) []*Claim {
	t.Helper()
	fixtures := Fixtures(testNow)
	for _, c := range fixtures {
		if err := svc.Create(context.Background(), c); err != nil {
			t.Fatalf("seed %s: %v", c.ClaimNumber, err)
		}
	}
	return fixtures
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	fixtures := seedFixtures(t, svc)

	want := fixtures[0]
	got, err := svc.Get(context.Background(), want.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got.ClaimNumber != want.ClaimNumber {
		t.Errorf("claimNumber = %s, want %s", got.ClaimNumber, want.ClaimNumber)
	}
	if got.PatientName != want.PatientName {
		t.Errorf("patientName = %s, want %s", got.PatientName, want.PatientName)
	}
	if !got.SubmissionDate.Equal(want.SubmissionDate) {
		t.Errorf("submissionDate = %v, want %v", got.SubmissionDate, want.SubmissionDate)
	}
	if len(got.LineItems) != len(want.LineItems) {
		t.Fatalf("lineItems len = %d, want %d", len(got.LineItems), len(want.LineItems))
	}
	if got.LineItems[1].ProcedureCode != want.LineItems[1].ProcedureCode {
		t.Errorf("line item code = %s, want %s", got.LineItems[1].ProcedureCode, want.LineItems[1].ProcedureCode)
	}
	if got.DataQualityReview == nil || got.DataQualityReview.Status != want.DataQualityReview.Status {
		t.Errorf("dataQualityReview not preserved: %+v", got.DataQualityReview)
	}
	if len(got.AuditTrail) != len(want.AuditTrail) {
		t.Errorf("auditTrail len = %d, want %d", len(got.AuditTrail), len(want.AuditTrail))
	}
}

func TestGetByClaimNumber(t *testing.T) {
	svc, _ := newTestService(t)
	seedFixtures(t, svc)

	got, err := svc.GetByClaimNumber(context.Background(), "CN-2025-05-005")
	if err != nil {
		t.Fatalf("get by claim number: %v", err)
	}
	if got.PatientName != "Agus Wijaya" {
		t.Errorf("patientName = %s, want Agus Wijaya", got.PatientName)
	}

	if _, err := svc.GetByClaimNumber(context.Background(), "CN-DOES-NOT-EXIST"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdate_ReindexesClaimNumber(t *testing.T) {
	svc, _ := newTestService(t)
	fixtures := seedFixtures(t, svc)

	claim := fixtures[0]
	oldNumber := claim.ClaimNumber
	claim.ClaimNumber = "CN-2025-06-RENUMBERED"
	if err := svc.Update(context.Background(), claim); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := svc.GetByClaimNumber(context.Background(), "CN-2025-06-RENUMBERED")
	if err != nil {
		t.Fatalf("get by new number: %v", err)
	}
	if got.ID != claim.ID {
		t.Errorf("new number resolves to %s, want %s", got.ID, claim.ID)
	}

	// The old number must not linger in the index.
	if _, err := svc.GetByClaimNumber(context.Background(), oldNumber); err != ErrNotFound {
		t.Errorf("old number lookup = %v, want ErrNotFound", err)
	}
}

func TestRecent_OrderAndBound(t *testing.T) {
	svc, _ := newTestService(t)
	seedFixtures(t, svc)

	for _, n := range []int{1, 3, 100} {
		items, err := svc.Recent(context.Background(), n)
		if err != nil {
			t.Fatalf("recent(%d): %v", n, err)
		}
		if len(items) > n {
			t.Errorf("recent(%d) returned %d items", n, len(items))
		}
		for i := 1; i < len(items); i++ {
			if items[i].SubmissionDate.After(items[i-1].SubmissionDate) {
				t.Errorf("recent not sorted descending at index %d: %v after %v",
					i, items[i].SubmissionDate, items[i-1].SubmissionDate)
			}
		}
	}

	items, err := svc.Recent(context.Background(), 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("recent(2) returned %d items", len(items))
	}
	// CN-...-009 and -010 were both submitted 2 days ago; -009 at 11:20 is
	// the newest.
	if items[0].ClaimNumber != "CN-2025-05-009" {
		t.Errorf("newest = %s, want CN-2025-05-009", items[0].ClaimNumber)
	}
}

func TestFlagged_OnlyElevatedOrAuditFlagged(t *testing.T) {
	svc, _ := newTestService(t)
	seedFixtures(t, svc)

	items, err := svc.Flagged(context.Background(), 10)
	if err != nil {
		t.Fatalf("flagged: %v", err)
	}
	if len(items) == 0 {
		t.Fatal("expected flagged claims in fixture set")
	}
	for _, c := range items {
		if !c.RiskLevel.Elevated() && c.Status != StatusFlaggedForAudit {
			t.Errorf("claim %s (risk=%s status=%s) must not appear in flagged list",
				c.ClaimNumber, c.RiskLevel, c.Status)
		}
	}

	// Low-risk approved claim stays out.
	for _, c := range items {
		if c.ClaimNumber == "CN-2025-05-002" {
			t.Error("low-risk claim CN-2025-05-002 appeared in flagged list")
		}
	}
}

func TestFlagged_Bound(t *testing.T) {
	svc, _ := newTestService(t)
	seedFixtures(t, svc)

	items, err := svc.Flagged(context.Background(), 2)
	if err != nil {
		t.Fatalf("flagged: %v", err)
	}
	if len(items) > 2 {
		t.Errorf("flagged(2) returned %d items", len(items))
	}
}

func TestListByStatus(t *testing.T) {
	svc, _ := newTestService(t)
	seedFixtures(t, svc)

	items, total, err := svc.ListByStatus(context.Background(), StatusFlaggedForAudit, 20, 0)
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("got %d/%d flagged-for-audit claims, want 2", len(items), total)
	}

	if _, _, err := svc.ListByStatus(context.Background(), ClaimStatus("Bogus"), 20, 0); err == nil {
		t.Error("expected error for invalid status")
	}
}

func TestListByBatch_Pagination(t *testing.T) {
	svc, _ := newTestService(t)
	seedFixtures(t, svc)

	items, total, err := svc.ListByBatch(context.Background(), FixtureBatchUpload, 2, 0)
	if err != nil {
		t.Fatalf("list by batch: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(items) != 2 {
		t.Errorf("page len = %d, want 2", len(items))
	}

	rest, _, err := svc.ListByBatch(context.Background(), FixtureBatchUpload, 2, 2)
	if err != nil {
		t.Fatalf("list by batch offset: %v", err)
	}
	if len(rest) != 1 {
		t.Errorf("second page len = %d, want 1", len(rest))
	}
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	cases := []struct {
		name  string
		claim Claim
	}{
		{"missing claim number", Claim{Status: StatusSubmitted, RiskLevel: RiskLow}},
		{"bad status", Claim{ClaimNumber: "CN-X-1", Status: "Nope", RiskLevel: RiskLow}},
		{"bad risk", Claim{ClaimNumber: "CN-X-2", Status: StatusSubmitted, RiskLevel: "Extreme"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := svc.Create(context.Background(), &tc.claim); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestCreate_DefaultsProcessingStatus(t *testing.T) {
	svc, _ := newTestService(t)

	c := Claim{ClaimNumber: "CN-X-3", Status: StatusSubmitted, RiskLevel: RiskLow}
	if err := svc.Create(context.Background(), &c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.ProcessingStatus != ProcessingRaw {
		t.Errorf("processingStatus = %s, want Raw", c.ProcessingStatus)
	}
	if c.SubmissionDate.IsZero() {
		t.Error("submissionDate not defaulted")
	}
}

func TestUpdateMedicalSummary_AppendsAudit(t *testing.T) {
	svc, _ := newTestService(t)
	fixtures := seedFixtures(t, svc)

	id := fixtures[0].ID
	before := len(fixtures[0].AuditTrail)

	got, err := svc.UpdateMedicalSummary(context.Background(), id, "Updated EMR summary.", "Dr. Reviewer")
	if err != nil {
		t.Fatalf("update summary: %v", err)
	}
	if got.MedicalRecordSummary != "Updated EMR summary." {
		t.Errorf("summary = %q", got.MedicalRecordSummary)
	}
	if len(got.AuditTrail) != before+1 {
		t.Fatalf("auditTrail len = %d, want %d", len(got.AuditTrail), before+1)
	}
	last := got.AuditTrail[len(got.AuditTrail)-1]
	if last.User != "Dr. Reviewer" {
		t.Errorf("audit user = %s", last.User)
	}

	// The mutation must be persisted, not just returned.
	stored, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.MedicalRecordSummary != "Updated EMR summary." {
		t.Error("summary update not persisted")
	}
}

func TestSetProcessingStatus(t *testing.T) {
	svc, _ := newTestService(t)
	fixtures := seedFixtures(t, svc)

	got, err := svc.SetProcessingStatus(context.Background(), fixtures[0].ID, ProcessingProcessed, "Analyst", "review complete")
	if err != nil {
		t.Fatalf("set processing status: %v", err)
	}
	if got.ProcessingStatus != ProcessingProcessed {
		t.Errorf("processingStatus = %s", got.ProcessingStatus)
	}

	if _, err := svc.SetProcessingStatus(context.Background(), fixtures[0].ID, "NotAStage", "Analyst", ""); err == nil {
		t.Error("expected error for invalid processing status")
	}
}
