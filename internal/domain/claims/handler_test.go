package claims

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type stubRegenerator struct {
	err   error
	calls int
}

func (r *stubRegenerator) RefreshAll(_ context.Context, _ uuid.UUID) error {
	r.calls++
	return r.err
}

func summaryEditContext(t *testing.T, claimID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/",
		strings.NewReader(`{"medicalRecordSummary":"Revised inpatient course."}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(claimID.String())
	return c, rec
}

func TestUpdateMedicalSummary_RegeneratesInsights(t *testing.T) {
	svc, _ := newTestService(t)
	fixtures := seedFixtures(t, svc)

	regen := &stubRegenerator{}
	h := NewHandler(svc)
	h.SetRegenerator(regen)
	h.SetLogger(zerolog.Nop())

	c, rec := summaryEditContext(t, fixtures[0].ID)
	if err := h.UpdateMedicalSummary(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if regen.calls != 1 {
		t.Errorf("regenerator calls = %d, want 1", regen.calls)
	}
	var resp medicalSummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.InsightsRegenerated {
		t.Error("insightsRegenerated = false, want true")
	}
	if resp.Claim.MedicalRecordSummary != "Revised inpatient course." {
		t.Errorf("summary = %q", resp.Claim.MedicalRecordSummary)
	}
}

func TestUpdateMedicalSummary_SurfacesRegenerationFailure(t *testing.T) {
	svc, _ := newTestService(t)
	fixtures := seedFixtures(t, svc)

	regen := &stubRegenerator{err: errors.New("reset feedback: connection refused")}
	h := NewHandler(svc)
	h.SetRegenerator(regen)
	h.SetLogger(zerolog.Nop())

	c, rec := summaryEditContext(t, fixtures[0].ID)
	if err := h.UpdateMedicalSummary(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code == http.StatusOK {
		t.Fatal("status = 200, want the refresh failure surfaced")
	}
	if rec.Code != http.StatusMultiStatus {
		t.Errorf("status = %d, want 207", rec.Code)
	}

	var resp medicalSummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.InsightsRegenerated {
		t.Error("insightsRegenerated = true despite failed refresh")
	}
	if resp.RegenerationError == "" {
		t.Error("regenerationError is empty")
	}

	// The edit itself still lands.
	got, err := svc.Get(context.Background(), fixtures[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.MedicalRecordSummary != "Revised inpatient course." {
		t.Errorf("summary = %q, want the edit persisted", got.MedicalRecordSummary)
	}
}
