package telemetry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestCounter(t *testing.T) {
	r := NewRegistry("test")
	c := r.Counter("insight_failures_total")
	labels := Labels("kind", "fraud")
	c.Inc(labels)
	c.Inc(labels)
	c.Add(labels, 3)
	if got := c.Value(labels); got != 5 {
		t.Errorf("counter = %g, want 5", got)
	}
	if got := c.Value(Labels("kind", "summary")); got != 0 {
		t.Errorf("untouched label set = %g, want 0", got)
	}
}

func TestHistogramObserve(t *testing.T) {
	r := NewRegistry("test")
	h := r.Histogram("insight_generation_seconds")
	labels := Labels("kind", "chronology")
	h.Observe(labels, 0.02)
	h.Observe(labels, 4.0)
	h.Observe(labels, 100.0) // above all buckets
	if got := h.Count(labels); got != 3 {
		t.Errorf("count = %d, want 3", got)
	}
}

func TestLabelsCanonicalOrder(t *testing.T) {
	a := Labels("kind", "tat", "status", "ok")
	b := Labels("status", "ok", "kind", "tat")
	if a != b {
		t.Errorf("label order not canonical: %q vs %q", a, b)
	}
}

func TestRecordInsightAndExpose(t *testing.T) {
	r := NewRegistry("claimflow")
	r.RecordInsight("fraud", 120*time.Millisecond, false)
	r.RecordInsight("fraud", 80*time.Millisecond, true)

	out := r.Expose()
	if !strings.Contains(out, "insight_failures_total") {
		t.Error("expected failure counter in exposition")
	}
	if !strings.Contains(out, "insight_success_total") {
		t.Error("expected success counter in exposition")
	}
	if !strings.Contains(out, `kind="fraud"`) {
		t.Error("expected kind label in exposition")
	}
	if !strings.Contains(out, "insight_generation_seconds_count") {
		t.Error("expected histogram count in exposition")
	}
}

func TestMiddlewareRecordsRequests(t *testing.T) {
	r := NewRegistry("claimflow")
	e := echo.New()
	e.Use(r.Middleware())
	e.GET("/claims", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/claims", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	out := r.Expose()
	if !strings.Contains(out, "http_requests_total") {
		t.Error("expected request counter")
	}
	if !strings.Contains(out, `path="/claims"`) {
		t.Error("expected path label")
	}
}
