package main

import (
	"context"
	"testing"
	"time"

	"github.com/claimflow/claimflow/internal/domain/claims"
	"github.com/claimflow/claimflow/internal/domain/insights"
	"github.com/claimflow/claimflow/internal/domain/intake"
	"github.com/claimflow/claimflow/internal/platform/ai"
)

func TestSeedFixtures_MemoryStores(t *testing.T) {
	s := newMemStores()
	if err := seedFixtures(context.Background(), s); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cs, total, err := s.claims.List(context.Background(), 100, 0)
	if err != nil {
		t.Fatalf("list claims: %v", err)
	}
	if total == 0 || len(cs) == 0 {
		t.Error("expected seeded claims")
	}

	bs, _, err := s.batches.List(context.Background(), 100, 0)
	if err != nil {
		t.Fatalf("list batches: %v", err)
	}
	if len(bs) == 0 {
		t.Error("expected seeded batches")
	}
}

func TestClaimCounter_CountByBatch(t *testing.T) {
	s := newMemStores()
	if err := seedFixtures(context.Background(), s); err != nil {
		t.Fatalf("seed: %v", err)
	}

	fixtures := claims.Fixtures(time.Now().UTC())
	batchID := fixtures[0].BatchID
	if batchID == "" {
		t.Skip("fixture claims carry no batch assignment")
	}

	counter := claimCounter{repo: s.claims}
	n, err := counter.CountByBatch(context.Background(), batchID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n == 0 {
		t.Errorf("count = 0, want at least one claim in batch %s", batchID)
	}
}

func TestDemoBackend_CoversEveryPrompt(t *testing.T) {
	backend := demoBackend()

	names := []string{
		insights.PromptSummary,
		insights.PromptFraud,
		insights.PromptTAT,
		insights.PromptCriticality,
		insights.PromptChronology,
		intake.PromptEnrich,
	}
	for _, name := range names {
		raw, err := backend.Complete(context.Background(), ai.Request{Name: name})
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if len(raw) == 0 {
			t.Errorf("%s: empty response", name)
		}
	}
}
