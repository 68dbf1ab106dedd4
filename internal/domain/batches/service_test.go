package batches

import (
	"context"
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 1, 17, 0, 0, 0, time.UTC)

type stubCounter map[string]int

func (s stubCounter) CountByBatch(_ context.Context, batchID string) (int, error) {
	return s[batchID], nil
}

func newSeededService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(NewRepoMem())
	for _, b := range Fixtures(testNow) {
		if err := svc.Create(context.Background(), b); err != nil {
			t.Fatalf("seed %s: %v", b.ID, err)
		}
	}
	return svc
}

func TestList_NewestFirst(t *testing.T) {
	svc := newSeededService(t)

	items, total, err := svc.List(context.Background(), 20, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 5 || len(items) != 5 {
		t.Fatalf("got %d/%d batches, want 5", len(items), total)
	}
	for i := 1; i < len(items); i++ {
		if items[i].IngestionTimestamp.After(items[i-1].IngestionTimestamp) {
			t.Errorf("batches not sorted newest first at index %d", i)
		}
	}
}

func TestGet(t *testing.T) {
	svc := newSeededService(t)

	b, err := svc.Get(context.Background(), "BATCH-UPLOAD-20250530-001")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if b.OriginalFileName != "claims_may30_2025.csv" {
		t.Errorf("originalFileName = %s", b.OriginalFileName)
	}

	if _, err := svc.Get(context.Background(), "BATCH-NOPE"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(NewRepoMem())

	if err := svc.Create(context.Background(), &Batch{Status: BatchCompleted}); err == nil {
		t.Error("expected error for missing id")
	}
	if err := svc.Create(context.Background(), &Batch{ID: "B-1", Status: "Done"}); err == nil {
		t.Error("expected error for invalid status")
	}
}

func TestCheckIntegrity(t *testing.T) {
	svc := newSeededService(t)
	svc.SetClaimCounter(stubCounter{
		"BATCH-MANUAL-20250527-001": 1,
		"BATCH-UPLOAD-20250530-001": 3,
	})

	ok, err := svc.CheckIntegrity(context.Background(), "BATCH-MANUAL-20250527-001")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !ok.Consistent || ok.StoredCount != 1 {
		t.Errorf("expected consistent batch, got %+v", ok)
	}

	// Declared 6 claims but only 3 landed.
	bad, err := svc.CheckIntegrity(context.Background(), "BATCH-UPLOAD-20250530-001")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if bad.Consistent || bad.DeclaredCount != 6 || bad.StoredCount != 3 {
		t.Errorf("expected inconsistent batch, got %+v", bad)
	}
}
