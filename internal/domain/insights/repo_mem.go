package insights

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type recordKey struct {
	claimID uuid.UUID
	kind    Kind
}

type recordRepoMem struct {
	mu    sync.RWMutex
	items map[recordKey]*InsightRecord
}

func NewRecordRepoMem() RecordRepository {
	return &recordRepoMem{items: make(map[recordKey]*InsightRecord)}
}

func cloneRecord(rec *InsightRecord) *InsightRecord {
	out := *rec
	if rec.Payload != nil {
		out.Payload = append([]byte(nil), rec.Payload...)
	}
	return &out
}

func (r *recordRepoMem) Upsert(ctx context.Context, rec *InsightRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[recordKey{rec.ClaimID, rec.Kind}] = cloneRecord(rec)
	return nil
}

func (r *recordRepoMem) Get(ctx context.Context, claimID uuid.UUID, kind Kind) (*InsightRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.items[recordKey{claimID, kind}]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return cloneRecord(rec), nil
}

func (r *recordRepoMem) ListByClaim(ctx context.Context, claimID uuid.UUID) ([]*InsightRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var items []*InsightRecord
	for key, rec := range r.items {
		if key.claimID == claimID {
			items = append(items, cloneRecord(rec))
		}
	}
	sortRecords(items)
	return items, nil
}

type feedbackRepoMem struct {
	mu    sync.RWMutex
	items map[recordKey]*Feedback
}

func NewFeedbackRepoMem() FeedbackRepository {
	return &feedbackRepoMem{items: make(map[recordKey]*Feedback)}
}

func (r *feedbackRepoMem) Upsert(ctx context.Context, fb *Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *fb
	r.items[recordKey{fb.ClaimID, fb.Kind}] = &cp
	return nil
}

func (r *feedbackRepoMem) Get(ctx context.Context, claimID uuid.UUID, kind Kind) (*Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fb, ok := r.items[recordKey{claimID, kind}]
	if !ok {
		return nil, ErrFeedbackNotFound
	}
	cp := *fb
	return &cp, nil
}

func (r *feedbackRepoMem) ListByClaim(ctx context.Context, claimID uuid.UUID) ([]*Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var items []*Feedback
	for key, fb := range r.items {
		if key.claimID == claimID {
			cp := *fb
			items = append(items, &cp)
		}
	}
	return items, nil
}

func (r *feedbackRepoMem) DeleteByClaim(ctx context.Context, claimID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.items {
		if key.claimID == claimID {
			delete(r.items, key)
		}
	}
	return nil
}
