package batches

import (
	"context"
	"sort"
	"sync"

	"github.com/claimflow/claimflow/pkg/pagination"
)

type batchRepoMem struct {
	mu   sync.RWMutex
	byID map[string]*Batch
}

func NewRepoMem() Repository {
	return &batchRepoMem{byID: make(map[string]*Batch)}
}

func (r *batchRepoMem) Create(_ context.Context, b *Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *b
	r.byID[b.ID] = &clone
	return nil
}

func (r *batchRepoMem) GetByID(_ context.Context, id string) (*Batch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *batchRepoMem) List(_ context.Context, limit, offset int) ([]*Batch, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]*Batch, 0, len(r.byID))
	for _, b := range r.byID {
		clone := *b
		items = append(items, &clone)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].IngestionTimestamp.After(items[j].IngestionTimestamp)
	})
	total := len(items)
	lo, hi := pagination.Params{Limit: limit, Offset: offset}.Window(total)
	return items[lo:hi], total, nil
}
