package batches

import (
	"context"
	"fmt"
)

// ClaimCounter reports how many claims reference a batch. Implemented by the
// claims repository; used to reconcile the declared batch size against what
// actually landed in the store.
type ClaimCounter interface {
	CountByBatch(ctx context.Context, batchID string) (int, error)
}

type Service struct {
	batches Repository
	counter ClaimCounter
}

func NewService(batches Repository) *Service {
	return &Service{batches: batches}
}

// SetClaimCounter attaches the claim-count reconciliation source.
func (s *Service) SetClaimCounter(c ClaimCounter) { s.counter = c }

func (s *Service) Create(ctx context.Context, b *Batch) error {
	if b.ID == "" {
		return fmt.Errorf("batch id is required")
	}
	if !b.Status.Valid() {
		return fmt.Errorf("invalid batch status: %s", b.Status)
	}
	return s.batches.Create(ctx, b)
}

func (s *Service) Get(ctx context.Context, id string) (*Batch, error) {
	return s.batches.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Batch, int, error) {
	return s.batches.List(ctx, limit, offset)
}

// BatchIntegrity is the reconciliation of a batch's declared claim count
// against the claims actually present in the store.
type BatchIntegrity struct {
	Batch         *Batch `json:"batch"`
	DeclaredCount int    `json:"declaredCount"`
	StoredCount   int    `json:"storedCount"`
	Consistent    bool   `json:"consistent"`
}

// CheckIntegrity compares the batch's declared claim count with the number of
// stored claims referencing it.
func (s *Service) CheckIntegrity(ctx context.Context, id string) (*BatchIntegrity, error) {
	b, err := s.batches.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.counter == nil {
		return nil, fmt.Errorf("claim counter not configured")
	}
	stored, err := s.counter.CountByBatch(ctx, id)
	if err != nil {
		return nil, err
	}
	return &BatchIntegrity{
		Batch:         b,
		DeclaredCount: b.ClaimCountInBatch,
		StoredCount:   stored,
		Consistent:    stored == b.ClaimCountInBatch,
	}, nil
}
