package insights

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrRecordNotFound   = errors.New("insight record not found")
	ErrFeedbackNotFound = errors.New("insight feedback not found")
)

// RecordRepository stores the latest generation outcome per (claim, kind).
type RecordRepository interface {
	Upsert(ctx context.Context, rec *InsightRecord) error
	Get(ctx context.Context, claimID uuid.UUID, kind Kind) (*InsightRecord, error)
	ListByClaim(ctx context.Context, claimID uuid.UUID) ([]*InsightRecord, error)
}

// FeedbackRepository stores the reviewer verdict per (claim, kind).
type FeedbackRepository interface {
	Upsert(ctx context.Context, fb *Feedback) error
	Get(ctx context.Context, claimID uuid.UUID, kind Kind) (*Feedback, error)
	ListByClaim(ctx context.Context, claimID uuid.UUID) ([]*Feedback, error)
	DeleteByClaim(ctx context.Context, claimID uuid.UUID) error
}
