package claims

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no claim matches the given identifier.
var ErrNotFound = errors.New("claim not found")

type Repository interface {
	Create(ctx context.Context, c *Claim) error
	GetByID(ctx context.Context, id uuid.UUID) (*Claim, error)
	GetByClaimNumber(ctx context.Context, claimNumber string) (*Claim, error)
	Update(ctx context.Context, c *Claim) error
	List(ctx context.Context, limit, offset int) ([]*Claim, int, error)
	ListByStatus(ctx context.Context, status ClaimStatus, limit, offset int) ([]*Claim, int, error)
	ListByRiskLevel(ctx context.Context, risk RiskLevel, limit, offset int) ([]*Claim, int, error)
	ListByBatch(ctx context.Context, batchID string, limit, offset int) ([]*Claim, int, error)

	// Recent returns at most n claims ordered by submission date, newest
	// first. Flagged returns at most n claims needing attention (elevated
	// risk or audit flag), same ordering.
	Recent(ctx context.Context, n int) ([]*Claim, error)
	Flagged(ctx context.Context, n int) ([]*Claim, error)
}
