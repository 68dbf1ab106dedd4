package batches

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("batch not found")

type Repository interface {
	Create(ctx context.Context, b *Batch) error
	GetByID(ctx context.Context, id string) (*Batch, error)
	List(ctx context.Context, limit, offset int) ([]*Batch, int, error)
}
