package batches

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/claimflow/claimflow/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type batchRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &batchRepoPG{pool: pool}
}

func (r *batchRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const batchCols = `id, ingestion_timestamp, source_system, original_file_name,
	claim_count_in_batch, status, notes`

func (r *batchRepoPG) scanBatch(row pgx.Row) (*Batch, error) {
	var b Batch
	err := row.Scan(&b.ID, &b.IngestionTimestamp, &b.SourceSystem, &b.OriginalFileName,
		&b.ClaimCountInBatch, &b.Status, &b.Notes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &b, err
}

func (r *batchRepoPG) Create(ctx context.Context, b *Batch) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO claim_batch (id, ingestion_timestamp, source_system, original_file_name,
			claim_count_in_batch, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		b.ID, b.IngestionTimestamp, b.SourceSystem, b.OriginalFileName,
		b.ClaimCountInBatch, b.Status, b.Notes)
	return err
}

func (r *batchRepoPG) GetByID(ctx context.Context, id string) (*Batch, error) {
	return r.scanBatch(r.conn(ctx).QueryRow(ctx, `SELECT `+batchCols+` FROM claim_batch WHERE id = $1`, id))
}

func (r *batchRepoPG) List(ctx context.Context, limit, offset int) ([]*Batch, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM claim_batch`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+batchCols+` FROM claim_batch ORDER BY ingestion_timestamp DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Batch
	for rows.Next() {
		b, err := r.scanBatch(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, b)
	}
	return items, total, rows.Err()
}
