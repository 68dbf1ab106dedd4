package insights

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
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

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}

// -- insight records --

type recordRepoPG struct{ pool *pgxpool.Pool }

func NewRecordRepoPG(pool *pgxpool.Pool) RecordRepository {
	return &recordRepoPG{pool: pool}
}

const recordCols = `claim_id, kind, payload, failed, failure_kind, failure_message, generated_at`

func scanRecord(row pgx.Row) (*InsightRecord, error) {
	var rec InsightRecord
	err := row.Scan(&rec.ClaimID, &rec.Kind, &rec.Payload, &rec.Failed,
		&rec.FailureKind, &rec.FailureMessage, &rec.GeneratedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	return &rec, err
}

func (r *recordRepoPG) Upsert(ctx context.Context, rec *InsightRecord) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO insight_record (claim_id, kind, payload, failed, failure_kind, failure_message, generated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (claim_id, kind) DO UPDATE SET
			payload=EXCLUDED.payload, failed=EXCLUDED.failed,
			failure_kind=EXCLUDED.failure_kind, failure_message=EXCLUDED.failure_message,
			generated_at=EXCLUDED.generated_at`,
		rec.ClaimID, rec.Kind, rec.Payload, rec.Failed, rec.FailureKind, rec.FailureMessage, rec.GeneratedAt)
	return err
}

func (r *recordRepoPG) Get(ctx context.Context, claimID uuid.UUID, kind Kind) (*InsightRecord, error) {
	return scanRecord(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+recordCols+` FROM insight_record WHERE claim_id = $1 AND kind = $2`, claimID, kind))
}

func (r *recordRepoPG) ListByClaim(ctx context.Context, claimID uuid.UUID) ([]*InsightRecord, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+recordCols+` FROM insight_record WHERE claim_id = $1`, claimID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*InsightRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	sortRecords(items)
	return items, rows.Err()
}

// sortRecords orders records in dispatch order so responses are stable.
func sortRecords(items []*InsightRecord) {
	rank := make(map[Kind]int, len(AllKinds))
	for i, k := range AllKinds {
		rank[k] = i
	}
	sort.SliceStable(items, func(i, j int) bool {
		return rank[items[i].Kind] < rank[items[j].Kind]
	})
}

// -- feedback --

type feedbackRepoPG struct{ pool *pgxpool.Pool }

func NewFeedbackRepoPG(pool *pgxpool.Pool) FeedbackRepository {
	return &feedbackRepoPG{pool: pool}
}

const feedbackCols = `claim_id, kind, status, override_reason, updated_at`

func scanFeedback(row pgx.Row) (*Feedback, error) {
	var fb Feedback
	err := row.Scan(&fb.ClaimID, &fb.Kind, &fb.Status, &fb.OverrideReason, &fb.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrFeedbackNotFound
	}
	return &fb, err
}

func (r *feedbackRepoPG) Upsert(ctx context.Context, fb *Feedback) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO insight_feedback (claim_id, kind, status, override_reason, updated_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (claim_id, kind) DO UPDATE SET
			status=EXCLUDED.status, override_reason=EXCLUDED.override_reason,
			updated_at=EXCLUDED.updated_at`,
		fb.ClaimID, fb.Kind, fb.Status, fb.OverrideReason, fb.UpdatedAt)
	return err
}

func (r *feedbackRepoPG) Get(ctx context.Context, claimID uuid.UUID, kind Kind) (*Feedback, error) {
	return scanFeedback(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+feedbackCols+` FROM insight_feedback WHERE claim_id = $1 AND kind = $2`, claimID, kind))
}

func (r *feedbackRepoPG) ListByClaim(ctx context.Context, claimID uuid.UUID) ([]*Feedback, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+feedbackCols+` FROM insight_feedback WHERE claim_id = $1`, claimID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Feedback
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, fb)
	}
	return items, rows.Err()
}

func (r *feedbackRepoPG) DeleteByClaim(ctx context.Context, claimID uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM insight_feedback WHERE claim_id = $1`, claimID)
	return err
}
