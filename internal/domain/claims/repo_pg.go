package claims

import (
	"context"
	"errors"
	"strconv"

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

type claimRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &claimRepoPG{pool: pool}
}

func (r *claimRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const claimCols = `id, claim_number, patient_name, member_id,
	submission_date, last_update_date, status, processing_status,
	risk_level, predicted_tat_days,
	policy_number, policy_holder_name, provider_name, provider_id,
	claim_amount, approved_amount, currency,
	diagnosis_codes, procedure_codes, medication_codes,
	line_items, related_claims, claim_source, claim_type, batch_id,
	claim_details_full, medical_record_summary,
	member_details_context, provider_details_context, claim_history_summary,
	documents, notes, assigned_to, audit_trail, data_quality_review,
	created_at, updated_at`

func (r *claimRepoPG) scanClaim(row pgx.Row) (*Claim, error) {
	var c Claim
	err := row.Scan(&c.ID, &c.ClaimNumber, &c.PatientName, &c.MemberID,
		&c.SubmissionDate, &c.LastUpdateDate, &c.Status, &c.ProcessingStatus,
		&c.RiskLevel, &c.PredictedTATDays,
		&c.PolicyNumber, &c.PolicyHolderName, &c.ProviderName, &c.ProviderID,
		&c.ClaimAmount, &c.ApprovedAmount, &c.Currency,
		&c.DiagnosisCodes, &c.ProcedureCodes, &c.MedicationCodes,
		&c.LineItems, &c.RelatedClaims, &c.ClaimSource, &c.ClaimType, &c.BatchID,
		&c.ClaimDetailsFull, &c.MedicalRecordSummary,
		&c.MemberDetailsContext, &c.ProviderDetailsContext, &c.ClaimHistorySummary,
		&c.Documents, &c.Notes, &c.AssignedTo, &c.AuditTrail, &c.DataQualityReview,
		&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &c, err
}

func (r *claimRepoPG) Create(ctx context.Context, c *Claim) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO claim (id, claim_number, patient_name, member_id,
			submission_date, last_update_date, status, processing_status,
			risk_level, predicted_tat_days,
			policy_number, policy_holder_name, provider_name, provider_id,
			claim_amount, approved_amount, currency,
			diagnosis_codes, procedure_codes, medication_codes,
			line_items, related_claims, claim_source, claim_type, batch_id,
			claim_details_full, medical_record_summary,
			member_details_context, provider_details_context, claim_history_summary,
			documents, notes, assigned_to, audit_trail, data_quality_review)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,
			$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32,$33,$34,$35)`,
		c.ID, c.ClaimNumber, c.PatientName, c.MemberID,
		c.SubmissionDate, c.LastUpdateDate, c.Status, c.ProcessingStatus,
		c.RiskLevel, c.PredictedTATDays,
		c.PolicyNumber, c.PolicyHolderName, c.ProviderName, c.ProviderID,
		c.ClaimAmount, c.ApprovedAmount, c.Currency,
		c.DiagnosisCodes, c.ProcedureCodes, c.MedicationCodes,
		c.LineItems, c.RelatedClaims, c.ClaimSource, c.ClaimType, c.BatchID,
		c.ClaimDetailsFull, c.MedicalRecordSummary,
		c.MemberDetailsContext, c.ProviderDetailsContext, c.ClaimHistorySummary,
		c.Documents, c.Notes, c.AssignedTo, c.AuditTrail, c.DataQualityReview)
	return err
}

func (r *claimRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Claim, error) {
	return r.scanClaim(r.conn(ctx).QueryRow(ctx, `SELECT `+claimCols+` FROM claim WHERE id = $1`, id))
}

func (r *claimRepoPG) GetByClaimNumber(ctx context.Context, claimNumber string) (*Claim, error) {
	return r.scanClaim(r.conn(ctx).QueryRow(ctx, `SELECT `+claimCols+` FROM claim WHERE claim_number = $1`, claimNumber))
}

func (r *claimRepoPG) Update(ctx context.Context, c *Claim) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE claim SET
			patient_name=$2, member_id=$3, submission_date=$4, last_update_date=$5,
			status=$6, processing_status=$7, risk_level=$8, predicted_tat_days=$9,
			policy_number=$10, policy_holder_name=$11, provider_name=$12, provider_id=$13,
			claim_amount=$14, approved_amount=$15, currency=$16,
			diagnosis_codes=$17, procedure_codes=$18, medication_codes=$19,
			line_items=$20, related_claims=$21, claim_source=$22, claim_type=$23, batch_id=$24,
			claim_details_full=$25, medical_record_summary=$26,
			member_details_context=$27, provider_details_context=$28, claim_history_summary=$29,
			documents=$30, notes=$31, assigned_to=$32, audit_trail=$33, data_quality_review=$34,
			updated_at=NOW()
		WHERE id = $1`,
		c.ID, c.PatientName, c.MemberID, c.SubmissionDate, c.LastUpdateDate,
		c.Status, c.ProcessingStatus, c.RiskLevel, c.PredictedTATDays,
		c.PolicyNumber, c.PolicyHolderName, c.ProviderName, c.ProviderID,
		c.ClaimAmount, c.ApprovedAmount, c.Currency,
		c.DiagnosisCodes, c.ProcedureCodes, c.MedicationCodes,
		c.LineItems, c.RelatedClaims, c.ClaimSource, c.ClaimType, c.BatchID,
		c.ClaimDetailsFull, c.MedicalRecordSummary,
		c.MemberDetailsContext, c.ProviderDetailsContext, c.ClaimHistorySummary,
		c.Documents, c.Notes, c.AssignedTo, c.AuditTrail, c.DataQualityReview)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *claimRepoPG) list(ctx context.Context, where string, args []interface{}, limit, offset int) ([]*Claim, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM claim `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	n := len(args)
	query := `SELECT ` + claimCols + ` FROM claim ` + where +
		` ORDER BY submission_date DESC LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Claim
	for rows.Next() {
		c, err := r.scanClaim(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}

func (r *claimRepoPG) List(ctx context.Context, limit, offset int) ([]*Claim, int, error) {
	return r.list(ctx, ``, nil, limit, offset)
}

func (r *claimRepoPG) ListByStatus(ctx context.Context, status ClaimStatus, limit, offset int) ([]*Claim, int, error) {
	return r.list(ctx, `WHERE status = $1`, []interface{}{status}, limit, offset)
}

func (r *claimRepoPG) ListByRiskLevel(ctx context.Context, risk RiskLevel, limit, offset int) ([]*Claim, int, error) {
	return r.list(ctx, `WHERE risk_level = $1`, []interface{}{risk}, limit, offset)
}

func (r *claimRepoPG) ListByBatch(ctx context.Context, batchID string, limit, offset int) ([]*Claim, int, error) {
	return r.list(ctx, `WHERE batch_id = $1`, []interface{}{batchID}, limit, offset)
}

func (r *claimRepoPG) Recent(ctx context.Context, n int) ([]*Claim, error) {
	items, _, err := r.list(ctx, ``, nil, n, 0)
	return items, err
}

func (r *claimRepoPG) Flagged(ctx context.Context, n int) ([]*Claim, error) {
	items, _, err := r.list(ctx,
		`WHERE risk_level IN ($1, $2) OR status = $3`,
		[]interface{}{RiskHigh, RiskCritical, StatusFlaggedForAudit}, n, 0)
	return items, err
}
