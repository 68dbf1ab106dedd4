package knowledge

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

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}

// -- concepts --

type conceptRepoPG struct{ pool *pgxpool.Pool }

func NewConceptRepoPG(pool *pgxpool.Pool) ConceptRepository {
	return &conceptRepoPG{pool: pool}
}

const conceptCols = `id, concept_name, concept_type, codes, description, synonyms, attributes`

func scanConcept(row pgx.Row) (*MedicalConcept, error) {
	var c MedicalConcept
	err := row.Scan(&c.ID, &c.ConceptName, &c.ConceptType, &c.Codes,
		&c.Description, &c.Synonyms, &c.Attributes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrConceptNotFound
	}
	return &c, err
}

func (r *conceptRepoPG) Create(ctx context.Context, c *MedicalConcept) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO medical_concept (id, concept_name, concept_type, codes, description, synonyms, attributes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		c.ID, c.ConceptName, c.ConceptType, c.Codes, c.Description, c.Synonyms, c.Attributes)
	return err
}

func (r *conceptRepoPG) GetByID(ctx context.Context, id string) (*MedicalConcept, error) {
	return scanConcept(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+conceptCols+` FROM medical_concept WHERE id = $1`, id))
}

func (r *conceptRepoPG) Update(ctx context.Context, c *MedicalConcept) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE medical_concept SET concept_name=$2, concept_type=$3, codes=$4,
			description=$5, synonyms=$6, attributes=$7
		WHERE id = $1`,
		c.ID, c.ConceptName, c.ConceptType, c.Codes, c.Description, c.Synonyms, c.Attributes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrConceptNotFound
	}
	return nil
}

func (r *conceptRepoPG) Delete(ctx context.Context, id string) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM medical_concept WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrConceptNotFound
	}
	return nil
}

func (r *conceptRepoPG) List(ctx context.Context, limit, offset int) ([]*MedicalConcept, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM medical_concept`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+conceptCols+` FROM medical_concept ORDER BY concept_name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*MedicalConcept
	for rows.Next() {
		c, err := scanConcept(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}

// -- pairings --

type pairingRepoPG struct{ pool *pgxpool.Pool }

func NewPairingRepoPG(pool *pgxpool.Pool) PairingRepository {
	return &pairingRepoPG{pool: pool}
}

const pairingCols = `id, primary_concept_id, related_concept_id, pairing_category,
	relationship_type, is_critical, criticality_reason,
	commonality_score, confidence_score, source_type, source_details,
	notes, last_reviewed, status`

func scanPairing(row pgx.Row) (*ClinicalPairing, error) {
	var p ClinicalPairing
	err := row.Scan(&p.ID, &p.PrimaryConceptID, &p.RelatedConceptID, &p.PairingCategory,
		&p.RelationshipType, &p.IsCritical, &p.CriticalityReason,
		&p.CommonalityScore, &p.ConfidenceScore, &p.SourceType, &p.SourceDetails,
		&p.Notes, &p.LastReviewed, &p.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPairingNotFound
	}
	return &p, err
}

func (r *pairingRepoPG) Create(ctx context.Context, p *ClinicalPairing) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO clinical_pairing (id, primary_concept_id, related_concept_id, pairing_category,
			relationship_type, is_critical, criticality_reason,
			commonality_score, confidence_score, source_type, source_details,
			notes, last_reviewed, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		p.ID, p.PrimaryConceptID, p.RelatedConceptID, p.PairingCategory,
		p.RelationshipType, p.IsCritical, p.CriticalityReason,
		p.CommonalityScore, p.ConfidenceScore, p.SourceType, p.SourceDetails,
		p.Notes, p.LastReviewed, p.Status)
	return err
}

func (r *pairingRepoPG) GetByID(ctx context.Context, id string) (*ClinicalPairing, error) {
	return scanPairing(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+pairingCols+` FROM clinical_pairing WHERE id = $1`, id))
}

func (r *pairingRepoPG) Update(ctx context.Context, p *ClinicalPairing) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE clinical_pairing SET primary_concept_id=$2, related_concept_id=$3,
			pairing_category=$4, relationship_type=$5, is_critical=$6,
			criticality_reason=$7, commonality_score=$8, confidence_score=$9,
			source_type=$10, source_details=$11, notes=$12, last_reviewed=$13, status=$14
		WHERE id = $1`,
		p.ID, p.PrimaryConceptID, p.RelatedConceptID, p.PairingCategory,
		p.RelationshipType, p.IsCritical, p.CriticalityReason,
		p.CommonalityScore, p.ConfidenceScore, p.SourceType, p.SourceDetails,
		p.Notes, p.LastReviewed, p.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPairingNotFound
	}
	return nil
}

func (r *pairingRepoPG) List(ctx context.Context, limit, offset int) ([]*ClinicalPairing, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM clinical_pairing`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+pairingCols+` FROM clinical_pairing ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*ClinicalPairing
	for rows.Next() {
		p, err := scanPairing(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *pairingRepoPG) ListByCriticality(ctx context.Context, critical bool, n int) ([]*ClinicalPairing, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT `+pairingCols+` FROM clinical_pairing
		WHERE status = $1 AND is_critical = $2
		ORDER BY confidence_score DESC LIMIT $3`,
		PairingActive, critical, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*ClinicalPairing
	for rows.Next() {
		p, err := scanPairing(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// -- findings --

type findingRepoPG struct{ pool *pgxpool.Pool }

func NewFindingRepoPG(pool *pgxpool.Pool) FindingRepository {
	return &findingRepoPG{pool: pool}
}

const findingCols = `id, claim_id, assessed_on, diagnosis_info, procedure_info,
	reason, source, clinical_pairing_id`

func scanFinding(row pgx.Row) (*CriticalFinding, error) {
	var f CriticalFinding
	err := row.Scan(&f.ID, &f.ClaimID, &f.AssessedOn, &f.DiagnosisInfo, &f.ProcedureInfo,
		&f.Reason, &f.Source, &f.ClinicalPairingID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrFindingNotFound
	}
	return &f, err
}

func (r *findingRepoPG) Create(ctx context.Context, f *CriticalFinding) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO critical_finding (id, claim_id, assessed_on, diagnosis_info, procedure_info,
			reason, source, clinical_pairing_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		f.ID, f.ClaimID, f.AssessedOn, f.DiagnosisInfo, f.ProcedureInfo,
		f.Reason, f.Source, f.ClinicalPairingID)
	return err
}

func (r *findingRepoPG) GetByID(ctx context.Context, id string) (*CriticalFinding, error) {
	return scanFinding(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+findingCols+` FROM critical_finding WHERE id = $1`, id))
}

func (r *findingRepoPG) List(ctx context.Context, limit, offset int) ([]*CriticalFinding, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM critical_finding`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+findingCols+` FROM critical_finding ORDER BY assessed_on DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*CriticalFinding
	for rows.Next() {
		f, err := scanFinding(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, f)
	}
	return items, total, rows.Err()
}

func (r *findingRepoPG) ListByClaim(ctx context.Context, claimID string) ([]*CriticalFinding, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+findingCols+` FROM critical_finding WHERE claim_id = $1 ORDER BY assessed_on DESC`, claimID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*CriticalFinding
	for rows.Next() {
		f, err := scanFinding(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, rows.Err()
}
