package claims

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultWindow caps the dashboard's recent/flagged panels.
const DefaultWindow = 5

type Service struct {
	claims Repository
	now    func() time.Time
}

func NewService(claims Repository) *Service {
	return &Service{claims: claims, now: func() time.Time { return time.Now().UTC() }}
}

// SetClock overrides the service clock. Tests only.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

func (s *Service) Create(ctx context.Context, c *Claim) error {
	if c.ClaimNumber == "" {
		return fmt.Errorf("claimNumber is required")
	}
	if !c.Status.Valid() {
		return fmt.Errorf("invalid status: %s", c.Status)
	}
	if !c.RiskLevel.Valid() {
		return fmt.Errorf("invalid riskLevel: %s", c.RiskLevel)
	}
	if c.ProcessingStatus == "" {
		c.ProcessingStatus = ProcessingRaw
	}
	if !c.ProcessingStatus.Valid() {
		return fmt.Errorf("invalid processingStatus: %s", c.ProcessingStatus)
	}
	if c.SubmissionDate.IsZero() {
		c.SubmissionDate = s.now()
	}
	if c.LastUpdateDate.IsZero() {
		c.LastUpdateDate = c.SubmissionDate
	}
	return s.claims.Create(ctx, c)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Claim, error) {
	return s.claims.GetByID(ctx, id)
}

func (s *Service) GetByClaimNumber(ctx context.Context, claimNumber string) (*Claim, error) {
	return s.claims.GetByClaimNumber(ctx, claimNumber)
}

// Resolve looks a claim up by UUID or, failing that, by claim number. The
// dashboard links use claim numbers; internal callers use ids.
func (s *Service) Resolve(ctx context.Context, ref string) (*Claim, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return s.claims.GetByID(ctx, id)
	}
	return s.claims.GetByClaimNumber(ctx, ref)
}

func (s *Service) Update(ctx context.Context, c *Claim) error {
	if !c.Status.Valid() {
		return fmt.Errorf("invalid status: %s", c.Status)
	}
	if !c.RiskLevel.Valid() {
		return fmt.Errorf("invalid riskLevel: %s", c.RiskLevel)
	}
	if !c.ProcessingStatus.Valid() {
		return fmt.Errorf("invalid processingStatus: %s", c.ProcessingStatus)
	}
	return s.claims.Update(ctx, c)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Claim, int, error) {
	return s.claims.List(ctx, limit, offset)
}

func (s *Service) ListByStatus(ctx context.Context, status ClaimStatus, limit, offset int) ([]*Claim, int, error) {
	if !status.Valid() {
		return nil, 0, fmt.Errorf("invalid status: %s", status)
	}
	return s.claims.ListByStatus(ctx, status, limit, offset)
}

func (s *Service) ListByRiskLevel(ctx context.Context, risk RiskLevel, limit, offset int) ([]*Claim, int, error) {
	if !risk.Valid() {
		return nil, 0, fmt.Errorf("invalid riskLevel: %s", risk)
	}
	return s.claims.ListByRiskLevel(ctx, risk, limit, offset)
}

func (s *Service) ListByBatch(ctx context.Context, batchID string, limit, offset int) ([]*Claim, int, error) {
	return s.claims.ListByBatch(ctx, batchID, limit, offset)
}

// Recent returns the n most recently submitted claims, newest first.
func (s *Service) Recent(ctx context.Context, n int) ([]*Claim, error) {
	if n <= 0 {
		n = DefaultWindow
	}
	return s.claims.Recent(ctx, n)
}

// Flagged returns up to n claims needing attention: risk High or Critical,
// or operational status "Flagged for Audit". Newest first.
func (s *Service) Flagged(ctx context.Context, n int) ([]*Claim, error) {
	if n <= 0 {
		n = DefaultWindow
	}
	return s.claims.Flagged(ctx, n)
}

// AppendAuditEvent records an event on the claim's audit trail.
func (s *Service) AppendAuditEvent(ctx context.Context, id uuid.UUID, event, user, details string) (*Claim, error) {
	c, err := s.claims.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.AppendAudit(s.now(), event, user, details)
	if err := s.claims.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateMedicalSummary replaces the claim's medical record summary and logs
// the change. Callers are expected to regenerate insights afterwards since
// the summary feeds every generator prompt.
func (s *Service) UpdateMedicalSummary(ctx context.Context, id uuid.UUID, summary, user string) (*Claim, error) {
	c, err := s.claims.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.MedicalRecordSummary = summary
	c.AppendAudit(s.now(), "Medical Record Summary Updated", user, "Summary edited; insights queued for regeneration")
	if err := s.claims.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// SetProcessingStatus moves the claim to a new pipeline stage with an audit
// entry naming the actor.
func (s *Service) SetProcessingStatus(ctx context.Context, id uuid.UUID, status ProcessingStatus, user, details string) (*Claim, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid processingStatus: %s", status)
	}
	c, err := s.claims.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.ProcessingStatus = status
	c.AppendAudit(s.now(), fmt.Sprintf("Processing Status set to %s", status), user, details)
	if err := s.claims.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
