package knowledge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	concepts ConceptRepository
	pairings PairingRepository
	findings FindingRepository
	now      func() time.Time
}

func NewService(concepts ConceptRepository, pairings PairingRepository, findings FindingRepository) *Service {
	return &Service{
		concepts: concepts,
		pairings: pairings,
		findings: findings,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the service clock. Tests only.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// -- concepts --

func (s *Service) CreateConcept(ctx context.Context, c *MedicalConcept) error {
	if err := validateConcept(c); err != nil {
		return err
	}
	return s.concepts.Create(ctx, c)
}

func (s *Service) GetConcept(ctx context.Context, id string) (*MedicalConcept, error) {
	return s.concepts.GetByID(ctx, id)
}

func (s *Service) UpdateConcept(ctx context.Context, c *MedicalConcept) error {
	if err := validateConcept(c); err != nil {
		return err
	}
	return s.concepts.Update(ctx, c)
}

func (s *Service) DeleteConcept(ctx context.Context, id string) error {
	return s.concepts.Delete(ctx, id)
}

func (s *Service) ListConcepts(ctx context.Context, limit, offset int) ([]*MedicalConcept, int, error) {
	return s.concepts.List(ctx, limit, offset)
}

func validateConcept(c *MedicalConcept) error {
	if c.ID == "" {
		return fmt.Errorf("concept id is required")
	}
	if c.ConceptName == "" {
		return fmt.Errorf("conceptName is required")
	}
	if !c.ConceptType.Valid() {
		return fmt.Errorf("invalid conceptType: %s", c.ConceptType)
	}
	if len(c.Codes) == 0 {
		return fmt.Errorf("at least one coding system entry is required")
	}
	return nil
}

// -- pairings --

// CreatePairing validates that both concept ids resolve before writing.
// Dangling references would silently weaken the criticality exemplars, so
// they are rejected at the boundary.
func (s *Service) CreatePairing(ctx context.Context, p *ClinicalPairing) error {
	if err := s.validatePairing(ctx, p); err != nil {
		return err
	}
	if p.Status == "" {
		p.Status = PairingActive
	}
	return s.pairings.Create(ctx, p)
}

func (s *Service) GetPairing(ctx context.Context, id string) (*ClinicalPairing, error) {
	return s.pairings.GetByID(ctx, id)
}

func (s *Service) UpdatePairing(ctx context.Context, p *ClinicalPairing) error {
	if err := s.validatePairing(ctx, p); err != nil {
		return err
	}
	return s.pairings.Update(ctx, p)
}

func (s *Service) ListPairings(ctx context.Context, limit, offset int) ([]*ClinicalPairing, int, error) {
	return s.pairings.List(ctx, limit, offset)
}

func (s *Service) validatePairing(ctx context.Context, p *ClinicalPairing) error {
	if p.ID == "" {
		return fmt.Errorf("pairing id is required")
	}
	if p.RelationshipType == "" {
		return fmt.Errorf("relationshipType is required")
	}
	if p.IsCritical && p.CriticalityReason == "" {
		return fmt.Errorf("criticalityReason is required for critical pairings")
	}
	if p.Status != "" && !p.Status.Valid() {
		return fmt.Errorf("invalid pairing status: %s", p.Status)
	}
	if p.CommonalityScore < 0 || p.CommonalityScore > 1 {
		return fmt.Errorf("commonalityScore %v is outside [0, 1]", p.CommonalityScore)
	}
	if p.ConfidenceScore < 0 || p.ConfidenceScore > 1 {
		return fmt.Errorf("confidenceScore %v is outside [0, 1]", p.ConfidenceScore)
	}
	if _, err := s.concepts.GetByID(ctx, p.PrimaryConceptID); err != nil {
		if errors.Is(err, ErrConceptNotFound) {
			return fmt.Errorf("primaryConceptId %q does not resolve", p.PrimaryConceptID)
		}
		return err
	}
	if _, err := s.concepts.GetByID(ctx, p.RelatedConceptID); err != nil {
		if errors.Is(err, ErrConceptNotFound) {
			return fmt.Errorf("relatedConceptId %q does not resolve", p.RelatedConceptID)
		}
		return err
	}
	return nil
}

// CriticalExemplars returns up to n critical and n non-critical pairings
// rendered with concept names, used as few-shot calibration anchors in the
// criticality assessment prompt.
func (s *Service) CriticalExemplars(ctx context.Context, n int) ([]Exemplar, error) {
	if n <= 0 {
		n = 3
	}
	var out []Exemplar
	for _, critical := range []bool{true, false} {
		pairings, err := s.pairings.ListByCriticality(ctx, critical, n)
		if err != nil {
			return nil, err
		}
		for _, p := range pairings {
			ex, err := s.exemplarFromPairing(ctx, p)
			if err != nil {
				return nil, err
			}
			out = append(out, ex)
		}
	}
	return out, nil
}

func (s *Service) exemplarFromPairing(ctx context.Context, p *ClinicalPairing) (Exemplar, error) {
	primary, err := s.concepts.GetByID(ctx, p.PrimaryConceptID)
	if err != nil {
		return Exemplar{}, fmt.Errorf("resolve primary concept of %s: %w", p.ID, err)
	}
	related, err := s.concepts.GetByID(ctx, p.RelatedConceptID)
	if err != nil {
		return Exemplar{}, fmt.Errorf("resolve related concept of %s: %w", p.ID, err)
	}
	return Exemplar{
		Diagnosis:  primary.ConceptName,
		Procedure:  related.ConceptName,
		IsCritical: p.IsCritical,
		Reason:     p.CriticalityReason,
	}, nil
}

// -- critical findings --

// RecordFinding logs a critical finding instance. ID and AssessedOn are
// filled in when absent.
func (s *Service) RecordFinding(ctx context.Context, f *CriticalFinding) error {
	if f.Reason == "" {
		return fmt.Errorf("reason is required")
	}
	if !f.Source.Valid() {
		return fmt.Errorf("invalid finding source: %s", f.Source)
	}
	if f.ID == "" {
		f.ID = "cf-" + uuid.NewString()
	}
	if f.AssessedOn.IsZero() {
		f.AssessedOn = s.now()
	}
	return s.findings.Create(ctx, f)
}

func (s *Service) GetFinding(ctx context.Context, id string) (*CriticalFinding, error) {
	return s.findings.GetByID(ctx, id)
}

func (s *Service) ListFindings(ctx context.Context, limit, offset int) ([]*CriticalFinding, int, error) {
	return s.findings.List(ctx, limit, offset)
}

func (s *Service) ListFindingsByClaim(ctx context.Context, claimID string) ([]*CriticalFinding, error) {
	return s.findings.ListByClaim(ctx, claimID)
}
