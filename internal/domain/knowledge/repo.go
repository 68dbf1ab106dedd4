package knowledge

import (
	"context"
	"errors"
)

var (
	ErrConceptNotFound = errors.New("medical concept not found")
	ErrPairingNotFound = errors.New("clinical pairing not found")
	ErrFindingNotFound = errors.New("critical finding not found")
)

type ConceptRepository interface {
	Create(ctx context.Context, c *MedicalConcept) error
	GetByID(ctx context.Context, id string) (*MedicalConcept, error)
	Update(ctx context.Context, c *MedicalConcept) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*MedicalConcept, int, error)
}

type PairingRepository interface {
	Create(ctx context.Context, p *ClinicalPairing) error
	GetByID(ctx context.Context, id string) (*ClinicalPairing, error)
	Update(ctx context.Context, p *ClinicalPairing) error
	List(ctx context.Context, limit, offset int) ([]*ClinicalPairing, int, error)

	// ListByCriticality returns active pairings with the given criticality,
	// most confident first.
	ListByCriticality(ctx context.Context, critical bool, n int) ([]*ClinicalPairing, error)
}

type FindingRepository interface {
	Create(ctx context.Context, f *CriticalFinding) error
	GetByID(ctx context.Context, id string) (*CriticalFinding, error)
	List(ctx context.Context, limit, offset int) ([]*CriticalFinding, int, error)
	ListByClaim(ctx context.Context, claimID string) ([]*CriticalFinding, error)
}
