package knowledge

import (
	"context"
	"sort"
	"sync"

	"github.com/claimflow/claimflow/pkg/pagination"
)

type conceptRepoMem struct {
	mu   sync.RWMutex
	byID map[string]*MedicalConcept
}

func NewConceptRepoMem() ConceptRepository {
	return &conceptRepoMem{byID: make(map[string]*MedicalConcept)}
}

func cloneConcept(c *MedicalConcept) *MedicalConcept {
	out := *c
	out.Codes = make(map[string][]string, len(c.Codes))
	for k, v := range c.Codes {
		out.Codes[k] = append([]string(nil), v...)
	}
	out.Synonyms = append([]string(nil), c.Synonyms...)
	if c.Attributes != nil {
		out.Attributes = make(map[string]interface{}, len(c.Attributes))
		for k, v := range c.Attributes {
			out.Attributes[k] = v
		}
	}
	return &out
}

func (r *conceptRepoMem) Create(_ context.Context, c *MedicalConcept) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[c.ID] = cloneConcept(c)
	return nil
}

func (r *conceptRepoMem) GetByID(_ context.Context, id string) (*MedicalConcept, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, ErrConceptNotFound
	}
	return cloneConcept(c), nil
}

func (r *conceptRepoMem) Update(_ context.Context, c *MedicalConcept) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[c.ID]; !ok {
		return ErrConceptNotFound
	}
	r.byID[c.ID] = cloneConcept(c)
	return nil
}

func (r *conceptRepoMem) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return ErrConceptNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *conceptRepoMem) List(_ context.Context, limit, offset int) ([]*MedicalConcept, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]*MedicalConcept, 0, len(r.byID))
	for _, c := range r.byID {
		items = append(items, cloneConcept(c))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ConceptName < items[j].ConceptName })
	total := len(items)
	lo, hi := pagination.Params{Limit: limit, Offset: offset}.Window(total)
	return items[lo:hi], total, nil
}

type pairingRepoMem struct {
	mu   sync.RWMutex
	byID map[string]*ClinicalPairing
}

func NewPairingRepoMem() PairingRepository {
	return &pairingRepoMem{byID: make(map[string]*ClinicalPairing)}
}

func clonePairing(p *ClinicalPairing) *ClinicalPairing {
	out := *p
	out.SourceType = append([]string(nil), p.SourceType...)
	out.SourceDetails = append([]string(nil), p.SourceDetails...)
	return &out
}

func (r *pairingRepoMem) Create(_ context.Context, p *ClinicalPairing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[p.ID] = clonePairing(p)
	return nil
}

func (r *pairingRepoMem) GetByID(_ context.Context, id string) (*ClinicalPairing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, ErrPairingNotFound
	}
	return clonePairing(p), nil
}

func (r *pairingRepoMem) Update(_ context.Context, p *ClinicalPairing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.ID]; !ok {
		return ErrPairingNotFound
	}
	r.byID[p.ID] = clonePairing(p)
	return nil
}

func (r *pairingRepoMem) List(_ context.Context, limit, offset int) ([]*ClinicalPairing, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]*ClinicalPairing, 0, len(r.byID))
	for _, p := range r.byID {
		items = append(items, clonePairing(p))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	total := len(items)
	lo, hi := pagination.Params{Limit: limit, Offset: offset}.Window(total)
	return items[lo:hi], total, nil
}

func (r *pairingRepoMem) ListByCriticality(_ context.Context, critical bool, n int) ([]*ClinicalPairing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var items []*ClinicalPairing
	for _, p := range r.byID {
		if p.Status == PairingActive && p.IsCritical == critical {
			items = append(items, clonePairing(p))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ConfidenceScore > items[j].ConfidenceScore })
	if n >= 0 && n < len(items) {
		items = items[:n]
	}
	return items, nil
}

type findingRepoMem struct {
	mu   sync.RWMutex
	byID map[string]*CriticalFinding
}

func NewFindingRepoMem() FindingRepository {
	return &findingRepoMem{byID: make(map[string]*CriticalFinding)}
}

func cloneFinding(f *CriticalFinding) *CriticalFinding {
	out := *f
	out.DiagnosisInfo = append([]string(nil), f.DiagnosisInfo...)
	out.ProcedureInfo = append([]string(nil), f.ProcedureInfo...)
	return &out
}

func (r *findingRepoMem) Create(_ context.Context, f *CriticalFinding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[f.ID] = cloneFinding(f)
	return nil
}

func (r *findingRepoMem) GetByID(_ context.Context, id string) (*CriticalFinding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.byID[id]
	if !ok {
		return nil, ErrFindingNotFound
	}
	return cloneFinding(f), nil
}

func (r *findingRepoMem) List(_ context.Context, limit, offset int) ([]*CriticalFinding, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]*CriticalFinding, 0, len(r.byID))
	for _, f := range r.byID {
		items = append(items, cloneFinding(f))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].AssessedOn.After(items[j].AssessedOn) })
	total := len(items)
	lo, hi := pagination.Params{Limit: limit, Offset: offset}.Window(total)
	return items[lo:hi], total, nil
}

func (r *findingRepoMem) ListByClaim(_ context.Context, claimID string) ([]*CriticalFinding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var items []*CriticalFinding
	for _, f := range r.byID {
		if f.ClaimID == claimID {
			items = append(items, cloneFinding(f))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].AssessedOn.After(items[j].AssessedOn) })
	return items, nil
}
