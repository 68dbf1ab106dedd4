package claims

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/claimflow/claimflow/pkg/pagination"
)

// claimRepoMem is the in-memory adapter used by demo mode and tests. It
// stores deep copies so callers can't mutate repository state behind its
// back.
type claimRepoMem struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*Claim
	byNum  map[string]uuid.UUID
}

func NewRepoMem() Repository {
	return &claimRepoMem{
		byID:  make(map[uuid.UUID]*Claim),
		byNum: make(map[string]uuid.UUID),
	}
}

func (r *claimRepoMem) Create(_ context.Context, c *Claim) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	r.byID[c.ID] = cloneClaim(c)
	r.byNum[c.ClaimNumber] = c.ID
	return nil
}

func (r *claimRepoMem) GetByID(_ context.Context, id uuid.UUID) (*Claim, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneClaim(c), nil
}

func (r *claimRepoMem) GetByClaimNumber(_ context.Context, claimNumber string) (*Claim, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byNum[claimNumber]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneClaim(r.byID[id]), nil
}

func (r *claimRepoMem) Update(_ context.Context, c *Claim) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[c.ID]
	if !ok {
		return ErrNotFound
	}
	clone := cloneClaim(c)
	clone.CreatedAt = existing.CreatedAt
	clone.UpdatedAt = time.Now().UTC()
	r.byID[c.ID] = clone
	if existing.ClaimNumber != c.ClaimNumber {
		delete(r.byNum, existing.ClaimNumber)
	}
	r.byNum[c.ClaimNumber] = c.ID
	return nil
}

// all returns every claim sorted by submission date, newest first.
func (r *claimRepoMem) all(filter func(*Claim) bool) []*Claim {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]*Claim, 0, len(r.byID))
	for _, c := range r.byID {
		if filter == nil || filter(c) {
			items = append(items, cloneClaim(c))
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].SubmissionDate.After(items[j].SubmissionDate)
	})
	return items
}

func page(items []*Claim, limit, offset int) ([]*Claim, int) {
	total := len(items)
	lo, hi := pagination.Params{Limit: limit, Offset: offset}.Window(total)
	return items[lo:hi], total
}

func (r *claimRepoMem) List(_ context.Context, limit, offset int) ([]*Claim, int, error) {
	items, total := page(r.all(nil), limit, offset)
	return items, total, nil
}

func (r *claimRepoMem) ListByStatus(_ context.Context, status ClaimStatus, limit, offset int) ([]*Claim, int, error) {
	items, total := page(r.all(func(c *Claim) bool { return c.Status == status }), limit, offset)
	return items, total, nil
}

func (r *claimRepoMem) ListByRiskLevel(_ context.Context, risk RiskLevel, limit, offset int) ([]*Claim, int, error) {
	items, total := page(r.all(func(c *Claim) bool { return c.RiskLevel == risk }), limit, offset)
	return items, total, nil
}

func (r *claimRepoMem) ListByBatch(_ context.Context, batchID string, limit, offset int) ([]*Claim, int, error) {
	items, total := page(r.all(func(c *Claim) bool { return c.BatchID == batchID }), limit, offset)
	return items, total, nil
}

func (r *claimRepoMem) Recent(_ context.Context, n int) ([]*Claim, error) {
	items := r.all(nil)
	if n >= 0 && n < len(items) {
		items = items[:n]
	}
	return items, nil
}

func (r *claimRepoMem) Flagged(_ context.Context, n int) ([]*Claim, error) {
	items := r.all(func(c *Claim) bool { return c.Flagged() })
	if n >= 0 && n < len(items) {
		items = items[:n]
	}
	return items, nil
}

func cloneClaim(c *Claim) *Claim {
	out := *c
	out.DiagnosisCodes = append([]CodedEntry(nil), c.DiagnosisCodes...)
	out.ProcedureCodes = append([]CodedEntry(nil), c.ProcedureCodes...)
	out.MedicationCodes = append([]MedicationEntry(nil), c.MedicationCodes...)
	out.RelatedClaims = append([]string(nil), c.RelatedClaims...)
	out.Documents = append([]Document(nil), c.Documents...)
	out.Notes = append([]Note(nil), c.Notes...)
	out.AuditTrail = append([]AuditEvent(nil), c.AuditTrail...)
	out.LineItems = make([]ClaimLineItem, len(c.LineItems))
	for i, li := range c.LineItems {
		out.LineItems[i] = li
		out.LineItems[i].DiagnosisCodes = append([]string(nil), li.DiagnosisCodes...)
		out.LineItems[i].Modifiers = append([]string(nil), li.Modifiers...)
	}
	if c.DataQualityReview != nil {
		review := *c.DataQualityReview
		review.Flags = append([]ReviewFlag(nil), c.DataQualityReview.Flags...)
		out.DataQualityReview = &review
	}
	return &out
}
