// Package review records human data-quality verdicts on claims and routes
// the claim's pipeline state accordingly.
package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/claimflow/claimflow/internal/domain/claims"
)

// ErrNoReview is returned when a claim has no recorded review yet.
var ErrNoReview = errors.New("no data quality review recorded")

// ErrNoDecision rejects submissions that carry the placeholder status.
var ErrNoDecision = errors.New("a review decision is required")

// Submission is one reviewer verdict. Each submission replaces the claim's
// stored review wholesale.
type Submission struct {
	Status claims.ReviewStatus `json:"status"`
	Flags  []claims.ReviewFlag `json:"flags"`
	Notes  string              `json:"notes"`
}

// Outcome reports what a submission did to the claim.
type Outcome struct {
	Claim *claims.Claim `json:"claim"`
	// StatusChanged is true when the verdict moved the claim's processing
	// status.
	StatusChanged bool `json:"statusChanged"`
	// Unresolved is true when the verdict deliberately left the processing
	// status untouched and the claim still needs pipeline routing.
	Unresolved bool `json:"unresolved"`
}

type Service struct {
	claims *claims.Service
	now    func() time.Time
}

func NewService(claimSvc *claims.Service) *Service {
	return &Service{
		claims: claimSvc,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the service clock. Tests only.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

func validate(sub Submission) error {
	if !sub.Status.Valid() {
		return fmt.Errorf("invalid review status: %s", sub.Status)
	}
	if sub.Status == claims.ReviewNoDecision {
		return ErrNoDecision
	}
	for _, f := range sub.Flags {
		if !f.Valid() {
			return fmt.Errorf("invalid review flag: %s", f)
		}
	}
	return nil
}

// routing maps a review verdict to the claim's next processing status. A nil
// entry means the verdict does not touch pipeline state.
func routing(status claims.ReviewStatus) (claims.ProcessingStatus, bool) {
	switch status {
	case claims.ReviewAcceptedClean:
		return claims.ProcessingProcessed, true
	case claims.ReviewFlaggedFWA, claims.ReviewRequiresCorrection:
		return claims.ProcessingReviewRequired, true
	}
	return "", false
}

// Submit records the verdict on the claim. The submission is validated
// before any mutation: a rejected submission leaves the claim untouched.
// Resubmitting replaces the previous review wholesale.
func (s *Service) Submit(ctx context.Context, claimID uuid.UUID, sub Submission, reviewer string) (*Outcome, error) {
	if err := validate(sub); err != nil {
		return nil, err
	}
	if reviewer == "" {
		return nil, fmt.Errorf("reviewer identity is required")
	}

	claim, err := s.claims.Get(ctx, claimID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	flags := sub.Flags
	if flags == nil {
		flags = []claims.ReviewFlag{}
	}
	claim.DataQualityReview = &claims.DataQualityReview{
		Status:     sub.Status,
		Flags:      flags,
		Notes:      sub.Notes,
		ReviewedBy: reviewer,
		ReviewDate: &now,
	}

	out := &Outcome{Claim: claim}
	if next, ok := routing(sub.Status); ok {
		if claim.ProcessingStatus != next {
			claim.ProcessingStatus = next
			out.StatusChanged = true
		}
	} else {
		// Exclude-from-training is a data governance verdict, not a
		// pipeline one: the claim still awaits routing.
		out.Unresolved = true
	}

	claim.AppendAudit(now, "Data Quality Review Submitted", reviewer,
		fmt.Sprintf("Status: %s", sub.Status))
	if err := s.claims.Update(ctx, claim); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the claim's recorded review.
func (s *Service) Get(ctx context.Context, claimID uuid.UUID) (*claims.DataQualityReview, error) {
	claim, err := s.claims.Get(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if claim.DataQualityReview == nil {
		return nil, ErrNoReview
	}
	return claim.DataQualityReview, nil
}
