package insights

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrJustificationRequired is returned when an override carries no reason.
var ErrJustificationRequired = errors.New("override justification is required")

// TransitionError reports a feedback action applied in the wrong state.
type TransitionError struct {
	From   FeedbackStatus
	Action string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s insight feedback in state %q", e.Action, e.From)
}

// Tracker is the reviewer feedback state machine, keyed (claim, kind).
// Verdicts move pending -> accepted (terminal until the insight is
// regenerated) or pending -> overridden, and an override can be walked back
// to pending. Regeneration resets every kind to pending.
type Tracker struct {
	repo FeedbackRepository
	now  func() time.Time
}

func NewTracker(repo FeedbackRepository) *Tracker {
	return &Tracker{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the tracker clock. Tests only.
func (t *Tracker) SetClock(now func() time.Time) { t.now = now }

// Status returns the verdict for one (claim, kind). A missing row reads as
// pending.
func (t *Tracker) Status(ctx context.Context, claimID uuid.UUID, kind Kind) (*Feedback, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown insight kind: %s", kind)
	}
	fb, err := t.repo.Get(ctx, claimID, kind)
	if errors.Is(err, ErrFeedbackNotFound) {
		return &Feedback{ClaimID: claimID, Kind: kind, Status: FeedbackPending}, nil
	}
	return fb, err
}

// StatusAll returns a verdict for every insight kind, in dispatch order.
func (t *Tracker) StatusAll(ctx context.Context, claimID uuid.UUID) ([]*Feedback, error) {
	out := make([]*Feedback, 0, len(AllKinds))
	for _, kind := range AllKinds {
		fb, err := t.Status(ctx, claimID, kind)
		if err != nil {
			return nil, err
		}
		out = append(out, fb)
	}
	return out, nil
}

// Accept marks the insight as accepted. Only a pending insight can be
// accepted; the verdict then holds until regeneration.
func (t *Tracker) Accept(ctx context.Context, claimID uuid.UUID, kind Kind) (*Feedback, error) {
	fb, err := t.Status(ctx, claimID, kind)
	if err != nil {
		return nil, err
	}
	if fb.Status != FeedbackPending {
		return nil, &TransitionError{From: fb.Status, Action: "accept"}
	}
	fb.Status = FeedbackAccepted
	fb.OverrideReason = ""
	fb.UpdatedAt = t.now()
	return fb, t.repo.Upsert(ctx, fb)
}

// Override marks the insight as overridden with the reviewer's
// justification. Only a pending insight can be overridden.
func (t *Tracker) Override(ctx context.Context, claimID uuid.UUID, kind Kind, justification string) (*Feedback, error) {
	if justification == "" {
		return nil, ErrJustificationRequired
	}
	fb, err := t.Status(ctx, claimID, kind)
	if err != nil {
		return nil, err
	}
	if fb.Status != FeedbackPending {
		return nil, &TransitionError{From: fb.Status, Action: "override"}
	}
	fb.Status = FeedbackOverridden
	fb.OverrideReason = justification
	fb.UpdatedAt = t.now()
	return fb, t.repo.Upsert(ctx, fb)
}

// CancelOverride walks an override back to pending and clears the reason.
func (t *Tracker) CancelOverride(ctx context.Context, claimID uuid.UUID, kind Kind) (*Feedback, error) {
	fb, err := t.Status(ctx, claimID, kind)
	if err != nil {
		return nil, err
	}
	if fb.Status != FeedbackOverridden {
		return nil, &TransitionError{From: fb.Status, Action: "cancel override"}
	}
	fb.Status = FeedbackPending
	fb.OverrideReason = ""
	fb.UpdatedAt = t.now()
	return fb, t.repo.Upsert(ctx, fb)
}

// ResetAll returns every kind for the claim to pending. Called after
// regeneration: stale verdicts must not survive new content.
func (t *Tracker) ResetAll(ctx context.Context, claimID uuid.UUID) error {
	return t.repo.DeleteByClaim(ctx, claimID)
}
