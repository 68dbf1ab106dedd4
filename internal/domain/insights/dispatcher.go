package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/claimflow/claimflow/internal/domain/claims"
)

// ClaimSource resolves the claim a dispatch runs against. Satisfied by
// claims.Service.
type ClaimSource interface {
	Get(ctx context.Context, id uuid.UUID) (*claims.Claim, error)
}

// Dispatcher fans one claim out to all five insight generators in parallel,
// stores the outcome per (claim, kind), and resets reviewer feedback so
// stale verdicts never apply to fresh content. A failed generator never
// blocks the others: its record carries the fallback payload and the
// failure classification.
type Dispatcher struct {
	source  ClaimSource
	gen     *Generator
	records RecordRepository
	tracker *Tracker
	log     zerolog.Logger
	now     func() time.Time
}

func NewDispatcher(source ClaimSource, gen *Generator, records RecordRepository, tracker *Tracker, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		source:  source,
		gen:     gen,
		records: records,
		tracker: tracker,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the dispatcher clock. Tests only.
func (d *Dispatcher) SetClock(now func() time.Time) { d.now = now }

// criticalityInputFor flattens the claim's coded entries into the loose
// string form the assessment accepts. Falls back to the narrative when a
// claim carries no codes at all.
func criticalityInputFor(c *claims.Claim) CriticalityInput {
	var in CriticalityInput
	for _, d := range c.DiagnosisCodes {
		in.DiagnosisInformation = append(in.DiagnosisInformation, fmt.Sprintf("%s (%s)", d.Code, d.Description))
	}
	for _, p := range c.ProcedureCodes {
		in.ProcedureInformation = append(in.ProcedureInformation, fmt.Sprintf("%s (%s)", p.Code, p.Description))
	}
	if len(in.DiagnosisInformation) == 0 {
		in.DiagnosisInformation = []string{c.ClaimDetailsFull}
	}
	if len(in.ProcedureInformation) == 0 {
		in.ProcedureInformation = []string{c.ClaimDetailsFull}
	}
	return in
}

// RefreshAll regenerates every insight kind for the claim. Generators run
// concurrently; all five always complete, and each stores its own record.
// Returns an error only when the claim cannot be loaded or a record cannot
// be stored, never for generation failures.
func (d *Dispatcher) RefreshAll(ctx context.Context, claimID uuid.UUID) error {
	c, err := d.source.Get(ctx, claimID)
	if err != nil {
		return fmt.Errorf("load claim %s: %w", claimID, err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return d.store(ctx, claimID, KindSummary, wrap(d.gen.Summary(ctx, c)))
	})
	g.Go(func() error {
		return d.store(ctx, claimID, KindFraud, wrap(d.gen.Fraud(ctx, c)))
	})
	g.Go(func() error {
		return d.store(ctx, claimID, KindTAT, wrap(d.gen.TAT(ctx, c)))
	})
	g.Go(func() error {
		return d.store(ctx, claimID, KindCriticality, wrap(d.gen.Criticality(ctx, criticalityInputFor(c), c.ClaimNumber)))
	})
	g.Go(func() error {
		return d.store(ctx, claimID, KindChronology, wrap(d.gen.Chronology(ctx, c)))
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if err := d.tracker.ResetAll(ctx, claimID); err != nil {
		return fmt.Errorf("reset feedback for claim %s: %w", claimID, err)
	}
	d.log.Info().Str("claim", c.ClaimNumber).Msg("insights regenerated")
	return nil
}

// stored is the kind-erased view of a Result, ready for persistence.
type stored struct {
	payload        json.RawMessage
	failed         bool
	failureKind    string
	failureMessage string
}

func wrap[T any](res Result[T]) stored {
	payload, err := json.Marshal(res.Data)
	if err != nil {
		// Insight payloads are plain structs; this cannot happen in practice.
		payload = []byte(`{}`)
	}
	return stored{
		payload:        payload,
		failed:         res.Failed,
		failureKind:    string(res.FailureKind),
		failureMessage: res.FailureMessage,
	}
}

func (d *Dispatcher) store(ctx context.Context, claimID uuid.UUID, kind Kind, s stored) error {
	rec := &InsightRecord{
		ClaimID:        claimID,
		Kind:           kind,
		Payload:        s.payload,
		Failed:         s.failed,
		FailureKind:    s.failureKind,
		FailureMessage: s.failureMessage,
		GeneratedAt:    d.now(),
	}
	if err := d.records.Upsert(ctx, rec); err != nil {
		return fmt.Errorf("store %s insight for claim %s: %w", kind, claimID, err)
	}
	return nil
}

// View bundles a stored insight with its reviewer verdict.
type View struct {
	*InsightRecord
	Feedback *Feedback `json:"feedback"`
}

// Snapshot returns the stored insights for a claim, each paired with its
// current feedback state.
func (d *Dispatcher) Snapshot(ctx context.Context, claimID uuid.UUID) ([]*View, error) {
	recs, err := d.records.ListByClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}
	out := make([]*View, 0, len(recs))
	for _, rec := range recs {
		fb, err := d.tracker.Status(ctx, claimID, rec.Kind)
		if err != nil {
			return nil, err
		}
		out = append(out, &View{InsightRecord: rec, Feedback: fb})
	}
	return out, nil
}
