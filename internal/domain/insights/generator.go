package insights

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/claimflow/claimflow/internal/domain/claims"
	"github.com/claimflow/claimflow/internal/domain/knowledge"
	"github.com/claimflow/claimflow/internal/platform/ai"
	"github.com/claimflow/claimflow/internal/platform/telemetry"
)

// DefaultTimeout bounds a single backend call.
const DefaultTimeout = 30 * time.Second

// DefaultExemplarCount is how many pairings of each criticality are rendered
// into the assessment prompt.
const DefaultExemplarCount = 3

// ExemplarSource supplies knowledge-base pairings as calibration anchors for
// the criticality prompt. Satisfied by knowledge.Service.
type ExemplarSource interface {
	CriticalExemplars(ctx context.Context, n int) ([]knowledge.Exemplar, error)
}

// FindingRecorder logs critical findings produced by assessments. Satisfied
// by knowledge.Service.
type FindingRecorder interface {
	RecordFinding(ctx context.Context, f *knowledge.CriticalFinding) error
}

// GeneratorConfig wires a Generator. Backend is required; Exemplars and
// Findings are optional and simply skip their enrichment when absent.
type GeneratorConfig struct {
	Backend   ai.Backend
	Exemplars ExemplarSource
	Findings  FindingRecorder
	Timeout   time.Duration
	Logger    zerolog.Logger
	Metrics   *telemetry.Registry
}

// Generator produces one insight per call. Every method returns a Result
// whose Data is always usable; backend failures surface in the envelope, not
// as errors.
type Generator struct {
	backend   ai.Backend
	exemplars ExemplarSource
	findings  FindingRecorder
	timeout   time.Duration
	log       zerolog.Logger
	metrics   *telemetry.Registry
	now       func() time.Time
}

func NewGenerator(cfg GeneratorConfig) *Generator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Generator{
		backend:   cfg.Backend,
		exemplars: cfg.Exemplars,
		findings:  cfg.Findings,
		timeout:   cfg.Timeout,
		log:       cfg.Logger,
		metrics:   cfg.Metrics,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the generator clock. Tests only.
func (g *Generator) SetClock(now func() time.Time) { g.now = now }

func generate[T any](ctx context.Context, g *Generator, kind Kind, req ai.Request, fallback func() *T, normalize func(*T) error) Result[T] {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	raw, err := g.backend.Complete(ctx, req)
	if err == nil {
		var out *T
		out, err = ai.DecodeStrict[T](raw)
		if err == nil && normalize != nil {
			err = normalize(out)
		}
		if err == nil {
			g.record(kind, time.Since(start), false)
			return success(out)
		}
	}
	err = ai.Classify(err)
	g.record(kind, time.Since(start), true)
	g.log.Warn().Err(err).Str("kind", string(kind)).Str("prompt", req.Name).Msg("insight generation fell back")
	return failure(fallback(), err)
}

func (g *Generator) record(kind Kind, d time.Duration, failed bool) {
	if g.metrics != nil {
		g.metrics.RecordInsight(string(kind), d, failed)
	}
}

// Summary generates the claim summary insight.
func (g *Generator) Summary(ctx context.Context, c *claims.Claim) Result[ClaimSummary] {
	return generate(ctx, g, KindSummary, summaryRequest(c), func() *ClaimSummary {
		return &ClaimSummary{Summary: "AI summary is currently unavailable due to a service issue. Please try again later."}
	}, nil)
}

// Fraud generates the fraud-detection insight.
func (g *Generator) Fraud(ctx context.Context, c *claims.Claim) Result[FraudAssessment] {
	return generate(ctx, g, KindFraud, fraudRequest(c), func() *FraudAssessment {
		return &FraudAssessment{
			IsFraudulent:     false,
			FraudProbability: 0,
			FraudReason:      "AI service for fraud detection is currently unavailable. Please try again later.",
		}
	}, func(out *FraudAssessment) error {
		if out.FraudProbability < 0 || out.FraudProbability > 1 {
			return &ai.BackendError{Kind: ai.FailureMalformed, Err: fmt.Errorf("fraudProbability %v out of range", out.FraudProbability)}
		}
		return nil
	})
}

// TAT generates the turnaround-time prediction insight.
func (g *Generator) TAT(ctx context.Context, c *claims.Claim) Result[TATPrediction] {
	return generate(ctx, g, KindTAT, tatRequest(c), func() *TATPrediction {
		return &TATPrediction{
			PredictedTAT:    "Unavailable",
			ConfidenceScore: 0,
			Factors:         "AI service for TAT prediction is currently unavailable. Please try again later.",
		}
	}, func(out *TATPrediction) error {
		if out.ConfidenceScore < 0 || out.ConfidenceScore > 1 {
			return &ai.BackendError{Kind: ai.FailureMalformed, Err: fmt.Errorf("confidenceScore %v out of range", out.ConfidenceScore)}
		}
		return nil
	})
}

// Criticality assesses the diagnosis/procedure pairing. Knowledge-base
// pairings are rendered into the prompt as calibration anchors, and a
// critical verdict is logged as a finding against claimRef when a recorder
// is wired.
func (g *Generator) Criticality(ctx context.Context, in CriticalityInput, claimRef string) Result[CriticalityAssessment] {
	var exemplars []knowledge.Exemplar
	if g.exemplars != nil {
		var err error
		exemplars, err = g.exemplars.CriticalExemplars(ctx, DefaultExemplarCount)
		if err != nil {
			g.log.Warn().Err(err).Msg("criticality exemplars unavailable, prompting without anchors")
		}
	}

	res := generate(ctx, g, KindCriticality, criticalityRequest(in, exemplars), func() *CriticalityAssessment {
		return &CriticalityAssessment{
			IsCritical:       false,
			Reason:           "AI service for criticality assessment is currently unavailable. Please try again later.",
			SuggestedPathway: PathwayUndetermined,
		}
	}, func(out *CriticalityAssessment) error {
		switch out.SuggestedPathway {
		case PathwayCritical, PathwayNonCritical, PathwayUndetermined:
		case "":
			if out.IsCritical {
				out.SuggestedPathway = PathwayCritical
			} else {
				out.SuggestedPathway = PathwayNonCritical
			}
		default:
			return &ai.BackendError{Kind: ai.FailureMalformed, Err: fmt.Errorf("unknown suggestedPathway %q", out.SuggestedPathway)}
		}
		return nil
	})

	if !res.Failed && res.Data.IsCritical && g.findings != nil {
		f := &knowledge.CriticalFinding{
			AssessedOn:    g.now(),
			DiagnosisInfo: in.DiagnosisInformation,
			ProcedureInfo: in.ProcedureInformation,
			Reason:        res.Data.Reason,
			Source:        knowledge.SourceAIAssessment,
			ClaimID:       claimRef,
		}
		if err := g.findings.RecordFinding(ctx, f); err != nil {
			g.log.Error().Err(err).Str("claim", claimRef).Msg("record critical finding")
		}
	}
	return res
}

// Chronology generates the patient journey timeline. The model's ordering is
// not trusted: events are re-sorted ascending before the result is returned,
// and predicted events always carry a basis in details.
func (g *Generator) Chronology(ctx context.Context, c *claims.Claim) Result[Chronology] {
	return generate(ctx, g, KindChronology, chronologyRequest(c), func() *Chronology {
		return &Chronology{Events: []ChronologyEvent{{
			EventDate:   g.now().Format(time.RFC3339),
			EventName:   "Error generating timeline",
			Source:      "System",
			Details:     "The AI service for chronology generation is currently unavailable.",
			IsPredicted: false,
		}}}
	}, func(out *Chronology) error {
		sortChronology(out.Events)
		for i := range out.Events {
			if out.Events[i].IsPredicted && out.Events[i].Details == "" {
				out.Events[i].Details = "Inferred to fill a gap in the provided timeline."
			}
		}
		return nil
	})
}

// sortChronology orders events ascending by date. Events whose dates cannot
// be parsed keep their original positions; only the dated ones move.
func sortChronology(events []ChronologyEvent) {
	idx := make([]int, 0, len(events))
	for i := range events {
		if _, ok := parseEventDate(events[i].EventDate); ok {
			idx = append(idx, i)
		}
	}
	dated := make([]ChronologyEvent, len(idx))
	for j, i := range idx {
		dated[j] = events[i]
	}
	sort.SliceStable(dated, func(a, b int) bool {
		ta, _ := parseEventDate(dated[a].EventDate)
		tb, _ := parseEventDate(dated[b].EventDate)
		return ta.Before(tb)
	})
	for j, i := range idx {
		events[i] = dated[j]
	}
}

func parseEventDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
