package cognition

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/canon"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/signals"
)

// HardCycleCap bounds MaxCycles regardless of configuration or gradient shifts.
const HardCycleCap = 5

// #region engine

// Engine commits ambiguous evidence to a single hypothesis in bounded work.
// It holds only immutable configuration and is safe for concurrent use.
type Engine struct {
	config Config
}

// NewEngine creates an engine with the given configuration.
func NewEngine(config Config) *Engine {
	return &Engine{config: config}
}

// BaseParams returns the configured thresholds before any modulation.
func (e *Engine) BaseParams() Params {
	return e.config.Params()
}

// #endregion engine

// #region resolve-params

// resolveParams applies situation overrides over p and coerces every field
// into a usable range.
func (e *Engine) resolveParams(sit Situation, p Params) Params {
	if sit.VarianceThreshold != nil {
		p.VarianceThreshold = *sit.VarianceThreshold
	}
	if sit.ConfidenceLock != nil {
		p.ConfidenceLock = *sit.ConfidenceLock
	}
	if sit.MaxCycles != nil {
		p.MaxCycles = *sit.MaxCycles
	}
	if sit.MaxHypotheses != nil {
		p.MaxHypotheses = *sit.MaxHypotheses
	}

	p.VarianceThreshold = signals.Clamp01(signals.Finite(p.VarianceThreshold, e.config.VarianceThreshold))
	p.ConfidenceLock = signals.Clamp01(signals.Finite(p.ConfidenceLock, e.config.ConfidenceLock))
	if p.MaxCycles < 1 {
		p.MaxCycles = 1
	}
	if p.MaxCycles > HardCycleCap {
		p.MaxCycles = HardCycleCap
	}
	limit := e.config.MaxParallelHypotheses
	if limit < 1 {
		limit = 1
	}
	if p.MaxHypotheses < 1 || p.MaxHypotheses > limit {
		p.MaxHypotheses = limit
	}
	return p
}

// #endregion resolve-params

// #region generate

// GenerateHypotheses builds at most limit hypotheses. Explicit candidates win,
// then the situation's Generator, then index-tagged placeholders. Candidates
// are chosen by content hash, so the same candidate set yields the same
// hypotheses regardless of list order.
func (e *Engine) GenerateHypotheses(ctx context.Context, sit Situation, limit int) []Hypothesis {
	if limit < 1 {
		limit = 1
	}
	candidates := sit.Candidates
	if len(candidates) == 0 && sit.Generator != nil {
		candidates = safeGenerate(ctx, sit.Generator, sit.Input)
	}
	if len(candidates) == 0 {
		return e.placeholders(sit.Input, limit)
	}

	payloads := make([]any, len(candidates))
	for i, c := range candidates {
		payloads[i] = candidateKey(c)
	}
	order := canon.Order(payloads)
	if len(order) > limit {
		order = order[:limit]
	}

	out := make([]Hypothesis, 0, len(order))
	for _, idx := range order {
		c := candidates[idx]
		id := c.ID
		if id == "" {
			id = "h-" + canon.Hash(c.Payload)[:12]
		}
		out = append(out, Hypothesis{
			ID:         id,
			Payload:    c.Payload,
			Confidence: signals.Optional01(c.Confidence, e.config.InitialConfidence),
			Stability:  signals.Optional01(c.Stability, e.config.InitialStability),
		})
	}
	return out
}

func (e *Engine) placeholders(input any, n int) []Hypothesis {
	out := make([]Hypothesis, n)
	for i := range out {
		out[i] = Hypothesis{
			ID:         fmt.Sprintf("h-%d", i),
			Payload:    map[string]any{"variant": i, "input": input},
			Confidence: signals.Clamp01(e.config.InitialConfidence),
			Stability:  signals.Clamp01(e.config.InitialStability),
		}
	}
	return out
}

// candidateKey is the value hashed for ordering: the payload plus any
// explicit ID, so identical payloads with distinct IDs stay distinct.
func candidateKey(c Candidate) any {
	if c.ID == "" {
		return c.Payload
	}
	return map[string]any{"id": c.ID, "payload": c.Payload}
}

// safeGenerate returns nil when the generator fails or panics.
func safeGenerate(ctx context.Context, g Generator, input any) (out []Candidate) {
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()
	cands, err := g.Generate(ctx, input)
	if err != nil {
		return nil
	}
	return cands
}

// #endregion generate

// #region evaluate

// EvaluateConfidence rescores h for cycle. It only reads h and the
// situation, never another hypothesis. Stability becomes 1 - |after - before|.
func (e *Engine) EvaluateConfidence(ctx context.Context, sit Situation, h Hypothesis, cycle int) Hypothesis {
	before := signals.Clamp01(h.Confidence)
	after := e.score(ctx, sit, h, cycle)
	h.Confidence = after
	h.Stability = signals.Clamp01(1 - math.Abs(after-before))
	return h
}

func (e *Engine) score(ctx context.Context, sit Situation, h Hypothesis, cycle int) float64 {
	if sit.Scorer != nil {
		if s, ok := safeScore(ctx, sit.Scorer, h, cycle); ok {
			return s.Confidence()
		}
	}
	return defaultConfidence(h.Payload, sit.Constraint)
}

// safeScore reports ok=false when the scorer errors or panics.
func safeScore(ctx context.Context, scorer Scorer, h Hypothesis, cycle int) (s Score, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	s, err := scorer.Score(ctx, h, cycle)
	if err != nil {
		return Score{}, false
	}
	return s, true
}

// evaluateCycle scores every hypothesis concurrently and waits for all of
// them. Each goroutine writes only its own slot of the result slice.
func (e *Engine) evaluateCycle(ctx context.Context, sit Situation, hs []Hypothesis, cycle int) []Hypothesis {
	next := make([]Hypothesis, len(hs))
	g, gctx := errgroup.WithContext(ctx)
	for i := range hs {
		i := i
		g.Go(func() error {
			next[i] = e.EvaluateConfidence(gctx, sit, hs[i], cycle)
			return nil
		})
	}
	_ = g.Wait()
	return next
}

// #endregion evaluate

// #region collapse

// Collapse runs generation and up to MaxCycles evaluation cycles, attempting
// collapse after each. It always terminates with a result; when the loop is
// exhausted the final state is force-collapsed.
func (e *Engine) Collapse(ctx context.Context, sit Situation, base Params) CollapseResult {
	p := e.resolveParams(sit, base)
	set := NewHypothesisSet(e.GenerateHypotheses(ctx, sit, p.MaxHypotheses))

	for cycle := 1; cycle <= p.MaxCycles; cycle++ {
		set.Hypotheses = e.evaluateCycle(ctx, sit, set.Hypotheses, cycle)
		set.Variance = CalculateVariance(set.Hypotheses)
		if res, ok := set.AttemptCollapse(cycle, p); ok {
			return res
		}
	}
	res, _ := set.ForceCollapse(p.MaxCycles)
	return res
}

// #endregion collapse

// #region ambiguity

// Ambiguity summarizes how uncertain a collapse was: low confidence and a
// wide spread both raise it.
func Ambiguity(r CollapseResult) float64 {
	return signals.Clamp01(1 - r.Confidence + r.Variance)
}

// #endregion ambiguity
