package cognition

import (
	"context"

	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/signals"
)

// #region interfaces

// Generator produces candidate payloads when the situation carries none.
type Generator interface {
	Generate(ctx context.Context, input any) ([]Candidate, error)
}

// Scorer rates one hypothesis for one cycle. Implementations must not depend
// on the state of other hypotheses; calls for one cycle run concurrently.
type Scorer interface {
	Score(ctx context.Context, h Hypothesis, cycle int) (Score, error)
}

// Constraint reports whether a payload satisfies caller constraints.
type Constraint func(payload any) bool

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, input any) ([]Candidate, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, input any) ([]Candidate, error) {
	return f(ctx, input)
}

// ScorerFunc adapts a function to Scorer.
type ScorerFunc func(ctx context.Context, h Hypothesis, cycle int) (Score, error)

// Score calls f.
func (f ScorerFunc) Score(ctx context.Context, h Hypothesis, cycle int) (Score, error) {
	return f(ctx, h, cycle)
}

// #endregion interfaces

// #region score

// Score is either a raw confidence or a component triple.
type Score struct {
	raw        float64
	components *Components
}

// Components is the structured form of a score; the three terms are averaged
// with equal weight.
type Components struct {
	Alignment              float64 `json:"alignment"`
	Coherence              float64 `json:"coherence"`
	ConstraintSatisfaction float64 `json:"constraint_satisfaction"`
}

// RawScore wraps a plain [0,1] confidence.
func RawScore(v float64) Score {
	return Score{raw: v}
}

// TripleScore builds a score from its three components.
func TripleScore(alignment, coherence, constraintSatisfaction float64) Score {
	return Score{components: &Components{
		Alignment:              alignment,
		Coherence:              coherence,
		ConstraintSatisfaction: constraintSatisfaction,
	}}
}

// Confidence resolves the score to a clamped confidence.
func (s Score) Confidence() float64 {
	if s.components == nil {
		return signals.Clamp01(s.raw)
	}
	c := s.components
	sum := signals.Clamp01(c.Alignment) + signals.Clamp01(c.Coherence) + signals.Clamp01(c.ConstraintSatisfaction)
	return signals.Clamp01(sum / 3)
}

// #endregion score

// #region default-heuristic

// defaultConfidence scores a payload without a caller scorer. Structured or
// string payloads align better; any non-nil payload is more coherent; an
// optional constraint contributes a pass/fail term.
func defaultConfidence(payload any, constraint Constraint) float64 {
	alignment := 0.5
	switch p := payload.(type) {
	case nil:
		alignment = 0.2
	case string:
		if p != "" {
			alignment = 0.8
		}
	case map[string]any, []any:
		alignment = 0.8
	default:
		if isStructured(p) {
			alignment = 0.8
		}
	}

	coherence := 0.2
	if payload != nil {
		coherence = 0.8
	}

	if constraint == nil {
		return signals.Clamp01((alignment + coherence) / 2)
	}
	satisfied := 0.0
	if safeConstraint(constraint, payload) {
		satisfied = 1.0
	}
	return signals.Clamp01((alignment + coherence + satisfied) / 3)
}

// safeConstraint treats a panicking predicate as a failed constraint.
func safeConstraint(constraint Constraint, payload any) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return constraint(payload)
}

// #endregion default-heuristic
