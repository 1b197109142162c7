package attractor

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/signals"
)

// #region selector

// Selector scores and selects attractors against an immutable registry.
type Selector struct {
	registry *Registry
	config   Config
}

// NewSelector creates a selector. A nil registry selects DefaultRegistry.
func NewSelector(registry *Registry, config Config) *Selector {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Selector{registry: registry, config: config}
}

// Registry returns the selector's registry.
func (s *Selector) Registry() *Registry {
	return s.registry
}

// #endregion selector

// #region score

// Score returns each attractor's weighted-average fit, in priority order.
func (s *Selector) Score(needs Needs) []Score {
	needs = needs.clamped()
	out := make([]Score, 0, len(Priority))
	for _, id := range Priority {
		w := s.registry.Definition(id).Weights
		sum := w.sum()
		v := 0.0
		if sum > 0 {
			v = (needs.Clarity*w.Clarity + needs.Novelty*w.Novelty +
				needs.Risk*w.Risk + needs.Communication*w.Communication) / sum
		}
		out = append(out, Score{
			ID:    id,
			Score: signals.Clamp01(v),
			Reasons: []string{
				fmt.Sprintf("clarity=%.2f*%.2f", needs.Clarity, w.Clarity),
				fmt.Sprintf("novelty=%.2f*%.2f", needs.Novelty, w.Novelty),
				fmt.Sprintf("risk=%.2f*%.2f", needs.Risk, w.Risk),
				fmt.Sprintf("communication=%.2f*%.2f", needs.Communication, w.Communication),
			},
		})
	}
	return out
}

func scoreOf(scores []Score, id ID) float64 {
	for _, sc := range scores {
		if sc.ID == id {
			return sc.Score
		}
	}
	return 0
}

// #endregion score

// #region select

// Select applies the selection rules in order, then the policy modifiers.
// The returned policy always starts from the registry default for the
// chosen attractor.
func (s *Selector) Select(needs Needs, scores []Score, collapseConfidence float64, ictx IntegrationContext) Result {
	cfg := s.config
	needs = needs.clamped()
	cc := signals.Clamp01(collapseConfidence)

	var res Result
	switch {
	case ictx.SecurityFlags.Active() || needs.Risk >= cfg.ProtectionRisk:
		res = Result{
			ID:         Protection,
			Confidence: math.Max(scoreOf(scores, Protection), needs.Risk),
			Rule:       RuleProtection,
		}
		res.Confidence = s.capLowConfidence(res.Confidence, cc)
	case needs.Clarity >= cfg.OrderClarity && cc >= cfg.OrderConfidence:
		res = Result{
			ID:         Order,
			Confidence: math.Max(scoreOf(scores, Order), needs.Clarity),
			Rule:       RuleOrder,
		}
		res.Confidence = s.capLowConfidence(res.Confidence, cc)
	default:
		best, bestScore := Expression, math.Inf(-1)
		for _, id := range Priority {
			v := scoreOf(scores, id)
			if v > bestScore+cfg.TieEpsilon {
				best, bestScore = id, v
			}
		}
		res = Result{ID: best, Confidence: bestScore, Rule: RuleMaxScore}
	}

	res.Confidence = signals.Clamp01(res.Confidence)
	res.Policy = s.modify(s.registry.Policy(res.ID), res.ID, ictx)
	return res
}

func (s *Selector) capLowConfidence(v, collapseConfidence float64) float64 {
	if collapseConfidence < s.config.LowConfidence && v > s.config.LowConfidenceCap {
		return s.config.LowConfidenceCap
	}
	return v
}

// modify applies the intent and time-pressure policy modifiers.
func (s *Selector) modify(p Policy, id ID, ictx IntegrationContext) Policy {
	intent := signals.NormalizeIntent(ictx.Intent)
	if intent == signals.IntentOverloaded && id != Protection {
		p.Structure = StructureChecklist
		p.Verbosity = VerbosityMinimal
	}
	downgraded := false
	if signals.NormalizeTimePressure(ictx.TimePressure) == signals.TimePressureHigh {
		p.Verbosity = p.Verbosity.Shift(-1)
		downgraded = true
	}
	if intent == signals.IntentExploratory && id == Insight && !downgraded {
		p.Verbosity = VerbosityExpanded
	}
	return p
}

// #endregion select

// #region choose

// Choose runs needs, scoring and selection in one call.
func (s *Selector) Choose(collapseConfidence float64, ictx IntegrationContext) (Needs, []Score, Result) {
	needs := s.ComputeNeeds(collapseConfidence, ictx)
	scores := s.Score(needs)
	return needs, scores, s.Select(needs, scores, collapseConfidence, ictx)
}

// #endregion choose
