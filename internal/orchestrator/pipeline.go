package orchestrator

// #region imports
import (
	"context"
	"fmt"
	"math"

	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/attractor"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/cognition"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/gate"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/gradient"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/orderfocus"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/posture"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/signals"
)

// #endregion

// #region config

// Config aggregates every stage's configuration table.
type Config struct {
	Cognition  cognition.Config  `mapstructure:"cognition" yaml:"cognition"`
	Gradient   gradient.Config   `mapstructure:"gradient" yaml:"gradient"`
	Attractor  attractor.Config  `mapstructure:"attractor" yaml:"attractor"`
	Posture    posture.Config    `mapstructure:"posture" yaml:"posture"`
	OrderFocus orderfocus.Config `mapstructure:"order_focus" yaml:"order_focus"`
	Gate       gate.GateConfig   `mapstructure:"gate" yaml:"gate"`
}

// DefaultConfig returns every stage's shipped defaults.
func DefaultConfig() Config {
	return Config{
		Cognition:  cognition.DefaultConfig(),
		Gradient:   gradient.DefaultConfig(),
		Attractor:  attractor.DefaultConfig(),
		Posture:    posture.DefaultConfig(),
		OrderFocus: orderfocus.DefaultConfig(),
		Gate:       gate.DefaultGateConfig(),
	}
}

// Strategies are the optional collapse callbacks shared by every turn.
type Strategies struct {
	Generator  cognition.Generator
	Scorer     cognition.Scorer
	Constraint cognition.Constraint
}

// #endregion

// #region pipeline

// Pipeline wires the six stages together. It holds no per-turn state and
// is safe for concurrent use.
type Pipeline struct {
	config     Config
	strategies Strategies
	engine     *cognition.Engine
	selector   *attractor.Selector
	classifier *posture.Classifier
	gate       *gate.Gate
}

// NewPipeline builds a pipeline. A nil registry selects the default
// attractor table.
func NewPipeline(config Config, registry *attractor.Registry, strategies Strategies) *Pipeline {
	return &Pipeline{
		config:     config,
		strategies: strategies,
		engine:     cognition.NewEngine(config.Cognition),
		selector:   attractor.NewSelector(registry, config.Attractor),
		classifier: posture.NewClassifier(config.Posture),
		gate:       gate.NewGate(config.Gate),
	}
}

// Config returns the pipeline's configuration.
func (p *Pipeline) Config() Config {
	return p.config
}

// #endregion

// #region decide

// Decide runs one full decision cycle over in. Identical inputs yield
// identical traces. The only error is a context cancelled before the
// cycle starts.
func (p *Pipeline) Decide(ctx context.Context, in Input) (Trace, error) {
	if err := ctx.Err(); err != nil {
		return Trace{}, fmt.Errorf("decide %s: %w", in.TurnID, err)
	}

	var prev []signals.Intent
	if n := len(in.History.Intents); n > 0 {
		prev = append(prev, in.History.Intents[n-1].Intent)
	}
	class := ClassifyTurn(in.Text, prev...)
	intent := class.Intent
	if in.Intent != "" {
		intent = signals.NormalizeIntent(in.Intent)
	}
	impact := class.Impact
	if in.Impact != "" {
		impact = signals.NormalizeImpact(in.Impact)
	}
	tp := signals.NormalizeTimePressure(in.TimePressure)

	tr := Trace{TurnID: in.TurnID, Classification: class, Intent: intent, Impact: impact}

	// Gradients first: they shape the collapse thresholds.
	tr.BaseGradients = gradient.Derive(gradient.Context{
		Intent:        intent,
		TimePressure:  tp,
		SecurityFlags: in.SecurityFlags,
		RecentErrors:  in.RecentErrors,
		SystemLoad:    in.SystemLoad,
		Sensors:       in.Sensors,
	}, p.config.Gradient)
	tr.CollapseDeltas = gradient.ApplyToCollapse(tr.BaseGradients, p.config.Gradient)
	tr.CollapseParams = gradient.EffectiveCollapseParams(p.engine.BaseParams(), tr.CollapseDeltas, p.config.Gradient)

	tr.Collapse = p.engine.Collapse(ctx, cognition.Situation{
		Input:      in.Text,
		Candidates: in.Candidates,
		Generator:  p.strategies.Generator,
		Scorer:     p.strategies.Scorer,
		Constraint: p.strategies.Constraint,
	}, tr.CollapseParams)
	tr.Ambiguity = cognition.Ambiguity(tr.Collapse)
	tr.Gradients = gradient.WithCollapseConfidence(tr.BaseGradients, tr.Collapse.Confidence, p.config.Gradient)

	ictx := attractor.IntegrationContext{
		Intent:        intent,
		Domain:        in.Domain,
		SecurityFlags: in.SecurityFlags,
		TimePressure:  tp,
		Payload:       map[string]any{"text": in.Text, "hypothesis": tr.Collapse.Selected.Payload},
	}
	tr.Needs, tr.Scores, tr.Attractor = p.selector.Choose(tr.Collapse.Confidence, ictx)
	tr.RiskClass, _ = p.selector.ScanRisk(ictx)
	tr.Attractor.Policy = gradient.ApplyToAttractorPolicy(
		tr.Attractor.Policy, tr.Attractor.ID, tr.Gradients, intent, in.SecurityFlags, p.config.Gradient)

	tr.Posture = p.classifier.Classify(posture.Input{
		Text:         in.Text,
		Interaction:  in.Interaction,
		Sensors:      in.Sensors,
		TimePressure: tp,
		History:      in.History.Postures,
	})

	tr.OrderFocus = orderfocus.Gate(orderfocus.Input{
		CollapseConfidence:    tr.Collapse.Confidence,
		Ambiguity:             tr.Ambiguity,
		Attractor:             tr.Attractor.ID,
		Gradients:             tr.Gradients,
		Intent:                intent,
		TimePressure:          tp,
		Impact:                impact,
		SecurityFlags:         in.SecurityFlags,
		ExplicitContradiction: in.ExplicitContradiction,
		History:               in.History.Intents,
		LastSignalAt:          in.History.LastSignalAt,
		Now:                   in.Now,
	}, p.config.OrderFocus)

	of := tr.OrderFocus
	pc := tr.Posture.Constraints
	tr.Decision = p.gate.Evaluate(gate.Input{
		Collapse:           tr.Collapse,
		Attractor:          tr.Attractor,
		Gradients:          tr.Gradients,
		OrderFocus:         &of,
		Posture:            &pc,
		Intent:             intent,
		Impact:             impact,
		Risk:               tr.Needs.Risk,
		Ambiguity:          tr.Ambiguity,
		Instability:        math.Max(of.Oscillation, of.Noise),
		SecurityFlags:      in.SecurityFlags,
		DisallowedByPolicy: in.Disallowed || class.Disallowed,
	})
	return tr, nil
}

// #endregion
