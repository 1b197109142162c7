package eval

import (
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/attractor"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/cognition"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/gate"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/gradient"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/orderfocus"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/posture"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/signals"
)

// #region eval-config
// EvalConfig controls which checks block a decision.
type EvalConfig struct {
	MaxOptions int  `mapstructure:"max_options" yaml:"max_options"`
	Strict     bool `mapstructure:"strict" yaml:"strict"` // treat informational checks as blocking
}

// DefaultEvalConfig returns the shipped validation settings.
func DefaultEvalConfig() EvalConfig {
	return EvalConfig{
		MaxOptions: 6,
		Strict:     false,
	}
}

// #endregion eval-config

// #region subject
// Subject is the slice of one decision trace the harness validates.
type Subject struct {
	Collapse      cognition.CollapseResult
	BaseGradients gradient.Vector
	Gradients     gradient.Vector
	Ambiguity     float64
	Needs         attractor.Needs
	Scores        []attractor.Score
	Attractor     attractor.Result
	Posture       posture.Result
	OrderFocus    orderfocus.State
	Decision      gate.Decision
	Intent        signals.Intent
	SecurityFlags signals.SecurityFlags
}

// #endregion subject

// #region eval-metric
// EvalMetric captures a single validation check result.
type EvalMetric struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Pass  bool    `json:"pass"`
}

// #endregion eval-metric

// #region eval-result
// EvalResult is the output of decision validation.
type EvalResult struct {
	Passed  bool         `json:"passed"`
	Metrics []EvalMetric `json:"metrics"`
	Reason  string       `json:"reason"`
}

// #endregion eval-result
