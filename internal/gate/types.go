package gate

import (
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/attractor"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/cognition"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/gradient"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/orderfocus"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/posture"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/signals"
)

// #region disposition
// Disposition is the final five-way action decision.
type Disposition string

const (
	Act     Disposition = "act"
	Pause   Disposition = "pause"
	Ask     Disposition = "ask"
	Decline Disposition = "decline"
	Defer   Disposition = "defer"
)

// Valid reports whether d is one of the five dispositions.
func (d Disposition) Valid() bool {
	switch d {
	case Act, Pause, Ask, Decline, Defer:
		return true
	}
	return false
}

// #endregion disposition

// #region rule
// Rule names the cascade rule that produced the draft disposition.
type Rule string

const (
	RulePolicyDecline    Rule = "A_policy_decline"
	RuleRiskDefer        Rule = "B_risk_defer"
	RuleInstabilityPause Rule = "C_instability_pause"
	RuleAmbiguityAsk     Rule = "D_ambiguity_ask"
	RuleDefaultAct       Rule = "E_default_act"
)

// #endregion rule

// #region veto-type
// VetoType enumerates the post-cascade adjustments applied to a draft.
type VetoType string

const (
	VetoOrderFocus VetoType = "order_focus"
	VetoAssertive  VetoType = "assertive"
	VetoSecurity   VetoType = "security_restrict"
	VetoPosture    VetoType = "posture_clamp"
	VetoAskClamp   VetoType = "ask_clamp"
	VetoOverloaded VetoType = "overloaded_checklist"
)

// #endregion veto-type

// #region veto-signal
// VetoSignal records one adjustment and why it fired.
type VetoSignal struct {
	Type   VetoType `json:"type"`
	Reason string   `json:"reason"`
}

// #endregion veto-signal

// #region input
// Input fuses every upstream stage. OrderFocus and Posture are optional.
type Input struct {
	Collapse   cognition.CollapseResult `json:"collapse"`
	Attractor  attractor.Result         `json:"attractor"`
	Gradients  gradient.Vector          `json:"gradients"`
	OrderFocus *orderfocus.State        `json:"order_focus,omitempty"`
	Posture    *posture.Constraints     `json:"posture,omitempty"`

	Intent             signals.Intent        `json:"intent"`
	Impact             signals.Impact        `json:"impact"`
	Risk               float64               `json:"risk"`
	Ambiguity          float64               `json:"ambiguity"`
	Instability        float64               `json:"instability"`
	SecurityFlags      signals.SecurityFlags `json:"security_flags,omitempty"`
	DisallowedByPolicy bool                  `json:"disallowed_by_policy"`
}

// #endregion input

// #region decision
// Constraints are the stylistic and risk limits the response must honor.
type Constraints struct {
	Verbosity      attractor.Verbosity   `json:"verbosity"`
	Tone           attractor.Tone        `json:"tone"`
	Structure      attractor.Structure   `json:"structure"`
	RiskPosture    attractor.RiskPosture `json:"risk_posture"`
	Direct         bool                  `json:"direct"`
	SingleQuestion bool                  `json:"single_question"`
}

// OutputLimits bound the size of the response.
type OutputLimits struct {
	MaxOptions int `json:"max_options" mapstructure:"max_options" yaml:"max_options"`
	MaxLength  int `json:"max_length" mapstructure:"max_length" yaml:"max_length"`
}

// Decision is the terminal artifact of one decision cycle.
type Decision struct {
	Disposition  Disposition  `json:"disposition"`
	Confidence   float64      `json:"confidence"`
	Rule         Rule         `json:"rule"`
	Reason       string       `json:"reason"`
	Assertive    bool         `json:"assertive"`
	Constraints  Constraints  `json:"constraints"`
	OutputLimits OutputLimits `json:"output_limits"`
	Vetoes       []VetoSignal `json:"vetoes,omitempty"`
}

// Unrestricted reports an act decision whose risk posture is not restricted.
func (d Decision) Unrestricted() bool {
	return d.Disposition == Act && d.Constraints.RiskPosture != attractor.RiskRestricted
}

// #endregion decision

// #region gate-config
// GateConfig holds the cascade thresholds and output limit tables.
type GateConfig struct {
	DeferRisk         float64 `mapstructure:"defer_risk" yaml:"defer_risk"`
	DeferCollapse     float64 `mapstructure:"defer_collapse" yaml:"defer_collapse"`
	PauseInstability  float64 `mapstructure:"pause_instability" yaml:"pause_instability"`
	PauseAmbiguity    float64 `mapstructure:"pause_ambiguity" yaml:"pause_ambiguity"`
	AskAmbiguity      float64 `mapstructure:"ask_ambiguity" yaml:"ask_ambiguity"`
	AskRiskCeiling    float64 `mapstructure:"ask_risk_ceiling" yaml:"ask_risk_ceiling"`
	ExemptConfidence  float64 `mapstructure:"exempt_confidence" yaml:"exempt_confidence"`
	ExemptRiskCeiling float64 `mapstructure:"exempt_risk_ceiling" yaml:"exempt_risk_ceiling"`
	AssertiveRisk     float64 `mapstructure:"assertive_risk" yaml:"assertive_risk"`
	AssertiveUrgency  float64 `mapstructure:"assertive_urgency" yaml:"assertive_urgency"`
	AssertiveOptions  int     `mapstructure:"assertive_options" yaml:"assertive_options"`
	ShortLength       int     `mapstructure:"short_length" yaml:"short_length"`
	StrictAsk         bool    `mapstructure:"strict_ask" yaml:"strict_ask"`

	MinimalLimits  OutputLimits `mapstructure:"minimal_limits" yaml:"minimal_limits"`
	StandardLimits OutputLimits `mapstructure:"standard_limits" yaml:"standard_limits"`
	ExpandedLimits OutputLimits `mapstructure:"expanded_limits" yaml:"expanded_limits"`
}

// DefaultGateConfig returns the shipped cascade constants.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		DeferRisk:         0.7,
		DeferCollapse:     0.5,
		PauseInstability:  0.65,
		PauseAmbiguity:    0.7,
		AskAmbiguity:      0.6,
		AskRiskCeiling:    0.7,
		ExemptConfidence:  0.75,
		ExemptRiskCeiling: 0.4,
		AssertiveRisk:     0.7,
		AssertiveUrgency:  0.7,
		AssertiveOptions:  3,
		ShortLength:       400,
		StrictAsk:         true,
		MinimalLimits:     OutputLimits{MaxOptions: 3, MaxLength: 400},
		StandardLimits:    OutputLimits{MaxOptions: 4, MaxLength: 900},
		ExpandedLimits:    OutputLimits{MaxOptions: 6, MaxLength: 1600},
	}
}

// limitsFor returns the output limits for a verbosity level.
func (c GateConfig) limitsFor(v attractor.Verbosity) OutputLimits {
	switch v {
	case attractor.VerbosityMinimal:
		return c.MinimalLimits
	case attractor.VerbosityExpanded:
		return c.ExpandedLimits
	}
	return c.StandardLimits
}

// #endregion gate-config
