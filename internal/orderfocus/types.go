package orderfocus

import (
	"time"

	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/attractor"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/gradient"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/signals"
)

// #region bias

// Bias is the disposition the coherence gate leans toward.
type Bias string

const (
	BiasAct   Bias = "act"
	BiasPause Bias = "pause"
	BiasAsk   Bias = "ask"
	BiasDefer Bias = "defer"
)

// ReasonCode explains which gate rule produced the bias.
type ReasonCode string

const (
	ReasonRiskDefer         ReasonCode = "risk_defer"
	ReasonRiskClear         ReasonCode = "risk_clear"
	ReasonHardContradiction ReasonCode = "hard_contradiction"
	ReasonOscillation       ReasonCode = "intent_oscillation"
	ReasonStrongCoherence   ReasonCode = "strong_coherence"
	ReasonMediumCoherence   ReasonCode = "medium_coherence"
	ReasonLowCoherence      ReasonCode = "low_coherence"
	ReasonStaleInputs       ReasonCode = "stale_inputs"
	ReasonHighNoise         ReasonCode = "high_noise"
)

// #endregion bias

// #region input

// IntentEntry is one caller-recorded intent observation.
type IntentEntry struct {
	Intent signals.Intent `json:"intent"`
	At     time.Time      `json:"at"`
}

// Input is everything the gate reads. LastSignalAt and Now may be zero;
// see Config.StaleAfter.
type Input struct {
	CollapseConfidence    float64               `json:"collapse_confidence"`
	Ambiguity             float64               `json:"ambiguity"`
	Attractor             attractor.ID          `json:"attractor"`
	Gradients             gradient.Vector       `json:"gradients"`
	Intent                signals.Intent        `json:"intent"`
	TimePressure          signals.TimePressure  `json:"time_pressure"`
	Impact                signals.Impact        `json:"impact"`
	SecurityFlags         signals.SecurityFlags `json:"security_flags,omitempty"`
	ExplicitContradiction float64               `json:"explicit_contradiction"`
	History               []IntentEntry         `json:"history,omitempty"`
	LastSignalAt          time.Time             `json:"last_signal_at"`
	Now                   time.Time             `json:"now"`
}

// #endregion input

// #region state

// State is the gate's output. Every scalar is in [0, 1].
type State struct {
	Order           float64    `json:"order"`
	Focus           float64    `json:"focus"`
	Coherence       float64    `json:"coherence"`
	IntentStability float64    `json:"intent_stability"`
	Oscillation     float64    `json:"oscillation"`
	Contradiction   float64    `json:"contradiction"`
	Noise           float64    `json:"noise"`
	Stale           bool       `json:"stale"`
	DispositionBias Bias       `json:"disposition_bias"`
	ReasonCode      ReasonCode `json:"reason_code"`
}

// #endregion state

// #region config

// Config holds the gate thresholds.
type Config struct {
	Window     time.Duration `mapstructure:"window" yaml:"window"`
	MaxEntries int           `mapstructure:"max_entries" yaml:"max_entries"`
	StaleAfter time.Duration `mapstructure:"stale_after" yaml:"stale_after"`

	InferredContradiction float64 `mapstructure:"inferred_contradiction" yaml:"inferred_contradiction"`
	LowCollapse           float64 `mapstructure:"low_collapse" yaml:"low_collapse"`
	HighGradient          float64 `mapstructure:"high_gradient" yaml:"high_gradient"`
	ExtremeStress         float64 `mapstructure:"extreme_stress" yaml:"extreme_stress"`

	HardContradiction float64 `mapstructure:"hard_contradiction" yaml:"hard_contradiction"`
	OscillationLimit  float64 `mapstructure:"oscillation_limit" yaml:"oscillation_limit"`
	StrongCoherence   float64 `mapstructure:"strong_coherence" yaml:"strong_coherence"`
	StrongStability   float64 `mapstructure:"strong_stability" yaml:"strong_stability"`
	MediumCoherence   float64 `mapstructure:"medium_coherence" yaml:"medium_coherence"`
	RiskCoherence     float64 `mapstructure:"risk_coherence" yaml:"risk_coherence"`
	HighNoise         float64 `mapstructure:"high_noise" yaml:"high_noise"`
	StalePenalty      float64 `mapstructure:"stale_penalty" yaml:"stale_penalty"`
}

// DefaultConfig returns the shipped gate constants.
func DefaultConfig() Config {
	return Config{
		Window:                45 * time.Second,
		MaxEntries:            5,
		StaleAfter:            300 * time.Second,
		InferredContradiction: 0.7,
		LowCollapse:           0.3,
		HighGradient:          0.7,
		ExtremeStress:         0.85,
		HardContradiction:     0.7,
		OscillationLimit:      0.65,
		StrongCoherence:       0.7,
		StrongStability:       0.6,
		MediumCoherence:       0.55,
		RiskCoherence:         0.55,
		HighNoise:             0.7,
		StalePenalty:          0.15,
	}
}

// #endregion config
