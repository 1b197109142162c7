package gradient

import "github.com/danielpatrickdp/adaptive-state/decision-core/internal/signals"

// #region vector

// Vector is the four continuous affective signals, each in [0, 1].
type Vector struct {
	Stress     float64 `json:"stress"`
	Curiosity  float64 `json:"curiosity"`
	Urgency    float64 `json:"urgency"`
	Confidence float64 `json:"confidence"`
}

// Clamped returns v with every component restricted to [0, 1].
func (v Vector) Clamped() Vector {
	return Vector{
		Stress:     signals.Clamp01(v.Stress),
		Curiosity:  signals.Clamp01(v.Curiosity),
		Urgency:    signals.Clamp01(v.Urgency),
		Confidence: signals.Clamp01(v.Confidence),
	}
}

// #endregion vector

// #region context

// Context carries the situational hints gradients are derived from.
type Context struct {
	Intent        signals.Intent        `json:"intent"`
	TimePressure  signals.TimePressure  `json:"time_pressure"`
	SecurityFlags signals.SecurityFlags `json:"security_flags,omitempty"`
	RecentErrors  int                   `json:"recent_errors"`
	SystemLoad    signals.SystemLoad    `json:"system_load"`
	Sensors       signals.Sensors       `json:"sensors"`
}

// #endregion context

// #region collapse-deltas

// CollapseDeltas are bounded shifts applied to base collapse thresholds.
type CollapseDeltas struct {
	VarianceThreshold float64 `json:"variance_threshold"`
	ConfidenceLock    float64 `json:"confidence_lock"`
	Cycles            int     `json:"cycles"`
}

// #endregion collapse-deltas

// #region config

// Config holds the derivation tables and modulation thresholds.
type Config struct {
	// High is the band edge used by every ">= high" rule.
	High float64 `mapstructure:"high" yaml:"high"`
	Mid  float64 `mapstructure:"mid" yaml:"mid"`

	CreativeStressCeiling float64 `mapstructure:"creative_stress_ceiling" yaml:"creative_stress_ceiling"`
	LoosenStressCeiling   float64 `mapstructure:"loosen_stress_ceiling" yaml:"loosen_stress_ceiling"`

	ErrorSaturation   int     `mapstructure:"error_saturation" yaml:"error_saturation"`
	MaxThresholdDelta float64 `mapstructure:"max_threshold_delta" yaml:"max_threshold_delta"`
	CollapseBlend     float64 `mapstructure:"collapse_blend" yaml:"collapse_blend"`

	SecurityStressFloor    float64    `mapstructure:"security_stress_floor" yaml:"security_stress_floor"`
	SecurityCuriosityCeil  float64    `mapstructure:"security_curiosity_ceiling" yaml:"security_curiosity_ceiling"`
	VarianceThresholdRange [2]float64 `mapstructure:"variance_threshold_range" yaml:"variance_threshold_range"`
	ConfidenceLockRange    [2]float64 `mapstructure:"confidence_lock_range" yaml:"confidence_lock_range"`
	MaxCyclesRange         [2]int     `mapstructure:"max_cycles_range" yaml:"max_cycles_range"`
}

// DefaultConfig returns the shipped gradient constants.
func DefaultConfig() Config {
	return Config{
		High:                   0.7,
		Mid:                    0.5,
		CreativeStressCeiling:  0.5,
		LoosenStressCeiling:    0.4,
		ErrorSaturation:        5,
		MaxThresholdDelta:      0.05,
		CollapseBlend:          0.65,
		SecurityStressFloor:    0.35,
		SecurityCuriosityCeil:  0.45,
		VarianceThresholdRange: [2]float64{0.01, 0.25},
		ConfidenceLockRange:    [2]float64{0.55, 0.95},
		MaxCyclesRange:         [2]int{1, 5},
	}
}

// #endregion config
