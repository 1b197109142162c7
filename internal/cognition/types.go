package cognition

// #region hypothesis

// Hypothesis is one candidate interpretation of the evidence.
type Hypothesis struct {
	ID         string  `json:"id"`
	Payload    any     `json:"payload"`
	Confidence float64 `json:"confidence"`
	Stability  float64 `json:"stability"`
}

// #endregion hypothesis

// #region collapse-reason

// CollapseReason names the rule that committed a hypothesis set.
type CollapseReason string

const (
	ReasonVarianceThreshold CollapseReason = "variance_threshold"
	ReasonMaxConfidence     CollapseReason = "max_confidence"
	ReasonTimeout           CollapseReason = "timeout"
)

// #endregion collapse-reason

// #region collapse-result

// CollapseResult is the committed outcome. Confidence always equals
// Selected.Confidence.
type CollapseResult struct {
	Selected   Hypothesis     `json:"selected"`
	Confidence float64        `json:"confidence"`
	Reason     CollapseReason `json:"reason"`
	Cycles     int            `json:"cycles"`
	Variance   float64        `json:"variance"`
}

// #endregion collapse-result

// #region config

// Config holds the engine's fixed bounds and default thresholds.
type Config struct {
	MaxParallelHypotheses int     `mapstructure:"max_parallel_hypotheses" yaml:"max_parallel_hypotheses"`
	MaxEvaluationCycles   int     `mapstructure:"max_evaluation_cycles" yaml:"max_evaluation_cycles"`
	VarianceThreshold     float64 `mapstructure:"variance_threshold" yaml:"variance_threshold"`
	ConfidenceLock        float64 `mapstructure:"confidence_lock" yaml:"confidence_lock"`
	InitialConfidence     float64 `mapstructure:"initial_confidence" yaml:"initial_confidence"`
	InitialStability      float64 `mapstructure:"initial_stability" yaml:"initial_stability"`
}

// DefaultConfig returns the shipped collapse constants.
func DefaultConfig() Config {
	return Config{
		MaxParallelHypotheses: 4,
		MaxEvaluationCycles:   3,
		VarianceThreshold:     0.05,
		ConfidenceLock:        0.8,
		InitialConfidence:     0.5,
		InitialStability:      1.0,
	}
}

// Params returns the base collapse parameters described by c.
func (c Config) Params() Params {
	return Params{
		VarianceThreshold: c.VarianceThreshold,
		ConfidenceLock:    c.ConfidenceLock,
		MaxCycles:         c.MaxEvaluationCycles,
		MaxHypotheses:     c.MaxParallelHypotheses,
	}
}

// #endregion config

// #region params

// Params are the thresholds one collapse run uses. Gradients may shift them
// before a run; see gradient.EffectiveCollapseParams.
type Params struct {
	VarianceThreshold float64 `json:"variance_threshold"`
	ConfidenceLock    float64 `json:"confidence_lock"`
	MaxCycles         int     `json:"max_cycles"`
	MaxHypotheses     int     `json:"max_hypotheses"`
}

// #endregion params

// #region situation

// Candidate is an explicitly supplied hypothesis payload. Nil Confidence or
// Stability fall back to the engine's initial values.
type Candidate struct {
	ID         string   `json:"id,omitempty"`
	Payload    any      `json:"payload"`
	Confidence *float64 `json:"confidence,omitempty"`
	Stability  *float64 `json:"stability,omitempty"`
}

// Situation is the evidence handed to the engine for one decision cycle.
// Generator, Scorer and Constraint are optional strategies; nil selects the
// built-in behavior. The override fields replace the corresponding Params.
type Situation struct {
	Input      any
	Candidates []Candidate

	Generator  Generator
	Scorer     Scorer
	Constraint Constraint

	VarianceThreshold *float64
	ConfidenceLock    *float64
	MaxCycles         *int
	MaxHypotheses     *int
}

// #endregion situation
