package logging

// #region config
// Config selects how the process logger is built.
type Config struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Development bool   `mapstructure:"development" yaml:"development"`
	Encoding    string `mapstructure:"encoding" yaml:"encoding"` // "json" | "console"
}

// DefaultConfig returns an info-level production logger configuration.
func DefaultConfig() Config {
	return Config{Level: "info", Encoding: "json"}
}

// #endregion config

// #region decision-entry
// DecisionEntry captures what one turn decided and why, flattened for
// structured logging. Built by the caller layer from a pipeline trace.
type DecisionEntry struct {
	TurnID      string `json:"turn_id"`
	Intent      string `json:"intent"`
	Impact      string `json:"impact"`
	Attractor   string `json:"attractor"`
	AttractRule string `json:"attractor_rule"`
	RiskClass   string `json:"risk_class,omitempty"`
	Posture     string `json:"posture"`
	Bias        string `json:"bias"`
	BiasReason  string `json:"bias_reason"`

	Collapse DecisionCollapse `json:"collapse"`

	Disposition string   `json:"disposition"`
	Confidence  float64  `json:"confidence"`
	Rule        string   `json:"rule"`
	Reason      string   `json:"reason"`
	Assertive   bool     `json:"assertive"`
	Vetoes      []string `json:"vetoes,omitempty"`

	EvalPassed bool   `json:"eval_passed"`
	EvalReason string `json:"eval_reason,omitempty"`
}

// DecisionCollapse summarizes the hypothesis collapse that fed the decision.
type DecisionCollapse struct {
	Selected   string  `json:"selected"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
	Cycles     int     `json:"cycles"`
	Variance   float64 `json:"variance"`
	Ambiguity  float64 `json:"ambiguity"`
}

// #endregion decision-entry
