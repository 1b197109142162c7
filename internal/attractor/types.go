package attractor

import "github.com/danielpatrickdp/adaptive-state/decision-core/internal/signals"

// #region id

// ID names one of the four canonical behavioral modes.
type ID string

const (
	Order      ID = "order"
	Insight    ID = "insight"
	Protection ID = "protection"
	Expression ID = "expression"
)

// Priority is the fixed tie-break order used when scores are equal.
var Priority = [...]ID{Protection, Order, Insight, Expression}

// Valid reports whether id is one of the canonical attractors.
func (id ID) Valid() bool {
	switch id {
	case Order, Insight, Protection, Expression:
		return true
	}
	return false
}

func rank(id ID) int {
	for i, p := range Priority {
		if p == id {
			return i
		}
	}
	return len(Priority)
}

// #endregion id

// #region policy-enums

// Verbosity is ordinal: minimal < standard < expanded.
type Verbosity string

const (
	VerbosityMinimal  Verbosity = "minimal"
	VerbosityStandard Verbosity = "standard"
	VerbosityExpanded Verbosity = "expanded"
)

var verbosityScale = []Verbosity{VerbosityMinimal, VerbosityStandard, VerbosityExpanded}

// Shift moves v by delta steps, saturating at both ends.
func (v Verbosity) Shift(delta int) Verbosity {
	return verbosityScale[step(indexOf(verbosityScale, v, 1), delta, len(verbosityScale))]
}

// Tone is categorical; gradients move it through an ordered cascade.
type Tone string

const (
	ToneNeutral  Tone = "neutral"
	ToneFormal   Tone = "formal"
	ToneCreative Tone = "creative"
	ToneGuarded  Tone = "guarded"
)

// Structure is ordinal from checklist to narrative, hybrid in between.
type Structure string

const (
	StructureChecklist Structure = "checklist"
	StructureHybrid    Structure = "hybrid"
	StructureNarrative Structure = "narrative"
)

var structureScale = []Structure{StructureChecklist, StructureHybrid, StructureNarrative}

// Shift moves s by delta steps; negative is toward checklist.
func (s Structure) Shift(delta int) Structure {
	return structureScale[step(indexOf(structureScale, s, 1), delta, len(structureScale))]
}

// RiskPosture is ordinal: open < cautious < restricted.
type RiskPosture string

const (
	RiskOpen       RiskPosture = "open"
	RiskCautious   RiskPosture = "cautious"
	RiskRestricted RiskPosture = "restricted"
)

var riskScale = []RiskPosture{RiskOpen, RiskCautious, RiskRestricted}

// Shift moves r by delta steps; positive tightens. Never goes below open.
func (r RiskPosture) Shift(delta int) RiskPosture {
	return riskScale[step(indexOf(riskScale, r, 1), delta, len(riskScale))]
}

func indexOf[T comparable](scale []T, v T, def int) int {
	for i, s := range scale {
		if s == v {
			return i
		}
	}
	return def
}

func step(i, delta, n int) int {
	i += delta
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// #endregion policy-enums

// #region policy

// Policy is the stylistic and risk stance an attractor carries.
type Policy struct {
	Verbosity   Verbosity   `json:"verbosity" mapstructure:"verbosity" yaml:"verbosity"`
	Tone        Tone        `json:"tone" mapstructure:"tone" yaml:"tone"`
	Structure   Structure   `json:"structure" mapstructure:"structure" yaml:"structure"`
	RiskPosture RiskPosture `json:"risk_posture" mapstructure:"risk_posture" yaml:"risk_posture"`
}

// #endregion policy

// #region needs

// Needs are the four latent needs attractors are scored against.
type Needs struct {
	Clarity       float64 `json:"clarity"`
	Novelty       float64 `json:"novelty"`
	Risk          float64 `json:"risk"`
	Communication float64 `json:"communication"`
}

func (n Needs) clamped() Needs {
	return Needs{
		Clarity:       signals.Clamp01(n.Clarity),
		Novelty:       signals.Clamp01(n.Novelty),
		Risk:          signals.Clamp01(n.Risk),
		Communication: signals.Clamp01(n.Communication),
	}
}

// Weights is an attractor's weight vector over Needs.
type Weights struct {
	Clarity       float64 `json:"clarity" mapstructure:"clarity" yaml:"clarity"`
	Novelty       float64 `json:"novelty" mapstructure:"novelty" yaml:"novelty"`
	Risk          float64 `json:"risk" mapstructure:"risk" yaml:"risk"`
	Communication float64 `json:"communication" mapstructure:"communication" yaml:"communication"`
}

func (w Weights) sum() float64 {
	return w.Clarity + w.Novelty + w.Risk + w.Communication
}

// #endregion needs

// #region integration-context

// IntegrationContext is what the caller knows about the request when
// attractors are scored.
type IntegrationContext struct {
	Intent        signals.Intent        `json:"intent"`
	Domain        string                `json:"domain,omitempty"`
	SecurityFlags signals.SecurityFlags `json:"security_flags,omitempty"`
	TimePressure  signals.TimePressure  `json:"time_pressure"`
	Payload       any                   `json:"payload,omitempty"`
}

// #endregion integration-context

// #region results

// Score is one attractor's weighted-average fit. Reasons are diagnostics
// and never serialized.
type Score struct {
	ID      ID       `json:"id"`
	Score   float64  `json:"score"`
	Reasons []string `json:"-"`
}

// Rule names which selection rule chose the attractor.
type Rule string

const (
	RuleProtection Rule = "protection_override"
	RuleOrder      Rule = "order_override"
	RuleMaxScore   Rule = "max_score"
)

// Result is the selected attractor with its modified policy.
type Result struct {
	ID         ID      `json:"id"`
	Confidence float64 `json:"confidence"`
	Policy     Policy  `json:"policy"`
	Rule       Rule    `json:"rule"`
}

// #endregion results
