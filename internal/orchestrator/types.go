package orchestrator

// #region imports
import (
	"time"

	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/attractor"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/cognition"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/gate"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/gradient"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/orderfocus"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/posture"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/signals"
)

// #endregion

// #region history

// History is the caller-owned bounded state carried between turns. The
// pipeline reads it; only the Orchestrator rotates it.
type History struct {
	Intents      []orderfocus.IntentEntry `json:"intents,omitempty"`
	Postures     []posture.ID             `json:"postures,omitempty"`
	LastSignalAt time.Time                `json:"last_signal_at"`
}

// #endregion

// #region input

// Input is one turn's evidence. Empty Intent or Impact are inferred from
// Text. Inputs are recorded verbatim for replay.
type Input struct {
	TurnID string    `json:"turn_id"`
	Now    time.Time `json:"now"`
	Text   string    `json:"text"`

	Intent        signals.Intent        `json:"intent,omitempty"`
	Impact        signals.Impact        `json:"impact,omitempty"`
	TimePressure  signals.TimePressure  `json:"time_pressure,omitempty"`
	SecurityFlags signals.SecurityFlags `json:"security_flags,omitempty"`
	Disallowed    bool                  `json:"disallowed,omitempty"`

	RecentErrors int                 `json:"recent_errors,omitempty"`
	SystemLoad   signals.SystemLoad  `json:"system_load,omitempty"`
	Sensors      signals.Sensors     `json:"sensors"`
	Interaction  posture.Interaction `json:"interaction"`

	Domain                string                `json:"domain,omitempty"`
	Candidates            []cognition.Candidate `json:"candidates,omitempty"`
	ExplicitContradiction float64               `json:"explicit_contradiction,omitempty"`

	History History `json:"history"`
}

// #endregion

// #region classification

// Classification is the keyword reading of a turn's text.
type Classification struct {
	Intent     signals.Intent `json:"intent"`
	Impact     signals.Impact `json:"impact"`
	Disallowed bool           `json:"disallowed"`
	Matched    []string       `json:"matched,omitempty"`
}

// #endregion

// #region trace

// Trace carries every stage output of one decision, in pipeline order.
type Trace struct {
	TurnID         string         `json:"turn_id"`
	Classification Classification `json:"classification"`
	Intent         signals.Intent `json:"intent"`
	Impact         signals.Impact `json:"impact"`

	BaseGradients  gradient.Vector          `json:"base_gradients"`
	CollapseDeltas gradient.CollapseDeltas  `json:"collapse_deltas"`
	CollapseParams cognition.Params         `json:"collapse_params"`
	Collapse       cognition.CollapseResult `json:"collapse"`
	Ambiguity      float64                  `json:"ambiguity"`
	Gradients      gradient.Vector          `json:"gradients"`

	Needs     attractor.Needs   `json:"needs"`
	Scores    []attractor.Score `json:"scores"`
	RiskClass string            `json:"risk_class,omitempty"`
	Attractor attractor.Result  `json:"attractor"`

	Posture    posture.Result   `json:"posture"`
	OrderFocus orderfocus.State `json:"order_focus"`
	Decision   gate.Decision    `json:"decision"`
}

// #endregion
