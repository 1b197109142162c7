package posture

import "github.com/danielpatrickdp/adaptive-state/decision-core/internal/signals"

// #region id

// ID is the classified interaction stance of the requester.
type ID string

const (
	Exploratory ID = "exploratory"
	Directive   ID = "directive"
	Overloaded  ID = "overloaded"
	Confident   ID = "confident"
	Frustrated  ID = "frustrated"
	Unknown     ID = "unknown"
)

// Priority breaks near-ties between posture scores.
var Priority = [...]ID{Overloaded, Frustrated, Directive, Exploratory, Confident, Unknown}

// Valid reports whether id is a known posture.
func (id ID) Valid() bool {
	for _, p := range Priority {
		if p == id {
			return true
		}
	}
	return false
}

// #endregion id

// #region input

// Interaction carries message-rate metadata for the current turn.
type Interaction struct {
	MessagesPerMinute float64 `json:"messages_per_minute"`
}

// Input is everything the classifier reads. History is the caller-owned
// bounded posture history, oldest first.
type Input struct {
	Text         string               `json:"text"`
	Interaction  Interaction          `json:"interaction"`
	Sensors      signals.Sensors      `json:"sensors"`
	TimePressure signals.TimePressure `json:"time_pressure"`
	History      []ID                 `json:"history,omitempty"`
}

// #endregion input

// #region features

// Features are the text and interaction cues extracted from an Input.
type Features struct {
	Length    int     `json:"length"`
	VeryShort bool    `json:"very_short"`
	VeryLong  bool    `json:"very_long"`
	CapsRatio float64 `json:"caps_ratio"`

	DirectiveHits   int `json:"directive_hits"`
	ExploratoryHits int `json:"exploratory_hits"`
	OverloadHits    int `json:"overload_hits"`
	FrustrationHits int `json:"frustration_hits"`
	ConfidenceHits  int `json:"confidence_hits"`

	Questions    int     `json:"questions"`
	Exclamations int     `json:"exclamations"`
	Rapid        bool    `json:"rapid"`
	Tension      float64 `json:"tension"`
}

// anyMarker reports whether a primary keyword marker fired.
func (f Features) anyMarker() bool {
	return f.DirectiveHits+f.ExploratoryHits+f.OverloadHits+f.FrustrationHits+f.ConfidenceHits > 0
}

// #endregion features

// #region result

// Scores maps every posture to its raw score.
type Scores map[ID]float64

// Signals are soft response-shaping cues derived from the posture.
type Signals struct {
	BrevityPreference   float64 `json:"brevity_preference"`
	StructurePreference float64 `json:"structure_preference"`
	ToleranceForOptions float64 `json:"tolerance_for_options"`
	UrgencyCue          float64 `json:"urgency_cue"`
	FrictionCue         float64 `json:"friction_cue"`
}

// Constraints are hard response limits derived from the posture.
type Constraints struct {
	MaxOptions        int  `json:"max_options"`
	MaxLength         int  `json:"max_length"`
	AskSingleQuestion bool `json:"ask_single_question"`
	PreferChecklist   bool `json:"prefer_checklist"`
}

// Result is the classified posture with its derived cues.
type Result struct {
	ID          ID          `json:"id"`
	Confidence  float64     `json:"confidence"`
	Switched    bool        `json:"switched"`
	Scores      Scores      `json:"scores"`
	Features    Features    `json:"features"`
	Signals     Signals     `json:"signals"`
	Constraints Constraints `json:"constraints"`
}

// #endregion result
