package posture

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/signals"
)

// #region classifier

// Classifier scores postures and applies hysteresis. It holds only
// immutable configuration.
type Classifier struct {
	config Config
}

// NewClassifier creates a classifier with the given configuration.
func NewClassifier(config Config) *Classifier {
	return &Classifier{config: config}
}

// #endregion classifier

// #region extract

// ExtractSignals converts text and interaction metadata into features.
func (c *Classifier) ExtractSignals(in Input) Features {
	text := strings.TrimSpace(in.Text)
	lower := strings.ToLower(text)
	tokens := tokenSet(lower)
	n := utf8.RuneCountInString(text)
	m := c.config.Markers

	f := Features{
		Length:          n,
		VeryShort:       n <= c.config.VeryShortChars,
		VeryLong:        n >= c.config.VeryLongChars,
		DirectiveHits:   markerHits(lower, tokens, m.Directive),
		ExploratoryHits: markerHits(lower, tokens, m.Exploratory),
		OverloadHits:    markerHits(lower, tokens, m.Overload),
		FrustrationHits: markerHits(lower, tokens, m.Frustration),
		ConfidenceHits:  markerHits(lower, tokens, m.Confidence),
		Questions:       strings.Count(text, "?"),
		Exclamations:    strings.Count(text, "!"),
		Rapid:           signals.Finite(in.Interaction.MessagesPerMinute, 0) >= c.config.RapidPerMinute,
		Tension:         in.Sensors.Tension(),
	}
	if signals.LetterCount(text) >= c.config.ShoutMinLetters {
		f.CapsRatio = signals.CapsRatio(text)
	}
	return f
}

func tokenSet(lower string) map[string]bool {
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func markerHits(lower string, tokens map[string]bool, markers []string) int {
	n := 0
	for _, kw := range markers {
		if strings.Contains(kw, " ") {
			if strings.Contains(lower, kw) {
				n++
			}
			continue
		}
		if tokens[kw] {
			n++
		}
	}
	return n
}

// #endregion extract

// #region score

// ScorePostures applies the fixed additive bonuses over a 0.2 base.
func (c *Classifier) ScorePostures(f Features, tp signals.TimePressure) Scores {
	const base = 0.2
	s := Scores{}
	for _, id := range Priority {
		s[id] = base
	}
	tension := f.Tension >= c.config.HighTension

	if f.ExploratoryHits > 0 {
		s[Exploratory] += 0.3
	}
	if f.Questions > 0 {
		s[Exploratory] += 0.1
	}

	if f.DirectiveHits > 0 {
		s[Directive] += 0.3
	}
	if f.VeryShort {
		s[Directive] += 0.1
	}
	if signals.NormalizeTimePressure(tp) == signals.TimePressureHigh {
		s[Directive] += 0.1
	}

	if f.OverloadHits > 0 {
		s[Overloaded] += 0.35
	}
	if f.Rapid {
		s[Overloaded] += 0.2
	}
	if f.VeryLong {
		s[Overloaded] += 0.1
	}
	if tension {
		s[Overloaded] += 0.15
	}

	if f.ConfidenceHits > 0 {
		s[Confident] += 0.3
	}
	if f.Questions == 0 {
		s[Confident] += 0.1
	}

	if f.FrustrationHits > 0 {
		s[Frustrated] += 0.35
	}
	if f.CapsRatio >= c.config.ShoutCapsRatio {
		s[Frustrated] += 0.15
	}
	if f.Exclamations >= 2 {
		s[Frustrated] += 0.1
	}
	if tension {
		s[Frustrated] += 0.1
	}
	if f.Rapid {
		s[Frustrated] += 0.1
	}

	if !f.anyMarker() {
		s[Unknown] += 0.25
		if f.VeryShort {
			s[Unknown] += 0.1
		}
	}

	for id, v := range s {
		s[id] = signals.Clamp01(v)
	}
	return s
}

// #endregion score

// #region select

// SelectPosture picks the top posture, but leaves the held posture (last
// history entry) only when the challenger clears the absolute floor and
// beats the held score by the hysteresis margin.
func (c *Classifier) SelectPosture(scores Scores, history []ID) (ID, float64, bool) {
	high := math.Inf(-1)
	for _, id := range Priority {
		high = math.Max(high, signals.Clamp01(scores[id]))
	}
	// Any posture within TieBreakEps of the maximum is tied; priority decides.
	top, best := Unknown, high
	for _, id := range Priority {
		if v := signals.Clamp01(scores[id]); v >= high-c.config.TieBreakEps {
			top, best = id, v
			break
		}
	}

	current, ok := heldPosture(history)
	if !ok || current == top {
		return top, best, false
	}
	currentScore := signals.Clamp01(scores[current])
	if best >= c.config.MinConfidenceToSwitch && best-currentScore >= c.config.Hysteresis {
		return top, best, true
	}
	return current, currentScore, false
}

func heldPosture(history []ID) (ID, bool) {
	if len(history) == 0 {
		return "", false
	}
	id := history[len(history)-1]
	return id, id.Valid()
}

// #endregion select

// #region derive

type profile struct {
	signals     Signals
	constraints Constraints
}

var profiles = map[ID]profile{
	Exploratory: {Signals{0.3, 0.3, 0.8, 0.2, 0.1}, Constraints{5, 1200, false, false}},
	Directive:   {Signals{0.8, 0.7, 0.3, 0.6, 0.2}, Constraints{3, 500, true, true}},
	Overloaded:  {Signals{0.9, 0.9, 0.2, 0.5, 0.5}, Constraints{2, 300, true, true}},
	Confident:   {Signals{0.5, 0.4, 0.6, 0.3, 0.1}, Constraints{4, 800, false, false}},
	Frustrated:  {Signals{0.8, 0.7, 0.2, 0.6, 0.8}, Constraints{2, 400, true, true}},
	Unknown:     {Signals{0.5, 0.5, 0.5, 0.3, 0.3}, Constraints{3, 700, true, false}},
}

// Derive returns the signals and constraints for a posture under the given
// time pressure. It reads nothing else.
func Derive(id ID, tp signals.TimePressure) (Signals, Constraints) {
	p, ok := profiles[id]
	if !ok {
		p = profiles[Unknown]
	}
	sig, con := p.signals, p.constraints

	switch signals.NormalizeTimePressure(tp) {
	case signals.TimePressureHigh:
		con.MaxOptions--
		con.MaxLength = con.MaxLength * 3 / 4
		sig.UrgencyCue += 0.2
		sig.BrevityPreference += 0.1
	case signals.TimePressureMedium:
		sig.UrgencyCue += 0.1
	}

	if con.MaxOptions < 1 {
		con.MaxOptions = 1
	}
	if con.MaxOptions > 6 {
		con.MaxOptions = 6
	}
	sig.BrevityPreference = signals.Clamp01(sig.BrevityPreference)
	sig.StructurePreference = signals.Clamp01(sig.StructurePreference)
	sig.ToleranceForOptions = signals.Clamp01(sig.ToleranceForOptions)
	sig.UrgencyCue = signals.Clamp01(sig.UrgencyCue)
	sig.FrictionCue = signals.Clamp01(sig.FrictionCue)
	return sig, con
}

// #endregion derive

// #region classify

// Classify runs extraction, scoring, selection and derivation.
func (c *Classifier) Classify(in Input) Result {
	f := c.ExtractSignals(in)
	scores := c.ScorePostures(f, in.TimePressure)
	id, conf, switched := c.SelectPosture(scores, in.History)
	sig, con := Derive(id, in.TimePressure)
	return Result{
		ID:          id,
		Confidence:  conf,
		Switched:    switched,
		Scores:      scores,
		Features:    f,
		Signals:     sig,
		Constraints: con,
	}
}

// PushHistory returns a new history with id appended, keeping at most size
// newest entries. The input slice is never modified.
func PushHistory(history []ID, id ID, size int) []ID {
	if size < 1 {
		size = 1
	}
	out := make([]ID, 0, size)
	start := len(history) + 1 - size
	if start < 0 {
		start = 0
	}
	if start < len(history) {
		out = append(out, history[start:]...)
	}
	return append(out, id)
}

// #endregion classify
