package orderfocus

import (
	"sort"
	"time"

	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/attractor"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/signals"
)

// #region intent-stability

// ComputeIntentStability measures label flips across the recent intents.
// Only entries inside the window ending at now are counted, newest
// MaxEntries at most. A zero now uses the newest entry as the reference.
func ComputeIntentStability(history []IntentEntry, now time.Time, config Config) (stability, oscillation float64) {
	recent := windowed(history, now, config)
	n := len(recent)
	if n <= 1 {
		return 1, 0
	}
	flips := 0
	for i := 1; i < n; i++ {
		if signals.NormalizeIntent(recent[i].Intent) != signals.NormalizeIntent(recent[i-1].Intent) {
			flips++
		}
	}
	oscillation = signals.Clamp01(float64(flips) / float64(n-1))
	return 1 - oscillation, oscillation
}

func windowed(history []IntentEntry, now time.Time, config Config) []IntentEntry {
	entries := make([]IntentEntry, 0, len(history))
	for _, e := range history {
		if !e.At.IsZero() {
			entries = append(entries, e)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].At.Before(entries[j].At) })

	ref := now
	if ref.IsZero() && len(entries) > 0 {
		ref = entries[len(entries)-1].At
	}
	kept := entries[:0]
	for _, e := range entries {
		if ref.Sub(e.At) <= config.Window {
			kept = append(kept, e)
		}
	}
	if config.MaxEntries > 0 && len(kept) > config.MaxEntries {
		kept = kept[len(kept)-config.MaxEntries:]
	}
	return kept
}

// #endregion intent-stability

// #region contradiction

// ComputeContradiction is the larger of the explicit signal and an inferred
// one. Any of the inference conditions yields InferredContradiction.
func ComputeContradiction(in Input, config Config) float64 {
	explicit := signals.Clamp01(in.ExplicitContradiction)
	g := in.Gradients.Clamped()
	inferred := 0.0
	switch {
	case signals.Clamp01(in.CollapseConfidence) < config.LowCollapse,
		g.Urgency >= config.HighGradient && g.Curiosity >= config.HighGradient,
		signals.NormalizeIntent(in.Intent) == signals.IntentUnknown &&
			signals.NormalizeImpact(in.Impact) == signals.ImpactHigh:
		inferred = config.InferredContradiction
	}
	if inferred > explicit {
		return signals.Clamp01(inferred)
	}
	return explicit
}

// #endregion contradiction

// #region noise

var intentNoise = map[signals.Intent]float64{
	signals.IntentUnknown:    0.15,
	signals.IntentOverloaded: 0.2,
}

// ComputeNoise blends low confidence, contradiction, intent, stress and
// oscillation.
func ComputeNoise(in Input, contradiction, oscillation float64) float64 {
	conf := signals.Clamp01(in.CollapseConfidence)
	return signals.Clamp01(0.35*(1-conf) +
		0.25*signals.Clamp01(contradiction) +
		intentNoise[signals.NormalizeIntent(in.Intent)] +
		0.15*signals.Clamp01(in.Gradients.Stress) +
		0.2*signals.Clamp01(oscillation))
}

// #endregion noise

// #region coherence

// ComputeCoherence returns order, focus and their noise-penalized blend.
func ComputeCoherence(in Input, noise float64, config Config) (order, focus, coherence float64) {
	g := in.Gradients.Clamped()
	conf := signals.Clamp01(in.CollapseConfidence)
	structured := in.Attractor == attractor.Order || in.Attractor == attractor.Protection

	order = 0.4
	if structured {
		order += 0.2
	}
	if conf >= config.HighGradient {
		order += 0.15
	}
	order -= 0.25*signals.Clamp01(in.Ambiguity) + 0.15*g.Curiosity
	if !structured && g.Stress >= config.ExtremeStress {
		order -= 0.15
	}

	focus = 0.35
	if signals.NormalizeIntent(in.Intent) == signals.IntentDirective {
		focus += 0.2
	}
	focus += 0.15*g.Urgency + 0.2*conf - 0.15*g.Curiosity - 0.25*signals.Clamp01(noise)

	order = signals.Clamp01(order)
	focus = signals.Clamp01(focus)
	coherence = signals.Clamp01(0.5*order + 0.5*focus - 0.35*signals.Clamp01(noise))
	return order, focus, coherence
}

// #endregion coherence

// #region gate

// Gate computes the coherence state and its disposition bias. Rules apply
// in strict priority; staleness and high noise are final overrides.
func Gate(in Input, config Config) State {
	stability, oscillation := ComputeIntentStability(in.History, in.Now, config)
	contradiction := ComputeContradiction(in, config)
	noise := ComputeNoise(in, contradiction, oscillation)
	order, focus, coherence := ComputeCoherence(in, noise, config)

	st := State{
		Order:           order,
		Focus:           focus,
		Coherence:       coherence,
		IntentStability: stability,
		Oscillation:     oscillation,
		Contradiction:   contradiction,
		Noise:           noise,
	}

	pressured := signals.NormalizeTimePressure(in.TimePressure) == signals.TimePressureHigh
	hold := BiasPause
	if pressured {
		hold = BiasAsk
	}

	switch {
	case in.SecurityFlags.Active() || in.Attractor == attractor.Protection:
		if contradiction >= config.HardContradiction || coherence < config.RiskCoherence {
			st.DispositionBias, st.ReasonCode = BiasDefer, ReasonRiskDefer
		} else {
			st.DispositionBias, st.ReasonCode = BiasAct, ReasonRiskClear
		}
	case contradiction >= config.HardContradiction:
		st.DispositionBias, st.ReasonCode = hold, ReasonHardContradiction
	case oscillation >= config.OscillationLimit:
		st.DispositionBias, st.ReasonCode = hold, ReasonOscillation
	case coherence >= config.StrongCoherence && stability >= config.StrongStability:
		st.DispositionBias, st.ReasonCode = BiasAct, ReasonStrongCoherence
	case coherence >= config.MediumCoherence:
		st.DispositionBias, st.ReasonCode = BiasAsk, ReasonMediumCoherence
	default:
		st.DispositionBias, st.ReasonCode = BiasPause, ReasonLowCoherence
	}

	if IsStale(in, config) {
		st.Stale = true
		st.Coherence = signals.Clamp01(st.Coherence - config.StalePenalty)
		if st.DispositionBias != BiasDefer {
			st.DispositionBias, st.ReasonCode = BiasAsk, ReasonStaleInputs
		}
	}

	// With DefaultConfig an act bias already implies noise below HighNoise.
	// The clamp fires when high_noise is lowered or strong_coherence and
	// risk_coherence are relaxed.
	if noise >= config.HighNoise && st.DispositionBias == BiasAct {
		st.DispositionBias, st.ReasonCode = BiasAsk, ReasonHighNoise
	}
	return st
}

// IsStale reports whether no signal arrived within StaleAfter. The last
// signal is LastSignalAt, else the newest history entry. Without any
// timestamp, or without Now, inputs are never stale.
func IsStale(in Input, config Config) bool {
	if in.Now.IsZero() || config.StaleAfter <= 0 {
		return false
	}
	last := in.LastSignalAt
	if last.IsZero() {
		for _, e := range in.History {
			if e.At.After(last) {
				last = e.At
			}
		}
	}
	if last.IsZero() {
		return false
	}
	return in.Now.Sub(last) >= config.StaleAfter
}

// #endregion gate
