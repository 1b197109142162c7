package gradient

import (
	"math"

	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/attractor"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/cognition"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/signals"
)

// #region collapse-deltas

// ApplyToCollapse turns gradients into bounded threshold shifts.
func ApplyToCollapse(v Vector, config Config) CollapseDeltas {
	v = v.Clamped()
	var d CollapseDeltas

	urgent := v.Urgency >= config.High
	switch {
	case urgent:
		d.VarianceThreshold -= 0.03
		d.Cycles--
	case v.Urgency >= config.Mid:
		d.VarianceThreshold -= 0.015
	}

	switch {
	case v.Stress >= config.High:
		d.ConfidenceLock += 0.04
		d.VarianceThreshold -= 0.01
	case v.Stress >= config.Mid:
		d.ConfidenceLock += 0.02
	}

	if v.Curiosity >= config.High {
		d.VarianceThreshold += 0.03
		if !urgent {
			d.Cycles++
		}
	}

	if v.Confidence >= config.High {
		d.ConfidenceLock -= 0.03
	}

	m := math.Abs(config.MaxThresholdDelta)
	d.VarianceThreshold = signals.ClampRange(d.VarianceThreshold, -m, m)
	d.ConfidenceLock = signals.ClampRange(d.ConfidenceLock, -m, m)
	if d.Cycles > 1 {
		d.Cycles = 1
	}
	if d.Cycles < -1 {
		d.Cycles = -1
	}
	return d
}

// EffectiveCollapseParams applies d to base and re-clamps into the safe
// ranges from config.
func EffectiveCollapseParams(base cognition.Params, d CollapseDeltas, config Config) cognition.Params {
	p := base
	vr, lr, cr := config.VarianceThresholdRange, config.ConfidenceLockRange, config.MaxCyclesRange
	p.VarianceThreshold = signals.ClampRange(base.VarianceThreshold+d.VarianceThreshold, vr[0], vr[1])
	p.ConfidenceLock = signals.ClampRange(base.ConfidenceLock+d.ConfidenceLock, lr[0], lr[1])
	p.MaxCycles = base.MaxCycles + d.Cycles
	if p.MaxCycles < cr[0] {
		p.MaxCycles = cr[0]
	}
	if p.MaxCycles > cr[1] {
		p.MaxCycles = cr[1]
	}
	return p
}

// #endregion collapse-deltas

// #region policy-modulation

// ApplyToAttractorPolicy shifts a selected attractor's policy by at most
// one ordinal step per field. It never changes which attractor was chosen.
func ApplyToAttractorPolicy(p attractor.Policy, id attractor.ID, v Vector, intent signals.Intent, security signals.SecurityFlags, config Config) attractor.Policy {
	v = v.Clamped()
	secure := security.Active()
	high := config.High

	if signals.NormalizeIntent(intent) == signals.IntentOverloaded && id != attractor.Protection {
		p.Verbosity = attractor.VerbosityMinimal
		p.Structure = attractor.StructureChecklist
	} else {
		net := 0
		if v.Urgency >= high {
			net--
		}
		if v.Stress >= high {
			net--
		}
		if v.Curiosity >= high && id != attractor.Protection {
			net++
		}
		if net > 1 {
			net = 1
		}
		if net < -1 {
			net = -1
		}
		p.Verbosity = p.Verbosity.Shift(net)

		switch {
		case v.Urgency >= high:
			p.Structure = p.Structure.Shift(-1)
		case v.Curiosity >= high && id != attractor.Protection:
			p.Structure = p.Structure.Shift(1)
		}
	}

	switch {
	case secure:
		p.Tone = attractor.ToneGuarded
	case v.Stress >= high:
		if p.Tone != attractor.ToneGuarded {
			p.Tone = attractor.ToneFormal
		}
	case v.Urgency >= high:
		if p.Tone == attractor.ToneCreative {
			p.Tone = attractor.ToneNeutral
		}
	case v.Curiosity >= high && v.Stress < config.CreativeStressCeiling && id != attractor.Protection:
		if p.Tone == attractor.ToneNeutral {
			p.Tone = attractor.ToneCreative
		}
	}

	switch {
	case secure || v.Stress >= high:
		p.RiskPosture = p.RiskPosture.Shift(1)
	case v.Curiosity >= high && v.Stress < config.LoosenStressCeiling && id != attractor.Protection:
		p.RiskPosture = p.RiskPosture.Shift(-1)
	}
	return p
}

// #endregion policy-modulation
