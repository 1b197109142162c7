package gradient

import (
	"math"

	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/signals"
)

// #region tables

var timePressureStress = map[signals.TimePressure]float64{
	signals.TimePressureLow:    0,
	signals.TimePressureMedium: 0.1,
	signals.TimePressureHigh:   0.25,
}

var timePressureUrgency = map[signals.TimePressure]float64{
	signals.TimePressureLow:    0,
	signals.TimePressureMedium: 0.3,
	signals.TimePressureHigh:   0.6,
}

var timePressureCuriosity = map[signals.TimePressure]float64{
	signals.TimePressureLow:    0,
	signals.TimePressureMedium: -0.05,
	signals.TimePressureHigh:   -0.15,
}

var intentStress = map[signals.Intent]float64{
	signals.IntentDirective:  0.05,
	signals.IntentOverloaded: 0.3,
	signals.IntentUnknown:    0.05,
}

var intentCuriosity = map[signals.Intent]float64{
	signals.IntentExploratory:   0.35,
	signals.IntentCreative:      0.25,
	signals.IntentInformational: 0.1,
	signals.IntentDirective:     -0.1,
	signals.IntentOverloaded:    -0.2,
}

var intentUrgency = map[signals.Intent]float64{
	signals.IntentDirective:  0.15,
	signals.IntentOverloaded: 0.1,
}

var intentConfidence = map[signals.Intent]float64{
	signals.IntentDirective:  0.05,
	signals.IntentUnknown:    -0.15,
	signals.IntentOverloaded: -0.1,
}

var loadStress = map[signals.SystemLoad]float64{
	signals.SystemLoadNormal:   0,
	signals.SystemLoadElevated: 0.15,
	signals.SystemLoadCritical: 0.3,
}

var loadConfidence = map[signals.SystemLoad]float64{
	signals.SystemLoadNormal:   0,
	signals.SystemLoadElevated: -0.1,
	signals.SystemLoadCritical: -0.2,
}

// #endregion tables

// #region derive

// Derive turns situational hints into a gradient vector. Each component is
// an additive clamped blend; the security clamps are applied last and win
// over every other contribution.
func Derive(ctx Context, config Config) Vector {
	intent := signals.NormalizeIntent(ctx.Intent)
	tp := signals.NormalizeTimePressure(ctx.TimePressure)
	load := signals.NormalizeSystemLoad(ctx.SystemLoad)
	errNorm := normalizeErrors(ctx.RecentErrors, config.ErrorSaturation)
	tension := ctx.Sensors.Tension()
	arousal := signals.Reading(ctx.Sensors.Arousal)

	v := Vector{
		Stress: 0.15 + timePressureStress[tp] + intentStress[intent] +
			0.3*errNorm + loadStress[load] + 0.3*tension,
		Curiosity: 0.3 + intentCuriosity[intent] + timePressureCuriosity[tp] -
			0.1*errNorm + 0.1*arousal,
		Urgency: 0.1 + timePressureUrgency[tp] + intentUrgency[intent] +
			0.1*errNorm + 0.2*arousal,
		Confidence: 0.6 + intentConfidence[intent] - 0.3*errNorm +
			loadConfidence[load] - 0.1*tension,
	}.Clamped()

	if ctx.SecurityFlags.Active() {
		v.Stress = math.Max(v.Stress, config.SecurityStressFloor)
		v.Curiosity = math.Min(v.Curiosity, config.SecurityCuriosityCeil)
	}
	return v.Clamped()
}

func normalizeErrors(n, saturation int) float64 {
	if n <= 0 || saturation <= 0 {
		return 0
	}
	if n > saturation {
		n = saturation
	}
	return float64(n) / float64(saturation)
}

// #endregion derive

// #region collapse-feedback

// WithCollapseConfidence blends collapse confidence into the gradient's
// confidence. This is the only path from collapse back into gradients.
func WithCollapseConfidence(v Vector, collapseConfidence float64, config Config) Vector {
	w := signals.Clamp01(config.CollapseBlend)
	v.Confidence = w*signals.Clamp01(collapseConfidence) + (1-w)*signals.Clamp01(v.Confidence)
	return v.Clamped()
}

// #endregion collapse-feedback
