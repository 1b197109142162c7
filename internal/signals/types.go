package signals

import "strings"

// #region intent

// Intent is the caller's categorical reading of what the requester wants.
type Intent string

const (
	IntentDirective     Intent = "directive"
	IntentExploratory   Intent = "exploratory"
	IntentOverloaded    Intent = "overloaded"
	IntentInformational Intent = "informational"
	IntentCreative      Intent = "creative"
	IntentUnknown       Intent = "unknown"
)

// NormalizeIntent maps unrecognized or empty values to IntentUnknown.
func NormalizeIntent(v Intent) Intent {
	switch Intent(strings.ToLower(strings.TrimSpace(string(v)))) {
	case IntentDirective:
		return IntentDirective
	case IntentExploratory:
		return IntentExploratory
	case IntentOverloaded:
		return IntentOverloaded
	case IntentInformational:
		return IntentInformational
	case IntentCreative:
		return IntentCreative
	}
	return IntentUnknown
}

// #endregion intent

// #region time-pressure

// TimePressure is the categorical urgency hint supplied with a turn.
type TimePressure string

const (
	TimePressureLow    TimePressure = "low"
	TimePressureMedium TimePressure = "medium"
	TimePressureHigh   TimePressure = "high"
)

// NormalizeTimePressure defaults unknown values to low.
func NormalizeTimePressure(v TimePressure) TimePressure {
	switch TimePressure(strings.ToLower(strings.TrimSpace(string(v)))) {
	case TimePressureMedium:
		return TimePressureMedium
	case TimePressureHigh:
		return TimePressureHigh
	}
	return TimePressureLow
}

// #endregion time-pressure

// #region impact

// Impact estimates how consequential acting on the request would be.
type Impact string

const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

// NormalizeImpact defaults unknown values to medium.
func NormalizeImpact(v Impact) Impact {
	switch Impact(strings.ToLower(strings.TrimSpace(string(v)))) {
	case ImpactLow:
		return ImpactLow
	case ImpactHigh:
		return ImpactHigh
	}
	return ImpactMedium
}

// #endregion impact

// #region system-load

// SystemLoad is the host load category reported by the caller.
type SystemLoad string

const (
	SystemLoadNormal   SystemLoad = "normal"
	SystemLoadElevated SystemLoad = "elevated"
	SystemLoadCritical SystemLoad = "critical"
)

// NormalizeSystemLoad defaults unknown values to normal.
func NormalizeSystemLoad(v SystemLoad) SystemLoad {
	switch SystemLoad(strings.ToLower(strings.TrimSpace(string(v)))) {
	case SystemLoadElevated:
		return SystemLoadElevated
	case SystemLoadCritical:
		return SystemLoadCritical
	}
	return SystemLoadNormal
}

// #endregion system-load

// #region sensors

// Sensors carries optional continuous readings. Nil means "not measured".
type Sensors struct {
	VoiceTension *float64 `json:"voice_tension,omitempty"`
	BioStress    *float64 `json:"bio_stress,omitempty"`
	Arousal      *float64 `json:"arousal,omitempty"`
}

// Tension is max(voiceTension, bioStress); 0 when neither is present.
func (s Sensors) Tension() float64 {
	return maxFloat(Reading(s.VoiceTension), Reading(s.BioStress))
}

// Reading dereferences an optional sensor value, clamped to [0, 1].
func Reading(p *float64) float64 {
	if p == nil {
		return 0
	}
	return Clamp01(*p)
}

// #endregion sensors

// #region security-flags

// SecurityFlags lists active security markers (e.g. "pii", "credential_exposure").
type SecurityFlags []string

// Active reports whether any non-blank flag is set.
func (f SecurityFlags) Active() bool {
	for _, s := range f {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}

// #endregion security-flags
