package gate

import (
	"fmt"

	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/attractor"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/orderfocus"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/posture"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/signals"
)

const maxOptionsCeiling = 6

// #region gate
// Gate fuses every upstream stage into one decision.
type Gate struct {
	config GateConfig
}

// NewGate creates a gate with the given configuration.
func NewGate(config GateConfig) *Gate {
	return &Gate{config: config}
}

// Evaluate runs the rule cascade (decline > defer > pause > ask > act),
// then the order/focus veto and the tightening clamps. An earlier rule
// fully pre-empts the later ones.
func (g *Gate) Evaluate(in Input) Decision {
	cfg := g.config
	cc := signals.Clamp01(in.Collapse.Confidence)
	risk := signals.Clamp01(in.Risk)
	ambiguity := signals.Clamp01(in.Ambiguity)
	instability := signals.Clamp01(in.Instability)
	intent := signals.NormalizeIntent(in.Intent)
	impact := signals.NormalizeImpact(in.Impact)
	secure := in.SecurityFlags.Active()

	// --- Rule cascade ---

	var d Decision
	switch {
	case in.DisallowedByPolicy:
		d = g.guarded(Decline, 1.0, RulePolicyDecline, "request disallowed by policy")
	case risk >= cfg.DeferRisk && impact == signals.ImpactHigh && cc < cfg.DeferCollapse:
		d = g.guarded(Defer, risk, RuleRiskDefer,
			fmt.Sprintf("risk %.2f on high-impact request with collapse confidence %.2f", risk, cc))
	case instability >= cfg.PauseInstability:
		d = g.draft(in, Pause, instability, RuleInstabilityPause,
			fmt.Sprintf("instability %.2f", instability))
	case ambiguity >= cfg.PauseAmbiguity && intent == signals.IntentUnknown:
		d = g.draft(in, Pause, ambiguity, RuleInstabilityPause,
			fmt.Sprintf("ambiguity %.2f with unknown intent", ambiguity))
	case ambiguity >= cfg.AskAmbiguity && impact != signals.ImpactLow && risk < cfg.AskRiskCeiling:
		d = g.draft(in, Ask, ambiguity, RuleAmbiguityAsk,
			fmt.Sprintf("ambiguity %.2f on %s-impact request", ambiguity, impact))
	default:
		conf := (cc + signals.Clamp01(in.Attractor.Confidence)) / 2
		d = g.draft(in, Act, conf, RuleDefaultAct, fmt.Sprintf("default act via %s", in.Attractor.ID))
	}

	// --- Order/Focus veto ---

	if d.Disposition == Act && in.OrderFocus != nil {
		g.applyOrderFocus(&d, in, cc, risk, secure)
	}

	// --- Tightening clamps ---

	if d.Disposition == Act {
		g.applyAssertive(&d, in, intent, risk)
		if secure && d.Unrestricted() {
			d.Constraints.RiskPosture = attractor.RiskRestricted
			d.Constraints.Tone = attractor.ToneGuarded
			d.Vetoes = append(d.Vetoes, VetoSignal{Type: VetoSecurity, Reason: "security flags active"})
		}
	}
	if in.Posture != nil {
		g.applyPosture(&d, *in.Posture)
	}
	if d.Disposition == Ask {
		g.applyAskClamp(&d)
	}
	if intent == signals.IntentOverloaded && d.Constraints.Structure != attractor.StructureChecklist {
		d.Constraints.Structure = attractor.StructureChecklist
		d.Vetoes = append(d.Vetoes, VetoSignal{Type: VetoOverloaded, Reason: "overloaded intent"})
	}

	d.Confidence = signals.Clamp01(d.Confidence)
	d.OutputLimits.MaxOptions = boundOptions(d.OutputLimits.MaxOptions)
	return d
}

// #endregion gate

// #region drafts
// draft starts a decision from the attractor's modulated policy.
func (g *Gate) draft(in Input, disp Disposition, conf float64, rule Rule, reason string) Decision {
	p := in.Attractor.Policy
	return Decision{
		Disposition: disp,
		Confidence:  conf,
		Rule:        rule,
		Reason:      reason,
		Constraints: Constraints{
			Verbosity:   p.Verbosity,
			Tone:        p.Tone,
			Structure:   p.Structure,
			RiskPosture: p.RiskPosture,
		},
		OutputLimits: g.config.limitsFor(p.Verbosity),
	}
}

// guarded is the fixed short/guarded/checklist shape used by decline and defer.
func (g *Gate) guarded(disp Disposition, conf float64, rule Rule, reason string) Decision {
	limits := g.config.MinimalLimits
	limits.MaxLength = minPositive(limits.MaxLength, g.config.ShortLength)
	return Decision{
		Disposition: disp,
		Confidence:  conf,
		Rule:        rule,
		Reason:      reason,
		Constraints: Constraints{
			Verbosity:   attractor.VerbosityMinimal,
			Tone:        attractor.ToneGuarded,
			Structure:   attractor.StructureChecklist,
			RiskPosture: attractor.RiskRestricted,
			Direct:      true,
		},
		OutputLimits: limits,
	}
}

// #endregion drafts

// #region veto
// applyOrderFocus downgrades an act draft to the order/focus bias unless
// the draft is both high-confidence and low-risk.
func (g *Gate) applyOrderFocus(d *Decision, in Input, cc, risk float64, secure bool) {
	bias := in.OrderFocus.DispositionBias
	if bias == orderfocus.BiasAct || bias == "" {
		return
	}
	cfg := g.config
	exempt := cc >= cfg.ExemptConfidence &&
		signals.Clamp01(in.Attractor.Confidence) >= cfg.ExemptConfidence &&
		risk < cfg.ExemptRiskCeiling &&
		!secure &&
		in.Attractor.ID != attractor.Protection
	if exempt {
		return
	}

	var next Disposition
	switch bias {
	case orderfocus.BiasPause:
		next = Pause
	case orderfocus.BiasAsk:
		next = Ask
	case orderfocus.BiasDefer:
		next = Defer
	default:
		return
	}
	d.Disposition = next
	d.Vetoes = append(d.Vetoes, VetoSignal{
		Type:   VetoOrderFocus,
		Reason: fmt.Sprintf("order/focus bias %s (%s)", bias, in.OrderFocus.ReasonCode),
	})
	if next == Defer {
		d.Constraints.Tone = attractor.ToneGuarded
		d.Constraints.Structure = attractor.StructureChecklist
		d.Constraints.RiskPosture = attractor.RiskRestricted
	}
}

// #endregion veto

// #region clamps
// applyAssertive tightens an act decision for directive or high-stakes turns.
func (g *Gate) applyAssertive(d *Decision, in Input, intent signals.Intent, risk float64) {
	cfg := g.config
	var why string
	switch {
	case intent == signals.IntentDirective:
		why = "directive intent"
	case in.Attractor.ID == attractor.Order || in.Attractor.ID == attractor.Protection:
		why = fmt.Sprintf("%s attractor", in.Attractor.ID)
	case risk >= cfg.AssertiveRisk:
		why = fmt.Sprintf("risk %.2f", risk)
	case signals.Clamp01(in.Gradients.Urgency) >= cfg.AssertiveUrgency:
		why = "high urgency"
	default:
		return
	}
	d.Assertive = true
	d.Constraints.Structure = attractor.StructureChecklist
	d.Constraints.Direct = true
	d.OutputLimits.MaxOptions = minPositive(d.OutputLimits.MaxOptions, cfg.AssertiveOptions)
	d.OutputLimits.MaxLength = minPositive(d.OutputLimits.MaxLength, cfg.ShortLength)
	d.Vetoes = append(d.Vetoes, VetoSignal{Type: VetoAssertive, Reason: why})
}

// applyPosture applies posture-derived constraints. It only ever tightens.
func (g *Gate) applyPosture(d *Decision, pc posture.Constraints) {
	changed := false
	if pc.MaxOptions > 0 && pc.MaxOptions < d.OutputLimits.MaxOptions {
		d.OutputLimits.MaxOptions = pc.MaxOptions
		changed = true
	}
	if pc.MaxLength > 0 && pc.MaxLength < d.OutputLimits.MaxLength {
		d.OutputLimits.MaxLength = pc.MaxLength
		changed = true
	}
	if pc.AskSingleQuestion && !d.Constraints.SingleQuestion {
		d.Constraints.SingleQuestion = true
		changed = true
	}
	if pc.PreferChecklist && d.Constraints.Structure != attractor.StructureChecklist {
		d.Constraints.Structure = attractor.StructureChecklist
		changed = true
	}
	if changed {
		d.Vetoes = append(d.Vetoes, VetoSignal{Type: VetoPosture, Reason: "posture constraints"})
	}
}

// applyAskClamp limits an ask to a single option.
func (g *Gate) applyAskClamp(d *Decision) {
	d.OutputLimits.MaxOptions = 1
	d.Constraints.SingleQuestion = true
	if g.config.StrictAsk {
		d.Constraints.Structure = attractor.StructureChecklist
		d.Constraints.Direct = true
	}
	d.Vetoes = append(d.Vetoes, VetoSignal{Type: VetoAskClamp, Reason: "ask is a single question"})
}

// #endregion clamps

// #region helpers
func minPositive(a, b int) int {
	if b > 0 && b < a {
		return b
	}
	return a
}

func boundOptions(n int) int {
	if n < 1 {
		return 1
	}
	if n > maxOptionsCeiling {
		return maxOptionsCeiling
	}
	return n
}

// #endregion helpers
