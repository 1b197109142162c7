package gate

import (
	"testing"

	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/attractor"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/cognition"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/gradient"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/orderfocus"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/posture"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/signals"
)

func makeInput(cc float64, id attractor.ID, attractorConf float64) Input {
	return Input{
		Collapse: cognition.CollapseResult{
			Selected:   cognition.Hypothesis{ID: "h-0", Confidence: cc},
			Confidence: cc,
			Reason:     cognition.ReasonMaxConfidence,
		},
		Attractor: attractor.Result{
			ID:         id,
			Confidence: attractorConf,
			Policy:     attractor.DefaultDefinitions()[id].Policy,
		},
		Intent:    signals.IntentInformational,
		Impact:    signals.ImpactMedium,
		Risk:      0.1,
		Ambiguity: 0.2,
	}
}

func hasVeto(d Decision, vt VetoType) bool {
	for _, v := range d.Vetoes {
		if v.Type == vt {
			return true
		}
	}
	return false
}

// #region cascade

func TestGateDeclineOnPolicy(t *testing.T) {
	g := NewGate(DefaultGateConfig())
	in := makeInput(0.9, attractor.Insight, 0.9)
	in.DisallowedByPolicy = true
	in.Instability = 0.9

	d := g.Evaluate(in)
	if d.Disposition != Decline || d.Rule != RulePolicyDecline {
		t.Fatalf("expected decline, got %s/%s", d.Disposition, d.Rule)
	}
	if d.Confidence != 1.0 {
		t.Errorf("confidence = %.2f, want 1.0", d.Confidence)
	}
	c := d.Constraints
	if c.Tone != attractor.ToneGuarded || c.Structure != attractor.StructureChecklist || d.OutputLimits.MaxLength > 400 {
		t.Errorf("decline should be short/guarded/checklist: %+v %+v", c, d.OutputLimits)
	}
}

func TestGateDeferOnHighRiskLowCollapse(t *testing.T) {
	g := NewGate(DefaultGateConfig())
	in := makeInput(0.4, attractor.Protection, 0.65)
	in.Risk = 0.8
	in.Impact = signals.ImpactHigh

	d := g.Evaluate(in)
	if d.Disposition != Defer || d.Rule != RuleRiskDefer {
		t.Fatalf("expected defer, got %s/%s", d.Disposition, d.Rule)
	}
	if d.Constraints.RiskPosture != attractor.RiskRestricted {
		t.Errorf("defer should be restricted, got %s", d.Constraints.RiskPosture)
	}
}

func TestGateNoDeferWhenCollapseConfident(t *testing.T) {
	g := NewGate(DefaultGateConfig())
	in := makeInput(0.6, attractor.Protection, 0.8)
	in.Risk = 0.8
	in.Impact = signals.ImpactHigh

	d := g.Evaluate(in)
	if d.Disposition != Act {
		t.Fatalf("expected act, got %s/%s", d.Disposition, d.Rule)
	}
	if !d.Assertive {
		t.Error("protection attractor should trigger assertive")
	}
	if d.Unrestricted() {
		t.Error("protection act must stay restricted")
	}
}

func TestGatePauseRules(t *testing.T) {
	g := NewGate(DefaultGateConfig())

	in := makeInput(0.8, attractor.Insight, 0.7)
	in.Instability = 0.7
	if d := g.Evaluate(in); d.Disposition != Pause || d.Rule != RuleInstabilityPause {
		t.Errorf("instability: got %s/%s, want pause", d.Disposition, d.Rule)
	}

	in = makeInput(0.8, attractor.Insight, 0.7)
	in.Ambiguity = 0.75
	in.Intent = signals.IntentUnknown
	if d := g.Evaluate(in); d.Disposition != Pause || d.Rule != RuleInstabilityPause {
		t.Errorf("ambiguity+unknown: got %s/%s, want pause", d.Disposition, d.Rule)
	}
}

func TestGateAskOnAmbiguity(t *testing.T) {
	g := NewGate(DefaultGateConfig())
	in := makeInput(0.5, attractor.Insight, 0.6)
	in.Ambiguity = 0.65

	d := g.Evaluate(in)
	if d.Disposition != Ask || d.Rule != RuleAmbiguityAsk {
		t.Fatalf("expected ask, got %s/%s", d.Disposition, d.Rule)
	}
	if d.OutputLimits.MaxOptions != 1 {
		t.Errorf("ask max options = %d, want 1", d.OutputLimits.MaxOptions)
	}
	if d.Constraints.Structure != attractor.StructureChecklist || !d.Constraints.Direct {
		t.Errorf("strict ask should force checklist + direct: %+v", d.Constraints)
	}
}

func TestGateAskSkippedForLowImpact(t *testing.T) {
	g := NewGate(DefaultGateConfig())
	in := makeInput(0.5, attractor.Insight, 0.6)
	in.Ambiguity = 0.65
	in.Impact = signals.ImpactLow

	if d := g.Evaluate(in); d.Disposition != Act {
		t.Errorf("low impact ambiguity should act, got %s", d.Disposition)
	}
}

func TestGateLooseAsk(t *testing.T) {
	cfg := DefaultGateConfig()
	cfg.StrictAsk = false
	g := NewGate(cfg)
	in := makeInput(0.5, attractor.Insight, 0.6)
	in.Ambiguity = 0.65

	d := g.Evaluate(in)
	if d.Constraints.Structure != attractor.StructureNarrative {
		t.Errorf("non-strict ask should keep narrative, got %s", d.Constraints.Structure)
	}
	if d.OutputLimits.MaxOptions != 1 {
		t.Errorf("max options = %d, want 1", d.OutputLimits.MaxOptions)
	}
}

func TestGateActConfidenceIsMean(t *testing.T) {
	g := NewGate(DefaultGateConfig())
	d := g.Evaluate(makeInput(0.8, attractor.Insight, 0.6))
	if d.Disposition != Act || d.Rule != RuleDefaultAct {
		t.Fatalf("expected act, got %s", d.Disposition)
	}
	if d.Confidence < 0.6999 || d.Confidence > 0.7001 {
		t.Errorf("confidence = %.4f, want 0.7", d.Confidence)
	}
	if d.OutputLimits != (OutputLimits{MaxOptions: 6, MaxLength: 1600}) {
		t.Errorf("expanded limits expected, got %+v", d.OutputLimits)
	}
	if d.Assertive || len(d.Vetoes) != 0 {
		t.Errorf("plain act should carry no adjustments: %+v", d.Vetoes)
	}
}

// #endregion cascade

// #region veto

func TestGateOrderFocusVeto(t *testing.T) {
	g := NewGate(DefaultGateConfig())
	in := makeInput(0.7, attractor.Insight, 0.7)
	in.OrderFocus = &orderfocus.State{DispositionBias: orderfocus.BiasPause, ReasonCode: orderfocus.ReasonLowCoherence}

	d := g.Evaluate(in)
	if d.Disposition != Pause {
		t.Fatalf("expected pause via veto, got %s", d.Disposition)
	}
	if d.Rule != RuleDefaultAct || !hasVeto(d, VetoOrderFocus) {
		t.Errorf("veto should be recorded on the act draft: %+v", d)
	}
}

func TestGateOrderFocusExempt(t *testing.T) {
	g := NewGate(DefaultGateConfig())
	in := makeInput(0.8, attractor.Insight, 0.8)
	in.Risk = 0.2
	in.OrderFocus = &orderfocus.State{DispositionBias: orderfocus.BiasAsk}

	if d := g.Evaluate(in); d.Disposition != Act {
		t.Errorf("high-confidence low-risk draft should be exempt, got %s", d.Disposition)
	}

	in.SecurityFlags = signals.SecurityFlags{"pii"}
	if d := g.Evaluate(in); d.Disposition != Ask {
		t.Errorf("security flags remove the exemption, got %s", d.Disposition)
	}
}

func TestGateOrderFocusDeferGuards(t *testing.T) {
	g := NewGate(DefaultGateConfig())
	in := makeInput(0.6, attractor.Protection, 0.7)
	in.OrderFocus = &orderfocus.State{DispositionBias: orderfocus.BiasDefer}

	d := g.Evaluate(in)
	if d.Disposition != Defer {
		t.Fatalf("expected defer, got %s", d.Disposition)
	}
	if d.Constraints.Tone != attractor.ToneGuarded || d.Constraints.RiskPosture != attractor.RiskRestricted {
		t.Errorf("deferred draft should be guarded/restricted: %+v", d.Constraints)
	}
}

// #endregion veto

// #region clamps

func TestGateAssertiveDirective(t *testing.T) {
	g := NewGate(DefaultGateConfig())
	in := makeInput(0.8, attractor.Insight, 0.8)
	in.Intent = signals.IntentDirective

	d := g.Evaluate(in)
	if !d.Assertive || !hasVeto(d, VetoAssertive) {
		t.Fatal("directive intent should be assertive")
	}
	if d.Constraints.Structure != attractor.StructureChecklist {
		t.Errorf("structure = %s, want checklist", d.Constraints.Structure)
	}
	if d.OutputLimits.MaxOptions != 3 || d.OutputLimits.MaxLength != 400 {
		t.Errorf("limits = %+v, want 3/400", d.OutputLimits)
	}
}

func TestGateAssertiveUrgency(t *testing.T) {
	g := NewGate(DefaultGateConfig())
	in := makeInput(0.8, attractor.Expression, 0.8)
	in.Gradients = gradient.Vector{Urgency: 0.75}
	if d := g.Evaluate(in); !d.Assertive {
		t.Error("high urgency should be assertive")
	}
}

func TestGatePostureOnlyTightens(t *testing.T) {
	g := NewGate(DefaultGateConfig())
	in := makeInput(0.8, attractor.Order, 0.8)
	in.Posture = &posture.Constraints{MaxOptions: 6, MaxLength: 300, AskSingleQuestion: true}

	d := g.Evaluate(in)
	if d.OutputLimits.MaxOptions != 3 {
		t.Errorf("max options = %d, posture must not loosen", d.OutputLimits.MaxOptions)
	}
	if d.OutputLimits.MaxLength != 300 {
		t.Errorf("max length = %d, want 300", d.OutputLimits.MaxLength)
	}
	if !d.Constraints.SingleQuestion || !hasVeto(d, VetoPosture) {
		t.Errorf("posture clamp not applied: %+v", d)
	}
}

func TestGateOverloadedAlwaysChecklist(t *testing.T) {
	g := NewGate(DefaultGateConfig())
	for _, id := range attractor.Priority {
		in := makeInput(0.8, id, 0.8)
		in.Intent = signals.IntentOverloaded
		in.Attractor.Policy.Structure = attractor.StructureNarrative
		d := g.Evaluate(in)
		if d.Constraints.Structure != attractor.StructureChecklist {
			t.Errorf("%s: structure = %s, want checklist", id, d.Constraints.Structure)
		}
	}
}

func TestGateSecurityNeverUnrestrictedAct(t *testing.T) {
	g := NewGate(DefaultGateConfig())
	in := makeInput(0.9, attractor.Insight, 0.9)
	in.SecurityFlags = signals.SecurityFlags{"credential_exposure"}

	d := g.Evaluate(in)
	if d.Unrestricted() {
		t.Fatalf("security flags produced an unrestricted act: %+v", d.Constraints)
	}
	if d.Disposition == Act && !hasVeto(d, VetoSecurity) {
		t.Error("expected security restriction to be recorded")
	}
}

func TestGateClampsMalformedNumbers(t *testing.T) {
	g := NewGate(DefaultGateConfig())
	in := makeInput(7, attractor.Insight, -3)
	d := g.Evaluate(in)
	if d.Confidence < 0 || d.Confidence > 1 {
		t.Errorf("confidence out of range: %.3f", d.Confidence)
	}
	if !d.Disposition.Valid() {
		t.Errorf("invalid disposition %q", d.Disposition)
	}
}

// #endregion clamps
