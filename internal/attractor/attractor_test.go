package attractor

import (
	"math"
	"testing"

	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/signals"
)

func newTestSelector() *Selector {
	return NewSelector(DefaultRegistry(), DefaultConfig())
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// #region registry

func TestNewRegistry_MissingAttractor(t *testing.T) {
	defs := DefaultDefinitions()
	delete(defs, Insight)
	if _, err := NewRegistry(defs); err == nil {
		t.Fatal("expected error for missing insight definition")
	}
}

func TestNewRegistry_ZeroWeights(t *testing.T) {
	defs := DefaultDefinitions()
	d := defs[Expression]
	d.Weights = Weights{}
	defs[Expression] = d
	if _, err := NewRegistry(defs); err == nil {
		t.Fatal("expected error for zero weight mass")
	}
}

func TestNewRegistry_UnknownAttractor(t *testing.T) {
	defs := DefaultDefinitions()
	defs["chaos"] = defs[Order]
	if _, err := NewRegistry(defs); err == nil {
		t.Fatal("expected error for unknown attractor")
	}
}

func TestDefaultRegistry_Policies(t *testing.T) {
	r := DefaultRegistry()
	p := r.Policy(Protection)
	if p.Verbosity != VerbosityMinimal || p.Tone != ToneGuarded || p.RiskPosture != RiskRestricted {
		t.Errorf("unexpected protection policy: %+v", p)
	}
	if r.Policy(Insight).Verbosity != VerbosityExpanded {
		t.Errorf("insight should default to expanded")
	}
}

func TestPolicyShift_Saturates(t *testing.T) {
	if VerbosityMinimal.Shift(-1) != VerbosityMinimal {
		t.Error("verbosity below minimal")
	}
	if VerbosityExpanded.Shift(2) != VerbosityExpanded {
		t.Error("verbosity above expanded")
	}
	if RiskOpen.Shift(-1) != RiskOpen {
		t.Error("risk posture below open")
	}
	if StructureNarrative.Shift(-1) != StructureHybrid {
		t.Error("narrative should step to hybrid")
	}
	if Verbosity("bogus").Shift(0) != VerbosityStandard {
		t.Error("unknown verbosity should map to standard")
	}
}

// #endregion registry

// #region needs

func TestScanRisk_HighestBucketWins(t *testing.T) {
	s := newTestSelector()
	tests := []struct {
		payload any
		name    string
		score   float64
	}{
		{"reset my password and check gdpr", "credential_financial", 0.85},
		{"gdpr retention question", "compliance", 0.55},
		{map[string]any{"cmd": "DROP TABLE users", "note": "audit"}, "destructive_operation", 0.75},
		{"delete all rows, also what dosage is safe", "safety_critical", 1.0},
		{"weather tomorrow", "", 0},
	}
	for _, tt := range tests {
		name, score := s.ScanRisk(IntegrationContext{Payload: tt.payload})
		if name != tt.name || !approx(score, tt.score) {
			t.Errorf("ScanRisk(%v) = (%q, %.2f), want (%q, %.2f)", tt.payload, name, score, tt.name, tt.score)
		}
	}
}

func TestComputeNeeds_OverlappingBands(t *testing.T) {
	s := newTestSelector()
	n := s.ComputeNeeds(0.72, IntegrationContext{Intent: signals.IntentDirective})
	// base 0.3 + medium 0.1 + high 0.15 + directive 0.3
	if !approx(n.Clarity, 0.85) {
		t.Errorf("clarity = %.3f, want 0.85", n.Clarity)
	}
}

func TestComputeNeeds_Clamped(t *testing.T) {
	s := newTestSelector()
	n := s.ComputeNeeds(math.NaN(), IntegrationContext{
		Intent:        signals.IntentUnknown,
		SecurityFlags: signals.SecurityFlags{"pii"},
		Payload:       "password overdose",
	})
	for _, v := range []float64{n.Clarity, n.Novelty, n.Risk, n.Communication} {
		if v < 0 || v > 1 {
			t.Fatalf("need out of range: %+v", n)
		}
	}
	if n.Risk != 1 {
		t.Errorf("risk = %.3f, want saturated 1", n.Risk)
	}
}

// #endregion needs

// #region select

func TestSelect_OrderOverride(t *testing.T) {
	s := newTestSelector()
	_, _, res := s.Choose(0.9, IntegrationContext{Intent: signals.IntentDirective})
	if res.ID != Order || res.Rule != RuleOrder {
		t.Fatalf("expected order override, got %s/%s", res.ID, res.Rule)
	}
	if !approx(res.Confidence, 0.75) {
		t.Errorf("confidence = %.4f, want clarity need 0.75", res.Confidence)
	}
	if res.Policy != DefaultDefinitions()[Order].Policy {
		t.Errorf("order policy modified unexpectedly: %+v", res.Policy)
	}
}

func TestSelect_SecurityForcesProtectionWithCap(t *testing.T) {
	s := newTestSelector()
	_, _, res := s.Choose(0.3, IntegrationContext{
		Intent:        signals.IntentCreative,
		SecurityFlags: signals.SecurityFlags{"credential_exposure"},
	})
	if res.ID != Protection {
		t.Fatalf("expected protection, got %s", res.ID)
	}
	if !approx(res.Confidence, 0.65) {
		t.Errorf("confidence = %.4f, want cap 0.65", res.Confidence)
	}
	if res.Policy.RiskPosture != RiskRestricted {
		t.Errorf("protection must stay restricted, got %s", res.Policy.RiskPosture)
	}
}

func TestSelect_RiskPayloadForcesProtection(t *testing.T) {
	s := newTestSelector()
	_, _, res := s.Choose(0.9, IntegrationContext{
		Intent:  signals.IntentInformational,
		Payload: map[string]any{"text": "what is my bank account balance"},
	})
	if res.ID != Protection || res.Rule != RuleProtection {
		t.Fatalf("expected protection override, got %s/%s", res.ID, res.Rule)
	}
	if !approx(res.Confidence, 0.95) {
		t.Errorf("confidence = %.4f, want risk need 0.95", res.Confidence)
	}
}

func TestSelect_ExploratoryInsightExpanded(t *testing.T) {
	s := newTestSelector()
	ictx := IntegrationContext{Intent: signals.IntentExploratory, Domain: "brainstorm product ideas"}
	_, _, res := s.Choose(0.6, ictx)
	if res.ID != Insight {
		t.Fatalf("expected insight, got %s", res.ID)
	}
	if res.Policy.Verbosity != VerbosityExpanded {
		t.Errorf("verbosity = %s, want expanded", res.Policy.Verbosity)
	}

	ictx.TimePressure = signals.TimePressureHigh
	_, _, res = s.Choose(0.6, ictx)
	if res.ID != Insight {
		t.Fatalf("expected insight under time pressure, got %s", res.ID)
	}
	if res.Policy.Verbosity != VerbosityStandard {
		t.Errorf("time pressure should block re-expansion, got %s", res.Policy.Verbosity)
	}
}

func TestSelect_OverloadedForcesChecklistMinimal(t *testing.T) {
	s := newTestSelector()
	_, _, res := s.Choose(0.6, IntegrationContext{Intent: signals.IntentOverloaded, Domain: "write an email"})
	if res.ID == Protection {
		t.Fatal("did not expect protection")
	}
	if res.Policy.Structure != StructureChecklist || res.Policy.Verbosity != VerbosityMinimal {
		t.Errorf("overloaded policy = %+v, want checklist/minimal", res.Policy)
	}
}

func TestSelect_TieBrokenByPriority(t *testing.T) {
	defs := DefaultDefinitions()
	for id, d := range defs {
		d.Weights = Weights{Clarity: 1, Novelty: 1, Risk: 1, Communication: 1}
		defs[id] = d
	}
	reg, err := NewRegistry(defs)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	s := NewSelector(reg, DefaultConfig())
	_, scores, res := s.Choose(0.6, IntegrationContext{Intent: signals.IntentInformational})
	for _, sc := range scores[1:] {
		if !approx(sc.Score, scores[0].Score) {
			t.Fatalf("expected equal scores, got %+v", scores)
		}
	}
	if res.ID != Protection || res.Rule != RuleMaxScore {
		t.Errorf("tie should resolve to protection by priority, got %s/%s", res.ID, res.Rule)
	}
}

func TestScore_WeightedAverage(t *testing.T) {
	s := newTestSelector()
	scores := s.Score(Needs{Clarity: 1, Novelty: 1, Risk: 1, Communication: 1})
	for _, sc := range scores {
		if !approx(sc.Score, 1) {
			t.Errorf("%s score = %.4f, want 1 for saturated needs", sc.ID, sc.Score)
		}
	}
}

// #endregion select
