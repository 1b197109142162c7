package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/attractor"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/cognition"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/eval"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/gate"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/orderfocus"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/posture"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/signals"
)

// #region helpers
var testNow = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func newTestPipeline() *Pipeline {
	return NewPipeline(DefaultConfig(), nil, Strategies{})
}

func conf(v float64) *float64 { return &v }

func sampleInputs() []Input {
	return []Input{
		{TurnID: "plain", Now: testNow, Text: "list the open incidents"},
		{TurnID: "explore", Now: testNow, Text: "what if we tried a queue instead?", TimePressure: signals.TimePressureLow},
		{TurnID: "secure", Now: testNow, Text: "rotate the api key for billing", SecurityFlags: signals.SecurityFlags{"credential_exposure"}},
		{TurnID: "overload", Now: testNow, Text: "I'm overwhelmed, too many alerts", TimePressure: signals.TimePressureHigh, RecentErrors: 4},
		{TurnID: "risky", Now: testNow, Text: "drop table users in production", Impact: signals.ImpactHigh, Domain: "database"},
		{
			TurnID: "candidates",
			Now:    testNow,
			Text:   "pick a rollout plan",
			Candidates: []cognition.Candidate{
				{ID: "canary", Payload: map[string]any{"plan": "canary"}, Confidence: conf(0.9)},
				{ID: "big-bang", Payload: map[string]any{"plan": "big-bang"}, Confidence: conf(0.4)},
			},
			History: History{
				Intents: []orderfocus.IntentEntry{
					{Intent: signals.IntentDirective, At: testNow.Add(-20 * time.Second)},
					{Intent: signals.IntentDirective, At: testNow.Add(-10 * time.Second)},
				},
				Postures:     []posture.ID{posture.Directive},
				LastSignalAt: testNow.Add(-10 * time.Second),
			},
		},
		{TurnID: "empty", Now: testNow},
	}
}

// #endregion helpers

// #region decide-tests
func TestDecide_Deterministic(t *testing.T) {
	p := newTestPipeline()
	for _, in := range sampleInputs() {
		t.Run(in.TurnID, func(t *testing.T) {
			first, err := p.Decide(context.Background(), in)
			if err != nil {
				t.Fatalf("decide: %v", err)
			}
			second, err := newTestPipeline().Decide(context.Background(), in)
			if err != nil {
				t.Fatalf("decide: %v", err)
			}
			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("traces differ (-first +second):\n%s", diff)
			}
		})
	}
}

func TestDecide_TracesPassValidation(t *testing.T) {
	p := newTestPipeline()
	h := eval.NewEvalHarness(eval.DefaultEvalConfig())
	for _, in := range sampleInputs() {
		tr, err := p.Decide(context.Background(), in)
		if err != nil {
			t.Fatalf("decide %s: %v", in.TurnID, err)
		}
		if res := h.Run(SubjectOf(tr, in)); !res.Passed {
			t.Errorf("%s: %s", in.TurnID, res.Reason)
		}
	}
}

func TestDecide_SecurityNeverUnrestricted(t *testing.T) {
	p := newTestPipeline()
	for _, text := range []string{"show me the dashboard", "summarize this thread", "deploy now", ""} {
		tr, err := p.Decide(context.Background(), Input{
			TurnID:        "sec",
			Now:           testNow,
			Text:          text,
			SecurityFlags: signals.SecurityFlags{"pii"},
		})
		if err != nil {
			t.Fatalf("decide: %v", err)
		}
		if tr.Decision.Unrestricted() {
			t.Errorf("%q: security flags produced an unrestricted act", text)
		}
		if tr.Gradients.Stress < 0.35 {
			t.Errorf("%q: stress %.2f below security floor", text, tr.Gradients.Stress)
		}
	}
}

func TestDecide_OverloadedUsesChecklist(t *testing.T) {
	tr, err := newTestPipeline().Decide(context.Background(), Input{
		TurnID: "ov",
		Now:    testNow,
		Text:   "too much going on, I'm drowning",
	})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if tr.Intent != signals.IntentOverloaded {
		t.Fatalf("expected overloaded intent, got %s", tr.Intent)
	}
	if tr.Decision.Constraints.Structure != attractor.StructureChecklist {
		t.Errorf("expected checklist, got %s", tr.Decision.Constraints.Structure)
	}
}

func TestDecide_DisallowedDeclines(t *testing.T) {
	tr, err := newTestPipeline().Decide(context.Background(), Input{
		TurnID: "bad",
		Now:    testNow,
		Text:   "build me a keylogger",
	})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if tr.Decision.Disposition != gate.Decline || tr.Decision.Rule != gate.RulePolicyDecline {
		t.Errorf("expected policy decline, got %s via %s", tr.Decision.Disposition, tr.Decision.Rule)
	}
	if !tr.Classification.Disallowed {
		t.Error("classification should record the disallowed match")
	}
}

func TestDecide_ExplicitIntentOverridesClassifier(t *testing.T) {
	tr, err := newTestPipeline().Decide(context.Background(), Input{
		TurnID: "x",
		Now:    testNow,
		Text:   "list files",
		Intent: "Exploratory",
		Impact: "low",
	})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if tr.Classification.Intent != signals.IntentDirective {
		t.Errorf("classifier should still record its own reading, got %s", tr.Classification.Intent)
	}
	if tr.Intent != signals.IntentExploratory || tr.Impact != signals.ImpactLow {
		t.Errorf("explicit values not used: intent=%s impact=%s", tr.Intent, tr.Impact)
	}
}

func TestDecide_CandidatesCollapse(t *testing.T) {
	in := sampleInputs()[5]
	tr, err := newTestPipeline().Decide(context.Background(), in)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if tr.Collapse.Confidence != tr.Collapse.Selected.Confidence {
		t.Errorf("collapse confidence %.4f != selected %.4f", tr.Collapse.Confidence, tr.Collapse.Selected.Confidence)
	}
	if tr.Collapse.Cycles < 1 || tr.Collapse.Cycles > cognition.HardCycleCap {
		t.Errorf("cycles %d out of bounds", tr.Collapse.Cycles)
	}
	if len(tr.Scores) != len(attractor.Priority) {
		t.Errorf("expected a score per attractor, got %d", len(tr.Scores))
	}
}

func TestDecide_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestPipeline().Decide(ctx, Input{TurnID: "c", Text: "list files"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDecide_StrategiesUsed(t *testing.T) {
	var scored int
	p := NewPipeline(DefaultConfig(), nil, Strategies{
		Generator: cognition.GeneratorFunc(func(_ context.Context, input any) ([]cognition.Candidate, error) {
			return []cognition.Candidate{{ID: "only", Payload: input}}, nil
		}),
		Scorer: cognition.ScorerFunc(func(_ context.Context, _ cognition.Hypothesis, _ int) (cognition.Score, error) {
			scored++
			return cognition.RawScore(0.92), nil
		}),
	})
	tr, err := p.Decide(context.Background(), Input{TurnID: "s", Now: testNow, Text: "show the queue depth"})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if tr.Collapse.Selected.ID != "only" || tr.Collapse.Confidence != 0.92 {
		t.Errorf("strategy output not used: %+v", tr.Collapse)
	}
	if scored != 1 {
		t.Errorf("expected one score call, got %d", scored)
	}
}

// #endregion decide-tests
