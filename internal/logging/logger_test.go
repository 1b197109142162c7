package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// #region helpers
func sampleEntry() DecisionEntry {
	return DecisionEntry{
		TurnID:      "t-1",
		Intent:      "directive",
		Impact:      "medium",
		Attractor:   "order",
		AttractRule: "order_override",
		Posture:     "directive",
		Bias:        "act",
		BiasReason:  "strong_coherence",
		Collapse: DecisionCollapse{
			Selected:   "h-1",
			Confidence: 0.82,
			Reason:     "max_confidence",
			Cycles:     1,
		},
		Disposition: "act",
		Confidence:  0.82,
		Rule:        "E_default_act",
		EvalPassed:  true,
	}
}

// #endregion helpers

// #region new-tests
func TestNew_Levels(t *testing.T) {
	logger, err := New(Config{Level: "warn", Encoding: "json"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if !logger.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn should be enabled")
	}
}

func TestNew_Development(t *testing.T) {
	logger, err := New(Config{Development: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("development logger should enable debug")
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("OrNop(nil) returned nil")
	}
	l := zap.NewExample()
	if OrNop(l) != l {
		t.Error("OrNop should return a non-nil logger unchanged")
	}
}

// #endregion new-tests

// #region log-decision-tests
func TestLogDecision_Info(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	LogDecision(zap.New(core), sampleEntry())

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Level != zapcore.InfoLevel {
		t.Errorf("expected info, got %v", e.Level)
	}
	fields := e.ContextMap()
	if fields["disposition"] != "act" {
		t.Errorf("disposition = %v", fields["disposition"])
	}
	if fields["turn_id"] != "t-1" {
		t.Errorf("turn_id = %v", fields["turn_id"])
	}
	if _, ok := fields["vetoes"]; ok {
		t.Error("vetoes should be omitted when empty")
	}
	if _, ok := fields["risk_class"]; ok {
		t.Error("risk_class should be omitted when empty")
	}
}

func TestLogDecision_FailedEvalWarns(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e := sampleEntry()
	e.EvalPassed = false
	e.EvalReason = "failed: max_options"
	e.Vetoes = []string{"order_focus"}
	LogDecision(zap.New(core), e)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Errorf("expected warn, got %v", entries[0].Level)
	}
	fields := entries[0].ContextMap()
	if fields["eval_reason"] != "failed: max_options" {
		t.Errorf("eval_reason = %v", fields["eval_reason"])
	}
	if _, ok := fields["vetoes"]; !ok {
		t.Error("vetoes should be present")
	}
}

func TestLogDecision_NilLogger(t *testing.T) {
	LogDecision(nil, sampleEntry())
}

// #endregion log-decision-tests
