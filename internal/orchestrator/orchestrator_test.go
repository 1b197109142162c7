package orchestrator

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/posture"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/signals"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/state"
)

// #region helpers
func steppingClock(start time.Time, step time.Duration) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(step)
		return now
	}
}

func openStore(t *testing.T) *state.Store {
	t.Helper()
	s, err := state.NewStore(filepath.Join(t.TempDir(), "decisions.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// #endregion helpers

// #region history-tests
func TestTurn_RotatesHistory(t *testing.T) {
	o := NewOrchestrator(newTestPipeline(), Options{Now: steppingClock(testNow, 10*time.Second)})
	ctx := context.Background()

	texts := []string{"list files", "show the logs", "restart the worker"}
	var last TurnResult
	for i, text := range texts {
		res, err := o.Turn(ctx, Input{Text: text})
		if err != nil {
			t.Fatalf("turn %d: %v", i, err)
		}
		if len(res.Input.History.Intents) != i {
			t.Errorf("turn %d saw %d prior intents", i, len(res.Input.History.Intents))
		}
		last = res
	}

	h := o.History()
	if len(h.Intents) != 3 || len(h.Postures) != 3 {
		t.Fatalf("expected 3 intents and postures, got %d/%d", len(h.Intents), len(h.Postures))
	}
	for _, e := range h.Intents {
		if e.Intent != signals.IntentDirective {
			t.Errorf("expected directive history, got %s", e.Intent)
		}
	}
	if !h.LastSignalAt.Equal(testNow.Add(20 * time.Second)) {
		t.Errorf("LastSignalAt = %v", h.LastSignalAt)
	}
	if h.Postures[2] != last.Trace.Posture.ID {
		t.Errorf("newest posture %s, want %s", h.Postures[2], last.Trace.Posture.ID)
	}
}

func TestTurn_HistoryBounded(t *testing.T) {
	cfg := DefaultConfig()
	o := NewOrchestrator(NewPipeline(cfg, nil, Strategies{}), Options{Now: steppingClock(testNow, time.Second)})
	for i := 0; i < 9; i++ {
		if _, err := o.Turn(context.Background(), Input{Text: "show status"}); err != nil {
			t.Fatalf("turn %d: %v", i, err)
		}
	}
	h := o.History()
	if len(h.Intents) != cfg.OrderFocus.MaxEntries {
		t.Errorf("intents %d, want %d", len(h.Intents), cfg.OrderFocus.MaxEntries)
	}
	if len(h.Postures) != cfg.Posture.HistorySize {
		t.Errorf("postures %d, want %d", len(h.Postures), cfg.Posture.HistorySize)
	}
	if !h.Intents[len(h.Intents)-1].At.Equal(testNow.Add(8 * time.Second)) {
		t.Errorf("newest intent at %v", h.Intents[len(h.Intents)-1].At)
	}
}

func TestTurn_HistoryCopyIsIsolated(t *testing.T) {
	o := NewOrchestrator(newTestPipeline(), Options{Now: steppingClock(testNow, time.Second)})
	if _, err := o.Turn(context.Background(), Input{Text: "list files"}); err != nil {
		t.Fatalf("turn: %v", err)
	}
	h := o.History()
	h.Postures[0] = posture.Frustrated
	if o.History().Postures[0] == posture.Frustrated {
		t.Error("History returned shared storage")
	}

	o.Reset()
	if got := o.History(); len(got.Intents) != 0 || !got.LastSignalAt.IsZero() {
		t.Errorf("Reset left history behind: %+v", got)
	}
}

func TestTurn_CallerHistoryIgnored(t *testing.T) {
	o := NewOrchestrator(newTestPipeline(), Options{Now: steppingClock(testNow, time.Second)})
	res, err := o.Turn(context.Background(), Input{
		Text:    "list files",
		History: History{Postures: []posture.ID{posture.Overloaded}},
	})
	if err != nil {
		t.Fatalf("turn: %v", err)
	}
	if len(res.Input.History.Postures) != 0 {
		t.Errorf("orchestrator should own history, got %v", res.Input.History.Postures)
	}
}

// #endregion history-tests

// #region rotate-tests
func TestRotate_DoesNotMutate(t *testing.T) {
	h := History{Postures: []posture.ID{posture.Directive}}
	tr := Trace{Intent: signals.IntentCreative, Posture: posture.Result{ID: posture.Exploratory}}
	got := Rotate(h, tr, testNow, DefaultConfig())

	if len(h.Postures) != 1 || len(h.Intents) != 0 {
		t.Error("Rotate modified its input")
	}
	want := History{
		Intents:      got.Intents,
		Postures:     []posture.ID{posture.Directive, posture.Exploratory},
		LastSignalAt: testNow,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rotate mismatch (-want +got):\n%s", diff)
	}
	if got.Intents[0].Intent != signals.IntentCreative {
		t.Errorf("intent %s", got.Intents[0].Intent)
	}
}

// #endregion rotate-tests

// #region side-effect-tests
func TestTurn_PersistsDecision(t *testing.T) {
	store := openStore(t)
	o := NewOrchestrator(newTestPipeline(), Options{Store: store, Now: steppingClock(testNow, time.Second)})
	ctx := context.Background()

	res, err := o.Turn(ctx, Input{TurnID: "t-1", Text: "show the deploy log"})
	if err != nil {
		t.Fatalf("turn: %v", err)
	}
	if res.RecordID == "" {
		t.Fatal("expected a record id")
	}

	rec, err := store.GetDecision(ctx, res.RecordID)
	if err != nil {
		t.Fatalf("get decision: %v", err)
	}
	if rec.TurnID != "t-1" || rec.Disposition != string(res.Trace.Decision.Disposition) {
		t.Errorf("unexpected record: %+v", rec)
	}
	if !rec.CreatedAt.Equal(testNow) {
		t.Errorf("created_at %v, want %v", rec.CreatedAt, testNow)
	}
	if rec.EvalPassed != res.Eval.Passed {
		t.Error("eval flag not persisted")
	}

	var in Input
	if err := json.Unmarshal([]byte(rec.InputJSON), &in); err != nil {
		t.Fatalf("decode input: %v", err)
	}
	if in.TurnID != "t-1" || in.Text != "show the deploy log" || !in.Now.Equal(testNow) {
		t.Errorf("recorded input mismatch: %+v", in)
	}
}

func TestTurn_LogsEachDecision(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	o := NewOrchestrator(newTestPipeline(), Options{Logger: zap.New(core), Now: steppingClock(testNow, time.Second)})

	for _, text := range []string{"list files", "what if we used a cache?"} {
		if _, err := o.Turn(context.Background(), Input{Text: text}); err != nil {
			t.Fatalf("turn: %v", err)
		}
	}
	if logs.Len() != 2 {
		t.Fatalf("expected 2 log entries, got %d", logs.Len())
	}
	fields := logs.All()[0].ContextMap()
	if fields["intent"] != "directive" {
		t.Errorf("intent field = %v", fields["intent"])
	}
	if _, ok := fields["disposition"]; !ok {
		t.Error("disposition field missing")
	}
}

func TestTurn_AssignsTurnID(t *testing.T) {
	o := NewOrchestrator(newTestPipeline(), Options{})
	res, err := o.Turn(context.Background(), Input{Text: "list files"})
	if err != nil {
		t.Fatalf("turn: %v", err)
	}
	if res.Trace.TurnID == "" || res.Input.TurnID != res.Trace.TurnID {
		t.Errorf("turn id not assigned: %q / %q", res.Input.TurnID, res.Trace.TurnID)
	}
	if res.Input.Now.IsZero() {
		t.Error("Now not filled")
	}
}

func TestTurn_CancelledLeavesHistory(t *testing.T) {
	o := NewOrchestrator(newTestPipeline(), Options{Now: steppingClock(testNow, time.Second)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := o.Turn(ctx, Input{Text: "list files"}); err == nil {
		t.Fatal("expected error")
	}
	if len(o.History().Intents) != 0 {
		t.Error("failed turn rotated history")
	}
}

// #endregion side-effect-tests
