package orchestrator

// #region imports
import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/eval"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/logging"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/orderfocus"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/posture"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/state"
)

// #endregion

// #region options

// Options wire the orchestrator's side effects. Every field is optional:
// a nil Logger logs nowhere, a nil Store persists nothing, a nil Now uses
// the wall clock.
type Options struct {
	Logger *zap.Logger
	Store  *state.Store
	Eval   eval.EvalConfig
	Now    func() time.Time
}

// TurnResult is what one Turn produced.
type TurnResult struct {
	Input    Input
	Trace    Trace
	Eval     eval.EvalResult
	RecordID string
}

// #endregion

// #region orchestrator-struct

// Orchestrator is the caller the pipeline expects: it owns the bounded
// history, runs each turn, validates and records the decision, and rotates
// the history afterwards. Turns are serialized.
type Orchestrator struct {
	pipeline *Pipeline
	harness  *eval.EvalHarness
	store    *state.Store
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	history History
}

// #endregion

// #region constructor

// NewOrchestrator wraps pipeline with the given side effects.
func NewOrchestrator(pipeline *Pipeline, opts Options) *Orchestrator {
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	evalCfg := opts.Eval
	if evalCfg.MaxOptions == 0 {
		evalCfg = eval.DefaultEvalConfig()
	}
	return &Orchestrator{
		pipeline: pipeline,
		harness:  eval.NewEvalHarness(evalCfg),
		store:    opts.Store,
		logger:   logging.OrNop(opts.Logger),
		now:      now,
	}
}

// #endregion

// #region history

// History returns a copy of the current history.
func (o *Orchestrator) History() History {
	o.mu.Lock()
	defer o.mu.Unlock()
	return cloneHistory(o.history)
}

// Reset clears the history, as at the start of a new conversation.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.history = History{}
}

// Rotate records one decided turn: the intent joins the bounded intent
// buffer, the posture joins the posture buffer, and now becomes the last
// signal time. h is not modified.
func Rotate(h History, tr Trace, now time.Time, config Config) History {
	maxIntents := config.OrderFocus.MaxEntries
	if maxIntents < 1 {
		maxIntents = 1
	}
	intents := append(cloneIntents(h.Intents), orderfocus.IntentEntry{Intent: tr.Intent, At: now})
	if len(intents) > maxIntents {
		intents = intents[len(intents)-maxIntents:]
	}
	return History{
		Intents:      intents,
		Postures:     posture.PushHistory(h.Postures, tr.Posture.ID, config.Posture.HistorySize),
		LastSignalAt: now,
	}
}

func cloneHistory(h History) History {
	return History{
		Intents:      cloneIntents(h.Intents),
		Postures:     append([]posture.ID(nil), h.Postures...),
		LastSignalAt: h.LastSignalAt,
	}
}

func cloneIntents(in []orderfocus.IntentEntry) []orderfocus.IntentEntry {
	return append([]orderfocus.IntentEntry(nil), in...)
}

// #endregion

// #region turn

// Turn decides one turn against the orchestrator's history. A missing
// TurnID or Now is filled in; in.History is replaced by the owned history.
// The returned Input is exactly what was decided, so it can be replayed.
func (o *Orchestrator) Turn(ctx context.Context, in Input) (TurnResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if in.TurnID == "" {
		in.TurnID = uuid.NewString()
	}
	if in.Now.IsZero() {
		in.Now = o.now()
	}
	in.History = cloneHistory(o.history)

	tr, err := o.pipeline.Decide(ctx, in)
	if err != nil {
		return TurnResult{}, err
	}
	res := TurnResult{Input: in, Trace: tr, Eval: o.harness.Run(SubjectOf(tr, in))}

	if o.store != nil {
		rec, err := o.persist(ctx, res)
		if err != nil {
			return TurnResult{}, err
		}
		res.RecordID = rec.ID
	}

	logging.LogDecision(o.logger, EntryOf(tr, res.Eval))
	o.history = Rotate(o.history, tr, in.Now, o.pipeline.Config())
	return res, nil
}

func (o *Orchestrator) persist(ctx context.Context, res TurnResult) (state.DecisionRecord, error) {
	inJSON, err := json.Marshal(res.Input)
	if err != nil {
		return state.DecisionRecord{}, fmt.Errorf("encode input %s: %w", res.Input.TurnID, err)
	}
	trJSON, err := json.Marshal(res.Trace)
	if err != nil {
		return state.DecisionRecord{}, fmt.Errorf("encode trace %s: %w", res.Input.TurnID, err)
	}
	return o.store.SaveDecision(ctx, RecordOf(res, string(inJSON), string(trJSON)))
}

// #endregion

// #region conversions

// SubjectOf selects the parts of a trace the validation harness checks.
func SubjectOf(tr Trace, in Input) eval.Subject {
	return eval.Subject{
		Collapse:      tr.Collapse,
		BaseGradients: tr.BaseGradients,
		Gradients:     tr.Gradients,
		Ambiguity:     tr.Ambiguity,
		Needs:         tr.Needs,
		Scores:        tr.Scores,
		Attractor:     tr.Attractor,
		Posture:       tr.Posture,
		OrderFocus:    tr.OrderFocus,
		Decision:      tr.Decision,
		Intent:        tr.Intent,
		SecurityFlags: in.SecurityFlags,
	}
}

// EntryOf flattens a trace into a log entry.
func EntryOf(tr Trace, ev eval.EvalResult) logging.DecisionEntry {
	vetoes := make([]string, 0, len(tr.Decision.Vetoes))
	for _, v := range tr.Decision.Vetoes {
		vetoes = append(vetoes, string(v.Type))
	}
	return logging.DecisionEntry{
		TurnID:      tr.TurnID,
		Intent:      string(tr.Intent),
		Impact:      string(tr.Impact),
		Attractor:   string(tr.Attractor.ID),
		AttractRule: string(tr.Attractor.Rule),
		RiskClass:   tr.RiskClass,
		Posture:     string(tr.Posture.ID),
		Bias:        string(tr.OrderFocus.DispositionBias),
		BiasReason:  string(tr.OrderFocus.ReasonCode),
		Collapse: logging.DecisionCollapse{
			Selected:   tr.Collapse.Selected.ID,
			Confidence: tr.Collapse.Confidence,
			Reason:     string(tr.Collapse.Reason),
			Cycles:     tr.Collapse.Cycles,
			Variance:   tr.Collapse.Variance,
			Ambiguity:  tr.Ambiguity,
		},
		Disposition: string(tr.Decision.Disposition),
		Confidence:  tr.Decision.Confidence,
		Rule:        string(tr.Decision.Rule),
		Reason:      tr.Decision.Reason,
		Assertive:   tr.Decision.Assertive,
		Vetoes:      vetoes,
		EvalPassed:  ev.Passed,
		EvalReason:  ev.Reason,
	}
}

// RecordOf builds the ledger row for a turn.
func RecordOf(res TurnResult, inputJSON, traceJSON string) state.DecisionRecord {
	tr := res.Trace
	return state.DecisionRecord{
		TurnID:      tr.TurnID,
		CreatedAt:   res.Input.Now,
		Disposition: string(tr.Decision.Disposition),
		Confidence:  tr.Decision.Confidence,
		Rule:        string(tr.Decision.Rule),
		Attractor:   string(tr.Attractor.ID),
		Posture:     string(tr.Posture.ID),
		Bias:        string(tr.OrderFocus.DispositionBias),
		EvalPassed:  res.Eval.Passed,
		EvalReason:  res.Eval.Reason,
		InputJSON:   inputJSON,
		TraceJSON:   traceJSON,
	}
}

// #endregion
