package replay

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/eval"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/gate"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/orchestrator"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/state"
)

// #region types
// Interaction is one recorded turn and the disposition it produced when it
// was recorded. An empty Expected means nothing to compare against.
type Interaction struct {
	Input    orchestrator.Input
	Expected gate.Disposition
}

// ReplayConfig bundles the pipeline and validation configs for a run.
// Turns recorded with remote strategies only reproduce when the same
// Strategies are supplied here.
type ReplayConfig struct {
	Pipeline   orchestrator.Config
	Eval       eval.EvalConfig
	Strategies orchestrator.Strategies
}

// DefaultReplayConfig returns the shipped defaults for every stage.
func DefaultReplayConfig() ReplayConfig {
	return ReplayConfig{
		Pipeline: orchestrator.DefaultConfig(),
		Eval:     eval.DefaultEvalConfig(),
	}
}

// ReplayResult captures the outcome of re-deciding one interaction.
type ReplayResult struct {
	TurnID      string
	Expected    gate.Disposition
	Disposition gate.Disposition
	Rule        gate.Rule
	Reason      string
	Match       bool
	Eval        eval.EvalResult
	Trace       orchestrator.Trace
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	TotalTurns    int
	Compared      int
	Matches       int
	Mismatches    int
	EvalFailures  int
	ByDisposition map[gate.Disposition]int
}

// #endregion types

// #region replay
// Replay re-decides every interaction through a fresh pipeline. Each input
// carries its own history, so turns are independent and order only affects
// the result order. Operates entirely in memory.
func Replay(ctx context.Context, interactions []Interaction, config ReplayConfig) ([]ReplayResult, error) {
	pipeline := orchestrator.NewPipeline(config.Pipeline, nil, config.Strategies)
	harness := eval.NewEvalHarness(config.Eval)
	results := make([]ReplayResult, 0, len(interactions))

	for _, inter := range interactions {
		tr, err := pipeline.Decide(ctx, inter.Input)
		if err != nil {
			return results, fmt.Errorf("replay: %w", err)
		}
		d := tr.Decision
		results = append(results, ReplayResult{
			TurnID:      tr.TurnID,
			Expected:    inter.Expected,
			Disposition: d.Disposition,
			Rule:        d.Rule,
			Reason:      d.Reason,
			Match:       inter.Expected == "" || inter.Expected == d.Disposition,
			Eval:        harness.Run(orchestrator.SubjectOf(tr, inter.Input)),
			Trace:       tr,
		})
	}
	return results, nil
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []ReplayResult) ReplaySummary {
	s := ReplaySummary{
		TotalTurns:    len(results),
		ByDisposition: make(map[gate.Disposition]int),
	}
	for _, r := range results {
		s.ByDisposition[r.Disposition]++
		if !r.Eval.Passed {
			s.EvalFailures++
		}
		if r.Expected == "" {
			continue
		}
		s.Compared++
		if r.Match {
			s.Matches++
		} else {
			s.Mismatches++
		}
	}
	return s
}

// #endregion replay

// #region from-ledger
// FromDecisions rebuilds interactions from ledger rows, expecting each row's
// recorded disposition.
func FromDecisions(records []state.DecisionRecord) ([]Interaction, error) {
	out := make([]Interaction, 0, len(records))
	for _, rec := range records {
		var in orchestrator.Input
		if err := json.Unmarshal([]byte(rec.InputJSON), &in); err != nil {
			return nil, fmt.Errorf("decode input for decision %s: %w", rec.ID, err)
		}
		out = append(out, Interaction{Input: in, Expected: gate.Disposition(rec.Disposition)})
	}
	return out, nil
}

// #endregion from-ledger
