package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/codec"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/config"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/orchestrator"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/replay"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/state"
)

var errMismatch = errors.New("replay diverged from recorded decisions")

// #region commands
var (
	dbPath      string
	fixturePath string
	configPath  string
	codecAddr   string
	jsonOut     bool
)

var rootCmd = &cobra.Command{
	Use:   "replay",
	Short: "Re-decide recorded turns and compare against their recorded dispositions",
	Long: `Replays either every decision in a ledger (--db) or a fixture file
(--fixture, JSON or YAML) through a fresh pipeline. Exits non-zero when any
replayed disposition differs from the recorded one. Turns recorded against a
signal service need the same --codec address to reproduce.`,
	SilenceUsage: true,
	RunE:         runReplay,
}

func init() {
	rootCmd.Flags().StringVar(&dbPath, "db", "", "decision ledger to replay")
	rootCmd.Flags().StringVar(&fixturePath, "fixture", "", "fixture file to replay")
	rootCmd.Flags().StringVar(&configPath, "config", "", "YAML config for ledger replay (defaults when empty)")
	rootCmd.Flags().StringVar(&codecAddr, "codec", "", "signal service used when the turns were recorded")
	rootCmd.Flags().BoolVar(&jsonOut, "json", false, "print results as JSON")
	rootCmd.MarkFlagsMutuallyExclusive("db", "fixture")
	rootCmd.MarkFlagsOneRequired("db", "fixture")
}

// #endregion commands

// #region main
func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errMismatch) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func runReplay(cmd *cobra.Command, _ []string) error {
	interactions, cfg, err := load(cmd.Context())
	if err != nil {
		return err
	}
	if codecAddr != "" {
		client, err := codec.NewSignalClient(codecAddr, config.Default().Codec.Timeout)
		if err != nil {
			return err
		}
		defer client.Close()
		cfg.Strategies = orchestrator.Strategies{Generator: client, Scorer: client}
	}
	results, err := replay.Replay(cmd.Context(), interactions, cfg)
	if err != nil {
		return err
	}
	summary := replay.Summarize(results)
	if err := report(cmd.OutOrStdout(), results, summary); err != nil {
		return err
	}
	if summary.Mismatches > 0 {
		return errMismatch
	}
	return nil
}

func load(ctx context.Context) ([]replay.Interaction, replay.ReplayConfig, error) {
	if fixturePath != "" {
		f, err := replay.LoadFixture(fixturePath)
		if err != nil {
			return nil, replay.ReplayConfig{}, err
		}
		return f.ToInteractions(), f.ReplayConfig(), nil
	}

	c, err := config.Load(configPath)
	if err != nil {
		return nil, replay.ReplayConfig{}, err
	}
	store, err := state.NewStore(dbPath)
	if err != nil {
		return nil, replay.ReplayConfig{}, fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	records, err := store.ListInputs(ctx)
	if err != nil {
		return nil, replay.ReplayConfig{}, err
	}
	interactions, err := replay.FromDecisions(records)
	if err != nil {
		return nil, replay.ReplayConfig{}, err
	}
	return interactions, replay.ReplayConfig{Pipeline: c.Config, Eval: c.Eval}, nil
}

// #endregion main

// #region report
type resultRow struct {
	TurnID      string `json:"turn_id"`
	Expected    string `json:"expected,omitempty"`
	Disposition string `json:"disposition"`
	Rule        string `json:"rule"`
	Match       bool   `json:"match"`
	EvalPassed  bool   `json:"eval_passed"`
}

func report(out io.Writer, results []replay.ReplayResult, s replay.ReplaySummary) error {
	rows := make([]resultRow, len(results))
	for i, r := range results {
		rows[i] = resultRow{
			TurnID:      r.TurnID,
			Expected:    string(r.Expected),
			Disposition: string(r.Disposition),
			Rule:        string(r.Rule),
			Match:       r.Match,
			EvalPassed:  r.Eval.Passed,
		}
	}

	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"results": rows, "summary": s})
	}

	fmt.Fprintf(out, "%-24s %-8s %-8s %-22s %s\n", "TURN", "RECORDED", "REPLAYED", "RULE", "STATUS")
	for _, r := range rows {
		status := "ok"
		switch {
		case !r.Match:
			status = "MISMATCH"
		case !r.EvalPassed:
			status = "eval-failed"
		}
		fmt.Fprintf(out, "%-24s %-8s %-8s %-22s %s\n", r.TurnID, r.Expected, r.Disposition, r.Rule, status)
	}
	fmt.Fprintf(out, "\n%d turns, %d compared, %d matched, %d mismatched, %d eval failures\n",
		s.TotalTurns, s.Compared, s.Matches, s.Mismatches, s.EvalFailures)
	return nil
}

// #endregion report
