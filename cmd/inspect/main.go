package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/orchestrator"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/state"
)

// #region commands
var (
	dbPath  string
	last    int
	id      string
	summary bool
	jsonOut bool
	rootCmd = &cobra.Command{
		Use:          "inspect",
		Short:        "Inspect the decision ledger",
		SilenceUsage: true,
		RunE:         runInspect,
	}
)

func init() {
	rootCmd.Flags().StringVar(&dbPath, "db", "", "decision ledger path")
	rootCmd.Flags().IntVar(&last, "last", 20, "show N most recent decisions")
	rootCmd.Flags().StringVar(&id, "id", "", "show one decision in detail")
	rootCmd.Flags().BoolVar(&summary, "summary", false, "show counts per disposition")
	rootCmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON instead of a table")
	rootCmd.MarkFlagRequired("db")
	rootCmd.MarkFlagsMutuallyExclusive("id", "summary")
}

// #endregion commands

// #region main
func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runInspect(cmd *cobra.Command, _ []string) error {
	store, err := state.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	switch {
	case id != "":
		return runDetailMode(cmd, store)
	case summary:
		return runSummaryMode(cmd, store)
	default:
		return runListMode(cmd, store)
	}
}

// #endregion main

// #region list-mode
type listRow struct {
	ID          string  `json:"id"`
	TurnID      string  `json:"turn_id"`
	Disposition string  `json:"disposition"`
	Confidence  float64 `json:"confidence"`
	Rule        string  `json:"rule"`
	Attractor   string  `json:"attractor"`
	Posture     string  `json:"posture"`
	Bias        string  `json:"bias"`
	EvalPassed  bool    `json:"eval_passed"`
	CreatedAt   string  `json:"created_at"`
}

func runListMode(cmd *cobra.Command, store *state.Store) error {
	records, err := store.ListDecisions(cmd.Context(), last)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "no decisions found")
		return nil
	}

	// Store returns newest first; print chronologically.
	rows := make([]listRow, len(records))
	for i, r := range records {
		rows[len(records)-1-i] = listRow{
			ID:          r.ID,
			TurnID:      r.TurnID,
			Disposition: r.Disposition,
			Confidence:  r.Confidence,
			Rule:        r.Rule,
			Attractor:   r.Attractor,
			Posture:     r.Posture,
			Bias:        r.Bias,
			EvalPassed:  r.EvalPassed,
			CreatedAt:   r.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}
	if jsonOut {
		return printJSON(rows)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-8s  %-16s  %-7s  %5s  %-20s  %-10s  %-11s  %-5s  %s\n",
		"ID", "Turn", "Disp", "Conf", "Rule", "Attractor", "Posture", "Bias", "Time")
	for _, r := range rows {
		mark := ""
		if !r.EvalPassed {
			mark = " !"
		}
		fmt.Fprintf(out, "%-8s  %-16s  %-7s  %5.2f  %-20s  %-10s  %-11s  %-5s  %s%s\n",
			shortID(r.ID), r.TurnID, r.Disposition, r.Confidence, r.Rule, r.Attractor, r.Posture, r.Bias, r.CreatedAt, mark)
	}
	return nil
}

// #endregion list-mode

// #region detail-mode
func runDetailMode(cmd *cobra.Command, store *state.Store) error {
	rec, err := store.GetDecision(cmd.Context(), id)
	if err != nil {
		return err
	}
	var tr orchestrator.Trace
	if err := json.Unmarshal([]byte(rec.TraceJSON), &tr); err != nil {
		return fmt.Errorf("decode trace %s: %w", rec.ID, err)
	}
	if jsonOut {
		return printJSON(tr)
	}

	out := cmd.OutOrStdout()
	d := tr.Decision
	fmt.Fprintf(out, "Decision:   %s  (turn %s, %s)\n", rec.ID, rec.TurnID, rec.CreatedAt.Format("2006-01-02T15:04:05Z"))
	fmt.Fprintf(out, "Intent:     %s  impact=%s\n", tr.Intent, tr.Impact)
	fmt.Fprintf(out, "Gradients:  stress=%.2f curiosity=%.2f urgency=%.2f confidence=%.2f\n",
		tr.Gradients.Stress, tr.Gradients.Curiosity, tr.Gradients.Urgency, tr.Gradients.Confidence)
	fmt.Fprintf(out, "Collapse:   %s conf=%.2f reason=%s cycles=%d variance=%.4f ambiguity=%.2f\n",
		tr.Collapse.Selected.ID, tr.Collapse.Confidence, tr.Collapse.Reason, tr.Collapse.Cycles,
		tr.Collapse.Variance, tr.Ambiguity)
	fmt.Fprintf(out, "Needs:      clarity=%.2f novelty=%.2f risk=%.2f communication=%.2f\n",
		tr.Needs.Clarity, tr.Needs.Novelty, tr.Needs.Risk, tr.Needs.Communication)
	fmt.Fprintf(out, "Attractor:  %s conf=%.2f rule=%s", tr.Attractor.ID, tr.Attractor.Confidence, tr.Attractor.Rule)
	if tr.RiskClass != "" {
		fmt.Fprintf(out, " risk_class=%s", tr.RiskClass)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Posture:    %s conf=%.2f switched=%v\n", tr.Posture.ID, tr.Posture.Confidence, tr.Posture.Switched)
	fmt.Fprintf(out, "Coherence:  %.2f order=%.2f focus=%.2f noise=%.2f bias=%s (%s)\n",
		tr.OrderFocus.Coherence, tr.OrderFocus.Order, tr.OrderFocus.Focus, tr.OrderFocus.Noise,
		tr.OrderFocus.DispositionBias, tr.OrderFocus.ReasonCode)
	fmt.Fprintf(out, "Gate:       %s conf=%.2f rule=%s assertive=%v\n", d.Disposition, d.Confidence, d.Rule, d.Assertive)
	fmt.Fprintf(out, "            %s\n", d.Reason)
	fmt.Fprintf(out, "Output:     %s/%s/%s/%s options<=%d length<=%d\n",
		d.Constraints.Verbosity, d.Constraints.Tone, d.Constraints.Structure, d.Constraints.RiskPosture,
		d.OutputLimits.MaxOptions, d.OutputLimits.MaxLength)
	for _, v := range d.Vetoes {
		fmt.Fprintf(out, "Veto:       %s: %s\n", v.Type, v.Reason)
	}
	if !rec.EvalPassed {
		fmt.Fprintf(out, "Eval:       %s\n", rec.EvalReason)
	}
	return nil
}

// #endregion detail-mode

// #region summary-mode
func runSummaryMode(cmd *cobra.Command, store *state.Store) error {
	counts, err := store.CountByDisposition(cmd.Context())
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(counts)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-8s  %6s  %8s\n", "Disp", "Count", "Avg Conf")
	for _, c := range counts {
		fmt.Fprintf(out, "%-8s  %6d  %8.2f\n", c.Disposition, c.Count, c.AvgConf)
	}
	return nil
}

// #endregion summary-mode

// #region helpers
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion helpers
