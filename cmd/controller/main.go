package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/codec"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/config"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/logging"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/orchestrator"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/signals"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/state"
)

// #region flags
var (
	configPath   string
	dbOverride   string
	codecAddr    string
	noStore      bool
	jsonOut      bool
	timePressure string
	securityFlag []string
)

// #endregion flags

// #region commands
var rootCmd = &cobra.Command{
	Use:   "controller",
	Short: "Decide act/pause/ask/decline/defer for each prompt read from stdin",
	Long: `Reads one prompt per line, runs it through the decision pipeline with
the conversation history carried between lines, and prints the decision.

Type "reset" to start a new conversation, "quit" to exit.`,
	RunE: runController,
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config [path]",
	Short: "Write the default configuration as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.WriteDefault(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "decision.yaml", "path to the YAML config")
	rootCmd.Flags().StringVar(&dbOverride, "db", "", "decision ledger path (overrides store.path)")
	rootCmd.Flags().StringVar(&codecAddr, "codec", "", "signal service address (overrides codec.address)")
	rootCmd.Flags().BoolVar(&noStore, "no-store", false, "do not persist decisions")
	rootCmd.Flags().BoolVar(&jsonOut, "json", false, "print the full trace as JSON")
	rootCmd.Flags().StringVar(&timePressure, "time-pressure", "low", "time pressure for every turn: low|medium|high")
	rootCmd.Flags().StringSliceVar(&securityFlag, "security-flag", nil, "security flag applied to every turn (repeatable)")
	rootCmd.AddCommand(initConfigCmd)
}

// #endregion commands

// #region main
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runController(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dbOverride != "" {
		cfg.Store.Path = dbOverride
	}
	if codecAddr != "" {
		cfg.Codec.Address = codecAddr
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	opts := orchestrator.Options{Logger: logger, Eval: cfg.Eval}
	if !noStore && cfg.Store.Path != "" {
		store, err := state.NewStore(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer store.Close()
		opts.Store = store
	}

	var strategies orchestrator.Strategies
	if cfg.Codec.Address != "" {
		client, err := codec.NewSignalClient(cfg.Codec.Address, cfg.Codec.Timeout)
		if err != nil {
			return err
		}
		defer client.Close()
		strategies.Generator = client
		strategies.Scorer = client
	}

	o := orchestrator.NewOrchestrator(orchestrator.NewPipeline(cfg.Config, nil, strategies), opts)
	logger.Info("controller ready",
		zap.String("store", cfg.Store.Path),
		zap.String("codec", cfg.Codec.Address),
	)
	return loop(cmd.Context(), o, cmd.InOrStdin(), cmd.OutOrStdout())
}

// #endregion main

// #region loop
func loop(ctx context.Context, o *orchestrator.Orchestrator, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		prompt := strings.TrimSpace(scanner.Text())
		switch prompt {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "reset":
			o.Reset()
			fmt.Fprintln(out, "history cleared")
			continue
		}

		// Turn assigns a fresh uuid so ids stay unique across sessions.
		res, err := o.Turn(ctx, orchestrator.Input{
			Text:          prompt,
			TimePressure:  signals.TimePressure(timePressure),
			SecurityFlags: signals.SecurityFlags(securityFlag),
		})
		if err != nil {
			return err
		}
		if err := printTurn(out, res); err != nil {
			return err
		}
	}
}

func printTurn(out io.Writer, res orchestrator.TurnResult) error {
	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Trace)
	}
	tr := res.Trace
	d := tr.Decision
	fmt.Fprintf(out, "%s  %-7s conf=%.2f  rule=%s\n", tr.TurnID, d.Disposition, d.Confidence, d.Rule)
	fmt.Fprintf(out, "  intent=%s impact=%s attractor=%s posture=%s bias=%s\n",
		tr.Intent, tr.Impact, tr.Attractor.ID, tr.Posture.ID, tr.OrderFocus.DispositionBias)
	fmt.Fprintf(out, "  %s/%s/%s/%s  options<=%d length<=%d\n",
		d.Constraints.Verbosity, d.Constraints.Tone, d.Constraints.Structure, d.Constraints.RiskPosture,
		d.OutputLimits.MaxOptions, d.OutputLimits.MaxLength)
	for _, v := range d.Vetoes {
		fmt.Fprintf(out, "  veto %s: %s\n", v.Type, v.Reason)
	}
	if !res.Eval.Passed {
		fmt.Fprintf(out, "  EVAL: %s\n", res.Eval.Reason)
	}
	return nil
}

// #endregion loop
