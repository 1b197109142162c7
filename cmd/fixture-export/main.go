package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/replay"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/state"
)

// #region commands
var (
	dbPath      string
	outPath     string
	last        int
	description string
)

var rootCmd = &cobra.Command{
	Use:          "fixture-export",
	Short:        "Export recorded decisions from a ledger as a replay fixture",
	Long:         `Writes the most recent ledger rows, oldest first, as a JSON or YAML fixture (by --out extension).`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVar(&dbPath, "db", "", "decision ledger path")
	rootCmd.Flags().StringVar(&outPath, "out", "", "output fixture path (.json, .yaml or .yml)")
	rootCmd.Flags().IntVar(&last, "last", 0, "export only the N most recent decisions (0 = all)")
	rootCmd.Flags().StringVar(&description, "description", "", "fixture description")
	rootCmd.MarkFlagRequired("db")
	rootCmd.MarkFlagRequired("out")
}

// #endregion commands

// #region main
func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// #endregion main

// #region extract
func run(ctx context.Context) error {
	store, err := state.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	records, err := store.ListInputs(ctx)
	if err != nil {
		return err
	}
	if last > 0 && len(records) > last {
		records = records[len(records)-last:]
	}
	if len(records) == 0 {
		return fmt.Errorf("no decisions in %s", dbPath)
	}

	interactions, err := replay.FromDecisions(records)
	if err != nil {
		return err
	}
	if description == "" {
		description = fmt.Sprintf("%d decisions exported from %s", len(interactions), dbPath)
	}
	if err := replay.WriteFixture(outPath, replay.NewFixture(description, interactions)); err != nil {
		return err
	}
	fmt.Printf("wrote %d interactions to %s\n", len(interactions), outPath)
	return nil
}

// #endregion extract
