package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/preslop/preslop/internal/aggregate"
	"github.com/preslop/preslop/internal/logging"
)

// --- surprise subcommand ---

var surpriseCmd = &cobra.Command{
	Use:   "surprise",
	Short: "Search a random topic from the curated catalog",
	Long: `Surprise picks a random topic from the curated catalog and runs a
full search for it across every provider, for when you want to find
something good without knowing what to look for.`,
	RunE: runSurprise,
}

func init() {
	surpriseCmd.Flags().Bool("json", false, "output the ranked result set as JSON")

	rootCmd.AddCommand(surpriseCmd)
}

func runSurprise(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer log.Sync()

	st, err := buildStack(cfg, log, nil)
	if err != nil {
		return err
	}
	defer st.Close()

	set, err := st.agg.Surprise(context.Background())
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return aggregate.FormatJSON(set, os.Stdout)
	}
	fmt.Printf("Surprise topic: %s\n\n", set.Query)
	aggregate.FormatTable(set, os.Stdout)
	return nil
}
