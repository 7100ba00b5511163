package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/preslop/preslop/internal/aggregate"
	"github.com/preslop/preslop/internal/logging"
)

// --- search subcommand ---

var searchCmd = &cobra.Command{
	Use:   "search [topic...]",
	Short: "Search for pre-2016 content on a topic",
	Long: `Search queries the configured providers for content about a topic,
scores every result for depth, and prints a ranked table. Providers
without credentials are skipped and reported as disabled.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("content-type", "all", "content filter: all, text, or video")
	searchCmd.Flags().Int("max-results", 0, "maximum number of results (0 = config default)")
	searchCmd.Flags().Bool("json", false, "output the ranked result set as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a topic to search for")
	}
	query := strings.Join(args, " ")

	contentType, _ := cmd.Flags().GetString("content-type")
	filter, err := aggregate.ParseContentFilter(contentType)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if n, _ := cmd.Flags().GetInt("max-results"); n > 0 {
		cfg.Search.MaxResults = n
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

	set, err := st.agg.Search(context.Background(), query, filter)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return aggregate.FormatJSON(set, os.Stdout)
	}
	aggregate.FormatTable(set, os.Stdout)
	return nil
}
