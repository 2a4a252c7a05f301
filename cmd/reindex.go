package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/costaazul/concierge/internal/app"
	"github.com/costaazul/concierge/internal/config"
	"github.com/costaazul/concierge/internal/hotel"
)

var flagDryRun bool

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Re-embed the hotel fact document into the knowledge index",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runReindex(cmd)
	},
}

func init() {
	reindexCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "print the sections without indexing")
	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command) error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Dry run needs neither database nor embedder.
	if flagDryRun {
		facts, err := hotel.Load(cfg.HotelDataPath)
		if err != nil {
			return fmt.Errorf("loading hotel facts: %w", err)
		}
		for _, section := range facts.Sections() {
			cmd.Printf("--- %s ---\n%s\n", section.ID, section.Text)
		}
		return nil
	}

	ctx := cmd.Context()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer a.Close()

	count, err := a.Indexer.IndexFacts(ctx, a.Facts)
	if err != nil {
		return fmt.Errorf("indexing hotel facts: %w", err)
	}

	cmd.Printf("Indexed %d sections.\n", count)
	return nil
}
