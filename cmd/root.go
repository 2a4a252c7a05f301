// Package cmd implements the concierge command-line interface.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/costaazul/concierge/internal/log"
)

var (
	flagDebug    bool
	flagJSONLogs bool
)

var rootCmd = &cobra.Command{
	Use:   "concierge",
	Short: "Concierge - asistente virtual del Hotel Costa Azul",
	Long: `Concierge answers guest questions about the Hotel Costa Azul.

Canned intents (greetings, schedules, services, rooms, recommendations,
human handoff) are answered from the hotel fact document; everything else
goes through retrieval-augmented generation over the hotel knowledge index.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagJSONLogs, "json-logs", false, "log in JSON format")
}

// newLogger builds the process logger from the global flags.
func newLogger() log.Logger {
	level := slog.LevelInfo
	if flagDebug {
		level = slog.LevelDebug
	}
	logger := log.New(log.Config{Level: level, JSON: flagJSONLogs})
	slog.SetDefault(logger)
	return logger
}
