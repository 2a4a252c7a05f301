package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

// requiredEnvVars are needed for a fully functional deployment. DATABASE_URL
// may be replaced by the individual CONCIERGE_POSTGRES_* variables.
var requiredEnvVars = []string{
	"GEMINI_API_KEY",
	"DATABASE_URL",
}

var checkEnvCmd = &cobra.Command{
	Use:   "check-env",
	Short: "Check that required environment variables are set",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCheckEnv(cmd)
	},
}

func init() {
	rootCmd.AddCommand(checkEnvCmd)
}

func runCheckEnv(cmd *cobra.Command) error {
	allSet := true
	for _, name := range requiredEnvVars {
		value := os.Getenv(name)
		if value == "" {
			cmd.Printf("✗ %s: NOT SET\n", name)
			allSet = false
			continue
		}
		cmd.Printf("✓ %s: %s\n", name, maskSecret(value))
	}

	if !allSet {
		return errors.New("some environment variables are missing")
	}
	cmd.Println("All required environment variables are set.")
	return nil
}

// maskSecret shows just enough of a value to recognize it.
func maskSecret(value string) string {
	if len(value) > 8 {
		return value[:8] + "..."
	}
	return "***"
}
