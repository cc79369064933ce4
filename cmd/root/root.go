// Package root contains the root command for the application
package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"moneymap/internal/config"
)

// CommonFlags represents the flags that are shared by multiple commands
type CommonFlags struct {
	Input  string
	Output string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "moneymap",
		Short: "A CLI tool to categorize bank transactions into Money Map budget categories.",
		Long: `moneymap assigns each transaction in a CSV export to one of the five
Money Map budget categories (INCOME, CORE, CHOICE, COMPOUND, EXCLUDED).
Known merchant patterns and deterministic rules resolve locally; the rest
is classified in batches by the Gemini API and remembered for next time.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to moneymap!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
			Log = config.ConfigureLogging()
		},
	}

	// SharedFlags holds flag values common to multiple commands
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input CSV file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output CSV file")
}
