package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "compass",
	Short: "Compass - multi-factor composite scoring engine",
	Long: `Compass Unified CLI

Ranks the active equity universe with a normalized 0-100 composite
fitness score built from eight factor families.

Usage:
  go run ./cmd/compass [command]

Examples:
  go run ./cmd/compass score run
  go run ./cmd/compass score show --top 20
  go run ./cmd/compass scheduler start
  go run ./cmd/compass status`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "strategy config file (default from SCORING_STRATEGY_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
