package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system and latest cycle status",
	Long: `Check infrastructure health and the latest completed cycle.

Shows:
- Database connectivity and pool stats
- Redis cache state
- Latest cycle run summary

Example:
  go run ./cmd/compass status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fmt.Println("=== Compass Status ===")
	fmt.Println()

	// Database
	health, err := d.db.HealthCheck(ctx)
	if err != nil {
		fmt.Printf("Database:  DOWN (%v)\n", err)
	} else {
		fmt.Printf("Database:  OK (%v, %d/%d conns)\n",
			health.ResponseTime, health.Stats.AcquiredConns, health.Stats.TotalConns)
	}

	// Strategy
	fmt.Printf("Strategy:  %s v%s\n", d.strategy.Meta.StrategyID, d.strategy.Meta.Version)

	// Latest run
	run, err := d.repo.GetLatestRun(ctx)
	if err != nil {
		fmt.Printf("Last run:  none (%v)\n", err)
		return nil
	}

	fmt.Println()
	fmt.Printf("Last cycle: %s\n", run.ScoreDate.Format("2006-01-02"))
	fmt.Printf("  Run ID:      %s\n", run.RunID)
	fmt.Printf("  Config hash: %s\n", run.ConfigHash[:12])
	fmt.Printf("  Universe:    %d\n", run.UniverseSize)
	fmt.Printf("  Scored:      %d\n", run.Scored)
	fmt.Printf("  Excluded:    %d\n", len(run.Excluded))
	fmt.Printf("  Warnings:    %d\n", len(run.Warnings))
	fmt.Printf("  Duration:    %dms\n", run.DurationMS)

	return nil
}
