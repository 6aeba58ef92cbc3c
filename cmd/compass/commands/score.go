package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alphadesk/compass/internal/contracts"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Run and inspect scoring cycles",
	Long: `Run a scoring cycle or inspect persisted scores.

Subcommands:
  run    - run one scoring cycle for a date
  show   - show ranked scores for a date
  symbol - show one symbol's score breakdown

Example:
  go run ./cmd/compass score run
  go run ./cmd/compass score run --date 2026-08-28
  go run ./cmd/compass score show --date 2026-08-28 --top 20
  go run ./cmd/compass score symbol AAPL --date 2026-08-28`,
}

var (
	scoreRunCmd = &cobra.Command{
		Use:   "run",
		Short: "Run one scoring cycle",
		RunE:  runScoreCycle,
	}

	scoreShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show ranked scores for a date",
		RunE:  showScores,
	}

	scoreSymbolCmd = &cobra.Command{
		Use:   "symbol [symbol]",
		Short: "Show one symbol's score breakdown",
		Args:  cobra.ExactArgs(1),
		RunE:  showSymbolScore,
	}
)

var (
	// Score flags
	scoreDate string
	scoreTop  int
)

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.AddCommand(scoreRunCmd)
	scoreCmd.AddCommand(scoreShowCmd)
	scoreCmd.AddCommand(scoreSymbolCmd)

	scoreCmd.PersistentFlags().StringVar(&scoreDate, "date", "", "score date YYYY-MM-DD (default today)")
	scoreShowCmd.Flags().IntVar(&scoreTop, "top", 20, "number of records to show")
}

// parseScoreDate resolves the --date flag, defaulting to today
func parseScoreDate() (time.Time, error) {
	if scoreDate == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	date, err := time.Parse("2006-01-02", scoreDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", scoreDate)
	}
	return date, nil
}

func runScoreCycle(cmd *cobra.Command, args []string) error {
	date, err := parseScoreDate()
	if err != nil {
		return err
	}

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.db.Close()

	eng, err := initEngine(d)
	if err != nil {
		return err
	}

	fmt.Printf("=== Compass Scoring Cycle: %s ===\n\n", date.Format("2006-01-02"))
	fmt.Printf("Strategy: %s v%s\n", d.strategy.Meta.StrategyID, d.strategy.Meta.Version)
	fmt.Printf("Config hash: %s\n\n", eng.ConfigHash()[:12])

	result, err := eng.Run(context.Background(), date)
	if err != nil {
		return fmt.Errorf("scoring cycle failed: %w", err)
	}

	fmt.Printf("Universe:  %d symbols\n", result.UniverseSize)
	fmt.Printf("Scored:    %d\n", result.Scored())
	fmt.Printf("Excluded:  %d\n", len(result.Excluded))
	fmt.Printf("Duration:  %v\n\n", result.Duration)

	for _, warning := range result.Warnings {
		fmt.Printf("WARNING: %s\n", warning)
	}
	for sym, reason := range result.Excluded {
		fmt.Printf("EXCLUDED %s: %s\n", sym, reason)
	}

	fmt.Println("\nTop 10:")
	printRecords(result.Top(10))

	return nil
}

func showScores(cmd *cobra.Command, args []string) error {
	date, err := parseScoreDate()
	if err != nil {
		return err
	}

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.db.Close()

	records, err := d.repo.GetScores(context.Background(), date, scoreTop)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Printf("No scores for %s\n", date.Format("2006-01-02"))
		return nil
	}

	fmt.Printf("=== Scores for %s (top %d) ===\n\n", date.Format("2006-01-02"), scoreTop)
	printRecords(records)

	return nil
}

func showSymbolScore(cmd *cobra.Command, args []string) error {
	symbol := args[0]

	date, err := parseScoreDate()
	if err != nil {
		return err
	}

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.db.Close()

	rec, err := d.repo.GetSymbolScore(context.Background(), date, symbol)
	if err != nil {
		return err
	}

	fmt.Printf("=== %s on %s ===\n\n", rec.Symbol, date.Format("2006-01-02"))
	fmt.Printf("Rank:         #%d\n", rec.Rank)
	fmt.Printf("Composite:    %.2f\n", rec.Composite)
	fmt.Printf("Completeness: %.0f%%\n\n", rec.Completeness*100)

	fmt.Printf("%-13s %8s %8s\n", "Factor", "Score", "Weight")
	for _, name := range contracts.AllFactors {
		outcome := rec.Factors.Get(name)
		if outcome.Available {
			fmt.Printf("%-13s %8.2f %7.1f%%\n", name, outcome.Score, rec.Weights[name]*100)
		} else {
			fmt.Printf("%-13s %8s %7.1f%%\n", name, "n/a", rec.Weights[name]*100)
		}
	}

	return nil
}

// printRecords prints a compact ranked table
func printRecords(records []contracts.ScoreRecord) {
	fmt.Printf("%5s  %-10s %9s %7s\n", "Rank", "Symbol", "Composite", "Compl")
	for _, rec := range records {
		fmt.Printf("%5d  %-10s %9.2f %6.0f%%\n",
			rec.Rank, rec.Symbol, rec.Composite, rec.Completeness*100)
	}
}
