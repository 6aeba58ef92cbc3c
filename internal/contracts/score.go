package contracts

import "time"

// ScoreRecord is the final per-symbol output of one scoring cycle:
// the composite score, every factor outcome, the redistributed weight
// vector actually used, and a data-completeness indicator.
// Records are append-only: each cycle produces a new dated record.
type ScoreRecord struct {
	Symbol    string    `json:"symbol"`
	ScoreDate time.Time `json:"score_date"`

	Rank      int     `json:"rank"` // 1-based, composite descending
	Composite float64 `json:"composite"`

	Factors FactorSet    `json:"factors"`
	Weights WeightVector `json:"weights"` // adjusted weights, sum to 1

	// Completeness is the fraction of weighted factor families that
	// were available for this symbol.
	Completeness float64 `json:"completeness"`
}

// CycleResult summarizes one full scoring cycle over the universe.
type CycleResult struct {
	RunID      string    `json:"run_id"`
	ScoreDate  time.Time `json:"score_date"`
	ConfigHash string    `json:"config_hash"`

	UniverseSize int           `json:"universe_size"`
	Records      []ScoreRecord `json:"records"`

	// Excluded maps symbol to the reason it produced no score this
	// cycle (malformed value, all factors unavailable).
	Excluded map[string]string `json:"excluded"`

	// Warnings carries cycle-level conditions such as metrics whose
	// population was too small to rank.
	Warnings []string `json:"warnings"`

	Duration time.Duration `json:"duration"`
}

// Scored returns the number of symbols that produced a score
func (r *CycleResult) Scored() int {
	return len(r.Records)
}

// Top returns the n highest-ranked records
func (r *CycleResult) Top(n int) []ScoreRecord {
	if n > len(r.Records) {
		n = len(r.Records)
	}
	return r.Records[:n]
}
