// Package emitter persists completed scoring cycles and serves score
// reads, with a Redis read-through cache in front of the hot queries.
package emitter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alphadesk/compass/internal/contracts"
	"github.com/alphadesk/compass/pkg/logger"
	"github.com/alphadesk/compass/pkg/redis"
)

// Repository handles score persistence. Writes are transactional:
// a cycle's snapshot for a date is replaced atomically or not at all.
type Repository struct {
	pool      *pgxpool.Pool
	cache     *redis.Cache
	cacheTopN int
	logger    *logger.Logger
}

// NewRepository creates a new score repository. cacheTopN is the
// number of top-ranked records kept in the Redis cache per cycle.
func NewRepository(pool *pgxpool.Pool, cache *redis.Cache, cacheTopN int, log *logger.Logger) *Repository {
	return &Repository{
		pool:      pool,
		cache:     cache,
		cacheTopN: cacheTopN,
		logger:    log,
	}
}

// SaveCycle persists a completed cycle in one transaction: old rows
// for the date are deleted, every record is inserted with NULLs for
// unavailable factors, and the cycle run metadata is recorded.
// Re-running a date replaces its snapshot, so cycles are idempotent.
func (r *Repository) SaveCycle(ctx context.Context, result *contracts.CycleResult) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, "DELETE FROM scoring.score_records WHERE score_date = $1", result.ScoreDate)
	if err != nil {
		return fmt.Errorf("failed to delete old scores: %w", err)
	}

	query := `
		INSERT INTO scoring.score_records (
			symbol, score_date, run_id, rank, composite,
			momentum, trend, value, quality,
			growth, stability, positioning, sentiment,
			weights, completeness
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	for _, rec := range result.Records {
		weightsJSON, err := json.Marshal(rec.Weights)
		if err != nil {
			return fmt.Errorf("failed to marshal weights for %s: %w", rec.Symbol, err)
		}

		_, err = tx.Exec(ctx, query,
			rec.Symbol, rec.ScoreDate, result.RunID, rec.Rank, rec.Composite,
			rec.Factors.Get(contracts.FactorMomentum).Ptr(),
			rec.Factors.Get(contracts.FactorTrend).Ptr(),
			rec.Factors.Get(contracts.FactorValue).Ptr(),
			rec.Factors.Get(contracts.FactorQuality).Ptr(),
			rec.Factors.Get(contracts.FactorGrowth).Ptr(),
			rec.Factors.Get(contracts.FactorStability).Ptr(),
			rec.Factors.Get(contracts.FactorPositioning).Ptr(),
			rec.Factors.Get(contracts.FactorSentiment).Ptr(),
			weightsJSON, rec.Completeness,
		)
		if err != nil {
			return fmt.Errorf("failed to insert score for %s: %w", rec.Symbol, err)
		}
	}

	if err := r.saveRun(ctx, tx, result); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.refreshCache(ctx, result)

	r.logger.WithFields(map[string]interface{}{
		"run_id":     result.RunID,
		"score_date": result.ScoreDate.Format("2006-01-02"),
		"records":    len(result.Records),
		"excluded":   len(result.Excluded),
	}).Info("Cycle persisted")

	return nil
}

// saveRun records the cycle run metadata inside the same transaction
func (r *Repository) saveRun(ctx context.Context, tx pgx.Tx, result *contracts.CycleResult) error {
	excludedJSON, err := json.Marshal(result.Excluded)
	if err != nil {
		return fmt.Errorf("failed to marshal exclusions: %w", err)
	}
	warningsJSON, err := json.Marshal(result.Warnings)
	if err != nil {
		return fmt.Errorf("failed to marshal warnings: %w", err)
	}

	query := `
		INSERT INTO scoring.cycle_runs (
			run_id, score_date, config_hash,
			universe_size, scored, excluded, warnings, duration_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (score_date) DO UPDATE SET
			run_id = EXCLUDED.run_id,
			config_hash = EXCLUDED.config_hash,
			universe_size = EXCLUDED.universe_size,
			scored = EXCLUDED.scored,
			excluded = EXCLUDED.excluded,
			warnings = EXCLUDED.warnings,
			duration_ms = EXCLUDED.duration_ms,
			created_at = NOW()
	`

	_, err = tx.Exec(ctx, query,
		result.RunID, result.ScoreDate, result.ConfigHash,
		result.UniverseSize, result.Scored(), excludedJSON, warningsJSON,
		result.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to save cycle run: %w", err)
	}

	return nil
}

// GetScores retrieves the ranked records for a date, best first.
// Reads go through the cache when the full requested range is cached.
func (r *Repository) GetScores(ctx context.Context, date time.Time, limit int) ([]contracts.ScoreRecord, error) {
	cacheKey := redis.ScoresKey(date.Format("2006-01-02"))

	var cached []contracts.ScoreRecord
	if found, err := r.cache.Get(ctx, cacheKey, &cached); err == nil && found && len(cached) >= limit {
		return cached[:limit], nil
	}

	query := `
		SELECT
			symbol, score_date, rank, composite,
			momentum, trend, value, quality,
			growth, stability, positioning, sentiment,
			weights, completeness
		FROM scoring.score_records
		WHERE score_date = $1
		ORDER BY rank ASC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, date, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	records := make([]contracts.ScoreRecord, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scores: %w", err)
	}

	// Query-backed fills may precede the day's final cycle, so they
	// get the short TTL; refreshCache re-caches for the full day.
	if err := r.cache.Set(ctx, cacheKey, records, redis.TTLShort); err != nil {
		r.logger.WithFields(map[string]interface{}{
			"key": cacheKey,
		}).Warn("Failed to cache scores")
	}

	return records, nil
}

// GetSymbolScore retrieves one symbol's record for a date
func (r *Repository) GetSymbolScore(ctx context.Context, date time.Time, symbol string) (*contracts.ScoreRecord, error) {
	query := `
		SELECT
			symbol, score_date, rank, composite,
			momentum, trend, value, quality,
			growth, stability, positioning, sentiment,
			weights, completeness
		FROM scoring.score_records
		WHERE score_date = $1 AND symbol = $2
	`

	row := r.pool.QueryRow(ctx, query, date, symbol)
	rec, err := scanRecord(row)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("no score for %s on %s", symbol, date.Format("2006-01-02"))
	}
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

// RunSummary is the stored metadata of one completed cycle
type RunSummary struct {
	RunID        string            `json:"run_id"`
	ScoreDate    time.Time         `json:"score_date"`
	ConfigHash   string            `json:"config_hash"`
	UniverseSize int               `json:"universe_size"`
	Scored       int               `json:"scored"`
	Excluded     map[string]string `json:"excluded"`
	Warnings     []string          `json:"warnings"`
	DurationMS   int64             `json:"duration_ms"`
	CreatedAt    time.Time         `json:"created_at"`
}

// GetLatestRun retrieves the most recent cycle run
func (r *Repository) GetLatestRun(ctx context.Context) (*RunSummary, error) {
	query := `
		SELECT
			run_id, score_date, config_hash,
			universe_size, scored, excluded, warnings, duration_ms, created_at
		FROM scoring.cycle_runs
		ORDER BY score_date DESC
		LIMIT 1
	`

	var run RunSummary
	var excludedJSON, warningsJSON []byte

	err := r.pool.QueryRow(ctx, query).Scan(
		&run.RunID, &run.ScoreDate, &run.ConfigHash,
		&run.UniverseSize, &run.Scored, &excludedJSON, &warningsJSON,
		&run.DurationMS, &run.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("no completed cycle runs")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}

	if err := json.Unmarshal(excludedJSON, &run.Excluded); err != nil {
		return nil, fmt.Errorf("failed to unmarshal exclusions: %w", err)
	}
	if err := json.Unmarshal(warningsJSON, &run.Warnings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal warnings: %w", err)
	}

	return &run, nil
}

// scanRecord scans one score row, mapping NULL factor columns back to
// unavailable outcomes.
func scanRecord(row pgx.Row) (contracts.ScoreRecord, error) {
	var rec contracts.ScoreRecord
	var weightsJSON []byte

	// NULL factor columns scan into nil pointers, in canonical order
	factorVals := make([]*float64, len(contracts.AllFactors))
	scanDest := []interface{}{&rec.Symbol, &rec.ScoreDate, &rec.Rank, &rec.Composite}
	for i := range factorVals {
		scanDest = append(scanDest, &factorVals[i])
	}
	scanDest = append(scanDest, &weightsJSON, &rec.Completeness)

	if err := row.Scan(scanDest...); err != nil {
		return rec, err
	}

	rec.Factors = make(contracts.FactorSet, len(contracts.AllFactors))
	for i, name := range contracts.AllFactors {
		if p := factorVals[i]; p != nil {
			rec.Factors[name] = contracts.Score(*p)
		} else {
			rec.Factors[name] = contracts.Unavailable()
		}
	}

	if err := json.Unmarshal(weightsJSON, &rec.Weights); err != nil {
		return rec, fmt.Errorf("failed to unmarshal weights: %w", err)
	}

	return rec, nil
}

// refreshCache replaces the cached reads with the new snapshot's
// top-ranked records. Cache failures are logged, never fatal: the
// database commit already succeeded.
func (r *Repository) refreshCache(ctx context.Context, result *contracts.CycleResult) {
	dateKey := result.ScoreDate.Format("2006-01-02")

	if err := r.cache.Set(ctx, redis.ScoresKey(dateKey), result.Top(r.cacheTopN), redis.TTLDaily); err != nil {
		r.logger.WithFields(map[string]interface{}{
			"key": redis.ScoresKey(dateKey),
		}).Warn("Failed to cache scores")
		return
	}

	if err := r.cache.Set(ctx, redis.LatestCycleKey(), dateKey, redis.TTLDaily); err != nil {
		r.logger.WithFields(map[string]interface{}{
			"key": redis.LatestCycleKey(),
		}).Warn("Failed to cache latest cycle date")
	}
}
