// Package engine orchestrates one full scoring cycle: universe
// resolution, metric collection, population building, parallel
// per-symbol scoring, ranking, and persistence.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alphadesk/compass/internal/composite"
	"github.com/alphadesk/compass/internal/contracts"
	"github.com/alphadesk/compass/internal/factors"
	"github.com/alphadesk/compass/internal/metrics"
	"github.com/alphadesk/compass/internal/scoreconfig"
	"github.com/alphadesk/compass/internal/stats"
	"github.com/alphadesk/compass/pkg/logger"
)

// Engine runs scoring cycles. All collaborators are injected so the
// full cycle is testable against in-memory sources.
type Engine struct {
	universe contracts.UniverseSource
	writer   contracts.ScoreWriter

	collector *metrics.Collector
	builder   *stats.Builder
	scorer    *factors.Scorer

	cfg        *scoreconfig.Config
	configHash string
	weights    contracts.WeightVector
	workers    int
	batchSize  int

	logger *logger.Logger
}

// New creates an engine from its collaborators and the validated
// strategy configuration. workers bounds Phase 2 concurrency;
// batchSize is the number of symbols each worker task scores.
func New(
	universe contracts.UniverseSource,
	source contracts.MetricSource,
	writer contracts.ScoreWriter,
	cfg *scoreconfig.Config,
	workers, batchSize int,
	log *logger.Logger,
) (*Engine, error) {
	if err := scoreconfig.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid strategy config: %w", err)
	}
	hash, err := scoreconfig.Hash(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to hash strategy config: %w", err)
	}
	if workers < 1 {
		workers = 1
	}
	if batchSize < 1 {
		batchSize = 1
	}

	return &Engine{
		universe:   universe,
		writer:     writer,
		collector:  metrics.NewCollector(source, log),
		builder:    stats.NewBuilder(cfg.Normalization.MinPopulation, log),
		scorer:     factors.NewScorer(cfg, log),
		cfg:        cfg,
		configHash: hash,
		weights:    cfg.Weights.Vector(),
		workers:    workers,
		batchSize:  batchSize,
		logger:     log,
	}, nil
}

// ConfigHash returns the hash of the strategy configuration in use
func (e *Engine) ConfigHash() string {
	return e.configHash
}

// Run executes one scoring cycle for the given date and persists the
// result. Per-symbol failures are isolated into the result's excluded
// map; only cycle-level failures return an error, and a failed cycle
// persists nothing.
func (e *Engine) Run(ctx context.Context, date time.Time) (*contracts.CycleResult, error) {
	start := time.Now()
	runID := fmt.Sprintf("%s-%d", date.Format("20060102"), start.UnixNano())

	e.logger.WithFields(map[string]interface{}{
		"run_id":      runID,
		"score_date":  date.Format("2006-01-02"),
		"strategy":    e.cfg.Meta.StrategyID,
		"config_hash": e.configHash[:12],
	}).Info("Scoring cycle started")

	symbols, err := e.universe.ActiveSymbols(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve universe: %w", err)
	}
	if len(symbols) == 0 {
		return nil, contracts.ErrEmptyUniverse
	}
	sort.Strings(symbols)

	snapshots, err := e.collector.Collect(ctx, date, symbols)
	if err != nil {
		return nil, err
	}

	// Phase 1: freeze every metric population before any symbol is scored
	pops, err := e.builder.Build(ctx, snapshots)
	if err != nil {
		return nil, err
	}

	records, excluded, err := e.scoreUniverse(ctx, symbols, snapshots, pops)
	if err != nil {
		return nil, err
	}

	rankRecords(records)

	result := &contracts.CycleResult{
		RunID:        runID,
		ScoreDate:    date,
		ConfigHash:   e.configHash,
		UniverseSize: len(symbols),
		Records:      records,
		Excluded:     excluded,
		Warnings:     pops.Warnings(),
		Duration:     time.Since(start),
	}

	if err := e.writer.SaveCycle(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to persist cycle: %w", err)
	}

	e.logger.WithFields(map[string]interface{}{
		"run_id":      runID,
		"universe":    len(symbols),
		"scored":      len(records),
		"excluded":    len(excluded),
		"warnings":    len(result.Warnings),
		"duration_ms": result.Duration.Milliseconds(),
	}).Info("Scoring cycle completed")

	return result, nil
}

// scoreUniverse runs Phase 2: per-symbol scoring against the frozen
// populations. Symbols are independent, so a bounded worker pool
// processes them concurrently in fixed-size batches; per-symbol
// errors go to the excluded map instead of aborting the batch.
func (e *Engine) scoreUniverse(
	ctx context.Context,
	symbols []string,
	snapshots map[string]*metrics.Snapshot,
	pops *stats.Set,
) ([]contracts.ScoreRecord, map[string]string, error) {
	records := make([]contracts.ScoreRecord, 0, len(symbols))
	excluded := make(map[string]string)
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for start := 0; start < len(symbols); start += e.batchSize {
		end := start + e.batchSize
		if end > len(symbols) {
			end = len(symbols)
		}
		batch := symbols[start:end]

		g.Go(func() error {
			for _, sym := range batch {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := e.scoreSymbol(sym, snapshots[sym], pops, &mu, &records, excluded); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return records, excluded, nil
}

// scoreSymbol scores one symbol and files the outcome under the mutex
func (e *Engine) scoreSymbol(
	sym string,
	snap *metrics.Snapshot,
	pops *stats.Set,
	mu *sync.Mutex,
	records *[]contracts.ScoreRecord,
	excluded map[string]string,
) error {
	outcomes := e.scorer.Score(snap, pops)
	agg, err := composite.Aggregate(outcomes, e.weights)

	mu.Lock()
	defer mu.Unlock()

	if err != nil {
		if errors.Is(err, contracts.ErrAllFactorsUnavailable) || errors.Is(err, contracts.ErrMalformedValue) {
			excluded[sym] = err.Error()
			e.logger.WithFields(map[string]interface{}{
				"symbol": sym,
				"reason": err.Error(),
			}).Warn("Symbol excluded from cycle")
			return nil
		}
		return fmt.Errorf("failed to score %s: %w", sym, err)
	}

	*records = append(*records, contracts.ScoreRecord{
		Symbol:       sym,
		ScoreDate:    snap.Date,
		Composite:    agg.Composite,
		Factors:      outcomes,
		Weights:      agg.Weights,
		Completeness: agg.Completeness,
	})
	return nil
}

// rankRecords orders records by composite descending and assigns
// 1-based ranks. Equal composites break ties by symbol so the order
// is reproducible regardless of worker completion order.
func rankRecords(records []contracts.ScoreRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Composite != records[j].Composite {
			return records[i].Composite > records[j].Composite
		}
		return records[i].Symbol < records[j].Symbol
	})

	for i := range records {
		records[i].Rank = i + 1
	}
}
