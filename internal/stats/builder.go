package stats

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/alphadesk/compass/internal/contracts"
	"github.com/alphadesk/compass/internal/metrics"
	"github.com/alphadesk/compass/pkg/logger"
)

// Set holds the frozen populations of every ranked metric for one
// cycle. It is built in full before any symbol is scored and treated
// as immutable afterwards; per-symbol scoring never writes back.
type Set struct {
	populations map[metrics.Metric]*Population
	warnings    []string
}

// Builder constructs the per-metric populations for a cycle.
type Builder struct {
	minSize int
	logger  *logger.Logger
}

// NewBuilder creates a population builder. minSize is the minimum
// number of valid values a metric needs before ranks against it are
// considered reliable.
func NewBuilder(minSize int, log *logger.Logger) *Builder {
	return &Builder{
		minSize: minSize,
		logger:  log,
	}
}

// Build constructs every ranked metric's population from the collected
// snapshots. Metrics are independent, so they are built concurrently;
// the returned Set is complete before any caller can rank against it.
func (b *Builder) Build(ctx context.Context, snapshots map[string]*metrics.Snapshot) (*Set, error) {
	// Fixed symbol order keeps value extraction deterministic
	symbols := make([]string, 0, len(snapshots))
	for sym := range snapshots {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	set := &Set{
		populations: make(map[metrics.Metric]*Population),
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)

	for _, metric := range metrics.RankedMetrics() {
		metric := metric
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			values := make([]float64, 0, len(symbols))
			for _, sym := range symbols {
				if v, ok := snapshots[sym].Get(metric); ok {
					values = append(values, v)
				}
			}

			pop := NewPopulation(metric, values, b.minSize)

			mu.Lock()
			set.populations[metric] = pop
			if !pop.Usable() {
				set.warnings = append(set.warnings, fmt.Sprintf(
					"metric %s: %v (population size %d below minimum %d)",
					metric, contracts.ErrPopulationTooSmall, pop.Size(), b.minSize))
			}
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("population build failed: %w", err)
	}

	sort.Strings(set.warnings)

	b.logger.WithFields(map[string]interface{}{
		"metrics":  len(set.populations),
		"symbols":  len(symbols),
		"warnings": len(set.warnings),
	}).Info("Metric populations built")

	for _, metric := range metrics.RankedMetrics() {
		summary := set.populations[metric].Summarize()
		b.logger.WithFields(map[string]interface{}{
			"metric": string(metric),
			"size":   summary.Size,
			"mean":   summary.Mean,
			"stddev": summary.StdDev,
		}).Debug("Population summary")
	}

	return set, nil
}

// Rank returns the percentile rank of a value against a metric's
// population. False when the metric is unranked or its population is
// too small this cycle.
func (s *Set) Rank(metric metrics.Metric, value float64) (float64, bool) {
	pop, ok := s.populations[metric]
	if !ok {
		return 0, false
	}
	return pop.Rank(value)
}

// RankSnapshot ranks a symbol's own value for a metric, combining the
// null check and the population lookup.
func (s *Set) RankSnapshot(snap *metrics.Snapshot, metric metrics.Metric) (float64, bool) {
	value, ok := snap.Get(metric)
	if !ok {
		return 0, false
	}
	return s.Rank(metric, value)
}

// Population returns the frozen population for a metric
func (s *Set) Population(metric metrics.Metric) (*Population, bool) {
	pop, ok := s.populations[metric]
	return pop, ok
}

// Warnings returns cycle-level population warnings in stable order
func (s *Set) Warnings() []string {
	return s.warnings
}
