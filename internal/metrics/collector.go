package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/alphadesk/compass/internal/contracts"
	"github.com/alphadesk/compass/pkg/logger"
)

// Collector gathers the raw metric cross-section for the full universe
// at the start of a cycle. It is the only component that talks to the
// external data source; everything downstream works off Snapshots.
type Collector struct {
	source contracts.MetricSource
	logger *logger.Logger
}

// NewCollector creates a new collector
func NewCollector(source contracts.MetricSource, log *logger.Logger) *Collector {
	return &Collector{
		source: source,
		logger: log,
	}
}

// Collect fetches all metric families for every symbol and flattens
// them into per-symbol snapshots. A symbol missing from a family's
// cross-section simply has no values from that family.
func (c *Collector) Collect(ctx context.Context, date time.Time, symbols []string) (map[string]*Snapshot, error) {
	snapshots := make(map[string]*Snapshot, len(symbols))
	for _, sym := range symbols {
		snapshots[sym] = NewSnapshot(sym, date)
	}

	technicals, err := c.source.Technicals(ctx, date, symbols)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch technicals: %w", err)
	}
	for sym, row := range technicals {
		snap, ok := snapshots[sym]
		if !ok {
			continue
		}
		snap.Set(MetricReturn1M, row.Return1M)
		snap.Set(MetricReturn3M, row.Return3M)
		snap.Set(MetricReturn6M, row.Return6M)
		snap.Set(MetricPrice, row.Price)
		snap.Set(MetricMA20, row.MA20)
		snap.Set(MetricMA50, row.MA50)
		snap.Set(MetricRSI14, row.RSI14)
		snap.Set(MetricVolatility30D, row.Volatility30D)
	}

	fundamentals, err := c.source.Fundamentals(ctx, date, symbols)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fundamentals: %w", err)
	}
	for sym, row := range fundamentals {
		snap, ok := snapshots[sym]
		if !ok {
			continue
		}
		snap.Set(MetricPERatio, row.PERatio)
		snap.Set(MetricPBRatio, row.PBRatio)
		snap.Set(MetricPSRatio, row.PSRatio)
		snap.Set(MetricPEGRatio, row.PEGRatio)
		snap.Set(MetricROE, row.ROE)
		snap.Set(MetricROA, row.ROA)
		snap.Set(MetricGrossMargin, row.GrossMargin)
		snap.Set(MetricOperatingMargin, row.OperatingMargin)
		snap.Set(MetricDebtToEquity, row.DebtToEquity)
		snap.Set(MetricCurrentRatio, row.CurrentRatio)
		snap.Set(MetricFCFToNetIncome, row.FCFToNetIncome)
		snap.Set(MetricRevenueGrowth, row.RevenueGrowth)
		snap.Set(MetricEarningsGrowth, row.EarningsGrowth)
		snap.Set(MetricEarningsAccel, row.EarningsAccel)
		snap.Set(MetricMarginExpansion, row.MarginExpansion)
		snap.Set(MetricSustainableGrowth, row.SustainableGrowth)
	}

	ownership, err := c.source.Ownership(ctx, date, symbols)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ownership: %w", err)
	}
	for sym, row := range ownership {
		snap, ok := snapshots[sym]
		if !ok {
			continue
		}
		snap.Set(MetricInstitutionalPct, row.InstitutionalPct)
		snap.Set(MetricInsiderPct, row.InsiderPct)
		snap.Set(MetricShortInterestPct, row.ShortInterestPct)
		snap.Set(MetricAccumDist, row.AccumDist)
	}

	sentiment, err := c.source.Sentiment(ctx, date, symbols)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sentiment: %w", err)
	}
	for sym, row := range sentiment {
		snap, ok := snapshots[sym]
		if !ok {
			continue
		}
		snap.Set(MetricAnalystRating, row.AnalystRating)
		snap.Set(MetricNewsSentiment, row.NewsSentiment)
	}

	c.logger.WithFields(map[string]interface{}{
		"date":    date.Format("2006-01-02"),
		"symbols": len(symbols),
	}).Info("Metric collection completed")

	return snapshots, nil
}
