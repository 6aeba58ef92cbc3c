package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphadesk/compass/internal/contracts"
	"github.com/alphadesk/compass/pkg/logger"
)

type stubSource struct {
	technicals   map[string]contracts.TechnicalRow
	fundamentals map[string]contracts.FundamentalRow
	ownership    map[string]contracts.OwnershipRow
	sentiment    map[string]contracts.SentimentRow
	err          error
}

func (s *stubSource) Technicals(ctx context.Context, date time.Time, symbols []string) (map[string]contracts.TechnicalRow, error) {
	return s.technicals, s.err
}

func (s *stubSource) Fundamentals(ctx context.Context, date time.Time, symbols []string) (map[string]contracts.FundamentalRow, error) {
	return s.fundamentals, nil
}

func (s *stubSource) Ownership(ctx context.Context, date time.Time, symbols []string) (map[string]contracts.OwnershipRow, error) {
	return s.ownership, nil
}

func (s *stubSource) Sentiment(ctx context.Context, date time.Time, symbols []string) (map[string]contracts.SentimentRow, error) {
	return s.sentiment, nil
}

func TestCollector_Collect(t *testing.T) {
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	v := func(x float64) *float64 { return &x }

	source := &stubSource{
		technicals: map[string]contracts.TechnicalRow{
			"AAPL": {Return1M: v(0.04), Price: v(230), RSI14: v(58)},
		},
		fundamentals: map[string]contracts.FundamentalRow{
			"AAPL": {PERatio: v(28), ROE: v(0.45)},
			// Not in the universe, must be ignored
			"GHOST": {PERatio: v(1)},
		},
		ownership: map[string]contracts.OwnershipRow{
			"AAPL": {InstitutionalPct: v(0.61), ShortInterestPct: nil},
		},
		sentiment: map[string]contracts.SentimentRow{},
	}

	collector := NewCollector(source, logger.NewNop())
	snapshots, err := collector.Collect(context.Background(), date, []string{"AAPL", "MSFT"})
	require.NoError(t, err)
	require.Len(t, snapshots, 2)

	aapl := snapshots["AAPL"]
	got, ok := aapl.Get(MetricReturn1M)
	require.True(t, ok)
	assert.Equal(t, 0.04, got)
	got, ok = aapl.Get(MetricPERatio)
	require.True(t, ok)
	assert.Equal(t, 28.0, got)
	got, ok = aapl.Get(MetricInstitutionalPct)
	require.True(t, ok)
	assert.Equal(t, 0.61, got)

	// nil fields stay missing, never become zero
	assert.False(t, aapl.Has(MetricShortInterestPct))
	assert.False(t, aapl.Has(MetricMA20))

	// Symbols absent from every family still get an empty snapshot
	msft := snapshots["MSFT"]
	assert.Equal(t, 0, msft.Count())

	// Rows for symbols outside the universe are dropped
	_, exists := snapshots["GHOST"]
	assert.False(t, exists)
}

func TestCollector_Collect_SourceError(t *testing.T) {
	source := &stubSource{err: errors.New("provider timeout")}
	collector := NewCollector(source, logger.NewNop())

	_, err := collector.Collect(context.Background(), time.Now(), []string{"AAPL"})
	assert.Error(t, err)
}
