package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphadesk/compass/internal/contracts"
	"github.com/alphadesk/compass/internal/scoreconfig"
	"github.com/alphadesk/compass/pkg/logger"
)

var cycleDate = time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

func f(v float64) *float64 { return &v }

type fakeUniverse struct {
	symbols []string
	err     error
}

func (u *fakeUniverse) ActiveSymbols(ctx context.Context, date time.Time) ([]string, error) {
	return u.symbols, u.err
}

type fakeSource struct {
	technicals   map[string]contracts.TechnicalRow
	fundamentals map[string]contracts.FundamentalRow
	ownership    map[string]contracts.OwnershipRow
	sentiment    map[string]contracts.SentimentRow
}

func (s *fakeSource) Technicals(ctx context.Context, date time.Time, symbols []string) (map[string]contracts.TechnicalRow, error) {
	return s.technicals, nil
}

func (s *fakeSource) Fundamentals(ctx context.Context, date time.Time, symbols []string) (map[string]contracts.FundamentalRow, error) {
	return s.fundamentals, nil
}

func (s *fakeSource) Ownership(ctx context.Context, date time.Time, symbols []string) (map[string]contracts.OwnershipRow, error) {
	return s.ownership, nil
}

func (s *fakeSource) Sentiment(ctx context.Context, date time.Time, symbols []string) (map[string]contracts.SentimentRow, error) {
	return s.sentiment, nil
}

type fakeWriter struct {
	saved *contracts.CycleResult
	err   error
}

func (w *fakeWriter) SaveCycle(ctx context.Context, result *contracts.CycleResult) error {
	if w.err != nil {
		return w.err
	}
	w.saved = result
	return nil
}

// fullSource builds a six-symbol cross-section with every metric
// family present, graded so that SYM00 is weakest and SYM05 strongest.
func fullSource(symbols []string) *fakeSource {
	src := &fakeSource{
		technicals:   make(map[string]contracts.TechnicalRow),
		fundamentals: make(map[string]contracts.FundamentalRow),
		ownership:    make(map[string]contracts.OwnershipRow),
		sentiment:    make(map[string]contracts.SentimentRow),
	}

	for i, sym := range symbols {
		g := float64(i) // grade 0..5

		src.technicals[sym] = contracts.TechnicalRow{
			Return1M:      f(-0.05 + 0.03*g),
			Return3M:      f(-0.10 + 0.06*g),
			Return6M:      f(-0.15 + 0.09*g),
			Price:         f(100 + 4*g),
			MA20:          f(100),
			MA50:          f(98),
			RSI14:         f(40 + 5*g),
			Volatility30D: f(0.50 - 0.06*g),
		}
		src.fundamentals[sym] = contracts.FundamentalRow{
			PERatio:        f(40 - 5*g),
			PBRatio:        f(6 - 0.8*g),
			PSRatio:        f(9 - g),
			PEGRatio:       f(4 - 0.5*g),
			ROE:            f(2 + 4*g),
			ROA:            f(1 + 2*g),
			DebtToEquity:   f(3 - 0.4*g),
			CurrentRatio:   f(0.8 + 0.3*g),
			RevenueGrowth:  f(-0.05 + 0.05*g),
			EarningsGrowth: f(-0.10 + 0.08*g),
		}
		src.ownership[sym] = contracts.OwnershipRow{
			InstitutionalPct: f(0.30 + 0.05*g),
			InsiderPct:       f(0.08),
			ShortInterestPct: f(0.25 - 0.04*g),
			AccumDist:        f(-0.6 + 0.24*g),
		}
		src.sentiment[sym] = contracts.SentimentRow{
			AnalystRating: f(1 + 0.8*g),
			NewsSentiment: f(-0.8 + 0.32*g),
		}
	}

	return src
}

func universeSymbols() []string {
	return []string{"SYM00", "SYM01", "SYM02", "SYM03", "SYM04", "SYM05"}
}

func newTestEngine(t *testing.T, universe *fakeUniverse, source *fakeSource, writer *fakeWriter, cfg *scoreconfig.Config) *Engine {
	t.Helper()
	eng, err := New(universe, source, writer, cfg, 4, 2, logger.NewNop())
	require.NoError(t, err)
	return eng
}

func TestEngine_Run_FullCycle(t *testing.T) {
	symbols := universeSymbols()
	writer := &fakeWriter{}
	eng := newTestEngine(t, &fakeUniverse{symbols: symbols}, fullSource(symbols), writer, scoreconfig.Default())

	result, err := eng.Run(context.Background(), cycleDate)
	require.NoError(t, err)

	assert.Equal(t, 6, result.UniverseSize)
	assert.Equal(t, 6, result.Scored())
	assert.Empty(t, result.Excluded)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, eng.ConfigHash(), result.ConfigHash)
	assert.Same(t, result, writer.saved)

	// Records are ranked 1-based by composite descending
	for i, rec := range result.Records {
		assert.Equal(t, i+1, rec.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, result.Records[i-1].Composite, rec.Composite)
		}
		assert.GreaterOrEqual(t, rec.Composite, 0.0)
		assert.LessOrEqual(t, rec.Composite, 100.0)
		assert.InDelta(t, 1.0, rec.Weights.Sum(), 1e-9)
		assert.Equal(t, cycleDate, rec.ScoreDate)
	}

	// Uniformly graded data: the strongest symbol ranks first
	assert.Equal(t, "SYM05", result.Records[0].Symbol)
	assert.Equal(t, "SYM00", result.Records[len(result.Records)-1].Symbol)
}

func TestEngine_Run_Deterministic(t *testing.T) {
	symbols := universeSymbols()

	run := func() *contracts.CycleResult {
		writer := &fakeWriter{}
		eng := newTestEngine(t, &fakeUniverse{symbols: symbols}, fullSource(symbols), writer, scoreconfig.Default())
		result, err := eng.Run(context.Background(), cycleDate)
		require.NoError(t, err)
		return result
	}

	first := run()
	second := run()

	require.Equal(t, len(first.Records), len(second.Records))
	for i := range first.Records {
		assert.Equal(t, first.Records[i].Symbol, second.Records[i].Symbol)
		assert.Equal(t, first.Records[i].Rank, second.Records[i].Rank)
		// Byte-identical composites, not merely close
		assert.Equal(t, first.Records[i].Composite, second.Records[i].Composite)
		assert.Equal(t, first.Records[i].Weights, second.Records[i].Weights)
	}
	assert.Equal(t, first.ConfigHash, second.ConfigHash)
	assert.Equal(t, first.Warnings, second.Warnings)
}

func TestEngine_Run_ShuffledUniverseOrderIrrelevant(t *testing.T) {
	symbols := universeSymbols()
	shuffled := []string{"SYM03", "SYM00", "SYM05", "SYM01", "SYM04", "SYM02"}

	runWith := func(universe []string) *contracts.CycleResult {
		writer := &fakeWriter{}
		eng := newTestEngine(t, &fakeUniverse{symbols: universe}, fullSource(symbols), writer, scoreconfig.Default())
		result, err := eng.Run(context.Background(), cycleDate)
		require.NoError(t, err)
		return result
	}

	ordered := runWith(symbols)
	reordered := runWith(shuffled)

	require.Equal(t, len(ordered.Records), len(reordered.Records))
	for i := range ordered.Records {
		assert.Equal(t, ordered.Records[i].Symbol, reordered.Records[i].Symbol)
		assert.Equal(t, ordered.Records[i].Composite, reordered.Records[i].Composite)
	}
}

func TestEngine_Run_EmptyUniverse(t *testing.T) {
	eng := newTestEngine(t, &fakeUniverse{symbols: nil}, fullSource(nil), &fakeWriter{}, scoreconfig.Default())

	_, err := eng.Run(context.Background(), cycleDate)
	assert.ErrorIs(t, err, contracts.ErrEmptyUniverse)
}

func TestEngine_Run_UniverseError(t *testing.T) {
	boom := errors.New("membership feed down")
	eng := newTestEngine(t, &fakeUniverse{err: boom}, fullSource(nil), &fakeWriter{}, scoreconfig.Default())

	_, err := eng.Run(context.Background(), cycleDate)
	assert.ErrorIs(t, err, boom)
}

func TestEngine_Run_WriterErrorAbortsCycle(t *testing.T) {
	symbols := universeSymbols()
	boom := errors.New("database unavailable")
	eng := newTestEngine(t, &fakeUniverse{symbols: symbols}, fullSource(symbols), &fakeWriter{err: boom}, scoreconfig.Default())

	_, err := eng.Run(context.Background(), cycleDate)
	assert.ErrorIs(t, err, boom)
}

func TestEngine_Run_SymbolWithoutWeightedFactorsExcluded(t *testing.T) {
	// Concentrate all weight on factors with no neutral fallback, then
	// starve one symbol of their inputs: redistribution has nowhere to
	// go and the symbol must be excluded, not scored 0 or 50.
	cfg := scoreconfig.Default()
	cfg.Weights = scoreconfig.Weights{Momentum: 0.50, Value: 0.50}

	symbols := append(universeSymbols(), "ZZGHOST")
	source := fullSource(universeSymbols())
	writer := &fakeWriter{}
	eng := newTestEngine(t, &fakeUniverse{symbols: symbols}, source, writer, cfg)

	result, err := eng.Run(context.Background(), cycleDate)
	require.NoError(t, err)

	assert.Equal(t, 7, result.UniverseSize)
	assert.Equal(t, 6, result.Scored())
	require.Contains(t, result.Excluded, "ZZGHOST")
	assert.Contains(t, result.Excluded["ZZGHOST"], "all factors unavailable")

	for _, rec := range result.Records {
		assert.NotEqual(t, "ZZGHOST", rec.Symbol)
	}
}

func TestEngine_Run_SmallPopulationWarning(t *testing.T) {
	// Three symbols is below the default minimum population of five:
	// every ranked metric should be flagged and neutral-fallback
	// factors carry the composite.
	symbols := []string{"SYM00", "SYM01", "SYM02"}
	writer := &fakeWriter{}
	eng := newTestEngine(t, &fakeUniverse{symbols: symbols}, fullSource(symbols), writer, scoreconfig.Default())

	result, err := eng.Run(context.Background(), cycleDate)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Warnings)
}

func TestEngine_New_RejectsInvalidConfig(t *testing.T) {
	cfg := scoreconfig.Default()
	cfg.Weights.Momentum = 0.90 // weights no longer sum to 1

	_, err := New(&fakeUniverse{}, fullSource(nil), &fakeWriter{}, cfg, 4, 2, logger.NewNop())
	assert.Error(t, err)
}
