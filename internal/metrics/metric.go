package metrics

// Metric names one raw per-symbol input field. Every metric that is
// percentile-ranked carries a direction; "lower is better" metrics are
// ranked on their negation so a higher rank is always more favorable.
type Metric string

const (
	// Technicals
	MetricReturn1M      Metric = "return_1m"
	MetricReturn3M      Metric = "return_3m"
	MetricReturn6M      Metric = "return_6m"
	MetricPrice         Metric = "price"
	MetricMA20          Metric = "ma_20"
	MetricMA50          Metric = "ma_50"
	MetricRSI14         Metric = "rsi_14"
	MetricVolatility30D Metric = "volatility_30d"

	// Valuation multiples
	MetricPERatio  Metric = "pe_ratio"
	MetricPBRatio  Metric = "pb_ratio"
	MetricPSRatio  Metric = "ps_ratio"
	MetricPEGRatio Metric = "peg_ratio"

	// Profitability
	MetricROE             Metric = "roe"
	MetricROA             Metric = "roa"
	MetricGrossMargin     Metric = "gross_margin"
	MetricOperatingMargin Metric = "operating_margin"

	// Financial strength
	MetricDebtToEquity Metric = "debt_to_equity"
	MetricCurrentRatio Metric = "current_ratio"

	// Earnings quality
	MetricFCFToNetIncome Metric = "fcf_to_net_income"

	// Growth
	MetricRevenueGrowth     Metric = "revenue_growth"
	MetricEarningsGrowth    Metric = "earnings_growth"
	MetricEarningsAccel     Metric = "earnings_accel"
	MetricMarginExpansion   Metric = "margin_expansion"
	MetricSustainableGrowth Metric = "sustainable_growth"

	// Positioning (band-scored on raw values, never percentile-ranked)
	MetricInstitutionalPct Metric = "institutional_pct"
	MetricInsiderPct       Metric = "insider_pct"
	MetricShortInterestPct Metric = "short_interest_pct"
	MetricAccumDist        Metric = "accum_dist"

	// Sentiment
	MetricAnalystRating Metric = "analyst_rating"
	MetricNewsSentiment Metric = "news_sentiment"
)

// Direction declares how a metric's raw value maps to favorability.
type Direction int

const (
	// HigherIsBetter ranks the raw value directly
	HigherIsBetter Direction = iota
	// LowerIsBetter ranks the negated value (inversion)
	LowerIsBetter
)

// rankedMetrics maps each percentile-ranked metric to its direction.
// Metrics absent from this table (prices, moving averages, positioning
// fields) are consumed raw by the factor calculators.
var rankedMetrics = map[Metric]Direction{
	MetricReturn1M:      HigherIsBetter,
	MetricReturn3M:      HigherIsBetter,
	MetricReturn6M:      HigherIsBetter,
	MetricVolatility30D: LowerIsBetter,

	MetricPERatio:  LowerIsBetter,
	MetricPBRatio:  LowerIsBetter,
	MetricPSRatio:  LowerIsBetter,
	MetricPEGRatio: LowerIsBetter,

	MetricROE:             HigherIsBetter,
	MetricROA:             HigherIsBetter,
	MetricGrossMargin:     HigherIsBetter,
	MetricOperatingMargin: HigherIsBetter,

	MetricDebtToEquity: LowerIsBetter,
	MetricCurrentRatio: HigherIsBetter,

	MetricFCFToNetIncome: HigherIsBetter,

	MetricRevenueGrowth:     HigherIsBetter,
	MetricEarningsGrowth:    HigherIsBetter,
	MetricEarningsAccel:     HigherIsBetter,
	MetricMarginExpansion:   HigherIsBetter,
	MetricSustainableGrowth: HigherIsBetter,

	MetricAnalystRating: HigherIsBetter,
	MetricNewsSentiment: HigherIsBetter,
}

// rankedOrder fixes the iteration order over ranked metrics so that
// population building and logging are deterministic.
var rankedOrder = []Metric{
	MetricReturn1M,
	MetricReturn3M,
	MetricReturn6M,
	MetricVolatility30D,
	MetricPERatio,
	MetricPBRatio,
	MetricPSRatio,
	MetricPEGRatio,
	MetricROE,
	MetricROA,
	MetricGrossMargin,
	MetricOperatingMargin,
	MetricDebtToEquity,
	MetricCurrentRatio,
	MetricFCFToNetIncome,
	MetricRevenueGrowth,
	MetricEarningsGrowth,
	MetricEarningsAccel,
	MetricMarginExpansion,
	MetricSustainableGrowth,
	MetricAnalystRating,
	MetricNewsSentiment,
}

// RankedMetrics returns every percentile-ranked metric in canonical order
func RankedMetrics() []Metric {
	out := make([]Metric, len(rankedOrder))
	copy(out, rankedOrder)
	return out
}

// DirectionOf returns the ranking direction for a metric.
// The second return is false for metrics that are never ranked.
func DirectionOf(m Metric) (Direction, bool) {
	d, ok := rankedMetrics[m]
	return d, ok
}

// Inverted reports whether a metric is ranked "lower is better"
func Inverted(m Metric) bool {
	return rankedMetrics[m] == LowerIsBetter
}
