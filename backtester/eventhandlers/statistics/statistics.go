package statistics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/quantbt/qbt/backtester/common"
	"github.com/quantbt/qbt/backtester/engine"
	"github.com/quantbt/qbt/backtester/eventhandlers/portfolio/holdings"
	gctmath "github.com/quantbt/qbt/common/math"
	"github.com/quantbt/qbt/log"
	"github.com/shopspring/decimal"
)

const valueAtRiskPercentile = 5

var annualisation = math.Sqrt(common.TradingDaysPerYear)

// CalculateMetrics derives the performance statistics of a track. A track
// with no equity rows yields zero metrics
func CalculateMetrics(track *engine.Track, start, end time.Time) (*Metrics, error) {
	if track == nil {
		return nil, errNilTrack
	}
	m := &Metrics{
		Name:                track.Name,
		Strategy:            track.Strategy,
		StartDate:           start,
		EndDate:             end,
		InitialCash:         track.InitialCash,
		FinalEquity:         track.FinalEquity,
		WinRateIsSimplified: true,
	}
	book := make(holdings.Book)
	if err := book.Apply(track.Fills...); err != nil {
		return nil, fmt.Errorf("%v %w", track.Name, err)
	}
	m.RealisedPNL = book.RealisedPNL()
	m.ClosedTrades, m.WinningTrades = book.ClosedTrades()
	m.TotalFees = decimal.Zero
	for i := range track.Fills {
		m.TotalFees = m.TotalFees.Add(track.Fills[i].Fees)
	}
	m.TotalTrades = len(track.Fills)
	if m.TotalTrades > 0 {
		var buys int
		for i := range track.Fills {
			if track.Fills[i].IsBuy() {
				buys++
			}
		}
		m.WinRate = float64(buys) / float64(m.TotalTrades)
	}

	if len(track.EquityCurve) == 0 {
		return m, nil
	}
	m.TradingDays = len(track.EquityCurve)
	m.Years = float64(m.TradingDays) / common.TradingDaysPerYear
	m.TotalReturn = track.TotalReturn()
	initial := track.InitialCash.InexactFloat64()
	final := track.FinalEquity.InexactFloat64()
	m.AnnualizedReturn = gctmath.CalculateCompoundAnnualGrowthRate(initial, final, common.TradingDaysPerYear, float64(m.TradingDays)) / 100

	returns := track.Returns()
	m.AnnualizedVolatility = gctmath.SampleStandardDeviation(returns) * annualisation
	if m.AnnualizedVolatility != 0 {
		m.SharpeRatio = m.AnnualizedReturn / m.AnnualizedVolatility
	}
	m.ArithmeticMeanReturn = gctmath.ArithmeticAverage(returns)
	m.SortinoRatio = gctmath.CalculateSortinoRatio(returns, 0, m.ArithmeticMeanReturn) * annualisation
	m.MaxDrawdown, m.MaxDrawdownDuration = maxDrawdown(track.EquityCurve)
	m.CalmarRatio = gctmath.CalculateCalmarRatio(m.AnnualizedReturn, m.MaxDrawdown)

	if len(returns) > 0 {
		m.BestDay, m.WorstDay = returns[0], returns[0]
		for _, r := range returns[1:] {
			m.BestDay = math.Max(m.BestDay, r)
			m.WorstDay = math.Min(m.WorstDay, r)
		}
		var err error
		m.GeometricMeanReturn, err = gctmath.FinancialGeometricAverage(returns)
		if err != nil {
			return nil, fmt.Errorf("%v %w", track.Name, err)
		}
		m.ValueAtRisk5, err = gctmath.Percentile(returns, valueAtRiskPercentile)
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

// maxDrawdown returns the deepest peak to trough decline as a positive
// fraction, and the longest calendar day span of a drawdown. A span starts on
// the first row below the running peak and ends on the row that recovers it.
// A drawdown still open on the last row ends on that row
func maxDrawdown(curve []engine.EquityRecord) (depth float64, days int) {
	if len(curve) == 0 {
		return 0, 0
	}
	peak := curve[0].Equity
	var start time.Time
	underwater := false
	for i := range curve {
		eq := curve[i].Equity
		if eq.GreaterThanOrEqual(peak) {
			if underwater {
				days = max(days, calendarDays(start, curve[i].Date))
				underwater = false
			}
			peak = eq
			continue
		}
		if !underwater {
			underwater = true
			start = curve[i].Date
		}
		if peak.IsPositive() {
			depth = math.Max(depth, peak.Sub(eq).Div(peak).InexactFloat64())
		}
	}
	if underwater {
		days = max(days, calendarDays(start, curve[len(curve)-1].Date))
	}
	return depth, days
}

func calendarDays(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// Compare measures a strategy track against a benchmark track using the
// daily returns both tracks share a date for
func Compare(strategy, benchmark *engine.Track) (*Comparison, error) {
	if strategy == nil || benchmark == nil {
		return nil, errNilTrack
	}
	var start, end time.Time
	if len(benchmark.EquityCurve) > 0 {
		start = benchmark.EquityCurve[0].Date
		end = benchmark.EquityCurve[len(benchmark.EquityCurve)-1].Date
	}
	bm, err := CalculateMetrics(benchmark, start, end)
	if err != nil {
		return nil, err
	}
	sm, err := CalculateMetrics(strategy, start, end)
	if err != nil {
		return nil, err
	}
	c := &Comparison{
		Benchmark:                 benchmark.Name,
		BenchmarkTotalReturn:      bm.TotalReturn,
		BenchmarkAnnualizedReturn: bm.AnnualizedReturn,
		BenchmarkVolatility:       bm.AnnualizedVolatility,
		BenchmarkMaxDrawdown:      bm.MaxDrawdown,
		BenchmarkSharpeRatio:      bm.SharpeRatio,
		Alpha:                     sm.TotalReturn - bm.TotalReturn,
	}

	sReturns, bReturns := alignedReturns(strategy, benchmark)
	c.AlignedDays = len(sReturns)
	if c.AlignedDays < 2 {
		return c, nil
	}
	cov, err := gctmath.SampleCovariance(sReturns, bReturns)
	if err != nil {
		return nil, err
	}
	if v := gctmath.SampleVariance(bReturns); v != 0 {
		c.Beta = cov / v
	}
	diffs := make([]float64, len(sReturns))
	for i := range sReturns {
		diffs[i] = sReturns[i] - bReturns[i]
	}
	c.TrackingError = gctmath.SampleStandardDeviation(diffs) * annualisation
	if c.TrackingError != 0 {
		c.InformationRatio = (sm.AnnualizedReturn - bm.AnnualizedReturn) / c.TrackingError
	}
	return c, nil
}

func alignedReturns(strategy, benchmark *engine.Track) (s, b []float64) {
	bByDate := benchmark.ReturnsByDate()
	for i := 1; i < len(strategy.EquityCurve); i++ {
		prev := strategy.EquityCurve[i-1].Equity
		if prev.IsZero() {
			continue
		}
		br, ok := bByDate[strategy.EquityCurve[i].Date]
		if !ok {
			continue
		}
		s = append(s, strategy.EquityCurve[i].Equity.Div(prev).InexactFloat64()-1)
		b = append(b, br)
	}
	return s, b
}

// Summarise calculates the metrics of every track in a result and compares
// the primary track against each benchmark
func Summarise(r *engine.Result) (*Summary, error) {
	if r == nil || r.Primary == nil {
		return nil, errNilResult
	}
	start, end := r.Metadata.Start, r.Metadata.End
	if len(r.Primary.EquityCurve) > 0 {
		start = r.Primary.EquityCurve[0].Date
		end = r.Primary.EquityCurve[len(r.Primary.EquityCurve)-1].Date
	}
	primary, err := CalculateMetrics(r.Primary, start, end)
	if err != nil {
		return nil, err
	}
	s := &Summary{
		Primary:     *primary,
		Benchmarks:  make(map[string]Metrics, len(r.Benchmarks)),
		Comparisons: make(map[string]Comparison, len(r.Benchmarks)),
	}
	book := make(holdings.Book)
	if err = book.Apply(r.Primary.Fills...); err != nil {
		return nil, err
	}
	s.Holdings = book.Sorted()
	for _, name := range r.BenchmarkNames() {
		bm, err := CalculateMetrics(r.Benchmarks[name], start, end)
		if err != nil {
			return nil, err
		}
		s.Benchmarks[name] = *bm
		c, err := Compare(r.Primary, r.Benchmarks[name])
		if err != nil {
			return nil, err
		}
		s.Comparisons[name] = *c
	}
	return s, nil
}

// PrintSummary logs a summary
func (s *Summary) PrintSummary() {
	if s == nil {
		return
	}
	sep := "|"
	log.Info(common.Statistics, common.ColourH1+"------------------Strategy-----------------------------------"+common.ColourDefault)
	s.Primary.print(sep)
	if len(s.Holdings) > 0 {
		log.Info(common.Statistics, common.ColourH2+"------------------Holdings-----------------------------------"+common.ColourDefault)
		for _, h := range s.Holdings {
			log.Infof(common.Statistics, "%s %s Quantity: %d Bought: %d Sold: %d Realised PNL: %s Fees: %s",
				common.FitStringToLimit(h.Symbol, " ", 6, true), sep, h.Quantity, h.BoughtAmount, h.SoldAmount,
				h.RealisedPNL.StringFixed(2), h.TotalFees.StringFixed(2))
		}
	}
	names := make([]string, 0, len(s.Benchmarks))
	for name := range s.Benchmarks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		bm := s.Benchmarks[name]
		log.Info(common.Statistics, common.ColourH1+"------------------Benchmark "+name+"------------------"+common.ColourDefault)
		bm.print(sep)
		c := s.Comparisons[name]
		log.Infof(common.Statistics, "Alpha: %s%%", common.PercentOf(c.Alpha))
		log.Infof(common.Statistics, "Beta: %.4f", c.Beta)
		log.Infof(common.Statistics, "Tracking error: %s%%", common.PercentOf(c.TrackingError))
		log.Infof(common.Statistics, "Information ratio: %.4f", c.InformationRatio)
		log.Infof(common.Statistics, "Aligned days: %d", c.AlignedDays)
	}
}

func (m *Metrics) print(sep string) {
	log.Infof(common.Statistics, "%s %s Strategy: %s", m.Name, sep, m.Strategy)
	log.Infof(common.Statistics, "%s %s Period: %s to %s (%d trading days, %.2f years)", m.Name, sep,
		m.StartDate.Format(time.DateOnly), m.EndDate.Format(time.DateOnly), m.TradingDays, m.Years)
	log.Infof(common.Statistics, "%s %s Initial cash: %s Final equity: %s", m.Name, sep, m.InitialCash.StringFixed(2), m.FinalEquity.StringFixed(2))
	log.Infof(common.Statistics, "%s %s Total return: %s%% Annualized: %s%%", m.Name, sep, common.PercentOf(m.TotalReturn), common.PercentOf(m.AnnualizedReturn))
	log.Infof(common.Statistics, "%s %s Volatility: %s%%", m.Name, sep, common.PercentOf(m.AnnualizedVolatility))
	log.Infof(common.Statistics, "%s %s Mean daily return: %s%% Geometric: %s%%", m.Name, sep,
		common.PercentOf(m.ArithmeticMeanReturn), common.PercentOf(m.GeometricMeanReturn))
	log.Infof(common.Statistics, "%s %s Sharpe: %.4f Sortino: %.4f Calmar: %.4f", m.Name, sep, m.SharpeRatio, m.SortinoRatio, m.CalmarRatio)
	log.Infof(common.Statistics, "%s %s Max drawdown: %s%% over %d days", m.Name, sep, common.PercentOf(m.MaxDrawdown), m.MaxDrawdownDuration)
	log.Infof(common.Statistics, "%s %s Best day: %s%% Worst day: %s%% VaR 5%%: %s%%", m.Name, sep,
		common.PercentOf(m.BestDay), common.PercentOf(m.WorstDay), common.PercentOf(m.ValueAtRisk5))
	winRate := "Win rate"
	if m.WinRateIsSimplified {
		winRate = "Buy ratio"
	}
	log.Infof(common.Statistics, "%s %s Trades: %d %s: %s%% Closed: %d Winning: %d", m.Name, sep,
		m.TotalTrades, winRate, common.PercentOf(m.WinRate), m.ClosedTrades, m.WinningTrades)
	log.Infof(common.Statistics, "%s %s Realised PNL: %s Fees: %s", m.Name, sep, m.RealisedPNL.StringFixed(2), m.TotalFees.StringFixed(2))
}
