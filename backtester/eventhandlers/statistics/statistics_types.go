package statistics

import (
	"errors"
	"time"

	"github.com/quantbt/qbt/backtester/eventhandlers/portfolio/holdings"
	"github.com/shopspring/decimal"
)

var (
	errNilTrack  = errors.New("nil track")
	errNilResult = errors.New("nil result")
)

// Metrics holds the performance statistics of one track. Returns, volatility,
// drawdown and value at risk are fractions, 0.1 being 10%
type Metrics struct {
	Name                 string          `json:"name" yaml:"name"`
	Strategy             string          `json:"strategy" yaml:"strategy"`
	StartDate            time.Time       `json:"start-date" yaml:"start-date"`
	EndDate              time.Time       `json:"end-date" yaml:"end-date"`
	InitialCash          decimal.Decimal `json:"initial-cash" yaml:"initial-cash"`
	FinalEquity          decimal.Decimal `json:"final-equity" yaml:"final-equity"`
	TotalReturn          float64         `json:"total-return" yaml:"total-return"`
	AnnualizedReturn     float64         `json:"annualized-return" yaml:"annualized-return"`
	AnnualizedVolatility float64         `json:"annualized-volatility" yaml:"annualized-volatility"`
	SharpeRatio          float64         `json:"sharpe-ratio" yaml:"sharpe-ratio"`
	SortinoRatio         float64         `json:"sortino-ratio" yaml:"sortino-ratio"`
	ArithmeticMeanReturn float64         `json:"arithmetic-mean-return" yaml:"arithmetic-mean-return"`
	GeometricMeanReturn  float64         `json:"geometric-mean-return" yaml:"geometric-mean-return"`
	MaxDrawdown          float64         `json:"max-drawdown" yaml:"max-drawdown"`
	MaxDrawdownDuration  int             `json:"max-drawdown-duration-days" yaml:"max-drawdown-duration-days"`
	CalmarRatio          float64         `json:"calmar-ratio" yaml:"calmar-ratio"`
	TotalTrades          int             `json:"total-trades" yaml:"total-trades"`
	WinRate              float64         `json:"win-rate" yaml:"win-rate"`
	WinRateIsSimplified  bool            `json:"win-rate-is-simplified" yaml:"win-rate-is-simplified"`
	ClosedTrades         int             `json:"closed-trades" yaml:"closed-trades"`
	WinningTrades        int             `json:"winning-trades" yaml:"winning-trades"`
	RealisedPNL          decimal.Decimal `json:"realised-pnl" yaml:"realised-pnl"`
	TotalFees            decimal.Decimal `json:"total-fees" yaml:"total-fees"`
	BestDay              float64         `json:"best-day" yaml:"best-day"`
	WorstDay             float64         `json:"worst-day" yaml:"worst-day"`
	ValueAtRisk5         float64         `json:"value-at-risk-5" yaml:"value-at-risk-5"`
	TradingDays          int             `json:"trading-days" yaml:"trading-days"`
	Years                float64         `json:"years" yaml:"years"`
}

// Comparison holds the performance of a strategy relative to a benchmark
type Comparison struct {
	Benchmark                 string  `json:"benchmark" yaml:"benchmark"`
	BenchmarkTotalReturn      float64 `json:"benchmark-total-return" yaml:"benchmark-total-return"`
	BenchmarkAnnualizedReturn float64 `json:"benchmark-annualized-return" yaml:"benchmark-annualized-return"`
	BenchmarkVolatility       float64 `json:"benchmark-volatility" yaml:"benchmark-volatility"`
	BenchmarkMaxDrawdown      float64 `json:"benchmark-max-drawdown" yaml:"benchmark-max-drawdown"`
	BenchmarkSharpeRatio      float64 `json:"benchmark-sharpe-ratio" yaml:"benchmark-sharpe-ratio"`
	Alpha                     float64 `json:"alpha" yaml:"alpha"`
	Beta                      float64 `json:"beta" yaml:"beta"`
	TrackingError             float64 `json:"tracking-error" yaml:"tracking-error"`
	InformationRatio          float64 `json:"information-ratio" yaml:"information-ratio"`
	AlignedDays               int     `json:"aligned-days" yaml:"aligned-days"`
}

// Summary holds every statistic of a run
type Summary struct {
	Primary     Metrics               `json:"primary" yaml:"primary"`
	Benchmarks  map[string]Metrics    `json:"benchmarks,omitempty" yaml:"benchmarks,omitempty"`
	Comparisons map[string]Comparison `json:"comparisons,omitempty" yaml:"comparisons,omitempty"`
	Holdings    []*holdings.Holding   `json:"holdings,omitempty" yaml:"holdings,omitempty"`
}
