package signals

import "errors"

// Generator names accepted by LoadGeneratorByName
const (
	EMAName  = "ema"
	MACDName = "macd"
	RSIName  = "rsi"
)

// Column names written by the generators
const (
	EMASignalColumn         = "EMA_Signal"
	MACDColumn              = "MACD"
	MACDSignalColumn        = "MACD_Signal"
	MACDHistogramColumn     = "MACD_Histogram"
	MACDTradingSignalColumn = "MACD_Trading_Signal"
	RSIColumn               = "RSI"
	RSISignalColumn         = "RSI_Signal"
	defaultSourceColumn     = "Close"
	shortPeriodKey          = "short-period"
	longPeriodKey           = "long-period"
	fastPeriodKey           = "fast-period"
	slowPeriodKey           = "slow-period"
	signalPeriodKey         = "signal-period"
	periodKey               = "period"
	overboughtKey           = "overbought"
	oversoldKey             = "oversold"
	columnKey               = "column"
)

var (
	// ErrGeneratorNotFound is returned when no generator matches a name
	ErrGeneratorNotFound = errors.New("signal generator not found")
	// ErrInvalidSettings is returned for unusable generator settings
	ErrInvalidSettings = errors.New("invalid signal settings")
)

// EMA adds a short and a long exponential moving average and a binary signal
// which is 1 while the short average is above the long one
type EMA struct {
	ShortPeriod int
	LongPeriod  int
	Column      string
}

// MACD adds the moving average convergence divergence line, its signal line,
// the histogram and a binary signal which is 1 while MACD is above its signal
type MACD struct {
	FastPeriod   int
	SlowPeriod   int
	SignalPeriod int
	Column       string
}

// RSI adds the relative strength index and a signal which is 1 when oversold,
// -1 when overbought and 0 otherwise
type RSI struct {
	Period     int
	Overbought float64
	Oversold   float64
	Column     string
}
