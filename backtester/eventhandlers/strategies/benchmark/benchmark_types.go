package benchmark

import "errors"

const (
	// Name is the strategy name
	Name             = "market-benchmark"
	benchmarkTypeKey = "benchmark-type"
	description      = `The market benchmark spends all of its cash on an index tracking ETF on the first bar and holds it. It gives a reference equity curve to compare another strategy with`
)

// Benchmark types
const (
	SP500           = "SP500"
	NASDAQ100       = "NASDAQ100"
	Russell2000     = "RUSSELL2000"
	TotalMarket     = "TOTAL_MARKET"
	Dow             = "DOW"
	EmergingMarkets = "EMERGING_MARKETS"
	International   = "INTERNATIONAL"
	// DefaultType is used when no type, or an unknown one, is configured
	DefaultType = SP500
)

var errUnknownBenchmarkType = errors.New("unknown benchmark type")

type proxy struct {
	symbol      string
	description string
}

var proxies = map[string]proxy{
	SP500:           {"SPY", "S&P 500 (SPY ETF) - Large cap U.S. stocks"},
	NASDAQ100:       {"QQQ", "NASDAQ 100 (QQQ ETF) - Large cap tech stocks"},
	Russell2000:     {"IWM", "Russell 2000 (IWM ETF) - Small cap U.S. stocks"},
	TotalMarket:     {"VTI", "Total Stock Market (VTI ETF) - Entire U.S. stock market"},
	Dow:             {"DIA", "Dow Jones (DIA ETF) - 30 large U.S. companies"},
	EmergingMarkets: {"EEM", "Emerging Markets (EEM ETF) - Emerging market stocks"},
	International:   {"EFA", "International Developed (EFA ETF) - International developed markets"},
}

// Strategy is an implementation of the Handler interface
type Strategy struct {
	benchmarkType       string
	symbol              string
	initialPurchaseMade bool
}
