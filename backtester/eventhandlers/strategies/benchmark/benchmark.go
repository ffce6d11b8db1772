package benchmark

import (
	"fmt"
	"strings"
	"time"

	"github.com/quantbt/qbt/backtester/common"
	"github.com/quantbt/qbt/backtester/data"
	"github.com/quantbt/qbt/backtester/eventhandlers/portfolio"
	"github.com/quantbt/qbt/backtester/eventhandlers/strategies/base"
	"github.com/quantbt/qbt/backtester/eventtypes/order"
	"github.com/quantbt/qbt/log"
)

// GetAvailableBenchmarks returns every supported benchmark type with a
// description of the index it follows
func GetAvailableBenchmarks() map[string]string {
	resp := make(map[string]string, len(proxies))
	for k, v := range proxies {
		resp[k] = v.description
	}
	return resp
}

// SymbolFor returns the ETF symbol used for a benchmark type. Unknown types
// fall back to the S&P 500 proxy
func SymbolFor(benchmarkType string) string {
	if p, ok := proxies[strings.ToUpper(benchmarkType)]; ok {
		return p.symbol
	}
	return proxies[DefaultType].symbol
}

// IsKnownType returns whether the benchmark type has its own proxy
func IsKnownType(benchmarkType string) bool {
	_, ok := proxies[strings.ToUpper(benchmarkType)]
	return ok
}

// UniverseWithBenchmark returns the universe with the benchmark's symbol
// appended when it is not already present
func UniverseWithBenchmark(benchmarkType string, universe []string) []string {
	sym := SymbolFor(benchmarkType)
	resp := make([]string, 0, len(universe)+1)
	resp = append(resp, universe...)
	for x := range universe {
		if strings.EqualFold(universe[x], sym) {
			return resp
		}
	}
	return append(resp, sym)
}

// Name returns the name of the strategy
func (s *Strategy) Name() string {
	return Name
}

// Description provides a nice overview of the strategy
// be it definition of terms or to highlight its purpose
func (s *Strategy) Description() string {
	return description
}

// Symbols returns the symbol the benchmark needs in the data universe
func (s *Strategy) Symbols() []string {
	return []string{s.symbol}
}

// BenchmarkType returns the configured benchmark type
func (s *Strategy) BenchmarkType() string {
	return s.benchmarkType
}

// OnBar buys as many shares of the proxy as the cash allows on the first bar
// and holds them afterwards. Only the first bar is considered, even when the
// proxy has no usable close on it
func (s *Strategy) OnBar(t time.Time, slice data.Slice, state *portfolio.State) ([]order.Order, error) {
	if state == nil {
		return nil, common.ErrNilArguments
	}
	if s.initialPurchaseMade {
		return nil, nil
	}
	s.initialPurchaseMade = true
	price, ok := slice.Close(s.symbol)
	if !ok {
		log.Warnf(common.Strategy, "%v benchmark %v has no usable close on %v, it will hold cash", Name, s.symbol, t.Format(time.DateOnly))
		return nil, nil
	}
	shares := base.SharesFor(state.Cash, price)
	return base.MarketOrders(t, []string{s.symbol}, map[string]int64{s.symbol: shares})
}

// SetCustomSettings sets the benchmark type. Unknown types use the S&P 500
// proxy
func (s *Strategy) SetCustomSettings(customSettings map[string]any) error {
	for k, v := range customSettings {
		switch k {
		case benchmarkTypeKey:
			bt, err := base.StringSetting(k, v)
			if err != nil {
				return err
			}
			s.setType(bt)
		default:
			return base.UnknownSetting(k, v)
		}
	}
	return nil
}

// SetDefaults sets the custom settings to their default values
func (s *Strategy) SetDefaults() {
	s.setType(DefaultType)
	s.initialPurchaseMade = false
}

// Settings returns the settings in use for run metadata
func (s *Strategy) Settings() map[string]any {
	return map[string]any{benchmarkTypeKey: s.benchmarkType}
}

func (s *Strategy) setType(bt string) {
	bt = strings.ToUpper(bt)
	if !IsKnownType(bt) {
		log.Warnf(common.Strategy, "%v %v, using %v", errUnknownBenchmarkType, bt, DefaultType)
	}
	s.benchmarkType = bt
	s.symbol = SymbolFor(bt)
}

func (s *Strategy) String() string {
	return fmt.Sprintf("%v %v (%v)", Name, s.benchmarkType, s.symbol)
}
