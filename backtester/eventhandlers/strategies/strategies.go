package strategies

import (
	"fmt"
	"sort"
	"strings"

	"github.com/quantbt/qbt/backtester/eventhandlers/strategies/base"
	"github.com/quantbt/qbt/backtester/eventhandlers/strategies/benchmark"
	"github.com/quantbt/qbt/backtester/eventhandlers/strategies/buyandhold"
	"github.com/quantbt/qbt/backtester/eventhandlers/strategies/crossover"
	"github.com/quantbt/qbt/backtester/eventhandlers/strategies/dollarcostaverage"
	"github.com/quantbt/qbt/backtester/eventhandlers/strategies/rsi"
)

var registry = map[string]func() Handler{
	crossover.Name:         func() Handler { return new(crossover.Strategy) },
	buyandhold.Name:        func() Handler { return new(buyandhold.Strategy) },
	benchmark.Name:         func() Handler { return new(benchmark.Strategy) },
	rsi.Name:               func() Handler { return new(rsi.Strategy) },
	dollarcostaverage.Name: func() Handler { return new(dollarcostaverage.Strategy) },
}

// LoadStrategyByName returns a new strategy with its defaults set. Every call
// returns a separate instance so tracks never share state
func LoadStrategyByName(name string) (Handler, error) {
	newStrategy, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("strategy '%v' %w", name, base.ErrStrategyNotFound)
	}
	s := newStrategy()
	s.SetDefaults()
	return s, nil
}

// GetStrategies returns a new instance of every strategy, ordered by name
func GetStrategies() []Handler {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	resp := make([]Handler, 0, len(names))
	for x := range names {
		s := registry[names[x]]()
		s.SetDefaults()
		resp = append(resp, s)
	}
	return resp
}

// Settings returns the settings of a strategy when it reports them
func Settings(h Handler) map[string]any {
	if sp, ok := h.(SettingsProvider); ok {
		return sp.Settings()
	}
	return nil
}

// ExtraSymbols returns the symbols a strategy needs beyond the requested
// universe
func ExtraSymbols(h Handler) []string {
	if sp, ok := h.(SymbolProvider); ok {
		return sp.Symbols()
	}
	return nil
}
