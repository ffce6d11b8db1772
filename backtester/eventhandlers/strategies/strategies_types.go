package strategies

import (
	"time"

	"github.com/quantbt/qbt/backtester/data"
	"github.com/quantbt/qbt/backtester/eventhandlers/portfolio"
	"github.com/quantbt/qbt/backtester/eventtypes/order"
)

// Handler defines all functions required to run strategies against data
// events. OnBar receives a read-only slice and may keep its own state between
// calls
type Handler interface {
	Name() string
	Description() string
	OnBar(time.Time, data.Slice, *portfolio.State) ([]order.Order, error)
	SetCustomSettings(map[string]any) error
	SetDefaults()
}

// SymbolProvider is implemented by strategies which need symbols in the data
// universe beyond the ones requested, such as benchmarks
type SymbolProvider interface {
	Symbols() []string
}

// SettingsProvider is implemented by strategies which report their settings
// in run metadata
type SettingsProvider interface {
	Settings() map[string]any
}
