package dollarcostaverage

import (
	"time"

	"github.com/quantbt/qbt/backtester/common"
	"github.com/quantbt/qbt/backtester/data"
	"github.com/quantbt/qbt/backtester/eventhandlers/portfolio"
	"github.com/quantbt/qbt/backtester/eventhandlers/strategies/base"
	"github.com/quantbt/qbt/backtester/eventtypes/order"
	"github.com/shopspring/decimal"
)

const (
	// Name is the strategy name
	Name        = "dollarcostaverage"
	description = `Dollar-cost averaging (DCA) is an investment strategy in which an investor divides up the total amount to be invested across periodic purchases of a target asset in an effort to reduce the impact of volatility on the overall purchase. Every bar a twentieth of the remaining cash is split evenly across the symbols present`
)

// purchaseFraction is the share of remaining cash invested each bar
var purchaseFraction = decimal.NewFromFloat(0.05)

// Strategy is an implementation of the Handler interface
type Strategy struct {
	purchases int
}

// Name returns the name
func (s *Strategy) Name() string {
	return Name
}

// Description provides a nice overview of the strategy
// be it definition of terms or to highlight its purpose
func (s *Strategy) Description() string {
	return description
}

// OnBar buys every symbol with a usable close every bar
func (s *Strategy) OnBar(t time.Time, slice data.Slice, state *portfolio.State) ([]order.Order, error) {
	if state == nil {
		return nil, common.ErrNilArguments
	}
	prices := slice.Closes()
	if len(prices) == 0 {
		return nil, nil
	}
	allocation := state.Cash.Mul(purchaseFraction).Div(decimal.NewFromInt(int64(len(prices))))
	symbols := slice.Symbols()
	quantities := make(map[string]int64, len(prices))
	for sym, price := range prices {
		quantities[sym] = base.SharesFor(allocation, price)
	}
	s.purchases++
	return base.MarketOrders(t, symbols, quantities)
}

// Purchases returns how many bars the strategy has bought on
func (s *Strategy) Purchases() int {
	return s.purchases
}

// SetCustomSettings not required for DCA
func (s *Strategy) SetCustomSettings(_ map[string]any) error {
	return base.ErrCustomSettingsUnsupported
}

// SetDefaults resets the purchase count
func (s *Strategy) SetDefaults() {
	s.purchases = 0
}
