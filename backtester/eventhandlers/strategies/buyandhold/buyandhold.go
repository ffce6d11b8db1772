package buyandhold

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
	"github.com/shopspring/decimal"
)

const (
	// Name is the strategy name
	Name = "buy-and-hold"
	// EqualWeight splits the starting cash evenly across the symbols traded
	EqualWeight         = "equal-weight"
	allocationMethodKey = "allocation-method"
	description         = `Buy and hold spends its cash on the first bar with data, split evenly across every symbol present, and then never trades again`
)

var errUnsupportedAllocation = fmt.Errorf("%w unsupported allocation method", base.ErrInvalidCustomSettings)

// Strategy is an implementation of the Handler interface
type Strategy struct {
	allocationMethod    string
	initialPurchaseMade bool
}

// Name returns the name of the strategy
func (s *Strategy) Name() string {
	return Name
}

// Description provides a nice overview of the strategy
func (s *Strategy) Description() string {
	return description
}

// OnBar buys on the first non-empty bar only
func (s *Strategy) OnBar(t time.Time, slice data.Slice, state *portfolio.State) ([]order.Order, error) {
	if state == nil {
		return nil, common.ErrNilArguments
	}
	if s.initialPurchaseMade || slice.IsEmpty() {
		return nil, nil
	}
	s.initialPurchaseMade = true
	symbols := slice.Symbols()
	allocation := state.Cash.Div(decimal.NewFromInt(int64(len(symbols))))
	quantities := make(map[string]int64, len(symbols))
	for _, sym := range symbols {
		price, ok := slice.Close(sym)
		if !ok {
			log.Debugf(common.Strategy, "%v %v no usable close, it will not be bought", t.Format(time.DateOnly), sym)
			continue
		}
		quantities[sym] = base.SharesFor(allocation, price)
	}
	return base.MarketOrders(t, symbols, quantities)
}

// SetCustomSettings accepts the allocation method, of which only equal
// weighting is supported
func (s *Strategy) SetCustomSettings(customSettings map[string]any) error {
	for k, v := range customSettings {
		switch k {
		case allocationMethodKey:
			method, err := base.StringSetting(k, v)
			if err != nil {
				return err
			}
			if !strings.EqualFold(method, EqualWeight) {
				return fmt.Errorf("%w %v", errUnsupportedAllocation, method)
			}
			s.allocationMethod = EqualWeight
		default:
			return base.UnknownSetting(k, v)
		}
	}
	return nil
}

// SetDefaults sets the custom settings to their default values
func (s *Strategy) SetDefaults() {
	s.allocationMethod = EqualWeight
	s.initialPurchaseMade = false
}

// Settings returns the settings in use for run metadata
func (s *Strategy) Settings() map[string]any {
	return map[string]any{allocationMethodKey: s.allocationMethod}
}
