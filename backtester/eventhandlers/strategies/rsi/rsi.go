package rsi

import (
	"fmt"
	"math"
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
	Name            = "rsi"
	rsiColumnKey    = "rsi-column"
	rsiLowKey       = "rsi-low"
	rsiHighKey      = "rsi-high"
	positionSizeKey = "position-size"
	defaultColumn   = "RSI"
	description     = `The relative strength index is a technical indicator used in the analysis of financial markets. It is intended to chart the current and historical strength or weakness of a stock or market based on the closing prices of a recent trading period`
)

var errLowAboveHigh = fmt.Errorf("%w rsi-low must be below rsi-high", base.ErrInvalidCustomSettings)

// Strategy is an implementation of the Handler interface
type Strategy struct {
	rsiColumn    string
	rsiLow       decimal.Decimal
	rsiHigh      decimal.Decimal
	positionSize decimal.Decimal
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

// OnBar buys position-size of total equity when a symbol's RSI is at or below
// rsi-low and nothing is held, and sells the whole position when the RSI is
// at or above rsi-high. Symbols still warming up are skipped
func (s *Strategy) OnBar(t time.Time, slice data.Slice, state *portfolio.State) ([]order.Order, error) {
	if state == nil {
		return nil, common.ErrNilArguments
	}
	if slice.IsEmpty() {
		return nil, nil
	}
	prices := slice.Closes()
	totalEquity := state.TotalEquity(prices)
	symbols := slice.Symbols()
	quantities := make(map[string]int64)
	for _, sym := range symbols {
		v := slice.Value(sym, s.rsiColumn)
		if math.IsNaN(v) {
			continue
		}
		price, ok := prices[sym]
		if !ok {
			continue
		}
		latestRSIValue := decimal.NewFromFloat(v)
		position := state.GetPosition(sym)
		switch {
		case latestRSIValue.GreaterThanOrEqual(s.rsiHigh) && position > 0:
			quantities[sym] = -position
		case latestRSIValue.LessThanOrEqual(s.rsiLow) && position == 0:
			positionValue := totalEquity.Mul(s.positionSize)
			if positionValue.GreaterThan(state.Cash) {
				positionValue = state.Cash
			}
			quantities[sym] = base.SharesFor(positionValue, price)
		default:
			continue
		}
		log.Debugf(common.Strategy, "%v %v RSI at %v, ordering %v", t.Format(time.DateOnly), sym, latestRSIValue, quantities[sym])
	}
	return base.MarketOrders(t, symbols, quantities)
}

// SetCustomSettings allows a user to modify the RSI limits in their config
func (s *Strategy) SetCustomSettings(customSettings map[string]any) error {
	for k, v := range customSettings {
		switch k {
		case rsiHighKey:
			rsiHigh, err := base.FloatSetting(k, v, 0, 100)
			if err != nil {
				return err
			}
			s.rsiHigh = decimal.NewFromFloat(rsiHigh)
		case rsiLowKey:
			rsiLow, err := base.FloatSetting(k, v, 0, 100)
			if err != nil {
				return err
			}
			s.rsiLow = decimal.NewFromFloat(rsiLow)
		case positionSizeKey:
			size, err := base.FloatSetting(k, v, 0, 1)
			if err != nil {
				return err
			}
			s.positionSize = decimal.NewFromFloat(size)
		case rsiColumnKey:
			column, err := base.StringSetting(k, v)
			if err != nil {
				return err
			}
			s.rsiColumn = column
		default:
			return base.UnknownSetting(k, v)
		}
	}
	if s.rsiLow.GreaterThanOrEqual(s.rsiHigh) {
		return fmt.Errorf("%w, received %v and %v", errLowAboveHigh, s.rsiLow, s.rsiHigh)
	}
	return nil
}

// SetDefaults sets the custom settings to their default values
func (s *Strategy) SetDefaults() {
	s.rsiHigh = decimal.NewFromInt(70)
	s.rsiLow = decimal.NewFromInt(30)
	s.positionSize = decimal.NewFromFloat(0.2)
	s.rsiColumn = defaultColumn
}

// Settings returns the settings in use for run metadata
func (s *Strategy) Settings() map[string]any {
	return map[string]any{
		rsiColumnKey:    s.rsiColumn,
		rsiLowKey:       s.rsiLow.InexactFloat64(),
		rsiHighKey:      s.rsiHigh.InexactFloat64(),
		positionSizeKey: s.positionSize.InexactFloat64(),
	}
}
