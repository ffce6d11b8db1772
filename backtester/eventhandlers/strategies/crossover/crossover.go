package crossover

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
	Name            = "cross-over"
	positionSizeKey = "position-size"
	signalColumnKey = "signal-column"
	defaultSignal   = "EMA_Signal"
	description     = `The cross-over strategy follows a binary signal column. When a symbol's signal turns from 0 to 1 it opens a long position sized as a fraction of total equity. When the signal turns from 1 to 0 the long position is closed`
)

// Strategy is an implementation of the Handler interface
type Strategy struct {
	positionSize    decimal.Decimal
	signalColumn    string
	previousSignals map[string]float64
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

// OnBar compares every symbol's signal with the one seen on the previous bar.
// A 0 to 1 transition closes any short and buys position-size of total equity
// when the cash held covers it. A 1 to 0 transition sells the long position.
// Symbols with a NaN signal are skipped and keep their previous signal
func (s *Strategy) OnBar(t time.Time, slice data.Slice, state *portfolio.State) ([]order.Order, error) {
	if state == nil {
		return nil, common.ErrNilArguments
	}
	if slice.IsEmpty() {
		return nil, nil
	}
	if s.previousSignals == nil {
		s.previousSignals = make(map[string]float64)
	}
	prices := slice.Closes()
	totalEquity := state.TotalEquity(prices)
	var resp []order.Order
	for _, sym := range slice.Symbols() {
		current := slice.Value(sym, s.signalColumn)
		if math.IsNaN(current) {
			continue
		}
		previous := s.previousSignals[sym]
		if current != previous {
			price, ok := prices[sym]
			if !ok {
				log.Debugf(common.Strategy, "%v %v signal changed without a usable close, waiting for the next bar", t.Format(time.DateOnly), sym)
				continue
			}
			position := state.GetPosition(sym)
			var quantities []int64
			switch {
			case current == 1 && previous == 0 && position <= 0:
				if position < 0 {
					quantities = append(quantities, -position)
				}
				positionValue := totalEquity.Mul(s.positionSize)
				shares := base.SharesFor(positionValue, price)
				if shares > 0 && positionValue.LessThanOrEqual(state.Cash) {
					quantities = append(quantities, shares)
				}
			case current == 0 && previous == 1 && position > 0:
				quantities = append(quantities, -position)
			}
			for _, q := range quantities {
				o, err := order.NewMarket(sym, q, t)
				if err != nil {
					return nil, err
				}
				resp = append(resp, o)
			}
		}
		s.previousSignals[sym] = current
	}
	return resp, nil
}

// SetCustomSettings allows a user to modify the position size and signal
// column in their config
func (s *Strategy) SetCustomSettings(customSettings map[string]any) error {
	for k, v := range customSettings {
		switch k {
		case positionSizeKey:
			f, err := base.FloatSetting(k, v, 0, 1)
			if err != nil {
				return err
			}
			s.positionSize = decimal.NewFromFloat(f)
		case signalColumnKey:
			c, err := base.StringSetting(k, v)
			if err != nil {
				return err
			}
			s.signalColumn = c
		default:
			return base.UnknownSetting(k, v)
		}
	}
	return nil
}

// SetDefaults sets the custom settings to their default values
func (s *Strategy) SetDefaults() {
	s.positionSize = decimal.NewFromFloat(0.2)
	s.signalColumn = defaultSignal
	s.previousSignals = make(map[string]float64)
}

// Settings returns the settings in use for run metadata
func (s *Strategy) Settings() map[string]any {
	return map[string]any{
		positionSizeKey: s.positionSize.InexactFloat64(),
		signalColumnKey: s.signalColumn,
	}
}

func (s *Strategy) String() string {
	return fmt.Sprintf("%v position-size %v signal-column %v", Name, s.positionSize, s.signalColumn)
}
