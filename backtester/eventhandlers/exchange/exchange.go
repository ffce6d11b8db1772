package exchange

import (
	"fmt"
	"time"

	"github.com/quantbt/qbt/backtester/common"
	"github.com/quantbt/qbt/backtester/eventhandlers/exchange/slippage"
	"github.com/quantbt/qbt/backtester/eventhandlers/portfolio"
	"github.com/quantbt/qbt/backtester/eventtypes/fill"
	"github.com/quantbt/qbt/backtester/eventtypes/order"
	"github.com/quantbt/qbt/log"
	"github.com/shopspring/decimal"
)

// New returns an Exchange using the settings provided
func New(s Settings) (*Exchange, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Exchange{settings: s}, nil
}

// Validate ensures the rates are usable
func (s *Settings) Validate() error {
	one := decimal.NewFromInt(1)
	if s.CommissionRate.IsNegative() || s.CommissionRate.GreaterThanOrEqual(one) {
		return fmt.Errorf("commission %w, received %v", errInvalidRate, s.CommissionRate)
	}
	if s.SlippageRate.IsNegative() || s.SlippageRate.GreaterThanOrEqual(one) {
		return fmt.Errorf("slippage %w, received %v", errInvalidRate, s.SlippageRate)
	}
	return nil
}

// GetSettings returns the cost model in use
func (e *Exchange) GetSettings() Settings {
	return e.settings
}

// ExecuteOrders fills the orders in the order given against the prices. Each
// order produces at most one fill. Orders without a usable price, or which
// cannot be afforded or covered by the position held, are dropped rather than
// treated as errors. Orders too large for the cash or position available are
// shrunk to fit
func (e *Exchange) ExecuteOrders(orders []order.Order, prices map[string]decimal.Decimal, state *portfolio.State, t time.Time) ([]fill.Fill, error) {
	if state == nil {
		return nil, errNilState
	}
	var fills []fill.Fill
	for x := range orders {
		f, ok := e.executeOrder(&orders[x], prices, state, t)
		if !ok {
			continue
		}
		fills = append(fills, f)
	}
	return fills, nil
}

func (e *Exchange) executeOrder(o *order.Order, prices map[string]decimal.Decimal, state *portfolio.State, t time.Time) (fill.Fill, bool) {
	if o.Quantity == 0 {
		log.Debugf(common.Exchange, "%v dropping zero quantity order", o.Symbol)
		return fill.Fill{}, false
	}
	price, ok := prices[o.Symbol]
	if !ok || !price.IsPositive() {
		log.Debugf(common.Exchange, "%v %v dropping order, no usable price", t.Format(time.DateOnly), o.Symbol)
		return fill.Fill{}, false
	}
	f := fill.Fill{
		OrderID: o.ID,
		Symbol:  o.Symbol,
		Time:    t,
	}
	executionPrice := slippage.ApplyRate(price, e.settings.SlippageRate, o.IsBuy())
	quantity := o.Quantity
	if o.IsBuy() {
		affordable := e.affordableQuantity(state.Cash, price, executionPrice, quantity)
		if affordable <= 0 {
			log.Debugf(common.Exchange, "%v %v dropping buy of %d, insufficient cash %v", t.Format(time.DateOnly), o.Symbol, quantity, state.Cash)
			return fill.Fill{}, false
		}
		if affordable != quantity {
			f.AppendReason(fmt.Sprintf("Order size shrunk from %v to %v to remain within available cash", quantity, affordable))
			quantity = affordable
		}
	} else {
		held := state.GetPosition(o.Symbol)
		if held <= 0 {
			log.Debugf(common.Exchange, "%v %v dropping sell of %d, nothing held", t.Format(time.DateOnly), o.Symbol, quantity)
			return fill.Fill{}, false
		}
		if -quantity > held {
			f.AppendReason(fmt.Sprintf("Order size shrunk from %v to %v to remain within position held", quantity, -held))
			quantity = -held
		}
	}
	if f.Reason != "" {
		log.Debugf(common.Exchange, "%v %v %v", t.Format(time.DateOnly), o.Symbol, f.Reason)
	}

	tradeValue, fees, slippageCost := e.costs(quantity, price, executionPrice)
	f.Quantity = quantity
	f.Price = executionPrice
	f.Fees = fees
	f.Slippage = slippageCost
	if quantity > 0 {
		state.Cash = state.Cash.Sub(tradeValue.Add(fees).Add(slippageCost))
	} else {
		state.Cash = state.Cash.Add(tradeValue.Sub(fees).Sub(slippageCost))
	}
	state.UpdatePosition(o.Symbol, quantity)
	return f, true
}

// costs returns the trade value, commission and slippage of quantity units
func (e *Exchange) costs(quantity int64, price, executionPrice decimal.Decimal) (tradeValue, fees, slippageCost decimal.Decimal) {
	q := decimal.NewFromInt(quantity).Abs()
	tradeValue = q.Mul(executionPrice)
	fees = tradeValue.Mul(e.settings.CommissionRate)
	slippageCost = slippage.Cost(quantity, price, executionPrice)
	return tradeValue, fees, slippageCost
}

// affordableQuantity returns the largest quantity up to requested whose trade
// value, fees and slippage fit within cash
func (e *Exchange) affordableQuantity(cash, price, executionPrice decimal.Decimal, requested int64) int64 {
	if !cash.IsPositive() {
		return 0
	}
	fits := func(q int64) bool {
		tradeValue, fees, slippageCost := e.costs(q, price, executionPrice)
		return tradeValue.Add(fees).Add(slippageCost).LessThanOrEqual(cash)
	}
	if fits(requested) {
		return requested
	}
	unitCost := executionPrice.Mul(decimal.NewFromInt(1).Add(e.settings.CommissionRate)).Add(executionPrice.Sub(price).Abs())
	n := cash.Div(unitCost).Floor().IntPart()
	if n > requested {
		n = requested
	}
	// division is rounded so step down until the quantity is affordable
	for n > 0 && !fits(n) {
		n--
	}
	return n
}
