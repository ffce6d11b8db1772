package holdings

import (
	"fmt"
	"sort"

	"github.com/quantbt/qbt/backtester/eventtypes/fill"
	"github.com/shopspring/decimal"
)

// Create takes a fill and creates a new holding for its symbol
func Create(f *fill.Fill) (*Holding, error) {
	h := &Holding{Symbol: f.Symbol}
	if err := h.Update(f); err != nil {
		return nil, err
	}
	return h, nil
}

// Update applies a fill to the holding. Costs are tracked on an average cost
// basis and realised profit is booked whenever a position is reduced
func (h *Holding) Update(f *fill.Fill) error {
	if f.Symbol != h.Symbol {
		return fmt.Errorf("%w: %v %v", errSymbolMismatch, f.Symbol, h.Symbol)
	}
	h.Timestamp = f.Time
	h.TotalFees = h.TotalFees.Add(f.Fees)
	h.TotalSlippage = h.TotalSlippage.Add(f.Slippage)
	if f.Quantity == 0 {
		return nil
	}
	// fees and slippage are part of the cost of the trade
	costs := f.Fees.Add(f.Slippage)
	if f.IsBuy() {
		h.BoughtAmount += f.Quantity
		h.BoughtValue = h.BoughtValue.Add(f.TradeValue())
	} else {
		h.SoldAmount -= f.Quantity
		h.SoldValue = h.SoldValue.Add(f.TradeValue())
	}

	sameDirection := h.Quantity == 0 || (h.Quantity > 0) == (f.Quantity > 0)
	if sameDirection {
		total := h.AverageCost.Mul(decimal.NewFromInt(abs(h.Quantity))).Add(f.TradeValue()).Add(costs)
		h.Quantity += f.Quantity
		h.AverageCost = total.Div(decimal.NewFromInt(abs(h.Quantity)))
		return nil
	}

	closing := min(abs(f.Quantity), abs(h.Quantity))
	closed := decimal.NewFromInt(closing)
	var pnl decimal.Decimal
	if h.Quantity > 0 {
		pnl = f.Price.Sub(h.AverageCost).Mul(closed)
	} else {
		pnl = h.AverageCost.Sub(f.Price).Mul(closed)
	}
	pnl = pnl.Sub(costs)
	h.RealisedPNL = h.RealisedPNL.Add(pnl)
	h.ClosedTrades++
	if pnl.IsPositive() {
		h.WinningTrades++
	}
	remaining := abs(f.Quantity) - closing
	h.Quantity += f.Quantity
	switch {
	case h.Quantity == 0:
		h.AverageCost = decimal.Zero
	case remaining > 0:
		// the fill flipped the position, the remainder opens at the fill price
		h.AverageCost = f.Price
	}
	return nil
}

// UnrealisedPNL returns the profit of the open quantity at price
func (h *Holding) UnrealisedPNL(price decimal.Decimal) decimal.Decimal {
	if h.Quantity == 0 {
		return decimal.Zero
	}
	return price.Sub(h.AverageCost).Mul(decimal.NewFromInt(h.Quantity))
}

// Apply updates the book with every fill in order
func (b Book) Apply(fills ...fill.Fill) error {
	for x := range fills {
		h, ok := b[fills[x].Symbol]
		if !ok {
			var err error
			h, err = Create(&fills[x])
			if err != nil {
				return err
			}
			b[fills[x].Symbol] = h
			continue
		}
		if err := h.Update(&fills[x]); err != nil {
			return err
		}
	}
	return nil
}

// Sorted returns the holdings ordered by symbol
func (b Book) Sorted() []*Holding {
	resp := make([]*Holding, 0, len(b))
	for _, h := range b {
		resp = append(resp, h)
	}
	sort.Slice(resp, func(i, j int) bool {
		return resp[i].Symbol < resp[j].Symbol
	})
	return resp
}

// RealisedPNL returns the realised profit over every holding
func (b Book) RealisedPNL() decimal.Decimal {
	total := decimal.Zero
	for _, h := range b {
		total = total.Add(h.RealisedPNL)
	}
	return total
}

// ClosedTrades returns the number of closed and winning trades over every holding
func (b Book) ClosedTrades() (closed, winning int) {
	for _, h := range b {
		closed += h.ClosedTrades
		winning += h.WinningTrades
	}
	return closed, winning
}

func abs(i int64) int64 {
	if i < 0 {
		return -i
	}
	return i
}
