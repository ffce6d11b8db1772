package portfolio

import (
	"sort"

	"github.com/shopspring/decimal"
)

// NewState returns a state holding only cash
func NewState(cash decimal.Decimal) (*State, error) {
	if cash.IsNegative() {
		return nil, ErrNegativeCash
	}
	return &State{
		Cash:      cash,
		Positions: make(map[string]int64),
	}, nil
}

// GetPosition returns the held quantity of a symbol, 0 when none is held
func (s *State) GetPosition(symbol string) int64 {
	return s.Positions[symbol]
}

// UpdatePosition adds delta to the position, removing it when the result is
// zero
func (s *State) UpdatePosition(symbol string, delta int64) {
	if delta == 0 {
		return
	}
	if s.Positions == nil {
		s.Positions = make(map[string]int64)
	}
	q := s.Positions[symbol] + delta
	if q == 0 {
		delete(s.Positions, symbol)
		return
	}
	s.Positions[symbol] = q
}

// PositionsValue returns the value of every position at the prices provided.
// Symbols without a price contribute nothing
func (s *State) PositionsValue(prices map[string]decimal.Decimal) decimal.Decimal {
	value := decimal.Zero
	for sym, q := range s.Positions {
		p, ok := prices[sym]
		if !ok {
			continue
		}
		value = value.Add(p.Mul(decimal.NewFromInt(q)))
	}
	return value
}

// TotalEquity returns cash plus the value of every position at the prices
// provided
func (s *State) TotalEquity(prices map[string]decimal.Decimal) decimal.Decimal {
	return s.Cash.Add(s.PositionsValue(prices))
}

// OpenPositions returns the number of symbols held
func (s *State) OpenPositions() int {
	return len(s.Positions)
}

// Symbols returns the held symbols in alphabetical order
func (s *State) Symbols() []string {
	resp := make([]string, 0, len(s.Positions))
	for sym := range s.Positions {
		resp = append(resp, sym)
	}
	sort.Strings(resp)
	return resp
}

// Snapshot returns an independent copy of the state
func (s *State) Snapshot() *State {
	c := &State{
		Cash:      s.Cash,
		Positions: make(map[string]int64, len(s.Positions)),
	}
	for sym, q := range s.Positions {
		c.Positions[sym] = q
	}
	return c
}
