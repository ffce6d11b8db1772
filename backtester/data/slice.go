package data

import (
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Filter returns a slice holding only the requested symbols
func (s Slice) Filter(symbols []string) Slice {
	resp := Slice{Date: s.Date, Bars: make(map[string]Bar, len(symbols))}
	for x := range symbols {
		sym := strings.ToUpper(symbols[x])
		if b, ok := s.Bars[sym]; ok {
			resp.Bars[sym] = b
		}
	}
	return resp
}

// Closes returns the usable closing prices of the slice. Non-positive or
// NaN closes are left out
func (s Slice) Closes() map[string]decimal.Decimal {
	resp := make(map[string]decimal.Decimal, len(s.Bars))
	for sym, b := range s.Bars {
		if !b.HasValidClose() {
			continue
		}
		resp[sym] = decimal.NewFromFloat(b.Close)
	}
	return resp
}

// Close returns the usable closing price of a symbol
func (s Slice) Close(symbol string) (decimal.Decimal, bool) {
	b, ok := s.Bars[strings.ToUpper(symbol)]
	if !ok || !b.HasValidClose() {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(b.Close), true
}

// Value returns a column value for a symbol, NaN when either is missing
func (s Slice) Value(symbol, column string) float64 {
	b, ok := s.Bars[strings.ToUpper(symbol)]
	if !ok {
		return math.NaN()
	}
	return b.Value(column)
}

// Symbols returns the symbols in the slice in alphabetical order
func (s Slice) Symbols() []string {
	resp := make([]string, 0, len(s.Bars))
	for sym := range s.Bars {
		resp = append(resp, sym)
	}
	sort.Strings(resp)
	return resp
}

// Len returns the number of bars in the slice
func (s Slice) Len() int {
	return len(s.Bars)
}

// IsEmpty returns whether the slice holds no bars
func (s Slice) IsEmpty() bool {
	return len(s.Bars) == 0
}
