package data

import (
	"math"

	"github.com/quantbt/qbt/backtester/common"
)

// Value returns the bar's value for a price or indicator column, NaN when the
// column does not exist
func (b *Bar) Value(column string) float64 {
	switch column {
	case common.ColumnOpen:
		return b.Open
	case common.ColumnHigh:
		return b.High
	case common.ColumnLow:
		return b.Low
	case common.ColumnClose:
		return b.Close
	case common.ColumnVolume:
		return b.Volume
	}
	if v, ok := b.Indicators[column]; ok {
		return v
	}
	return math.NaN()
}

// HasValidClose returns whether the bar has a usable closing price
func (b *Bar) HasValidClose() bool {
	return b.Close > 0 && !math.IsNaN(b.Close) && !math.IsInf(b.Close, 0)
}

// Copy returns a copy of the bar that does not share its indicators
func (b *Bar) Copy() Bar {
	c := *b
	if b.Indicators != nil {
		c.Indicators = make(map[string]float64, len(b.Indicators))
		for k, v := range b.Indicators {
			c.Indicators[k] = v
		}
	}
	return c
}
