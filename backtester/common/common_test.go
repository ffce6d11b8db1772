package common

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestUniqueSymbols(t *testing.T) {
	t.Parallel()
	got := UniqueSymbols([]string{"aapl", "MSFT", " ", "AAPL"}, []string{"spy", "msft"})
	assert.Equal(t, []string{"AAPL", "MSFT", "SPY"}, got)
	assert.Empty(t, UniqueSymbols())
}

func TestFitStringToLimit(t *testing.T) {
	t.Parallel()
	for _, ti := range []struct {
		str      string
		sep      string
		limit    int
		expected string
		upper    bool
	}{
		{str: "good", sep: " ", limit: 5, expected: "GOOD ", upper: true},
		{str: "negative limit", sep: " ", limit: -1, expected: "negative limit"},
		{str: "long spacer", sep: "--", limit: 14, expected: "long spacer---"},
		{str: "zero limit", sep: "", limit: 0, expected: ""},
		{str: "over limit", sep: "", limit: 6, expected: "ove..."},
		{str: "hi", sep: "", limit: 1, expected: "h"},
	} {
		t.Run(ti.str, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, ti.expected, FitStringToLimit(ti.str, ti.sep, ti.limit, ti.upper))
		})
	}
}

func TestPercentOf(t *testing.T) {
	t.Parallel()
	assert.True(t, PercentOf(0.12345).Equal(decimal.NewFromFloat(12.35)))
}

func TestToFloat64(t *testing.T) {
	t.Parallel()
	for _, v := range []any{2, int64(2), int32(2), uint64(2), float32(2), 2.0, " 2 "} {
		f, ok := ToFloat64(v)
		assert.True(t, ok, "%T should convert", v)
		assert.Equal(t, 2.0, f)
	}
	_, ok := ToFloat64("two")
	assert.False(t, ok)
	_, ok = ToFloat64(true)
	assert.False(t, ok)
}
