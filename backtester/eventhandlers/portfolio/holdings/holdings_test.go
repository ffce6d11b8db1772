package holdings

import (
	"testing"
	"time"

	"github.com/quantbt/qbt/backtester/eventtypes/fill"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFill(q int64, price, fees int64) fill.Fill {
	return fill.Fill{
		Symbol:   "AAPL",
		Quantity: q,
		Price:    decimal.NewFromInt(price),
		Fees:     decimal.NewFromInt(fees),
		Time:     time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreate(t *testing.T) {
	t.Parallel()
	f := testFill(10, 100, 10)
	h, err := Create(&f)
	require.NoError(t, err)
	assert.Equal(t, int64(10), h.Quantity)
	assert.Equal(t, int64(10), h.BoughtAmount)
	assert.True(t, h.AverageCost.Equal(decimal.NewFromInt(101)), "fees are part of the cost basis")
	assert.True(t, h.BoughtValue.Equal(decimal.NewFromInt(1000)))

	other := f
	other.Symbol = "MSFT"
	assert.ErrorIs(t, h.Update(&other), errSymbolMismatch)
}

func TestUpdateRealisesProfit(t *testing.T) {
	t.Parallel()
	b := Book{}
	require.NoError(t, b.Apply(testFill(10, 100, 0), testFill(10, 120, 0)))
	h := b["AAPL"]
	assert.True(t, h.AverageCost.Equal(decimal.NewFromInt(110)))
	assert.True(t, h.UnrealisedPNL(decimal.NewFromInt(130)).Equal(decimal.NewFromInt(400)))

	require.NoError(t, b.Apply(testFill(-5, 130, 0)))
	assert.True(t, h.RealisedPNL.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, int64(15), h.Quantity)
	assert.True(t, h.AverageCost.Equal(decimal.NewFromInt(110)), "partial close keeps the cost basis")

	require.NoError(t, b.Apply(testFill(-15, 100, 0)))
	assert.True(t, h.RealisedPNL.Equal(decimal.NewFromInt(-50)))
	assert.Zero(t, h.Quantity)
	assert.True(t, h.AverageCost.IsZero())
	assert.Equal(t, int64(20), h.SoldAmount)

	closed, winning := b.ClosedTrades()
	assert.Equal(t, 2, closed)
	assert.Equal(t, 1, winning)
	assert.True(t, b.RealisedPNL().Equal(decimal.NewFromInt(-50)))
	assert.True(t, h.UnrealisedPNL(decimal.NewFromInt(1)).IsZero())
}

func TestUpdateFlipsPosition(t *testing.T) {
	t.Parallel()
	b := Book{}
	require.NoError(t, b.Apply(testFill(10, 100, 0), testFill(-15, 110, 0)))
	h := b["AAPL"]
	assert.Equal(t, int64(-5), h.Quantity)
	assert.True(t, h.RealisedPNL.Equal(decimal.NewFromInt(100)))
	assert.True(t, h.AverageCost.Equal(decimal.NewFromInt(110)))

	require.NoError(t, b.Apply(testFill(5, 100, 0)))
	assert.True(t, h.RealisedPNL.Equal(decimal.NewFromInt(150)), "covering a short below its cost is a profit")
}

func TestSorted(t *testing.T) {
	t.Parallel()
	b := Book{}
	m := testFill(1, 10, 0)
	m.Symbol = "MSFT"
	require.NoError(t, b.Apply(m, testFill(1, 10, 0)))
	sorted := b.Sorted()
	require.Len(t, sorted, 2)
	assert.Equal(t, "AAPL", sorted[0].Symbol)
	assert.Equal(t, "MSFT", sorted[1].Symbol)
}
