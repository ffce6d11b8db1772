package fill

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCosts(t *testing.T) {
	t.Parallel()
	f := Fill{
		Symbol:   "AAPL",
		Quantity: 10,
		Price:    decimal.NewFromInt(100),
		Fees:     decimal.NewFromInt(1),
		Slippage: decimal.NewFromInt(2),
	}
	assert.True(t, f.IsBuy())
	assert.True(t, f.TradeValue().Equal(decimal.NewFromInt(1000)))
	assert.True(t, f.TotalCost().Equal(decimal.NewFromInt(1021)))
	assert.True(t, f.CashImpact().Equal(decimal.NewFromInt(-1003)))

	f.Quantity = -10
	assert.False(t, f.IsBuy())
	assert.True(t, f.TradeValue().Equal(decimal.NewFromInt(1000)))
	assert.True(t, f.CashImpact().Equal(decimal.NewFromInt(997)))
}

func TestAppendReason(t *testing.T) {
	t.Parallel()
	f := Fill{}
	f.AppendReason("one")
	f.AppendReason("two")
	assert.Equal(t, "one. two", f.Reason)
}
