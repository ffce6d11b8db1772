package dollarcostaverage

import (
	"testing"
	"time"

	"github.com/quantbt/qbt/backtester/common"
	"github.com/quantbt/qbt/backtester/data"
	"github.com/quantbt/qbt/backtester/eventhandlers/portfolio"
	"github.com/quantbt/qbt/backtester/eventhandlers/strategies/base"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestName(t *testing.T) {
	t.Parallel()
	d := Strategy{}
	assert.Equal(t, Name, d.Name())
	assert.NotEmpty(t, d.Description())
}

func TestSetCustomSettings(t *testing.T) {
	t.Parallel()
	s := Strategy{}
	err := s.SetCustomSettings(nil)
	assert.ErrorIs(t, err, base.ErrCustomSettingsUnsupported)
}

func TestOnBar(t *testing.T) {
	t.Parallel()
	s := Strategy{}
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	_, err := s.OnBar(day, data.Slice{}, nil)
	assert.ErrorIs(t, err, common.ErrNilArguments)

	state, err := portfolio.NewState(decimal.NewFromInt(10000))
	require.NoError(t, err)
	orders, err := s.OnBar(day, data.Slice{Date: day}, state)
	require.NoError(t, err)
	assert.Empty(t, orders)

	sl := data.Slice{Date: day, Bars: map[string]data.Bar{
		"AAPL": {Symbol: "AAPL", Close: 10},
		"MSFT": {Symbol: "MSFT", Close: 100},
		"GOOG": {Symbol: "GOOG", Close: 0},
	}}
	orders, err = s.OnBar(day, sl, state)
	require.NoError(t, err)
	// 500 invested across two priced symbols
	require.Len(t, orders, 2)
	assert.Equal(t, "AAPL", orders[0].Symbol)
	assert.Equal(t, int64(25), orders[0].Quantity)
	assert.Equal(t, "MSFT", orders[1].Symbol)
	assert.Equal(t, int64(2), orders[1].Quantity)

	orders, err = s.OnBar(day.AddDate(0, 0, 1), sl, state)
	require.NoError(t, err)
	assert.Len(t, orders, 2, "purchases repeat every bar")
	assert.Equal(t, 2, s.Purchases())
	s.SetDefaults()
	assert.Zero(t, s.Purchases())
}
