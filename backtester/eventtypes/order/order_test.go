package order

import (
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMarket(t *testing.T) {
	t.Parallel()
	now := time.Now()
	o, err := NewMarket("aapl", 10, now)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", o.Symbol)
	assert.Equal(t, Market, o.Kind)
	assert.NotEqual(t, uuid.Nil, o.ID)
	assert.True(t, o.IsBuy())
	assert.False(t, o.IsSell())
	assert.Equal(t, "MARKET AAPL 10", o.String())

	o2, err := NewMarket("aapl", -10, now)
	require.NoError(t, err)
	assert.NotEqual(t, o.ID, o2.ID, "every order must get its own ID")
	assert.Equal(t, int64(10), o2.AbsQuantity())
	assert.True(t, o2.IsSell())

	_, err = NewMarket("", 1, now)
	assert.ErrorIs(t, err, errEmptySymbol)
	_, err = NewMarket("AAPL", 0, now)
	assert.ErrorIs(t, err, errZeroQuantity)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	o := Order{Symbol: "AAPL", Quantity: 1, Kind: "LIMIT"}
	assert.ErrorIs(t, o.Validate(), errUnsupportedKind)
	o.Kind = ""
	assert.NoError(t, o.Validate())
}
