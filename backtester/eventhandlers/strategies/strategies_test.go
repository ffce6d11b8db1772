package strategies

import (
	"testing"

	"github.com/quantbt/qbt/backtester/eventhandlers/strategies/base"
	"github.com/quantbt/qbt/backtester/eventhandlers/strategies/benchmark"
	"github.com/quantbt/qbt/backtester/eventhandlers/strategies/crossover"
	"github.com/quantbt/qbt/backtester/eventhandlers/strategies/dollarcostaverage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStrategies(t *testing.T) {
	t.Parallel()
	resp := GetStrategies()
	require.Len(t, resp, 5)
	for i := 1; i < len(resp); i++ {
		assert.Less(t, resp[i-1].Name(), resp[i].Name())
	}
}

func TestLoadStrategyByName(t *testing.T) {
	t.Parallel()
	_, err := LoadStrategyByName("definitely-not-a-strategy")
	assert.ErrorIs(t, err, base.ErrStrategyNotFound)

	for _, s := range GetStrategies() {
		h, err := LoadStrategyByName(s.Name())
		require.NoError(t, err, s.Name())
		assert.Equal(t, s.Name(), h.Name())
	}

	a, err := LoadStrategyByName(" Cross-Over ")
	require.NoError(t, err)
	b, err := LoadStrategyByName(crossover.Name)
	require.NoError(t, err)
	assert.NotSame(t, a, b, "each load must return a fresh instance")
}

func TestSettingsAndExtraSymbols(t *testing.T) {
	t.Parallel()
	h, err := LoadStrategyByName(benchmark.Name)
	require.NoError(t, err)
	require.NoError(t, h.SetCustomSettings(map[string]any{"benchmark-type": "NASDAQ100"}))
	assert.Equal(t, []string{"QQQ"}, ExtraSymbols(h))
	assert.Equal(t, "NASDAQ100", Settings(h)["benchmark-type"])

	h, err = LoadStrategyByName(dollarcostaverage.Name)
	require.NoError(t, err)
	assert.Nil(t, ExtraSymbols(h))
	assert.Nil(t, Settings(h))
}
