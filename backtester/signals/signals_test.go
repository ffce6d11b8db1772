package signals

import (
	"math"
	"testing"
	"time"

	"github.com/quantbt/qbt/backtester/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)

// buildTable creates one bar per day for symbol using the closes provided
func buildTable(t *testing.T, symbol string, closes []float64) *data.Table {
	t.Helper()
	tbl := data.NewTable()
	for x := range closes {
		require.NoError(t, tbl.Set(data.Bar{
			Date:   start.AddDate(0, 0, x),
			Symbol: symbol,
			Open:   closes[x],
			High:   closes[x],
			Low:    closes[x],
			Close:  closes[x],
		}))
	}
	return tbl
}

func accelerating(n int) []float64 {
	resp := make([]float64, n)
	for x := range resp {
		resp[x] = 100 + 0.1*float64(x*x)
	}
	return resp
}

// zigzag moves up by up and down by down on alternating bars
func zigzag(n int, up, down float64) []float64 {
	resp := make([]float64, n)
	resp[0] = 1000
	for x := 1; x < n; x++ {
		if x%2 == 1 {
			resp[x] = resp[x-1] + up
		} else {
			resp[x] = resp[x-1] - down
		}
	}
	return resp
}

func lastBar(t *testing.T, tbl *data.Table, symbol string) data.Bar {
	t.Helper()
	series := tbl.Series(symbol)
	require.NotEmpty(t, series)
	return series[len(series)-1]
}

func TestLoadGeneratorByName(t *testing.T) {
	t.Parallel()
	_, err := LoadGeneratorByName("bollinger", nil)
	assert.ErrorIs(t, err, ErrGeneratorNotFound)

	for _, name := range GetGenerators() {
		g, err := LoadGeneratorByName(name, nil)
		require.NoError(t, err)
		assert.Equal(t, name, g.Name())
	}

	g, err := LoadGeneratorByName("EMA", map[string]any{shortPeriodKey: 5, longPeriodKey: 10.0})
	require.NoError(t, err)
	e, ok := g.(*EMA)
	require.True(t, ok)
	assert.Equal(t, 5, e.ShortPeriod)
	assert.Equal(t, 10, e.LongPeriod)
	assert.Equal(t, "EMA_5", e.ShortColumn())

	_, err = LoadGeneratorByName(EMAName, map[string]any{shortPeriodKey: 30})
	assert.ErrorIs(t, err, ErrInvalidSettings)
	_, err = LoadGeneratorByName(EMAName, map[string]any{shortPeriodKey: 1.5})
	assert.ErrorIs(t, err, ErrInvalidSettings)
	_, err = LoadGeneratorByName(EMAName, map[string]any{"colour": "red"})
	assert.ErrorIs(t, err, ErrInvalidSettings)
	_, err = LoadGeneratorByName(MACDName, map[string]any{fastPeriodKey: 40})
	assert.ErrorIs(t, err, ErrInvalidSettings)
	_, err = LoadGeneratorByName(RSIName, map[string]any{oversoldKey: 80})
	assert.ErrorIs(t, err, ErrInvalidSettings)
	_, err = LoadGeneratorByName(RSIName, map[string]any{overboughtKey: 120})
	assert.ErrorIs(t, err, ErrInvalidSettings)
	_, err = LoadGeneratorByName(RSIName, map[string]any{columnKey: ""})
	assert.ErrorIs(t, err, ErrInvalidSettings)
}

func TestEMATransform(t *testing.T) {
	t.Parallel()
	e := &EMA{ShortPeriod: 3, LongPeriod: 6, Column: "Close"}
	in := buildTable(t, "AAPL", accelerating(40))
	out, err := e.Transform(in)
	require.NoError(t, err)

	first := out.Series("AAPL")[0]
	assert.True(t, math.IsNaN(first.Value(EMASignalColumn)), "warm up rows must be NaN")
	assert.True(t, math.IsNaN(first.Value("EMA_6")))

	last := lastBar(t, out, "AAPL")
	assert.Equal(t, 1.0, last.Value(EMASignalColumn))
	assert.Greater(t, last.Value("EMA_3"), last.Value("EMA_6"))

	_, ok := in.Get(start, "AAPL")
	require.True(t, ok)
	assert.True(t, math.IsNaN(in.Series("AAPL")[39].Value(EMASignalColumn)), "input table must not be modified")
}

func TestEMATransformShortSeries(t *testing.T) {
	t.Parallel()
	e := &EMA{ShortPeriod: 12, LongPeriod: 26, Column: "Close"}
	out, err := e.Transform(buildTable(t, "AAPL", accelerating(5)))
	require.NoError(t, err)
	for _, b := range out.Series("AAPL") {
		assert.True(t, math.IsNaN(b.Value(EMASignalColumn)))
	}
}

func TestMACDTransform(t *testing.T) {
	t.Parallel()
	m := &MACD{FastPeriod: 3, SlowPeriod: 6, SignalPeriod: 3, Column: "Close"}
	out, err := m.Transform(buildTable(t, "AAPL", accelerating(60)))
	require.NoError(t, err)

	first := out.Series("AAPL")[0]
	assert.True(t, math.IsNaN(first.Value(MACDTradingSignalColumn)))

	last := lastBar(t, out, "AAPL")
	assert.Greater(t, last.Value(MACDColumn), 0.0)
	assert.Equal(t, 1.0, last.Value(MACDTradingSignalColumn))
	assert.InDelta(t, last.Value(MACDColumn)-last.Value(MACDSignalColumn), last.Value(MACDHistogramColumn), 1e-9)
}

func TestRSITransform(t *testing.T) {
	t.Parallel()
	r := &RSI{Period: 14, Overbought: 70, Oversold: 30, Column: "Close"}
	tbl := buildTable(t, "UP", zigzag(80, 4, 1))
	down := buildTable(t, "DOWN", zigzag(80, 1, 4))
	for _, b := range down.Series("DOWN") {
		require.NoError(t, tbl.Set(b))
	}
	out, err := r.Transform(tbl)
	require.NoError(t, err)

	first := out.Series("UP")[0]
	assert.True(t, math.IsNaN(first.Value(RSIColumn)))

	up := lastBar(t, out, "UP")
	assert.GreaterOrEqual(t, up.Value(RSIColumn), 70.0)
	assert.Equal(t, -1.0, up.Value(RSISignalColumn))

	dn := lastBar(t, out, "DOWN")
	assert.LessOrEqual(t, dn.Value(RSIColumn), 30.0)
	assert.Equal(t, 1.0, dn.Value(RSISignalColumn))
}

func TestPrepareWithGenerators(t *testing.T) {
	t.Parallel()
	ema, err := LoadGeneratorByName(EMAName, map[string]any{shortPeriodKey: 2, longPeriodKey: 4})
	require.NoError(t, err)
	rsi, err := LoadGeneratorByName(RSIName, map[string]any{periodKey: 3})
	require.NoError(t, err)
	out, err := data.Prepare(buildTable(t, "AAPL", accelerating(20)), ema, rsi)
	require.NoError(t, err)
	last := lastBar(t, out, "AAPL")
	assert.False(t, math.IsNaN(last.Value(EMASignalColumn)))
	assert.False(t, math.IsNaN(last.Value(RSIColumn)))
}
