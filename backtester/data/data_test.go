package data

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/quantbt/qbt/backtester/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	day1 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	day2 = time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	day3 = time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
)

func testTable(t *testing.T) *Table {
	t.Helper()
	tbl := NewTable()
	// inserted out of order on purpose
	for _, b := range []Bar{
		{Date: day3, Symbol: "aapl", Close: 12},
		{Date: day1, Symbol: "AAPL", Close: 10},
		{Date: day2, Symbol: "AAPL", Close: 11},
		{Date: day1, Symbol: "SPY", Close: 400},
		{Date: day2, Symbol: "SPY", Close: 0},
	} {
		require.NoError(t, tbl.Set(b))
	}
	return tbl
}

func TestTableSet(t *testing.T) {
	t.Parallel()
	tbl := NewTable()
	assert.ErrorIs(t, tbl.Set(Bar{Date: day1}), errInvalidBar)
	assert.ErrorIs(t, tbl.Set(Bar{Symbol: "AAPL"}), errInvalidBar)

	tbl = testTable(t)
	assert.Equal(t, 5, tbl.Len())
	require.NoError(t, tbl.Set(Bar{Date: day1, Symbol: "AAPL", Close: 9}))
	assert.Equal(t, 5, tbl.Len(), "replacing a bar must not add a row")
	b, ok := tbl.Get(day1, "aapl")
	require.True(t, ok)
	assert.Equal(t, 9.0, b.Close)

	_, ok = tbl.Get(day3, "SPY")
	assert.False(t, ok)
}

func TestTableDatesAndSymbols(t *testing.T) {
	t.Parallel()
	tbl := testTable(t)
	assert.Equal(t, []time.Time{day1, day2, day3}, tbl.Dates())
	assert.Equal(t, []string{"AAPL", "SPY"}, tbl.Symbols())

	var nilTable *Table
	assert.Empty(t, nilTable.Dates())
	assert.Empty(t, nilTable.Symbols())
	assert.Zero(t, nilTable.Len())
}

func TestTableSetIndicator(t *testing.T) {
	t.Parallel()
	tbl := testTable(t)
	err := tbl.SetIndicator(day1, "MSFT", "EMA_Signal", 1)
	assert.ErrorIs(t, err, errBarNotFound)
	err = tbl.SetIndicator(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), "AAPL", "EMA_Signal", 1)
	assert.ErrorIs(t, err, errBarNotFound)

	require.NoError(t, tbl.SetIndicator(day1, "aapl", "EMA_Signal", 1))
	b, ok := tbl.Get(day1, "AAPL")
	require.True(t, ok)
	assert.Equal(t, 1.0, b.Value("EMA_Signal"))
	assert.True(t, math.IsNaN(b.Value("RSI")))
	assert.Equal(t, 10.0, b.Value(common.ColumnClose))

	b.Indicators["EMA_Signal"] = 0
	again, _ := tbl.Get(day1, "AAPL")
	assert.Equal(t, 1.0, again.Value("EMA_Signal"), "returned bars must not alias the table")
}

func TestTableSeries(t *testing.T) {
	t.Parallel()
	tbl := testTable(t)
	series := tbl.Series("aapl")
	require.Len(t, series, 3)
	assert.Equal(t, []float64{10, 11, 12}, []float64{series[0].Close, series[1].Close, series[2].Close})
	assert.Empty(t, tbl.Series("MSFT"))
}

func TestTableFilterAndClone(t *testing.T) {
	t.Parallel()
	tbl := testTable(t)
	f := tbl.Filter([]string{"spy"}, time.Time{}, time.Time{})
	assert.Equal(t, []string{"SPY"}, f.Symbols())
	assert.Equal(t, 2, f.Len())

	f = tbl.Filter(nil, day2, day2)
	assert.Equal(t, []time.Time{day2}, f.Dates())
	assert.Equal(t, 2, f.Len())

	c := tbl.Clone()
	require.NoError(t, c.SetIndicator(day1, "AAPL", "X", 1))
	b, _ := tbl.Get(day1, "AAPL")
	assert.True(t, math.IsNaN(b.Value("X")), "clone must be independent")
}

func TestSlice(t *testing.T) {
	t.Parallel()
	tbl := testTable(t)
	s := tbl.SliceAt(day2)
	assert.Equal(t, day2, s.Date)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"AAPL", "SPY"}, s.Symbols())

	closes := s.Closes()
	assert.Len(t, closes, 1, "non-positive closes are left out")
	assert.True(t, closes["AAPL"].Equal(decimal.NewFromInt(11)))

	_, ok := s.Close("SPY")
	assert.False(t, ok)
	c, ok := s.Close("aapl")
	require.True(t, ok)
	assert.True(t, c.Equal(decimal.NewFromInt(11)))

	f := s.Filter([]string{"AAPL", "MSFT"})
	assert.Equal(t, []string{"AAPL"}, f.Symbols())
	assert.True(t, math.IsNaN(f.Value("SPY", common.ColumnClose)))
	assert.Equal(t, 11.0, f.Value("AAPL", common.ColumnClose))

	empty := tbl.SliceAt(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, empty.IsEmpty())
}

func TestStatic(t *testing.T) {
	t.Parallel()
	s := NewStatic(testTable(t))
	tbl, err := s.GetPrice(context.Background(), []string{"AAPL"}, day2, day3, "1d")
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.GetPrice(ctx, []string{"AAPL"}, day1, day3, "1d")
	assert.ErrorIs(t, err, context.Canceled)

	tbl, err = NewStatic(nil).GetPrice(context.Background(), []string{"AAPL"}, day1, day3, "1d")
	require.NoError(t, err)
	assert.Zero(t, tbl.Len())
}

type fakeGenerator struct {
	name string
	err  error
}

func (f *fakeGenerator) Name() string { return f.name }

func (f *fakeGenerator) Transform(t *Table) (*Table, error) {
	if f.err != nil {
		return nil, f.err
	}
	c := t.Clone()
	for _, d := range c.Dates() {
		for _, s := range c.Symbols() {
			_ = c.SetIndicator(d, s, f.name, 1)
		}
	}
	return c, nil
}

func TestPrepare(t *testing.T) {
	t.Parallel()
	_, err := Prepare(nil)
	assert.ErrorIs(t, err, errNilTable)

	tbl := testTable(t)
	out, err := Prepare(tbl, &fakeGenerator{name: "A"}, &fakeGenerator{name: "B"})
	require.NoError(t, err)
	b, ok := out.Get(day1, "AAPL")
	require.True(t, ok)
	assert.Equal(t, 1.0, b.Value("A"))
	assert.Equal(t, 1.0, b.Value("B"))

	errBoom := errors.New("boom")
	_, err = Prepare(tbl, &fakeGenerator{name: "bad", err: errBoom})
	assert.ErrorIs(t, err, errGeneratorFailure)
	assert.ErrorIs(t, err, errBoom)
}

type countingSource struct {
	Source
	calls  int
	err    error
	closed bool
}

func (c *countingSource) GetPrice(ctx context.Context, symbols []string, start, end time.Time, interval string) (*Table, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.Source.GetPrice(ctx, symbols, start, end, interval)
}

func (c *countingSource) Close() error {
	c.closed = true
	return nil
}

func TestCached(t *testing.T) {
	t.Parallel()
	src := &countingSource{Source: NewStatic(testTable(t))}
	c := NewCached(src, 0)
	symbols := []string{"AAPL", "SPY"}

	first, err := c.GetPrice(context.Background(), symbols, day1, day3, "1d")
	require.NoError(t, err)
	require.NoError(t, first.SetIndicator(day1, "AAPL", "RSI", 50))

	second, err := c.GetPrice(context.Background(), symbols, day1, day3, "1d")
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls, "second request should be served from the cache")
	b, ok := second.Get(day1, "AAPL")
	require.True(t, ok)
	assert.True(t, math.IsNaN(b.Value("RSI")), "cached table should not share state with callers")

	_, err = c.GetPrice(context.Background(), symbols, day1, day2, "1d")
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)

	src.err = errors.New("offline")
	_, err = c.GetPrice(context.Background(), []string{"MSFT"}, day1, day2, "1d")
	assert.ErrorIs(t, err, src.err)
	_, err = c.GetPrice(context.Background(), []string{"MSFT"}, day1, day2, "1d")
	assert.ErrorIs(t, err, src.err)
	assert.Equal(t, 4, src.calls, "errors should not be cached")

	require.NoError(t, c.Close())
	assert.True(t, src.closed)
	assert.NoError(t, NewCached(NewStatic(nil), 1).Close())
}
