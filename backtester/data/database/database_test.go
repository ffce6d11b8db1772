package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quantbt/qbt/backtester/common"
	"github.com/quantbt/qbt/backtester/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	day1 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	day2 = time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
)

func newTestSource(t *testing.T) *Source {
	t.Helper()
	s, err := Connect(context.Background(), filepath.Join(t.TempDir(), "candles.db"))
	require.NoError(t, err, "Connect must not error")
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func TestConnect(t *testing.T) {
	t.Parallel()
	_, err := Connect(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoDatabaseProvided)

	s := newTestSource(t)
	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Close(), ErrDatabaseNotConnected)
	_, err = s.GetPrice(context.Background(), []string{"AAPL"}, day1, day2, "1d")
	assert.ErrorIs(t, err, ErrDatabaseNotConnected)
}

func TestInsertAndGetPrice(t *testing.T) {
	t.Parallel()
	s := newTestSource(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, "1d", data.NewTable())
	assert.ErrorIs(t, err, errNoCandleData)

	tbl := data.NewTable()
	require.NoError(t, tbl.Set(data.Bar{Date: day1, Symbol: "AAPL", Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 100}))
	require.NoError(t, tbl.Set(data.Bar{Date: day2, Symbol: "AAPL", Open: 1.5, High: 2, Low: 1, Close: 1.8, Volume: 120}))
	require.NoError(t, tbl.Set(data.Bar{Date: day1, Symbol: "SPY", Open: 400, High: 401, Low: 399, Close: 400, Volume: 1000}))

	_, err = s.Insert(ctx, "", tbl)
	assert.ErrorIs(t, err, errInvalidInterval)

	n, err := s.Insert(ctx, "1d", tbl)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)

	// re-inserting replaces rather than duplicates
	_, err = s.Insert(ctx, "1d", tbl)
	require.NoError(t, err)

	got, err := s.GetPrice(ctx, []string{"aapl"}, day1, day2, "1d")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
	b, ok := got.Get(day2, "AAPL")
	require.True(t, ok)
	assert.Equal(t, 1.8, b.Close)

	got, err = s.GetPrice(ctx, []string{"AAPL", "SPY"}, day1, day1, "1d")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())

	got, err = s.GetPrice(ctx, []string{"AAPL"}, day1, day2, "1h")
	require.NoError(t, err)
	assert.Zero(t, got.Len())

	_, err = s.GetPrice(ctx, nil, day1, day2, "1d")
	assert.ErrorIs(t, err, common.ErrEmptyUniverse)

	symbols, err := s.Symbols(ctx, "1d")
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "SPY"}, symbols)

	deleted, err := s.DeleteCandles(ctx, "spy", "1d")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestInsertFromCSV(t *testing.T) {
	t.Parallel()
	s := newTestSource(t)
	path := filepath.Join(t.TempDir(), "candles.csv")
	require.NoError(t, os.WriteFile(path, []byte("date,symbol,open,high,low,close,volume\n2024-01-02,QQQ,1,2,0.5,1.5,10\n"), 0o600))
	n, err := s.InsertFromCSV(context.Background(), "1d", path)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	_, err = s.InsertFromCSV(context.Background(), "1d", filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
