package report

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/quantbt/qbt/backtester/engine"
	"github.com/quantbt/qbt/backtester/eventhandlers/statistics"
	"github.com/quantbt/qbt/backtester/eventtypes/fill"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func testResult() *engine.Result {
	track := func(name string, equities ...int64) *engine.Track {
		t := &engine.Track{Name: name, Strategy: name, InitialCash: decimal.NewFromInt(1000)}
		for i, e := range equities {
			t.EquityCurve = append(t.EquityCurve, engine.EquityRecord{
				Date:           day0.AddDate(0, 0, i),
				Cash:           decimal.NewFromInt(e - 500),
				PositionsValue: decimal.NewFromInt(500),
				Equity:         decimal.NewFromInt(e),
				Positions:      map[string]int64{"AAPL": 5, "MSFT": 0},
			})
		}
		t.FinalEquity = decimal.NewFromInt(equities[len(equities)-1])
		return t
	}
	primary := track(engine.PrimaryTrack, 1000, 1100, 1050)
	primary.Fills = []fill.Fill{{
		OrderID:  uuid.Must(uuid.NewV4()),
		Symbol:   "AAPL",
		Quantity: 5,
		Price:    decimal.NewFromInt(100),
		Fees:     decimal.NewFromFloat(0.5),
		Time:     day0,
		Reason:   "Order size shrunk from 6 to 5",
	}}
	return &engine.Result{
		Metadata: engine.Metadata{
			ID:          uuid.Must(uuid.NewV4()),
			Nickname:    "report-test",
			Universe:    []string{"AAPL"},
			Start:       day0,
			End:         day0.AddDate(0, 0, 2),
			InitialCash: decimal.NewFromInt(1000),
			Strategy:    engine.StrategyInfo{Track: engine.PrimaryTrack, Name: "cross-over"},
		},
		Primary:    primary,
		Benchmarks: map[string]*engine.Track{"S&P 500": track("S&P 500", 1000, 1010, 1020)},
		DateErrors: []engine.DateError{{Date: day0, Strategy: "cross-over", Track: engine.PrimaryTrack, Err: errors.New("kaboom")}},
		Status:     engine.StatusFinalized,
	}
}

func TestNew(t *testing.T) {
	t.Parallel()
	_, err := New(nil, nil, "out")
	assert.ErrorIs(t, err, errNoResult)
	_, err = New(testResult(), nil, "")
	assert.ErrorIs(t, err, errNoOutputPath)
	d, err := New(testResult(), nil, "out")
	require.NoError(t, err)
	assert.False(t, d.GeneratedAt.IsZero())

	var nilData *Data
	assert.ErrorIs(t, nilData.GenerateReport(), errNoResult)
	assert.ErrorIs(t, (&Data{Result: testResult()}).GenerateReport(), errNoOutputPath)
}

func TestGenerateReport(t *testing.T) {
	t.Parallel()
	r := testResult()
	summary, err := statistics.Summarise(r)
	require.NoError(t, err)
	dir := filepath.Join(t.TempDir(), "nested", "out")
	d, err := New(r, summary, dir)
	require.NoError(t, err)
	require.NoError(t, d.GenerateReport())

	b, err := os.ReadFile(filepath.Join(dir, ResultFile))
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	for _, k := range []string{"metadata", "status", "summary", "primary", "benchmarks", "date-errors"} {
		assert.Contains(t, decoded, k)
	}
	assert.Contains(t, string(b), `"reason": "kaboom"`)

	b, err = os.ReadFile(filepath.Join(dir, "equity_primary.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "date,cash,positions_value,equity,open_positions", lines[0])
	assert.Equal(t, "2024-01-03,600.00,500.00,1100.00,1", lines[2])

	b, err = os.ReadFile(filepath.Join(dir, "fills_primary.csv"))
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], ",AAPL,5,100,0.5,0,Order size shrunk from 6 to 5")

	assert.FileExists(t, filepath.Join(dir, "equity_S_P_500.csv"))
	assert.FileExists(t, filepath.Join(dir, "fills_S_P_500.csv"))

	b, err = os.ReadFile(filepath.Join(dir, SummaryFile))
	require.NoError(t, err)
	assert.Contains(t, string(b), "primary:")
	assert.Contains(t, string(b), "comparisons:")

	b, err = os.ReadFile(filepath.Join(dir, HTMLFile))
	require.NoError(t, err)
	assert.Contains(t, string(b), "report-test")
	assert.Contains(t, string(b), "<polyline")
	assert.Contains(t, string(b), "kaboom")
	require.Len(t, d.Charts, 2)
}

func TestGenerateReportWithoutSummary(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	d, err := New(testResult(), nil, dir)
	require.NoError(t, err)
	require.NoError(t, d.GenerateReport())
	assert.NoFileExists(t, filepath.Join(dir, SummaryFile))
	assert.FileExists(t, filepath.Join(dir, HTMLFile))
}

func TestCharts(t *testing.T) {
	t.Parallel()
	_, err := createEquityChart(nil)
	assert.Error(t, err)
	_, err = createDrawdownChart(nil)
	assert.Error(t, err)

	r := testResult()
	c, err := createEquityChart(r.Tracks())
	require.NoError(t, err)
	require.Len(t, c.Data, 2)
	assert.Equal(t, engine.PrimaryTrack, c.Data[0].Name)
	// the highest equity sits on the top edge
	assert.Equal(t, "0.0,320.0 450.0,0.0 900.0,160.0", c.Data[0].Points)
	assert.NotEqual(t, c.Data[0].Colour, c.Data[1].Colour)

	c, err = createDrawdownChart(r.Tracks())
	require.NoError(t, err)
	require.Len(t, c.Data[0].LinePlots, 3)
	assert.Zero(t, c.Data[0].LinePlots[1].Value)
	assert.InDelta(t, -50.0/1100*100, c.Data[0].LinePlots[2].Value, 1e-9)

	flat := &Chart{Data: []ChartLine{{LinePlots: []LinePlot{{Value: 1, UnixMilli: 5}}}}}
	flat.scale(100, 50)
	assert.Equal(t, "0.0,25.0", flat.Data[0].Points)
}

func TestFileSafe(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "S_P_500", fileSafe("S&P 500"))
	assert.Equal(t, "market-benchmark_1", fileSafe("market-benchmark_1"))
}
