package report

import (
	"errors"
	"time"

	"github.com/quantbt/qbt/backtester/engine"
	"github.com/quantbt/qbt/backtester/eventhandlers/statistics"
)

// Output file names
const (
	ResultFile  = "result.json"
	SummaryFile = "summary.yaml"
	HTMLFile    = "report.html"

	equityFilePrefix = "equity_"
	fillsFilePrefix  = "fills_"
	chartWidth       = 900
	chartHeight      = 320
)

var (
	errNoOutputPath = errors.New("no output path set")
	errNoResult     = errors.New("no result to report")
)

// Data holds everything needed to write the report of one run
type Data struct {
	Result      *engine.Result
	Summary     *statistics.Summary
	OutputPath  string
	GeneratedAt time.Time
	Charts      []*Chart
}

// resultFile is the layout of result.json
type resultFile struct {
	Metadata   engine.Metadata          `json:"metadata"`
	Status     engine.Status            `json:"status"`
	Summary    *statistics.Summary      `json:"summary,omitempty"`
	Primary    *engine.Track            `json:"primary"`
	Benchmarks map[string]*engine.Track `json:"benchmarks,omitempty"`
	DateErrors []dateError              `json:"date-errors,omitempty"`
}

type dateError struct {
	engine.DateError
	Reason string `json:"reason"`
}

// Chart holds lines plotted against time
type Chart struct {
	Name     string
	AxisType string
	Data     []ChartLine
}

// ChartLine is a single named series. Points holds the series scaled to the
// chart's drawing area as svg polyline points
type ChartLine struct {
	Name      string
	Colour    string
	LinePlots []LinePlot
	Points    string
}

// LinePlot is one point of a line
type LinePlot struct {
	Value     float64
	UnixMilli int64
}
