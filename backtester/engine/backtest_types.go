package engine

import (
	"errors"
	"time"

	"github.com/gofrs/uuid"
	"github.com/quantbt/qbt/backtester/data"
	"github.com/quantbt/qbt/backtester/eventhandlers/exchange"
	"github.com/quantbt/qbt/backtester/eventhandlers/portfolio"
	"github.com/quantbt/qbt/backtester/eventhandlers/strategies"
	"github.com/quantbt/qbt/backtester/eventtypes/fill"
	"github.com/quantbt/qbt/backtester/metrics"
	"github.com/shopspring/decimal"
)

// PrimaryTrack names the track of the strategy being tested
const PrimaryTrack = "primary"

const progressInterval = 50

var (
	errRunAlreadyExecuted = errors.New("backtest has already been run")
	errNoSource           = errors.New("no data source provided")
	errNoStrategy         = errors.New("no strategy provided")
	errNoExecution        = errors.New("no execution handler provided")
	errInvalidInitialCash = errors.New("initial cash must be positive")
	errBenchmarkName      = errors.New("invalid benchmark name")
	errSharedStrategy     = errors.New("strategy instance shared between tracks")
	errStrategyPanic      = errors.New("strategy panicked")
)

// Status describes where a BackTest is in its lifecycle
type Status string

// Lifecycle states
const (
	StatusInit       Status = "init"
	StatusFetching   Status = "fetching"
	StatusSignalPrep Status = "signal-prep"
	StatusIterating  Status = "iterating"
	StatusFinalized  Status = "finalized"
	StatusFailed     Status = "failed"
)

// Settings holds everything a BackTest needs. Benchmarks are keyed by the
// name their track will carry in the result
type Settings struct {
	Nickname    string
	Source      data.Source
	Generators  []data.Generator
	Strategy    strategies.Handler
	Benchmarks  map[string]strategies.Handler
	Exchange    exchange.ExecutionHandler
	InitialCash decimal.Decimal
	Recorder    metrics.Recorder
}

// BackTest runs a primary strategy and any benchmarks bar by bar over the
// same data. A BackTest can only be run once
type BackTest struct {
	id             uuid.UUID
	nickname       string
	source         data.Source
	generators     []data.Generator
	strategy       strategies.Handler
	benchmarkNames []string
	benchmarks     map[string]strategies.Handler
	exchange       exchange.ExecutionHandler
	initialCash    decimal.Decimal
	recorder       metrics.Recorder
	status         Status
	hasRun         bool
}

// DateError is a recoverable fault of one strategy on one date
type DateError struct {
	Date     time.Time `json:"date"`
	Strategy string    `json:"strategy"`
	Track    string    `json:"track"`
	Err      error     `json:"-"`
}

// EquityRecord is a track's valuation at the end of a date
type EquityRecord struct {
	Date           time.Time        `json:"date"`
	Cash           decimal.Decimal  `json:"cash"`
	PositionsValue decimal.Decimal  `json:"positions-value"`
	Equity         decimal.Decimal  `json:"equity"`
	Positions      map[string]int64 `json:"positions"`
}

// Snapshot is a copy of a portfolio state taken after a date was processed
type Snapshot struct {
	Date  time.Time        `json:"date"`
	State *portfolio.State `json:"state"`
}

// Track is the outcome of one strategy's run
type Track struct {
	Name        string          `json:"name"`
	Strategy    string          `json:"strategy"`
	InitialCash decimal.Decimal `json:"initial-cash"`
	FinalEquity decimal.Decimal `json:"final-equity"`
	EquityCurve []EquityRecord  `json:"equity-curve"`
	Fills       []fill.Fill     `json:"fills"`
	History     []Snapshot      `json:"history,omitempty"`
}

// StrategyInfo describes a strategy used by a track
type StrategyInfo struct {
	Track    string         `json:"track"`
	Name     string         `json:"name"`
	Settings map[string]any `json:"settings,omitempty"`
}

// Metadata describes the run a Result came from
type Metadata struct {
	ID               uuid.UUID          `json:"id"`
	Nickname         string             `json:"nickname,omitempty"`
	Universe         []string           `json:"universe"`
	ResolvedUniverse []string           `json:"resolved-universe"`
	Start            time.Time          `json:"start"`
	End              time.Time          `json:"end"`
	Interval         string             `json:"interval"`
	InitialCash      decimal.Decimal    `json:"initial-cash"`
	Strategy         StrategyInfo       `json:"strategy"`
	Benchmarks       []StrategyInfo     `json:"benchmarks,omitempty"`
	Broker           *exchange.Settings `json:"broker,omitempty"`
	Signals          []string           `json:"signals,omitempty"`
	StartedAt        time.Time          `json:"started-at"`
	FinishedAt       time.Time          `json:"finished-at"`
}

// Result is everything a run produced
type Result struct {
	Metadata   Metadata          `json:"metadata"`
	Primary    *Track            `json:"primary"`
	Benchmarks map[string]*Track `json:"benchmarks,omitempty"`
	DateErrors []DateError       `json:"date-errors,omitempty"`
	Status     Status            `json:"status"`
}

// tracker is a track being built during the loop
type tracker struct {
	name     string
	strategy strategies.Handler
	extra    []string
	state    *portfolio.State
	track    *Track
}
