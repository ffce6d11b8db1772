package config

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Data source names
const (
	SourceCSV      = "csv"
	SourceDatabase = "database"
)

const (
	envPrefix       = "QBT"
	defaultInterval = "1d"
)

var (
	errFileNotFound          = errors.New("file not found")
	errStartEndUnset         = errors.New("data start and end dates are invalid")
	errBadDate               = errors.New("start date must be before end date")
	errBadInitialCash        = errors.New("initial cash must be positive")
	errEmptyUniverse         = errors.New("universe must contain at least one symbol")
	errUnknownSource         = errors.New("unknown data source")
	errSourcePathUnset       = errors.New("data source path is unset")
	errBadRate               = errors.New("rate must be at least 0 and less than 1")
	errBenchmarkNameUnset    = errors.New("benchmark name is unset")
	errDuplicateBenchmark    = errors.New("duplicate benchmark name")
	errReservedBenchmarkName = errors.New("benchmark name is reserved")
	errNilConfig             = errors.New("nil config")
)

// Config defines everything needed to build and run a backtest
type Config struct {
	Nickname         string              `mapstructure:"nickname" json:"nickname" yaml:"nickname"`
	Universe         []string            `mapstructure:"universe" json:"universe" yaml:"universe"`
	StartDate        time.Time           `mapstructure:"start-date" json:"start-date" yaml:"start-date"`
	EndDate          time.Time           `mapstructure:"end-date" json:"end-date" yaml:"end-date"`
	Interval         string              `mapstructure:"interval" json:"interval" yaml:"interval"`
	InitialCash      decimal.Decimal     `mapstructure:"initial-cash" json:"initial-cash" yaml:"initial-cash"`
	DataSettings     DataSettings        `mapstructure:"data-settings" json:"data-settings" yaml:"data-settings"`
	Signals          []SignalSettings    `mapstructure:"signals" json:"signals,omitempty" yaml:"signals,omitempty"`
	StrategySettings StrategySettings    `mapstructure:"strategy-settings" json:"strategy-settings" yaml:"strategy-settings"`
	BrokerSettings   BrokerSettings      `mapstructure:"broker-settings" json:"broker-settings" yaml:"broker-settings"`
	Benchmarks       []BenchmarkSettings `mapstructure:"benchmarks" json:"benchmarks,omitempty" yaml:"benchmarks,omitempty"`
	OutputDirectory  string              `mapstructure:"output-directory" json:"output-directory" yaml:"output-directory"`
	LogLevel         string              `mapstructure:"log-level" json:"log-level" yaml:"log-level"`
}

// DataSettings selects where candles are read from
type DataSettings struct {
	Source       string `mapstructure:"source" json:"source" yaml:"source"`
	CSVPath      string `mapstructure:"csv-path" json:"csv-path,omitempty" yaml:"csv-path,omitempty"`
	DatabasePath string `mapstructure:"database-path" json:"database-path,omitempty" yaml:"database-path,omitempty"`
}

// SignalSettings names a signal generator and overrides its defaults
type SignalSettings struct {
	Name     string         `mapstructure:"name" json:"name" yaml:"name"`
	Settings map[string]any `mapstructure:"settings" json:"settings,omitempty" yaml:"settings,omitempty"`
}

// StrategySettings names the strategy under test and overrides its defaults
type StrategySettings struct {
	Name           string         `mapstructure:"name" json:"name" yaml:"name"`
	CustomSettings map[string]any `mapstructure:"custom-settings" json:"custom-settings,omitempty" yaml:"custom-settings,omitempty"`
}

// BrokerSettings holds the simulated broker's cost model
type BrokerSettings struct {
	CommissionRate decimal.Decimal `mapstructure:"commission-rate" json:"commission-rate" yaml:"commission-rate"`
	SlippageRate   decimal.Decimal `mapstructure:"slippage-rate" json:"slippage-rate" yaml:"slippage-rate"`
}

// BenchmarkSettings describes a strategy run alongside the primary one. Name
// is the track name it is reported under
type BenchmarkSettings struct {
	Name           string         `mapstructure:"name" json:"name" yaml:"name"`
	Strategy       string         `mapstructure:"strategy" json:"strategy" yaml:"strategy"`
	CustomSettings map[string]any `mapstructure:"custom-settings" json:"custom-settings,omitempty" yaml:"custom-settings,omitempty"`
}
