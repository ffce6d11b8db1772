package config

import (
	"bytes"
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/quantbt/qbt/backtester/common"
	"github.com/quantbt/qbt/backtester/data"
	"github.com/quantbt/qbt/backtester/data/csv"
	"github.com/quantbt/qbt/backtester/data/database"
	"github.com/quantbt/qbt/backtester/engine"
	"github.com/quantbt/qbt/backtester/eventhandlers/exchange"
	"github.com/quantbt/qbt/backtester/eventhandlers/strategies"
	"github.com/quantbt/qbt/backtester/metrics"
	"github.com/quantbt/qbt/backtester/signals"
	qbtcommon "github.com/quantbt/qbt/common"
	"github.com/quantbt/qbt/common/file"
	"github.com/quantbt/qbt/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ReadConfigFromFile loads a yaml or json config from path. Values can be
// overridden by QBT_ prefixed environment variables, eg QBT_INITIAL_CASH or
// QBT_DATA_SETTINGS_CSV_PATH
func ReadConfigFromFile(path string) (*Config, error) {
	if !file.Exists(path) {
		return nil, fmt.Errorf("%w: %v", errFileNotFound, path)
	}
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return unmarshal(v)
}

// LoadConfig reads config data of the given format, eg "yaml" or "json"
func LoadConfig(data []byte, format string) (*Config, error) {
	v := newViper()
	v.SetConfigType(format)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	v.SetDefault("interval", defaultInterval)
	v.SetDefault("data-settings.source", SourceCSV)
	v.SetDefault("data-settings.csv-path", "")
	v.SetDefault("data-settings.database-path", "")
	v.SetDefault("broker-settings.commission-rate", exchange.DefaultCommissionRate.String())
	v.SetDefault("broker-settings.slippage-rate", exchange.DefaultSlippageRate.String())
	v.SetDefault("output-directory", "output")
	v.SetDefault("log-level", "INFO|WARN|ERROR")
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var c Config
	err := v.Unmarshal(&c, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		dateHook,
		decimalHook,
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func dateHook(_, t reflect.Type, v any) (any, error) {
	if t != reflect.TypeOf(time.Time{}) {
		return v, nil
	}
	s, ok := v.(string)
	if !ok {
		return v, nil
	}
	if s == "" {
		return time.Time{}, nil
	}
	return csv.ParseDate(s)
}

func decimalHook(_, t reflect.Type, v any) (any, error) {
	if t != reflect.TypeOf(decimal.Decimal{}) {
		return v, nil
	}
	switch d := v.(type) {
	case string:
		if d == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(d)
	case float64:
		return decimal.NewFromFloat(d), nil
	case int:
		return decimal.NewFromInt(int64(d)), nil
	case int64:
		return decimal.NewFromInt(d), nil
	}
	return v, nil
}

// SaveConfig writes the config to path as yaml
func (c *Config) SaveConfig(path string) error {
	if c == nil {
		return errNilConfig
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return file.Write(path, buf.Bytes())
}

// Validate checks all config settings. Symbols and names are normalised as
// a side effect
func (c *Config) Validate() error {
	if c == nil {
		return errNilConfig
	}
	err := c.validateDate()
	if err != nil {
		return err
	}
	err = c.validateUniverse()
	if err != nil {
		return err
	}
	if !c.InitialCash.IsPositive() {
		return fmt.Errorf("%w: %v", errBadInitialCash, c.InitialCash)
	}
	err = c.validateDataSettings()
	if err != nil {
		return err
	}
	err = c.validateSignals()
	if err != nil {
		return err
	}
	err = c.validateStrategySettings()
	if err != nil {
		return err
	}
	err = c.validateBrokerSettings()
	if err != nil {
		return err
	}
	return c.validateBenchmarks()
}

// validateDate checks whether someone has set a date poorly in their config
func (c *Config) validateDate() error {
	if c.StartDate.IsZero() || c.EndDate.IsZero() {
		return errStartEndUnset
	}
	if !c.StartDate.Before(c.EndDate) {
		return fmt.Errorf("%w: %v %v", errBadDate,
			c.StartDate.Format(qbtcommon.DateFormat),
			c.EndDate.Format(qbtcommon.DateFormat))
	}
	return nil
}

func (c *Config) validateUniverse() error {
	c.Universe = common.UniqueSymbols(c.Universe)
	if len(c.Universe) == 0 {
		return errEmptyUniverse
	}
	return nil
}

func (c *Config) validateDataSettings() error {
	c.DataSettings.Source = strings.ToLower(strings.TrimSpace(c.DataSettings.Source))
	switch c.DataSettings.Source {
	case SourceCSV:
		if c.DataSettings.CSVPath == "" {
			return fmt.Errorf("%w: %v", errSourcePathUnset, SourceCSV)
		}
	case SourceDatabase:
		if c.DataSettings.DatabasePath == "" {
			return fmt.Errorf("%w: %v", errSourcePathUnset, SourceDatabase)
		}
	default:
		return fmt.Errorf("%w: %q", errUnknownSource, c.DataSettings.Source)
	}
	return nil
}

func (c *Config) validateSignals() error {
	_, err := c.generators()
	return err
}

func (c *Config) validateStrategySettings() error {
	_, err := loadStrategy(c.StrategySettings.Name, c.StrategySettings.CustomSettings)
	return err
}

func (c *Config) validateBrokerSettings() error {
	s := exchange.Settings{
		CommissionRate: c.BrokerSettings.CommissionRate,
		SlippageRate:   c.BrokerSettings.SlippageRate,
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("%w: %v", errBadRate, err)
	}
	return nil
}

func (c *Config) validateBenchmarks() error {
	seen := make(map[string]struct{}, len(c.Benchmarks))
	for i := range c.Benchmarks {
		name := strings.TrimSpace(c.Benchmarks[i].Name)
		if name == "" {
			return fmt.Errorf("%w at position %d", errBenchmarkNameUnset, i)
		}
		if strings.EqualFold(name, engine.PrimaryTrack) {
			return fmt.Errorf("%w: %v", errReservedBenchmarkName, name)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: %v", errDuplicateBenchmark, name)
		}
		seen[name] = struct{}{}
		c.Benchmarks[i].Name = name
		if _, err := loadStrategy(c.Benchmarks[i].Strategy, c.Benchmarks[i].CustomSettings); err != nil {
			return fmt.Errorf("benchmark %v %w", name, err)
		}
	}
	return nil
}

func loadStrategy(name string, custom map[string]any) (strategies.Handler, error) {
	s, err := strategies.LoadStrategyByName(name)
	if err != nil {
		return nil, err
	}
	if len(custom) > 0 {
		if err = s.SetCustomSettings(custom); err != nil {
			return nil, fmt.Errorf("%v %w", name, err)
		}
	}
	return s, nil
}

func (c *Config) generators() ([]data.Generator, error) {
	resp := make([]data.Generator, 0, len(c.Signals))
	for i := range c.Signals {
		g, err := signals.LoadGeneratorByName(c.Signals[i].Name, c.Signals[i].Settings)
		if err != nil {
			return nil, err
		}
		resp = append(resp, g)
	}
	return resp, nil
}

// NewSource opens the configured data source. A database source must be
// closed by the caller
func (c *Config) NewSource(ctx context.Context) (data.Source, error) {
	if c == nil {
		return nil, errNilConfig
	}
	switch c.DataSettings.Source {
	case SourceCSV:
		return csv.NewSource(c.DataSettings.CSVPath)
	case SourceDatabase:
		return database.Connect(ctx, c.DataSettings.DatabasePath)
	}
	return nil, fmt.Errorf("%w: %q", errUnknownSource, c.DataSettings.Source)
}

// BuildBackTest creates a backtest reading from src. Every track gets its own
// strategy instance
func (c *Config) BuildBackTest(src data.Source, rec metrics.Recorder) (*engine.BackTest, error) {
	if c == nil {
		return nil, errNilConfig
	}
	gens, err := c.generators()
	if err != nil {
		return nil, err
	}
	primary, err := loadStrategy(c.StrategySettings.Name, c.StrategySettings.CustomSettings)
	if err != nil {
		return nil, err
	}
	var benchmarks map[string]strategies.Handler
	if len(c.Benchmarks) > 0 {
		benchmarks = make(map[string]strategies.Handler, len(c.Benchmarks))
		for i := range c.Benchmarks {
			s, err := loadStrategy(c.Benchmarks[i].Strategy, c.Benchmarks[i].CustomSettings)
			if err != nil {
				return nil, fmt.Errorf("benchmark %v %w", c.Benchmarks[i].Name, err)
			}
			benchmarks[c.Benchmarks[i].Name] = s
		}
	}
	ex, err := exchange.New(exchange.Settings{
		CommissionRate: c.BrokerSettings.CommissionRate,
		SlippageRate:   c.BrokerSettings.SlippageRate,
	})
	if err != nil {
		return nil, err
	}
	return engine.New(&engine.Settings{
		Nickname:    c.Nickname,
		Source:      src,
		Generators:  gens,
		Strategy:    primary,
		Benchmarks:  benchmarks,
		Exchange:    ex,
		InitialCash: c.InitialCash,
		Recorder:    rec,
	})
}

// Request returns the run arguments described by the config
func (c *Config) Request() engine.Request {
	return engine.Request{
		Universe: c.Universe,
		Start:    c.StartDate,
		End:      c.EndDate,
		Interval: c.Interval,
	}
}

// LogConfig returns the default logger settings at the configured level
func (c *Config) LogConfig() log.Config {
	cfg := log.GenDefaultSettings()
	if c == nil || c.LogLevel == "" {
		return cfg
	}
	cfg.Level = c.LogLevel
	return cfg
}

// PrintSetting prints relevant settings to the console for easy reading
func (c *Config) PrintSetting() {
	log.Info(common.Config, common.ColourH1+"------------------Backtester Settings------------------------"+common.ColourDefault)
	if c.Nickname != "" {
		log.Infof(common.Config, "Nickname: %v", c.Nickname)
	}
	log.Infof(common.Config, "Universe: %v", strings.Join(c.Universe, ", "))
	log.Infof(common.Config, "Start date: %v", c.StartDate.Format(qbtcommon.DateFormat))
	log.Infof(common.Config, "End date: %v", c.EndDate.Format(qbtcommon.DateFormat))
	log.Infof(common.Config, "Interval: %v", c.Interval)
	log.Infof(common.Config, "Initial cash: %v", c.InitialCash.StringFixed(2))
	log.Info(common.Config, common.ColourH2+"------------------Strategy Settings--------------------------"+common.ColourDefault)
	log.Infof(common.Config, "Strategy: %s", c.StrategySettings.Name)
	if len(c.StrategySettings.CustomSettings) > 0 {
		log.Info(common.Config, "Custom strategy variables:")
		for k, v := range c.StrategySettings.CustomSettings {
			log.Infof(common.Config, "%s: %v", k, v)
		}
	} else {
		log.Info(common.Config, "Custom strategy variables: unset")
	}
	for i := range c.Signals {
		log.Infof(common.Config, "Signal: %v %v", c.Signals[i].Name, c.Signals[i].Settings)
	}
	if len(c.Benchmarks) > 0 {
		log.Info(common.Config, common.ColourH2+"------------------Benchmark Settings-------------------------"+common.ColourDefault)
		for i := range c.Benchmarks {
			log.Infof(common.Config, "%v: %v %v", c.Benchmarks[i].Name, c.Benchmarks[i].Strategy, c.Benchmarks[i].CustomSettings)
		}
	}
	log.Info(common.Config, common.ColourH2+"------------------Broker Settings----------------------------"+common.ColourDefault)
	log.Infof(common.Config, "Commission rate: %v", c.BrokerSettings.CommissionRate)
	log.Infof(common.Config, "Slippage rate: %v", c.BrokerSettings.SlippageRate)
	switch c.DataSettings.Source {
	case SourceCSV:
		log.Info(common.Config, common.ColourH2+"------------------CSV Settings-------------------------------"+common.ColourDefault)
		log.Infof(common.Config, "CSV file: %v", c.DataSettings.CSVPath)
	case SourceDatabase:
		log.Info(common.Config, common.ColourH2+"------------------Database Settings--------------------------"+common.ColourDefault)
		log.Infof(common.Config, "Database: %v", c.DataSettings.DatabasePath)
	}
	log.Infof(common.Config, "Output directory: %v", c.OutputDirectory)
}

// ExampleConfig returns a config running the ema cross over strategy
// against the S&P 500 proxy
func ExampleConfig() *Config {
	return &Config{
		Nickname:    "ema-crossover",
		Universe:    []string{"AAPL", "MSFT"},
		StartDate:   time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		Interval:    defaultInterval,
		InitialCash: decimal.NewFromInt(100000),
		DataSettings: DataSettings{
			Source:  SourceCSV,
			CSVPath: "candles.csv",
		},
		Signals: []SignalSettings{
			{Name: signals.EMAName, Settings: map[string]any{"short-period": 12, "long-period": 26}},
		},
		StrategySettings: StrategySettings{
			Name:           "cross-over",
			CustomSettings: map[string]any{"position-size": 0.2},
		},
		BrokerSettings: BrokerSettings{
			CommissionRate: exchange.DefaultCommissionRate,
			SlippageRate:   exchange.DefaultSlippageRate,
		},
		Benchmarks: []BenchmarkSettings{
			{Name: "sp500", Strategy: "market-benchmark", CustomSettings: map[string]any{"benchmark-type": "SP500"}},
			{Name: "buy-and-hold", Strategy: "buy-and-hold"},
		},
		OutputDirectory: "output",
		LogLevel:        "INFO|WARN|ERROR",
	}
}
