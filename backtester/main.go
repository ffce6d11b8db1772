package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/quantbt/qbt/backtester/common"
	"github.com/quantbt/qbt/backtester/config"
	"github.com/quantbt/qbt/backtester/data"
	"github.com/quantbt/qbt/backtester/engine"
	"github.com/quantbt/qbt/backtester/eventhandlers/statistics"
	"github.com/quantbt/qbt/backtester/eventhandlers/strategies"
	"github.com/quantbt/qbt/backtester/eventhandlers/strategies/benchmark"
	"github.com/quantbt/qbt/backtester/metrics"
	"github.com/quantbt/qbt/backtester/report"
	"github.com/quantbt/qbt/backtester/signals"
	qbtcommon "github.com/quantbt/qbt/common"
	"github.com/quantbt/qbt/log"
	"github.com/quantbt/qbt/signaler"
	"github.com/urfave/cli/v2"
)

const (
	defaultConfigPath = "config.yaml"
	verboseLevel      = "INFO|DEBUG|WARN|ERROR"
	metricsFile       = "metrics.prom"
)

var (
	configPaths  cli.StringSlice
	outputPath   string
	envFile      string
	verbose      bool
	printLogo    bool
	writeMetrics bool
)

type job struct {
	id     uuid.UUID
	cfg    *config.Config
	output string
}

func main() {
	app := &cli.App{
		Name:                 "backtester",
		Usage:                "event driven equity backtester",
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Value:       cli.NewStringSlice(defaultConfigPath),
				Usage:       "the yaml or json config to run, can be repeated to queue several runs",
				Destination: &configPaths,
				TakesFile:   true,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "overrides the output directory of every config",
				Destination: &outputPath,
			},
			&cli.StringFlag{
				Name:        "envfile",
				Value:       ".env",
				Usage:       "a dotenv file loaded before configs are read, QBT_ prefixed variables override config values",
				Destination: &envFile,
				TakesFile:   true,
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Usage:       "enables debug logging",
				Destination: &verbose,
			},
			&cli.BoolFlag{
				Name:        "printlogo",
				Value:       true,
				Usage:       "prints the logo on start",
				Destination: &printLogo,
			},
			&cli.BoolFlag{
				Name:        "metrics",
				Usage:       "writes run metrics in the prometheus text format to the output directory",
				Destination: &writeMetrics,
			},
		},
		Before: loadEnvironment,
		Action: executeBacktests,
		Commands: []*cli.Command{
			{
				Name:  "generate-config",
				Usage: "writes an example config",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Value: defaultConfigPath,
						Usage: "where to write the config",
					},
				},
				Action: generateConfig,
			},
			{
				Name:   "list",
				Usage:  "lists the available strategies, signals and benchmark types",
				Action: listComponents,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadEnvironment(_ *cli.Context) error {
	if envFile == "" {
		return nil
	}
	if _, err := os.Stat(envFile); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(envFile)
}

func executeBacktests(c *cli.Context) error {
	paths := configPaths.Value()
	cfgs := make([]*config.Config, 0, len(paths))
	for _, p := range paths {
		cfg, err := config.ReadConfigFromFile(p)
		if err != nil {
			return fmt.Errorf("could not read config %v: %w", p, err)
		}
		if err = cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config %v: %w", p, err)
		}
		if outputPath != "" {
			cfg.OutputDirectory = outputPath
		}
		cfgs = append(cfgs, cfg)
	}

	logCfg := cfgs[0].LogConfig()
	if verbose {
		logCfg.Level = verboseLevel
	}
	if err := log.SetupGlobalLogger(&logCfg); err != nil {
		return err
	}
	if printLogo {
		fmt.Print(common.ASCIILogo)
	}

	reg := prometheus.NewRegistry()
	rec, err := metrics.NewPrometheus(reg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()
	interrupt := signaler.WaitForInterrupt()
	go func() {
		select {
		case sig := <-interrupt:
			log.Warnf(common.Backtester, "Captured %v, stopping after the current date", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	rm := engine.SetupRunManager()
	jobs := make([]job, 0, len(cfgs))
	// configs reading the same data share one source
	sources := make(map[config.DataSettings]*data.Cached)
	defer func() {
		for _, src := range sources {
			if err := src.Close(); err != nil {
				log.Errorf(common.Data, "Could not close data source: %v", err)
			}
		}
	}()
	for _, cfg := range cfgs {
		cfg.PrintSetting()
		src, ok := sources[cfg.DataSettings]
		if !ok {
			raw, err := cfg.NewSource(ctx)
			if err != nil {
				return err
			}
			src = data.NewCached(raw, data.DefaultCacheCapacity)
			sources[cfg.DataSettings] = src
		}
		bt, err := cfg.BuildBackTest(src, rec)
		if err != nil {
			return err
		}
		if err = rm.AddRun(bt, cfg.Request()); err != nil {
			return err
		}
		out := cfg.OutputDirectory
		if len(cfgs) > 1 {
			out = filepath.Join(out, bt.ID().String())
		}
		jobs = append(jobs, job{id: bt.ID(), cfg: cfg, output: out})
	}

	ran, runErr := rm.StartAllRuns(ctx)
	var errs error
	for _, j := range jobs {
		if !contains(ran, j.id) {
			continue
		}
		if err := finishRun(rm, j); err != nil {
			log.Errorf(common.Backtester, "Run %v: %v", j.id, err)
			errs = qbtcommon.AppendError(errs, err)
		}
	}
	if writeMetrics && len(jobs) > 0 {
		path := filepath.Join(jobs[0].cfg.OutputDirectory, metricsFile)
		if err := prometheus.WriteToTextfile(path, reg); err != nil {
			log.Errorf(common.Backtester, "Could not write metrics: %v", err)
		}
	}
	if runErr != nil {
		return runErr
	}
	return errs
}

// finishRun summarises a completed run and writes its report. A run without
// data still gets a report of its empty result
func finishRun(rm *engine.RunManager, j job) error {
	res, err := rm.GetResult(j.id)
	if res == nil {
		return err
	}
	if err != nil && !errors.Is(err, common.ErrNoData) {
		return err
	}
	summary, sErr := statistics.Summarise(res)
	if sErr != nil {
		log.Errorf(common.Statistics, "Could not summarise run %v: %v", j.id, sErr)
	} else {
		summary.PrintSummary()
	}
	d, rErr := report.New(res, summary, j.output)
	if rErr != nil {
		return rErr
	}
	if rErr = d.GenerateReport(); rErr != nil {
		return rErr
	}
	return err
}

func generateConfig(c *cli.Context) error {
	path := c.String("path")
	if err := config.ExampleConfig().SaveConfig(path); err != nil {
		return err
	}
	fmt.Printf("Example config written to %v\n", path)
	return nil
}

func listComponents(_ *cli.Context) error {
	fmt.Println("Strategies:")
	for _, s := range strategies.GetStrategies() {
		fmt.Printf("\t%v: %v\n", s.Name(), s.Description())
	}
	fmt.Printf("Signals: %v\n", strings.Join(signals.GetGenerators(), ", "))
	fmt.Println("Benchmark types:")
	available := benchmark.GetAvailableBenchmarks()
	types := make([]string, 0, len(available))
	for k := range available {
		types = append(types, k)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Printf("\t%v (%v): %v\n", t, benchmark.SymbolFor(t), available[t])
	}
	return nil
}

func contains(ids []uuid.UUID, id uuid.UUID) bool {
	for i := range ids {
		if ids[i] == id {
			return true
		}
	}
	return false
}
