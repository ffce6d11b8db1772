package report

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/quantbt/qbt/backtester/common"
	"github.com/quantbt/qbt/backtester/engine"
	"github.com/quantbt/qbt/backtester/eventhandlers/statistics"
	qbtcommon "github.com/quantbt/qbt/common"
	"github.com/quantbt/qbt/common/file"
	"github.com/quantbt/qbt/log"
	"gopkg.in/yaml.v3"
)

//go:embed tpl.gohtml
var htmlTemplate string

var (
	equityHeader = []string{"date", "cash", "positions_value", "equity", "open_positions"}
	fillsHeader  = []string{"date", "order_id", "symbol", "quantity", "price", "fees", "slippage", "reason"}
)

// New prepares the report of a finished run. summary may be nil when no
// statistics could be calculated
func New(r *engine.Result, summary *statistics.Summary, outputPath string) (*Data, error) {
	if r == nil {
		return nil, errNoResult
	}
	if outputPath == "" {
		return nil, errNoOutputPath
	}
	return &Data{
		Result:      r,
		Summary:     summary,
		OutputPath:  outputPath,
		GeneratedAt: time.Now(),
	}, nil
}

// GenerateReport writes the result as json, the equity curve and fills of
// every track as csv, the summary as yaml and an html overview
func (d *Data) GenerateReport() error {
	if d == nil || d.Result == nil {
		return errNoResult
	}
	if d.OutputPath == "" {
		return errNoOutputPath
	}
	log.Infof(common.Report, "Writing report to %v", d.OutputPath)
	err := d.writeResult()
	if err != nil {
		return err
	}
	for _, t := range d.Result.Tracks() {
		err = writeEquityCSV(filepath.Join(d.OutputPath, equityFilePrefix+fileSafe(t.Name)+".csv"), t)
		if err != nil {
			return err
		}
		err = writeFillsCSV(filepath.Join(d.OutputPath, fillsFilePrefix+fileSafe(t.Name)+".csv"), t)
		if err != nil {
			return err
		}
	}
	if d.Summary != nil {
		err = d.writeSummary()
		if err != nil {
			return err
		}
	}
	err = d.enhanceCharts()
	if err != nil {
		return err
	}
	err = d.writeHTML()
	if err != nil {
		return err
	}
	log.Infof(common.Report, "Report written with %d tracks", len(d.Result.Tracks()))
	return nil
}

func (d *Data) writeResult() error {
	out := resultFile{
		Metadata:   d.Result.Metadata,
		Status:     d.Result.Status,
		Summary:    d.Summary,
		Primary:    d.Result.Primary,
		Benchmarks: d.Result.Benchmarks,
	}
	for i := range d.Result.DateErrors {
		de := dateError{DateError: d.Result.DateErrors[i]}
		if de.Err != nil {
			de.Reason = de.Err.Error()
		}
		out.DateErrors = append(out.DateErrors, de)
	}
	b, err := json.MarshalIndent(out, "", " ")
	if err != nil {
		return err
	}
	return file.Write(filepath.Join(d.OutputPath, ResultFile), b)
}

func (d *Data) writeSummary() error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.Summary); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return file.Write(filepath.Join(d.OutputPath, SummaryFile), buf.Bytes())
}

func writeEquityCSV(path string, t *engine.Track) (err error) {
	f, err := file.Writer(path)
	if err != nil {
		return err
	}
	defer func() {
		err = qbtcommon.AppendError(err, f.Close())
	}()
	w := csv.NewWriter(f)
	if err = w.Write(equityHeader); err != nil {
		return err
	}
	for i := range t.EquityCurve {
		row := t.EquityCurve[i]
		var open int
		for _, q := range row.Positions {
			if q != 0 {
				open++
			}
		}
		err = w.Write([]string{
			row.Date.Format(qbtcommon.DateFormat),
			row.Cash.StringFixed(2),
			row.PositionsValue.StringFixed(2),
			row.Equity.StringFixed(2),
			strconv.Itoa(open),
		})
		if err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeFillsCSV(path string, t *engine.Track) (err error) {
	f, err := file.Writer(path)
	if err != nil {
		return err
	}
	defer func() {
		err = qbtcommon.AppendError(err, f.Close())
	}()
	w := csv.NewWriter(f)
	if err = w.Write(fillsHeader); err != nil {
		return err
	}
	for i := range t.Fills {
		fl := t.Fills[i]
		err = w.Write([]string{
			fl.Time.Format(qbtcommon.DateFormat),
			fl.OrderID.String(),
			fl.Symbol,
			strconv.FormatInt(fl.Quantity, 10),
			fl.Price.String(),
			fl.Fees.String(),
			fl.Slippage.String(),
			fl.Reason,
		})
		if err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// enhanceCharts builds the charts shown in the html report
func (d *Data) enhanceCharts() error {
	tracks := d.Result.Tracks()
	equity, err := createEquityChart(tracks)
	if err != nil {
		return err
	}
	drawdown, err := createDrawdownChart(tracks)
	if err != nil {
		return err
	}
	d.Charts = []*Chart{equity, drawdown}
	return nil
}

func (d *Data) writeHTML() error {
	tmpl, err := template.New(HTMLFile).Funcs(template.FuncMap{
		"percent": func(f float64) string { return common.PercentOf(f).String() + "%" },
		"date":    func(t time.Time) string { return t.Format(qbtcommon.DateFormat) },
	}).Parse(htmlTemplate)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err = tmpl.Execute(&buf, d); err != nil {
		return fmt.Errorf("%v %w", HTMLFile, err)
	}
	return file.Write(filepath.Join(d.OutputPath, HTMLFile), buf.Bytes())
}

// fileSafe makes a track name usable in a file name
func fileSafe(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
}
