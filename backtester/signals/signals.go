package signals

import (
	"fmt"
	"math"
	"strings"

	"github.com/quantbt/qbt/backtester/common"
	"github.com/quantbt/qbt/backtester/data"
	"github.com/quantbt/qbt/log"
	"github.com/thrasher-corp/gct-ta/indicators"
)

// GetGenerators returns the names of every supported generator
func GetGenerators() []string {
	return []string{EMAName, MACDName, RSIName}
}

// LoadGeneratorByName returns a generator with its defaults overridden by
// any settings provided
func LoadGeneratorByName(name string, settings map[string]any) (data.Generator, error) {
	var g interface {
		data.Generator
		setDefaults()
		setCustomSettings(map[string]any) error
	}
	switch strings.ToLower(name) {
	case EMAName:
		g = &EMA{}
	case MACDName:
		g = &MACD{}
	case RSIName:
		g = &RSI{}
	default:
		return nil, fmt.Errorf("%w: %v", ErrGeneratorNotFound, name)
	}
	g.setDefaults()
	if err := g.setCustomSettings(settings); err != nil {
		return nil, err
	}
	return g, nil
}

func periodSetting(k string, v any) (int, error) {
	f, ok := common.ToFloat64(v)
	if !ok || f < 1 || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %v must be a positive whole number, received %v", ErrInvalidSettings, k, v)
	}
	return int(f), nil
}

func columnSetting(k string, v any) (string, error) {
	c, ok := v.(string)
	if !ok || c == "" {
		return "", fmt.Errorf("%w: %v must be a column name, received %v", ErrInvalidSettings, k, v)
	}
	return c, nil
}

// seriesOf returns the date ordered bars of every symbol in the table
func seriesOf(t *data.Table) map[string][]data.Bar {
	resp := make(map[string][]data.Bar)
	for _, s := range t.Symbols() {
		resp[s] = t.Series(s)
	}
	return resp
}

func values(bars []data.Bar, column string) []float64 {
	resp := make([]float64, len(bars))
	for x := range bars {
		resp[x] = bars[x].Value(column)
	}
	return resp
}

// at returns the value of an indicator output for bar x of n bars. Outputs
// shorter than their input are aligned to the most recent bar
func at(out []float64, n, x int) (float64, bool) {
	i := x - (n - len(out))
	if i < 0 || i >= len(out) || math.IsNaN(out[i]) || math.IsInf(out[i], 0) {
		return math.NaN(), false
	}
	return out[i], true
}

func binary(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Name returns the generator name
func (e *EMA) Name() string {
	return EMAName
}

func (e *EMA) setDefaults() {
	e.ShortPeriod = 12
	e.LongPeriod = 26
	e.Column = defaultSourceColumn
}

func (e *EMA) setCustomSettings(settings map[string]any) error {
	var err error
	for k, v := range settings {
		switch k {
		case shortPeriodKey:
			e.ShortPeriod, err = periodSetting(k, v)
		case longPeriodKey:
			e.LongPeriod, err = periodSetting(k, v)
		case columnKey:
			e.Column, err = columnSetting(k, v)
		default:
			err = fmt.Errorf("%w: unknown ema setting %v", ErrInvalidSettings, k)
		}
		if err != nil {
			return err
		}
	}
	if e.ShortPeriod >= e.LongPeriod {
		return fmt.Errorf("%w: short period %v must be less than long period %v", ErrInvalidSettings, e.ShortPeriod, e.LongPeriod)
	}
	return nil
}

// ShortColumn returns the column name of the short average
func (e *EMA) ShortColumn() string {
	return fmt.Sprintf("EMA_%d", e.ShortPeriod)
}

// LongColumn returns the column name of the long average
func (e *EMA) LongColumn() string {
	return fmt.Sprintf("EMA_%d", e.LongPeriod)
}

// Transform returns a copy of the table with the EMA columns added. Rows
// before the long average has warmed up hold NaN
func (e *EMA) Transform(t *data.Table) (*data.Table, error) {
	resp := t.Clone()
	for sym, bars := range seriesOf(resp) {
		closes := values(bars, e.Column)
		var short, long []float64
		if len(closes) >= e.LongPeriod {
			short = indicators.EMA(closes, e.ShortPeriod)
			long = indicators.EMA(closes, e.LongPeriod)
		}
		for x := range bars {
			s, l, sig := math.NaN(), math.NaN(), math.NaN()
			if x >= e.LongPeriod-1 {
				sv, sok := at(short, len(bars), x)
				lv, lok := at(long, len(bars), x)
				if sok && lok {
					s, l = sv, lv
					sig = binary(s > l)
				}
			}
			if err := setAll(resp, bars[x], map[string]float64{
				e.ShortColumn(): s,
				e.LongColumn():  l,
				EMASignalColumn: sig,
			}); err != nil {
				return nil, err
			}
		}
		log.Debugf(common.Data, "%v applied to %v bars of %v", e.Name(), len(bars), sym)
	}
	return resp, nil
}

// Name returns the generator name
func (m *MACD) Name() string {
	return MACDName
}

func (m *MACD) setDefaults() {
	m.FastPeriod = 12
	m.SlowPeriod = 26
	m.SignalPeriod = 9
	m.Column = defaultSourceColumn
}

func (m *MACD) setCustomSettings(settings map[string]any) error {
	var err error
	for k, v := range settings {
		switch k {
		case fastPeriodKey:
			m.FastPeriod, err = periodSetting(k, v)
		case slowPeriodKey:
			m.SlowPeriod, err = periodSetting(k, v)
		case signalPeriodKey:
			m.SignalPeriod, err = periodSetting(k, v)
		case columnKey:
			m.Column, err = columnSetting(k, v)
		default:
			err = fmt.Errorf("%w: unknown macd setting %v", ErrInvalidSettings, k)
		}
		if err != nil {
			return err
		}
	}
	if m.FastPeriod >= m.SlowPeriod {
		return fmt.Errorf("%w: fast period %v must be less than slow period %v", ErrInvalidSettings, m.FastPeriod, m.SlowPeriod)
	}
	return nil
}

func (m *MACD) warmUp() int {
	return m.SlowPeriod + m.SignalPeriod - 2
}

// Transform returns a copy of the table with the MACD columns added. Rows
// before the signal line has warmed up hold NaN
func (m *MACD) Transform(t *data.Table) (*data.Table, error) {
	resp := t.Clone()
	for sym, bars := range seriesOf(resp) {
		closes := values(bars, m.Column)
		var macd, signal, hist []float64
		if len(closes) > m.warmUp() {
			macd, signal, hist = indicators.MACD(closes, m.FastPeriod, m.SlowPeriod, m.SignalPeriod)
		}
		for x := range bars {
			mv, sv, hv, tv := math.NaN(), math.NaN(), math.NaN(), math.NaN()
			if x >= m.warmUp() {
				a, aok := at(macd, len(bars), x)
				b, bok := at(signal, len(bars), x)
				c, cok := at(hist, len(bars), x)
				if aok && bok && cok {
					mv, sv, hv = a, b, c
					tv = binary(mv > sv)
				}
			}
			if err := setAll(resp, bars[x], map[string]float64{
				MACDColumn:              mv,
				MACDSignalColumn:        sv,
				MACDHistogramColumn:     hv,
				MACDTradingSignalColumn: tv,
			}); err != nil {
				return nil, err
			}
		}
		log.Debugf(common.Data, "%v applied to %v bars of %v", m.Name(), len(bars), sym)
	}
	return resp, nil
}

// Name returns the generator name
func (r *RSI) Name() string {
	return RSIName
}

func (r *RSI) setDefaults() {
	r.Period = 14
	r.Overbought = 70
	r.Oversold = 30
	r.Column = defaultSourceColumn
}

func (r *RSI) setCustomSettings(settings map[string]any) error {
	var err error
	for k, v := range settings {
		switch k {
		case periodKey:
			r.Period, err = periodSetting(k, v)
		case overboughtKey, oversoldKey:
			f, ok := common.ToFloat64(v)
			if !ok || f <= 0 || f >= 100 {
				return fmt.Errorf("%w: %v must be between 0 and 100, received %v", ErrInvalidSettings, k, v)
			}
			if k == overboughtKey {
				r.Overbought = f
			} else {
				r.Oversold = f
			}
		case columnKey:
			r.Column, err = columnSetting(k, v)
		default:
			err = fmt.Errorf("%w: unknown rsi setting %v", ErrInvalidSettings, k)
		}
		if err != nil {
			return err
		}
	}
	if r.Oversold >= r.Overbought {
		return fmt.Errorf("%w: oversold %v must be less than overbought %v", ErrInvalidSettings, r.Oversold, r.Overbought)
	}
	return nil
}

// Transform returns a copy of the table with the RSI columns added. Rows
// before a full period of price changes is available hold NaN
func (r *RSI) Transform(t *data.Table) (*data.Table, error) {
	resp := t.Clone()
	for sym, bars := range seriesOf(resp) {
		closes := values(bars, r.Column)
		var rsi []float64
		if len(closes) > r.Period {
			rsi = indicators.RSI(closes, r.Period)
		}
		for x := range bars {
			rv, sv := math.NaN(), math.NaN()
			if v, ok := at(rsi, len(bars), x); ok && x >= r.Period {
				rv = v
				switch {
				case rv <= r.Oversold:
					sv = 1
				case rv >= r.Overbought:
					sv = -1
				default:
					sv = 0
				}
			}
			if err := setAll(resp, bars[x], map[string]float64{
				RSIColumn:       rv,
				RSISignalColumn: sv,
			}); err != nil {
				return nil, err
			}
		}
		log.Debugf(common.Data, "%v applied to %v bars of %v", r.Name(), len(bars), sym)
	}
	return resp, nil
}

func setAll(t *data.Table, b data.Bar, columns map[string]float64) error {
	for k, v := range columns {
		if err := t.SetIndicator(b.Date, b.Symbol, k, v); err != nil {
			return err
		}
	}
	return nil
}
