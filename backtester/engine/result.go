package engine

import (
	"sort"
	"time"
)

// Dates returns the dates of the equity curve in order
func (t *Track) Dates() []time.Time {
	resp := make([]time.Time, len(t.EquityCurve))
	for i := range t.EquityCurve {
		resp[i] = t.EquityCurve[i].Date
	}
	return resp
}

// Equities returns the equity curve values in order
func (t *Track) Equities() []float64 {
	resp := make([]float64, len(t.EquityCurve))
	for i := range t.EquityCurve {
		resp[i] = t.EquityCurve[i].Equity.InexactFloat64()
	}
	return resp
}

// Returns returns the fractional change of equity between consecutive rows.
// A row following zero equity has no defined return and is left out
func (t *Track) Returns() []float64 {
	equities := t.Equities()
	if len(equities) < 2 {
		return nil
	}
	resp := make([]float64, 0, len(equities)-1)
	for i := 1; i < len(equities); i++ {
		if equities[i-1] == 0 {
			continue
		}
		resp = append(resp, equities[i]/equities[i-1]-1)
	}
	return resp
}

// ReturnsByDate returns the same changes as Returns keyed by the date they
// were realised on
func (t *Track) ReturnsByDate() map[time.Time]float64 {
	resp := make(map[time.Time]float64)
	for i := 1; i < len(t.EquityCurve); i++ {
		prev := t.EquityCurve[i-1].Equity
		if prev.IsZero() {
			continue
		}
		resp[t.EquityCurve[i].Date] = t.EquityCurve[i].Equity.Div(prev).InexactFloat64() - 1
	}
	return resp
}

// TotalReturn returns the fractional change from initial cash to final
// equity
func (t *Track) TotalReturn() float64 {
	if !t.InitialCash.IsPositive() {
		return 0
	}
	return t.FinalEquity.Div(t.InitialCash).InexactFloat64() - 1
}

// BenchmarkNames returns the names of the benchmark tracks in order
func (r *Result) BenchmarkNames() []string {
	resp := make([]string, 0, len(r.Benchmarks))
	for k := range r.Benchmarks {
		resp = append(resp, k)
	}
	sort.Strings(resp)
	return resp
}

// Tracks returns the primary track followed by the benchmarks in name order
func (r *Result) Tracks() []*Track {
	resp := make([]*Track, 0, len(r.Benchmarks)+1)
	if r.Primary != nil {
		resp = append(resp, r.Primary)
	}
	for _, name := range r.BenchmarkNames() {
		resp = append(resp, r.Benchmarks[name])
	}
	return resp
}
