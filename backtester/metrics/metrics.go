package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DateProcessed does nothing
func (Nop) DateProcessed(string) {}

// DateFailed does nothing
func (Nop) DateFailed(string) {}

// FillExecuted does nothing
func (Nop) FillExecuted(string, string, float64) {}

// OrderDropped does nothing
func (Nop) OrderDropped(string) {}

// RunFinished does nothing
func (Nop) RunFinished(string, time.Duration) {}

// NewPrometheus registers the backtest collectors on reg. Use a dedicated
// registry when more than one recorder is needed in a process
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	if reg == nil {
		return nil, errNilRegisterer
	}
	factory := promauto.With(reg)
	return &Prometheus{
		datesProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dates_processed_total",
				Help:      "Total number of simulated dates processed per track",
			},
			[]string{"track"},
		),
		datesFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "date_errors_total",
				Help:      "Total number of dates where a track's strategy failed",
			},
			[]string{"track"},
		),
		fills: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fills_total",
				Help:      "Total number of fills executed",
			},
			[]string{"track", "side"},
		),
		fillValue: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fill_value_total",
				Help:      "Total traded value of executed fills",
			},
			[]string{"track", "side"},
		),
		ordersDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orders_dropped_total",
				Help:      "Total number of orders the broker could not fill",
			},
			[]string{"track"},
		),
		runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of backtest runs by final status",
			},
			[]string{"status"},
		),
		runDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Wall clock duration of backtest runs in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
			},
		),
	}, nil
}

// DateProcessed counts a date processed by a track
func (p *Prometheus) DateProcessed(track string) {
	p.datesProcessed.WithLabelValues(track).Inc()
}

// DateFailed counts a date where a track's strategy failed
func (p *Prometheus) DateFailed(track string) {
	p.datesFailed.WithLabelValues(track).Inc()
}

// FillExecuted counts a fill and its traded value
func (p *Prometheus) FillExecuted(track, side string, value float64) {
	p.fills.WithLabelValues(track, side).Inc()
	p.fillValue.WithLabelValues(track, side).Add(value)
}

// OrderDropped counts an order which produced no fill
func (p *Prometheus) OrderDropped(track string) {
	p.ordersDropped.WithLabelValues(track).Inc()
}

// RunFinished records the outcome and duration of a run
func (p *Prometheus) RunFinished(status string, elapsed time.Duration) {
	p.runs.WithLabelValues(status).Inc()
	p.runDuration.Observe(elapsed.Seconds())
}
