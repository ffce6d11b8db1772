package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "qbt"

var errNilRegisterer = errors.New("nil prometheus registerer")

// Recorder receives instrumentation events from a backtest run. All methods
// must be safe to call from the goroutine running the simulation
type Recorder interface {
	DateProcessed(track string)
	DateFailed(track string)
	FillExecuted(track, side string, value float64)
	OrderDropped(track string)
	RunFinished(status string, elapsed time.Duration)
}

// Nop discards every event
type Nop struct{}

// Prometheus records run events as prometheus collectors
type Prometheus struct {
	datesProcessed *prometheus.CounterVec
	datesFailed    *prometheus.CounterVec
	fills          *prometheus.CounterVec
	fillValue      *prometheus.CounterVec
	ordersDropped  *prometheus.CounterVec
	runs           *prometheus.CounterVec
	runDuration    prometheus.Histogram
}
