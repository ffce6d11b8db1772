package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

var (
	errRunNotFound         = errors.New("run not found")
	errRunAlreadyMonitored = errors.New("run already monitored")
	errAlreadyRan          = errors.New("run already ran")
	errRunHasNotRan        = errors.New("run hasn't ran yet")
)

// Request holds the arguments a managed run is started with
type Request struct {
	Universe []string
	Start    time.Time
	End      time.Time
	Interval string
}

// RunManager holds backtests queued from one or more configs and runs them
// one after another
type RunManager struct {
	m    sync.Mutex
	runs []*managedRun
}

type managedRun struct {
	backtest *BackTest
	request  Request
	result   *Result
	err      error
}

// RunSummary describes a managed run
type RunSummary struct {
	ID          uuid.UUID       `json:"id"`
	Nickname    string          `json:"nickname"`
	Strategy    string          `json:"strategy"`
	Status      Status          `json:"status"`
	DateErrors  int             `json:"date-errors"`
	FinalEquity decimal.Decimal `json:"final-equity"`
	Error       string          `json:"error,omitempty"`
}
