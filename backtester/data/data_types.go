package data

import (
	"context"
	"errors"
	"time"
)

var (
	errBarNotFound      = errors.New("bar not found")
	errInvalidBar       = errors.New("invalid bar")
	errNilTable         = errors.New("nil table")
	errGeneratorFailure = errors.New("signal generator failed")
)

// Source retrieves OHLCV rows for a set of symbols. An empty table is a valid
// "no data" response, not an error
type Source interface {
	GetPrice(ctx context.Context, symbols []string, start, end time.Time, interval string) (*Table, error)
}

// Generator adds indicator columns to a table without changing its
// (date, symbol) keying
type Generator interface {
	Name() string
	Transform(*Table) (*Table, error)
}

// Bar is one row of market data for one symbol on one date
type Bar struct {
	Date       time.Time
	Symbol     string
	Open       float64
	High       float64
	Low        float64
	Close      float64
	Volume     float64
	Indicators map[string]float64
}

// Table holds bars keyed by date and symbol
type Table struct {
	rows    map[int64]map[string]*Bar
	dates   []time.Time
	symbols []string
	dirty   bool
}

// Slice holds every bar for a single date keyed by symbol
type Slice struct {
	Date time.Time
	Bars map[string]Bar
}

// Static is an in memory Source, mostly useful for tests and for data
// prepared elsewhere
type Static struct {
	table *Table
}
