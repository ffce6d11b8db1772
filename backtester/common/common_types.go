package common

import (
	"errors"

	"github.com/quantbt/qbt/log"
)

// Market data column names shared between signal generators and strategies
const (
	ColumnOpen   = "Open"
	ColumnHigh   = "High"
	ColumnLow    = "Low"
	ColumnClose  = "Close"
	ColumnVolume = "Volume"
)

// TradingDaysPerYear is used to annualise daily figures
const TradingDaysPerYear = 252

var (
	// ErrNoData is returned when a data source has no rows for the requested
	// universe and date range
	ErrNoData = errors.New("no data")
	// ErrNilArguments is a common error response to highlight that nils were passed in
	// when they should not have been
	ErrNilArguments = errors.New("received nil argument(s)")
	// ErrInvalidDateRange is returned when a start date is not before an end date
	ErrInvalidDateRange = errors.New("invalid date range")
	// ErrEmptyUniverse is returned when no symbols are provided
	ErrEmptyUniverse = errors.New("universe has no symbols")
)

// Sublogger shorthands for the backtester
var (
	Backtester = log.BackTester
	Setup      = log.Setup
	Config     = log.ConfigMgr
	Data       = log.Data
	Database   = log.Database
	Strategy   = log.Strategy
	Exchange   = log.Exchange
	Portfolio  = log.Portfolio
	Statistics = log.Statistics
	Report     = log.Report
)

// colours for command line output
const (
	ColourDefault  = "\u001b[0m"
	ColourGreen    = "\033[38;5;157m"
	ColourWhite    = "\033[38;5;255m"
	ColourGrey     = "\033[38;5;240m"
	ColourDarkGrey = "\033[38;5;243m"
	ColourH1       = "\033[38;5;33m"
	ColourH2       = "\033[38;5;64m"
	ColourInfo     = "\u001B[32m"
	ColourError    = "\033[38;5;196m"
)

// ASCIILogo is a logo that is optionally printed to the command line window
const ASCIILogo = `
   ____  ____ _______
  / __ \|  _ \__   __|
 | |  | | |_) | | |
 | |  | |  _ <  | |
 | |__| | |_) | | |
  \___\_\____/  |_|
   quantitative backtester
`
