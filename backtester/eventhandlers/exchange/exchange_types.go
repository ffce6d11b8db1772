package exchange

import (
	"errors"
	"time"

	"github.com/quantbt/qbt/backtester/eventhandlers/portfolio"
	"github.com/quantbt/qbt/backtester/eventtypes/fill"
	"github.com/quantbt/qbt/backtester/eventtypes/order"
	"github.com/shopspring/decimal"
)

// Defaults used when no broker settings are configured
var (
	DefaultCommissionRate = decimal.NewFromFloat(0.001)
	DefaultSlippageRate   = decimal.NewFromFloat(0.0005)
)

var (
	errInvalidRate = errors.New("rate must be at least 0 and less than 1")
	errNilState    = errors.New("nil portfolio state")
)

// ExecutionHandler turns orders into fills, mutating the portfolio state it
// is given. It returns at most one fill per order
type ExecutionHandler interface {
	ExecuteOrders(orders []order.Order, prices map[string]decimal.Decimal, state *portfolio.State, t time.Time) ([]fill.Fill, error)
}

// Settings holds the cost model of the simulated broker
type Settings struct {
	CommissionRate decimal.Decimal `json:"commission-rate"`
	SlippageRate   decimal.Decimal `json:"slippage-rate"`
}

// Exchange is a simple broker filling market orders at the day's close with
// commission and slippage applied
type Exchange struct {
	settings Settings
}
