package holdings

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var errSymbolMismatch = errors.New("fill symbol does not match holding")

// Holding accumulates the trading activity of one symbol for one tracked
// strategy
type Holding struct {
	Symbol        string          `json:"symbol" yaml:"symbol"`
	Timestamp     time.Time       `json:"timestamp" yaml:"timestamp"`
	Quantity      int64           `json:"quantity" yaml:"quantity"`
	AverageCost   decimal.Decimal `json:"average-cost" yaml:"average-cost"`
	BoughtAmount  int64           `json:"bought-amount" yaml:"bought-amount"`
	BoughtValue   decimal.Decimal `json:"bought-value" yaml:"bought-value"`
	SoldAmount    int64           `json:"sold-amount" yaml:"sold-amount"`
	SoldValue     decimal.Decimal `json:"sold-value" yaml:"sold-value"`
	TotalFees     decimal.Decimal `json:"total-fees" yaml:"total-fees"`
	TotalSlippage decimal.Decimal `json:"total-slippage" yaml:"total-slippage"`
	RealisedPNL   decimal.Decimal `json:"realised-pnl" yaml:"realised-pnl"`
	ClosedTrades  int             `json:"closed-trades" yaml:"closed-trades"`
	WinningTrades int             `json:"winning-trades" yaml:"winning-trades"`
}

// Book holds a Holding per symbol
type Book map[string]*Holding
