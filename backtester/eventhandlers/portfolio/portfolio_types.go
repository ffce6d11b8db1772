package portfolio

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrNegativeCash is returned when a state would be created with negative cash
	ErrNegativeCash = errors.New("cash cannot be negative")
)

// State holds the cash and signed integer positions of one tracked strategy.
// A position closed to zero is removed from the map
type State struct {
	Cash      decimal.Decimal  `json:"cash"`
	Positions map[string]int64 `json:"positions"`
}
