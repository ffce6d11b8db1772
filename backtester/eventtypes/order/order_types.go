package order

import (
	"errors"
	"time"

	"github.com/gofrs/uuid"
)

// Kind is the type of order
type Kind string

// Market is the only order kind the execution model fills
const Market Kind = "MARKET"

var (
	errEmptySymbol     = errors.New("order has no symbol")
	errZeroQuantity    = errors.New("order quantity is zero")
	errUnsupportedKind = errors.New("unsupported order kind")
)

// Order is a desired signed change in a position. A positive quantity buys,
// a negative quantity sells
type Order struct {
	ID       uuid.UUID `json:"id"`
	Symbol   string    `json:"symbol"`
	Quantity int64     `json:"quantity"`
	Kind     Kind      `json:"kind"`
	Time     time.Time `json:"time,omitempty"`
}
