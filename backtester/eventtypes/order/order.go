package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid"
)

// NewMarket returns a market order with a fresh ID
func NewMarket(symbol string, quantity int64, t time.Time) (Order, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return Order{}, err
	}
	o := Order{
		ID:       id,
		Symbol:   strings.ToUpper(symbol),
		Quantity: quantity,
		Kind:     Market,
		Time:     t,
	}
	return o, o.Validate()
}

// Validate checks the order can be sent for execution
func (o *Order) Validate() error {
	if o.Symbol == "" {
		return errEmptySymbol
	}
	if o.Quantity == 0 {
		return fmt.Errorf("%w: %v", errZeroQuantity, o.Symbol)
	}
	if o.Kind != Market && o.Kind != "" {
		return fmt.Errorf("%w: %v", errUnsupportedKind, o.Kind)
	}
	return nil
}

// IsBuy returns whether the order increases the position
func (o *Order) IsBuy() bool {
	return o.Quantity > 0
}

// IsSell returns whether the order decreases the position
func (o *Order) IsSell() bool {
	return o.Quantity < 0
}

// AbsQuantity returns the unsigned size of the order
func (o *Order) AbsQuantity() int64 {
	if o.Quantity < 0 {
		return -o.Quantity
	}
	return o.Quantity
}

func (o *Order) String() string {
	return fmt.Sprintf("%v %v %d", o.Kind, o.Symbol, o.Quantity)
}
