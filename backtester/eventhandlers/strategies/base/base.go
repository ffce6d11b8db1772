package base

import (
	"fmt"
	"time"

	"github.com/quantbt/qbt/backtester/common"
	"github.com/quantbt/qbt/backtester/eventtypes/order"
	"github.com/shopspring/decimal"
)

// SharesFor returns how many whole shares amount buys at price, 0 when the
// price is not positive
func SharesFor(amount, price decimal.Decimal) int64 {
	if !price.IsPositive() || !amount.IsPositive() {
		return 0
	}
	return amount.Div(price).Floor().IntPart()
}

// MarketOrders builds a market order for each non-zero quantity, following
// the order of symbols
func MarketOrders(t time.Time, symbols []string, quantities map[string]int64) ([]order.Order, error) {
	var resp []order.Order
	for x := range symbols {
		q := quantities[symbols[x]]
		if q == 0 {
			continue
		}
		o, err := order.NewMarket(symbols[x], q, t)
		if err != nil {
			return nil, err
		}
		resp = append(resp, o)
	}
	return resp, nil
}

// FloatSetting parses a numeric custom setting, ensuring it is within
// (minExclusive, maxInclusive]
func FloatSetting(k string, v any, minExclusive, maxInclusive float64) (float64, error) {
	f, ok := common.ToFloat64(v)
	if !ok || f <= minExclusive || f > maxInclusive {
		return 0, fmt.Errorf("%w provided %v value could not be parsed: %v", ErrInvalidCustomSettings, k, v)
	}
	return f, nil
}

// StringSetting parses a non-empty string custom setting
func StringSetting(k string, v any) (string, error) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%w provided %v value could not be parsed: %v", ErrInvalidCustomSettings, k, v)
	}
	return s, nil
}

// UnknownSetting returns the error for a custom setting a strategy does not use
func UnknownSetting(k string, v any) error {
	return fmt.Errorf("%w unrecognised custom setting key %v with value %v. Cannot apply", ErrInvalidCustomSettings, k, v)
}
