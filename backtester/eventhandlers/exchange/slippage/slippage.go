package slippage

import "github.com/shopspring/decimal"

// ApplyRate moves price against the trader by rate. Buys pay
// price x (1 + rate), sells receive price x (1 - rate)
func ApplyRate(price, rate decimal.Decimal, isBuy bool) decimal.Decimal {
	if isBuy {
		return price.Mul(decimal.NewFromInt(1).Add(rate))
	}
	return price.Mul(decimal.NewFromInt(1).Sub(rate))
}

// Cost returns the amount lost to slippage for quantity units traded at
// executionPrice instead of price
func Cost(quantity int64, price, executionPrice decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(quantity).Abs().Mul(executionPrice.Sub(price).Abs())
}
