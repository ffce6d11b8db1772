package fill

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AbsQuantity returns the unsigned size of the fill
func (f *Fill) AbsQuantity() decimal.Decimal {
	return decimal.NewFromInt(f.Quantity).Abs()
}

// IsBuy returns whether the fill increased the position
func (f *Fill) IsBuy() bool {
	return f.Quantity > 0
}

// TradeValue returns |quantity| x price
func (f *Fill) TradeValue() decimal.Decimal {
	return f.AbsQuantity().Mul(f.Price)
}

// TotalCost returns |quantity| x price + fees + |quantity| x slippage
func (f *Fill) TotalCost() decimal.Decimal {
	q := f.AbsQuantity()
	return q.Mul(f.Price).Add(f.Fees).Add(q.Mul(f.Slippage))
}

// CashImpact returns the signed change to cash the fill caused
func (f *Fill) CashImpact() decimal.Decimal {
	if f.IsBuy() {
		return f.TradeValue().Add(f.Fees).Add(f.Slippage).Neg()
	}
	return f.TradeValue().Sub(f.Fees).Sub(f.Slippage)
}

// AppendReason adds to the fill's reasoning
func (f *Fill) AppendReason(reason string) {
	if f.Reason == "" {
		f.Reason = reason
		return
	}
	f.Reason = strings.Join([]string{f.Reason, reason}, ". ")
}
