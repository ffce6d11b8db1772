package fill

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// Fill is the realised outcome of executing an order
type Fill struct {
	OrderID  uuid.UUID       `json:"order-id"`
	Symbol   string          `json:"symbol"`
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Fees     decimal.Decimal `json:"fees"`
	Slippage decimal.Decimal `json:"slippage"`
	Time     time.Time       `json:"time"`
	Reason   string          `json:"reason,omitempty"`
}
