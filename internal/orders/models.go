package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

type ShippingInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type Order struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Status    Status          `json:"status"`
	Total     decimal.Decimal `json:"total"`
	Shipping  ShippingInfo    `json:"shipping"`
	Items     []Item          `json:"items,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Item is immutable once written; unit_price is the pricing snapshot taken
// at order creation, not the live catalog price.
type Item struct {
	ID        int64           `json:"id"`
	OrderID   string          `json:"order_id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ItemInput is one priced line handed to the ledger at creation time.
type ItemInput struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}
