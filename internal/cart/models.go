package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

type Item struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Line is a cart item joined with the live product row, for display. The
// price here is the current catalog price, not a purchase price.
type Line struct {
	ItemID      string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Stock       int             `json:"stock_quantity"`
}
