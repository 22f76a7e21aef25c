// Package pricing captures unit prices at the moment an order is created.
// Everything here is pure; checkout computes against prices read once, it
// never re-reads them mid-transaction.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/gaughey2000/ecommerce-project-sub000/internal/cart"
	"github.com/gaughey2000/ecommerce-project-sub000/internal/orders"
)

// Snapshot freezes one cart line into an order line at the product's
// current price.
func Snapshot(line cart.Line) orders.ItemInput {
	return orders.ItemInput{
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		UnitPrice: line.UnitPrice,
	}
}

func SnapshotAll(lines []cart.Line) []orders.ItemInput {
	out := make([]orders.ItemInput, len(lines))
	for i, l := range lines {
		out[i] = Snapshot(l)
	}
	return out
}

// Total is Σ quantity × unit price over the snapshotted lines.
func Total(items []orders.ItemInput) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}
