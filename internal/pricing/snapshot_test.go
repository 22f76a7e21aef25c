package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaughey2000/ecommerce-project-sub000/internal/cart"
)

func line(productID, price string, qty int) cart.Line {
	return cart.Line{
		ProductID: productID,
		UnitPrice: decimal.RequireFromString(price),
		Quantity:  qty,
	}
}

func TestSnapshotFreezesObservedPrice(t *testing.T) {
	l := line("prod-a", "10.00", 2)
	it := Snapshot(l)

	assert.Equal(t, "prod-a", it.ProductID)
	assert.Equal(t, 2, it.Quantity)
	assert.True(t, it.UnitPrice.Equal(decimal.RequireFromString("10.00")))
}

func TestTotal(t *testing.T) {
	items := SnapshotAll([]cart.Line{
		line("prod-a", "10.00", 2),
		line("prod-b", "3.50", 1),
	})
	require.Len(t, items, 2)

	total := Total(items)
	assert.True(t, total.Equal(decimal.RequireFromString("23.50")), "got %s", total)
}

func TestTotalEmpty(t *testing.T) {
	assert.True(t, Total(nil).IsZero())
}

func TestTotalNoFloatDrift(t *testing.T) {
	// 0.1 * 3 is exactly 0.3 in decimal arithmetic
	items := SnapshotAll([]cart.Line{line("prod-a", "0.10", 3)})
	assert.True(t, Total(items).Equal(decimal.RequireFromString("0.30")))
}
