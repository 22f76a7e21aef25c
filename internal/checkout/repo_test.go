package checkout_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/gaughey2000/ecommerce-project-sub000/internal/cart"
	"github.com/gaughey2000/ecommerce-project-sub000/internal/checkout"
	"github.com/gaughey2000/ecommerce-project-sub000/internal/inventory"
	"github.com/gaughey2000/ecommerce-project-sub000/internal/orders"
	"github.com/gaughey2000/ecommerce-project-sub000/internal/postgres/postgrestest"
)

func shipping() orders.ShippingInfo {
	return orders.ShippingInfo{Name: "Ada Lovelace", Email: "ada@example.com", Address: "1 Analytical Way"}
}

func TestPlaceOrder(t *testing.T) {
	pool := postgrestest.Start(t)
	carts := &cart.Repo{DB: pool}
	repo := &checkout.Repo{DB: pool}
	ledger := &orders.Repo{DB: pool}
	ctx := context.Background()

	widget := postgrestest.SeedProduct(t, pool, "widget", "10.00", 5)
	gadget := postgrestest.SeedProduct(t, pool, "gadget", "3.50", 1)

	_, err := carts.AddOrIncrement(ctx, "user-1", widget, 2)
	require.NoError(t, err)
	_, err = carts.AddOrIncrement(ctx, "user-1", gadget, 1)
	require.NoError(t, err)

	ord, err := repo.PlaceOrder(ctx, "user-1", shipping())
	require.NoError(t, err)

	assert.Equal(t, orders.StatusPending, ord.Status)
	assert.True(t, ord.Total.Equal(decimal.RequireFromString("23.50")), "got %s", ord.Total)
	require.Len(t, ord.Items, 2)

	assert.Equal(t, 3, postgrestest.StockOf(t, pool, widget))
	assert.Equal(t, 0, postgrestest.StockOf(t, pool, gadget))

	lines, err := carts.Lines(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, lines, "cart clears exactly on success")

	// the ledger agrees with what was returned
	persisted, err := ledger.GetForUser(ctx, "user-1", ord.ID)
	require.NoError(t, err)
	assert.True(t, persisted.Total.Equal(ord.Total))
	assert.Equal(t, orders.StatusPending, persisted.Status)

	items, err := ledger.ItemsForUser(ctx, "user-1", ord.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	assert.True(t, persisted.Total.Equal(sum), "total == Σ quantity × unit price")
}

func TestPlaceOrderKeepsSnapshotPrice(t *testing.T) {
	pool := postgrestest.Start(t)
	carts := &cart.Repo{DB: pool}
	repo := &checkout.Repo{DB: pool}
	ledger := &orders.Repo{DB: pool}
	ctx := context.Background()

	widget := postgrestest.SeedProduct(t, pool, "widget", "10.00", 5)
	_, err := carts.AddOrIncrement(ctx, "user-1", widget, 1)
	require.NoError(t, err)

	ord, err := repo.PlaceOrder(ctx, "user-1", shipping())
	require.NoError(t, err)

	// catalog price changes after the order exists
	_, err = pool.Exec(ctx, `UPDATE products SET price = '99.99' WHERE id = $1`, widget)
	require.NoError(t, err)

	items, err := ledger.ItemsForUser(ctx, "user-1", ord.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].UnitPrice.Equal(decimal.RequireFromString("10.00")),
		"order item keeps the price observed at creation")

	persisted, err := ledger.GetForUser(ctx, "user-1", ord.ID)
	require.NoError(t, err)
	assert.True(t, persisted.Total.Equal(decimal.RequireFromString("10.00")))
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	pool := postgrestest.Start(t)
	repo := &checkout.Repo{DB: pool}

	_, err := repo.PlaceOrder(context.Background(), "user-1", shipping())
	assert.ErrorIs(t, err, checkout.ErrEmptyCart)
}

func TestPlaceOrderInsufficientStockIsAllOrNothing(t *testing.T) {
	pool := postgrestest.Start(t)
	carts := &cart.Repo{DB: pool}
	repo := &checkout.Repo{DB: pool}
	ctx := context.Background()

	widget := postgrestest.SeedProduct(t, pool, "widget", "10.00", 5)
	gadget := postgrestest.SeedProduct(t, pool, "gadget", "3.50", 2)

	_, err := carts.AddOrIncrement(ctx, "user-1", widget, 2)
	require.NoError(t, err)
	_, err = carts.AddOrIncrement(ctx, "user-1", gadget, 2)
	require.NoError(t, err)

	// a competing order drains the gadget stock between add and checkout
	_, err = pool.Exec(ctx, `UPDATE products SET stock_quantity = 1 WHERE id = $1`, gadget)
	require.NoError(t, err)

	_, err = repo.PlaceOrder(ctx, "user-1", shipping())
	var stockErr *inventory.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "gadget", stockErr.Product)
	assert.Equal(t, 1, stockErr.Available)

	// nothing was written: no order, no decrement, cart intact
	var orderCount int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&orderCount))
	assert.Zero(t, orderCount)

	var itemCount int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM order_items`).Scan(&itemCount))
	assert.Zero(t, itemCount)

	assert.Equal(t, 5, postgrestest.StockOf(t, pool, widget))
	assert.Equal(t, 1, postgrestest.StockOf(t, pool, gadget))

	lines, err := carts.Lines(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, lines, 2, "failed checkout leaves the cart unchanged")
}

func TestConcurrentCheckoutsCannotOversell(t *testing.T) {
	pool := postgrestest.Start(t)
	carts := &cart.Repo{DB: pool}
	repo := &checkout.Repo{DB: pool}
	ctx := context.Background()

	lastUnit := postgrestest.SeedProduct(t, pool, "last-unit", "5.00", 1)

	_, err := carts.AddOrIncrement(ctx, "user-a", lastUnit, 1)
	require.NoError(t, err)
	_, err = carts.AddOrIncrement(ctx, "user-b", lastUnit, 1)
	require.NoError(t, err)

	results := make([]error, 2)
	var g errgroup.Group
	for i, uid := range []string{"user-a", "user-b"} {
		i, uid := i, uid
		g.Go(func() error {
			_, err := repo.PlaceOrder(ctx, uid, shipping())
			results[i] = err
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var wins, losses int
	for _, err := range results {
		if err == nil {
			wins++
			continue
		}
		var stockErr *inventory.InsufficientStockError
		if errors.As(err, &stockErr) {
			losses++
		}
	}
	assert.Equal(t, 1, wins, "exactly one checkout wins the last unit")
	assert.Equal(t, 1, losses, "the other observes insufficient stock: %v", results)

	assert.Equal(t, 0, postgrestest.StockOf(t, pool, lastUnit), "stock never goes negative")

	var orderCount int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&orderCount))
	assert.Equal(t, 1, orderCount)
}
