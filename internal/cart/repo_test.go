package cart_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaughey2000/ecommerce-project-sub000/internal/cart"
	"github.com/gaughey2000/ecommerce-project-sub000/internal/catalog"
	"github.com/gaughey2000/ecommerce-project-sub000/internal/inventory"
	"github.com/gaughey2000/ecommerce-project-sub000/internal/postgres/postgrestest"
)

func TestCartRepo(t *testing.T) {
	pool := postgrestest.Start(t)
	repo := &cart.Repo{DB: pool}
	ctx := context.Background()

	widget := postgrestest.SeedProduct(t, pool, "widget", "10.00", 5)
	gadget := postgrestest.SeedProduct(t, pool, "gadget", "3.50", 1)

	t.Run("add and increment", func(t *testing.T) {
		it, err := repo.AddOrIncrement(ctx, "user-1", widget, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, it.Quantity)

		it, err = repo.AddOrIncrement(ctx, "user-1", widget, 1)
		require.NoError(t, err)
		assert.Equal(t, 3, it.Quantity, "second add updates the same line item")
	})

	t.Run("add beyond stock is rejected", func(t *testing.T) {
		_, err := repo.AddOrIncrement(ctx, "user-1", widget, 3) // 3 + 3 > 5
		var stockErr *inventory.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, "widget", stockErr.Product)
		assert.Equal(t, 5, stockErr.Available)
	})

	t.Run("add unknown product", func(t *testing.T) {
		_, err := repo.AddOrIncrement(ctx, "user-1", "00000000-0000-0000-0000-000000000000", 1)
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	})

	t.Run("zero and negative quantity rejected", func(t *testing.T) {
		_, err := repo.AddOrIncrement(ctx, "user-1", widget, 0)
		assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
		_, err = repo.AddOrIncrement(ctx, "user-1", widget, -2)
		assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
	})

	t.Run("set quantity", func(t *testing.T) {
		it, err := repo.AddOrIncrement(ctx, "user-2", gadget, 1)
		require.NoError(t, err)

		_, err = repo.SetQuantity(ctx, "user-2", it.ID, 0)
		assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

		lines, err := repo.Lines(ctx, "user-2")
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, 1, lines[0].Quantity, "rejected update must not change the stored quantity")

		_, err = repo.SetQuantity(ctx, "user-2", it.ID, 2) // stock is 1
		var stockErr *inventory.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, 1, stockErr.Available)

		updated, err := repo.SetQuantity(ctx, "user-2", it.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, updated.Quantity)
	})

	t.Run("set quantity on another user's item", func(t *testing.T) {
		it, err := repo.AddOrIncrement(ctx, "user-3", widget, 1)
		require.NoError(t, err)

		_, err = repo.SetQuantity(ctx, "user-1", it.ID, 1)
		assert.ErrorIs(t, err, cart.ErrCartItemNotFound)
	})

	t.Run("remove", func(t *testing.T) {
		it, err := repo.AddOrIncrement(ctx, "user-4", widget, 1)
		require.NoError(t, err)

		require.NoError(t, repo.Remove(ctx, "user-4", it.ID))
		assert.ErrorIs(t, repo.Remove(ctx, "user-4", it.ID), cart.ErrCartItemNotFound)
	})

	t.Run("lines join current product data", func(t *testing.T) {
		lines, err := repo.Lines(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, "widget", lines[0].ProductName)
		assert.True(t, lines[0].UnitPrice.Equal(decimal.RequireFromString("10.00")))
		assert.Equal(t, 3, lines[0].Quantity)
		assert.Equal(t, 5, lines[0].Stock)
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, repo.Clear(ctx, "user-1"))
		lines, err := repo.Lines(ctx, "user-1")
		require.NoError(t, err)
		assert.Empty(t, lines)
	})
}
