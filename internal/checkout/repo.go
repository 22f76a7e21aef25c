package checkout

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gaughey2000/ecommerce-project-sub000/internal/cart"
	"github.com/gaughey2000/ecommerce-project-sub000/internal/inventory"
	"github.com/gaughey2000/ecommerce-project-sub000/internal/orders"
	"github.com/gaughey2000/ecommerce-project-sub000/internal/pricing"
)

// Repo runs the checkout unit of work. The whole sequence — cart read,
// stock verification, order insert, stock decrement, cart clear — happens
// inside one transaction with the product rows locked, so a concurrent
// checkout for the same product either waits or observes the decremented
// stock. No step can be left half-applied.
type Repo struct{ DB *pgxpool.Pool }

// PlaceOrder turns the user's cart into a pending order and reserves the
// stock for it. Any failure rolls everything back: no order rows, no
// decrement, cart untouched.
func (r *Repo) PlaceOrder(ctx context.Context, userID string, ship orders.ShippingInfo) (orders.Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return orders.Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Cart joined with live product rows, products locked for the rest of
	// the transaction. Prices observed here are the pricing snapshot.
	rows, err := tx.Query(ctx, `
		SELECT ci.id, ci.product_id, p.name, p.price, ci.quantity, p.stock_quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1 AND p.deleted_at IS NULL
		ORDER BY ci.created_at
		FOR UPDATE OF p`, userID)
	if err != nil {
		return orders.Order{}, mapPgError(err)
	}
	var lines []cart.Line
	for rows.Next() {
		var l cart.Line
		if err := rows.Scan(&l.ItemID, &l.ProductID, &l.ProductName, &l.UnitPrice, &l.Quantity, &l.Stock); err != nil {
			rows.Close()
			return orders.Order{}, err
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return orders.Order{}, mapPgError(err)
	}
	if len(lines) == 0 {
		return orders.Order{}, ErrEmptyCart
	}

	// Verify every line against locked stock before writing anything; a
	// single shortfall fails the whole checkout.
	for _, l := range lines {
		if l.Quantity > l.Stock {
			return orders.Order{}, &inventory.InsufficientStockError{
				ProductID: l.ProductID, Product: l.ProductName, Available: l.Stock,
			}
		}
	}

	items := pricing.SnapshotAll(lines)

	ledger := &orders.Repo{DB: tx}
	ord, err := ledger.CreateOrder(ctx, userID, ship, items)
	if err != nil {
		return orders.Order{}, mapPgError(err)
	}

	// Conditional decrement per line. The rows are locked so this cannot
	// fail on stock here, but the reservation stays conditional rather
	// than trusting the earlier read.
	inv := &inventory.Repo{DB: tx}
	for _, it := range items {
		if err := inv.Reserve(ctx, it.ProductID, it.Quantity); err != nil {
			return orders.Order{}, mapPgError(err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return orders.Order{}, mapPgError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return orders.Order{}, mapPgError(err)
	}
	return ord, nil
}
