package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gaughey2000/ecommerce-project-sub000/internal/catalog"
	"github.com/gaughey2000/ecommerce-project-sub000/internal/postgres"
)

// InsufficientStockError reports how much of a product is actually left so
// the caller can tell the user what went wrong.
type InsufficientStockError struct {
	ProductID string
	Product   string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: %d available", e.Product, e.Available)
}

// Repo mutates product stock. All decrements are conditional so that two
// reservations for the same last unit can never both succeed; there is no
// read-then-write anywhere in this package.
type Repo struct{ DB postgres.Querier }

// Reserve decrements stock by qty, but only if at least qty is on hand.
func (r *Repo) Reserve(ctx context.Context, productID string, qty int) error {
	if qty < 1 {
		return fmt.Errorf("reserve: quantity must be >= 1, got %d", qty)
	}
	ct, err := r.DB.Exec(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity - $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL AND stock_quantity >= $2`,
		productID, qty)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 1 {
		return nil
	}

	// Nothing changed: either the product is gone or stock ran short.
	var name string
	var avail int
	err = r.DB.QueryRow(ctx,
		`SELECT name, stock_quantity FROM products WHERE id = $1 AND deleted_at IS NULL`,
		productID).Scan(&name, &avail)
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.ErrProductNotFound
	}
	if err != nil {
		return err
	}
	return &InsufficientStockError{ProductID: productID, Product: name, Available: avail}
}

// Release returns previously reserved stock (order cancellation).
func (r *Repo) Release(ctx context.Context, productID string, qty int) error {
	if qty < 1 {
		return fmt.Errorf("release: quantity must be >= 1, got %d", qty)
	}
	ct, err := r.DB.Exec(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity + $2, updated_at = now()
		WHERE id = $1`,
		productID, qty)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return catalog.ErrProductNotFound
	}
	return nil
}

// StockOf is a point-in-time snapshot, good for UI hints only. Correctness
// decisions go through Reserve.
func (r *Repo) StockOf(ctx context.Context, productID string) (int, error) {
	var stock int
	err := r.DB.QueryRow(ctx,
		`SELECT stock_quantity FROM products WHERE id = $1 AND deleted_at IS NULL`,
		productID).Scan(&stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, catalog.ErrProductNotFound
	}
	return stock, err
}
