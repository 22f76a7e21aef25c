package fulfillment

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gaughey2000/ecommerce-project-sub000/internal/inventory"
	"github.com/gaughey2000/ecommerce-project-sub000/internal/orders"
)

type Repo struct{ DB *pgxpool.Pool }

// Cancel moves a pending order to cancelled and returns its stock, in one
// transaction. The conditional status update doubles as the guard against
// a concurrent cancel releasing stock twice.
func (r *Repo) Cancel(ctx context.Context, orderID string) ([]orders.Item, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ledger := &orders.Repo{DB: tx}
	if err := ledger.UpdateStatus(ctx, orderID, orders.StatusPending, orders.StatusCancelled); err != nil {
		return nil, err
	}

	items, err := ledger.Items(ctx, orderID)
	if err != nil {
		return nil, err
	}

	inv := &inventory.Repo{DB: tx}
	for _, it := range items {
		if err := inv.Release(ctx, it.ProductID, it.Quantity); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return items, nil
}
