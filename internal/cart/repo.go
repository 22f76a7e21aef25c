package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gaughey2000/ecommerce-project-sub000/internal/catalog"
	"github.com/gaughey2000/ecommerce-project-sub000/internal/inventory"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
)

type Repo struct{ DB *pgxpool.Pool }

// AddOrIncrement adds delta units of a product to the user's cart, creating
// the line item on first add. The product row is locked while the
// prospective quantity is checked against stock; the check is advisory
// (stock can still change before checkout), checkout re-verifies under the
// same lock.
func (r *Repo) AddOrIncrement(ctx context.Context, userID, productID string, delta int) (Item, error) {
	if delta < 1 {
		return Item{}, ErrInvalidQuantity
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Item{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var name string
	var stock int
	err = tx.QueryRow(ctx, `
		SELECT name, stock_quantity FROM products
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE`, productID).Scan(&name, &stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, catalog.ErrProductNotFound
	}
	if err != nil {
		return Item{}, err
	}

	var existingID string
	var existingQty int
	err = tx.QueryRow(ctx,
		`SELECT id, quantity FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID).Scan(&existingID, &existingQty)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return Item{}, err
	}

	if existingQty+delta > stock {
		return Item{}, &inventory.InsufficientStockError{
			ProductID: productID, Product: name, Available: stock,
		}
	}

	var it Item
	if existingID != "" {
		err = tx.QueryRow(ctx, `
			UPDATE cart_items SET quantity = quantity + $2, updated_at = now()
			WHERE id = $1
			RETURNING id, user_id, product_id, quantity, created_at, updated_at`,
			existingID, delta).
			Scan(&it.ID, &it.UserID, &it.ProductID, &it.Quantity, &it.CreatedAt, &it.UpdatedAt)
	} else {
		err = tx.QueryRow(ctx, `
			INSERT INTO cart_items (id, user_id, product_id, quantity)
			VALUES ($1, $2, $3, $4)
			RETURNING id, user_id, product_id, quantity, created_at, updated_at`,
			uuid.NewString(), userID, productID, delta).
			Scan(&it.ID, &it.UserID, &it.ProductID, &it.Quantity, &it.CreatedAt, &it.UpdatedAt)
	}
	if err != nil {
		return Item{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Item{}, err
	}
	return it, nil
}

// SetQuantity replaces a line item's quantity. Quantities below 1 are
// rejected; removal is explicit via Remove.
func (r *Repo) SetQuantity(ctx context.Context, userID, itemID string, qty int) (Item, error) {
	if qty < 1 {
		return Item{}, ErrInvalidQuantity
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Item{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var productID, name string
	var stock int
	err = tx.QueryRow(ctx, `
		SELECT p.id, p.name, p.stock_quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.id = $1 AND ci.user_id = $2 AND p.deleted_at IS NULL
		FOR UPDATE OF p`, itemID, userID).Scan(&productID, &name, &stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrCartItemNotFound
	}
	if err != nil {
		return Item{}, err
	}

	if qty > stock {
		return Item{}, &inventory.InsufficientStockError{
			ProductID: productID, Product: name, Available: stock,
		}
	}

	var it Item
	err = tx.QueryRow(ctx, `
		UPDATE cart_items SET quantity = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, user_id, product_id, quantity, created_at, updated_at`,
		itemID, qty).
		Scan(&it.ID, &it.UserID, &it.ProductID, &it.Quantity, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return Item{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Item{}, err
	}
	return it, nil
}

func (r *Repo) Remove(ctx context.Context, userID, itemID string) error {
	ct, err := r.DB.Exec(ctx,
		`DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *Repo) Clear(ctx context.Context, userID string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}

// Lines returns the user's cart joined with current product data, oldest
// line first. Display only; checkout does its own locked read.
func (r *Repo) Lines(ctx context.Context, userID string) ([]Line, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT ci.id, ci.product_id, p.name, p.price, ci.quantity, p.stock_quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1 AND p.deleted_at IS NULL
		ORDER BY ci.created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ItemID, &l.ProductID, &l.ProductName, &l.UnitPrice, &l.Quantity, &l.Stock); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
