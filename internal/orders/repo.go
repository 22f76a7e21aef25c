package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/gaughey2000/ecommerce-project-sub000/internal/postgres"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// Repo is the order ledger. Orders and their items are append-only; the
// only mutation is the status column, guarded by the transition table.
// CreateOrder never touches inventory or the cart — callers that need the
// whole checkout to be atomic run this repo on their transaction.
type Repo struct{ DB postgres.Querier }

// CreateOrder persists a pending order plus one item row per input line.
// The total is computed here from the given lines, never trusted from the
// caller.
func (r *Repo) CreateOrder(ctx context.Context, userID string, ship ShippingInfo, items []ItemInput) (Order, error) {
	if len(items) == 0 {
		return Order{}, fmt.Errorf("create order: no items")
	}

	total := decimal.Zero
	for _, it := range items {
		if it.Quantity < 1 {
			return Order{}, fmt.Errorf("create order: invalid quantity %d for product %s", it.Quantity, it.ProductID)
		}
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	ord := Order{
		ID:       uuid.NewString(),
		UserID:   userID,
		Status:   StatusPending,
		Total:    total,
		Shipping: ship,
	}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO orders (id, user_id, status, total, ship_name, ship_email, ship_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		ord.ID, userID, StatusPending, total, ship.Name, ship.Email, ship.Address).
		Scan(&ord.CreatedAt, &ord.UpdatedAt)
	if err != nil {
		return Order{}, err
	}

	for _, it := range items {
		var item Item
		err = r.DB.QueryRow(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			ord.ID, it.ProductID, it.Quantity, it.UnitPrice).Scan(&item.ID)
		if err != nil {
			return Order{}, err
		}
		item.OrderID = ord.ID
		item.ProductID = it.ProductID
		item.Quantity = it.Quantity
		item.UnitPrice = it.UnitPrice
		ord.Items = append(ord.Items, item)
	}
	return ord, nil
}

// GetForUser loads an order owned by userID.
func (r *Repo) GetForUser(ctx context.Context, userID, orderID string) (Order, error) {
	return r.get(ctx, `SELECT id, user_id, status, total, ship_name, ship_email, ship_address, created_at, updated_at
		FROM orders WHERE id = $1 AND user_id = $2`, orderID, userID)
}

// Get loads an order regardless of owner. For the fulfillment worker and
// the admin surface; the HTTP layer never calls it with a user identity.
func (r *Repo) Get(ctx context.Context, orderID string) (Order, error) {
	return r.get(ctx, `SELECT id, user_id, status, total, ship_name, ship_email, ship_address, created_at, updated_at
		FROM orders WHERE id = $1`, orderID)
}

func (r *Repo) get(ctx context.Context, sql string, args ...any) (Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, sql, args...).
		Scan(&o.ID, &o.UserID, &o.Status, &o.Total,
			&o.Shipping.Name, &o.Shipping.Email, &o.Shipping.Address,
			&o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrOrderNotFound
	}
	return o, err
}

// ListForUser returns the user's orders, most recent first.
func (r *Repo) ListForUser(ctx context.Context, userID string) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, user_id, status, total, ship_name, ship_email, ship_address, created_at, updated_at
		FROM orders WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.Total,
			&o.Shipping.Name, &o.Shipping.Email, &o.Shipping.Address,
			&o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ItemsForUser returns the line items of an order owned by userID.
func (r *Repo) ItemsForUser(ctx context.Context, userID, orderID string) ([]Item, error) {
	if _, err := r.GetForUser(ctx, userID, orderID); err != nil {
		return nil, err
	}
	return r.Items(ctx, orderID)
}

func (r *Repo) Items(ctx context.Context, orderID string) ([]Item, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price
		FROM order_items WHERE order_id = $1
		ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// UpdateStatus moves an order from one status to another. The write is
// conditional on the current status, so a concurrent transition loses
// cleanly instead of overwriting.
func (r *Repo) UpdateStatus(ctx context.Context, orderID string, from, to Status) error {
	if !CanTransition(from, to) {
		return ErrInvalidTransition
	}
	ct, err := r.DB.Exec(ctx, `
		UPDATE orders SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2`,
		orderID, from, to)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 1 {
		return nil
	}
	var current Status
	err = r.DB.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, orderID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: %s -> %s (current %s)", ErrInvalidTransition, from, to, current)
}
