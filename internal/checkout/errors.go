package checkout

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrEmptyCart = errors.New("cart is empty, nothing to check out")

	// ErrConflict means a concurrent modification aborted the transaction;
	// the caller may retry.
	ErrConflict = errors.New("checkout aborted by concurrent modification")
)

// ValidationError is a field-level rejection of the shipping or payment
// payload. Detected before any write begins.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// mapPgError turns Postgres serialization/deadlock failures into
// ErrConflict; everything else passes through.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			return fmt.Errorf("%w: %s", ErrConflict, pgErr.Code)
		}
	}
	return err
}
