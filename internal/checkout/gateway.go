package checkout

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrPaymentDeclined = errors.New("payment declined")

// PaymentGateway authorizes a charge before the order transaction runs.
// The real gateway lives outside this service; card formats are validated
// before Authorize is called.
type PaymentGateway interface {
	Authorize(ctx context.Context, userID string, amount decimal.Decimal, card PaymentInfo) error
}

// SandboxGateway approves every well-formed card except the conventional
// decline test card (any number ending in 0002).
type SandboxGateway struct{}

func (SandboxGateway) Authorize(_ context.Context, _ string, amount decimal.Decimal, card PaymentInfo) error {
	if amount.Sign() <= 0 {
		return ErrPaymentDeclined
	}
	if strings.HasSuffix(card.CardNumber, "0002") {
		return ErrPaymentDeclined
	}
	return nil
}
