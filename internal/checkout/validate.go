package checkout

import (
	"regexp"
	"strings"

	"github.com/gaughey2000/ecommerce-project-sub000/internal/orders"
)

// PaymentInfo is format-checked only; no payment network is involved here.
type PaymentInfo struct {
	CardNumber string `json:"card_number"`
	Expiry     string `json:"expiry"` // MM/YY
	CVV        string `json:"cvv"`
}

var (
	emailRe  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	cardRe   = regexp.MustCompile(`^\d{16}$`)
	expiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvRe    = regexp.MustCompile(`^\d{3}$`)
)

func validateShipping(s orders.ShippingInfo) error {
	if strings.TrimSpace(s.Name) == "" {
		return &ValidationError{Field: "name", Reason: "required"}
	}
	if strings.TrimSpace(s.Email) == "" {
		return &ValidationError{Field: "email", Reason: "required"}
	}
	if !emailRe.MatchString(s.Email) {
		return &ValidationError{Field: "email", Reason: "malformed"}
	}
	if strings.TrimSpace(s.Address) == "" {
		return &ValidationError{Field: "address", Reason: "required"}
	}
	return nil
}

func validatePayment(p PaymentInfo) error {
	if !cardRe.MatchString(p.CardNumber) {
		return &ValidationError{Field: "card_number", Reason: "must be exactly 16 digits"}
	}
	if !expiryRe.MatchString(p.Expiry) {
		return &ValidationError{Field: "expiry", Reason: "must match MM/YY"}
	}
	if !cvvRe.MatchString(p.CVV) {
		return &ValidationError{Field: "cvv", Reason: "must be exactly 3 digits"}
	}
	return nil
}
