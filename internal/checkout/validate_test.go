package checkout

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaughey2000/ecommerce-project-sub000/internal/orders"
)

func validShipping() orders.ShippingInfo {
	return orders.ShippingInfo{Name: "Ada Lovelace", Email: "ada@example.com", Address: "1 Analytical Way"}
}

func validPayment() PaymentInfo {
	return PaymentInfo{CardNumber: "4242424242424242", Expiry: "12/30", CVV: "123"}
}

func TestValidateShipping(t *testing.T) {
	assert.NoError(t, validateShipping(validShipping()))

	cases := []struct {
		name   string
		mutate func(*orders.ShippingInfo)
		field  string
	}{
		{"empty name", func(s *orders.ShippingInfo) { s.Name = "  " }, "name"},
		{"empty email", func(s *orders.ShippingInfo) { s.Email = "" }, "email"},
		{"malformed email", func(s *orders.ShippingInfo) { s.Email = "not-an-email" }, "email"},
		{"email without domain", func(s *orders.ShippingInfo) { s.Email = "ada@" }, "email"},
		{"empty address", func(s *orders.ShippingInfo) { s.Address = "" }, "address"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := validShipping()
			c.mutate(&s)
			err := validateShipping(s)
			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, c.field, valErr.Field)
		})
	}
}

func TestValidatePayment(t *testing.T) {
	assert.NoError(t, validatePayment(validPayment()))

	cases := []struct {
		name   string
		mutate func(*PaymentInfo)
		field  string
	}{
		{"short card", func(p *PaymentInfo) { p.CardNumber = "42424242" }, "card_number"},
		{"long card", func(p *PaymentInfo) { p.CardNumber = "42424242424242424" }, "card_number"},
		{"letters in card", func(p *PaymentInfo) { p.CardNumber = "4242abcd42424242" }, "card_number"},
		{"bad expiry month", func(p *PaymentInfo) { p.Expiry = "13/30" }, "expiry"},
		{"expiry without slash", func(p *PaymentInfo) { p.Expiry = "1230" }, "expiry"},
		{"short cvv", func(p *PaymentInfo) { p.CVV = "12" }, "cvv"},
		{"long cvv", func(p *PaymentInfo) { p.CVV = "1234" }, "cvv"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := validPayment()
			c.mutate(&p)
			err := validatePayment(p)
			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, c.field, valErr.Field)
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := error(&ValidationError{Field: "cvv", Reason: "must be exactly 3 digits"})
	assert.Equal(t, "invalid cvv: must be exactly 3 digits", err.Error())

	var valErr *ValidationError
	assert.True(t, errors.As(err, &valErr))
}
