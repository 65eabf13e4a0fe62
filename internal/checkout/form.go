// Package checkout holds the checkout form, its validation rules, and the
// submission state machine.
package checkout

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownField is returned for a field name outside the form.
	ErrUnknownField = errors.New("unknown form field")

	// ErrInvalidPaymentMethod is returned for a payment method outside the
	// accepted set.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// Field names a checkout form field.
type Field string

const (
	FieldName          Field = "name"
	FieldEmail         Field = "email"
	FieldAddress       Field = "address"
	FieldCity          Field = "city"
	FieldZip           Field = "zip"
	FieldPaymentMethod Field = "paymentMethod"
)

// Fields lists the form fields in display order.
var Fields = []Field{
	FieldName,
	FieldEmail,
	FieldAddress,
	FieldCity,
	FieldZip,
	FieldPaymentMethod,
}

// ParseField resolves a field name.
func ParseField(s string) (Field, error) {
	for _, f := range Fields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// PaymentMethod is one of the accepted payment options.
type PaymentMethod string

const (
	CreditCard     PaymentMethod = "creditCard"
	PayPal         PaymentMethod = "paypal"
	CashOnDelivery PaymentMethod = "cashOnDelivery"
)

// PaymentMethods lists the accepted payment methods.
var PaymentMethods = []PaymentMethod{CreditCard, PayPal, CashOnDelivery}

// ParsePaymentMethod resolves a payment method value.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	for _, m := range PaymentMethods {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, s)
}

// Form is the checkout form. All values are kept exactly as entered.
type Form struct {
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Address       string        `json:"address"`
	City          string        `json:"city"`
	Zip           string        `json:"zip"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
}

// DefaultForm returns an empty form with credit card selected.
func DefaultForm() Form {
	return Form{PaymentMethod: CreditCard}
}

// With returns a copy of f with field set to value.
func (f Form) With(field Field, value string) (Form, error) {
	switch field {
	case FieldName:
		f.Name = value
	case FieldEmail:
		f.Email = value
	case FieldAddress:
		f.Address = value
	case FieldCity:
		f.City = value
	case FieldZip:
		f.Zip = value
	case FieldPaymentMethod:
		m, err := ParsePaymentMethod(value)
		if err != nil {
			return f, err
		}
		f.PaymentMethod = m
	default:
		return f, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return f, nil
}

// Get returns the current value of field.
func (f Form) Get(field Field) string {
	switch field {
	case FieldName:
		return f.Name
	case FieldEmail:
		return f.Email
	case FieldAddress:
		return f.Address
	case FieldCity:
		return f.City
	case FieldZip:
		return f.Zip
	case FieldPaymentMethod:
		return string(f.PaymentMethod)
	default:
		return ""
	}
}
