package enums

import "fmt"

// PaymentMode maps to the payment_mode_enum enum in Postgres.
type PaymentMode string

const (
	PaymentModeCash PaymentMode = "cash"
	PaymentModeUPI  PaymentMode = "upi"
	PaymentModeCard PaymentMode = "card"
)

var validPaymentModes = []PaymentMode{
	PaymentModeCash,
	PaymentModeUPI,
	PaymentModeCard,
}

// IsValid reports whether the value matches the canonical payment mode enum.
func (m PaymentMode) IsValid() bool {
	for _, candidate := range validPaymentModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParsePaymentMode converts raw input into PaymentMode.
func ParsePaymentMode(value string) (PaymentMode, error) {
	for _, candidate := range validPaymentModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment mode %q", value)
}
