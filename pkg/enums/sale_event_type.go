package enums

import "fmt"

// SaleEventType is the type of an entry in a device's ownership log.
type SaleEventType string

const (
	SaleEventTypeSell   SaleEventType = "sell"
	SaleEventTypeReturn SaleEventType = "return"
)

var validSaleEventTypes = []SaleEventType{
	SaleEventTypeSell,
	SaleEventTypeReturn,
}

// IsValid reports whether the value matches the canonical sale event enum.
func (t SaleEventType) IsValid() bool {
	for _, candidate := range validSaleEventTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseSaleEventType converts raw input into SaleEventType.
func ParseSaleEventType(value string) (SaleEventType, error) {
	for _, candidate := range validSaleEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sale event type %q", value)
}
