package enums

import "fmt"

// AuthorType identifies who recorded a transaction.
type AuthorType string

const (
	AuthorTypePartner  AuthorType = "partner"
	AuthorTypeEmployee AuthorType = "employee"
)

var validAuthorTypes = []AuthorType{
	AuthorTypePartner,
	AuthorTypeEmployee,
}

// IsValid reports whether the value matches the canonical author type enum.
func (t AuthorType) IsValid() bool {
	for _, candidate := range validAuthorTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseAuthorType converts raw input into AuthorType.
func ParseAuthorType(value string) (AuthorType, error) {
	for _, candidate := range validAuthorTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid author type %q", value)
}
