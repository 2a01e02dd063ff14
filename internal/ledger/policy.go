package ledger

import (
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/enums"
)

// fieldPolicy declares which optional transaction fields become mandatory for
// a given transaction type. The table is the single source of truth for
// type-conditional validation.
type fieldPolicy struct {
	VendorRequired      bool
	DeviceRequired      bool
	PaymentModeRequired bool
}

var policyByType = map[enums.TransactionType]fieldPolicy{
	enums.TransactionTypeSell: {
		VendorRequired:      true,
		PaymentModeRequired: true,
	},
	enums.TransactionTypeReturn: {
		VendorRequired:      true,
		DeviceRequired:      true,
		PaymentModeRequired: true,
	},
	enums.TransactionTypeInvestment: {
		VendorRequired:      true,
		PaymentModeRequired: true,
	},
	enums.TransactionTypeCredit: {},
	enums.TransactionTypeDebit:  {},
}

// PolicyFor returns the field policy for the given type. The second return
// is false for unknown types.
func PolicyFor(txType enums.TransactionType) (fieldPolicy, bool) {
	policy, ok := policyByType[txType]
	return policy, ok
}

// MissingFields returns the names of required fields absent from the input,
// in a stable order. An empty slice means the input satisfies the policy.
func MissingFields(policy fieldPolicy, input RecordTransactionInput) []string {
	missing := []string{}
	if policy.VendorRequired && input.VendorID == nil {
		missing = append(missing, "vendorId")
	}
	if policy.DeviceRequired && input.DeviceID == nil {
		missing = append(missing, "deviceId")
	}
	if policy.PaymentModeRequired && input.PaymentMode == nil {
		missing = append(missing, "paymentMode")
	}
	return missing
}
