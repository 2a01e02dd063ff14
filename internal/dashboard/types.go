package dashboard

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntityCounts holds the per-tenant entity totals.
type EntityCounts struct {
	Companies    int64 `json:"companies"`
	Vendors      int64 `json:"vendors"`
	Employees    int64 `json:"employees"`
	Devices      int64 `json:"devices"`
	Transactions int64 `json:"transactions"`
}

// MostUsed is a single best-match aggregate; ties break arbitrarily by the
// underlying sort-then-limit-1 query.
type MostUsed struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Count int64     `json:"count"`
}

// DeviceStats summarizes the device inventory. Sold/Returned are derived from
// each device's last ownership event; TotalProfit sums the stored per-device
// profit snapshots, not ledger-recomputed values.
type DeviceStats struct {
	Total       int64           `json:"total"`
	Sold        int64           `json:"sold"`
	Returned    int64           `json:"returned"`
	TotalProfit decimal.Decimal `json:"total_profit"`
}

// PaymentModeBreakdown splits transaction amounts per payment mode into
// received (every type but return) and returned (type = return).
type PaymentModeBreakdown struct {
	Mode     string          `json:"mode"`
	Received decimal.Decimal `json:"received"`
	Returned decimal.Decimal `json:"returned"`
}

// FinancialOverview carries straight sums by transaction type plus the
// partner's current cash balance.
type FinancialOverview struct {
	Investment decimal.Decimal `json:"investment"`
	Sell       decimal.Decimal `json:"sell"`
	Return     decimal.Decimal `json:"return"`
	Credit     decimal.Decimal `json:"credit"`
	Debit      decimal.Decimal `json:"debit"`
	CashAmount decimal.Decimal `json:"cash_amount"`
}

// Stats is the full dashboard payload for one partner.
type Stats struct {
	Counts             EntityCounts           `json:"counts"`
	MostUsedCompany    *MostUsed              `json:"most_used_company,omitempty"`
	MostUsedVendor     *MostUsed              `json:"most_used_vendor,omitempty"`
	MostActiveEmployee *MostUsed              `json:"most_active_employee,omitempty"`
	Devices            DeviceStats            `json:"devices"`
	PaymentModes       []PaymentModeBreakdown `json:"payment_modes"`
	Financial          FinancialOverview      `json:"financial"`
}
