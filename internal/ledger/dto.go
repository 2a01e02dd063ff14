package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/db/models"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/enums"
)

// RecordTransactionInput captures the data a transaction record requires.
type RecordTransactionInput struct {
	PartnerID   uuid.UUID
	AuthorType  enums.AuthorType
	AuthorID    uuid.UUID
	VendorID    *uuid.UUID
	DeviceID    *uuid.UUID
	Amount      decimal.Decimal
	Note        *string
	PaymentMode *enums.PaymentMode
	Type        enums.TransactionType
	Date        time.Time
}

// TransactionFilters describe the inputs supported by the transaction list.
type TransactionFilters struct {
	VendorID *uuid.UUID
	Type     *enums.TransactionType
	DateFrom *time.Time
	DateTo   *time.Time
	Query    string
}

// TransactionList wraps the paginated transactions plus the next page cursor.
type TransactionList struct {
	Transactions []models.Transaction `json:"transactions"`
	NextCursor   string               `json:"next_cursor,omitempty"`
}

// ExportRecord is the flat shape handed to downstream CSV/Excel rendering.
type ExportRecord struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	Date          time.Time       `json:"date"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMode   string          `json:"payment_mode,omitempty"`
	Note          string          `json:"note,omitempty"`
	VendorName    string          `json:"vendor_name,omitempty"`
	DeviceID      string          `json:"device_id,omitempty"`
	DeviceBrand   string          `json:"device_brand,omitempty"`
	DeviceModel   string          `json:"device_model,omitempty"`
	AuthorType    string          `json:"author_type"`
}

// TransactionRecordedEvent is emitted when a transaction commits.
type TransactionRecordedEvent struct {
	TransactionID uuid.UUID             `json:"transaction_id"`
	PartnerID     uuid.UUID             `json:"partner_id"`
	Type          enums.TransactionType `json:"type"`
	Amount        decimal.Decimal       `json:"amount"`
	VendorID      *uuid.UUID            `json:"vendor_id,omitempty"`
	DeviceID      *uuid.UUID            `json:"device_id,omitempty"`
	PaymentMode   *enums.PaymentMode    `json:"payment_mode,omitempty"`
	Date          time.Time             `json:"date"`
}
