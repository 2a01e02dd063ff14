package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/enums"
)

// Transaction is the immutable audit record of a monetary event. Rows are
// created once and never updated or deleted; no repo exposes a mutation path.
type Transaction struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PartnerID   uuid.UUID             `gorm:"column:partner_id;type:uuid;not null;index"`
	AuthorType  enums.AuthorType      `gorm:"column:author_type;type:author_type_enum;not null"`
	AuthorID    uuid.UUID             `gorm:"column:author_id;type:uuid;not null"`
	VendorID    *uuid.UUID            `gorm:"column:vendor_id;type:uuid"`
	DeviceID    *uuid.UUID            `gorm:"column:device_id;type:uuid"`
	Amount      decimal.Decimal       `gorm:"column:amount;type:numeric(14,2);not null"`
	Note        *string               `gorm:"column:note"`
	PaymentMode *enums.PaymentMode    `gorm:"column:payment_mode;type:payment_mode_enum"`
	Type        enums.TransactionType `gorm:"column:type;type:transaction_type_enum;not null"`
	Date        time.Time             `gorm:"column:date;not null"`
	Vendor      *Vendor               `gorm:"foreignKey:VendorID"`
	Device      *Device               `gorm:"foreignKey:DeviceID"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
}
