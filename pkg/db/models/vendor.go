package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Vendor is a counterparty the partner sells devices to or buys back from.
// Amount is the net balance: positive means the vendor owes the partner.
// Only the ledger engine writes it. Name is unique per partner, case
// insensitive (ux_vendors_partner_lower_name).
type Vendor struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PartnerID uuid.UUID       `gorm:"column:partner_id;type:uuid;not null;index"`
	Name      string          `gorm:"column:name;not null"`
	Phone     *string         `gorm:"column:phone"`
	Address   *string         `gorm:"column:address"`
	Amount    decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null;default:0"`
	IsActive  bool            `gorm:"column:is_active;not null;default:true"`
	IsDeleted bool            `gorm:"column:is_deleted;not null;default:false"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
