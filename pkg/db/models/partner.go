package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Partner is the tenant root. Every other entity hangs off a partner id.
// CashAmount is the partner's on-hand cash balance; only the ledger engine
// writes it.
type Partner struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string          `gorm:"column:name;not null"`
	Email      *string         `gorm:"column:email"`
	Phone      *string         `gorm:"column:phone"`
	CashAmount decimal.Decimal `gorm:"column:cash_amount;type:numeric(14,2);not null;default:0"`
	IsActive   bool            `gorm:"column:is_active;not null;default:true"`
	IsDeleted  bool            `gorm:"column:is_deleted;not null;default:false"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
