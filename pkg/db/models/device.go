package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/enums"
)

// Device is an inventory item. Its ownership state (new/sold/returned) is not
// stored: it is derived from the last entry of SaleEvents. Selling and Profit
// are snapshots taken at device-update time.
type Device struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PartnerID    uuid.UUID        `gorm:"column:partner_id;type:uuid;not null;index"`
	CompanyID    *uuid.UUID       `gorm:"column:company_id;type:uuid"`
	PickedBy     *uuid.UUID       `gorm:"column:picked_by;type:uuid"`
	Brand        string           `gorm:"column:brand;not null"`
	Model        string           `gorm:"column:model;not null"`
	SerialNumber *string          `gorm:"column:serial_number"`
	PurchaseCost decimal.Decimal  `gorm:"column:purchase_cost;type:numeric(14,2);not null;default:0"`
	RepairCost   decimal.Decimal  `gorm:"column:repair_cost;type:numeric(14,2);not null;default:0"`
	Selling      decimal.Decimal  `gorm:"column:selling;type:numeric(14,2);not null;default:0"`
	Profit       decimal.Decimal  `gorm:"column:profit;type:numeric(14,2);not null;default:0"`
	IsActive     bool             `gorm:"column:is_active;not null;default:true"`
	IsDeleted    bool             `gorm:"column:is_deleted;not null;default:false"`
	SaleEvents   []DeviceSaleEvent `gorm:"foreignKey:DeviceID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// DeviceSaleEvent is one entry of a device's append-only ownership log.
// Position is strictly increasing per device; rows are never updated or
// deleted. Selling is set iff Type is sell, ReturnAmount iff Type is return.
type DeviceSaleEvent struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DeviceID     uuid.UUID           `gorm:"column:device_id;type:uuid;not null;index"`
	PartnerID    uuid.UUID           `gorm:"column:partner_id;type:uuid;not null;index"`
	Position     int                 `gorm:"column:position;not null"`
	Type         enums.SaleEventType `gorm:"column:type;type:sale_event_type_enum;not null"`
	VendorID     uuid.UUID           `gorm:"column:vendor_id;type:uuid;not null"`
	Selling      *decimal.Decimal    `gorm:"column:selling;type:numeric(14,2)"`
	ReturnAmount *decimal.Decimal    `gorm:"column:return_amount;type:numeric(14,2)"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
}
