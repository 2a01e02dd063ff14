package devices

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/db/models"
)

// Repository defines persistence operations for the device inventory and its
// append-only ownership log.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindDevice(ctx context.Context, partnerID, deviceID uuid.UUID) (*models.Device, error)
	ListSaleEvents(ctx context.Context, partnerID, deviceID uuid.UUID) ([]models.DeviceSaleEvent, error)
	SetActive(ctx context.Context, partnerID, deviceID uuid.UUID, active bool) error
	SoftDelete(ctx context.Context, partnerID, deviceID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a device repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindDevice(ctx context.Context, partnerID, deviceID uuid.UUID) (*models.Device, error) {
	var device models.Device
	err := r.db.WithContext(ctx).
		Where("id = ? AND partner_id = ? AND is_deleted = ?", deviceID, partnerID, false).
		First(&device).Error
	if err != nil {
		return nil, err
	}
	return &device, nil
}

// ListSaleEvents returns the device's ownership log in append order. Rows are
// never updated or deleted after insert.
func (r *repository) ListSaleEvents(ctx context.Context, partnerID, deviceID uuid.UUID) ([]models.DeviceSaleEvent, error) {
	var events []models.DeviceSaleEvent
	err := r.db.WithContext(ctx).
		Where("device_id = ? AND partner_id = ?", deviceID, partnerID).
		Order("position ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repository) SetActive(ctx context.Context, partnerID, deviceID uuid.UUID, active bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Device{}).
		Where("id = ? AND partner_id = ? AND is_deleted = ?", deviceID, partnerID, false).
		Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) SoftDelete(ctx context.Context, partnerID, deviceID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.Device{}).
		Where("id = ? AND partner_id = ? AND is_deleted = ?", deviceID, partnerID, false).
		Update("is_deleted", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
