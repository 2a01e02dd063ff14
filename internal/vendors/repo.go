package vendors

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/db/models"
)

// Repository defines persistence operations for vendor management. Balance
// movement is not here; only the ledger engine writes vendors.amount.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, vendor *models.Vendor) error
	FindVendor(ctx context.Context, partnerID, vendorID uuid.UUID) (*models.Vendor, error)
	ExistsByName(ctx context.Context, partnerID uuid.UUID, name string) (bool, error)
	List(ctx context.Context, partnerID uuid.UUID) ([]models.Vendor, error)
	SoftDelete(ctx context.Context, partnerID, vendorID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a vendor repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, vendor *models.Vendor) error {
	return r.db.WithContext(ctx).Create(vendor).Error
}

func (r *repository) FindVendor(ctx context.Context, partnerID, vendorID uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.db.WithContext(ctx).
		Where("id = ? AND partner_id = ? AND is_deleted = ?", vendorID, partnerID, false).
		First(&vendor).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

// ExistsByName matches case-insensitively, mirroring the partial unique index
// on LOWER(name). Soft-deleted vendors free their name for reuse.
func (r *repository) ExistsByName(ctx context.Context, partnerID uuid.UUID, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Vendor{}).
		Where("partner_id = ? AND LOWER(name) = LOWER(?) AND is_deleted = ?", partnerID, name, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) List(ctx context.Context, partnerID uuid.UUID) ([]models.Vendor, error) {
	var rows []models.Vendor
	err := r.db.WithContext(ctx).
		Where("partner_id = ? AND is_deleted = ?", partnerID, false).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) SoftDelete(ctx context.Context, partnerID, vendorID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.Vendor{}).
		Where("id = ? AND partner_id = ? AND is_deleted = ?", vendorID, partnerID, false).
		Update("is_deleted", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
