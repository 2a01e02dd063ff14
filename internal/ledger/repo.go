package ledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/db/models"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/pagination"
)

// Repository defines persistence operations for the transaction ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateTransaction(ctx context.Context, txn *models.Transaction) error
	FindPartner(ctx context.Context, partnerID uuid.UUID) (*models.Partner, error)
	FindVendorForUpdate(ctx context.Context, partnerID, vendorID uuid.UUID) (*models.Vendor, error)
	FindDevice(ctx context.Context, partnerID, deviceID uuid.UUID) (*models.Device, error)
	AppendSaleEvent(ctx context.Context, event *models.DeviceSaleEvent) error
	ListTransactions(ctx context.Context, partnerID uuid.UUID, filters TransactionFilters, params pagination.Params) ([]models.Transaction, error)
	FindAllTransactions(ctx context.Context, partnerID uuid.UUID, filters TransactionFilters) ([]models.Transaction, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a ledger repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *repository) FindPartner(ctx context.Context, partnerID uuid.UUID) (*models.Partner, error) {
	var partner models.Partner
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", partnerID, false).
		First(&partner).Error
	if err != nil {
		return nil, err
	}
	return &partner, nil
}

// FindVendorForUpdate locks the vendor row so the return apportionment read
// and the subsequent balance write are atomic with respect to concurrent
// writers. sqlite has no row locks; its single-writer model covers tests.
func (r *repository) FindVendorForUpdate(ctx context.Context, partnerID, vendorID uuid.UUID) (*models.Vendor, error) {
	q := r.db.WithContext(ctx).
		Where("id = ? AND partner_id = ? AND is_deleted = ?", vendorID, partnerID, false)
	if r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}

	var vendor models.Vendor
	if err := q.First(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
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

// AppendSaleEvent assigns the next position in the device's ownership log and
// inserts the event. Must run inside the caller's transaction.
func (r *repository) AppendSaleEvent(ctx context.Context, event *models.DeviceSaleEvent) error {
	var last int
	err := r.db.WithContext(ctx).
		Model(&models.DeviceSaleEvent{}).
		Select("COALESCE(MAX(position), 0)").
		Where("device_id = ?", event.DeviceID).
		Scan(&last).Error
	if err != nil {
		return err
	}
	event.Position = last + 1
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) ListTransactions(ctx context.Context, partnerID uuid.UUID, filters TransactionFilters, params pagination.Params) ([]models.Transaction, error) {
	q := r.applyFilters(ctx, partnerID, filters)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		q = q.Where("(date < ?) OR (date = ? AND id < ?)", cursor.Timestamp, cursor.Timestamp, cursor.ID)
	}

	var rows []models.Transaction
	err = q.Order("date DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindAllTransactions(ctx context.Context, partnerID uuid.UUID, filters TransactionFilters) ([]models.Transaction, error) {
	var rows []models.Transaction
	err := r.applyFilters(ctx, partnerID, filters).
		Order("date DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) applyFilters(ctx context.Context, partnerID uuid.UUID, filters TransactionFilters) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Preload("Vendor").
		Preload("Device").
		Where("partner_id = ?", partnerID)

	if filters.VendorID != nil {
		q = q.Where("vendor_id = ?", *filters.VendorID)
	}
	if filters.Type != nil {
		q = q.Where("type = ?", *filters.Type)
	}
	if filters.DateFrom != nil {
		q = q.Where("date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		q = q.Where("date <= ?", *filters.DateTo)
	}
	return q
}
