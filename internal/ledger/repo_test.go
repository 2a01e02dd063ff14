package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/db/models"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/enums"
	pkgerrors "github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/errors"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/pagination"
)

func setupLedgerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	partners := `
CREATE TABLE IF NOT EXISTS partners (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT,
  phone TEXT,
  cash_amount NUMERIC NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  is_deleted INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	vendors := `
CREATE TABLE IF NOT EXISTS vendors (
  id TEXT PRIMARY KEY,
  partner_id TEXT NOT NULL,
  name TEXT NOT NULL,
  phone TEXT,
  address TEXT,
  amount NUMERIC NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  is_deleted INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	devices := `
CREATE TABLE IF NOT EXISTS devices (
  id TEXT PRIMARY KEY,
  partner_id TEXT NOT NULL,
  company_id TEXT,
  picked_by TEXT,
  brand TEXT NOT NULL,
  model TEXT NOT NULL,
  serial_number TEXT,
  purchase_cost NUMERIC NOT NULL DEFAULT 0,
  repair_cost NUMERIC NOT NULL DEFAULT 0,
  selling NUMERIC NOT NULL DEFAULT 0,
  profit NUMERIC NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  is_deleted INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	saleEvents := `
CREATE TABLE IF NOT EXISTS device_sale_events (
  id TEXT PRIMARY KEY,
  device_id TEXT NOT NULL,
  partner_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  type TEXT NOT NULL,
  vendor_id TEXT NOT NULL,
  selling NUMERIC,
  return_amount NUMERIC,
  created_at DATETIME,
  UNIQUE (device_id, position)
);`
	transactions := `
CREATE TABLE IF NOT EXISTS transactions (
  id TEXT PRIMARY KEY,
  partner_id TEXT NOT NULL,
  author_type TEXT NOT NULL,
  author_id TEXT NOT NULL,
  vendor_id TEXT,
  device_id TEXT,
  amount NUMERIC NOT NULL,
  note TEXT,
  payment_mode TEXT,
  type TEXT NOT NULL,
  date DATETIME NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(partners).Error)
	require.NoError(t, db.Exec(vendors).Error)
	require.NoError(t, db.Exec(devices).Error)
	require.NoError(t, db.Exec(saleEvents).Error)
	require.NoError(t, db.Exec(transactions).Error)
	return db
}

func newPartner(t *testing.T, db *gorm.DB) *models.Partner {
	t.Helper()
	partner := &models.Partner{ID: uuid.New(), Name: "Partner One"}
	require.NoError(t, db.Create(partner).Error)
	return partner
}

func newVendor(t *testing.T, db *gorm.DB, partnerID uuid.UUID, name string, amount decimal.Decimal) *models.Vendor {
	t.Helper()
	vendor := &models.Vendor{ID: uuid.New(), PartnerID: partnerID, Name: name, Amount: amount}
	require.NoError(t, db.Create(vendor).Error)
	return vendor
}

func newDevice(t *testing.T, db *gorm.DB, partnerID uuid.UUID) *models.Device {
	t.Helper()
	device := &models.Device{ID: uuid.New(), PartnerID: partnerID, Brand: "Apple", Model: "iPhone 12"}
	require.NoError(t, db.Create(device).Error)
	return device
}

func newTransaction(t *testing.T, db *gorm.DB, partnerID uuid.UUID, vendorID *uuid.UUID, txType enums.TransactionType, amount int64, date time.Time) *models.Transaction {
	t.Helper()
	txn := &models.Transaction{
		ID:         uuid.New(),
		PartnerID:  partnerID,
		AuthorType: enums.AuthorTypePartner,
		AuthorID:   uuid.New(),
		VendorID:   vendorID,
		Amount:     decimal.NewFromInt(amount),
		Type:       txType,
		Date:       date,
	}
	require.NoError(t, db.Create(txn).Error)
	return txn
}

func TestRepositoryAppendSaleEvent_positionsAreMonotonic(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)

	partner := newPartner(t, db)
	vendor := newVendor(t, db, partner.ID, "Monotonic Vendor", decimal.Zero)
	device := newDevice(t, db, partner.ID)

	selling := decimal.NewFromInt(500)
	returned := decimal.NewFromInt(450)

	first := &models.DeviceSaleEvent{ID: uuid.New(), DeviceID: device.ID, PartnerID: partner.ID, Type: enums.SaleEventTypeSell, VendorID: vendor.ID, Selling: &selling}
	require.NoError(t, repo.AppendSaleEvent(context.Background(), first))
	assert.Equal(t, 1, first.Position)

	second := &models.DeviceSaleEvent{ID: uuid.New(), DeviceID: device.ID, PartnerID: partner.ID, Type: enums.SaleEventTypeReturn, VendorID: vendor.ID, ReturnAmount: &returned}
	require.NoError(t, repo.AppendSaleEvent(context.Background(), second))
	assert.Equal(t, 2, second.Position)

	var count int64
	require.NoError(t, db.Model(&models.DeviceSaleEvent{}).Where("device_id = ?", device.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestRepositoryFindVendorForUpdate(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)

	partner := newPartner(t, db)
	vendor := newVendor(t, db, partner.ID, "Lockable Vendor", decimal.NewFromInt(300))

	found, err := repo.FindVendorForUpdate(context.Background(), partner.ID, vendor.ID)
	require.NoError(t, err)
	assert.True(t, found.Amount.Equal(decimal.NewFromInt(300)))

	_, err = repo.FindVendorForUpdate(context.Background(), partner.ID, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, db.Model(&models.Vendor{}).Where("id = ?", vendor.ID).Update("is_deleted", true).Error)
	_, err = repo.FindVendorForUpdate(context.Background(), partner.ID, vendor.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListTransactions_filtersAndPagination(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)

	partner := newPartner(t, db)
	vendorA := newVendor(t, db, partner.ID, "Vendor Alpha", decimal.Zero)
	vendorB := newVendor(t, db, partner.ID, "Vendor Beta", decimal.Zero)

	now := time.Now().UTC()
	newTransaction(t, db, partner.ID, &vendorA.ID, enums.TransactionTypeSell, 100, now.Add(-3*time.Hour))
	newTransaction(t, db, partner.ID, &vendorA.ID, enums.TransactionTypeReturn, 50, now.Add(-2*time.Hour))
	newTransaction(t, db, partner.ID, &vendorB.ID, enums.TransactionTypeSell, 200, now.Add(-time.Hour))
	newTransaction(t, db, partner.ID, nil, enums.TransactionTypeCredit, 500, now)

	// newest first, whole set
	rows, err := repo.ListTransactions(context.Background(), partner.ID, TransactionFilters{}, pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, enums.TransactionTypeCredit, rows[0].Type)
	assert.Equal(t, enums.TransactionTypeSell, rows[3].Type)

	// vendor filter
	rows, err = repo.ListTransactions(context.Background(), partner.ID, TransactionFilters{VendorID: &vendorA.ID}, pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].Vendor)
	assert.Equal(t, "Vendor Alpha", rows[0].Vendor.Name)

	// type filter
	sell := enums.TransactionTypeSell
	rows, err = repo.ListTransactions(context.Background(), partner.ID, TransactionFilters{Type: &sell}, pagination.Params{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	// date window
	from := now.Add(-90 * time.Minute)
	rows, err = repo.ListTransactions(context.Background(), partner.ID, TransactionFilters{DateFrom: &from}, pagination.Params{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	// cursor pagination walks the full set without overlap
	page, err := repo.ListTransactions(context.Background(), partner.ID, TransactionFilters{}, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 3) // limit+1 buffer row

	cursor := pagination.EncodeCursor(pagination.Cursor{Timestamp: page[1].Date, ID: page[1].ID})
	rest, err := repo.ListTransactions(context.Background(), partner.ID, TransactionFilters{}, pagination.Params{Limit: 2, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.NotEqual(t, page[0].ID, rest[0].ID)
	assert.NotEqual(t, page[1].ID, rest[0].ID)
}

func TestRepositoryFindAllTransactions_scopedToPartner(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)

	partnerA := newPartner(t, db)
	partnerB := newPartner(t, db)
	now := time.Now().UTC()
	newTransaction(t, db, partnerA.ID, nil, enums.TransactionTypeCredit, 100, now)
	newTransaction(t, db, partnerB.ID, nil, enums.TransactionTypeCredit, 200, now)

	rows, err := repo.FindAllTransactions(context.Background(), partnerA.ID, TransactionFilters{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, partnerA.ID, rows[0].PartnerID)
}

func TestBalanceApplierMovesVendorAndPartnerBalances(t *testing.T) {
	db := setupLedgerTestDB(t)
	balances := NewBalanceApplier()

	partner := newPartner(t, db)
	vendor := newVendor(t, db, partner.ID, "Balance Vendor", decimal.NewFromInt(300))

	require.NoError(t, balances.ApplyVendorDelta(context.Background(), db, partner.ID, vendor.ID, decimal.NewFromInt(-300)))
	require.NoError(t, balances.ApplyPartnerCashDelta(context.Background(), db, partner.ID, decimal.NewFromInt(-200)))

	var reloadedVendor models.Vendor
	require.NoError(t, db.Where("id = ?", vendor.ID).First(&reloadedVendor).Error)
	assert.True(t, reloadedVendor.Amount.IsZero(), "vendor amount should be zero, got %s", reloadedVendor.Amount)

	var reloadedPartner models.Partner
	require.NoError(t, db.Where("id = ?", partner.ID).First(&reloadedPartner).Error)
	assert.True(t, reloadedPartner.CashAmount.Equal(decimal.NewFromInt(-200)))
}

func TestBalanceApplierMissingRowsSurfaceNotFound(t *testing.T) {
	db := setupLedgerTestDB(t)
	balances := NewBalanceApplier()

	partner := newPartner(t, db)

	err := balances.ApplyVendorDelta(context.Background(), db, partner.ID, uuid.New(), decimal.NewFromInt(-10))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	err = balances.ApplyPartnerCashDelta(context.Background(), db, uuid.New(), decimal.NewFromInt(10))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestBalanceApplierZeroDeltaIsNoop(t *testing.T) {
	db := setupLedgerTestDB(t)
	balances := NewBalanceApplier()

	// Unknown ids do not matter: a zero delta never reaches the database.
	require.NoError(t, balances.ApplyVendorDelta(context.Background(), db, uuid.New(), uuid.New(), decimal.Zero))
	require.NoError(t, balances.ApplyPartnerCashDelta(context.Background(), db, uuid.New(), decimal.Zero))
}
