package dashboard

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
)

func setupDashboardTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS partners (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT,
  phone TEXT,
  cash_amount NUMERIC NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  is_deleted INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS vendors (
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
);`,
		`CREATE TABLE IF NOT EXISTS companies (
  id TEXT PRIMARY KEY,
  partner_id TEXT NOT NULL,
  name TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  is_deleted INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS employees (
  id TEXT PRIMARY KEY,
  partner_id TEXT NOT NULL,
  name TEXT NOT NULL,
  email TEXT,
  phone TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  is_deleted INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS devices (
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
);`,
		`CREATE TABLE IF NOT EXISTS device_sale_events (
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
);`,
		`CREATE TABLE IF NOT EXISTS transactions (
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
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type dashboardSeed struct {
	partner  *models.Partner
	vendor   *models.Vendor
	company  *models.Company
	employee *models.Employee
}

func seedTenant(t *testing.T, db *gorm.DB) dashboardSeed {
	t.Helper()

	partner := &models.Partner{ID: uuid.New(), Name: "Tenant", CashAmount: decimal.NewFromInt(2500)}
	require.NoError(t, db.Create(partner).Error)

	vendor := &models.Vendor{ID: uuid.New(), PartnerID: partner.ID, Name: "Busy Vendor"}
	require.NoError(t, db.Create(vendor).Error)

	company := &models.Company{ID: uuid.New(), PartnerID: partner.ID, Name: "Apple"}
	require.NoError(t, db.Create(company).Error)

	employee := &models.Employee{ID: uuid.New(), PartnerID: partner.ID, Name: "Field Agent"}
	require.NoError(t, db.Create(employee).Error)

	return dashboardSeed{partner: partner, vendor: vendor, company: company, employee: employee}
}

func seedDevice(t *testing.T, db *gorm.DB, seed dashboardSeed, profit int64, events ...enums.SaleEventType) *models.Device {
	t.Helper()

	device := &models.Device{
		ID:        uuid.New(),
		PartnerID: seed.partner.ID,
		CompanyID: &seed.company.ID,
		PickedBy:  &seed.employee.ID,
		Brand:     "Apple",
		Model:     "iPhone 12",
		Profit:    decimal.NewFromInt(profit),
	}
	require.NoError(t, db.Create(device).Error)

	for i, eventType := range events {
		amount := decimal.NewFromInt(100)
		event := &models.DeviceSaleEvent{
			ID:        uuid.New(),
			DeviceID:  device.ID,
			PartnerID: seed.partner.ID,
			Position:  i + 1,
			Type:      eventType,
			VendorID:  seed.vendor.ID,
		}
		if eventType == enums.SaleEventTypeSell {
			event.Selling = &amount
		} else {
			event.ReturnAmount = &amount
		}
		require.NoError(t, db.Create(event).Error)
	}
	return device
}

func seedTransaction(t *testing.T, db *gorm.DB, partnerID uuid.UUID, txType enums.TransactionType, amount int64, mode *enums.PaymentMode) {
	t.Helper()
	txn := &models.Transaction{
		ID:          uuid.New(),
		PartnerID:   partnerID,
		AuthorType:  enums.AuthorTypePartner,
		AuthorID:    uuid.New(),
		Amount:      decimal.NewFromInt(amount),
		PaymentMode: mode,
		Type:        txType,
		Date:        time.Now().UTC(),
	}
	require.NoError(t, db.Create(txn).Error)
}

func TestRepositoryEntityCountsSkipDeleted(t *testing.T) {
	db := setupDashboardTestDB(t)
	repo := NewRepository(db)
	seed := seedTenant(t, db)

	seedDevice(t, db, seed, 0)
	deleted := seedDevice(t, db, seed, 0)
	require.NoError(t, db.Model(&models.Device{}).Where("id = ?", deleted.ID).Update("is_deleted", true).Error)
	seedTransaction(t, db, seed.partner.ID, enums.TransactionTypeCredit, 100, nil)

	counts, err := repo.EntityCounts(context.Background(), seed.partner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Companies)
	assert.Equal(t, int64(1), counts.Vendors)
	assert.Equal(t, int64(1), counts.Employees)
	assert.Equal(t, int64(1), counts.Devices)
	assert.Equal(t, int64(1), counts.Transactions)
}

func TestRepositoryDeviceStatsDerivedFromLastEvent(t *testing.T) {
	db := setupDashboardTestDB(t)
	repo := NewRepository(db)
	seed := seedTenant(t, db)

	// sold: last event is sell
	seedDevice(t, db, seed, 100, enums.SaleEventTypeSell)
	// returned: sell then return
	seedDevice(t, db, seed, 200, enums.SaleEventTypeSell, enums.SaleEventTypeReturn)
	// sold again after a return cycle
	seedDevice(t, db, seed, 300, enums.SaleEventTypeSell, enums.SaleEventTypeReturn, enums.SaleEventTypeSell)
	// new: no events
	seedDevice(t, db, seed, 50)

	stats, err := repo.DeviceStats(context.Background(), seed.partner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(2), stats.Sold)
	assert.Equal(t, int64(1), stats.Returned)
	assert.True(t, stats.TotalProfit.Equal(decimal.NewFromInt(650)), "got %s", stats.TotalProfit)
}

func TestRepositoryMostUsedAggregates(t *testing.T) {
	db := setupDashboardTestDB(t)
	repo := NewRepository(db)
	seed := seedTenant(t, db)

	otherVendor := &models.Vendor{ID: uuid.New(), PartnerID: seed.partner.ID, Name: "Quiet Vendor"}
	require.NoError(t, db.Create(otherVendor).Error)

	seedDevice(t, db, seed, 0, enums.SaleEventTypeSell)
	seedDevice(t, db, seed, 0, enums.SaleEventTypeSell, enums.SaleEventTypeReturn)

	company, err := repo.MostUsedCompany(context.Background(), seed.partner.ID)
	require.NoError(t, err)
	require.NotNil(t, company)
	assert.Equal(t, "Apple", company.Name)
	assert.Equal(t, int64(2), company.Count)

	vendor, err := repo.MostUsedVendor(context.Background(), seed.partner.ID)
	require.NoError(t, err)
	require.NotNil(t, vendor)
	assert.Equal(t, "Busy Vendor", vendor.Name)
	assert.Equal(t, int64(3), vendor.Count)

	employee, err := repo.MostActiveEmployee(context.Background(), seed.partner.ID)
	require.NoError(t, err)
	require.NotNil(t, employee)
	assert.Equal(t, "Field Agent", employee.Name)
}

func TestRepositoryPaymentModeBreakdownSplitsReturns(t *testing.T) {
	db := setupDashboardTestDB(t)
	repo := NewRepository(db)
	seed := seedTenant(t, db)

	cash := enums.PaymentModeCash
	upi := enums.PaymentModeUPI
	seedTransaction(t, db, seed.partner.ID, enums.TransactionTypeSell, 500, &cash)
	seedTransaction(t, db, seed.partner.ID, enums.TransactionTypeSell, 300, &cash)
	seedTransaction(t, db, seed.partner.ID, enums.TransactionTypeReturn, 200, &cash)
	seedTransaction(t, db, seed.partner.ID, enums.TransactionTypeInvestment, 1000, &upi)
	seedTransaction(t, db, seed.partner.ID, enums.TransactionTypeCredit, 50, nil)

	breakdown, err := repo.PaymentModeBreakdown(context.Background(), seed.partner.ID)
	require.NoError(t, err)
	require.Len(t, breakdown, 2)

	byMode := map[string]PaymentModeBreakdown{}
	for _, row := range breakdown {
		byMode[row.Mode] = row
	}
	assert.True(t, byMode["cash"].Received.Equal(decimal.NewFromInt(800)), "got %s", byMode["cash"].Received)
	assert.True(t, byMode["cash"].Returned.Equal(decimal.NewFromInt(200)), "got %s", byMode["cash"].Returned)
	assert.True(t, byMode["upi"].Received.Equal(decimal.NewFromInt(1000)))
	assert.True(t, byMode["upi"].Returned.IsZero())
}

func TestRepositoryFinancialOverviewSumsByType(t *testing.T) {
	db := setupDashboardTestDB(t)
	repo := NewRepository(db)
	seed := seedTenant(t, db)

	cash := enums.PaymentModeCash
	seedTransaction(t, db, seed.partner.ID, enums.TransactionTypeSell, 500, &cash)
	seedTransaction(t, db, seed.partner.ID, enums.TransactionTypeReturn, 200, &cash)
	seedTransaction(t, db, seed.partner.ID, enums.TransactionTypeInvestment, 1000, &cash)
	seedTransaction(t, db, seed.partner.ID, enums.TransactionTypeCredit, 50, nil)
	seedTransaction(t, db, seed.partner.ID, enums.TransactionTypeDebit, 25, nil)

	overview, err := repo.FinancialOverview(context.Background(), seed.partner.ID)
	require.NoError(t, err)
	assert.True(t, overview.Sell.Equal(decimal.NewFromInt(500)))
	assert.True(t, overview.Return.Equal(decimal.NewFromInt(200)))
	assert.True(t, overview.Investment.Equal(decimal.NewFromInt(1000)))
	assert.True(t, overview.Credit.Equal(decimal.NewFromInt(50)))
	assert.True(t, overview.Debit.Equal(decimal.NewFromInt(25)))
	assert.True(t, overview.CashAmount.Equal(decimal.NewFromInt(2500)))
}

func TestRepositoryEmptyTenantYieldsZeroesAndAbsentBests(t *testing.T) {
	db := setupDashboardTestDB(t)
	repo := NewRepository(db)

	partner := &models.Partner{ID: uuid.New(), Name: "Empty Tenant"}
	require.NoError(t, db.Create(partner).Error)

	counts, err := repo.EntityCounts(context.Background(), partner.ID)
	require.NoError(t, err)
	assert.Equal(t, EntityCounts{}, counts)

	company, err := repo.MostUsedCompany(context.Background(), partner.ID)
	require.NoError(t, err)
	assert.Nil(t, company)

	vendor, err := repo.MostUsedVendor(context.Background(), partner.ID)
	require.NoError(t, err)
	assert.Nil(t, vendor)

	stats, err := repo.DeviceStats(context.Background(), partner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Total)
	assert.True(t, stats.TotalProfit.IsZero())

	breakdown, err := repo.PaymentModeBreakdown(context.Background(), partner.ID)
	require.NoError(t, err)
	assert.Empty(t, breakdown)

	overview, err := repo.FinancialOverview(context.Background(), partner.ID)
	require.NoError(t, err)
	assert.True(t, overview.Sell.IsZero())
	assert.True(t, overview.CashAmount.IsZero())
}
