package dashboard

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/db/models"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/enums"
)

// Repository defines the read-only aggregate queries behind the dashboard.
// Nothing here mutates state.
type Repository interface {
	EntityCounts(ctx context.Context, partnerID uuid.UUID) (EntityCounts, error)
	MostUsedCompany(ctx context.Context, partnerID uuid.UUID) (*MostUsed, error)
	MostUsedVendor(ctx context.Context, partnerID uuid.UUID) (*MostUsed, error)
	MostActiveEmployee(ctx context.Context, partnerID uuid.UUID) (*MostUsed, error)
	DeviceStats(ctx context.Context, partnerID uuid.UUID) (DeviceStats, error)
	PaymentModeBreakdown(ctx context.Context, partnerID uuid.UUID) ([]PaymentModeBreakdown, error)
	FinancialOverview(ctx context.Context, partnerID uuid.UUID) (FinancialOverview, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a dashboard repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) EntityCounts(ctx context.Context, partnerID uuid.UUID) (EntityCounts, error) {
	var counts EntityCounts

	type countTarget struct {
		model any
		dest  *int64
	}
	targets := []countTarget{
		{&models.Company{}, &counts.Companies},
		{&models.Vendor{}, &counts.Vendors},
		{&models.Employee{}, &counts.Employees},
		{&models.Device{}, &counts.Devices},
	}
	for _, target := range targets {
		err := r.db.WithContext(ctx).
			Model(target.model).
			Where("partner_id = ? AND is_deleted = ?", partnerID, false).
			Count(target.dest).Error
		if err != nil {
			return EntityCounts{}, err
		}
	}

	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("partner_id = ?", partnerID).
		Count(&counts.Transactions).Error
	if err != nil {
		return EntityCounts{}, err
	}
	return counts, nil
}

type groupedCount struct {
	GroupID uuid.UUID `gorm:"column:group_id"`
	Name    string    `gorm:"column:name"`
	Total   int64     `gorm:"column:total"`
}

func (r *repository) MostUsedCompany(ctx context.Context, partnerID uuid.UUID) (*MostUsed, error) {
	var row groupedCount
	err := r.db.WithContext(ctx).
		Model(&models.Device{}).
		Select("devices.company_id AS group_id, companies.name AS name, COUNT(*) AS total").
		Joins("JOIN companies ON companies.id = devices.company_id").
		Where("devices.partner_id = ? AND devices.is_deleted = ? AND devices.company_id IS NOT NULL", partnerID, false).
		Group("devices.company_id, companies.name").
		Order("total DESC").
		Limit(1).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.Total == 0 {
		return nil, nil
	}
	return &MostUsed{ID: row.GroupID, Name: row.Name, Count: row.Total}, nil
}

func (r *repository) MostUsedVendor(ctx context.Context, partnerID uuid.UUID) (*MostUsed, error) {
	var row groupedCount
	err := r.db.WithContext(ctx).
		Model(&models.DeviceSaleEvent{}).
		Select("device_sale_events.vendor_id AS group_id, vendors.name AS name, COUNT(*) AS total").
		Joins("JOIN vendors ON vendors.id = device_sale_events.vendor_id").
		Where("device_sale_events.partner_id = ?", partnerID).
		Group("device_sale_events.vendor_id, vendors.name").
		Order("total DESC").
		Limit(1).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.Total == 0 {
		return nil, nil
	}
	return &MostUsed{ID: row.GroupID, Name: row.Name, Count: row.Total}, nil
}

func (r *repository) MostActiveEmployee(ctx context.Context, partnerID uuid.UUID) (*MostUsed, error) {
	var row groupedCount
	err := r.db.WithContext(ctx).
		Model(&models.Device{}).
		Select("devices.picked_by AS group_id, employees.name AS name, COUNT(*) AS total").
		Joins("JOIN employees ON employees.id = devices.picked_by").
		Where("devices.partner_id = ? AND devices.is_deleted = ? AND devices.picked_by IS NOT NULL", partnerID, false).
		Group("devices.picked_by, employees.name").
		Order("total DESC").
		Limit(1).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.Total == 0 {
		return nil, nil
	}
	return &MostUsed{ID: row.GroupID, Name: row.Name, Count: row.Total}, nil
}

func (r *repository) DeviceStats(ctx context.Context, partnerID uuid.UUID) (DeviceStats, error) {
	stats := DeviceStats{TotalProfit: decimal.Zero}

	err := r.db.WithContext(ctx).
		Model(&models.Device{}).
		Where("partner_id = ? AND is_deleted = ?", partnerID, false).
		Count(&stats.Total).Error
	if err != nil {
		return DeviceStats{}, err
	}

	var profit struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	err = r.db.WithContext(ctx).
		Model(&models.Device{}).
		Select("COALESCE(SUM(profit), 0) AS total").
		Where("partner_id = ? AND is_deleted = ?", partnerID, false).
		Scan(&profit).Error
	if err != nil {
		return DeviceStats{}, err
	}
	stats.TotalProfit = profit.Total

	// Sold/returned come from each device's latest ownership event.
	var lastEvents []struct {
		Type  enums.SaleEventType `gorm:"column:type"`
		Total int64               `gorm:"column:total"`
	}
	err = r.db.WithContext(ctx).Raw(`
		SELECT e.type AS type, COUNT(*) AS total
		FROM device_sale_events e
		JOIN (
			SELECT device_id, MAX(position) AS position
			FROM device_sale_events
			GROUP BY device_id
		) last ON last.device_id = e.device_id AND last.position = e.position
		JOIN devices d ON d.id = e.device_id
		WHERE e.partner_id = ? AND d.is_deleted = ?
		GROUP BY e.type
	`, partnerID, false).Scan(&lastEvents).Error
	if err != nil {
		return DeviceStats{}, err
	}
	for _, row := range lastEvents {
		switch row.Type {
		case enums.SaleEventTypeSell:
			stats.Sold = row.Total
		case enums.SaleEventTypeReturn:
			stats.Returned = row.Total
		}
	}
	return stats, nil
}

func (r *repository) PaymentModeBreakdown(ctx context.Context, partnerID uuid.UUID) ([]PaymentModeBreakdown, error) {
	var rows []struct {
		Mode     string          `gorm:"column:mode"`
		Received decimal.Decimal `gorm:"column:received"`
		Returned decimal.Decimal `gorm:"column:returned"`
	}
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select(`payment_mode AS mode,
			COALESCE(SUM(CASE WHEN type <> 'return' THEN amount ELSE 0 END), 0) AS received,
			COALESCE(SUM(CASE WHEN type = 'return' THEN amount ELSE 0 END), 0) AS returned`).
		Where("partner_id = ? AND payment_mode IS NOT NULL", partnerID).
		Group("payment_mode").
		Order("payment_mode ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	breakdown := make([]PaymentModeBreakdown, 0, len(rows))
	for _, row := range rows {
		breakdown = append(breakdown, PaymentModeBreakdown{
			Mode:     row.Mode,
			Received: row.Received,
			Returned: row.Returned,
		})
	}
	return breakdown, nil
}

func (r *repository) FinancialOverview(ctx context.Context, partnerID uuid.UUID) (FinancialOverview, error) {
	overview := FinancialOverview{
		Investment: decimal.Zero,
		Sell:       decimal.Zero,
		Return:     decimal.Zero,
		Credit:     decimal.Zero,
		Debit:      decimal.Zero,
		CashAmount: decimal.Zero,
	}

	var rows []struct {
		Type  enums.TransactionType `gorm:"column:type"`
		Total decimal.Decimal       `gorm:"column:total"`
	}
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Where("partner_id = ?", partnerID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return FinancialOverview{}, err
	}
	for _, row := range rows {
		switch row.Type {
		case enums.TransactionTypeInvestment:
			overview.Investment = row.Total
		case enums.TransactionTypeSell:
			overview.Sell = row.Total
		case enums.TransactionTypeReturn:
			overview.Return = row.Total
		case enums.TransactionTypeCredit:
			overview.Credit = row.Total
		case enums.TransactionTypeDebit:
			overview.Debit = row.Total
		}
	}

	var partner models.Partner
	err = r.db.WithContext(ctx).
		Where("id = ?", partnerID).
		First(&partner).Error
	if err != nil {
		return FinancialOverview{}, err
	}
	overview.CashAmount = partner.CashAmount
	return overview, nil
}
