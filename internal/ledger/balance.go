package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	pkgerrors "github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/errors"
)

// BalanceApplier is the single primitive that moves money on the
// balance-bearing fields. Every code path that touches Vendor.amount or
// Partner.cash_amount goes through it, inside the caller's transaction.
type BalanceApplier interface {
	ApplyVendorDelta(ctx context.Context, tx *gorm.DB, partnerID, vendorID uuid.UUID, delta decimal.Decimal) error
	ApplyPartnerCashDelta(ctx context.Context, tx *gorm.DB, partnerID uuid.UUID, delta decimal.Decimal) error
}

type balanceApplierImpl struct{}

// NewBalanceApplier exposes the default balance delta implementation.
func NewBalanceApplier() BalanceApplier {
	return balanceApplierImpl{}
}

func (balanceApplierImpl) ApplyVendorDelta(ctx context.Context, tx *gorm.DB, partnerID, vendorID uuid.UUID, delta decimal.Decimal) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for balance update")
	}
	if delta.IsZero() {
		return nil
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE vendors
		SET amount = amount + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND partner_id = ? AND is_deleted = ?
	`, delta, vendorID, partnerID, false)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "apply vendor balance delta")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
	}
	return nil
}

func (balanceApplierImpl) ApplyPartnerCashDelta(ctx context.Context, tx *gorm.DB, partnerID uuid.UUID, delta decimal.Decimal) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for balance update")
	}
	if delta.IsZero() {
		return nil
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE partners
		SET cash_amount = cash_amount + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND is_deleted = ?
	`, delta, partnerID, false)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "apply partner cash delta")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "partner not found")
	}
	return nil
}
