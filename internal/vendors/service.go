package vendors

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/db"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/db/models"
	pkgerrors "github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/errors"
)

// CreateVendorInput carries the fields a partner supplies for a new vendor.
// The balance always starts at zero; only the ledger moves it afterwards.
type CreateVendorInput struct {
	PartnerID uuid.UUID
	Name      string
	Phone     *string
	Address   *string
}

// Service exposes the vendor management slice: the minimum CRUD the ledger's
// counterparty requires.
type Service interface {
	Create(ctx context.Context, input CreateVendorInput) (*models.Vendor, error)
	List(ctx context.Context, partnerID uuid.UUID) ([]models.Vendor, error)
	SoftDelete(ctx context.Context, partnerID, vendorID uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds a vendor service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "vendor repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateVendorInput) (*models.Vendor, error) {
	if input.PartnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "partner id required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor name required")
	}

	exists, err := s.repo.ExistsByName(ctx, input.PartnerID, name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check vendor name")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "vendor name already in use")
	}

	vendor := &models.Vendor{
		ID:        uuid.New(),
		PartnerID: input.PartnerID,
		Name:      name,
		Phone:     input.Phone,
		Address:   input.Address,
		Amount:    decimal.Zero,
		IsActive:  true,
	}
	if err := s.repo.Create(ctx, vendor); err != nil {
		// The partial unique index is the real guard; the pre-check only
		// covers the common path.
		if db.IsUniqueViolation(err, "ux_vendors_partner_lower_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "vendor name already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist vendor")
	}
	return vendor, nil
}

func (s *service) List(ctx context.Context, partnerID uuid.UUID) ([]models.Vendor, error) {
	if partnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "partner id required")
	}
	rows, err := s.repo.List(ctx, partnerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendors")
	}
	return rows, nil
}

func (s *service) SoftDelete(ctx context.Context, partnerID, vendorID uuid.UUID) error {
	if partnerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "partner id required")
	}
	if err := s.repo.SoftDelete(ctx, partnerID, vendorID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete vendor")
	}
	return nil
}
