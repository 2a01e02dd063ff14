package devices

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ahmed-zikrabyte/partner-crm-sub000/internal/ledger"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/db/models"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/enums"
	pkgerrors "github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/errors"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/outbox"
)

// LifecycleOf derives the device state from its ownership log: no events is
// new, a trailing sell is sold, a trailing return is returned.
func LifecycleOf(events []models.DeviceSaleEvent) enums.DeviceLifecycle {
	if len(events) == 0 {
		return enums.DeviceLifecycleNew
	}
	last := events[len(events)-1]
	if last.Type == enums.SaleEventTypeReturn {
		return enums.DeviceLifecycleReturned
	}
	return enums.DeviceLifecycleSold
}

// SoftDeleteInput identifies the device to retire and who retired it.
type SoftDeleteInput struct {
	PartnerID  uuid.UUID
	DeviceID   uuid.UUID
	AuthorType enums.AuthorType
	AuthorID   uuid.UUID
}

// DeviceRetiredEvent is the outbox payload queued when a device is
// soft-deleted.
type DeviceRetiredEvent struct {
	DeviceID       uuid.UUID        `json:"deviceId"`
	PartnerID      uuid.UUID        `json:"partnerId"`
	VendorID       *uuid.UUID       `json:"vendorId,omitempty"`
	ReversedAmount decimal.Decimal  `json:"reversedAmount"`
	RetiredAt      time.Time        `json:"retiredAt"`
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service exposes the device collaborator operations around the ledger.
type Service interface {
	Lifecycle(ctx context.Context, partnerID, deviceID uuid.UUID) (enums.DeviceLifecycle, error)
	ToggleActive(ctx context.Context, partnerID, deviceID uuid.UUID) (bool, error)
	SoftDelete(ctx context.Context, input SoftDeleteInput) error
}

type service struct {
	repo     Repository
	tx       txRunner
	balances ledger.BalanceApplier
	outbox   outboxPublisher
}

// NewService builds a device service.
func NewService(repo Repository, tx txRunner, balances ledger.BalanceApplier, outboxSvc outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "device repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if balances == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "balance applier required")
	}
	return &service{repo: repo, tx: tx, balances: balances, outbox: outboxSvc}, nil
}

// Lifecycle recomputes the device state from its ownership log.
func (s *service) Lifecycle(ctx context.Context, partnerID, deviceID uuid.UUID) (enums.DeviceLifecycle, error) {
	if _, err := s.repo.FindDevice(ctx, partnerID, deviceID); err != nil {
		return "", mapDeviceErr(err)
	}
	events, err := s.repo.ListSaleEvents(ctx, partnerID, deviceID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ownership log")
	}
	return LifecycleOf(events), nil
}

// ToggleActive flips the device's is_active flag and returns the new value.
// The flag is orthogonal to the financial lifecycle.
func (s *service) ToggleActive(ctx context.Context, partnerID, deviceID uuid.UUID) (bool, error) {
	device, err := s.repo.FindDevice(ctx, partnerID, deviceID)
	if err != nil {
		return false, mapDeviceErr(err)
	}
	next := !device.IsActive
	if err := s.repo.SetActive(ctx, partnerID, deviceID, next); err != nil {
		return false, mapDeviceErr(err)
	}
	return next, nil
}

// SoftDelete retires a device. If the device was last sold, the selling
// amount is reversed out of that vendor's balance as a compensating
// adjustment. No Transaction row is synthesized. All writes share one
// transaction with the queued retirement event.
func (s *service) SoftDelete(ctx context.Context, input SoftDeleteInput) error {
	if input.PartnerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "partner id required")
	}
	if input.DeviceID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "device id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		device, err := repo.FindDevice(ctx, input.PartnerID, input.DeviceID)
		if err != nil {
			return mapDeviceErr(err)
		}
		events, err := repo.ListSaleEvents(ctx, input.PartnerID, input.DeviceID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ownership log")
		}

		// Compensation only applies while the device sits sold with a vendor.
		var vendorID *uuid.UUID
		reversed := decimal.Zero
		if LifecycleOf(events) == enums.DeviceLifecycleSold {
			last := events[len(events)-1]
			vendorID = &last.VendorID
			reversed = device.Selling
			if err := s.balances.ApplyVendorDelta(ctx, tx, input.PartnerID, last.VendorID, reversed.Neg()); err != nil {
				return err
			}
		}

		if err := repo.SoftDelete(ctx, input.PartnerID, input.DeviceID); err != nil {
			return mapDeviceErr(err)
		}

		if s.outbox == nil {
			return nil
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventDeviceRetired,
			AggregateType: enums.AggregateDevice,
			AggregateID:   input.DeviceID,
			Version:       1,
			Actor: &outbox.ActorRef{
				AuthorType: input.AuthorType,
				AuthorID:   input.AuthorID,
				PartnerID:  input.PartnerID,
			},
			Data: DeviceRetiredEvent{
				DeviceID:       input.DeviceID,
				PartnerID:      input.PartnerID,
				VendorID:       vendorID,
				ReversedAmount: reversed,
				RetiredAt:      time.Now(),
			},
		})
	})
}

func mapDeviceErr(err error) error {
	if err == gorm.ErrRecordNotFound {
		return pkgerrors.New(pkgerrors.CodeNotFound, "device not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load device")
}
