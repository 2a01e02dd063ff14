package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/db"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/db/models"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/enums"
	pkgerrors "github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/errors"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/metrics"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/outbox"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines the ledger engine operations.
type Service interface {
	RecordTransaction(ctx context.Context, input RecordTransactionInput) (*models.Transaction, error)
	ListTransactions(ctx context.Context, partnerID uuid.UUID, filters TransactionFilters, params pagination.Params) (*TransactionList, error)
	ExportTransactions(ctx context.Context, partnerID uuid.UUID, filters TransactionFilters) ([]ExportRecord, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	balances BalanceApplier
	outbox   outboxPublisher
	metrics  *metrics.LedgerMetrics
	retries  int
}

// NewService builds a ledger service with the required dependencies.
// retries bounds how many serialization conflicts a record call absorbs
// before CONFLICT surfaces to the caller.
func NewService(repo Repository, tx txRunner, balances BalanceApplier, outboxSvc outboxPublisher, ledgerMetrics *metrics.LedgerMetrics, retries int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if balances == nil {
		return nil, fmt.Errorf("balance applier required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if retries < 0 {
		retries = 0
	}
	return &service{
		repo:     repo,
		tx:       tx,
		balances: balances,
		outbox:   outboxSvc,
		metrics:  ledgerMetrics,
		retries:  retries,
	}, nil
}

func (s *service) RecordTransaction(ctx context.Context, input RecordTransactionInput) (*models.Transaction, error) {
	start := time.Now()
	recorded, err := s.recordTransaction(ctx, input)
	if err != nil {
		s.metrics.IncFailure(string(pkgerrors.As(err).Code()))
		return nil, err
	}
	s.metrics.IncRecorded(string(recorded.Type))
	s.metrics.ObserveDuration(string(recorded.Type), time.Since(start))
	return recorded, nil
}

func (s *service) recordTransaction(ctx context.Context, input RecordTransactionInput) (*models.Transaction, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.Date.IsZero() {
		input.Date = time.Now()
	}

	var recorded *models.Transaction
	var lastErr error
	for attempt := 0; attempt <= s.retries; attempt++ {
		lastErr = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			txn, err := s.recordOnce(ctx, tx, input)
			if err != nil {
				return err
			}
			recorded = txn
			return nil
		})
		if lastErr == nil {
			return recorded, nil
		}
		if db.IsSerializationFailure(lastErr) {
			s.metrics.IncRetry(string(input.Type))
			continue
		}
		return nil, lastErr
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, lastErr, "transaction conflicted with a concurrent write")
}

func validateInput(input RecordTransactionInput) error {
	if input.PartnerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "partner id required")
	}
	if input.AuthorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "author identity missing")
	}
	if !input.AuthorType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid author type")
	}
	if !input.Amount.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if input.PaymentMode != nil && !input.PaymentMode.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment mode")
	}

	policy, known := PolicyFor(input.Type)
	if !known {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown transaction type %q", input.Type))
	}
	if missing := MissingFields(policy, input); len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "missing required fields: "+strings.Join(missing, ", ")).
			WithDetails(map[string]any{"missing_fields": missing})
	}
	return nil
}

// recordOnce applies the whole record operation inside one transaction:
// insert the transaction row, move the balances, append the ownership event
// and queue the outbox row. Either all commit or none do.
func (s *service) recordOnce(ctx context.Context, tx *gorm.DB, input RecordTransactionInput) (*models.Transaction, error) {
	repo := s.repo.WithTx(tx)

	if _, err := repo.FindPartner(ctx, input.PartnerID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "partner not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load partner")
	}

	// The vendor row is locked up front so the return apportionment reads a
	// balance no concurrent writer can move before this tx commits.
	var vendor *models.Vendor
	if input.VendorID != nil {
		found, err := repo.FindVendorForUpdate(ctx, input.PartnerID, *input.VendorID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
		}
		vendor = found
	}

	var device *models.Device
	if input.DeviceID != nil {
		found, err := repo.FindDevice(ctx, input.PartnerID, *input.DeviceID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "device not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load device")
		}
		device = found
	}

	txn := &models.Transaction{
		PartnerID:   input.PartnerID,
		AuthorType:  input.AuthorType,
		AuthorID:    input.AuthorID,
		VendorID:    input.VendorID,
		DeviceID:    input.DeviceID,
		Amount:      input.Amount,
		Note:        input.Note,
		PaymentMode: input.PaymentMode,
		Type:        input.Type,
		Date:        input.Date,
	}
	if err := repo.CreateTransaction(ctx, txn); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist transaction")
	}

	if err := s.applySideEffects(ctx, tx, repo, input, vendor, device); err != nil {
		return nil, err
	}

	event := outbox.DomainEvent{
		EventType:     enums.EventTransactionRecorded,
		AggregateType: enums.AggregateTransaction,
		AggregateID:   txn.ID,
		Version:       1,
		Actor: &outbox.ActorRef{
			AuthorType: input.AuthorType,
			AuthorID:   input.AuthorID,
			PartnerID:  input.PartnerID,
		},
		Data: TransactionRecordedEvent{
			TransactionID: txn.ID,
			PartnerID:     txn.PartnerID,
			Type:          txn.Type,
			Amount:        txn.Amount,
			VendorID:      txn.VendorID,
			DeviceID:      txn.DeviceID,
			PaymentMode:   txn.PaymentMode,
			Date:          txn.Date,
		},
	}
	if err := s.outbox.Emit(ctx, tx, event); err != nil {
		return nil, err
	}
	return txn, nil
}

func (s *service) applySideEffects(ctx context.Context, tx *gorm.DB, repo Repository, input RecordTransactionInput, vendor *models.Vendor, device *models.Device) error {
	isCash := input.PaymentMode != nil && *input.PaymentMode == enums.PaymentModeCash

	switch input.Type {
	case enums.TransactionTypeSell:
		if err := s.balances.ApplyVendorDelta(ctx, tx, input.PartnerID, vendor.ID, input.Amount.Neg()); err != nil {
			return err
		}
		if isCash {
			if err := s.balances.ApplyPartnerCashDelta(ctx, tx, input.PartnerID, input.Amount); err != nil {
				return err
			}
		}
		if device != nil {
			return s.appendSaleEvent(ctx, repo, input, device, enums.SaleEventTypeSell)
		}
		return nil

	case enums.TransactionTypeReturn:
		owed := decimal.Max(vendor.Amount, decimal.Zero)
		deduct := decimal.Min(input.Amount, owed)
		if err := s.balances.ApplyVendorDelta(ctx, tx, input.PartnerID, vendor.ID, deduct.Neg()); err != nil {
			return err
		}
		// Non-cash remainders intentionally move no further balance: those
		// refunds are settled outside the system.
		remaining := input.Amount.Sub(deduct)
		if remaining.IsPositive() && isCash {
			if err := s.balances.ApplyPartnerCashDelta(ctx, tx, input.PartnerID, remaining.Neg()); err != nil {
				return err
			}
		}
		return s.appendSaleEvent(ctx, repo, input, device, enums.SaleEventTypeReturn)

	case enums.TransactionTypeInvestment:
		if err := s.balances.ApplyVendorDelta(ctx, tx, input.PartnerID, vendor.ID, input.Amount.Neg()); err != nil {
			return err
		}
		if isCash {
			return s.balances.ApplyPartnerCashDelta(ctx, tx, input.PartnerID, input.Amount)
		}
		return nil

	case enums.TransactionTypeCredit:
		return s.balances.ApplyPartnerCashDelta(ctx, tx, input.PartnerID, input.Amount)

	case enums.TransactionTypeDebit:
		return s.balances.ApplyPartnerCashDelta(ctx, tx, input.PartnerID, input.Amount.Neg())

	default:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown transaction type %q", input.Type))
	}
}

func (s *service) appendSaleEvent(ctx context.Context, repo Repository, input RecordTransactionInput, device *models.Device, eventType enums.SaleEventType) error {
	event := &models.DeviceSaleEvent{
		DeviceID:  device.ID,
		PartnerID: input.PartnerID,
		Type:      eventType,
		VendorID:  *input.VendorID,
	}
	amount := input.Amount
	switch eventType {
	case enums.SaleEventTypeSell:
		event.Selling = &amount
	case enums.SaleEventTypeReturn:
		event.ReturnAmount = &amount
	}
	if err := repo.AppendSaleEvent(ctx, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append ownership event")
	}
	return nil
}

func (s *service) ListTransactions(ctx context.Context, partnerID uuid.UUID, filters TransactionFilters, params pagination.Params) (*TransactionList, error) {
	if partnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "partner id required")
	}

	rows, err := s.repo.ListTransactions(ctx, partnerID, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transactions")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{Timestamp: last.Date, ID: last.ID})
	}

	// The free-text query filters the fetched page, not the DB scan, so it
	// can reach into preloaded vendor/device fields.
	if filters.Query != "" {
		rows = filterByQuery(rows, filters.Query)
	}

	return &TransactionList{Transactions: rows, NextCursor: nextCursor}, nil
}

func (s *service) ExportTransactions(ctx context.Context, partnerID uuid.UUID, filters TransactionFilters) ([]ExportRecord, error) {
	if partnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "partner id required")
	}

	rows, err := s.repo.FindAllTransactions(ctx, partnerID, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "export transactions")
	}
	if filters.Query != "" {
		rows = filterByQuery(rows, filters.Query)
	}

	records := make([]ExportRecord, 0, len(rows))
	for _, row := range rows {
		record := ExportRecord{
			TransactionID: row.ID,
			Date:          row.Date,
			Type:          string(row.Type),
			Amount:        row.Amount,
			AuthorType:    string(row.AuthorType),
		}
		if row.PaymentMode != nil {
			record.PaymentMode = string(*row.PaymentMode)
		}
		if row.Note != nil {
			record.Note = *row.Note
		}
		if row.Vendor != nil {
			record.VendorName = row.Vendor.Name
		}
		if row.Device != nil {
			record.DeviceID = row.Device.ID.String()
			record.DeviceBrand = row.Device.Brand
			record.DeviceModel = row.Device.Model
		}
		records = append(records, record)
	}
	return records, nil
}

func filterByQuery(rows []models.Transaction, query string) []models.Transaction {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return rows
	}
	matched := make([]models.Transaction, 0, len(rows))
	for _, row := range rows {
		if transactionMatches(row, needle) {
			matched = append(matched, row)
		}
	}
	return matched
}

func transactionMatches(row models.Transaction, needle string) bool {
	candidates := []string{string(row.Type)}
	if row.Note != nil {
		candidates = append(candidates, *row.Note)
	}
	if row.Vendor != nil {
		candidates = append(candidates, row.Vendor.Name)
	}
	if row.Device != nil {
		candidates = append(candidates, row.Device.ID.String(), row.Device.Brand, row.Device.Model)
	}
	for _, candidate := range candidates {
		if strings.Contains(strings.ToLower(candidate), needle) {
			return true
		}
	}
	return false
}
