package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ahmed-zikrabyte/partner-crm-sub000/api/middleware"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/api/responses"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/api/validators"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/internal/ledger"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/enums"
	pkgerrors "github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/errors"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/logger"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/pagination"
)

type recordTransactionPayload struct {
	Type        string  `json:"type" validate:"required"`
	Amount      string  `json:"amount" validate:"required"`
	VendorID    *string `json:"vendor_id,omitempty"`
	DeviceID    *string `json:"device_id,omitempty"`
	PaymentMode *string `json:"payment_mode,omitempty"`
	Note        *string `json:"note,omitempty"`
	Date        *string `json:"date,omitempty"`
}

// RecordTransaction handles POST /api/v1/transactions. Field requirements per
// transaction type are enforced by the ledger's policy table, not here; the
// controller only shapes the input.
func RecordTransaction(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		var payload recordTransactionPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input, err := buildRecordInput(ctx, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		txn, err := svc.RecordTransaction(ctx, *input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, txn)
	}
}

func buildRecordInput(ctx context.Context, payload recordTransactionPayload) (*ledger.RecordTransactionInput, error) {
	amount, err := decimal.NewFromString(payload.Amount)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be a decimal string").
			WithDetails(map[string]any{"field": "amount"})
	}

	input := ledger.RecordTransactionInput{
		PartnerID:  middleware.PartnerIDFromContext(ctx),
		AuthorType: middleware.AuthorTypeFromContext(ctx),
		AuthorID:   middleware.AuthorIDFromContext(ctx),
		Amount:     amount,
		Note:       payload.Note,
		Type:       enums.TransactionType(payload.Type),
	}

	if payload.VendorID != nil {
		id, err := uuid.Parse(*payload.VendorID)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor_id must be a uuid")
		}
		input.VendorID = &id
	}
	if payload.DeviceID != nil {
		id, err := uuid.Parse(*payload.DeviceID)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "device_id must be a uuid")
		}
		input.DeviceID = &id
	}
	if payload.PaymentMode != nil {
		mode := enums.PaymentMode(*payload.PaymentMode)
		input.PaymentMode = &mode
	}
	if payload.Date != nil {
		date, err := time.Parse(time.RFC3339, *payload.Date)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "date must be RFC3339")
		}
		input.Date = date
	}
	return &input, nil
}

// ListTransactions handles GET /api/v1/transactions with cursor pagination
// and the supported filters.
func ListTransactions(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		filters, err := parseTransactionFilters(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: validators.ParseQueryString(r, "cursor"),
		}

		list, err := svc.ListTransactions(ctx, middleware.PartnerIDFromContext(ctx), *filters, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ExportTransactions handles GET /api/v1/transactions/export, returning flat
// records for downstream CSV or Excel rendering.
func ExportTransactions(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		filters, err := parseTransactionFilters(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		records, err := svc.ExportTransactions(ctx, middleware.PartnerIDFromContext(ctx), *filters)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, records)
	}
}

func parseTransactionFilters(r *http.Request) (*ledger.TransactionFilters, error) {
	filters := ledger.TransactionFilters{
		Query: validators.ParseQueryString(r, "search"),
	}

	vendorID, err := validators.ParseQueryUUID(r, "vendor_id")
	if err != nil {
		return nil, err
	}
	filters.VendorID = vendorID

	if raw := validators.ParseQueryString(r, "type"); raw != "" {
		txType, err := enums.ParseTransactionType(raw)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown transaction type").
				WithDetails(map[string]any{"field": "type"})
		}
		filters.Type = &txType
	}

	from, err := validators.ParseQueryDate(r, "start_date")
	if err != nil {
		return nil, err
	}
	filters.DateFrom = from

	to, err := validators.ParseQueryDate(r, "end_date")
	if err != nil {
		return nil, err
	}
	filters.DateTo = to

	return &filters, nil
}
