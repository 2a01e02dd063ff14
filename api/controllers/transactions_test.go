package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ahmed-zikrabyte/partner-crm-sub000/api/middleware"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/internal/ledger"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/db/models"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/enums"
	pkgerrors "github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/errors"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/logger"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/pagination"
)

type testLedgerService struct {
	recordFn func(ctx context.Context, input ledger.RecordTransactionInput) (*models.Transaction, error)
	listFn   func(ctx context.Context, partnerID uuid.UUID, filters ledger.TransactionFilters, params pagination.Params) (*ledger.TransactionList, error)
	exportFn func(ctx context.Context, partnerID uuid.UUID, filters ledger.TransactionFilters) ([]ledger.ExportRecord, error)
}

func (s *testLedgerService) RecordTransaction(ctx context.Context, input ledger.RecordTransactionInput) (*models.Transaction, error) {
	if s.recordFn != nil {
		return s.recordFn(ctx, input)
	}
	return nil, nil
}

func (s *testLedgerService) ListTransactions(ctx context.Context, partnerID uuid.UUID, filters ledger.TransactionFilters, params pagination.Params) (*ledger.TransactionList, error) {
	if s.listFn != nil {
		return s.listFn(ctx, partnerID, filters, params)
	}
	return &ledger.TransactionList{}, nil
}

func (s *testLedgerService) ExportTransactions(ctx context.Context, partnerID uuid.UUID, filters ledger.TransactionFilters) ([]ledger.ExportRecord, error) {
	if s.exportFn != nil {
		return s.exportFn(ctx, partnerID, filters)
	}
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func actorRequest(method, target string, body io.Reader, partnerID, authorID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, body)
	ctx := middleware.WithActor(req.Context(), partnerID, enums.AuthorTypePartner, authorID)
	return req.WithContext(ctx)
}

func TestRecordTransactionSuccess(t *testing.T) {
	partnerID := uuid.New()
	authorID := uuid.New()
	vendorID := uuid.New()

	var captured ledger.RecordTransactionInput
	svc := &testLedgerService{
		recordFn: func(ctx context.Context, input ledger.RecordTransactionInput) (*models.Transaction, error) {
			captured = input
			return &models.Transaction{ID: uuid.New(), PartnerID: input.PartnerID, Type: input.Type, Amount: input.Amount}, nil
		},
	}

	payload := `{"type":"sell","amount":"500","vendor_id":"` + vendorID.String() + `","payment_mode":"cash"}`
	req := actorRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(payload), partnerID, authorID)
	resp := httptest.NewRecorder()
	RecordTransaction(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if captured.PartnerID != partnerID {
		t.Fatal("partner id not taken from the authenticated context")
	}
	if captured.AuthorID != authorID {
		t.Fatal("author id not taken from the authenticated context")
	}
	if captured.VendorID == nil || *captured.VendorID != vendorID {
		t.Fatal("vendor id not passed through")
	}
	if !captured.Amount.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("unexpected amount %s", captured.Amount)
	}
	if captured.PaymentMode == nil || *captured.PaymentMode != enums.PaymentModeCash {
		t.Fatal("payment mode not passed through")
	}
}

func TestRecordTransactionRejectsBadAmount(t *testing.T) {
	svc := &testLedgerService{
		recordFn: func(ctx context.Context, input ledger.RecordTransactionInput) (*models.Transaction, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}

	payload := `{"type":"credit","amount":"not-a-number"}`
	req := actorRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(payload), uuid.New(), uuid.New())
	resp := httptest.NewRecorder()
	RecordTransaction(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestRecordTransactionSurfacesPolicyError(t *testing.T) {
	svc := &testLedgerService{
		recordFn: func(ctx context.Context, input ledger.RecordTransactionInput) (*models.Transaction, error) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "missing required fields: vendorId, paymentMode").
				WithDetails(map[string]any{"missing_fields": []string{"vendorId", "paymentMode"}})
		},
	}

	payload := `{"type":"sell","amount":"500"}`
	req := actorRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(payload), uuid.New(), uuid.New())
	resp := httptest.NewRecorder()
	RecordTransaction(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}
	if !strings.Contains(envelope.Error.Message, "vendorId") {
		t.Fatalf("expected missing field named in message, got %q", envelope.Error.Message)
	}
}

func TestListTransactionsParsesFilters(t *testing.T) {
	partnerID := uuid.New()
	vendorID := uuid.New()

	var gotFilters ledger.TransactionFilters
	var gotParams pagination.Params
	svc := &testLedgerService{
		listFn: func(ctx context.Context, pid uuid.UUID, filters ledger.TransactionFilters, params pagination.Params) (*ledger.TransactionList, error) {
			if pid != partnerID {
				t.Fatalf("unexpected partner %s", pid)
			}
			gotFilters = filters
			gotParams = params
			return &ledger.TransactionList{}, nil
		},
	}

	target := "/api/v1/transactions?vendor_id=" + vendorID.String() +
		"&type=sell&search=acme&start_date=2026-01-01&limit=10"
	req := actorRequest(http.MethodGet, target, nil, partnerID, uuid.New())
	resp := httptest.NewRecorder()
	ListTransactions(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotFilters.VendorID == nil || *gotFilters.VendorID != vendorID {
		t.Fatal("vendor filter not parsed")
	}
	if gotFilters.Type == nil || *gotFilters.Type != enums.TransactionTypeSell {
		t.Fatal("type filter not parsed")
	}
	if gotFilters.Query != "acme" {
		t.Fatalf("unexpected search query %q", gotFilters.Query)
	}
	if gotFilters.DateFrom == nil {
		t.Fatal("start date not parsed")
	}
	if gotParams.Limit != 10 {
		t.Fatalf("unexpected limit %d", gotParams.Limit)
	}
}

func TestListTransactionsRejectsUnknownType(t *testing.T) {
	svc := &testLedgerService{
		listFn: func(ctx context.Context, pid uuid.UUID, filters ledger.TransactionFilters, params pagination.Params) (*ledger.TransactionList, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}

	req := actorRequest(http.MethodGet, "/api/v1/transactions?type=gift", nil, uuid.New(), uuid.New())
	resp := httptest.NewRecorder()
	ListTransactions(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestExportTransactionsReturnsFlatRecords(t *testing.T) {
	partnerID := uuid.New()
	svc := &testLedgerService{
		exportFn: func(ctx context.Context, pid uuid.UUID, filters ledger.TransactionFilters) ([]ledger.ExportRecord, error) {
			return []ledger.ExportRecord{{
				TransactionID: uuid.New(),
				Type:          "sell",
				Amount:        decimal.NewFromInt(500),
				VendorName:    "Acme Traders",
			}}, nil
		},
	}

	req := actorRequest(http.MethodGet, "/api/v1/transactions/export", nil, partnerID, uuid.New())
	resp := httptest.NewRecorder()
	ExportTransactions(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0]["vendor_name"] != "Acme Traders" {
		t.Fatalf("unexpected export payload %v", envelope.Data)
	}
}
