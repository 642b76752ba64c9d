package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"service-carrier-settlement/internal/apperr"
	"service-carrier-settlement/internal/logx"
	"service-carrier-settlement/internal/service/settlement"
	testlog "service-carrier-settlement/internal/testutil"
)

type stubSettlementUsecase struct {
	batchFn  func(ctx context.Context, req settlement.BatchRequest) (settlement.Result, error)
	manualFn func(ctx context.Context, req settlement.ManualRequest) (settlement.Result, error)
}

func (s stubSettlementUsecase) SettleBatch(ctx context.Context, req settlement.BatchRequest) (settlement.Result, error) {
	return s.batchFn(ctx, req)
}

func (s stubSettlementUsecase) ReconcileManual(ctx context.Context, req settlement.ManualRequest) (settlement.Result, error) {
	return s.manualFn(ctx, req)
}

func decodeErr(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Error
}

func TestSettlementHandler_SettleBatch_Success(t *testing.T) {
	t.Parallel()

	uc := stubSettlementUsecase{
		batchFn: func(_ context.Context, req settlement.BatchRequest) (settlement.Result, error) {
			require.Equal(t, int64(1), req.StoreID)
			require.Equal(t, int64(5), req.CarrierID)
			require.Equal(t, "2025-06-15", req.Date.Format("2006-01-02"))
			require.True(t, req.ReportedCollected.Equal(decimal.RequireFromString("250.00")))
			return settlement.Result{
				SettlementID:  42,
				Code:          "STL-20250615-001",
				Dispatched:    3,
				Delivered:     2,
				NotDelivered:  1,
				NetReceivable: decimal.RequireFromString("200.00"),
			}, nil
		},
	}
	h := NewSettlementHandler(logx.Nop(), uc)

	body := `{"store_id":1,"carrier_id":5,"date":"2025-06-15","reported_collected":"250.00"}`
	req := httptest.NewRequest(http.MethodPost, "/settlements/batch", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.SettleBatch(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var resp settlementResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, int64(42), resp.SettlementID)
	require.Equal(t, "STL-20250615-001", resp.Code)
	require.Equal(t, 3, resp.Dispatched)
}

func TestSettlementHandler_SettleBatch_InvalidJSON(t *testing.T) {
	t.Parallel()

	h := NewSettlementHandler(logx.Nop(), stubSettlementUsecase{})

	req := httptest.NewRequest(http.MethodPost, "/settlements/batch", strings.NewReader("{"))
	rr := httptest.NewRecorder()
	h.SettleBatch(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "invalid_input", decodeErr(t, rr))
}

func TestSettlementHandler_SettleBatch_BadDate(t *testing.T) {
	t.Parallel()

	h := NewSettlementHandler(logx.Nop(), stubSettlementUsecase{})

	body := `{"store_id":1,"carrier_id":5,"date":"June 15","reported_collected":"0"}`
	req := httptest.NewRequest(http.MethodPost, "/settlements/batch", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.SettleBatch(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "invalid_input", decodeErr(t, rr))
}

func TestSettlementHandler_SettleBatch_ErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"conflict", apperr.ErrConflict, http.StatusConflict, "conflict"},
		{"already reconciled", apperr.ErrAlreadyReconciled, http.StatusConflict, "already_reconciled"},
		{"not found", apperr.ErrNotFound, http.StatusNotFound, "not_found"},
		{"invalid", apperr.ErrInvalid, http.StatusBadRequest, "invalid_input"},
		{"internal", context.DeadlineExceeded, http.StatusInternalServerError, "internal"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			uc := stubSettlementUsecase{
				batchFn: func(context.Context, settlement.BatchRequest) (settlement.Result, error) {
					return settlement.Result{}, tc.err
				},
			}
			h := NewSettlementHandler(logx.Nop(), uc)

			body := `{"store_id":1,"carrier_id":5,"date":"2025-06-15","reported_collected":"0"}`
			req := httptest.NewRequest(http.MethodPost, "/settlements/batch", strings.NewReader(body))
			rr := httptest.NewRecorder()
			h.SettleBatch(rr, req)

			require.Equal(t, tc.wantStatus, rr.Code)
			require.Equal(t, tc.wantCode, decodeErr(t, rr))
		})
	}
}

func TestSettlementHandler_SettleBatch_InternalErrorLogged(t *testing.T) {
	t.Parallel()

	underlying := errors.New("scan settlement row: connection reset")
	uc := stubSettlementUsecase{
		batchFn: func(context.Context, settlement.BatchRequest) (settlement.Result, error) {
			return settlement.Result{}, fmt.Errorf("settle batch: %w", underlying)
		},
	}
	rec := testlog.New()
	h := NewSettlementHandler(rec.Logger(), uc)

	body := `{"store_id":1,"carrier_id":5,"date":"2025-06-15","reported_collected":"0"}`
	req := httptest.NewRequest(http.MethodPost, "/settlements/batch", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.SettleBatch(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "internal", decodeErr(t, rr))
	require.NotContains(t, rr.Body.String(), "connection reset")

	entries := rec.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "error", entries[0].Level)

	var logged error
	for _, f := range entries[0].Fields {
		if f.Key == "err" {
			logged, _ = f.Value.(error)
		}
	}
	require.Error(t, logged)
	require.Contains(t, logged.Error(), "connection reset")
}

func TestSettlementHandler_ReconcileManual_Success(t *testing.T) {
	t.Parallel()

	uc := stubSettlementUsecase{
		manualFn: func(_ context.Context, req settlement.ManualRequest) (settlement.Result, error) {
			require.Equal(t, []string{"o1", "o2"}, req.OrderIDs)
			require.True(t, req.Date.IsZero())
			require.True(t, req.ConfirmDiscrepancy)
			return settlement.Result{SettlementID: 43, Code: "STL-20250615-002"}, nil
		},
	}
	h := NewSettlementHandler(logx.Nop(), uc)

	body := `{"store_id":1,"carrier_id":5,"order_ids":["o1","o2"],"reported_collected":"99.00","confirm_discrepancy":true}`
	req := httptest.NewRequest(http.MethodPost, "/settlements/reconcile", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ReconcileManual(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
}

func TestSettlementHandler_ReconcileManual_UnknownField(t *testing.T) {
	t.Parallel()

	h := NewSettlementHandler(logx.Nop(), stubSettlementUsecase{})

	body := `{"store_id":1,"carrier_id":5,"orders":["o1"]}`
	req := httptest.NewRequest(http.MethodPost, "/settlements/reconcile", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ReconcileManual(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}
