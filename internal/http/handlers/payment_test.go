package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"service-carrier-settlement/internal/apperr"
	"service-carrier-settlement/internal/domain"
	"service-carrier-settlement/internal/logx"
	"service-carrier-settlement/internal/service/payment"
)

type stubPaymentUsecase struct {
	registerFn func(ctx context.Context, req payment.Request) (payment.Result, error)
}

func (s stubPaymentUsecase) Register(ctx context.Context, req payment.Request) (payment.Result, error) {
	return s.registerFn(ctx, req)
}

func TestPaymentHandler_Register_Success(t *testing.T) {
	t.Parallel()

	uc := stubPaymentUsecase{
		registerFn: func(_ context.Context, req payment.Request) (payment.Result, error) {
			require.Equal(t, domain.PaymentFromCarrier, req.Direction)
			require.True(t, req.Amount.Equal(decimal.RequireFromString("210.00")))
			require.Equal(t, []int64{42}, req.SettlementIDs)
			return payment.Result{
				PaymentID:       300,
				Code:            "PAY-20250616-001",
				Reference:       "TRX-1",
				MovementID:      77,
				SettlementsPaid: 1,
			}, nil
		},
	}
	h := NewPaymentHandler(logx.Nop(), uc)

	body := `{"store_id":1,"carrier_id":5,"direction":"from_carrier","amount":"210.00","reference":"TRX-1","settlement_ids":[42]}`
	req := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var resp paymentResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, int64(300), resp.PaymentID)
	require.Equal(t, "PAY-20250616-001", resp.Code)
	require.Equal(t, int64(1), resp.SettlementsPaid)
}

func TestPaymentHandler_Register_LockBusy(t *testing.T) {
	t.Parallel()

	uc := stubPaymentUsecase{
		registerFn: func(context.Context, payment.Request) (payment.Result, error) {
			return payment.Result{}, apperr.ErrLockBusy
		},
	}
	h := NewPaymentHandler(logx.Nop(), uc)

	body := `{"store_id":1,"carrier_id":5,"direction":"from_carrier","amount":"10.00"}`
	req := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	require.Equal(t, http.StatusLocked, rr.Code)
	require.Equal(t, "lock_busy", decodeErr(t, rr))
}

func TestPaymentHandler_Register_InvalidJSON(t *testing.T) {
	t.Parallel()

	h := NewPaymentHandler(logx.Nop(), stubPaymentUsecase{})

	req := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader("not json"))
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "invalid_input", decodeErr(t, rr))
}
