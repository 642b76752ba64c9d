package handlers

import (
	"net/http"

	"service-carrier-settlement/internal/domain"
	"service-carrier-settlement/internal/logx"
	"service-carrier-settlement/internal/service/payment"
)

// PaymentHandler handles HTTP requests for payment registration.
type PaymentHandler struct {
	usecase paymentUsecase
	logger  logx.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(logger logx.Logger, uc paymentUsecase) *PaymentHandler {
	return &PaymentHandler{usecase: uc, logger: logger}
}

// Register handles POST /payments.
func (h *PaymentHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerPaymentRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	res, err := h.usecase.Register(r.Context(), payment.Request{
		StoreID:       req.StoreID,
		CarrierID:     req.CarrierID,
		Direction:     domain.PaymentDirection(req.Direction),
		Amount:        req.Amount,
		Method:        req.Method,
		Reference:     req.Reference,
		SettlementIDs: req.SettlementIDs,
		MovementIDs:   req.MovementIDs,
	})
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusCreated, paymentResponse{
		PaymentID:       res.PaymentID,
		Code:            res.Code,
		Reference:       res.Reference,
		MovementID:      res.MovementID,
		SettlementsPaid: res.SettlementsPaid,
		MovementsTagged: res.MovementsTagged,
	})
}
