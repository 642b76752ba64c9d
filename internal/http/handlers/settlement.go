package handlers

import (
	"net/http"
	"time"

	"service-carrier-settlement/internal/logx"
	"service-carrier-settlement/internal/service/settlement"
)

// SettlementHandler handles HTTP requests for settlement runs.
type SettlementHandler struct {
	usecase settlementUsecase
	logger  logx.Logger
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(logger logx.Logger, uc settlementUsecase) *SettlementHandler {
	return &SettlementHandler{usecase: uc, logger: logger}
}

// SettleBatch handles POST /settlements/batch.
func (h *SettlementHandler) SettleBatch(w http.ResponseWriter, r *http.Request) {
	var req settleBatchRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	day, err := parseDate(req.Date)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid_input")
		return
	}

	res, err := h.usecase.SettleBatch(r.Context(), settlement.BatchRequest{
		StoreID:            req.StoreID,
		CarrierID:          req.CarrierID,
		Date:               day,
		ReportedCollected:  req.ReportedCollected,
		ConfirmDiscrepancy: req.ConfirmDiscrepancy,
	})
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusCreated, settlementResultToResponse(res))
}

// ReconcileManual handles POST /settlements/reconcile.
func (h *SettlementHandler) ReconcileManual(w http.ResponseWriter, r *http.Request) {
	var req reconcileManualRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	var day time.Time
	if req.Date != "" {
		var err error
		day, err = parseDate(req.Date)
		if err != nil {
			writeError(h.logger, w, r, http.StatusBadRequest, "invalid_input")
			return
		}
	}

	res, err := h.usecase.ReconcileManual(r.Context(), settlement.ManualRequest{
		StoreID:            req.StoreID,
		CarrierID:          req.CarrierID,
		Date:               day,
		OrderIDs:           req.OrderIDs,
		ReportedCollected:  req.ReportedCollected,
		ConfirmDiscrepancy: req.ConfirmDiscrepancy,
	})
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusCreated, settlementResultToResponse(res))
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", raw)
}
