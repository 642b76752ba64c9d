package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"service-carrier-settlement/internal/logx"
)

// ReportingHandler handles the read-only carrier views.
type ReportingHandler struct {
	usecase reportingUsecase
	logger  logx.Logger
}

// NewReportingHandler creates a new ReportingHandler.
func NewReportingHandler(logger logx.Logger, uc reportingUsecase) *ReportingHandler {
	return &ReportingHandler{usecase: uc, logger: logger}
}

// Balance handles GET /carriers/{id}/balance?store_id=N.
func (h *ReportingHandler) Balance(w http.ResponseWriter, r *http.Request) {
	carrierID, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid_input")
		return
	}
	storeID, err := storeIDFromQuery(r)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid_input")
		return
	}

	balance, err := h.usecase.Balance(r.Context(), storeID, carrierID)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, balanceToResponse(balance))
}

// Pending handles GET /carriers/{id}/pending?store_id=N.
func (h *ReportingHandler) Pending(w http.ResponseWriter, r *http.Request) {
	carrierID, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid_input")
		return
	}
	storeID, err := storeIDFromQuery(r)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid_input")
		return
	}

	pending, err := h.usecase.Pending(r.Context(), storeID, carrierID)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, pendingToResponse(pending))
}

func storeIDFromQuery(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("store_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid store_id")
	}
	return id, nil
}
