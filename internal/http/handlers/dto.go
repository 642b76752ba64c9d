package handlers

import (
	"time"

	"github.com/shopspring/decimal"
)

type settleBatchRequest struct {
	StoreID            int64           `json:"store_id"`
	CarrierID          int64           `json:"carrier_id"`
	Date               string          `json:"date"`
	ReportedCollected  decimal.Decimal `json:"reported_collected"`
	ConfirmDiscrepancy bool            `json:"confirm_discrepancy"`
}

type reconcileManualRequest struct {
	StoreID            int64           `json:"store_id"`
	CarrierID          int64           `json:"carrier_id"`
	Date               string          `json:"date,omitempty"`
	OrderIDs           []string        `json:"order_ids"`
	ReportedCollected  decimal.Decimal `json:"reported_collected"`
	ConfirmDiscrepancy bool            `json:"confirm_discrepancy"`
}

type settlementResponse struct {
	SettlementID  int64           `json:"settlement_id"`
	Code          string          `json:"code"`
	Dispatched    int             `json:"dispatched"`
	Delivered     int             `json:"delivered"`
	NotDelivered  int             `json:"not_delivered"`
	CODExpected   decimal.Decimal `json:"cod_expected"`
	CODCollected  decimal.Decimal `json:"cod_collected"`
	CarrierFees   decimal.Decimal `json:"carrier_fees"`
	FailedFees    decimal.Decimal `json:"failed_fees"`
	NetReceivable decimal.Decimal `json:"net_receivable"`
}

type registerPaymentRequest struct {
	StoreID       int64           `json:"store_id"`
	CarrierID     int64           `json:"carrier_id"`
	Direction     string          `json:"direction"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method,omitempty"`
	Reference     string          `json:"reference,omitempty"`
	SettlementIDs []int64         `json:"settlement_ids,omitempty"`
	MovementIDs   []int64         `json:"movement_ids,omitempty"`
}

type paymentResponse struct {
	PaymentID       int64  `json:"payment_id"`
	Code            string `json:"code"`
	Reference       string `json:"reference"`
	MovementID      int64  `json:"movement_id"`
	SettlementsPaid int64  `json:"settlements_paid"`
	MovementsTagged int64  `json:"movements_tagged"`
}

type kindTotalResponse struct {
	Kind  string          `json:"kind"`
	Total decimal.Decimal `json:"total"`
}

type balanceResponse struct {
	StoreID   int64               `json:"store_id"`
	CarrierID int64               `json:"carrier_id"`
	ByKind    []kindTotalResponse `json:"by_kind"`
	Net       decimal.Decimal     `json:"net"`
}

type pendingSettlementResponse struct {
	ID            int64           `json:"id"`
	Code          string          `json:"code"`
	PeriodDate    string          `json:"period_date"`
	NetReceivable decimal.Decimal `json:"net_receivable"`
	Status        string          `json:"status"`
}

type pendingMovementResponse struct {
	ID          int64           `json:"id"`
	OrderID     *string         `json:"order_id,omitempty"`
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	OccurredOn  time.Time       `json:"occurred_on"`
}

type pendingResponse struct {
	Settlements []pendingSettlementResponse `json:"settlements"`
	Movements   []pendingMovementResponse   `json:"movements"`
}
