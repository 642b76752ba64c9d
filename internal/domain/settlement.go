package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementStatus tracks whether a settlement has been discharged by a payment.
type SettlementStatus string

const (
	SettlementOpen SettlementStatus = "open"
	SettlementPaid SettlementStatus = "paid"
)

// Settlement is an immutable snapshot closing out a carrier's accounts for
// one (store, carrier, period). Corrections are new adjustment movements,
// never edits.
type Settlement struct {
	ID            int64
	StoreID       int64
	CarrierID     int64
	Code          string
	PeriodDate    time.Time
	Dispatched    int
	Delivered     int
	NotDelivered  int
	CODExpected   decimal.Decimal
	CODCollected  decimal.Decimal
	CarrierFees   decimal.Decimal
	FailedFees    decimal.Decimal
	NetReceivable decimal.Decimal
	Status        SettlementStatus
	CreatedAt     time.Time
}

// ComputeNet returns collected minus carrier fees minus failed-attempt fees.
// Fee totals are stored as the positive magnitudes owed to the carrier.
func ComputeNet(collected, carrierFees, failedFees decimal.Decimal) decimal.Decimal {
	return collected.Sub(carrierFees).Sub(failedFees)
}
