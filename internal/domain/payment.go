package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentDirection indicates which party handed over the money.
type PaymentDirection string

const (
	PaymentFromCarrier PaymentDirection = "from_carrier"
	PaymentToCarrier   PaymentDirection = "to_carrier"
)

// Valid checks if the PaymentDirection is valid
func (d PaymentDirection) Valid() bool {
	return d == PaymentFromCarrier || d == PaymentToCarrier
}

// OffsetKind returns the movement kind that offsets a payment in this
// direction: money received from the carrier reduces what it owes
// (payment_received, negative), money sent to the carrier increases it
// (payment_sent, positive).
func (d PaymentDirection) OffsetKind() MovementKind {
	if d == PaymentFromCarrier {
		return MovementPaymentReceived
	}
	return MovementPaymentSent
}

// PaymentRecord is a formal cash transfer between store and carrier. It
// always produces exactly one offsetting movement.
type PaymentRecord struct {
	ID            int64
	StoreID       int64
	CarrierID     int64
	Code          string
	Direction     PaymentDirection
	Amount        decimal.Decimal
	Method        string
	Reference     string
	SettlementIDs []int64
	MovementIDs   []int64
	CreatedAt     time.Time
}

// KindTotal is a per-kind aggregate of unsettled movements.
type KindTotal struct {
	Kind  MovementKind
	Total decimal.Decimal
}

// CarrierBalance is the derived view of a carrier's open position: per-kind
// sums of unsettled movements and their net. Always computed from the ledger
// on read, never maintained as a counter.
type CarrierBalance struct {
	StoreID   int64
	CarrierID int64
	ByKind    []KindTotal
	Net       decimal.Decimal
}
