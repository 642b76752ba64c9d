package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind classifies a ledger entry. The sign convention is fixed:
// positive means the carrier owes the store, negative means the store owes
// the carrier.
type MovementKind string

// List of movement kinds
const (
	MovementCODCollected     MovementKind = "cod_collected"
	MovementDeliveryFee      MovementKind = "delivery_fee"
	MovementFailedAttemptFee MovementKind = "failed_attempt_fee"
	MovementPaymentReceived  MovementKind = "payment_received"
	MovementPaymentSent      MovementKind = "payment_sent"
	MovementAdjustmentCredit MovementKind = "adjustment_credit"
	MovementAdjustmentDebit  MovementKind = "adjustment_debit"
	MovementDiscount         MovementKind = "discount"
	MovementRefund           MovementKind = "refund"
)

var allowedMovementKinds = [...]MovementKind{
	MovementCODCollected, MovementDeliveryFee, MovementFailedAttemptFee,
	MovementPaymentReceived, MovementPaymentSent,
	MovementAdjustmentCredit, MovementAdjustmentDebit,
	MovementDiscount, MovementRefund,
}

// Valid checks if the MovementKind is valid
func (k MovementKind) Valid() bool {
	for _, v := range allowedMovementKinds {
		if k == v {
			return true
		}
	}
	return false
}

// Sign returns +1 for kinds that must be non-negative, -1 for kinds that must
// be non-positive, and 0 for kinds with no fixed sign.
func (k MovementKind) Sign() int {
	switch k {
	case MovementCODCollected, MovementPaymentSent, MovementAdjustmentDebit:
		return +1
	case MovementDeliveryFee, MovementFailedAttemptFee, MovementPaymentReceived, MovementAdjustmentCredit:
		return -1
	default:
		return 0
	}
}

// Movement is one immutable ledger entry between store and carrier.
// At most one movement of each kind exists per order: the (order, kind) pair
// is the idempotency key, and re-running a generator overwrites the amount
// and description instead of duplicating the row.
type Movement struct {
	ID           int64
	StoreID      int64
	CarrierID    int64
	OrderID      *string
	Kind         MovementKind
	Amount       decimal.Decimal
	SettlementID *int64
	PaymentID    *int64
	Description  string
	OccurredOn   time.Time
}

// Validate enforces the kind and sign invariants.
func (m *Movement) Validate() error {
	if !m.Kind.Valid() {
		return fmt.Errorf("movement kind %q is not valid", m.Kind)
	}
	switch m.Kind.Sign() {
	case +1:
		if m.Amount.IsNegative() {
			return fmt.Errorf("movement kind %q must be non-negative, got %s", m.Kind, m.Amount)
		}
	case -1:
		if m.Amount.IsPositive() {
			return fmt.Errorf("movement kind %q must be non-positive, got %s", m.Kind, m.Amount)
		}
	}
	return nil
}
