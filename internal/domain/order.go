package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the delivery status of an order as reported by the
// order-lifecycle service. This engine only reacts to terminal values.
type OrderStatus string

// List of order delivery statuses this engine recognizes
const (
	OrderDispatched OrderStatus = "dispatched"
	OrderDelivered  OrderStatus = "delivered"
	OrderFailed     OrderStatus = "failed"
	OrderReturned   OrderStatus = "returned"
)

// Terminal reports whether the status closes the delivery attempt.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderFailed || s == OrderReturned
}

// Delivered reports whether the order reached the customer.
func (s OrderStatus) Delivered() bool { return s == OrderDelivered }

// Order is the read model of an externally-owned order. This engine writes
// only reconciled_at, collected_amount and discrepancy_confirmed.
type Order struct {
	ID                   string
	StoreID              int64
	CarrierID            *int64
	TotalPrice           decimal.Decimal
	PaymentMethod        string
	PrepaidMethod        *string
	Status               OrderStatus
	City                 string
	Zone                 string
	CollectedAmount      *decimal.Decimal
	DiscrepancyConfirmed bool
	ReconciledAt         *time.Time
}

// cashMethods are the payment-method labels treated as cash on delivery.
var cashMethods = map[string]struct{}{
	"cash":             {},
	"cod":              {},
	"cash_on_delivery": {},
}

// IsCashOnDelivery is the single source of truth for COD classification: an
// order is COD only if no prepaid-method override is set and its payment
// method matches a recognized cash-type label. Every call site must go
// through this predicate.
func IsCashOnDelivery(paymentMethod string, prepaidMethod *string) bool {
	if prepaidMethod != nil && strings.TrimSpace(*prepaidMethod) != "" {
		return false
	}
	_, ok := cashMethods[NormalizeLabel(paymentMethod)]
	return ok
}

// CashOnDelivery applies the COD predicate to the order.
func (o *Order) CashOnDelivery() bool {
	return IsCashOnDelivery(o.PaymentMethod, o.PrepaidMethod)
}
