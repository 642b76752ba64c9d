package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is a single delivery status event from the order-lifecycle service.
type Event struct {
	OrderID    string           `json:"order_id"`
	Status     string           `json:"status"`
	Collected  *decimal.Decimal `json:"collected_amount,omitempty"`
	BatchRef   string           `json:"batch_ref,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}
