package kafka

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"service-carrier-settlement/internal/service/events"
)

// EventDTO is a data transfer object for events.Event
type EventDTO struct {
	OrderID    string           `json:"order_id"`
	Status     string           `json:"status"`
	Collected  *decimal.Decimal `json:"collected_amount,omitempty"`
	BatchRef   string           `json:"batch_ref,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// ToDomain converts EventDTO to events.Event
func ToDomain(dto EventDTO) events.Event {
	return events.Event{
		OrderID:    strings.TrimSpace(dto.OrderID),
		Status:     strings.TrimSpace(dto.Status),
		Collected:  dto.Collected,
		BatchRef:   strings.TrimSpace(dto.BatchRef),
		OccurredAt: dto.OccurredAt,
	}
}
