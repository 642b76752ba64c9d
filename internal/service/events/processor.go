package events

import (
	"context"
	"errors"

	"service-carrier-settlement/internal/apperr"
	"service-carrier-settlement/internal/logx"
	"service-carrier-settlement/internal/service/ledger"
)

// LedgerPort is the slice of the delivery event processor this consumer needs.
type LedgerPort interface {
	HandleDelivered(ctx context.Context, req ledger.DeliveredRequest) error
	HandleFailed(ctx context.Context, orderID string) error
}

// Processor routes consumed delivery events to the ledger. Statuses outside
// the map are ignored. Ledger errors propagate to the caller as-is; the
// transport decides whether to retry or skip, using IsPermanent to tell the
// two apart.
type Processor struct {
	ledger  LedgerPort
	logger  logx.Logger
	factory *actionFactory
}

// NewProcessor creates a new events Processor.
func NewProcessor(ledgerSvc LedgerPort, logger logx.Logger) *Processor {
	p := &Processor{ledger: ledgerSvc, logger: logger}
	p.factory = newActionFactory(p.onDelivered, p.onFailed)
	return p
}

// Handle processes a single delivery event.
func (p *Processor) Handle(ctx context.Context, e Event) error {
	fn, ok := p.factory.get(e.Status)
	if !ok {
		p.logger.Debug("delivery event status ignored",
			logx.String("order_id", e.OrderID),
			logx.String("status", e.Status),
		)
		return nil
	}
	return fn(ctx, e)
}

func (p *Processor) onDelivered(ctx context.Context, e Event) error {
	return p.ledger.HandleDelivered(ctx, ledger.DeliveredRequest{
		OrderID:   e.OrderID,
		Collected: e.Collected,
		BatchRef:  e.BatchRef,
	})
}

func (p *Processor) onFailed(ctx context.Context, e Event) error {
	return p.ledger.HandleFailed(ctx, e.OrderID)
}

// IsPermanent reports whether redelivering the event can never fix err.
// Unknown orders and malformed payloads stay broken no matter how many
// times the consumer retries them.
func IsPermanent(err error) bool {
	return errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrInvalid)
}
