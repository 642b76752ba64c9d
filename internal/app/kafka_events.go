package app

import (
	"context"

	"service-carrier-settlement/internal/service/events"
	"service-carrier-settlement/internal/transport/kafka"
)

// makeDeliveryKafka adapts the event processor to the consumer contract.
// Errors that redelivery can never fix are marked permanent so the consumer
// logs them and advances the offset instead of retrying forever.
func makeDeliveryKafka(p *events.Processor) kafka.HandleFunc {
	return func(ctx context.Context, event events.Event) error {
		err := p.Handle(ctx, event)
		if err != nil && events.IsPermanent(err) {
			return kafka.Permanent(err)
		}
		return err
	}
}
