package webhook

import (
	"context"
	"fmt"

	"paymenthub/internal/messaging"
)

// Dispatcher hands a verified event over for processing. Implementations may
// dispatch inline or queue the event for a consumer worker.
type Dispatcher interface {
	Process(ctx context.Context, event Event) (Outcome, error)
}

// SyncDispatcher dispatches events inline on the delivery request.
type SyncDispatcher struct {
	service *Service
}

var _ Dispatcher = (*SyncDispatcher)(nil)

func NewSyncDispatcher(service *Service) *SyncDispatcher {
	return &SyncDispatcher{service: service}
}

func (d *SyncDispatcher) Process(ctx context.Context, event Event) (Outcome, error) {
	return d.service.Dispatch(ctx, event)
}

// EnvelopeType tags webhook events on the message bus.
const EnvelopeType = "processor.webhook"

// AsyncDispatcher queues verified events for a consumer worker. Delivery to
// the worker is at-least-once; the dedup store in dispatch keeps the handler
// side effects at-most-once.
type AsyncDispatcher struct {
	publisher messaging.Publisher
}

var _ Dispatcher = (*AsyncDispatcher)(nil)

func NewAsyncDispatcher(publisher messaging.Publisher) *AsyncDispatcher {
	return &AsyncDispatcher{publisher: publisher}
}

func (d *AsyncDispatcher) Process(ctx context.Context, event Event) (Outcome, error) {
	envelope, err := messaging.NewEnvelope(event.ID, EnvelopeType, event)
	if err != nil {
		return Outcome{}, fmt.Errorf("create envelope: %w", err)
	}

	if err := d.publisher.Publish(ctx, envelope); err != nil {
		return Outcome{}, fmt.Errorf("publish webhook event: %w", err)
	}

	return Outcome{Received: true, Type: event.Type, ID: event.ID}, nil
}
