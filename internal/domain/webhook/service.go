package webhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"paymenthub/internal/controller/apperror"
	"paymenthub/pkg/logger"
	"paymenthub/pkg/metrics"
)

// Verifier authenticates a raw delivery and decodes the event envelope.
type Verifier interface {
	ConstructEvent(payload []byte, sigHeader string) (Event, error)
}

// EventStore records processed event identifiers with insert-if-absent
// semantics. Insert returns apperror.ErrEventAlreadyStored when the
// identifier was recorded before; two concurrent inserts of the same
// identifier must succeed for exactly one caller.
type EventStore interface {
	Insert(ctx context.Context, event StoredEvent) error
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Handler reacts to one recognized event. Fulfillment logic lives outside the
// core; handlers registered here are thin adapters over it.
type Handler func(ctx context.Context, event Event) error

// Service verifies inbound deliveries and dispatches each event identifier to
// handlers at most once.
type Service struct {
	verifier Verifier
	store    EventStore
	handlers map[EventType]Handler
	logger   logger.Interface
}

func NewService(verifier Verifier, store EventStore, l logger.Interface) *Service {
	return &Service{
		verifier: verifier,
		store:    store,
		handlers: make(map[EventType]Handler),
		logger:   l,
	}
}

// Register routes events of the given type to handler. Registration happens
// during wiring, before the service receives traffic.
func (s *Service) Register(eventType EventType, handler Handler) {
	s.handlers[eventType] = handler
}

// VerifyAndDecode authenticates a raw delivery. A tampered body or a
// signature under the wrong secret never passes.
func (s *Service) VerifyAndDecode(payload []byte, sigHeader string) (Event, error) {
	event, err := s.verifier.ConstructEvent(payload, sigHeader)
	if err != nil {
		metrics.WebhookVerifyFailuresTotal.WithLabelValues(string(apperror.KindOf(err))).Inc()
		return Event{}, err
	}
	return event, nil
}

// Dispatch records the event identifier and routes to the registered handler.
// A previously recorded identifier yields a duplicate outcome with no handler
// call. The marker is written before the handler runs: if the handler fails,
// the error goes back to the delivery caller and the retry lands on the
// marker, so side effects happen at most once per identifier.
func (s *Service) Dispatch(ctx context.Context, event Event) (Outcome, error) {
	err := s.store.Insert(ctx, StoredEvent{
		ID:         event.ID,
		Type:       event.Type,
		ReceivedAt: time.Now().UTC(),
	})
	if errors.Is(err, apperror.ErrEventAlreadyStored) {
		s.logger.Info("Duplicate webhook delivery ignored: event_id=%s type=%s", event.ID, event.Type)
		metrics.WebhookEventsTotal.WithLabelValues(string(event.Type), "duplicate").Inc()
		return Outcome{Received: true, Type: event.Type, ID: event.ID, Duplicate: true}, nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("record webhook event: %w", err)
	}

	handler, ok := s.handlers[event.Type]
	if !ok {
		s.logger.Debug("Unhandled webhook event type acknowledged: event_id=%s type=%s", event.ID, event.Type)
		metrics.WebhookEventsTotal.WithLabelValues(string(event.Type), "unhandled").Inc()
		return Outcome{Received: true, Type: event.Type, ID: event.ID}, nil
	}

	if err := handler(ctx, event); err != nil {
		metrics.WebhookEventsTotal.WithLabelValues(string(event.Type), "handler_error").Inc()
		return Outcome{}, fmt.Errorf("handle %s event: %w", event.Type, err)
	}

	metrics.WebhookEventsTotal.WithLabelValues(string(event.Type), "handled").Inc()
	return Outcome{Received: true, Type: event.Type, ID: event.ID, Handled: true}, nil
}

// StartRetentionSweep purges dedup markers older than retention at the given
// interval until ctx is cancelled. Re-dispatch after eviction is an accepted,
// bounded risk.
func (s *Service) StartRetentionSweep(ctx context.Context, retention, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				purged, err := s.store.PurgeOlderThan(ctx, time.Now().UTC().Add(-retention))
				if err != nil {
					s.logger.Error("Dedup retention sweep failed: error=%v", err)
					continue
				}
				if purged > 0 {
					s.logger.Debug("Dedup retention sweep: purged=%d", purged)
				}
			}
		}
	}()
}
