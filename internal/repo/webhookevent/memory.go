package webhookevent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"paymenthub/internal/controller/apperror"
	"paymenthub/internal/domain/webhook"
)

// MemoryStore is an in-process dedup store. Suitable for single-instance
// deployments and tests; markers do not survive a restart.
type MemoryStore struct {
	mu     sync.Mutex
	events map[string]time.Time
}

var _ webhook.EventStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events: make(map[string]time.Time),
	}
}

func (s *MemoryStore) Insert(_ context.Context, event webhook.StoredEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[event.ID]; ok {
		return fmt.Errorf("webhook event %s: %w", event.ID, apperror.ErrEventAlreadyStored)
	}

	s.events[event.ID] = event.ReceivedAt
	return nil
}

func (s *MemoryStore) PurgeOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var purged int64
	for id, receivedAt := range s.events {
		if receivedAt.Before(cutoff) {
			delete(s.events, id)
			purged++
		}
	}
	return purged, nil
}

// Len reports the number of retained markers.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}
