package webhook

import (
	"encoding/json"
	"fmt"
	"time"

	"paymenthub/internal/domain/processor"
)

// SignatureHeader carries the processor's delivery signature.
const SignatureHeader = "Stripe-Signature"

// EventType tags a processor notification. The known set routes to dedicated
// handlers; anything else is acknowledged unhandled, since the processor may
// introduce new types at any time.
type EventType string

const (
	EventPaymentSucceeded EventType = "payment_intent.succeeded"
	EventPaymentFailed    EventType = "payment_intent.payment_failed"
)

// Event is one verified webhook delivery. It is transient: consumed once and
// kept only as a dedup marker afterwards.
type Event struct {
	ID      string    `json:"id"`
	Type    EventType `json:"type"`
	Created int64     `json:"created"`
	Data    EventData `json:"data"`
}

type EventData struct {
	// Object is the resource snapshot at delivery time.
	Object json.RawMessage `json:"object"`
}

// PaymentIntent decodes the embedded object as a payment-intent snapshot.
func (e Event) PaymentIntent() (processor.PaymentIntent, error) {
	var intent processor.PaymentIntent
	if err := json.Unmarshal(e.Data.Object, &intent); err != nil {
		return processor.PaymentIntent{}, fmt.Errorf("decode payment intent object: %w", err)
	}
	return intent, nil
}

// StoredEvent is the dedup marker recorded for a dispatched event.
type StoredEvent struct {
	ID         string
	Type       EventType
	ReceivedAt time.Time
}

// Outcome reports what dispatch did with a delivery.
type Outcome struct {
	Received  bool      `json:"received"`
	Type      EventType `json:"type"`
	ID        string    `json:"id,omitempty"`
	Duplicate bool      `json:"duplicate,omitempty"`
	Handled   bool      `json:"-"`
}
