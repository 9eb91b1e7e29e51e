package webhook

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_PaymentIntent(t *testing.T) {
	t.Parallel()

	t.Run("should decode the embedded intent snapshot", func(t *testing.T) {
		// given
		event := Event{
			ID:   "evt_1",
			Type: EventPaymentSucceeded,
			Data: EventData{
				Object: json.RawMessage(`{"id":"pi_1","amount":1000,"currency":"usd","status":"succeeded","customer":"cus_1"}`),
			},
		}

		// when
		intent, err := event.PaymentIntent()

		// then
		require.NoError(t, err)
		assert.Equal(t, "pi_1", intent.ID)
		assert.Equal(t, int64(1000), intent.Amount)
		assert.Equal(t, "succeeded", intent.Status)
		assert.Equal(t, "cus_1", intent.CustomerID)
	})

	t.Run("should fail on a non-intent object", func(t *testing.T) {
		// given
		event := Event{
			ID:   "evt_2",
			Type: EventPaymentFailed,
			Data: EventData{Object: json.RawMessage(`not json`)},
		}

		// when
		_, err := event.PaymentIntent()

		// then
		assert.Error(t, err)
	})
}
