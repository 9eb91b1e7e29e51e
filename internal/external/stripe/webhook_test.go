package stripe

import (
	"fmt"
	"testing"
	"time"

	"paymenthub/internal/controller/apperror"
	"paymenthub/internal/domain/webhook"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test_secret"

var testPayload = []byte(`{"id":"evt_1","type":"payment_intent.succeeded","created":1724400000,"data":{"object":{"id":"pi_1","amount":1000,"status":"succeeded"}}}`)

func testVerifier(now time.Time) *WebhookVerifier {
	v := NewWebhookVerifier(testSecret)
	v.now = func() time.Time { return now }
	return v
}

func TestWebhookVerifier_ConstructEvent(t *testing.T) {
	t.Parallel()

	now := time.Unix(1724400100, 0)

	t.Run("should accept a correctly signed payload", func(t *testing.T) {
		// given
		v := testVerifier(now)
		header := SignatureHeaderValue(testSecret, now.Unix(), testPayload)

		// when
		event, err := v.ConstructEvent(testPayload, header)

		// then
		require.NoError(t, err)
		assert.Equal(t, "evt_1", event.ID)
		assert.Equal(t, webhook.EventPaymentSucceeded, event.Type)
		assert.Equal(t, int64(1724400000), event.Created)

		intent, err := event.PaymentIntent()
		require.NoError(t, err)
		assert.Equal(t, "pi_1", intent.ID)
	})

	t.Run("should ignore unknown signature schemes beside a valid v1", func(t *testing.T) {
		// given
		v := testVerifier(now)
		header := fmt.Sprintf("t=%d,v0=legacy,v1=%s",
			now.Unix(), ComputeSignature(testSecret, now.Unix(), testPayload))

		// when
		_, err := v.ConstructEvent(testPayload, header)

		// then
		assert.NoError(t, err)
	})

	t.Run("should reject verification failures", func(t *testing.T) {
		v := testVerifier(now)
		validHeader := SignatureHeaderValue(testSecret, now.Unix(), testPayload)

		tampered := make([]byte, len(testPayload))
		copy(tampered, testPayload)
		tampered[len(tampered)/2] ^= 0x01

		testCases := []struct {
			name    string
			payload []byte
			header  string
		}{
			{
				name:    "missing header",
				payload: testPayload,
				header:  "",
			},
			{
				name:    "malformed header",
				payload: testPayload,
				header:  "not a signature header",
			},
			{
				name:    "header without signature",
				payload: testPayload,
				header:  fmt.Sprintf("t=%d", now.Unix()),
			},
			{
				name:    "tampered payload byte",
				payload: tampered,
				header:  validHeader,
			},
			{
				name:    "signature under a different secret",
				payload: testPayload,
				header:  SignatureHeaderValue("whsec_other", now.Unix(), testPayload),
			},
			{
				name:    "stale timestamp",
				payload: testPayload,
				header:  SignatureHeaderValue(testSecret, now.Add(-10*time.Minute).Unix(), testPayload),
			},
			{
				name:    "future timestamp",
				payload: testPayload,
				header:  SignatureHeaderValue(testSecret, now.Add(10*time.Minute).Unix(), testPayload),
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				// when
				_, err := v.ConstructEvent(tc.payload, tc.header)

				// then
				require.Error(t, err)
				assert.True(t, apperror.IsKind(err, apperror.KindSignatureVerification))
			})
		}
	})

	t.Run("should accept an old timestamp when tolerance is disabled", func(t *testing.T) {
		// given
		v := testVerifier(now).WithTolerance(0)
		old := now.Add(-24 * time.Hour).Unix()
		header := SignatureHeaderValue(testSecret, old, testPayload)

		// when
		_, err := v.ConstructEvent(testPayload, header)

		// then
		assert.NoError(t, err)
	})

	t.Run("should reject malformed payloads behind a valid signature", func(t *testing.T) {
		v := testVerifier(now)

		testCases := []struct {
			name    string
			payload []byte
		}{
			{name: "invalid JSON", payload: []byte(`{"id":`)},
			{name: "missing id", payload: []byte(`{"type":"payment_intent.succeeded"}`)},
			{name: "missing type", payload: []byte(`{"id":"evt_1"}`)},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				// given
				header := SignatureHeaderValue(testSecret, now.Unix(), tc.payload)

				// when
				_, err := v.ConstructEvent(tc.payload, header)

				// then
				require.Error(t, err)
				assert.True(t, apperror.IsKind(err, apperror.KindMalformedPayload))
			})
		}
	})
}
