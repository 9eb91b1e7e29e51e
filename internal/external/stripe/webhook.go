package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"paymenthub/internal/controller/apperror"
	"paymenthub/internal/domain/webhook"
)

// DefaultTolerance bounds how old a signed timestamp may be before the
// delivery is rejected as a potential replay.
const DefaultTolerance = 5 * time.Minute

const signingVersion = "v1"

// WebhookVerifier reconstructs and authenticates webhook events from raw
// deliveries. The signature covers "<timestamp>.<body>" with HMAC-SHA256
// under the shared endpoint secret.
type WebhookVerifier struct {
	secret    string
	tolerance time.Duration
	now       func() time.Time
}

var _ webhook.Verifier = (*WebhookVerifier)(nil)

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{
		secret:    secret,
		tolerance: DefaultTolerance,
		now:       time.Now,
	}
}

// WithTolerance overrides the replay tolerance window.
func (v *WebhookVerifier) WithTolerance(tolerance time.Duration) *WebhookVerifier {
	v.tolerance = tolerance
	return v
}

// ConstructEvent verifies the signature header against payload and decodes
// the event envelope. Any single-byte change to payload, or a signature made
// with a different secret, fails verification.
func (v *WebhookVerifier) ConstructEvent(payload []byte, sigHeader string) (webhook.Event, error) {
	if sigHeader == "" {
		return webhook.Event{}, apperror.SignatureVerification("missing signature header")
	}

	timestamp, signatures, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return webhook.Event{}, err
	}

	if v.tolerance > 0 {
		age := v.now().Sub(time.Unix(timestamp, 0))
		if age > v.tolerance || age < -v.tolerance {
			return webhook.Event{}, apperror.SignatureVerification("signed timestamp outside tolerance")
		}
	}

	expected := ComputeSignature(v.secret, timestamp, payload)
	if !anySignatureMatches(signatures, expected) {
		return webhook.Event{}, apperror.SignatureVerification("signature mismatch")
	}

	var event webhook.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return webhook.Event{}, apperror.MalformedPayload(fmt.Sprintf("decode event: %v", err))
	}
	if event.ID == "" || event.Type == "" {
		return webhook.Event{}, apperror.MalformedPayload("event missing id or type")
	}

	return event, nil
}

// ComputeSignature returns the hex HMAC-SHA256 of "<timestamp>.<payload>".
func ComputeSignature(secret string, timestamp int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignatureHeaderValue renders a valid signature header for payload, used by
// tests and local tooling.
func SignatureHeaderValue(secret string, timestamp int64, payload []byte) string {
	return fmt.Sprintf("t=%d,%s=%s", timestamp, signingVersion, ComputeSignature(secret, timestamp, payload))
}

func parseSignatureHeader(header string) (int64, []string, error) {
	var timestamp int64 = -1
	var signatures []string

	for _, pair := range strings.Split(header, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			return 0, nil, apperror.SignatureVerification("malformed signature header")
		}

		switch parts[0] {
		case "t":
			ts, err := strconv.ParseInt(parts[1], 10, 64)
			if err != nil {
				return 0, nil, apperror.SignatureVerification("malformed signature timestamp")
			}
			timestamp = ts
		case signingVersion:
			signatures = append(signatures, parts[1])
		}
		// Unknown schemes are ignored; the processor may add new ones.
	}

	if timestamp < 0 || len(signatures) == 0 {
		return 0, nil, apperror.SignatureVerification("signature header missing timestamp or signature")
	}
	return timestamp, signatures, nil
}

func anySignatureMatches(candidates []string, expected string) bool {
	for _, candidate := range candidates {
		if hmac.Equal([]byte(candidate), []byte(expected)) {
			return true
		}
	}
	return false
}
