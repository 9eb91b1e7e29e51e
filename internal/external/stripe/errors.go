package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"

	"paymenthub/internal/controller/apperror"
)

// apiError is the processor's error envelope. It never leaves this package;
// callers see only taxonomy kinds.
type apiError struct {
	Error struct {
		Type        string `json:"type"`
		Code        string `json:"code"`
		Message     string `json:"message"`
		Param       string `json:"param"`
		DeclineCode string `json:"decline_code"`
	} `json:"error"`
}

// translateTransportError maps network-level failures. Timeouts and
// connection errors are transient: the call may be retried by the caller.
func translateTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperror.ProcessorTransient("processor call timed out", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperror.ProcessorTransient("processor call timed out", err)
	}

	return apperror.ProcessorTransient("processor unreachable", err)
}

// translateAPIError maps a non-2xx processor response to the error taxonomy.
func translateAPIError(statusCode int, body []byte) error {
	var wire apiError
	_ = json.Unmarshal(body, &wire)

	message := wire.Error.Message
	if message == "" {
		message = string(body)
	}
	diag := fmt.Sprintf("processor error (status %d, type %s, code %s): %s",
		statusCode, wire.Error.Type, wire.Error.Code, message)

	switch {
	case wire.Error.Type == "card_error":
		return apperror.Card(message, diag)
	case statusCode == http.StatusNotFound || wire.Error.Code == "resource_missing":
		return apperror.NotFound("%s", message)
	case statusCode == http.StatusTooManyRequests || statusCode >= 500:
		return apperror.ProcessorTransient(diag, nil)
	default:
		return apperror.ProcessorPermanent(diag, nil)
	}
}
