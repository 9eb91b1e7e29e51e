// Package apperror defines the error taxonomy shared by handlers and services.
//
// Every failure surfaced to a caller is tagged with exactly one Kind; the
// processor's own error types never leak past the translation layer.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation            Kind = "validation"
	KindNotFound              Kind = "not_found"
	KindProcessorTransient    Kind = "processor_transient"
	KindProcessorPermanent    Kind = "processor_permanent"
	KindCard                  Kind = "card"
	KindSignatureVerification Kind = "signature_verification"
	KindMalformedPayload      Kind = "malformed_payload"
	KindInternal              Kind = "internal"
)

// ErrEventAlreadyStored reports a webhook event whose identifier was already
// recorded by the dedup store.
var ErrEventAlreadyStored = errors.New("event already stored")

// AppError carries a taxonomy kind, a diagnostic message and, for card
// failures, a separate message safe to show an end user.
type AppError struct {
	Kind        Kind
	Message     string
	UserMessage string
	cause       error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

func Validation(format string, args ...any) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func ProcessorTransient(message string, cause error) *AppError {
	return &AppError{Kind: KindProcessorTransient, Message: message, cause: cause}
}

func ProcessorPermanent(message string, cause error) *AppError {
	return &AppError{Kind: KindProcessorPermanent, Message: message, cause: cause}
}

// Card wraps a card-specific rejection. userMessage is shown to the caller,
// message keeps the processor diagnostics.
func Card(userMessage, message string) *AppError {
	return &AppError{Kind: KindCard, Message: message, UserMessage: userMessage}
}

func SignatureVerification(message string) *AppError {
	return &AppError{Kind: KindSignatureVerification, Message: message}
}

func MalformedPayload(message string) *AppError {
	return &AppError{Kind: KindMalformedPayload, Message: message}
}

func Internal(cause error) *AppError {
	return &AppError{Kind: KindInternal, Message: "unexpected error", cause: cause}
}

// KindOf returns the taxonomy kind of err, or KindInternal if err carries none.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given taxonomy kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error to its HTTP status: 400 for caller or processor
// faults, 404 for unknown identifiers, 500 otherwise.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindProcessorTransient, KindProcessorPermanent,
		KindCard, KindSignatureVerification, KindMalformedPayload:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Detail returns the string to surface to the caller: the card user message
// when present, a generic message for internal defects, the diagnostic
// otherwise.
func Detail(err error) string {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return "An unexpected error occurred"
	}

	switch appErr.Kind {
	case KindCard:
		if appErr.UserMessage != "" {
			return fmt.Sprintf("Card error: %s", appErr.UserMessage)
		}
		return "Card error"
	case KindInternal:
		return "An unexpected error occurred"
	default:
		return appErr.Message
	}
}
