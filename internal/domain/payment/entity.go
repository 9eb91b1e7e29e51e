package payment

import (
	"errors"
	"slices"
)

// Status is the processor-confirmed lifecycle state of a payment intent.
// Transitions only advance; a regression happens solely through an explicit
// processor-reported correction.
type Status string

const (
	StatusRequiresPaymentMethod Status = "requires_payment_method"
	StatusRequiresConfirmation  Status = "requires_confirmation"
	StatusProcessing            Status = "processing"
	StatusSucceeded             Status = "succeeded"
	StatusFailed                Status = "failed"
)

var AvailableStatuses = []Status{
	StatusRequiresPaymentMethod,
	StatusRequiresConfirmation,
	StatusProcessing,
	StatusSucceeded,
	StatusFailed,
}

func (s Status) CanAdvanceTo(next Status) bool {
	switch s {
	case StatusRequiresPaymentMethod:
		return slices.Contains([]Status{StatusRequiresConfirmation, StatusProcessing, StatusSucceeded, StatusFailed}, next)
	case StatusRequiresConfirmation:
		return slices.Contains([]Status{StatusProcessing, StatusSucceeded, StatusFailed}, next)
	case StatusProcessing:
		return slices.Contains([]Status{StatusSucceeded, StatusFailed}, next)
	case StatusSucceeded, StatusFailed:
		return false
	default:
		return false
	}
}

func NewStatus(raw string) (Status, error) {
	if slices.Contains(AvailableStatuses, Status(raw)) {
		return Status(raw), nil
	}
	return "", errors.New("invalid payment status")
}

// Reason tags why a refund was issued.
type Reason string

const (
	ReasonRequestedByCustomer Reason = "requested_by_customer"
	ReasonDuplicate           Reason = "duplicate"
	ReasonFraudulent          Reason = "fraudulent"
)

var AvailableReasons = []Reason{ReasonRequestedByCustomer, ReasonDuplicate, ReasonFraudulent}

func NewReason(raw string) (Reason, error) {
	if raw == "" {
		return ReasonRequestedByCustomer, nil
	}
	if slices.Contains(AvailableReasons, Reason(raw)) {
		return Reason(raw), nil
	}
	return "", errors.New("invalid refund reason")
}

type CreatePaymentRequest struct {
	// Amount in minor currency units, must be positive.
	Amount          int64
	Currency        string
	Description     string
	CustomerEmail   string
	CustomerName    string
	PaymentMethodID string
}

// Payment is the caller-facing view of a payment intent after create/confirm.
type Payment struct {
	PaymentID     string `json:"payment_id"`
	Status        string `json:"status"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	CustomerEmail string `json:"customer_email"`
	ClientSecret  string `json:"client_secret,omitempty"`
}

// Snapshot is the full status view including the customer reference and
// audit metadata.
type Snapshot struct {
	PaymentID  string            `json:"payment_id"`
	Status     string            `json:"status"`
	Amount     int64             `json:"amount"`
	Currency   string            `json:"currency"`
	CustomerID string            `json:"customer"`
	CreatedAt  int64             `json:"created_at"`
	Metadata   map[string]string `json:"metadata"`
}

type RefundRequest struct {
	PaymentID string
	Reason    string
	// Amount in minor units; 0 refunds the full remaining amount.
	Amount int64
}

type Refund struct {
	RefundID  string `json:"refund_id"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	PaymentID string `json:"payment_id"`
}
