// Package processor defines the narrow port over the external payment
// processor. The orchestration services depend on this interface only; the
// HTTP implementation lives in internal/external/stripe.
package processor

import "context"

//go:generate mockgen -source port.go -destination mock_client.go -package processor

// Client is the boundary to the external processor. All amounts are positive
// integers in minor currency units.
type Client interface {
	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (Customer, error)
	GetCustomer(ctx context.Context, id string) (Customer, error)

	CreatePaymentIntent(ctx context.Context, req CreateIntentRequest) (PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, id string) (PaymentIntent, error)
	ConfirmPaymentIntent(ctx context.Context, id string) (PaymentIntent, error)

	CreateRefund(ctx context.Context, req CreateRefundRequest) (Refund, error)

	CreatePaymentMethod(ctx context.Context, req CreatePaymentMethodRequest) (PaymentMethod, error)
	AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string) (PaymentMethod, error)
	ListPaymentMethods(ctx context.Context, customerID string) ([]PaymentMethod, error)
}

type CreateCustomerRequest struct {
	Email       string
	Name        string
	Description string
}

type Customer struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateIntentRequest struct {
	Amount          int64
	Currency        string
	CustomerID      string
	Description     string
	PaymentMethodID string
	// Confirm requests immediate confirmation with the supplied payment method.
	Confirm  bool
	Metadata map[string]string
}

type PaymentIntent struct {
	ID              string            `json:"id"`
	Amount          int64             `json:"amount"`
	Currency        string            `json:"currency"`
	Status          string            `json:"status"`
	CustomerID      string            `json:"customer"`
	PaymentMethodID string            `json:"payment_method"`
	ClientSecret    string            `json:"client_secret"`
	Description     string            `json:"description"`
	Metadata        map[string]string `json:"metadata"`
	Charges         []Charge          `json:"-"`
	Created         int64             `json:"created"`
}

// Charge is a settlement record tied to a payment intent. A refund requires
// at least one.
type Charge struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
	Status string `json:"status"`
}

type CreateRefundRequest struct {
	ChargeID string
	// Amount of 0 refunds the charge's remaining amount.
	Amount   int64
	Reason   string
	Metadata map[string]string
}

type Refund struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Status   string `json:"status"`
	ChargeID string `json:"charge"`
}

// CardInput carries raw card data on its way to the processor. It is never
// persisted or logged.
type CardInput struct {
	Number   string
	ExpMonth int
	ExpYear  int
	CVC      string
}

type BillingDetails struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type CreatePaymentMethodRequest struct {
	Card    CardInput
	Billing BillingDetails
}

// CardSummary is the non-sensitive view of a stored card.
type CardSummary struct {
	Brand    string `json:"brand"`
	Last4    string `json:"last4"`
	ExpMonth int    `json:"exp_month"`
	ExpYear  int    `json:"exp_year"`
}

type PaymentMethod struct {
	ID      string         `json:"id"`
	Type    string         `json:"type"`
	Card    CardSummary    `json:"card"`
	Billing BillingDetails `json:"billing_details"`
}
