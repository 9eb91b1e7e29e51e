package customer

import "paymenthub/internal/domain/processor"

type CreateCustomerRequest struct {
	Email       string
	Name        string
	Description string
}

type Customer struct {
	CustomerID string `json:"customer_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
}

// AddPaymentMethodRequest carries raw card data in transit to the processor.
// The core forwards it and never retains or logs the number or CVC.
type AddPaymentMethodRequest struct {
	CustomerID   string
	CardNumber   string
	ExpMonth     int
	ExpYear      int
	CVC          string
	BillingName  string
	BillingEmail string
}

// PaymentMethod is the non-sensitive summary of a stored card.
type PaymentMethod struct {
	PaymentMethodID string                    `json:"payment_method_id"`
	Type            string                    `json:"type"`
	Card            processor.CardSummary     `json:"card"`
	BillingDetails  *processor.BillingDetails `json:"billing_details,omitempty"`
}
