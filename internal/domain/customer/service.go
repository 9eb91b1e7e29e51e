package customer

import (
	"context"
	"fmt"

	"paymenthub/internal/domain/processor"
	"paymenthub/pkg/logger"
)

// Service manages customer records and their attached payment methods. Every
// create call mints a new processor-side customer; there is no lookup by
// email.
type Service struct {
	client processor.Client
	logger logger.Interface
}

func NewService(client processor.Client, l logger.Interface) *Service {
	return &Service{client: client, logger: l}
}

func (s *Service) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (Customer, error) {
	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Customer: %s", req.Name)
	}

	created, err := s.client.CreateCustomer(ctx, processor.CreateCustomerRequest{
		Email:       req.Email,
		Name:        req.Name,
		Description: description,
	})
	if err != nil {
		return Customer{}, fmt.Errorf("create customer: %w", err)
	}

	s.logger.Info("Customer created: customer_id=%s", created.ID)

	return Customer{
		CustomerID: created.ID,
		Email:      created.Email,
		Name:       created.Name,
	}, nil
}

// AddPaymentMethod creates a card payment method at the processor, attaches
// it to the customer and returns only the non-sensitive summary.
func (s *Service) AddPaymentMethod(ctx context.Context, req AddPaymentMethodRequest) (PaymentMethod, error) {
	created, err := s.client.CreatePaymentMethod(ctx, processor.CreatePaymentMethodRequest{
		Card: processor.CardInput{
			Number:   req.CardNumber,
			ExpMonth: req.ExpMonth,
			ExpYear:  req.ExpYear,
			CVC:      req.CVC,
		},
		Billing: processor.BillingDetails{
			Name:  req.BillingName,
			Email: req.BillingEmail,
		},
	})
	if err != nil {
		return PaymentMethod{}, fmt.Errorf("create payment method: %w", err)
	}

	attached, err := s.client.AttachPaymentMethod(ctx, created.ID, req.CustomerID)
	if err != nil {
		return PaymentMethod{}, fmt.Errorf("attach payment method: %w", err)
	}

	s.logger.Info("Payment method attached: payment_method_id=%s customer_id=%s brand=%s last4=%s",
		attached.ID, req.CustomerID, attached.Card.Brand, attached.Card.Last4)

	billing := attached.Billing
	return PaymentMethod{
		PaymentMethodID: attached.ID,
		Type:            attached.Type,
		Card:            attached.Card,
		BillingDetails:  &billing,
	}, nil
}

// ListPaymentMethods returns the customer's card payment methods in
// processor order. No attached methods is an empty list, not an error.
func (s *Service) ListPaymentMethods(ctx context.Context, customerID string) ([]PaymentMethod, error) {
	methods, err := s.client.ListPaymentMethods(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}

	summaries := make([]PaymentMethod, 0, len(methods))
	for _, m := range methods {
		summaries = append(summaries, PaymentMethod{
			PaymentMethodID: m.ID,
			Type:            m.Type,
			Card:            m.Card,
		})
	}
	return summaries, nil
}
