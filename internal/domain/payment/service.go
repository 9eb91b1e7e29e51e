package payment

import (
	"context"
	"fmt"
	"strings"

	"paymenthub/internal/controller/apperror"
	"paymenthub/internal/domain/processor"
	"paymenthub/pkg/logger"
)

// ErrNoChargeToRefund reports a refund attempt against a payment intent that
// has no settled charge; no processor call is made in that case.
var ErrNoChargeToRefund = apperror.Validation("no settled charge to refund")

const (
	metaCustomerName  = "customer_name"
	metaCustomerEmail = "customer_email"
)

// Service orchestrates the payment-intent lifecycle. It holds no payment
// state of its own: the processor is the system of record.
type Service struct {
	client          processor.Client
	defaultCurrency string
	logger          logger.Interface
}

func NewService(client processor.Client, defaultCurrency string, l logger.Interface) *Service {
	return &Service{
		client:          client,
		defaultCurrency: strings.ToLower(defaultCurrency),
		logger:          l,
	}
}

// CreatePayment mints a customer record for the given contact and creates a
// payment intent attached to it. Supplying a payment method requests
// immediate confirmation; otherwise the returned client secret authorizes
// client-side confirmation.
func (s *Service) CreatePayment(ctx context.Context, req CreatePaymentRequest) (Payment, error) {
	if req.Amount <= 0 {
		return Payment{}, apperror.Validation("amount must be a positive integer in minor units, got %d", req.Amount)
	}

	currency := strings.ToLower(req.Currency)
	if currency == "" {
		currency = s.defaultCurrency
	}

	customer, err := s.client.CreateCustomer(ctx, processor.CreateCustomerRequest{
		Email:       req.CustomerEmail,
		Name:        req.CustomerName,
		Description: fmt.Sprintf("Payment from %s", req.CustomerName),
	})
	if err != nil {
		return Payment{}, fmt.Errorf("create customer: %w", err)
	}

	intent, err := s.client.CreatePaymentIntent(ctx, processor.CreateIntentRequest{
		Amount:          req.Amount,
		Currency:        currency,
		CustomerID:      customer.ID,
		Description:     req.Description,
		PaymentMethodID: req.PaymentMethodID,
		Confirm:         req.PaymentMethodID != "",
		Metadata: map[string]string{
			metaCustomerName:  req.CustomerName,
			metaCustomerEmail: req.CustomerEmail,
		},
	})
	if err != nil {
		return Payment{}, fmt.Errorf("create payment intent: %w", err)
	}

	s.logger.Info("Payment intent created: payment_id=%s amount=%d currency=%s status=%s",
		intent.ID, intent.Amount, intent.Currency, intent.Status)

	return Payment{
		PaymentID:     intent.ID,
		Status:        intent.Status,
		Amount:        intent.Amount,
		Currency:      intent.Currency,
		CustomerEmail: req.CustomerEmail,
		ClientSecret:  intent.ClientSecret,
	}, nil
}

// ConfirmPayment re-reads the intent's current state from the processor. The
// confirmation itself happens client-side with the client secret beforehand.
func (s *Service) ConfirmPayment(ctx context.Context, paymentID string) (Payment, error) {
	intent, err := s.client.GetPaymentIntent(ctx, paymentID)
	if err != nil {
		return Payment{}, fmt.Errorf("retrieve payment intent: %w", err)
	}

	return Payment{
		PaymentID:     intent.ID,
		Status:        intent.Status,
		Amount:        intent.Amount,
		Currency:      intent.Currency,
		CustomerEmail: intent.Metadata[metaCustomerEmail],
		ClientSecret:  intent.ClientSecret,
	}, nil
}

// GetPaymentStatus returns the intent snapshot including the customer
// reference and audit metadata.
func (s *Service) GetPaymentStatus(ctx context.Context, paymentID string) (Snapshot, error) {
	intent, err := s.client.GetPaymentIntent(ctx, paymentID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("retrieve payment intent: %w", err)
	}

	return Snapshot{
		PaymentID:  intent.ID,
		Status:     intent.Status,
		Amount:     intent.Amount,
		Currency:   intent.Currency,
		CustomerID: intent.CustomerID,
		CreatedAt:  intent.Created,
		Metadata:   intent.Metadata,
	}, nil
}

// HandlePaymentSucceeded records a settled payment reported by the processor.
// TODO: hook vendor fulfillment once the fulfillment service exists.
func (s *Service) HandlePaymentSucceeded(ctx context.Context, intent processor.PaymentIntent) error {
	s.checkReportedTransition(ctx, intent)
	s.logger.Info("Payment succeeded: payment_id=%s amount=%d currency=%s customer=%s",
		intent.ID, intent.Amount, intent.Currency, intent.CustomerID)
	return nil
}

// HandlePaymentFailed records a failed payment reported by the processor.
func (s *Service) HandlePaymentFailed(ctx context.Context, intent processor.PaymentIntent) error {
	s.checkReportedTransition(ctx, intent)
	s.logger.Warn("Payment failed: payment_id=%s amount=%d currency=%s customer=%s",
		intent.ID, intent.Amount, intent.Currency, intent.CustomerID)
	return nil
}

// checkReportedTransition compares the webhook-reported status with the
// intent's live status. Deliveries can arrive out of order; a report whose
// status cannot advance to the live one is stale and only gets logged. The
// check is best effort: a failed re-read never blocks fulfillment.
func (s *Service) checkReportedTransition(ctx context.Context, reported processor.PaymentIntent) {
	reportedStatus, err := NewStatus(reported.Status)
	if err != nil {
		s.logger.Warn("Webhook reported unknown payment status: payment_id=%s status=%s",
			reported.ID, reported.Status)
		return
	}

	live, err := s.client.GetPaymentIntent(ctx, reported.ID)
	if err != nil {
		s.logger.Warn("Could not re-read payment intent for status check: payment_id=%s error=%v",
			reported.ID, err)
		return
	}

	liveStatus, err := NewStatus(live.Status)
	if err != nil {
		s.logger.Warn("Processor returned unknown payment status: payment_id=%s status=%s",
			reported.ID, live.Status)
		return
	}

	if liveStatus != reportedStatus && !reportedStatus.CanAdvanceTo(liveStatus) {
		s.logger.Warn("Stale webhook delivery: payment_id=%s reported_status=%s live_status=%s",
			reported.ID, reportedStatus, liveStatus)
	}
}

// RefundPayment refunds the intent's first settled charge. Without a charge
// there is nothing to refund and the processor is not called.
func (s *Service) RefundPayment(ctx context.Context, req RefundRequest) (Refund, error) {
	reason, err := NewReason(req.Reason)
	if err != nil {
		return Refund{}, apperror.Validation("invalid refund reason: %s", req.Reason)
	}
	if req.Amount < 0 {
		return Refund{}, apperror.Validation("refund amount must be positive, got %d", req.Amount)
	}

	intent, err := s.client.GetPaymentIntent(ctx, req.PaymentID)
	if err != nil {
		return Refund{}, fmt.Errorf("retrieve payment intent: %w", err)
	}

	if len(intent.Charges) == 0 {
		return Refund{}, ErrNoChargeToRefund
	}
	if req.Amount > intent.Amount {
		return Refund{}, apperror.Validation("refund amount %d exceeds payment amount %d", req.Amount, intent.Amount)
	}

	refund, err := s.client.CreateRefund(ctx, processor.CreateRefundRequest{
		ChargeID: intent.Charges[0].ID,
		Amount:   req.Amount,
		Reason:   string(reason),
		Metadata: map[string]string{"original_payment_id": req.PaymentID},
	})
	if err != nil {
		return Refund{}, fmt.Errorf("create refund: %w", err)
	}

	s.logger.Info("Refund created: refund_id=%s payment_id=%s amount=%d reason=%s",
		refund.ID, req.PaymentID, refund.Amount, reason)

	return Refund{
		RefundID:  refund.ID,
		Status:    refund.Status,
		Amount:    refund.Amount,
		PaymentID: req.PaymentID,
	}, nil
}
