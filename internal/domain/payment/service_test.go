package payment

import (
	"context"
	"errors"
	"testing"

	"paymenthub/internal/controller/apperror"
	"paymenthub/internal/domain/processor"
	"paymenthub/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func paymentService(t *testing.T) (*Service, *processor.MockClient) {
	t.Helper()

	mockClient := processor.NewMockClient(gomock.NewController(t))
	service := NewService(mockClient, "usd", logger.New("error"))

	return service, mockClient
}

func TestService_CreatePayment(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("should reject non-positive amounts without calling the processor", func(t *testing.T) {
		service, _ := paymentService(t)

		for _, amount := range []int64{0, -1, -500} {
			// when
			_, err := service.CreatePayment(ctx, CreatePaymentRequest{
				Amount:        amount,
				Description:   "order",
				CustomerEmail: "jan@example.com",
				CustomerName:  "Jan",
			})

			// then
			require.Error(t, err)
			assert.True(t, apperror.IsKind(err, apperror.KindValidation))
		}
	})

	t.Run("should create a customer and an intent per payment", func(t *testing.T) {
		service, mockClient := paymentService(t)

		testCases := []struct {
			name     string
			req      CreatePaymentRequest
			mock     func()
			expected Payment
		}{
			{
				name: "should default currency and leave intent unconfirmed",
				req: CreatePaymentRequest{
					Amount:        1000,
					Description:   "Test order",
					CustomerEmail: "jan@example.com",
					CustomerName:  "Jan Kowalski",
				},
				mock: func() {
					mockClient.EXPECT().CreateCustomer(ctx, processor.CreateCustomerRequest{
						Email:       "jan@example.com",
						Name:        "Jan Kowalski",
						Description: "Payment from Jan Kowalski",
					}).Return(processor.Customer{ID: "cus_1"}, nil)

					mockClient.EXPECT().CreatePaymentIntent(ctx, processor.CreateIntentRequest{
						Amount:      1000,
						Currency:    "usd",
						CustomerID:  "cus_1",
						Description: "Test order",
						Confirm:     false,
						Metadata: map[string]string{
							"customer_name":  "Jan Kowalski",
							"customer_email": "jan@example.com",
						},
					}).Return(processor.PaymentIntent{
						ID:           "pi_1",
						Amount:       1000,
						Currency:     "usd",
						Status:       "requires_payment_method",
						ClientSecret: "pi_1_secret",
					}, nil)
				},
				expected: Payment{
					PaymentID:     "pi_1",
					Status:        "requires_payment_method",
					Amount:        1000,
					Currency:      "usd",
					CustomerEmail: "jan@example.com",
					ClientSecret:  "pi_1_secret",
				},
			},
			{
				name: "should lowercase explicit currency and confirm with payment method",
				req: CreatePaymentRequest{
					Amount:          2500,
					Currency:        "EUR",
					Description:     "Invoice 42",
					CustomerEmail:   "anna@example.com",
					CustomerName:    "Anna",
					PaymentMethodID: "pm_1",
				},
				mock: func() {
					mockClient.EXPECT().CreateCustomer(ctx, processor.CreateCustomerRequest{
						Email:       "anna@example.com",
						Name:        "Anna",
						Description: "Payment from Anna",
					}).Return(processor.Customer{ID: "cus_2"}, nil)

					mockClient.EXPECT().CreatePaymentIntent(ctx, processor.CreateIntentRequest{
						Amount:          2500,
						Currency:        "eur",
						CustomerID:      "cus_2",
						Description:     "Invoice 42",
						PaymentMethodID: "pm_1",
						Confirm:         true,
						Metadata: map[string]string{
							"customer_name":  "Anna",
							"customer_email": "anna@example.com",
						},
					}).Return(processor.PaymentIntent{
						ID:       "pi_2",
						Amount:   2500,
						Currency: "eur",
						Status:   "succeeded",
					}, nil)
				},
				expected: Payment{
					PaymentID:     "pi_2",
					Status:        "succeeded",
					Amount:        2500,
					Currency:      "eur",
					CustomerEmail: "anna@example.com",
				},
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				// given
				tc.mock()

				// when
				result, err := service.CreatePayment(ctx, tc.req)

				// then
				require.NoError(t, err)
				assert.Equal(t, tc.expected, result)
			})
		}
	})

	t.Run("should propagate customer creation failure", func(t *testing.T) {
		service, mockClient := paymentService(t)

		// given
		mockClient.EXPECT().CreateCustomer(ctx, gomock.Any()).
			Return(processor.Customer{}, apperror.ProcessorTransient("processor unreachable", errors.New("dial tcp")))

		// when
		_, err := service.CreatePayment(ctx, CreatePaymentRequest{
			Amount:        1000,
			Description:   "order",
			CustomerEmail: "jan@example.com",
			CustomerName:  "Jan",
		})

		// then
		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindProcessorTransient))
	})
}

func TestService_ConfirmPayment(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, mockClient := paymentService(t)

	t.Run("should re-read the intent state from the processor", func(t *testing.T) {
		// given
		mockClient.EXPECT().GetPaymentIntent(ctx, "pi_1").Return(processor.PaymentIntent{
			ID:           "pi_1",
			Amount:       1000,
			Currency:     "usd",
			Status:       "succeeded",
			ClientSecret: "pi_1_secret",
			Metadata:     map[string]string{"customer_email": "jan@example.com"},
		}, nil)

		// when
		result, err := service.ConfirmPayment(ctx, "pi_1")

		// then
		require.NoError(t, err)
		assert.Equal(t, Payment{
			PaymentID:     "pi_1",
			Status:        "succeeded",
			Amount:        1000,
			Currency:      "usd",
			CustomerEmail: "jan@example.com",
			ClientSecret:  "pi_1_secret",
		}, result)
	})

	t.Run("should propagate unknown payment id", func(t *testing.T) {
		// given
		mockClient.EXPECT().GetPaymentIntent(ctx, "pi_missing").
			Return(processor.PaymentIntent{}, apperror.NotFound("No such payment_intent: pi_missing"))

		// when
		_, err := service.ConfirmPayment(ctx, "pi_missing")

		// then
		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	})
}

func TestService_GetPaymentStatus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, mockClient := paymentService(t)

	t.Run("should return the full snapshot with metadata", func(t *testing.T) {
		// given
		metadata := map[string]string{
			"customer_name":  "Jan",
			"customer_email": "jan@example.com",
		}
		mockClient.EXPECT().GetPaymentIntent(ctx, "pi_1").Return(processor.PaymentIntent{
			ID:         "pi_1",
			Amount:     1000,
			Currency:   "usd",
			Status:     "processing",
			CustomerID: "cus_1",
			Created:    1724400000,
			Metadata:   metadata,
		}, nil)

		// when
		result, err := service.GetPaymentStatus(ctx, "pi_1")

		// then
		require.NoError(t, err)
		assert.Equal(t, Snapshot{
			PaymentID:  "pi_1",
			Status:     "processing",
			Amount:     1000,
			Currency:   "usd",
			CustomerID: "cus_1",
			CreatedAt:  1724400000,
			Metadata:   metadata,
		}, result)
	})
}

func TestService_RefundPayment(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	settledIntent := processor.PaymentIntent{
		ID:     "pi_1",
		Amount: 1000,
		Status: "succeeded",
		Charges: []processor.Charge{
			{ID: "ch_1", Amount: 1000, Status: "succeeded"},
		},
	}

	t.Run("should validate before calling the processor", func(t *testing.T) {
		service, _ := paymentService(t)

		testCases := []struct {
			name string
			req  RefundRequest
		}{
			{
				name: "unknown reason",
				req:  RefundRequest{PaymentID: "pi_1", Reason: "buyer_remorse"},
			},
			{
				name: "negative amount",
				req:  RefundRequest{PaymentID: "pi_1", Amount: -100},
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				// when
				_, err := service.RefundPayment(ctx, tc.req)

				// then
				require.Error(t, err)
				assert.True(t, apperror.IsKind(err, apperror.KindValidation))
			})
		}
	})

	t.Run("should refuse to refund an intent without a settled charge", func(t *testing.T) {
		service, mockClient := paymentService(t)

		// given
		mockClient.EXPECT().GetPaymentIntent(ctx, "pi_unpaid").Return(processor.PaymentIntent{
			ID:     "pi_unpaid",
			Amount: 1000,
			Status: "requires_payment_method",
		}, nil)

		// when
		_, err := service.RefundPayment(ctx, RefundRequest{PaymentID: "pi_unpaid"})

		// then
		assert.ErrorIs(t, err, ErrNoChargeToRefund)
	})

	t.Run("should reject a partial amount above the payment amount", func(t *testing.T) {
		service, mockClient := paymentService(t)

		// given
		mockClient.EXPECT().GetPaymentIntent(ctx, "pi_1").Return(settledIntent, nil)

		// when
		_, err := service.RefundPayment(ctx, RefundRequest{PaymentID: "pi_1", Amount: 2000})

		// then
		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	})

	t.Run("should refund the first settled charge", func(t *testing.T) {
		service, mockClient := paymentService(t)

		testCases := []struct {
			name           string
			req            RefundRequest
			expectedRefund processor.CreateRefundRequest
		}{
			{
				name: "full refund with default reason",
				req:  RefundRequest{PaymentID: "pi_1"},
				expectedRefund: processor.CreateRefundRequest{
					ChargeID: "ch_1",
					Reason:   "requested_by_customer",
					Metadata: map[string]string{"original_payment_id": "pi_1"},
				},
			},
			{
				name: "partial refund with explicit reason",
				req:  RefundRequest{PaymentID: "pi_1", Reason: "duplicate", Amount: 400},
				expectedRefund: processor.CreateRefundRequest{
					ChargeID: "ch_1",
					Amount:   400,
					Reason:   "duplicate",
					Metadata: map[string]string{"original_payment_id": "pi_1"},
				},
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				// given
				mockClient.EXPECT().GetPaymentIntent(ctx, "pi_1").Return(settledIntent, nil)
				mockClient.EXPECT().CreateRefund(ctx, tc.expectedRefund).Return(processor.Refund{
					ID:       "re_1",
					Amount:   1000,
					Status:   "succeeded",
					ChargeID: "ch_1",
				}, nil)

				// when
				result, err := service.RefundPayment(ctx, tc.req)

				// then
				require.NoError(t, err)
				assert.Equal(t, Refund{
					RefundID:  "re_1",
					Status:    "succeeded",
					Amount:    1000,
					PaymentID: "pi_1",
				}, result)
			})
		}
	})
}

func TestService_HandleReportedPayment(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("should accept a report matching the live status", func(t *testing.T) {
		service, mockClient := paymentService(t)

		// given
		mockClient.EXPECT().GetPaymentIntent(ctx, "pi_1").
			Return(processor.PaymentIntent{ID: "pi_1", Status: "succeeded"}, nil)

		// when
		err := service.HandlePaymentSucceeded(ctx, processor.PaymentIntent{
			ID:     "pi_1",
			Status: "succeeded",
			Amount: 1000,
		})

		// then
		require.NoError(t, err)
	})

	t.Run("should tolerate a stale report whose status cannot reach the live one", func(t *testing.T) {
		service, mockClient := paymentService(t)

		// given: a failure delivery arriving after the intent already settled
		mockClient.EXPECT().GetPaymentIntent(ctx, "pi_1").
			Return(processor.PaymentIntent{ID: "pi_1", Status: "succeeded"}, nil)

		// when
		err := service.HandlePaymentFailed(ctx, processor.PaymentIntent{
			ID:     "pi_1",
			Status: "failed",
			Amount: 1000,
		})

		// then: logged as stale, never surfaced to the delivery caller
		require.NoError(t, err)
	})

	t.Run("should skip the re-read for an unknown reported status", func(t *testing.T) {
		service, _ := paymentService(t)

		// when: no GetPaymentIntent expectation is registered
		err := service.HandlePaymentSucceeded(ctx, processor.PaymentIntent{
			ID:     "pi_1",
			Status: "canceled",
		})

		// then
		require.NoError(t, err)
	})

	t.Run("should not fail fulfillment when the re-read errors", func(t *testing.T) {
		service, mockClient := paymentService(t)

		// given
		mockClient.EXPECT().GetPaymentIntent(ctx, "pi_1").
			Return(processor.PaymentIntent{}, errors.New("processor unavailable"))

		// when
		err := service.HandlePaymentSucceeded(ctx, processor.PaymentIntent{
			ID:     "pi_1",
			Status: "succeeded",
		})

		// then
		require.NoError(t, err)
	})
}
