// Package stripe implements the processor port against the Stripe-compatible
// REST API: form-encoded requests, JSON responses, bearer authentication.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"paymenthub/internal/domain/processor"
	"paymenthub/pkg/metrics"

	"github.com/google/go-querystring/query"
)

type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

var _ processor.Client = (*Client)(nil)

func New(baseURL, secretKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		http:      httpClient,
	}
}

type createCustomerForm struct {
	Email       string `url:"email"`
	Name        string `url:"name"`
	Description string `url:"description,omitempty"`
}

func (c *Client) CreateCustomer(ctx context.Context, req processor.CreateCustomerRequest) (processor.Customer, error) {
	form, err := query.Values(createCustomerForm{
		Email:       req.Email,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return processor.Customer{}, fmt.Errorf("encode customer form: %w", err)
	}

	var out processor.Customer
	if err := c.do(ctx, "create_customer", http.MethodPost, "/v1/customers", form, &out); err != nil {
		return processor.Customer{}, err
	}
	return out, nil
}

func (c *Client) GetCustomer(ctx context.Context, id string) (processor.Customer, error) {
	var out processor.Customer
	if err := c.do(ctx, "get_customer", http.MethodGet, "/v1/customers/"+url.PathEscape(id), nil, &out); err != nil {
		return processor.Customer{}, err
	}
	return out, nil
}

type createIntentForm struct {
	Amount        int64  `url:"amount"`
	Currency      string `url:"currency"`
	Customer      string `url:"customer,omitempty"`
	Description   string `url:"description,omitempty"`
	PaymentMethod string `url:"payment_method,omitempty"`
	Confirm       bool   `url:"confirm"`
	ExpandCharges string `url:"expand[],omitempty"`
}

// intentWire mirrors the processor's payment-intent resource including the
// embedded charge list.
type intentWire struct {
	processor.PaymentIntent
	ChargeList struct {
		Data []processor.Charge `json:"data"`
	} `json:"charges"`
}

func (w intentWire) toIntent() processor.PaymentIntent {
	intent := w.PaymentIntent
	intent.Charges = w.ChargeList.Data
	return intent
}

func (c *Client) CreatePaymentIntent(ctx context.Context, req processor.CreateIntentRequest) (processor.PaymentIntent, error) {
	form, err := query.Values(createIntentForm{
		Amount:        req.Amount,
		Currency:      req.Currency,
		Customer:      req.CustomerID,
		Description:   req.Description,
		PaymentMethod: req.PaymentMethodID,
		Confirm:       req.Confirm,
		ExpandCharges: "charges",
	})
	if err != nil {
		return processor.PaymentIntent{}, fmt.Errorf("encode intent form: %w", err)
	}
	addMetadata(form, req.Metadata)

	var out intentWire
	if err := c.do(ctx, "create_payment_intent", http.MethodPost, "/v1/payment_intents", form, &out); err != nil {
		return processor.PaymentIntent{}, err
	}
	return out.toIntent(), nil
}

func (c *Client) GetPaymentIntent(ctx context.Context, id string) (processor.PaymentIntent, error) {
	form := url.Values{"expand[]": []string{"charges"}}

	var out intentWire
	if err := c.do(ctx, "get_payment_intent", http.MethodGet, "/v1/payment_intents/"+url.PathEscape(id), form, &out); err != nil {
		return processor.PaymentIntent{}, err
	}
	return out.toIntent(), nil
}

func (c *Client) ConfirmPaymentIntent(ctx context.Context, id string) (processor.PaymentIntent, error) {
	var out intentWire
	if err := c.do(ctx, "confirm_payment_intent", http.MethodPost, "/v1/payment_intents/"+url.PathEscape(id)+"/confirm", url.Values{}, &out); err != nil {
		return processor.PaymentIntent{}, err
	}
	return out.toIntent(), nil
}

type createRefundForm struct {
	Charge string `url:"charge"`
	Amount int64  `url:"amount,omitempty"`
	Reason string `url:"reason,omitempty"`
}

func (c *Client) CreateRefund(ctx context.Context, req processor.CreateRefundRequest) (processor.Refund, error) {
	form, err := query.Values(createRefundForm{
		Charge: req.ChargeID,
		Amount: req.Amount,
		Reason: req.Reason,
	})
	if err != nil {
		return processor.Refund{}, fmt.Errorf("encode refund form: %w", err)
	}
	addMetadata(form, req.Metadata)

	var out processor.Refund
	if err := c.do(ctx, "create_refund", http.MethodPost, "/v1/refunds", form, &out); err != nil {
		return processor.Refund{}, err
	}
	return out, nil
}

type createPaymentMethodForm struct {
	Type         string `url:"type"`
	CardNumber   string `url:"card[number]"`
	CardExpMonth int    `url:"card[exp_month]"`
	CardExpYear  int    `url:"card[exp_year]"`
	CardCVC      string `url:"card[cvc]"`
	BillingName  string `url:"billing_details[name],omitempty"`
	BillingEmail string `url:"billing_details[email],omitempty"`
}

func (c *Client) CreatePaymentMethod(ctx context.Context, req processor.CreatePaymentMethodRequest) (processor.PaymentMethod, error) {
	form, err := query.Values(createPaymentMethodForm{
		Type:         "card",
		CardNumber:   req.Card.Number,
		CardExpMonth: req.Card.ExpMonth,
		CardExpYear:  req.Card.ExpYear,
		CardCVC:      req.Card.CVC,
		BillingName:  req.Billing.Name,
		BillingEmail: req.Billing.Email,
	})
	if err != nil {
		return processor.PaymentMethod{}, fmt.Errorf("encode payment method form: %w", err)
	}

	var out processor.PaymentMethod
	if err := c.do(ctx, "create_payment_method", http.MethodPost, "/v1/payment_methods", form, &out); err != nil {
		return processor.PaymentMethod{}, err
	}
	return out, nil
}

func (c *Client) AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string) (processor.PaymentMethod, error) {
	form := url.Values{"customer": []string{customerID}}

	var out processor.PaymentMethod
	path := "/v1/payment_methods/" + url.PathEscape(paymentMethodID) + "/attach"
	if err := c.do(ctx, "attach_payment_method", http.MethodPost, path, form, &out); err != nil {
		return processor.PaymentMethod{}, err
	}
	return out, nil
}

type listPaymentMethodsForm struct {
	Customer string `url:"customer"`
	Type     string `url:"type"`
}

func (c *Client) ListPaymentMethods(ctx context.Context, customerID string) ([]processor.PaymentMethod, error) {
	form, err := query.Values(listPaymentMethodsForm{
		Customer: customerID,
		Type:     "card",
	})
	if err != nil {
		return nil, fmt.Errorf("encode list form: %w", err)
	}

	var out struct {
		Data []processor.PaymentMethod `json:"data"`
	}
	if err := c.do(ctx, "list_payment_methods", http.MethodGet, "/v1/payment_methods", form, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func addMetadata(form url.Values, metadata map[string]string) {
	for k, v := range metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}
}

// do sends one processor API request. Form values travel in the body for
// POSTs and in the query string for GETs.
func (c *Client) do(ctx context.Context, operation, method, path string, form url.Values, out any) error {
	start := time.Now()

	err := c.send(ctx, method, path, form, out)

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.ProcessorRequestDuration.WithLabelValues(operation, outcome).Observe(time.Since(start).Seconds())

	return err
}

func (c *Client) send(ctx context.Context, method, path string, form url.Values, out any) error {
	endpoint := c.baseURL + path

	var body io.Reader
	if method == http.MethodGet {
		if len(form) > 0 {
			endpoint += "?" + form.Encode()
		}
	} else if form != nil {
		body = strings.NewReader(form.Encode())
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return translateTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return translateTransportError(err)
	}

	if resp.StatusCode/100 != 2 {
		return translateAPIError(resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
