package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"gift_registry_echo/internal/apperrors"
	"gift_registry_echo/internal/config"
)

// Asaas payment statuses relevant to the checkout flow.
const (
	AsaasStatusPending      = "PENDING"
	AsaasStatusConfirmed    = "CONFIRMED"
	AsaasStatusReceived     = "RECEIVED"
	AsaasStatusReceivedCash = "RECEIVED_IN_CASH"
	AsaasStatusOverdue      = "OVERDUE"
	AsaasStatusRefunded     = "REFUNDED"
	AsaasStatusDeleted      = "DELETED"
	AsaasStatusCancelled    = "CANCELLED"
	AsaasStatusAwaitingRisk = "AWAITING_RISK_ANALYSIS"
)

type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CustomerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	MobilePhone string `json:"mobilePhone,omitempty"`
	CpfCnpj     string `json:"cpfCnpj"`
}

type CreditCard struct {
	HolderName  string `json:"holderName"`
	Number      string `json:"number"`
	ExpiryMonth string `json:"expiryMonth"`
	ExpiryYear  string `json:"expiryYear"`
	CCV         string `json:"ccv"`
}

type CreditCardHolderInfo struct {
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	CpfCnpj       string `json:"cpfCnpj"`
	PostalCode    string `json:"postalCode"`
	AddressNumber string `json:"addressNumber"`
	Phone         string `json:"phone,omitempty"`
}

type PaymentRequest struct {
	Customer             string                `json:"customer"`
	BillingType          string                `json:"billingType"`
	Value                float64               `json:"value"`
	DueDate              string                `json:"dueDate"`
	Description          string                `json:"description,omitempty"`
	ExternalReference    string                `json:"externalReference,omitempty"`
	CreditCard           *CreditCard           `json:"creditCard,omitempty"`
	CreditCardHolderInfo *CreditCardHolderInfo `json:"creditCardHolderInfo,omitempty"`
}

type Payment struct {
	ID                string  `json:"id"`
	Status            string  `json:"status"`
	Value             float64 `json:"value"`
	DueDate           string  `json:"dueDate"`
	InvoiceURL        string  `json:"invoiceUrl"`
	PaymentDate       string  `json:"paymentDate"`
	ClientPaymentDate string  `json:"clientPaymentDate"`
	ConfirmedDate     string  `json:"confirmedDate"`
}

type PixQRCode struct {
	EncodedImage   string `json:"encodedImage"`
	Payload        string `json:"payload"`
	ExpirationDate string `json:"expirationDate"`
}

type customerListResponse struct {
	Data []Customer `json:"data"`
}

// Client talks to the Asaas REST API. All calls go through the retrying
// transport; 4xx responses surface as *APIError.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	retry      RetryPolicy
	log        *zap.Logger
}

func NewClient(cfg config.AsaasConfig, log *zap.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		retry:      DefaultRetryPolicy(),
		log:        log,
	}
}

func (c *Client) request(ctx context.Context, method, path string, payload, out interface{}) error {
	if c.apiKey == "" {
		return apperrors.Configuration("payment gateway API key is not configured")
	}

	var body []byte
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return apperrors.Internal("failed to marshal gateway payload", err)
		}
		body = data
	}

	build := func() (*http.Request, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("access_token", c.apiKey)
		return req, nil
	}

	resp, err := DoWithRetry(c.httpClient, build, c.retry)
	if err != nil {
		return apperrors.Transient("payment gateway unreachable", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.Transient("failed to read gateway response", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return apperrors.Internal("failed to decode gateway response", err)
		}
		return nil
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope struct {
			Errors []ErrorItem `json:"errors"`
		}
		if err := json.Unmarshal(respBody, &envelope); err == nil {
			apiErr.Errors = envelope.Errors
		}
		return apiErr
	}

	c.log.Error("gateway server error after retries",
		zap.Int("status", resp.StatusCode),
		zap.String("path", path),
	)
	return apperrors.Transient("payment gateway error", fmt.Errorf("status %d", resp.StatusCode))
}

// FindCustomerByEmail returns the first customer matching the email, or
// nil when none exists.
func (c *Client) FindCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	var list customerListResponse
	path := "/customers?email=" + url.QueryEscape(email)
	if err := c.request(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	if len(list.Data) == 0 {
		return nil, nil
	}
	return &list.Data[0], nil
}

func (c *Client) CreateCustomer(ctx context.Context, req CustomerRequest) (*Customer, error) {
	var customer Customer
	if err := c.request(ctx, http.MethodPost, "/customers", req, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *Client) CreatePayment(ctx context.Context, req PaymentRequest) (*Payment, error) {
	var payment Payment
	if err := c.request(ctx, http.MethodPost, "/payments", req, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (c *Client) GetPixQRCode(ctx context.Context, paymentID string) (*PixQRCode, error) {
	var qr PixQRCode
	path := fmt.Sprintf("/payments/%s/pixQrCode", url.PathEscape(paymentID))
	if err := c.request(ctx, http.MethodGet, path, nil, &qr); err != nil {
		return nil, err
	}
	return &qr, nil
}

func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	var payment Payment
	path := fmt.Sprintf("/payments/%s", url.PathEscape(paymentID))
	if err := c.request(ctx, http.MethodGet, path, nil, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (c *Client) CancelPayment(ctx context.Context, paymentID string) error {
	path := fmt.Sprintf("/payments/%s", url.PathEscape(paymentID))
	return c.request(ctx, http.MethodDelete, path, nil, nil)
}
