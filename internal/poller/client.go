package poller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"gift_registry_echo/internal/services"
)

// APIClient drives the payment-status endpoint over HTTP.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *APIClient) post(ctx context.Context, paymentID, action string, out interface{}) error {
	payload, err := json.Marshal(map[string]string{
		"paymentId": paymentID,
		"action":    action,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/payment-status", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		var failure struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &failure) == nil && failure.Error != "" {
			return fmt.Errorf("payment status request failed: %s", failure.Error)
		}
		return fmt.Errorf("payment status request failed with status %d", resp.StatusCode)
	}

	if out != nil {
		return json.Unmarshal(body, out)
	}
	return nil
}

func (c *APIClient) CheckStatus(ctx context.Context, paymentID string) (*services.StatusResult, error) {
	var result services.StatusResult
	if err := c.post(ctx, paymentID, "check", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *APIClient) Cancel(ctx context.Context, paymentID string) error {
	return c.post(ctx, paymentID, "cancel", nil)
}
