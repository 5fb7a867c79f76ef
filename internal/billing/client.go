package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// Client calls the payment processor's REST API to start checkouts.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// CheckoutInput identifies what is being bought and for whom. The user id is
// carried through the processor as custom data so the webhook can link the
// subscription back to the account.
type CheckoutInput struct {
	PriceID string
	UserID  int64
	Email   string
}

type checkoutRequest struct {
	Items []struct {
		PriceID  string `json:"price_id"`
		Quantity int    `json:"quantity"`
	} `json:"items"`
	CustomerEmail string            `json:"customer_email,omitempty"`
	CustomData    map[string]string `json:"custom_data"`
}

type checkoutResponse struct {
	Data struct {
		Checkout struct {
			URL string `json:"url"`
		} `json:"checkout"`
	} `json:"data"`
}

// CreateCheckout creates a transaction at the processor and returns the
// hosted checkout URL the user should be redirected to.
func (c *Client) CreateCheckout(ctx context.Context, in CheckoutInput) (string, error) {
	if in.PriceID == "" {
		return "", fmt.Errorf("price id is required")
	}

	payload := checkoutRequest{
		CustomerEmail: in.Email,
		CustomData:    map[string]string{"user_id": strconv.FormatInt(in.UserID, 10)},
	}
	payload.Items = append(payload.Items, struct {
		PriceID  string `json:"price_id"`
		Quantity int    `json:"quantity"`
	}{PriceID: in.PriceID, Quantity: 1})

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal checkout request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transactions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("call billing api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("billing api status %d: %s", resp.StatusCode, string(b))
	}

	var out checkoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode checkout response: %w", err)
	}
	if out.Data.Checkout.URL == "" {
		return "", fmt.Errorf("billing api returned no checkout url")
	}

	return out.Data.Checkout.URL, nil
}
