// Package mailer sends transactional email through an HTTP email API.
// Without an API key the client is disabled: sends are logged and dropped,
// which keeps local development and tests working offline.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/flightdeck/aeromatch/internal/config"
)

type Client struct {
	baseURL string
	apiKey  string
	from    string
	httpc   *http.Client
	logger  *slog.Logger
}

func NewClient(cfg config.MailerConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: cfg.APIBaseURL,
		apiKey:  cfg.APIKey,
		from:    cfg.From,
		httpc:   &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

// Enabled reports whether the client will actually deliver mail.
func (c *Client) Enabled() bool {
	return c.apiKey != "" && c.baseURL != ""
}

type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// Send delivers one message. A disabled client logs the message and returns
// nil so callers never have to branch on configuration.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("message has no recipient")
	}

	if !c.Enabled() {
		c.logger.Info("mailer disabled, dropping message", "to", msg.To, "subject", msg.Subject)
		return nil
	}

	body, err := json.Marshal(sendRequest{
		From:    c.from,
		To:      msg.To,
		Subject: msg.Subject,
		Text:    msg.Text,
	})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("email api status %d: %s", resp.StatusCode, string(b))
	}

	return nil
}
