// Package docstore uploads technician documents to an S3-compatible object
// store over its HTTP gateway and derives the object paths under which they
// are kept.
package docstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/flightdeck/aeromatch/internal/config"
)

// ObjectPath builds the storage key for an uploaded document:
// {user_id}/{doc_type}/{unix_ts}-{sanitized_filename}. The timestamp prefix
// keeps repeated uploads of the same filename from clobbering each other.
func ObjectPath(userID int64, docType, filename string, now time.Time) string {
	return fmt.Sprintf("%d/%s/%d-%s", userID, docType, now.Unix(), sanitizeFilename(filename))
}

// sanitizeFilename keeps letters, digits, dots, underscores and hyphens and
// replaces everything else with an underscore. Empty or fully-stripped names
// become "file".
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "file"
	}
	return out
}

// Client talks to the object store gateway.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
	logger  *slog.Logger
}

func NewClient(cfg config.StorageConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		httpc:   &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// Upload streams the document body to the store under path and returns the
// path it was stored at.
func (c *Client) Upload(ctx context.Context, path, contentType string, body io.Reader) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("document storage is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/"+path, body)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("storage status %d: %s", resp.StatusCode, string(b))
	}

	return path, nil
}
