package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/octobees/intake-api/internal/entity"
)

// SecretHeader carries the shared secret on calls in both directions between
// this system and the automation platform.
const SecretHeader = "x-make-apikey"

var (
	// ErrNotConfigured indicates the webhook URL or secret is missing.
	ErrNotConfigured = errors.New("enrichment webhook is not configured")
	// ErrUnavailable indicates the webhook could not be reached or answered
	// with a non-success status.
	ErrUnavailable = errors.New("enrichment webhook unavailable")
)

// Forwarder pushes persisted submissions to the enrichment service.
type Forwarder interface {
	Forward(ctx context.Context, submission *entity.Submission) error
}

// Client posts submissions to the automation platform's webhook URL,
// authenticating with a shared-secret header. One attempt, no retry.
type Client struct {
	client *http.Client
	url    string
	secret string
}

// NewClient builds a webhook client. A nil http.Client gets a default with a
// conservative timeout.
func NewClient(client *http.Client, url, secret string) *Client {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{client: client, url: strings.TrimSpace(url), secret: secret}
}

// Forward sends the persisted submission, including its assigned id, to the
// enrichment webhook.
func (c *Client) Forward(ctx context.Context, submission *entity.Submission) error {
	if c.url == "" || c.secret == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(submission)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SecretHeader, c.secret)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: %s", ErrUnavailable, extractErrorDetail(resp.Body, resp.StatusCode))
	}
	return nil
}

func extractErrorDetail(body io.Reader, status int) string {
	fallback := fmt.Sprintf("webhook returned status %d", status)

	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return fallback
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return fallback
}

var _ Forwarder = (*Client)(nil)
