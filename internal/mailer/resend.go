package mailer

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
)

const defaultBaseURL = "https://api.resend.com"

var (
	// ErrNotConfigured indicates the provider API key or sender is missing.
	ErrNotConfigured = errors.New("email provider is not configured")
	// ErrSendRejected indicates the provider refused the send.
	ErrSendRejected = errors.New("email provider rejected the send")
)

// Sender delivers a single transactional email.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	Text    string
}

// Client talks to the Resend HTTP API.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	from    string
}

// NewClient builds a Resend client. A nil http.Client gets a default with a
// conservative timeout.
func NewClient(client *http.Client, apiKey, from string) *Client {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{client: client, baseURL: defaultBaseURL, apiKey: apiKey, from: from}
}

type sendPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}

// Send posts the message to the provider. The plain-text body is mirrored as
// an HTML variant with line breaks converted to break markup.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if c.apiKey == "" || c.from == "" {
		return ErrNotConfigured
	}

	payload := sendPayload{
		From:    c.from,
		To:      msg.To,
		Subject: msg.Subject,
		Text:    msg.Text,
		HTML:    textToHTML(msg.Text),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal send payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendRejected, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: %s", ErrSendRejected, extractProviderError(resp.Body, resp.StatusCode))
	}
	return nil
}

func textToHTML(text string) string {
	return strings.ReplaceAll(text, "\n", "<br />")
}

func extractProviderError(body io.Reader, status int) string {
	fallback := fmt.Sprintf("provider returned status %d", status)

	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return fallback
	}

	var payload struct {
		Message string `json:"message"`
		Name    string `json:"name"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Message != "" {
		if payload.Name != "" {
			return fmt.Sprintf("%s: %s", payload.Name, payload.Message)
		}
		return payload.Message
	}
	return fallback
}

var _ Sender = (*Client)(nil)
