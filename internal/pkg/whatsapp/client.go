// Package whatsapp posts template messages to the state WhatsApp gateway.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultTimeout = 15 * time.Second

// maxErrorBody caps how much of a failed response is kept in the error.
const maxErrorBody = 512

type Client struct {
	url        string
	department string
	httpClient *http.Client
}

// directSendRequest is the gateway's body; "reciever" is spelled as the gateway expects.
type directSendRequest struct {
	Content    string `json:"content"`
	Department string `json:"department"`
	Receiver   string `json:"reciever"`
}

func NewClient(url, department string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		url:        url,
		department: department,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Send delivers one message. Any non-2xx response is an error; there are no retries.
func (c *Client) Send(ctx context.Context, receiver, content string) error {
	body, err := json.Marshal(directSendRequest{
		Content:    content,
		Department: c.department,
		Receiver:   receiver,
	})
	if err != nil {
		return fmt.Errorf("failed to encode whatsapp request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build whatsapp request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(detail))}
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// APIError is a non-2xx gateway response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("whatsapp gateway returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("whatsapp gateway returned status %d: %s", e.StatusCode, e.Body)
}
