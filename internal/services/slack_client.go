package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"workflow-platform/internal/engine"
)

// SlackClient posts messages to Slack incoming webhooks.
type SlackClient struct {
	http *http.Client
}

var _ engine.MessagePoster = (*SlackClient)(nil)

// NewSlackClient creates a SlackClient whose calls are bounded by timeout.
func NewSlackClient(timeout time.Duration) *SlackClient {
	return &SlackClient{http: &http.Client{Timeout: timeout}}
}

// NewSlackClientWithHTTPClient creates a SlackClient using the given client.
func NewSlackClientWithHTTPClient(client *http.Client) *SlackClient {
	return &SlackClient{http: client}
}

// PostMessage delivers {"text": text} to webhookURL. Any 2xx response is
// a success; the body is not interpreted.
func (c *SlackClient) PostMessage(ctx context.Context, webhookURL, text string) error {
	requestBody, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(requestBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()
	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook responded with status code %d", resp.StatusCode)
	}
	return nil
}
