package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// HTTPClient implements the webhook.Client interface by posting JSON payloads
// to the destination URL.
type HTTPClient struct {
	http *http.Client
}

func NewHTTPClient() *HTTPClient {
	return &HTTPClient{http: &http.Client{}}
}

type messagePayload struct {
	Message  string `json:"message"`
	TargetID string `json:"target_id,omitempty"`
}

// Send posts the message to url. Any response outside the 2xx range is an
// error; the caller decides whether that aborts anything.
func (c *HTTPClient) Send(ctx context.Context, url, message, targetID string) error {
	payload, err := json.Marshal(messagePayload{Message: message, TargetID: targetID})
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver webhook message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status code %d from webhook", resp.StatusCode)
	}
	return nil
}
