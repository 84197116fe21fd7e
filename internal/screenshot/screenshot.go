// Package screenshot captures a page image through an external rendering
// service.
package screenshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to a capture endpoint that renders a URL to a PNG.
type Client struct {
	endpoint string
	http     *http.Client
}

// New returns a client for the given capture endpoint. An empty endpoint
// yields a disabled client whose Capture always errors.
func New(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled reports whether a capture endpoint is configured.
func (c *Client) Enabled() bool { return c.endpoint != "" }

// Capture renders the page at url and returns PNG bytes.
func (c *Client) Capture(ctx context.Context, url string) ([]byte, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("screenshot: no capture endpoint configured")
	}

	body, err := json.Marshal(map[string]string{"url": url, "format": "png"})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("screenshot: capture request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("screenshot: capture endpoint returned %d: %s", resp.StatusCode, msg)
	}
	return io.ReadAll(resp.Body)
}
