// Package client is a thin HTTP client for talking to a running daemon,
// used by the CLI subcommands and the MCP server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the daemon's HTTP API on localhost.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the daemon listening on the given port.
func New(port int) *Client {
	return &Client{
		baseURL: fmt.Sprintf("http://127.0.0.1:%d", port),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify posts a notification for fan-out to registered devices.
// paneTarget may be empty when no pane could be resolved.
func (c *Client) Notify(ctx context.Context, title, body, paneTarget string) error {
	payload := map[string]string{"title": title, "body": body}
	if paneTarget != "" {
		payload["pane_target"] = paneTarget
	}
	return c.post(ctx, "/notify", payload, nil)
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("daemon request failed (is reattachd running?): %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return apiError(res)
	}
	if result != nil {
		if err := json.NewDecoder(res.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func apiError(res *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		return fmt.Errorf("daemon returned %d: %s", res.StatusCode, body.Error)
	}
	return fmt.Errorf("daemon returned %d", res.StatusCode)
}
