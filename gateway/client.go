// Package gateway is the REST client for the remote asset store of record.
// The core never talks HTTP anywhere else.
package gateway

import (
	"fmt"
	"io"
	"net/http"
	"time"

	internal_errors "github.com/monumenta/mediasync/shared/errors"
)

// Client handles all communication with the remote asset gateway.
type Client struct {
	BaseURL    string
	HttpClient *http.Client
}

// New creates a gateway client. Every call, body transfer included, runs
// under the given timeout so a dead gateway surfaces as a per-item error
// instead of an asset stuck in uploading forever.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    baseURL,
		HttpClient: &http.Client{Timeout: timeout},
	}
}

// do is the single, unified helper for making gateway requests.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway unavailable: %w", err)
	}
	return resp, nil
}

// errorFromResponse drains a non-2xx body into a typed error carrying the
// HTTP status.
func errorFromResponse(action string, resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	message := fmt.Sprintf("failed to %s: gateway returned %d", action, resp.StatusCode)
	if len(bodyBytes) > 0 {
		message = fmt.Sprintf("failed to %s: %s", action, string(bodyBytes))
	}
	return &internal_errors.ErrorWithStatusCode{Message: message, StatusCode: resp.StatusCode}
}

func is2xx(code int) bool {
	return code >= 200 && code < 300
}
