// Package upstream provides the HTTP collaborator the domain services
// use to reach BMKG endpoints.
package upstream

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/couchcryptid/bmkg-data-proxy/internal/domain"
)

// retryMax bounds transport-level retries. Domain services never retry on
// top of this.
const retryMax = 1

// Client fetches raw payloads over HTTP GET. Failures of any kind
// surface as domain.ErrUpstream.
type Client struct {
	httpClient *retryablehttp.Client
	logger     *slog.Logger
}

// NewClient creates a client with a fixed per-request timeout and one
// bounded transport retry.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = retryMax
	rc.HTTPClient.Timeout = timeout
	rc.Logger = nil

	return &Client{httpClient: rc, logger: logger}
}

// Get fetches rawURL with optional query parameters and returns the
// response body. Non-2xx statuses are errors.
func (c *Client) Get(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: parse url %q: %v", domain.ErrUpstream, rawURL, err)
	}
	if len(params) > 0 {
		q := u.Query()
		for key, values := range params {
			for _, value := range values {
				q.Add(key, value)
			}
		}
		u.RawQuery = q.Encode()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", domain.ErrUpstream, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", domain.ErrUpstream, u.String(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: get %s: status %d", domain.ErrUpstream, u.String(), resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", domain.ErrUpstream, err)
	}
	return body, nil
}
