package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/user/dataset-explorer/internal/proxy"
	"github.com/user/dataset-explorer/internal/repository"
)

// maxBodyBytes bounds how much of a catalog response is read into memory.
const maxBodyBytes = 256 << 20

// Client performs bounded GET requests against the catalog.
type Client struct {
	http    *http.Client
	proxies *proxy.Manager
}

// NewClient creates a client whose every request is bounded by timeout.
// proxies may be nil.
func NewClient(timeout time.Duration, proxies *proxy.Manager) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if proxies != nil {
		transport.Proxy = proxies.ProxyFunc
	}
	return &Client{
		http:    &http.Client{Timeout: timeout, Transport: transport},
		proxies: proxies,
	}
}

// Get fetches rawURL and returns the body of a 2xx response. Failures are wrapped
// in repository.ErrTransport or repository.ErrUnexpectedStatus.
func (c *Client) Get(ctx context.Context, rawURL, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrTransport, err)
	}
	req.Header.Set("Accept", accept)
	if c.proxies != nil {
		req.Header.Set("User-Agent", c.proxies.UserAgent())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: received status code %d", repository.ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", repository.ErrTransport, err)
	}
	return body, nil
}

// FetchPage retrieves an HTML page over plain HTTP.
func (c *Client) FetchPage(ctx context.Context, url string) ([]byte, error) {
	return c.Get(ctx, url, "text/html,application/xhtml+xml")
}
