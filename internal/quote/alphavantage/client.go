package alphavantage

import (
	"context"
	"net/http"
	"time"
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=alphavantage_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

const (
	defaultBaseURL     = "https://www.alphavantage.co/query"
	defaultMaxAttempts = 3
	defaultBackoff     = 500 * time.Millisecond
)

// Client fetches daily time series from the Alpha Vantage API.
type Client struct {
	// baseURL is the query endpoint for the API.
	baseURL string
	// apiKey authenticates requests. An empty key is not a construction
	// error; every fetch then fails with NO_API_KEY without a network call.
	apiKey string
	// httpClient performs the requests.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
	// maxAttempts bounds the retry loop, first try included.
	maxAttempts int
	// backoff is the base delay; attempt n waits n*backoff before retrying.
	backoff time.Duration
	// sleep waits between attempts. Injected so tests run without delay.
	sleep func(ctx context.Context, d time.Duration) error
}

// ClientOption is a configuration option for the Alpha Vantage client.
type ClientOption func(*Client)

// WithBaseURL sets the query endpoint for the API.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) ClientOption {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// WithMaxAttempts sets the total attempt budget for transient failures.
func WithMaxAttempts(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithBackoff sets the base retry delay.
func WithBackoff(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.backoff = d
		}
	}
}

// WithSleep replaces the delay function used between attempts.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) ClientOption {
	return func(c *Client) {
		c.sleep = sleep
	}
}

// NewClient creates a new Alpha Vantage client.
func NewClient(apiKey string, options ...ClientOption) (*Client, error) {
	var client = &Client{
		baseURL:     defaultBaseURL,
		apiKey:      apiKey,
		httpClient:  http.DefaultClient,
		header:      http.Header{},
		maxAttempts: defaultMaxAttempts,
		backoff:     defaultBackoff,
		sleep:       sleepCtx,
	}
	for _, option := range options {
		option(client)
	}
	return client, nil
}

// Name implements quote.Source.
func (c *Client) Name() string { return "AlphaVantage" }

// sleepCtx waits for d or until ctx is canceled, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
