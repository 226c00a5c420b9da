package coingecko

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Searcher is implemented by *Client and by test fakes.
type Searcher interface {
	Search(ctx context.Context, text string) ([]SearchResult, error)
}

var _ Searcher = (*Client)(nil)

// Client talks to the CoinGecko public HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	// DefaultBaseURL is the public CoinGecko API host.
	DefaultBaseURL = "https://api.coingecko.com"

	searchPath       = "/api/v3/search"
	defaultUserAgent = "coinsearch/0.1"
	requestTimeout   = 10 * time.Second
	maxResponseBytes = 8 << 20
)

// Option customises a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient builds a Client rooted at baseURL; empty uses DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SearchURL returns the request URL used for text. The text is placed
// verbatim in the query parameter; only standard query encoding is applied.
func (c *Client) SearchURL(text string) string {
	return c.searchURL(text).String()
}

// Search issues one GET against /api/v3/search. It does not cache or retry.
//
// A response with status 400 or above is reported as a KindNetwork error and
// its body is not decoded, even when the body is valid JSON. Only a 2xx or 3xx
// body that fails to decode yields KindParsing.
func (c *Client) Search(ctx context.Context, text string) ([]SearchResult, error) {
	if c == nil {
		return nil, networkError("client is nil", nil)
	}
	if c.baseURL == nil {
		return nil, networkError("couldn't create URL", nil)
	}
	reqURL := c.searchURL(text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, networkError("create request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, networkError("execute request", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, networkError(fmt.Sprintf("api %s returned status %d", searchPath, resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, networkError("read response", err)
	}

	payload, err := DecodeSearchResponse(body)
	if err != nil {
		return nil, err
	}
	return payload.Coins, nil
}

func (c *Client) searchURL(text string) *url.URL {
	values := url.Values{}
	values.Set("query", text)
	rel := &url.URL{Path: searchPath, RawQuery: values.Encode()}
	return c.baseURL.ResolveReference(rel)
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, networkError(fmt.Sprintf("parse base url %q", raw), err)
	}
	if u.Host == "" {
		return nil, networkError(fmt.Sprintf("base url %q has no host", raw), nil)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
