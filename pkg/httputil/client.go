package httputil

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/posterkit/posterkit/pkg/errors"
)

const defaultTimeout = 30 * time.Second

// Client provides shared HTTP functionality for the geocoding and OSM data
// clients: response caching, retry with backoff, and common headers.
// Public OSM services require a descriptive User-Agent, which callers set
// via the headers map.
type Client struct {
	http    *http.Client
	cache   *Cache
	headers map[string]string
}

// NewClient creates a Client with the given cache and default headers.
// Headers are applied to every request. Pass nil for no default headers.
func NewClient(cache *Cache, headers map[string]string) *Client {
	return &Client{
		http:    &http.Client{Timeout: defaultTimeout},
		cache:   cache,
		headers: headers,
	}
}

// Cached retrieves a value from cache or executes fetch and caches the
// result. If refresh is true the cache is bypassed. The fetch function
// should populate v; on success v is stored in the cache. A stale or
// unreadable entry is treated as a miss and refetched, never served.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	if !refresh && c.cache != nil {
		ok, err := c.cache.Get(key, v)
		if ok && err == nil {
			return nil
		}
	}
	if err := RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	if c.cache != nil {
		_ = c.cache.Set(key, v)
	}
	return nil
}

// GetJSON performs an HTTP GET and JSON-decodes the response into v.
func (c *Client) GetJSON(ctx context.Context, rawURL string, v any) error {
	body, err := c.do(ctx, http.MethodGet, rawURL, "", nil)
	if err != nil {
		return err
	}
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}

// PostForm sends form-encoded values and JSON-decodes the response into v.
// Overpass expects its query language payload this way.
func (c *Client) PostForm(ctx context.Context, rawURL string, form url.Values, v any) error {
	body, err := c.do(ctx, http.MethodPost, rawURL, form.Encode(),
		map[string]string{"Content-Type": "application/x-www-form-urlencoded"})
	if err != nil {
		return err
	}
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}

func (c *Client) do(ctx context.Context, method, rawURL, payload string, headers map[string]string) (io.ReadCloser, error) {
	var reqBody io.Reader
	if payload != "" {
		reqBody = strings.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", method, rawURL)}
	}

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusTooManyRequests:
		return &RetryableError{Err: errors.New(errors.ErrCodeNetwork, "rate limited (status 429)")}
	case code >= 500:
		return &RetryableError{Err: errors.New(errors.ErrCodeNetwork, "status %d", code)}
	default:
		return errors.New(errors.ErrCodeNetwork, "unexpected status %d", code)
	}
}
