package gdn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/xereo/gdn-go/pkg/cache"
	"github.com/xereo/gdn-go/pkg/httputil"
	"github.com/xereo/gdn-go/pkg/observability"
)

// DefaultEndpoint is the public GDN API host.
const DefaultEndpoint = "gdn.api.xereo.net"

const (
	httpTimeout       = 10 * time.Second
	defaultRetryCount = 3
	defaultRetryDelay = time.Second
)

// Sentinel errors for execution failures. These surface when a query runs,
// not while it is being configured.
var (
	// ErrTransport is returned for HTTP failures (timeouts, connection errors,
	// non-2xx responses).
	ErrTransport = errors.New("transport error")

	// ErrDecode is returned when a response body is not valid JSON or lacks
	// the expected envelope structure.
	ErrDecode = errors.New("decode error")
)

// Client provides the shared HTTP machinery behind queries: default headers,
// retries with backoff, status classification, and an optional response cache.
// A single Client can back many independent Query instances.
type Client struct {
	http     *http.Client
	cache    cache.Cache
	cacheTTL time.Duration
	headers  map[string]string
	endpoint string
	logger   *log.Logger

	retryAttempts int
	retryDelay    time.Duration
}

// NewClient creates a Client with the given response-cache backend and TTL.
// Pass nil for backend to disable response caching; pass nil for headers if
// no default headers are needed. The endpoint defaults to [DefaultEndpoint].
func NewClient(backend cache.Cache, cacheTTL time.Duration, headers map[string]string) *Client {
	if backend == nil {
		backend = cache.NewNullCache()
	}
	return &Client{
		http:          &http.Client{Timeout: httpTimeout},
		cache:         backend,
		cacheTTL:      cacheTTL,
		headers:       headers,
		endpoint:      DefaultEndpoint,
		logger:        log.Default(),
		retryAttempts: defaultRetryCount,
		retryDelay:    defaultRetryDelay,
	}
}

// SetEndpoint changes the endpoint new queries are seeded with.
// Queries created before the call keep their endpoint.
func (c *Client) SetEndpoint(endpoint string) { c.endpoint = endpoint }

// SetHTTPClient replaces the underlying HTTP client, e.g. to inject a fake
// transport in tests or to configure timeouts and proxies.
func (c *Client) SetHTTPClient(h *http.Client) { c.http = h }

// SetLogger replaces the logger used for request debug lines.
func (c *Client) SetLogger(l *log.Logger) { c.logger = l }

// Query creates a fresh query bound to this client, seeded with the client's
// endpoint and the API version segment.
func (c *Client) Query() *Query {
	q := &Query{client: c, route: []string{apiVersion}}
	q.SetEndpoint(c.endpoint)
	return q
}

// get performs a cached, retried HTTP GET and returns the raw response body.
// If refresh is true the response cache is bypassed (the fresh body is still
// stored afterwards).
func (c *Client) get(ctx context.Context, rawURL string, refresh bool) ([]byte, error) {
	key := cache.Hash([]byte(rawURL))
	if !refresh {
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			observability.Cache().OnCacheHit(ctx, "response")
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, "response")
	}

	var body []byte
	err := httputil.Retry(ctx, c.retryAttempts, c.retryDelay, func() error {
		var err error
		body, err = c.doRequest(ctx, rawURL)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, body, c.cacheTTL); err == nil {
		observability.Cache().OnCacheSet(ctx, "response", len(body))
	}
	return body, nil
}

func (c *Client) doRequest(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	id := uuid.NewString()
	req.Header.Set("X-Request-ID", id)

	c.logger.Debug("gdn request", "id", id, "url", rawURL)
	observability.HTTP().OnRequest(ctx, http.MethodGet, req.URL.Host, req.URL.Path)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, req.URL.Host, req.URL.Path, err)
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrTransport, err)}
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, http.MethodGet, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		c.logger.Debug("gdn response", "id", id, "status", resp.StatusCode)
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrTransport, err)}
	}
	c.logger.Debug("gdn response", "id", id, "status", resp.StatusCode, "bytes", len(body))
	return body, nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrTransport, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrTransport, code)
	}
}
