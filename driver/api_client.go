// ABOUTME: Authenticated HTTP client for the Inoreader API with response-shape normalization
// ABOUTME: Interprets non-2xx and non-JSON bodies and memoizes idempotent reads

package driver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// HTTPStatusError is returned for any non-2xx upstream response. It carries
// the upstream status and body for diagnostics.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("API request failed: %d - %s", e.StatusCode, e.Body)
}

// ErrMalformedBody signals a body that declared application/json but did not parse
var ErrMalformedBody = fmt.Errorf("response declared JSON but did not parse")

// Body is the typed outcome of a request: exactly one of JSON or Text is
// populated, decided at the transport boundary.
type Body struct {
	JSON json.RawMessage
	Text string
}

// IsJSON reports whether the upstream returned a parsed JSON document
func (b Body) IsJSON() bool {
	return b.JSON != nil
}

// emptyItems is the documented fallback shape for stream endpoints that
// return a bare error string instead of JSON.
var emptyItems = json.RawMessage(`{"items": []}`)

// JSONOrEmptyItems applies the stream/search compatibility shim: a text body
// that looks like JSON is parsed, anything else collapses to {"items": []}.
// Several upstream endpoints return error text even when JSON was requested,
// so this must never propagate a parse error.
func (b Body) JSONOrEmptyItems() json.RawMessage {
	if b.JSON != nil {
		return b.JSON
	}

	trimmed := strings.TrimSpace(b.Text)
	if strings.HasPrefix(trimmed, "{") && json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}

	return emptyItems
}

// ResultCache is the process-wide memo for idempotent read results.
// Entries age out individually by TTL; the LRU bound caps memory.
type ResultCache struct {
	store *lru.LRU[string, json.RawMessage]
}

// NewResultCache creates a cache with the given capacity and entry TTL
func NewResultCache(maxEntries int, ttl time.Duration) *ResultCache {
	return &ResultCache{
		store: lru.NewLRU[string, json.RawMessage](maxEntries, nil, ttl),
	}
}

// Get returns the cached value for key, if present and fresh
func (c *ResultCache) Get(key string) (json.RawMessage, bool) {
	return c.store.Get(key)
}

// Add stores a value under key
func (c *ResultCache) Add(key string, value json.RawMessage) {
	c.store.Add(key, value)
}

// APIClient wraps outbound Inoreader API requests. Every call attaches auth
// headers and runs under the configured request timeout. A 401 invalidates
// the session token so the next call re-authenticates.
type APIClient struct {
	baseURL    string
	session    *AuthSession
	httpClient *http.Client
	cache      *ResultCache
	logger     *slog.Logger
}

// NewAPIClient creates a new authenticated API client
func NewAPIClient(baseURL string, session *AuthSession, httpClient *http.Client, cache *ResultCache, logger *slog.Logger) *APIClient {
	if logger == nil {
		logger = slog.Default()
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		session:    session,
		httpClient: httpClient,
		cache:      cache,
		logger:     logger,
	}
}

// NewPooledHTTPClient builds the HTTP client used for one tool invocation:
// bounded request timeout over a small pooled transport.
func NewPooledHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			TLSHandshakeTimeout:   5 * time.Second,
			ResponseHeaderTimeout: timeout,
			IdleConnTimeout:       90 * time.Second,
			MaxIdleConns:          10,
			MaxIdleConnsPerHost:   2,
		},
	}
}

// Request performs an authenticated request against the API. Query parameters
// may repeat; form parameters are sent urlencoded in the body. The response
// is classified in order: non-2xx status, JSON content type, opaque text.
func (c *APIClient) Request(ctx context.Context, method, endpoint string, query url.Values, form url.Values) (Body, error) {
	if err := c.session.EnsureAuthenticated(ctx); err != nil {
		return Body{}, err
	}

	requestURL := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if form != nil {
		bodyReader = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return Body{}, fmt.Errorf("failed to create request: %w", err)
	}

	headers, err := c.session.AuthHeaders()
	if err != nil {
		return Body{}, err
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	c.logger.Debug("Making request to Inoreader API",
		"method", method,
		"endpoint", endpoint,
		"query_params", len(query))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Body{}, fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Body{}, fmt.Errorf("failed to read response from %s: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusUnauthorized {
			// Token no longer accepted; force re-authentication on the next call.
			c.session.Invalidate()
		}
		c.logger.Error("Inoreader API returned error status",
			"endpoint", endpoint,
			"status_code", resp.StatusCode,
			"response_body", truncateForLog(string(raw), 200))
		return Body{}, &HTTPStatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		if !json.Valid(raw) {
			c.logger.Error("Declared JSON response did not parse",
				"endpoint", endpoint,
				"body_preview", truncateForLog(string(raw), 200))
			return Body{}, fmt.Errorf("%w: endpoint %s", ErrMalformedBody, endpoint)
		}
		return Body{JSON: json.RawMessage(raw)}, nil
	}

	c.logger.Warn("Non-JSON response from Inoreader API",
		"endpoint", endpoint,
		"content_type", resp.Header.Get("Content-Type"),
		"body_preview", truncateForLog(string(raw), 200))

	return Body{Text: string(raw)}, nil
}

// CachedJSON returns the cached document for key when fresh, otherwise runs
// fetch and caches its result. Only idempotent reads may use this; write
// endpoints must go through Request directly.
func (c *APIClient) CachedJSON(ctx context.Context, key string, fetch func(ctx context.Context) (json.RawMessage, error)) (json.RawMessage, error) {
	if c.cache != nil {
		if cached, ok := c.cache.Get(key); ok {
			c.logger.Debug("Cache hit", "cache_key", key)
			return cached, nil
		}
	}

	result, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Add(key, result)
	}
	return result, nil
}

func truncateForLog(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
