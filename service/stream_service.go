// ABOUTME: Stream fetching service building parameter sets for list/search requests
// ABOUTME: Drives reads through the caching client and normalizes the results

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dindicoelho/Inoreader-MCP/driver"
	"github.com/dindicoelho/Inoreader-MCP/models"
)

const (
	// DefaultMaxArticlesPerRequest caps n on every stream/search fetch
	// unless configuration overrides it
	DefaultMaxArticlesPerRequest = 50

	// ReadStateTag is the exclusion target for unread-only fetches
	ReadStateTag = "user/-/state/com.google/read"

	readingListStream = "user/-/state/com.google/reading-list"
	searchStream      = "user/-/state/com.google/search"

	subscriptionListCacheKey = "subscription_list"
)

// StreamService builds and executes read requests against article streams
type StreamService struct {
	client        *driver.APIClient
	maxPerRequest int
	logger        *slog.Logger
}

// NewStreamService creates a new stream service. maxPerRequest bounds n on
// every fetch; zero or negative selects the default.
func NewStreamService(client *driver.APIClient, maxPerRequest int, logger *slog.Logger) *StreamService {
	if maxPerRequest <= 0 {
		maxPerRequest = DefaultMaxArticlesPerRequest
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamService{client: client, maxPerRequest: maxPerRequest, logger: logger}
}

// ListStream fetches articles from one stream. An empty streamID targets the
// full reading list. count is clamped to the configured per-request maximum. excludeRead
// filters out items already carrying the read state. newerThan, when positive,
// is a Unix-seconds lower bound on publication time.
func (s *StreamService) ListStream(ctx context.Context, streamID string, count int, excludeRead bool, newerThan int64) ([]models.Article, error) {
	query := url.Values{
		"n":      {strconv.Itoa(s.clampCount(count))},
		"output": {"json"},
	}
	if excludeRead {
		query.Set("xt", ReadStateTag)
	}
	if newerThan > 0 {
		query.Set("ot", strconv.FormatInt(newerThan, 10))
	}

	target := streamID
	if target == "" {
		target = readingListStream
	}
	endpoint := "stream/contents/" + url.PathEscape(target)

	s.logger.Debug("Fetching stream contents",
		"stream_id", target,
		"count", s.clampCount(count),
		"exclude_read", excludeRead,
		"newer_than", newerThan)

	return s.fetchStream(ctx, endpoint, query)
}

// Search fetches articles matching query from the search stream, with the
// same clamping and time-window rules as ListStream.
func (s *StreamService) Search(ctx context.Context, query string, count int, newerThan int64) ([]models.Article, error) {
	params := url.Values{
		"q":      {query},
		"n":      {strconv.Itoa(s.clampCount(count))},
		"output": {"json"},
	}
	if newerThan > 0 {
		params.Set("ot", strconv.FormatInt(newerThan, 10))
	}

	endpoint := "stream/contents/" + url.PathEscape(searchStream)

	s.logger.Debug("Searching articles", "query", query, "count", s.clampCount(count))

	return s.fetchStream(ctx, endpoint, params)
}

// ItemContents fetches the full content for specific item ids. Empty input
// short-circuits without a network call.
func (s *StreamService) ItemContents(ctx context.Context, ids []string) ([]models.Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	form := url.Values{"i": ids}

	body, err := s.client.Request(ctx, http.MethodPost, "stream/items/contents", nil, form)
	if err != nil {
		return nil, fmt.Errorf("item contents fetch failed: %w", err)
	}
	if !body.IsJSON() {
		return nil, fmt.Errorf("%w: stream/items/contents", driver.ErrMalformedBody)
	}

	var response driver.StreamContentsResponse
	if err := json.Unmarshal(body.JSON, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item contents response: %w", err)
	}

	return models.ArticlesFromItems(response.Items), nil
}

// Subscriptions fetches the subscription list through the result cache
func (s *StreamService) Subscriptions(ctx context.Context) ([]models.Feed, error) {
	raw, err := s.client.CachedJSON(ctx, subscriptionListCacheKey, func(ctx context.Context) (json.RawMessage, error) {
		body, err := s.client.Request(ctx, http.MethodGet, "subscription/list", nil, nil)
		if err != nil {
			return nil, fmt.Errorf("subscription list fetch failed: %w", err)
		}
		if !body.IsJSON() {
			return nil, fmt.Errorf("%w: subscription/list", driver.ErrMalformedBody)
		}
		return body.JSON, nil
	})
	if err != nil {
		return nil, err
	}

	var response driver.SubscriptionListResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal subscription list: %w", err)
	}

	return models.FeedsFromSubscriptions(response.Subscriptions), nil
}

// UnreadCounts fetches the per-stream unread counters
func (s *StreamService) UnreadCounts(ctx context.Context) ([]driver.UnreadCount, error) {
	body, err := s.client.Request(ctx, http.MethodGet, "unread-count", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("unread count fetch failed: %w", err)
	}
	if !body.IsJSON() {
		return nil, fmt.Errorf("%w: unread-count", driver.ErrMalformedBody)
	}

	var response driver.UnreadCountsResponse
	if err := json.Unmarshal(body.JSON, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal unread counts: %w", err)
	}

	return response.UnreadCounts, nil
}

// fetchStream executes a stream read and applies the empty-items fallback
// for the endpoints documented to return bare error text.
func (s *StreamService) fetchStream(ctx context.Context, endpoint string, query url.Values) ([]models.Article, error) {
	body, err := s.client.Request(ctx, http.MethodGet, endpoint, query, nil)
	if err != nil {
		return nil, fmt.Errorf("stream fetch failed: %w", err)
	}

	var response driver.StreamContentsResponse
	if err := json.Unmarshal(body.JSONOrEmptyItems(), &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stream response: %w", err)
	}

	s.logger.Debug("Fetched stream contents",
		"endpoint", endpoint,
		"item_count", len(response.Items))

	return models.ArticlesFromItems(response.Items), nil
}

func (s *StreamService) clampCount(count int) int {
	if count > s.maxPerRequest {
		return s.maxPerRequest
	}
	if count <= 0 {
		return s.maxPerRequest
	}
	return count
}
