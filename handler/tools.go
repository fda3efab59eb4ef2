// ABOUTME: Tool orchestrator mapping the eight named operations onto the services
// ABOUTME: Converts structured errors to user-visible text at this boundary only

package handler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dindicoelho/Inoreader-MCP/config"
	"github.com/dindicoelho/Inoreader-MCP/driver"
	"github.com/dindicoelho/Inoreader-MCP/models"
	"github.com/dindicoelho/Inoreader-MCP/service"
)

// ToolHandler executes the user-facing operations. Each invocation opens one
// scoped session (connection pool + auth) and releases it on every exit path.
// The result cache is the only state shared across invocations.
type ToolHandler struct {
	cfg    *config.Config
	cache  *driver.ResultCache
	logger *slog.Logger
}

// NewToolHandler creates a tool handler with a fresh process-wide cache
func NewToolHandler(cfg *config.Config, logger *slog.Logger) *ToolHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ToolHandler{
		cfg:    cfg,
		cache:  driver.NewResultCache(cfg.Cache.MaxEntries, cfg.Cache.TTL),
		logger: logger,
	}
}

// run opens a session for one invocation, executes op and renders failures
// as a single error string. Errors never escape to the hosting process.
func (h *ToolHandler) run(ctx context.Context, name, action string, op func(s *service.Session) (string, error)) string {
	requestID := uuid.NewString()
	logger := h.logger.With("tool", name, "request_id", requestID)
	logger.Info("Tool invocation started")

	session := service.NewSession(h.cfg, h.cache, logger)
	defer session.Close()

	result, err := op(session)
	if err != nil {
		logger.Error("Tool invocation failed", "error", err)
		return fmt.Sprintf("Error: %s: %v", action, err)
	}

	logger.Info("Tool invocation completed")
	return result
}

// ListFeeds renders all subscribed feeds sorted by title
func (h *ToolHandler) ListFeeds(ctx context.Context) string {
	return h.run(ctx, "list_feeds", "listing feeds", func(s *service.Session) (string, error) {
		feeds, err := s.Streams.Subscriptions(ctx)
		if err != nil {
			return "", err
		}

		if len(feeds) == 0 {
			return "No feeds found in your Inoreader account.", nil
		}

		sort.SliceStable(feeds, func(i, j int) bool {
			return strings.ToLower(feeds[i].Title) < strings.ToLower(feeds[j].Title)
		})

		return fmt.Sprintf("Found %d feeds:\n\n%s", len(feeds), formatFeedList(feeds)), nil
	})
}

// ListArticles renders articles with optional feed, unread and recency filters
func (h *ToolHandler) ListArticles(ctx context.Context, feedID string, limit int, unreadOnly bool, days int) string {
	return h.run(ctx, "list_articles", "listing articles", func(s *service.Session) (string, error) {
		articles, err := s.Streams.ListStream(ctx, feedID, limit, unreadOnly, newerThanTimestamp(days))
		if err != nil {
			return "", err
		}

		if len(articles) == 0 {
			return emptyArticlesMessage(feedID, unreadOnly, days), nil
		}

		header := fmt.Sprintf("Found %d articles", len(articles))
		if unreadOnly {
			header += " (unread only)"
		}
		if days > 0 {
			header += fmt.Sprintf(" from the last %d days", days)
		}

		return header + ":\n\n" + formatArticleList(articles), nil
	})
}

// GetContent renders one article's metadata and full body
func (h *ToolHandler) GetContent(ctx context.Context, articleID string) string {
	return h.run(ctx, "get_content", "getting article content", func(s *service.Session) (string, error) {
		article, err := fetchArticle(ctx, s, articleID)
		if err != nil {
			return "", err
		}
		if article == nil {
			return articleNotFoundMessage(articleID), nil
		}

		return formatArticleContent(*article), nil
	})
}

// MarkAsRead marks the given articles read and reports exact counts.
// All-succeeded, partial and none are three distinct outcomes.
func (h *ToolHandler) MarkAsRead(ctx context.Context, articleIDs []string) string {
	if len(articleIDs) == 0 {
		return "No article IDs provided."
	}

	return h.run(ctx, "mark_as_read", "marking articles as read", func(s *service.Session) (string, error) {
		succeeded, total, err := s.Batch.MarkRead(ctx, articleIDs)
		if err != nil {
			return "", err
		}

		switch {
		case succeeded == total:
			return fmt.Sprintf("Successfully marked %d article(s) as read.", succeeded), nil
		case succeeded > 0:
			return fmt.Sprintf("Marked %d out of %d articles as read.", succeeded, total), nil
		default:
			return "Failed to mark articles as read.", nil
		}
	})
}

// SearchArticles renders articles matching a query
func (h *ToolHandler) SearchArticles(ctx context.Context, query string, limit int, days int) string {
	return h.run(ctx, "search", "searching articles", func(s *service.Session) (string, error) {
		articles, err := s.Streams.Search(ctx, query, limit, newerThanTimestamp(days))
		if err != nil {
			return "", err
		}

		if len(articles) == 0 {
			return fmt.Sprintf("No articles found matching '%s'", query), nil
		}

		header := fmt.Sprintf("Found %d articles matching '%s'", len(articles), query)
		if days > 0 {
			header += fmt.Sprintf(" from the last %d days", days)
		}

		return header + ":\n\n" + formatArticleList(articles), nil
	})
}

// Summarize renders key points re-derived locally from the article body.
// This is sentence splitting, not semantic summarization.
func (h *ToolHandler) Summarize(ctx context.Context, articleID string) string {
	return h.run(ctx, "summarize", "summarizing article", func(s *service.Session) (string, error) {
		article, err := fetchArticle(ctx, s, articleID)
		if err != nil {
			return "", err
		}
		if article == nil {
			return articleNotFoundMessage(articleID), nil
		}

		return formatArticleSummary(*article), nil
	})
}

// Analyze runs one of the analysis reports over the given articles
func (h *ToolHandler) Analyze(ctx context.Context, articleIDs []string, analysisType string) string {
	if len(articleIDs) == 0 {
		return "No article IDs provided for analysis."
	}

	return h.run(ctx, "analyze", "analyzing articles", func(s *service.Session) (string, error) {
		articles, err := s.Streams.ItemContents(ctx, articleIDs)
		if err != nil {
			return "", err
		}
		if len(articles) == 0 {
			return "No articles found for the provided IDs.", nil
		}

		switch analysisType {
		case service.AnalysisSummary:
			return service.SummaryReport(articles), nil
		case service.AnalysisTrends:
			return service.TrendReport(articles), nil
		case service.AnalysisSentiment:
			return service.SentimentReport(articles), nil
		case service.AnalysisKeywords:
			return service.KeywordReport(articles), nil
		default:
			return "", fmt.Errorf("unknown analysis type: %s", analysisType)
		}
	})
}

// GetStats renders unread counters aggregated over individual feeds
func (h *ToolHandler) GetStats(ctx context.Context) string {
	return h.run(ctx, "get_stats", "getting statistics", func(s *service.Session) (string, error) {
		counts, err := s.Streams.UnreadCounts(ctx)
		if err != nil {
			return "", err
		}

		return formatStats(counts), nil
	})
}

// fetchArticle looks up a single article by id. A nil article with nil error
// means the upstream returned an empty item set: not found, not a failure.
func fetchArticle(ctx context.Context, s *service.Session, articleID string) (*models.Article, error) {
	articles, err := s.Streams.ItemContents(ctx, []string{articleID})
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, nil
	}
	return &articles[0], nil
}

func articleNotFoundMessage(articleID string) string {
	return fmt.Sprintf("Article with ID %s not found.", articleID)
}

// newerThanTimestamp converts a day window to the ot lower bound, 0 when unset
func newerThanTimestamp(days int) int64 {
	if days <= 0 {
		return 0
	}
	return time.Now().Add(-time.Duration(days) * 24 * time.Hour).Unix()
}

func emptyArticlesMessage(feedID string, unreadOnly bool, days int) string {
	var filters []string
	if unreadOnly {
		filters = append(filters, "unread")
	}
	if days > 0 {
		filters = append(filters, fmt.Sprintf("from the last %d days", days))
	}
	if feedID != "" {
		filters = append(filters, fmt.Sprintf("in feed %s", feedID))
	}

	if len(filters) == 0 {
		return "No articles found."
	}
	return fmt.Sprintf("No articles found %s.", strings.Join(filters, " "))
}
