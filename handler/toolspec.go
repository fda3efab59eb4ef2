// ABOUTME: Tool metadata and name-based dispatch for the JSON-RPC front-end
// ABOUTME: The front-end stays mechanical; argument decoding lives here

package handler

import (
	"context"
	"encoding/json"
	"fmt"
)

// ToolSpec describes one operation for tools/list
type ToolSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// Tools returns the metadata for the eight operations
func (h *ToolHandler) Tools() []ToolSpec {
	return []ToolSpec{
		{
			Name:        "list_feeds",
			Description: "List all subscribed feeds in Inoreader",
			InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
		},
		{
			Name:        "list_articles",
			Description: "List articles from feeds with optional filters",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"feed_id": {"type": "string", "description": "Optional feed ID to filter articles"},
					"limit": {"type": "integer", "description": "Maximum number of articles to return (default: 50)"},
					"unread_only": {"type": "boolean", "description": "Only show unread articles (default: true)"},
					"days": {"type": "integer", "description": "Only show articles from the last N days"}
				}
			}`),
		},
		{
			Name:        "get_content",
			Description: "Get the full content of a specific article",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"article_id": {"type": "string", "description": "The ID of the article to retrieve"}
				},
				"required": ["article_id"]
			}`),
		},
		{
			Name:        "mark_as_read",
			Description: "Mark articles as read",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"article_ids": {"type": "array", "items": {"type": "string"}, "description": "List of article IDs to mark as read"}
				},
				"required": ["article_ids"]
			}`),
		},
		{
			Name:        "search",
			Description: "Search for articles by keyword",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"query": {"type": "string", "description": "Search query"},
					"limit": {"type": "integer", "description": "Maximum number of results (default: 50)"},
					"days": {"type": "integer", "description": "Search within the last N days"}
				},
				"required": ["query"]
			}`),
		},
		{
			Name:        "summarize",
			Description: "Generate a summary of an article",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"article_id": {"type": "string", "description": "The ID of the article to summarize"}
				},
				"required": ["article_id"]
			}`),
		},
		{
			Name:        "analyze",
			Description: "Analyze multiple articles for trends, sentiment, or keywords",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"article_ids": {"type": "array", "items": {"type": "string"}, "description": "List of article IDs to analyze"},
					"analysis_type": {"type": "string", "enum": ["summary", "trends", "sentiment", "keywords"], "description": "Type of analysis to perform"}
				},
				"required": ["article_ids", "analysis_type"]
			}`),
		},
		{
			Name:        "get_stats",
			Description: "Get statistics about unread articles",
			InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
		},
	}
}

// Execute dispatches a named operation with loosely-typed arguments. Every
// operation returns rendered text; the error return is reserved for unknown
// tool names, which the front-end maps to a protocol-level error.
func (h *ToolHandler) Execute(ctx context.Context, name string, args map[string]any) (string, error) {
	switch name {
	case "list_feeds":
		return h.ListFeeds(ctx), nil
	case "list_articles":
		return h.ListArticles(ctx,
			stringArg(args, "feed_id", ""),
			intArg(args, "limit", 50),
			boolArg(args, "unread_only", true),
			intArg(args, "days", 0)), nil
	case "get_content":
		return h.GetContent(ctx, stringArg(args, "article_id", "")), nil
	case "mark_as_read":
		return h.MarkAsRead(ctx, stringSliceArg(args, "article_ids")), nil
	case "search":
		return h.SearchArticles(ctx,
			stringArg(args, "query", ""),
			intArg(args, "limit", 50),
			intArg(args, "days", 0)), nil
	case "summarize":
		return h.Summarize(ctx, stringArg(args, "article_id", "")), nil
	case "analyze":
		return h.Analyze(ctx,
			stringSliceArg(args, "article_ids"),
			stringArg(args, "analysis_type", "")), nil
	case "get_stats":
		return h.GetStats(ctx), nil
	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
}

func stringArg(args map[string]any, key, fallback string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return fallback
}

// intArg accepts float64 because JSON numbers decode that way
func intArg(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return fallback
}

func boolArg(args map[string]any, key string, fallback bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return fallback
}

func stringSliceArg(args map[string]any, key string) []string {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
