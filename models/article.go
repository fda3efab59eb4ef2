// ABOUTME: This file defines the canonical Article shape and its normalization
// ABOUTME: Converts raw upstream stream items into a trusted internal snapshot

package models

import (
	"time"

	"github.com/dindicoelho/Inoreader-MCP/driver"
	"github.com/dindicoelho/Inoreader-MCP/utils"
)

const (
	// maxSummaryLength bounds the plain-text summary excerpt
	maxSummaryLength = 500

	defaultTitle     = "No title"
	defaultAuthor    = "Unknown"
	defaultFeedTitle = "Unknown feed"
)

// Article is an immutable snapshot of one upstream item. Read state is
// always recomputed from the category set, never cached independently.
type Article struct {
	ID            string
	Title         string
	Author        string
	Published     int64  // seconds since epoch, 0 when unknown
	PublishedDate string // RFC3339, empty when unknown
	FeedID        string
	FeedTitle     string
	Categories    []string
	IsRead        bool
	URL           string // first text/html alternate link, empty when absent
	Summary       string // HTML-stripped excerpt, truncated
	Content       string // full HTML body when fetched via stream/items/contents
}

// ArticleFromItem normalizes a raw upstream item. Missing fields resolve to
// documented defaults rather than being trusted to exist.
func ArticleFromItem(item driver.ArticleItem) Article {
	article := Article{
		ID:        item.ID,
		Title:     item.Title,
		Author:    item.Author,
		Published: item.Published,
		FeedID:    item.Origin.StreamID,
		FeedTitle: item.Origin.Title,
		IsRead:    item.IsRead(),
		URL:       item.HTMLLink(),
	}

	if article.Title == "" {
		article.Title = defaultTitle
	}
	if article.Author == "" {
		article.Author = defaultAuthor
	}
	if article.FeedTitle == "" {
		article.FeedTitle = defaultFeedTitle
	}

	if item.Published > 0 {
		article.PublishedDate = time.Unix(item.Published, 0).Format(time.RFC3339)
	}

	for _, cat := range item.Categories {
		article.Categories = append(article.Categories, cat.Label)
	}

	if item.Summary.Content != "" {
		article.Summary = utils.TruncateText(utils.StripHTML(item.Summary.Content), maxSummaryLength)
	}

	if item.Content != nil {
		article.Content = item.Content.Content
	}

	return article
}

// ArticlesFromItems normalizes a batch of items, preserving input order
func ArticlesFromItems(items []driver.ArticleItem) []Article {
	articles := make([]Article, 0, len(items))
	for _, item := range items {
		articles = append(articles, ArticleFromItem(item))
	}
	return articles
}

// Body returns the best available article body: the full content when it was
// fetched, otherwise the summary excerpt.
func (a Article) Body() string {
	if a.Content != "" {
		return a.Content
	}
	return a.Summary
}
