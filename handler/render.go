// ABOUTME: Text rendering for feeds, articles, summaries and statistics
// ABOUTME: Pure formatting over already-normalized models

package handler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dindicoelho/Inoreader-MCP/driver"
	"github.com/dindicoelho/Inoreader-MCP/models"
	"github.com/dindicoelho/Inoreader-MCP/utils"
)

const (
	unreadMarker = "•"
	readMarker   = "✓"
)

// formatFeedList renders feeds as a numbered list with categories and URL
func formatFeedList(feeds []models.Feed) string {
	if len(feeds) == 0 {
		return "No feeds found."
	}

	var b strings.Builder
	for i, feed := range feeds {
		fmt.Fprintf(&b, "%d. %s\n", i+1, feed.Title)
		if len(feed.Categories) > 0 {
			fmt.Fprintf(&b, "   Categories: %s\n", strings.Join(feed.Categories, ", "))
		}
		fmt.Fprintf(&b, "   URL: %s\n", feed.URL)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatArticleList renders articles as a numbered list with read markers
func formatArticleList(articles []models.Article) string {
	if len(articles) == 0 {
		return "No articles found."
	}

	var b strings.Builder
	for i, article := range articles {
		marker := unreadMarker
		if article.IsRead {
			marker = readMarker
		}
		fmt.Fprintf(&b, "%d. %s %s\n", i+1, marker, article.Title)
		fmt.Fprintf(&b, "   Feed: %s\n", article.FeedTitle)
		fmt.Fprintf(&b, "   Date: %s\n", article.PublishedDate)
		if article.URL != "" {
			fmt.Fprintf(&b, "   URL: %s\n", article.URL)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatArticleContent renders one article's metadata and best available body
func formatArticleContent(article models.Article) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n", article.Title)
	fmt.Fprintf(&b, "Author: %s\n", article.Author)
	fmt.Fprintf(&b, "Feed: %s\n", article.FeedTitle)
	fmt.Fprintf(&b, "Date: %s\n", article.PublishedDate)
	if article.URL != "" {
		fmt.Fprintf(&b, "URL: %s\n", article.URL)
	}

	status := "Unread"
	if article.IsRead {
		status = "Read"
	}
	fmt.Fprintf(&b, "Status: %s\n", status)

	body := article.Body()
	if body == "" {
		b.WriteString("\n---\n\nNo content available for this article.")
	} else {
		b.WriteString("\n---\n\n" + body)
	}

	return b.String()
}

// formatArticleSummary renders the first three sentence fragments of the
// plain-text body as key points.
func formatArticleSummary(article models.Article) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Summary of: %s**\n\n", article.Title)

	plain := utils.StripHTML(article.Body())
	if plain == "" {
		b.WriteString("No content available for this article.")
		return b.String()
	}

	sentences := strings.Split(strings.ReplaceAll(plain, "\n", " "), ". ")

	b.WriteString("Key points:\n")
	points := 0
	for _, sentence := range sentences {
		sentence = strings.TrimSpace(strings.TrimSuffix(sentence, "."))
		if sentence == "" {
			continue
		}
		points++
		fmt.Fprintf(&b, "%d. %s.\n", points, sentence)
		if points == 3 {
			break
		}
	}

	return b.String()
}

// formatStats renders unread totals over feed/-prefixed streams. Folder and
// state pseudo-streams are skipped so the total is not double counted.
func formatStats(counts []driver.UnreadCount) string {
	totalUnread := 0
	var feedStats []driver.UnreadCount

	for _, item := range counts {
		if item.Count > 0 && strings.HasPrefix(item.ID, "feed/") {
			totalUnread += item.Count
			feedStats = append(feedStats, item)
		}
	}

	var b strings.Builder
	b.WriteString("**Inoreader Statistics:**\n\n")
	fmt.Fprintf(&b, "Total unread articles: %d\n", totalUnread)

	if len(feedStats) > 0 {
		sort.SliceStable(feedStats, func(i, j int) bool {
			return feedStats[i].Count > feedStats[j].Count
		})
		if len(feedStats) > 10 {
			feedStats = feedStats[:10]
		}

		b.WriteString("\nTop feeds with unread articles:\n")
		for _, stat := range feedStats {
			fmt.Fprintf(&b, "- %s: %d unread\n", cleanFeedName(stat.ID), stat.Count)
		}
	}

	return b.String()
}

// cleanFeedName strips the feed/ prefix and URL scheme for display
func cleanFeedName(streamID string) string {
	name := strings.TrimPrefix(streamID, "feed/")
	if idx := strings.Index(name, "://"); idx != -1 {
		name = name[idx+len("://"):]
	}
	return name
}
