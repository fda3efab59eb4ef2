// ABOUTME: Text analysis routines over fetched article collections
// ABOUTME: Pure, deterministic report generation with no I/O

package service

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dindicoelho/Inoreader-MCP/models"
	"github.com/dindicoelho/Inoreader-MCP/utils"
)

// Analysis type names accepted by the analyze operation
const (
	AnalysisSummary   = "summary"
	AnalysisTrends    = "trends"
	AnalysisSentiment = "sentiment"
	AnalysisKeywords  = "keywords"
)

// minTokenLength filters out short words from trend/keyword counting
const minTokenLength = 4

var positiveLexicon = []string{
	"good", "great", "excellent", "positive", "success",
	"win", "best", "innovation", "growth",
}

var negativeLexicon = []string{
	"bad", "poor", "negative", "fail", "loss",
	"worst", "crisis", "problem", "issue",
}

var keywordStopwords = map[string]bool{
	"their": true, "there": true, "which": true,
	"would": true, "could": true, "should": true, "about": true,
}

// tokenCount pairs a token with its frequency, preserving first-encounter
// order so ties rank stably.
type tokenCount struct {
	token string
	count int
}

// SummaryReport renders the first five articles with a short preview each
func SummaryReport(articles []models.Article) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Summary of %d articles:**\n\n", len(articles))

	limit := len(articles)
	if limit > 5 {
		limit = 5
	}

	for i, article := range articles[:limit] {
		fmt.Fprintf(&b, "%d. **%s**\n", i+1, article.Title)
		fmt.Fprintf(&b, "   - Feed: %s\n", article.FeedTitle)
		fmt.Fprintf(&b, "   - Date: %s\n", article.PublishedDate)
		if article.Summary != "" {
			fmt.Fprintf(&b, "   - Preview: %s\n", utils.TruncateText(article.Summary, 150))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// TrendReport ranks title tokens by frequency and feeds by article count
func TrendReport(articles []models.Article) string {
	var words []*tokenCount
	wordIndex := make(map[string]*tokenCount)
	var feeds []*tokenCount
	feedIndex := make(map[string]*tokenCount)

	for _, article := range articles {
		if entry, ok := feedIndex[article.FeedTitle]; ok {
			entry.count++
		} else {
			entry = &tokenCount{token: article.FeedTitle, count: 1}
			feedIndex[article.FeedTitle] = entry
			feeds = append(feeds, entry)
		}

		for _, word := range strings.Fields(strings.ToLower(article.Title)) {
			if utf8.RuneCountInString(word) <= minTokenLength {
				continue
			}
			if entry, ok := wordIndex[word]; ok {
				entry.count++
			} else {
				entry = &tokenCount{token: word, count: 1}
				wordIndex[word] = entry
				words = append(words, entry)
			}
		}
	}

	topWords := topByCount(words, 10)
	topFeeds := topByCount(feeds, 5)

	var b strings.Builder
	fmt.Fprintf(&b, "**Trend Analysis of %d articles:**\n\n", len(articles))

	b.WriteString("Top Keywords:\n")
	for _, entry := range topWords {
		fmt.Fprintf(&b, "- %s: %d occurrences\n", entry.token, entry.count)
	}

	b.WriteString("\nMost Active Feeds:\n")
	for _, entry := range topFeeds {
		fmt.Fprintf(&b, "- %s: %d articles\n", entry.token, entry.count)
	}

	return b.String()
}

// SentimentReport classifies each article by lexicon hits over its lowercased
// title and summary. Matching is plain substring containment, so a lexicon
// word may match inside a longer word; this is a known precision limitation
// kept for compatibility. An empty collection reports zero counts rather
// than dividing by zero.
func SentimentReport(articles []models.Article) string {
	var positive, negative, neutral int

	for _, article := range articles {
		text := strings.ToLower(article.Title + " " + article.Summary)

		posScore := lexiconHits(text, positiveLexicon)
		negScore := lexiconHits(text, negativeLexicon)

		switch {
		case posScore > negScore:
			positive++
		case negScore > posScore:
			negative++
		default:
			neutral++
		}
	}

	percent := func(count int) float64 {
		if len(articles) == 0 {
			return 0
		}
		return float64(count) / float64(len(articles)) * 100
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Sentiment Analysis of %d articles:**\n\n", len(articles))
	fmt.Fprintf(&b, "- Positive: %d (%.1f%%)\n", positive, percent(positive))
	fmt.Fprintf(&b, "- Negative: %d (%.1f%%)\n", negative, percent(negative))
	fmt.Fprintf(&b, "- Neutral: %d (%.1f%%)\n", neutral, percent(neutral))

	return b.String()
}

// KeywordReport ranks tokens from title and summary text, excluding a fixed
// stopword set, keeping the top twenty with stable tie order.
func KeywordReport(articles []models.Article) string {
	var tokens []*tokenCount
	index := make(map[string]*tokenCount)

	for _, article := range articles {
		text := strings.ToLower(article.Title + " " + article.Summary)
		for _, word := range strings.Fields(text) {
			if utf8.RuneCountInString(word) <= minTokenLength || keywordStopwords[word] {
				continue
			}
			if entry, ok := index[word]; ok {
				entry.count++
			} else {
				entry = &tokenCount{token: word, count: 1}
				index[word] = entry
				tokens = append(tokens, entry)
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Top Keywords from %d articles:**\n\n", len(articles))
	for _, entry := range topByCount(tokens, 20) {
		fmt.Fprintf(&b, "- %s: %d occurrences\n", entry.token, entry.count)
	}

	return b.String()
}

// lexiconHits counts how many lexicon words occur in text as substrings
func lexiconHits(text string, lexicon []string) int {
	hits := 0
	for _, word := range lexicon {
		if strings.Contains(text, word) {
			hits++
		}
	}
	return hits
}

// topByCount returns up to limit entries ordered by descending count.
// The sort is stable, so equal counts keep first-encounter order.
func topByCount(entries []*tokenCount, limit int) []*tokenCount {
	ranked := make([]*tokenCount, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].count > ranked[j].count
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
