// ABOUTME: This file defines the canonical Feed shape and its normalization
// ABOUTME: Converts raw upstream subscription records into immutable snapshots

package models

import "github.com/dindicoelho/Inoreader-MCP/driver"

// Feed is an immutable snapshot of one subscription at fetch time
type Feed struct {
	ID            string // "feed/<url>" form
	Title         string
	URL           string // XML feed URL
	HTMLURL       string
	Categories    []string
	FirstItemMsec int64
}

// FeedFromSubscription normalizes a raw subscription record
func FeedFromSubscription(sub driver.SubscriptionItem) Feed {
	feed := Feed{
		ID:            sub.ID,
		Title:         sub.Title,
		URL:           sub.URL,
		HTMLURL:       sub.HTMLURL,
		FirstItemMsec: sub.FirstItemTime(),
	}

	if feed.Title == "" {
		feed.Title = "Untitled"
	}

	for _, cat := range sub.Categories {
		feed.Categories = append(feed.Categories, cat.Label)
	}

	return feed
}

// FeedsFromSubscriptions normalizes a batch of subscription records
func FeedsFromSubscriptions(subs []driver.SubscriptionItem) []Feed {
	feeds := make([]Feed, 0, len(subs))
	for _, sub := range subs {
		feeds = append(feeds, FeedFromSubscription(sub))
	}
	return feeds
}
