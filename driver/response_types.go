// ABOUTME: Inoreader API response structure definitions for typed JSON binding
// ABOUTME: Upstream payloads are loosely typed, so optional fields stay optional here

package driver

import (
	"encoding/json"
	"strings"
	"time"
)

// ReadStateMarker is the substring identifying the upstream "already read"
// category on an article.
const ReadStateMarker = "state/com.google/read"

// StreamContentsResponse represents the response from the stream contents and
// search APIs. The same shape is returned by stream/items/contents.
type StreamContentsResponse struct {
	Direction    string        `json:"direction"`
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Updated      int64         `json:"updated"`
	Items        []ArticleItem `json:"items"`
	Continuation string        `json:"continuation"`
}

// ArticleItem represents an individual article item from the Inoreader API
type ArticleItem struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Published  int64       `json:"published"`
	Updated    int64       `json:"updated"`
	Author     string      `json:"author"`
	Categories []Category  `json:"categories"`
	Canonical  []Link      `json:"canonical"`
	Alternate  []Link      `json:"alternate"`
	Summary    ItemContent `json:"summary"`
	// Content is only populated by stream/items/contents and holds the full
	// article body, as opposed to the Summary excerpt.
	Content *ItemContent `json:"content,omitempty"`
	Origin  Origin       `json:"origin"`
}

// Link represents canonical/alternate links on an article
type Link struct {
	Href string `json:"href"`
	Type string `json:"type,omitempty"`
}

// ItemContent represents the summary/content field carrying article HTML
type ItemContent struct {
	Direction string `json:"direction"` // "ltr" or "rtl"
	Content   string `json:"content"`
}

// Origin represents the owning feed of an article
type Origin struct {
	StreamID string `json:"streamId"` // e.g. "feed/https://example.com/rss"
	Title    string `json:"title"`
	HTMLURL  string `json:"htmlUrl"`
}

// Category represents a tag/state marker on an article or subscription.
// The API emits these either as bare strings (stream items) or as
// {id, label} objects (subscription list), so unmarshalling accepts both.
type Category struct {
	ID    string
	Label string
}

// UnmarshalJSON accepts both the string and the object form of a category
func (c *Category) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		c.ID = id
		c.Label = id
		return nil
	}

	var obj struct {
		ID    string `json:"id"`
		Label string `json:"label"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	c.ID = obj.ID
	c.Label = obj.Label
	return nil
}

// SubscriptionListResponse represents the response from subscription/list
type SubscriptionListResponse struct {
	Subscriptions []SubscriptionItem `json:"subscriptions"`
}

// SubscriptionItem represents an individual subscription from subscription/list
type SubscriptionItem struct {
	ID            string      `json:"id"` // e.g. "feed/http://example.com/rss"
	Title         string      `json:"title"`
	Categories    []Category  `json:"categories"`
	URL           string      `json:"url"`     // XML feed URL
	HTMLURL       string      `json:"htmlUrl"` // Website URL
	IconURL       string      `json:"iconUrl"`
	FirstItemMsec json.Number `json:"firstitemmsec"` // Number or quoted number depending on account age
}

// UnreadCountsResponse represents the response from unread-count
type UnreadCountsResponse struct {
	Max          int           `json:"max"`
	UnreadCounts []UnreadCount `json:"unreadcounts"`
}

// UnreadCount represents the unread counter for one stream
type UnreadCount struct {
	ID                  string `json:"id"`
	Count               int    `json:"count"`
	NewestItemTimestamp string `json:"newestItemTimestampUsec"`
}

// GetPublishedTime converts the published timestamp to time.Time
func (item *ArticleItem) GetPublishedTime() time.Time {
	return time.Unix(item.Published, 0)
}

// HTMLLink returns the first text/html alternate link, or empty when absent
func (item *ArticleItem) HTMLLink() string {
	for _, alt := range item.Alternate {
		if alt.Type == "text/html" {
			return alt.Href
		}
	}
	return ""
}

// IsRead reports whether any category id carries the read state marker
func (item *ArticleItem) IsRead() bool {
	for _, cat := range item.Categories {
		if strings.Contains(cat.ID, ReadStateMarker) {
			return true
		}
	}
	return false
}

// FullContent returns the full article body when present, falling back to
// the summary excerpt. stream/items/contents populates the content field,
// stream/contents only ships the summary.
func (item *ArticleItem) FullContent() string {
	if item.Content != nil && item.Content.Content != "" {
		return item.Content.Content
	}
	return item.Summary.Content
}

// FirstItemTime returns the firstitemmsec value as int64, 0 when unparsable
func (sub *SubscriptionItem) FirstItemTime() int64 {
	msec, err := sub.FirstItemMsec.Int64()
	if err != nil {
		return 0
	}
	return msec
}
