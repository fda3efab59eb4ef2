// ABOUTME: Tests for the tool orchestrator's rendered output
// ABOUTME: Drives full invocations against a mock Inoreader API

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dindicoelho/Inoreader-MCP/config"
)

// newHandlerFixture builds a ToolHandler whose sessions talk to a mock API.
// setup registers the endpoint handlers; login is always answered.
func newHandlerFixture(t *testing.T, setup func(mux *http.ServeMux)) *ToolHandler {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/accounts/ClientLogin", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Auth=testtoken\n"))
	})
	if setup != nil {
		setup(mux)
	}

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		ServiceName: "inoreader-mcp-test",
		LogLevel:    "error",
		Inoreader: config.InoreaderConfig{
			BaseURL:               server.URL,
			LoginURL:              server.URL + "/accounts/ClientLogin",
			AppID:                 "test_app_id",
			AppKey:                "test_app_key",
			Username:              "user@example.com",
			Password:              "secret",
			MaxArticlesPerRequest: 50,
		},
		Cache: config.CacheConfig{TTL: 5 * time.Minute, MaxEntries: 100},
		HTTP:  config.HTTPConfig{RequestTimeout: 5 * time.Second},
	}

	return NewToolHandler(cfg, nil)
}

func jsonHandler(payload string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}
}

const unreadFixture = `{
	"items": [
		{
			"id": "item-1",
			"title": "Fresh news one",
			"published": 1756300000,
			"origin": {"streamId": "feed/a", "title": "Feed A"},
			"alternate": [{"href": "https://a.example/1", "type": "text/html"}]
		},
		{
			"id": "item-2",
			"title": "Fresh news two",
			"published": 1756200000,
			"origin": {"streamId": "feed/a", "title": "Feed A"}
		},
		{
			"id": "item-3",
			"title": "Fresh news three",
			"published": 1756100000,
			"origin": {"streamId": "feed/a", "title": "Feed A"}
		}
	]
}`

func TestListArticles_RendersUnreadEntries(t *testing.T) {
	h := newHandlerFixture(t, func(mux *http.ServeMux) {
		mux.HandleFunc("/stream/contents/", jsonHandler(unreadFixture))
	})

	out := h.ListArticles(context.Background(), "feed/a", 50, true, 7)

	assert.Contains(t, out, "Found 3 articles (unread only) from the last 7 days:")
	assert.Contains(t, out, "1. • Fresh news one")
	assert.Contains(t, out, "2. • Fresh news two")
	assert.Contains(t, out, "3. • Fresh news three")
	assert.Contains(t, out, "URL: https://a.example/1")
	assert.Equal(t, 3, strings.Count(out, "• "), "every entry carries the unread marker")
}

func TestListArticles_EmptyWithFilters(t *testing.T) {
	h := newHandlerFixture(t, func(mux *http.ServeMux) {
		mux.HandleFunc("/stream/contents/", jsonHandler(`{"items": []}`))
	})

	out := h.ListArticles(context.Background(), "feed/a", 50, true, 7)
	assert.Equal(t, "No articles found unread from the last 7 days in feed feed/a.", out)

	out = h.ListArticles(context.Background(), "", 50, false, 0)
	assert.Equal(t, "No articles found.", out)
}

func TestListArticles_ErrorRendering(t *testing.T) {
	h := newHandlerFixture(t, func(mux *http.ServeMux) {
		mux.HandleFunc("/stream/contents/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("upstream exploded"))
		})
	})

	out := h.ListArticles(context.Background(), "", 50, true, 0)

	assert.True(t, strings.HasPrefix(out, "Error: "), "failures render as error text, got %q", out)
	assert.Contains(t, out, "500")
}

func TestListFeeds_SortedAndCached(t *testing.T) {
	calls := 0
	h := newHandlerFixture(t, func(mux *http.ServeMux) {
		mux.HandleFunc("/subscription/list", func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"subscriptions": [
					{"id": "feed/z", "title": "Zebra News", "url": "https://z.example/rss"},
					{"id": "feed/a", "title": "apple weekly", "url": "https://a.example/rss",
					 "categories": [{"id": "user/1/label/Fruit", "label": "Fruit"}]}
				]
			}`))
		})
	})

	ctx := context.Background()
	out := h.ListFeeds(ctx)

	assert.Contains(t, out, "Found 2 feeds:")
	// Case-insensitive title sort puts "apple weekly" first.
	assert.Less(t, strings.Index(out, "apple weekly"), strings.Index(out, "Zebra News"))
	assert.Contains(t, out, "Categories: Fruit")
	assert.Contains(t, out, "URL: https://z.example/rss")

	again := h.ListFeeds(ctx)
	assert.Equal(t, out, again)
	assert.Equal(t, 1, calls, "second call inside the TTL must be served from cache")
}

func TestGetContent(t *testing.T) {
	tests := map[string]struct {
		payload  string
		validate func(t *testing.T, out string)
	}{
		"prefers_full_content_over_summary": {
			payload: `{
				"items": [{
					"id": "item-1",
					"title": "Deep Dive",
					"author": "Jo",
					"published": 1756300000,
					"origin": {"title": "Feed A"},
					"summary": {"content": "short excerpt"},
					"content": {"content": "<p>the full body</p>"}
				}]
			}`,
			validate: func(t *testing.T, out string) {
				assert.Contains(t, out, "**Deep Dive**")
				assert.Contains(t, out, "Author: Jo")
				assert.Contains(t, out, "Status: Unread")
				assert.Contains(t, out, "the full body")
				assert.NotContains(t, out, "short excerpt")
			},
		},
		"falls_back_to_summary": {
			payload: `{
				"items": [{
					"id": "item-1",
					"title": "Excerpt Only",
					"summary": {"content": "just the excerpt"}
				}]
			}`,
			validate: func(t *testing.T, out string) {
				assert.Contains(t, out, "just the excerpt")
			},
		},
		"not_found": {
			payload: `{"items": []}`,
			validate: func(t *testing.T, out string) {
				assert.Equal(t, "Article with ID item-1 not found.", out)
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			h := newHandlerFixture(t, func(mux *http.ServeMux) {
				mux.HandleFunc("/stream/items/contents", jsonHandler(tc.payload))
			})

			tc.validate(t, h.GetContent(context.Background(), "item-1"))
		})
	}
}

func TestMarkAsRead_Rendering(t *testing.T) {
	t.Run("empty_input_no_network", func(t *testing.T) {
		h := newHandlerFixture(t, nil)
		assert.Equal(t, "No article IDs provided.", h.MarkAsRead(context.Background(), nil))
	})

	t.Run("all_succeeded", func(t *testing.T) {
		h := newHandlerFixture(t, func(mux *http.ServeMux) {
			mux.HandleFunc("/edit-tag", func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("OK"))
			})
		})
		out := h.MarkAsRead(context.Background(), []string{"a", "b", "c"})
		assert.Equal(t, "Successfully marked 3 article(s) as read.", out)
	})

	t.Run("none_succeeded", func(t *testing.T) {
		h := newHandlerFixture(t, func(mux *http.ServeMux) {
			mux.HandleFunc("/edit-tag", func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("nope"))
			})
		})
		out := h.MarkAsRead(context.Background(), []string{"a", "b"})
		assert.Equal(t, "Failed to mark articles as read.", out)
	})

	t.Run("partial", func(t *testing.T) {
		calls := 0
		h := newHandlerFixture(t, func(mux *http.ServeMux) {
			mux.HandleFunc("/edit-tag", func(w http.ResponseWriter, r *http.Request) {
				calls++
				if calls == 1 {
					w.Write([]byte("OK"))
					return
				}
				w.Write([]byte("nope"))
			})
		})

		ids := make([]string, 25)
		for i := range ids {
			ids[i] = "x"
		}
		out := h.MarkAsRead(context.Background(), ids)
		assert.Equal(t, "Marked 20 out of 25 articles as read.", out)
	})
}

func TestSearchArticles(t *testing.T) {
	h := newHandlerFixture(t, func(mux *http.ServeMux) {
		mux.HandleFunc("/stream/contents/", jsonHandler(`{
			"items": [{"id": "item-1", "title": "Quantum result", "origin": {"title": "Feed A"}}]
		}`))
	})

	out := h.SearchArticles(context.Background(), "quantum", 50, 0)
	assert.Contains(t, out, "Found 1 articles matching 'quantum':")
	assert.Contains(t, out, "Quantum result")

	empty := newHandlerFixture(t, func(mux *http.ServeMux) {
		mux.HandleFunc("/stream/contents/", jsonHandler(`{"items": []}`))
	})
	assert.Equal(t, "No articles found matching 'nothing'",
		empty.SearchArticles(context.Background(), "nothing", 50, 0))
}

func TestSummarize(t *testing.T) {
	h := newHandlerFixture(t, func(mux *http.ServeMux) {
		mux.HandleFunc("/stream/items/contents", jsonHandler(`{
			"items": [{
				"id": "item-1",
				"title": "Long Read",
				"content": {"content": "<p>First point here. Second point there. Third point everywhere. Fourth point ignored.</p>"}
			}]
		}`))
	})

	out := h.Summarize(context.Background(), "item-1")

	assert.Contains(t, out, "**Summary of: Long Read**")
	assert.Contains(t, out, "1. First point here.")
	assert.Contains(t, out, "2. Second point there.")
	assert.Contains(t, out, "3. Third point everywhere.")
	assert.NotContains(t, out, "Fourth point")
}

func TestAnalyze(t *testing.T) {
	fixture := func(mux *http.ServeMux) {
		mux.HandleFunc("/stream/items/contents", jsonHandler(`{
			"items": [
				{"id": "item-1", "title": "Quantum Computing Breakthrough"},
				{"id": "item-2", "title": "Climate Change Breakthrough"}
			]
		}`))
	}

	t.Run("keywords", func(t *testing.T) {
		h := newHandlerFixture(t, fixture)
		out := h.Analyze(context.Background(), []string{"item-1", "item-2"}, "keywords")
		assert.Contains(t, out, "- breakthrough: 2 occurrences")
	})

	t.Run("unknown_type", func(t *testing.T) {
		h := newHandlerFixture(t, fixture)
		out := h.Analyze(context.Background(), []string{"item-1"}, "vibes")
		assert.True(t, strings.HasPrefix(out, "Error: "))
		assert.Contains(t, out, "unknown analysis type: vibes")
	})

	t.Run("empty_ids", func(t *testing.T) {
		h := newHandlerFixture(t, nil)
		assert.Equal(t, "No article IDs provided for analysis.",
			h.Analyze(context.Background(), nil, "keywords"))
	})
}

func TestGetStats(t *testing.T) {
	h := newHandlerFixture(t, func(mux *http.ServeMux) {
		mux.HandleFunc("/unread-count", jsonHandler(`{
			"unreadcounts": [
				{"id": "user/-/state/com.google/reading-list", "count": 42},
				{"id": "feed/https://busy.example/rss", "count": 30},
				{"id": "feed/https://quiet.example/rss", "count": 12},
				{"id": "feed/https://silent.example/rss", "count": 0}
			]
		}`))
	})

	out := h.GetStats(context.Background())

	// Only feed/ streams count; the reading-list aggregate and empty feeds do not.
	assert.Contains(t, out, "Total unread articles: 42")
	assert.Contains(t, out, "- busy.example/rss: 30 unread")
	assert.Contains(t, out, "- quiet.example/rss: 12 unread")
	assert.NotContains(t, out, "silent.example")
	assert.Less(t, strings.Index(out, "busy.example"), strings.Index(out, "quiet.example"))
}

func TestExecute(t *testing.T) {
	h := newHandlerFixture(t, func(mux *http.ServeMux) {
		mux.HandleFunc("/stream/contents/", jsonHandler(`{"items": []}`))
	})

	ctx := context.Background()

	out, err := h.Execute(ctx, "list_articles", map[string]any{
		"limit": float64(10), "unread_only": false,
	})
	require.NoError(t, err)
	assert.Equal(t, "No articles found.", out)

	_, err = h.Execute(ctx, "does_not_exist", nil)
	assert.Error(t, err)
}

func TestTools_ListsAllOperations(t *testing.T) {
	h := newHandlerFixture(t, nil)

	tools := h.Tools()
	require.Len(t, tools, 8)

	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description)
		assert.NotEmpty(t, tool.InputSchema)
	}
	assert.ElementsMatch(t, names, []string{
		"list_feeds", "list_articles", "get_content", "mark_as_read",
		"search", "summarize", "analyze", "get_stats",
	})
}
