// ABOUTME: HTML stripping for article summaries and bodies
// ABOUTME: Produces plain text suitable for rendering and analysis

package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy removes every tag, leaving text content only.
// bluemonday policies are safe for concurrent use.
var strictPolicy = bluemonday.StrictPolicy()

// StripHTML removes all markup from content and unescapes HTML entities,
// returning trimmed plain text.
func StripHTML(content string) string {
	if content == "" {
		return ""
	}
	stripped := strictPolicy.Sanitize(content)
	return strings.TrimSpace(html.UnescapeString(stripped))
}

// TruncateText shortens s to at most max runes, appending an ellipsis
// marker when anything was cut.
func TruncateText(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
