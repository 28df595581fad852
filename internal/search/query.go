package search

import (
	"net/url"
	"strings"
)

// Query is one search request.
type Query struct {
	Text string
	// Language is "en" or "es"; empty means "en".
	Language   string
	OpenSearch bool
}

// Version returns the search API version: 2 for open search, else 1.
func Version(openSearch bool) string {
	if openSearch {
		return "2"
	}
	return "1"
}

// Encode returns the query string: lowercased text, percent-encoded as a
// query component with %20 for spaces, plus language and version.
func (q Query) Encode() string {
	lang := q.Language
	if lang == "" {
		lang = "en"
	}
	text := strings.ReplaceAll(url.QueryEscape(strings.ToLower(q.Text)), "+", "%20")
	return "q=" + text + "&language=" + lang + "&version=" + Version(q.OpenSearch)
}

// BuildURL appends the encoded query to the search endpoint.
func BuildURL(searchURL string, q Query) string {
	sep := "?"
	if strings.Contains(searchURL, "?") {
		sep = "&"
	}
	return searchURL + sep + q.Encode()
}
