package engine

import (
	"html"
	"regexp"
	"strings"
)

// User-Agent for plain (non-fingerprinted) HTTP calls.
const UserAgentBot = "GoTube/1.0"

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// CleanHTML strips tags, decodes HTML entities, and trims whitespace.
// Caption lines carry both (&amp;#39;, <i>, line-level markup).
func CleanHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(s))
}

// Truncate returns the first n bytes of s.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
