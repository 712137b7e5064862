package engine

import "regexp"

// videoIDRe matches a v= query parameter or a path segment followed by
// exactly 11 ID characters (letters, digits, hyphen, underscore).
var videoIDRe = regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})`)

// ExtractVideoID pulls the 11-character video ID out of a free-form
// YouTube URL. Returns "" when nothing in the string looks like an ID.
// Handles both the watch?v=<id> and youtu.be/<id> forms.
func ExtractVideoID(raw string) string {
	m := videoIDRe.FindStringSubmatch(raw)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
