package sources

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// VideoMeta holds the display metadata of a video, parsed from the watch
// page head or the player response.
type VideoMeta struct {
	Title   string
	Channel string
}

// ParseVideoMeta extracts title and channel from watch page HTML meta tags.
// YouTube emits the title as og:title and the channel name as a
// <link itemprop="name"> inside the author span. Returns nil when neither
// could be found.
func ParseVideoMeta(body []byte) *VideoMeta {
	var meta VideoMeta

	z := html.NewTokenizer(bytes.NewReader(body))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		tok := z.Token()
		switch tok.Data {
		case "meta":
			name, content := attrPair(tok, "property", "content")
			if name == "" {
				name, content = attrPair(tok, "name", "content")
			}
			if (name == "og:title" || name == "title") && meta.Title == "" {
				meta.Title = strings.TrimSpace(content)
			}
		case "link":
			// The channel name is a <link itemprop="name"> inside the
			// author span, which lives in the body.
			itemprop, content := attrPair(tok, "itemprop", "content")
			if itemprop == "name" && meta.Channel == "" {
				meta.Channel = strings.TrimSpace(content)
			}
		}
		if meta.Title != "" && meta.Channel != "" {
			break
		}
	}
	if meta.Title == "" && meta.Channel == "" {
		return nil
	}
	return &meta
}

// attrPair returns the values of two attributes of a token, keyed by the
// first attribute's name.
func attrPair(tok html.Token, keyAttr, valAttr string) (string, string) {
	var key, val string
	for _, a := range tok.Attr {
		switch a.Key {
		case keyAttr:
			key = a.Val
		case valAttr:
			val = a.Val
		}
	}
	return key, val
}
