// Package pageinfo reads the few document-level facts worth recording about a
// downloaded page: its title and canonical link. It does not look at listing
// content.
package pageinfo

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type Info struct {
	Title        string `json:"title,omitempty" yaml:"title,omitempty"`
	CanonicalURL string `json:"canonical_url,omitempty" yaml:"canonical_url,omitempty"`
}

// Inspect parses body as HTML. Malformed markup is tolerated; the parser only
// fails on read errors.
func Inspect(body []byte) (Info, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Info{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	info := Info{
		Title: normalizeText(doc.Find("head title").First().Text()),
	}
	if info.Title == "" {
		info.Title = normalizeText(doc.Find(`meta[property="og:title"]`).AttrOr("content", ""))
	}
	if href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		info.CanonicalURL = strings.TrimSpace(href)
	}
	return info, nil
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
