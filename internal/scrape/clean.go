package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CleanText collapses whitespace and non-breaking spaces into single spaces.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// StripHTML extracts readable text from an HTML fragment. Script, style and
// head content is dropped entirely. Invalid markup degrades to whatever text
// the parser can salvage; scraped upstream data is never trusted to be
// well-formed.
func StripHTML(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return CleanText(html)
	}

	doc.Find("script, style, head, noscript").Remove()

	return CleanText(doc.Text())
}
