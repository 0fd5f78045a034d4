package text

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Sanitize strips HTML markup from a catalog description and decodes HTML
// entities, returning plain text suitable for storage and display.
// Whitespace runs left behind by removed tags are collapsed to single spaces.
// Input that fails to parse as HTML is returned with entities decoded only.
func Sanitize(raw string) string {
	if raw == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return collapseWhitespace(html.UnescapeString(raw))
	}

	// <br> separates paragraphs in AniList descriptions; turn them into
	// spaces before extracting text so words don't run together.
	doc.Find("br").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml(" ")
	})

	return collapseWhitespace(doc.Text())
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
