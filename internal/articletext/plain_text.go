// Package articletext derives display-only content from an article's HTML body.
package articletext

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// blockElements are padded with spaces before text extraction so adjacent
// blocks and table cells do not fuse into one word.
const blockElements = `address|article|aside|blockquote|br|caption|dd|div|dl|dt|` +
	`figcaption|figure|footer|h1|h2|h3|h4|h5|h6|header|hr|li|main|nav|ol|p|pre|` +
	`section|table|tbody|td|tfoot|th|thead|tr|ul`

var (
	htmlTagRegex   = regexp.MustCompile(`<[^>]*>`)
	blockOpenRegex = regexp.MustCompile(`(?i)<(?:` + blockElements + `)\b[^>]*>`)
	blockEndRegex  = regexp.MustCompile(`(?i)</(?:` + blockElements + `)\s*>`)
)

// PlainText strips markup from html and collapses whitespace runs into
// single spaces. Block elements are padded so adjacent blocks do not fuse.
func PlainText(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}

	spaced := blockOpenRegex.ReplaceAllString(html, " $0")
	spaced = blockEndRegex.ReplaceAllString(spaced, "$0 ")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(spaced))
	if err != nil {
		return squish(htmlTagRegex.ReplaceAllString(spaced, " "))
	}
	doc.Find("script, style").Remove()

	return squish(doc.Text())
}

func squish(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Truncate shortens text to at most maxLen characters, ending with "..."
// when anything was cut.
func Truncate(text string, maxLen int) string {
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}
	runes := []rune(text)
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
