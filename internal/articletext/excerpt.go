package articletext

import (
	"regexp"
	"strings"
)

const (
	DefaultSentenceCount = 2
	FallbackLength       = 150
)

var sentenceRegex = regexp.MustCompile(`[^.!?]+[.!?]+`)

// Excerpt returns the first count sentences of the body's plain text.
// Text without sentence terminators falls back to its first FallbackLength
// characters.
func Excerpt(html string, count int) string {
	if count < 1 {
		count = 1
	}

	text := PlainText(html)
	if text == "" {
		return ""
	}

	sentences := Sentences(text)
	switch {
	case len(sentences) >= count:
		return strings.Join(sentences[:count], " ")
	case len(sentences) > 0:
		return strings.Join(sentences, " ")
	default:
		return Truncate(text, FallbackLength)
	}
}

// Sentences splits plain text on runs of '.', '!' and '?'. A trailing
// fragment without a terminator is dropped.
func Sentences(text string) []string {
	matches := sentenceRegex.FindAllString(text, -1)
	sentences := make([]string, 0, len(matches))
	for _, m := range matches {
		sentences = append(sentences, strings.TrimSpace(m))
	}
	return sentences
}
