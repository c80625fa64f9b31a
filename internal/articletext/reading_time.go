package articletext

import (
	"fmt"
	"math"
	"strings"
)

const WordsPerMinute = 200

func WordCount(html string) int {
	return len(strings.Fields(PlainText(html)))
}

// ReadingTime formats the estimated reading duration, e.g. "3 min read".
func ReadingTime(html string) string {
	words := WordCount(html)
	if words == 0 {
		return "1 min read"
	}

	minutes := int(math.Ceil(float64(words) / WordsPerMinute))
	switch {
	case minutes < 1:
		return "< 1 min read"
	case minutes == 1:
		return "1 min read"
	default:
		return fmt.Sprintf("%d min read", minutes)
	}
}
