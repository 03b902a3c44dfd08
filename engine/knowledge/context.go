package knowledge

import (
	"fmt"
	"strings"
)

// FormatContext concatenates search results into the grounding section of
// the generation prompt. No re-ranking happens here; results are rendered
// in search order. An empty result set yields the empty string, in which
// case generation proceeds ungrounded.
func FormatContext(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Here is relevant information from the knowledge base:\n")
	for i, r := range results {
		fmt.Fprintf(&b, "\n[Source %d - Relevance: %.2f]\n", i+1, 1-r.Distance)
		fmt.Fprintf(&b, "Category: %s\n", r.Category)
		fmt.Fprintf(&b, "Q: %s\n", r.Question)
		fmt.Fprintf(&b, "A: %s\n", r.Answer)
	}
	return b.String()
}
