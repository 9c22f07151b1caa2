package gate

import (
	"fmt"
	"strings"

	"searchgate/core/types"
)

const snippetLimit = 200

// FormatForAI renders results as the block injected into the agent's context
func FormatForAI(query string, results []types.SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[Web Search: %q]\n", query)
	if len(results) == 0 {
		b.WriteString("No results.\n")
		return b.String()
	}
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, r.Title, r.URL)
		if r.Snippet != "" {
			fmt.Fprintf(&b, "   %s\n", truncate(r.Snippet, snippetLimit))
		}
	}
	return b.String()
}

// FormatForUser renders results for the human-visible feed
func FormatForUser(query string, results []types.SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d results for %q:\n\n", len(results), query)

	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r.Title)
		fmt.Fprintf(&b, "   URL: %s\n", r.URL)
		if r.Snippet != "" {
			fmt.Fprintf(&b, "   %s\n", truncate(r.Snippet, snippetLimit))
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
