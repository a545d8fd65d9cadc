package websearch

import (
	"fmt"
	"strings"
)

// FormatContext renders results as a prompt-prefix block for injection ahead
// of the user's message. Empty input yields an empty string.
func FormatContext(results []Result) string {
	if len(results) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("## Web Search Results\n\n")
	b.WriteString("The following information was found from a web search. Use this to inform your response:\n\n")

	for i, r := range results {
		fmt.Fprintf(&b, "### [%d] %s\n", i+1, r.Title)
		fmt.Fprintf(&b, "Source: %s\n", r.URL)
		fmt.Fprintf(&b, "%s\n\n", r.Content)
	}

	b.WriteString("---\n\n")
	b.WriteString("Based on the above search results and your knowledge, please respond to the user's question.\n\n")

	return b.String()
}

// FormatCitations renders a short citation list for appending to the text
// shown to the end user. Empty input yields an empty string.
func FormatCitations(results []Result) string {
	if len(results) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\n---\n**Sources:**\n")
	for _, r := range results {
		fmt.Fprintf(&b, "• [%s](%s)\n", r.Title, r.URL)
	}

	return b.String()
}
