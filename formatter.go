package postharvest

import (
	"fmt"
	"strings"
)

// FormatSummary formats a batch summary for terminal output.
// Failed entries are listed after the totals.
func FormatSummary(s *BatchSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total posts: %d\n", s.Total)
	fmt.Fprintf(&b, "Successful: %d\n", s.Successful)
	fmt.Fprintf(&b, "Failed: %d\n", s.Failed)
	fmt.Fprintf(&b, "Success rate: %.1f%%\n", s.SuccessRate())

	if len(s.Errors) > 0 {
		b.WriteString("\nErrors:\n")
		for _, e := range s.Errors {
			fmt.Fprintf(&b, "  %s: %s\n", e.Slug, e.Error)
		}
	}

	return b.String()
}
