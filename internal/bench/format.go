package bench

import (
	"fmt"
	"strings"
)

// targetReduction is the round-trip saving the engine is expected to
// deliver on modification requests.
const targetReduction = 50.0

// Format renders the report as the table the bench command prints.
func (rep *Report) Format() string {
	var b strings.Builder

	b.WriteString("Smart Context Benchmark\n")
	b.WriteString(strings.Repeat("=", 86) + "\n")
	fmt.Fprintf(&b, "%-42s %-6s %-6s %-8s %-10s %-8s\n",
		"Query", "Found", "Files", "Tokens", "Calls", "Saved")
	b.WriteString(strings.Repeat("-", 86) + "\n")

	for _, r := range rep.Results {
		query := r.Query.Text
		if len(query) > 39 {
			query = query[:39] + "..."
		}
		found := "yes"
		if !r.Found {
			found = "NO"
		}
		fmt.Fprintf(&b, "%-42s %-6s %-6d %-8d %-10s %-8s\n",
			query, found, len(r.FullFiles), r.Tokens,
			fmt.Sprintf("%d -> %d", r.Query.BaselineCalls, afterCalls),
			fmt.Sprintf("%.0f%%", r.CallReduction()))
	}
	b.WriteString(strings.Repeat("-", 86) + "\n")

	hits := 0
	for _, r := range rep.Results {
		if r.Found {
			hits++
		}
	}
	fmt.Fprintf(&b, "Hit rate: %d/%d\n", hits, len(rep.Results))
	fmt.Fprintf(&b, "Average call reduction: %.1f%%\n", rep.AvgCallReduction())

	verdict := "PASS"
	if rep.AvgCallReduction() < targetReduction || hits != len(rep.Results) {
		verdict = "FAIL"
	}
	fmt.Fprintf(&b, "Target (every file found, >= %.0f%% fewer calls): %s\n", targetReduction, verdict)

	return b.String()
}
