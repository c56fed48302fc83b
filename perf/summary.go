package perf

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/evergreen-ci/speedup/util"
	"github.com/pkg/errors"
)

func (c *Comparison) sortedForSummary(entries []Entry) []Entry {
	out := append([]Entry{}, entries...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Units < out[j].Units
	})
	return out
}

// WriteSummary writes the speedup and efficiency table followed by
// the best speedup and best efficiency lines.
func (c *Comparison) WriteSummary(w io.Writer) error {
	lines := []string{
		"",
		fmt.Sprintf("=== PERFORMANCE SUMMARY for %s workload ===", c.Label),
		fmt.Sprintf("%-12s %-12s %-6s %-10s %-8s %-10s", "Type", "Config", "Units", "Time (s)", "Speedup", "Efficiency"),
		strings.Repeat("-", 70),
	}
	for _, e := range c.sortedForSummary(c.Scaled()) {
		lines = append(lines, fmt.Sprintf("%-12s %-12s %-6d %-10.6f %-8.2f %-10.3f",
			e.Kind, e.Config, e.Units, e.Time, e.Speedup, e.Efficiency))
	}

	if e, ok := c.BestSpeedup(); ok {
		lines = append(lines, "", fmt.Sprintf("Best speedup: %s with %d units -> %.2fx", e.Kind, e.Units, e.Speedup))
	}
	if e, ok := c.BestEfficiency(); ok {
		lines = append(lines, fmt.Sprintf("Best efficiency: %s with %d units -> %.3f", e.Kind, e.Units, e.Efficiency))
	}

	return errors.Wrap(util.Fprintln(w, strings.Join(lines, "\n")), "writing summary")
}

// WriteTimeSummary writes the execution time table and the best time.
func (c *Comparison) WriteTimeSummary(w io.Writer) error {
	lines := []string{
		"",
		fmt.Sprintf("=== TIME SUMMARY for %s workload ===", c.Label),
		fmt.Sprintf("%-12s %-12s %-6s %-10s", "Type", "Config", "Units", "Time (s)"),
		strings.Repeat("-", 50),
	}
	for _, e := range c.sortedForSummary(c.Entries) {
		lines = append(lines, fmt.Sprintf("%-12s %-12s %-6d %-10.6f", e.Kind, e.Config, e.Units, e.Time))
	}

	if e, ok := c.BestTime(); ok {
		lines = append(lines, "", fmt.Sprintf("Best time: %s with %d units -> %.6fs", e.Kind, e.Units, e.Time))
	}

	return errors.Wrap(util.Fprintln(w, strings.Join(lines, "\n")), "writing summary")
}
