package batch

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Summary renders a per-file report with totals. Failed files show their
// error; validated files show the anchor/syllable verdict.
func (r *Result) Summary() string {
	var b strings.Builder

	for _, item := range r.Items {
		name := filepath.Base(item.Path)
		switch {
		case item.Err != nil:
			fmt.Fprintf(&b, "  ✗ %s: %v\n", name, item.Err)
		case item.Validation != nil:
			fmt.Fprintf(&b, "  ✓ %s: %d entries | %s\n", name, len(item.Result.Entries), item.Validation.Summary())
		default:
			fmt.Fprintf(&b, "  ✓ %s: %d entries\n", name, len(item.Result.Entries))
		}
	}

	b.WriteString("\nBatch statistics:\n")
	fmt.Fprintf(&b, "  Files: %d (%d ok, %d failed)\n", len(r.Items), r.Succeeded(), r.Failed())
	fmt.Fprintf(&b, "  Entries: %d\n", r.TotalEntries())
	fmt.Fprintf(&b, "  Workers: %d\n", r.WorkerCount)
	fmt.Fprintf(&b, "  Duration: %v\n", r.Duration.Round(time.Millisecond))
	if r.Duration > 0 {
		fmt.Fprintf(&b, "  Throughput: %.1f files/sec\n", float64(len(r.Items))/r.Duration.Seconds())
	}

	return b.String()
}
