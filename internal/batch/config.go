package batch

import (
	"time"

	"github.com/adflow-io/adflow/internal/script"
	"github.com/adflow-io/adflow/internal/validate"
)

// Config holds all configuration for batch conversion.
type Config struct {
	// Parse settings
	ParseOptions script.Options
	Validate     bool

	// Parallel processing settings
	Workers int // 0 = runtime.NumCPU()

	// File discovery settings
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// Progress settings
	Progress ProgressCallback

	// parseFile overrides the per-file parse step. Tests use it to supply
	// canned results without PDF fixtures.
	parseFile func(path string) (*script.Result, error)
}

// Item is the outcome for a single input file. Exactly one of Result and Err
// is set; Validation is present only when the config asked for it.
type Item struct {
	Path       string
	Result     *script.Result
	Validation *validate.Result
	Err        error
}

// Result holds the outcome of one batch run.
type Result struct {
	Items       []Item
	Duration    time.Duration
	WorkerCount int
}

// Succeeded returns the number of files that parsed without error.
func (r *Result) Succeeded() int {
	n := 0
	for _, item := range r.Items {
		if item.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the number of files whose parse failed.
func (r *Result) Failed() int {
	return len(r.Items) - r.Succeeded()
}

// TotalEntries returns the entry count across all successful files.
func (r *Result) TotalEntries() int {
	n := 0
	for _, item := range r.Items {
		if item.Result != nil {
			n += len(item.Result.Entries)
		}
	}
	return n
}
