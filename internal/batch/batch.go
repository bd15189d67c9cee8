// Package batch converts many AD script PDFs in one run: input discovery
// with include/exclude patterns, a bounded worker pool with per-file outcome
// capture, and a printable summary.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/adflow-io/adflow/internal/common"
)

// Process discovers PDF inputs and converts them on a worker pool. A file
// that fails to parse records its error in the item; only discovery failure,
// an empty input set, or context cancellation abort the whole run.
func Process(ctx context.Context, inputs []string, config *Config) (*Result, error) {
	files, err := discoverPDFFiles(inputs, config.Recursive, config.IncludePatterns, config.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to discover PDF files: %w", err)
	}

	if len(files) == 0 {
		return nil, errors.New("no PDF files found")
	}

	progress := config.Progress
	if progress == nil {
		progress = NoOpProgressCallback{}
	}

	timer := common.NewNamedTimer("batch")
	items := processFiles(ctx, files, config, progress)
	duration := timer.Stop()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Result{
		Items:       items,
		Duration:    duration,
		WorkerCount: workerCount(config.Workers, len(files)),
	}, nil
}

// workerCount clamps the configured worker count to the job count, with
// NumCPU as the unset default.
func workerCount(configured, jobs int) int {
	workers := configured
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > jobs {
		workers = jobs
	}
	return workers
}
