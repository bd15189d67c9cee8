package batch

import (
	"context"
	"sync"

	"github.com/adflow-io/adflow/internal/script"
	"github.com/adflow-io/adflow/internal/validate"
)

// fileJob represents a single PDF conversion job.
type fileJob struct {
	index int
	path  string
}

// fileResult carries one finished item back to the collector.
type fileResult struct {
	index int
	item  Item
}

// processFiles converts files on a bounded worker pool and returns items in
// input order. Each worker owns its parser. On cancellation the returned
// slice is partial; the caller checks the context.
func processFiles(ctx context.Context, files []string, config *Config, progress ProgressCallback) []Item {
	workers := workerCount(config.Workers, len(files))

	progress.OnStart(len(files))
	defer progress.OnComplete()

	jobs := make(chan fileJob, len(files))
	results := make(chan fileResult, len(files))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(ctx, parseFunc(config), config.Validate, jobs, results)
		}()
	}

	// Send jobs
	go func() {
		defer close(jobs)
		for i, path := range files {
			select {
			case jobs <- fileJob{index: i, path: path}:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Close results once all workers are done
	go func() {
		wg.Wait()
		close(results)
	}()

	items := make([]Item, len(files))
	for i, path := range files {
		items[i] = Item{Path: path}
	}

	done := 0
	for res := range results {
		items[res.index] = res.item
		done++
		if res.item.Err != nil {
			progress.OnError(done, res.item.Err)
		}
		progress.OnProgress(done, len(files))
	}

	return items
}

// parseFunc returns the parse step for one worker.
func parseFunc(config *Config) func(path string) (*script.Result, error) {
	if config.parseFile != nil {
		return config.parseFile
	}
	return script.NewParser(config.ParseOptions).Parse
}

// worker converts files from the jobs channel until it closes or the
// context is cancelled.
func worker(ctx context.Context, parse func(string) (*script.Result, error), validateEntries bool,
	jobs <-chan fileJob, results chan<- fileResult,
) {
	for {
		select {
		case job, ok := <-jobs:
			if !ok {
				return
			}

			item := processFile(parse, validateEntries, job.path)

			select {
			case results <- fileResult{index: job.index, item: item}:
			case <-ctx.Done():
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// processFile runs one parse and, when asked, the anchor/syllable check.
func processFile(parse func(string) (*script.Result, error), validateEntries bool, path string) Item {
	item := Item{Path: path}

	res, err := parse(path)
	if err != nil {
		item.Err = err
		return item
	}

	item.Result = res
	if validateEntries {
		v := validate.Compare(res)
		item.Validation = &v
	}
	return item
}
