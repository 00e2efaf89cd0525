package examscan

import (
	"context"
	"runtime"
	"sync"

	"github.com/tsawler/examscan/detector"
	"github.com/tsawler/examscan/model"
)

// FileAnalysis is the outcome for one file of a batch.
type FileAnalysis struct {
	Source   string
	Analysis Analysis
	Err      error
}

// DetectAll classifies pages concurrently with the default configuration.
// Results are in input order.
func DetectAll(pages []*model.RecognizedPage, workers int) []detector.Result {
	return New().DetectAll(pages, workers)
}

// DetectAll classifies pages concurrently with at most workers goroutines.
// A worker count below one uses the number of CPUs. Results are in input
// order and equal to classifying each page alone.
func (s *Scanner) DetectAll(pages []*model.RecognizedPage, workers int) []detector.Result {
	d := s.options.newDetector()
	results := make([]detector.Result, len(pages))
	forEach(context.Background(), len(pages), workers, func(i int) {
		results[i] = d.Detect(pages[i])
	})
	return results
}

// AnalyzeFiles reads, classifies and segments files concurrently. Results
// are in input order; a file that cannot be read carries its error. Files
// not yet started when ctx is done carry ctx's error.
func (s *Scanner) AnalyzeFiles(ctx context.Context, filenames []string, workers int) []FileAnalysis {
	out := make([]FileAnalysis, len(filenames))
	for i, name := range filenames {
		out[i].Source = name
	}
	if s.err != nil {
		for i := range out {
			out[i].Err = s.err
		}
		return out
	}

	forEach(ctx, len(filenames), workers, func(i int) {
		if err := ctx.Err(); err != nil {
			out[i].Err = err
			return
		}
		page, err := LoadPage(filenames[i])
		if err != nil {
			out[i].Err = err
			return
		}
		out[i].Analysis = s.analyze(page)
	})
	return out
}

// forEach runs fn for every index in [0,n) on at most workers goroutines.
// Indexes not started when ctx is done are still passed to fn so it can
// record the cancellation.
func forEach(ctx context.Context, n, workers int, fn func(i int)) {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				fn(i)
				return
			}
			defer func() { <-sem }()
			fn(i)
		}(i)
	}
	wg.Wait()
}
