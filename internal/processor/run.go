package processor

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/topherjaynes/Screenshot-Holmes/internal/classify"
	"github.com/topherjaynes/Screenshot-Holmes/internal/vision"
)

// DefaultWorkers is the batch parallelism. The pipeline is API-bound, not
// CPU-bound, so this stays small.
const DefaultWorkers = 4

// DefaultCollisionMax bounds the numeric-suffix search for a free name.
const DefaultCollisionMax = 1000

// Runner drives a batch of rename transactions over one folder.
type Runner struct {
	Extractor vision.ContentExtractor
	Namer     vision.Namer

	Workers      int
	Resize       bool
	CollisionMax int

	// Order optionally sorts the snapshot before dispatch. Directory
	// enumeration order is unspecified; tests inject a lexicographic sort
	// to get deterministic runs.
	Order func([]Candidate)

	// OnResult, when set, observes each terminal result as it lands. Calls
	// are serialized. Used to stream audit rows.
	OnResult func(Result)

	renameMu sync.Mutex
	claimed  map[string]struct{}
}

// Snapshot lists folder once and returns the screenshot candidates. Files
// renamed later in the batch never become new candidates, because the
// listing is never re-read.
func Snapshot(folder string, cls *classify.Classifier) ([]Candidate, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, err
	}

	var candidates []Candidate
	for _, entry := range entries {
		if entry.IsDir() || !entry.Type().IsRegular() {
			continue
		}
		if !cls.IsScreenshot(entry.Name()) {
			continue
		}
		cand := Candidate{
			Path:     filepath.Join(folder, entry.Name()),
			Filename: entry.Name(),
		}
		if info, err := entry.Info(); err == nil {
			cand.SizeBytes = info.Size()
		}
		candidates = append(candidates, cand)
	}
	return candidates, nil
}

// Run processes every candidate from the snapshot through the rename
// transaction with a bounded worker pool. One candidate failing never stops
// the others. Cancelling ctx stops dispatching new candidates; transactions
// already in flight run to a terminal state.
func (r *Runner) Run(ctx context.Context, folder string, cls *classify.Classifier, updates chan<- ProgressUpdate) (Summary, []Result, error) {
	candidates, err := Snapshot(folder, cls)
	if err != nil {
		return Summary{}, nil, err
	}
	if r.Order != nil {
		r.Order(candidates)
	}

	workers := r.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > len(candidates) && len(candidates) > 0 {
		workers = len(candidates)
	}

	jobs := make(chan Candidate)
	results := make(chan Result)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for cand := range jobs {
				results <- r.process(ctx, cand)
			}
		}()
	}

	summary := Summary{}
	var all []Result
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for res := range results {
			summary.Total++
			update := ProgressUpdate{}
			switch res.Status {
			case StatusSuccess:
				summary.Succeeded++
				update.SucceededDelta = 1
			case StatusSkipped:
				summary.Skipped++
				update.SkippedDelta = 1
			default:
				summary.Failed++
				update.FailedDelta = 1
			}
			if r.OnResult != nil {
				r.OnResult(res)
			}
			all = append(all, res)
			if updates != nil {
				updates <- update
			}
		}
	}()

	if updates != nil {
		updates <- ProgressUpdate{TotalDelta: len(candidates)}
	}

dispatch:
	for _, cand := range candidates {
		if ctx.Err() != nil {
			break
		}
		select {
		case jobs <- cand:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)

	wg.Wait()
	close(results)
	<-collectorDone

	return summary, all, nil
}
