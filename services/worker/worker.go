package worker

import (
	"context"
	"encoding/json"
	"sync"

	"bgreer104/skuchecker/internal/checker"
	"bgreer104/skuchecker/logger"
	"bgreer104/skuchecker/services/publisher"
)

// Checker is the per-worker check entry point.
type Checker interface {
	Check(ctx context.Context, identifier, site string) checker.CheckResult
}

// CheckerFactory builds one checker per worker goroutine so each worker
// owns an independent transport session.
type CheckerFactory func() Checker

// Worker fans a batch of identifiers out over a bounded pool. Result
// order matches input order (site-major, then identifier) regardless of
// completion order.
type Worker struct {
	ctx         context.Context
	newChecker  CheckerFactory
	sites       []string
	concurrency int
	publisher   publisher.Publisher
	log         *logger.Logger
}

type job struct {
	index      int
	identifier string
	site       string
}

// NewWorker creates a new worker. pub may be nil.
func NewWorker(ctx context.Context, newChecker CheckerFactory, sites []string, concurrency int, pub publisher.Publisher) *Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Worker{
		ctx:         ctx,
		newChecker:  newChecker,
		sites:       sites,
		concurrency: concurrency,
		publisher:   pub,
		log:         logger.ForWorker(),
	}
}

// Run checks every identifier against every site and returns the
// completed results in input order. Cancellation is cooperative: checks
// already started run to completion, the remaining queue is abandoned.
func (w *Worker) Run(identifiers []string) []checker.CheckResult {
	total := len(identifiers) * len(w.sites)
	results := make([]checker.CheckResult, total)
	completed := make([]bool, total)

	jobs := make(chan job)
	go func() {
		defer close(jobs)
		index := 0
		for _, site := range w.sites {
			for _, identifier := range identifiers {
				select {
				case <-w.ctx.Done():
					w.log.Warn().Int("remaining", total-index).Msg("Batch canceled, abandoning remaining checks")
					return
				case jobs <- job{index: index, identifier: identifier, site: site}:
					index++
				}
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			chk := w.newChecker()
			for j := range jobs {
				result := chk.Check(w.ctx, j.identifier, j.site)
				results[j.index] = result
				completed[j.index] = true
				w.publish(result)
			}
		}()
	}
	wg.Wait()

	if w.publisher != nil {
		if err := w.publisher.TrimStream(); err != nil {
			w.log.Error().Err(err).Msg("Failed to trim result stream")
		}
	}

	// Compact away abandoned slots while preserving input order.
	final := make([]checker.CheckResult, 0, total)
	for i, result := range results {
		if completed[i] {
			final = append(final, result)
		}
	}
	return final
}

func (w *Worker) publish(result checker.CheckResult) {
	if w.publisher == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		w.log.Error().Err(err).Msg("Failed to marshal result")
		return
	}
	if err := w.publisher.Publish(result.Site, data); err != nil {
		w.log.Error().Str("site", result.Site).Err(err).Msg("Failed to publish result")
	}
}
