// Package concurrency provides a bounded worker pool that preserves input
// order in its results. The sync and ingestion paths stay strictly
// sequential; this is only for independent side work like link checking.
package concurrency

import (
	"context"
	"sync"
)

// Map runs fn over items with at most maxWorkers in flight and returns the
// results in input order. Errors are collected per item and do not stop the
// other workers.
func Map[T any, R any](
	ctx context.Context,
	items []T,
	maxWorkers int,
	fn func(ctx context.Context, index int, item T) (R, error),
) ([]R, []error) {
	results := make([]R, len(items))
	errs := make([]error, len(items))
	if len(items) == 0 {
		return results, nil
	}
	if maxWorkers <= 0 {
		maxWorkers = 10
	}
	if maxWorkers > len(items) {
		maxWorkers = len(items)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				select {
				case <-ctx.Done():
					errs[i] = ctx.Err()
				default:
					results[i], errs[i] = fn(ctx, i, items[i])
				}
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	// Drop the nil entries so callers can test len(errs) == 0.
	compact := errs[:0]
	for _, err := range errs {
		if err != nil {
			compact = append(compact, err)
		}
	}
	return results, compact
}
