// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"sync"

	dErrors "kycmint/pkg/domain-errors"
)

// ConcurrentResult counts the outcomes of a concurrent run. Failures are
// keyed by domain error code; errors without one count as internal_error.
type ConcurrentResult struct {
	mu        sync.Mutex
	Successes int
	Failures  map[dErrors.Code]int
}

// Total is the number of calls that returned.
func (r *ConcurrentResult) Total() int {
	total := r.Successes
	for _, n := range r.Failures {
		total += n
	}
	return total
}

// FailuresWith returns how many calls failed with code.
func (r *ConcurrentResult) FailuresWith(code dErrors.Code) int {
	return r.Failures[code]
}

func (r *ConcurrentResult) record(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		r.Successes++
		return
	}
	r.Failures[dErrors.CodeOf(err)]++
}

// RunConcurrent calls fn from n goroutines released together and waits for
// all of them.
func RunConcurrent(n int, fn func(idx int) error) *ConcurrentResult {
	result := &ConcurrentResult{Failures: make(map[dErrors.Code]int)}
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			<-start
			result.record(fn(idx))
		}(i)
	}
	close(start)
	wg.Wait()
	return result
}

// RunConcurrentCtx is RunConcurrent with a shared context.
func RunConcurrentCtx(ctx context.Context, n int, fn func(ctx context.Context, idx int) error) *ConcurrentResult {
	return RunConcurrent(n, func(idx int) error {
		return fn(ctx, idx)
	})
}
