package powertrack

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sunwatt-io/powertrack/internal/constants"
)

// RetryOptions controls the Retry wrapper.
type RetryOptions struct {
	// Retries is the number of additional attempts after the first failure.
	// Negative values are treated as zero.
	Retries int

	// Backoff is the base delay before the first retry; each subsequent retry
	// doubles it. Defaults to 500ms.
	Backoff time.Duration

	// Timeout, when positive, bounds each individual attempt via a context
	// deadline.
	Timeout time.Duration
}

// DefaultRetryOptions returns the options used when zero values are supplied.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		Retries: constants.DefaultOperationRetries,
		Backoff: constants.DefaultRetryBackoff,
	}
}

// Retry runs op up to opts.Retries+1 times, sleeping with exponential backoff
// between failures. The first success wins; after exhaustion the last error is
// returned. Context cancellation aborts both the attempt and the backoff wait.
func Retry[T any](ctx context.Context, op func(context.Context) (T, error), opts RetryOptions) (T, error) {
	var zero T

	retries := opts.Retries
	if retries < 0 {
		retries = 0
	}

	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = constants.DefaultRetryBackoff
	}

	var lastErr error

	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			wait := backoff << (attempt - 1)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return zero, fmt.Errorf("retry aborted: %w", ctx.Err())
			}
		}

		attemptCtx := ctx

		var cancel context.CancelFunc
		if opts.Timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		}

		value, err := op(attemptCtx)

		if cancel != nil {
			cancel()
		}

		if err == nil {
			return value, nil
		}

		lastErr = err

		if ctx.Err() != nil {
			return zero, fmt.Errorf("retry aborted: %w", ctx.Err())
		}
	}

	return zero, lastErr
}

// BatchOptions controls ParallelMap.
type BatchOptions struct {
	// Workers bounds concurrency. Values below 1 fall back to the default.
	Workers int

	// Retries, Backoff, and Timeout are applied per item via Retry.
	Retries int
	Backoff time.Duration
	Timeout time.Duration
}

// DefaultBatchOptions returns the options used when zero values are supplied.
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{
		Workers: constants.DefaultBatchWorkers,
		Retries: constants.DefaultOperationRetries,
		Backoff: constants.DefaultRetryBackoff,
	}
}

// ItemResult is the outcome of one item in a ParallelMap run.
type ItemResult[I, R any] struct {
	Item     I
	Value    R
	Err      error
	Success  bool
	Duration time.Duration
}

// ParallelMap runs op over items with a bounded worker pool and returns one
// result per item in completion order. Item failures (including worker panics)
// are captured in the corresponding result; they never abort the run or cancel
// other items.
func ParallelMap[I, R any](ctx context.Context, items []I, op func(context.Context, I) (R, error), opts BatchOptions) []ItemResult[I, R] {
	workers := opts.Workers
	if workers < 1 {
		workers = constants.DefaultBatchWorkers
	}

	retryOpts := RetryOptions{
		Retries: opts.Retries,
		Backoff: opts.Backoff,
		Timeout: opts.Timeout,
	}

	resultCh := make(chan ItemResult[I, R], len(items))
	semaphore := make(chan struct{}, workers)

	var waitGroup sync.WaitGroup

	for _, item := range items {
		waitGroup.Add(1)

		go func(item I) {
			defer waitGroup.Done()

			semaphore <- struct{}{}

			defer func() { <-semaphore }()

			start := time.Now()
			result := runItem(ctx, item, op, retryOpts)
			result.Duration = time.Since(start)
			resultCh <- result
		}(item)
	}

	waitGroup.Wait()
	close(resultCh)

	results := make([]ItemResult[I, R], 0, len(items))
	for result := range resultCh {
		results = append(results, result)
	}

	return results
}

// runItem executes one item, converting panics into failure results.
func runItem[I, R any](ctx context.Context, item I, op func(context.Context, I) (R, error), opts RetryOptions) (result ItemResult[I, R]) {
	result.Item = item

	defer func() {
		if recovered := recover(); recovered != nil {
			result.Success = false
			result.Err = fmt.Errorf("%w: %v", ErrWorkerPanic, recovered)
		}
	}()

	value, err := Retry(ctx, func(attemptCtx context.Context) (R, error) {
		return op(attemptCtx, item)
	}, opts)

	result.Value = value
	result.Err = err
	result.Success = err == nil

	return result
}

// Failed filters a result set down to the failures.
func Failed[I, R any](results []ItemResult[I, R]) []ItemResult[I, R] {
	var failed []ItemResult[I, R]

	for _, result := range results {
		if !result.Success {
			failed = append(failed, result)
		}
	}

	return failed
}
