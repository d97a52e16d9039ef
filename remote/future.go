package remote

import (
	"context"
	"time"

	"github.com/go-sif/optimus/errors"
)

// DefaultTimeout bounds Future.Result when no positive timeout is given
const DefaultTimeout = 600 * time.Second

// Future is the pending Outcome of a submitted Call
type Future struct {
	executor Executor
	done     chan struct{}
	outcome  Outcome
	err      error
	cancel   context.CancelFunc
}

// newFuture runs fn in its own goroutine. Its context is cancelled when fn returns, or when
// the Future is abandoned by a timeout.
func newFuture(ctx context.Context, executor Executor, fn func(ctx context.Context) (Outcome, error)) *Future {
	ctx, cancel := context.WithCancel(ctx)
	f := &Future{executor: executor, done: make(chan struct{}), cancel: cancel}
	go func() {
		defer close(f.done)
		defer cancel()
		f.outcome, f.err = fn(ctx)
	}()
	return f
}

// failedFuture is a Future which is already complete
func failedFuture(executor Executor, err error) *Future {
	f := &Future{executor: executor, done: make(chan struct{}), err: err, cancel: func() {}}
	close(f.done)
	return f
}

// Done is closed once the Outcome is available
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Outcome waits for the raw Outcome. An error is returned if the transport failed or ctx expired.
func (f *Future) Outcome(ctx context.Context) (Outcome, error) {
	select {
	case <-f.done:
		return f.outcome, f.err
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// Result waits up to timeout (DefaultTimeout when timeout <= 0) and interprets the Outcome.
// On timeout the underlying call is cancelled on a best effort basis; the executor may still
// complete it.
func (f *Future) Result(timeout time.Duration) (Result, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-f.done:
	case <-timer.C:
		f.cancel()
		return nil, errors.TimeoutError{Timeout: timeout}
	}
	if f.err != nil {
		return nil, f.err
	}
	return Interpret(f.executor, f.outcome)
}
