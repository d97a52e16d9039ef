package remote

import (
	"context"
)

var _ Executor = &LocalExecutor{}

// LocalExecutor runs Calls in-process against a single actor. Its Outcomes have the
// same shape as those of a remote worker, but failed Outcomes keep their original error.
type LocalExecutor struct {
	actor *actor
}

// NewLocalExecutor creates an actor for handler
func NewLocalExecutor(handler Handler) (*LocalExecutor, error) {
	a, err := newActor(handler)
	if err != nil {
		return nil, err
	}
	return &LocalExecutor{actor: a}, nil
}

// Submit runs call in its own goroutine
func (e *LocalExecutor) Submit(ctx context.Context, call Call) *Future {
	return newFuture(ctx, e, func(ctx context.Context) (Outcome, error) {
		return e.actor.call(ctx, call), nil
	})
}

// Release destroys the value stored under key
func (e *LocalExecutor) Release(ctx context.Context, key string) error {
	return e.actor.release(key)
}

// Resident returns the number of values currently stored, roots included
func (e *LocalExecutor) Resident() int {
	return e.actor.size()
}

// Close releases every value and closes the Handler
func (e *LocalExecutor) Close() error {
	return e.actor.close()
}
