package remote

import (
	"context"
	"time"
)

// Executor runs Calls on behalf of a Bridge
type Executor interface {
	// Submit starts a Call and returns immediately
	Submit(ctx context.Context, call Call) *Future
	// Release destroys the value stored under key
	Release(ctx context.Context, key string) error
	// Close releases every resident value
	Close() error
}

// Bridge submits Calls to an Executor and reinterprets their Outcomes
type Bridge struct {
	executor Executor
	timeout  time.Duration
}

// NewBridge creates a Bridge. Run waits up to timeout, or DefaultTimeout when timeout <= 0.
func NewBridge(executor Executor, timeout time.Duration) *Bridge {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Bridge{executor: executor, timeout: timeout}
}

// Executor returns the Executor this Bridge submits to
func (b *Bridge) Executor() Executor {
	return b.executor
}

// Timeout returns the time Run waits for a Result
func (b *Bridge) Timeout() time.Duration {
	return b.timeout
}

// Submit starts call without waiting for it
func (b *Bridge) Submit(ctx context.Context, call Call) *Future {
	return b.executor.Submit(ctx, call)
}

// Run submits call and waits for its Result
func (b *Bridge) Run(ctx context.Context, call Call) (Result, error) {
	return b.Submit(ctx, call).Result(b.timeout)
}

// Variable returns a handle on the value stored under key
func (b *Bridge) Variable(key string) *RemoteVariable {
	return NewRemoteVariable(b.executor, key)
}

// Close closes the underlying Executor
func (b *Bridge) Close() error {
	return b.executor.Close()
}
