package remote

import (
	"context"
	"time"

	"github.com/go-sif/optimus/errors"
)

// Result is the reinterpretation of an Outcome: either a Local value, or a
// RemoteVariable / RemoteDataFrame handle on a resident value
type Result interface {
	IsRemote() bool
}

// Local holds a value which was returned in full
type Local struct {
	Value interface{}
}

// IsRemote returns false
func (l Local) IsRemote() bool {
	return false
}

// RemoteVariable is a handle on a value resident in an Executor
type RemoteVariable struct {
	key      string
	executor Executor
}

// NewRemoteVariable creates a handle on the value stored under key
func NewRemoteVariable(executor Executor, key string) *RemoteVariable {
	return &RemoteVariable{key: key, executor: executor}
}

// IsRemote returns true
func (v *RemoteVariable) IsRemote() bool {
	return true
}

// Key returns the routing key of the resident value
func (v *RemoteVariable) Key() string {
	return v.key
}

// Submit calls method on the resident value without waiting for it
func (v *RemoteVariable) Submit(ctx context.Context, method string, args ...interface{}) *Future {
	return v.executor.Submit(ctx, NewCall(v.key, method, args...))
}

// Run calls method on the resident value and waits up to timeout for its Result
func (v *RemoteVariable) Run(ctx context.Context, timeout time.Duration, method string, args ...interface{}) (Result, error) {
	return v.Submit(ctx, method, args...).Result(timeout)
}

// Release destroys the resident value. The handle must not be used afterwards.
func (v *RemoteVariable) Release(ctx context.Context) error {
	return v.executor.Release(ctx, v.key)
}

// RemoteDataFrame is a handle on a resident dataframe
type RemoteDataFrame struct {
	RemoteVariable
}

// Interpret turns an Outcome into a Result
func Interpret(executor Executor, o Outcome) (Result, error) {
	switch {
	case o.Failed():
		if o.cause != nil {
			return nil, o.cause
		}
		return nil, errors.RemoteExecutionError{Message: o.Error}
	case o.Dummy && o.DataFrame:
		return &RemoteDataFrame{RemoteVariable{key: o.Key, executor: executor}}, nil
	case o.Dummy:
		return NewRemoteVariable(executor, o.Key), nil
	default:
		return Local{Value: o.Result}, nil
	}
}
