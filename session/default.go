package session

import (
	"context"
	"sync"

	"github.com/go-sif/optimus/errors"
)

var (
	defaultLock    sync.RWMutex
	defaultSession *Session
)

// Init opens a Session and makes it the process default. A previous default is not closed:
// DataFrames created by it keep working until it is torn down explicitly.
func Init(ctx context.Context, opts Options) (*Session, error) {
	s, err := Open(ctx, opts)
	if err != nil {
		return nil, err
	}
	SetDefault(s)
	return s, nil
}

// SetDefault makes s the process default Session
func SetDefault(s *Session) {
	defaultLock.Lock()
	defer defaultLock.Unlock()
	defaultSession = s
}

// Default returns the process default Session
func Default() (*Session, error) {
	defaultLock.RLock()
	defer defaultLock.RUnlock()
	if defaultSession == nil {
		return nil, errors.SessionStateError{State: Uninitialized.String()}
	}
	return defaultSession, nil
}

// Teardown closes the process default Session and clears it
func Teardown() error {
	defaultLock.Lock()
	s := defaultSession
	defaultSession = nil
	defaultLock.Unlock()
	if s == nil {
		return nil
	}
	return s.Close()
}
