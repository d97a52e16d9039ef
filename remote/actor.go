package remote

import (
	"context"
	"sync"

	"github.com/docker/docker/pkg/locker"
	"github.com/go-sif/optimus/errors"
	"github.com/go-sif/optimus/internal/util"
	"github.com/gofrs/uuid"
)

// actor keeps resident values for one Handler. Calls on the same routing key are serialized.
type actor struct {
	id      string
	handler Handler
	lock    sync.RWMutex
	values  map[string]interface{}
	keys    *locker.Locker
}

func newActor(handler Handler) (*actor, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	a := &actor{id: id.String(), handler: handler, values: make(map[string]interface{}), keys: locker.New()}
	for k, v := range handler.Roots() {
		a.values[k] = v
	}
	return a, nil
}

func (a *actor) lookup(key string) (interface{}, bool) {
	a.lock.RLock()
	defer a.lock.RUnlock()
	v, ok := a.values[key]
	return v, ok
}

func (a *actor) store(v interface{}) (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	key := id.String()
	a.lock.Lock()
	defer a.lock.Unlock()
	a.values[key] = v
	return key, nil
}

func failure(key string, err error) Outcome {
	return Outcome{Status: StatusError, Key: key, Error: err.Error(), cause: err}
}

// call runs c and produces its Outcome. Resident results are stored under a fresh routing key,
// other results are reduced to the JSON value model.
func (a *actor) call(ctx context.Context, c Call) Outcome {
	var target interface{}
	if len(c.Key) > 0 {
		a.keys.Lock(c.Key)
		defer a.keys.Unlock(c.Key)
		v, ok := a.lookup(c.Key)
		if !ok {
			return failure(c.Key, errors.MissingKeyError{Key: c.Key})
		}
		target = v
	}
	res, err := util.SafeCall(c.Method, func() (interface{}, error) {
		return a.handler.Invoke(ctx, target, c.Method, c.Args, c.Kwargs)
	})
	if err != nil {
		return failure(c.Key, err)
	}
	resident, dataframe := a.handler.Classify(res)
	if resident {
		key, err := a.store(res)
		if err != nil {
			return failure(c.Key, err)
		}
		return Outcome{Status: StatusFinished, Key: key, Dummy: true, DataFrame: dataframe}
	}
	// every executor hands back the same value model the wire carries
	if res, err = normalize(res); err != nil {
		return failure(c.Key, err)
	}
	id, err := uuid.NewV4()
	if err != nil {
		return failure(c.Key, err)
	}
	return Outcome{Status: StatusFinished, Key: id.String(), Result: res}
}

func (a *actor) release(key string) error {
	a.keys.Lock(key)
	defer a.keys.Unlock(key)
	a.lock.Lock()
	defer a.lock.Unlock()
	if _, ok := a.values[key]; !ok {
		return errors.MissingKeyError{Key: key}
	}
	delete(a.values, key)
	return nil
}

func (a *actor) size() int {
	a.lock.RLock()
	defer a.lock.RUnlock()
	return len(a.values)
}

func (a *actor) close() error {
	a.lock.Lock()
	a.values = make(map[string]interface{})
	a.lock.Unlock()
	return a.handler.Close()
}
