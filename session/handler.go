package session

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/dataframe"
	"github.com/go-sif/optimus/engines"
	"github.com/go-sif/optimus/errors"
	"github.com/go-sif/optimus/remote"
	"github.com/gofrs/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/afero"
)

// Routing keys of the values every actor starts with
const (
	CreateKey = "_create"
	LoadKey   = "_load"
)

var _ remote.Handler = &Handler{}

// method is one entry of a method table. Positional args have already been merged into kwargs.
type method func(ctx context.Context, h *Handler, target interface{}, kwargs map[string]interface{}) (interface{}, error)

type entry struct {
	params []string // names given to positional arguments, in order
	fn     method
}

// Handler executes remote Calls against a Creator, a Loader and the DataFrames they produce
type Handler struct {
	adapter optimus.Adapter
	handle  optimus.EngineHandle
	creator *Creator
	loader  *Loader
	fs      afero.Fs
}

// NewHandler creates a Handler for adapter. DataFrames are loaded from and saved to fs.
func NewHandler(adapter optimus.Adapter, handle optimus.EngineHandle, fs afero.Fs) *Handler {
	return &Handler{
		adapter: adapter,
		handle:  handle,
		creator: NewCreator(adapter, handle),
		loader:  NewLoader(adapter, handle, fs),
		fs:      fs,
	}
}

// NewHandlerFactory creates remote actors backed by fresh Adapters. Options are decoded into engines.Options.
func NewHandlerFactory(fs afero.Fs) remote.HandlerFactory {
	return func(ctx context.Context, engine optimus.Engine, options map[string]interface{}) (remote.Handler, error) {
		var opts engines.Options
		if err := mapstructure.WeakDecode(options, &opts); err != nil {
			return nil, err
		}
		adapter, err := provision(engine, opts)
		if err != nil {
			return nil, err
		}
		id, err := uuid.NewV4()
		if err != nil {
			return nil, err
		}
		return NewHandler(adapter, optimus.EngineHandle{Engine: engine, SessionID: id.String()}, fs), nil
	}
}

// Roots returns the Creator and the Loader
func (h *Handler) Roots() map[string]interface{} {
	return map[string]interface{}{CreateKey: h.creator, LoadKey: h.loader}
}

// Classify keeps DataFrames, Columns, the Creator and the Loader resident
func (h *Handler) Classify(v interface{}) (resident bool, isDataFrame bool) {
	switch v.(type) {
	case *dataframe.DataFrame:
		return true, true
	case *Creator, *Loader, optimus.Column:
		return true, false
	}
	return false, false
}

// Invoke dispatches method through the method table of target's type
func (h *Handler) Invoke(ctx context.Context, target interface{}, method string, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	var table map[string]entry
	switch target.(type) {
	case nil:
		table = handlerMethods
	case *Creator:
		table = creatorMethods
	case *Loader:
		table = loaderMethods
	case *dataframe.DataFrame:
		table = dataframeMethods
	case optimus.Column:
		table = columnMethods
	default:
		return nil, fmt.Errorf("values of type %T cannot be called", target)
	}
	e, ok := table[method]
	if !ok {
		return nil, errors.UnsupportedOperationError{Operation: fmt.Sprintf("%s on %T", method, target), Engine: string(h.handle.Engine)}
	}
	if len(args) > len(e.params) {
		return nil, fmt.Errorf("%s takes at most %d positional arguments, %d given", method, len(e.params), len(args))
	}
	merged := make(map[string]interface{}, len(kwargs)+len(args))
	for k, v := range kwargs {
		merged[k] = v
	}
	for i, v := range args {
		if _, dup := kwargs[e.params[i]]; dup {
			return nil, fmt.Errorf("%s got multiple values for argument %s", method, e.params[i])
		}
		merged[e.params[i]] = v
	}
	return e.fn(ctx, h, target, merged)
}

// Methods lists the methods callable on a value, sorted
func (h *Handler) Methods(target interface{}) []string {
	var table map[string]entry
	switch target.(type) {
	case nil:
		table = handlerMethods
	case *Creator:
		table = creatorMethods
	case *Loader:
		table = loaderMethods
	case *dataframe.DataFrame:
		table = dataframeMethods
	case optimus.Column:
		table = columnMethods
	}
	res := make([]string, 0, len(table))
	for name := range table {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

// Close closes the Adapter when it holds resources
func (h *Handler) Close() error {
	if closer, ok := h.adapter.(optimus.Closer); ok {
		return closer.Close()
	}
	return nil
}

func decodeArgs(kwargs map[string]interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(kwargs)
}
