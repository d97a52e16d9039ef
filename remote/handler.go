package remote

import (
	"context"

	"github.com/go-sif/optimus"
)

//go:generate mockgen -destination=mock_remote/mock_handler.go -package=mock_remote github.com/go-sif/optimus/remote Handler

// Handler executes Calls against the values of one actor
type Handler interface {
	// Roots returns the values an actor starts with, keyed by routing key
	Roots() map[string]interface{}
	// Invoke calls method on target. target is nil for calls without a routing key.
	Invoke(ctx context.Context, target interface{}, method string, args []interface{}, kwargs map[string]interface{}) (interface{}, error)
	// Classify reports whether a value must stay resident rather than be returned,
	// and whether it is a dataframe
	Classify(v interface{}) (resident bool, dataframe bool)
	// Close releases the resources held by this Handler
	Close() error
}

// HandlerFactory creates the Handler of a new actor
type HandlerFactory func(ctx context.Context, engine optimus.Engine, options map[string]interface{}) (Handler, error)
