package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/go-sif/optimus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

// shutdownTimeout bounds the Shutdown call made when an ActorExecutor is closed
const shutdownTimeout = 10 * time.Second

// Client is a connection to a worker
type Client struct {
	conn *grpc.ClientConn
}

// Dial connects to the worker at address. Without options the connection is insecure.
func Dial(ctx context.Context, address string, opts ...grpc.DialOption) (*Client, error) {
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	conn, err := grpc.DialContext(ctx, address, opts...)
	if err != nil {
		return nil, err
	}
	return NewClient(conn), nil
}

// NewClient wraps an existing connection
func NewClient(conn *grpc.ClientConn) *Client {
	return &Client{conn: conn}
}

func (c *Client) invoke(ctx context.Context, method string, m map[string]interface{}) (map[string]interface{}, error) {
	req, err := encode(m)
	if err != nil {
		return nil, err
	}
	res := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, fullMethod(method), req, res); err != nil {
		return nil, err
	}
	return decode(res), nil
}

// Ping performs the connection handshake
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.invoke(ctx, "Ping", map[string]interface{}{})
	if err != nil {
		return err
	}
	if stringField(res, "status") != "ok" {
		return fmt.Errorf("unexpected handshake status %q", stringField(res, "status"))
	}
	return nil
}

// Bootstrap creates an actor for engine on the worker
func (c *Client) Bootstrap(ctx context.Context, engine optimus.Engine, options map[string]interface{}) (*ActorExecutor, error) {
	if options == nil {
		options = map[string]interface{}{}
	}
	res, err := c.invoke(ctx, "Bootstrap", map[string]interface{}{"engine": string(engine), "options": options})
	if err != nil {
		return nil, err
	}
	e := &ActorExecutor{client: c, id: stringField(res, "actor")}
	roots, _ := res["roots"].([]interface{})
	for _, r := range roots {
		if s, ok := r.(string); ok {
			e.roots = append(e.roots, s)
		}
	}
	return e, nil
}

// Close closes the connection
func (c *Client) Close() error {
	return c.conn.Close()
}

var _ Executor = &ActorExecutor{}

// ActorExecutor runs Calls on one actor of a worker
type ActorExecutor struct {
	client *Client
	id     string
	roots  []string
}

// ID returns the identifier of the actor
func (e *ActorExecutor) ID() string {
	return e.id
}

// Roots returns the routing keys the actor started with
func (e *ActorExecutor) Roots() []string {
	return e.roots
}

// Submit sends call to the actor
func (e *ActorExecutor) Submit(ctx context.Context, call Call) *Future {
	args := call.Args
	if args == nil {
		args = []interface{}{}
	}
	kwargs := call.Kwargs
	if kwargs == nil {
		kwargs = map[string]interface{}{}
	}
	req := map[string]interface{}{
		"actor":  e.id,
		"key":    call.Key,
		"method": call.Method,
		"args":   args,
		"kwargs": kwargs,
	}
	return newFuture(ctx, e, func(ctx context.Context) (Outcome, error) {
		res, err := e.client.invoke(ctx, "Submit", req)
		if err != nil {
			return Outcome{}, err
		}
		return OutcomeFromMap(res)
	})
}

// Release destroys the value stored under key
func (e *ActorExecutor) Release(ctx context.Context, key string) error {
	_, err := e.client.invoke(ctx, "Release", map[string]interface{}{"actor": e.id, "key": key})
	return err
}

// Close destroys the actor. The connection stays open.
func (e *ActorExecutor) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_, err := e.client.invoke(ctx, "Shutdown", map[string]interface{}{"actor": e.id})
	return err
}
