package remote

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/logging"
	"github.com/hashicorp/go-multierror"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

var _ ActorService = &Server{}

// Server hosts actors on a worker. Each Bootstrap creates one actor with its own Handler.
type Server struct {
	factory HandlerFactory
	lock    sync.RWMutex
	actors  map[string]*actor
}

// NewServer creates a Server whose actors are created by factory
func NewServer(factory HandlerFactory) *Server {
	return &Server{factory: factory, actors: make(map[string]*actor)}
}

func (s *Server) actor(id string) (*actor, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	a, ok := s.actors[id]
	if !ok {
		return nil, status.Errorf(codes.NotFound, "no actor with id %s", id)
	}
	return a, nil
}

// NumActors returns the number of live actors
func (s *Server) NumActors() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.actors)
}

// Ping answers the connection handshake
func (s *Server) Ping(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return encode(map[string]interface{}{"status": "ok", "actors": s.NumActors()})
}

// Bootstrap creates an actor for an engine
func (s *Server) Bootstrap(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	m := decode(req)
	engine, err := optimus.ParseEngine(stringField(m, "engine"))
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	options, _ := m["options"].(map[string]interface{})
	handler, err := s.factory(ctx, engine, options)
	if err != nil {
		return nil, status.Errorf(codes.FailedPrecondition, "bootstrapping %s actor: %s", engine, err)
	}
	a, err := newActor(handler)
	if err != nil {
		handler.Close()
		return nil, status.Error(codes.Internal, err.Error())
	}
	roots := make([]interface{}, 0)
	for k := range handler.Roots() {
		roots = append(roots, k)
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].(string) < roots[j].(string) })
	s.lock.Lock()
	s.actors[a.id] = a
	s.lock.Unlock()
	logging.Print("bootstrapped %s actor %s", engine, a.id)
	return encode(map[string]interface{}{"actor": a.id, "engine": string(engine), "roots": roots})
}

// Submit runs one Call on an actor. Failures of the Call itself are reported in the Outcome.
func (s *Server) Submit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	m := decode(req)
	a, err := s.actor(stringField(m, "actor"))
	if err != nil {
		return nil, err
	}
	c := Call{Key: stringField(m, "key"), Method: stringField(m, "method")}
	c.Args, _ = m["args"].([]interface{})
	c.Kwargs, _ = m["kwargs"].(map[string]interface{})
	logging.Print("actor %s: calling %s on %q", a.id, c.Method, c.Key)
	return encode(a.call(ctx, c).ToMap())
}

// Release destroys one resident value of an actor
func (s *Server) Release(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	m := decode(req)
	a, err := s.actor(stringField(m, "actor"))
	if err != nil {
		return nil, err
	}
	if err := a.release(stringField(m, "key")); err != nil {
		return nil, status.Error(codes.NotFound, err.Error())
	}
	return encode(map[string]interface{}{})
}

// Shutdown destroys an actor and every value it holds
func (s *Server) Shutdown(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id := stringField(decode(req), "actor")
	a, err := s.actor(id)
	if err != nil {
		return nil, err
	}
	s.lock.Lock()
	delete(s.actors, id)
	s.lock.Unlock()
	if err := a.close(); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	logging.Print("shut down actor %s", id)
	return encode(map[string]interface{}{})
}

// Close shuts down every actor
func (s *Server) Close() error {
	s.lock.Lock()
	actors := s.actors
	s.actors = make(map[string]*actor)
	s.lock.Unlock()
	var errs *multierror.Error
	for id, a := range actors {
		if err := a.close(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("closing actor %s: %w", id, err))
		}
	}
	return errs.ErrorOrNil()
}
