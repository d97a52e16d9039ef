// Package session provisions an engine, locally or on a remote worker, and hands out the
// Creator and Loader which produce DataFrames for it
package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/engines"
	"github.com/go-sif/optimus/errors"
	"github.com/go-sif/optimus/internal/gpu"
	"github.com/go-sif/optimus/logging"
	"github.com/go-sif/optimus/remote"
	"github.com/gofrs/uuid"
	"github.com/hashicorp/go-multierror"
	"google.golang.org/grpc"
)

// State is the lifecycle stage of a Session
type State int32

const (
	// Uninitialized sessions have not been connected, or have been closed
	Uninitialized State = iota
	// Connecting sessions are provisioning their engine
	Connecting
	// Ready sessions accept calls
	Ready
	// Failed sessions could not be connected. Failed is terminal.
	Failed
)

// String returns a textual representation of this State
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Connecting:
		return "connecting"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Session owns an engine and the Bridge through which it is called
type Session struct {
	id          string
	opts        Options
	dialOptions []grpc.DialOption
	state       int32
	lock        sync.Mutex
	err         error
	handler     *Handler       // nil for sessions on a remote worker
	client      *remote.Client // nil for local sessions
	shared      bool           // client belongs to another Session
	bridge      *remote.Bridge
	actor       bool
}

// New creates an uninitialized Session. Dial options are used when connecting to opts.Address.
func New(opts Options, dialOptions ...grpc.DialOption) *Session {
	ensureDefaultOptionsValues(&opts)
	return &Session{id: uuid.Must(uuid.NewV4()).String(), opts: opts, dialOptions: dialOptions}
}

// Open creates a Session and connects it
func Open(ctx context.Context, opts Options, dialOptions ...grpc.DialOption) (*Session, error) {
	s := New(opts, dialOptions...)
	if err := s.Connect(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// ID returns the identifier stamped on every EngineHandle of this Session
func (s *Session) ID() string {
	return s.id
}

// Engine returns the Engine this Session provisions
func (s *Session) Engine() optimus.Engine {
	return s.opts.Engine
}

// Handle returns the EngineHandle of DataFrames created by this Session
func (s *Session) Handle() optimus.EngineHandle {
	return optimus.EngineHandle{Engine: s.opts.Engine, SessionID: s.id}
}

// State returns the current State of this Session
func (s *Session) State() State {
	return State(atomic.LoadInt32(&s.state))
}

func (s *Session) setState(state State) {
	atomic.StoreInt32(&s.state, int32(state))
}

// Err returns the error which made this Session fail
func (s *Session) Err() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.err
}

// IsActor returns true iff results stay resident and are returned as remote handles
func (s *Session) IsActor() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.actor
}

// Connect provisions the engine. Sessions with an Address handshake with the worker and
// bootstrap an actor there. Errors are returned unchanged and leave the Session Failed.
func (s *Session) Connect(ctx context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	switch s.State() {
	case Ready:
		return nil
	case Failed:
		return errors.SessionStateError{State: Failed.String()}
	}
	s.setState(Connecting)
	if s.opts.Logging != nil {
		logging.Configure(*s.opts.Logging)
	}
	if s.opts.Verbose {
		logging.SetVerbose(true)
	}

	var err error
	if len(s.opts.Address) > 0 || s.opts.Session != nil {
		err = s.connectRemote(ctx)
	} else {
		err = s.connectLocal()
	}
	if err != nil {
		s.err = err
		s.setState(Failed)
		return err
	}
	s.setState(Ready)
	return nil
}

func (s *Session) connectRemote(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.RPCTimeout.Duration)
	defer cancel()

	client, shared, err := s.workerClient(ctx)
	if err != nil {
		return err
	}
	fail := func(err error) error {
		if !shared {
			client.Close()
		}
		return err
	}
	if err := client.Ping(ctx); err != nil {
		return fail(err)
	}
	executor, err := client.Bootstrap(ctx, s.opts.Engine, s.opts.bootstrapOptions())
	if err != nil {
		return fail(err)
	}
	logging.Print("Bootstrapped %s actor %s", s.opts.Engine, executor.ID())
	s.client, s.shared = client, shared
	s.bridge = remote.NewBridge(executor, s.opts.ClientTimeout.Duration)
	s.actor = true
	return nil
}

// workerClient dials opts.Address, or reuses the connection of opts.Session
func (s *Session) workerClient(ctx context.Context) (*remote.Client, bool, error) {
	if other := s.opts.Session; other != nil {
		if state := other.State(); state != Ready {
			return nil, false, errors.SessionStateError{State: state.String()}
		}
		other.lock.Lock()
		client := other.client
		other.lock.Unlock()
		if client == nil {
			return nil, false, fmt.Errorf("session %s is not connected to a worker", other.ID())
		}
		return client, true, nil
	}
	client, err := remote.Dial(ctx, s.opts.Address, s.dialOptions...)
	if err != nil {
		return nil, false, err
	}
	return client, false, nil
}

func (s *Session) connectLocal() error {
	adapter, err := provision(s.opts.Engine, engines.Options{
		NWorkers:    s.opts.NWorkers,
		NPartitions: s.opts.NPartitions,
		Devices:     s.opts.Devices,
		LaneSize:    s.opts.LaneSize,
	})
	if err != nil {
		return err
	}
	handler := NewHandler(adapter, s.Handle(), s.opts.Fs)
	executor, err := remote.NewLocalExecutor(handler)
	if err != nil {
		handler.Close()
		return err
	}
	logging.Print("Started local %s session %s", s.opts.Engine, s.id)
	s.handler = handler
	s.bridge = remote.NewBridge(executor, s.opts.ClientTimeout.Duration)
	s.actor = s.opts.Remote
	return nil
}

// provision creates the Adapter for an engine. GPU engines never get more workers than
// there are visible accelerators.
func provision(engine optimus.Engine, opts engines.Options) (optimus.Adapter, error) {
	if engine.IsGPU() && opts.NWorkers > 0 {
		if n, clamped := gpu.ClampWorkers(opts.NWorkers); clamped {
			logging.Warn("n_workers should be equal or less than the number of GPUs. n_workers is now %d", n)
			opts.NWorkers = n
		}
		if opts.Devices == 0 || opts.Devices > opts.NWorkers {
			opts.Devices = opts.NWorkers
		}
	}
	return engines.New(engine, opts)
}

func (s *Session) ready() error {
	if state := s.State(); state != Ready {
		return errors.SessionStateError{State: state.String()}
	}
	return nil
}

// binding is what a Ready Session hands to its callers. It stays usable after Close, whose
// executor then fails the calls.
type binding struct {
	bridge  *remote.Bridge
	handler *Handler
	actor   bool
}

func (s *Session) bound() (binding, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if err := s.ready(); err != nil {
		return binding{}, err
	}
	return binding{bridge: s.bridge, handler: s.handler, actor: s.actor}, nil
}

// local returns the Handler of a session running in this process
func (s *Session) local(what string) (*Handler, error) {
	b, err := s.bound()
	if err != nil {
		return nil, err
	}
	if b.handler == nil {
		return nil, errors.UnsupportedOperationError{Operation: "local " + what + " on a remote session", Engine: string(s.opts.Engine)}
	}
	return b.handler, nil
}

func (s *Session) root(key string) (remote.Result, error) {
	b, err := s.bound()
	if err != nil {
		return nil, err
	}
	if b.actor {
		return b.bridge.Variable(key), nil
	}
	return remote.Local{Value: b.handler.Roots()[key]}, nil
}

// Create returns a handle on the Creator: a RemoteVariable in actor mode, a Local otherwise
func (s *Session) Create() (remote.Result, error) {
	return s.root(CreateKey)
}

// Load returns a handle on the Loader: a RemoteVariable in actor mode, a Local otherwise
func (s *Session) Load() (remote.Result, error) {
	return s.root(LoadKey)
}

// Creator returns the Creator of a session running in this process
func (s *Session) Creator() (*Creator, error) {
	handler, err := s.local("create")
	if err != nil {
		return nil, err
	}
	return handler.creator, nil
}

// Loader returns the Loader of a session running in this process
func (s *Session) Loader() (*Loader, error) {
	handler, err := s.local("load")
	if err != nil {
		return nil, err
	}
	return handler.loader, nil
}

// Adapter returns the Adapter of a session running in this process
func (s *Session) Adapter() (optimus.Adapter, error) {
	handler, err := s.local("adapter")
	if err != nil {
		return nil, err
	}
	return handler.adapter, nil
}

// Bridge returns the Bridge calls are submitted through
func (s *Session) Bridge() (*remote.Bridge, error) {
	b, err := s.bound()
	if err != nil {
		return nil, err
	}
	return b.bridge, nil
}

// Submit starts a call without waiting for it
func (s *Session) Submit(ctx context.Context, call remote.Call) (*remote.Future, error) {
	b, err := s.bound()
	if err != nil {
		return nil, err
	}
	return b.bridge.Submit(ctx, call), nil
}

// Run submits a call and waits up to the client timeout for its Result
func (s *Session) Run(ctx context.Context, call remote.Call) (remote.Result, error) {
	b, err := s.bound()
	if err != nil {
		return nil, err
	}
	return b.bridge.Run(ctx, call)
}

// Close releases the engine, shuts down the remote actor and closes the worker connection
// unless it is shared. Closed sessions are Uninitialized and may be connected again.
func (s *Session) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.State() != Ready {
		return nil
	}
	var errs *multierror.Error
	if err := s.bridge.Close(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if s.client != nil && !s.shared {
		if err := s.client.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	s.handler, s.client, s.bridge, s.shared, s.actor = nil, nil, nil, false, false
	s.setState(Uninitialized)
	return errs.ErrorOrNil()
}
