// Package worker hosts remote actors behind a gRPC server
package worker

import (
	"fmt"
	"net"
	"time"

	"github.com/go-sif/optimus/logging"
	"github.com/go-sif/optimus/remote"
	"github.com/go-sif/optimus/session"
	"github.com/spf13/afero"
	"google.golang.org/grpc"
)

// Options configures a Worker
type Options struct {
	Host            string           `toml:"host"`
	Port            int              `toml:"port"`
	Root            string           `toml:"root"` // directory loaders and sinks are confined to, unrestricted when empty
	ShutdownTimeout session.Duration `toml:"shutdown_timeout"`
	Logging         logging.Config   `toml:"logging"`
}

func ensureDefaultOptionsValues(opts *Options) {
	if len(opts.Host) == 0 {
		opts.Host = "0.0.0.0"
	}
	if opts.Port == 0 {
		opts.Port = 8786
	}
	if opts.ShutdownTimeout.Duration <= 0 {
		opts.ShutdownTimeout.Duration = 10 * time.Second
	}
}

// Address returns the host:port this Worker listens on
func (o Options) Address() string {
	return net.JoinHostPort(o.Host, fmt.Sprintf("%d", o.Port))
}

// Worker serves the actor service
type Worker struct {
	opts   Options
	srv    *grpc.Server
	actors *remote.Server
}

// New creates a Worker whose actors read and write fs
func New(opts Options, fs afero.Fs, serverOptions ...grpc.ServerOption) *Worker {
	ensureDefaultOptionsValues(&opts)
	if len(opts.Root) > 0 {
		fs = afero.NewBasePathFs(fs, opts.Root)
	}
	w := &Worker{
		opts:   opts,
		srv:    grpc.NewServer(serverOptions...),
		actors: remote.NewServer(session.NewHandlerFactory(fs)),
	}
	remote.RegisterActorService(w.srv, w.actors)
	return w
}

// Options returns the settings of this Worker
func (w *Worker) Options() Options {
	return w.opts
}

// NumActors returns the number of live actors
func (w *Worker) NumActors() int {
	return w.actors.NumActors()
}

// Serve accepts connections on lis until the Worker is stopped
func (w *Worker) Serve(lis net.Listener) error {
	logging.Print("Worker listening on %s", lis.Addr())
	return w.srv.Serve(lis)
}

// ListenAndServe listens on the configured address and serves
func (w *Worker) ListenAndServe() error {
	lis, err := net.Listen("tcp", w.opts.Address())
	if err != nil {
		return err
	}
	return w.Serve(lis)
}

// GracefulStop waits up to the shutdown timeout for in-flight calls, then stops
// the server and closes every actor
func (w *Worker) GracefulStop() error {
	done := make(chan struct{})
	go func() {
		w.srv.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(w.opts.ShutdownTimeout.Duration):
		logging.Warn("Worker did not stop within %s, closing open connections", w.opts.ShutdownTimeout.Duration)
		w.srv.Stop()
	}
	return w.Stop()
}

// Stop stops the server immediately and closes every actor
func (w *Worker) Stop() error {
	w.srv.Stop()
	return w.actors.Close()
}
