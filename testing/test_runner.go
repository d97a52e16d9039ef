package testing

import (
	"context"
	"net"
	"time"

	"github.com/go-sif/optimus/internal/worker"
	"github.com/go-sif/optimus/session"
	"github.com/spf13/afero"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

const bufferSize = 1 << 20

// LocalRunSession runs fn against a Session connected to an in-process worker whose actors
// read and write fs. The session and the worker are torn down when fn returns.
func LocalRunSession(ctx context.Context, opts session.Options, fs afero.Fs, fn func(ctx context.Context, s *session.Session) error) (err error) {
	// handle panics
	defer func() {
		if r := recover(); r != nil {
			if anErr, ok := r.(error); ok {
				err = anErr
			} else {
				panic(r)
			}
		}
	}()

	// configure and start worker
	w := worker.New(worker.Options{ShutdownTimeout: session.Duration{Duration: time.Second}}, fs)
	lis := bufconn.Listen(bufferSize)
	go func() {
		if err := w.Serve(lis); err != nil && err != grpc.ErrServerStopped {
			panic(err)
		}
	}()
	defer w.GracefulStop()

	opts.Address = "bufnet"
	if opts.RPCTimeout.Duration == 0 {
		opts.RPCTimeout.Duration = 5 * time.Second
	}
	s, err := session.Open(ctx, opts,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.Dial()
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}
