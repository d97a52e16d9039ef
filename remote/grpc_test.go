package remote

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/errors"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

func startWorker(t *testing.T) (*Server, *Client, func()) {
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	actors := NewServer(func(ctx context.Context, engine optimus.Engine, options map[string]interface{}) (Handler, error) {
		if engine == optimus.Ibis {
			return nil, errors.UnsupportedOperationError{Operation: "bootstrap", Engine: string(engine)}
		}
		return &testHandler{}, nil
	})
	RegisterActorService(srv, actors)
	go srv.Serve(lis)

	client, err := Dial(context.Background(), "bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.Dial()
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.Nil(t, err)
	return actors, client, func() {
		client.Close()
		srv.Stop()
		actors.Close()
	}
}

func TestWorkerRoundTrip(t *testing.T) {
	actors, client, stop := startWorker(t)
	defer stop()
	ctx := context.Background()

	require.Nil(t, client.Ping(ctx))
	exec, err := client.Bootstrap(ctx, optimus.Pandas, map[string]interface{}{"n_workers": 2})
	require.Nil(t, err)
	require.NotEmpty(t, exec.ID())
	require.Equal(t, []string{"_create"}, exec.Roots())
	require.Equal(t, 1, actors.NumActors())

	bridge := NewBridge(exec, 5*time.Second)
	res, err := bridge.Run(ctx, NewCall("_create", "value"))
	require.Nil(t, err)
	require.Equal(t, Local{Value: float64(42)}, res)

	res, err = bridge.Run(ctx, NewCall("_create", "echo", "a", Kwargs{"sep": ";"}))
	require.Nil(t, err)
	require.Equal(t, map[string]interface{}{"args": []interface{}{"a"}, "kwargs": map[string]interface{}{"sep": ";"}}, res.(Local).Value)

	res, err = bridge.Run(ctx, NewCall("_create", "frame"))
	require.Nil(t, err)
	frame, ok := res.(*RemoteDataFrame)
	require.True(t, ok)
	rows, err := frame.Run(ctx, time.Second, "rows")
	require.Nil(t, err)
	require.Equal(t, Local{Value: float64(3)}, rows)

	_, err = bridge.Run(ctx, NewCall("_create", "boom"))
	var remoteErr errors.RemoteExecutionError
	require.ErrorAs(t, err, &remoteErr)
	require.Equal(t, "boom", remoteErr.Message)

	require.Nil(t, frame.Release(ctx))
	require.NotNil(t, frame.Release(ctx))

	require.Nil(t, exec.Close())
	require.Equal(t, 0, actors.NumActors())
	_, err = bridge.Run(ctx, NewCall("_create", "value"))
	require.NotNil(t, err)
}

func TestWorkerBootstrapFailure(t *testing.T) {
	_, client, stop := startWorker(t)
	defer stop()
	_, err := client.Bootstrap(context.Background(), optimus.Ibis, nil)
	require.NotNil(t, err)
	_, err = client.Bootstrap(context.Background(), optimus.Engine("spark"), nil)
	require.NotNil(t, err)
}

func TestExecutorsReturnTheSameValues(t *testing.T) {
	_, client, stop := startWorker(t)
	defer stop()
	ctx := context.Background()
	worker, err := client.Bootstrap(ctx, optimus.Pandas, nil)
	require.Nil(t, err)
	defer worker.Close()
	local, err := NewLocalExecutor(&testHandler{})
	require.Nil(t, err)
	defer local.Close()

	run := func(exec Executor, method string) interface{} {
		res, err := NewBridge(exec, 5*time.Second).Run(ctx, NewCall("_create", method))
		require.Nil(t, err)
		return res
	}
	for _, method := range []string{"value", "counts"} {
		require.Equal(t, run(worker, method), run(local, method), method)
	}
	require.Equal(t, Local{Value: map[string]interface{}{"a": []interface{}{float64(1), float64(2)}}}, run(local, "counts"))

	rows := func(exec Executor) interface{} {
		frame := run(exec, "frame").(*RemoteDataFrame)
		res, err := frame.Run(ctx, time.Second, "rows")
		require.Nil(t, err)
		return res
	}
	require.Equal(t, rows(worker), rows(local))
}
