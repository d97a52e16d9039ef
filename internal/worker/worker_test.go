package worker

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/go-sif/optimus/remote"
	"github.com/go-sif/optimus/session"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

func TestWorkerOptions(t *testing.T) {
	w := New(Options{}, afero.NewMemMapFs())
	require.Equal(t, "0.0.0.0:8786", w.Options().Address())
	require.Equal(t, 10*time.Second, w.Options().ShutdownTimeout.Duration)
}

func TestWorkerServesSessions(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.Nil(t, afero.WriteFile(fs, "/jail/data.json", []byte(`[{"v": 1}, {"v": 2}]`), 0644))
	w := New(Options{Root: "/jail"}, fs)
	lis := bufconn.Listen(1 << 20)
	go w.Serve(lis)

	ctx := context.Background()
	s, err := session.Open(ctx, session.Options{Address: "bufnet"},
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.Dial()
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.Nil(t, err)
	require.Equal(t, 1, w.NumActors())

	res, err := s.Load()
	require.Nil(t, err)
	res, err = res.(*remote.RemoteVariable).Run(ctx, 0, "json", "/data.json")
	require.Nil(t, err)
	res, err = res.(*remote.RemoteDataFrame).Run(ctx, 0, "rows.count")
	require.Nil(t, err)
	require.Equal(t, remote.Local{Value: float64(2)}, res)

	require.Nil(t, s.Close())
	require.Nil(t, w.GracefulStop())
	require.Equal(t, 0, w.NumActors())
}
