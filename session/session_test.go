package session

import (
	"context"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/dataframe"
	"github.com/go-sif/optimus/errors"
	"github.com/go-sif/optimus/internal/gpu"
	"github.com/go-sif/optimus/io/load"
	"github.com/go-sif/optimus/logging"
	"github.com/go-sif/optimus/meta"
	"github.com/go-sif/optimus/remote"
	"github.com/prashantv/gostub"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

func TestLoadOptions(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.Nil(t, afero.WriteFile(fs, "/session.toml", []byte(`
engine = "dask"
n_workers = 3
n_partitions = 8
client_timeout = "90s"
verbose = true

[logging]
level = 3
`), 0644))
	opts, err := LoadOptions(fs, "/session.toml")
	require.Nil(t, err)
	require.Equal(t, optimus.Dask, opts.Engine)
	require.Equal(t, 3, opts.NWorkers)
	require.Equal(t, 8, opts.NPartitions)
	require.Equal(t, 90*time.Second, opts.ClientTimeout.Duration)
	require.True(t, opts.Verbose)
	require.NotNil(t, opts.Logging)
	require.Equal(t, logging.WarnLevel, opts.Logging.Level)

	require.Nil(t, afero.WriteFile(fs, "/bad.toml", []byte(`engine = "spark"`), 0644))
	_, err = LoadOptions(fs, "/bad.toml")
	require.NotNil(t, err)

	require.Nil(t, afero.WriteFile(fs, "/timeout.toml", []byte(`rpc_timeout = "soon"`), 0644))
	_, err = LoadOptions(fs, "/timeout.toml")
	require.NotNil(t, err)
}

func TestDefaultOptions(t *testing.T) {
	s := New(Options{})
	require.Equal(t, optimus.Pandas, s.Engine())
	require.Equal(t, remote.DefaultTimeout, s.opts.ClientTimeout.Duration)
	require.Equal(t, Uninitialized, s.State())
	_, err := s.Create()
	require.Equal(t, errors.SessionStateError{State: "uninitialized"}, err)
}

func TestLocalSession(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	require.Nil(t, afero.WriteFile(fs, "/data/cities.csv", []byte("city,population\nLima,10\nQuito,2\n"), 0644))

	s, err := Open(ctx, Options{Fs: fs})
	require.Nil(t, err)
	require.Equal(t, Ready, s.State())
	require.False(t, s.IsActor())
	require.Nil(t, s.Connect(ctx))

	res, err := s.Create()
	require.Nil(t, err)
	require.False(t, res.IsRemote())
	creator, ok := res.(remote.Local).Value.(*Creator)
	require.True(t, ok)

	df, err := creator.DataFrame(ctx, map[string][]interface{}{
		"name":  {"ana", "luis", nil},
		"score": {1, 2.5, nil},
	})
	require.Nil(t, err)
	require.Equal(t, []string{"name", "score"}, df.Columns())
	require.Equal(t, s.Handle(), df.Handle())
	types := df.Cols().DataTypes()
	require.Equal(t, optimus.String, types["name"])
	require.Equal(t, optimus.Decimal, types["score"])

	loader, err := s.Loader()
	require.Nil(t, err)
	cities, err := loader.CSV(ctx, "/data/cities.csv", load.CSVOptions{})
	require.Nil(t, err)
	n, err := cities.Rows().Count(ctx)
	require.Nil(t, err)
	require.Equal(t, 2, n)
	name, _ := meta.Get(cities.Meta(), "name")
	require.Equal(t, "cities.csv", name)

	require.Nil(t, s.Close())
	require.Equal(t, Uninitialized, s.State())
	_, err = s.Loader()
	require.IsType(t, errors.SessionStateError{}, err)
	// DataFrames outlive their session's bridge
	n, err = cities.Rows().Count(ctx)
	require.Nil(t, err)
	require.Equal(t, 2, n)
}

func TestLoaderErrorsAreLogged(t *testing.T) {
	logger, hook := test.NewNullLogger()
	previous := logging.Logger()
	logging.UseLogger(logger)
	defer logging.UseLogger(previous)

	s, err := Open(context.Background(), Options{Fs: afero.NewMemMapFs()})
	require.Nil(t, err)
	defer s.Close()
	loader, err := s.Loader()
	require.Nil(t, err)

	_, err = loader.CSV(context.Background(), "/missing.csv", load.CSVOptions{})
	require.NotNil(t, err)
	require.NotNil(t, hook.LastEntry())
	require.Equal(t, err, hook.LastEntry().Data["error"])

	_, err = loader.Excel(context.Background(), "/book.xlsx")
	require.IsType(t, errors.UnsupportedOperationError{}, err)
}

func TestActorModeLocal(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, Options{Remote: true, ClientTimeout: Duration{5 * time.Second}})
	require.Nil(t, err)
	defer s.Close()
	require.True(t, s.IsActor())
	_, err = s.Creator()
	require.Nil(t, err)

	res, err := s.Create()
	require.Nil(t, err)
	create, ok := res.(*remote.RemoteVariable)
	require.True(t, ok)
	require.Equal(t, CreateKey, create.Key())

	res, err = create.Run(ctx, 0, "dataframe", remote.Kwargs{"dict": map[string][]interface{}{"word": {"a", "b"}}})
	require.Nil(t, err)
	frame, ok := res.(*remote.RemoteDataFrame)
	require.True(t, ok)

	res, err = frame.Run(ctx, 0, "cols.upper", []string{"word"})
	require.Nil(t, err)
	upper := res.(*remote.RemoteDataFrame)

	res, err = upper.Run(ctx, 0, "to_column_dict")
	require.Nil(t, err)
	require.Equal(t, remote.Local{Value: map[string]interface{}{"word": []interface{}{"A", "B"}}}, res)

	res, err = upper.Run(ctx, 0, "rows.count")
	require.Nil(t, err)
	require.Equal(t, remote.Local{Value: float64(2)}, res)

	_, err = upper.Run(ctx, 0, "cols.explode")
	require.IsType(t, errors.UnsupportedOperationError{}, err)

	res, err = s.Run(ctx, remote.NewCall("", "engine"))
	require.Nil(t, err)
	require.Equal(t, remote.Local{Value: "pandas"}, res)
}

func TestGPUWorkersAreClamped(t *testing.T) {
	stubs := gostub.StubFunc(&gpu.DeviceCount, 1)
	defer stubs.Reset()
	logger, hook := test.NewNullLogger()
	previous := logging.Logger()
	logging.UseLogger(logger)
	defer logging.UseLogger(previous)

	s, err := Open(context.Background(), Options{Engine: optimus.CUDF, NWorkers: 4})
	require.Nil(t, err)
	defer s.Close()
	warned := false
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && strings.Contains(e.Message, "n_workers should be equal or less than the number of GPUs") {
			warned = true
		}
	}
	require.True(t, warned)

	adapter, err := s.Adapter()
	require.Nil(t, err)
	require.Equal(t, optimus.CUDF, adapter.Engine())
	require.Equal(t, 1, adapter.(interface{ Devices() int }).Devices())
}

func startWorker(t *testing.T, fs afero.Fs) (*remote.Server, []grpc.DialOption) {
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	actors := remote.NewServer(NewHandlerFactory(fs))
	remote.RegisterActorService(srv, actors)
	go srv.Serve(lis)
	t.Cleanup(func() {
		srv.Stop()
		actors.Close()
	})
	return actors, []grpc.DialOption{
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.Dial()
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
}

func TestRemoteSession(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	actors, dial := startWorker(t, fs)

	s, err := Open(ctx, Options{Address: "bufnet"}, dial...)
	require.Nil(t, err)
	require.True(t, s.IsActor())
	require.Equal(t, 1, actors.NumActors())
	_, err = s.Creator()
	require.IsType(t, errors.UnsupportedOperationError{}, err)

	res, err := s.Create()
	require.Nil(t, err)
	res, err = res.(*remote.RemoteVariable).Run(ctx, 0, "records",
		[]map[string]interface{}{{"name": "qty", "type": "int"}},
		[][]interface{}{{1}, {2}, {3}},
	)
	require.Nil(t, err)
	frame := res.(*remote.RemoteDataFrame)

	res, err = frame.Run(ctx, 0, "rows.count")
	require.Nil(t, err)
	require.Equal(t, remote.Local{Value: float64(3)}, res)

	res, err = frame.Run(ctx, 0, "save.csv", "/out/qty.csv")
	require.Nil(t, err)
	written, err := afero.ReadFile(fs, "/out/qty.csv")
	require.Nil(t, err)
	require.Equal(t, "qty\n1\n2\n3\n", string(written))

	_, err = frame.Run(ctx, 0, "rows.limit", remote.Kwargs{"n": 1})
	require.IsType(t, errors.RemoteExecutionError{}, err)

	shared, err := Open(ctx, Options{Session: s, Engine: optimus.Dask})
	require.Nil(t, err)
	require.Equal(t, 2, actors.NumActors())
	require.Nil(t, shared.Close())
	require.Equal(t, 1, actors.NumActors())

	// the shared connection is still open
	res, err = frame.Run(ctx, 0, "rows.count")
	require.Nil(t, err)
	require.Equal(t, remote.Local{Value: float64(3)}, res)

	require.Nil(t, s.Close())
	require.Equal(t, 0, actors.NumActors())
}

func TestLocalAndRemoteSessionsAgree(t *testing.T) {
	ctx := context.Background()
	_, dial := startWorker(t, afero.NewMemMapFs())
	local, err := Open(ctx, Options{Remote: true})
	require.Nil(t, err)
	defer local.Close()
	worker, err := Open(ctx, Options{Address: "bufnet"}, dial...)
	require.Nil(t, err)
	defer worker.Close()

	steps := func(s *Session) []remote.Result {
		res, err := s.Create()
		require.Nil(t, err)
		res, err = res.(*remote.RemoteVariable).Run(ctx, 0, "dataframe", remote.Kwargs{"dict": map[string][]interface{}{
			"word": {"a", "b"},
			"x":    {4.0, 9.0},
		}})
		require.Nil(t, err)
		frame := res.(*remote.RemoteDataFrame)
		res, err = frame.Run(ctx, 0, "cols.upper", []string{"word"})
		require.Nil(t, err)
		frame = res.(*remote.RemoteDataFrame)
		res, err = frame.Run(ctx, 0, "cols.sqrt", []string{"x"})
		require.Nil(t, err)
		frame = res.(*remote.RemoteDataFrame)

		var outputs []remote.Result
		for _, method := range []string{"to_column_dict", "to_dict", "rows.count", "cols.names", "cols.dtypes"} {
			res, err := frame.Run(ctx, 0, method)
			require.Nil(t, err, method)
			outputs = append(outputs, res)
		}
		return outputs
	}
	expected := steps(worker)
	require.Equal(t, expected, steps(local))
	require.Equal(t, remote.Local{Value: map[string]interface{}{
		"word": []interface{}{"A", "B"},
		"x":    []interface{}{float64(2), float64(3)},
	}}, expected[0])
	require.Equal(t, remote.Local{Value: float64(2)}, expected[2])
}

func TestCloseDuringCalls(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, Options{Remote: true})
	require.Nil(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				// calls racing Close either succeed or fail, they never panic
				_, _ = s.Run(ctx, remote.NewCall(CreateKey, "dataframe", remote.Kwargs{"dict": map[string][]interface{}{"a": {1}}}))
				_, _ = s.Create()
				_, _ = s.Bridge()
				_ = s.IsActor()
			}
		}()
	}
	require.Nil(t, s.Close())
	wg.Wait()
	require.Equal(t, Uninitialized, s.State())
	_, err = s.Run(ctx, remote.NewCall(CreateKey, "dataframe"))
	require.IsType(t, errors.SessionStateError{}, err)
}

func TestFailedSession(t *testing.T) {
	_, dial := startWorker(t, afero.NewMemMapFs())
	s := New(Options{Address: "bufnet", Engine: optimus.Engine("spark")}, dial...)
	err := s.Connect(context.Background())
	require.NotNil(t, err)
	require.Equal(t, Failed, s.State())
	require.Equal(t, err, s.Err())
	require.Equal(t, errors.SessionStateError{State: "failed"}, s.Connect(context.Background()))
	_, err = s.Load()
	require.IsType(t, errors.SessionStateError{}, err)

	_, err = Open(context.Background(), Options{Session: s})
	require.Equal(t, errors.SessionStateError{State: "failed"}, err)
}

func TestDefaultSession(t *testing.T) {
	ctx := context.Background()
	_, err := Default()
	require.IsType(t, errors.SessionStateError{}, err)

	first, err := Init(ctx, Options{})
	require.Nil(t, err)
	creator, err := first.Creator()
	require.Nil(t, err)
	df, err := creator.DataFrame(ctx, map[string][]interface{}{"x": {1}})
	require.Nil(t, err)

	second, err := Init(ctx, Options{Engine: optimus.Dask})
	require.Nil(t, err)
	current, err := Default()
	require.Nil(t, err)
	require.Equal(t, second, current)
	require.Equal(t, Ready, first.State())
	require.Equal(t, optimus.Pandas, df.Engine())

	require.Nil(t, Teardown())
	require.Equal(t, Uninitialized, second.State())
	require.Nil(t, first.Close())
	_, err = Default()
	require.NotNil(t, err)
}

func TestHandlerArguments(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, Options{})
	require.Nil(t, err)
	defer s.Close()
	creator, _ := s.Creator()
	df, err := creator.DataFrame(ctx, map[string][]interface{}{"a": {"x", "y"}})
	require.Nil(t, err)
	h := s.handler

	res, err := h.Invoke(ctx, df, "cols.rename", []interface{}{"a"}, map[string]interface{}{"new_name": "b"})
	require.Nil(t, err)
	require.Equal(t, []string{"b"}, res.(*dataframe.DataFrame).Columns())

	_, err = h.Invoke(ctx, df, "cols.rename", []interface{}{"a"}, map[string]interface{}{"col": "a"})
	require.NotNil(t, err)
	_, err = h.Invoke(ctx, df, "rows.count", []interface{}{1}, nil)
	require.NotNil(t, err)
	_, err = h.Invoke(ctx, "text", "len", nil, nil)
	require.NotNil(t, err)

	col, err := h.Invoke(ctx, df, "column", []interface{}{"a"}, nil)
	require.Nil(t, err)
	resident, isFrame := h.Classify(col)
	require.True(t, resident)
	require.False(t, isFrame)
	values, err := h.Invoke(ctx, col, "values", nil, nil)
	require.Nil(t, err)
	require.Equal(t, []interface{}{"x", "y"}, values)

	require.Contains(t, h.Methods(df), "cols.profile")
	require.Equal(t, []string{"dataframe", "records"}, h.Methods(creator))
}
