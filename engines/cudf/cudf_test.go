package cudf

import (
	"context"
	"testing"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/internal/gpu"
	"github.com/go-sif/optimus/schema"
	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T) *Adapter {
	a, err := New(Options{Devices: 2, LaneSize: 3})
	require.Nil(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func testTable(t *testing.T, a *Adapter) optimus.Table {
	s := schema.MustCreateSchema(
		optimus.ColumnDescriptor{Name: "id", Type: optimus.Int},
		optimus.ColumnDescriptor{Name: "x", Type: optimus.String, Nullable: true},
	)
	table, err := a.FromRecords(context.Background(), s, [][]interface{}{
		{1, "1"}, {2, "2"}, {3, "x"}, {4, nil}, {5, "4"}, {6, "9"}, {7, "16"},
	})
	require.Nil(t, err)
	return table
}

func TestBuffersTrackNulls(t *testing.T) {
	a := newTestAdapter(t)
	table := testTable(t, a)
	c, err := a.Column(context.Background(), table, "x")
	require.Nil(t, err)
	require.Equal(t, 1, c.(*Buffer).NullCount())
}

func TestMapRunsInLanes(t *testing.T) {
	ctx := context.Background()
	a := newTestAdapter(t)
	table := testTable(t, a)
	c, err := a.Column(ctx, table, "x")
	require.Nil(t, err)

	f, err := a.Functions().ToFloat(c)
	require.Nil(t, err)
	values, err := a.Values(ctx, f)
	require.Nil(t, err)
	require.Equal(t, []interface{}{1.0, 2.0, nil, nil, 4.0, 9.0, 16.0}, values)

	sqrt, err := a.Functions().Sqrt(f)
	require.Nil(t, err)
	values, err = a.Values(ctx, sqrt)
	require.Nil(t, err)
	require.Equal(t, []interface{}{1.0, 1.4142135623730951, nil, nil, 2.0, 3.0, 4.0}, values)

	s, err := a.Functions().Summarize(f)
	require.Nil(t, err)
	require.Equal(t, int64(5), s.Count)
	require.Equal(t, int64(2), s.Nulls)
	require.Equal(t, 16.0, s.Max)
}

func TestMapSurfacesErrors(t *testing.T) {
	a := newTestAdapter(t)
	table := testTable(t, a)
	c, err := a.Column(context.Background(), table, "x")
	require.Nil(t, err)
	_, err = a.Functions().Cast(c, optimus.Int, optimus.CastOptions{Errors: optimus.Raise})
	require.NotNil(t, err)
}

func TestTableOperations(t *testing.T) {
	ctx := context.Background()
	a := newTestAdapter(t)
	table := testTable(t, a)

	sorted, err := a.Sort(ctx, table, optimus.SortKey{Column: "id", Descending: true})
	require.Nil(t, err)
	rows, err := a.Records(ctx, sorted)
	require.Nil(t, err)
	require.Equal(t, []interface{}{int64(7), "16"}, rows[0])

	c, err := a.Column(ctx, table, "x")
	require.Nil(t, err)
	mask, err := a.Functions().IsNA(c)
	require.Nil(t, err)
	filtered, err := a.Filter(ctx, table, mask)
	require.Nil(t, err)
	rows, err = a.Records(ctx, filtered)
	require.Nil(t, err)
	require.Equal(t, [][]interface{}{{int64(4), nil}}, rows)

	appended, err := a.Append(ctx, table, [][]interface{}{{1, "1"}})
	require.Nil(t, err)
	deduped, err := a.DropDuplicates(ctx, appended)
	require.Nil(t, err)
	n, err := a.NumRows(ctx, deduped)
	require.Nil(t, err)
	require.Equal(t, 7, n)
}

func TestDefaultDevices(t *testing.T) {
	stubs := gostub.StubFunc(&gpu.DeviceCount, 0)
	defer stubs.Reset()
	a, err := New(Options{})
	require.Nil(t, err)
	defer a.Close()
	require.Equal(t, 1, a.Devices())
}
