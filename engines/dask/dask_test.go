package dask

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/schema"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func testRows(n int) [][]interface{} {
	rows := make([][]interface{}, n)
	for i := range rows {
		var v interface{} = float64(i % 5)
		if i%7 == 0 {
			v = nil
		}
		rows[i] = []interface{}{int64(i), v}
	}
	return rows
}

func testSchema() optimus.Schema {
	return schema.MustCreateSchema(
		optimus.ColumnDescriptor{Name: "id", Type: optimus.Int},
		optimus.ColumnDescriptor{Name: "v", Type: optimus.Decimal, Nullable: true},
	)
}

func TestPartitioningPreservesOrder(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	a := New(Options{NWorkers: 2, NPartitions: 4})
	table, err := a.FromRecords(ctx, testSchema(), testRows(10))
	require.Nil(t, err)
	require.Equal(t, 4, table.(*Table).NumPartitions())

	rows, err := a.Records(ctx, table)
	require.Nil(t, err)
	require.Equal(t, testRows(10), rows)

	n, err := a.NumRows(ctx, table)
	require.Nil(t, err)
	require.Equal(t, 10, n)
}

func TestMapAcrossPartitions(t *testing.T) {
	ctx := context.Background()
	a := New(Options{NWorkers: 3, NPartitions: 3})
	table, err := a.FromRecords(ctx, testSchema(), testRows(9))
	require.Nil(t, err)
	c, err := a.Column(ctx, table, "v")
	require.Nil(t, err)

	sqrt, err := a.Functions().Sqrt(c)
	require.Nil(t, err)
	require.Equal(t, 9, sqrt.Len())
	values, err := a.Values(ctx, sqrt)
	require.Nil(t, err)
	require.Nil(t, values[0])
	require.Nil(t, values[7])
	require.Equal(t, 1.0, values[1])

	s, err := a.Functions().Summarize(c)
	require.Nil(t, err)
	require.Equal(t, int64(2), s.Nulls)
	require.Equal(t, int64(7), s.Count)
	require.Equal(t, 4.0, s.Max)
}

func TestMapHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a := New(Options{NWorkers: 2, NPartitions: 3})
	table, err := a.FromRecords(ctx, testSchema(), testRows(9))
	require.Nil(t, err)
	c, err := a.Column(ctx, table, "v")
	require.Nil(t, err)
	cancel()

	_, err = a.Functions().Sqrt(c)
	require.ErrorIs(t, err, context.Canceled)
	_, err = a.Functions().Summarize(c)
	require.ErrorIs(t, err, context.Canceled)

	live, err := a.Column(context.Background(), table, "v")
	require.Nil(t, err)
	_, err = a.Functions().Sqrt(live)
	require.Nil(t, err)
}

func TestParallelismIsBounded(t *testing.T) {
	a := New(Options{NWorkers: 2, NPartitions: 8})
	var running, peak int32
	err := a.parallel(context.Background(), 8, func(ctx context.Context, i int) error {
		cur := atomic.AddInt32(&running, 1)
		for {
			prev := atomic.LoadInt32(&peak)
			if cur <= prev || atomic.CompareAndSwapInt32(&peak, prev, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return nil
	})
	require.Nil(t, err)
	require.LessOrEqual(t, peak, int32(2))
}

func TestGatheredOperations(t *testing.T) {
	ctx := context.Background()
	a := New(Options{NWorkers: 2, NPartitions: 3})
	table, err := a.FromRecords(ctx, testSchema(), testRows(12))
	require.Nil(t, err)

	sorted, err := a.Sort(ctx, table, optimus.SortKey{Column: "v", Descending: true}, optimus.SortKey{Column: "id"})
	require.Nil(t, err)
	require.Equal(t, 3, sorted.(*Table).NumPartitions())
	rows, err := a.Records(ctx, sorted)
	require.Nil(t, err)
	require.Equal(t, []interface{}{int64(4), 4.0}, rows[0])
	require.Nil(t, rows[11][1])

	deduped, err := a.DropDuplicates(ctx, table, "v")
	require.Nil(t, err)
	n, err := a.NumRows(ctx, deduped)
	require.Nil(t, err)
	require.Equal(t, 6, n)
}

func TestSliceFilterAndWithColumn(t *testing.T) {
	ctx := context.Background()
	a := New(Options{NWorkers: 2, NPartitions: 3})
	table, err := a.FromRecords(ctx, testSchema(), testRows(9))
	require.Nil(t, err)

	sliced, err := a.Slice(ctx, table, 2, 7)
	require.Nil(t, err)
	rows, err := a.Records(ctx, sliced)
	require.Nil(t, err)
	require.Equal(t, testRows(9)[2:7], rows)

	c, err := a.Column(ctx, table, "v")
	require.Nil(t, err)
	mask, err := a.Functions().IsNA(c)
	require.Nil(t, err)
	filtered, err := a.Filter(ctx, table, mask)
	require.Nil(t, err)
	rows, err = a.Records(ctx, filtered)
	require.Nil(t, err)
	require.Equal(t, [][]interface{}{{int64(0), nil}, {int64(7), nil}}, rows)

	// a column of another partitioning is realigned
	single := New(Options{NWorkers: 1, NPartitions: 1})
	other, err := single.FromRecords(ctx, testSchema(), testRows(9))
	require.Nil(t, err)
	otherID, err := single.Column(ctx, other, "id")
	require.Nil(t, err)
	realigned, err := a.WithColumn(ctx, table, optimus.ColumnDescriptor{Name: "other_id", Type: optimus.Int}, otherID)
	require.Nil(t, err)
	rows, err = a.Records(ctx, realigned)
	require.Nil(t, err)
	require.Equal(t, []interface{}{int64(5), 0.0, int64(5)}, rows[5])

	appended, err := a.Append(ctx, table, [][]interface{}{{int64(99), 1.5}})
	require.Nil(t, err)
	idCol, err := a.Column(ctx, appended, "id")
	require.Nil(t, err)
	added, err := a.WithColumn(ctx, table, optimus.ColumnDescriptor{Name: "missing", Type: optimus.Boolean}, mask)
	require.Nil(t, err)
	require.Equal(t, []string{"id", "v", "missing"}, added.Schema().ColumnNames())
	_, err = a.WithColumn(ctx, table, optimus.ColumnDescriptor{Name: "id2", Type: optimus.Int}, idCol)
	require.NotNil(t, err)
}
