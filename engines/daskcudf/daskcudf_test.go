package daskcudf

import (
	"context"
	"testing"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/engines/cudf"
	"github.com/go-sif/optimus/engines/dask"
	"github.com/go-sif/optimus/schema"
	"github.com/stretchr/testify/require"
)

func TestPartitionsLiveInBuffers(t *testing.T) {
	ctx := context.Background()
	a, err := New(dask.Options{NWorkers: 2, NPartitions: 2}, cudf.Options{Devices: 1})
	require.Nil(t, err)
	defer a.Close()
	require.Equal(t, optimus.DaskCUDF, a.Engine())

	s := schema.MustCreateSchema(optimus.ColumnDescriptor{Name: "name", Type: optimus.String, Nullable: true})
	table, err := a.FromRecords(ctx, s, [][]interface{}{{"a"}, {"B"}, {nil}})
	require.Nil(t, err)
	require.Equal(t, optimus.CUDF, table.(*dask.Table).Partition(0).Engine())

	c, err := a.Column(ctx, table, "name")
	require.Nil(t, err)
	upper, err := a.Functions().Upper(c)
	require.Nil(t, err)
	values, err := a.Values(ctx, upper)
	require.Nil(t, err)
	require.Equal(t, []interface{}{"A", "B", nil}, values)
}
