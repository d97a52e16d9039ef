package ibis

import (
	"context"
	"testing"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/errors"
	"github.com/go-sif/optimus/schema"
	"github.com/stretchr/testify/require"
)

func testTable(t *testing.T, a *Adapter) optimus.Table {
	s := schema.MustCreateSchema(
		optimus.ColumnDescriptor{Name: "word", Type: optimus.String, Nullable: true},
		optimus.ColumnDescriptor{Name: "n", Type: optimus.Int},
	)
	table, err := a.FromRecords(context.Background(), s, [][]interface{}{{"Dog", 3}, {"cat", 1}, {nil, 2}})
	require.Nil(t, err)
	return table
}

func TestExpressionsAreLazy(t *testing.T) {
	ctx := context.Background()
	a := New()
	table := testTable(t, a)
	word, err := a.Column(ctx, table, "word")
	require.Nil(t, err)

	evaluated := 0
	counted, err := a.Functions().Map(word, optimus.String, func(v interface{}) (interface{}, error) {
		evaluated++
		return v, nil
	})
	require.Nil(t, err)
	lower, err := a.Functions().Lower(counted)
	require.Nil(t, err)
	require.Equal(t, 2, lower.(*Expr).Depth())

	out, err := a.WithColumn(ctx, table, optimus.ColumnDescriptor{Name: "word", Type: optimus.String}, lower)
	require.Nil(t, err)
	sorted, err := a.Sort(ctx, out, optimus.SortKey{Column: "n"})
	require.Nil(t, err)
	require.Equal(t, 0, evaluated)
	require.Equal(t, "ordering(mutate(scan[3], word), n)", sorted.(*Table).Explain())

	rows, err := a.Records(ctx, sorted)
	require.Nil(t, err)
	require.Equal(t, 3, evaluated)
	require.Equal(t, [][]interface{}{{"cat", int64(1)}, {nil, int64(2)}, {"dog", int64(3)}}, rows)
}

func TestUnsupportedOperations(t *testing.T) {
	ctx := context.Background()
	a := New()
	table := testTable(t, a)
	word, err := a.Column(ctx, table, "word")
	require.Nil(t, err)

	_, err = a.Functions().RemoveAccents(word)
	var unsupported errors.UnsupportedOperationError
	require.ErrorAs(t, err, &unsupported)
	require.Equal(t, "remove_accents", unsupported.Operation)
	require.Equal(t, "ibis", unsupported.Engine)

	_, err = a.Functions().DateFormat(word, "%Y", "%y")
	require.ErrorAs(t, err, &unsupported)
	require.False(t, a.Supports(optimus.Cut))
	require.True(t, a.Supports(optimus.Lower))
}

func TestFilterSliceDistinct(t *testing.T) {
	ctx := context.Background()
	a := New()
	table := testTable(t, a)
	word, err := a.Column(ctx, table, "word")
	require.Nil(t, err)
	mask, err := a.Functions().IsNA(word)
	require.Nil(t, err)
	filtered, err := a.Filter(ctx, table, mask)
	require.Nil(t, err)
	rows, err := a.Records(ctx, filtered)
	require.Nil(t, err)
	require.Equal(t, [][]interface{}{{nil, int64(2)}}, rows)

	appended, err := a.Append(ctx, table, [][]interface{}{{"Dog", 3}})
	require.Nil(t, err)
	deduped, err := a.DropDuplicates(ctx, appended)
	require.Nil(t, err)
	limited, err := a.Slice(ctx, deduped, 0, 2)
	require.Nil(t, err)
	n, err := a.NumRows(ctx, limited)
	require.Nil(t, err)
	require.Equal(t, 2, n)
	n, err = a.NumRows(ctx, deduped)
	require.Nil(t, err)
	require.Equal(t, 3, n)

	renamed, err := a.Rename(ctx, table, "n", "count")
	require.Nil(t, err)
	selected, err := a.Select(ctx, renamed, "count")
	require.Nil(t, err)
	rows, err = a.Records(ctx, selected)
	require.Nil(t, err)
	require.Equal(t, [][]interface{}{{int64(3)}, {int64(1)}, {int64(2)}}, rows)
}
