package schema

import (
	"testing"

	"github.com/go-sif/optimus"
	"github.com/stretchr/testify/require"
)

func col(name string, t optimus.DataType) optimus.ColumnDescriptor {
	return optimus.ColumnDescriptor{Name: name, Type: t, Nullable: true}
}

func TestSchemaEqualityBasic(t *testing.T) {
	schema1, err := CreateSchema(col("col1", optimus.Int), col("col2", optimus.String), col("col3", optimus.Decimal))
	require.Nil(t, err)
	schema2, err := CreateSchema(col("col1", optimus.Int), col("col2", optimus.String), col("col3", optimus.Decimal))
	require.Nil(t, err)
	require.Nil(t, schema1.Equals(schema2))
}

func TestSchemaEqualityDifferentType(t *testing.T) {
	schema1 := MustCreateSchema(col("col1", optimus.Int), col("col2", optimus.String))
	schema2 := MustCreateSchema(col("col1", optimus.Int), col("col2", optimus.Decimal))
	require.NotNil(t, schema1.Equals(schema2))
}

func TestSchemaEqualityOrder(t *testing.T) {
	schema1 := MustCreateSchema(col("col1", optimus.Int), col("col2", optimus.String), col("col3", optimus.Decimal))
	schema2 := MustCreateSchema(col("col1", optimus.Int), col("col3", optimus.Decimal), col("col2", optimus.String))
	require.NotNil(t, schema1.Equals(schema2))
}

func TestCreateSchemaDuplicate(t *testing.T) {
	_, err := CreateSchema(col("col1", optimus.Int), col("col1", optimus.String))
	require.NotNil(t, err)
}

func TestSchemaCopyOnWrite(t *testing.T) {
	schema1 := MustCreateSchema(col("col1", optimus.Int), col("col2", optimus.String))

	added, err := schema1.CreateColumn(col("col3", optimus.Boolean))
	require.Nil(t, err)
	require.Equal(t, 2, schema1.NumColumns())
	require.Equal(t, []string{"col1", "col2", "col3"}, added.ColumnNames())

	replaced, err := schema1.ReplaceColumn(col("col1", optimus.Decimal))
	require.Nil(t, err)
	require.Equal(t, []optimus.DataType{optimus.Int, optimus.String}, schema1.ColumnTypes())
	require.Equal(t, []optimus.DataType{optimus.Decimal, optimus.String}, replaced.ColumnTypes())

	renamed, err := schema1.RenameColumn("col1", "first")
	require.Nil(t, err)
	require.Equal(t, []string{"col1", "col2"}, schema1.ColumnNames())
	require.Equal(t, []string{"first", "col2"}, renamed.ColumnNames())
	require.Equal(t, 0, renamed.Index("first"))
	require.Equal(t, -1, renamed.Index("col1"))

	removed, ok := schema1.RemoveColumn("col1")
	require.True(t, ok)
	require.Equal(t, []string{"col2"}, removed.ColumnNames())
	require.Equal(t, 0, removed.Index("col2"))
	require.True(t, schema1.HasColumn("col1"))

	_, ok = schema1.RemoveColumn("nope")
	require.False(t, ok)
}

func TestSchemaRenameConflicts(t *testing.T) {
	schema1 := MustCreateSchema(col("col1", optimus.Int), col("col2", optimus.String))
	_, err := schema1.RenameColumn("col1", "col2")
	require.NotNil(t, err)
	_, err = schema1.RenameColumn("nope", "col3")
	require.NotNil(t, err)
}

func TestSchemaSelect(t *testing.T) {
	schema1 := MustCreateSchema(col("col1", optimus.Int), col("col2", optimus.String), col("col3", optimus.Decimal))
	selected, err := schema1.Select("col3", "col1")
	require.Nil(t, err)
	require.Equal(t, []string{"col3", "col1"}, selected.ColumnNames())
	_, err = schema1.Select("col4")
	require.NotNil(t, err)
}
