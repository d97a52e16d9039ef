package optimus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDataType(t *testing.T) {
	for name, expected := range map[string]DataType{
		"int":     Int,
		"Integer": Int,
		" float ": Decimal,
		"str":     String,
		"date":    Datetime,
		"email":   Email,
		"null":    Null,
	} {
		dtype, err := ParseDataType(name)
		require.Nil(t, err)
		require.Equal(t, expected, dtype, name)
	}
	_, err := ParseDataType("tensor")
	require.NotNil(t, err)
}

func TestDataTypeFamilies(t *testing.T) {
	require.True(t, Int.IsNumeric())
	require.True(t, Decimal.IsNumeric())
	require.False(t, String.IsNumeric())
	require.True(t, Email.IsStringLike())
	require.False(t, Boolean.IsStringLike())
	require.Len(t, DataTypes(), 20)
}

func TestColumnDescriptorCopies(t *testing.T) {
	desc := ColumnDescriptor{Name: "age", Type: Int, Nullable: true}
	renamed := desc.WithName("years").WithType(Decimal)
	require.Equal(t, ColumnDescriptor{Name: "years", Type: Decimal, Nullable: true}, renamed)
	require.Equal(t, "age", desc.Name)
}

func TestParseEngine(t *testing.T) {
	for _, e := range Engines() {
		parsed, err := ParseEngine(string(e))
		require.Nil(t, err)
		require.Equal(t, e, parsed)
	}
	_, err := ParseEngine("spark")
	require.NotNil(t, err)
	require.True(t, DaskCUDF.IsGPU())
	require.True(t, DaskCUDF.IsDistributed())
	require.False(t, Ibis.IsDistributed())
	require.Equal(t, "dask@s1", EngineHandle{Engine: Dask, SessionID: "s1"}.String())
	require.Equal(t, "dask", EngineHandle{Engine: Dask}.String())
}
