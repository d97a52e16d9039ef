package columnar

import (
	"bytes"
	"testing"
	"time"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/schema"
	"github.com/stretchr/testify/require"
)

func TestWriteRead(t *testing.T) {
	s := schema.MustCreateSchema(
		optimus.ColumnDescriptor{Name: "name", Type: optimus.String},
		optimus.ColumnDescriptor{Name: "age", Type: optimus.Int},
		optimus.ColumnDescriptor{Name: "score", Type: optimus.Decimal},
		optimus.ColumnDescriptor{Name: "active", Type: optimus.Boolean},
		optimus.ColumnDescriptor{Name: "born", Type: optimus.Datetime},
	)
	born := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	rows := [][]interface{}{
		{"ana", int64(31), 1.5, true, born},
		{"luis", nil, nil, false, nil},
	}
	var buf bytes.Buffer
	require.Nil(t, Write(&buf, s, rows))

	read, readRows, err := Read(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.Nil(t, err)
	require.Equal(t, 5, read.NumColumns())
	require.Len(t, readRows, 2)

	ageIdx, bornIdx, nameIdx := read.Index("age"), read.Index("born"), read.Index("name")
	desc, err := read.Column("born")
	require.Nil(t, err)
	require.Equal(t, optimus.Datetime, desc.Type)
	require.Equal(t, "ana", readRows[0][nameIdx])
	require.Equal(t, int64(31), readRows[0][ageIdx])
	require.True(t, born.Equal(readRows[0][bornIdx].(time.Time)))
	require.Nil(t, readRows[1][ageIdx])
	require.Nil(t, readRows[1][bornIdx])
}
