// Package columnar maps flat optimus Schemas onto parquet files
package columnar

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/internal/kernel"
	"github.com/go-sif/optimus/schema"
	"github.com/segmentio/parquet-go"
)

const rowBatch = 256

func nodeFor(t optimus.DataType) parquet.Node {
	switch t {
	case optimus.Int:
		return parquet.Optional(parquet.Int(64))
	case optimus.Decimal:
		return parquet.Optional(parquet.Leaf(parquet.DoubleType))
	case optimus.Boolean:
		return parquet.Optional(parquet.Leaf(parquet.BooleanType))
	case optimus.Datetime:
		return parquet.Optional(parquet.Timestamp(parquet.Nanosecond))
	default:
		return parquet.Optional(parquet.String())
	}
}

// SchemaFor builds the parquet schema of s. Parquet orders the columns of a group
// by name, so the returned order maps every parquet column index to a position in s.
func SchemaFor(name string, s optimus.Schema) (*parquet.Schema, []int) {
	group := parquet.Group{}
	s.ForEachColumn(func(idx int, desc optimus.ColumnDescriptor) error {
		group[desc.Name] = nodeFor(desc.Type)
		return nil
	})
	ps := parquet.NewSchema(name, group)
	fields := ps.Fields()
	order := make([]int, len(fields))
	for i, f := range fields {
		order[i] = s.Index(f.Name())
	}
	return ps, order
}

func valueFor(v interface{}, t optimus.DataType, column int) parquet.Value {
	if kernel.IsNull(v) {
		return parquet.Value{}.Level(0, 0, column)
	}
	var res parquet.Value
	switch t {
	case optimus.Int:
		i, ok := kernel.ToInteger(v)
		if !ok {
			return parquet.Value{}.Level(0, 0, column)
		}
		res = parquet.Int64Value(i)
	case optimus.Decimal:
		f, ok := kernel.ToFloat(v)
		if !ok {
			return parquet.Value{}.Level(0, 0, column)
		}
		res = parquet.DoubleValue(f)
	case optimus.Boolean:
		b, ok := kernel.ToBoolean(v)
		if !ok {
			return parquet.Value{}.Level(0, 0, column)
		}
		res = parquet.BooleanValue(b)
	case optimus.Datetime:
		ts, ok := kernel.ToDatetime(v, "")
		if !ok {
			return parquet.Value{}.Level(0, 0, column)
		}
		res = parquet.Int64Value(ts.UnixNano())
	default:
		s, _ := kernel.ToString(v)
		res = parquet.ByteArrayValue([]byte(s))
	}
	return res.Level(0, 1, column)
}

// Write encodes rows as a single parquet file
func Write(w io.Writer, s optimus.Schema, rows [][]interface{}) error {
	ps, order := SchemaFor("optimus", s)
	types := s.ColumnTypes()
	writer := parquet.NewWriter(w, ps)
	batch := make([]parquet.Row, 0, rowBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := writer.WriteRows(batch); err != nil {
			return err
		}
		batch = batch[:0]
		return nil
	}
	for _, row := range rows {
		if len(row) != len(order) {
			return fmt.Errorf("row has %d values, schema has %d columns", len(row), len(order))
		}
		values := make(parquet.Row, len(order))
		for col, pos := range order {
			values[col] = valueFor(row[pos], types[pos], col)
		}
		batch = append(batch, values)
		if len(batch) == rowBatch {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}
	return writer.Close()
}

type column struct {
	desc      optimus.ColumnDescriptor
	timestamp time.Duration // unit of an int64 timestamp column, 0 otherwise
}

func columnFor(f parquet.Field) (column, error) {
	if !f.Leaf() {
		return column{}, fmt.Errorf("column %s is nested", f.Name())
	}
	c := column{desc: optimus.ColumnDescriptor{Name: f.Name(), Nullable: f.Optional()}}
	if lt := f.Type().LogicalType(); lt != nil && lt.Timestamp != nil {
		c.desc.Type = optimus.Datetime
		switch {
		case lt.Timestamp.Unit.Millis != nil:
			c.timestamp = time.Millisecond
		case lt.Timestamp.Unit.Micros != nil:
			c.timestamp = time.Microsecond
		default:
			c.timestamp = time.Nanosecond
		}
		return c, nil
	}
	switch f.Type().Kind() {
	case parquet.Boolean:
		c.desc.Type = optimus.Boolean
	case parquet.Int32, parquet.Int64:
		c.desc.Type = optimus.Int
	case parquet.Float, parquet.Double:
		c.desc.Type = optimus.Decimal
	default:
		c.desc.Type = optimus.String
	}
	return c, nil
}

func (c column) decode(v parquet.Value) interface{} {
	if v.IsNull() {
		return nil
	}
	switch v.Kind() {
	case parquet.Boolean:
		return v.Boolean()
	case parquet.Int32:
		return int64(v.Int32())
	case parquet.Int64:
		if c.timestamp > 0 {
			return time.Unix(0, v.Int64()*int64(c.timestamp)).UTC()
		}
		return v.Int64()
	case parquet.Float:
		return float64(v.Float())
	case parquet.Double:
		return v.Double()
	default:
		return string(v.ByteArray())
	}
}

// Read decodes every row of a flat parquet file
func Read(r io.ReaderAt, size int64) (optimus.Schema, [][]interface{}, error) {
	f, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	fields := f.Schema().Fields()
	cols := make([]column, len(fields))
	descs := make([]optimus.ColumnDescriptor, len(fields))
	for i, field := range fields {
		if cols[i], err = columnFor(field); err != nil {
			return nil, nil, err
		}
		descs[i] = cols[i].desc
	}
	s, err := schema.CreateSchema(descs...)
	if err != nil {
		return nil, nil, err
	}

	reader := parquet.NewReader(f)
	defer reader.Close()
	res := make([][]interface{}, 0, f.NumRows())
	buf := make([]parquet.Row, rowBatch)
	for {
		n, err := reader.ReadRows(buf)
		for _, row := range buf[:n] {
			values := make([]interface{}, len(cols))
			for _, v := range row {
				idx := v.Column()
				if idx >= 0 && idx < len(cols) {
					values[idx] = cols[idx].decode(v)
				}
			}
			res = append(res, values)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read row: %w", err)
		}
	}
	return s, res, nil
}
