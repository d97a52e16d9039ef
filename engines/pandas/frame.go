// Package pandas implements the local in-memory engine
package pandas

import (
	"github.com/go-sif/optimus"
)

// Series is a column of engine-neutral values
type Series struct {
	dtype  optimus.DataType
	values []interface{}
}

// NewSeries wraps values in a Series without copying them
func NewSeries(dtype optimus.DataType, values []interface{}) *Series {
	return &Series{dtype: dtype, values: values}
}

// Engine returns optimus.Pandas
func (s *Series) Engine() optimus.Engine {
	return optimus.Pandas
}

// Type returns the DataType of this Series
func (s *Series) Type() optimus.DataType {
	return s.dtype
}

// Len returns the number of values in this Series
func (s *Series) Len() int {
	return len(s.values)
}

// At returns the value at row i
func (s *Series) At(i int) interface{} {
	return s.values[i]
}

// Values returns a copy of the values of this Series
func (s *Series) Values() []interface{} {
	res := make([]interface{}, len(s.values))
	copy(res, s.values)
	return res
}

func (s *Series) take(idx []int) *Series {
	values := make([]interface{}, len(idx))
	for i, j := range idx {
		values[i] = s.values[j]
	}
	return &Series{dtype: s.dtype, values: values}
}

// Frame is an in-memory, column-major table
type Frame struct {
	schema  optimus.Schema
	columns []*Series
	rows    int
}

// Engine returns optimus.Pandas
func (f *Frame) Engine() optimus.Engine {
	return optimus.Pandas
}

// Schema returns the Schema of this Frame
func (f *Frame) Schema() optimus.Schema {
	return f.schema
}

// NumRows returns the number of rows in this Frame
func (f *Frame) NumRows() int {
	return f.rows
}

// Series returns the column with the given index
func (f *Frame) Series(idx int) *Series {
	return f.columns[idx]
}

// Row returns a copy of row i
func (f *Frame) Row(i int) []interface{} {
	row := make([]interface{}, len(f.columns))
	for j, c := range f.columns {
		row[j] = c.values[i]
	}
	return row
}

// Rows returns a row-major copy of this Frame
func (f *Frame) Rows() [][]interface{} {
	rows := make([][]interface{}, f.rows)
	for i := range rows {
		rows[i] = f.Row(i)
	}
	return rows
}

// Take returns a new Frame containing the given rows, in the given order
func (f *Frame) Take(idx []int) *Frame {
	cols := make([]*Series, len(f.columns))
	for i, c := range f.columns {
		cols[i] = c.take(idx)
	}
	return &Frame{schema: f.schema, columns: cols, rows: len(idx)}
}
