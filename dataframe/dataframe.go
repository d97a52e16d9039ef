// Package dataframe implements the user-facing DataFrame proxy. A DataFrame
// wraps an engine-native Table together with the Adapter which produced it;
// every operation returns a new DataFrame and leaves its receiver untouched.
package dataframe

import (
	"context"
	"fmt"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/errors"
	"github.com/go-sif/optimus/meta"
	"github.com/go-sif/optimus/schema"
)

// DataFrame is an immutable handle on a Table
type DataFrame struct {
	data    optimus.Table
	adapter optimus.Adapter
	handle  optimus.EngineHandle
	meta    meta.Meta
}

// New wraps an engine-native Table. The Table, the Adapter and the handle must all refer to the same Engine.
func New(adapter optimus.Adapter, handle optimus.EngineHandle, data optimus.Table, m meta.Meta) (*DataFrame, error) {
	if adapter.Engine() != handle.Engine {
		return nil, errors.IncompatibleEngineError{Expected: string(handle.Engine), Actual: string(adapter.Engine())}
	}
	if data.Engine() != handle.Engine {
		return nil, errors.IncompatibleEngineError{Expected: string(handle.Engine), Actual: string(data.Engine())}
	}
	if m == nil {
		m = meta.New()
	}
	return &DataFrame{data: data, adapter: adapter, handle: handle, meta: m}, nil
}

// FromRecords builds a DataFrame from row-major records
func FromRecords(ctx context.Context, adapter optimus.Adapter, handle optimus.EngineHandle, s optimus.Schema, rows [][]interface{}) (*DataFrame, error) {
	data, err := adapter.FromRecords(ctx, s, rows)
	if err != nil {
		return nil, err
	}
	return New(adapter, handle, data, nil)
}

// FromColumns builds a DataFrame from named columns of equal length, inferring nothing:
// every column is described by the matching descriptor
func FromColumns(ctx context.Context, adapter optimus.Adapter, handle optimus.EngineHandle, descs []optimus.ColumnDescriptor, columns map[string][]interface{}) (*DataFrame, error) {
	s, err := schema.CreateSchema(descs...)
	if err != nil {
		return nil, err
	}
	n := -1
	for _, d := range descs {
		values, ok := columns[d.Name]
		if !ok {
			return nil, fmt.Errorf("no values for column %s", d.Name)
		}
		if n >= 0 && len(values) != n {
			return nil, fmt.Errorf("column %s has %d values, expected %d", d.Name, len(values), n)
		}
		n = len(values)
	}
	if n < 0 {
		n = 0
	}
	rows := make([][]interface{}, n)
	for i := range rows {
		rows[i] = make([]interface{}, len(descs))
		for j, d := range descs {
			rows[i][j] = columns[d.Name][i]
		}
	}
	return FromRecords(ctx, adapter, handle, s, rows)
}

// Data returns the engine-native Table of this DataFrame
func (df *DataFrame) Data() optimus.Table {
	return df.data
}

// Adapter returns the Adapter this DataFrame dispatches to
func (df *DataFrame) Adapter() optimus.Adapter {
	return df.adapter
}

// Handle returns the EngineHandle of this DataFrame
func (df *DataFrame) Handle() optimus.EngineHandle {
	return df.handle
}

// Engine returns the Engine this DataFrame belongs to
func (df *DataFrame) Engine() optimus.Engine {
	return df.handle.Engine
}

// Meta returns the metadata attached to this DataFrame
func (df *DataFrame) Meta() meta.Meta {
	return df.meta
}

// Schema returns the Schema of this DataFrame
func (df *DataFrame) Schema() optimus.Schema {
	return df.data.Schema()
}

// Columns returns the column names of this DataFrame, in order
func (df *DataFrame) Columns() []string {
	return df.data.Schema().ColumnNames()
}

// Functions returns the column catalog of the Adapter in scope
func (df *DataFrame) Functions() optimus.Functions {
	return df.adapter.Functions()
}

// Cols returns the column-wise accessor
func (df *DataFrame) Cols() *Cols {
	return &Cols{df: df}
}

// Rows returns the row-wise accessor
func (df *DataFrame) Rows() *Rows {
	return &Rows{df: df}
}

// Mask returns the boolean selection helper
func (df *DataFrame) Mask() *Mask {
	return &Mask{df: df}
}

// Save returns the I/O sink
func (df *DataFrame) Save() *Saver {
	return &Saver{df: df}
}

// WithMeta returns a DataFrame sharing this one's data, with different metadata
func (df *DataFrame) WithMeta(m meta.Meta) *DataFrame {
	return &DataFrame{data: df.data, adapter: df.adapter, handle: df.handle, meta: m}
}

// SetMeta returns a DataFrame sharing this one's data, with one more metadata key
func (df *DataFrame) SetMeta(key string, value interface{}) *DataFrame {
	return df.WithMeta(meta.Set(df.meta, key, value))
}

// derive produces a new DataFrame holding data, recording the operation which produced it
func (df *DataFrame) derive(data optimus.Table, action optimus.Action, columns []string, params map[string]interface{}) *DataFrame {
	return &DataFrame{
		data:    data,
		adapter: df.adapter,
		handle:  df.handle,
		meta:    meta.AppendAction(df.meta, action, columns, params),
	}
}

func (df *DataFrame) check(action optimus.Action) error {
	if !df.adapter.Supports(action) {
		return errors.UnsupportedOperationError{Operation: string(action), Engine: string(df.handle.Engine)}
	}
	return nil
}

// Column returns one engine-native column
func (df *DataFrame) Column(ctx context.Context, name string) (optimus.Column, error) {
	return df.adapter.Column(ctx, df.data, name)
}

// Values materializes one column
func (df *DataFrame) Values(ctx context.Context, name string) ([]interface{}, error) {
	c, err := df.Column(ctx, name)
	if err != nil {
		return nil, err
	}
	return df.adapter.Values(ctx, c)
}

// Records materializes every row
func (df *DataFrame) Records(ctx context.Context) ([][]interface{}, error) {
	return df.adapter.Records(ctx, df.data)
}

// Constants are engine-specific sentinel values
type Constants struct {
	Null        interface{} // value stored for missing entries
	NullDisplay string      // rendering of missing entries
	NaN         float64
}

// Constants returns the sentinel values of this DataFrame's engine
func (df *DataFrame) Constants() Constants {
	return ConstantsFor(df.handle.Engine)
}
