package pandas

import (
	"context"
	"fmt"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/errors"
	"github.com/go-sif/optimus/internal/base"
	"github.com/go-sif/optimus/internal/kernel"
	"github.com/go-sif/optimus/schema"
)

var _ optimus.Adapter = &Adapter{}

// Adapter is the local in-memory engine. Every operation runs sequentially
// in the calling goroutine.
type Adapter struct {
	functions    *base.Functions
	capabilities optimus.ActionSet
}

// New creates a pandas Adapter
func New() *Adapter {
	a := &Adapter{capabilities: base.Capabilities()}
	a.functions = base.New(&mapper{}, a.capabilities)
	return a
}

// Engine returns optimus.Pandas
func (a *Adapter) Engine() optimus.Engine {
	return optimus.Pandas
}

// Supports returns true iff this Adapter implements the given Action
func (a *Adapter) Supports(action optimus.Action) bool {
	return a.capabilities.Contains(action)
}

// Capabilities returns the Actions this Adapter implements
func (a *Adapter) Capabilities() optimus.ActionSet {
	return a.capabilities
}

// Functions returns the column catalog of this Adapter
func (a *Adapter) Functions() optimus.Functions {
	return a.functions
}

// AsFrame casts a Table to a *Frame, failing if it belongs to another engine
func AsFrame(t optimus.Table) (*Frame, error) {
	f, ok := t.(*Frame)
	if !ok || f == nil {
		return nil, errors.IncompatibleEngineError{Expected: string(optimus.Pandas), Actual: engineOf(t)}
	}
	return f, nil
}

// AsSeries casts a Column to a *Series, failing if it belongs to another engine
func AsSeries(c optimus.Column) (*Series, error) {
	s, ok := c.(*Series)
	if !ok || s == nil {
		var actual string
		if c != nil {
			actual = string(c.Engine())
		}
		return nil, errors.IncompatibleEngineError{Expected: string(optimus.Pandas), Actual: actual}
	}
	return s, nil
}

func engineOf(t optimus.Table) string {
	if t == nil {
		return ""
	}
	return string(t.Engine())
}

// FromRecords builds a Frame from row-major records, normalizing every value to its column's DataType
func (a *Adapter) FromRecords(ctx context.Context, s optimus.Schema, rows [][]interface{}) (optimus.Table, error) {
	return FrameFromRecords(s, rows)
}

// FrameFromRecords builds a Frame from row-major records
func FrameFromRecords(s optimus.Schema, rows [][]interface{}) (*Frame, error) {
	n := s.NumColumns()
	types := s.ColumnTypes()
	cols := make([]*Series, n)
	for j := range cols {
		cols[j] = &Series{dtype: types[j], values: make([]interface{}, len(rows))}
	}
	for i, row := range rows {
		if len(row) != n {
			return nil, errors.IncompatibleRowError{Expected: n, Actual: len(row)}
		}
		for j, v := range row {
			cols[j].values[i] = kernel.Normalize(v, types[j])
		}
	}
	return &Frame{schema: s, columns: cols, rows: len(rows)}, nil
}

// Records returns a row-major copy of a Frame
func (a *Adapter) Records(ctx context.Context, t optimus.Table) ([][]interface{}, error) {
	f, err := AsFrame(t)
	if err != nil {
		return nil, err
	}
	return f.Rows(), nil
}

// NumRows returns the number of rows in a Frame
func (a *Adapter) NumRows(ctx context.Context, t optimus.Table) (int, error) {
	f, err := AsFrame(t)
	if err != nil {
		return 0, err
	}
	return f.rows, nil
}

// Column returns the Series with the given name
func (a *Adapter) Column(ctx context.Context, t optimus.Table, name string) (optimus.Column, error) {
	f, err := AsFrame(t)
	if err != nil {
		return nil, err
	}
	idx := f.schema.Index(name)
	if idx < 0 {
		return nil, fmt.Errorf("table does not contain column with name %s", name)
	}
	return f.columns[idx], nil
}

// Values returns a copy of the values of a Series
func (a *Adapter) Values(ctx context.Context, c optimus.Column) ([]interface{}, error) {
	s, err := AsSeries(c)
	if err != nil {
		return nil, err
	}
	return s.Values(), nil
}

// WithColumn replaces or appends a column
func (a *Adapter) WithColumn(ctx context.Context, t optimus.Table, desc optimus.ColumnDescriptor, c optimus.Column) (optimus.Table, error) {
	f, err := AsFrame(t)
	if err != nil {
		return nil, err
	}
	s, err := AsSeries(c)
	if err != nil {
		return nil, err
	}
	if s.Len() != f.rows && f.schema.NumColumns() > 0 {
		return nil, fmt.Errorf("column %s has %d rows, table has %d", desc.Name, s.Len(), f.rows)
	}
	cols := make([]*Series, len(f.columns), len(f.columns)+1)
	copy(cols, f.columns)
	var newSchema optimus.Schema
	if idx := f.schema.Index(desc.Name); idx >= 0 {
		newSchema, err = f.schema.ReplaceColumn(desc)
		cols[idx] = s
	} else {
		newSchema, err = f.schema.CreateColumn(desc)
		cols = append(cols, s)
	}
	if err != nil {
		return nil, err
	}
	return &Frame{schema: newSchema, columns: cols, rows: s.Len()}, nil
}

// Select keeps only the given columns, in the given order
func (a *Adapter) Select(ctx context.Context, t optimus.Table, names ...string) (optimus.Table, error) {
	f, err := AsFrame(t)
	if err != nil {
		return nil, err
	}
	newSchema, err := f.schema.Select(names...)
	if err != nil {
		return nil, err
	}
	cols := make([]*Series, len(names))
	for i, name := range names {
		cols[i] = f.columns[f.schema.Index(name)]
	}
	return &Frame{schema: newSchema, columns: cols, rows: f.rows}, nil
}

// Rename renames a column, keeping its position
func (a *Adapter) Rename(ctx context.Context, t optimus.Table, oldName string, newName string) (optimus.Table, error) {
	f, err := AsFrame(t)
	if err != nil {
		return nil, err
	}
	newSchema, err := f.schema.RenameColumn(oldName, newName)
	if err != nil {
		return nil, err
	}
	return &Frame{schema: newSchema, columns: f.columns, rows: f.rows}, nil
}

// Filter keeps the rows for which mask is true. Null mask values drop their row.
func (a *Adapter) Filter(ctx context.Context, t optimus.Table, mask optimus.Column) (optimus.Table, error) {
	f, err := AsFrame(t)
	if err != nil {
		return nil, err
	}
	m, err := AsSeries(mask)
	if err != nil {
		return nil, err
	}
	idx, err := MaskIndex(m.values, f.rows)
	if err != nil {
		return nil, err
	}
	return f.Take(idx), nil
}

// MaskIndex returns the positions at which a boolean mask is true
func MaskIndex(mask []interface{}, rows int) ([]int, error) {
	if len(mask) != rows {
		return nil, fmt.Errorf("mask has %d rows, table has %d", len(mask), rows)
	}
	idx := make([]int, 0, rows)
	for i, v := range mask {
		if b, ok := kernel.ToBoolean(v); ok && b {
			idx = append(idx, i)
		}
	}
	return idx, nil
}

// Sort orders rows by the given keys. Nulls are placed last.
func (a *Adapter) Sort(ctx context.Context, t optimus.Table, keys ...optimus.SortKey) (optimus.Table, error) {
	f, err := AsFrame(t)
	if err != nil {
		return nil, err
	}
	fields, desc, err := SortFields(f.schema, keys)
	if err != nil {
		return nil, err
	}
	return f.Take(kernel.SortIndex(f.Rows(), fields, desc)), nil
}

// SortFields resolves SortKeys to column positions
func SortFields(s optimus.Schema, keys []optimus.SortKey) (fields []int, descending []bool, err error) {
	if len(keys) == 0 {
		return nil, nil, fmt.Errorf("sort requires at least one key")
	}
	fields = make([]int, len(keys))
	descending = make([]bool, len(keys))
	for i, k := range keys {
		fields[i] = s.Index(k.Column)
		if fields[i] < 0 {
			return nil, nil, fmt.Errorf("table does not contain column with name %s", k.Column)
		}
		descending[i] = k.Descending
	}
	return
}

// Slice keeps rows in [lower, upper). Bounds are clamped to the table.
func (a *Adapter) Slice(ctx context.Context, t optimus.Table, lower int, upper int) (optimus.Table, error) {
	f, err := AsFrame(t)
	if err != nil {
		return nil, err
	}
	lower, upper = ClampBounds(lower, upper, f.rows)
	idx := make([]int, 0, upper-lower)
	for i := lower; i < upper; i++ {
		idx = append(idx, i)
	}
	return f.Take(idx), nil
}

// ClampBounds restricts [lower, upper) to [0, rows)
func ClampBounds(lower int, upper int, rows int) (int, int) {
	if lower < 0 {
		lower = 0
	}
	if upper > rows {
		upper = rows
	}
	if upper < lower {
		upper = lower
	}
	return lower, upper
}

// Append adds rows at the end of a Frame
func (a *Adapter) Append(ctx context.Context, t optimus.Table, rows [][]interface{}) (optimus.Table, error) {
	f, err := AsFrame(t)
	if err != nil {
		return nil, err
	}
	appended, err := FrameFromRecords(f.schema, rows)
	if err != nil {
		return nil, err
	}
	cols := make([]*Series, len(f.columns))
	for i, c := range f.columns {
		values := make([]interface{}, 0, f.rows+appended.rows)
		values = append(values, c.values...)
		values = append(values, appended.columns[i].values...)
		cols[i] = &Series{dtype: c.dtype, values: values}
	}
	return &Frame{schema: f.schema, columns: cols, rows: f.rows + appended.rows}, nil
}

// DropDuplicates keeps the first occurrence of every distinct row, considering only subset
// when it is not empty
func (a *Adapter) DropDuplicates(ctx context.Context, t optimus.Table, subset ...string) (optimus.Table, error) {
	f, err := AsFrame(t)
	if err != nil {
		return nil, err
	}
	fields, err := SubsetFields(f.schema, subset)
	if err != nil {
		return nil, err
	}
	return f.Take(kernel.DistinctIndex(f.Rows(), fields)), nil
}

// SubsetFields resolves column names to positions, defaulting to every column
func SubsetFields(s optimus.Schema, subset []string) ([]int, error) {
	if len(subset) == 0 {
		fields := make([]int, s.NumColumns())
		for i := range fields {
			fields[i] = i
		}
		return fields, nil
	}
	fields := make([]int, len(subset))
	for i, name := range subset {
		fields[i] = s.Index(name)
		if fields[i] < 0 {
			return nil, fmt.Errorf("table does not contain column with name %s", name)
		}
	}
	return fields, nil
}

// Empty returns a Frame with no columns and no rows
func Empty() *Frame {
	return &Frame{schema: schema.MustCreateSchema()}
}

type mapper struct{}

func (m *mapper) Engine() optimus.Engine {
	return optimus.Pandas
}

func (m *mapper) Map(c optimus.Column, out optimus.DataType, fn optimus.ValueFunc) (optimus.Column, error) {
	s, err := AsSeries(c)
	if err != nil {
		return nil, err
	}
	values := make([]interface{}, len(s.values))
	for i, v := range s.values {
		res, err := fn(v)
		if err != nil {
			return nil, err
		}
		values[i] = res
	}
	return &Series{dtype: out, values: values}, nil
}

func (m *mapper) Summarize(c optimus.Column) (*optimus.Summary, error) {
	s, err := AsSeries(c)
	if err != nil {
		return nil, err
	}
	return kernel.Summarize(s.values), nil
}
