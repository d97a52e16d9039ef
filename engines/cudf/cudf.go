// Package cudf implements the GPU engine. Columns are typed buffers with
// validity masks, and element-wise kernels are launched in lanes on a worker
// pool sized to the number of visible devices.
package cudf

import (
	"context"
	"fmt"
	"sync"

	"github.com/RoaringBitmap/roaring"
	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/engines/pandas"
	"github.com/go-sif/optimus/errors"
	"github.com/go-sif/optimus/internal/base"
	"github.com/go-sif/optimus/internal/gpu"
	"github.com/go-sif/optimus/internal/kernel"
	"github.com/go-sif/optimus/internal/util"
	"github.com/panjf2000/ants/v2"
)

// Options configures a cudf Adapter
type Options struct {
	Devices  int // number of kernel lanes run concurrently, the visible device count by default
	LaneSize int // number of values processed by one kernel lane
}

func ensureDefaultOptionsValues(opts *Options) {
	if opts.Devices <= 0 {
		opts.Devices = gpu.DeviceCount()
	}
	if opts.Devices <= 0 {
		// no accelerators: kernels run on a single host lane
		opts.Devices = 1
	}
	if opts.LaneSize <= 0 {
		opts.LaneSize = 4096
	}
}

// Frame is a table of Buffers
type Frame struct {
	schema  optimus.Schema
	buffers []*Buffer
	rows    int
}

// Engine returns optimus.CUDF
func (f *Frame) Engine() optimus.Engine {
	return optimus.CUDF
}

// Schema returns the Schema of this Frame
func (f *Frame) Schema() optimus.Schema {
	return f.schema
}

func (f *Frame) row(i int) []interface{} {
	row := make([]interface{}, len(f.buffers))
	for j, b := range f.buffers {
		row[j] = b.Get(i)
	}
	return row
}

func (f *Frame) rowsCopy() [][]interface{} {
	rows := make([][]interface{}, f.rows)
	for i := range rows {
		rows[i] = f.row(i)
	}
	return rows
}

func (f *Frame) take(idx []int) *Frame {
	buffers := make([]*Buffer, len(f.buffers))
	for i, b := range f.buffers {
		buffers[i] = b.take(idx)
	}
	return &Frame{schema: f.schema, buffers: buffers, rows: len(idx)}
}

var _ optimus.Adapter = &Adapter{}

// Adapter is the GPU engine
type Adapter struct {
	opts         Options
	pool         *ants.Pool
	capabilities optimus.ActionSet
	functions    *base.Functions
}

// New creates a cudf Adapter. It must be closed to release its lanes.
func New(opts Options) (*Adapter, error) {
	ensureDefaultOptionsValues(&opts)
	pool, err := ants.NewPool(opts.Devices)
	if err != nil {
		return nil, err
	}
	a := &Adapter{opts: opts, pool: pool, capabilities: base.Capabilities()}
	a.functions = base.New(&mapper{a}, a.capabilities)
	return a, nil
}

// Engine returns optimus.CUDF
func (a *Adapter) Engine() optimus.Engine {
	return optimus.CUDF
}

// Devices returns the number of concurrent kernel lanes
func (a *Adapter) Devices() int {
	return a.opts.Devices
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

// Close releases the kernel lanes
func (a *Adapter) Close() error {
	a.pool.Release()
	return nil
}

// launch runs kernel over [0, n) in lanes of LaneSize values
func (a *Adapter) launch(n int, kernel func(lower int, upper int) error) error {
	lanes := (n + a.opts.LaneSize - 1) / a.opts.LaneSize
	var wg sync.WaitGroup
	errs := util.CreateAsyncErrorChannel(lanes)
	for l := 0; l < lanes; l++ {
		lower := l * a.opts.LaneSize
		upper := lower + a.opts.LaneSize
		if upper > n {
			upper = n
		}
		wg.Add(1)
		err := a.pool.Submit(func() {
			defer wg.Done()
			if err := kernel(lower, upper); err != nil {
				errs <- err
			}
		})
		if err != nil {
			wg.Done()
			errs <- err
			break
		}
	}
	return util.WaitAndFetchError(&wg, errs)
}

func asFrame(t optimus.Table) (*Frame, error) {
	f, ok := t.(*Frame)
	if !ok || f == nil {
		var actual string
		if t != nil {
			actual = string(t.Engine())
		}
		return nil, errors.IncompatibleEngineError{Expected: string(optimus.CUDF), Actual: actual}
	}
	return f, nil
}

func asBuffer(c optimus.Column) (*Buffer, error) {
	b, ok := c.(*Buffer)
	if !ok || b == nil {
		var actual string
		if c != nil {
			actual = string(c.Engine())
		}
		return nil, errors.IncompatibleEngineError{Expected: string(optimus.CUDF), Actual: actual}
	}
	return b, nil
}

// FromRecords copies row-major records into device buffers
func (a *Adapter) FromRecords(ctx context.Context, s optimus.Schema, rows [][]interface{}) (optimus.Table, error) {
	n := s.NumColumns()
	types := s.ColumnTypes()
	buffers := make([]*Buffer, n)
	for j := range buffers {
		buffers[j] = newBuffer(types[j], len(rows))
	}
	for i, row := range rows {
		if len(row) != n {
			return nil, errors.IncompatibleRowError{Expected: n, Actual: len(row)}
		}
		for j, v := range row {
			if buffers[j].store(i, v) {
				buffers[j].valid.Add(uint32(i))
			}
		}
	}
	return &Frame{schema: s, buffers: buffers, rows: len(rows)}, nil
}

// Records copies device buffers into row-major records
func (a *Adapter) Records(ctx context.Context, t optimus.Table) ([][]interface{}, error) {
	f, err := asFrame(t)
	if err != nil {
		return nil, err
	}
	return f.rowsCopy(), nil
}

// NumRows returns the number of rows in a Frame
func (a *Adapter) NumRows(ctx context.Context, t optimus.Table) (int, error) {
	f, err := asFrame(t)
	if err != nil {
		return 0, err
	}
	return f.rows, nil
}

// Column returns the Buffer with the given name
func (a *Adapter) Column(ctx context.Context, t optimus.Table, name string) (optimus.Column, error) {
	f, err := asFrame(t)
	if err != nil {
		return nil, err
	}
	idx := f.schema.Index(name)
	if idx < 0 {
		return nil, fmt.Errorf("table does not contain column with name %s", name)
	}
	return f.buffers[idx], nil
}

// Values copies a Buffer to host values
func (a *Adapter) Values(ctx context.Context, c optimus.Column) ([]interface{}, error) {
	b, err := asBuffer(c)
	if err != nil {
		return nil, err
	}
	return b.Values(), nil
}

// WithColumn replaces or appends a column
func (a *Adapter) WithColumn(ctx context.Context, t optimus.Table, desc optimus.ColumnDescriptor, c optimus.Column) (optimus.Table, error) {
	f, err := asFrame(t)
	if err != nil {
		return nil, err
	}
	b, err := asBuffer(c)
	if err != nil {
		return nil, err
	}
	if b.Len() != f.rows && f.schema.NumColumns() > 0 {
		return nil, fmt.Errorf("column %s has %d rows, table has %d", desc.Name, b.Len(), f.rows)
	}
	if b.dtype != desc.Type {
		b = bufferFromValues(desc.Type, b.Values())
	}
	buffers := make([]*Buffer, len(f.buffers), len(f.buffers)+1)
	copy(buffers, f.buffers)
	var newSchema optimus.Schema
	if idx := f.schema.Index(desc.Name); idx >= 0 {
		newSchema, err = f.schema.ReplaceColumn(desc)
		buffers[idx] = b
	} else {
		newSchema, err = f.schema.CreateColumn(desc)
		buffers = append(buffers, b)
	}
	if err != nil {
		return nil, err
	}
	return &Frame{schema: newSchema, buffers: buffers, rows: b.Len()}, nil
}

// Select keeps only the given columns, in the given order
func (a *Adapter) Select(ctx context.Context, t optimus.Table, names ...string) (optimus.Table, error) {
	f, err := asFrame(t)
	if err != nil {
		return nil, err
	}
	newSchema, err := f.schema.Select(names...)
	if err != nil {
		return nil, err
	}
	buffers := make([]*Buffer, len(names))
	for i, name := range names {
		buffers[i] = f.buffers[f.schema.Index(name)]
	}
	return &Frame{schema: newSchema, buffers: buffers, rows: f.rows}, nil
}

// Rename renames a column, keeping its position
func (a *Adapter) Rename(ctx context.Context, t optimus.Table, oldName string, newName string) (optimus.Table, error) {
	f, err := asFrame(t)
	if err != nil {
		return nil, err
	}
	newSchema, err := f.schema.RenameColumn(oldName, newName)
	if err != nil {
		return nil, err
	}
	return &Frame{schema: newSchema, buffers: f.buffers, rows: f.rows}, nil
}

// Filter keeps the rows for which mask is true
func (a *Adapter) Filter(ctx context.Context, t optimus.Table, mask optimus.Column) (optimus.Table, error) {
	f, err := asFrame(t)
	if err != nil {
		return nil, err
	}
	m, err := asBuffer(mask)
	if err != nil {
		return nil, err
	}
	idx, err := pandas.MaskIndex(m.Values(), f.rows)
	if err != nil {
		return nil, err
	}
	return f.take(idx), nil
}

// Sort orders rows by the given keys. Nulls are placed last.
func (a *Adapter) Sort(ctx context.Context, t optimus.Table, keys ...optimus.SortKey) (optimus.Table, error) {
	f, err := asFrame(t)
	if err != nil {
		return nil, err
	}
	fields, desc, err := pandas.SortFields(f.schema, keys)
	if err != nil {
		return nil, err
	}
	return f.take(kernel.SortIndex(f.rowsCopy(), fields, desc)), nil
}

// Slice keeps rows in [lower, upper)
func (a *Adapter) Slice(ctx context.Context, t optimus.Table, lower int, upper int) (optimus.Table, error) {
	f, err := asFrame(t)
	if err != nil {
		return nil, err
	}
	lower, upper = pandas.ClampBounds(lower, upper, f.rows)
	idx := make([]int, 0, upper-lower)
	for i := lower; i < upper; i++ {
		idx = append(idx, i)
	}
	return f.take(idx), nil
}

// Append adds rows at the end of a Frame
func (a *Adapter) Append(ctx context.Context, t optimus.Table, rows [][]interface{}) (optimus.Table, error) {
	f, err := asFrame(t)
	if err != nil {
		return nil, err
	}
	all := f.rowsCopy()
	all = append(all, rows...)
	return a.FromRecords(ctx, f.schema, all)
}

// DropDuplicates keeps the first occurrence of every distinct row
func (a *Adapter) DropDuplicates(ctx context.Context, t optimus.Table, subset ...string) (optimus.Table, error) {
	f, err := asFrame(t)
	if err != nil {
		return nil, err
	}
	fields, err := pandas.SubsetFields(f.schema, subset)
	if err != nil {
		return nil, err
	}
	return f.take(kernel.DistinctIndex(f.rowsCopy(), fields)), nil
}

type mapper struct {
	a *Adapter
}

func (m *mapper) Engine() optimus.Engine {
	return optimus.CUDF
}

func (m *mapper) Map(c optimus.Column, out optimus.DataType, fn optimus.ValueFunc) (optimus.Column, error) {
	in, err := asBuffer(c)
	if err != nil {
		return nil, err
	}
	res := newBuffer(out, in.n)
	var mu sync.Mutex
	masks := make([]*roaring.Bitmap, 0)
	safe := util.SafeValueFunc(fn)
	err = m.a.launch(in.n, func(lower int, upper int) error {
		valid := roaring.New()
		for i := lower; i < upper; i++ {
			v, err := safe(in.Get(i))
			if err != nil {
				return err
			}
			if res.store(i, v) {
				valid.Add(uint32(i))
			}
		}
		mu.Lock()
		masks = append(masks, valid)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(masks) > 0 {
		res.valid = roaring.FastOr(masks...)
	}
	return res, nil
}

func (m *mapper) Summarize(c optimus.Column) (*optimus.Summary, error) {
	in, err := asBuffer(c)
	if err != nil {
		return nil, err
	}
	var mu sync.Mutex
	res := optimus.NewSummary()
	err = m.a.launch(in.n, func(lower int, upper int) error {
		s := optimus.NewSummary()
		for i := lower; i < upper; i++ {
			kernel.Observe(s, in.Get(i))
		}
		mu.Lock()
		defer mu.Unlock()
		return res.Merge(s)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
