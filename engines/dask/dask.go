// Package dask implements the distributed engine: a table is split into
// partitions, each held by an inner local Adapter, and per-partition work runs
// in parallel on a bounded number of workers.
package dask

import (
	"context"
	"fmt"
	"runtime"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/engines/pandas"
	"github.com/go-sif/optimus/errors"
	"github.com/go-sif/optimus/internal/base"
	"github.com/go-sif/optimus/schema"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Options configures a partitioned Adapter
type Options struct {
	Engine      optimus.Engine  // reported engine, optimus.Dask by default
	Inner       optimus.Adapter // adapter holding each partition, pandas by default
	NWorkers    int             // maximum number of partitions processed concurrently
	NPartitions int             // number of partitions produced by FromRecords
}

func ensureDefaultOptionsValues(opts *Options) {
	if len(opts.Engine) == 0 {
		opts.Engine = optimus.Dask
	}
	if opts.Inner == nil {
		opts.Inner = pandas.New()
	}
	if opts.NWorkers <= 0 {
		opts.NWorkers = runtime.NumCPU()
	}
	if opts.NPartitions <= 0 {
		opts.NPartitions = opts.NWorkers
	}
}

// Table is a partitioned table
type Table struct {
	engine optimus.Engine
	schema optimus.Schema
	parts  []optimus.Table
}

// Engine returns the engine this Table belongs to
func (t *Table) Engine() optimus.Engine {
	return t.engine
}

// Schema returns the Schema of this Table
func (t *Table) Schema() optimus.Schema {
	return t.schema
}

// NumPartitions returns the number of partitions in this Table
func (t *Table) NumPartitions() int {
	return len(t.parts)
}

// Partition returns one partition of this Table, as a Table of the inner engine
func (t *Table) Partition(i int) optimus.Table {
	return t.parts[i]
}

// Column is a partitioned column, aligned with the partitions of the Table it came from.
// Columns map their partitions under the context of the operation which read them.
type Column struct {
	engine optimus.Engine
	dtype  optimus.DataType
	parts  []optimus.Column
	ctx    context.Context
}

func (c *Column) opContext() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// Engine returns the engine this Column belongs to
func (c *Column) Engine() optimus.Engine {
	return c.engine
}

// Type returns the DataType of this Column
func (c *Column) Type() optimus.DataType {
	return c.dtype
}

// Len returns the number of values in this Column
func (c *Column) Len() int {
	n := 0
	for _, p := range c.parts {
		n += p.Len()
	}
	return n
}

var _ optimus.Adapter = &Adapter{}

// Adapter is the partitioned engine
type Adapter struct {
	opts      Options
	inner     optimus.Adapter
	sem       *semaphore.Weighted
	functions *base.Functions
}

// New creates a partitioned Adapter
func New(opts Options) *Adapter {
	ensureDefaultOptionsValues(&opts)
	a := &Adapter{
		opts:  opts,
		inner: opts.Inner,
		sem:   semaphore.NewWeighted(int64(opts.NWorkers)),
	}
	a.functions = base.New(&mapper{a}, opts.Inner.Capabilities())
	return a
}

// Engine returns the engine this Adapter reports
func (a *Adapter) Engine() optimus.Engine {
	return a.opts.Engine
}

// Inner returns the Adapter holding each partition
func (a *Adapter) Inner() optimus.Adapter {
	return a.inner
}

// Supports returns true iff this Adapter implements the given Action
func (a *Adapter) Supports(action optimus.Action) bool {
	return a.inner.Supports(action)
}

// Capabilities returns the Actions this Adapter implements
func (a *Adapter) Capabilities() optimus.ActionSet {
	return a.inner.Capabilities()
}

// Functions returns the column catalog of this Adapter
func (a *Adapter) Functions() optimus.Functions {
	return a.functions
}

// NumWorkers returns the maximum number of concurrently processed partitions
func (a *Adapter) NumWorkers() int {
	return a.opts.NWorkers
}

// Close releases the inner Adapter, if it holds resources
func (a *Adapter) Close() error {
	if closer, ok := a.inner.(optimus.Closer); ok {
		return closer.Close()
	}
	return nil
}

// parallel runs fn once per partition index, at most NWorkers at a time
func (a *Adapter) parallel(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		if err := a.sem.Acquire(gctx, 1); err != nil {
			if werr := g.Wait(); werr != nil {
				return werr
			}
			return err
		}
		g.Go(func() error {
			defer a.sem.Release(1)
			return fn(gctx, i)
		})
	}
	return g.Wait()
}

func (a *Adapter) asTable(t optimus.Table) (*Table, error) {
	dt, ok := t.(*Table)
	if !ok || dt == nil || dt.engine != a.opts.Engine {
		var actual string
		if t != nil {
			actual = string(t.Engine())
		}
		return nil, errors.IncompatibleEngineError{Expected: string(a.opts.Engine), Actual: actual}
	}
	return dt, nil
}

func (a *Adapter) asColumn(c optimus.Column) (*Column, error) {
	dc, ok := c.(*Column)
	if !ok || dc == nil || dc.engine != a.opts.Engine {
		var actual string
		if c != nil {
			actual = string(c.Engine())
		}
		return nil, errors.IncompatibleEngineError{Expected: string(a.opts.Engine), Actual: actual}
	}
	return dc, nil
}

func (a *Adapter) wrap(s optimus.Schema, parts []optimus.Table) *Table {
	if len(parts) > 0 {
		s = parts[0].Schema()
	}
	return &Table{engine: a.opts.Engine, schema: s, parts: parts}
}

// split divides rows into at most n contiguous, nearly equal chunks. There is always at least one chunk.
func split(rows [][]interface{}, n int) [][][]interface{} {
	if n > len(rows) {
		n = len(rows)
	}
	if n <= 1 {
		return [][][]interface{}{rows}
	}
	chunks := make([][][]interface{}, n)
	size, extra := len(rows)/n, len(rows)%n
	start := 0
	for i := range chunks {
		end := start + size
		if i < extra {
			end++
		}
		chunks[i] = rows[start:end]
		start = end
	}
	return chunks
}

func (a *Adapter) fromChunks(ctx context.Context, s optimus.Schema, chunks [][][]interface{}) (*Table, error) {
	parts := make([]optimus.Table, len(chunks))
	err := a.parallel(ctx, len(chunks), func(ctx context.Context, i int) (err error) {
		parts[i], err = a.inner.FromRecords(ctx, s, chunks[i])
		return
	})
	if err != nil {
		return nil, err
	}
	return a.wrap(s, parts), nil
}

// FromRecords splits rows into NPartitions partitions
func (a *Adapter) FromRecords(ctx context.Context, s optimus.Schema, rows [][]interface{}) (optimus.Table, error) {
	return a.fromChunks(ctx, s, split(rows, a.opts.NPartitions))
}

// Records gathers every partition, in order
func (a *Adapter) Records(ctx context.Context, t optimus.Table) ([][]interface{}, error) {
	dt, err := a.asTable(t)
	if err != nil {
		return nil, err
	}
	chunks := make([][][]interface{}, len(dt.parts))
	err = a.parallel(ctx, len(dt.parts), func(ctx context.Context, i int) (err error) {
		chunks[i], err = a.inner.Records(ctx, dt.parts[i])
		return
	})
	if err != nil {
		return nil, err
	}
	var rows [][]interface{}
	for _, c := range chunks {
		rows = append(rows, c...)
	}
	return rows, nil
}

func (a *Adapter) sizes(ctx context.Context, dt *Table) ([]int, error) {
	sizes := make([]int, len(dt.parts))
	err := a.parallel(ctx, len(dt.parts), func(ctx context.Context, i int) (err error) {
		sizes[i], err = a.inner.NumRows(ctx, dt.parts[i])
		return
	})
	return sizes, err
}

// NumRows sums the rows of every partition
func (a *Adapter) NumRows(ctx context.Context, t optimus.Table) (int, error) {
	dt, err := a.asTable(t)
	if err != nil {
		return 0, err
	}
	sizes, err := a.sizes(ctx, dt)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, s := range sizes {
		total += s
	}
	return total, nil
}

// Column returns a partitioned column
func (a *Adapter) Column(ctx context.Context, t optimus.Table, name string) (optimus.Column, error) {
	dt, err := a.asTable(t)
	if err != nil {
		return nil, err
	}
	desc, err := dt.schema.Column(name)
	if err != nil {
		return nil, err
	}
	parts := make([]optimus.Column, len(dt.parts))
	err = a.parallel(ctx, len(dt.parts), func(ctx context.Context, i int) (err error) {
		parts[i], err = a.inner.Column(ctx, dt.parts[i], name)
		return
	})
	if err != nil {
		return nil, err
	}
	return &Column{engine: a.opts.Engine, dtype: desc.Type, parts: parts, ctx: ctx}, nil
}

// Values gathers every partition of a column, in order
func (a *Adapter) Values(ctx context.Context, c optimus.Column) ([]interface{}, error) {
	dc, err := a.asColumn(c)
	if err != nil {
		return nil, err
	}
	chunks := make([][]interface{}, len(dc.parts))
	err = a.parallel(ctx, len(dc.parts), func(ctx context.Context, i int) (err error) {
		chunks[i], err = a.inner.Values(ctx, dc.parts[i])
		return
	})
	if err != nil {
		return nil, err
	}
	var values []interface{}
	for _, c := range chunks {
		values = append(values, c...)
	}
	return values, nil
}

// align re-partitions a column to match the given partition sizes
func (a *Adapter) align(ctx context.Context, dc *Column, sizes []int) ([]optimus.Column, error) {
	aligned := len(dc.parts) == len(sizes)
	for i := 0; aligned && i < len(sizes); i++ {
		aligned = dc.parts[i].Len() == sizes[i]
	}
	if aligned {
		return dc.parts, nil
	}
	values, err := a.Values(ctx, dc)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, s := range sizes {
		total += s
	}
	if total != len(values) {
		return nil, fmt.Errorf("column has %d rows, table has %d", len(values), total)
	}
	s := schema.MustCreateSchema(optimus.ColumnDescriptor{Name: "_", Type: dc.dtype, Nullable: true})
	parts := make([]optimus.Column, len(sizes))
	offsets := make([]int, len(sizes))
	for i := 1; i < len(sizes); i++ {
		offsets[i] = offsets[i-1] + sizes[i-1]
	}
	err = a.parallel(ctx, len(sizes), func(ctx context.Context, i int) error {
		rows := make([][]interface{}, sizes[i])
		for j := range rows {
			rows[j] = []interface{}{values[offsets[i]+j]}
		}
		part, err := a.inner.FromRecords(ctx, s, rows)
		if err != nil {
			return err
		}
		parts[i], err = a.inner.Column(ctx, part, "_")
		return err
	})
	return parts, err
}

// WithColumn replaces or appends a column in every partition
func (a *Adapter) WithColumn(ctx context.Context, t optimus.Table, desc optimus.ColumnDescriptor, c optimus.Column) (optimus.Table, error) {
	dt, err := a.asTable(t)
	if err != nil {
		return nil, err
	}
	dc, err := a.asColumn(c)
	if err != nil {
		return nil, err
	}
	sizes, err := a.sizes(ctx, dt)
	if err != nil {
		return nil, err
	}
	cols, err := a.align(ctx, dc, sizes)
	if err != nil {
		return nil, err
	}
	parts := make([]optimus.Table, len(dt.parts))
	err = a.parallel(ctx, len(dt.parts), func(ctx context.Context, i int) (err error) {
		parts[i], err = a.inner.WithColumn(ctx, dt.parts[i], desc, cols[i])
		return
	})
	if err != nil {
		return nil, err
	}
	return a.wrap(dt.schema, parts), nil
}

func (a *Adapter) perPartition(ctx context.Context, t optimus.Table, fn func(ctx context.Context, part optimus.Table) (optimus.Table, error)) (optimus.Table, error) {
	dt, err := a.asTable(t)
	if err != nil {
		return nil, err
	}
	parts := make([]optimus.Table, len(dt.parts))
	err = a.parallel(ctx, len(dt.parts), func(ctx context.Context, i int) (err error) {
		parts[i], err = fn(ctx, dt.parts[i])
		return
	})
	if err != nil {
		return nil, err
	}
	return a.wrap(dt.schema, parts), nil
}

// Select keeps only the given columns, in every partition
func (a *Adapter) Select(ctx context.Context, t optimus.Table, names ...string) (optimus.Table, error) {
	return a.perPartition(ctx, t, func(ctx context.Context, part optimus.Table) (optimus.Table, error) {
		return a.inner.Select(ctx, part, names...)
	})
}

// Rename renames a column in every partition
func (a *Adapter) Rename(ctx context.Context, t optimus.Table, oldName string, newName string) (optimus.Table, error) {
	return a.perPartition(ctx, t, func(ctx context.Context, part optimus.Table) (optimus.Table, error) {
		return a.inner.Rename(ctx, part, oldName, newName)
	})
}

// Filter keeps the rows for which mask is true, partition by partition
func (a *Adapter) Filter(ctx context.Context, t optimus.Table, mask optimus.Column) (optimus.Table, error) {
	dt, err := a.asTable(t)
	if err != nil {
		return nil, err
	}
	dc, err := a.asColumn(mask)
	if err != nil {
		return nil, err
	}
	sizes, err := a.sizes(ctx, dt)
	if err != nil {
		return nil, err
	}
	masks, err := a.align(ctx, dc, sizes)
	if err != nil {
		return nil, err
	}
	parts := make([]optimus.Table, len(dt.parts))
	err = a.parallel(ctx, len(dt.parts), func(ctx context.Context, i int) (err error) {
		parts[i], err = a.inner.Filter(ctx, dt.parts[i], masks[i])
		return
	})
	if err != nil {
		return nil, err
	}
	return a.wrap(dt.schema, parts), nil
}

// gathered applies a whole-table operation by gathering every partition into one,
// then splitting the result back into the original number of partitions
func (a *Adapter) gathered(ctx context.Context, t optimus.Table, fn func(ctx context.Context, whole optimus.Table) (optimus.Table, error)) (optimus.Table, error) {
	dt, err := a.asTable(t)
	if err != nil {
		return nil, err
	}
	rows, err := a.Records(ctx, dt)
	if err != nil {
		return nil, err
	}
	whole, err := a.inner.FromRecords(ctx, dt.schema, rows)
	if err != nil {
		return nil, err
	}
	res, err := fn(ctx, whole)
	if err != nil {
		return nil, err
	}
	rows, err = a.inner.Records(ctx, res)
	if err != nil {
		return nil, err
	}
	return a.fromChunks(ctx, res.Schema(), split(rows, len(dt.parts)))
}

// Sort orders rows across every partition
func (a *Adapter) Sort(ctx context.Context, t optimus.Table, keys ...optimus.SortKey) (optimus.Table, error) {
	return a.gathered(ctx, t, func(ctx context.Context, whole optimus.Table) (optimus.Table, error) {
		return a.inner.Sort(ctx, whole, keys...)
	})
}

// DropDuplicates removes duplicate rows across every partition
func (a *Adapter) DropDuplicates(ctx context.Context, t optimus.Table, subset ...string) (optimus.Table, error) {
	return a.gathered(ctx, t, func(ctx context.Context, whole optimus.Table) (optimus.Table, error) {
		return a.inner.DropDuplicates(ctx, whole, subset...)
	})
}

// Slice keeps rows in [lower, upper) of the whole table
func (a *Adapter) Slice(ctx context.Context, t optimus.Table, lower int, upper int) (optimus.Table, error) {
	dt, err := a.asTable(t)
	if err != nil {
		return nil, err
	}
	sizes, err := a.sizes(ctx, dt)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, s := range sizes {
		total += s
	}
	lower, upper = pandas.ClampBounds(lower, upper, total)
	parts := make([]optimus.Table, len(dt.parts))
	offset := 0
	bounds := make([][2]int, len(dt.parts))
	for i, s := range sizes {
		bounds[i] = [2]int{lower - offset, upper - offset}
		offset += s
	}
	err = a.parallel(ctx, len(dt.parts), func(ctx context.Context, i int) (err error) {
		parts[i], err = a.inner.Slice(ctx, dt.parts[i], bounds[i][0], bounds[i][1])
		return
	})
	if err != nil {
		return nil, err
	}
	return a.wrap(dt.schema, parts), nil
}

// Append adds rows as a new partition
func (a *Adapter) Append(ctx context.Context, t optimus.Table, rows [][]interface{}) (optimus.Table, error) {
	dt, err := a.asTable(t)
	if err != nil {
		return nil, err
	}
	part, err := a.inner.FromRecords(ctx, dt.schema, rows)
	if err != nil {
		return nil, err
	}
	parts := make([]optimus.Table, 0, len(dt.parts)+1)
	parts = append(parts, dt.parts...)
	parts = append(parts, part)
	return a.wrap(dt.schema, parts), nil
}

type mapper struct {
	a *Adapter
}

func (m *mapper) Engine() optimus.Engine {
	return m.a.opts.Engine
}

func (m *mapper) Map(c optimus.Column, out optimus.DataType, fn optimus.ValueFunc) (optimus.Column, error) {
	dc, err := m.a.asColumn(c)
	if err != nil {
		return nil, err
	}
	inner := m.a.inner.Functions()
	parts := make([]optimus.Column, len(dc.parts))
	err = m.a.parallel(dc.opContext(), len(dc.parts), func(ctx context.Context, i int) (err error) {
		if err = ctx.Err(); err != nil {
			return
		}
		parts[i], err = inner.Map(dc.parts[i], out, fn)
		return
	})
	if err != nil {
		return nil, err
	}
	return &Column{engine: dc.engine, dtype: out, parts: parts, ctx: dc.ctx}, nil
}

func (m *mapper) Summarize(c optimus.Column) (*optimus.Summary, error) {
	dc, err := m.a.asColumn(c)
	if err != nil {
		return nil, err
	}
	inner := m.a.inner.Functions()
	summaries := make([]*optimus.Summary, len(dc.parts))
	err = m.a.parallel(dc.opContext(), len(dc.parts), func(ctx context.Context, i int) (err error) {
		if err = ctx.Err(); err != nil {
			return
		}
		summaries[i], err = inner.Summarize(dc.parts[i])
		return
	})
	if err != nil {
		return nil, err
	}
	res := optimus.NewSummary()
	for _, s := range summaries {
		if err := res.Merge(s); err != nil {
			return nil, err
		}
	}
	return res, nil
}
