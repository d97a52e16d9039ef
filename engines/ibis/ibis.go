// Package ibis implements the columnar-query engine. Tables and columns are
// lazy logical plans, evaluated by a local executor only when materialized.
package ibis

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/engines/pandas"
	"github.com/go-sif/optimus/errors"
	"github.com/go-sif/optimus/internal/base"
	"github.com/go-sif/optimus/internal/kernel"
)

// unsupported are the Actions which this engine cannot express as query plans
var unsupported = []optimus.Action{
	optimus.DateFormat,
	optimus.YearsBetween,
	optimus.RemoveAccents,
	optimus.RemoveSpecialChars,
	optimus.Cut,
	optimus.ReplaceFull,
}

type node interface {
	execute(ctx context.Context, local *pandas.Adapter) (*pandas.Frame, error)
	explain() string
}

// Table is a lazy table expression
type Table struct {
	schema optimus.Schema
	plan   node
}

// Engine returns optimus.Ibis
func (t *Table) Engine() optimus.Engine {
	return optimus.Ibis
}

// Schema returns the Schema this Table will have once evaluated
func (t *Table) Schema() optimus.Schema {
	return t.schema
}

// Explain renders the logical plan of this Table
func (t *Table) Explain() string {
	return t.plan.explain()
}

type step struct {
	out optimus.DataType
	fn  optimus.ValueFunc
}

// Expr is a lazy column expression: a source column followed by element-wise steps
type Expr struct {
	source *Table
	column string
	dtype  optimus.DataType
	steps  []step
	rows   func() int
}

// Engine returns optimus.Ibis
func (e *Expr) Engine() optimus.Engine {
	return optimus.Ibis
}

// Type returns the DataType this Expr will have once evaluated
func (e *Expr) Type() optimus.DataType {
	return e.dtype
}

// Len evaluates the number of rows of the source of this Expr. It returns -1 if evaluation fails.
func (e *Expr) Len() int {
	return e.rows()
}

// Depth returns the number of element-wise steps composed into this Expr
func (e *Expr) Depth() int {
	return len(e.steps)
}

func (e *Expr) evaluate(ctx context.Context, local *pandas.Adapter) (*pandas.Series, error) {
	frame, err := e.source.plan.execute(ctx, local)
	if err != nil {
		return nil, err
	}
	return e.evaluateOn(ctx, local, frame)
}

func (e *Expr) evaluateOn(ctx context.Context, local *pandas.Adapter, frame *pandas.Frame) (*pandas.Series, error) {
	c, err := local.Column(ctx, frame, e.column)
	if err != nil {
		return nil, err
	}
	for _, s := range e.steps {
		c, err = local.Functions().Map(c, s.out, s.fn)
		if err != nil {
			return nil, err
		}
	}
	return pandas.AsSeries(c)
}

var _ optimus.Adapter = &Adapter{}

// Adapter is the columnar-query engine
type Adapter struct {
	local        *pandas.Adapter
	capabilities optimus.ActionSet
	functions    *base.Functions
}

// New creates an ibis Adapter
func New() *Adapter {
	a := &Adapter{
		local:        pandas.New(),
		capabilities: base.Capabilities().Without(unsupported...),
	}
	a.functions = base.New(&mapper{a}, a.capabilities)
	return a
}

// Engine returns optimus.Ibis
func (a *Adapter) Engine() optimus.Engine {
	return optimus.Ibis
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

func asTable(t optimus.Table) (*Table, error) {
	it, ok := t.(*Table)
	if !ok || it == nil {
		var actual string
		if t != nil {
			actual = string(t.Engine())
		}
		return nil, errors.IncompatibleEngineError{Expected: string(optimus.Ibis), Actual: actual}
	}
	return it, nil
}

func asExpr(c optimus.Column) (*Expr, error) {
	e, ok := c.(*Expr)
	if !ok || e == nil {
		var actual string
		if c != nil {
			actual = string(c.Engine())
		}
		return nil, errors.IncompatibleEngineError{Expected: string(optimus.Ibis), Actual: actual}
	}
	return e, nil
}

func (a *Adapter) derive(s optimus.Schema, n node) *Table {
	return &Table{schema: s, plan: n}
}

// FromRecords creates a Table scanning in-memory records
func (a *Adapter) FromRecords(ctx context.Context, s optimus.Schema, rows [][]interface{}) (optimus.Table, error) {
	frame, err := pandas.FrameFromRecords(s, rows)
	if err != nil {
		return nil, err
	}
	return a.derive(s, &scan{frame: frame}), nil
}

// Records evaluates a Table
func (a *Adapter) Records(ctx context.Context, t optimus.Table) ([][]interface{}, error) {
	it, err := asTable(t)
	if err != nil {
		return nil, err
	}
	frame, err := it.plan.execute(ctx, a.local)
	if err != nil {
		return nil, err
	}
	return frame.Rows(), nil
}

// NumRows evaluates the number of rows of a Table
func (a *Adapter) NumRows(ctx context.Context, t optimus.Table) (int, error) {
	it, err := asTable(t)
	if err != nil {
		return 0, err
	}
	frame, err := it.plan.execute(ctx, a.local)
	if err != nil {
		return 0, err
	}
	return frame.NumRows(), nil
}

// Column returns a lazy reference to a column
func (a *Adapter) Column(ctx context.Context, t optimus.Table, name string) (optimus.Column, error) {
	it, err := asTable(t)
	if err != nil {
		return nil, err
	}
	desc, err := it.schema.Column(name)
	if err != nil {
		return nil, err
	}
	return &Expr{source: it, column: name, dtype: desc.Type, rows: a.rowCounter(it)}, nil
}

func (a *Adapter) rowCounter(t *Table) func() int {
	return func() int {
		n, err := a.NumRows(context.Background(), t)
		if err != nil {
			return -1
		}
		return n
	}
}

// Values evaluates a column expression
func (a *Adapter) Values(ctx context.Context, c optimus.Column) ([]interface{}, error) {
	e, err := asExpr(c)
	if err != nil {
		return nil, err
	}
	s, err := e.evaluate(ctx, a.local)
	if err != nil {
		return nil, err
	}
	return s.Values(), nil
}

// WithColumn adds a projection of a column expression to the plan
func (a *Adapter) WithColumn(ctx context.Context, t optimus.Table, desc optimus.ColumnDescriptor, c optimus.Column) (optimus.Table, error) {
	it, err := asTable(t)
	if err != nil {
		return nil, err
	}
	e, err := asExpr(c)
	if err != nil {
		return nil, err
	}
	var newSchema optimus.Schema
	if it.schema.HasColumn(desc.Name) {
		newSchema, err = it.schema.ReplaceColumn(desc)
	} else {
		newSchema, err = it.schema.CreateColumn(desc)
	}
	if err != nil {
		return nil, err
	}
	return a.derive(newSchema, &mutate{input: it, desc: desc, expr: e}), nil
}

// Select adds a projection to the plan
func (a *Adapter) Select(ctx context.Context, t optimus.Table, names ...string) (optimus.Table, error) {
	it, err := asTable(t)
	if err != nil {
		return nil, err
	}
	newSchema, err := it.schema.Select(names...)
	if err != nil {
		return nil, err
	}
	return a.derive(newSchema, &project{input: it, names: names}), nil
}

// Rename adds a relabeling to the plan
func (a *Adapter) Rename(ctx context.Context, t optimus.Table, oldName string, newName string) (optimus.Table, error) {
	it, err := asTable(t)
	if err != nil {
		return nil, err
	}
	newSchema, err := it.schema.RenameColumn(oldName, newName)
	if err != nil {
		return nil, err
	}
	return a.derive(newSchema, &relabel{input: it, oldName: oldName, newName: newName}), nil
}

// Filter adds a selection to the plan
func (a *Adapter) Filter(ctx context.Context, t optimus.Table, mask optimus.Column) (optimus.Table, error) {
	it, err := asTable(t)
	if err != nil {
		return nil, err
	}
	e, err := asExpr(mask)
	if err != nil {
		return nil, err
	}
	return a.derive(it.schema, &selection{input: it, mask: e}), nil
}

// Sort adds an ordering to the plan
func (a *Adapter) Sort(ctx context.Context, t optimus.Table, keys ...optimus.SortKey) (optimus.Table, error) {
	it, err := asTable(t)
	if err != nil {
		return nil, err
	}
	if _, _, err := pandas.SortFields(it.schema, keys); err != nil {
		return nil, err
	}
	return a.derive(it.schema, &ordering{input: it, keys: keys}), nil
}

// Slice adds a limit to the plan
func (a *Adapter) Slice(ctx context.Context, t optimus.Table, lower int, upper int) (optimus.Table, error) {
	it, err := asTable(t)
	if err != nil {
		return nil, err
	}
	return a.derive(it.schema, &limit{input: it, lower: lower, upper: upper}), nil
}

// Append adds a union with in-memory records to the plan
func (a *Adapter) Append(ctx context.Context, t optimus.Table, rows [][]interface{}) (optimus.Table, error) {
	it, err := asTable(t)
	if err != nil {
		return nil, err
	}
	frame, err := pandas.FrameFromRecords(it.schema, rows)
	if err != nil {
		return nil, err
	}
	return a.derive(it.schema, &union{input: it, rows: frame}), nil
}

// DropDuplicates adds a distinct to the plan
func (a *Adapter) DropDuplicates(ctx context.Context, t optimus.Table, subset ...string) (optimus.Table, error) {
	it, err := asTable(t)
	if err != nil {
		return nil, err
	}
	if _, err := pandas.SubsetFields(it.schema, subset); err != nil {
		return nil, err
	}
	return a.derive(it.schema, &distinct{input: it, subset: subset}), nil
}

type mapper struct {
	a *Adapter
}

func (m *mapper) Engine() optimus.Engine {
	return optimus.Ibis
}

// Map composes a step onto the expression without evaluating it
func (m *mapper) Map(c optimus.Column, out optimus.DataType, fn optimus.ValueFunc) (optimus.Column, error) {
	e, err := asExpr(c)
	if err != nil {
		return nil, err
	}
	steps := make([]step, len(e.steps), len(e.steps)+1)
	copy(steps, e.steps)
	steps = append(steps, step{out: out, fn: fn})
	return &Expr{source: e.source, column: e.column, dtype: out, steps: steps, rows: e.rows}, nil
}

func (m *mapper) Summarize(c optimus.Column) (*optimus.Summary, error) {
	e, err := asExpr(c)
	if err != nil {
		return nil, err
	}
	s, err := e.evaluate(context.Background(), m.a.local)
	if err != nil {
		return nil, err
	}
	return kernel.Summarize(s.Values()), nil
}

func explainAll(name string, input *Table, args ...string) string {
	parts := append([]string{input.plan.explain()}, args...)
	return fmt.Sprintf("%s(%s)", name, strings.Join(parts, ", "))
}
