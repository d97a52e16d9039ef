package ibis

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/engines/pandas"
)

type scan struct {
	frame *pandas.Frame
}

func (n *scan) execute(ctx context.Context, local *pandas.Adapter) (*pandas.Frame, error) {
	return n.frame, nil
}

func (n *scan) explain() string {
	return fmt.Sprintf("scan[%d]", n.frame.NumRows())
}

type mutate struct {
	input *Table
	desc  optimus.ColumnDescriptor
	expr  *Expr
}

func (n *mutate) execute(ctx context.Context, local *pandas.Adapter) (*pandas.Frame, error) {
	frame, err := n.input.plan.execute(ctx, local)
	if err != nil {
		return nil, err
	}
	var s *pandas.Series
	if n.expr.source == n.input {
		s, err = n.expr.evaluateOn(ctx, local, frame)
	} else {
		s, err = n.expr.evaluate(ctx, local)
	}
	if err != nil {
		return nil, err
	}
	if s.Type() != n.desc.Type {
		s = pandas.NewSeries(n.desc.Type, s.Values())
	}
	t, err := local.WithColumn(ctx, frame, n.desc, s)
	if err != nil {
		return nil, err
	}
	return pandas.AsFrame(t)
}

func (n *mutate) explain() string {
	return explainAll("mutate", n.input, n.desc.Name)
}

type project struct {
	input *Table
	names []string
}

func (n *project) execute(ctx context.Context, local *pandas.Adapter) (*pandas.Frame, error) {
	frame, err := n.input.plan.execute(ctx, local)
	if err != nil {
		return nil, err
	}
	t, err := local.Select(ctx, frame, n.names...)
	if err != nil {
		return nil, err
	}
	return pandas.AsFrame(t)
}

func (n *project) explain() string {
	return explainAll("project", n.input, strings.Join(n.names, " "))
}

type relabel struct {
	input   *Table
	oldName string
	newName string
}

func (n *relabel) execute(ctx context.Context, local *pandas.Adapter) (*pandas.Frame, error) {
	frame, err := n.input.plan.execute(ctx, local)
	if err != nil {
		return nil, err
	}
	t, err := local.Rename(ctx, frame, n.oldName, n.newName)
	if err != nil {
		return nil, err
	}
	return pandas.AsFrame(t)
}

func (n *relabel) explain() string {
	return explainAll("relabel", n.input, n.oldName+"->"+n.newName)
}

type selection struct {
	input *Table
	mask  *Expr
}

func (n *selection) execute(ctx context.Context, local *pandas.Adapter) (*pandas.Frame, error) {
	frame, err := n.input.plan.execute(ctx, local)
	if err != nil {
		return nil, err
	}
	var m *pandas.Series
	if n.mask.source == n.input {
		m, err = n.mask.evaluateOn(ctx, local, frame)
	} else {
		m, err = n.mask.evaluate(ctx, local)
	}
	if err != nil {
		return nil, err
	}
	t, err := local.Filter(ctx, frame, m)
	if err != nil {
		return nil, err
	}
	return pandas.AsFrame(t)
}

func (n *selection) explain() string {
	return explainAll("selection", n.input)
}

type ordering struct {
	input *Table
	keys  []optimus.SortKey
}

func (n *ordering) execute(ctx context.Context, local *pandas.Adapter) (*pandas.Frame, error) {
	frame, err := n.input.plan.execute(ctx, local)
	if err != nil {
		return nil, err
	}
	t, err := local.Sort(ctx, frame, n.keys...)
	if err != nil {
		return nil, err
	}
	return pandas.AsFrame(t)
}

func (n *ordering) explain() string {
	keys := make([]string, len(n.keys))
	for i, k := range n.keys {
		keys[i] = k.Column
		if k.Descending {
			keys[i] += " desc"
		}
	}
	return explainAll("ordering", n.input, keys...)
}

type limit struct {
	input *Table
	lower int
	upper int
}

func (n *limit) execute(ctx context.Context, local *pandas.Adapter) (*pandas.Frame, error) {
	frame, err := n.input.plan.execute(ctx, local)
	if err != nil {
		return nil, err
	}
	t, err := local.Slice(ctx, frame, n.lower, n.upper)
	if err != nil {
		return nil, err
	}
	return pandas.AsFrame(t)
}

func (n *limit) explain() string {
	return explainAll("limit", n.input, fmt.Sprintf("%d:%d", n.lower, n.upper))
}

type union struct {
	input *Table
	rows  *pandas.Frame
}

func (n *union) execute(ctx context.Context, local *pandas.Adapter) (*pandas.Frame, error) {
	frame, err := n.input.plan.execute(ctx, local)
	if err != nil {
		return nil, err
	}
	t, err := local.Append(ctx, frame, n.rows.Rows())
	if err != nil {
		return nil, err
	}
	return pandas.AsFrame(t)
}

func (n *union) explain() string {
	return explainAll("union", n.input, (&scan{frame: n.rows}).explain())
}

type distinct struct {
	input  *Table
	subset []string
}

func (n *distinct) execute(ctx context.Context, local *pandas.Adapter) (*pandas.Frame, error) {
	frame, err := n.input.plan.execute(ctx, local)
	if err != nil {
		return nil, err
	}
	t, err := local.DropDuplicates(ctx, frame, n.subset...)
	if err != nil {
		return nil, err
	}
	return pandas.AsFrame(t)
}

func (n *distinct) explain() string {
	return explainAll("distinct", n.input, n.subset...)
}
