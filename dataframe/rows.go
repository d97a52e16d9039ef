package dataframe

import (
	"context"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/internal/kernel"
)

// Rows is the row-wise accessor of a DataFrame
type Rows struct {
	df *DataFrame
}

// Count returns the number of rows
func (r *Rows) Count(ctx context.Context) (int, error) {
	return r.df.adapter.NumRows(ctx, r.df.data)
}

// Select keeps the rows for which mask is true
func (r *Rows) Select(ctx context.Context, mask optimus.Column) (*DataFrame, error) {
	if err := r.df.check(optimus.SelectRow); err != nil {
		return nil, err
	}
	data, err := r.df.adapter.Filter(ctx, r.df.data, mask)
	if err != nil {
		return nil, err
	}
	return r.df.derive(data, optimus.SelectRow, nil, nil), nil
}

// Drop removes the rows for which mask is true. Rows with a null mask value are kept.
func (r *Rows) Drop(ctx context.Context, mask optimus.Column) (*DataFrame, error) {
	if err := r.df.check(optimus.DropRow); err != nil {
		return nil, err
	}
	inverse, err := r.df.Functions().Map(mask, optimus.Boolean, func(v interface{}) (interface{}, error) {
		b, ok := kernel.ToBoolean(v)
		return !(ok && b), nil
	})
	if err != nil {
		return nil, err
	}
	data, err := r.df.adapter.Filter(ctx, r.df.data, inverse)
	if err != nil {
		return nil, err
	}
	return r.df.derive(data, optimus.DropRow, nil, nil), nil
}

// Between keeps the rows whose value in column lies between lower and upper
func (r *Rows) Between(ctx context.Context, column string, lower interface{}, upper interface{}, inclusive bool) (*DataFrame, error) {
	if err := r.df.check(optimus.BetweenRow); err != nil {
		return nil, err
	}
	mask, err := r.df.Mask().Between(ctx, column, lower, upper, inclusive)
	if err != nil {
		return nil, err
	}
	data, err := r.df.adapter.Filter(ctx, r.df.data, mask)
	if err != nil {
		return nil, err
	}
	params := map[string]interface{}{"lower_bound": lower, "upper_bound": upper, "equal": inclusive}
	return r.df.derive(data, optimus.BetweenRow, []string{column}, params), nil
}

// Sort orders rows by the given keys, nulls last
func (r *Rows) Sort(ctx context.Context, keys ...optimus.SortKey) (*DataFrame, error) {
	if err := r.df.check(optimus.SortRow); err != nil {
		return nil, err
	}
	data, err := r.df.adapter.Sort(ctx, r.df.data, keys...)
	if err != nil {
		return nil, err
	}
	cols := make([]string, len(keys))
	order := make([]string, len(keys))
	for i, k := range keys {
		cols[i] = k.Column
		order[i] = "asc"
		if k.Descending {
			order[i] = "desc"
		}
	}
	return r.df.derive(data, optimus.SortRow, cols, map[string]interface{}{"order": order}), nil
}

// Limit keeps the first n rows
func (r *Rows) Limit(ctx context.Context, n int) (*DataFrame, error) {
	if err := r.df.check(optimus.LimitRow); err != nil {
		return nil, err
	}
	data, err := r.df.adapter.Slice(ctx, r.df.data, 0, n)
	if err != nil {
		return nil, err
	}
	return r.df.derive(data, optimus.LimitRow, nil, map[string]interface{}{"count": n}), nil
}

// Slice keeps rows [lower, upper). Out of range bounds are clamped.
func (r *Rows) Slice(ctx context.Context, lower int, upper int) (*DataFrame, error) {
	if err := r.df.check(optimus.Slice); err != nil {
		return nil, err
	}
	data, err := r.df.adapter.Slice(ctx, r.df.data, lower, upper)
	if err != nil {
		return nil, err
	}
	return r.df.derive(data, optimus.Slice, nil, map[string]interface{}{"lower": lower, "upper": upper}), nil
}

// Append adds rows at the end of the DataFrame. Every row must match the Schema.
func (r *Rows) Append(ctx context.Context, rows [][]interface{}) (*DataFrame, error) {
	if err := r.df.check(optimus.AppendRow); err != nil {
		return nil, err
	}
	data, err := r.df.adapter.Append(ctx, r.df.data, rows)
	if err != nil {
		return nil, err
	}
	return r.df.derive(data, optimus.AppendRow, nil, map[string]interface{}{"count": len(rows)}), nil
}

// DropDuplicates keeps the first occurrence of each distinct row, comparing only subset when given
func (r *Rows) DropDuplicates(ctx context.Context, subset ...string) (*DataFrame, error) {
	if err := r.df.check(optimus.DropDuplicates); err != nil {
		return nil, err
	}
	data, err := r.df.adapter.DropDuplicates(ctx, r.df.data, subset...)
	if err != nil {
		return nil, err
	}
	return r.df.derive(data, optimus.DropDuplicates, subset, nil), nil
}
