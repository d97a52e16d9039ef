package dataframe

import (
	"context"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/internal/kernel"
)

// Mask builds boolean columns for row selection. Null values never satisfy a predicate,
// except for Null itself.
type Mask struct {
	df *DataFrame
}

func (m *Mask) predicate(ctx context.Context, name string, fn func(v interface{}) bool) (optimus.Column, error) {
	col, err := m.df.Column(ctx, name)
	if err != nil {
		return nil, err
	}
	return m.df.Functions().Map(col, optimus.Boolean, func(v interface{}) (interface{}, error) {
		return fn(v), nil
	})
}

// Null flags null values
func (m *Mask) Null(ctx context.Context, name string) (optimus.Column, error) {
	return m.predicate(ctx, name, kernel.IsNull)
}

// NotNull flags non-null values
func (m *Mask) NotNull(ctx context.Context, name string) (optimus.Column, error) {
	return m.predicate(ctx, name, func(v interface{}) bool {
		return !kernel.IsNull(v)
	})
}

// Equal flags values equal to value
func (m *Mask) Equal(ctx context.Context, name string, value interface{}) (optimus.Column, error) {
	return m.predicate(ctx, name, func(v interface{}) bool {
		return !kernel.IsNull(v) && kernel.Compare(v, value) == 0
	})
}

// NotEqual flags non-null values different from value
func (m *Mask) NotEqual(ctx context.Context, name string, value interface{}) (optimus.Column, error) {
	return m.predicate(ctx, name, func(v interface{}) bool {
		return !kernel.IsNull(v) && kernel.Compare(v, value) != 0
	})
}

// GreaterThan flags values strictly greater than value
func (m *Mask) GreaterThan(ctx context.Context, name string, value interface{}) (optimus.Column, error) {
	return m.predicate(ctx, name, func(v interface{}) bool {
		return !kernel.IsNull(v) && kernel.Compare(v, value) > 0
	})
}

// LessThan flags values strictly less than value
func (m *Mask) LessThan(ctx context.Context, name string, value interface{}) (optimus.Column, error) {
	return m.predicate(ctx, name, func(v interface{}) bool {
		return !kernel.IsNull(v) && kernel.Compare(v, value) < 0
	})
}

// Between flags values in (lower, upper), or [lower, upper] when inclusive
func (m *Mask) Between(ctx context.Context, name string, lower interface{}, upper interface{}, inclusive bool) (optimus.Column, error) {
	return m.predicate(ctx, name, func(v interface{}) bool {
		if kernel.IsNull(v) {
			return false
		}
		lo, hi := kernel.Compare(v, lower), kernel.Compare(v, upper)
		if inclusive {
			return lo >= 0 && hi <= 0
		}
		return lo > 0 && hi < 0
	})
}

// Match flags string values matching a regular expression
func (m *Mask) Match(ctx context.Context, name string, pattern string) (optimus.Column, error) {
	fn, err := kernel.Match(pattern)
	if err != nil {
		return nil, err
	}
	col, err := m.df.Column(ctx, name)
	if err != nil {
		return nil, err
	}
	return m.df.Functions().Map(col, optimus.Boolean, fn)
}

// IsIn flags values equal to one of values
func (m *Mask) IsIn(ctx context.Context, name string, values ...interface{}) (optimus.Column, error) {
	return m.predicate(ctx, name, func(v interface{}) bool {
		if kernel.IsNull(v) {
			return false
		}
		for _, candidate := range values {
			if kernel.Compare(v, candidate) == 0 {
				return true
			}
		}
		return false
	})
}
