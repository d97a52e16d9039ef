package dataframe

import (
	"context"
	"fmt"
	"math"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/internal/kernel"
	"github.com/go-sif/optimus/meta"
	"github.com/go-sif/optimus/schema"
	"github.com/hashicorp/go-multierror"
)

// Cols is the column-wise accessor of a DataFrame
type Cols struct {
	df *DataFrame
}

// Transform produces a new column from an existing one
type Transform func(c optimus.Column) (optimus.Column, error)

// Names returns the column names, in order
func (c *Cols) Names() []string {
	return c.df.Columns()
}

// DataTypes returns the DataType of every column
func (c *Cols) DataTypes() map[string]optimus.DataType {
	res := make(map[string]optimus.DataType)
	c.df.Schema().ForEachColumn(func(idx int, desc optimus.ColumnDescriptor) error {
		res[desc.Name] = desc.Type
		return nil
	})
	return res
}

func (c *Cols) resolve(cols []string) ([]string, error) {
	if len(cols) == 0 {
		return c.df.Columns(), nil
	}
	s := c.df.Schema()
	for _, name := range cols {
		if !s.HasColumn(name) {
			return nil, fmt.Errorf("DataFrame does not contain column with name %s", name)
		}
	}
	return cols, nil
}

// Apply runs a Transform over each of cols (every column when cols is empty), replacing each
// column with the result and recording action
func (c *Cols) Apply(ctx context.Context, action optimus.Action, params map[string]interface{}, fn Transform, cols ...string) (*DataFrame, error) {
	df := c.df
	if err := df.check(action); err != nil {
		return nil, err
	}
	cols, err := c.resolve(cols)
	if err != nil {
		return nil, err
	}
	data := df.data
	for _, name := range cols {
		in, err := df.adapter.Column(ctx, data, name)
		if err != nil {
			return nil, err
		}
		out, err := fn(in)
		if err != nil {
			return nil, err
		}
		desc, err := data.Schema().Column(name)
		if err != nil {
			return nil, err
		}
		data, err = df.adapter.WithColumn(ctx, data, desc.WithType(out.Type()), out)
		if err != nil {
			return nil, err
		}
	}
	return df.derive(data, action, cols, params), nil
}

// Select keeps only the given columns, in the given order
func (c *Cols) Select(ctx context.Context, cols ...string) (*DataFrame, error) {
	if err := c.df.check(optimus.Keep); err != nil {
		return nil, err
	}
	data, err := c.df.adapter.Select(ctx, c.df.data, cols...)
	if err != nil {
		return nil, err
	}
	return c.df.derive(data, optimus.Keep, cols, nil), nil
}

// Keep is Select
func (c *Cols) Keep(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Select(ctx, cols...)
}

// Drop removes the given columns
func (c *Cols) Drop(ctx context.Context, cols ...string) (*DataFrame, error) {
	if err := c.df.check(optimus.Drop); err != nil {
		return nil, err
	}
	if _, err := c.resolve(cols); err != nil {
		return nil, err
	}
	s := c.df.Schema()
	for _, name := range cols {
		s, _ = s.RemoveColumn(name)
	}
	data, err := c.df.adapter.Select(ctx, c.df.data, s.ColumnNames()...)
	if err != nil {
		return nil, err
	}
	return c.df.derive(data, optimus.Drop, cols, nil), nil
}

// Rename renames a column, keeping its position
func (c *Cols) Rename(ctx context.Context, oldName string, newName string) (*DataFrame, error) {
	if err := c.df.check(optimus.Rename); err != nil {
		return nil, err
	}
	data, err := c.df.adapter.Rename(ctx, c.df.data, oldName, newName)
	if err != nil {
		return nil, err
	}
	return c.df.derive(data, optimus.Rename, []string{oldName}, map[string]interface{}{"new_name": newName}), nil
}

// Copy duplicates a column under a new name, at the end of the DataFrame
func (c *Cols) Copy(ctx context.Context, source string, target string) (*DataFrame, error) {
	df := c.df
	if err := df.check(optimus.Copy); err != nil {
		return nil, err
	}
	in, err := df.adapter.Column(ctx, df.data, source)
	if err != nil {
		return nil, err
	}
	desc, err := df.Schema().Column(source)
	if err != nil {
		return nil, err
	}
	if df.Schema().HasColumn(target) {
		return nil, fmt.Errorf("DataFrame already contains column with name %s", target)
	}
	data, err := df.adapter.WithColumn(ctx, df.data, desc.WithName(target), in)
	if err != nil {
		return nil, err
	}
	return df.derive(data, optimus.Copy, []string{source}, map[string]interface{}{"output_col": target}), nil
}

// Set fills a column with a constant, creating the column if necessary
func (c *Cols) Set(ctx context.Context, name string, value interface{}) (*DataFrame, error) {
	df := c.df
	if err := df.check(optimus.Set); err != nil {
		return nil, err
	}
	if len(df.Columns()) == 0 {
		return nil, fmt.Errorf("cannot set a constant column on a DataFrame without columns")
	}
	dtype := inferValueType(value)
	template, err := df.adapter.Column(ctx, df.data, df.Columns()[0])
	if err != nil {
		return nil, err
	}
	normalized := kernel.Normalize(value, dtype)
	out, err := df.Functions().Map(template, dtype, func(interface{}) (interface{}, error) {
		return normalized, nil
	})
	if err != nil {
		return nil, err
	}
	data, err := df.adapter.WithColumn(ctx, df.data, optimus.ColumnDescriptor{Name: name, Type: dtype, Nullable: value == nil}, out)
	if err != nil {
		return nil, err
	}
	return df.derive(data, optimus.Set, []string{name}, map[string]interface{}{"value": value}), nil
}

func inferValueType(v interface{}) optimus.DataType {
	switch v.(type) {
	case int, int32, int64:
		return optimus.Int
	case float32, float64:
		return optimus.Decimal
	case bool:
		return optimus.Boolean
	case nil:
		return optimus.Null
	default:
		return optimus.String
	}
}

// Cast converts columns to another DataType
func (c *Cols) Cast(ctx context.Context, to optimus.DataType, opts optimus.CastOptions, cols ...string) (*DataFrame, error) {
	params := map[string]interface{}{"dtype": string(to), "errors": string(opts.Errors)}
	return c.Apply(ctx, optimus.Cast, params, func(col optimus.Column) (optimus.Column, error) {
		return c.df.Functions().Cast(col, to, opts)
	}, cols...)
}

// ToFloat casts columns to Decimal, coercing unparseable values to null
func (c *Cols) ToFloat(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.ToFloat, nil, c.df.Functions().ToFloat, cols...)
}

// ToInteger casts columns to Int, coercing unparseable values to null
func (c *Cols) ToInteger(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.ToInteger, nil, c.df.Functions().ToInteger, cols...)
}

// ToString casts columns to String
func (c *Cols) ToString(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.ToString, nil, c.df.Functions().ToString, cols...)
}

// ToBoolean casts columns to Boolean, coercing unparseable values to null
func (c *Cols) ToBoolean(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.ToBoolean, nil, c.df.Functions().ToBoolean, cols...)
}

// Lower lowercases string values
func (c *Cols) Lower(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.Lower, nil, c.df.Functions().Lower, cols...)
}

// Upper uppercases string values
func (c *Cols) Upper(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.Upper, nil, c.df.Functions().Upper, cols...)
}

// Proper capitalizes the first letter of every word
func (c *Cols) Proper(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.Proper, nil, c.df.Functions().Proper, cols...)
}

// Trim strips leading and trailing whitespace
func (c *Cols) Trim(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.Trim, nil, c.df.Functions().Trim, cols...)
}

// Reverse reverses string values
func (c *Cols) Reverse(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.Reverse, nil, c.df.Functions().Reverse, cols...)
}

// RemoveAccents strips diacritics
func (c *Cols) RemoveAccents(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.RemoveAccents, nil, c.df.Functions().RemoveAccents, cols...)
}

// RemoveSpecialChars keeps only ASCII letters and digits
func (c *Cols) RemoveSpecialChars(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.RemoveSpecialChars, nil, c.df.Functions().RemoveSpecialChars, cols...)
}

// RemoveWhiteSpaces drops all whitespace
func (c *Cols) RemoveWhiteSpaces(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.RemoveWhiteSpaces, nil, c.df.Functions().RemoveWhiteSpaces, cols...)
}

// ReplaceChars replaces substrings, pairing search and replaceBy by position
func (c *Cols) ReplaceChars(ctx context.Context, search []string, replaceBy []string, cols ...string) (*DataFrame, error) {
	params := map[string]interface{}{"search": search, "replace_by": replaceBy}
	return c.Apply(ctx, optimus.Replace, params, func(col optimus.Column) (optimus.Column, error) {
		return c.df.Functions().ReplaceChars(col, search, replaceBy)
	}, cols...)
}

// ReplaceWords replaces whole words
func (c *Cols) ReplaceWords(ctx context.Context, search []string, replaceBy string, cols ...string) (*DataFrame, error) {
	params := map[string]interface{}{"search": search, "replace_by": replaceBy}
	return c.Apply(ctx, optimus.ReplaceWords, params, func(col optimus.Column) (optimus.Column, error) {
		return c.df.Functions().ReplaceWords(col, search, replaceBy)
	}, cols...)
}

// ReplaceFull replaces values which entirely match one of search
func (c *Cols) ReplaceFull(ctx context.Context, search []string, replaceBy string, cols ...string) (*DataFrame, error) {
	params := map[string]interface{}{"search": search, "replace_by": replaceBy}
	return c.Apply(ctx, optimus.ReplaceFull, params, func(col optimus.Column) (optimus.Column, error) {
		return c.df.Functions().ReplaceFull(col, search, replaceBy)
	}, cols...)
}

// Clip bounds numeric values to [lower, upper]
func (c *Cols) Clip(ctx context.Context, lower float64, upper float64, cols ...string) (*DataFrame, error) {
	params := map[string]interface{}{"lower_bound": lower, "upper_bound": upper}
	return c.Apply(ctx, optimus.Clip, params, func(col optimus.Column) (optimus.Column, error) {
		return c.df.Functions().Clip(col, lower, upper)
	}, cols...)
}

// Cut replaces numeric values by the index of their equal-width bin
func (c *Cols) Cut(ctx context.Context, bins int, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.Cut, map[string]interface{}{"bins": bins}, func(col optimus.Column) (optimus.Column, error) {
		return c.df.Functions().Cut(col, bins)
	}, cols...)
}

// DateFormat reparses dates from currentFormat into outputFormat. Mismatches become null.
func (c *Cols) DateFormat(ctx context.Context, currentFormat string, outputFormat string, cols ...string) (*DataFrame, error) {
	params := map[string]interface{}{"current_format": currentFormat, "output_format": outputFormat}
	return c.Apply(ctx, optimus.DateFormat, params, func(col optimus.Column) (optimus.Column, error) {
		return c.df.Functions().DateFormat(col, currentFormat, outputFormat)
	}, cols...)
}

// YearsBetween replaces dates by the fractional number of years between today and each date
func (c *Cols) YearsBetween(ctx context.Context, dateFormat string, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.YearsBetween, map[string]interface{}{"date_format": dateFormat}, func(col optimus.Column) (optimus.Column, error) {
		return c.df.Functions().YearsBetween(col, dateFormat)
	}, cols...)
}

// FillNA replaces nulls with value
func (c *Cols) FillNA(ctx context.Context, value interface{}, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.FillNA, map[string]interface{}{"value": value}, func(col optimus.Column) (optimus.Column, error) {
		return c.df.Functions().FillNA(col, value)
	}, cols...)
}

// IsNA replaces columns by boolean flags marking their nulls
func (c *Cols) IsNA(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.IsNA, nil, c.df.Functions().IsNA, cols...)
}

// ImputeStrategy selects how Impute fills nulls
type ImputeStrategy string

const (
	// ImputeMean fills nulls with the column mean
	ImputeMean ImputeStrategy = "mean"
	// ImputeConstant fills nulls with a given value
	ImputeConstant ImputeStrategy = "constant"
)

// Impute fills nulls following a strategy. Columns are cast to Decimal for ImputeMean.
func (c *Cols) Impute(ctx context.Context, strategy ImputeStrategy, fill interface{}, cols ...string) (*DataFrame, error) {
	fns := c.df.Functions()
	params := map[string]interface{}{"strategy": string(strategy)}
	switch strategy {
	case ImputeMean:
		return c.Apply(ctx, optimus.Impute, params, func(col optimus.Column) (optimus.Column, error) {
			f, err := fns.ToFloat(col)
			if err != nil {
				return nil, err
			}
			s, err := fns.Summarize(f)
			if err != nil {
				return nil, err
			}
			mean := s.Mean()
			if math.IsNaN(mean) {
				return f, nil
			}
			return fns.FillNA(f, mean)
		}, cols...)
	case ImputeConstant:
		params["fill_value"] = fill
		return c.Apply(ctx, optimus.Impute, params, func(col optimus.Column) (optimus.Column, error) {
			return fns.FillNA(col, fill)
		}, cols...)
	default:
		return nil, fmt.Errorf("%s is not a known impute strategy", strategy)
	}
}

// scale casts a column to Decimal and rescales it using its Summary
func (c *Cols) scale(ctx context.Context, action optimus.Action, scaler func(s *optimus.Summary) (shift float64, factor float64), cols ...string) (*DataFrame, error) {
	fns := c.df.Functions()
	return c.Apply(ctx, action, nil, func(col optimus.Column) (optimus.Column, error) {
		f, err := fns.ToFloat(col)
		if err != nil {
			return nil, err
		}
		s, err := fns.Summarize(f)
		if err != nil {
			return nil, err
		}
		shift, factor := scaler(s)
		return fns.Map(f, optimus.Decimal, kernel.FloatFunc(func(v float64) float64 {
			if factor == 0 {
				return 0
			}
			return (v - shift) / factor
		}))
	}, cols...)
}

// MinMaxScaler rescales numeric columns to [0, 1]
func (c *Cols) MinMaxScaler(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.scale(ctx, optimus.MinMaxScaler, func(s *optimus.Summary) (float64, float64) {
		return s.Min, s.Max - s.Min
	}, cols...)
}

// MaxAbsScaler rescales numeric columns by their maximum absolute value
func (c *Cols) MaxAbsScaler(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.scale(ctx, optimus.MaxAbsScaler, func(s *optimus.Summary) (float64, float64) {
		return 0, math.Max(math.Abs(s.Min), math.Abs(s.Max))
	}, cols...)
}

// StandardScaler centers numeric columns on their mean, with unit standard deviation
func (c *Cols) StandardScaler(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.scale(ctx, optimus.StandardScaler, func(s *optimus.Summary) (float64, float64) {
		return s.Mean(), s.Std()
	}, cols...)
}

// ZScore is StandardScaler, recorded as its own action
func (c *Cols) ZScore(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.scale(ctx, optimus.ZScore, func(s *optimus.Summary) (float64, float64) {
		return s.Mean(), s.Std()
	}, cols...)
}

// Summary profiles a single column
func (c *Cols) Summary(ctx context.Context, name string) (*optimus.Summary, error) {
	col, err := c.df.Column(ctx, name)
	if err != nil {
		return nil, err
	}
	return c.df.Functions().Summarize(col)
}

// CountZeros counts numerically zero values in a column
func (c *Cols) CountZeros(ctx context.Context, name string) (int, error) {
	if err := c.df.check(optimus.CountZeros); err != nil {
		return 0, err
	}
	col, err := c.df.Column(ctx, name)
	if err != nil {
		return 0, err
	}
	return c.df.Functions().CountZeros(col)
}

// CountUniques approximates the number of distinct non-null values in a column
func (c *Cols) CountUniques(ctx context.Context, name string) (uint64, error) {
	if err := c.df.check(optimus.Unique); err != nil {
		return 0, err
	}
	s, err := c.Summary(ctx, name)
	if err != nil {
		return 0, err
	}
	return s.Distinct(), nil
}

// Profile summarizes columns and stores each summary under profile.<column> in the
// metadata of the returned DataFrame. Every column is attempted; failures are aggregated.
func (c *Cols) Profile(ctx context.Context, cols ...string) (*DataFrame, error) {
	df := c.df
	if err := df.check(optimus.Profile); err != nil {
		return nil, err
	}
	cols, err := c.resolve(cols)
	if err != nil {
		return nil, err
	}
	m := df.meta
	var errs *multierror.Error
	for _, name := range cols {
		s, err := c.Summary(ctx, name)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("profiling %s: %w", name, err))
			continue
		}
		m = meta.Set(m, "profile."+name, s.ToMap())
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	res := df.WithMeta(m)
	return res.derive(res.data, optimus.Profile, cols, nil), nil
}

// Append adds a column of values at the end of the DataFrame
func (c *Cols) Append(ctx context.Context, desc optimus.ColumnDescriptor, values []interface{}) (*DataFrame, error) {
	df := c.df
	if err := df.check(optimus.AppendColumn); err != nil {
		return nil, err
	}
	s, err := schema.CreateSchema(desc)
	if err != nil {
		return nil, err
	}
	rows := make([][]interface{}, len(values))
	for i, v := range values {
		rows[i] = []interface{}{v}
	}
	single, err := df.adapter.FromRecords(ctx, s, rows)
	if err != nil {
		return nil, err
	}
	col, err := df.adapter.Column(ctx, single, desc.Name)
	if err != nil {
		return nil, err
	}
	data, err := df.adapter.WithColumn(ctx, df.data, desc, col)
	if err != nil {
		return nil, err
	}
	return df.derive(data, optimus.AppendColumn, []string{desc.Name}, nil), nil
}
