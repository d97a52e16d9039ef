// Package base implements the column catalog on top of two engine primitives
package base

import (
	"fmt"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/errors"
	"github.com/go-sif/optimus/internal/kernel"
)

// Mapper is the minimal set of column primitives an engine must provide.
// Map must invoke fn for every value, including nulls, preserving order.
type Mapper interface {
	Engine() optimus.Engine
	Map(c optimus.Column, out optimus.DataType, fn optimus.ValueFunc) (optimus.Column, error)
	Summarize(c optimus.Column) (*optimus.Summary, error)
}

// ColumnActions are the Actions implemented by Functions
var ColumnActions = []optimus.Action{
	optimus.Cast, optimus.ToFloat, optimus.ToInteger, optimus.ToString, optimus.ToBoolean, optimus.CountZeros,
	optimus.Abs, optimus.Exp, optimus.Sqrt, optimus.Ln, optimus.Log, optimus.Ceil, optimus.Floor,
	optimus.Sin, optimus.Cos, optimus.Tan, optimus.Asin, optimus.Acos, optimus.Atan,
	optimus.Sinh, optimus.Cosh, optimus.Tanh, optimus.Asinh, optimus.Acosh, optimus.Atanh,
	optimus.Radians, optimus.Degrees, optimus.Clip, optimus.Cut,
	optimus.Lower, optimus.Upper, optimus.Proper, optimus.Trim, optimus.Reverse,
	optimus.RemoveAccents, optimus.RemoveSpecialChars, optimus.RemoveWhiteSpaces,
	optimus.Replace, optimus.ReplaceWords, optimus.ReplaceFull,
	optimus.DateFormat, optimus.YearsBetween, optimus.IsNA, optimus.FillNA,
	optimus.Match, optimus.Set, optimus.Impute, optimus.MinMaxScaler, optimus.MaxAbsScaler,
	optimus.StandardScaler, optimus.ZScore, optimus.Profile, optimus.Unique, optimus.ApplyCols,
}

// TableActions are the Actions every Adapter implements at the table level
var TableActions = []optimus.Action{
	optimus.Keep, optimus.Drop, optimus.Rename, optimus.Copy, optimus.AppendColumn,
	optimus.SelectRow, optimus.DropRow, optimus.BetweenRow, optimus.SortRow, optimus.LimitRow,
	optimus.AppendRow, optimus.DropDuplicates, optimus.Slice,
}

// Capabilities returns the full set of Actions supported by an Adapter built on Functions
func Capabilities() optimus.ActionSet {
	all := make([]optimus.Action, 0, len(ColumnActions)+len(TableActions))
	all = append(all, ColumnActions...)
	all = append(all, TableActions...)
	return optimus.NewActionSet(all...)
}

var _ optimus.Functions = &Functions{}

// Functions implements optimus.Functions using the Mapper of an engine
type Functions struct {
	Mapper
	capabilities optimus.ActionSet
}

// New produces Functions restricted to the given capabilities
func New(m Mapper, capabilities optimus.ActionSet) *Functions {
	return &Functions{Mapper: m, capabilities: capabilities}
}

// Check fails with an UnsupportedOperationError if action is not in this catalog
func (f *Functions) Check(action optimus.Action) error {
	if !f.capabilities.Contains(action) {
		return errors.UnsupportedOperationError{Operation: string(action), Engine: string(f.Engine())}
	}
	return nil
}

func (f *Functions) mapWith(action optimus.Action, c optimus.Column, out optimus.DataType, fn optimus.ValueFunc) (optimus.Column, error) {
	if err := f.Check(action); err != nil {
		return nil, err
	}
	return f.Map(c, out, fn)
}

func (f *Functions) numeric(action optimus.Action, c optimus.Column) (optimus.Column, error) {
	fn, ok := kernel.Numeric(action)
	if !ok {
		return nil, fmt.Errorf("%s is not a numeric transform", action)
	}
	return f.mapWith(action, c, optimus.Decimal, fn)
}

func (f *Functions) str(action optimus.Action, c optimus.Column) (optimus.Column, error) {
	fn, ok := kernel.String(action)
	if !ok {
		return nil, fmt.Errorf("%s is not a string transform", action)
	}
	return f.mapWith(action, c, optimus.String, fn)
}

// Cast converts a column to another DataType
func (f *Functions) Cast(c optimus.Column, to optimus.DataType, opts optimus.CastOptions) (optimus.Column, error) {
	return f.mapWith(optimus.Cast, c, to, kernel.CastFunc(to, opts))
}

// ToFloat casts a column to Decimal, coercing unparseable values to null
func (f *Functions) ToFloat(c optimus.Column) (optimus.Column, error) {
	return f.mapWith(optimus.ToFloat, c, optimus.Decimal, kernel.CastFunc(optimus.Decimal, optimus.CastOptions{}))
}

// ToInteger casts a column to Int, coercing unparseable values to null
func (f *Functions) ToInteger(c optimus.Column) (optimus.Column, error) {
	return f.mapWith(optimus.ToInteger, c, optimus.Int, kernel.CastFunc(optimus.Int, optimus.CastOptions{}))
}

// ToString casts a column to String
func (f *Functions) ToString(c optimus.Column) (optimus.Column, error) {
	return f.mapWith(optimus.ToString, c, optimus.String, kernel.CastFunc(optimus.String, optimus.CastOptions{}))
}

// ToBoolean casts a column to Boolean, coercing unparseable values to null
func (f *Functions) ToBoolean(c optimus.Column) (optimus.Column, error) {
	return f.mapWith(optimus.ToBoolean, c, optimus.Boolean, kernel.CastFunc(optimus.Boolean, optimus.CastOptions{}))
}

// CountZeros counts the values of a column which are numerically zero
func (f *Functions) CountZeros(c optimus.Column) (int, error) {
	if err := f.Check(optimus.CountZeros); err != nil {
		return 0, err
	}
	s, err := f.Summarize(c)
	if err != nil {
		return 0, err
	}
	return int(s.Zeros), nil
}

// Abs computes the absolute value of every value
func (f *Functions) Abs(c optimus.Column) (optimus.Column, error) {
	return f.numeric(optimus.Abs, c)
}

// Exp computes the base-e exponential of every value
func (f *Functions) Exp(c optimus.Column) (optimus.Column, error) {
	return f.numeric(optimus.Exp, c)
}

// Sqrt computes the square root of every value
func (f *Functions) Sqrt(c optimus.Column) (optimus.Column, error) {
	return f.numeric(optimus.Sqrt, c)
}

// Ln computes the natural logarithm of every value
func (f *Functions) Ln(c optimus.Column) (optimus.Column, error) {
	return f.numeric(optimus.Ln, c)
}

// Log computes the base-10 logarithm of every value
func (f *Functions) Log(c optimus.Column) (optimus.Column, error) {
	return f.numeric(optimus.Log, c)
}

// Ceil computes the ceiling of every value
func (f *Functions) Ceil(c optimus.Column) (optimus.Column, error) {
	return f.numeric(optimus.Ceil, c)
}

// Floor computes the floor of every value
func (f *Functions) Floor(c optimus.Column) (optimus.Column, error) {
	return f.numeric(optimus.Floor, c)
}

// Sin computes the sine of every value
func (f *Functions) Sin(c optimus.Column) (optimus.Column, error) {
	return f.numeric(optimus.Sin, c)
}

// Cos computes the cosine of every value
func (f *Functions) Cos(c optimus.Column) (optimus.Column, error) {
	return f.numeric(optimus.Cos, c)
}

// Tan computes the tangent of every value
func (f *Functions) Tan(c optimus.Column) (optimus.Column, error) {
	return f.numeric(optimus.Tan, c)
}

// Asin computes the arcsine of every value
func (f *Functions) Asin(c optimus.Column) (optimus.Column, error) {
	return f.numeric(optimus.Asin, c)
}

// Acos computes the arccosine of every value
func (f *Functions) Acos(c optimus.Column) (optimus.Column, error) {
	return f.numeric(optimus.Acos, c)
}

// Atan computes the arctangent of every value
func (f *Functions) Atan(c optimus.Column) (optimus.Column, error) {
	return f.numeric(optimus.Atan, c)
}

// Sinh computes the hyperbolic sine of every value
func (f *Functions) Sinh(c optimus.Column) (optimus.Column, error) {
	return f.numeric(optimus.Sinh, c)
}

// Cosh computes the hyperbolic cosine of every value
func (f *Functions) Cosh(c optimus.Column) (optimus.Column, error) {
	return f.numeric(optimus.Cosh, c)
}

// Tanh computes the hyperbolic tangent of every value
func (f *Functions) Tanh(c optimus.Column) (optimus.Column, error) {
	return f.numeric(optimus.Tanh, c)
}

// Asinh computes the inverse hyperbolic sine of every value
func (f *Functions) Asinh(c optimus.Column) (optimus.Column, error) {
	return f.numeric(optimus.Asinh, c)
}

// Acosh computes the inverse hyperbolic cosine of every value
func (f *Functions) Acosh(c optimus.Column) (optimus.Column, error) {
	return f.numeric(optimus.Acosh, c)
}

// Atanh computes the inverse hyperbolic tangent of every value
func (f *Functions) Atanh(c optimus.Column) (optimus.Column, error) {
	return f.numeric(optimus.Atanh, c)
}

// Radians converts degrees to radians
func (f *Functions) Radians(c optimus.Column) (optimus.Column, error) {
	return f.numeric(optimus.Radians, c)
}

// Degrees converts radians to degrees
func (f *Functions) Degrees(c optimus.Column) (optimus.Column, error) {
	return f.numeric(optimus.Degrees, c)
}

// Clip bounds the values of a column to [lower, upper]
func (f *Functions) Clip(c optimus.Column, lower float64, upper float64) (optimus.Column, error) {
	if lower > upper {
		return nil, fmt.Errorf("clip lower bound %v is greater than upper bound %v", lower, upper)
	}
	return f.mapWith(optimus.Clip, c, optimus.Decimal, kernel.Clip(lower, upper))
}

// Cut assigns every value to one of bins equal-width bins spanning the column's range
func (f *Functions) Cut(c optimus.Column, bins int) (optimus.Column, error) {
	if err := f.Check(optimus.Cut); err != nil {
		return nil, err
	}
	if bins <= 0 {
		return nil, fmt.Errorf("cut requires a positive number of bins, got %d", bins)
	}
	s, err := f.Summarize(c)
	if err != nil {
		return nil, err
	}
	min, max := s.Min, s.Max
	if s.Numeric == 0 {
		min, max = 0, 0
	}
	return f.Map(c, optimus.Int, kernel.Cut(min, max, bins))
}

// Lower lowercases every value
func (f *Functions) Lower(c optimus.Column) (optimus.Column, error) {
	return f.str(optimus.Lower, c)
}

// Upper uppercases every value
func (f *Functions) Upper(c optimus.Column) (optimus.Column, error) {
	return f.str(optimus.Upper, c)
}

// Proper capitalizes the first letter of every word
func (f *Functions) Proper(c optimus.Column) (optimus.Column, error) {
	return f.str(optimus.Proper, c)
}

// Trim strips leading and trailing whitespace
func (f *Functions) Trim(c optimus.Column) (optimus.Column, error) {
	return f.str(optimus.Trim, c)
}

// Reverse reverses every value
func (f *Functions) Reverse(c optimus.Column) (optimus.Column, error) {
	return f.str(optimus.Reverse, c)
}

// RemoveAccents strips diacritics from every value
func (f *Functions) RemoveAccents(c optimus.Column) (optimus.Column, error) {
	return f.str(optimus.RemoveAccents, c)
}

// RemoveSpecialChars keeps only ASCII letters and digits
func (f *Functions) RemoveSpecialChars(c optimus.Column) (optimus.Column, error) {
	return f.str(optimus.RemoveSpecialChars, c)
}

// RemoveWhiteSpaces drops every whitespace character
func (f *Functions) RemoveWhiteSpaces(c optimus.Column) (optimus.Column, error) {
	return f.str(optimus.RemoveWhiteSpaces, c)
}

// ReplaceChars replaces substrings, pairing search and replaceBy by position
func (f *Functions) ReplaceChars(c optimus.Column, search []string, replaceBy []string) (optimus.Column, error) {
	if len(replaceBy) != 1 && len(replaceBy) != len(search) {
		return nil, fmt.Errorf("replace requires one replacement or one per search string, got %d for %d", len(replaceBy), len(search))
	}
	return f.mapWith(optimus.Replace, c, optimus.String, kernel.StringFunc(kernel.ReplaceChars(search, replaceBy)))
}

// ReplaceWords replaces whole words
func (f *Functions) ReplaceWords(c optimus.Column, search []string, replaceBy string) (optimus.Column, error) {
	return f.mapWith(optimus.ReplaceWords, c, optimus.String, kernel.StringFunc(kernel.ReplaceWords(search, replaceBy)))
}

// ReplaceFull replaces values which entirely match one of search
func (f *Functions) ReplaceFull(c optimus.Column, search []string, replaceBy string) (optimus.Column, error) {
	return f.mapWith(optimus.ReplaceFull, c, optimus.String, kernel.StringFunc(kernel.ReplaceFull(search, replaceBy)))
}

// DateFormat reparses dates from currentFormat into outputFormat
func (f *Functions) DateFormat(c optimus.Column, currentFormat string, outputFormat string) (optimus.Column, error) {
	return f.mapWith(optimus.DateFormat, c, optimus.String, kernel.DateFormat(currentFormat, outputFormat))
}

// YearsBetween computes fractional years between today and every date
func (f *Functions) YearsBetween(c optimus.Column, dateFormat string) (optimus.Column, error) {
	return f.mapWith(optimus.YearsBetween, c, optimus.Decimal, kernel.YearsBetween(dateFormat))
}

// IsNA flags null values
func (f *Functions) IsNA(c optimus.Column) (optimus.Column, error) {
	return f.mapWith(optimus.IsNA, c, optimus.Boolean, func(v interface{}) (interface{}, error) {
		return kernel.IsNull(v), nil
	})
}

// FillNA replaces null values with value
func (f *Functions) FillNA(c optimus.Column, value interface{}) (optimus.Column, error) {
	fill := kernel.Normalize(value, c.Type())
	return f.mapWith(optimus.FillNA, c, c.Type(), func(v interface{}) (interface{}, error) {
		if kernel.IsNull(v) {
			return fill, nil
		}
		return v, nil
	})
}
