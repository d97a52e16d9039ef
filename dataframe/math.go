package dataframe

import (
	"context"

	"github.com/go-sif/optimus"
)

// The numeric family casts columns to Decimal and transforms them element-wise.
// Nulls and unparseable values stay null.

// Abs replaces each value by its absolute value
func (c *Cols) Abs(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.Abs, nil, c.df.Functions().Abs, cols...)
}

// Exp replaces each value by its base-e exponential
func (c *Cols) Exp(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.Exp, nil, c.df.Functions().Exp, cols...)
}

// Sqrt replaces each value by its square root
func (c *Cols) Sqrt(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.Sqrt, nil, c.df.Functions().Sqrt, cols...)
}

// Ln replaces each value by its natural logarithm
func (c *Cols) Ln(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.Ln, nil, c.df.Functions().Ln, cols...)
}

// Log replaces each value by its base-10 logarithm
func (c *Cols) Log(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.Log, nil, c.df.Functions().Log, cols...)
}

// Ceil replaces each value by its least integer value greater than or equal to it
func (c *Cols) Ceil(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.Ceil, nil, c.df.Functions().Ceil, cols...)
}

// Floor replaces each value by its greatest integer value less than or equal to it
func (c *Cols) Floor(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.Floor, nil, c.df.Functions().Floor, cols...)
}

// Sin replaces each value by its sine
func (c *Cols) Sin(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.Sin, nil, c.df.Functions().Sin, cols...)
}

// Cos replaces each value by its cosine
func (c *Cols) Cos(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.Cos, nil, c.df.Functions().Cos, cols...)
}

// Tan replaces each value by its tangent
func (c *Cols) Tan(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.Tan, nil, c.df.Functions().Tan, cols...)
}

// Asin replaces each value by its arcsine
func (c *Cols) Asin(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.Asin, nil, c.df.Functions().Asin, cols...)
}

// Acos replaces each value by its arccosine
func (c *Cols) Acos(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.Acos, nil, c.df.Functions().Acos, cols...)
}

// Atan replaces each value by its arctangent
func (c *Cols) Atan(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.Atan, nil, c.df.Functions().Atan, cols...)
}

// Sinh replaces each value by its hyperbolic sine
func (c *Cols) Sinh(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.Sinh, nil, c.df.Functions().Sinh, cols...)
}

// Cosh replaces each value by its hyperbolic cosine
func (c *Cols) Cosh(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.Cosh, nil, c.df.Functions().Cosh, cols...)
}

// Tanh replaces each value by its hyperbolic tangent
func (c *Cols) Tanh(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.Tanh, nil, c.df.Functions().Tanh, cols...)
}

// Asinh replaces each value by its inverse hyperbolic sine
func (c *Cols) Asinh(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.Asinh, nil, c.df.Functions().Asinh, cols...)
}

// Acosh replaces each value by its inverse hyperbolic cosine
func (c *Cols) Acosh(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.Acosh, nil, c.df.Functions().Acosh, cols...)
}

// Atanh replaces each value by its inverse hyperbolic tangent
func (c *Cols) Atanh(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.Atanh, nil, c.df.Functions().Atanh, cols...)
}

// Radians converts values from degrees to radians
func (c *Cols) Radians(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.Radians, nil, c.df.Functions().Radians, cols...)
}

// Degrees converts values from radians to degrees
func (c *Cols) Degrees(ctx context.Context, cols ...string) (*DataFrame, error) {
	return c.Apply(ctx, optimus.Degrees, nil, c.df.Functions().Degrees, cols...)
}
