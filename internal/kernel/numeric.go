package kernel

import (
	"math"

	"github.com/go-sif/optimus"
)

// FloatFunc lifts a one-argument mathematical transform into a ValueFunc.
// Values which cannot be coerced to floating point become null.
func FloatFunc(fn func(float64) float64) optimus.ValueFunc {
	return func(v interface{}) (interface{}, error) {
		f, ok := ToFloat(v)
		if !ok {
			return nil, nil
		}
		res := fn(f)
		if math.IsNaN(res) {
			return nil, nil
		}
		return res, nil
	}
}

// Numeric transforms, by Action
var numericTransforms = map[optimus.Action]func(float64) float64{
	optimus.Abs:     math.Abs,
	optimus.Exp:     math.Exp,
	optimus.Sqrt:    math.Sqrt,
	optimus.Ln:      math.Log,
	optimus.Log:     math.Log10,
	optimus.Ceil:    math.Ceil,
	optimus.Floor:   math.Floor,
	optimus.Sin:     math.Sin,
	optimus.Cos:     math.Cos,
	optimus.Tan:     math.Tan,
	optimus.Asin:    math.Asin,
	optimus.Acos:    math.Acos,
	optimus.Atan:    math.Atan,
	optimus.Sinh:    math.Sinh,
	optimus.Cosh:    math.Cosh,
	optimus.Tanh:    math.Tanh,
	optimus.Asinh:   math.Asinh,
	optimus.Acosh:   math.Acosh,
	optimus.Atanh:   math.Atanh,
	optimus.Radians: func(f float64) float64 { return f * math.Pi / 180 },
	optimus.Degrees: func(f float64) float64 { return f * 180 / math.Pi },
}

// Numeric returns the ValueFunc implementing a numeric Action
func Numeric(action optimus.Action) (optimus.ValueFunc, bool) {
	fn, ok := numericTransforms[action]
	if !ok {
		return nil, false
	}
	return FloatFunc(fn), true
}

// Clip bounds values to [lower, upper]
func Clip(lower float64, upper float64) optimus.ValueFunc {
	return FloatFunc(func(f float64) float64 {
		return math.Max(lower, math.Min(upper, f))
	})
}

// Cut assigns values to one of bins equal-width bins over [min, max]. The lowest
// value falls into bin 0 and the highest into bin bins-1.
func Cut(min float64, max float64, bins int) optimus.ValueFunc {
	width := (max - min) / float64(bins)
	return func(v interface{}) (interface{}, error) {
		f, ok := ToFloat(v)
		if !ok {
			return nil, nil
		}
		if width == 0 {
			return int64(0), nil
		}
		bin := int64(math.Floor((f - min) / width))
		if bin < 0 {
			bin = 0
		}
		if bin >= int64(bins) {
			bin = int64(bins) - 1
		}
		return bin, nil
	}
}

// Observe adds a single value to a Summary
func Observe(s *optimus.Summary, v interface{}) {
	if IsNull(v) {
		s.ObserveNull()
		return
	}
	str, _ := ToString(v)
	f, numeric := ToFloat(v)
	if _, isBool := v.(bool); isBool {
		numeric = false
	}
	s.ObserveValue([]byte(str), f, numeric)
}

// Summarize builds a Summary from a slice of values
func Summarize(values []interface{}) *optimus.Summary {
	s := optimus.NewSummary()
	for _, v := range values {
		Observe(s, v)
	}
	return s
}
