// Package kernel holds the element-wise value kernels shared by every engine
package kernel

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// IsNull returns true iff v represents a missing value
func IsNull(v interface{}) bool {
	if v == nil {
		return true
	}
	if f, ok := v.(float64); ok {
		return math.IsNaN(f)
	}
	return false
}

// ToFloat coerces v to a float64. ok is false if v cannot be parsed.
func ToFloat(v interface{}) (f float64, ok bool) {
	switch typed := v.(type) {
	case nil:
		return 0, false
	case float64:
		return typed, !math.IsNaN(typed)
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int8:
		return float64(typed), true
	case int16:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case uint:
		return float64(typed), true
	case uint8:
		return float64(typed), true
	case uint16:
		return float64(typed), true
	case uint32:
		return float64(typed), true
	case uint64:
		return float64(typed), true
	case bool:
		if typed {
			return 1, true
		}
		return 0, true
	case decimal.Decimal:
		f, _ := typed.Float64()
		return f, true
	case string:
		s := strings.TrimSpace(typed)
		if len(s) == 0 {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ToInteger coerces v to an int64, truncating fractional values
func ToInteger(v interface{}) (i int64, ok bool) {
	switch typed := v.(type) {
	case int64:
		return typed, true
	case int:
		return int64(typed), true
	case int32:
		return int64(typed), true
	case string:
		s := strings.TrimSpace(typed)
		if parsed, err := strconv.ParseInt(s, 10, 64); err == nil {
			return parsed, true
		}
	}
	f, ok := ToFloat(v)
	// int64(f) is undefined outside [-2^63, 2^63)
	if !ok || f >= maxInt64Float || f < -maxInt64Float {
		return 0, false
	}
	return int64(f), true
}

const maxInt64Float = 1 << 63

// ToBoolean coerces v to a bool
func ToBoolean(v interface{}) (b bool, ok bool) {
	switch typed := v.(type) {
	case bool:
		return typed, true
	case string:
		switch strings.ToLower(strings.TrimSpace(typed)) {
		case "true", "t", "yes", "y", "1":
			return true, true
		case "false", "f", "no", "n", "0":
			return false, true
		}
		return false, false
	}
	f, ok := ToFloat(v)
	if !ok {
		return false, false
	}
	return f != 0, true
}

// ToString coerces v to a string. Nulls are not strings.
func ToString(v interface{}) (s string, ok bool) {
	switch typed := v.(type) {
	case nil:
		return "", false
	case string:
		return typed, true
	case float64:
		if math.IsNaN(typed) {
			return "", false
		}
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32), true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case int:
		return strconv.Itoa(typed), true
	case bool:
		return strconv.FormatBool(typed), true
	case time.Time:
		return typed.Format("2006-01-02 15:04:05"), true
	case []interface{}, map[string]interface{}:
		b, err := json.Marshal(typed)
		if err != nil {
			return "", false
		}
		return string(b), true
	default:
		return fmt.Sprintf("%v", v), true
	}
}

// ToDatetime coerces v to a time.Time. When format is empty a few common layouts are attempted.
func ToDatetime(v interface{}, format string) (time.Time, bool) {
	switch typed := v.(type) {
	case time.Time:
		return typed, true
	case string:
		s := strings.TrimSpace(typed)
		if len(format) > 0 {
			t, err := time.Parse(Layout(format), s)
			return t, err == nil
		}
		for _, layout := range defaultLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

var defaultLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
}

// Normalize converts native Go values into the engine-neutral representation
// of a DataType: int64, float64, string, bool, time.Time, []interface{} or map[string]interface{}.
func Normalize(v interface{}, t optimus.DataType) interface{} {
	if IsNull(v) {
		return nil
	}
	res, err := Cast(v, t, optimus.CastOptions{})
	if err != nil || res == nil {
		return v
	}
	return res
}

// Cast converts a single value to the target DataType, following the given options.
// Nulls are always cast to nulls.
func Cast(v interface{}, to optimus.DataType, opts optimus.CastOptions) (interface{}, error) {
	if IsNull(v) {
		return nil, nil
	}
	var res interface{}
	ok := true
	switch to {
	case optimus.Int:
		res, ok = ToInteger(v)
	case optimus.Decimal:
		var f float64
		f, ok = ToFloat(v)
		if ok && opts.Precision != nil {
			f, _ = decimal.NewFromFloat(f).Round(*opts.Precision).Float64()
		}
		res = f
	case optimus.Boolean:
		res, ok = ToBoolean(v)
	case optimus.Datetime:
		res, ok = ToDatetime(v, opts.Format)
	case optimus.Array:
		res, ok = toArray(v)
	case optimus.Object:
		res, ok = toObject(v)
	default:
		if ts, isTime := v.(time.Time); isTime && len(opts.Format) > 0 {
			res = ts.Format(Layout(opts.Format))
		} else {
			res, ok = ToString(v)
		}
	}
	if ok {
		return res, nil
	}
	if opts.Errors == optimus.Raise {
		return nil, errors.CastError{Value: v, To: string(to)}
	}
	return opts.FillValue, nil
}

func toArray(v interface{}) ([]interface{}, bool) {
	switch typed := v.(type) {
	case []interface{}:
		return typed, true
	case []string:
		res := make([]interface{}, len(typed))
		for i, s := range typed {
			res[i] = s
		}
		return res, true
	case string:
		var res []interface{}
		if err := json.UnmarshalFromString(typed, &res); err != nil {
			return nil, false
		}
		return res, true
	}
	return []interface{}{v}, true
}

func toObject(v interface{}) (map[string]interface{}, bool) {
	switch typed := v.(type) {
	case map[string]interface{}:
		return typed, true
	case string:
		var res map[string]interface{}
		if err := json.UnmarshalFromString(typed, &res); err != nil {
			return nil, false
		}
		return res, true
	}
	return nil, false
}

// CastFunc produces a ValueFunc which casts values to a DataType
func CastFunc(to optimus.DataType, opts optimus.CastOptions) optimus.ValueFunc {
	return func(v interface{}) (interface{}, error) {
		return Cast(v, to, opts)
	}
}

var inferenceOrder = []struct {
	dtype optimus.DataType
	parses func(s string) bool
}{
	{optimus.Int, func(s string) bool {
		_, err := strconv.ParseInt(s, 10, 64)
		return err == nil
	}},
	{optimus.Decimal, func(s string) bool {
		_, err := strconv.ParseFloat(s, 64)
		return err == nil
	}},
	{optimus.Boolean, func(s string) bool {
		l := strings.ToLower(s)
		return l == "true" || l == "false"
	}},
	{optimus.Datetime, func(s string) bool {
		_, ok := ToDatetime(s, "")
		return ok
	}},
}

// InferType guesses the narrowest DataType able to hold every value of a string sample.
// Empty strings and nullValue are ignored; a sample without values is a String column.
func InferType(values []string, nullValue string) optimus.DataType {
	sample := make([]string, 0, len(values))
	for _, s := range values {
		s = strings.TrimSpace(s)
		if len(s) == 0 || s == nullValue {
			continue
		}
		sample = append(sample, s)
	}
	if len(sample) == 0 {
		return optimus.String
	}
	for _, candidate := range inferenceOrder {
		all := true
		for _, s := range sample {
			if !candidate.parses(s) {
				all = false
				break
			}
		}
		if all {
			return candidate.dtype
		}
	}
	return optimus.String
}
