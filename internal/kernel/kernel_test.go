package kernel

import (
	"math"
	"testing"
	"time"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/errors"
	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/require"
)

func apply(t *testing.T, fn optimus.ValueFunc, values ...interface{}) []interface{} {
	res := make([]interface{}, len(values))
	for i, v := range values {
		out, err := fn(v)
		require.Nil(t, err)
		res[i] = out
	}
	return res
}

func TestCastCoercesUnparseable(t *testing.T) {
	res := apply(t, CastFunc(optimus.Decimal, optimus.CastOptions{}), "1", "2", "x")
	require.Equal(t, []interface{}{1.0, 2.0, nil}, res)

	res = apply(t, CastFunc(optimus.Int, optimus.CastOptions{FillValue: int64(-1)}), "1", "x", nil)
	require.Equal(t, []interface{}{int64(1), int64(-1), nil}, res)
}

func TestCastRaise(t *testing.T) {
	_, err := Cast("x", optimus.Decimal, optimus.CastOptions{Errors: optimus.Raise})
	var castErr errors.CastError
	require.ErrorAs(t, err, &castErr)
	require.Equal(t, "decimal", castErr.To)
}

func TestCastRejectsIntegersOutOfRange(t *testing.T) {
	for _, v := range []interface{}{"1e30", 1e19, -1e19, math.Inf(1)} {
		res, err := Cast(v, optimus.Int, optimus.CastOptions{})
		require.Nil(t, err)
		require.Nil(t, res, "%v", v)
	}
	_, err := Cast(1e19, optimus.Int, optimus.CastOptions{Errors: optimus.Raise})
	var castErr errors.CastError
	require.ErrorAs(t, err, &castErr)
	require.Equal(t, "int", castErr.To)

	res, err := Cast(-9.2e18, optimus.Int, optimus.CastOptions{})
	require.Nil(t, err)
	require.Equal(t, int64(-9.2e18), res)
}

func TestCastPrecision(t *testing.T) {
	p := int32(2)
	v, err := Cast("3.14159", optimus.Decimal, optimus.CastOptions{Precision: &p})
	require.Nil(t, err)
	require.Equal(t, 3.14, v)
}

func TestCastDatetimeWithFormat(t *testing.T) {
	v, err := Cast("2021/03/04", optimus.Datetime, optimus.CastOptions{Format: "%Y/%m/%d"})
	require.Nil(t, err)
	require.Equal(t, time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC), v)
	v, err = Cast(v, optimus.String, optimus.CastOptions{Format: "%d-%m-%Y"})
	require.Nil(t, err)
	require.Equal(t, "04-03-2021", v)
}

func TestNumericPropagatesNulls(t *testing.T) {
	for _, action := range []optimus.Action{optimus.Exp, optimus.Sqrt, optimus.Sin, optimus.Cos, optimus.Ceil, optimus.Radians, optimus.Degrees} {
		fn, ok := Numeric(action)
		require.True(t, ok)
		res := apply(t, fn, 1, nil, "4", "x")
		require.Len(t, res, 4)
		require.NotNil(t, res[0])
		require.Nil(t, res[1])
		require.NotNil(t, res[2])
		require.Nil(t, res[3])
	}
}

func TestSinhUsesHyperbolicSine(t *testing.T) {
	fn, _ := Numeric(optimus.Sinh)
	v, err := fn(1.0)
	require.Nil(t, err)
	require.InDelta(t, math.Sinh(1), v, 1e-12)
}

func TestClipAndCut(t *testing.T) {
	require.Equal(t, []interface{}{0.0, 5.0, 10.0}, apply(t, Clip(0, 10), -3, 5, 42))
	require.Equal(t, []interface{}{int64(0), int64(1), int64(2), int64(2), nil}, apply(t, Cut(0, 9, 3), 0, 3, 6, 9, nil))
}

func TestStringTransforms(t *testing.T) {
	fn, _ := String(optimus.Proper)
	require.Equal(t, []interface{}{"Hello World", nil}, apply(t, fn, "hELLO world", nil))
	fn, _ = String(optimus.RemoveAccents)
	require.Equal(t, []interface{}{"Cafe creme"}, apply(t, fn, "Café crème"))
	fn, _ = String(optimus.RemoveSpecialChars)
	require.Equal(t, []interface{}{"abc123"}, apply(t, fn, "a-b c!1_2.3"))
	fn, _ = String(optimus.RemoveWhiteSpaces)
	require.Equal(t, []interface{}{"abc"}, apply(t, fn, " a\tb c "))
	fn, _ = String(optimus.Lower)
	require.Equal(t, []interface{}{"12"}, apply(t, fn, int64(12)))
}

func TestReplace(t *testing.T) {
	require.Equal(t, "x-y-c", ReplaceChars([]string{"a", "b"}, []string{"x-", "y-"})("abc"))
	require.Equal(t, "**c", ReplaceChars([]string{"a", "b"}, []string{"*"})("abc"))
	require.Equal(t, "a cat and a catalog", ReplaceWords([]string{"dog"}, "cat")("a dog and a catalog"))
	require.Equal(t, "a dog and a dogalog", ReplaceWords([]string{"cat"}, "dog")("a cat and a dogalog"))
	require.Equal(t, "unchanged", ReplaceWords(nil, "x")("unchanged"))
	require.Equal(t, "x", ReplaceFull([]string{"abc"}, "x")("abc"))
	require.Equal(t, "abcd", ReplaceFull([]string{"abc"}, "x")("abcd"))
}

func TestDateFormat(t *testing.T) {
	res := apply(t, DateFormat("%Y-%m-%d", "%d/%m/%Y"), "2020-12-31", "31/12/2020", nil)
	require.Equal(t, []interface{}{"31/12/2020", nil, nil}, res)
}

func TestYearsBetween(t *testing.T) {
	stubs := gostub.Stub(&Now, func() time.Time {
		return time.Date(2021, 1, 1, 12, 0, 0, 0, time.UTC)
	})
	defer stubs.Reset()

	res := apply(t, YearsBetween("%Y-%m-%d"), "2022-01-01", "2020-01-02", "garbage")
	require.InDelta(t, 1.0, res[0], 1e-9)
	require.InDelta(t, -1.0, res[1], 1e-9)
	require.Nil(t, res[2])
}

func TestSortIndexNullsLast(t *testing.T) {
	rows := [][]interface{}{{int64(3)}, {nil}, {int64(1)}, {int64(2)}}
	require.Equal(t, []int{2, 3, 0, 1}, SortIndex(rows, []int{0}, []bool{false}))
	require.Equal(t, []int{0, 3, 2, 1}, SortIndex(rows, []int{0}, []bool{true}))
}

func TestDistinctIndex(t *testing.T) {
	rows := [][]interface{}{{"a", int64(1)}, {"b", int64(1)}, {"a", int64(1)}, {"a", int64(2)}, {nil, nil}, {nil, nil}}
	require.Equal(t, []int{0, 1, 3, 4}, DistinctIndex(rows, []int{0, 1}))
	require.Equal(t, []int{0, 1, 4}, DistinctIndex(rows, []int{0}))
}

func TestInferType(t *testing.T) {
	require.Equal(t, optimus.Int, InferType([]string{"1", "2", "None"}, "None"))
	require.Equal(t, optimus.Decimal, InferType([]string{"1", "2.5"}, ""))
	require.Equal(t, optimus.Boolean, InferType([]string{"true", "False"}, ""))
	require.Equal(t, optimus.Datetime, InferType([]string{"2020-01-01"}, ""))
	require.Equal(t, optimus.String, InferType([]string{"1", "x"}, ""))
	require.Equal(t, optimus.String, InferType(nil, ""))
	require.Equal(t, optimus.String, InferType([]string{"1.5", "true"}, ""))
}

func TestSummarize(t *testing.T) {
	s := Summarize([]interface{}{int64(0), 2.0, nil, "4", "x", true})
	require.Equal(t, int64(5), s.Count)
	require.Equal(t, int64(1), s.Nulls)
	require.Equal(t, int64(1), s.Zeros)
	require.Equal(t, int64(3), s.Numeric)
	require.Equal(t, 0.0, s.Min)
	require.Equal(t, 4.0, s.Max)
	require.InDelta(t, 2.0, s.Mean(), 1e-9)
	require.InDelta(t, 5, float64(s.Distinct()), 1)
}

func TestMatch(t *testing.T) {
	fn, err := Match(`^[a-z]+@example\.com$`)
	require.Nil(t, err)
	require.Equal(t, []interface{}{true, false, false}, apply(t, fn, "ana@example.com", "ana@example.org", nil))

	// patterns are compiled once
	again, err := Match(`^[a-z]+@example\.com$`)
	require.Nil(t, err)
	require.Equal(t, []interface{}{true}, apply(t, again, "luis@example.com"))
	require.Equal(t, 1, countCached(`^[a-z]+@example\.com$`))

	_, err = Match(`(unclosed`)
	require.NotNil(t, err)
	require.Equal(t, 0, countCached(`(unclosed`))
}

func countCached(pattern string) int {
	if patterns.Contains(pattern) {
		return 1
	}
	return 0
}
