package optimus

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func observe(s *Summary, values ...interface{}) {
	for _, v := range values {
		switch typed := v.(type) {
		case nil:
			s.ObserveNull()
		case float64:
			s.ObserveValue([]byte(strconv.FormatFloat(typed, 'g', -1, 64)), typed, true)
		case string:
			s.ObserveValue([]byte(typed), 0, false)
		}
	}
}

func TestSummary(t *testing.T) {
	s := NewSummary()
	require.True(t, math.IsNaN(s.Mean()))
	observe(s, 2.0, 4.0, nil, 0.0, "x")
	require.Equal(t, int64(4), s.Count)
	require.Equal(t, int64(1), s.Nulls)
	require.Equal(t, int64(5), s.Total())
	require.Equal(t, int64(1), s.Zeros)
	require.Equal(t, 0.0, s.Min)
	require.Equal(t, 4.0, s.Max)
	require.InDelta(t, 2.0, s.Mean(), 1e-9)
	require.InDelta(t, math.Sqrt(8.0/3.0), s.Std(), 1e-9)
	require.Equal(t, uint64(4), s.Distinct())

	m := s.ToMap()
	require.Equal(t, int64(1), m["nulls"])
	require.Equal(t, 4.0, m["max"])
}

func TestSummaryMerge(t *testing.T) {
	a, b := NewSummary(), NewSummary()
	observe(a, 1.0, 2.0)
	observe(b, 3.0, nil)
	require.Nil(t, a.Merge(b))
	require.Equal(t, int64(3), a.Count)
	require.Equal(t, int64(1), a.Nulls)
	require.Equal(t, 1.0, a.Min)
	require.Equal(t, 3.0, a.Max)
	require.InDelta(t, 2.0, a.Mean(), 1e-9)

	_, ok := NewSummary().ToMap()["mean"]
	require.False(t, ok)
}
