package optimus

import (
	"math"

	hll "github.com/axiomhq/hyperloglog"
)

// Summary is a mergeable profile of a single column
type Summary struct {
	Count      int64 // non-null values
	Nulls      int64
	Zeros      int64
	Numeric    int64 // non-null values which parsed as numbers
	Min        float64
	Max        float64
	Sum        float64
	SumSquares float64
	sketch     *hll.Sketch
}

// NewSummary creates an empty Summary
func NewSummary() *Summary {
	return &Summary{
		Min:    math.Inf(1),
		Max:    math.Inf(-1),
		sketch: hll.New(),
	}
}

// ObserveNull records a null value
func (s *Summary) ObserveNull() {
	s.Nulls++
}

// ObserveValue records a non-null value. key is the hashable identity of the value,
// and f its numeric value when numeric is true.
func (s *Summary) ObserveValue(key []byte, f float64, numeric bool) {
	s.Count++
	s.sketch.Insert(key)
	if !numeric || math.IsNaN(f) {
		return
	}
	s.Numeric++
	if f == 0 {
		s.Zeros++
	}
	if f < s.Min {
		s.Min = f
	}
	if f > s.Max {
		s.Max = f
	}
	s.Sum += f
	s.SumSquares += f * f
}

// Merge folds another Summary into this one
func (s *Summary) Merge(other *Summary) error {
	s.Count += other.Count
	s.Nulls += other.Nulls
	s.Zeros += other.Zeros
	s.Numeric += other.Numeric
	s.Sum += other.Sum
	s.SumSquares += other.SumSquares
	if other.Min < s.Min {
		s.Min = other.Min
	}
	if other.Max > s.Max {
		s.Max = other.Max
	}
	return s.sketch.Merge(other.sketch)
}

// Total returns the number of observed values, including nulls
func (s *Summary) Total() int64 {
	return s.Count + s.Nulls
}

// Mean returns the mean of the numeric values, or NaN if there are none
func (s *Summary) Mean() float64 {
	if s.Numeric == 0 {
		return math.NaN()
	}
	return s.Sum / float64(s.Numeric)
}

// Std returns the population standard deviation of the numeric values, or NaN if there are none
func (s *Summary) Std() float64 {
	if s.Numeric == 0 {
		return math.NaN()
	}
	mean := s.Mean()
	variance := s.SumSquares/float64(s.Numeric) - mean*mean
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// Distinct returns the approximate number of distinct non-null values
func (s *Summary) Distinct() uint64 {
	return s.sketch.Estimate()
}

// ToMap produces a plain representation of this Summary, suitable for metadata
func (s *Summary) ToMap() map[string]interface{} {
	res := map[string]interface{}{
		"count":    s.Count,
		"nulls":    s.Nulls,
		"zeros":    s.Zeros,
		"distinct": s.Distinct(),
	}
	if s.Numeric > 0 {
		res["min"] = s.Min
		res["max"] = s.Max
		res["sum"] = s.Sum
		res["mean"] = s.Mean()
		res["std"] = s.Std()
	}
	return res
}
