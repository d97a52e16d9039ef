package kernel

import (
	"sort"
	"strings"
	"time"
)

// Compare orders two values of the same column. Nulls sort after every value.
func Compare(a interface{}, b interface{}) int {
	aNull, bNull := IsNull(a), IsNull(b)
	switch {
	case aNull && bNull:
		return 0
	case aNull:
		return 1
	case bNull:
		return -1
	}
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			}
			return 0
		}
	}
	if _, isString := a.(string); !isString {
		af, aok := ToFloat(a)
		bf, bok := ToFloat(b)
		if aok && bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	as, _ := ToString(a)
	bs, _ := ToString(b)
	return strings.Compare(as, bs)
}

// SortIndex produces a stable row order for the given key fields. Nulls are placed
// last regardless of direction.
func SortIndex(rows [][]interface{}, fields []int, descending []bool) []int {
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		a, b := rows[idx[i]], rows[idx[j]]
		for k, f := range fields {
			c := Compare(a[f], b[f])
			if c == 0 {
				continue
			}
			if descending[k] && !IsNull(a[f]) && !IsNull(b[f]) {
				c = -c
			}
			return c < 0
		}
		return false
	})
	return idx
}

// DistinctIndex returns the indices of the first occurrence of every distinct row,
// considering only the given fields
func DistinctIndex(rows [][]interface{}, fields []int) []int {
	seen := make(map[uint64][]int, len(rows))
	res := make([]int, 0, len(rows))
	for i, row := range rows {
		h := HashRow(row, fields)
		duplicate := false
		for _, j := range seen[h] {
			if rowsEqual(rows[j], row, fields) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			seen[h] = append(seen[h], i)
			res = append(res, i)
		}
	}
	return res
}

func rowsEqual(a []interface{}, b []interface{}, fields []int) bool {
	for _, f := range fields {
		if Compare(a[f], b[f]) != 0 {
			return false
		}
	}
	return true
}
