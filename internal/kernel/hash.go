package kernel

import (
	"github.com/cespare/xxhash/v2"
)

// rowSeparator cannot appear in the textual form of a non-null value
const rowSeparator = 0x1f

// HashRow hashes the given fields of a row
func HashRow(row []interface{}, fields []int) uint64 {
	d := xxhash.New()
	for _, idx := range fields {
		v := row[idx]
		if IsNull(v) {
			d.Write([]byte{0x00})
		} else {
			s, _ := ToString(v)
			d.WriteString(s)
		}
		d.Write([]byte{rowSeparator})
	}
	return d.Sum64()
}

// HashValue hashes a single value
func HashValue(v interface{}) uint64 {
	return HashRow([]interface{}{v}, []int{0})
}
