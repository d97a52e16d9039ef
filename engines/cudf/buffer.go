package cudf

import (
	"time"

	"github.com/RoaringBitmap/roaring"
	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/internal/kernel"
)

type storage int

const (
	floatStorage storage = iota
	intStorage
	stringStorage
	boolStorage
	timeStorage
	objectStorage
)

func storageFor(t optimus.DataType) storage {
	switch t {
	case optimus.Decimal:
		return floatStorage
	case optimus.Int:
		return intStorage
	case optimus.Boolean:
		return boolStorage
	case optimus.Datetime:
		return timeStorage
	case optimus.Array, optimus.Object, optimus.Null, optimus.Missing:
		return objectStorage
	default:
		return stringStorage
	}
}

// Buffer is a typed, device-like column. Values are kept in a dense slice of
// the column's storage type, and nulls are tracked by a validity mask in which
// a set bit marks a non-null value.
type Buffer struct {
	dtype   optimus.DataType
	kind    storage
	n       int
	floats  []float64
	ints    []int64
	strs    []string
	bools   []bool
	times   []time.Time
	objects []interface{}
	valid   *roaring.Bitmap
}

func newBuffer(dtype optimus.DataType, n int) *Buffer {
	b := &Buffer{dtype: dtype, kind: storageFor(dtype), n: n, valid: roaring.New()}
	switch b.kind {
	case floatStorage:
		b.floats = make([]float64, n)
	case intStorage:
		b.ints = make([]int64, n)
	case boolStorage:
		b.bools = make([]bool, n)
	case timeStorage:
		b.times = make([]time.Time, n)
	case objectStorage:
		b.objects = make([]interface{}, n)
	default:
		b.strs = make([]string, n)
	}
	return b
}

// Engine returns optimus.CUDF
func (b *Buffer) Engine() optimus.Engine {
	return optimus.CUDF
}

// Type returns the DataType of this Buffer
func (b *Buffer) Type() optimus.DataType {
	return b.dtype
}

// Len returns the number of values in this Buffer
func (b *Buffer) Len() int {
	return b.n
}

// NullCount returns the number of nulls in this Buffer
func (b *Buffer) NullCount() int {
	return b.n - int(b.valid.GetCardinality())
}

// Get returns the value at row i, or nil
func (b *Buffer) Get(i int) interface{} {
	if !b.valid.Contains(uint32(i)) {
		return nil
	}
	switch b.kind {
	case floatStorage:
		return b.floats[i]
	case intStorage:
		return b.ints[i]
	case boolStorage:
		return b.bools[i]
	case timeStorage:
		return b.times[i]
	case objectStorage:
		return b.objects[i]
	default:
		return b.strs[i]
	}
}

// store writes v at row i and reports whether it is non-null. It touches only
// the dense slice, so distinct rows may be stored concurrently.
func (b *Buffer) store(i int, v interface{}) bool {
	if kernel.IsNull(v) {
		return false
	}
	var ok bool
	switch b.kind {
	case floatStorage:
		b.floats[i], ok = kernel.ToFloat(v)
	case intStorage:
		b.ints[i], ok = kernel.ToInteger(v)
	case boolStorage:
		b.bools[i], ok = kernel.ToBoolean(v)
	case timeStorage:
		b.times[i], ok = kernel.ToDatetime(v, "")
	case objectStorage:
		b.objects[i], ok = v, true
	default:
		b.strs[i], ok = kernel.ToString(v)
	}
	return ok
}

// Values returns the values of this Buffer as engine-neutral values
func (b *Buffer) Values() []interface{} {
	res := make([]interface{}, b.n)
	for i := range res {
		res[i] = b.Get(i)
	}
	return res
}

func bufferFromValues(dtype optimus.DataType, values []interface{}) *Buffer {
	b := newBuffer(dtype, len(values))
	for i, v := range values {
		if b.store(i, v) {
			b.valid.Add(uint32(i))
		}
	}
	return b
}

func (b *Buffer) take(idx []int) *Buffer {
	res := newBuffer(b.dtype, len(idx))
	for i, j := range idx {
		if res.store(i, b.Get(j)) {
			res.valid.Add(uint32(i))
		}
	}
	return res
}
