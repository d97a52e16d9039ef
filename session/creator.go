package session

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/dataframe"
	"github.com/go-sif/optimus/internal/kernel"
	"github.com/go-sif/optimus/schema"
)

// Creator builds DataFrames from in-memory values
type Creator struct {
	adapter optimus.Adapter
	handle  optimus.EngineHandle
}

// NewCreator creates a Creator producing DataFrames for adapter
func NewCreator(adapter optimus.Adapter, handle optimus.EngineHandle) *Creator {
	return &Creator{adapter: adapter, handle: handle}
}

// Records builds a DataFrame from row-major records
func (c *Creator) Records(ctx context.Context, s optimus.Schema, rows [][]interface{}) (*dataframe.DataFrame, error) {
	return dataframe.FromRecords(ctx, c.adapter, c.handle, s, rows)
}

// DataFrame builds a DataFrame from named columns, inferring each column's DataType from its
// values. Columns are ordered as in order, or by name when order is empty.
func (c *Creator) DataFrame(ctx context.Context, columns map[string][]interface{}, order ...string) (*dataframe.DataFrame, error) {
	if len(order) == 0 {
		for name := range columns {
			order = append(order, name)
		}
		sort.Strings(order)
	}
	descs := make([]optimus.ColumnDescriptor, len(order))
	normalized := make(map[string][]interface{}, len(order))
	for i, name := range order {
		values, ok := columns[name]
		if !ok {
			return nil, fmt.Errorf("no values for column %s", name)
		}
		dtype := inferColumnType(values)
		descs[i] = optimus.ColumnDescriptor{Name: name, Type: dtype, Nullable: true}
		col := make([]interface{}, len(values))
		for j, v := range values {
			switch {
			case kernel.IsNull(v):
			case dtype == optimus.String:
				col[j], _ = kernel.ToString(v)
			default:
				col[j] = kernel.Normalize(v, dtype)
			}
		}
		normalized[name] = col
	}
	return dataframe.FromColumns(ctx, c.adapter, c.handle, descs, normalized)
}

// Schema builds a DataFrame from descriptors and row-major records
func (c *Creator) Schema(ctx context.Context, descs []optimus.ColumnDescriptor, rows [][]interface{}) (*dataframe.DataFrame, error) {
	s, err := schema.CreateSchema(descs...)
	if err != nil {
		return nil, err
	}
	return c.Records(ctx, s, rows)
}

func valueType(v interface{}) optimus.DataType {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return optimus.Int
	case float32, float64:
		return optimus.Decimal
	case bool:
		return optimus.Boolean
	case time.Time:
		return optimus.Datetime
	case []interface{}, []string:
		return optimus.Array
	case map[string]interface{}:
		return optimus.Object
	}
	return optimus.String
}

// inferColumnType unifies the types of non-null values. Ints widen to Decimal, any other
// mix is a String column.
func inferColumnType(values []interface{}) optimus.DataType {
	var res optimus.DataType
	for _, v := range values {
		if kernel.IsNull(v) {
			continue
		}
		t := valueType(v)
		switch {
		case len(res) == 0, res == t:
			res = t
		case (res == optimus.Int && t == optimus.Decimal) || (res == optimus.Decimal && t == optimus.Int):
			res = optimus.Decimal
		default:
			return optimus.String
		}
	}
	if len(res) == 0 {
		return optimus.String
	}
	return res
}
