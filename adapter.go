package optimus

import "context"

// Table is an engine-native table. Its physical representation is private
// to the Adapter which produced it, but its Schema is engine-independent.
type Table interface {
	Engine() Engine
	Schema() Schema
}

// Column is an engine-native column
type Column interface {
	Engine() Engine
	Type() DataType
	Len() int
}

// SortKey describes one column to sort by
type SortKey struct {
	Column     string `mapstructure:"column"`
	Descending bool   `mapstructure:"descending"`
}

// Adapter translates table-level operations into the native call sequence of one Engine.
// Every method returns a new Table (or Column) and never modifies its inputs. Rows are
// only dropped by Filter, Slice and DropDuplicates.
type Adapter interface {
	Engine() Engine
	Supports(action Action) bool
	Capabilities() ActionSet
	Functions() Functions
	FromRecords(ctx context.Context, schema Schema, rows [][]interface{}) (Table, error)
	Records(ctx context.Context, t Table) ([][]interface{}, error)
	NumRows(ctx context.Context, t Table) (int, error)
	Column(ctx context.Context, t Table, name string) (Column, error)
	Values(ctx context.Context, c Column) ([]interface{}, error)
	WithColumn(ctx context.Context, t Table, desc ColumnDescriptor, c Column) (Table, error) // replaces a column with the same name, or appends it
	Select(ctx context.Context, t Table, names ...string) (Table, error)
	Rename(ctx context.Context, t Table, oldName string, newName string) (Table, error)
	Filter(ctx context.Context, t Table, mask Column) (Table, error)
	Sort(ctx context.Context, t Table, keys ...SortKey) (Table, error)
	Slice(ctx context.Context, t Table, lower int, upper int) (Table, error)
	Append(ctx context.Context, t Table, rows [][]interface{}) (Table, error)
	DropDuplicates(ctx context.Context, t Table, subset ...string) (Table, error)
}

// Closer is implemented by Adapters which hold resources (worker pools, devices)
type Closer interface {
	Close() error
}
