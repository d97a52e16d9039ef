package optimus

// Schema is an ordered collection of ColumnDescriptors. It allows one to obtain
// descriptors by name, define new columns, remove columns, etc. Schemas are
// copy-on-write: every modifying method returns a new Schema and leaves the
// receiver untouched.
type Schema interface {
	Equals(otherSchema Schema) error
	Clone() Schema
	NumColumns() int
	ColumnNames() []string
	ColumnTypes() []DataType
	Columns() []ColumnDescriptor
	Column(colName string) (ColumnDescriptor, error)
	Index(colName string) int // -1 if the column does not exist
	HasColumn(colName string) bool
	CreateColumn(desc ColumnDescriptor) (newSchema Schema, err error)
	ReplaceColumn(desc ColumnDescriptor) (newSchema Schema, err error)
	RenameColumn(oldName string, newName string) (newSchema Schema, err error)
	RemoveColumn(colName string) (newSchema Schema, wasRemoved bool)
	Select(colNames ...string) (newSchema Schema, err error)
	ForEachColumn(fn func(idx int, desc ColumnDescriptor) error) error
}
