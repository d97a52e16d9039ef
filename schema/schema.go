package schema

import (
	"fmt"

	"github.com/go-sif/optimus"
)

// schema is an ordered collection of column descriptors, with an index
// from column names to positions. It allows one to obtain descriptors by name,
// define new columns, remove columns, etc.
type schema struct {
	columns []optimus.ColumnDescriptor
	index   map[string]int
}

// CreateSchema is a factory for Schemas
func CreateSchema(columns ...optimus.ColumnDescriptor) (optimus.Schema, error) {
	s := &schema{
		columns: make([]optimus.ColumnDescriptor, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for _, c := range columns {
		if _, ok := s.index[c.Name]; ok {
			return nil, fmt.Errorf("Schema already contains column with name %s", c.Name)
		}
		s.index[c.Name] = len(s.columns)
		s.columns = append(s.columns, c)
	}
	return s, nil
}

// MustCreateSchema is CreateSchema, but panics on duplicate column names
func MustCreateSchema(columns ...optimus.ColumnDescriptor) optimus.Schema {
	s, err := CreateSchema(columns...)
	if err != nil {
		panic(err)
	}
	return s
}

// Equals returns nil iff this and another Schema are equivalent
func (s *schema) Equals(otherSchema optimus.Schema) error {
	if s.NumColumns() != otherSchema.NumColumns() {
		return fmt.Errorf("Schemas have unequal numbers of columns")
	}
	return s.ForEachColumn(func(idx int, desc optimus.ColumnDescriptor) error {
		other, err := otherSchema.Column(desc.Name)
		if err != nil {
			return err
		}
		if otherSchema.Index(desc.Name) != idx {
			return fmt.Errorf("Column %s indices do not match", desc.Name)
		}
		if other.Type != desc.Type {
			return fmt.Errorf("Column %s types do not match", desc.Name)
		}
		return nil
	})
}

// Clone returns a copy of this Schema
func (s *schema) Clone() optimus.Schema {
	newColumns := make([]optimus.ColumnDescriptor, len(s.columns))
	copy(newColumns, s.columns)
	newIndex := make(map[string]int, len(s.index))
	for k, v := range s.index {
		newIndex[k] = v
	}
	return &schema{columns: newColumns, index: newIndex}
}

// NumColumns returns the number of columns in this Schema
func (s *schema) NumColumns() int {
	return len(s.columns)
}

// Column returns the descriptor of a particular column
func (s *schema) Column(colName string) (desc optimus.ColumnDescriptor, err error) {
	idx, ok := s.index[colName]
	if !ok {
		err = fmt.Errorf("Schema does not contain column with name %s", colName)
		return
	}
	return s.columns[idx], nil
}

// Index returns the position of a column within this Schema, or -1
func (s *schema) Index(colName string) int {
	idx, ok := s.index[colName]
	if !ok {
		return -1
	}
	return idx
}

// HasColumn returns true iff this schema contains a column with the given name
func (s *schema) HasColumn(colName string) bool {
	_, ok := s.index[colName]
	return ok
}

// CreateColumn returns a new Schema with an additional column at the end
func (s *schema) CreateColumn(desc optimus.ColumnDescriptor) (newSchema optimus.Schema, err error) {
	if s.HasColumn(desc.Name) {
		return nil, fmt.Errorf("Schema already contains column with name %s", desc.Name)
	}
	res := s.Clone().(*schema)
	res.index[desc.Name] = len(res.columns)
	res.columns = append(res.columns, desc)
	return res, nil
}

// ReplaceColumn returns a new Schema in which the column with the same name has a different descriptor
func (s *schema) ReplaceColumn(desc optimus.ColumnDescriptor) (newSchema optimus.Schema, err error) {
	idx, ok := s.index[desc.Name]
	if !ok {
		return nil, fmt.Errorf("Schema does not contain column with name %s", desc.Name)
	}
	res := s.Clone().(*schema)
	res.columns[idx] = desc
	return res, nil
}

// RenameColumn returns a new Schema in which a column has been renamed, keeping its position
func (s *schema) RenameColumn(oldName string, newName string) (newSchema optimus.Schema, err error) {
	idx, ok := s.index[oldName]
	if !ok {
		return nil, fmt.Errorf("Schema does not contain column with name %s", oldName)
	}
	if oldName == newName {
		return s.Clone(), nil
	}
	if s.HasColumn(newName) {
		return nil, fmt.Errorf("Schema already contains column with name %s", newName)
	}
	res := s.Clone().(*schema)
	res.columns[idx] = res.columns[idx].WithName(newName)
	delete(res.index, oldName)
	res.index[newName] = idx
	return res, nil
}

// RemoveColumn returns a new Schema without the given column
func (s *schema) RemoveColumn(colName string) (optimus.Schema, bool) {
	idx, ok := s.index[colName]
	if !ok {
		return s, false
	}
	res := &schema{
		columns: make([]optimus.ColumnDescriptor, 0, len(s.columns)-1),
		index:   make(map[string]int, len(s.columns)-1),
	}
	for i, c := range s.columns {
		if i == idx {
			continue
		}
		res.index[c.Name] = len(res.columns)
		res.columns = append(res.columns, c)
	}
	return res, true
}

// Select returns a new Schema containing only the given columns, in the given order
func (s *schema) Select(colNames ...string) (optimus.Schema, error) {
	cols := make([]optimus.ColumnDescriptor, 0, len(colNames))
	for _, name := range colNames {
		desc, err := s.Column(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, desc)
	}
	return CreateSchema(cols...)
}

// ColumnNames returns the names in the schema, in index order
func (s *schema) ColumnNames() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.Name
	}
	return names
}

// ColumnTypes returns the types in the schema, in index order
func (s *schema) ColumnTypes() []optimus.DataType {
	types := make([]optimus.DataType, len(s.columns))
	for i, c := range s.columns {
		types[i] = c.Type
	}
	return types
}

// Columns returns the descriptors in the schema, in index order
func (s *schema) Columns() []optimus.ColumnDescriptor {
	res := make([]optimus.ColumnDescriptor, len(s.columns))
	copy(res, s.columns)
	return res
}

// ForEachColumn iterates over the columns in this Schema, in index order
func (s *schema) ForEachColumn(fn func(idx int, desc optimus.ColumnDescriptor) error) error {
	for i, c := range s.columns {
		err := fn(i, c)
		if err != nil {
			return err
		}
	}
	return nil
}
