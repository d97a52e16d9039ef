package optimus

import (
	"fmt"
	"strings"
)

// DataType is the logical type of a column. Every column has exactly one DataType at any time.
type DataType string

const (
	// Int is a 64-bit integer column
	Int DataType = "int"
	// Decimal is a floating point column
	Decimal DataType = "decimal"
	// String is a text column
	String DataType = "str"
	// Boolean is a true/false column
	Boolean DataType = "boolean"
	// Datetime is a timestamp column
	Datetime DataType = "datetime"
	// Array is a column of lists
	Array DataType = "array"
	// Object is a column of nested objects
	Object DataType = "object"

	// Profiler-only refinements of String

	Gender               DataType = "gender"
	IP                   DataType = "ip"
	URL                  DataType = "url"
	Email                DataType = "email"
	CreditCardNumber     DataType = "credit_card_number"
	ZipCode              DataType = "zip_code"
	Missing              DataType = "missing"
	Categorical          DataType = "categorical"
	PhoneNumber          DataType = "phone_number"
	SocialSecurityNumber DataType = "social_security_number"
	HTTPCode             DataType = "http_code"
	USState              DataType = "us_state"
	Null                 DataType = "null"
)

var dataTypes = []DataType{
	Int, Decimal, String, Boolean, Datetime, Array, Object,
	Gender, IP, URL, Email, CreditCardNumber, ZipCode, Missing, Categorical,
	PhoneNumber, SocialSecurityNumber, HTTPCode, USState, Null,
}

var shortTypes = map[string]DataType{
	"string":  String,
	"str":     String,
	"integer": Int,
	"int":     Int,
	"float":   Decimal,
	"double":  Decimal,
	"bool":    Boolean,
	"boolean": Boolean,
	"date":    Datetime,
	"array":   Array,
	"null":    Null,
}

// DataTypes lists every DataType
func DataTypes() []DataType {
	res := make([]DataType, len(dataTypes))
	copy(res, dataTypes)
	return res
}

// ParseDataType resolves a DataType from its name or one of its short aliases
func ParseDataType(name string) (DataType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if t, ok := shortTypes[name]; ok {
		return t, nil
	}
	for _, t := range dataTypes {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("%s is not a known data type", name)
}

// IsNumeric returns true iff values of this type are stored as numbers
func (t DataType) IsNumeric() bool {
	return t == Int || t == Decimal
}

// IsStringLike returns true iff values of this type are stored as strings
func (t DataType) IsStringLike() bool {
	switch t {
	case Int, Decimal, Boolean, Datetime, Array, Object, Null, Missing:
		return false
	default:
		return true
	}
}

// ColumnDescriptor names and types a column
type ColumnDescriptor struct {
	Name     string   `mapstructure:"name"`
	Type     DataType `mapstructure:"type"`
	Nullable bool     `mapstructure:"nullable"`
}

// WithType returns a copy of this ColumnDescriptor with a different DataType
func (c ColumnDescriptor) WithType(t DataType) ColumnDescriptor {
	return ColumnDescriptor{Name: c.Name, Type: t, Nullable: c.Nullable}
}

// WithName returns a copy of this ColumnDescriptor with a different name
func (c ColumnDescriptor) WithName(name string) ColumnDescriptor {
	return ColumnDescriptor{Name: name, Type: c.Type, Nullable: c.Nullable}
}
