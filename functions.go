package optimus

// ValueFunc transforms a single value. A nil input is a null, and a nil output produces a null.
type ValueFunc func(v interface{}) (interface{}, error)

// ErrorPolicy determines what happens when a value cannot be parsed during a cast
type ErrorPolicy string

const (
	// Coerce replaces unparseable values with CastOptions.FillValue
	Coerce ErrorPolicy = "coerce"
	// Raise fails the cast on the first unparseable value
	Raise ErrorPolicy = "raise"
)

// CastOptions configures a cast. The zero value coerces unparseable values to null.
type CastOptions struct {
	Errors    ErrorPolicy `mapstructure:"errors"`
	FillValue interface{} `mapstructure:"fill_value"`
	Format    string      `mapstructure:"format"`    // strftime-style layout used when casting to and from Datetime
	Precision *int32      `mapstructure:"precision"` // decimal places kept when casting to Decimal
}

// Functions is the column-level catalog of an Adapter. Numeric transforms coerce
// their input to floating point and return a Decimal column. String transforms
// coerce their input to strings. Every transform preserves row count, row order
// and null positions.
type Functions interface {
	Map(c Column, out DataType, fn ValueFunc) (Column, error)
	Summarize(c Column) (*Summary, error)

	Cast(c Column, to DataType, opts CastOptions) (Column, error)
	ToFloat(c Column) (Column, error)
	ToInteger(c Column) (Column, error)
	ToString(c Column) (Column, error)
	ToBoolean(c Column) (Column, error)
	CountZeros(c Column) (int, error)

	Abs(c Column) (Column, error)
	Exp(c Column) (Column, error)
	Sqrt(c Column) (Column, error)
	Ln(c Column) (Column, error)
	Log(c Column) (Column, error)
	Ceil(c Column) (Column, error)
	Floor(c Column) (Column, error)
	Sin(c Column) (Column, error)
	Cos(c Column) (Column, error)
	Tan(c Column) (Column, error)
	Asin(c Column) (Column, error)
	Acos(c Column) (Column, error)
	Atan(c Column) (Column, error)
	Sinh(c Column) (Column, error)
	Cosh(c Column) (Column, error)
	Tanh(c Column) (Column, error)
	Asinh(c Column) (Column, error)
	Acosh(c Column) (Column, error)
	Atanh(c Column) (Column, error)
	Radians(c Column) (Column, error)
	Degrees(c Column) (Column, error)
	Clip(c Column, lower float64, upper float64) (Column, error)
	Cut(c Column, bins int) (Column, error)

	Lower(c Column) (Column, error)
	Upper(c Column) (Column, error)
	Proper(c Column) (Column, error)
	Trim(c Column) (Column, error)
	Reverse(c Column) (Column, error)
	RemoveAccents(c Column) (Column, error)
	RemoveSpecialChars(c Column) (Column, error)
	RemoveWhiteSpaces(c Column) (Column, error)
	ReplaceChars(c Column, search []string, replaceBy []string) (Column, error)
	ReplaceWords(c Column, search []string, replaceBy string) (Column, error)
	ReplaceFull(c Column, search []string, replaceBy string) (Column, error)

	DateFormat(c Column, currentFormat string, outputFormat string) (Column, error)
	YearsBetween(c Column, dateFormat string) (Column, error)

	IsNA(c Column) (Column, error)
	FillNA(c Column, value interface{}) (Column, error)
}
