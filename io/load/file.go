package load

import (
	"context"
	"path"
	"strings"

	"github.com/go-sif/optimus/errors"
	"github.com/go-sif/optimus/io/compress"
	"github.com/spf13/afero"
)

// Format names a file format understood by File
type Format string

const (
	// FormatCSV is comma separated values
	FormatCSV Format = "csv"
	// FormatTSV is tab separated values
	FormatTSV Format = "tsv"
	// FormatJSON is JSON documents or JSON lines
	FormatJSON Format = "json"
	// FormatParquet is Apache Parquet
	FormatParquet Format = "parquet"
	// FormatZIP is a zip archive wrapping files of another Format
	FormatZIP Format = "zip"
	// FormatAvro is Apache Avro
	FormatAvro Format = "avro"
	// FormatExcel is a Microsoft Excel workbook
	FormatExcel Format = "excel"
	// FormatORC is Apache ORC
	FormatORC Format = "orc"
)

// FileOptions carries per-format options for File
type FileOptions struct {
	CSV     CSVOptions     `toml:"csv" mapstructure:"csv"`
	JSON    JSONOptions    `toml:"json" mapstructure:"json"`
	Parquet ParquetOptions `toml:"parquet" mapstructure:"parquet"`
	Member  string         `toml:"member" mapstructure:"member"` // archive members to read, as a glob
	Inner   Format         `toml:"inner" mapstructure:"inner"`   // Format of archive members, inferred when empty
}

// FormatFor infers a Format from a file name's extension, ignoring compression extensions
func FormatFor(name string) (Format, bool) {
	switch strings.ToLower(path.Ext(compress.Trim(name))) {
	case ".csv", ".txt":
		return FormatCSV, true
	case ".tsv":
		return FormatTSV, true
	case ".json", ".jsonl", ".ndjson":
		return FormatJSON, true
	case ".parquet", ".pq":
		return FormatParquet, true
	case ".zip":
		return FormatZIP, true
	case ".avro":
		return FormatAvro, true
	case ".xls", ".xlsx":
		return FormatExcel, true
	case ".orc":
		return FormatORC, true
	}
	return "", false
}

// File reads a file, inferring its Format from the extension when format is empty
func File(ctx context.Context, fs afero.Fs, name string, format Format, opts FileOptions) (Records, error) {
	if len(format) == 0 {
		var ok bool
		if format, ok = FormatFor(name); !ok {
			return Records{}, errors.UnsupportedOperationError{Operation: "load " + path.Ext(name)}
		}
	}
	switch format {
	case FormatCSV:
		return CSV(ctx, fs, name, opts.CSV)
	case FormatTSV:
		return TSV(ctx, fs, name, opts.CSV)
	case FormatJSON:
		if ext := strings.ToLower(path.Ext(compress.Trim(name))); ext == ".jsonl" || ext == ".ndjson" {
			opts.JSON.Multiline = true
		}
		return JSON(ctx, fs, name, opts.JSON)
	case FormatParquet:
		return Parquet(ctx, fs, name, opts.Parquet)
	case FormatZIP:
		return ZIP(ctx, fs, name, opts.Member, opts.Inner, opts)
	}
	return Records{}, errors.UnsupportedOperationError{Operation: "load " + string(format)}
}
