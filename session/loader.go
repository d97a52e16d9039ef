package session

import (
	"context"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/dataframe"
	"github.com/go-sif/optimus/errors"
	"github.com/go-sif/optimus/io/load"
	"github.com/go-sif/optimus/logging"
	"github.com/go-sif/optimus/meta"
	"github.com/spf13/afero"
)

// Loader reads files and databases into DataFrames. Errors are logged, then returned unchanged.
type Loader struct {
	adapter optimus.Adapter
	handle  optimus.EngineHandle
	fs      afero.Fs
}

// NewLoader creates a Loader reading from fs
func NewLoader(adapter optimus.Adapter, handle optimus.EngineHandle, fs afero.Fs) *Loader {
	return &Loader{adapter: adapter, handle: handle, fs: fs}
}

// Fs returns the filesystem this Loader reads from
func (l *Loader) Fs() afero.Fs {
	return l.fs
}

func (l *Loader) frame(ctx context.Context, source string, records load.Records, err error) (*dataframe.DataFrame, error) {
	if err != nil {
		logging.Error(err, "Error loading %s", source)
		return nil, err
	}
	df, err := dataframe.FromRecords(ctx, l.adapter, l.handle, records.Schema, records.Rows)
	if err != nil {
		logging.Error(err, "Error loading %s", source)
		return nil, err
	}
	return df.WithMeta(meta.Merge(df.Meta(), records.Meta)), nil
}

// CSV reads the CSV files matching path
func (l *Loader) CSV(ctx context.Context, path string, opts load.CSVOptions) (*dataframe.DataFrame, error) {
	records, err := load.CSV(ctx, l.fs, path, opts)
	return l.frame(ctx, path, records, err)
}

// TSV reads the TSV files matching path
func (l *Loader) TSV(ctx context.Context, path string, opts load.CSVOptions) (*dataframe.DataFrame, error) {
	records, err := load.TSV(ctx, l.fs, path, opts)
	return l.frame(ctx, path, records, err)
}

// JSON reads the JSON files matching path
func (l *Loader) JSON(ctx context.Context, path string, opts load.JSONOptions) (*dataframe.DataFrame, error) {
	records, err := load.JSON(ctx, l.fs, path, opts)
	return l.frame(ctx, path, records, err)
}

// Parquet reads the Parquet files matching path
func (l *Loader) Parquet(ctx context.Context, path string, opts load.ParquetOptions) (*dataframe.DataFrame, error) {
	records, err := load.Parquet(ctx, l.fs, path, opts)
	return l.frame(ctx, path, records, err)
}

// ZIP reads the members of a zip archive matching member
func (l *Loader) ZIP(ctx context.Context, path string, member string, format load.Format, opts load.FileOptions) (*dataframe.DataFrame, error) {
	records, err := load.ZIP(ctx, l.fs, path, member, format, opts)
	return l.frame(ctx, path, records, err)
}

// File reads path in the given format, inferred from its extension when empty
func (l *Loader) File(ctx context.Context, path string, format load.Format, opts load.FileOptions) (*dataframe.DataFrame, error) {
	records, err := load.File(ctx, l.fs, path, format, opts)
	return l.frame(ctx, path, records, err)
}

// SQL runs a query and reads its result set
func (l *Loader) SQL(ctx context.Context, db load.Querier, query string, args ...interface{}) (*dataframe.DataFrame, error) {
	records, err := load.SQL(ctx, db, query, args...)
	return l.frame(ctx, query, records, err)
}

func (l *Loader) unsupported(format string) (*dataframe.DataFrame, error) {
	err := errors.UnsupportedOperationError{Operation: "load " + format, Engine: string(l.handle.Engine)}
	logging.Error(err, "Error loading %s", format)
	return nil, err
}

// Avro is not supported
func (l *Loader) Avro(ctx context.Context, path string) (*dataframe.DataFrame, error) {
	return l.unsupported(string(load.FormatAvro))
}

// Excel is not supported
func (l *Loader) Excel(ctx context.Context, path string) (*dataframe.DataFrame, error) {
	return l.unsupported(string(load.FormatExcel))
}

// ORC is not supported
func (l *Loader) ORC(ctx context.Context, path string) (*dataframe.DataFrame, error) {
	return l.unsupported(string(load.FormatORC))
}
