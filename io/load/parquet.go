package load

import (
	"context"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/io/columnar"
	"github.com/go-sif/optimus/io/connect"
	"github.com/spf13/afero"
)

// ParquetOptions configures Parquet
type ParquetOptions struct {
	Columns []string            `toml:"columns" mapstructure:"columns"` // subset of columns to keep, every column when empty
	Conn    *connect.Connection `toml:"-" mapstructure:"-"`
}

// Parquet reads every Parquet file matching a glob pattern. Files must share their schema.
func Parquet(ctx context.Context, fs afero.Fs, pattern string, opts ParquetOptions) (Records, error) {
	fs, pattern = resolve(fs, pattern, opts.Conn)
	files, err := expand(fs, pattern)
	if err != nil {
		return Records{}, err
	}
	var res Records
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return Records{}, err
		}
		s, rows, err := readParquetFile(fs, name)
		if err != nil {
			return Records{}, err
		}
		if res.Schema == nil {
			res.Schema = s
		} else if err := res.Schema.Equals(s); err != nil {
			return Records{}, err
		}
		res.Rows = append(res.Rows, rows...)
	}
	res.Meta = fileMeta(files[0])
	if len(opts.Columns) == 0 {
		return res, nil
	}
	return project(res, opts.Columns)
}

func readParquetFile(fs afero.Fs, name string) (optimus.Schema, [][]interface{}, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	return columnar.Read(f, info.Size())
}

// project keeps a subset of columns, in the given order
func project(r Records, columns []string) (Records, error) {
	s, err := r.Schema.Select(columns...)
	if err != nil {
		return Records{}, err
	}
	idx := make([]int, len(columns))
	for i, name := range columns {
		idx[i] = r.Schema.Index(name)
	}
	rows := make([][]interface{}, len(r.Rows))
	for i, row := range r.Rows {
		projected := make([]interface{}, len(idx))
		for j, k := range idx {
			projected[j] = row[k]
		}
		rows[i] = projected
	}
	return Records{Schema: s, Rows: rows, Meta: r.Meta}, nil
}
