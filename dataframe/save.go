package dataframe

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/go-sif/optimus/internal/kernel"
	"github.com/go-sif/optimus/io/columnar"
	"github.com/go-sif/optimus/io/compress"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/afero"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Saver writes DataFrames to a filesystem. Compression is chosen by the extension of the
// destination path.
type Saver struct {
	df *DataFrame
}

// CSVOptions configures Saver.CSV
type CSVOptions struct {
	Sep       rune   `toml:"sep" mapstructure:"sep"`
	Header    *bool  `toml:"header" mapstructure:"header"`
	NullValue string `toml:"null_value" mapstructure:"null_value"`
}

func ensureDefaultCSVOptionsValues(opts *CSVOptions) {
	if opts.Sep == 0 {
		opts.Sep = ','
	}
	if opts.Header == nil {
		header := true
		opts.Header = &header
	}
}

func (s *Saver) create(fs afero.Fs, path string, write func(w io.Writer) error) (err error) {
	f, err := fs.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	w, err := compress.NewWriter(path, f)
	if err != nil {
		return err
	}
	if err = write(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// CSV writes every row as delimited text
func (s *Saver) CSV(ctx context.Context, fs afero.Fs, path string, opts CSVOptions) error {
	ensureDefaultCSVOptionsValues(&opts)
	rows, err := s.df.Records(ctx)
	if err != nil {
		return err
	}
	return s.create(fs, path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		cw.Comma = opts.Sep
		if *opts.Header {
			if err := cw.Write(s.df.Columns()); err != nil {
				return err
			}
		}
		record := make([]string, s.df.Schema().NumColumns())
		for _, row := range rows {
			for i, v := range row {
				if kernel.IsNull(v) {
					record[i] = opts.NullValue
					continue
				}
				record[i], _ = kernel.ToString(v)
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// JSON writes rows as an array of objects, or as one object per line when lines is set
func (s *Saver) JSON(ctx context.Context, fs afero.Fs, path string, lines bool) error {
	records, err := s.df.ToDict(ctx)
	if err != nil {
		return err
	}
	return s.create(fs, path, func(w io.Writer) error {
		stream := json.NewEncoder(w)
		if !lines {
			return stream.Encode(records)
		}
		for _, r := range records {
			if err := stream.Encode(r); err != nil {
				return err
			}
		}
		return nil
	})
}

// Parquet writes every row as a single parquet file
func (s *Saver) Parquet(ctx context.Context, fs afero.Fs, path string) error {
	rows, err := s.df.Records(ctx)
	if err != nil {
		return err
	}
	return s.create(fs, path, func(w io.Writer) error {
		return columnar.Write(w, s.df.Schema(), rows)
	})
}
