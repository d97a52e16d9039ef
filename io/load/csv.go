package load

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/errors"
	"github.com/go-sif/optimus/internal/kernel"
	"github.com/go-sif/optimus/io/compress"
	"github.com/go-sif/optimus/io/connect"
	"github.com/go-sif/optimus/logging"
	"github.com/go-sif/optimus/schema"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"golang.org/x/text/encoding/charmap"
)

// CSVOptions configures CSV
type CSVOptions struct {
	Sep           string              `toml:"sep" mapstructure:"sep"`
	Header        *bool               `toml:"header" mapstructure:"header"`
	InferSchema   *bool               `toml:"infer_schema" mapstructure:"infer_schema"`
	Encoding      string              `toml:"encoding" mapstructure:"encoding"`
	NRows         int                 `toml:"n_rows" mapstructure:"n_rows"` // rows read per file, every row when 0
	NullValue     string              `toml:"null_value" mapstructure:"null_value"`
	NAFilter      bool                `toml:"na_filter" mapstructure:"na_filter"`             // empty fields and NullValue become nulls in every column
	ErrorBadLines bool                `toml:"error_bad_lines" mapstructure:"error_bad_lines"` // fail on rows with the wrong number of fields instead of skipping them
	Conn          *connect.Connection `toml:"-" mapstructure:"-"`
}

func ensureDefaultCSVOptionsValues(opts *CSVOptions) {
	if len(opts.Sep) == 0 {
		opts.Sep = ","
	}
	if opts.Header == nil {
		header := true
		opts.Header = &header
	}
	if opts.InferSchema == nil {
		infer := true
		opts.InferSchema = &infer
	}
	if len(opts.Encoding) == 0 {
		opts.Encoding = "UTF-8"
	}
	if len(opts.NullValue) == 0 {
		opts.NullValue = "None"
	}
}

func decoder(encoding string, r io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.ReplaceAll(encoding, "_", "-")) {
	case "utf-8", "utf8":
		return r, nil
	case "latin-1", "latin1", "iso-8859-1", "iso8859-1":
		return charmap.ISO8859_1.NewDecoder().Reader(r), nil
	case "cp1252", "windows-1252":
		return charmap.Windows1252.NewDecoder().Reader(r), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %s", encoding)
	}
}

type csvFile struct {
	name   string
	header []string
	rows   [][]string
}

func readCSVFile(fs afero.Fs, name string, opts CSVOptions) (*csvFile, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	decompressed, err := compress.NewReader(name, f)
	if err != nil {
		return nil, err
	}
	defer decompressed.Close()
	decoded, err := decoder(opts.Encoding, decompressed)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(decoded)
	r.Comma, _ = firstRune(opts.Sep)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	res := &csvFile{name: name}
	for line := 1; opts.NRows == 0 || len(res.rows) < opts.NRows; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if res.header == nil {
			if *opts.Header {
				res.header = record
				continue
			}
			res.header = make([]string, len(record))
			for i := range record {
				res.header[i] = strconv.Itoa(i)
			}
		}
		if len(record) != len(res.header) {
			if opts.ErrorBadLines {
				return nil, fmt.Errorf("%s line %d: %w", name, line, errors.IncompatibleRowError{Expected: len(res.header), Actual: len(record)})
			}
			logging.Warn("%s line %d: expected %d fields, saw %d. Skipping line.", name, line, len(res.header), len(record))
			continue
		}
		res.rows = append(res.rows, record)
	}
	return res, nil
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return ',', false
}

func sameHeader(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// CSV reads every file matching a glob pattern. Files are concatenated in lexical order and
// must share their header.
func CSV(ctx context.Context, fs afero.Fs, pattern string, opts CSVOptions) (Records, error) {
	ensureDefaultCSVOptionsValues(&opts)
	fs, pattern = resolve(fs, pattern, opts.Conn)
	files, err := expand(fs, pattern)
	if err != nil {
		return Records{}, err
	}

	var errs *multierror.Error
	parsed := make([]*csvFile, 0, len(files))
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return Records{}, err
		}
		f, err := readCSVFile(fs, name, opts)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		parsed = append(parsed, f)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return Records{}, err
	}

	header := parsed[0].header
	var raw [][]string
	for _, f := range parsed {
		if f.header == nil {
			continue
		}
		if header == nil {
			header = f.header
		}
		if !sameHeader(header, f.header) {
			return Records{}, fmt.Errorf("%s has columns %v, expected %v", f.name, f.header, header)
		}
		raw = append(raw, f.rows...)
	}

	descs := make([]optimus.ColumnDescriptor, len(header))
	column := make([]string, len(raw))
	for j, name := range header {
		dtype := optimus.String
		if *opts.InferSchema {
			for i, row := range raw {
				column[i] = row[j]
			}
			dtype = kernel.InferType(column, opts.NullValue)
		}
		descs[j] = optimus.ColumnDescriptor{Name: name, Type: dtype, Nullable: true}
	}
	s, err := schema.CreateSchema(descs...)
	if err != nil {
		return Records{}, err
	}

	rows := make([][]interface{}, len(raw))
	for i, record := range raw {
		row := make([]interface{}, len(record))
		for j, field := range record {
			row[j] = parseField(field, descs[j].Type, opts)
		}
		rows[i] = row
	}
	return Records{Schema: s, Rows: rows, Meta: fileMeta(files[0])}, nil
}

func parseField(field string, dtype optimus.DataType, opts CSVOptions) interface{} {
	if opts.NAFilter && (len(field) == 0 || field == opts.NullValue) {
		return nil
	}
	if dtype == optimus.String {
		return field
	}
	trimmed := strings.TrimSpace(field)
	if len(trimmed) == 0 || trimmed == opts.NullValue {
		return nil
	}
	v, _ := kernel.Cast(trimmed, dtype, optimus.CastOptions{})
	return v
}

// TSV is CSV with a tab separator
func TSV(ctx context.Context, fs afero.Fs, pattern string, opts CSVOptions) (Records, error) {
	opts.Sep = "\t"
	return CSV(ctx, fs, pattern, opts)
}
