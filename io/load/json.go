package load

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/io/compress"
	"github.com/go-sif/optimus/io/connect"
	"github.com/go-sif/optimus/schema"
	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
)

// JSONOptions configures JSON
type JSONOptions struct {
	Multiline bool                `toml:"multiline" mapstructure:"multiline"` // one object per line
	Path      string              `toml:"json_path" mapstructure:"json_path"` // gjson path selecting the record array within each document
	Conn      *connect.Connection `toml:"-" mapstructure:"-"`
}

type jsonColumns struct {
	names  []string
	index  map[string]int
	values []map[int]gjson.Result
}

func (c *jsonColumns) add(record gjson.Result) error {
	if !record.IsObject() {
		return fmt.Errorf("expected a JSON object, saw %s", record.Type)
	}
	row := make(map[int]gjson.Result)
	record.ForEach(func(key, value gjson.Result) bool {
		idx, ok := c.index[key.String()]
		if !ok {
			idx = len(c.names)
			c.index[key.String()] = idx
			c.names = append(c.names, key.String())
		}
		row[idx] = value
		return true
	})
	c.values = append(c.values, row)
	return nil
}

func (c *jsonColumns) addDocument(doc string, path string) error {
	if !gjson.Valid(doc) {
		return fmt.Errorf("invalid JSON document")
	}
	res := gjson.Parse(doc)
	if len(path) > 0 {
		res = res.Get(path)
	}
	if !res.IsArray() {
		return c.add(res)
	}
	var err error
	res.ForEach(func(_, record gjson.Result) bool {
		err = c.add(record)
		return err == nil
	})
	return err
}

func jsonType(values []gjson.Result) optimus.DataType {
	var res optimus.DataType
	for _, v := range values {
		var t optimus.DataType
		switch v.Type {
		case gjson.Null:
			continue
		case gjson.True, gjson.False:
			t = optimus.Boolean
		case gjson.Number:
			t = optimus.Int
			if f := v.Float(); f != math.Trunc(f) || strings.ContainsAny(v.Raw, ".eE") {
				t = optimus.Decimal
			}
		case gjson.String:
			t = optimus.String
		default:
			t = optimus.Object
			if v.IsArray() {
				t = optimus.Array
			}
		}
		switch {
		case len(res) == 0:
			res = t
		case res == t:
		case (res == optimus.Int && t == optimus.Decimal) || (res == optimus.Decimal && t == optimus.Int):
			res = optimus.Decimal
		default:
			return optimus.String
		}
	}
	if len(res) == 0 {
		return optimus.String
	}
	return res
}

func jsonValue(v gjson.Result, t optimus.DataType) interface{} {
	if v.Type == gjson.Null {
		return nil
	}
	switch t {
	case optimus.Int:
		return v.Int()
	case optimus.Decimal:
		return v.Float()
	case optimus.Boolean:
		return v.Bool()
	case optimus.Array, optimus.Object:
		return v.Value()
	}
	if v.Type == gjson.String {
		return v.String()
	}
	return v.Raw
}

func (c *jsonColumns) records() (Records, error) {
	descs := make([]optimus.ColumnDescriptor, len(c.names))
	column := make([]gjson.Result, len(c.values))
	for j, name := range c.names {
		for i, row := range c.values {
			column[i] = row[j]
		}
		descs[j] = optimus.ColumnDescriptor{Name: name, Type: jsonType(column), Nullable: true}
	}
	s, err := schema.CreateSchema(descs...)
	if err != nil {
		return Records{}, err
	}
	rows := make([][]interface{}, len(c.values))
	for i, values := range c.values {
		row := make([]interface{}, len(descs))
		for j, desc := range descs {
			if v, ok := values[j]; ok {
				row[j] = jsonValue(v, desc.Type)
			}
		}
		rows[i] = row
	}
	return Records{Schema: s, Rows: rows}, nil
}

func readJSONFile(fs afero.Fs, name string, opts JSONOptions, into *jsonColumns) error {
	f, err := fs.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	r, err := compress.NewReader(name, f)
	if err != nil {
		return err
	}
	defer r.Close()

	if !opts.Multiline {
		doc, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		if err := into.addDocument(string(doc), opts.Path); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 64*1024*1024)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if len(text) == 0 {
			continue
		}
		if err := into.addDocument(text, opts.Path); err != nil {
			return fmt.Errorf("%s line %d: %w", name, line, err)
		}
	}
	return scanner.Err()
}

// JSON reads every JSON document matching a glob pattern. Columns appear in the order their
// keys are first seen, and keys missing from a record are nulls.
func JSON(ctx context.Context, fs afero.Fs, pattern string, opts JSONOptions) (Records, error) {
	fs, pattern = resolve(fs, pattern, opts.Conn)
	files, err := expand(fs, pattern)
	if err != nil {
		return Records{}, err
	}
	cols := &jsonColumns{index: make(map[string]int)}
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return Records{}, err
		}
		if err := readJSONFile(fs, name, opts, cols); err != nil {
			return Records{}, err
		}
	}
	res, err := cols.records()
	if err != nil {
		return Records{}, err
	}
	res.Meta = fileMeta(files[0])
	return res, nil
}
