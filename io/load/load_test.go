package load

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"io"
	"os"
	"testing"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/errors"
	"github.com/go-sif/optimus/io/columnar"
	"github.com/go-sif/optimus/io/compress"
	"github.com/go-sif/optimus/io/connect"
	"github.com/go-sif/optimus/meta"
	"github.com/go-sif/optimus/schema"
	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, fs afero.Fs, name string, content string) {
	require.Nil(t, afero.WriteFile(fs, name, []byte(content), 0644))
}

func TestCSVInference(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/data/people.csv", "name,age,score,active\nAna,31,1.5,true\nBob,,2,false\n")
	res, err := CSV(context.Background(), fs, "/data/people.csv", CSVOptions{})
	require.Nil(t, err)
	require.Equal(t, []string{"name", "age", "score", "active"}, res.Schema.ColumnNames())
	require.Equal(t, []optimus.DataType{optimus.String, optimus.Int, optimus.Decimal, optimus.Boolean}, res.Schema.ColumnTypes())
	require.Equal(t, [][]interface{}{
		{"Ana", int64(31), 1.5, true},
		{"Bob", nil, 2.0, false},
	}, res.Rows)
	name, ok := meta.Get(res.Meta, "name")
	require.True(t, ok)
	require.Equal(t, "people.csv", name)
	file, _ := meta.Get(res.Meta, "file_name")
	require.Equal(t, "/data/people.csv", file)
}

func TestCSVOptions(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/a.csv", "x;y\n1;None\n2;\n3;c\n")
	noHeader := false
	noInfer := false

	res, err := CSV(context.Background(), fs, "/a.csv", CSVOptions{Sep: ";", InferSchema: &noInfer})
	require.Nil(t, err)
	require.Equal(t, []optimus.DataType{optimus.String, optimus.String}, res.Schema.ColumnTypes())
	require.Equal(t, []interface{}{"1", "None"}, res.Rows[0])

	res, err = CSV(context.Background(), fs, "/a.csv", CSVOptions{Sep: ";", NAFilter: true, NRows: 2})
	require.Nil(t, err)
	require.Equal(t, 2, res.NumRows())
	require.Equal(t, [][]interface{}{{int64(1), nil}, {int64(2), nil}}, res.Rows)

	res, err = CSV(context.Background(), fs, "/a.csv", CSVOptions{Sep: ";", Header: &noHeader, InferSchema: &noInfer})
	require.Nil(t, err)
	require.Equal(t, []string{"0", "1"}, res.Schema.ColumnNames())
	require.Equal(t, 4, res.NumRows())
}

func TestCSVBadLines(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/bad.csv", "a,b\n1,2\n3\n4,5\n")
	res, err := CSV(context.Background(), fs, "/bad.csv", CSVOptions{})
	require.Nil(t, err)
	require.Equal(t, [][]interface{}{{int64(1), int64(2)}, {int64(4), int64(5)}}, res.Rows)

	_, err = CSV(context.Background(), fs, "/bad.csv", CSVOptions{ErrorBadLines: true})
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "/bad.csv line 3")
}

func TestCSVGlob(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/parts/part-1.csv", "id,v\n1,a\n")
	writeFile(t, fs, "/parts/part-0.csv", "id,v\n0,b\n")
	res, err := CSV(context.Background(), fs, "/parts/part-*.csv", CSVOptions{})
	require.Nil(t, err)
	require.Equal(t, [][]interface{}{{int64(0), "b"}, {int64(1), "a"}}, res.Rows)
	file, _ := meta.Get(res.Meta, "file_name")
	require.Equal(t, "/parts/part-0.csv", file)

	writeFile(t, fs, "/parts/part-2.csv", "id,w\n2,c\n")
	_, err = CSV(context.Background(), fs, "/parts/part-*.csv", CSVOptions{})
	require.NotNil(t, err)

	_, err = CSV(context.Background(), fs, "/missing/*.csv", CSVOptions{})
	require.True(t, os.IsNotExist(err))
}

func TestCSVEncodingAndCompression(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/latin.csv", "name\nJos\xe9\n")
	res, err := CSV(context.Background(), fs, "/latin.csv", CSVOptions{Encoding: "latin-1"})
	require.Nil(t, err)
	require.Equal(t, "José", res.Rows[0][0])

	_, err = CSV(context.Background(), fs, "/latin.csv", CSVOptions{Encoding: "ebcdic"})
	require.NotNil(t, err)

	f, err := fs.Create("/packed.tsv.lz4")
	require.Nil(t, err)
	w, err := compress.NewWriter("/packed.tsv.lz4", f)
	require.Nil(t, err)
	_, err = io.WriteString(w, "a\tb\n1\tx y\n")
	require.Nil(t, err)
	require.Nil(t, w.Close())
	require.Nil(t, f.Close())

	res, err = TSV(context.Background(), fs, "/packed.tsv.lz4", CSVOptions{})
	require.Nil(t, err)
	require.Equal(t, [][]interface{}{{int64(1), "x y"}}, res.Rows)
}

func TestCSVConnection(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/bucket/sales.csv", "total\n10\n")
	conn := connect.Local(fs, "/bucket")
	res, err := CSV(context.Background(), afero.NewMemMapFs(), "sales.csv", CSVOptions{Conn: conn})
	require.Nil(t, err)
	require.Equal(t, [][]interface{}{{int64(10)}}, res.Rows)
}

func TestJSON(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/users.json", `[{"id": 1, "name": "Ana", "tags": ["a"]}, {"id": 2, "score": 3.5, "name": null}]`)
	res, err := JSON(context.Background(), fs, "/users.json", JSONOptions{})
	require.Nil(t, err)
	require.Equal(t, []string{"id", "name", "tags", "score"}, res.Schema.ColumnNames())
	require.Equal(t, []optimus.DataType{optimus.Int, optimus.String, optimus.Array, optimus.Decimal}, res.Schema.ColumnTypes())
	require.Equal(t, []interface{}{int64(1), "Ana", []interface{}{"a"}, nil}, res.Rows[0])
	require.Equal(t, []interface{}{int64(2), nil, nil, 3.5}, res.Rows[1])

	writeFile(t, fs, "/wrapped.json", `{"data": {"rows": [{"v": true}, {"v": false}]}}`)
	res, err = JSON(context.Background(), fs, "/wrapped.json", JSONOptions{Path: "data.rows"})
	require.Nil(t, err)
	require.Equal(t, [][]interface{}{{true}, {false}}, res.Rows)

	writeFile(t, fs, "/mixed.json", `[{"v": 1}, {"v": "one"}]`)
	res, err = JSON(context.Background(), fs, "/mixed.json", JSONOptions{})
	require.Nil(t, err)
	require.Equal(t, [][]interface{}{{"1"}, {"one"}}, res.Rows)

	writeFile(t, fs, "/broken.json", `[{"v": 1}`)
	_, err = JSON(context.Background(), fs, "/broken.json", JSONOptions{})
	require.NotNil(t, err)
}

func TestJSONLines(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/events.jsonl", "{\"kind\": \"click\", \"n\": 1}\n\n{\"kind\": \"view\", \"n\": 2.5}\n")
	res, err := File(context.Background(), fs, "/events.jsonl", "", FileOptions{})
	require.Nil(t, err)
	require.Equal(t, []optimus.DataType{optimus.String, optimus.Decimal}, res.Schema.ColumnTypes())
	require.Equal(t, [][]interface{}{{"click", 1.0}, {"view", 2.5}}, res.Rows)
}

func TestParquet(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := schema.MustCreateSchema(
		optimus.ColumnDescriptor{Name: "id", Type: optimus.Int, Nullable: true},
		optimus.ColumnDescriptor{Name: "city", Type: optimus.String, Nullable: true},
	)
	for _, name := range []string{"/pq/a.parquet", "/pq/b.parquet"} {
		f, err := fs.Create(name)
		require.Nil(t, err)
		require.Nil(t, columnar.Write(f, s, [][]interface{}{{int64(len(name)), "Lima"}, {nil, nil}}))
		require.Nil(t, f.Close())
	}
	res, err := Parquet(context.Background(), fs, "/pq/*.parquet", ParquetOptions{})
	require.Nil(t, err)
	require.Equal(t, 4, res.NumRows())
	require.ElementsMatch(t, s.ColumnNames(), res.Schema.ColumnNames())
	require.Equal(t, int64(13), res.Rows[0][res.Schema.Index("id")])
	require.Equal(t, "Lima", res.Rows[0][res.Schema.Index("city")])
	require.Nil(t, res.Rows[1][res.Schema.Index("city")])

	res, err = Parquet(context.Background(), fs, "/pq/a.parquet", ParquetOptions{Columns: []string{"city"}})
	require.Nil(t, err)
	require.Equal(t, [][]interface{}{{"Lima"}, {nil}}, res.Rows)

	_, err = Parquet(context.Background(), fs, "/pq/a.parquet", ParquetOptions{Columns: []string{"zip"}})
	require.NotNil(t, err)
}

func TestZIP(t *testing.T) {
	fs := afero.NewMemMapFs()
	f, err := fs.Create("/archive.zip")
	require.Nil(t, err)
	zw := zip.NewWriter(f)
	for name, content := range map[string]string{"first.csv": "a\n1\n", "second.csv": "a\n2\n", "notes.md": "hi"} {
		w, err := zw.Create(name)
		require.Nil(t, err)
		_, err = io.WriteString(w, content)
		require.Nil(t, err)
	}
	require.Nil(t, zw.Close())
	require.Nil(t, f.Close())

	res, err := File(context.Background(), fs, "/archive.zip", "", FileOptions{Member: "*.csv"})
	require.Nil(t, err)
	require.Equal(t, [][]interface{}{{int64(1)}, {int64(2)}}, res.Rows)
	name, _ := meta.Get(res.Meta, "name")
	require.Equal(t, "archive.zip", name)

	_, err = ZIP(context.Background(), fs, "/archive.zip", "*.parquet", "", FileOptions{})
	require.True(t, os.IsNotExist(err))
}

func TestUnsupportedFormats(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, name := range []string{"/a.avro", "/a.xlsx", "/a.orc", "/a.bin"} {
		_, err := File(context.Background(), fs, name, "", FileOptions{})
		require.IsType(t, errors.UnsupportedOperationError{}, err)
	}
}

// an in-memory database/sql driver serving a single fixed result set
type fakeDriver struct{}

type fakeConn struct{}

type fakeRows struct {
	cursor int
}

var fakeColumns = []struct {
	name   string
	dbType string
}{
	{"id", "BIGINT"},
	{"price", "DECIMAL"},
	{"label", "VARCHAR"},
}

var fakeData = [][]driver.Value{
	{int64(1), []byte("9.50"), []byte("tea")},
	{int64(2), nil, "coffee"},
}

func (fakeDriver) Open(string) (driver.Conn, error) { return fakeConn{}, nil }

func (fakeConn) Prepare(string) (driver.Stmt, error) { return nil, driver.ErrSkip }
func (fakeConn) Close() error                        { return nil }
func (fakeConn) Begin() (driver.Tx, error)           { return nil, driver.ErrSkip }
func (fakeConn) QueryContext(context.Context, string, []driver.NamedValue) (driver.Rows, error) {
	return &fakeRows{}, nil
}

func (r *fakeRows) Columns() []string {
	res := make([]string, len(fakeColumns))
	for i, c := range fakeColumns {
		res[i] = c.name
	}
	return res
}
func (r *fakeRows) Close() error { return nil }
func (r *fakeRows) Next(dest []driver.Value) error {
	if r.cursor >= len(fakeData) {
		return io.EOF
	}
	copy(dest, fakeData[r.cursor])
	r.cursor++
	return nil
}
func (r *fakeRows) ColumnTypeDatabaseTypeName(i int) string { return fakeColumns[i].dbType }

func init() {
	sql.Register("optimus-fake", fakeDriver{})
}

func TestSQL(t *testing.T) {
	db, err := sql.Open("optimus-fake", "")
	require.Nil(t, err)
	defer db.Close()
	res, err := SQL(context.Background(), db, "SELECT id, price, label FROM products")
	require.Nil(t, err)
	require.Equal(t, []optimus.DataType{optimus.Int, optimus.Decimal, optimus.String}, res.Schema.ColumnTypes())
	require.Equal(t, [][]interface{}{
		{int64(1), 9.5, "tea"},
		{int64(2), nil, "coffee"},
	}, res.Rows)
}
