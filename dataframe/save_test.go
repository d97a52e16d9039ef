package dataframe

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/go-sif/optimus/engines/pandas"
	"github.com/go-sif/optimus/io/columnar"
	"github.com/go-sif/optimus/io/compress"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, fs afero.Fs, path string) string {
	f, err := fs.Open(path)
	require.Nil(t, err)
	defer f.Close()
	r, err := compress.NewReader(path, f)
	require.Nil(t, err)
	defer r.Close()
	b, err := io.ReadAll(r)
	require.Nil(t, err)
	return string(b)
}

func TestSaveCSV(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	df := testDataFrame(t, pandas.New())
	require.Nil(t, df.Save().CSV(ctx, fs, "/out/people.csv.zst", CSVOptions{NullValue: "None"}))
	require.Equal(t, "name,age,born\n\"  Ana \",30,1990/05/17\nluis,10,2011/01/02\nNone,None,None\nmarta,20,2001/11/30\n",
		readAll(t, fs, "/out/people.csv.zst"))

	header := false
	require.Nil(t, df.Save().CSV(ctx, fs, "/out/people.tsv", CSVOptions{Sep: '\t', Header: &header}))
	require.Equal(t, "\"  Ana \"\t30\t1990/05/17\nluis\t10\t2011/01/02\n\t\t\nmarta\t20\t2001/11/30\n",
		readAll(t, fs, "/out/people.tsv"))
}

func TestSaveJSON(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	df := testDataFrame(t, pandas.New())
	limited, err := df.Rows().Limit(ctx, 2)
	require.Nil(t, err)

	require.Nil(t, limited.Save().JSON(ctx, fs, "/people.json", false))
	require.JSONEq(t, `[{"name":"  Ana ","age":30,"born":"1990/05/17"},{"name":"luis","age":10,"born":"2011/01/02"}]`,
		readAll(t, fs, "/people.json"))

	require.Nil(t, limited.Save().JSON(ctx, fs, "/people.jsonl.lz4", true))
	require.Equal(t, 2, bytes.Count([]byte(readAll(t, fs, "/people.jsonl.lz4")), []byte("\n")))
}

func TestSaveParquet(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	df := testDataFrame(t, pandas.New())
	require.Nil(t, df.Save().Parquet(ctx, fs, "/people.parquet"))

	b, err := afero.ReadFile(fs, "/people.parquet")
	require.Nil(t, err)
	s, rows, err := columnar.Read(bytes.NewReader(b), int64(len(b)))
	require.Nil(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, "luis", rows[1][s.Index("name")])
	require.Nil(t, rows[2][s.Index("age")])
}
