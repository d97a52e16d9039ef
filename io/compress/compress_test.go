package compress

import (
	"bytes"
	"io/ioutil"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodecFor(t *testing.T) {
	require.Equal(t, LZ4, CodecFor("data.csv.lz4"))
	require.Equal(t, Zstd, CodecFor("data.json.ZST"))
	require.Equal(t, None, CodecFor("data.csv"))
	require.Equal(t, "data.csv", Trim("data.csv.zst"))
	require.Equal(t, "data.csv", Trim("data.csv"))
}

func TestRoundTrip(t *testing.T) {
	payload := []byte("name,price\nfoo,1\nbar,2\n")
	for _, name := range []string{"a.csv", "a.csv.lz4", "a.csv.zst"} {
		var buf bytes.Buffer
		w, err := NewWriter(name, &buf)
		require.Nil(t, err)
		_, err = w.Write(payload)
		require.Nil(t, err)
		require.Nil(t, w.Close())

		r, err := NewReader(name, &buf)
		require.Nil(t, err)
		res, err := ioutil.ReadAll(r)
		require.Nil(t, err)
		require.Nil(t, r.Close())
		require.Equal(t, payload, res, name)
	}
}
