// Package compress infers stream compression from file extensions
package compress

import (
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
)

// Codec names a supported compression algorithm
type Codec string

const (
	// None leaves streams untouched
	None Codec = ""
	// LZ4 is the lz4 frame format, selected by the .lz4 extension
	LZ4 Codec = "lz4"
	// Zstd is the zstandard format, selected by the .zst and .zstd extensions
	Zstd Codec = "zstd"
)

// CodecFor returns the Codec implied by a file name
func CodecFor(name string) Codec {
	switch strings.ToLower(path.Ext(name)) {
	case ".lz4":
		return LZ4
	case ".zst", ".zstd":
		return Zstd
	default:
		return None
	}
}

// Trim removes a compression extension from a file name, exposing its format extension
func Trim(name string) string {
	if CodecFor(name) == None {
		return name
	}
	return strings.TrimSuffix(name, path.Ext(name))
}

type readCloser struct {
	io.Reader
	close func()
}

func (r *readCloser) Close() error {
	if r.close != nil {
		r.close()
	}
	return nil
}

// NewReader wraps r with a decompressor chosen by the extension of name
func NewReader(name string, r io.Reader) (io.ReadCloser, error) {
	switch CodecFor(name) {
	case LZ4:
		return &readCloser{Reader: lz4.NewReader(r)}, nil
	case Zstd:
		decompressor, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return &readCloser{Reader: decompressor, close: decompressor.Close}, nil
	default:
		return &readCloser{Reader: r}, nil
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// NewWriter wraps w with a compressor chosen by the extension of name. Closing the result
// flushes the compressor but does not close w.
func NewWriter(name string, w io.Writer) (io.WriteCloser, error) {
	switch CodecFor(name) {
	case LZ4:
		return lz4.NewWriter(w), nil
	case Zstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	default:
		return nopWriteCloser{w}, nil
	}
}
