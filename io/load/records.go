// Package load reads files and databases into engine-neutral Records
package load

import (
	"fmt"
	"os"
	"path"
	"sort"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/io/connect"
	"github.com/go-sif/optimus/meta"
	"github.com/spf13/afero"
)

// Records are rows read from a source, ready to be handed to an Adapter
type Records struct {
	Schema optimus.Schema
	Rows   [][]interface{}
	Meta   meta.Meta
}

// NumRows returns the number of rows read
func (r Records) NumRows() int {
	return len(r.Rows)
}

func fileMeta(file string) meta.Meta {
	return meta.Merge(meta.New(), map[string]interface{}{
		"file_name": file,
		"name":      path.Base(file),
	})
}

// resolve applies an optional Connection to fs and p
func resolve(fs afero.Fs, p string, conn *connect.Connection) (afero.Fs, string) {
	if conn == nil {
		return fs, p
	}
	return conn.Fs(), conn.Path(p)
}

// expand returns the files matching a glob pattern, in lexical order
func expand(fs afero.Fs, pattern string) ([]string, error) {
	matches, err := afero.Glob(fs, pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid path pattern %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, &os.PathError{Op: "open", Path: pattern, Err: os.ErrNotExist}
	}
	sort.Strings(matches)
	return matches, nil
}
