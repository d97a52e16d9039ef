package load

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"
)

// ZIP extracts the archive members matching a glob into memory and reads them as a single
// File of the given inner Format. Every member is read when member is empty.
func ZIP(ctx context.Context, fs afero.Fs, name string, member string, inner Format, opts FileOptions) (Records, error) {
	f, err := fs.Open(name)
	if err != nil {
		return Records{}, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return Records{}, err
	}
	archive, err := zip.NewReader(f, info.Size())
	if err != nil {
		return Records{}, fmt.Errorf("%s: %w", name, err)
	}

	if len(member) == 0 {
		member = "*"
	}
	pattern := "/" + member
	mem := afero.NewMemMapFs()
	extracted := 0
	for _, entry := range archive.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		target := "/" + entry.Name
		if ok, err := path.Match(pattern, target); err != nil {
			return Records{}, err
		} else if !ok {
			continue
		}
		if len(inner) == 0 {
			inner, _ = FormatFor(entry.Name)
		}
		if err := extract(mem, entry, target); err != nil {
			return Records{}, err
		}
		extracted++
	}
	if extracted == 0 {
		return Records{}, &os.PathError{Op: "open", Path: name + "!" + member, Err: os.ErrNotExist}
	}
	if inner == FormatZIP {
		return Records{}, fmt.Errorf("%s: nested archives are not supported", name)
	}

	opts.CSV.Conn, opts.JSON.Conn, opts.Parquet.Conn = nil, nil, nil
	res, err := File(ctx, mem, pattern, inner, opts)
	if err != nil {
		return Records{}, err
	}
	res.Meta = fileMeta(name)
	return res, nil
}

func extract(fs afero.Fs, entry *zip.File, target string) error {
	r, err := entry.Open()
	if err != nil {
		return err
	}
	defer r.Close()
	if err := fs.MkdirAll(path.Dir(target), 0755); err != nil {
		return err
	}
	w, err := fs.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
