package container

import (
	"archive/tar"
	"bytes"
	"io"
	"path"
	"sort"

	"github.com/arthur-debert/mkp/pkg/errors"
)

// Archive is the plain tar of one category's files
type Archive struct {
	Category string
	data     []byte
}

// Open returns a reader positioned before the first entry. Each call starts
// over.
func (a *Archive) Open() *tar.Reader {
	return tar.NewReader(bytes.NewReader(a.data))
}

// Size is the length of the raw archive in bytes
func (a *Archive) Size() int {
	return len(a.data)
}

// Bytes returns a copy of the raw archive
func (a *Archive) Bytes() []byte {
	return append([]byte(nil), a.data...)
}

// WalkFunc receives each archive entry with a reader over its contents
type WalkFunc func(hdr *tar.Header, r io.Reader) error

// Walk calls fn for each entry in archive order and stops at the first error
func (a *Archive) Walk(fn WalkFunc) error {
	tr := a.Open()
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, errors.ErrFormat, "unreadable %s archive", a.Category).
				WithDetail("category", a.Category)
		}
		if err := fn(hdr, tr); err != nil {
			return err
		}
	}
}

// Files lists the regular files in the archive, cleaned and sorted
func (a *Archive) Files() ([]string, error) {
	files := []string{}
	err := a.Walk(func(hdr *tar.Header, _ io.Reader) error {
		if hdr.Typeflag == tar.TypeReg {
			files = append(files, EntryPath(hdr.Name))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// EntryPath cleans an entry name. Names that climb out of the archive
// root keep their leading "..", so callers can still reject them.
func EntryPath(name string) string {
	return path.Clean(name)
}
