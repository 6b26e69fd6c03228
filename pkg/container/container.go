package container

import (
	"archive/tar"
	"bytes"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/arthur-debert/mkp/pkg/category"
	"github.com/arthur-debert/mkp/pkg/errors"
	"github.com/arthur-debert/mkp/pkg/logging"
	"github.com/arthur-debert/mkp/pkg/metadata"
	"github.com/klauspost/compress/gzip"
)

// InfoEntry is the name of the metadata entry, always first in a container
const InfoEntry = "info"

// maxInfoSize bounds how much of the info entry is read
const maxInfoSize = 16 << 20

// Container is a parsed package container. Category archives are kept as
// raw bytes and only read when asked for.
type Container struct {
	Info     metadata.Info
	archives map[string]*Archive
}

// Parse reads a container, gzip compressed or plain
func Parse(data []byte) (c *Container, err error) {
	logger := logging.GetLogger("container.parse")

	var r io.Reader = bytes.NewReader(data)
	if isGzip(data) {
		zr, zerr := gzip.NewReader(r)
		if zerr != nil {
			return nil, errors.Wrap(zerr, errors.ErrFormat, "unreadable gzip stream")
		}
		defer func() {
			if closeErr := zr.Close(); closeErr != nil && err == nil {
				c, err = nil, errors.Wrap(closeErr, errors.ErrFormat, "corrupt gzip stream")
			}
		}()
		r = zr
	}

	c = &Container{archives: make(map[string]*Archive)}
	tr := tar.NewReader(r)
	for {
		hdr, nextErr := tr.Next()
		if nextErr == io.EOF {
			break
		}
		if nextErr != nil {
			return nil, errors.Wrap(nextErr, errors.ErrFormat, "unreadable container")
		}

		name := strings.TrimPrefix(hdr.Name, "./")
		if hdr.Typeflag != tar.TypeReg {
			logger.Trace().Str("entry", hdr.Name).Msg("Skipping non-file entry")
			continue
		}

		if name == InfoEntry {
			if c.Info != nil {
				return nil, errors.New(errors.ErrFormat, "container has more than one info entry")
			}
			if c.Info, err = readInfo(tr); err != nil {
				return nil, err
			}
			continue
		}

		catName, ok := category.FromArchiveName(name)
		if !ok || strings.Contains(catName, "/") {
			logger.Debug().Str("entry", hdr.Name).Msg("Ignoring unknown container entry")
			continue
		}
		if _, dup := c.archives[catName]; dup {
			return nil, errors.Newf(errors.ErrFormat, "container has more than one %s entry", name).
				WithDetail("category", catName)
		}

		body, readErr := io.ReadAll(tr)
		if readErr != nil {
			return nil, errors.Wrapf(readErr, errors.ErrFormat, "cannot read %s", name)
		}
		c.archives[catName] = &Archive{Category: catName, data: body}
		logger.Trace().Str("category", catName).Int("bytes", len(body)).Msg("Found category archive")
	}

	if c.Info == nil {
		return nil, errors.New(errors.ErrFormat, "container has no info entry")
	}

	logger.Debug().Int("categories", len(c.archives)).Str("title", c.Info.Title()).Msg("Parsed container")
	return c, nil
}

func readInfo(r io.Reader) (metadata.Info, error) {
	body, err := io.ReadAll(io.LimitReader(r, maxInfoSize+1))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFormat, "cannot read info entry")
	}
	if len(body) > maxInfoSize {
		return nil, errors.Newf(errors.ErrFormat, "info entry larger than %d bytes", maxInfoSize)
	}
	return metadata.Decode(body)
}

func isGzip(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b
}

// Categories returns the names of the category archives present, known
// categories first.
func (c *Container) Categories() []string {
	names := make([]string, 0, len(c.archives))
	for name := range c.archives {
		names = append(names, name)
	}
	return category.Order(names)
}

// Archive returns the archive of one category
func (c *Container) Archive(name string) (*Archive, bool) {
	a, ok := c.archives[name]
	return a, ok
}

// Manifest lists the files actually stored in the category archives
func (c *Container) Manifest() (metadata.Manifest, error) {
	m := make(metadata.Manifest, len(c.archives))
	for name, a := range c.archives {
		files, err := a.Files()
		if err != nil {
			return nil, err
		}
		m[name] = files
	}
	return m, nil
}

// Verify compares the manifest in Info with the archive contents and
// reports every path present on only one side.
func (c *Container) Verify() error {
	listed, err := c.Info.Files()
	if err != nil {
		return err
	}
	stored, err := c.Manifest()
	if err != nil {
		return err
	}

	var missing, unlisted []string
	for name, paths := range listed {
		have := toSet(stored[name])
		for _, p := range paths {
			if !have[path.Clean(p)] {
				missing = append(missing, name+"/"+p)
			}
		}
	}
	for name, paths := range stored {
		want := make(map[string]bool)
		for _, p := range listed[name] {
			want[path.Clean(p)] = true
		}
		for _, p := range paths {
			if !want[p] {
				unlisted = append(unlisted, name+"/"+p)
			}
		}
	}
	if len(missing) == 0 && len(unlisted) == 0 {
		return nil
	}

	sort.Strings(missing)
	sort.Strings(unlisted)
	return errors.Newf(errors.ErrManifestMismatch,
		"manifest and archives disagree: %d listed but not stored, %d stored but not listed",
		len(missing), len(unlisted)).
		WithDetail("missing", missing).
		WithDetail("unlisted", unlisted)
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
