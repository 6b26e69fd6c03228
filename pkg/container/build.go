package container

import (
	"archive/tar"
	"bytes"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/mkp/pkg/errors"
	"github.com/arthur-debert/mkp/pkg/filesystem"
	"github.com/arthur-debert/mkp/pkg/logging"
	"github.com/arthur-debert/mkp/pkg/metadata"
	"github.com/arthur-debert/mkp/pkg/types"
	"github.com/klauspost/compress/gzip"
)

// BuildOptions controls how Build reads sources and writes the container
type BuildOptions struct {
	// FS reads the source tree; nil means the OS filesystem
	FS types.FS
	// Compress gzips the outer archive
	Compress bool
	// ModTime stamps the entries Build synthesizes (info and the category
	// archives). Zero means the Unix epoch.
	ModTime time.Time
}

func (o BuildOptions) withDefaults() BuildOptions {
	if o.FS == nil {
		o.FS = filesystem.NewOS()
	}
	if o.ModTime.IsZero() {
		o.ModTime = time.Unix(0, 0)
	}
	return o
}

// Build writes a container holding info and, for every category of the
// manifest in info["files"] with at least one path, a <category>.tar
// archive of those files read from sourceDir/<category>/.
func Build(info metadata.Info, sourceDir string, opts BuildOptions) (data []byte, err error) {
	logger := logging.GetLogger("container.build")
	done := logging.LogOperationStart(logger, "build")
	defer done()

	opts = opts.withDefaults()

	manifest, err := info.Files()
	if err != nil {
		return nil, err
	}
	encoded, err := metadata.Encode(info)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := newArchiveWriter(&buf, opts.Compress)
	defer func() {
		if closeErr := w.Close(); closeErr != nil && err == nil {
			err = errors.Wrap(closeErr, errors.ErrInternal, "cannot finish container")
		}
		if err != nil {
			data = nil
			return
		}
		data = buf.Bytes()
	}()

	if err = w.add(InfoEntry, encoded, 0644, opts.ModTime); err != nil {
		return nil, err
	}

	for _, name := range manifest.Categories() {
		if !validCategoryName(name) {
			return nil, errors.Newf(errors.ErrInvalidInput, "invalid category name %q", name).
				WithDetail("category", name)
		}

		inner, buildErr := buildCategory(opts.FS, filepath.Join(sourceDir, name), manifest[name])
		if buildErr != nil {
			if mkpErr, ok := buildErr.(*errors.MkpError); ok {
				return nil, mkpErr.WithDetail("category", name)
			}
			return nil, buildErr
		}
		if err = w.add(name+".tar", inner, 0644, opts.ModTime); err != nil {
			return nil, err
		}
		logger.Debug().Str("category", name).Int("files", len(manifest[name])).Int("bytes", len(inner)).
			Msg("Added category archive")
	}

	logger.Info().Str("source", sourceDir).Int("categories", len(manifest.Categories())).
		Bool("compressed", opts.Compress).Msg("Built container")
	// data is taken from buf once the writers are closed
	return nil, nil
}

// buildCategory tars the listed files of one category directory
func buildCategory(fsys types.FS, dir string, paths []string) (data []byte, err error) {
	var buf bytes.Buffer
	w := newArchiveWriter(&buf, false)
	defer func() {
		if closeErr := w.Close(); closeErr != nil && err == nil {
			err = errors.Wrap(closeErr, errors.ErrInternal, "cannot finish category archive")
		}
		if err == nil {
			data = buf.Bytes()
		}
	}()

	seen := make(map[string]bool, len(paths))
	for _, listed := range paths {
		rel, ok := cleanRelPath(listed)
		if !ok {
			return nil, errors.Newf(errors.ErrManifestMismatch, "listed path %q is not relative to the category", listed).
				WithPath(listed)
		}
		if seen[rel] {
			continue
		}
		seen[rel] = true

		full := filepath.Join(dir, filepath.FromSlash(rel))
		content, info, readErr := readListedFile(fsys, full)
		if readErr != nil {
			return nil, readErr
		}
		if err = w.add(rel, content, int64(info.Mode().Perm()), info.ModTime()); err != nil {
			return nil, err
		}
	}
	return nil, nil // set by the deferred close
}

func readListedFile(fsys types.FS, full string) ([]byte, fs.FileInfo, error) {
	info, err := fsys.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.Wrap(err, errors.ErrManifestMismatch, "listed file does not exist").WithPath(full)
		}
		return nil, nil, errors.Wrap(err, errors.ErrFilesystem, "cannot access listed file").WithPath(full)
	}
	if !info.Mode().IsRegular() {
		return nil, nil, errors.New(errors.ErrManifestMismatch, "listed path is not a regular file").WithPath(full)
	}

	content, err := fsys.ReadFile(full)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrFilesystem, "cannot read listed file").WithPath(full)
	}
	return content, info, nil
}

// cleanRelPath normalizes a manifest path and rejects anything that would
// leave the category directory.
func cleanRelPath(p string) (string, bool) {
	if p == "" || strings.HasPrefix(p, "/") || filepath.IsAbs(p) || strings.Contains(p, "\\") {
		return "", false
	}
	clean := path.Clean(p)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", false
	}
	return clean, true
}

// validCategoryName accepts a single plain path component
func validCategoryName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, "/\\")
}

// archiveWriter is a tar writer, optionally gzipped, closed in one call
type archiveWriter struct {
	tw *tar.Writer
	zw *gzip.Writer
}

func newArchiveWriter(dst io.Writer, compress bool) *archiveWriter {
	w := &archiveWriter{}
	if compress {
		w.zw = gzip.NewWriter(dst)
		dst = w.zw
	}
	w.tw = tar.NewWriter(dst)
	return w
}

func (w *archiveWriter) add(name string, content []byte, mode int64, modTime time.Time) error {
	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Mode:     mode,
		Size:     int64(len(content)),
		ModTime:  modTime.Truncate(time.Second),
	}
	if err := w.tw.WriteHeader(hdr); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "cannot write header for %s", name)
	}
	if _, err := w.tw.Write(content); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "cannot write %s", name)
	}
	return nil
}

func (w *archiveWriter) Close() error {
	err := w.tw.Close()
	if w.zw != nil {
		if zerr := w.zw.Close(); zerr != nil && err == nil {
			err = zerr
		}
	}
	return err
}
