package mkp

import (
	"archive/tar"
	"io"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/mkp/pkg/container"
	"github.com/arthur-debert/mkp/pkg/errors"
	"github.com/arthur-debert/mkp/pkg/filesystem"
	"github.com/arthur-debert/mkp/pkg/logging"
	"github.com/arthur-debert/mkp/pkg/metadata"
	"github.com/arthur-debert/mkp/pkg/types"
)

// Package is a parsed package: its metadata and the category archives it
// carries. Files are only read from the archives on demand.
type Package struct {
	container *container.Container
	fs        types.FS
}

// LoadBytes parses a package held in memory
func LoadBytes(data []byte) (*Package, error) {
	return LoadBytesFS(data, filesystem.NewOS())
}

// LoadBytesFS parses a package held in memory; ExtractFiles writes through fsys
func LoadBytesFS(data []byte, fsys types.FS) (*Package, error) {
	c, err := container.Parse(data)
	if err != nil {
		return nil, err
	}
	return &Package{container: c, fs: fsys}, nil
}

// LoadFile reads and parses a package file
func LoadFile(path string) (*Package, error) {
	return LoadFileFS(path, filesystem.NewOS())
}

// LoadFileFS reads and parses a package file through fsys
func LoadFileFS(path string, fsys types.FS) (*Package, error) {
	logger := logging.GetLogger("mkp")
	logger.Debug().Str("path", path).Msg("Loading package file")

	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFilesystem, "cannot read package file").WithPath(path)
	}

	pkg, err := LoadBytesFS(data, fsys)
	if err != nil {
		if mkpErr, ok := err.(*errors.MkpError); ok {
			return nil, mkpErr.WithPath(path)
		}
		return nil, err
	}
	return pkg, nil
}

// Info returns a copy of the package metadata
func (p *Package) Info() metadata.Info {
	return p.container.Info.Clone()
}

// Categories lists the categories with an archive in the package
func (p *Package) Categories() []string {
	return p.container.Categories()
}

// Archive returns the raw archive of one category
func (p *Package) Archive(name string) (*container.Archive, bool) {
	return p.container.Archive(name)
}

// Files lists what the archives actually hold, which may differ from the
// manifest in Info()["files"].
func (p *Package) Files() (metadata.Manifest, error) {
	return p.container.Manifest()
}

// Verify reports paths on which the manifest and the archives disagree
func (p *Package) Verify() error {
	return p.container.Verify()
}

// ExtractFiles writes every file of every category archive to
// destDir/<category>/<path>. Directories are created as needed and existing
// files are overwritten. The archives decide what is written, not the
// manifest. A failure leaves whatever was already written in place.
func (p *Package) ExtractFiles(destDir string) error {
	logger := logging.GetLogger("mkp.extract")
	done := logging.LogOperationStart(logger, "extract_files")
	defer done()

	total := 0
	for _, name := range p.container.Categories() {
		if !simpleName(name) {
			return errors.Newf(errors.ErrFormat, "category archive name %q is not a plain directory name", name).
				WithDetail("category", name)
		}
		archive, _ := p.container.Archive(name)

		n, err := p.extractArchive(archive, filepath.Join(destDir, name))
		if err != nil {
			return err
		}
		total += n
		logger.Debug().Str("category", name).Int("files", n).Msg("Extracted category")
	}

	logger.Info().Str("dest", destDir).Int("files", total).Msg("Extracted package")
	return nil
}

func (p *Package) extractArchive(archive *container.Archive, root string) (int, error) {
	logger := logging.GetLogger("mkp.extract")
	written := 0

	err := archive.Walk(func(hdr *tar.Header, r io.Reader) error {
		rel := container.EntryPath(hdr.Name)
		if rel == "." {
			return nil
		}
		if escapes(rel) {
			return errors.Newf(errors.ErrFormat, "archive entry %q escapes the category directory", hdr.Name).
				WithDetail("category", archive.Category).
				WithDetail("entry", hdr.Name)
		}
		target := filepath.Join(root, filepath.FromSlash(rel))

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := p.fs.MkdirAll(target, 0755); err != nil {
				return errors.Wrap(err, errors.ErrFilesystem, "cannot create directory").WithPath(target)
			}
		case tar.TypeReg:
			if err := p.writeFile(target, hdr, r); err != nil {
				return err
			}
			written++
		default:
			logger.Warn().Str("entry", hdr.Name).Str("category", archive.Category).
				Msg("Skipping archive entry that is not a file or directory")
		}
		return nil
	})
	return written, err
}

func (p *Package) writeFile(target string, hdr *tar.Header, r io.Reader) error {
	parent := filepath.Dir(target)
	if err := p.fs.MkdirAll(parent, 0755); err != nil {
		return errors.Wrap(err, errors.ErrFilesystem, "cannot create directory").WithPath(parent)
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFormat, "cannot read archive entry %s", hdr.Name)
	}

	perm := hdr.FileInfo().Mode().Perm()
	if perm == 0 {
		perm = 0644
	}
	if err := p.fs.WriteFile(target, content, perm); err != nil {
		return errors.Wrap(err, errors.ErrFilesystem, "cannot write file").WithPath(target)
	}
	return nil
}

func escapes(rel string) bool {
	return strings.HasPrefix(rel, "/") || filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, "../")
}

func simpleName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, "/\\")
}
