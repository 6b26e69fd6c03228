package mkp

import (
	"path/filepath"
	"time"

	"github.com/arthur-debert/mkp/pkg/container"
	"github.com/arthur-debert/mkp/pkg/errors"
	"github.com/arthur-debert/mkp/pkg/filesystem"
	"github.com/arthur-debert/mkp/pkg/logging"
	"github.com/arthur-debert/mkp/pkg/metadata"
	"github.com/arthur-debert/mkp/pkg/types"
)

// PackOptions controls how packages are written
type PackOptions struct {
	// FS reads sources and writes package files; nil means the OS filesystem
	FS types.FS
	// Compress gzips the container
	Compress bool
	// ModTime stamps the info entry and category archives; zero means the
	// Unix epoch
	ModTime time.Time
}

// DefaultPackOptions are the options PackToBytes and PackToFile use
func DefaultPackOptions() PackOptions {
	return PackOptions{FS: filesystem.NewOS(), Compress: true}
}

func (o PackOptions) fs() types.FS {
	if o.FS == nil {
		return filesystem.NewOS()
	}
	return o.FS
}

// PackToBytes builds a package from info and the category directories under
// sourceDir. info["files"] decides which files are packed.
func PackToBytes(info metadata.Info, sourceDir string) ([]byte, error) {
	return PackToBytesWithOptions(info, sourceDir, DefaultPackOptions())
}

// PackToBytesWithOptions is PackToBytes with explicit options
func PackToBytesWithOptions(info metadata.Info, sourceDir string, opts PackOptions) ([]byte, error) {
	return container.Build(info, sourceDir, container.BuildOptions{
		FS:       opts.fs(),
		Compress: opts.Compress,
		ModTime:  opts.ModTime,
	})
}

// PackToFile builds a package and writes it to destPath, replacing any
// existing file
func PackToFile(info metadata.Info, sourceDir, destPath string) error {
	return PackToFileWithOptions(info, sourceDir, destPath, DefaultPackOptions())
}

// PackToFileWithOptions is PackToFile with explicit options
func PackToFileWithOptions(info metadata.Info, sourceDir, destPath string, opts PackOptions) error {
	logger := logging.GetLogger("mkp.pack")

	data, err := PackToBytesWithOptions(info, sourceDir, opts)
	if err != nil {
		return err
	}

	fsys := opts.fs()
	if dir := filepath.Dir(destPath); dir != "" {
		if err := fsys.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(err, errors.ErrFilesystem, "cannot create output directory").WithPath(dir)
		}
	}
	if err := fsys.WriteFile(destPath, data, 0644); err != nil {
		return errors.Wrap(err, errors.ErrFilesystem, "cannot write package file").WithPath(destPath)
	}

	logger.Info().Str("path", destPath).Int("bytes", len(data)).Msg("Wrote package")
	return nil
}
