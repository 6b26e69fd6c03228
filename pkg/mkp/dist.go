package mkp

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/mkp/pkg/discovery"
	"github.com/arthur-debert/mkp/pkg/errors"
	"github.com/arthur-debert/mkp/pkg/logging"
	"github.com/arthur-debert/mkp/pkg/metadata"
	"github.com/arthur-debert/mkp/pkg/schema"
)

// DefaultDistDir is the output directory Dist uses, relative to the source
const DefaultDistDir = "dist"

// DistOptions controls Dist
type DistOptions struct {
	// SourceDir holds the category directories; empty means "."
	SourceDir string
	// OutputDir receives the package; empty means <SourceDir>/dist
	OutputDir string
	// SkipValidation writes the package even if info fails the dist schema
	SkipValidation bool
	Pack           PackOptions
}

// DistFileName is the file name Dist gives a package: <name>-<version>.mkp
func DistFileName(info metadata.Info) string {
	return fmt.Sprintf("%s-%s.mkp", info.Name(), info.Version())
}

// Dist discovers every packable file under the source directory, records
// them in a copy of info, and writes <name>-<version>.mkp to the output
// directory. It returns the path written.
func Dist(info metadata.Info, opts DistOptions) (string, error) {
	logger := logging.GetLogger("mkp.dist")
	done := logging.LogOperationStart(logger, "dist")
	defer done()

	source := opts.SourceDir
	if source == "" {
		source = "."
	}
	outDir := opts.OutputDir
	if outDir == "" {
		outDir = filepath.Join(source, DefaultDistDir)
	}

	manifest, err := discovery.FindFilesFS(source, opts.Pack.fs())
	if err != nil {
		return "", err
	}

	out := info.Clone()
	out.SetFiles(manifest)

	if opts.SkipValidation {
		logger.Debug().Msg("Skipping dist schema validation")
	} else if err := schema.ValidateDist(out); err != nil {
		return "", err
	}
	if out.Name() == "" || out.Version() == "" {
		return "", errors.New(errors.ErrInvalidInput, "name and version are needed to name the package file")
	}

	dest := filepath.Join(outDir, DistFileName(out))
	if err := PackToFileWithOptions(out, source, dest, opts.Pack); err != nil {
		return "", err
	}

	logger.Info().Str("path", dest).Int("files", manifest.NumFiles()).Msg("Built distributable package")
	return dest, nil
}
