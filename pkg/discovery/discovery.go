package discovery

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/mkp/pkg/category"
	"github.com/arthur-debert/mkp/pkg/errors"
	"github.com/arthur-debert/mkp/pkg/filesystem"
	"github.com/arthur-debert/mkp/pkg/logging"
	"github.com/arthur-debert/mkp/pkg/metadata"
	"github.com/arthur-debert/mkp/pkg/types"
)

// FindFiles lists the packable files of every known category under rootDir
func FindFiles(rootDir string) (metadata.Manifest, error) {
	return FindFilesFS(rootDir, filesystem.NewOS())
}

// FindFilesFS lists the packable files of every known category under
// rootDir. Every known category is present in the result; a category with
// no directory maps to an empty list.
func FindFilesFS(rootDir string, fsys types.FS) (metadata.Manifest, error) {
	logger := logging.GetLogger("discovery")
	done := logging.LogOperationStart(logger, "find_files")
	defer done()

	manifest := make(metadata.Manifest, len(category.All()))
	for _, c := range category.All() {
		files, err := findCategoryFiles(fsys, filepath.Join(rootDir, c.String()))
		if err != nil {
			return nil, err
		}
		manifest[c.String()] = files
		logger.Trace().Str("category", c.String()).Int("count", len(files)).Msg("Scanned category")
	}

	logger.Debug().Str("root", rootDir).Int("files", manifest.NumFiles()).Msg("Discovered files")
	return manifest, nil
}

// Ignored reports whether a single path component is excluded from packages:
// hidden names and editor backups.
func Ignored(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~")
}

func findCategoryFiles(fsys types.FS, categoryDir string) ([]string, error) {
	info, err := fsys.Stat(categoryDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, errors.Wrap(err, errors.ErrFilesystem, "cannot access category directory").
			WithPath(categoryDir)
	}
	if !info.IsDir() {
		return []string{}, nil
	}

	files := []string{}
	if err := walk(fsys, categoryDir, "", &files); err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// walk appends the slash-separated path of every regular file below dir
func walk(fsys types.FS, dir, rel string, files *[]string) error {
	logger := logging.GetLogger("discovery")

	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return errors.Wrap(err, errors.ErrFilesystem, "cannot read directory").WithPath(dir)
	}

	for _, entry := range entries {
		name := entry.Name()
		if Ignored(name) {
			logger.Trace().Str("name", name).Str("dir", dir).Msg("Skipping ignored entry")
			continue
		}

		full := filepath.Join(dir, name)
		relPath := path.Join(rel, name)

		mode := entry.Type()
		if mode&fs.ModeSymlink != 0 {
			// Links count only when they resolve to a regular file
			target, err := fsys.Stat(full)
			if err != nil || !target.Mode().IsRegular() {
				logger.Trace().Str("path", full).Msg("Skipping symlink that is not a regular file")
				continue
			}
			*files = append(*files, relPath)
			continue
		}

		switch {
		case mode.IsDir():
			if err := walk(fsys, full, relPath, files); err != nil {
				return err
			}
		case mode.IsRegular():
			*files = append(*files, relPath)
		default:
			logger.Trace().Str("path", full).Str("mode", mode.String()).Msg("Skipping special file")
		}
	}
	return nil
}
