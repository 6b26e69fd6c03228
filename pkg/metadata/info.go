package metadata

import (
	"fmt"
	"sort"

	"github.com/arthur-debert/mkp/pkg/category"
	"github.com/arthur-debert/mkp/pkg/errors"
	"github.com/arthur-debert/mkp/pkg/pyliteral"
)

// PackagedBy is the provenance tag written to version.packaged
const PackagedBy = "go-mkp"

// Well-known metadata keys
const (
	KeyTitle       = "title"
	KeyName        = "name"
	KeyVersion     = "version"
	KeyPackaged    = "version.packaged"
	KeyMinRequired = "version.min_required"
	KeyUsableUntil = "version.usable_until"
	KeyAuthor      = "author"
	KeyDescription = "description"
	KeyDownloadURL = "download_url"
	KeyFiles       = "files"
	KeyNumFiles    = "num_files"
)

// Info is the package metadata record. Keys mkp does not know about are
// kept as they are.
type Info map[string]any

// GetString returns the value under key if it is a string
func (i Info) GetString(key string) (string, bool) {
	s, ok := i[key].(string)
	return s, ok
}

func (i Info) Title() string {
	s, _ := i.GetString(KeyTitle)
	return s
}

func (i Info) Name() string {
	s, _ := i.GetString(KeyName)
	return s
}

func (i Info) Version() string {
	s, _ := i.GetString(KeyVersion)
	return s
}

// Clone returns a deep copy of the dicts, lists and tuples in i
func (i Info) Clone() Info {
	if i == nil {
		return Info{}
	}
	return Info(deepCopy(map[string]any(i)).(map[string]any))
}

func deepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = deepCopy(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for idx, item := range val {
			out[idx] = deepCopy(item)
		}
		return out
	case pyliteral.Tuple:
		out := make(pyliteral.Tuple, len(val))
		for idx, item := range val {
			out[idx] = deepCopy(item)
		}
		return out
	case []string:
		return append([]string(nil), val...)
	case map[string][]string:
		out := make(map[string][]string, len(val))
		for k, item := range val {
			out[k] = append([]string(nil), item...)
		}
		return out
	case Manifest:
		return val.Clone()
	default:
		return v
	}
}

// Files returns the manifest stored under "files". A missing entry is an
// empty manifest.
func (i Info) Files() (Manifest, error) {
	raw, ok := i[KeyFiles]
	if !ok || raw == nil {
		return Manifest{}, nil
	}

	switch files := raw.(type) {
	case Manifest:
		return files.Clone(), nil
	case map[string][]string:
		return Manifest(files).Clone(), nil
	case map[string]any:
		m := make(Manifest, len(files))
		for name, list := range files {
			paths, err := stringList(list)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrInvalidInput, "files entry %q", name).
					WithDetail("category", name)
			}
			m[name] = paths
		}
		return m, nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "files must be a dict of lists, got %T", raw)
	}
}

func stringList(v any) ([]string, error) {
	switch list := v.(type) {
	case nil:
		return []string{}, nil
	case []string:
		return append([]string{}, list...), nil
	case []any:
		return anyStrings(list)
	case pyliteral.Tuple:
		return anyStrings(list)
	default:
		return nil, fmt.Errorf("expected a list of paths, got %T", v)
	}
}

func anyStrings(items []any) ([]string, error) {
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("expected a path string, got %T", item)
		}
		out = append(out, s)
	}
	return out, nil
}

// SetFiles stores m under "files" and its size under "num_files", in the
// same shape Decode produces.
func (i Info) SetFiles(m Manifest) {
	files := make(map[string]any, len(m))
	for name, paths := range m {
		list := make([]any, len(paths))
		for idx, p := range paths {
			list[idx] = p
		}
		files[name] = list
	}
	i[KeyFiles] = files
	i[KeyNumFiles] = int64(m.NumFiles())
}

// Manifest maps a category name to paths relative to that category's
// directory, always with forward slashes.
type Manifest map[string][]string

// Categories returns the categories with at least one file, in container order
func (m Manifest) Categories() []string {
	var names []string
	for name, paths := range m {
		if len(paths) > 0 {
			names = append(names, name)
		}
	}
	return category.Order(names)
}

// NumFiles counts the paths across all categories
func (m Manifest) NumFiles() int {
	n := 0
	for _, paths := range m {
		n += len(paths)
	}
	return n
}

func (m Manifest) Clone() Manifest {
	out := make(Manifest, len(m))
	for name, paths := range m {
		out[name] = append([]string{}, paths...)
	}
	return out
}

// Sort orders every path list lexicographically
func (m Manifest) Sort() {
	for _, paths := range m {
		sort.Strings(paths)
	}
}
