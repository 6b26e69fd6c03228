package testutil

import (
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"testing"

	"github.com/arthur-debert/mkp/pkg/filesystem"
	"github.com/arthur-debert/mkp/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// SourceTree is a package source directory: one subdirectory per category
type SourceTree struct {
	Root string
	FS   types.FS
}

// NewTestFS creates a new in-memory filesystem for testing.
func NewTestFS() types.FS {
	return filesystem.NewAferoFS(afero.NewMemMapFs())
}

// NewSourceTree creates an empty source tree under t.TempDir()
func NewSourceTree(t *testing.T) *SourceTree {
	t.Helper()
	return &SourceTree{Root: t.TempDir(), FS: filesystem.NewOS()}
}

// NewMemorySourceTree creates an empty source tree on an in-memory filesystem
func NewMemorySourceTree(t *testing.T) *SourceTree {
	t.Helper()

	fsys := NewTestFS()
	root := "/src"
	require.NoError(t, fsys.MkdirAll(root, 0755))
	return &SourceTree{Root: root, FS: fsys}
}

// Path joins slash-separated elements onto the tree root
func (st *SourceTree) Path(elems ...string) string {
	return filepath.Join(st.Root, filepath.FromSlash(path.Join(elems...)))
}

// AddFile writes content to <category>/<rel> and returns the full path
func (st *SourceTree) AddFile(t *testing.T, category, rel, content string) string {
	t.Helper()
	return st.AddFileMode(t, category, rel, content, 0644)
}

// AddFileMode is AddFile with explicit permission bits
func (st *SourceTree) AddFileMode(t *testing.T, category, rel, content string, perm fs.FileMode) string {
	t.Helper()

	full := st.Path(category, rel)
	require.NoError(t, st.FS.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, st.FS.WriteFile(full, []byte(content), perm))
	return full
}

// AddDir creates <category>/<rel> as an empty directory
func (st *SourceTree) AddDir(t *testing.T, category, rel string) string {
	t.Helper()

	full := st.Path(category, rel)
	require.NoError(t, st.FS.MkdirAll(full, 0755))
	return full
}

// WriteTree writes files keyed by slash-separated paths relative to the root,
// e.g. "agents/special/agent_test".
func (st *SourceTree) WriteTree(t *testing.T, files map[string]string) {
	t.Helper()
	WriteTree(t, st.FS, st.Root, files)
}

// WriteTree writes files keyed by slash-separated paths relative to root
func WriteTree(t *testing.T, fsys types.FS, root string, files map[string]string) {
	t.Helper()

	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, fsys.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, fsys.WriteFile(full, []byte(content), 0644))
	}
}

// ReadTree returns every regular file under root keyed by its slash-separated
// relative path.
func ReadTree(t *testing.T, fsys types.FS, root string) map[string]string {
	t.Helper()

	out := make(map[string]string)
	var walk func(dir, rel string)
	walk = func(dir, rel string) {
		entries, err := fsys.ReadDir(dir)
		require.NoError(t, err)
		for _, entry := range entries {
			full := filepath.Join(dir, entry.Name())
			name := path.Join(rel, entry.Name())
			if entry.IsDir() {
				walk(full, name)
				continue
			}
			data, err := fsys.ReadFile(full)
			require.NoError(t, err)
			out[name] = string(data)
		}
	}
	walk(root, "")
	return out
}

// SortedKeys returns the keys of m in lexicographic order
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ScenarioTree is the minimal package used across tests: one agent plugin
// in a nested directory.
var ScenarioTree = map[string]string{
	"agents/special/agent_test": "hello",
}

// ScenarioInfo returns fresh metadata describing ScenarioTree
func ScenarioInfo() map[string]any {
	return map[string]any{
		"files": map[string]any{"agents": []any{"special/agent_test"}},
		"title": "Test package",
	}
}
