// pkg/container/container_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: testutil source trees and tar helpers
// PURPOSE: Test container building, parsing and archive access

package container_test

import (
	"archive/tar"
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/arthur-debert/mkp/pkg/category"
	"github.com/arthur-debert/mkp/pkg/container"
	"github.com/arthur-debert/mkp/pkg/errors"
	"github.com/arthur-debert/mkp/pkg/metadata"
	"github.com/arthur-debert/mkp/pkg/pyliteral"
	"github.com/arthur-debert/mkp/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioTree(t *testing.T) *testutil.SourceTree {
	t.Helper()
	tree := testutil.NewMemorySourceTree(t)
	tree.WriteTree(t, testutil.ScenarioTree)
	return tree
}

func TestBuildScenario(t *testing.T) {
	tree := scenarioTree(t)

	for _, compress := range []bool{true, false} {
		data, err := container.Build(testutil.ScenarioInfo(), tree.Root,
			container.BuildOptions{FS: tree.FS, Compress: compress})
		require.NoError(t, err)

		files, order := testutil.ReadTar(t, data)
		assert.Equal(t, []string{"info", "agents.tar"}, order)

		raw, err := pyliteral.Unmarshal(files["info"])
		require.NoError(t, err)
		info := raw.(map[string]any)
		assert.Equal(t, map[string]any{"agents": []any{"special/agent_test"}}, info["files"])
		assert.Equal(t, "Test package", info["title"])
		assert.Equal(t, metadata.PackagedBy, info["version.packaged"])

		inner, innerOrder := testutil.ReadTar(t, files["agents.tar"])
		assert.Equal(t, []string{"special/agent_test"}, innerOrder)
		assert.Equal(t, "hello", string(inner["special/agent_test"]))
	}
}

func TestBuildCompressionIsSniffable(t *testing.T) {
	tree := scenarioTree(t)

	gz, err := container.Build(testutil.ScenarioInfo(), tree.Root, container.BuildOptions{FS: tree.FS, Compress: true})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1f, 0x8b}, gz[:2])

	plain, err := container.Build(testutil.ScenarioInfo(), tree.Root, container.BuildOptions{FS: tree.FS})
	require.NoError(t, err)
	assert.NotEqual(t, byte(0x1f), plain[0])
}

func TestBuildIsReproducible(t *testing.T) {
	tree := scenarioTree(t)
	opts := container.BuildOptions{FS: tree.FS, Compress: true}

	first, err := container.Build(testutil.ScenarioInfo(), tree.Root, opts)
	require.NoError(t, err)
	second, err := container.Build(testutil.ScenarioInfo(), tree.Root, opts)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuildCategoryOrderAndEmptyCategories(t *testing.T) {
	tree := testutil.NewMemorySourceTree(t)
	tree.WriteTree(t, map[string]string{
		"web/w":    "w",
		"lib/l":    "l",
		"checks/c": "c",
		"agents/a": "a",
		"aaa/x":    "x",
	})
	info := metadata.Info{"title": "order"}
	info.SetFiles(metadata.Manifest{
		"web":    {"w"},
		"lib":    {"l"},
		"checks": {"c"},
		"agents": {"a"},
		"aaa":    {"x"},
		"doc":    {},
	})

	data, err := container.Build(info, tree.Root, container.BuildOptions{FS: tree.FS})
	require.NoError(t, err)

	_, order := testutil.ReadTar(t, data)
	assert.Equal(t, []string{"info", "agents.tar", "checks.tar", "web.tar", "aaa.tar", "lib.tar"}, order)
}

func TestBuildKeepsFileModeAndSynthesizedModTime(t *testing.T) {
	tree := testutil.NewSourceTree(t)
	tree.AddFileMode(t, "agents", "plugins/run", "#!/bin/sh\n", 0755)
	info := metadata.Info{"files": map[string]any{"agents": []any{"plugins/run"}}}
	stamp := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	data, err := container.Build(info, tree.Root, container.BuildOptions{ModTime: stamp})
	require.NoError(t, err)

	c, err := container.Parse(data)
	require.NoError(t, err)
	a, ok := c.Archive("agents")
	require.True(t, ok)

	hdr, err := a.Open().Next()
	require.NoError(t, err)
	assert.Equal(t, "plugins/run", hdr.Name)
	assert.Equal(t, int64(0755), hdr.Mode)

	outer := tar.NewReader(bytes.NewReader(data))
	hdr, err = outer.Next()
	require.NoError(t, err)
	assert.Equal(t, "info", hdr.Name)
	assert.True(t, stamp.Equal(hdr.ModTime), "got %s", hdr.ModTime)
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]any
		code  errors.ErrorCode
	}{
		{"missing_file", map[string]any{"agents": []any{"nope"}}, errors.ErrManifestMismatch},
		{"directory_listed", map[string]any{"agents": []any{"special"}}, errors.ErrManifestMismatch},
		{"absolute_path", map[string]any{"agents": []any{"/etc/passwd"}}, errors.ErrManifestMismatch},
		{"escaping_path", map[string]any{"agents": []any{"../checks/x"}}, errors.ErrManifestMismatch},
		{"bad_category", map[string]any{"../agents": []any{"special/agent_test"}}, errors.ErrInvalidInput},
		{"bad_manifest", map[string]any{"agents": "special/agent_test"}, errors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := scenarioTree(t)
			info := metadata.Info{"files": tt.files}

			data, err := container.Build(info, tree.Root, container.BuildOptions{FS: tree.FS})
			require.Error(t, err)
			assert.Nil(t, data)
			assert.Equal(t, tt.code, errors.GetErrorCode(err))
		})
	}
}

func TestBuildMissingFileNamesPath(t *testing.T) {
	tree := scenarioTree(t)
	info := metadata.Info{"files": map[string]any{"checks": []any{"gone"}}}

	_, err := container.Build(info, tree.Root, container.BuildOptions{FS: tree.FS})
	require.Error(t, err)
	assert.Equal(t, tree.Path("checks", "gone"), errors.GetErrorPath(err))
	assert.Equal(t, "checks", errors.GetErrorDetails(err)["category"])
}

func TestBuildSkipsDuplicatePaths(t *testing.T) {
	tree := scenarioTree(t)
	info := metadata.Info{"files": map[string]any{
		"agents": []any{"special/agent_test", "./special/agent_test"},
	}}

	data, err := container.Build(info, tree.Root, container.BuildOptions{FS: tree.FS})
	require.NoError(t, err)

	files, _ := testutil.ReadTar(t, data)
	_, order := testutil.ReadTar(t, files["agents.tar"])
	assert.Equal(t, []string{"special/agent_test"}, order)
}

func TestParse(t *testing.T) {
	tree := scenarioTree(t)
	data, err := container.Build(testutil.ScenarioInfo(), tree.Root, container.BuildOptions{FS: tree.FS, Compress: true})
	require.NoError(t, err)

	c, err := container.Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "Test package", c.Info.Title())
	assert.Equal(t, []string{"agents"}, c.Categories())

	a, ok := c.Archive("agents")
	require.True(t, ok)
	assert.Equal(t, "agents", a.Category)
	assert.Positive(t, a.Size())

	files, err := a.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"special/agent_test"}, files)

	_, ok = c.Archive("checks")
	assert.False(t, ok)
	assert.NoError(t, c.Verify())
}

func TestParseHandBuiltContainers(t *testing.T) {
	inner := testutil.BuildTar(t,
		testutil.TarEntry{Name: "./dir", Typeflag: tar.TypeDir, Mode: 0755},
		testutil.TarEntry{Name: "./dir/b", Body: "b"},
		testutil.TarEntry{Name: "a", Body: "a"},
	)
	data := testutil.BuildTar(t,
		testutil.TarEntry{Name: "info", Body: "{'title': 'hand built', 'x': [1]}"},
		testutil.TarEntry{Name: "lib.tar", Body: string(inner)},
		testutil.TarEntry{Name: "checks.tar", Body: string(inner)},
		testutil.TarEntry{Name: "README", Body: "ignored"},
	)

	for name, raw := range map[string][]byte{"plain": data, "gzip": testutil.Gzip(t, data)} {
		t.Run(name, func(t *testing.T) {
			c, err := container.Parse(raw)
			require.NoError(t, err)
			assert.Equal(t, "hand built", c.Info.Title())
			assert.Equal(t, []any{int64(1)}, c.Info["x"])
			assert.Equal(t, []string{"checks", "lib"}, c.Categories())

			m, err := c.Manifest()
			require.NoError(t, err)
			assert.Equal(t, metadata.Manifest{"checks": {"a", "dir/b"}, "lib": {"a", "dir/b"}}, m)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"garbage", []byte("this is not an archive at all, not even close............")},
		{"truncated_gzip", []byte{0x1f, 0x8b, 0x08}},
		{"missing_info", testutil.BuildTar(t, testutil.TarEntry{Name: "agents.tar", Body: ""})},
		{"bad_info", testutil.BuildTar(t, testutil.TarEntry{Name: "info", Body: "{'title': "})},
		{"info_not_dict", testutil.BuildTar(t, testutil.TarEntry{Name: "info", Body: "'title'"})},
		{"duplicate_info", testutil.BuildTar(t,
			testutil.TarEntry{Name: "info", Body: "{}"},
			testutil.TarEntry{Name: "info", Body: "{}"},
		)},
		{"duplicate_category", testutil.BuildTar(t,
			testutil.TarEntry{Name: "info", Body: "{}"},
			testutil.TarEntry{Name: "web.tar", Body: ""},
			testutil.TarEntry{Name: "./web.tar", Body: ""},
		)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := container.Parse(tt.data)
			require.Error(t, err)
			assert.Nil(t, c)
			assert.Equal(t, errors.ErrFormat, errors.GetErrorCode(err))
		})
	}
}

func TestArchiveWalk(t *testing.T) {
	inner := testutil.BuildTar(t,
		testutil.TarEntry{Name: "one", Body: "1"},
		testutil.TarEntry{Name: "two", Body: "22"},
	)
	data := testutil.BuildTar(t,
		testutil.TarEntry{Name: "info", Body: "{}"},
		testutil.TarEntry{Name: "doc.tar", Body: string(inner)},
	)
	c, err := container.Parse(data)
	require.NoError(t, err)
	a, _ := c.Archive(category.Doc.String())

	contents := map[string]string{}
	require.NoError(t, a.Walk(func(hdr *tar.Header, r io.Reader) error {
		body, err := io.ReadAll(r)
		contents[hdr.Name] = string(body)
		return err
	}))
	assert.Equal(t, map[string]string{"one": "1", "two": "22"}, contents)

	stop := errors.New(errors.ErrInternal, "stop")
	calls := 0
	err = a.Walk(func(*tar.Header, io.Reader) error {
		calls++
		return stop
	})
	assert.Equal(t, stop, err)
	assert.Equal(t, 1, calls)
}

func TestArchiveWalkCorrupt(t *testing.T) {
	data := testutil.BuildTar(t,
		testutil.TarEntry{Name: "info", Body: "{}"},
		testutil.TarEntry{Name: "web.tar", Body: "definitely not a tar archive, just some bytes that are long enough"},
	)
	c, err := container.Parse(data)
	require.NoError(t, err)

	a, _ := c.Archive("web")
	_, err = a.Files()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFormat))
}

func TestVerifyReportsDisagreement(t *testing.T) {
	inner := testutil.BuildTar(t, testutil.TarEntry{Name: "stored", Body: "x"})
	data := testutil.BuildTar(t,
		testutil.TarEntry{Name: "info", Body: "{'files': {'checks': ['listed', 'stored']}}"},
		testutil.TarEntry{Name: "checks.tar", Body: string(inner)},
		testutil.TarEntry{Name: "web.tar", Body: string(inner)},
	)
	c, err := container.Parse(data)
	require.NoError(t, err)

	err = c.Verify()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestMismatch))
	details := errors.GetErrorDetails(err)
	assert.Equal(t, []string{"checks/listed"}, details["missing"])
	assert.Equal(t, []string{"web/stored"}, details["unlisted"])
}
