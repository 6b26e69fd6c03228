// pkg/ui/ui_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test rendering of packages, file lists and errors in every format

package ui_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/mkp/pkg/errors"
	"github.com/arthur-debert/mkp/pkg/metadata"
	"github.com/arthur-debert/mkp/pkg/ui"
)

func samplePackage() ui.PackageView {
	return ui.PackageView{
		Path: "demo-1.0.mkp",
		Info: metadata.Info{
			"title":                "Demo plugin",
			"name":                 "demo",
			"version":              "1.0",
			"version.usable_until": nil,
			"num_files":            int64(2),
			"description":          "Adds **two** checks.",
			"files":                map[string]any{"checks": []any{"a", "b"}},
			"zz-extra":             []any{"x"},
		},
		Categories: []string{"checks"},
	}
}

func sampleFiles() ui.FilesView {
	return ui.FilesView{
		Title: "demo",
		Files: metadata.Manifest{
			"web":    {"plugins/w.py"},
			"agents": {"special/agent_test"},
			"doc":    {},
		},
	}
}

func render(t *testing.T, format ui.Format, fn func(ui.Renderer) error) string {
	t.Helper()
	buf := &bytes.Buffer{}
	r, err := ui.NewRenderer(format, buf, ui.Options{Width: 60})
	require.NoError(t, err)
	require.NoError(t, fn(r))
	return buf.String()
}

func TestNewRenderer(t *testing.T) {
	for _, f := range []ui.Format{ui.FormatAuto, ui.FormatTerminal, ui.FormatText, ui.FormatJSON} {
		t.Run(f.String(), func(t *testing.T) {
			r, err := ui.NewRenderer(f, &bytes.Buffer{}, ui.Options{})
			require.NoError(t, err)
			assert.NotNil(t, r)
		})
	}

	_, err := ui.NewRenderer(ui.Format("html"), &bytes.Buffer{}, ui.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestTextRenderPackage(t *testing.T) {
	out := render(t, ui.FormatText, func(r ui.Renderer) error { return r.RenderPackage(samplePackage()) })

	assert.Equal(t, strings.Join([]string{
		"title: Demo plugin",
		"name: demo",
		"version: 1.0",
		"version.usable_until: None",
		"num_files: 2",
		"zz-extra: ['x']",
		"",
		"Adds **two** checks.",
		"",
		"archives: checks",
		"",
	}, "\n"), out)
}

func TestTextRenderFiles(t *testing.T) {
	out := render(t, ui.FormatText, func(r ui.Renderer) error { return r.RenderFiles(sampleFiles()) })
	assert.Equal(t, "agents/special/agent_test\nweb/plugins/w.py\n", out)
}

func TestTextRenderError(t *testing.T) {
	err := errors.New(errors.ErrSchema, "metadata does not match schema").
		WithPath("info.toml").
		WithDetail("problems", []string{"name: invalid value"})

	out := render(t, ui.FormatText, func(r ui.Renderer) error { return r.RenderError(err) })
	assert.Contains(t, out, "Error: [SCHEMA_INVALID] metadata does not match schema")
	assert.Contains(t, out, "  path: info.toml")
	assert.Contains(t, out, "  - problems: name: invalid value")
}

func TestTerminalRender(t *testing.T) {
	t.Run("package", func(t *testing.T) {
		out := render(t, ui.FormatTerminal, func(r ui.Renderer) error { return r.RenderPackage(samplePackage()) })
		assert.Contains(t, out, "Demo plugin")
		assert.Contains(t, out, "version.usable_until")
		assert.Contains(t, out, "two")
		assert.Contains(t, out, "Archives")
	})

	t.Run("files", func(t *testing.T) {
		out := render(t, ui.FormatTerminal, func(r ui.Renderer) error { return r.RenderFiles(sampleFiles()) })
		assert.Contains(t, out, "agents")
		assert.Contains(t, out, "(1)")
		assert.Contains(t, out, "special/agent_test")
		assert.NotContains(t, out, "doc")
		assert.Less(t, strings.Index(out, "agents"), strings.Index(out, "web"))
	})

	t.Run("empty_files", func(t *testing.T) {
		out := render(t, ui.FormatTerminal, func(r ui.Renderer) error {
			return r.RenderFiles(ui.FilesView{Title: "empty", Files: metadata.Manifest{}})
		})
		assert.Contains(t, out, "No files")
	})

	t.Run("error", func(t *testing.T) {
		err := errors.New(errors.ErrManifestMismatch, "listed file is missing").
			WithPath("/src/agents/x").
			WithDetail("category", "agents")
		out := render(t, ui.FormatTerminal, func(r ui.Renderer) error { return r.RenderError(err) })
		assert.Contains(t, out, "listed file is missing")
		assert.Contains(t, out, "path: /src/agents/x")
		assert.Contains(t, out, "category: agents")
	})

	t.Run("message", func(t *testing.T) {
		out := render(t, ui.FormatTerminal, func(r ui.Renderer) error { return r.RenderMessage("Wrote demo.mkp") })
		assert.Contains(t, out, "Wrote demo.mkp")
	})
}

func TestJSONRender(t *testing.T) {
	t.Run("package", func(t *testing.T) {
		out := render(t, ui.FormatJSON, func(r ui.Renderer) error { return r.RenderPackage(samplePackage()) })

		var got map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, "demo-1.0.mkp", got["path"])
		info := got["info"].(map[string]any)
		assert.Equal(t, "Demo plugin", info["title"])
		assert.Nil(t, info["version.usable_until"])
		assert.Equal(t, float64(2), info["num_files"])
		assert.Equal(t, []any{"checks"}, got["categories"])
	})

	t.Run("files", func(t *testing.T) {
		out := render(t, ui.FormatJSON, func(r ui.Renderer) error { return r.RenderFiles(sampleFiles()) })

		var got struct {
			Title string              `json:"title"`
			Files map[string][]string `json:"files"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, "demo", got.Title)
		assert.Equal(t, []string{"special/agent_test"}, got.Files["agents"])
		assert.Equal(t, []string{}, got.Files["doc"])
	})

	t.Run("error", func(t *testing.T) {
		err := errors.New(errors.ErrManifestMismatch, "manifest and archives disagree").
			WithDetail("missing", []string{"agents/a"})
		out := render(t, ui.FormatJSON, func(r ui.Renderer) error { return r.RenderError(err) })

		var got map[string]map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, "MANIFEST_MISMATCH", got["error"]["code"])
		assert.Equal(t, []any{"agents/a"}, got["error"]["details"].(map[string]any)["missing"])
	})

	t.Run("plain_error", func(t *testing.T) {
		out := render(t, ui.FormatJSON, func(r ui.Renderer) error { return r.RenderError(assert.AnError) })
		assert.Contains(t, out, `"code": "UNKNOWN"`)
	})

	t.Run("message", func(t *testing.T) {
		out := render(t, ui.FormatJSON, func(r ui.Renderer) error { return r.RenderMessage("done") })
		assert.JSONEq(t, `{"message": "done"}`, out)
	})
}

func TestRenderMarkdownFallsBackToPlain(t *testing.T) {
	out := ui.RenderMarkdown("# Heading\n\nBody text.", 40)
	assert.Contains(t, out, "Heading")
	assert.Contains(t, out, "Body text.")
}
