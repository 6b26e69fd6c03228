// pkg/metadata/metadata_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: testutil in-memory filesystem
// PURPOSE: Test metadata encoding, decoding, manifests and info files

package metadata_test

import (
	"testing"

	"github.com/arthur-debert/mkp/pkg/errors"
	"github.com/arthur-debert/mkp/pkg/metadata"
	"github.com/arthur-debert/mkp/pkg/pyliteral"
	"github.com/arthur-debert/mkp/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeForcesProvenance(t *testing.T) {
	info := metadata.Info{
		"title":            "Test package",
		"version.packaged": "python-mkp",
	}

	data, err := metadata.Encode(info)
	require.NoError(t, err)

	decoded, err := metadata.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, metadata.PackagedBy, decoded[metadata.KeyPackaged])
	assert.Equal(t, "python-mkp", info[metadata.KeyPackaged], "caller's map must not change")
}

func TestEncodeScenario(t *testing.T) {
	data, err := metadata.Encode(testutil.ScenarioInfo())
	require.NoError(t, err)

	assert.Equal(t,
		"{'files': {'agents': ['special/agent_test']},\n"+
			" 'title': 'Test package',\n"+
			" 'version.packaged': 'go-mkp'}\n",
		string(data))
}

func TestEncodeIsDeterministic(t *testing.T) {
	info := metadata.Info{
		"title": "x", "name": "x", "version": "1.0", "author": "a",
		"files": map[string]any{"web": []any{"b"}, "agents": []any{"a"}},
	}

	first, err := metadata.Encode(info)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := metadata.Encode(info)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRoundTripPreservesUnknownKeys(t *testing.T) {
	info := metadata.Info{
		"title":                "Fidelity",
		"version.min_required": "2.0.0",
		"x-vendor":             map[string]any{"nested": []any{int64(1), 2.5, nil, true}},
		"version.usable_until": nil,
		"pairs":                pyliteral.Tuple{"a", "b"},
	}

	data, err := metadata.Encode(info)
	require.NoError(t, err)
	decoded, err := metadata.Decode(data)
	require.NoError(t, err)

	want := info.Clone()
	want[metadata.KeyPackaged] = metadata.PackagedBy
	assert.Equal(t, want, decoded)
}

func TestEncodeRejectsUnsupportedValues(t *testing.T) {
	_, err := metadata.Encode(metadata.Info{"title": make(chan int)})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", "{'title': "},
		{"not_a_dict", "['title']"},
		{"expression", "__import__('os')"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := metadata.Decode([]byte(tt.input))
			require.Error(t, err)
			assert.Equal(t, errors.ErrFormat, errors.GetErrorCode(err))
		})
	}
}

func TestInfoAccessors(t *testing.T) {
	info := metadata.Info{"title": "T", "name": "n", "version": "1.2", "author": 3}

	assert.Equal(t, "T", info.Title())
	assert.Equal(t, "n", info.Name())
	assert.Equal(t, "1.2", info.Version())
	_, ok := info.GetString("author")
	assert.False(t, ok)
	assert.Equal(t, "", metadata.Info{}.Title())
}

func TestCloneIsDeep(t *testing.T) {
	info := metadata.Info{"files": map[string]any{"agents": []any{"a"}}}
	clone := info.Clone()

	clone["files"].(map[string]any)["agents"].([]any)[0] = "changed"
	assert.Equal(t, "a", info["files"].(map[string]any)["agents"].([]any)[0])
}

func TestFiles(t *testing.T) {
	tests := []struct {
		name    string
		files   any
		want    metadata.Manifest
		wantErr bool
	}{
		{"missing", nil, metadata.Manifest{}, false},
		{
			name:  "decoded_shape",
			files: map[string]any{"agents": []any{"a", "b/c"}, "doc": []any{}},
			want:  metadata.Manifest{"agents": {"a", "b/c"}, "doc": {}},
		},
		{
			name:  "typed_map",
			files: map[string][]string{"web": {"x"}},
			want:  metadata.Manifest{"web": {"x"}},
		},
		{
			name:  "tuple_list",
			files: map[string]any{"checks": pyliteral.Tuple{"a"}},
			want:  metadata.Manifest{"checks": {"a"}},
		},
		{"not_a_dict", []any{"a"}, nil, true},
		{"non_string_path", map[string]any{"agents": []any{int64(1)}}, nil, true},
		{"not_a_list", map[string]any{"agents": "a"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := metadata.Info{}
			if tt.files != nil {
				info["files"] = tt.files
			}

			got, err := info.Files()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetFiles(t *testing.T) {
	info := metadata.Info{}
	info.SetFiles(metadata.Manifest{"agents": {"a", "b"}, "web": {"c"}})

	assert.Equal(t, map[string]any{
		"agents": []any{"a", "b"},
		"web":    []any{"c"},
	}, info["files"])
	assert.Equal(t, int64(3), info[metadata.KeyNumFiles])

	m, err := info.Files()
	require.NoError(t, err)
	assert.Equal(t, 3, m.NumFiles())
}

func TestManifestCategories(t *testing.T) {
	m := metadata.Manifest{
		"web":    {"a"},
		"lib":    {"b"},
		"agents": {"c"},
		"doc":    {},
		"checks": {"d"},
	}
	assert.Equal(t, []string{"agents", "checks", "web", "lib"}, m.Categories())
}

func TestParseInfoFormats(t *testing.T) {
	want := metadata.Info{
		"title":   "Demo",
		"name":    "demo",
		"version": "1.0.0",
		"files":   map[string]any{"agents": []any{"plugins/demo"}},
		"count":   int64(2),
		"ratio":   0.5,
	}

	tests := []struct {
		name   string
		format metadata.InfoFormat
		input  string
	}{
		{
			name:   "toml",
			format: metadata.FormatTOML,
			input: `title = "Demo"
name = "demo"
version = "1.0.0"
count = 2
ratio = 0.5

[files]
agents = ["plugins/demo"]
`,
		},
		{
			name:   "yaml",
			format: metadata.FormatYAML,
			input: `title: Demo
name: demo
version: "1.0.0"
count: 2
ratio: 0.5
files:
  agents:
    - plugins/demo
`,
		},
		{
			name:   "json",
			format: metadata.FormatJSON,
			input: `{"title": "Demo", "name": "demo", "version": "1.0.0", "count": 2,
"ratio": 0.5, "files": {"agents": ["plugins/demo"]}}`,
		},
		{
			name:   "literal",
			format: metadata.FormatLiteral,
			input: `{'title': 'Demo', 'name': 'demo', 'version': '1.0.0', 'count': 2,
 'ratio': 0.5, 'files': {'agents': ['plugins/demo']}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := metadata.ParseInfo([]byte(tt.input), tt.format)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseInfoErrors(t *testing.T) {
	tests := []struct {
		name   string
		format metadata.InfoFormat
		input  string
	}{
		{"bad_toml", metadata.FormatTOML, "title = "},
		{"bad_yaml", metadata.FormatYAML, "title: [unclosed"},
		{"yaml_list", metadata.FormatYAML, "- a\n- b\n"},
		{"bad_json", metadata.FormatJSON, "{"},
		{"json_null", metadata.FormatJSON, "null"},
		{"bad_literal", metadata.FormatLiteral, "{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := metadata.ParseInfo([]byte(tt.input), tt.format)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrFormat))
		})
	}
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, metadata.FormatTOML, metadata.FormatForPath("info.toml"))
	assert.Equal(t, metadata.FormatYAML, metadata.FormatForPath("info.YML"))
	assert.Equal(t, metadata.FormatYAML, metadata.FormatForPath("x/info.yaml"))
	assert.Equal(t, metadata.FormatJSON, metadata.FormatForPath("info.json"))
	assert.Equal(t, metadata.FormatLiteral, metadata.FormatForPath("info"))
	assert.Equal(t, metadata.FormatLiteral, metadata.FormatForPath("info.py"))
}

func TestLoadInfoFileFS(t *testing.T) {
	fsys := testutil.NewTestFS()
	testutil.WriteTree(t, fsys, "/pkg", map[string]string{
		"info.yaml": "title: From YAML\nreleased: 2024-01-02T03:04:05Z\n",
		"info":      "{'title': ",
	})

	info, err := metadata.LoadInfoFileFS("/pkg/info.yaml", fsys)
	require.NoError(t, err)
	assert.Equal(t, "From YAML", info.Title())
	assert.Equal(t, "2024-01-02T03:04:05Z", info["released"])

	_, err = metadata.LoadInfoFileFS("/pkg/info", fsys)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFormat))
	assert.Equal(t, "/pkg/info", errors.GetErrorPath(err))

	_, err = metadata.LoadInfoFileFS("/pkg/missing.toml", fsys)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFilesystem))
	assert.Equal(t, "/pkg/missing.toml", errors.GetErrorPath(err))
}

func TestNormalize(t *testing.T) {
	got, err := metadata.Normalize(map[any]any{"a": []string{"x"}, "b": uint32(4), "c": float32(0.5)})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": []any{"x"}, "b": int64(4), "c": 0.5}, got)

	_, err = metadata.Normalize(map[any]any{1: "x"})
	assert.Error(t, err)

	_, err = metadata.Normalize(uint64(1 << 63))
	assert.Error(t, err)

	_, err = metadata.Normalize(struct{}{})
	assert.Error(t, err)
}
