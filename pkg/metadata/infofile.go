package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/mkp/pkg/errors"
	"github.com/arthur-debert/mkp/pkg/filesystem"
	"github.com/arthur-debert/mkp/pkg/logging"
	"github.com/arthur-debert/mkp/pkg/types"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// InfoFormat is the syntax of a user-authored info file
type InfoFormat string

const (
	FormatTOML    InfoFormat = "toml"
	FormatYAML    InfoFormat = "yaml"
	FormatJSON    InfoFormat = "json"
	FormatLiteral InfoFormat = "literal"
)

// FormatForPath picks the info file syntax from the file extension.
// Unrecognised extensions, including a bare "info", are read as literals.
func FormatForPath(path string) InfoFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return FormatLiteral
	}
}

// LoadInfoFile reads metadata from an info file on disk
func LoadInfoFile(path string) (Info, error) {
	return LoadInfoFileFS(path, filesystem.NewOS())
}

// LoadInfoFileFS reads metadata from an info file through fsys
func LoadInfoFileFS(path string, fsys types.FS) (Info, error) {
	logger := logging.GetLogger("metadata.infofile")

	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFilesystem, "cannot read info file").WithPath(path)
	}

	format := FormatForPath(path)
	logger.Debug().Str("path", path).Str("format", string(format)).Msg("Loading info file")

	info, err := ParseInfo(data, format)
	if err != nil {
		if mkpErr, ok := err.(*errors.MkpError); ok {
			return nil, mkpErr.WithPath(path)
		}
		return nil, err
	}
	return info, nil
}

// ParseInfo parses info file contents in the given syntax and normalizes the
// values to the types Decode produces.
func ParseInfo(data []byte, format InfoFormat) (Info, error) {
	var raw map[string]any

	switch format {
	case FormatLiteral:
		return Decode(data)
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrFormat, "malformed TOML")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrFormat, "malformed YAML")
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrFormat, "malformed JSON")
		}
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown info format %q", format)
	}

	if raw == nil {
		return nil, errors.Newf(errors.ErrFormat, "%s info file holds no mapping", format)
	}

	normalized, err := Normalize(raw)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFormat, "unsupported value in info file")
	}
	return Info(normalized.(map[string]any)), nil
}

// Normalize converts values produced by the TOML, YAML and JSON decoders
// into dicts, lists, strings, int64, float64, bool and nil.
func Normalize(v any) (any, error) {
	switch val := v.(type) {
	case nil, string, bool, int64, float64:
		return val, nil
	case int:
		return int64(val), nil
	case int8:
		return int64(val), nil
	case int16:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case uint:
		return uintToInt(uint64(val))
	case uint8:
		return int64(val), nil
	case uint16:
		return int64(val), nil
	case uint32:
		return int64(val), nil
	case uint64:
		return uintToInt(val)
	case float32:
		return float64(val), nil
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return n, nil
		}
		return val.Float64()
	case time.Time:
		return val.Format(time.RFC3339Nano), nil
	case toml.LocalDate, toml.LocalTime, toml.LocalDateTime:
		return fmt.Sprint(val), nil
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			n, err := Normalize(item)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			n, err := Normalize(item)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out[k] = n
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("dict keys must be strings, got %T", k)
			}
			n, err := Normalize(item)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			out[key] = n
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %T", v)
	}
}

func uintToInt(u uint64) (any, error) {
	if u > 1<<63-1 {
		return nil, fmt.Errorf("integer %d out of range", u)
	}
	return int64(u), nil
}
