package metadata

import (
	"github.com/arthur-debert/mkp/pkg/errors"
	"github.com/arthur-debert/mkp/pkg/logging"
	"github.com/arthur-debert/mkp/pkg/pyliteral"
)

// Encode writes info as the text of a container's info entry.
// version.packaged is always set to PackagedBy; info itself is not modified.
func Encode(info Info) ([]byte, error) {
	logger := logging.GetLogger("metadata.codec")

	out := info.Clone()
	if prev, ok := out[KeyPackaged]; ok && prev != PackagedBy {
		logger.Debug().Interface("was", prev).Msg("Overriding version.packaged")
	}
	out[KeyPackaged] = PackagedBy

	data, err := pyliteral.Marshal(map[string]any(out))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "metadata cannot be encoded")
	}

	logger.Trace().Int("bytes", len(data)).Int("keys", len(out)).Msg("Encoded metadata")
	return data, nil
}

// Decode parses the text of an info entry. Anything that is not a single
// dict literal is a format error.
func Decode(data []byte) (Info, error) {
	v, err := pyliteral.Unmarshal(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFormat, "malformed metadata literal")
	}

	m, ok := v.(map[string]any)
	if !ok {
		return nil, errors.Newf(errors.ErrFormat, "metadata must be a dict, got %s", kindOf(v))
	}
	return Info(m), nil
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "None"
	case []any:
		return "list"
	case pyliteral.Tuple:
		return "tuple"
	case string:
		return "str"
	case int64:
		return "int"
	case float64:
		return "float"
	case bool:
		return "bool"
	default:
		return "unknown value"
	}
}
