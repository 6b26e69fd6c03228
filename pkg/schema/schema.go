package schema

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/arthur-debert/mkp/pkg/errors"
	"github.com/arthur-debert/mkp/pkg/logging"
	"github.com/arthur-debert/mkp/pkg/metadata"
)

//go:embed info.cue
var infoSchema string

// Definitions in info.cue
const (
	DefInfo = "#Info"
	DefDist = "#Dist"
)

// DetailProblems is the error detail listing each schema violation
const DetailProblems = "problems"

// Validate checks info against the general metadata schema
func Validate(info metadata.Info) error {
	return validate(info, DefInfo)
}

// ValidateDist checks info against the stricter schema for distributable
// packages: title, name and version are required.
func ValidateDist(info metadata.Info) error {
	return validate(info, DefDist)
}

func validate(info metadata.Info, definition string) error {
	logger := logging.GetLogger("schema")

	ctx := cuecontext.New()
	schema := ctx.CompileString(infoSchema, cue.Filename("info.cue"))
	if err := schema.Err(); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "metadata schema does not compile")
	}

	root := schema.LookupPath(cue.ParsePath(definition))
	if err := root.Err(); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "schema definition %s not found", definition)
	}

	value := ctx.Encode(map[string]any(info))
	if err := value.Err(); err != nil {
		return errors.Wrap(err, errors.ErrInvalidInput, "metadata cannot be checked")
	}

	if err := root.Unify(value).Validate(cue.Concrete(true)); err != nil {
		problems := Problems(err)
		logger.Debug().Str("definition", definition).Strs("problems", problems).Msg("Metadata rejected")
		return errors.Newf(errors.ErrSchema, "metadata does not match %s: %s", definition, strings.Join(problems, "; ")).
			WithDetail(DetailProblems, problems)
	}

	logger.Trace().Str("definition", definition).Msg("Metadata accepted")
	return nil
}

// Problems flattens a CUE error into "field: message" lines
func Problems(err error) []string {
	var lines []string
	for _, e := range cueerrors.Errors(err) {
		path := formatPath(e.Path())
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		if path != "" {
			msg = path + ": " + msg
		}
		lines = append(lines, msg)
	}
	if len(lines) == 0 {
		lines = append(lines, err.Error())
	}
	return lines
}

// formatPath turns ["files", "agents", "0"] into files.agents[0]. Field
// names holding dots are quoted.
func formatPath(path []string) string {
	var sb strings.Builder
	for i, part := range path {
		switch {
		case isIndex(part) && i > 0:
			sb.WriteString("[" + part + "]")
		default:
			if i > 0 {
				sb.WriteByte('.')
			}
			if strings.Contains(part, ".") && !strings.HasPrefix(part, "\"") {
				part = `"` + part + `"`
			}
			sb.WriteString(part)
		}
	}
	return sb.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
