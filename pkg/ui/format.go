package ui

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/arthur-debert/mkp/pkg/errors"
)

// Format selects how command output is rendered
type Format string

const (
	// FormatAuto picks term or text from the output stream
	FormatAuto Format = "auto"
	// FormatTerminal renders styled output with colors and markdown
	FormatTerminal Format = "term"
	// FormatText renders plain text
	FormatText Format = "text"
	// FormatJSON renders one JSON document per result
	FormatJSON Format = "json"
)

func (f Format) String() string { return string(f) }

// ParseFormat parses a format name; "" means auto
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return FormatAuto, nil
	case "term", "terminal":
		return FormatTerminal, nil
	case "text", "plain":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatAuto, errors.Newf(errors.ErrInvalidInput, "unknown format: %s", s).
			WithDetail("format", s)
	}
}

// DetectFormat picks term for color-capable terminals and text otherwise.
// NO_COLOR and anything that is not a terminal file get text.
func DetectFormat(w io.Writer) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}

	file, ok := w.(*os.File)
	if !ok {
		return FormatText
	}
	if !isatty.IsTerminal(file.Fd()) && !isatty.IsCygwinTerminal(file.Fd()) {
		return FormatText
	}

	if termenv.NewOutput(file).Profile == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}

// Resolve replaces FormatAuto with the detected format for w
func Resolve(f Format, w io.Writer) Format {
	if f == FormatAuto {
		return DetectFormat(w)
	}
	return f
}
