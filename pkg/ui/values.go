package ui

import (
	"sort"

	"github.com/arthur-debert/mkp/pkg/metadata"
	"github.com/arthur-debert/mkp/pkg/pyliteral"
)

// headlineKeys are shown first, in this order; description and files get
// sections of their own
var headlineKeys = []string{
	metadata.KeyTitle,
	metadata.KeyName,
	metadata.KeyVersion,
	metadata.KeyAuthor,
	metadata.KeyDownloadURL,
	metadata.KeyMinRequired,
	metadata.KeyUsableUntil,
	metadata.KeyPackaged,
	metadata.KeyNumFiles,
}

type field struct {
	Key   string
	Value string
}

// infoFields returns the displayable fields of info in display order
func infoFields(info metadata.Info) []field {
	seen := map[string]bool{
		metadata.KeyDescription: true,
		metadata.KeyFiles:       true,
	}
	var fields []field
	for _, key := range headlineKeys {
		seen[key] = true
		if v, ok := info[key]; ok {
			fields = append(fields, field{key, displayValue(v)})
		}
	}

	var rest []string
	for key := range info {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		fields = append(fields, field{key, displayValue(info[key])})
	}
	return fields
}

// displayValue shows strings bare and everything else as a literal
func displayValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	s, err := pyliteral.MarshalInline(v)
	if err != nil {
		return "?"
	}
	return s
}
