package ui

import (
	"encoding/json"
	"io"
)

// jsonRenderer writes one indented JSON document per call
type jsonRenderer struct {
	encoder *json.Encoder
}

func newJSONRenderer(w io.Writer) *jsonRenderer {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return &jsonRenderer{encoder: encoder}
}

func (r *jsonRenderer) RenderPackage(v PackageView) error {
	if v.Categories == nil {
		v.Categories = []string{}
	}
	return r.encoder.Encode(v)
}

func (r *jsonRenderer) RenderFiles(v FilesView) error {
	return r.encoder.Encode(v)
}

func (r *jsonRenderer) RenderMessage(msg string) error {
	return r.encoder.Encode(map[string]string{"message": msg})
}

func (r *jsonRenderer) RenderError(err error) error {
	return r.encoder.Encode(map[string]errorView{"error": newErrorView(err)})
}
