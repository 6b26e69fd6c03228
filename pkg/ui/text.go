package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/mkp/pkg/metadata"
)

// textRenderer writes plain, grep-friendly text
type textRenderer struct {
	out io.Writer
}

func newTextRenderer(w io.Writer) *textRenderer {
	return &textRenderer{out: w}
}

func (r *textRenderer) RenderPackage(v PackageView) error {
	var b strings.Builder
	for _, f := range infoFields(v.Info) {
		fmt.Fprintf(&b, "%s: %s\n", f.Key, f.Value)
	}
	if desc, _ := v.Info.GetString(metadata.KeyDescription); desc != "" {
		fmt.Fprintf(&b, "\n%s\n", strings.TrimRight(desc, "\n"))
	}
	if len(v.Categories) > 0 {
		fmt.Fprintf(&b, "\narchives: %s\n", strings.Join(v.Categories, ", "))
	}
	if v.Checksum != "" {
		fmt.Fprintf(&b, "checksum: %s\n", v.Checksum)
	}
	_, err := io.WriteString(r.out, b.String())
	return err
}

// RenderFiles writes one category/path per line
func (r *textRenderer) RenderFiles(v FilesView) error {
	var b strings.Builder
	for _, name := range v.Files.Categories() {
		for _, p := range v.Files[name] {
			fmt.Fprintf(&b, "%s/%s\n", name, p)
		}
	}
	_, err := io.WriteString(r.out, b.String())
	return err
}

func (r *textRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.out, msg)
	return err
}

func (r *textRenderer) RenderError(err error) error {
	v := newErrorView(err)

	var b strings.Builder
	fmt.Fprintf(&b, "Error: %s\n", v.Message)
	if v.Path != "" {
		fmt.Fprintf(&b, "  path: %s\n", v.Path)
	}
	for _, f := range v.scalarDetails() {
		fmt.Fprintf(&b, "  %s: %s\n", f.Key, f.Value)
	}
	for _, item := range v.Items {
		fmt.Fprintf(&b, "  - %s\n", item)
	}
	_, werr := io.WriteString(r.out, b.String())
	return werr
}
