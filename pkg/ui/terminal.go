package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/mkp/pkg/metadata"
	"github.com/arthur-debert/mkp/pkg/ui/styles"
)

// terminalRenderer styles output with lipgloss, renders descriptions as
// markdown and prefixes messages with pterm
type terminalRenderer struct {
	out  io.Writer
	opts Options
}

func newTerminalRenderer(w io.Writer, opts Options) *terminalRenderer {
	return &terminalRenderer{out: w, opts: opts}
}

func (r *terminalRenderer) RenderPackage(v PackageView) error {
	var b strings.Builder

	title := v.Info.Title()
	if title == "" {
		title = v.Path
	}
	b.WriteString(styles.Get("Title").Render(title))
	b.WriteString("\n")

	for _, f := range infoFields(v.Info) {
		b.WriteString(styles.Get("Key").Render(f.Key))
		b.WriteString(styles.Get("Value").Render(f.Value))
		b.WriteString("\n")
	}

	if desc, _ := v.Info.GetString(metadata.KeyDescription); desc != "" {
		b.WriteString("\n")
		b.WriteString(RenderMarkdown(desc, r.opts.Width))
	}

	if len(v.Categories) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.Get("Header").Render("Archives"))
		b.WriteString("\n")
		for _, name := range v.Categories {
			b.WriteString(styles.Get("FilePath").Render(name))
			b.WriteString("\n")
		}
	}
	if v.Checksum != "" {
		b.WriteString("\n")
		b.WriteString(styles.Get("Muted").Render(v.Checksum))
		b.WriteString("\n")
	}

	_, err := io.WriteString(r.out, b.String())
	return err
}

func (r *terminalRenderer) RenderFiles(v FilesView) error {
	var b strings.Builder

	b.WriteString(styles.Get("Title").Render(v.Title))
	b.WriteString("\n")

	categories := v.Files.Categories()
	if len(categories) == 0 {
		b.WriteString(styles.Get("Muted").Render("No files"))
		b.WriteString("\n")
	}
	for _, name := range categories {
		paths := v.Files[name]
		b.WriteString(styles.Get("Category").Render(name))
		b.WriteString(" ")
		b.WriteString(styles.Get("Count").Render(fmt.Sprintf("(%d)", len(paths))))
		b.WriteString("\n")
		for _, p := range paths {
			b.WriteString(styles.Get("FilePath").Render(p))
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(r.out, b.String())
	return err
}

func (r *terminalRenderer) RenderMessage(msg string) error {
	_, err := io.WriteString(r.out, pterm.Success.Sprintln(msg))
	return err
}

func (r *terminalRenderer) RenderError(err error) error {
	v := newErrorView(err)

	var b strings.Builder
	b.WriteString(pterm.Error.Sprintln(v.Message))
	if v.Path != "" {
		b.WriteString(styles.Get("Muted").Render("path: " + v.Path))
		b.WriteString("\n")
	}
	for _, f := range v.scalarDetails() {
		b.WriteString(styles.Get("Muted").Render(f.Key + ": " + f.Value))
		b.WriteString("\n")
	}
	for _, item := range v.Items {
		b.WriteString(styles.Get("Warning").Render("  - " + item))
		b.WriteString("\n")
	}

	_, werr := io.WriteString(r.out, b.String())
	return werr
}
