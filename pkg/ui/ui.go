// Package ui renders command results as styled terminal output, plain text
// or JSON.
package ui

import (
	"io"

	"github.com/arthur-debert/mkp/pkg/errors"
	"github.com/arthur-debert/mkp/pkg/metadata"
)

// PackageView is a package's metadata as shown by `mkp show`
type PackageView struct {
	// Path is the package file, if it came from one
	Path string `json:"path,omitempty"`
	// Info is the decoded metadata
	Info metadata.Info `json:"info"`
	// Categories are the archives present in the container
	Categories []string `json:"categories"`
	// Checksum identifies the package file
	Checksum string `json:"checksum,omitempty"`
}

// FilesView lists files per category, for `mkp find` and `mkp list`
type FilesView struct {
	Title string            `json:"title"`
	Files metadata.Manifest `json:"files"`
}

// Renderer writes results in one output format
type Renderer interface {
	RenderPackage(v PackageView) error
	RenderFiles(v FilesView) error
	RenderMessage(msg string) error
	RenderError(err error) error
}

// Options tune the renderers
type Options struct {
	// Width wraps rendered markdown; 0 keeps the renderer default
	Width int
}

// NewRenderer creates a renderer for format writing to w. FormatAuto is
// resolved against w.
func NewRenderer(format Format, w io.Writer, opts Options) (Renderer, error) {
	switch Resolve(format, w) {
	case FormatTerminal:
		return newTerminalRenderer(w, opts), nil
	case FormatText:
		return newTextRenderer(w), nil
	case FormatJSON:
		return newJSONRenderer(w), nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %s", format)
	}
}
