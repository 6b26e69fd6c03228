package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/arthur-debert/mkp/pkg/logging"
)

// RenderMarkdown renders content for a terminal. On any renderer failure
// the content is returned unchanged.
func RenderMarkdown(content string, width int) string {
	logger := logging.GetLogger("ui.markdown")

	options := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		options = append(options, glamour.WithWordWrap(width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		logger.Debug().Err(err).Msg("Markdown renderer unavailable")
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		logger.Debug().Err(err).Msg("Failed to render markdown")
		return content
	}
	return strings.TrimRight(rendered, "\n") + "\n"
}
