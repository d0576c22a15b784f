package internal

import (
	"ainotebook/internal/config"

	"github.com/charmbracelet/glamour"
)

// NewRenderer builds the markdown renderer used for note previews.
func NewRenderer(cfg config.PreviewConfig) (*glamour.TermRenderer, error) {
	wrap := cfg.WordWrap
	if wrap <= 0 {
		wrap = 80
	}

	style := glamour.WithAutoStyle()
	if cfg.Style != "" && cfg.Style != "auto" {
		style = glamour.WithStandardStyle(cfg.Style)
	}
	return glamour.NewTermRenderer(style, glamour.WithWordWrap(wrap))
}
