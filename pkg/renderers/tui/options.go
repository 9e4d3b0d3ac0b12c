package tui

import (
	"io"

	"github.com/goliatone/go-formpreview/pkg/livesync"
)

// SizeFunc reports the terminal size in cells.
type SizeFunc func() (cols, rows int, err error)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by live sessions.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutput redirects the rendered views. Defaults to stdout.
func WithOutput(out io.Writer) Option {
	return func(r *Renderer) {
		if out != nil {
			r.out = out
		}
	}
}

// WithPreviewRenderer sets the markup projected into the preview pane.
func WithPreviewRenderer(preview livesync.PreviewRenderer) Option {
	return func(r *Renderer) {
		if preview != nil {
			r.preview = preview
		}
	}
}

// WithSizeFunc overrides terminal size detection.
func WithSizeFunc(fn SizeFunc) Option {
	return func(r *Renderer) {
		if fn != nil {
			r.size = fn
		}
	}
}

// WithCellSize sets how many pixels one terminal cell stands for when
// deriving breakpoints. Non-positive values are ignored.
func WithCellSize(width, height float64) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.cellWidth = width
		}
		if height > 0 {
			r.cellHeight = height
		}
	}
}

// WithTheme applies custom styles.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
