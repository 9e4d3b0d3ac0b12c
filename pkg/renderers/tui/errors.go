package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoPreviewRenderer is returned when a session has nothing to project.
	ErrNoPreviewRenderer = errors.New("tui: preview renderer is nil")
)
