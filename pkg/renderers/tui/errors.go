package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoDriver is returned when the renderer has no prompt driver.
	ErrNoDriver = errors.New("tui: prompt driver is nil")
	// ErrUnknownFormat is returned for an unsupported OutputFormat.
	ErrUnknownFormat = errors.New("tui: unknown output format")
)
