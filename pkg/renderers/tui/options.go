package tui

import (
	"fmt"

	"github.com/goliatone/go-settingsgen/pkg/model"
)

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatYAML emits YAML, the format of the file store.
	OutputFormatYAML OutputFormat = "yaml"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// ParseOutputFormat validates a format name.
func ParseOutputFormat(name string) (OutputFormat, error) {
	switch format := OutputFormat(name); format {
	case OutputFormatJSON, OutputFormatYAML, OutputFormatPrettyText:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Theme captures optional formatting hints the driver can apply when printing
// messages. Keep minimal to avoid coupling renderer logic to ANSI specifics.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// SubmitTransformer mutates collected values before serialization.
type SubmitTransformer func(model.Record) (model.Record, error)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithSubmitTransformer allows callers to mutate collected values prior to
// serialization.
func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(r *Renderer) {
		r.submitTransformer = fn
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
