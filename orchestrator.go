// Package settingsgen renders and saves the settings form of the Facebook
// page events integration from a declarative schema. The root package
// re-exports the common entry points; see pkg/orchestrator for the full
// pipeline and pkg/model for schema declaration.
package settingsgen

import (
	"context"
	"net/url"

	"github.com/goliatone/go-settingsgen/pkg/orchestrator"
	"github.com/goliatone/go-settingsgen/pkg/render"
)

// RenderOptions describes per-request overrides that renderers can use to
// surface server-side validation errors or theme the form.
type RenderOptions = render.RenderOptions

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// Result aliases orchestrator.Result.
type Result = orchestrator.Result

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML resolves the stored settings and renders them with the
// vanilla renderer. It is the simplest entry point for callers that just
// want HTML output.
func GenerateHTML(ctx context.Context, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{RenderOptions: opts})
}

// SubmitForm decodes, validates, and saves a posted settings form.
func SubmitForm(ctx context.Context, values url.Values, options ...orchestrator.Option) (Result, error) {
	gen := orchestrator.New(options...)
	return gen.Submit(ctx, values)
}
