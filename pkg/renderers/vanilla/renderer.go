package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-settingsgen/pkg/model"
	"github.com/goliatone/go-settingsgen/pkg/render"
	rendertemplate "github.com/goliatone/go-settingsgen/pkg/render/template"
	"github.com/goliatone/go-settingsgen/pkg/render/template/pongo"
)

// Name is the registry name of the renderer.
const Name = "vanilla"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	stylesheets      []string
	inlineStyles     bool
	advisoryErrors   bool
	submitLabel      string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. The bundle
// must provide FormTemplate.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithStylesheet links an external stylesheet ahead of the form.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		if href = strings.TrimSpace(href); href != "" {
			cfg.stylesheets = append(cfg.stylesheets, href)
		}
	}
}

// WithDefaultStyles inlines the embedded stylesheet.
func WithDefaultStyles() Option {
	return func(cfg *config) {
		cfg.inlineStyles = true
	}
}

// WithAdvisoryErrors renders resolution advisories (missing required values,
// malformed saved values) as field errors, next to RenderOptions.Errors.
func WithAdvisoryErrors() Option {
	return func(cfg *config) {
		cfg.advisoryErrors = true
	}
}

// WithSubmitLabel overrides the submit button text.
func WithSubmitLabel(label string) Option {
	return func(cfg *config) {
		cfg.submitLabel = strings.TrimSpace(label)
	}
}

// Renderer renders descriptors into a plain HTML form that works without
// JavaScript.
type Renderer struct {
	templates      rendertemplate.TemplateRenderer
	stylesheets    []string
	inlineStyles   string
	advisoryErrors bool
	submitLabel    string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), submitLabel: "Save Changes"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	out := &Renderer{
		templates:      renderer,
		stylesheets:    cfg.stylesheets,
		advisoryErrors: cfg.advisoryErrors,
		submitLabel:    cfg.submitLabel,
	}
	if cfg.inlineStyles {
		out.inlineStyles = defaultStylesheet()
	}
	return out, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render localises a copy of the descriptors, builds the view and executes
// FormTemplate. Hidden fields are not rendered.
func (r *Renderer) Render(ctx context.Context, descriptors model.Descriptors, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	localized := make(model.Descriptors, len(descriptors))
	copy(localized, descriptors)
	if options.Translator != nil {
		render.Localize(localized, options)
	}

	errs := options.Errors
	if r.advisoryErrors {
		errs = render.MergeErrors(render.AdvisoryErrors(localized), options.Errors)
	}

	result, err := r.templates.RenderTemplate(FormTemplate, map[string]any{
		"form":          r.buildForm(options),
		"fields":        buildFields(localized, errs, options),
		"theme":         buildThemeContext(options.Theme),
		"stylesheets":   r.stylesheets,
		"inline_styles": r.inlineStyles,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) buildForm(options render.RenderOptions) formView {
	method, override := formMethod(options.Method)
	hidden := options.HiddenFields
	if override != "" {
		hidden = render.MergeHiddenFields(hidden, render.Hidden("_method", override))
	}

	view := formView{
		Action:      strings.TrimSpace(options.Action),
		Method:      method,
		Errors:      render.MergeFormErrors(options.FormErrors),
		SubmitLabel: r.submitLabel,
	}
	for _, field := range render.SortedHiddenFields(hidden) {
		view.Hidden = append(view.Hidden, hiddenView{Name: field.Name, Value: field.Value})
	}
	return view
}

// formMethod maps a requested method onto what an HTML form can submit,
// returning the verb for the _method override when needed.
func formMethod(method string) (string, string) {
	switch upper := strings.ToUpper(strings.TrimSpace(method)); upper {
	case "", "POST":
		return "post", ""
	case "GET":
		return "get", ""
	default:
		return "post", upper
	}
}
