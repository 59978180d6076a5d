package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/goliatone/go-settingsgen/internal/logger"
	"github.com/goliatone/go-settingsgen/pkg/fbevents"
	"github.com/goliatone/go-settingsgen/pkg/model"
	"github.com/goliatone/go-settingsgen/pkg/openapi"
	"github.com/goliatone/go-settingsgen/pkg/render"
	"github.com/goliatone/go-settingsgen/pkg/renderers/vanilla"
	"github.com/goliatone/go-settingsgen/pkg/store"
)

const defaultRendererName = vanilla.Name

// ErrStaleSchema is reported as a form error when a submission was rendered
// against a different schema version than the one now in use.
var ErrStaleSchema = errors.New("orchestrator: form was rendered for another schema version")

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithSchema pins the schema registry. Defaults to the current fbevents
// schema when neither WithSchema nor WithSchemaSource is given.
func WithSchema(schema *model.Registry) Option {
	return func(o *Orchestrator) {
		o.schema = schema
	}
}

// WithSchemaSource loads the schema from an OpenAPI document on first use.
// A nil loader uses openapi.NewLoader().
func WithSchemaSource(src openapi.Source, loader *openapi.Loader) Option {
	return func(o *Orchestrator) {
		o.source = src
		o.loader = loader
	}
}

// WithStore injects the settings store. Defaults to an empty memory store.
func WithStore(s store.Store) Option {
	return func(o *Orchestrator) {
		o.store = s
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithLabeler overrides the label generated for fields declared without one.
func WithLabeler(labeler func(string) string) Option {
	return func(o *Orchestrator) {
		o.labeler = labeler
	}
}

// WithSchemaTransformer registers a Transformer that patches descriptors
// after resolution but before decorators run.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithDecorators registers decorators that run against the resolved
// descriptors before rendering.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(o *Orchestrator) {
		if len(decorators) == 0 {
			return
		}
		o.decorators = append(o.decorators, decorators...)
	}
}

// WithValidators adds record validators that run on Submit and Save after
// the per-field schema checks. The date range check always runs first.
func WithValidators(validators ...Validator) Option {
	return func(o *Orchestrator) {
		for _, v := range validators {
			if v != nil {
				o.validators = append(o.validators, v)
			}
		}
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = l
	}
}

// Orchestrator coordinates the full pipeline from schema and saved record to
// rendered output and back. It applies sensible defaults (fbevents schema,
// memory store, vanilla renderer) while remaining open to dependency
// injection for advanced callers.
type Orchestrator struct {
	schema          *model.Registry
	source          openapi.Source
	loader          *openapi.Loader
	store           store.Store
	registry        *render.Registry
	defaultRenderer string
	labeler         func(string) string
	transformer     Transformer
	decorators      []model.Decorator
	validators      []Validator
	logger          *logger.Logger
	initialiseErr   error

	// schemaMu guards the lazy load from source.
	schemaMu sync.Mutex
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs required to render the settings form.
type Request struct {
	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// Record replaces the stored record, e.g. to re-render a rejected
	// submission with the values the user typed. Nil reads the store.
	Record model.Record

	// RenderOptions carries per-request instructions such as the form action,
	// server-side errors, or the theme. The schema version hidden field is
	// always added.
	RenderOptions render.RenderOptions
}

// Schema returns the active registry, loading it from the configured source
// on first use. Only a successful load is kept; a failed one is retried by
// the next call.
func (o *Orchestrator) Schema(ctx context.Context) (*model.Registry, error) {
	if o.source == nil {
		return o.schema, nil
	}

	o.schemaMu.Lock()
	defer o.schemaMu.Unlock()

	if o.schema != nil {
		return o.schema, nil
	}
	loaded, err := o.loader.Load(ctx, o.source)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: load schema: %w", err)
	}
	o.schema = loaded
	o.logger.Debug().
		Str("source", o.source.Location()).
		Int("version", loaded.Version()).
		Int("fields", loaded.Len()).
		Msg("schema loaded")
	return o.schema, nil
}

// Resolve loads the saved record and resolves it against the schema, running
// the transformer and decorators.
func (o *Orchestrator) Resolve(ctx context.Context) (model.Descriptors, error) {
	if err := o.ready(ctx); err != nil {
		return nil, err
	}
	saved, err := o.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: load settings: %w", err)
	}
	return o.resolve(ctx, saved)
}

// Generate executes the store → assembler → renderer sequence and returns the
// rendered bytes (HTML for the default vanilla renderer).
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if err := o.ready(ctx); err != nil {
		return nil, err
	}

	saved := req.Record
	if saved == nil {
		var err error
		if saved, err = o.store.Load(ctx); err != nil {
			return nil, fmt.Errorf("orchestrator: load settings: %w", err)
		}
	}

	descriptors, err := o.resolve(ctx, saved)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	options := req.RenderOptions
	options.HiddenFields = render.MergeHiddenFields(options.HiddenFields, render.SchemaVersion(o.schema))

	output, err := renderer.Render(ctx, descriptors, options)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}

	o.logger.Debug().
		Str("renderer", renderer.Name()).
		Int("advisories", len(descriptors.Advisories())).
		Msg("form generated")
	return output, nil
}

func (o *Orchestrator) ready(ctx context.Context) error {
	if ctx == nil {
		return errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if o.initialiseErr != nil {
		return o.initialiseErr
	}
	schema, err := o.Schema(ctx)
	if err != nil {
		return err
	}
	if schema == nil {
		return model.ErrNilSchema
	}
	return nil
}

func (o *Orchestrator) resolve(ctx context.Context, saved model.Record) (model.Descriptors, error) {
	decorators := make([]model.Decorator, 0, len(o.decorators)+1)
	if o.transformer != nil {
		decorators = append(decorators, model.DecoratorFunc(func(ds model.Descriptors) error {
			if err := o.transformer.Transform(ctx, ds); err != nil {
				return fmt.Errorf("orchestrator: transform descriptors: %w", err)
			}
			return nil
		}))
	}
	decorators = append(decorators, o.decorators...)

	opts := []model.AssemblerOption{model.WithDecorators(decorators...)}
	if o.labeler != nil {
		opts = append(opts, model.WithLabeler(o.labeler))
	}

	descriptors, err := model.NewAssembler(opts...).Resolve(o.schema, saved)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: resolve settings: %w", err)
	}
	return descriptors, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.Names()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	o.logger = logger.OrNop(o.logger).Component("orchestrator")

	if o.source != nil {
		// The source replaces any pinned schema.
		o.schema = nil
		if o.loader == nil {
			o.loader = openapi.NewLoader()
		}
	} else if o.schema == nil {
		o.schema = fbevents.Schema()
	}
	o.validators = append([]Validator{rangeValidator}, o.validators...)
	if o.store == nil {
		o.store = store.NewMemory(nil)
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}

func schemaVersionString(schema *model.Registry) string {
	return strconv.Itoa(schema.Version())
}
