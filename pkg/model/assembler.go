package model

import "github.com/goliatone/go-settingsgen/internal/model"

// Assembler resolves saved records against a registry.
type Assembler interface {
	Resolve(schema *Registry, saved Record) (Descriptors, error)
}

// AssemblerOption configures the assembler behaviour.
type AssemblerOption func(*assemblerOptions)

type assemblerOptions struct {
	labeler    func(string) string
	decorators []Decorator
}

// WithLabeler overrides the default label generation function used for
// fields declared without a label.
func WithLabeler(labeler func(string) string) AssemblerOption {
	return func(opts *assemblerOptions) {
		opts.labeler = labeler
	}
}

// WithDecorators appends decorators that run after resolution.
func WithDecorators(decorators ...Decorator) AssemblerOption {
	return func(opts *assemblerOptions) {
		opts.decorators = append(opts.decorators, decorators...)
	}
}

// NewAssembler returns an Assembler backed by the internal implementation.
func NewAssembler(options ...AssemblerOption) Assembler {
	cfg := assemblerOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	internalOpts := model.Options{Decorators: cfg.decorators}
	if cfg.labeler != nil {
		internalOpts.Labeler = cfg.labeler
	}

	return model.NewAssembler(internalOpts)
}
