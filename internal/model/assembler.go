package model

import "fmt"

// Assembler turns a Registry plus a saved Record into render-ready
// descriptors.
type Assembler struct {
	opts Options
}

// NewAssembler creates an Assembler with the supplied options.
func NewAssembler(options Options) *Assembler {
	opts := defaultOptions()
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	}
	opts.Decorators = append(opts.Decorators, options.Decorators...)
	return &Assembler{opts: opts}
}

// Resolve applies the defaulting rule to every field, fills empty labels, then
// runs the configured decorators. Advisories never produce an error; only a
// nil schema or a failing decorator does.
func (a *Assembler) Resolve(schema *Registry, saved Record) (Descriptors, error) {
	if schema == nil {
		return nil, ErrNilSchema
	}

	descriptors := Resolve(schema, saved)
	for i := range descriptors {
		if descriptors[i].Spec.Label == "" && a.opts.Labeler != nil {
			descriptors[i].Spec.Label = a.opts.Labeler(descriptors[i].Spec.Name)
		}
	}

	for _, decorator := range a.opts.Decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(descriptors); err != nil {
			return nil, fmt.Errorf("model: decorate descriptors: %w", err)
		}
	}
	return descriptors, nil
}

// Resolve produces one descriptor per declared field, in declaration order.
// Saved values win over defaults and are passed through verbatim; keys in
// saved that the schema does not declare are ignored. saved is never
// modified.
func Resolve(schema *Registry, saved Record) Descriptors {
	if schema == nil {
		return nil
	}

	out := make(Descriptors, 0, len(schema.fields))
	for _, spec := range schema.fields {
		out = append(out, resolveField(spec.clone(), saved))
	}
	return out
}

func resolveField(spec FieldSpec, saved Record) FieldDescriptor {
	desc := FieldDescriptor{Spec: spec}

	if value, ok := saved[spec.Name]; ok {
		desc.Value = value
		if match, msg := conforms(spec, value); !match {
			desc.Advisories = append(desc.Advisories, Advisory{
				Kind:    AdvisoryTypeMismatch,
				Field:   spec.Name,
				Message: msg,
			})
		}
	} else {
		desc.Value = spec.Default
		desc.Defaulted = true
	}

	if spec.Required && IsEmpty(desc.Value) {
		desc.Missing = true
		desc.Advisories = append(desc.Advisories, Advisory{
			Kind:    AdvisoryMissingRequired,
			Field:   spec.Name,
			Message: "required value is missing",
		})
	}
	return desc
}
