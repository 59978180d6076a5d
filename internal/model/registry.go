package model

// Registry is the ordered, immutable set of FieldSpecs for a module. It is
// safe for concurrent readers; nothing mutates it after Define returns.
type Registry struct {
	version int
	fields  []FieldSpec
	index   map[string]int
}

// Define builds a version 1 registry from the supplied fields.
func Define(fields ...FieldSpec) (*Registry, error) {
	return DefineVersion(1, fields...)
}

// DefineVersion builds a registry tagged with a schema version. Declaration
// order is preserved and defines rendering order.
func DefineVersion(version int, fields ...FieldSpec) (*Registry, error) {
	schemaErr := &SchemaError{}
	if version < 1 {
		schemaErr.add("", "version must be positive, got %d", version)
	}

	reg := &Registry{
		version: version,
		fields:  make([]FieldSpec, 0, len(fields)),
		index:   make(map[string]int, len(fields)),
	}

	for _, field := range fields {
		spec := normalizeSpec(field)
		validateSpec(spec, schemaErr)
		if spec.Name == "" {
			continue
		}
		if _, exists := reg.index[spec.Name]; exists {
			schemaErr.add(spec.Name, "duplicate field name")
			continue
		}
		reg.index[spec.Name] = len(reg.fields)
		reg.fields = append(reg.fields, spec)
	}

	if err := schemaErr.orNil(); err != nil {
		return nil, err
	}
	return reg, nil
}

// MustDefine panics when the fields do not form a valid registry. Useful for
// package-level schema declarations.
func MustDefine(version int, fields ...FieldSpec) *Registry {
	reg, err := DefineVersion(version, fields...)
	if err != nil {
		panic(err)
	}
	return reg
}

// Version returns the schema version the registry was defined with.
func (r *Registry) Version() int {
	if r == nil {
		return 0
	}
	return r.version
}

// Len returns the number of declared fields.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.fields)
}

// Lookup returns the FieldSpec declared under name.
func (r *Registry) Lookup(name string) (FieldSpec, bool) {
	if r == nil {
		return FieldSpec{}, false
	}
	idx, ok := r.index[name]
	if !ok {
		return FieldSpec{}, false
	}
	return r.fields[idx].clone(), true
}

// All returns the declared fields in declaration order. The slice is a copy.
func (r *Registry) All() []FieldSpec {
	if r == nil {
		return nil
	}
	out := make([]FieldSpec, len(r.fields))
	for i, spec := range r.fields {
		out[i] = spec.clone()
	}
	return out
}

// Names lists field names in declaration order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.fields))
	for i, spec := range r.fields {
		out[i] = spec.Name
	}
	return out
}

func normalizeSpec(spec FieldSpec) FieldSpec {
	spec = spec.clone()
	if spec.Layout.Width == 0 {
		spec.Layout.Width = MaxWidth
	}
	if spec.Layout.Visibility == "" {
		spec.Layout.Visibility = VisibilityVisible
	}
	return spec
}

func validateSpec(spec FieldSpec, schemaErr *SchemaError) {
	if spec.Name == "" {
		schemaErr.add("", "field name is required")
		return
	}
	if !spec.Kind.Valid() {
		schemaErr.add(spec.Name, "unknown kind %q", spec.Kind)
		return
	}
	if spec.Layout.Width < MinWidth || spec.Layout.Width > MaxWidth {
		schemaErr.add(spec.Name, "width %d outside %d..%d", spec.Layout.Width, MinWidth, MaxWidth)
	}
	if !spec.Layout.Visibility.Valid() {
		schemaErr.add(spec.Name, "unknown visibility %q", spec.Layout.Visibility)
	}

	if spec.Kind == KindSelect {
		if len(spec.Choices) == 0 {
			schemaErr.add(spec.Name, "select field requires choices")
		}
		seen := make(map[string]struct{}, len(spec.Choices))
		for _, choice := range spec.Choices {
			if _, dup := seen[choice]; dup {
				schemaErr.add(spec.Name, "duplicate choice %q", choice)
			}
			seen[choice] = struct{}{}
		}
		if def, ok := spec.Default.(string); ok && def != "" && !spec.HasChoice(def) {
			schemaErr.add(spec.Name, "default %q is not among choices", def)
			return
		}
	} else if len(spec.Choices) > 0 {
		schemaErr.add(spec.Name, "choices are only allowed on select fields")
	}

	if ok, msg := conforms(spec, spec.Default); !ok {
		schemaErr.add(spec.Name, "default: %s", msg)
	}

	if spec.Min != nil || spec.Max != nil {
		if spec.Kind != KindInteger {
			schemaErr.add(spec.Name, "min/max bounds are only allowed on integer fields")
		} else if spec.Min != nil && spec.Max != nil && *spec.Min > *spec.Max {
			schemaErr.add(spec.Name, "min %d greater than max %d", *spec.Min, *spec.Max)
		}
	}
}
