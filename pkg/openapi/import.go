package openapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-settingsgen/pkg/model"
)

// ErrNotObject is returned when Import receives a schema that is not an
// object schema with properties.
var ErrNotObject = errors.New("openapi: settings schema must be an object with properties")

type fieldExtension struct {
	Kind       string `json:"kind"`
	Width      int    `json:"width"`
	Visibility string `json:"visibility"`
	Label      string `json:"label"`
	Notes      string `json:"notes"`
	Secret     bool   `json:"secret"`
}

// Import builds a Registry from an object schema produced by Export or
// written by hand. Property order follows x-settingsgen-order; properties it
// does not list are appended in name order. The version comes from
// x-settingsgen-version and defaults to 1.
func Import(schema *openapi3.Schema) (*model.Registry, error) {
	if schema == nil || len(schema.Properties) == 0 {
		return nil, ErrNotObject
	}
	if schema.Type != nil && !schema.Type.Is(openapi3.TypeObject) {
		return nil, ErrNotObject
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	fields := make([]model.FieldSpec, 0, len(schema.Properties))
	for _, name := range propertyOrder(schema) {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			return nil, fmt.Errorf("openapi: property %q has no schema", name)
		}
		spec, err := fieldFromProperty(name, ref.Value, required[name])
		if err != nil {
			return nil, err
		}
		fields = append(fields, spec)
	}

	return model.DefineVersion(versionFromExtensions(schema.Extensions), fields...)
}

func propertyOrder(schema *openapi3.Schema) []string {
	seen := make(map[string]bool, len(schema.Properties))
	var order []string
	if raw, ok := schema.Extensions[ExtensionOrder]; ok {
		var names []string
		if err := decodeExtension(raw, &names); err == nil {
			for _, name := range names {
				if _, declared := schema.Properties[name]; declared && !seen[name] {
					seen[name] = true
					order = append(order, name)
				}
			}
		}
	}

	var rest []string
	for name := range schema.Properties {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

func versionFromExtensions(ext map[string]any) int {
	raw, ok := ext[ExtensionVersion]
	if !ok {
		return 1
	}
	var version int
	if err := decodeExtension(raw, &version); err != nil || version < 1 {
		return 1
	}
	return version
}

func fieldFromProperty(name string, prop *openapi3.Schema, required bool) (model.FieldSpec, error) {
	var ext fieldExtension
	if raw, ok := prop.Extensions[ExtensionField]; ok {
		if err := decodeExtension(raw, &ext); err != nil {
			return model.FieldSpec{}, fmt.Errorf("openapi: property %q: decode %s: %w", name, ExtensionField, err)
		}
	}

	spec := model.FieldSpec{
		Name:        name,
		Kind:        model.Kind(ext.Kind),
		Required:    required,
		Label:       ext.Label,
		Description: prop.Description,
		Notes:       ext.Notes,
		Secret:      ext.Secret || prop.WriteOnly,
		Layout: model.Layout{
			Width:      ext.Width,
			Visibility: model.Visibility(ext.Visibility),
		},
	}
	if spec.Label == "" {
		spec.Label = prop.Title
	}
	if spec.Kind == "" {
		spec.Kind = inferKind(prop)
	}
	if spec.Layout.Visibility == "" && prop.ReadOnly {
		spec.Layout.Visibility = model.VisibilityLocked
	}

	if spec.Kind == model.KindSelect {
		for _, value := range prop.Enum {
			if choice, ok := value.(string); ok && choice != "" {
				spec.Choices = append(spec.Choices, choice)
			}
		}
	}
	if spec.Kind == model.KindInteger {
		spec.Min = boundFrom(prop.Min)
		spec.Max = boundFrom(prop.Max)
	}
	spec.Default = defaultFrom(spec.Kind, prop.Default)
	return spec, nil
}

func inferKind(prop *openapi3.Schema) model.Kind {
	switch {
	case prop.Type.Is(openapi3.TypeInteger):
		return model.KindInteger
	case prop.Type.Is(openapi3.TypeBoolean):
		return model.KindBoolean
	case prop.Format == "date" || prop.Pattern == datePattern:
		return model.KindDate
	case len(prop.Enum) > 0:
		return model.KindSelect
	default:
		return model.KindText
	}
}

func boundFrom(value *float64) *int64 {
	if value == nil || *value != math.Trunc(*value) {
		return nil
	}
	n := int64(*value)
	return &n
}

// defaultFrom maps decoded JSON defaults back onto the Go types Define
// expects. Integers arrive as float64.
func defaultFrom(kind model.Kind, value any) any {
	if value == nil {
		return nil
	}
	if kind == model.KindInteger {
		if n, ok := model.AsInt64(value); ok {
			return int(n)
		}
	}
	return value
}

// decodeExtension normalises an extension value through JSON so typed values
// set in process and generic maps read from a document decode the same way.
func decodeExtension(raw any, target any) error {
	if msg, ok := raw.(json.RawMessage); ok {
		return json.Unmarshal(msg, target)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}
