package openapi

import (
	"strconv"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-settingsgen/pkg/model"
)

const (
	// ExtensionField holds per-property presentation metadata.
	ExtensionField = "x-settingsgen"
	// ExtensionOrder lists property names in declaration order.
	ExtensionOrder = "x-settingsgen-order"
	// ExtensionVersion carries the schema version on the object schema.
	ExtensionVersion = "x-settingsgen-version"

	// DefaultComponent is the components.schemas key used by Document and
	// Loader.
	DefaultComponent = "Settings"

	datePattern = `^([0-9]{4}-[0-9]{2}-[0-9]{2})?$`
)

// Export describes schema as an OpenAPI object schema. A nil schema yields
// nil.
func Export(schema *model.Registry) *openapi3.Schema {
	if schema == nil {
		return nil
	}

	out := openapi3.NewObjectSchema()
	out.Extensions = map[string]any{
		ExtensionOrder:   schema.Names(),
		ExtensionVersion: schema.Version(),
	}
	for _, spec := range schema.All() {
		out.Properties[spec.Name] = openapi3.NewSchemaRef("", propertySchema(spec))
		if spec.Required {
			out.Required = append(out.Required, spec.Name)
		}
	}
	return out
}

// Document wraps Export in a minimal OpenAPI 3 document with the schema
// registered under components.schemas[DefaultComponent].
func Document(schema *model.Registry, title string) *openapi3.T {
	if title == "" {
		title = "Settings"
	}
	version := 1
	if schema != nil {
		version = schema.Version()
	}
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   title,
			Version: strconv.Itoa(version),
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{},
		},
	}
	if exported := Export(schema); exported != nil {
		doc.Components.Schemas[DefaultComponent] = openapi3.NewSchemaRef("", exported)
	}
	return doc
}

func propertySchema(spec model.FieldSpec) *openapi3.Schema {
	var prop *openapi3.Schema
	switch spec.Kind {
	case model.KindInteger:
		prop = openapi3.NewIntegerSchema()
		if spec.Min != nil {
			prop = prop.WithMin(float64(*spec.Min))
		}
		if spec.Max != nil {
			prop = prop.WithMax(float64(*spec.Max))
		}
	case model.KindBoolean:
		prop = openapi3.NewBoolSchema()
	case model.KindDate:
		prop = openapi3.NewStringSchema().WithPattern(datePattern)
	case model.KindSelect:
		prop = openapi3.NewStringSchema()
		enum := make([]any, 0, len(spec.Choices)+1)
		for _, choice := range spec.Choices {
			enum = append(enum, choice)
		}
		if !spec.Required {
			enum = append(enum, "")
		}
		prop = prop.WithEnum(enum...)
	default:
		prop = openapi3.NewStringSchema()
	}

	prop.Title = spec.Label
	prop.Description = spec.Description
	prop.Nullable = !spec.Required
	if value := jsonValue(spec.Kind, spec.Default); value != nil {
		prop.Default = value
	}

	switch {
	case !spec.Layout.Visibility.Editable():
		prop.ReadOnly = true
	case spec.Secret:
		prop.WriteOnly = true
	}

	ext := map[string]any{
		"kind":       string(spec.Kind),
		"width":      spec.Layout.Width,
		"visibility": string(spec.Layout.Visibility),
	}
	if spec.Label != "" {
		ext["label"] = spec.Label
	}
	if spec.Notes != "" {
		ext["notes"] = spec.Notes
	}
	if spec.Secret {
		ext["secret"] = true
	}
	prop.Extensions = map[string]any{ExtensionField: ext}
	return prop
}

// jsonValue converts value to the shape encoding/json would decode it into,
// which is what kin-openapi validates against.
func jsonValue(kind model.Kind, value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format(model.DateLayout)
	}
	if kind == model.KindInteger {
		if n, ok := model.AsInt64(value); ok {
			return float64(n)
		}
	}
	return value
}
