package model

import internalmodel "github.com/goliatone/go-settingsgen/internal/model"

// Kind re-exports the internal Kind enumeration.
type Kind = internalmodel.Kind

const (
	KindText    = internalmodel.KindText
	KindInteger = internalmodel.KindInteger
	KindDate    = internalmodel.KindDate
	KindBoolean = internalmodel.KindBoolean
	KindSelect  = internalmodel.KindSelect
)

// Visibility re-exports the internal Visibility enumeration.
type Visibility = internalmodel.Visibility

const (
	VisibilityVisible   = internalmodel.VisibilityVisible
	VisibilityCollapsed = internalmodel.VisibilityCollapsed
	VisibilityLocked    = internalmodel.VisibilityLocked
	VisibilityHidden    = internalmodel.VisibilityHidden
)

const (
	AdvisoryTypeMismatch    = internalmodel.AdvisoryTypeMismatch
	AdvisoryMissingRequired = internalmodel.AdvisoryMissingRequired

	DateLayout = internalmodel.DateLayout
	MinWidth   = internalmodel.MinWidth
	MaxWidth   = internalmodel.MaxWidth
)

type Layout = internalmodel.Layout
type FieldSpec = internalmodel.FieldSpec
type Registry = internalmodel.Registry
type Record = internalmodel.Record
type AdvisoryKind = internalmodel.AdvisoryKind
type Advisory = internalmodel.Advisory
type FieldDescriptor = internalmodel.FieldDescriptor
type Descriptors = internalmodel.Descriptors
type SchemaError = internalmodel.SchemaError
type SchemaIssue = internalmodel.SchemaIssue

// ErrNilSchema is returned when resolution is attempted without a registry.
var ErrNilSchema = internalmodel.ErrNilSchema

// Define builds a version 1 registry, failing with *SchemaError on duplicate
// names, select defaults outside their choices, or malformed declarations.
func Define(fields ...FieldSpec) (*Registry, error) {
	return internalmodel.Define(fields...)
}

// DefineVersion builds a registry tagged with a schema version.
func DefineVersion(version int, fields ...FieldSpec) (*Registry, error) {
	return internalmodel.DefineVersion(version, fields...)
}

// MustDefine panics when the declaration is invalid.
func MustDefine(version int, fields ...FieldSpec) *Registry {
	return internalmodel.MustDefine(version, fields...)
}

// Resolve applies the defaulting rule without labels or decorators.
func Resolve(schema *Registry, saved Record) Descriptors {
	return internalmodel.Resolve(schema, saved)
}

// AsInt64 converts integral numeric values to int64.
func AsInt64(value any) (int64, bool) {
	return internalmodel.AsInt64(value)
}

// IsEmpty reports whether a value counts as "not set".
func IsEmpty(value any) bool {
	return internalmodel.IsEmpty(value)
}

// DefaultLabeler derives a human label from a field name.
func DefaultLabeler(name string) string {
	return internalmodel.DefaultLabeler(name)
}
