// Package model exposes the declarative settings schema: FieldSpec
// declarations collected into an immutable Registry, and the Assembler that
// resolves a saved Record against it. Resolution applies a single defaulting
// rule (saved value if present, else the declared default) and reports
// per-field advisories (type mismatches, missing required values) on the
// returned descriptors instead of failing. Implementations live in
// internal/model; this package re-exports the types.
package model
