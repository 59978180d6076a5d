// Package orchestrator wires the schema → store → assembler → renderer
// pipeline behind a single entry point. Generate renders the settings form
// for the saved record; Submit and Save run the reverse path, validating a
// submission before merging it into the store. Validation checks each field
// against the exported OpenAPI schema, then runs the record validators (the
// Facebook events date range plus any WithValidators adds).
package orchestrator
