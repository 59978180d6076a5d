package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNilSchema is returned when resolution is attempted without a registry.
var ErrNilSchema = errors.New("model: schema registry is required")

// SchemaIssue describes one problem found while defining a registry.
type SchemaIssue struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (i SchemaIssue) String() string {
	if i.Field == "" {
		return i.Message
	}
	return fmt.Sprintf("field %q: %s", i.Field, i.Message)
}

// SchemaError is returned by Define when the declared fields violate the
// registry invariants. Every violation found is reported.
type SchemaError struct {
	Issues []SchemaIssue
}

func (e *SchemaError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return "model: invalid schema"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return "model: invalid schema: " + strings.Join(parts, "; ")
}

// HasIssue reports whether an issue was recorded for field.
func (e *SchemaError) HasIssue(field string) bool {
	if e == nil {
		return false
	}
	for _, issue := range e.Issues {
		if issue.Field == field {
			return true
		}
	}
	return false
}

func (e *SchemaError) add(field, format string, args ...any) {
	e.Issues = append(e.Issues, SchemaIssue{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

func (e *SchemaError) orNil() error {
	if len(e.Issues) == 0 {
		return nil
	}
	return e
}
