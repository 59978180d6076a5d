package openapi

import (
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-settingsgen/pkg/model"
)

// Issue reports one field of a record that fails the exported schema.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Field, i.Message)
}

// ValidateRecord checks record against the exported schema. Required fields
// must be present and non-empty; absent optional fields and undeclared keys
// are not reported. Issues follow declaration order.
func ValidateRecord(schema *model.Registry, record model.Record) []Issue {
	exported := Export(schema)
	if exported == nil {
		return nil
	}

	var issues []Issue
	for _, spec := range schema.All() {
		value, ok := record[spec.Name]
		if spec.Required && (!ok || model.IsEmpty(value)) {
			issues = append(issues, Issue{Field: spec.Name, Message: "value is required"})
			continue
		}
		if !ok || value == nil {
			continue
		}

		ref := exported.Properties[spec.Name]
		if ref == nil || ref.Value == nil {
			continue
		}
		if err := ref.Value.VisitJSON(jsonValue(spec.Kind, value)); err != nil {
			issues = append(issues, Issue{Field: spec.Name, Message: issueMessage(err)})
		}
	}
	return issues
}

func issueMessage(err error) string {
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) && schemaErr.Reason != "" {
		return schemaErr.Reason
	}
	return err.Error()
}
