package orchestrator

import (
	"context"

	"github.com/goliatone/go-settingsgen/pkg/fbevents"
	"github.com/goliatone/go-settingsgen/pkg/model"
)

// Validator checks the resolved values a submission would leave in the store,
// after the per-field schema checks passed. It returns messages keyed by
// path: a field name, a JSON pointer, or a dotted path. Paths that name no
// field are reported as form errors. A nil result means valid.
type Validator interface {
	Validate(ctx context.Context, schema *model.Registry, values model.Record) map[string][]string
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(ctx context.Context, schema *model.Registry, values model.Record) map[string][]string

// Validate implements Validator.
func (fn ValidatorFunc) Validate(ctx context.Context, schema *model.Registry, values model.Record) map[string][]string {
	if fn == nil {
		return nil
	}
	return fn(ctx, schema, values)
}

// rangeValidator runs the Facebook events cross-field checks. Schemas without
// the date fields pass untouched.
var rangeValidator = ValidatorFunc(func(_ context.Context, _ *model.Registry, values model.Record) map[string][]string {
	return fbevents.CheckRecord(values)
})
