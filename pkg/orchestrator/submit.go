package orchestrator

import (
	"context"
	"fmt"
	"maps"
	"net/url"
	"strings"

	"github.com/goliatone/go-settingsgen/pkg/model"
	"github.com/goliatone/go-settingsgen/pkg/openapi"
	"github.com/goliatone/go-settingsgen/pkg/render"
)

// Result reports the outcome of Submit or Save.
type Result struct {
	// Record is the stored record merged with the submitted values, whether
	// or not it was saved. Pass it back through Request.Record to re-render.
	Record model.Record
	// Errors carries per-field messages keyed by field name.
	Errors map[string][]string
	// FormErrors carries messages not tied to a single field.
	FormErrors []string
	// Saved reports whether the submitted values reached the store.
	Saved bool
}

// Valid reports whether the submission passed validation.
func (r Result) Valid() bool {
	return len(r.Errors) == 0 && len(r.FormErrors) == 0
}

// Apply copies the result's errors into options for re-rendering the form.
func (r Result) Apply(options render.RenderOptions) render.RenderOptions {
	options.Errors = render.MergeErrors(options.Errors, r.Errors)
	options.FormErrors = render.MergeFormErrors(options.FormErrors, r.FormErrors...)
	return options
}

// Submit decodes a posted settings form and saves it when valid. A form
// rendered for another schema version is rejected without saving. Validation
// failures are reported through the Result; the error is reserved for store
// and schema failures.
func (o *Orchestrator) Submit(ctx context.Context, values url.Values) (Result, error) {
	if err := o.ready(ctx); err != nil {
		return Result{}, err
	}

	record, decodeErrs := render.DecodeForm(o.schema, values)

	if posted := strings.TrimSpace(values.Get(render.SchemaVersionKey)); posted != "" && posted != schemaVersionString(o.schema) {
		saved, err := o.store.Load(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("orchestrator: load settings: %w", err)
		}
		o.logger.Info().
			Str("posted", posted).
			Int("current", o.schema.Version()).
			Msg("stale settings form rejected")
		return Result{
			Record:     merge(saved, record),
			Errors:     decodeErrs,
			FormErrors: []string{ErrStaleSchema.Error()},
		}, nil
	}

	return o.save(ctx, record, decodeErrs, true)
}

// Save validates record merged over the stored record and saves it when
// valid. Only record's keys are written; stored keys it omits are kept.
// Unlike Submit, Save trusts the caller with locked and hidden fields.
func (o *Orchestrator) Save(ctx context.Context, record model.Record) (Result, error) {
	if err := o.ready(ctx); err != nil {
		return Result{}, err
	}
	return o.save(ctx, record, nil, false)
}

func (o *Orchestrator) save(ctx context.Context, record model.Record, errs map[string][]string, editableOnly bool) (Result, error) {
	saved, err := o.store.Load(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: load settings: %w", err)
	}

	update := record
	if editableOnly {
		// Transformers can lock or hide fields the schema leaves editable;
		// those keys are never taken from a submission.
		if update, err = o.editable(ctx, saved, record); err != nil {
			return Result{}, err
		}
	}

	result := Result{Record: merge(saved, update)}

	// Validate what the next render would resolve, so absent fields that
	// fall back to a valid default pass.
	descriptors := model.Resolve(o.schema, result.Record)
	resolved := descriptors.Values()
	fieldErrs := make(map[string][]string)
	for _, issue := range openapi.ValidateRecord(o.schema, resolved) {
		if _, decoded := errs[issue.Field]; decoded {
			continue
		}
		fieldErrs[issue.Field] = append(fieldErrs[issue.Field], issue.Message)
	}

	// Record validators only see values that passed the field checks.
	if len(errs) == 0 && len(fieldErrs) == 0 {
		for _, v := range o.validators {
			mapped := render.MapErrorPayload(descriptors, v.Validate(ctx, o.schema, resolved))
			fieldErrs = render.MergeErrors(fieldErrs, mapped.Fields)
			result.FormErrors = render.MergeFormErrors(result.FormErrors, mapped.Form...)
		}
	}
	result.Errors = render.MergeErrors(errs, fieldErrs)

	if !result.Valid() {
		o.logger.Debug().Int("fields", len(result.Errors)).Msg("settings rejected")
		return result, nil
	}

	if err := o.store.Save(ctx, update); err != nil {
		return result, fmt.Errorf("orchestrator: save settings: %w", err)
	}
	result.Saved = true
	o.logger.Info().Int("keys", len(update)).Msg("settings saved")
	return result, nil
}

func (o *Orchestrator) editable(ctx context.Context, saved, record model.Record) (model.Record, error) {
	descriptors, err := o.resolve(ctx, saved)
	if err != nil {
		return nil, err
	}
	out := make(model.Record, len(record))
	for _, desc := range descriptors {
		value, ok := record[desc.Name()]
		if !ok || !desc.Spec.Layout.Visibility.Editable() {
			continue
		}
		out[desc.Name()] = value
	}
	return out, nil
}

func merge(saved, update model.Record) model.Record {
	out := make(model.Record, len(saved)+len(update))
	maps.Copy(out, saved)
	maps.Copy(out, update)
	return out
}
