package render

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-settingsgen/pkg/model"
)

// SchemaVersionKey is the hidden input carrying the schema version a form
// was rendered against.
const SchemaVersionKey = "_schema_version"

// HiddenField represents a hidden form input emitted alongside the settings
// fields. Use the helpers (CSRFToken, SchemaVersion) to add common fields
// without repeating boilerplate.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken constructs a hidden field carrying the provided token. Callers
// supply the input name to match their backend expectations (for example,
// "_csrf" or "csrf_token").
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// AuthToken constructs a hidden field carrying an authentication token or
// session hint.
func AuthToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// SchemaVersion constructs the hidden field that records which registry
// version rendered the form.
func SchemaVersion(schema *model.Registry) HiddenField {
	return Hidden(SchemaVersionKey, schema.Version())
}

// MergeHiddenFields returns a copy of base with the provided fields applied.
// Empty names are ignored; later fields win on name collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	if len(base) == 0 && len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		out[name] = field.Value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields normalises and sorts hidden fields for deterministic
// rendering. Empty names are dropped.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	if len(fields) == 0 {
		return nil
	}

	clean := make(map[string]string, len(fields))
	for name, value := range fields {
		key := strings.TrimSpace(name)
		if key == "" {
			continue
		}
		clean[key] = value
	}
	if len(clean) == 0 {
		return nil
	}

	names := make([]string, 0, len(clean))
	for name := range clean {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{
			Name:  name,
			Value: clean[name],
		})
	}
	return result
}

// DecodeForm converts a submitted HTML form into a Record typed per field
// kind. Only editable fields are read; locked and hidden fields are filled by
// the host, never by the browser. Keys absent from the submission are absent
// from the record so a merging store keeps their saved values, except
// booleans: an unchecked checkbox is not submitted and decodes to false.
// An empty input decodes to nil (explicitly cleared), except for secrets:
// renderers never echo a saved secret, so an empty secret input means "keep".
//
// Values that cannot be converted are reported per field and left out of the
// record.
func DecodeForm(schema *model.Registry, values url.Values) (model.Record, map[string][]string) {
	record := make(model.Record)
	errs := make(map[string][]string)

	for _, spec := range schema.All() {
		if !spec.Layout.Visibility.Editable() {
			continue
		}
		raw, present := values[spec.Name]
		if spec.Kind == model.KindBoolean {
			record[spec.Name] = present && parseCheckbox(raw)
			continue
		}
		if !present {
			continue
		}
		trimmed := strings.TrimSpace(lastValue(raw))
		if spec.Secret && trimmed == "" {
			continue
		}

		value, err := decodeFormValue(spec, trimmed)
		if err != nil {
			errs[spec.Name] = append(errs[spec.Name], err.Error())
			continue
		}
		record[spec.Name] = value
	}

	if len(errs) == 0 {
		errs = nil
	}
	return record, errs
}

func decodeFormValue(spec model.FieldSpec, raw string) (any, error) {
	if raw == "" {
		if spec.Kind == model.KindText {
			return "", nil
		}
		return nil, nil
	}

	switch spec.Kind {
	case model.KindInteger:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a whole number", raw)
		}
		if spec.Min != nil && n < *spec.Min {
			return nil, fmt.Errorf("must be at least %d", *spec.Min)
		}
		if spec.Max != nil && n > *spec.Max {
			return nil, fmt.Errorf("must be at most %d", *spec.Max)
		}
		return n, nil
	case model.KindDate:
		if _, err := time.Parse(model.DateLayout, raw); err != nil {
			return nil, fmt.Errorf("%q is not a date (YYYY-MM-DD)", raw)
		}
		return raw, nil
	case model.KindSelect:
		if !spec.HasChoice(raw) {
			return nil, fmt.Errorf("%q is not an allowed option", raw)
		}
		return raw, nil
	default:
		return raw, nil
	}
}

func parseCheckbox(raw []string) bool {
	switch strings.ToLower(strings.TrimSpace(lastValue(raw))) {
	case "", "0", "false", "off", "no":
		return false
	default:
		return true
	}
}

func lastValue(raw []string) string {
	if len(raw) == 0 {
		return ""
	}
	return raw[len(raw)-1]
}
