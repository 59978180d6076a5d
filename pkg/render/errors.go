package render

import (
	"strings"

	"github.com/goliatone/go-settingsgen/pkg/model"
)

// ErrorMapping splits a host validation payload into field-level and
// form-level messages keyed by field name.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors concatenates and normalises multiple form-level error
// slices, trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload maps a validation payload keyed by path (a field name, a
// JSON pointer such as "/body/clientId", or a dotted or bracketed path) onto
// the field names of the descriptors. Paths naming no field become form-level
// errors so messages are not lost.
func MapErrorPayload(descriptors model.Descriptors, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{
		Fields: make(map[string][]string),
	}
	if len(payload) == 0 {
		return mapping
	}

	fieldPaths := make(map[string]struct{}, len(descriptors))
	for _, name := range descriptors.Names() {
		if name = strings.TrimSpace(name); name != "" {
			fieldPaths[name] = struct{}{}
		}
	}

	for rawPath, messages := range payload {
		normalizedMessages := normalizeMessages(messages)
		if len(normalizedMessages) == 0 {
			continue
		}

		mapped, ok := fieldForPath(rawPath, fieldPaths)
		if !ok {
			mapping.Form = append(mapping.Form, normalizedMessages...)
			continue
		}
		mapping.Fields[mapped] = append(mapping.Fields[mapped], normalizedMessages...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// AdvisoryErrors converts resolution advisories into per-field messages in
// the shape RenderOptions.Errors expects. Fields without advisories are
// absent from the result.
func AdvisoryErrors(descriptors model.Descriptors) map[string][]string {
	out := make(map[string][]string)
	for _, adv := range descriptors.Advisories() {
		message := advisoryMessage(adv)
		out[adv.Field] = normalizeMessages(append(out[adv.Field], message))
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// MergeErrors combines field error maps, keeping message order and dropping
// duplicates per field.
func MergeErrors(sets ...map[string][]string) map[string][]string {
	out := make(map[string][]string)
	for _, set := range sets {
		for field, messages := range set {
			if merged := normalizeMessages(append(out[field], messages...)); len(merged) > 0 {
				out[field] = merged
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func advisoryMessage(adv model.Advisory) string {
	switch adv.Kind {
	case model.AdvisoryMissingRequired:
		return "This field is required."
	case model.AdvisoryTypeMismatch:
		return "The saved value is invalid: " + adv.Message
	default:
		return adv.Message
	}
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// fieldForPath returns the field a payload path points at. Settings are
// flat, so the deepest segment naming a field wins; wrapper segments such as
// "body" and array indexes never match a field and are passed over.
func fieldForPath(raw string, fields map[string]struct{}) (string, bool) {
	if isFormLevelKey(raw) {
		return "", false
	}
	segments := pathSegments(raw)
	for i := len(segments) - 1; i >= 0; i-- {
		if _, ok := fields[segments[i]]; ok {
			return segments[i], true
		}
	}
	return "", false
}

// pathSegments splits JSON pointer, dotted, and bracketed paths.
func pathSegments(path string) []string {
	path = strings.NewReplacer("[", ".", "]", "").Replace(path)
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '.' || r == '/' || r == '#' || r == '$'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
