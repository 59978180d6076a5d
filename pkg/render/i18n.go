package render

import (
	"strings"

	"github.com/goliatone/go-settingsgen/pkg/model"
)

const (
	labelKeySuffix       = ".label"
	descriptionKeySuffix = ".description"
	notesKeySuffix       = ".notes"
	choiceKeyInfix       = ".choices."
)

// Localize translates descriptor labels, descriptions and notes in place.
// Keys are derived from the field name ("clientId.label",
// "clientId.description", "clientId.notes"); the declared text is the
// fallback passed to opts.OnMissing.
//
// This is best-effort: translation failures never abort rendering.
func Localize(descriptors model.Descriptors, opts RenderOptions) {
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}

	for i := range descriptors {
		localizeDescriptor(&descriptors[i], opts.Locale, opts.Translator, onMissing)
	}
}

// LocalizeDecorator returns a Decorator that runs Localize after resolution,
// so hosts can localise once through the Assembler instead of per renderer.
func LocalizeDecorator(opts RenderOptions) model.Decorator {
	return model.DecoratorFunc(func(descriptors model.Descriptors) error {
		Localize(descriptors, opts)
		return nil
	})
}

// ChoiceLabel returns the translated label of a select choice, keyed as
// "<field>.choices.<choice>". The choice itself is the fallback.
func ChoiceLabel(field, choice string, opts RenderOptions) string {
	if opts.Translator == nil {
		return choice
	}
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	return translate(opts.Locale, field+choiceKeyInfix+choice, choice, opts.Translator, onMissing)
}

func localizeDescriptor(desc *model.FieldDescriptor, locale string, t Translator, onMissing MissingTranslationHandler) {
	name := strings.TrimSpace(desc.Spec.Name)
	if name == "" || t == nil {
		return
	}

	desc.Spec.Label = translate(locale, name+labelKeySuffix, strings.TrimSpace(desc.Spec.Label), t, onMissing)
	if desc.Spec.Description != "" {
		desc.Spec.Description = translate(locale, name+descriptionKeySuffix, strings.TrimSpace(desc.Spec.Description), t, onMissing)
	}
	if desc.Spec.Notes != "" {
		desc.Spec.Notes = translate(locale, name+notesKeySuffix, strings.TrimSpace(desc.Spec.Notes), t, onMissing)
	}
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}

	if t == nil {
		if onMissing != nil {
			return onMissing(locale, key, []any{map[string]any{"default": fallback}}, ErrMissingTranslator)
		}
		if strings.TrimSpace(fallback) != "" {
			return fallback
		}
		return key
	}

	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}

	if onMissing != nil {
		return onMissing(locale, key, []any{map[string]any{"default": fallback}}, err)
	}
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}
