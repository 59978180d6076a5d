package render

import (
	"errors"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ErrMissingTranslator is passed to MissingTranslationHandler when a
// translation key is present but no Translator was configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function into a Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate calls the underlying function.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler returns the string used when a key cannot be
// translated. params carries a map with the declared text under "default".
type MissingTranslationHandler func(locale, key string, params []any, err error) string

func missingTranslationDefault(_ string, key string, params []any, _ error) string {
	for _, param := range params {
		values, ok := param.(map[string]any)
		if !ok {
			continue
		}
		if fallback, ok := values["default"].(string); ok && strings.TrimSpace(fallback) != "" {
			return fallback
		}
	}
	return key
}

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching the schema or the saved record.
type RenderOptions struct {
	// Action is the URL the rendered form submits to.
	Action string
	// Method overrides the default POST. Renderers translate verbs browsers
	// cannot submit (PATCH/PUT/DELETE) into POST plus a hidden _method input.
	Method string
	// Errors surfaces server-side validation feedback keyed by field name.
	// Messages are rendered next to the field they belong to.
	Errors map[string][]string
	// FormErrors are messages that do not belong to a single field.
	FormErrors []string
	// HiddenFields are emitted as hidden inputs (CSRF tokens, versions).
	HiddenFields map[string]string
	// Locale and Translator drive Localize. Without a Translator the declared
	// labels are used verbatim.
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
	// Theme carries the resolved go-theme selection; renderers expose its
	// tokens as CSS variables.
	Theme *theme.RendererConfig
}
