package model

import (
	"strings"
	"unicode"

	"github.com/fatih/camelcase"
)

var initialisms = map[string]string{
	"id":   "ID",
	"url":  "URL",
	"api":  "API",
	"html": "HTML",
}

// DefaultLabeler converts a field name into a human-friendly label, e.g.
// "clientId" becomes "Client ID" and "date_since" becomes "Date Since".
func DefaultLabeler(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || unicode.IsSpace(r)
	})

	var segments []string
	for _, word := range words {
		for _, part := range camelcase.Split(word) {
			if part = strings.TrimSpace(part); part != "" {
				segments = append(segments, titleWord(part))
			}
		}
	}
	return strings.Join(segments, " ")
}

func titleWord(word string) string {
	lower := strings.ToLower(word)
	if initialism, ok := initialisms[lower]; ok {
		return initialism
	}
	runes := []rune(lower)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
