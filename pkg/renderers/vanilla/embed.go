package vanilla

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

//go:embed assets/*
var embeddedAssets embed.FS

const (
	// FormTemplate is the entry template, relative to the templates FS.
	FormTemplate = "templates/form.tmpl"
	// StylesheetName is the default stylesheet inside AssetsFS.
	StylesheetName = "settingsgen.css"
)

// TemplatesFS exposes the embedded template bundle for consumers that want to
// copy and restyle the settings form.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

// AssetsFS exposes the embedded stylesheet so hosts can serve it over HTTP.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}

func defaultStylesheet() string {
	data, err := fs.ReadFile(embeddedAssets, "assets/"+StylesheetName)
	if err != nil {
		return ""
	}
	return string(data)
}
