// Package template defines the renderer-agnostic template seam. Renderers
// depend on TemplateRenderer; the pongo subpackage provides the pongo2-backed
// implementation.
package template
