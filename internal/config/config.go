// Package config assembles settingsgen CLI configuration from built-in
// defaults, an optional YAML file, SETTINGSGEN_* environment variables, and
// command-line flags, in increasing order of precedence.
package config

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-settingsgen/pkg/store"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SETTINGSGEN_"

// Config is the merged CLI configuration.
type Config struct {
	Log    Log          `yaml:"log" envPrefix:"LOG_"`
	Store  store.Config `yaml:"store" envPrefix:"STORE_"`
	Render Render       `yaml:"render" envPrefix:"RENDER_"`
	Schema Schema       `yaml:"schema" envPrefix:"SCHEMA_"`

	// File is the YAML file the configuration was read from. Set through
	// SETTINGSGEN_CONFIG or the --config flag.
	File string `yaml:"-" env:"CONFIG"`
}

// Log configures the zerolog logger.
type Log struct {
	Level string `yaml:"level" env:"LEVEL"`
}

// Render configures the render and edit commands.
type Render struct {
	// Format is html for the form renderer, or json, yaml, pretty for
	// terminal output.
	Format  string `yaml:"format" env:"FORMAT"`
	Locale  string `yaml:"locale" env:"LOCALE"`
	Action  string `yaml:"action" env:"ACTION"`
	Method  string `yaml:"method" env:"METHOD"`
	Theme   string `yaml:"theme" env:"THEME"`
	Variant string `yaml:"variant" env:"VARIANT"`
	// CSSVars feed the theme block of the HTML renderer.
	CSSVars map[string]string `yaml:"css_vars" env:"CSS_VARS"`
}

// ThemeConfig returns the go-theme renderer configuration, or nil when no
// theme is configured.
func (r Render) ThemeConfig() *theme.RendererConfig {
	if r.Theme == "" && r.Variant == "" && len(r.CSSVars) == 0 {
		return nil
	}
	return &theme.RendererConfig{
		Theme:   r.Theme,
		Variant: r.Variant,
		CSSVars: r.CSSVars,
	}
}

// Schema selects the settings schema.
type Schema struct {
	// Version pins a historical schema version. Zero means current.
	Version int `yaml:"version" env:"VERSION"`
	// Source is an OpenAPI document (path or http(s) URL) replacing the
	// built-in schema.
	Source string `yaml:"source" env:"SOURCE"`
	// Component names the components.schemas entry inside Source.
	Component string `yaml:"component" env:"COMPONENT"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Log: Log{Level: "info"},
		Store: store.Config{
			Driver: store.DriverYAML,
			Path:   "settings.yaml",
			Scope:  store.DefaultScope,
		},
		Render: Render{
			Format: "html",
			Method: "post",
		},
		Schema: Schema{
			Component: "Settings",
		},
	}
}
