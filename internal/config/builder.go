package config

import (
	"errors"
	"fmt"
	"os"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// LoadOptions feeds Load. Zero values mean "not supplied".
type LoadOptions struct {
	// Flags carries values set on the command line; only non-zero fields
	// override the other layers.
	Flags *Config
	// Environment replaces the process environment, mainly for tests.
	Environment map[string]string
}

// Load merges defaults, the YAML file, the environment, and flags, then
// validates the result.
func Load(opts LoadOptions) (*Config, error) {
	return newConfigBuilder().
		withDefaults().
		withEnv(opts.Environment).
		withFlags(opts.Flags).
		withFile().
		build()
}

// configBuilder collects layers in precedence order. The file layer is
// resolved after env and flags because either can name the file, but it is
// merged before them.
type configBuilder struct {
	defaults *Config
	file     *Config
	env      *Config
	flags    *Config
	err      error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{}
}

func (b *configBuilder) withDefaults() *configBuilder {
	b.defaults = Defaults()
	return b
}

func (b *configBuilder) withEnv(environment map[string]string) *configBuilder {
	cfg := &Config{}
	opts := env.Options{Prefix: EnvPrefix}
	if environment != nil {
		opts.Environment = environment
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		b.err = errors.Join(b.err, fmt.Errorf("config: parse environment: %w", err))
		return b
	}
	b.env = cfg
	return b
}

func (b *configBuilder) withFlags(flags *Config) *configBuilder {
	b.flags = flags
	return b
}

func (b *configBuilder) withFile() *configBuilder {
	path := ""
	for _, layer := range []*Config{b.env, b.flags} {
		if layer != nil && layer.File != "" {
			path = layer.File
		}
	}
	if path == "" {
		return b
	}

	cfg, err := parseYAML(path)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	cfg.File = path
	b.file = cfg
	return b
}

func (b *configBuilder) build() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}

	config := &Config{}
	for _, layer := range []*Config{b.defaults, b.file, b.env, b.flags} {
		if layer == nil {
			continue
		}
		if err := mergo.Merge(config, layer, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("config: merge layers: %w", err)
		}
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func parseYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
