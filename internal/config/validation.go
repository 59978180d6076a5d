package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-settingsgen/pkg/store"
)

var (
	// ErrInvalidLogConfig reports an unknown log level.
	ErrInvalidLogConfig = errors.New("config: invalid log configuration")
	// ErrInvalidStoreConfig reports an unknown driver or a missing path.
	ErrInvalidStoreConfig = errors.New("config: invalid store configuration")
	// ErrInvalidRenderConfig reports an unknown output format.
	ErrInvalidRenderConfig = errors.New("config: invalid render configuration")
	// ErrInvalidSchemaConfig reports an unsupported schema version.
	ErrInvalidSchemaConfig = errors.New("config: invalid schema configuration")
)

// RenderFormats lists the accepted Render.Format values.
func RenderFormats() []string {
	return []string{"html", "json", "yaml", "pretty"}
}

func (cfg *Config) validate() error {
	var errs []error

	if level := strings.TrimSpace(cfg.Log.Level); level != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(level)); err != nil {
			errs = append(errs, fmt.Errorf("%w: level %q", ErrInvalidLogConfig, cfg.Log.Level))
		}
	}

	cfg.Store.Driver = strings.ToLower(cfg.Store.Driver)
	if !slices.Contains(store.Drivers(), cfg.Store.Driver) {
		errs = append(errs, fmt.Errorf("%w: driver %q", ErrInvalidStoreConfig, cfg.Store.Driver))
	} else if cfg.Store.Driver != store.DriverMemory && cfg.Store.Path == "" {
		errs = append(errs, fmt.Errorf("%w: driver %q needs a path", ErrInvalidStoreConfig, cfg.Store.Driver))
	}

	cfg.Render.Format = strings.ToLower(cfg.Render.Format)
	if !slices.Contains(RenderFormats(), cfg.Render.Format) {
		errs = append(errs, fmt.Errorf("%w: format %q", ErrInvalidRenderConfig, cfg.Render.Format))
	}

	if cfg.Schema.Version < 0 {
		errs = append(errs, fmt.Errorf("%w: version %d", ErrInvalidSchemaConfig, cfg.Schema.Version))
	}

	return errors.Join(errs...)
}
