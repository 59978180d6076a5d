// Package store persists settings records. Every driver treats a record as
// an opaque key/value blob: Save upserts the keys it is given and leaves the
// rest alone, so keys written by older schema versions survive until a host
// removes them explicitly.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-settingsgen/internal/logger"
	"github.com/goliatone/go-settingsgen/pkg/model"
)

// Store loads and saves one settings record.
type Store interface {
	// Load returns the saved record. A store that was never written returns
	// an empty record and no error.
	Load(ctx context.Context) (model.Record, error)
	// Save merges record into the saved one.
	Save(ctx context.Context, record model.Record) error
	// Delete removes keys from the saved record. Unknown keys are ignored.
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Driver names accepted by Open.
const (
	DriverMemory = "memory"
	DriverYAML   = "yaml"
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
)

// DefaultScope names the record when Config.Scope is empty.
const DefaultScope = "fbevents"

// Drivers lists the supported driver names.
func Drivers() []string {
	return []string{DriverMemory, DriverYAML, DriverSQLite, DriverBolt}
}

// Config selects and configures a driver.
type Config struct {
	Driver string `yaml:"driver" env:"DRIVER"`
	// Path is the YAML file, SQLite DSN, or bbolt file.
	Path string `yaml:"path" env:"PATH"`
	// Scope separates records sharing one SQLite table or bbolt file.
	Scope string `yaml:"scope" env:"SCOPE"`
}

// Option customises a driver.
type Option func(*options)

type options struct {
	logger *logger.Logger
}

// WithLogger routes driver diagnostics to l.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func newOptions(opts []Option) options {
	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	cfg.logger = logger.OrNop(cfg.logger)
	return cfg
}

// Open constructs the driver named by cfg.Driver.
func Open(ctx context.Context, cfg Config, opts ...Option) (Store, error) {
	scope := cfg.Scope
	if scope == "" {
		scope = DefaultScope
	}

	switch strings.ToLower(cfg.Driver) {
	case "", DriverMemory:
		return NewMemory(nil), nil
	case DriverYAML:
		if cfg.Path == "" {
			return nil, fmt.Errorf("%w: yaml driver needs a path", ErrInvalidConfig)
		}
		return NewYAMLFile(cfg.Path, opts...), nil
	case DriverSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("%w: sqlite driver needs a path", ErrInvalidConfig)
		}
		return NewSQLite(ctx, cfg.Path, scope, opts...)
	case DriverBolt:
		if cfg.Path == "" {
			return nil, fmt.Errorf("%w: bolt driver needs a path", ErrInvalidConfig)
		}
		return NewBolt(cfg.Path, scope, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// normalizeValue converts values to the form every driver persists. Dates
// are stored in model.DateLayout so they resolve as dates when read back.
func normalizeValue(value any) any {
	if t, ok := value.(time.Time); ok {
		if t.IsZero() {
			return ""
		}
		return t.Format(model.DateLayout)
	}
	return value
}

func encodeValue(key string, value any) ([]byte, error) {
	data, err := json.Marshal(normalizeValue(value))
	if err != nil {
		return nil, fmt.Errorf("%w: key %q: %v", ErrEncode, key, err)
	}
	return data, nil
}

func decodeValue(key string, data []byte) (any, error) {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("%w: key %q: %v", ErrDecode, key, err)
	}
	return value, nil
}

func cloneRecord(record model.Record) model.Record {
	out := make(model.Record, len(record))
	for key, value := range record {
		out[key] = value
	}
	return out
}
