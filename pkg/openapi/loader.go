package openapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-settingsgen/pkg/model"
)

// LoaderOptions configures how a Loader resolves sources.
type LoaderOptions struct {
	// FileSystem backs SourceKindFS sources.
	FileSystem fs.FS

	// HTTPClient enables URL sources. Nil disables them unless
	// AllowHTTPFallback is set.
	HTTPClient *http.Client

	// AllowHTTPFallback enables URL sources with a default client.
	AllowHTTPFallback bool

	// RequestTimeout caps remote fetch durations.
	RequestTimeout time.Duration

	// Component selects the components.schemas entry to import. Defaults to
	// DefaultComponent.
	Component string
}

// LoaderOption mutates LoaderOptions prior to construction.
type LoaderOption func(*LoaderOptions)

// WithFileSystem injects an fs.FS for SourceFromFS sources.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.FileSystem = files
	}
}

// WithHTTPClient injects a custom HTTP client for remote documents.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.HTTPClient = client
	}
}

// WithHTTPFallback enables HTTP loading with a default client and the given
// timeout.
func WithHTTPFallback(timeout time.Duration) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.AllowHTTPFallback = true
		opts.RequestTimeout = timeout
	}
}

// WithComponent selects which components.schemas entry holds the settings.
func WithComponent(name string) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.Component = name
	}
}

// Loader reads OpenAPI documents from files, an fs.FS, or HTTP and imports
// the selected component schema as a Registry.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	timeout   time.Duration
	component string
}

// NewLoader constructs a Loader from options.
func NewLoader(options ...LoaderOption) *Loader {
	cfg := LoaderOptions{Component: DefaultComponent}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.Component == "" {
		cfg.Component = DefaultComponent
	}

	var client *http.Client
	switch {
	case cfg.HTTPClient != nil:
		clone := *cfg.HTTPClient
		if cfg.RequestTimeout > 0 && clone.Timeout == 0 {
			clone.Timeout = cfg.RequestTimeout
		}
		client = &clone
	case cfg.AllowHTTPFallback:
		client = &http.Client{Timeout: cfg.RequestTimeout}
	}

	return &Loader{
		fs:        cfg.FileSystem,
		http:      client,
		timeout:   cfg.RequestTimeout,
		component: cfg.Component,
	}
}

// Load fetches the document behind src and imports its settings component.
func (l *Loader) Load(ctx context.Context, src Source) (*model.Registry, error) {
	if src == nil {
		return nil, errors.New("openapi loader: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case SourceKindFile:
		data, err = os.ReadFile(filepath.Clean(src.Location()))
	case SourceKindFS:
		if l.fs == nil {
			return nil, errors.New("openapi loader: filesystem is not configured")
		}
		data, err = fs.ReadFile(l.fs, src.Location())
	case SourceKindURL:
		if l.http == nil {
			return nil, errors.New("openapi loader: http support disabled")
		}
		data, err = l.fetch(ctx, src.Location())
	default:
		err = fmt.Errorf("openapi loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return nil, fmt.Errorf("openapi loader: read %s: %w", src.Location(), err)
	}
	return l.Parse(ctx, data)
}

// Parse imports the settings component from a JSON or YAML OpenAPI document.
func (l *Loader) Parse(ctx context.Context, data []byte) (*model.Registry, error) {
	if len(data) == 0 {
		return nil, errors.New("openapi loader: document payload is empty")
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi loader: load document: %w", err)
	}
	if doc.Components == nil {
		return nil, fmt.Errorf("openapi loader: document has no components")
	}
	ref, ok := doc.Components.Schemas[l.component]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("openapi loader: component %q not found", l.component)
	}
	return Import(ref.Value)
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	reqCtx := ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("unexpected status " + resp.Status)
	}
	return io.ReadAll(resp.Body)
}
