package settingsgen

import (
	"context"

	"github.com/goliatone/go-settingsgen/pkg/model"
	pkgopenapi "github.com/goliatone/go-settingsgen/pkg/openapi"
)

// NewLoader constructs an OpenAPI schema loader.
func NewLoader(options ...pkgopenapi.LoaderOption) *pkgopenapi.Loader {
	return pkgopenapi.NewLoader(options...)
}

// LoadSchema imports a settings registry from an OpenAPI document at
// location, a file path or an http(s) URL. URL locations need
// WithHTTPClient or WithHTTPFallback.
func LoadSchema(ctx context.Context, location string, options ...pkgopenapi.LoaderOption) (*model.Registry, error) {
	src, err := pkgopenapi.ParseSource(location)
	if err != nil {
		return nil, err
	}
	return NewLoader(options...).Load(ctx, src)
}
