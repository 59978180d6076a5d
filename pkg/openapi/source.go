package openapi

import (
	"fmt"
	"net/url"
	"path/filepath"
)

// Source identifies where an OpenAPI document lives.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

type fileSource struct {
	path string
}

func (s fileSource) Location() string { return s.path }
func (s fileSource) Kind() SourceKind { return SourceKindFile }

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	name string
}

func (s fsSource) Location() string { return s.name }
func (s fsSource) Kind() SourceKind { return SourceKindFS }

// SourceFromFS returns a Source naming a file inside the Loader's fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

type urlSource struct {
	raw string
}

func (s urlSource) Location() string { return s.raw }
func (s urlSource) Kind() SourceKind { return SourceKindURL }

// SourceFromURL parses raw and returns a Source. It panics if the URL is
// invalid to surface configuration mistakes early.
func SourceFromURL(raw string) Source {
	if raw == "" {
		panic("openapi: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		panic(fmt.Sprintf("openapi: invalid URL %q: %v", raw, err))
	}
	return urlSource{raw: raw}
}

// ParseSource picks a Source for a CLI-style location: http(s) URLs become
// URL sources, everything else a file path.
func ParseSource(location string) (Source, error) {
	if location == "" {
		return nil, fmt.Errorf("openapi: empty source location")
	}
	if u, err := url.Parse(location); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		if _, err := url.ParseRequestURI(location); err != nil {
			return nil, fmt.Errorf("openapi: invalid URL %q: %w", location, err)
		}
		return urlSource{raw: location}, nil
	}
	return SourceFromFile(location), nil
}
