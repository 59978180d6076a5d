package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-settingsgen/pkg/model"
)

// Transformer mutates resolved descriptors before decorators run.
// Implementations can relabel fields, change layout hints, or perform
// arbitrary rewrites. Values and advisories should be left alone.
type Transformer interface {
	Transform(ctx context.Context, descriptors model.Descriptors) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, descriptors model.Descriptors) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, descriptors model.Descriptors) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, descriptors)
}

// JSONPresetTransformer applies declarative per-field overrides loaded from a
// JSON document:
//
//	{
//	  "fields": {
//	    "pageName": {"label": "Page", "width": 100},
//	    "pageId": {"visibility": "hidden"}
//	  }
//	}
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

type jsonTransformDocument struct {
	Fields map[string]jsonFieldPatch `json:"fields"`
}

type jsonFieldPatch struct {
	Label       string           `json:"label"`
	Description string           `json:"description"`
	Notes       string           `json:"notes"`
	Width       int              `json:"width"`
	Visibility  model.Visibility `json:"visibility"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	for name, patch := range document.Fields {
		if patch.Width != 0 && (patch.Width < model.MinWidth || patch.Width > model.MaxWidth) {
			return nil, fmt.Errorf("json preset transformer: field %q: width %d out of range", name, patch.Width)
		}
		if patch.Visibility != "" && !patch.Visibility.Valid() {
			return nil, fmt.Errorf("json preset transformer: field %q: unknown visibility %q", name, patch.Visibility)
		}
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the declarative patches onto the descriptors. A patch
// naming a field the schema does not declare is an error.
func (t *JSONPresetTransformer) Transform(ctx context.Context, descriptors model.Descriptors) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	index := make(map[string]int, len(descriptors))
	for i, desc := range descriptors {
		index[desc.Name()] = i
	}

	for name, patch := range t.document.Fields {
		i, ok := index[name]
		if !ok {
			return fmt.Errorf("json preset transformer: field %q not found", name)
		}
		applyFieldPatch(&descriptors[i].Spec, patch)
	}
	return nil
}

func applyFieldPatch(spec *model.FieldSpec, patch jsonFieldPatch) {
	if patch.Label != "" {
		spec.Label = patch.Label
	}
	if patch.Description != "" {
		spec.Description = patch.Description
	}
	if patch.Notes != "" {
		spec.Notes = patch.Notes
	}
	if patch.Width != 0 {
		spec.Layout.Width = patch.Width
	}
	if patch.Visibility != "" {
		spec.Layout.Visibility = patch.Visibility
	}
}
