package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-settingsgen/pkg/fbevents"
	"github.com/goliatone/go-settingsgen/pkg/model"
)

// SavedRecord returns a complete, valid record for the current Facebook
// events schema. Each call returns a fresh map so tests can modify it.
func SavedRecord() model.Record {
	return model.Record{
		fbevents.FieldClientID:     "1234567890",
		fbevents.FieldClientSecret: "s3cr3t",
		fbevents.FieldPageName:     "gophercon",
		fbevents.FieldPageID:       "1000123",
		fbevents.FieldAccessToken:  "token-abc",
		fbevents.FieldCacheExpire:  "weekly",
		fbevents.FieldLimit:        25,
		fbevents.FieldDateSince:    "2024-01-01",
		fbevents.FieldDateUntil:    "",
		fbevents.FieldSortReverse:  true,
	}
}

// MustResolve resolves saved against schema through the public Assembler and
// fails the test on error.
func MustResolve(t *testing.T, schema *model.Registry, saved model.Record, options ...model.AssemblerOption) model.Descriptors {
	t.Helper()

	descriptors, err := model.NewAssembler(options...).Resolve(schema, saved)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return descriptors
}

// FacebookDescriptors resolves saved against the current Facebook events
// schema.
func FacebookDescriptors(t *testing.T, saved model.Record) model.Descriptors {
	t.Helper()
	return MustResolve(t, fbevents.Schema(), saved)
}

// LoadRecord reads a JSON or YAML record fixture, chosen by extension.
func LoadRecord(path string) (model.Record, error) {
	if path == "" {
		return nil, errors.New("testsupport: record path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read record: %w", err)
	}

	var out model.Record
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &out)
	default:
		err = json.Unmarshal(data, &out)
	}
	if err != nil {
		return nil, fmt.Errorf("testsupport: decode record: %w", err)
	}
	return out, nil
}

// MustLoadRecord loads a record fixture or fails the test.
func MustLoadRecord(t *testing.T, path string) model.Record {
	t.Helper()

	record, err := LoadRecord(path)
	if err != nil {
		t.Fatalf("load record: %v", err)
	}
	return record
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}

// StubTranslator resolves keys from a fixed map and reports missing keys as
// errors.
type StubTranslator map[string]string

// Translate implements render.Translator.
func (s StubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if msg, ok := s[key]; ok {
		return msg, nil
	}
	return "", fmt.Errorf("testsupport: missing translation %q", key)
}
