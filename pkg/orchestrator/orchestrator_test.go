package orchestrator_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-settingsgen/pkg/fbevents"
	"github.com/goliatone/go-settingsgen/pkg/model"
	"github.com/goliatone/go-settingsgen/pkg/openapi"
	"github.com/goliatone/go-settingsgen/pkg/orchestrator"
	"github.com/goliatone/go-settingsgen/pkg/render"
	"github.com/goliatone/go-settingsgen/pkg/store"
	"github.com/goliatone/go-settingsgen/pkg/testsupport"
)

type stubRenderer struct {
	last    model.Descriptors
	options render.RenderOptions
}

func (s *stubRenderer) Name() string {
	return "stub"
}

func (s *stubRenderer) ContentType() string {
	return "text/plain"
}

func (s *stubRenderer) Render(_ context.Context, descriptors model.Descriptors, options render.RenderOptions) ([]byte, error) {
	s.last = descriptors
	s.options = options
	return []byte("ok"), nil
}

func stubRegistry() (*stubRenderer, *render.Registry) {
	renderer := &stubRenderer{}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)
	return renderer, registry
}

func TestOrchestrator_GenerateResolvesStoredRecord(t *testing.T) {
	renderer, registry := stubRegistry()
	orch := orchestrator.New(
		orchestrator.WithStore(store.NewMemory(testsupport.SavedRecord())),
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer(renderer.Name()),
	)

	output, err := orch.Generate(testsupport.Context(), orchestrator.Request{
		RenderOptions: render.RenderOptions{
			Action:       "/settings",
			HiddenFields: map[string]string{"_csrf": "token"},
		},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(output) != "ok" {
		t.Fatalf("unexpected renderer output: %s", output)
	}

	if diff := cmp.Diff(fbevents.Schema().Names(), renderer.last.Names()); diff != "" {
		t.Fatalf("descriptor order mismatch (-want +got):\n%s", diff)
	}
	cache, _ := renderer.last.Find(fbevents.FieldCacheExpire)
	if cache.Value != "weekly" || cache.Defaulted {
		t.Fatalf("cacheExpire should come from the store: %#v", cache)
	}

	wantHidden := map[string]string{"_csrf": "token", render.SchemaVersionKey: "2"}
	if diff := cmp.Diff(wantHidden, renderer.options.HiddenFields); diff != "" {
		t.Fatalf("hidden fields mismatch (-want +got):\n%s", diff)
	}
	if renderer.options.Action != "/settings" {
		t.Fatalf("render options not forwarded: %#v", renderer.options)
	}
}

func TestOrchestrator_GenerateDefaultsToVanillaHTML(t *testing.T) {
	orch := orchestrator.New(orchestrator.WithStore(store.NewMemory(testsupport.SavedRecord())))

	output, err := orch.Generate(testsupport.Context(), orchestrator.Request{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(output)
	for _, fragment := range []string{
		`name="_schema_version" value="2"`,
		`name="pageName"`,
		"gophercon",
	} {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, html)
		}
	}
	if strings.Contains(html, "s3cr3t") {
		t.Fatalf("secret value leaked into the form")
	}
}

func TestOrchestrator_RequestRecordReplacesStore(t *testing.T) {
	renderer, registry := stubRegistry()
	orch := orchestrator.New(
		orchestrator.WithStore(store.NewMemory(testsupport.SavedRecord())),
		orchestrator.WithRegistry(registry),
	)

	_, err := orch.Generate(testsupport.Context(), orchestrator.Request{
		Record: model.Record{fbevents.FieldLimit: 500},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	limit, _ := renderer.last.Find(fbevents.FieldLimit)
	if limit.Value != 500 {
		t.Fatalf("limit = %v, want the request value", limit.Value)
	}
	cache, _ := renderer.last.Find(fbevents.FieldCacheExpire)
	if !cache.Defaulted {
		t.Fatalf("keys absent from the request record should default")
	}
}

func TestOrchestrator_RendererSelection(t *testing.T) {
	renderer, registry := stubRegistry()
	orch := orchestrator.New(orchestrator.WithRegistry(registry))

	// The default vanilla renderer is not registered, so the first
	// registered renderer is used.
	if _, err := orch.Generate(testsupport.Context(), orchestrator.Request{}); err != nil {
		t.Fatalf("generate with fallback: %v", err)
	}
	if renderer.last == nil {
		t.Fatalf("fallback renderer not invoked")
	}

	_, err := orch.Generate(testsupport.Context(), orchestrator.Request{Renderer: "pdf"})
	if err == nil || !strings.Contains(err.Error(), `renderer "pdf"`) {
		t.Fatalf("expected unknown renderer error, got %v", err)
	}

	empty := orchestrator.New(orchestrator.WithRegistry(render.NewRegistry()))
	if _, err := empty.Generate(testsupport.Context(), orchestrator.Request{}); err == nil {
		t.Fatalf("expected error without renderers")
	}
}

func TestOrchestrator_GenerateErrors(t *testing.T) {
	closed := store.NewMemory(nil)
	if err := closed.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	_, err := orchestrator.New(orchestrator.WithStore(closed)).Generate(testsupport.Context(), orchestrator.Request{})
	if !errors.Is(err, store.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = orchestrator.New().Generate(ctx, orchestrator.Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestOrchestrator_SchemaSource(t *testing.T) {
	doc := openapi.Document(fbevents.SchemaV1(), "Facebook events")
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal document: %v", err)
	}
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write document: %v", err)
	}

	renderer, registry := stubRegistry()
	orch := orchestrator.New(
		orchestrator.WithSchemaSource(openapi.SourceFromFile(path), nil),
		orchestrator.WithRegistry(registry),
	)

	schema, err := orch.Schema(testsupport.Context())
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if schema.Version() != 1 {
		t.Fatalf("schema version = %d, want 1", schema.Version())
	}
	if diff := cmp.Diff(fbevents.SchemaV1().Names(), schema.Names()); diff != "" {
		t.Fatalf("field mismatch (-want +got):\n%s", diff)
	}

	if _, err := orch.Generate(testsupport.Context(), orchestrator.Request{}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got := renderer.options.HiddenFields[render.SchemaVersionKey]; got != "1" {
		t.Fatalf("schema version hidden field = %q", got)
	}

	missing := orchestrator.New(
		orchestrator.WithSchemaSource(openapi.SourceFromFile(filepath.Join(t.TempDir(), "missing.json")), nil),
	)
	if _, err := missing.Generate(testsupport.Context(), orchestrator.Request{}); err == nil {
		t.Fatalf("expected load error for a missing document")
	}
}

func TestOrchestrator_SchemaLoadRetriesAfterFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	orch := orchestrator.New(orchestrator.WithSchemaSource(openapi.SourceFromFile(path), nil))

	if _, err := orch.Schema(testsupport.Context()); err == nil {
		t.Fatalf("expected load error before the document exists")
	}

	data, err := json.Marshal(openapi.Document(fbevents.Schema(), ""))
	if err != nil {
		t.Fatalf("marshal document: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write document: %v", err)
	}

	schema, err := orch.Schema(testsupport.Context())
	if err != nil {
		t.Fatalf("schema after the document appeared: %v", err)
	}
	if schema.Version() != fbevents.CurrentVersion {
		t.Fatalf("schema version = %d", schema.Version())
	}
	if _, err := orch.Generate(testsupport.Context(), orchestrator.Request{}); err != nil {
		t.Fatalf("generate: %v", err)
	}

	// The loaded schema is kept once it succeeded.
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove document: %v", err)
	}
	if _, err := orch.Schema(testsupport.Context()); err != nil {
		t.Fatalf("schema after removal: %v", err)
	}
}

func TestOrchestrator_Resolve(t *testing.T) {
	orch := orchestrator.New(
		orchestrator.WithSchema(fbevents.SchemaV1()),
		orchestrator.WithStore(store.NewMemory(model.Record{fbevents.FieldClientID: "42"})),
	)

	descriptors, err := orch.Resolve(testsupport.Context())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(descriptors) != fbevents.SchemaV1().Len() {
		t.Fatalf("got %d descriptors", len(descriptors))
	}
	id, _ := descriptors.Find(fbevents.FieldClientID)
	if id.Value != "42" {
		t.Fatalf("clientId = %v", id.Value)
	}
	if diff := cmp.Diff([]string{fbevents.FieldClientSecret, fbevents.FieldPageName}, descriptors.Missing()); diff != "" {
		t.Fatalf("missing mismatch (-want +got):\n%s", diff)
	}
}

func submission(overrides map[string]string) url.Values {
	values := url.Values{
		fbevents.FieldClientID:     {"42"},
		fbevents.FieldClientSecret: {""},
		fbevents.FieldPageName:     {"golang"},
		fbevents.FieldCacheExpire:  {"monthly"},
		fbevents.FieldLimit:        {"50"},
		fbevents.FieldDateSince:    {"2024-02-01"},
		fbevents.FieldDateUntil:    {""},
		render.SchemaVersionKey:    {"2"},
	}
	for key, value := range overrides {
		values.Set(key, value)
	}
	return values
}
