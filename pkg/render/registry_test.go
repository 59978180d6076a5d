package render_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-settingsgen/pkg/model"
	"github.com/goliatone/go-settingsgen/pkg/render"
)

type namedRenderer string

func (n namedRenderer) Name() string        { return string(n) }
func (n namedRenderer) ContentType() string { return "text/plain" }
func (n namedRenderer) Render(context.Context, model.Descriptors, render.RenderOptions) ([]byte, error) {
	return []byte(n), nil
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := render.NewRegistry()
	reg.MustRegister(namedRenderer("tui"))
	reg.MustRegister(namedRenderer("html"))

	if err := reg.Register(namedRenderer("html")); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := reg.Register(nil); err == nil {
		t.Fatalf("expected nil renderer to fail")
	}
	if err := reg.Register(namedRenderer("")); err == nil {
		t.Fatalf("expected unnamed renderer to fail")
	}

	if diff := cmp.Diff([]string{"html", "tui"}, reg.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if !reg.Has("tui") || reg.Has("preact") {
		t.Fatalf("unexpected Has results")
	}
	if _, err := reg.Get("preact"); err == nil {
		t.Fatalf("expected missing renderer error")
	}
	if reg.MustGet("html").Name() != "html" {
		t.Fatalf("expected html renderer")
	}
}
