package vanilla_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-settingsgen/pkg/fbevents"
	"github.com/goliatone/go-settingsgen/pkg/model"
	"github.com/goliatone/go-settingsgen/pkg/render"
	"github.com/goliatone/go-settingsgen/pkg/renderers/vanilla"
	"github.com/goliatone/go-settingsgen/pkg/testsupport"
)

func renderHTML(t *testing.T, descriptors model.Descriptors, opts render.RenderOptions, options ...vanilla.Option) string {
	t.Helper()

	renderer, err := vanilla.New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	output, err := renderer.Render(testsupport.Context(), descriptors, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(output)
}

func assertContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, html)
		}
	}
}

func assertNotContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if strings.Contains(html, fragment) {
			t.Fatalf("expected output not to contain %q\n%s", fragment, html)
		}
	}
}

func TestRenderer_RendersEveryVisibleField(t *testing.T) {
	html := renderHTML(t, testsupport.FacebookDescriptors(t, testsupport.SavedRecord()), render.RenderOptions{Action: "/settings"})

	assertContains(t, html,
		`<form class="sg-form" method="post" action="/settings">`,
		`name="clientId" value="1234567890"`,
		`<option value="weekly" selected>Weekly</option>`,
		`type="number" id="sg-limit" name="limit" value="25" step="1" min="1" max="100"`,
		`type="date" id="sg-dateSince" name="dateSince" value="2024-01-01"`,
		`name="sortReverse" value="true" checked`,
		`style="flex: 0 0 50%; max-width: 50%;"`,
		`Facebook App ID <span class="sg-required"`,
	)
	assertNotContains(t, html, `name="accessToken"`, "token-abc")

	order := []string{`name="clientId"`, `name="clientSecret"`, `name="pageName"`, `name="pageId"`, `name="cacheExpire"`, `name="limit"`, `name="sortReverse"`}
	last := -1
	for _, fragment := range order {
		idx := strings.Index(html, fragment)
		if idx <= last {
			t.Fatalf("field %s rendered out of declaration order", fragment)
		}
		last = idx
	}
}

func TestRenderer_SecretsAreNeverEchoed(t *testing.T) {
	html := renderHTML(t, testsupport.FacebookDescriptors(t, testsupport.SavedRecord()), render.RenderOptions{})

	assertContains(t, html, `type="password" id="sg-clientSecret" name="clientSecret" value="" placeholder="Saved. Leave blank to keep." autocomplete="off" required`)
	assertNotContains(t, html, "s3cr3t")
}

func TestRenderer_VisibilityMarkup(t *testing.T) {
	html := renderHTML(t, testsupport.FacebookDescriptors(t, testsupport.SavedRecord()), render.RenderOptions{})

	assertContains(t, html,
		`sg-field--locked`,
		`name="pageId" value="1000123" disabled`,
		`<summary>Events since</summary>`,
	)
	if strings.Count(html, "<details") != 3 {
		t.Fatalf("expected pageId, dateSince and dateUntil to be collapsible\n%s", html)
	}
}

func TestRenderer_DefaultedAndMissingMarkers(t *testing.T) {
	html := renderHTML(t, testsupport.FacebookDescriptors(t, model.Record{}), render.RenderOptions{}, vanilla.WithAdvisoryErrors())

	assertContains(t, html,
		`data-field="clientId" data-defaulted="true" data-missing="true"`,
		`<option value="daily" selected>Daily</option>`,
		`<li>This field is required.</li>`,
	)
}

func TestRenderer_ErrorsAndHiddenFields(t *testing.T) {
	descriptors := testsupport.FacebookDescriptors(t, testsupport.SavedRecord())
	html := renderHTML(t, descriptors, render.RenderOptions{
		Method:       "patch",
		Errors:       map[string][]string{fbevents.FieldPageName: {"Page <b>not</b> found"}},
		FormErrors:   []string{"Facebook rejected the credentials"},
		HiddenFields: render.MergeHiddenFields(nil, render.CSRFToken("_csrf", "tok"), render.SchemaVersion(fbevents.Schema())),
	})

	assertContains(t, html,
		`method="post"`,
		`<input type="hidden" name="_csrf" value="tok">`,
		`<input type="hidden" name="_method" value="PATCH">`,
		`<input type="hidden" name="_schema_version" value="2">`,
		`<li>Facebook rejected the credentials</li>`,
		`<li>Page &lt;b&gt;not&lt;/b&gt; found</li>`,
		`aria-invalid="true"`,
	)
}

func TestRenderer_SanitisesDescriptions(t *testing.T) {
	reg := model.MustDefine(1, model.FieldSpec{
		Name:        "pageName",
		Kind:        model.KindText,
		Description: `See <a href="https://example.com/help">help</a><script>alert(1)</script>`,
	})
	html := renderHTML(t, model.Resolve(reg, nil), render.RenderOptions{})

	assertContains(t, html, `href="https://example.com/help"`, `target="_blank"`)
	assertNotContains(t, html, "<script>", "alert(1)")
}

func TestRenderer_LocalizesLabelsAndChoices(t *testing.T) {
	descriptors := testsupport.FacebookDescriptors(t, testsupport.SavedRecord())
	html := renderHTML(t, descriptors, render.RenderOptions{
		Locale: "es",
		Translator: testsupport.StubTranslator{
			"clientId.label":             "ID de la aplicación",
			"cacheExpire.choices.weekly": "Semanal",
		},
	})

	assertContains(t, html, "ID de la aplicación", `<option value="weekly" selected>Semanal</option>`, `<option value="daily">daily</option>`)
	if descriptors[0].Spec.Label != "Facebook App ID" {
		t.Fatalf("render must not mutate the caller's descriptors, got %q", descriptors[0].Spec.Label)
	}
}

func TestRenderer_ThemeAndStyles(t *testing.T) {
	html := renderHTML(t, testsupport.FacebookDescriptors(t, nil), render.RenderOptions{
		Theme: &theme.RendererConfig{
			Theme:   "wp-admin",
			Variant: "dark",
			CSSVars: map[string]string{"--sg-color-text": "#f0f0f1", "bad": "x", "--sg-gap": "1rem}"},
		},
	}, vanilla.WithDefaultStyles(), vanilla.WithStylesheet("/assets/site.css"))

	assertContains(t, html,
		`<link rel="stylesheet" href="/assets/site.css">`,
		`.sg-row {`,
		`<style data-sg-theme="wp-admin">`,
		`--sg-color-text: #f0f0f1;`,
		`data-theme="wp-admin" data-theme-variant="dark"`,
	)
	assertNotContains(t, html, "bad: x", "1rem}")
}

func TestRenderer_RespectsCancelledContext(t *testing.T) {
	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := renderer.Render(ctx, nil, render.RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRenderer_Metadata(t *testing.T) {
	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if renderer.Name() != "vanilla" || !strings.HasPrefix(renderer.ContentType(), "text/html") {
		t.Fatalf("unexpected metadata %q %q", renderer.Name(), renderer.ContentType())
	}
}
