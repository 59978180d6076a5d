package render_test

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-settingsgen/pkg/model"
	"github.com/goliatone/go-settingsgen/pkg/render"
)

func TestMergeAndSortHiddenFields(t *testing.T) {
	base := map[string]string{
		" existing ": "keep",
		"":           "ignored",
	}

	merged := render.MergeHiddenFields(base,
		render.CSRFToken("_csrf", "token123"),
		render.AuthToken(" auth_token ", "abc123"),
		render.SchemaVersion(model.MustDefine(2, model.FieldSpec{Name: "a", Kind: model.KindText})),
		render.Hidden("  ", "skip"),
	)

	wantMerged := map[string]string{
		"existing":        "keep",
		"_csrf":           "token123",
		"auth_token":      "abc123",
		"_schema_version": "2",
	}
	if diff := cmp.Diff(wantMerged, merged); diff != "" {
		t.Fatalf("merged hidden fields mismatch (-want +got):\n%s", diff)
	}

	sorted := render.SortedHiddenFields(merged)
	wantSorted := []render.HiddenField{
		{Name: "_csrf", Value: "token123"},
		{Name: "_schema_version", Value: "2"},
		{Name: "auth_token", Value: "abc123"},
		{Name: "existing", Value: "keep"},
	}
	if diff := cmp.Diff(wantSorted, sorted); diff != "" {
		t.Fatalf("sorted hidden fields mismatch (-want +got):\n%s", diff)
	}
}

func submissionSchema() *model.Registry {
	minLimit, maxLimit := int64(1), int64(100)
	return model.MustDefine(2,
		model.FieldSpec{Name: "clientId", Kind: model.KindText, Required: true},
		model.FieldSpec{Name: "clientSecret", Kind: model.KindText, Secret: true},
		model.FieldSpec{Name: "pageId", Kind: model.KindText, Layout: model.Layout{Visibility: model.VisibilityLocked}},
		model.FieldSpec{Name: "cacheExpire", Kind: model.KindSelect, Default: "daily", Choices: []string{"daily", "weekly"}},
		model.FieldSpec{Name: "limit", Kind: model.KindInteger, Default: 10, Min: &minLimit, Max: &maxLimit},
		model.FieldSpec{Name: "dateSince", Kind: model.KindDate},
		model.FieldSpec{Name: "sortReverse", Kind: model.KindBoolean, Default: false},
	)
}

func TestDecodeForm_TypesValues(t *testing.T) {
	values := url.Values{
		"clientId":     {" 1234 "},
		"clientSecret": {""},
		"pageId":       {"spoofed"},
		"cacheExpire":  {"weekly"},
		"limit":        {"25"},
		"dateSince":    {""},
		"sortReverse":  {"on"},
		"stale":        {"x"},
	}

	record, errs := render.DecodeForm(submissionSchema(), values)
	if errs != nil {
		t.Fatalf("unexpected errors %v", errs)
	}
	want := model.Record{
		"clientId":    "1234",
		"cacheExpire": "weekly",
		"limit":       int64(25),
		"dateSince":   nil,
		"sortReverse": true,
	}
	if diff := cmp.Diff(want, record); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeForm_UncheckedCheckboxAndAbsentKeys(t *testing.T) {
	record, errs := render.DecodeForm(submissionSchema(), url.Values{})
	if errs != nil {
		t.Fatalf("unexpected errors %v", errs)
	}
	if diff := cmp.Diff(model.Record{"sortReverse": false}, record); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeForm_ReportsInvalidValues(t *testing.T) {
	values := url.Values{
		"cacheExpire": {"yearly"},
		"limit":       {"500"},
		"dateSince":   {"31/01/2024"},
	}
	record, errs := render.DecodeForm(submissionSchema(), values)
	for _, name := range []string{"cacheExpire", "limit", "dateSince"} {
		if len(errs[name]) != 1 {
			t.Fatalf("%s: expected one error, got %v", name, errs[name])
		}
		if _, ok := record[name]; ok {
			t.Fatalf("%s: invalid value must not reach the record", name)
		}
	}
}
