package model

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var lifetimes = []string{"never", "save", "now", "hourly", "daily", "weekly", "monthly"}

func int64Ptr(v int64) *int64 { return &v }

func sampleFields() []FieldSpec {
	return []FieldSpec{
		{Name: "clientId", Kind: KindText, Default: "", Required: true, Layout: Layout{Width: 50}},
		{Name: "cacheExpire", Kind: KindSelect, Default: "daily", Required: true, Choices: lifetimes},
		{Name: "limit", Kind: KindInteger, Default: 10, Min: int64Ptr(1), Max: int64Ptr(100)},
		{Name: "dateSince", Kind: KindDate, Default: ""},
		{Name: "sortReverse", Kind: KindBoolean, Default: false},
	}
}

func TestDefine_LookupMatchesAll(t *testing.T) {
	reg, err := Define(sampleFields()...)
	if err != nil {
		t.Fatalf("define: %v", err)
	}

	all := reg.All()
	if len(all) != 5 || reg.Len() != 5 {
		t.Fatalf("expected 5 fields, got %d (len %d)", len(all), reg.Len())
	}
	for _, spec := range all {
		got, ok := reg.Lookup(spec.Name)
		if !ok {
			t.Fatalf("lookup %q: not found", spec.Name)
		}
		if diff := cmp.Diff(spec, got); diff != "" {
			t.Fatalf("lookup %q mismatch (-all +lookup):\n%s", spec.Name, diff)
		}
	}
	if _, ok := reg.Lookup("pageName"); ok {
		t.Fatalf("expected undeclared name to be absent")
	}

	want := []string{"clientId", "cacheExpire", "limit", "dateSince", "sortReverse"}
	if diff := cmp.Diff(want, reg.Names()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestDefine_NormalizesLayout(t *testing.T) {
	reg, err := Define(FieldSpec{Name: "pageName", Kind: KindText})
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	spec, _ := reg.Lookup("pageName")
	want := Layout{Width: MaxWidth, Visibility: VisibilityVisible}
	if diff := cmp.Diff(want, spec.Layout); diff != "" {
		t.Fatalf("layout mismatch (-want +got):\n%s", diff)
	}
	if reg.Version() != 1 {
		t.Fatalf("expected version 1, got %d", reg.Version())
	}
}

func TestDefine_DuplicateNamesFail(t *testing.T) {
	kinds := []FieldSpec{
		{Kind: KindText},
		{Kind: KindInteger},
		{Kind: KindDate},
		{Kind: KindBoolean},
		{Kind: KindSelect, Choices: []string{"a"}},
	}
	for _, first := range kinds {
		for _, second := range kinds {
			first.Name, second.Name = "dup", "dup"
			_, err := Define(first, second)
			var schemaErr *SchemaError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("%s/%s: expected SchemaError, got %v", first.Kind, second.Kind, err)
			}
			if !schemaErr.HasIssue("dup") {
				t.Fatalf("%s/%s: expected issue for dup, got %v", first.Kind, second.Kind, schemaErr)
			}
		}
	}
}

func TestDefine_SelectDefaultMustBeAChoice(t *testing.T) {
	_, err := Define(FieldSpec{Name: "cacheExpire", Kind: KindSelect, Default: "yearly", Choices: lifetimes})
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if !schemaErr.HasIssue("cacheExpire") {
		t.Fatalf("expected cacheExpire issue, got %v", schemaErr)
	}
}

func TestDefine_CollectsEveryIssue(t *testing.T) {
	_, err := Define(
		FieldSpec{Name: "", Kind: KindText},
		FieldSpec{Name: "mood", Kind: "emoji"},
		FieldSpec{Name: "limit", Kind: KindInteger, Default: "ten"},
		FieldSpec{Name: "title", Kind: KindText, Choices: []string{"a"}},
		FieldSpec{Name: "state", Kind: KindSelect},
		FieldSpec{Name: "wide", Kind: KindText, Layout: Layout{Width: 120}},
		FieldSpec{Name: "bounds", Kind: KindInteger, Min: int64Ptr(5), Max: int64Ptr(1)},
		FieldSpec{Name: "flag", Kind: KindBoolean, Min: int64Ptr(0)},
	)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	for _, field := range []string{"", "mood", "limit", "title", "state", "wide", "bounds", "flag"} {
		if !schemaErr.HasIssue(field) {
			t.Fatalf("expected issue for %q in %v", field, schemaErr)
		}
	}
}

func TestRegistry_AllReturnsCopies(t *testing.T) {
	reg := MustDefine(2, sampleFields()...)
	all := reg.All()
	all[1].Choices[0] = "forever"
	all[0].Name = "renamed"

	spec, _ := reg.Lookup("cacheExpire")
	if spec.Choices[0] != "never" {
		t.Fatalf("registry choices mutated through All(): %v", spec.Choices)
	}
	if _, ok := reg.Lookup("clientId"); !ok {
		t.Fatalf("registry names mutated through All()")
	}
}

func TestMustDefine_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	MustDefine(1, FieldSpec{Name: "a", Kind: KindText}, FieldSpec{Name: "a", Kind: KindText})
}

func TestDefaultLabeler(t *testing.T) {
	cases := map[string]string{
		"clientId":    "Client ID",
		"cacheExpire": "Cache Expire",
		"date_since":  "Date Since",
		"sortReverse": "Sort Reverse",
		"limit":       "Limit",
		"":            "",
	}
	for in, want := range cases {
		if got := DefaultLabeler(in); got != want {
			t.Fatalf("DefaultLabeler(%q) = %q, want %q", in, got, want)
		}
	}
}
