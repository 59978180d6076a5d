package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestResolve_EmptyRecordUsesDefaults(t *testing.T) {
	reg := MustDefine(1, sampleFields()...)

	got := Resolve(reg, Record{})
	if len(got) != reg.Len() {
		t.Fatalf("expected %d descriptors, got %d", reg.Len(), len(got))
	}
	for i, spec := range reg.All() {
		d := got[i]
		if d.Spec.Name != spec.Name {
			t.Fatalf("position %d: expected %q, got %q", i, spec.Name, d.Spec.Name)
		}
		if !d.Defaulted {
			t.Fatalf("%s: expected defaulted", spec.Name)
		}
		if diff := cmp.Diff(spec.Default, d.Value); diff != "" {
			t.Fatalf("%s: value mismatch (-default +got):\n%s", spec.Name, diff)
		}
	}
}

func TestResolve_SavedValueWins(t *testing.T) {
	reg := MustDefine(1, sampleFields()...)
	saved := Record{
		"clientId":    "1234",
		"limit":       25,
		"dateSince":   "2024-01-31",
		"sortReverse": true,
	}

	got := Resolve(reg, saved)
	for name, want := range saved {
		d, ok := got.Find(name)
		if !ok {
			t.Fatalf("%s: descriptor not found", name)
		}
		if d.Defaulted {
			t.Fatalf("%s: expected saved value, got defaulted", name)
		}
		if diff := cmp.Diff(want, d.Value); diff != "" {
			t.Fatalf("%s: value mismatch (-want +got):\n%s", name, diff)
		}
		if len(d.Advisories) != 0 {
			t.Fatalf("%s: unexpected advisories %v", name, d.Advisories)
		}
	}
}

func TestResolve_StaleKeysIgnored(t *testing.T) {
	reg := MustDefine(1, sampleFields()...)
	base := Record{"clientId": "abc"}
	withStale := Record{"clientId": "abc", "legacyToken": "xyz", "pageAlias": 3}

	want := Resolve(reg, base)
	got := Resolve(reg, withStale)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("stale keys changed output (-want +got):\n%s", diff)
	}
	if _, ok := got.Find("legacyToken"); ok {
		t.Fatalf("stale key surfaced in output")
	}
	if _, ok := got.Values()["legacyToken"]; ok {
		t.Fatalf("stale key surfaced in values")
	}
	if len(withStale) != 3 || withStale["legacyToken"] != "xyz" {
		t.Fatalf("saved record was mutated: %v", withStale)
	}
}

func TestResolve_RequiredEmptyDefaultIsMissing(t *testing.T) {
	reg := MustDefine(1, FieldSpec{Name: "pageName", Kind: KindText, Default: "", Required: true})

	got := Resolve(reg, nil)
	d, _ := got.Find("pageName")
	if !d.Missing || !d.Defaulted {
		t.Fatalf("expected missing defaulted descriptor, got %+v", d)
	}
	if diff := cmp.Diff([]string{"pageName"}, got.Missing()); diff != "" {
		t.Fatalf("missing mismatch (-want +got):\n%s", diff)
	}
	if got.Valid() {
		t.Fatalf("expected descriptors to be invalid")
	}
}

func TestResolve_ExplicitEmptyIsNotDefaulted(t *testing.T) {
	reg := MustDefine(1, FieldSpec{Name: "pageName", Kind: KindText, Default: "my-page", Required: true})

	d, _ := Resolve(reg, Record{"pageName": ""}).Find("pageName")
	if d.Defaulted {
		t.Fatalf("explicit empty value must not be treated as defaulted")
	}
	if !d.Missing {
		t.Fatalf("explicit empty required value must be flagged missing")
	}
}

func TestResolve_OrderIndependentOfRecord(t *testing.T) {
	reg := MustDefine(1, sampleFields()...)
	saved := Record{}
	// Map iteration order is random; run several times to shake out ordering bugs.
	for _, name := range []string{"sortReverse", "dateSince", "limit", "cacheExpire", "clientId"} {
		saved[name] = nil
	}
	for i := 0; i < 10; i++ {
		if diff := cmp.Diff(reg.Names(), Resolve(reg, saved).Names()); diff != "" {
			t.Fatalf("order mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestResolve_TypeMismatchKeepsValue(t *testing.T) {
	reg := MustDefine(1, sampleFields()...)
	saved := Record{
		"clientId":    42,
		"limit":       "ten",
		"dateSince":   "31/01/2024",
		"sortReverse": "yes",
		"cacheExpire": "yearly",
	}

	got := Resolve(reg, saved)
	for name, value := range saved {
		d, _ := got.Find(name)
		if diff := cmp.Diff(value, d.Value); diff != "" {
			t.Fatalf("%s: value should pass through (-want +got):\n%s", name, diff)
		}
		adv, ok := d.TypeMismatch()
		if !ok {
			t.Fatalf("%s: expected type mismatch advisory", name)
		}
		if adv.Field != name || adv.Message == "" {
			t.Fatalf("%s: malformed advisory %+v", name, adv)
		}
	}
	if len(got) != reg.Len() {
		t.Fatalf("mismatches must not truncate output")
	}
}

func TestResolve_AcceptsDecodedNumbersAndDates(t *testing.T) {
	reg := MustDefine(1, sampleFields()...)
	saved := Record{
		"limit":     float64(30),
		"dateSince": time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	got := Resolve(reg, saved)
	for name := range saved {
		d, _ := got.Find(name)
		if _, ok := d.TypeMismatch(); ok {
			t.Fatalf("%s: unexpected mismatch %v", name, d.Advisories)
		}
	}

	d, _ := Resolve(reg, Record{"limit": json.Number("12")}).Find("limit")
	if _, ok := d.TypeMismatch(); ok {
		t.Fatalf("json.Number should be accepted")
	}
	d, _ = Resolve(reg, Record{"limit": 12.5}).Find("limit")
	if _, ok := d.TypeMismatch(); !ok {
		t.Fatalf("fractional number should be a mismatch")
	}
}

func TestResolve_CacheExpireScenario(t *testing.T) {
	reg := MustDefine(1, FieldSpec{
		Name:     "cacheExpire",
		Kind:     KindSelect,
		Default:  "daily",
		Required: true,
		Choices:  lifetimes,
	})

	type view struct {
		Value     any
		Defaulted bool
		Missing   bool
	}
	project := func(d FieldDescriptor) view { return view{d.Value, d.Defaulted, d.Missing} }

	d, _ := Resolve(reg, Record{"cacheExpire": "weekly"}).Find("cacheExpire")
	if diff := cmp.Diff(view{"weekly", false, false}, project(d)); diff != "" {
		t.Fatalf("saved mismatch (-want +got):\n%s", diff)
	}
	d, _ = Resolve(reg, Record{}).Find("cacheExpire")
	if diff := cmp.Diff(view{"daily", true, false}, project(d)); diff != "" {
		t.Fatalf("default mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembler_LabelsAndDecorators(t *testing.T) {
	reg := MustDefine(1,
		FieldSpec{Name: "clientId", Kind: KindText, Label: "Facebook App ID"},
		FieldSpec{Name: "pageName", Kind: KindText},
	)

	var seen []string
	asm := NewAssembler(Options{Decorators: []Decorator{
		DecoratorFunc(func(ds Descriptors) error {
			for i := range ds {
				seen = append(seen, ds[i].Spec.Label)
			}
			return nil
		}),
	}})

	got, err := asm.Resolve(reg, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if diff := cmp.Diff([]string{"Facebook App ID", "Page Name"}, seen); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
	if got[1].Spec.Label != "Page Name" {
		t.Fatalf("expected generated label, got %q", got[1].Spec.Label)
	}

	// Labels are filled on the descriptor copy only.
	spec, _ := reg.Lookup("pageName")
	if spec.Label != "" {
		t.Fatalf("registry spec mutated: %q", spec.Label)
	}
}

func TestAssembler_Errors(t *testing.T) {
	asm := NewAssembler(Options{})
	if _, err := asm.Resolve(nil, nil); !errors.Is(err, ErrNilSchema) {
		t.Fatalf("expected ErrNilSchema, got %v", err)
	}

	boom := errors.New("boom")
	asm = NewAssembler(Options{Decorators: []Decorator{
		DecoratorFunc(func(Descriptors) error { return boom }),
	}})
	if _, err := asm.Resolve(MustDefine(1, sampleFields()...), nil); !errors.Is(err, boom) {
		t.Fatalf("expected decorator error, got %v", err)
	}
}
