package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-settingsgen/pkg/fbevents"
	"github.com/goliatone/go-settingsgen/pkg/model"
	"github.com/goliatone/go-settingsgen/pkg/render"
)

type stubDriver struct {
	inputs       []string
	passwords    []string
	confirm      []bool
	selectIdx    []int
	infoMessages []string
	inputConfigs []InputConfig
	selectConfig []SelectConfig
	inputPos     int
	passPos      int
	confirmPos   int
	selectPos    int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	s.inputConfigs = append(s.inputConfigs, cfg)
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, _ InputConfig) (string, error) {
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	s.selectConfig = append(s.selectConfig, cfg)
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func facebookDescriptors(saved model.Record) model.Descriptors {
	return model.Resolve(fbevents.Schema(), saved)
}

func TestCollect_FacebookSettings(t *testing.T) {
	driver := &stubDriver{
		// clientId, pageName, limit, dateSince, dateUntil
		inputs:    []string{"1234", "gophercon", "25", "2024-01-01", ""},
		passwords: []string{"s3cr3t"},
		selectIdx: []int{5},
		confirm:   []bool{true},
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	got, err := r.Collect(context.Background(), facebookDescriptors(model.Record{fbevents.FieldPageID: "1000123"}), render.RenderOptions{})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	want := model.Record{
		"clientId":     "1234",
		"clientSecret": "s3cr3t",
		"pageName":     "gophercon",
		"cacheExpire":  "weekly",
		"limit":        int64(25),
		"dateSince":    "2024-01-01",
		"dateUntil":    "",
		"sortReverse":  true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("collected values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Facebook Page ID: 1000123 (locked)"}, driver.infoMessages); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_PrefillsResolvedValues(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"1", "p", "10", "", ""},
		passwords: []string{""},
		selectIdx: []int{4},
		confirm:   []bool{false},
	}
	r, _ := New(WithPromptDriver(driver))

	saved := model.Record{"clientId": "1", "clientSecret": "kept", "pageName": "p"}
	got, err := r.Collect(context.Background(), facebookDescriptors(saved), render.RenderOptions{})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	if driver.inputConfigs[2].Default != "10" {
		t.Fatalf("expected limit default 10, got %q", driver.inputConfigs[2].Default)
	}
	if driver.selectConfig[0].DefaultIndex != 4 {
		t.Fatalf("expected daily preselected, got %d", driver.selectConfig[0].DefaultIndex)
	}
	if _, ok := got["clientSecret"]; ok {
		t.Fatalf("blank secret answer must keep the saved secret")
	}
}

func TestCollect_RepromptsInvalidAnswers(t *testing.T) {
	minLimit, maxLimit := int64(1), int64(100)
	reg := model.MustDefine(1,
		model.FieldSpec{Name: "clientId", Kind: model.KindText, Required: true},
		model.FieldSpec{Name: "limit", Kind: model.KindInteger, Default: 10, Min: &minLimit, Max: &maxLimit},
		model.FieldSpec{Name: "dateSince", Kind: model.KindDate},
	)
	driver := &stubDriver{
		inputs: []string{"", "abc", "ten", "0", "101", "50", "31/01/2024", "2024-01-31"},
	}
	r, _ := New(WithPromptDriver(driver), WithTheme(Theme{ErrorPrefix: "! "}))

	got, err := r.Collect(context.Background(), model.Resolve(reg, nil), render.RenderOptions{})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	want := model.Record{"clientId": "abc", "limit": int64(50), "dateSince": "2024-01-31"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("collected values mismatch (-want +got):\n%s", diff)
	}
	if len(driver.infoMessages) != 5 {
		t.Fatalf("expected five validation messages, got %v", driver.infoMessages)
	}
	for _, msg := range driver.infoMessages {
		if !strings.HasPrefix(msg, "! ") {
			t.Fatalf("expected error prefix on %q", msg)
		}
	}
}

func TestCollect_ShowsServerErrors(t *testing.T) {
	reg := model.MustDefine(1, model.FieldSpec{Name: "pageName", Kind: model.KindText})
	driver := &stubDriver{inputs: []string{"other"}}
	r, _ := New(WithPromptDriver(driver))

	_, err := r.Collect(context.Background(), model.Resolve(reg, nil), render.RenderOptions{
		Errors: map[string][]string{"pageName": {"Page not found"}},
	})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if diff := cmp.Diff([]string{"Page Name: Page not found"}, driver.infoMessages); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_OutputFormats(t *testing.T) {
	reg := model.MustDefine(1,
		model.FieldSpec{Name: "pageName", Kind: model.KindText},
		model.FieldSpec{Name: "limit", Kind: model.KindInteger},
	)
	cases := map[OutputFormat]string{
		OutputFormatJSON:       `{"limit":5,"pageName":"go"}`,
		OutputFormatYAML:       "pageName: go\nlimit: 5\n",
		OutputFormatPrettyText: "pageName=go\nlimit=5\n",
	}
	for format, want := range cases {
		driver := &stubDriver{inputs: []string{"go", "5"}}
		r, err := New(WithPromptDriver(driver), WithOutputFormat(format))
		if err != nil {
			t.Fatalf("%s: new renderer: %v", format, err)
		}
		out, err := r.Render(context.Background(), model.Resolve(reg, nil), render.RenderOptions{})
		if err != nil {
			t.Fatalf("%s: render: %v", format, err)
		}
		if string(out) != want {
			t.Fatalf("%s: output mismatch\nwant: %q\n got: %q", format, want, string(out))
		}
	}
}

func TestNew_RejectsUnknownFormat(t *testing.T) {
	if _, err := New(WithOutputFormat("xml")); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestCollect_SubmitTransformerAndAbort(t *testing.T) {
	reg := model.MustDefine(1, model.FieldSpec{Name: "pageName", Kind: model.KindText})

	r, _ := New(
		WithPromptDriver(&stubDriver{inputs: []string{"go"}}),
		WithSubmitTransformer(func(values model.Record) (model.Record, error) {
			values["pageName"] = strings.ToUpper(values["pageName"].(string))
			return values, nil
		}),
	)
	got, err := r.Collect(context.Background(), model.Resolve(reg, nil), render.RenderOptions{})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if got["pageName"] != "GO" {
		t.Fatalf("expected transformed value, got %v", got["pageName"])
	}

	r, _ = New(WithPromptDriver(&stubDriver{}))
	if _, err := r.Collect(context.Background(), model.Resolve(reg, nil), render.RenderOptions{}); err == nil {
		t.Fatalf("expected driver error to abort collection")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Collect(ctx, nil, render.RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
