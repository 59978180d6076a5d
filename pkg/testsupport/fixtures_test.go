package testsupport_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-settingsgen/pkg/model"
	"github.com/goliatone/go-settingsgen/pkg/testsupport"
)

func TestLoadRecord_JSONAndYAML(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "saved.json")
	yamlPath := filepath.Join(dir, "saved.yaml")
	if err := os.WriteFile(jsonPath, []byte(`{"clientId":"1","limit":5,"sortReverse":true}`), 0o644); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if err := os.WriteFile(yamlPath, []byte("clientId: \"1\"\nlimit: 5\nsortReverse: true\n"), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	fromJSON := testsupport.MustLoadRecord(t, jsonPath)
	fromYAML := testsupport.MustLoadRecord(t, yamlPath)

	if diff := cmp.Diff(model.Record{"clientId": "1", "limit": float64(5), "sortReverse": true}, fromJSON); diff != "" {
		t.Fatalf("json record mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(model.Record{"clientId": "1", "limit": 5, "sortReverse": true}, fromYAML); diff != "" {
		t.Fatalf("yaml record mismatch (-want +got):\n%s", diff)
	}

	if _, err := testsupport.LoadRecord(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestFacebookDescriptors_SavedRecordIsValid(t *testing.T) {
	descriptors := testsupport.FacebookDescriptors(t, testsupport.SavedRecord())
	if !descriptors.Valid() {
		t.Fatalf("fixture record should be valid, got %v", descriptors.Advisories())
	}
}
