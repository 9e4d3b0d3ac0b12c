package schema_test

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formpreview/pkg/model"
	"github.com/goliatone/go-formpreview/pkg/schema"
)

func loadEmbedded(t *testing.T, variant string) *schema.Settings {
	t.Helper()

	raw, err := fs.ReadFile(schema.SettingsFS(), variant+".json")
	if err != nil {
		t.Fatalf("read embedded schema: %v", err)
	}
	settings, err := schema.NewSettings(schema.MustNewDocument(schema.SourceForVariant(variant), raw))
	if err != nil {
		t.Fatalf("compile schema: %v", err)
	}
	return settings
}

func TestSettingsValidateNameLength(t *testing.T) {
	settings := loadEmbedded(t, model.VariantBasic)

	cases := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "empty", value: "", wantErr: true},
		{name: "single", value: "A", wantErr: false},
		{name: "default", value: model.DefaultName, wantErr: false},
		{name: "fifty", value: strings.Repeat("x", 50), wantErr: false},
		{name: "fifty-one", value: strings.Repeat("x", 51), wantErr: true},
		{name: "multibyte", value: strings.Repeat("é", 50), wantErr: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := settings.Validate(model.Values{"name": tc.value})
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if diff := cmp.Diff(model.Values{"name": tc.value}, got); diff != "" {
					t.Fatalf("values mismatch (-want +got):\n%s", diff)
				}
				return
			}
			verr, ok := schema.AsValidationError(err)
			if !ok {
				t.Fatalf("expected validation error, got %v", err)
			}
			if len(verr.Fields["name"]) == 0 {
				t.Fatalf("expected name messages, got %+v", verr)
			}
		})
	}
}

func TestSettingsValidateCollectsEveryField(t *testing.T) {
	settings := loadEmbedded(t, model.VariantStatus)

	_, err := settings.Validate(model.Values{"status": "busy"})
	verr, ok := schema.AsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !verr.Errors().Has("name") {
		t.Fatalf("expected missing name to be reported, got %+v", verr.Fields)
	}
	if verr.Errors().Has("status") {
		t.Fatalf("status is optional, got %+v", verr.Fields)
	}
	if !strings.Contains(verr.Error(), "name:") {
		t.Fatalf("error string should mention the field: %q", verr.Error())
	}
}

func TestSettingsProperties(t *testing.T) {
	settings := loadEmbedded(t, model.VariantStatus)
	if diff := cmp.Diff([]string{"name", "status"}, settings.Properties()); diff != "" {
		t.Fatalf("properties mismatch (-want +got):\n%s", diff)
	}
}

func TestNewSettingsRejectsNonObject(t *testing.T) {
	doc := schema.MustNewDocument(schema.SourceFromFS("scalar.json"), []byte(`{"type":"string"}`))
	if _, err := schema.NewSettings(doc); err == nil {
		t.Fatalf("expected error for non-object schema")
	}
}

func TestParseSource(t *testing.T) {
	cases := []struct {
		in   string
		kind schema.SourceKind
		loc  string
	}{
		{in: "embed:status.json", kind: schema.SourceKindFS, loc: "status.json"},
		{in: "https://example.com/settings.json", kind: schema.SourceKindURL, loc: "https://example.com/settings.json"},
		{in: "testdata/settings.json", kind: schema.SourceKindFile, loc: "testdata/settings.json"},
	}
	for _, tc := range cases {
		src, err := schema.ParseSource(tc.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.in, err)
		}
		if src.Kind() != tc.kind || src.Location() != tc.loc {
			t.Fatalf("parse %q = %s %s", tc.in, src.Kind(), src.Location())
		}
	}
	if src, err := schema.ParseSource(""); err != nil || src != nil {
		t.Fatalf("expected nil source for empty location")
	}
}
