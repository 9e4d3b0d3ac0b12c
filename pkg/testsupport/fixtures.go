package testsupport

import (
	"io/fs"
	"strconv"
	"testing"

	"github.com/goliatone/go-formpreview/pkg/schema"
)

// Settings compiles the embedded settings schema for variant, failing the
// test on error.
func Settings(t testing.TB, variant string) *schema.Settings {
	t.Helper()

	raw, err := fs.ReadFile(schema.SettingsFS(), variant+".json")
	if err != nil {
		t.Fatalf("testsupport: read schema %s: %v", variant, err)
	}
	settings, err := schema.NewSettings(schema.MustNewDocument(schema.SourceForVariant(variant), raw))
	if err != nil {
		t.Fatalf("testsupport: compile schema %s: %v", variant, err)
	}
	return settings
}

// SequentialIDs returns an id generator yielding prefix-1, prefix-2, ...
func SequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + "-" + strconv.Itoa(n)
	}
}
