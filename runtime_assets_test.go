package formpreview

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-formpreview/pkg/renderers/vanilla"
)

func TestRuntimeAssetsFSContainsBridge(t *testing.T) {
	data, err := fs.ReadFile(RuntimeAssetsFS(), vanilla.BridgeScriptName)
	if err != nil {
		t.Fatalf("expected bridge script to be readable: %v", err)
	}
	for _, kind := range []string{`"hello"`, `"input"`, `"resize"`, `"ready"`, `"layout"`} {
		if !strings.Contains(string(data), kind) {
			t.Fatalf("bridge script does not send %s messages", kind)
		}
	}
}

func TestRuntimeAssetsFSContainsStylesheets(t *testing.T) {
	for _, name := range []string{
		vanilla.HostStylesheetName,
		"themes/default/preview.css",
		"themes/default/preview-dark.css",
	} {
		if _, err := fs.Stat(RuntimeAssetsFS(), name); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
}
