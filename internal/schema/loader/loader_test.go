package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formpreview/pkg/model"
	"github.com/goliatone/go-formpreview/pkg/schema"
)

const sampleSchema = `{"type":"object","required":["name"],"properties":{"name":{"type":"string","minLength":1,"maxLength":50}}}`

func TestLoaderEmbeddedDefaults(t *testing.T) {
	l := New(schema.NewLoaderOptions())

	settings, err := schema.Load(context.Background(), l, schema.SourceForVariant(model.VariantStatus))
	if err != nil {
		t.Fatalf("load embedded: %v", err)
	}
	if got := settings.Properties(); len(got) != 2 {
		t.Fatalf("expected two properties, got %v", got)
	}
}

func TestLoaderFileAndFS(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	if err := os.WriteFile(path, []byte(sampleSchema), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	l := New(schema.NewLoaderOptions(schema.WithFileSystem(fstest.MapFS{
		"custom.json": {Data: []byte(sampleSchema)},
	})))

	for _, src := range []schema.Source{schema.SourceFromFile(path), schema.SourceFromFS("custom.json")} {
		doc, err := l.Load(context.Background(), src)
		if err != nil {
			t.Fatalf("load %s: %v", src.Location(), err)
		}
		if string(doc.Raw()) != sampleSchema {
			t.Fatalf("unexpected payload for %s", src.Location())
		}
	}
}

func TestLoaderHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/settings.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(sampleSchema))
	}))
	defer srv.Close()

	disabled := New(schema.NewLoaderOptions())
	if _, err := disabled.Load(context.Background(), schema.SourceFromURL(srv.URL+"/settings.json")); err == nil {
		t.Fatalf("expected http loading to be disabled by default")
	}

	l := New(schema.NewLoaderOptions(schema.WithHTTPClient(srv.Client())))
	if _, err := l.Load(context.Background(), schema.SourceFromURL(srv.URL+"/settings.json")); err != nil {
		t.Fatalf("load over http: %v", err)
	}
	if _, err := l.Load(context.Background(), schema.SourceFromURL(srv.URL+"/missing.json")); err == nil {
		t.Fatalf("expected error for 404")
	}
}

func TestLoaderHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := New(schema.NewLoaderOptions())
	if _, err := l.Load(ctx, schema.SourceForVariant(model.VariantBasic)); err == nil {
		t.Fatalf("expected cancelled context error")
	}
}
