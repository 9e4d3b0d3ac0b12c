package tui

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formpreview/pkg/platform"
)

const paneDocument = `<!DOCTYPE html><html><head></head><body data-preview-surface="p1">
<h1>Preview</h1>
<h2 id="name">Hello   Jon Doe!</h2>
<p id="status">Working</p>
</body></html>`

func TestTerminal_MeasureAndScroll(t *testing.T) {
	term := NewTerminal(fixedSize(120, 40), 0, 0)
	if err := term.Attach("p1"); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if err := term.Replace("p1", paneDocument); err != nil {
		t.Fatalf("replace: %v", err)
	}

	host, ok := term.Measure(platform.ElementRef{ID: "preview-container"})
	if !ok {
		t.Fatalf("expected host measurement")
	}
	if diff := cmp.Diff(platform.Rect{Width: 960, Height: 640}, host); diff != "" {
		t.Fatalf("host rect mismatch (-want +got):\n%s", diff)
	}

	status, ok := term.Measure(platform.ElementRef{Context: "p1", ID: "status"})
	if !ok || status.Top != 32 {
		t.Fatalf("expected status at 32, got %+v (ok=%v)", status, ok)
	}

	term.ScrollTo("p1", 16)
	root, _ := term.Measure(platform.Root("p1"))
	if root.Top != -16 {
		t.Fatalf("expected root top -16, got %v", root.Top)
	}
	if diff := cmp.Diff([]string{"Hello Jon Doe!", "Working"}, term.Visible("p1", 0)); diff != "" {
		t.Fatalf("visible mismatch (-want +got):\n%s", diff)
	}

	term.ScrollTo("p1", -50)
	if diff := cmp.Diff([]string{"Preview"}, term.Visible("p1", 1)); diff != "" {
		t.Fatalf("visible mismatch (-want +got):\n%s", diff)
	}

	if _, ok := term.Measure(platform.ElementRef{Context: "p1", ID: "missing"}); ok {
		t.Fatalf("expected unknown element to miss")
	}
	if _, ok := term.QueryStylesheet(); ok {
		t.Fatalf("terminals have no stylesheet")
	}

	term.Detach("p1")
	if _, ok := term.Measure(platform.Root("p1")); ok {
		t.Fatalf("expected detached pane to miss")
	}
}

func TestTerminal_RefreshDispatchesResize(t *testing.T) {
	cols := 80
	term := NewTerminal(func() (int, int, error) { return cols, 24, nil }, 0, 0)

	calls := 0
	term.AddListener(platform.EventResize, func() { calls++ })

	if term.Refresh() {
		t.Fatalf("unchanged size must not dispatch")
	}
	cols = 100
	if !term.Refresh() {
		t.Fatalf("expected resize")
	}
	if calls != 1 {
		t.Fatalf("expected one resize dispatch, got %d", calls)
	}
}

func TestTerminal_ReplaceRequiresAttach(t *testing.T) {
	term := NewTerminal(fixedSize(80, 24), 0, 0)
	if err := term.Replace("nope", paneDocument); err == nil {
		t.Fatalf("expected error for unattached pane")
	}
	if err := term.Attach("p1"); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if err := term.Attach("p1"); err == nil {
		t.Fatalf("expected duplicate attach error")
	}
}
