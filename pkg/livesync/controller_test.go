package livesync_test

import (
	"context"
	"errors"
	"html"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formpreview/pkg/livesync"
	"github.com/goliatone/go-formpreview/pkg/model"
	"github.com/goliatone/go-formpreview/pkg/platform"
	"github.com/goliatone/go-formpreview/pkg/surface"
	"github.com/goliatone/go-formpreview/pkg/testsupport"
)

const surfaceID platform.ContextID = "ctx-1"

var previewFunc = livesync.PreviewRendererFunc(func(_ context.Context, page model.Page, values model.Values) (string, error) {
	var b strings.Builder
	b.WriteString(`<h1>Preview</h1><h2 id="name">Hello ` + html.EscapeString(values.Get("name")) + `!</h2>`)
	if page.HasField("status") {
		b.WriteString(`<p id="status">` + html.EscapeString(values.Get("status")) + `</p>`)
	}
	return b.String(), nil
})

type harness struct {
	platform   *testsupport.Platform
	host       *testsupport.Host
	surface    *surface.Surface
	controller *livesync.Controller
}

func newHarness(t *testing.T, variant string) *harness {
	t.Helper()

	page, ok := model.LookupPage(variant)
	if !ok {
		t.Fatalf("unknown variant %q", variant)
	}

	h := &harness{
		platform: testsupport.NewPlatform(),
		host:     testsupport.NewHost(),
	}
	h.platform.SetStylesheet(platform.Stylesheet{Href: "/runtime/themes/default/preview.css"})
	h.platform.SetRect(platform.ElementRef{ID: livesync.DefaultContainerID}, platform.Rect{Width: 1280, Height: 720})
	h.platform.SetRect(platform.ElementRef{Context: surfaceID, ID: "name"}, platform.Rect{Top: 120})
	h.platform.SetRect(platform.ElementRef{Context: surfaceID, ID: "status"}, platform.Rect{Top: 300})
	h.platform.SetRect(platform.Root(surfaceID), platform.Rect{Top: -40})

	h.surface = surface.New(h.host, surface.WithIDGenerator(testsupport.SequentialIDs("ctx")))
	if err := h.surface.Mount(); err != nil {
		t.Fatalf("mount surface: %v", err)
	}

	controller, err := livesync.New(livesync.Config{
		Page:      page,
		Platform:  h.platform,
		Validator: testsupport.Settings(t, variant),
		Surface:   h.surface,
		Renderer:  previewFunc,
	})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	h.controller = controller

	if err := controller.Mount(context.Background()); err != nil {
		t.Fatalf("mount controller: %v", err)
	}
	if _, err := h.surface.MarkReady(surfaceID); err != nil {
		t.Fatalf("mark ready: %v", err)
	}
	return h
}

func (h *harness) change(t *testing.T, field, value string) livesync.Result {
	t.Helper()
	result, err := h.controller.OnFieldChange(context.Background(), field, value)
	if err != nil {
		t.Fatalf("OnFieldChange(%s): %v", field, err)
	}
	return result
}

func TestMountSeedsDefaultsAndProjects(t *testing.T) {
	h := newHarness(t, model.VariantBasic)

	if diff := cmp.Diff(model.Values{"name": model.DefaultName}, h.controller.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if got := h.surface.Text(); !strings.Contains(got, "Hello Jon Doe!") {
		t.Fatalf("expected default heading, got %q", got)
	}
	if !strings.Contains(h.surface.Document(), `href="/runtime/themes/default/preview.css"`) {
		t.Fatalf("expected host stylesheet in surface document:\n%s", h.surface.Document())
	}
}

func TestOnFieldChangeValidNames(t *testing.T) {
	cases := map[string]string{
		"single":    "A",
		"alice":     "Alice",
		"fifty":     strings.Repeat("x", 50),
		"multibyte": strings.Repeat("ü", 50),
		// maxLength counts code points, so astral characters count once each.
		"astral":    strings.Repeat("😀", 50),
	}

	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, model.VariantBasic)

			result := h.change(t, "name", value)
			if !result.Committed {
				t.Fatalf("expected commit for %q", value)
			}
			if got := h.controller.Values().Get("name"); got != value {
				t.Fatalf("committed name = %q, want %q", got, value)
			}
			if h.controller.Errors().Has("name") {
				t.Fatalf("expected no name errors, got %v", h.controller.Errors())
			}
		})
	}
}

func TestOnFieldChangeInvalidNamesKeepCommittedValue(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"fifty-one":        strings.Repeat("x", 51),
		"astral-fifty-one": strings.Repeat("😀", 51),
	}

	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, model.VariantBasic)
			h.change(t, "name", "Alice")

			result := h.change(t, "name", value)
			if result.Committed {
				t.Fatalf("expected %q to be rejected", value)
			}
			if got := h.controller.Values().Get("name"); got != "Alice" {
				t.Fatalf("committed name = %q, want Alice", got)
			}
			if !h.controller.Errors().Has("name") {
				t.Fatalf("expected name errors, got %v", h.controller.Errors())
			}
			if got := h.surface.Text(); !strings.Contains(got, "Hello Alice!") {
				t.Fatalf("preview should keep last valid name, got %q", got)
			}
		})
	}
}

func TestOnFieldChangeClearsErrorsAfterRecovery(t *testing.T) {
	h := newHarness(t, model.VariantBasic)

	h.change(t, "name", "")
	if h.controller.Errors().Empty() {
		t.Fatal("expected errors after empty name")
	}

	h.change(t, "name", "Bob")
	if !h.controller.Errors().Empty() {
		t.Fatalf("expected errors cleared, got %v", h.controller.Errors())
	}
	if got := h.surface.Text(); !strings.Contains(got, "Hello Bob!") {
		t.Fatalf("unexpected preview text %q", got)
	}
}

func TestOnFieldChangeCommitsAtomically(t *testing.T) {
	h := newHarness(t, model.VariantStatus)

	h.change(t, "name", "")
	result := h.change(t, "status", "busy")

	if result.Committed {
		t.Fatal("status change must not commit while name is invalid")
	}
	want := model.Values{"name": model.DefaultName, "status": ""}
	if diff := cmp.Diff(want, h.controller.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if !h.controller.Errors().Has("name") {
		t.Fatalf("expected name errors to remain, got %v", h.controller.Errors())
	}
}

func TestScrollFiresOncePerFieldSwitch(t *testing.T) {
	h := newHarness(t, model.VariantStatus)

	first := h.change(t, "name", "Alice")
	second := h.change(t, "name", "Alice")
	third := h.change(t, "status", "busy")
	fourth := h.change(t, "status", "busy!")

	if !first.Scrolled || second.Scrolled || !third.Scrolled || fourth.Scrolled {
		t.Fatalf("unexpected scroll flags: %v %v %v %v", first.Scrolled, second.Scrolled, third.Scrolled, fourth.Scrolled)
	}
	if diff := cmp.Diff(first.Values, second.Values); diff != "" {
		t.Fatalf("repeat change altered state (-first +second):\n%s", diff)
	}

	want := []testsupport.ScrollCall{
		{Context: surfaceID, Top: 120 + 40 - livesync.ScrollOffset},
		{Context: surfaceID, Top: 300 + 40 - livesync.ScrollOffset},
	}
	if diff := cmp.Diff(want, h.platform.Scrolls()); diff != "" {
		t.Fatalf("scroll calls mismatch (-want +got):\n%s", diff)
	}
}

func TestScrollFiresEvenWhenValidationFails(t *testing.T) {
	h := newHarness(t, model.VariantBasic)

	result := h.change(t, "name", "")
	if result.Committed || !result.Scrolled {
		t.Fatalf("unexpected result %+v", result)
	}
	if got := len(h.platform.Scrolls()); got != 1 {
		t.Fatalf("expected one scroll, got %d", got)
	}
}

func TestScrollMissingElementIsNoop(t *testing.T) {
	page := model.Page{Variant: "custom", Fields: []model.Field{{Name: "nickname", Default: "x"}}}
	p := testsupport.NewPlatform()
	s := surface.New(testsupport.NewHost(), surface.WithIDGenerator(testsupport.SequentialIDs("ctx")))
	if err := s.Mount(); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if _, err := s.MarkReady(surfaceID); err != nil {
		t.Fatalf("ready: %v", err)
	}

	controller, err := livesync.New(livesync.Config{
		Page:      page,
		Platform:  p,
		Validator: acceptAll{},
		Surface:   s,
		Renderer:  previewFunc,
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := controller.Mount(context.Background()); err != nil {
		t.Fatalf("mount controller: %v", err)
	}

	result, err := controller.OnFieldChange(context.Background(), "nickname", "y")
	if err != nil {
		t.Fatalf("change: %v", err)
	}
	if result.Scrolled || len(p.Scrolls()) != 0 {
		t.Fatalf("expected no scroll, got %+v", p.Scrolls())
	}
	if result.Committed != true {
		t.Fatal("expected commit")
	}
}

func TestUnknownFieldIsIgnored(t *testing.T) {
	h := newHarness(t, model.VariantBasic)

	result := h.change(t, "status", "busy")
	if !result.Ignored || result.Committed || result.Scrolled {
		t.Fatalf("unexpected result %+v", result)
	}
	if _, ok := h.controller.Values()["status"]; ok {
		t.Fatal("unknown field leaked into the value set")
	}
}

func TestResizeUpdatesBreakpointAndOverlay(t *testing.T) {
	h := newHarness(t, model.VariantBasic)

	if got := h.controller.Breakpoint(); got != livesync.BreakpointXL {
		t.Fatalf("initial breakpoint = %q, want xl", got)
	}

	h.platform.Resize(livesync.DefaultContainerID, 1000, 800)

	if got := h.controller.Breakpoint(); got != livesync.BreakpointMD {
		t.Fatalf("breakpoint = %q, want md", got)
	}
	if got := h.controller.Overlay(); got != "1000 x 800 (md)" {
		t.Fatalf("overlay = %q", got)
	}
	if diff := cmp.Diff(livesync.Size{Width: 1000, Height: 800}, h.controller.Size()); diff != "" {
		t.Fatalf("size mismatch (-want +got):\n%s", diff)
	}
}

func TestListenerLifecycle(t *testing.T) {
	h := newHarness(t, model.VariantBasic)

	if err := h.controller.Mount(context.Background()); err != nil {
		t.Fatalf("remount: %v", err)
	}
	if got := h.platform.Count(platform.EventResize); got != 1 {
		t.Fatalf("expected a single listener, got %d", got)
	}

	h.controller.Unmount()
	h.controller.Unmount()

	added, removed := h.platform.ListenerCalls()
	if added != 1 || removed != 1 {
		t.Fatalf("listener calls added=%d removed=%d, want 1/1", added, removed)
	}

	before := h.controller.Breakpoint()
	if fired := h.platform.Resize(livesync.DefaultContainerID, 500, 500); fired != 0 {
		t.Fatalf("expected no listeners after unmount, %d fired", fired)
	}
	if got := h.controller.Breakpoint(); got != before {
		t.Fatalf("breakpoint changed after unmount: %q -> %q", before, got)
	}
}

func TestStylesheetQueriedOnce(t *testing.T) {
	h := newHarness(t, model.VariantBasic)

	h.change(t, "name", "Alice")
	h.change(t, "name", "Alicia")
	if err := h.controller.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	h.controller.Unmount()
	if err := h.controller.Mount(context.Background()); err != nil {
		t.Fatalf("remount: %v", err)
	}

	if got := h.platform.StylesheetCalls(); got != 1 {
		t.Fatalf("stylesheet queried %d times, want 1", got)
	}
}

func TestMissingStylesheetIsNoop(t *testing.T) {
	p := testsupport.NewPlatform()
	host := testsupport.NewHost()
	s := surface.New(host, surface.WithIDGenerator(testsupport.SequentialIDs("ctx")))
	if err := s.Mount(); err != nil {
		t.Fatalf("mount: %v", err)
	}

	controller, err := livesync.New(livesync.Config{
		Page:      model.BasicPage(),
		Platform:  p,
		Validator: testsupport.Settings(t, model.VariantBasic),
		Surface:   s,
		Renderer:  previewFunc,
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := controller.Mount(context.Background()); err != nil {
		t.Fatalf("mount controller: %v", err)
	}
	if _, ok := controller.Stylesheet(); ok {
		t.Fatal("expected no stylesheet")
	}
	if _, err := s.MarkReady(surfaceID); err != nil {
		t.Fatalf("ready: %v", err)
	}
	if strings.Contains(s.Document(), "stylesheet") {
		t.Fatalf("unexpected stylesheet link:\n%s", s.Document())
	}
	if got := controller.Breakpoint(); got != livesync.BreakpointNone {
		t.Fatalf("unmeasured container should keep none, got %q", got)
	}
}

func TestValidatorFailurePropagates(t *testing.T) {
	h := newHarness(t, model.VariantBasic)
	broken, err := livesync.New(livesync.Config{
		Page:      model.BasicPage(),
		Platform:  h.platform,
		Validator: failing{},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, err := broken.OnFieldChange(context.Background(), "name", "x"); err == nil {
		t.Fatal("expected validator failure to surface")
	}
	if got := broken.Values().Get("name"); got != model.DefaultName {
		t.Fatalf("values changed on failure: %q", got)
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	if _, err := livesync.New(livesync.Config{Page: model.BasicPage(), Validator: acceptAll{}}); err == nil {
		t.Fatal("expected missing platform error")
	}
	if _, err := livesync.New(livesync.Config{Page: model.BasicPage(), Platform: testsupport.NewPlatform()}); err == nil {
		t.Fatal("expected missing validator error")
	}
	if _, err := livesync.New(livesync.Config{Platform: testsupport.NewPlatform(), Validator: acceptAll{}}); err == nil {
		t.Fatal("expected empty page error")
	}
}

func TestObserverCallbacks(t *testing.T) {
	p := testsupport.NewPlatform()
	p.SetRect(platform.ElementRef{ID: "box"}, platform.Rect{Width: 700, Height: 400})

	var resized []livesync.Breakpoint
	var changed []string
	controller, err := livesync.New(livesync.Config{
		Page:        model.BasicPage(),
		Platform:    p,
		Validator:   acceptAll{},
		ContainerID: "box",
		Initial:     model.Values{"name": "Zed", "ignored": "x"},
		Observer: livesync.Observer{
			Changed: func(r livesync.Result) { changed = append(changed, r.Field) },
			Resized: func(_ livesync.Size, bp livesync.Breakpoint) { resized = append(resized, bp) },
		},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if diff := cmp.Diff(model.Values{"name": "Zed"}, controller.Values()); diff != "" {
		t.Fatalf("initial values mismatch (-want +got):\n%s", diff)
	}
	if err := controller.Mount(context.Background()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	p.Resize("box", 1600, 900)
	if _, err := controller.OnFieldChange(context.Background(), "name", "Amy"); err != nil {
		t.Fatalf("change: %v", err)
	}

	if diff := cmp.Diff([]livesync.Breakpoint{livesync.BreakpointSM, livesync.Breakpoint2XL}, resized); diff != "" {
		t.Fatalf("resized mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"name"}, changed); diff != "" {
		t.Fatalf("changed mismatch (-want +got):\n%s", diff)
	}
	snap := controller.Snapshot()
	if snap.Overlay != "1600 x 900 (2xl)" || snap.LastSynced != "name" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

type acceptAll struct{}

func (acceptAll) Validate(values model.Values) (model.Values, error) {
	return values.Clone(), nil
}

type failing struct{}

func (failing) Validate(model.Values) (model.Values, error) {
	return nil, errors.New("boom")
}

func TestRefreshReprojectsChangedRendererOutput(t *testing.T) {
	page, _ := model.LookupPage(model.VariantBasic)
	host := testsupport.NewHost()
	surf := surface.New(host, surface.WithIDGenerator(testsupport.SequentialIDs("ctx")))
	if err := surf.Mount(); err != nil {
		t.Fatalf("mount surface: %v", err)
	}

	greeting := "Hello"
	renderer := livesync.PreviewRendererFunc(func(_ context.Context, _ model.Page, values model.Values) (string, error) {
		return `<h2 id="name">` + greeting + " " + html.EscapeString(values.Get("name")) + `</h2>`, nil
	})

	controller, err := livesync.New(livesync.Config{
		Page:      page,
		Platform:  testsupport.NewPlatform(),
		Validator: testsupport.Settings(t, model.VariantBasic),
		Surface:   surf,
		Renderer:  renderer,
	})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	if err := controller.Mount(context.Background()); err != nil {
		t.Fatalf("mount controller: %v", err)
	}
	if _, err := surf.MarkReady(surfaceID); err != nil {
		t.Fatalf("mark ready: %v", err)
	}
	sent := len(host.Documents(surfaceID))

	if err := controller.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := len(host.Documents(surfaceID)); got != sent {
		t.Fatalf("unchanged refresh re-sent the document: %d -> %d", sent, got)
	}

	greeting = "Welcome"
	if err := controller.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := len(host.Documents(surfaceID)); got != sent+1 {
		t.Fatalf("documents after changed refresh = %d, want %d", got, sent+1)
	}
	if got := surf.Text(); !strings.Contains(got, "Welcome Jon Doe") {
		t.Fatalf("expected refreshed heading, got %q", got)
	}
}
