package testsupport

import (
	"sync"

	"github.com/goliatone/go-formpreview/pkg/platform"
)

// ScrollCall records a ScrollTo request.
type ScrollCall struct {
	Context platform.ContextID
	Top     float64
}

// Platform is a deterministic platform.Platform for tests. Layout is scripted
// through SetRect/SetViewport and resize events are delivered with Resize.
type Platform struct {
	platform.Listeners

	mu              sync.Mutex
	rects           map[platform.ElementRef]platform.Rect
	stylesheet      *platform.Stylesheet
	stylesheetCalls int
	scrolls         []ScrollCall
	added           int
	removed         int
}

var _ platform.Platform = (*Platform)(nil)

// NewPlatform constructs an empty fake platform.
func NewPlatform() *Platform {
	return &Platform{rects: make(map[platform.ElementRef]platform.Rect)}
}

// AddListener counts registrations before delegating to the listener table.
func (p *Platform) AddListener(event platform.Event, fn func()) platform.ListenerID {
	p.mu.Lock()
	p.added++
	p.mu.Unlock()
	return p.Listeners.AddListener(event, fn)
}

// RemoveListener counts removals before delegating to the listener table.
func (p *Platform) RemoveListener(id platform.ListenerID) {
	p.mu.Lock()
	p.removed++
	p.mu.Unlock()
	p.Listeners.RemoveListener(id)
}

// Measure returns the scripted rect for ref.
func (p *Platform) Measure(ref platform.ElementRef) (platform.Rect, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	rect, ok := p.rects[ref]
	return rect, ok
}

// QueryStylesheet returns the scripted stylesheet and counts the lookup.
func (p *Platform) QueryStylesheet() (platform.Stylesheet, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stylesheetCalls++
	if p.stylesheet == nil {
		return platform.Stylesheet{}, false
	}
	return *p.stylesheet, true
}

// ScrollTo records the request.
func (p *Platform) ScrollTo(ctx platform.ContextID, top float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scrolls = append(p.scrolls, ScrollCall{Context: ctx, Top: top})
}

// SetRect scripts the layout box for ref.
func (p *Platform) SetRect(ref platform.ElementRef, rect platform.Rect) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rects[ref] = rect
}

// SetStylesheet scripts the host stylesheet.
func (p *Platform) SetStylesheet(sheet platform.Stylesheet) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stylesheet = &sheet
}

// Resize updates the host container box and fires the resize listeners.
func (p *Platform) Resize(container string, width, height float64) int {
	p.SetRect(platform.ElementRef{ID: container}, platform.Rect{Width: width, Height: height})
	return p.Dispatch(platform.EventResize)
}

// Scrolls returns a copy of the recorded scroll requests.
func (p *Platform) Scrolls() []ScrollCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ScrollCall(nil), p.scrolls...)
}

// StylesheetCalls reports how often QueryStylesheet ran.
func (p *Platform) StylesheetCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stylesheetCalls
}

// ListenerCalls reports how many listeners were added and removed.
func (p *Platform) ListenerCalls() (added, removed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.added, p.removed
}
