// Package platform abstracts the browser globals the live preview needs
// (window listeners, layout measurement, the host stylesheet and scrolling)
// behind an injected capability so the controller can run against a real
// browser bridge, a terminal, or a deterministic fake.
package platform

// Event names a host-level notification a listener can subscribe to.
type Event string

// EventResize fires whenever the host viewport changes size.
const EventResize Event = "resize"

// ListenerID identifies a registered listener for later removal. The zero
// value never identifies a live registration.
type ListenerID uint64

// ContextID identifies a browsing context. The empty ContextID is the host
// document; isolated render surfaces get their own ids.
type ContextID string

// HostContext is the top-level document.
const HostContext ContextID = ""

// ElementRef addresses an element by identifier inside a context. An empty ID
// refers to the context's document root, whose Top is the negated scroll
// position of that context.
type ElementRef struct {
	Context ContextID `json:"context,omitempty"`
	ID      string    `json:"id,omitempty"`
}

// Root returns the document-root reference for a context.
func Root(ctx ContextID) ElementRef {
	return ElementRef{Context: ctx}
}

// Rect is a layout box relative to its context's viewport.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Stylesheet is a stylesheet link found on the host document.
type Stylesheet struct {
	Href  string `json:"href"`
	Media string `json:"media,omitempty"`
}

// Platform is the capability surface the live controller depends on.
type Platform interface {
	// AddListener registers fn for event and returns a handle for removal.
	AddListener(event Event, fn func()) ListenerID
	// RemoveListener drops a registration. Unknown ids are ignored.
	RemoveListener(id ListenerID)
	// Measure reports the rendered box of an element, false when the element
	// is unknown or has not been laid out yet.
	Measure(ref ElementRef) (Rect, bool)
	// QueryStylesheet returns the host document's first stylesheet link.
	QueryStylesheet() (Stylesheet, bool)
	// ScrollTo requests a smooth scroll of ctx to top. Fire and forget; a
	// newer request supersedes an in-flight one.
	ScrollTo(ctx ContextID, top float64)
}
