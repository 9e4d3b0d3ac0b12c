package server

import (
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/goliatone/go-formpreview/pkg/platform"
	"github.com/goliatone/go-formpreview/pkg/surface"
)

// sender delivers one outbound message to the browser.
type sender func(kind string, msg any) error

// bridge is the browser-backed platform of a session. Layout comes from the
// bridge script's resize and layout reports; scrolls and surface documents
// go back out as messages.
type bridge struct {
	platform.Listeners

	mu           sync.Mutex
	send         sender
	hostDocument string
	rects        map[platform.ElementRef]platform.Rect
}

var (
	_ platform.Platform = (*bridge)(nil)
	_ surface.Host      = (*bridge)(nil)
)

func newBridge(send sender, hostDocument string) *bridge {
	return &bridge{
		send:         send,
		hostDocument: hostDocument,
		rects:        make(map[platform.ElementRef]platform.Rect),
	}
}

// Measure returns the last reported box for ref.
func (b *bridge) Measure(ref platform.ElementRef) (platform.Rect, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rect, ok := b.rects[ref]
	return rect, ok
}

// QueryStylesheet finds the first stylesheet link of the host document the
// session's page was rendered with.
func (b *bridge) QueryStylesheet() (platform.Stylesheet, bool) {
	return firstStylesheet(b.hostDocument)
}

// ScrollTo forwards a smooth scroll request. Delivery failures surface when
// the read loop notices the closed connection.
func (b *bridge) ScrollTo(ctx platform.ContextID, top float64) {
	_ = b.send(MsgScroll, ScrollMessage{Type: MsgScroll, Context: ctx, Top: top, Behavior: "smooth"})
}

// Attach asks the browser to bind the preview frame to id.
func (b *bridge) Attach(id platform.ContextID) error {
	return b.send(MsgAttach, SurfaceMessage{Type: MsgAttach, Context: id})
}

// Replace hands a complete document to the preview frame.
func (b *bridge) Replace(id platform.ContextID, document string) error {
	return b.send(MsgProject, SurfaceMessage{Type: MsgProject, Context: id, HTML: document})
}

// Detach releases the preview frame and forgets its layout.
func (b *bridge) Detach(id platform.ContextID) {
	b.forget(id)
	_ = b.send(MsgDetach, SurfaceMessage{Type: MsgDetach, Context: id})
}

// setContainer records the host container size reported by the browser.
func (b *bridge) setContainer(id string, width, height float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rects[platform.ElementRef{Context: platform.HostContext, ID: id}] = platform.Rect{Width: width, Height: height}
}

// applyLayout replaces the known layout of a surface context.
func (b *bridge) applyLayout(ctx platform.ContextID, root *platform.Rect, elements map[string]platform.Rect) error {
	if ctx == platform.HostContext {
		return fmt.Errorf("layout: context is required")
	}
	b.forget(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	if root != nil {
		b.rects[platform.Root(ctx)] = *root
	}
	for id, rect := range elements {
		if id == "" {
			continue
		}
		b.rects[platform.ElementRef{Context: ctx, ID: id}] = rect
	}
	return nil
}

func (b *bridge) forget(ctx platform.ContextID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ref := range b.rects {
		if ref.Context == ctx {
			delete(b.rects, ref)
		}
	}
}

func firstStylesheet(document string) (platform.Stylesheet, bool) {
	if strings.TrimSpace(document) == "" {
		return platform.Stylesheet{}, false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return platform.Stylesheet{}, false
	}
	link := doc.Find(`link[rel~="stylesheet"][href]`).First()
	if link.Length() == 0 {
		return platform.Stylesheet{}, false
	}
	href, _ := link.Attr("href")
	media, _ := link.Attr("media")
	return platform.Stylesheet{Href: href, Media: media}, href != ""
}
