package surface

import (
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formpreview/pkg/platform"
)

// MarkerAttr is the fixed attribute identifying surface markup so host-side
// tooling can query into it.
const MarkerAttr = "data-preview-surface"

// Host creates, feeds and destroys the browsing context backing a surface.
type Host interface {
	Attach(id platform.ContextID) error
	Replace(id platform.ContextID, document string) error
	Detach(id platform.ContextID)
}

// Element is an element found inside the surface document.
type Element struct {
	Ref  platform.ElementRef
	Text string
}

// Option configures a Surface.
type Option func(*Surface)

// WithIDGenerator overrides how context ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(s *Surface) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithPolicy overrides the sanitizer applied to projected content.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(s *Surface) {
		if policy != nil {
			s.policy = policy
		}
	}
}

// Surface is an isolated render surface.
type Surface struct {
	mu sync.RWMutex

	host   Host
	policy *bluemonday.Policy
	newID  func() string

	id      platform.ContextID
	mounted bool
	ready   bool

	stylesheet *platform.Stylesheet
	pending    string
	hasPending bool
	projected  string
	doc        *goquery.Document
}

// New constructs an unmounted surface.
func New(host Host, options ...Option) *Surface {
	s := &Surface{
		host:   host,
		policy: DefaultPolicy(),
		newID: func() string {
			return "surface-" + uuid.NewString()
		},
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Mount creates the browsing context. Mounting twice is a no-op.
func (s *Surface) Mount() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.host == nil {
		return ErrNoHost
	}
	if s.mounted {
		return nil
	}

	id := platform.ContextID(s.newID())
	if err := s.host.Attach(id); err != nil {
		return fmt.Errorf("surface: attach %s: %w", id, err)
	}
	s.id = id
	s.mounted = true
	s.ready = false
	return nil
}

// Unmount destroys the browsing context and forgets all projected state.
func (s *Surface) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.mounted {
		return
	}
	s.host.Detach(s.id)
	s.id = ""
	s.mounted = false
	s.ready = false
	s.pending = ""
	s.hasPending = false
	s.projected = ""
	s.doc = nil
}

// ID returns the current context id, empty when unmounted.
func (s *Surface) ID() platform.ContextID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// Ready reports whether the context has signalled readiness.
func (s *Surface) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// MarkReady records that the context body is available and delivers any
// content projected while it was initialising. Signals for a context other
// than the mounted one are ignored.
func (s *Surface) MarkReady(id platform.ContextID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.mounted || id != s.id {
		return false, nil
	}
	s.ready = true
	if !s.hasPending {
		return false, nil
	}
	return s.projectLocked(s.pending)
}

// SetStylesheet records the host stylesheet cloned into every projected
// document. It takes effect on the next projection.
func (s *Surface) SetStylesheet(sheet platform.Stylesheet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := sheet
	s.stylesheet = &clone
}

// Project replaces the surface content. It reports whether a new document was
// handed to the host: false while the context is not ready or when the
// document is unchanged.
func (s *Surface) Project(content string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = content
	s.hasPending = true
	if !s.mounted || !s.ready {
		return false, nil
	}
	return s.projectLocked(content)
}

func (s *Surface) projectLocked(content string) (bool, error) {
	document := s.compose(content)
	if document == s.projected {
		return false, nil
	}

	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return false, fmt.Errorf("surface: parse projected document: %w", err)
	}
	if err := s.host.Replace(s.id, document); err != nil {
		return false, fmt.Errorf("surface: replace %s: %w", s.id, err)
	}

	s.projected = document
	s.doc = parsed
	return true, nil
}

func (s *Surface) compose(content string) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8">`)
	if s.stylesheet != nil && s.stylesheet.Href != "" {
		b.WriteString(`<link rel="stylesheet" href="`)
		b.WriteString(html.EscapeString(s.stylesheet.Href))
		b.WriteString(`"`)
		if s.stylesheet.Media != "" {
			b.WriteString(` media="`)
			b.WriteString(html.EscapeString(s.stylesheet.Media))
			b.WriteString(`"`)
		}
		b.WriteString(`>`)
	}
	b.WriteString(`</head><body `)
	b.WriteString(MarkerAttr)
	b.WriteString(`="`)
	b.WriteString(html.EscapeString(string(s.id)))
	b.WriteString(`">`)
	b.WriteString(s.policy.Sanitize(content))
	b.WriteString(`</body></html>`)
	return b.String()
}

// Document returns the last projected document, empty before the first
// projection.
func (s *Surface) Document() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projected
}

// Text returns the visible text of the projected body.
func (s *Surface) Text() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return ""
	}
	return strings.TrimSpace(s.doc.Find("body").Text())
}

// Find locates an element by identifier inside the projected document.
func (s *Surface) Find(id string) (Element, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.ready || s.doc == nil || id == "" {
		return Element{}, false
	}
	match := s.doc.Find("[id]").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		value, _ := sel.Attr("id")
		return value == id
	}).First()
	if match.Length() == 0 {
		return Element{}, false
	}
	return Element{
		Ref:  platform.ElementRef{Context: s.id, ID: id},
		Text: strings.TrimSpace(match.Text()),
	}, true
}
