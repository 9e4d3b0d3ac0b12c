package tui

import (
	"fmt"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/term"

	"github.com/goliatone/go-formpreview/pkg/platform"
	"github.com/goliatone/go-formpreview/pkg/surface"
)

// Default cell geometry, in pixels, used to map terminal sizes onto the
// breakpoint scale.
const (
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

// Terminal is a platform backed by the controlling terminal. The host
// container is the whole terminal window; surfaces are text panes whose
// lines are laid out one cell row apart.
type Terminal struct {
	platform.Listeners

	mu         sync.Mutex
	size       SizeFunc
	cellWidth  float64
	cellHeight float64
	cols       int
	rows       int
	panes      map[platform.ContextID]*pane
}

type pane struct {
	lines     []paneLine
	scrollTop float64
}

type paneLine struct {
	id   string
	text string
}

var (
	_ platform.Platform = (*Terminal)(nil)
	_ surface.Host      = (*Terminal)(nil)
)

// NewTerminal returns a terminal platform. A nil size function reads the
// size of stdout.
func NewTerminal(size SizeFunc, cellWidth, cellHeight float64) *Terminal {
	if size == nil {
		size = stdoutSize
	}
	if cellWidth <= 0 {
		cellWidth = DefaultCellWidth
	}
	if cellHeight <= 0 {
		cellHeight = DefaultCellHeight
	}
	t := &Terminal{
		size:       size,
		cellWidth:  cellWidth,
		cellHeight: cellHeight,
		panes:      make(map[platform.ContextID]*pane),
	}
	t.cols, t.rows = t.read()
	return t
}

func stdoutSize() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

func (t *Terminal) read() (int, int) {
	cols, rows, err := t.size()
	if err != nil || cols <= 0 || rows <= 0 {
		return 80, 24
	}
	return cols, rows
}

// Refresh re-reads the terminal size and notifies resize listeners when it
// changed. Terminals have no resize callback the loop can join, so callers
// poll between prompts.
func (t *Terminal) Refresh() bool {
	cols, rows := t.read()

	t.mu.Lock()
	changed := cols != t.cols || rows != t.rows
	t.cols, t.rows = cols, rows
	t.mu.Unlock()

	if changed {
		t.Dispatch(platform.EventResize)
	}
	return changed
}

// Cells returns the last read size in cells.
func (t *Terminal) Cells() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cols, t.rows
}

// Measure reports the window for any host element and line boxes for pane
// elements.
func (t *Terminal) Measure(ref platform.ElementRef) (platform.Rect, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	width := float64(t.cols) * t.cellWidth
	if ref.Context == platform.HostContext {
		if ref.ID == "" {
			return platform.Rect{}, false
		}
		return platform.Rect{Width: width, Height: float64(t.rows) * t.cellHeight}, true
	}

	p, ok := t.panes[ref.Context]
	if !ok {
		return platform.Rect{}, false
	}
	if ref.ID == "" {
		return platform.Rect{Top: -p.scrollTop, Width: width, Height: float64(len(p.lines)) * t.cellHeight}, true
	}
	for i, line := range p.lines {
		if line.id == ref.ID {
			return platform.Rect{Top: float64(i)*t.cellHeight - p.scrollTop, Width: width, Height: t.cellHeight}, true
		}
	}
	return platform.Rect{}, false
}

// QueryStylesheet always misses: terminals carry no stylesheet.
func (t *Terminal) QueryStylesheet() (platform.Stylesheet, bool) {
	return platform.Stylesheet{}, false
}

// ScrollTo moves the pane viewport. Terminals jump instead of animating.
func (t *Terminal) ScrollTo(ctx platform.ContextID, top float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p, ok := t.panes[ctx]; ok {
		p.scrollTop = math.Max(0, top)
	}
}

// Attach opens an empty pane.
func (t *Terminal) Attach(id platform.ContextID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.panes[id]; exists {
		return fmt.Errorf("tui: pane %s already attached", id)
	}
	t.panes[id] = &pane{}
	return nil
}

// Replace lays out a projected document: every top-level body element
// becomes one line. The scroll position survives replacement.
func (t *Terminal) Replace(id platform.ContextID, document string) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return fmt.Errorf("tui: parse document: %w", err)
	}

	var lines []paneLine
	doc.Find("body").Children().Each(func(_ int, sel *goquery.Selection) {
		text := strings.Join(strings.Fields(sel.Text()), " ")
		elementID, _ := sel.Attr("id")
		lines = append(lines, paneLine{id: elementID, text: text})
	})

	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.panes[id]
	if !ok {
		return fmt.Errorf("tui: pane %s is not attached", id)
	}
	p.lines = lines
	return nil
}

// Detach drops the pane.
func (t *Terminal) Detach(id platform.ContextID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.panes, id)
}

// Visible returns up to rows lines of the pane starting at its scroll
// position. A non-positive rows returns everything from there on.
func (t *Terminal) Visible(id platform.ContextID, rows int) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.panes[id]
	if !ok {
		return nil
	}
	start := int(p.scrollTop / t.cellHeight)
	if start >= len(p.lines) {
		start = max(len(p.lines)-1, 0)
	}
	end := len(p.lines)
	if rows > 0 && start+rows < end {
		end = start + rows
	}
	out := make([]string, 0, end-start)
	for _, line := range p.lines[start:end] {
		out = append(out, line.text)
	}
	return out
}
