package livesync

import "fmt"

// Breakpoint is a coarse responsive size category derived from a width.
type Breakpoint string

const (
	BreakpointNone Breakpoint = "none"
	BreakpointSM   Breakpoint = "sm"
	BreakpointMD   Breakpoint = "md"
	BreakpointLG   Breakpoint = "lg"
	BreakpointXL   Breakpoint = "xl"
	Breakpoint2XL  Breakpoint = "2xl"
)

var thresholds = []struct {
	min   float64
	label Breakpoint
}{
	{1536, Breakpoint2XL},
	{1280, BreakpointXL},
	{1024, BreakpointLG},
	{768, BreakpointMD},
	{640, BreakpointSM},
}

// BreakpointFor maps a width in CSS pixels onto a Breakpoint. Lower bounds
// are inclusive.
func BreakpointFor(width float64) Breakpoint {
	for _, t := range thresholds {
		if width >= t.min {
			return t.label
		}
	}
	return BreakpointNone
}

// Breakpoints lists every label in ascending order.
func Breakpoints() []Breakpoint {
	return []Breakpoint{BreakpointNone, BreakpointSM, BreakpointMD, BreakpointLG, BreakpointXL, Breakpoint2XL}
}

func (b Breakpoint) String() string {
	return string(b)
}

// Size is a measured width and height.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Overlay renders the size label shown over the preview, e.g. "1000 x 800 (md)".
func Overlay(size Size, bp Breakpoint) string {
	return fmt.Sprintf("%d x %d (%s)", int(size.Width), int(size.Height), bp)
}
