package livesync

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formpreview/pkg/model"
	"github.com/goliatone/go-formpreview/pkg/platform"
	"github.com/goliatone/go-formpreview/pkg/schema"
	"github.com/goliatone/go-formpreview/pkg/surface"
)

// ScrollOffset is the fixed visual correction subtracted from scroll targets.
const ScrollOffset = 16

// DefaultContainerID identifies the host element whose size drives the
// breakpoint.
const DefaultContainerID = "preview-container"

// PreviewRenderer turns committed values into surface markup.
type PreviewRenderer interface {
	RenderPreview(ctx context.Context, page model.Page, values model.Values) (string, error)
}

// PreviewRendererFunc adapts a function to PreviewRenderer.
type PreviewRendererFunc func(ctx context.Context, page model.Page, values model.Values) (string, error)

// RenderPreview calls fn.
func (fn PreviewRendererFunc) RenderPreview(ctx context.Context, page model.Page, values model.Values) (string, error) {
	return fn(ctx, page, values)
}

// Observer receives controller notifications. Every method is optional.
type Observer struct {
	// Changed runs after every field change with its result.
	Changed func(Result)
	// Resized runs after the container is re-measured.
	Resized func(Size, Breakpoint)
	// Scrolled runs after a scroll request was issued.
	Scrolled func(field string, top float64)
}

// Config wires a Controller.
type Config struct {
	Page        model.Page
	Platform    platform.Platform
	Validator   schema.Validator
	Surface     *surface.Surface
	Renderer    PreviewRenderer
	ContainerID string
	Initial     model.Values
	Observer    Observer
}

// Result describes the outcome of a single field change.
type Result struct {
	Field     string       `json:"field"`
	Committed bool         `json:"committed"`
	Ignored   bool         `json:"ignored,omitempty"`
	Scrolled  bool         `json:"scrolled"`
	Values    model.Values `json:"values"`
	Errors    model.Errors `json:"errors"`
}

// Snapshot is a copy of the controller state.
type Snapshot struct {
	Variant    string       `json:"variant"`
	Values     model.Values `json:"values"`
	Errors     model.Errors `json:"errors"`
	Size       Size         `json:"size"`
	Breakpoint Breakpoint   `json:"breakpoint"`
	LastSynced string       `json:"lastSynced,omitempty"`
	Overlay    string       `json:"overlay"`
}

// Controller is the live sync controller.
type Controller struct {
	page        model.Page
	platform    platform.Platform
	validator   schema.Validator
	surface     *surface.Surface
	renderer    PreviewRenderer
	containerID string
	observer    Observer

	values     model.Values
	errors     model.Errors
	lastSynced string
	size       Size
	breakpoint Breakpoint

	mounted       bool
	listener      platform.ListenerID
	stylesheet    platform.Stylesheet
	hasStylesheet bool
	queried       bool
}

// New validates the configuration and returns an unmounted controller seeded
// with the page defaults, or cfg.Initial when provided.
func New(cfg Config) (*Controller, error) {
	if cfg.Platform == nil {
		return nil, fmt.Errorf("livesync: platform is required")
	}
	if cfg.Validator == nil {
		return nil, fmt.Errorf("livesync: validator is required")
	}
	if len(cfg.Page.Fields) == 0 {
		return nil, fmt.Errorf("livesync: page %q declares no fields", cfg.Page.Variant)
	}

	initial := cfg.Page.Defaults()
	for key, value := range cfg.Initial {
		if cfg.Page.HasField(key) {
			initial[key] = value
		}
	}

	containerID := cfg.ContainerID
	if containerID == "" {
		containerID = DefaultContainerID
	}

	return &Controller{
		page:        cfg.Page,
		platform:    cfg.Platform,
		validator:   cfg.Validator,
		surface:     cfg.Surface,
		renderer:    cfg.Renderer,
		containerID: containerID,
		observer:    cfg.Observer,
		values:      initial,
		errors:      model.Errors{},
		breakpoint:  BreakpointNone,
	}, nil
}

// Mount registers the resize listener, records the host stylesheet, takes the
// first measurement and projects the initial values. Mounting an already
// mounted controller is a no-op.
func (c *Controller) Mount(ctx context.Context) error {
	if c.mounted {
		return nil
	}
	c.mounted = true
	c.listener = c.platform.AddListener(platform.EventResize, c.handleResize)

	if !c.queried {
		c.queried = true
		c.stylesheet, c.hasStylesheet = c.platform.QueryStylesheet()
	}
	if c.surface != nil && c.hasStylesheet {
		c.surface.SetStylesheet(c.stylesheet)
	}

	c.measure()
	return c.project(ctx)
}

// Unmount removes the resize listener. Further resize events are ignored.
func (c *Controller) Unmount() {
	if !c.mounted {
		return
	}
	c.platform.RemoveListener(c.listener)
	c.listener = 0
	c.mounted = false
}

// Mounted reports whether the controller is mounted.
func (c *Controller) Mounted() bool {
	return c.mounted
}

// OnFieldChange merges raw into the value set, validates the whole set and
// commits it atomically on success. On failure the committed values are kept
// and the error set is replaced with the failing fields' messages. Scroll
// synchronization runs whenever the field differs from the last synced one.
func (c *Controller) OnFieldChange(ctx context.Context, field, raw string) (Result, error) {
	if !c.page.HasField(field) {
		return Result{Field: field, Ignored: true, Values: c.values.Clone(), Errors: c.errors.Clone()}, nil
	}

	merged := c.values.With(field, raw)
	accepted, err := c.validator.Validate(merged)

	result := Result{Field: field}
	var renderErr error
	switch verr, isValidation := schema.AsValidationError(err); {
	case err == nil:
		if accepted == nil {
			accepted = merged
		}
		c.values = accepted.Clone()
		c.errors = model.Errors{}
		result.Committed = true
		renderErr = c.project(ctx)
	case isValidation:
		c.errors = verr.Errors()
	default:
		return Result{Field: field, Values: c.values.Clone(), Errors: c.errors.Clone()}, fmt.Errorf("livesync: validate %s: %w", field, err)
	}

	if field != c.lastSynced {
		c.lastSynced = field
		result.Scrolled = c.scrollTo(field)
	}

	result.Values = c.values.Clone()
	result.Errors = c.errors.Clone()
	if c.observer.Changed != nil {
		c.observer.Changed(result)
	}
	return result, renderErr
}

// Refresh re-projects the committed values. Use it when the preview renderer's
// output changed without a field change. Readiness needs no call: the surface
// delivers its pending projection itself.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.project(ctx)
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Variant:    c.page.Variant,
		Values:     c.values.Clone(),
		Errors:     c.errors.Clone(),
		Size:       c.size,
		Breakpoint: c.breakpoint,
		LastSynced: c.lastSynced,
		Overlay:    Overlay(c.size, c.breakpoint),
	}
}

// Values returns a copy of the committed Field Value Set.
func (c *Controller) Values() model.Values {
	return c.values.Clone()
}

// Errors returns a copy of the current Validation Error Set.
func (c *Controller) Errors() model.Errors {
	return c.errors.Clone()
}

// Breakpoint returns the last derived breakpoint.
func (c *Controller) Breakpoint() Breakpoint {
	return c.breakpoint
}

// Size returns the last measured container size.
func (c *Controller) Size() Size {
	return c.size
}

// Overlay returns the size label for the current measurement.
func (c *Controller) Overlay() string {
	return Overlay(c.size, c.breakpoint)
}

// Stylesheet returns the stylesheet recorded at mount.
func (c *Controller) Stylesheet() (platform.Stylesheet, bool) {
	return c.stylesheet, c.hasStylesheet
}

// Page returns the page variant driven by the controller.
func (c *Controller) Page() model.Page {
	return c.page
}

func (c *Controller) handleResize() {
	if !c.mounted {
		return
	}
	c.measure()
}

func (c *Controller) measure() {
	rect, ok := c.platform.Measure(platform.ElementRef{Context: platform.HostContext, ID: c.containerID})
	if !ok {
		return
	}
	c.size = Size{Width: rect.Width, Height: rect.Height}
	c.breakpoint = BreakpointFor(rect.Width)
	if c.observer.Resized != nil {
		c.observer.Resized(c.size, c.breakpoint)
	}
}

func (c *Controller) project(ctx context.Context) error {
	if c.surface == nil || c.renderer == nil {
		return nil
	}
	markup, err := c.renderer.RenderPreview(ctx, c.page, c.values.Clone())
	if err != nil {
		return fmt.Errorf("livesync: render preview: %w", err)
	}
	if _, err := c.surface.Project(markup); err != nil {
		return fmt.Errorf("livesync: project preview: %w", err)
	}
	return nil
}

// scrollTo brings the preview element for field into view. Any missing piece
// (no surface, element or layout yet) makes it a no-op.
func (c *Controller) scrollTo(field string) bool {
	if c.surface == nil {
		return false
	}
	el, ok := c.surface.Find(field)
	if !ok {
		return false
	}
	box, ok := c.platform.Measure(el.Ref)
	if !ok {
		return false
	}
	root, ok := c.platform.Measure(platform.Root(el.Ref.Context))
	if !ok {
		return false
	}

	top := box.Top - root.Top - ScrollOffset
	c.platform.ScrollTo(el.Ref.Context, top)
	if c.observer.Scrolled != nil {
		c.observer.Scrolled(field, top)
	}
	return true
}
