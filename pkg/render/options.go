package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formpreview/pkg/model"
)

// RenderOptions carry per-request data for a host page render.
type RenderOptions struct {
	// Values pre-populates the form controls. Missing fields fall back to the
	// page defaults.
	Values model.Values
	// Errors surfaces validation feedback keyed by field name. Messages are
	// joined with a space and the control gets the error class.
	Errors model.Errors
	// FormErrors are messages that could not be attributed to a field.
	FormErrors []string
	// Action overrides the form action; defaults to the variant path.
	Action string
	// Hidden adds hidden inputs to the form.
	Hidden map[string]string
	// Theme carries the resolved theme selection. Its stylesheet becomes the
	// first stylesheet link of the host document.
	Theme *theme.RendererConfig
	// Stylesheet overrides the theme stylesheet URL.
	Stylesheet string
	// LiveEndpoint is the websocket path the bridge script connects to. Empty
	// disables live sync so the page degrades to plain form posts.
	LiveEndpoint string
	// RuntimePrefix is where the bridge script is served from.
	RuntimePrefix string
	// Overlay is the initial size label.
	Overlay string
	// SurfaceDocument seeds the preview frame so the page shows the committed
	// values before (or without) a live session.
	SurfaceDocument string
}
