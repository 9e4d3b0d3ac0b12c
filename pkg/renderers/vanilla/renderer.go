package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-formpreview/pkg/livesync"
	"github.com/goliatone/go-formpreview/pkg/model"
	"github.com/goliatone/go-formpreview/pkg/render"
	rendertemplate "github.com/goliatone/go-formpreview/pkg/render/template"
	"github.com/goliatone/go-formpreview/pkg/render/template/pongo"
	"github.com/goliatone/go-formpreview/pkg/themes"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	containerID      string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithContainerID overrides the id of the element whose size drives the
// breakpoint overlay.
func WithContainerID(id string) Option {
	return func(cfg *config) {
		if id = strings.TrimSpace(id); id != "" {
			cfg.containerID = id
		}
	}
}

// Renderer renders the host page and the preview fragment with pongo2
// templates.
type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	containerID string
}

var (
	_ render.Renderer          = (*Renderer)(nil)
	_ render.PreviewRenderer   = (*Renderer)(nil)
	_ livesync.PreviewRenderer = (*Renderer)(nil)
)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), containerID: livesync.DefaultContainerID}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(pongo.WithFS(cfg.templateFS), pongo.WithExtension(".tmpl"))
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, containerID: cfg.containerID}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// ContainerID is the host element id the page renders for size observation.
func (r *Renderer) ContainerID() string {
	return r.containerID
}

// Render produces the host document: the settings form, the preview frame
// and the size overlay.
func (r *Renderer) Render(_ context.Context, page model.Page, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	values := page.Defaults()
	for key, value := range options.Values {
		if page.HasField(key) {
			values[key] = value
		}
	}

	fields := make([]map[string]any, 0, len(page.Fields))
	for _, field := range page.Fields {
		label := field.Label
		if label == "" {
			label = field.Name
		}
		fields = append(fields, map[string]any{
			"name":        field.Name,
			"label":       label,
			"placeholder": field.Placeholder,
			"required":    field.Required,
			"controlID":   controlID(field.Name),
			"value":       values.Get(field.Name),
			"errors":      render.NormalizeMessages(options.Errors[field.Name]),
		})
	}

	hidden := make([]map[string]any, 0, len(options.Hidden))
	for _, field := range render.SortedHiddenFields(options.Hidden) {
		hidden = append(hidden, map[string]any{"name": field.Name, "value": field.Value})
	}

	action := options.Action
	if action == "" {
		action = "/p/" + page.Variant
	}
	stylesheet := options.Stylesheet
	if stylesheet == "" {
		stylesheet = themes.Stylesheet(options.Theme)
	}
	var cssVars string
	if options.Theme != nil {
		cssVars = cssVarsStyle(options.Theme.CSSVars)
	}
	title := page.Title
	if title == "" {
		title = "Settings"
	}

	result, err := r.templates.RenderTemplate(pageTemplate, map[string]any{
		"title":           title,
		"variant":         page.Variant,
		"action":          action,
		"fields":          fields,
		"hidden":          hidden,
		"formErrors":      render.NormalizeMessages(options.FormErrors),
		"stylesheet":      stylesheet,
		"cssVars":         cssVars,
		"hostStylesheet":  HostStylesheetName,
		"bridgeScript":    BridgeScriptName,
		"runtimePrefix":   strings.TrimRight(options.RuntimePrefix, "/"),
		"liveEndpoint":    options.LiveEndpoint,
		"containerID":     r.containerID,
		"overlay":         options.Overlay,
		"surfaceDocument": options.SurfaceDocument,
		"classes":         defaultClasses(),
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// RenderPreview produces the fragment projected into the preview surface.
// Element ids match field names so the controller can scroll to them.
func (r *Renderer) RenderPreview(_ context.Context, page model.Page, values model.Values) (string, error) {
	if r.templates == nil {
		return "", fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	merged := page.Defaults()
	for key, value := range values {
		merged[key] = value
	}

	result, err := r.templates.RenderTemplate(previewTemplate, map[string]any{
		"values":    map[string]string(merged),
		"hasStatus": page.HasField("status"),
	})
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: render preview: %w", err)
	}
	return result, nil
}
