// Package themes resolves go-theme manifests into the renderer configuration
// used by the host page. The stylesheet it selects is the first stylesheet
// link on the host document, which the live controller clones into the
// preview surface.
package themes

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// StylesheetKey is the asset key holding the preview stylesheet.
const StylesheetKey = "preview.stylesheet"

// Built-in theme names.
const (
	DefaultTheme   = "default"
	DefaultVariant = ""
	DarkVariant    = "dark"
)

// DefaultManifest describes the stylesheets shipped in the runtime bundle.
func DefaultManifest(prefix string) *theme.Manifest {
	prefix = strings.TrimRight(prefix, "/")
	if prefix == "" {
		prefix = "/runtime"
	}
	return &theme.Manifest{
		Name:    DefaultTheme,
		Version: "1.0.0",
		Tokens: map[string]string{
			"surface":   "#ffffff",
			"text":      "#1f2937",
			"accent":    "#2563eb",
			"error":     "#dc2626",
			"font-size": "16px",
		},
		Assets: theme.Assets{
			Prefix: prefix + "/themes/default",
			Files: map[string]string{
				StylesheetKey: "preview.css",
			},
		},
		Variants: map[string]theme.Variant{
			DarkVariant: {
				Tokens: map[string]string{
					"surface": "#111827",
					"text":    "#f9fafb",
				},
				Assets: theme.Assets{
					Files: map[string]string{
						StylesheetKey: "preview-dark.css",
					},
				},
			},
		},
	}
}

// Catalog holds theme manifests and implements theme.ThemeSelector.
type Catalog struct {
	mu             sync.RWMutex
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*Catalog)(nil)

// NewCatalog registers manifests and remembers the defaults applied when a
// selection names no theme or variant.
func NewCatalog(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) (*Catalog, error) {
	c := &Catalog{
		manifests:      make(map[string]*theme.Manifest),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
	for _, manifest := range manifests {
		if err := c.Register(manifest); err != nil {
			return nil, err
		}
	}
	if c.defaultTheme == "" && len(manifests) > 0 {
		c.defaultTheme = manifests[0].Name
	}
	return c, nil
}

// Register adds a manifest. Names must be unique.
func (c *Catalog) Register(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return fmt.Errorf("themes: manifest name is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.manifests[manifest.Name]; exists {
		return fmt.Errorf("themes: theme %q already registered", manifest.Name)
	}
	c.manifests[manifest.Name] = manifest
	return nil
}

// Names lists the registered themes.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.manifests))
	for name := range c.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select resolves a theme and variant, falling back to the catalog defaults.
// Unknown variants are rejected; an empty variant selects the base theme.
func (c *Catalog) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	name = strings.TrimSpace(name)
	if name == "" {
		name = c.defaultTheme
	}
	manifest, ok := c.manifests[name]
	if !ok {
		return nil, fmt.Errorf("themes: theme %q not found", name)
	}

	variant = strings.TrimSpace(variant)
	if variant == "" && name == c.defaultTheme {
		variant = c.defaultVariant
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("themes: theme %q has no variant %q", name, variant)
		}
	}

	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// RendererConfig flattens a selection: variant tokens, templates and asset
// files override the base manifest, and every token is mirrored as a CSS
// custom property.
func RendererConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	variant := manifest.Variants[selection.Variant]

	tokens := mergeMaps(manifest.Tokens, variant.Tokens)
	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	prefix := manifest.Assets.Prefix
	if variant.Assets.Prefix != "" {
		prefix = variant.Assets.Prefix
	}
	files := mergeMaps(manifest.Assets.Files, variant.Assets.Files)

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: mergeMaps(manifest.Templates, variant.Templates),
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if strings.Contains(file, "://") || strings.HasPrefix(file, "/") {
				return file
			}
			return strings.TrimRight(prefix, "/") + "/" + file
		},
	}
}

// Stylesheet returns the preview stylesheet URL of cfg, empty when the theme
// ships none.
func Stylesheet(cfg *theme.RendererConfig) string {
	if cfg == nil || cfg.AssetURL == nil {
		return ""
	}
	return cfg.AssetURL(StylesheetKey)
}

// Resolve selects a theme and flattens it in one step.
func (c *Catalog) Resolve(name, variant string) (*theme.RendererConfig, error) {
	selection, err := c.Select(name, variant)
	if err != nil {
		return nil, err
	}
	return RendererConfig(selection), nil
}

func mergeMaps(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range override {
		out[key] = value
	}
	return out
}
