package server

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-formpreview/internal/config"
	"github.com/goliatone/go-formpreview/internal/schema/loader"
	"github.com/goliatone/go-formpreview/pkg/model"
	"github.com/goliatone/go-formpreview/pkg/schema"
)

// pageEntry pairs a page variant with the validator enforcing its schema.
type pageEntry struct {
	page      model.Page
	validator schema.Validator
}

// variantLocation derives the schema location of a variant from the
// configured base: an http(s) base or a directory holding <variant>.json.
// An empty base selects the embedded schema.
func variantLocation(base, variant string) string {
	name := variant + ".json"
	switch {
	case base == "":
		return ""
	case strings.HasPrefix(base, "http://"), strings.HasPrefix(base, "https://"):
		return strings.TrimRight(base, "/") + "/" + name
	case strings.HasPrefix(base, "embed:"):
		return "embed:" + name
	default:
		return filepath.Join(base, name)
	}
}

// LoadValidator compiles the settings schema of one variant from the
// configured location, falling back to the embedded copy.
func LoadValidator(ctx context.Context, cfg config.SchemaConfig, variant string) (*schema.Settings, error) {
	var options []schema.LoaderOption
	if cfg.AllowHTTP {
		options = append(options, schema.WithHTTPFallback(cfg.RequestTimeout))
	}
	return loadValidator(ctx, loader.New(schema.NewLoaderOptions(options...)), cfg.Location, variant)
}

func loadValidator(ctx context.Context, l schema.Loader, base, variant string) (*schema.Settings, error) {
	src, err := schema.ParseSource(variantLocation(base, variant))
	if err != nil {
		return nil, fmt.Errorf("server: schema for %s: %w", variant, err)
	}
	if src == nil {
		src = schema.SourceForVariant(variant)
	}
	settings, err := schema.Load(ctx, l, src)
	if err != nil {
		return nil, fmt.Errorf("server: schema for %s: %w", variant, err)
	}
	return settings, nil
}

// loadPages compiles the schema of every built-in variant. Validators
// supplied through options take precedence.
func loadPages(ctx context.Context, cfg config.SchemaConfig, overrides map[string]schema.Validator) (map[string]*pageEntry, error) {
	var options []schema.LoaderOption
	if cfg.AllowHTTP {
		options = append(options, schema.WithHTTPFallback(cfg.RequestTimeout))
	}
	l := loader.New(schema.NewLoaderOptions(options...))

	pages := model.Pages()
	variants := make([]string, 0, len(pages))
	for variant := range pages {
		variants = append(variants, variant)
	}
	sort.Strings(variants)

	out := make(map[string]*pageEntry, len(pages))
	for _, variant := range variants {
		entry := &pageEntry{page: pages[variant]}
		if validator, ok := overrides[variant]; ok && validator != nil {
			entry.validator = validator
		} else {
			settings, err := loadValidator(ctx, l, cfg.Location, variant)
			if err != nil {
				return nil, err
			}
			entry.validator = settings
		}
		out[variant] = entry
	}
	return out, nil
}
