package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formpreview/internal/server"
	"github.com/goliatone/go-formpreview/pkg/model"
	"github.com/goliatone/go-formpreview/pkg/render"
	"github.com/goliatone/go-formpreview/pkg/renderers/tui"
	"github.com/goliatone/go-formpreview/pkg/renderers/vanilla"
	"github.com/goliatone/go-formpreview/pkg/schema"
	"github.com/goliatone/go-formpreview/pkg/themes"
)

func newRenderCommand() *cobra.Command {
	var (
		variant  string
		renderer string
		output   string
		values   map[string]string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a settings page once",
		Long: `Render a settings page with the given values, validated against its schema.
Invalid values are rendered with their error messages.

Examples:
  formpreview render --variant status --set name=Alice --set status=Shipping
  formpreview render --renderer tui --set name=
  formpreview render -o settings.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			page, ok := model.LookupPage(variant)
			if !ok {
				return fmt.Errorf("unknown page variant %q", variant)
			}
			validator, err := server.LoadValidator(cmd.Context(), cfg.Schema, page.Variant)
			if err != nil {
				return err
			}

			registry, err := newRegistry()
			if err != nil {
				return err
			}
			selected, err := registry.Resolve(renderer)
			if err != nil {
				return fmt.Errorf("%w (available: %s)", err, rendererNames(registry))
			}

			catalog, err := themes.NewCatalog(cfg.Theme.Name, cfg.Theme.Variant, themes.DefaultManifest(cfg.Server.RuntimePrefix))
			if err != nil {
				return err
			}
			themeConfig, err := catalog.Resolve("", "")
			if err != nil {
				return err
			}

			submitted := page.Defaults()
			for key, value := range values {
				if page.HasField(key) {
					submitted[key] = value
				}
			}
			opts := render.RenderOptions{
				Values:        submitted,
				Errors:        model.Errors{},
				Theme:         themeConfig,
				RuntimePrefix: cfg.Server.RuntimePrefix,
			}
			if _, err := validator.Validate(submitted); err != nil {
				verr, ok := schema.AsValidationError(err)
				if !ok {
					return err
				}
				mapping := render.MapFieldErrors(page, verr.Fields)
				opts.Errors = mapping.Fields
				opts.FormErrors = render.MergeFormErrors(mapping.Form, verr.Form...)
			}

			out, err := selected.Render(cmd.Context(), page, opts)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Page written to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&variant, "variant", "v", model.VariantBasic, "page variant: basic or status")
	cmd.Flags().StringVarP(&renderer, "renderer", "r", "", "renderer: vanilla (default) or tui")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringToStringVar(&values, "set", nil, "field value as name=value, repeatable")
	return cmd
}

func newRegistry() (*render.Registry, error) {
	registry := render.NewRegistry()

	html, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	if err := registry.Register(html); err != nil {
		return nil, err
	}

	text, err := tui.New(tui.WithPreviewRenderer(html))
	if err != nil {
		return nil, err
	}
	if err := registry.Register(text); err != nil {
		return nil, err
	}
	return registry, nil
}

func rendererNames(registry *render.Registry) string {
	return strings.Join(registry.List(), ", ")
}
