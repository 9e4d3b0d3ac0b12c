package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formpreview/internal/server"
	"github.com/goliatone/go-formpreview/pkg/model"
	"github.com/goliatone/go-formpreview/pkg/renderers/tui"
)

func newPromptCommand() *cobra.Command {
	var variant string

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Edit a settings page in the terminal with a live preview",
		Long: `Edit a settings page interactively. The preview pane is redrawn after every
answer and follows the terminal size. The committed values are printed as JSON
when you pick Done.`,
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

			renderer, err := tui.New(tui.WithOutput(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			values, err := renderer.Run(cmd.Context(), page, validator)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(values)
		},
	}
	cmd.Flags().StringVarP(&variant, "variant", "v", model.VariantBasic, "page variant: basic or status")
	return cmd
}
