package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formpreview/internal/config"
	"github.com/goliatone/go-formpreview/internal/logging"
)

// Version is set during build with -ldflags
var version = "dev"

var (
	configPath string
	logLevel   string
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "formpreview",
		Short: "Settings forms with a live, isolated preview",
		Long: `formpreview serves settings pages whose preview pane updates as you type.
Every change is validated against the page's JSON schema before the preview is
refreshed, and the preview scrolls to the field being edited.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		newServeCommand(),
		newPromptCommand(),
		newRenderCommand(),
		newVersionCommand(),
	)
	return root
}

// loadConfig reads configuration and initializes logging. Flag values win
// over the file and the environment.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if err := logging.Initialize(cfg.Logging.Level); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "formpreview version %s\n", version)
		},
	}
}

func main() {
	defer logging.Sync()
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
