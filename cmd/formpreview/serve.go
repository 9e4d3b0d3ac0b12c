package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formpreview/internal/logging"
	"github.com/goliatone/go-formpreview/internal/server"
)

func newServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the settings pages over HTTP",
		Long: `Serve the settings pages and their live preview sessions.

Examples:
  formpreview serve
  formpreview serve --addr :9000 --log-level debug
  FORMPREVIEW_SCHEMA_LOCATION=./schemas formpreview serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv, err := server.New(ctx, cfg)
			if err != nil {
				return err
			}
			logging.Info("Serving settings pages",
				zap.Strings("variants", srv.Variants()),
				zap.Bool("metrics", cfg.Server.Metrics),
			)
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
	return cmd
}
