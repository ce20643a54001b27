// Package serve provides the "sheetkit serve" command.
package serve

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/klytics/sheetkit/internal/config"
	"github.com/klytics/sheetkit/internal/server"
)

// NewCommand creates the "serve" command.
func NewCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Build workbooks over HTTP",
		Long: `Start an HTTP server that builds workbooks from posted definitions.

Endpoints:
  POST /workbooks   YAML or JSON definition in, .xlsx attachment out
  GET  /healthz     liveness check

Example:
  sheetkit serve --addr :8080
  curl --data-binary @people.yaml localhost:8080/workbooks -o people.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Current()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return server.Run(ctx, server.New(cfg.Style.Header), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: server.addr from config)")
	return cmd
}
