// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/convertkit/internal/assistant"
	"github.com/pdiddy/convertkit/internal/server"
	"github.com/pdiddy/convertkit/internal/workspace"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the converters and the help chat over HTTP",
	Long: `serve starts an HTTP server with one converter instance per kind.
Uploads are converted in memory; results are kept only until the next job
on the same converter. Stop it with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		a, err := assistant.New(cfg.Assistant)
		if err != nil {
			return err
		}
		ws := workspace.New(cfg, logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cmd.PrintErrf("convertkit listening on %s\n", cfg.Server.Addr)
		return server.New(ws, a, cfg.Server, logger).ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default server.addr, :8080)")
	rootCmd.AddCommand(serveCmd)
}
