// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/pdiddy/civic-search/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search API over HTTP",
	Long: `Serve starts the HTTP API: GET and POST /api/v1/search, suggestions,
health checks and Prometheus metrics. It shuts down gracefully on SIGINT or
SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default: server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	c := cfg
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		c.Server.Addr = addr
	}
	if !c.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	a := buildApp(c, log)
	defer a.Close()

	var pinger api.Pinger
	if a.store != nil {
		pinger = a.store
	}
	handler := api.NewHandler(a.service, a.providers, pinger, log)
	srv := api.NewServer(c.Server, api.NewRouter(handler, log), log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
