// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/venue-engine/internal/history"
	"github.com/pdiddy/venue-engine/internal/server"
	"github.com/pdiddy/venue-engine/internal/venue"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve journal recommendations over HTTP",
	Long: `Serve starts an HTTP API with POST /api/v1/recommend and
POST /api/v1/journals, plus /healthz and Prometheus /metrics. When
server.api_key is set, API requests must carry it in the X-API-KEY header.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	if addr, _ := cmd.Flags().GetString("addr"); cmd.Flags().Changed("addr") {
		cfg.Server.Addr = addr
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var store *history.Store
	if cfg.History.Enabled {
		s, err := history.NewStore(cfg.History, logger)
		if err != nil {
			return err
		}
		defer s.Close()
		store = s
		logger.Info("history enabled", zap.String("path", cfg.History.Path))
	}

	srv := server.New(server.Options{
		Config:   cfg,
		History:  store,
		Registry: reg,
		Logger:   logger,
	})
	return srv.Run(cmd.Context())
}

func init() {
	serveCmd.Flags().String("addr", server.DefaultAddr, "listen address")
	serveCmd.Flags().Bool("history", false, "save every run to the history database")
	serveCmd.Flags().Int("top-n", venue.DefaultTopN, "number of journals to recommend by default")
	serveCmd.Flags().Bool("components", false, "include the four sub-scores by default")

	rootCmd.AddCommand(serveCmd)
}
