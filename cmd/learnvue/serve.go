package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/seven-it/Learn-Vue/internal/logging"
	"github.com/seven-it/Learn-Vue/internal/playground"
	"github.com/seven-it/Learn-Vue/pkg/metrics"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the scenario playground server",
		Long: `Start an HTTP server that runs scenarios on request.

Endpoints:
  POST /run      run the scenario in the request body (YAML or JSON)
  GET  /ws       live stream of watcher events from every run
  GET  /metrics  Prometheus metrics
  GET  /healthz  health check

Examples:
  learnvue serve
  learnvue serve --port=8080 --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd, flags)
			if err != nil {
				return err
			}
			if port > 0 {
				s.cfg.Serve.Port = port
			}
			if host != "" {
				s.cfg.Serve.Host = host
			}
			if err := s.cfg.Validate(); err != nil {
				return err
			}

			// The playground always exposes metrics.
			if s.collector == nil {
				s.registry = prometheus.NewRegistry()
				s.collector = metrics.New(
					metrics.WithRegistry(s.registry),
					metrics.WithNamespace(s.cfg.Metrics.Namespace),
				)
			}

			srv := playground.New(playground.Config{
				Logger:           logging.Component(s.logger, "playground"),
				Collector:        s.collector,
				Gatherer:         s.registry,
				Tracer:           s.tracer,
				MaxScenarioBytes: s.cfg.Serve.MaxScenarioBytes,
				Sync:             s.cfg.Reactivity.Sync,
				Silent:           s.cfg.Reactivity.Silent,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, s.cfg.Address())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from learnvue.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from learnvue.json)")

	return cmd
}
