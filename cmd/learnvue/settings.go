package main

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/seven-it/Learn-Vue/internal/config"
	"github.com/seven-it/Learn-Vue/internal/errors"
	"github.com/seven-it/Learn-Vue/internal/script"
	"github.com/seven-it/Learn-Vue/pkg/metrics"
	"github.com/seven-it/Learn-Vue/pkg/watcher"
)

// globalFlags are the flags shared by every command.
type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
	sync       bool
	silent     bool
	trace      bool
	noColor    bool
}

// settings is everything a command needs, resolved from learnvue.json and
// the flags that override it.
type settings struct {
	cfg       *config.Config
	logger    *slog.Logger
	registry  *prometheus.Registry
	collector *metrics.Collector
	tracer    trace.Tracer
}

func loadSettings(cmd *cobra.Command, flags *globalFlags) (*settings, error) {
	if flags.noColor {
		errors.DisableColors()
	}

	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.LoadFile(flags.configPath)
	} else {
		cfg, err = config.LoadOrDefault(".")
	}
	if err != nil {
		return nil, err
	}

	pf := cmd.Flags()
	if pf.Changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if pf.Changed("log-format") {
		cfg.Log.Format = flags.logFormat
	}
	if pf.Changed("sync") {
		cfg.Reactivity.Sync = flags.sync
	}
	if pf.Changed("silent") {
		cfg.Reactivity.Silent = flags.silent
	}
	if pf.Changed("trace") {
		cfg.Tracing.Enabled = flags.trace
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &settings{cfg: cfg, logger: cfg.Logger()}
	if cfg.Metrics.Enabled {
		s.registry = prometheus.NewRegistry()
		s.collector = metrics.New(
			metrics.WithRegistry(s.registry),
			metrics.WithNamespace(cfg.Metrics.Namespace),
		)
	}
	if cfg.Tracing.Enabled {
		s.tracer = watcher.DefaultTracer()
	}
	return s, nil
}

// runnerOptions returns the script options implied by the settings.
func (s *settings) runnerOptions() []script.Option {
	opts := []script.Option{
		script.WithLogger(s.logger),
		script.WithSync(s.cfg.Reactivity.Sync),
		script.WithSilent(s.cfg.Reactivity.Silent),
	}
	if s.collector != nil {
		opts = append(opts,
			script.WithInstrumentation(s.collector),
			script.WithFlushHook(s.collector.Flushed))
	}
	if s.tracer != nil {
		opts = append(opts, script.WithTracer(s.tracer))
	}
	return opts
}
