// Package playground serves scenario runs over HTTP: POST a scenario to
// /run and get its events back, or follow every run live on /ws.
package playground

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	lverrors "github.com/seven-it/Learn-Vue/internal/errors"
	"github.com/seven-it/Learn-Vue/internal/logging"
	"github.com/seven-it/Learn-Vue/internal/script"
	"github.com/seven-it/Learn-Vue/pkg/metrics"
)

// Config configures a Server.
type Config struct {
	Logger *slog.Logger

	// Collector receives observer activity. Optional.
	Collector *metrics.Collector

	// Gatherer is exposed on /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	// Tracer records watcher spans. Optional.
	Tracer trace.Tracer

	// MaxScenarioBytes limits request bodies (default 1 MiB).
	MaxScenarioBytes int64

	Sync   bool
	Silent bool
}

// Server is the playground HTTP server.
type Server struct {
	config Config
	hub    *Hub
	router chi.Router
}

// New creates a Server.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	if cfg.MaxScenarioBytes <= 0 {
		cfg.MaxScenarioBytes = 1 << 20
	}

	s := &Server{config: cfg, hub: NewHub()}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/run", s.handleRun)
	r.Get("/ws", s.hub.HandleWebSocket)
	r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the live message hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.config.Logger.Info("playground listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"clients": s.hub.ClientCount(),
	})
}

// errorBody is the JSON shape of failed requests.
type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Result  *script.Result `json:"result,omitempty"`
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	logger := s.config.Logger.With("request_id", middleware.GetReqID(r.Context()))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxScenarioBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{
			Code:    lverrors.CodeScenarioUnavailable,
			Message: err.Error(),
		})
		return
	}

	sc, err := script.Parse(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: lverrors.Code(err), Message: err.Error()})
		return
	}

	res, err := s.runner(logger).Run(r.Context(), sc)
	if err != nil {
		logger.Warn("scenario failed", "error", err)
		s.hub.Broadcast(Message{Type: MessageError, Error: err.Error()})
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{
			Code:    lverrors.Code(err),
			Message: err.Error(),
			Result:  res,
		})
		return
	}

	logger.Info("scenario ran", "steps", len(sc.Steps), "events", len(res.Events), "warnings", len(res.Warnings))
	s.hub.Broadcast(Message{Type: MessageDone, Events: len(res.Events), Warnings: len(res.Warnings)})
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) runner(logger *slog.Logger) *script.Runner {
	opts := []script.Option{
		script.WithLogger(logger),
		script.WithSync(s.config.Sync),
		script.WithSilent(s.config.Silent),
		script.WithEventHook(func(ev script.Event) {
			s.hub.Broadcast(Message{Type: MessageEvent, Event: &ev})
		}),
	}
	if c := s.config.Collector; c != nil {
		opts = append(opts, script.WithInstrumentation(c), script.WithFlushHook(c.Flushed))
	}
	if s.config.Tracer != nil {
		opts = append(opts, script.WithTracer(s.config.Tracer))
	}
	return script.NewRunner(opts...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
