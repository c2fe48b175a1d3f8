package observer

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/seven-it/Learn-Vue/internal/errors"
)

// Warning is a coded advisory diagnostic. The core emits warnings instead
// of failing when it is misused, then falls back to untracked behaviour.
type Warning = errors.Error

// Instrumentation receives counters from the core. Implementations must be
// cheap; they are called on hot paths.
type Instrumentation interface {
	// Observed is called when a container gets its Observer.
	// kind is "object" or "array".
	Observed(kind string)

	// Notified is called once per Dep.Notify with the number of
	// subscribers signalled.
	Notified(subscribers int)

	// Warned is called for every warning, including silenced ones.
	Warned(code string)
}

// Config holds the process-wide runtime settings of the core.
type Config struct {
	// Async reports whether subscribers defer their work through a
	// scheduler. When false, Dep.Notify orders subscribers by ID itself.
	Async bool

	// Silent suppresses warnings.
	Silent bool

	// WarnHandler, when set, receives warnings instead of the logger.
	WarnHandler func(w *Warning)

	// Logger receives warnings when no WarnHandler is set.
	// Defaults to slog.Default().
	Logger *slog.Logger

	// Instrumentation, when set, receives core counters.
	Instrumentation Instrumentation
}

// DefaultConfig returns the default settings: asynchronous notification,
// warnings logged through slog.Default().
func DefaultConfig() Config {
	return Config{Async: true}
}

var (
	configMu sync.RWMutex
	config   = DefaultConfig()
)

// CurrentConfig returns the active settings.
func CurrentConfig() Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return config
}

// SetConfig replaces the active settings and returns the previous ones so
// callers can restore them.
func SetConfig(c Config) Config {
	configMu.Lock()
	defer configMu.Unlock()
	old := config
	config = c
	return old
}

// observationDisabled is the inverse of the global observation toggle so
// that the zero value means enabled.
var observationDisabled atomic.Bool

// SetObservationEnabled turns automatic observation of values on or off and
// returns the previous state. While disabled, Observe refuses to create new
// Observers; existing ones keep working.
func SetObservationEnabled(enabled bool) bool {
	return !observationDisabled.Swap(!enabled)
}

// ObservationEnabled reports whether Observe may create new Observers.
func ObservationEnabled() bool {
	return !observationDisabled.Load()
}

// WithoutObservation runs fn with observation disabled, restoring the
// previous state afterwards.
func WithoutObservation(fn func()) {
	prev := SetObservationEnabled(false)
	defer SetObservationEnabled(prev)
	fn()
}

// Warn emits the warning registered under code with a formatted detail.
func Warn(code string, format string, args ...any) {
	w := errors.New(code)
	if format != "" {
		w.Detail = fmt.Sprintf(format, args...)
	}
	emit(w)
}

func emit(w *Warning) {
	cfg := CurrentConfig()
	if cfg.Instrumentation != nil {
		cfg.Instrumentation.Warned(w.Code)
	}
	if cfg.Silent {
		return
	}
	if cfg.WarnHandler != nil {
		cfg.WarnHandler(w)
		return
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn(w.Message, "code", w.Code, "detail", w.Detail)
}
