package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/seven-it/Learn-Vue/internal/errors"
	"github.com/seven-it/Learn-Vue/internal/logging"
	"github.com/seven-it/Learn-Vue/pkg/observer"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "learnvue.json"

	// DefaultPort is the default playground port.
	DefaultPort = 7070

	// DefaultHost is the default playground host.
	DefaultHost = "localhost"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "learnvue"
)

// Config represents learnvue.json.
type Config struct {
	// Reactivity configures the observer core.
	Reactivity ReactivityConfig `json:"reactivity"`

	// Log configures the process logger.
	Log LogConfig `json:"log"`

	// Metrics configures the Prometheus collector.
	Metrics MetricsConfig `json:"metrics"`

	// Tracing configures watcher spans.
	Tracing TracingConfig `json:"tracing"`

	// Serve configures the playground server.
	Serve ServeConfig `json:"serve"`

	// S3 configures loading scenarios from s3:// URLs.
	S3 S3Config `json:"s3"`

	configPath string
}

// ReactivityConfig mirrors the process-wide observer settings.
type ReactivityConfig struct {
	// Sync flushes watchers as soon as they are queued and notifies
	// subscribers in creation order.
	Sync bool `json:"sync,omitempty"`

	// Silent suppresses warnings. They are still counted by metrics.
	Silent bool `json:"silent,omitempty"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty"`
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig enables OpenTelemetry spans for watcher evaluations.
type TracingConfig struct {
	Enabled bool `json:"enabled,omitempty"`
}

// ServeConfig contains playground server settings.
type ServeConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`

	// MaxScenarioBytes limits POST /run bodies.
	MaxScenarioBytes int64 `json:"maxScenarioBytes,omitempty"`
}

// S3Config contains settings for s3:// scenario sources. Credentials come
// from the AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY environment variables.
type S3Config struct {
	Region   string `json:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
}

// New creates a Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads learnvue.json from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigNotFound).
				WithDetail("No " + ConfigFileName + " found at " + path)
		}
		return nil, errors.New(errors.CodeConfigInvalid).Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.CodeConfigInvalid).
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error())
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads dir/learnvue.json when it exists and returns the
// defaults otherwise.
func LoadOrDefault(dir string) (*Config, error) {
	if !Exists(dir) {
		return New(), nil
	}
	return Load(dir)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = string(logging.FormatText)
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Serve.Host == "" {
		c.Serve.Host = DefaultHost
	}
	if c.Serve.Port == 0 {
		c.Serve.Port = DefaultPort
	}
	if c.Serve.MaxScenarioBytes == 0 {
		c.Serve.MaxScenarioBytes = 1 << 20
	}
	if c.S3.Region == "" {
		c.S3.Region = "us-east-1"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("serve.port must be between 0 and 65535")
	}
	if c.Serve.MaxScenarioBytes < 0 {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("serve.maxScenarioBytes must not be negative")
	}
	switch c.Log.Format {
	case string(logging.FormatText), string(logging.FormatJSON):
	default:
		return errors.New(errors.CodeConfigInvalid).
			WithDetail(fmt.Sprintf("log.format %q is not text or json", c.Log.Format))
	}
	return nil
}

// Address returns the host:port the playground listens on.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Serve.Host, strconv.Itoa(c.Serve.Port))
}

// Logger builds the logger described by the log section.
func (c *Config) Logger() *slog.Logger {
	return logging.New(logging.Config{
		Level:  logging.ParseLevel(c.Log.Level),
		Format: logging.ParseFormat(c.Log.Format),
	})
}

// ObserverConfig returns the observer settings described by the reactivity
// section, logging warnings to logger.
func (c *Config) ObserverConfig(logger *slog.Logger) observer.Config {
	oc := observer.DefaultConfig()
	oc.Async = !c.Reactivity.Sync
	oc.Silent = c.Reactivity.Silent
	oc.Logger = logger
	return oc
}

// Exists checks if a config file exists in dir.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
