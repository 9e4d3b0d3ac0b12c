package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formpreview/internal/logging"
)

// EnvPrefix prefixes every environment override, e.g. FORMPREVIEW_SERVER_ADDR.
// Fields carry no envconfig defaults so unset variables never mask YAML
// values.
const EnvPrefix = "FORMPREVIEW"

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LogConfig     `yaml:"logging"`
	Schema  SchemaConfig  `yaml:"schema"`
	Theme   ThemeConfig   `yaml:"theme"`
	Session SessionConfig `yaml:"session"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout" split_words:"true"`
	WriteTimeout    time.Duration `yaml:"write_timeout" split_words:"true"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" split_words:"true"`
	RuntimePrefix   string        `yaml:"runtime_prefix" split_words:"true"`
	Metrics         bool          `yaml:"metrics"`
}

// LogConfig holds logging configuration. An empty level keeps logging silent.
type LogConfig struct {
	Level string `yaml:"level"`
}

// SchemaConfig points at the settings schemas. An empty location uses the
// embedded schema for each page variant.
type SchemaConfig struct {
	Location       string        `yaml:"location"`
	AllowHTTP      bool          `yaml:"allow_http" split_words:"true"`
	RequestTimeout time.Duration `yaml:"request_timeout" split_words:"true"`
}

// ThemeConfig selects the stylesheet linked by the host page.
type ThemeConfig struct {
	Name    string `yaml:"name"`
	Variant string `yaml:"variant"`
}

// SessionConfig tunes live websocket sessions.
type SessionConfig struct {
	WriteWait       time.Duration `yaml:"write_wait" split_words:"true"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" split_words:"true"`
	MaxMessageBytes int64         `yaml:"max_message_bytes" split_words:"true"`
	AllowedOrigins  []string      `yaml:"allowed_origins" split_words:"true"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			RuntimePrefix:   "/runtime",
			Metrics:         true,
		},
		Schema: SchemaConfig{
			RequestTimeout: 5 * time.Second,
		},
		Theme: ThemeConfig{
			Name: "default",
		},
		Session: SessionConfig{
			WriteWait:       5 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxMessageBytes: 64 << 10,
		},
	}
}

// Load applies, in order: defaults, the YAML file at path (when non-empty)
// and FORMPREVIEW_* environment overrides. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if _, port, err := net.SplitHostPort(c.Server.Addr); err != nil || port == "" {
		errs = append(errs, fmt.Errorf("server.addr %q must be host:port", c.Server.Addr))
	}
	if c.Logging.Level != "" {
		if _, ok := logging.ParseLevel(c.Logging.Level); !ok {
			errs = append(errs, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
		}
	}
	if !strings.HasPrefix(c.Server.RuntimePrefix, "/") {
		errs = append(errs, fmt.Errorf("server.runtime_prefix %q must start with /", c.Server.RuntimePrefix))
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"server.read_timeout", c.Server.ReadTimeout},
		{"server.write_timeout", c.Server.WriteTimeout},
		{"server.shutdown_timeout", c.Server.ShutdownTimeout},
		{"session.write_wait", c.Session.WriteWait},
		{"session.idle_timeout", c.Session.IdleTimeout},
	}
	for _, d := range durations {
		if d.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", d.name))
		}
	}
	if c.Session.MaxMessageBytes <= 0 {
		errs = append(errs, errors.New("session.max_message_bytes must be positive"))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
}
