package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// HealthPath is served by the exporter itself and cannot hold metrics.
const HealthPath = "/healthz"

type Config struct {
	APIToken    string `env:"TODOIST_API_TOKEN"`
	Port        int    `env:"EXPORTER_PORT" envDefault:"9090"`
	MetricsPath string `env:"METRICS_PATH" envDefault:"/metrics"`
	// IntervalSeconds is the pause between the end of one collection and
	// the start of the next.
	IntervalSeconds int `env:"COLLECTION_INTERVAL" envDefault:"60"`

	CompletedHours int `env:"COMPLETED_TASKS_HOURS" envDefault:"24"`
	CompletedDays  int `env:"COMPLETED_TASKS_DAYS" envDefault:"7"`

	RESTURL        string `env:"TODOIST_REST_URL" envDefault:"https://api.todoist.com/rest/v2"`
	SyncURL        string `env:"TODOIST_SYNC_URL" envDefault:"https://api.todoist.com/sync/v9"`
	TimeoutSeconds int    `env:"TODOIST_REQUEST_TIMEOUT" envDefault:"30"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.APIToken = strings.TrimSpace(cfg.APIToken)
	return &cfg, nil
}

// Validate checks the values that would make the exporter unable to start.
// A missing token is not one of them.
func (c *Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if !strings.HasPrefix(c.MetricsPath, "/") {
		errs = append(errs, fmt.Errorf("metrics path '%s' must start with '/'", c.MetricsPath))
	}
	if c.MetricsPath == HealthPath {
		errs = append(errs, fmt.Errorf("metrics path '%s' is reserved for the health check", c.MetricsPath))
	}
	if c.IntervalSeconds <= 0 {
		errs = append(errs, fmt.Errorf("collection interval must be positive, got %d", c.IntervalSeconds))
	}
	if c.CompletedHours <= 0 {
		errs = append(errs, fmt.Errorf("completed tasks hours must be positive, got %d", c.CompletedHours))
	}
	if c.CompletedDays <= 0 {
		errs = append(errs, fmt.Errorf("completed tasks days must be positive, got %d", c.CompletedDays))
	}
	if c.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %d", c.TimeoutSeconds))
	}
	return errors.Join(errs...)
}

func (c *Config) HasToken() bool {
	return c.APIToken != ""
}

func (c *Config) ListenAddr() string {
	return ":" + strconv.Itoa(c.Port)
}

func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
