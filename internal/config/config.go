package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds environment-level settings: where the archive lives and how
// the process logs and exposes metrics. Per-run inputs (date, variable,
// extent) come from the command line, not from here.
type Config struct {
	Bucket        string
	StoreVersion  string // storage-protocol version string, drives flavor resolution
	Region        string
	Endpoint      string
	UsePathStyle  bool
	ProjParamsURL string

	HTTPTimeout     time.Duration
	MetricsAddr     string // empty disables the metrics listener
	ShutdownTimeout time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	httpTimeout, err := parseDuration("HRRR_HTTP_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parseDuration("HRRR_SHUTDOWN_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Bucket:        envOrDefault("HRRR_BUCKET", "hrrrzarr"),
		StoreVersion:  envOrDefault("HRRR_STORE_VERSION", "3.0.8"),
		Region:        envOrDefault("HRRR_S3_REGION", "us-west-1"),
		Endpoint:      os.Getenv("HRRR_S3_ENDPOINT"),
		UsePathStyle:  os.Getenv("HRRR_S3_PATH_STYLE") == "true",
		ProjParamsURL: os.Getenv("HRRR_PROJ_PARAMS_URL"),

		HTTPTimeout:     httpTimeout,
		MetricsAddr:     os.Getenv("HRRR_METRICS_ADDR"),
		ShutdownTimeout: shutdownTimeout,

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),
	}

	if cfg.Bucket == "" {
		return nil, errors.New("HRRR_BUCKET is required")
	}
	if cfg.StoreVersion == "" {
		return nil, errors.New("HRRR_STORE_VERSION must not be empty")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	s := envOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}
