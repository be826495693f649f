package config

import "time"

// Config is the root configuration of the price service.
type Config struct {
	Service   string          `yaml:"service"`
	Log       LogConfig       `yaml:"log"`
	Server    ServerConfig    `yaml:"server"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr              string        `yaml:"addr"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

// MetricsConfig controls the /metrics endpoint. Token is required to scrape.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
}

// RateLimitConfig throttles write requests per client IP.
// WritesPerWindow == 0 disables limiting.
type RateLimitConfig struct {
	WritesPerWindow int           `yaml:"writes_per_window"`
	Window          time.Duration `yaml:"window"`
}
