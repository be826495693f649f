package config

import (
	"errors"
	"fmt"

	"PriceStore/pkg/kit"
)

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if c.Service == "" {
		return errors.New("service is required")
	}
	if _, err := kit.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level %q is invalid", c.Log.Level)
	}

	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.Server.ReadHeaderTimeout < 0 {
		return errors.New("server.read_header_timeout cannot be negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("server.shutdown_timeout must be positive")
	}

	if c.RateLimit.WritesPerWindow < 0 {
		return fmt.Errorf("rate_limit.writes_per_window (%d) cannot be negative", c.RateLimit.WritesPerWindow)
	}
	if c.RateLimit.WritesPerWindow > 0 && c.RateLimit.Window <= 0 {
		return errors.New("rate_limit.window must be positive when rate_limit.writes_per_window is set")
	}

	return nil
}
