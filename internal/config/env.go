package config

import (
	"fmt"
	"os"
	"strconv"
)

// applyEnv overrides file values with the deployment environment.
func (c *Config) applyEnv() error {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + port
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		c.Log.Level = lvl
	}
	if tok := os.Getenv("METRICS_TOKEN"); tok != "" {
		c.Metrics.Token = tok
	}

	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("METRICS_ENABLED: %w", err)
		}
		c.Metrics.Enabled = b
	}

	if v := os.Getenv("WRITE_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("WRITE_RATE_LIMIT: %w", err)
		}
		c.RateLimit.WritesPerWindow = n
	}

	return nil
}
