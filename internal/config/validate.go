package config

import (
	"fmt"
	"net/url"

	"go.uber.org/zap/zapcore"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateService(); err != nil {
		return err
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.Paths.OutputDir == "" {
		return fmt.Errorf("paths.output_dir is required")
	}
	return nil
}

func (c *Config) validateService() error {
	u, err := url.Parse(c.Service.URL)
	if err != nil {
		return fmt.Errorf("service.url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("service.url must use http or https, got %q", c.Service.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("service.url %q has no host", c.Service.URL)
	}
	if c.Service.TimeoutSeconds < 0 {
		return fmt.Errorf("service.timeout_seconds must not be negative")
	}
	return nil
}
