package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvServiceURL     = "SHEETRELAY_SERVER_URL"
	EnvTimeoutSeconds = "SHEETRELAY_TIMEOUT_SECONDS"
	EnvOutputDir      = "SHEETRELAY_OUTPUT_DIR"
	EnvLogFile        = "SHEETRELAY_LOG_FILE"
	EnvLogLevel       = "SHEETRELAY_LOG_LEVEL"
)

// LoadDotEnv loads variables from path into the process environment without
// overriding ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Service.URL = getEnvOrDefault(EnvServiceURL, c.Service.URL)
	c.Paths.OutputDir = getEnvOrDefault(EnvOutputDir, c.Paths.OutputDir)
	c.Logging.Level = getEnvOrDefault(EnvLogLevel, c.Logging.Level)

	if v, ok := os.LookupEnv(EnvLogFile); ok {
		c.Paths.LogFile = v
	}

	if v := strings.TrimSpace(os.Getenv(EnvTimeoutSeconds)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeoutSeconds, err)
		}
		c.Service.TimeoutSeconds = n
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
