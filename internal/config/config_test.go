package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nconklindev/sheetrelay/internal/config"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, key := range []string{
		config.EnvServiceURL, config.EnvTimeoutSeconds, config.EnvOutputDir,
		config.EnvLogFile, config.EnvLogLevel,
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent")
	}
	if resolved != filepath.Join(home, ".config", "sheetrelay", "config.toml") {
		t.Errorf("resolved = %q", resolved)
	}
	if cfg.Service.URL != "http://127.0.0.1:8000" {
		t.Errorf("Service.URL = %q", cfg.Service.URL)
	}
	if cfg.Timeout() != 0 {
		t.Errorf("Timeout() = %v; want none", cfg.Timeout())
	}
	if cfg.Paths.OutputDir != filepath.Join(home, ".cache", "sheetrelay", "results") {
		t.Errorf("OutputDir = %q", cfg.Paths.OutputDir)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[service]
url = "http://converter.local:9000/"
timeout_seconds = 30

[paths]
output_dir = "/tmp/sheetrelay-results"
log_file = ""

[logging]
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvTimeoutSeconds, "5")

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Service.URL != "http://converter.local:9000" {
		t.Errorf("Service.URL = %q; want trailing slash trimmed", cfg.Service.URL)
	}
	if cfg.Timeout() != 5*time.Second {
		t.Errorf("Timeout() = %v; want env override 5s", cfg.Timeout())
	}
	if cfg.Paths.LogFile != "" {
		t.Errorf("LogFile = %q; want disabled", cfg.Paths.LogFile)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		wantErr string
	}{
		{"Bad scheme", "[service]\nurl = \"ftp://host\"\n", nil, "http or https"},
		{"Unknown key", "[service]\nendpoint = \"x\"\n", nil, "parse config"},
		{"Bad level", "[logging]\nlevel = \"loud\"\n", nil, "logging.level"},
		{"Negative timeout", "[service]\ntimeout_seconds = -1\n", nil, "timeout_seconds"},
		{"Bad env timeout", "", map[string]string{config.EnvTimeoutSeconds: "soon"}, config.EnvTimeoutSeconds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			_, _, _, err := config.Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v; want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte(config.EnvServiceURL+"=http://10.0.0.5:8000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv(config.EnvServiceURL) })

	if err := config.LoadDotEnv(envPath); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	cfg, _, _, err := config.Load(filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Service.URL != "http://10.0.0.5:8000" {
		t.Errorf("Service.URL = %q; want value from .env", cfg.Service.URL)
	}

	if err := config.LoadDotEnv(filepath.Join(dir, "absent.env")); err != nil {
		t.Errorf("missing .env returned %v; want nil", err)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := config.Default()
	cfg.Service.URL = "https://convert.example.org"

	if err := config.Write(path, cfg); err != nil {
		t.Fatalf("Write: %v", err)
	}
	loaded, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !exists || loaded.Service.URL != "https://convert.example.org" {
		t.Errorf("loaded %+v (exists=%v)", loaded.Service, exists)
	}
}
