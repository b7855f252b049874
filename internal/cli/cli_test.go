package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nconklindev/sheetrelay/internal/config"
	"github.com/nconklindev/sheetrelay/internal/types"

	"github.com/pterm/pterm"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	os.Exit(m.Run())
}

// isolate points every user-level path at a temp directory and disables the
// log file.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv(config.EnvServiceURL, "")
	t.Setenv(config.EnvTimeoutSeconds, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvLogFile, "")
	t.Setenv(config.EnvOutputDir, filepath.Join(dir, "results"))
	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd, cc := newRootCommand(BuildInfo{Version: "test", Commit: "abc", Date: "today"})
	defer cc.close()

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExcelToJSONCommand(t *testing.T) {
	dir := isolate(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/excel-to-json" {
			http.NotFound(w, r)
			return
		}
		if _, _, err := r.FormFile("file"); err != nil {
			http.Error(w, `{"error":"no file"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Sheet1":[{"name":"a"}]}`))
	}))
	defer srv.Close()

	input := writeFile(t, dir, "model.xlsx", "not really a workbook")
	output := filepath.Join(dir, "saved", "model.json")

	stdout, stderr, err := execute(t, "--server", srv.URL, "excel-to-json", input, "-o", output)
	if err != nil {
		t.Fatalf("execute: %v (stderr: %s)", err, stderr)
	}
	if !strings.Contains(stdout, "Download JSON (data.json): file://") {
		t.Errorf("stdout missing download link:\n%s", stdout)
	}
	if !strings.Contains(stdout, "Sheet1") {
		t.Errorf("stdout missing result summary:\n%s", stdout)
	}

	saved, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read saved result: %v", err)
	}
	if string(saved) != `{"Sheet1":[{"name":"a"}]}` {
		t.Errorf("saved = %s", saved)
	}
}

func TestUnreadableResultIsLogged(t *testing.T) {
	dir := isolate(t)
	logPath := filepath.Join(dir, "logs", "sheetrelay.log")
	t.Setenv(config.EnvLogFile, logPath)
	t.Setenv(config.EnvLogLevel, "debug")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	input := writeFile(t, dir, "model.xlsx", "x")
	stdout, stderr, err := execute(t, "--server", srv.URL, "excel-to-json", input)
	if err != nil {
		t.Fatalf("execute: %v (stderr: %s)", err, stderr)
	}
	if !strings.Contains(stdout, "Download JSON (data.json)") {
		t.Errorf("stdout missing download link:\n%s", stdout)
	}

	logs, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(logs), "result summary unavailable") {
		t.Errorf("log missing summary failure:\n%s", logs)
	}
}

func TestDirectionCommandFailures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		args     []string
		expected string
	}{
		{
			name:     "Missing input",
			args:     []string{"json-to-excel"},
			expected: "Please select a JSON file first.",
		},
		{
			name:     "Service error",
			status:   http.StatusBadRequest,
			body:     `{"error":"Sheet1 has no header row"}`,
			args:     []string{"excel-to-json", "model.xlsx"},
			expected: "Failed to convert Excel to JSON: Sheet1 has no header row",
		},
		{
			name:     "Validation error",
			status:   http.StatusBadRequest,
			body:     `{"error":"missing key: name"}`,
			args:     []string{"validate-json", "model.json"},
			expected: "Failed to validate JSON: missing key: name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			args := []string{"--server", srv.URL}
			for _, a := range tt.args {
				if strings.Contains(a, ".") {
					a = writeFile(t, dir, a, "{}")
				}
				args = append(args, a)
			}

			_, stderr, err := execute(t, args...)
			if !errors.Is(err, errReported) {
				t.Fatalf("err = %v; want errReported", err)
			}
			if !strings.Contains(stderr, tt.expected) {
				t.Errorf("stderr = %q; want %q", stderr, tt.expected)
			}
		})
	}
}

func TestConnectionRefusedHint(t *testing.T) {
	dir := isolate(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	input := writeFile(t, dir, "model.json", `{"a":1}`)
	_, stderr, err := execute(t, "--server", url, "json-to-excel", input)
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v; want errReported", err)
	}
	if !strings.Contains(stderr, "An error occurred: ") {
		t.Errorf("stderr missing transport error: %q", stderr)
	}
	if !strings.Contains(stderr, "Is the conversion service running?") {
		t.Errorf("stderr missing hint: %q", stderr)
	}
}

func TestValidateCommandPrintsMessage(t *testing.T) {
	dir := isolate(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"JSON file is valid"}`))
	}))
	defer srv.Close()

	input := writeFile(t, dir, "model.json", `{"a":1}`)
	stdout, _, err := execute(t, "--server", srv.URL, "validate-json", input)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(stdout, "JSON file is valid") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestInvalidServerFlag(t *testing.T) {
	isolate(t)
	_, _, err := execute(t, "--server", "ftp://example.com", "excel-to-json")
	if err == nil || errors.Is(err, errReported) {
		t.Fatalf("err = %v; want a config error", err)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom", "sheetrelay.toml")

	stdout, _, err := execute(t, "config", "init", "--path", path)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(stdout, path) {
		t.Errorf("stdout = %q", stdout)
	}

	if _, _, err := execute(t, "config", "init", "--path", path); err == nil {
		t.Error("expected an error when the file exists")
	}
	if _, _, err := execute(t, "config", "init", "--path", path, "--overwrite"); err != nil {
		t.Errorf("config init --overwrite: %v", err)
	}

	stdout, _, err = execute(t, "--config", path, "--server", "http://10.0.0.5:9000/", "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(stdout, "url = 'http://10.0.0.5:9000'") {
		t.Errorf("config show output:\n%s", stdout)
	}
}

func TestInspectCommand(t *testing.T) {
	dir := isolate(t)
	input := writeFile(t, dir, "data.json", `[{"a":1},{"a":2},{"a":3}]`)

	stdout, _, err := execute(t, "inspect", input)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if !strings.Contains(stdout, "array") || !strings.Contains(stdout, "3") {
		t.Errorf("stdout:\n%s", stdout)
	}

	if _, _, err := execute(t, "inspect", filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestVersion(t *testing.T) {
	isolate(t)
	stdout, _, err := execute(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "sheetrelay test") || !strings.Contains(stdout, "commit: abc") {
		t.Errorf("version output = %q", stdout)
	}
}

func TestRenderSummary(t *testing.T) {
	summary := &types.ResultSummary{
		Path: "/tmp/data.xlsx",
		Kind: "xlsx",
		Size: 1536,
		Sheets: []types.SheetSummary{
			{Name: "People", HeaderRow: 0, Headers: []string{"Name", "Age"}, Rows: 4, Columns: 2},
			{Name: "Empty", HeaderRow: -1},
		},
	}

	out := renderSummary(summary)
	for _, want := range []string{"/tmp/data.xlsx (xlsx, 1.5 kB)", "People", "Name, Age", "Empty"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate("abcdefghij", 8); got != "abcde..." {
		t.Errorf("truncate() = %q", got)
	}
}
