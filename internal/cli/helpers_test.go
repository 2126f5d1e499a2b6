package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/odysseus0/internlog/internal/config"
)

func setEnvForTest(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("set env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, old)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}

func unsetEnvForTest(t *testing.T, key string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unset env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, old)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HOME",
		"XDG_CONFIG_HOME",
		"INTERNLOG_DB_PATH",
		"INTERNLOG_STALE_MINUTES",
		"INTERNLOG_FETCH_CONCURRENCY",
		"INTERNLOG_HTTP_TIMEOUT_SECONDS",
		"INTERNLOG_USER_AGENT",
		"INTERNLOG_AUDIT_DANGEROUS",
		"INTERNLOG_LOG_LEVEL",
		"INTERNLOG_LOG_FILE",
	} {
		unsetEnvForTest(t, key)
	}
}

func writeConfigFile(t *testing.T, home string, body string) string {
	t.Helper()
	path := filepath.Join(home, ".config", "internlog", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func testConfig(dbPath string) config.Config {
	return config.Config{
		DBPath:           dbPath,
		StaleAfter:       30 * time.Minute,
		FetchConcurrency: 2,
		HTTPTimeout:      10 * time.Second,
		UserAgent:        "internlog-test/1.0",
		AuditDangerous:   true,
		LogLevel:         "error",
	}
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// execCLI runs one command against dbPath with stdin as input.
func execCLI(t *testing.T, dbPath, stdin string, args ...string) cliResult {
	t.Helper()
	root := NewRootCmd(testConfig(dbPath))
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--db", dbPath}, args...))
	err := root.Execute()
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func runCLI(t *testing.T, dbPath string, args ...string) string {
	t.Helper()
	res := execCLI(t, dbPath, "", args...)
	if res.err != nil {
		t.Fatalf("command failed (%v): %v (stderr: %s)", args, res.err, res.stderr)
	}
	return res.stdout
}

func writeTempFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
