package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeCLIConfig writes a config file whose directories live under a fresh
// temp dir, so commands that ensure directories stay contained.
func writeCLIConfig(t *testing.T, cacheEnabled bool) string {
	t.Helper()
	base := t.TempDir()
	content := fmt.Sprintf(`[paths]
staging_dir = %q
log_dir = %q
cache_dir = %q

[cache]
enabled = %t
`,
		filepath.Join(base, "staging"),
		filepath.Join(base, "logs"),
		filepath.Join(base, "cache"),
		cacheEnabled,
	)
	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
