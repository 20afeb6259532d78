// Package testutil provides test helper utilities for fruitstand tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TempConfigDir creates a temporary directory with the given files and
// returns its path. Files is a map of relative path -> content.
// The directory is automatically cleaned up when the test finishes.
func TempConfigDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	for relPath, content := range files {
		absPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			t.Fatalf("creating directory for %s: %v", relPath, err)
		}
		if err := os.WriteFile(absPath, []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", relPath, err)
		}
	}

	return dir
}

// LocalConfig returns file contents for a config pointing at the given
// API base URL.
func LocalConfig(baseURL string) map[string]string {
	return map[string]string{
		"config.yaml": "version: 1\napi:\n  base_url: \"" + baseURL + "\"\n  timeout_ms: 1000\nlog:\n  enabled: false\n",
	}
}
