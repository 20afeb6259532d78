package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fruitstand-dev/fruitstand/internal/testutil"
)

func TestConfigYAMLRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://store.example.com"
	cfg.API.TimeoutMS = 2500

	if err := WriteConfig(tmpDir, cfg); err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}

	loaded, err := ReadConfig(tmpDir)
	if err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}

	if loaded.API.BaseURL != "https://store.example.com" {
		t.Errorf("BaseURL: got %q, want %q", loaded.API.BaseURL, "https://store.example.com")
	}
	if loaded.API.TimeoutMS != 2500 {
		t.Errorf("TimeoutMS: got %d, want 2500", loaded.API.TimeoutMS)
	}
}

func TestReadConfigMissingFileFails(t *testing.T) {
	_, err := ReadConfig(t.TempDir())
	if err == nil {
		t.Error("ReadConfig should fail when config.yaml is absent")
	}
}

func TestDefaultConfigHasTimeout(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.API.TimeoutMS != 10000 {
		t.Errorf("default TimeoutMS: got %d, want 10000", cfg.API.TimeoutMS)
	}
	if cfg.API.BaseURL == "" {
		t.Error("default BaseURL should not be empty")
	}
}

func TestReadConfigFromFixture(t *testing.T) {
	dir := testutil.TempConfigDir(t, testutil.LocalConfig("http://127.0.0.1:9999"))

	cfg, err := ReadConfig(dir)
	if err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}
	if cfg.API.BaseURL != "http://127.0.0.1:9999" {
		t.Errorf("BaseURL: got %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutMS != 1000 {
		t.Errorf("TimeoutMS: got %d, want 1000", cfg.API.TimeoutMS)
	}
	if cfg.Log.Enabled {
		t.Error("fixture config should have logging disabled")
	}
}

func TestBackwardCompatibility(t *testing.T) {
	// Simulate an old config file without the log section.
	tmpDir := t.TempDir()
	oldConfig := `version: 1
api:
  base_url: "http://localhost:3001"
  timeout_ms: 10000
`
	if err := os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte(oldConfig), 0644); err != nil {
		t.Fatalf("failed to write old config: %v", err)
	}

	cfg, err := ReadConfig(tmpDir)
	if err != nil {
		t.Fatalf("ReadConfig failed on old config: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:3001" {
		t.Errorf("BaseURL: got %q", cfg.API.BaseURL)
	}
}
