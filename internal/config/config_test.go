package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Data.SpawnDir != "." {
		t.Errorf("expected spawn dir '.', got %s", cfg.Data.SpawnDir)
	}
	if cfg.Data.ScanTimeout != 30*time.Second {
		t.Errorf("expected scan timeout 30s, got %v", cfg.Data.ScanTimeout)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "spawntool.yaml")

	yamlContent := `
data:
  spawn_dir: /data/vmaps
logging:
  level: debug
  log_file: spawntool.log
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("loading config: %v", err)
	}

	if cfg.Data.SpawnDir != "/data/vmaps" {
		t.Errorf("expected spawn dir /data/vmaps, got %s", cfg.Data.SpawnDir)
	}
	// Unset fields keep their defaults
	if cfg.Data.ScanTimeout != 30*time.Second {
		t.Errorf("expected scan timeout 30s, got %v", cfg.Data.ScanTimeout)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "spawntool.log" {
		t.Errorf("expected log file spawntool.log, got %s", cfg.Logging.LogFile)
	}
}

func TestSaveAndReload(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "sub", "spawntool.yaml")

	cfg := Default()
	cfg.Data.SpawnDir = "/srv/world"
	cfg.Logging.Level = "warn"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("saving config: %v", err)
	}

	reloaded := Default()
	if err := loadFromFile(reloaded, configPath); err != nil {
		t.Fatalf("reloading config: %v", err)
	}

	if reloaded.Data.SpawnDir != "/srv/world" {
		t.Errorf("expected spawn dir /srv/world, got %s", reloaded.Data.SpawnDir)
	}
	if reloaded.Logging.Level != "warn" {
		t.Errorf("expected log level 'warn', got %s", reloaded.Logging.Level)
	}
}
