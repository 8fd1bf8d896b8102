package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Format.IndentWidth != 4 {
		t.Errorf("Expected IndentWidth=4, got %d", cfg.Format.IndentWidth)
	}
	if cfg.Format.StripCode {
		t.Error("Expected StripCode=false")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected Port=8080, got %d", cfg.Server.Port)
	}
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFrom(filepath.Join(dir, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Format.IndentWidth != 4 {
		t.Errorf("expected default IndentWidth, got %d", cfg.Format.IndentWidth)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := DefaultConfig()
	cfg.Format.IndentWidth = 2
	cfg.Server.Port = 9090

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.Format.IndentWidth != 2 {
		t.Errorf("IndentWidth = %d, want 2", loaded.Format.IndentWidth)
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", loaded.Server.Port)
	}
}

func TestLoadFromMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(path, []byte("not = [valid toml"), 0600); err != nil {
		t.Fatalf("failed to write test fixture: %v", err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("expected an error for malformed TOML")
	}
}
