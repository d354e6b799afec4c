package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveToRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vaultkit", "config.toml")

	cfg := &Config{
		MappingsFile:      "vaults.yaml",
		ObsidianConfigDir: "/opt/obsidian",
		MaxDepth:          4,
		UI:                UIConfig{Accent: "#ff8800"},
	}
	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo returned error: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}
	if *loaded != *cfg {
		t.Fatalf("expected %+v, got %+v", cfg, loaded)
	}
}

func TestSaveToOmitsEmptySettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := SaveTo(path, &Config{LogLevel: "  "}); err != nil {
		t.Fatalf("SaveTo returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "" {
		t.Errorf("expected empty file, got:\n%s", data)
	}
}

func TestSaveToRequiresPath(t *testing.T) {
	if err := SaveTo(" ", &Config{}); err == nil {
		t.Fatal("expected error for blank path")
	}
}
