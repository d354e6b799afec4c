package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/vaultkit/internal/atomicfile"
)

type persistedConfig struct {
	MappingsFile      *string              `toml:"mappings_file,omitempty"`
	ObsidianConfigDir *string              `toml:"obsidian_config_dir,omitempty"`
	MaxDepth          *int                 `toml:"max_depth,omitempty"`
	LogLevel          *string              `toml:"log_level,omitempty"`
	UI                *persistedUISettings `toml:"ui,omitempty"`
}

type persistedUISettings struct {
	Accent *string `toml:"accent,omitempty"`
}

func nonEmptyPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// SaveTo writes the global config to a specific path atomically.
// Empty settings are omitted from the file.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}

	out := persistedConfig{
		MappingsFile:      nonEmptyPtr(cfg.MappingsFile),
		ObsidianConfigDir: nonEmptyPtr(cfg.ObsidianConfigDir),
		LogLevel:          nonEmptyPtr(cfg.LogLevel),
	}
	if cfg.MaxDepth > 0 {
		depth := cfg.MaxDepth
		out.MaxDepth = &depth
	}

	if accent := nonEmptyPtr(cfg.UI.Accent); accent != nil {
		out.UI = &persistedUISettings{Accent: accent}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := atomicfile.Write(path, buf.Bytes(), atomicfile.WithPerm(0o644), atomicfile.WithParents()); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}

	return nil
}
