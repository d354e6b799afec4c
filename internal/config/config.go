// Package config handles the global vaultkit configuration (config.toml) and
// the vault mappings file (vault-mappings.yaml) it points at.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/aidanlsb/vaultkit/internal/atomicfile"
)

// Environment variables that override default file locations.
const (
	EnvConfigPath   = "VAULTKIT_CONFIG"
	EnvMappingsPath = "VAULTKIT_MAPPINGS"
)

// DefaultMappingsFileName is the mappings file created next to config.toml.
const DefaultMappingsFileName = "vault-mappings.yaml"

// Config represents the global vaultkit configuration.
type Config struct {
	// MappingsFile is where configured vaults are stored.
	// Relative paths resolve against the config file's directory.
	MappingsFile string `toml:"mappings_file"`

	// ObsidianConfigDir overrides the platform default Obsidian config directory.
	ObsidianConfigDir string `toml:"obsidian_config_dir"`

	// MaxDepth is the analysis walk depth (default 3).
	MaxDepth int `toml:"max_depth"`

	// LogLevel is the default log level when --log-level is not given.
	LogLevel string `toml:"log_level"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown rendering.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`
}

// EffectiveMaxDepth returns MaxDepth, or fallback when unset or negative.
func (c *Config) EffectiveMaxDepth(fallback int) int {
	if c == nil || c.MaxDepth <= 0 {
		return fallback
	}
	return c.MaxDepth
}

// LogLevels are the accepted log_level values.
var LogLevels = []string{"debug", "info", "warn", "error"}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate checks values that Load accepts syntactically but the CLI cannot use.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MaxDepth, validation.Min(0)),
		validation.Field(&c.LogLevel, validation.In(stringsToAny(LogLevels)...)),
		validation.Field(&c.UI),
	)
}

// Validate checks the accent color.
func (u UIConfig) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Accent, validation.By(accentColor)),
	)
}

func accentColor(value interface{}) error {
	s, _ := value.(string)
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "none", "off", "default":
		return nil
	}
	if hexColor.MatchString(s) {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 255 {
		return nil
	}
	return errors.New("must be an ANSI color (0-255) or #RRGGBB")
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom loads the configuration from a specific path.
// A missing file yields an empty config.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}

	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &config, nil
}

// DefaultPath returns the default config file path.
// $VAULTKIT_CONFIG wins; otherwise ~/.config/vaultkit/config.toml is used
// when it exists, falling back to the OS-specific config directory.
func DefaultPath() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p
	}

	if xdgPath, err := XDGPath(); err == nil {
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "vaultkit", "config.toml")
	}

	// Last resort fallback
	return filepath.Join(".", "config.toml")
}

// XDGPath returns the XDG-style config path (~/.config/vaultkit/config.toml).
func XDGPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "vaultkit", "config.toml"), nil
}

// ResolveConfigPath resolves the effective config path from an optional override.
func ResolveConfigPath(explicitConfigPath string) string {
	if strings.TrimSpace(explicitConfigPath) != "" {
		return explicitConfigPath
	}
	return DefaultPath()
}

// ResolveMappingsPath resolves vault-mappings.yaml with precedence:
//  1. explicitPath flag
//  2. $VAULTKIT_MAPPINGS
//  3. cfg.MappingsFile (relative to the config file dir when not absolute)
//  4. vault-mappings.yaml next to config.toml
func ResolveMappingsPath(explicitPath, configPath string, cfg *Config) string {
	if strings.TrimSpace(explicitPath) != "" {
		return explicitPath
	}
	if env := strings.TrimSpace(os.Getenv(EnvMappingsPath)); env != "" {
		return env
	}

	configDir := filepath.Dir(ResolveConfigPath(configPath))

	if cfg != nil {
		if fromConfig := strings.TrimSpace(cfg.MappingsFile); fromConfig != "" {
			if isAbsolutePath(fromConfig) {
				return filepath.Clean(filepath.FromSlash(fromConfig))
			}
			return filepath.Join(configDir, filepath.FromSlash(fromConfig))
		}
	}

	return filepath.Join(configDir, DefaultMappingsFileName)
}

func isAbsolutePath(p string) bool {
	if filepath.IsAbs(p) {
		return true
	}
	// Treat slash-rooted config values as absolute on every OS.
	return strings.HasPrefix(filepath.ToSlash(strings.TrimSpace(p)), "/")
}

const defaultConfigTemplate = `# vaultkit configuration

# Where configured vaults are stored (relative to this file unless absolute)
# mappings_file = "vault-mappings.yaml"

# Override the Obsidian config directory that holds obsidian.json
# obsidian_config_dir = "/path/to/obsidian"

# How many folder levels below the vault root to analyze
# max_depth = 3

# Default log level: debug, info, warn, error
# log_level = "warn"

# Optional UI accent color for headers in terminal output.
# Supports ANSI color codes (0-255) or hex (#RRGGBB).
# [ui]
# accent = "39"
`

// CreateDefault writes a commented default config at path if none exists.
// It returns true when a new file was created.
func CreateDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	if err := atomicfile.Write(path, []byte(defaultConfigTemplate), atomicfile.WithPerm(0o644), atomicfile.WithParents()); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}

	return true, nil
}
