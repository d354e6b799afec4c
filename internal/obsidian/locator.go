// Package obsidian locates Obsidian vaults on the local machine.
//
// It reads Obsidian's own vault registry (obsidian.json) from the
// platform-specific config directory, and validates every registered path:
//   - paths are normalized and symlinks resolved
//   - traversal segments that survive normalization are rejected
//   - read and write access are probed independently
//   - the .obsidian marker directory must be present
//
// Problems with an individual vault are reported on that vault; they never
// abort discovery of the others.
package obsidian

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

const (
	// RegistryFileName is the name of Obsidian's vault registry inside its config directory.
	RegistryFileName = "obsidian.json"

	// MarkerDir is the hidden directory whose presence makes a directory a vault.
	MarkerDir = ".obsidian"

	appDirName = "obsidian"
)

// Locator resolves Obsidian's config directory and discovers registered vaults.
// The zero value is not usable; construct with NewLocator.
type Locator struct {
	// GOOS selects the config directory layout.
	GOOS string
	// HomeDir is the user's home directory, used for fallbacks.
	HomeDir string
	// Getenv reads environment overrides (APPDATA, XDG_CONFIG_HOME).
	Getenv func(string) string
	// ConfigDir, when set, replaces the platform lookup entirely.
	ConfigDir string

	logger *zap.Logger
}

// LocatorOption configures a Locator.
type LocatorOption func(*Locator)

// WithGOOS overrides the detected operating system.
func WithGOOS(goos string) LocatorOption {
	return func(l *Locator) { l.GOOS = goos }
}

// WithHomeDir overrides the detected home directory.
func WithHomeDir(home string) LocatorOption {
	return func(l *Locator) { l.HomeDir = home }
}

// WithGetenv overrides how environment variables are read.
func WithGetenv(getenv func(string) string) LocatorOption {
	return func(l *Locator) {
		if getenv != nil {
			l.Getenv = getenv
		}
	}
}

// WithConfigDir pins the Obsidian config directory.
func WithConfigDir(dir string) LocatorOption {
	return func(l *Locator) { l.ConfigDir = strings.TrimSpace(dir) }
}

// WithLogger attaches a logger for per-vault diagnostics.
func WithLogger(logger *zap.Logger) LocatorOption {
	return func(l *Locator) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLocator returns a Locator for the running platform.
func NewLocator(opts ...LocatorOption) *Locator {
	home, _ := os.UserHomeDir()
	l := &Locator{
		GOOS:    runtime.GOOS,
		HomeDir: home,
		Getenv:  os.Getenv,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Locator) getenv(key string) string {
	if l.Getenv == nil {
		return ""
	}
	return strings.TrimSpace(l.Getenv(key))
}

func (l *Locator) log() *zap.Logger {
	if l.logger == nil {
		return zap.NewNop()
	}
	return l.logger
}

// ResolveConfigDir returns the absolute path of Obsidian's config directory.
//
//   - darwin:  ~/Library/Application Support/obsidian
//   - windows: %APPDATA%/obsidian (fallback ~/AppData/Roaming/obsidian)
//   - linux and BSDs: $XDG_CONFIG_HOME/obsidian (fallback ~/.config/obsidian)
func (l *Locator) ResolveConfigDir() (string, error) {
	if l.ConfigDir != "" {
		return filepath.Abs(l.ConfigDir)
	}

	switch l.GOOS {
	case "darwin":
		return filepath.Join(l.HomeDir, "Library", "Application Support", appDirName), nil
	case "windows":
		base := l.getenv("APPDATA")
		if base == "" {
			base = filepath.Join(l.HomeDir, "AppData", "Roaming")
		}
		return filepath.Join(base, appDirName), nil
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		base := l.getenv("XDG_CONFIG_HOME")
		if base == "" {
			base = filepath.Join(l.HomeDir, ".config")
		}
		return filepath.Join(base, appDirName), nil
	default:
		return "", &UnsupportedPlatformError{Platform: l.GOOS}
	}
}

// RegistryPath returns the full path of obsidian.json.
func (l *Locator) RegistryPath() (string, error) {
	dir, err := l.ResolveConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, RegistryFileName), nil
}
