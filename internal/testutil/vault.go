// Package testutil provides reusable test utilities for vaultkit tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// TestVault represents a temporary Obsidian vault for testing.
type TestVault struct {
	Path    string
	t       *testing.T
	folders []string
	files   map[string]string
	marker  bool
}

// NewTestVault creates a new test vault builder.
// Call Build() to create the actual vault directory.
func NewTestVault(t *testing.T) *TestVault {
	t.Helper()
	return &TestVault{
		t:      t,
		files:  make(map[string]string),
		marker: true,
	}
}

// NewTestVaultAt is NewTestVault rooted at path instead of a fresh temp dir.
// Use it when the vault's directory name matters.
func NewTestVaultAt(t *testing.T, path string) *TestVault {
	t.Helper()
	v := NewTestVault(t)
	v.Path = path
	return v
}

// WithFolders adds folders to the vault. Nested paths use forward slashes.
func (v *TestVault) WithFolders(folders ...string) *TestVault {
	v.folders = append(v.folders, folders...)
	return v
}

// WithFile adds a file to the vault.
// The path is relative to the vault root.
func (v *TestVault) WithFile(path, content string) *TestVault {
	v.files[path] = content
	return v
}

// WithoutMarker builds the vault without its .obsidian directory.
func (v *TestVault) WithoutMarker() *TestVault {
	v.marker = false
	return v
}

// Build creates the vault directory with its marker, folders and files.
// Returns the TestVault for method chaining.
func (v *TestVault) Build() *TestVault {
	v.t.Helper()

	if v.Path == "" {
		v.Path = v.t.TempDir()
	} else if err := os.MkdirAll(v.Path, 0o755); err != nil {
		v.t.Fatalf("failed to create vault dir %s: %v", v.Path, err)
	}

	if v.marker {
		v.mkdir(".obsidian")
	}
	for _, folder := range v.folders {
		v.mkdir(folder)
	}
	for path, content := range v.files {
		v.writeFile(path, content)
	}

	return v
}

func (v *TestVault) mkdir(relPath string) {
	v.t.Helper()
	fullPath := filepath.Join(v.Path, filepath.FromSlash(relPath))
	if err := os.MkdirAll(fullPath, 0o755); err != nil {
		v.t.Fatalf("failed to create directory %s: %v", fullPath, err)
	}
}

// writeFile writes a file to the vault, creating directories as needed.
func (v *TestVault) writeFile(relPath, content string) {
	v.t.Helper()
	fullPath := filepath.Join(v.Path, filepath.FromSlash(relPath))

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		v.t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		v.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
}

// Mkdir creates a folder inside an already built vault.
func (v *TestVault) Mkdir(relPath string) {
	v.t.Helper()
	v.mkdir(relPath)
}

// RegistryEntry is one vault entry written by WriteRegistry.
type RegistryEntry struct {
	Path string `json:"path"`
	TS   int64  `json:"ts,omitempty"`
	Open bool   `json:"open,omitempty"`
	Type string `json:"type,omitempty"`
}

// WriteRegistry writes an obsidian.json into configDir listing the given vaults.
func WriteRegistry(t *testing.T, configDir string, vaults map[string]RegistryEntry) string {
	t.Helper()
	data, err := json.MarshalIndent(map[string]interface{}{"vaults": vaults}, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal registry: %v", err)
	}
	return WriteRawRegistry(t, configDir, string(data))
}

// WriteRawRegistry writes obsidian.json with verbatim content.
func WriteRawRegistry(t *testing.T, configDir, content string) string {
	t.Helper()
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir %s: %v", configDir, err)
	}
	path := filepath.Join(configDir, "obsidian.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write registry %s: %v", path, err)
	}
	return path
}
