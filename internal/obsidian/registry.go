package obsidian

import (
	"encoding/json"
	"errors"
	"os"
	"sort"
	"strings"
)

// Vault types reported by Obsidian's registry.
const (
	VaultTypeFileSystem = "file-system"
	VaultTypeSync       = "sync"
)

// VaultRecord is one entry from obsidian.json.
type VaultRecord struct {
	ID        string `json:"id"`
	Path      string `json:"path"`
	Timestamp *int64 `json:"timestamp"`
	Open      bool   `json:"open"`
	Type      string `json:"type"`
}

// Registry is the decoded obsidian.json document. Vault entries are kept raw so
// a single malformed entry cannot fail the whole parse.
type Registry struct {
	Path   string
	Vaults map[string]json.RawMessage
}

// registryEntry fields are untyped so a mistyped value falls back to its
// default instead of dropping the entry.
type registryEntry struct {
	Path any `json:"path"`
	TS   any `json:"ts"`
	Open any `json:"open"`
	Type any `json:"type"`
}

// ParseRegistry reads obsidian.json from the resolved config directory.
func (l *Locator) ParseRegistry() (*Registry, error) {
	path, err := l.RegistryPath()
	if err != nil {
		return nil, err
	}
	return ParseRegistryFile(path)
}

// ParseRegistryFile reads and decodes a registry file at an explicit path.
func ParseRegistryFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &RegistryNotFoundError{Path: path}
		}
		return nil, &RegistryParseError{Path: path, Err: err}
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, &RegistryParseError{Path: path, Err: err}
	}

	reg := &Registry{Path: path}
	if raw, ok := top["vaults"]; ok {
		// A "vaults" value that is not an object leaves the registry empty.
		var vaults map[string]json.RawMessage
		if err := json.Unmarshal(raw, &vaults); err == nil {
			reg.Vaults = vaults
		}
	}
	return reg, nil
}

// ExtractVaultRecords returns the registry's vaults ordered by ID.
// Entries without a usable string path are skipped.
func ExtractVaultRecords(reg *Registry) []VaultRecord {
	if reg == nil || len(reg.Vaults) == 0 {
		return nil
	}

	ids := make([]string, 0, len(reg.Vaults))
	for id := range reg.Vaults {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	records := make([]VaultRecord, 0, len(ids))
	for _, id := range ids {
		var entry registryEntry
		if err := json.Unmarshal(reg.Vaults[id], &entry); err != nil {
			continue
		}
		path, ok := entry.Path.(string)
		if !ok || strings.TrimSpace(path) == "" {
			continue
		}
		vaultType, _ := entry.Type.(string)
		vaultType = strings.TrimSpace(vaultType)
		if vaultType == "" {
			vaultType = VaultTypeFileSystem
		}
		var ts *int64
		if f, ok := entry.TS.(float64); ok {
			v := int64(f)
			ts = &v
		}
		open, _ := entry.Open.(bool)
		records = append(records, VaultRecord{
			ID:        id,
			Path:      path,
			Timestamp: ts,
			Open:      open,
			Type:      vaultType,
		})
	}
	return records
}
