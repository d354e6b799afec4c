package cli

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/aidanlsb/vaultkit/internal/analyzer"
	"github.com/aidanlsb/vaultkit/internal/config"
)

func TestVaultRows(t *testing.T) {
	m := config.DefaultMappings(time.Now())
	m.Vaults = []config.VaultMapping{
		{ID: "vault-work", Name: "work", Path: "/vaults/work", Enabled: true, OrganizationMethod: analyzer.MethodPARA},
		{ID: "vault-notes", Name: "notes", Path: "/vaults/notes", OrganizationMethod: analyzer.MethodZettelkasten},
	}

	rows := vaultRows(m)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].ID != "vault-work" || !rows[0].Enabled || rows[0].OrganizationMethod != "para" {
		t.Errorf("unexpected first row %+v", rows[0])
	}
	if rows[1].Enabled {
		t.Errorf("expected second row disabled")
	}
}

func TestVaultRowsEmpty(t *testing.T) {
	rows := vaultRows(config.DefaultMappings(time.Now()))
	if rows == nil || len(rows) != 0 {
		t.Fatalf("expected empty non-nil rows, got %#v", rows)
	}
}

func TestSaveMappingsUsesResolvedPath(t *testing.T) {
	dir := t.TempDir()
	prevPath, prevNow := resolvedMappingsPath, now
	t.Cleanup(func() {
		resolvedMappingsPath, now = prevPath, prevNow
	})
	resolvedMappingsPath = filepath.Join(dir, "vault-mappings.yaml")
	now = func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) }

	m, err := loadMappings()
	if err != nil {
		t.Fatal(err)
	}
	if err := saveMappings(m); err != nil {
		t.Fatal(err)
	}

	loaded, err := config.LoadMappings(resolvedMappingsPath)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Metadata.LastUpdated != "2026-05-01" {
		t.Errorf("expected lastUpdated 2026-05-01, got %q", loaded.Metadata.LastUpdated)
	}
}

func TestSetOrganizationRegisteredTwice(t *testing.T) {
	top, _, err := rootCmd.Find([]string{"set-organization"})
	if err != nil || top.Name() != "set-organization" {
		t.Fatalf("top-level set-organization missing: %v", err)
	}
	nested, _, err := rootCmd.Find([]string{"vault", "set-organization"})
	if err != nil || nested.Parent().Name() != "vault" {
		t.Fatalf("vault set-organization missing: %v", err)
	}
	if top == nested {
		t.Fatal("expected separate command instances")
	}
}
