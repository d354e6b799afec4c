package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aidanlsb/vaultkit/internal/analyzer"
	"github.com/aidanlsb/vaultkit/internal/config"
	"github.com/aidanlsb/vaultkit/internal/obsidian"
	"github.com/aidanlsb/vaultkit/internal/testutil"
)

func discovered(id, path string) obsidian.ValidatedVault {
	return obsidian.ValidatedVault{VaultRecord: obsidian.VaultRecord{ID: id, Path: path}}
}

func acceptAll(obsidian.ValidatedVault, *analyzer.ConfigSuggestion) bool { return true }

func TestConfigureVaultsAddsAndSkipsConfigured(t *testing.T) {
	para := testutil.NewTestVault(t).WithFolders("Projects", "Areas", "Resources", "Archive").Build()
	plain := testutil.NewTestVault(t).WithFolders("stuff").Build()
	existing := testutil.NewTestVault(t).Build()

	m := config.DefaultMappings(time.Now())
	if _, err := m.Add(config.VaultMapping{
		Name:               "existing",
		Path:               existing.Path,
		OrganizationMethod: analyzer.MethodCustom,
		AutoProcessing:     config.AutoProcessing{Schedule: config.ScheduleManual, Time: "09:00"},
	}); err != nil {
		t.Fatal(err)
	}

	vaults := []obsidian.ValidatedVault{
		discovered("a", para.Path),
		discovered("b", plain.Path),
		discovered("c", existing.Path),
	}
	outcomes := configureVaults(analyzer.New(), m, vaults, analyzer.DefaultMaxDepth, acceptAll)

	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	if outcomes[0].Status != configureAdded || outcomes[0].OrganizationMethod != analyzer.MethodPARA {
		t.Errorf("unexpected para outcome %+v", outcomes[0])
	}
	if outcomes[1].Status != configureAdded || outcomes[1].OrganizationMethod != analyzer.MethodCustom {
		t.Errorf("unexpected plain outcome %+v", outcomes[1])
	}
	if outcomes[2].Status != configureConfigured || outcomes[2].VaultID != "vault-existing" {
		t.Errorf("unexpected existing outcome %+v", outcomes[2])
	}
	if len(m.Vaults) != 3 {
		t.Errorf("expected 3 configured vaults, got %d", len(m.Vaults))
	}
	if got := countOutcomes(outcomes, configureAdded); got != 2 {
		t.Errorf("expected 2 added, got %d", got)
	}
}

func TestConfigureVaultsRejected(t *testing.T) {
	v := testutil.NewTestVault(t).Build()
	m := config.DefaultMappings(time.Now())

	var asked []string
	decline := func(v obsidian.ValidatedVault, s *analyzer.ConfigSuggestion) bool {
		asked = append(asked, s.Name)
		return false
	}
	outcomes := configureVaults(analyzer.New(), m, []obsidian.ValidatedVault{discovered("a", v.Path)}, 3, decline)

	if outcomes[0].Status != configureSkipped {
		t.Errorf("expected skipped, got %+v", outcomes[0])
	}
	if len(asked) != 1 || asked[0] != filepath.Base(v.Path) {
		t.Errorf("expected one prompt for %s, got %v", filepath.Base(v.Path), asked)
	}
	if len(m.Vaults) != 0 {
		t.Errorf("expected no vaults added, got %d", len(m.Vaults))
	}
}

func TestConfigureVaultsAnalysisFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone")
	m := config.DefaultMappings(time.Now())

	outcomes := configureVaults(analyzer.New(), m, []obsidian.ValidatedVault{discovered("gone", missing)}, 3, acceptAll)
	if outcomes[0].Status != configureFailed || !strings.Contains(outcomes[0].Error, "does not exist") {
		t.Errorf("expected failed outcome, got %+v", outcomes[0])
	}
}

func TestConfigureVaultsNameCollision(t *testing.T) {
	// Same directory name under different parents.
	a := filepath.Join(t.TempDir(), "notes")
	b := filepath.Join(t.TempDir(), "notes")
	for _, p := range []string{a, b} {
		testutil.NewTestVaultAt(t, p).Build()
	}

	m := config.DefaultMappings(time.Now())
	outcomes := configureVaults(analyzer.New(), m, []obsidian.ValidatedVault{discovered("a", a), discovered("b", b)}, 3, acceptAll)
	if outcomes[0].VaultID != "vault-notes" || outcomes[1].VaultID != "vault-notes-2" {
		t.Errorf("unexpected ids %q %q", outcomes[0].VaultID, outcomes[1].VaultID)
	}
}

func TestConfirmer(t *testing.T) {
	var out bytes.Buffer
	c := newConfirmer(strings.NewReader("y\nno\nYES\n"), &out)

	if !c.confirm("Add?") {
		t.Error("expected y to confirm")
	}
	if c.confirm("Add?") {
		t.Error("expected no to decline")
	}
	if !c.confirm("") {
		t.Error("expected YES to confirm")
	}
	if c.confirm("Add?") {
		t.Error("expected EOF to decline")
	}
	if !strings.Contains(out.String(), "Apply changes?") {
		t.Errorf("expected default prompt, got %q", out.String())
	}
}
