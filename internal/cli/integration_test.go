//go:build integration

package cli_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aidanlsb/vaultkit/internal/testutil"
)

// TestIntegration_DetectReportsEveryProblem registers a usable vault, a missing
// path and a folder without .obsidian.
func TestIntegration_DetectReportsEveryProblem(t *testing.T) {
	env := testutil.NewCLIEnv(t)
	good := testutil.NewTestVault(t).WithFolders("Inbox").Build()
	plain := testutil.NewTestVault(t).WithoutMarker().Build()
	env.RegisterVaults(map[string]testutil.RegistryEntry{
		"good":    {Path: good.Path, Open: true},
		"plain":   {Path: plain.Path},
		"missing": {Path: filepath.Join(env.Root, "missing")},
	})

	result := env.RunCLI("detect").MustSucceed(t)
	result.AssertResultCount(t, "vaults", 3)
	if result.Data["accessible"].(float64) != 2 || result.Data["valid"].(float64) != 1 {
		t.Errorf("unexpected counts: %v", result.Data)
	}
	result.AssertHasWarning(t, "VAULT_PROBLEMS")

	result = env.RunCLI("detect-vaults", "--accessible-only").MustSucceed(t)
	result.AssertResultCount(t, "vaults", 1)
}

func TestIntegration_DetectMissingRegistry(t *testing.T) {
	env := testutil.NewCLIEnv(t)
	env.RunCLI("detect").MustFail(t, "REGISTRY_NOT_FOUND")
}

func TestIntegration_Analyze(t *testing.T) {
	env := testutil.NewCLIEnv(t)
	v := testutil.NewTestVault(t).
		WithFolders("00 Inbox", "10 Projects", "20 Areas", "30 Resources", "40 Archive").
		Build()

	result := env.RunCLI("analyze", v.Path).MustSucceed(t)
	analysis := result.Data["analysis"].(map[string]interface{})
	// PARA and Johnny Decimal both saturate at 1.0; PARA is registered first.
	if analysis["organizationMethod"] != "para" {
		t.Errorf("expected para, got %v", analysis["organizationMethod"])
	}
	locations := analysis["keyLocations"].(map[string]interface{})
	if locations["inbox"] != "00 Inbox" {
		t.Errorf("expected 00 Inbox, got %v", locations["inbox"])
	}
	suggestion := result.Data["suggestion"].(map[string]interface{})
	if !strings.HasPrefix(suggestion["id"].(string), "vault-") {
		t.Errorf("unexpected suggestion id %v", suggestion["id"])
	}

	env.RunCLI("analyze", "../../../etc").MustFail(t, "PATH_TRAVERSAL")
	env.RunCLI("analyze", filepath.Join(v.Path, "nope")).MustFailWithMessage(t, "does not exist")
	env.RunCLI("analyze", v.Path, "--max-depth", "0").MustFail(t, "INVALID_INPUT")
}

func TestIntegration_VaultLifecycle(t *testing.T) {
	env := testutil.NewCLIEnv(t)
	v := testutil.NewTestVaultAt(t, filepath.Join(env.Root, "Second Brain")).
		WithFolders("Atlas", "Calendar", "Efforts", "MOCs").
		Build()

	env.RunCLI("vault", "list").MustSucceed(t).AssertResultCount(t, "vaults", 0)

	result := env.RunCLI("vault", "add", v.Path).MustSucceed(t)
	vault := result.Data["vault"].(map[string]interface{})
	if vault["id"] != "vault-second-brain" || vault["organizationMethod"] != "lyt" {
		t.Fatalf("unexpected vault %v", vault)
	}
	env.RunCLI("vault", "add", v.Path).MustFail(t, "VAULT_EXISTS")

	data, err := os.ReadFile(env.MappingsPath)
	if err != nil {
		t.Fatalf("mappings not written: %v", err)
	}
	if !strings.Contains(string(data), "id: vault-second-brain") {
		t.Errorf("unexpected mappings file:\n%s", data)
	}

	env.RunCLI("vault", "disable", "vault-second-brain").MustSucceed(t)
	env.RunCLI("set-organization", "vault-second-brain", "johnny-decimal").MustSucceed(t)
	env.RunCLI("vault", "set-organization", "vault-second-brain", "folders").MustFail(t, "INVALID_INPUT")

	result = env.RunCLI("vault", "list").MustSucceed(t)
	row := result.DataList("vaults")[0].(map[string]interface{})
	if row["enabled"] != false || row["organization_method"] != "johnnyDecimal" {
		t.Errorf("unexpected row %v", row)
	}

	env.RunCLI("vault", "remove", "vault-second-brain").MustSucceed(t)
	env.RunCLI("vault", "remove", "vault-second-brain").MustFail(t, "VAULT_NOT_FOUND")
}

func TestIntegration_VaultAddRequiresMarker(t *testing.T) {
	env := testutil.NewCLIEnv(t)
	v := testutil.NewTestVault(t).WithoutMarker().Build()
	env.RunCLI("vault", "add", v.Path).MustFail(t, "NOT_A_VAULT")
}

func TestIntegration_Configure(t *testing.T) {
	env := testutil.NewCLIEnv(t)
	para := testutil.NewTestVault(t).WithFolders("Projects", "Areas", "Resources", "Archive").Build()
	zettel := testutil.NewTestVault(t).WithFolders("Fleeting", "Literature", "Permanent").Build()
	env.RegisterVaults(map[string]testutil.RegistryEntry{
		"p": {Path: para.Path},
		"z": {Path: zettel.Path},
	})

	// Without --yes and without a terminal nothing is added.
	result := env.RunCLI("configure").MustSucceed(t)
	if result.Data["added"].(float64) != 0 {
		t.Fatalf("expected nothing added, got %v", result.Data["added"])
	}

	result = env.RunCLI("configure", "--yes").MustSucceed(t)
	if result.Data["added"].(float64) != 2 {
		t.Fatalf("expected 2 added, got %v", result.Data["added"])
	}

	result = env.RunCLI("configure", "--yes").MustSucceed(t)
	if result.Data["added"].(float64) != 0 {
		t.Errorf("expected re-run to add nothing, got %v", result.Data["added"])
	}
	env.RunCLI("vault", "list").MustSucceed(t).AssertResultCount(t, "vaults", 2)
}

func TestIntegration_Version(t *testing.T) {
	env := testutil.NewCLIEnv(t)
	result := env.RunCLI("version").MustSucceed(t)
	if result.DataString("module_path") == "" {
		t.Error("expected module_path")
	}
}

func TestIntegration_Config(t *testing.T) {
	env := testutil.NewCLIEnv(t)

	result := env.RunCLI("config", "init").MustSucceed(t)
	if result.Data["created"] != true {
		t.Fatalf("expected config to be created, got %v", result.Data)
	}

	env.RunCLI("config", "set", "--max-depth", "2", "--ui-accent", "39").MustSucceed(t)
	env.RunCLI("config", "set", "--default-log-level", "chatty").MustFail(t, "VALIDATION_FAILED")

	result = env.RunCLI("config", "show").MustSucceed(t)
	values := result.Data["values"].(map[string]interface{})
	if values["max_depth"] != "2" || values["ui.accent"] != "39" {
		t.Errorf("unexpected values %v", values)
	}
	if result.DataString("mappings_path") != env.MappingsPath {
		t.Errorf("expected mappings path %s, got %s", env.MappingsPath, result.DataString("mappings_path"))
	}
}
