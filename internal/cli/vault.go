package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/vaultkit/internal/analyzer"
	"github.com/aidanlsb/vaultkit/internal/config"
	"github.com/aidanlsb/vaultkit/internal/obsidian"
	"github.com/aidanlsb/vaultkit/internal/ui"
)

type vaultRow struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Path               string `json:"path"`
	Enabled            bool   `json:"enabled"`
	OrganizationMethod string `json:"organization_method"`
}

var vaultAddName string

// now is swapped in tests to pin lastUpdated.
var now = time.Now

func loadMappings() (*config.Mappings, error) {
	return config.LoadMappings(getMappingsPath())
}

func saveMappings(m *config.Mappings) error {
	return config.SaveMappings(getMappingsPath(), m, now())
}

func vaultRows(m *config.Mappings) []vaultRow {
	rows := make([]vaultRow, 0, len(m.Vaults))
	for _, v := range m.Vaults {
		rows = append(rows, vaultRow{
			ID:                 v.ID,
			Name:               v.Name,
			Path:               v.Path,
			Enabled:            v.Enabled,
			OrganizationMethod: v.OrganizationMethod,
		})
	}
	return rows
}

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Manage vaults in vault-mappings.yaml",
	Long: `Manage the vaults saved in vault-mappings.yaml.

Subcommands:
  list               List configured vaults
  add <path>         Analyze a vault and add it
  remove <id>        Remove a vault
  enable <id>        Enable a vault
  disable <id>       Disable a vault
  set-organization   Override a vault's organization method`,
	Args: cobra.NoArgs,
	RunE: runVaultList,
}

var vaultListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured vaults",
	Args:  cobra.NoArgs,
	RunE:  runVaultList,
}

func runVaultList(cmd *cobra.Command, args []string) error {
	m, err := loadMappings()
	if err != nil {
		return handleError(ErrMappingsInvalid, err, "")
	}

	rows := vaultRows(m)
	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"mappings_path": getMappingsPath(),
			"vaults":        rows,
		}, &Meta{Count: len(rows)})
		return nil
	}

	if len(rows) == 0 {
		fmt.Println("No vaults configured.")
		fmt.Println(ui.Hint("mappings: " + getMappingsPath()))
		fmt.Println()
		fmt.Println("Add vaults with:")
		fmt.Println()
		fmt.Println("  vaultkit configure")
		fmt.Println("  vaultkit vault add /path/to/vault")
		return nil
	}

	t := ui.NewTable(5)
	for _, row := range rows {
		t.AddRow(ui.EnabledDot(row.Enabled), ui.Accent.Render(row.ID), row.Name, ui.Muted.Render(row.OrganizationMethod), row.Path)
	}
	fmt.Print(t.String())
	fmt.Println()
	fmt.Println(ui.Hint(fmt.Sprintf("%s = enabled  %s = disabled", ui.SymbolEnabled, ui.SymbolDisabled)))
	fmt.Println(ui.Hint("mappings: " + getMappingsPath()))
	return nil
}

var vaultAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Analyze a vault and add it to vault-mappings.yaml",
	Long: `Analyze a vault and save the suggested configuration.

The path must be an Obsidian vault (contain a .obsidian directory) and must
not already be configured. The vault ID is derived from its name, with a
numeric suffix when the ID is taken.`,
	Args: cobra.ExactArgs(1),
	RunE: runVaultAdd,
}

func runVaultAdd(cmd *cobra.Command, args []string) error {
	path, err := obsidian.ValidatePath(args[0])
	if err != nil {
		return handleClassified(err)
	}
	if !obsidian.IsValidVault(path) {
		return handleErrorMsg(ErrNotAVault,
			fmt.Sprintf("Not a valid Obsidian vault (missing %s directory): %s", obsidian.MarkerDir, path),
			suggestionFor(ErrNotAVault))
	}

	m, err := loadMappings()
	if err != nil {
		return handleError(ErrMappingsInvalid, err, "")
	}

	result := newAnalyzer().Analyze(path, analyzer.AnalyzeOptions{MaxDepth: configuredMaxDepth(), IncludeValidation: true})
	suggestion := analyzer.SuggestConfig(result)
	if suggestion == nil {
		return handleErrorMsg(ErrAnalysisFailed, result.Error, suggestionFor(ErrAnalysisFailed))
	}

	mapping := config.MappingFromSuggestion(suggestion)
	if name := strings.TrimSpace(vaultAddName); name != "" {
		mapping.Name = name
		mapping.ID = ""
	}

	added, err := m.Add(mapping)
	if err != nil {
		return handleClassified(err)
	}
	stored := *added
	if err := saveMappings(m); err != nil {
		return handleError(ErrFileWriteError, err, "")
	}

	if isJSONOutput() {
		outputSuccessWithWarnings(map[string]interface{}{
			"vault":         stored,
			"confidence":    result.Confidence,
			"mappings_path": getMappingsPath(),
		}, analysisWarnings(result, suggestion), nil)
		return nil
	}

	fmt.Println(ui.Successf("Added %s as %s", ui.Accent.Render(stored.ID), stored.OrganizationMethod))
	fmt.Printf("  %s %s\n", ui.Muted.Render("confidence:"), analyzer.Percent(result.Confidence))
	for _, purpose := range sortedKeys(stored.KeyLocations) {
		fmt.Printf("  %s %s\n", ui.Muted.Render(purpose+":"), stored.KeyLocations[purpose])
	}
	if suggestion.ManualReviewNeeded {
		fmt.Println(ui.Warningf("Low confidence. Check with 'vaultkit vault set-organization %s <method>'", stored.ID))
	}
	return nil
}

var vaultRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a vault from vault-mappings.yaml",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadMappings()
		if err != nil {
			return handleError(ErrMappingsInvalid, err, "")
		}
		removed, err := m.Remove(args[0])
		if err != nil {
			return handleClassified(err)
		}
		if err := saveMappings(m); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"removed": removed}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Removed %s (%s)", ui.Accent.Render(removed.ID), removed.Path))
		return nil
	},
}

func newSetEnabledCmd(use string, enabled bool) *cobra.Command {
	verb := "Disable"
	if enabled {
		verb = "Enable"
	}
	return &cobra.Command{
		Use:   use + " <id>",
		Short: verb + " a configured vault",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadMappings()
			if err != nil {
				return handleError(ErrMappingsInvalid, err, "")
			}
			if err := m.SetEnabled(args[0], enabled); err != nil {
				return handleClassified(err)
			}
			if err := saveMappings(m); err != nil {
				return handleError(ErrFileWriteError, err, "")
			}

			if isJSONOutput() {
				outputSuccess(map[string]interface{}{"id": args[0], "enabled": enabled}, nil)
				return nil
			}
			fmt.Println(ui.Successf("%s %s", ui.EnabledDot(enabled), args[0]))
			return nil
		},
	}
}

// newSetOrganizationCmd is registered twice, under vault and at the top level.
func newSetOrganizationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-organization <id> <method>",
		Short: "Override a vault's organization method",
		Long: fmt.Sprintf(`Override the organization method detected for a vault.

Methods: %s (johnny-decimal is accepted for johnnyDecimal).`, strings.Join(config.OrganizationMethods(), ", ")),
		Args: cobra.ExactArgs(2),
		RunE: runSetOrganization,
	}
}

func runSetOrganization(cmd *cobra.Command, args []string) error {
	m, err := loadMappings()
	if err != nil {
		return handleError(ErrMappingsInvalid, err, "")
	}

	method, err := m.SetOrganization(args[0], args[1])
	if err != nil {
		code := errorCode(err)
		if code == ErrInternal {
			return handleErrorWithDetails(ErrInvalidInput, err.Error(),
				"Valid methods: "+strings.Join(config.OrganizationMethods(), ", "),
				map[string]interface{}{"valid_methods": config.OrganizationMethods()})
		}
		return handleError(code, err, suggestionFor(code))
	}
	if err := saveMappings(m); err != nil {
		return handleError(ErrFileWriteError, err, "")
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{"id": args[0], "organization_method": method}, nil)
		return nil
	}
	fmt.Println(ui.Successf("%s now uses %s", ui.Accent.Render(args[0]), method))
	return nil
}

func init() {
	vaultAddCmd.Flags().StringVar(&vaultAddName, "name", "", "Vault name (defaults to the directory name)")

	vaultCmd.AddCommand(vaultListCmd)
	vaultCmd.AddCommand(vaultAddCmd)
	vaultCmd.AddCommand(vaultRemoveCmd)
	vaultCmd.AddCommand(newSetEnabledCmd("enable", true))
	vaultCmd.AddCommand(newSetEnabledCmd("disable", false))
	vaultCmd.AddCommand(newSetOrganizationCmd())

	rootCmd.AddCommand(vaultCmd)
	rootCmd.AddCommand(newSetOrganizationCmd())
}
