package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/vaultkit/internal/obsidian"
	"github.com/aidanlsb/vaultkit/internal/ui"
)

var detectAccessibleOnly bool

type detectResult struct {
	obsidian.Summary
	RegistryPath string `json:"registry_path"`
}

var detectCmd = &cobra.Command{
	Use:     "detect",
	Aliases: []string{"detect-vaults"},
	Short:   "List Obsidian vaults registered on this machine",
	Long: `Read Obsidian's obsidian.json and check every registered vault.

Each vault is checked for existence, read and write access, and a .obsidian
directory. All problems are reported; use --accessible-only to list only
vaults that passed every check.`,
	Args: cobra.NoArgs,
	RunE: runDetect,
}

func runDetect(cmd *cobra.Command, args []string) error {
	locator := newLocator()

	registryPath, err := locator.RegistryPath()
	if err != nil {
		return handleClassified(err)
	}

	opts := obsidian.DefaultDiscoverOptions()
	opts.IncludeInaccessible = true
	vaults, err := locator.Discover(opts)
	if err != nil {
		return handleClassified(err)
	}

	summary := obsidian.SummarizeVaults(vaults)
	if detectAccessibleOnly {
		summary.Vaults = usableVaults(vaults)
	}

	if isJSONOutput() {
		outputSuccessWithWarnings(detectResult{Summary: summary, RegistryPath: registryPath},
			vaultProblemWarnings(summary.Vaults), &Meta{Count: len(summary.Vaults)})
		return nil
	}

	printDetect(summary, registryPath)
	return nil
}

func usableVaults(vaults []obsidian.ValidatedVault) []obsidian.ValidatedVault {
	usable := make([]obsidian.ValidatedVault, 0, len(vaults))
	for _, v := range vaults {
		if v.Usable() {
			usable = append(usable, v)
		}
	}
	return usable
}

func vaultProblemWarnings(vaults []obsidian.ValidatedVault) []Warning {
	var warnings []Warning
	for _, v := range vaults {
		if len(v.Errors) == 0 {
			continue
		}
		warnings = append(warnings, Warning{
			Code:    WarnVaultProblems,
			Message: strings.Join(v.Errors, "; "),
			Vault:   v.ID,
		})
	}
	return warnings
}

func printDetect(summary obsidian.Summary, registryPath string) {
	if len(summary.Vaults) == 0 {
		fmt.Println("No vaults found.")
		fmt.Println(ui.Hint("registry: " + registryPath))
		return
	}

	fmt.Printf("%s %s\n\n", ui.Header("Obsidian vaults"), ui.Hint(ui.Count(len(summary.Vaults), "vault", "vaults")))

	t := ui.NewTable(4)
	for _, v := range summary.Vaults {
		vaultType := v.Type
		if vaultType == "" {
			vaultType = obsidian.VaultTypeFileSystem
		}
		t.AddRow(ui.Status(v.Usable()), ui.Accent.Render(v.ID), v.Path, ui.Muted.Render(vaultType))
	}
	fmt.Print(t.String())

	for _, v := range summary.Vaults {
		for _, e := range v.Errors {
			fmt.Println(ui.Warningf("%s: %s", v.ID, e))
		}
	}

	fmt.Println()
	fmt.Printf("accessible: %d/%d  valid: %d/%d\n", summary.Accessible, summary.Total, summary.Valid, summary.Total)
	fmt.Println(ui.Hint("registry: " + registryPath))
}

func init() {
	detectCmd.Flags().BoolVar(&detectAccessibleOnly, "accessible-only", false, "Only list vaults that passed every check")
	rootCmd.AddCommand(detectCmd)
}
