package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/vaultkit/internal/analyzer"
	"github.com/aidanlsb/vaultkit/internal/config"
	"github.com/aidanlsb/vaultkit/internal/logging"
	"github.com/aidanlsb/vaultkit/internal/obsidian"
	"github.com/aidanlsb/vaultkit/internal/ui"
)

// Outcomes of configuring one discovered vault.
const (
	configureAdded      = "added"
	configureSkipped    = "skipped"
	configureConfigured = "already_configured"
	configureFailed     = "failed"
)

var configureYes bool

type configureOutcome struct {
	RegistryID         string  `json:"registry_id"`
	Path               string  `json:"path"`
	Status             string  `json:"status"`
	VaultID            string  `json:"vault_id,omitempty"`
	OrganizationMethod string  `json:"organization_method,omitempty"`
	Confidence         float64 `json:"confidence,omitempty"`
	Error              string  `json:"error,omitempty"`
}

// decideFunc is asked whether to add an analyzed vault.
type decideFunc func(v obsidian.ValidatedVault, s *analyzer.ConfigSuggestion) bool

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Analyze every usable vault and add it to vault-mappings.yaml",
	Long: `Discover the usable vaults registered with Obsidian, analyze each one and
add it to vault-mappings.yaml.

You are asked to confirm each vault. Pass --yes to add every vault without
prompting. Without a terminal and without --yes nothing is added.
Vaults already in the mappings file are left alone.`,
	Args: cobra.NoArgs,
	RunE: runConfigure,
}

func runConfigure(cmd *cobra.Command, args []string) error {
	vaults, err := newLocator().Discover(obsidian.DefaultDiscoverOptions())
	if err != nil {
		return handleClassified(err)
	}

	m, err := loadMappings()
	if err != nil {
		return handleError(ErrMappingsInvalid, err, "")
	}

	interactive := shouldPromptForConfirm()
	var decide decideFunc
	switch {
	case configureYes:
		decide = func(obsidian.ValidatedVault, *analyzer.ConfigSuggestion) bool { return true }
	case interactive:
		c := newConfirmer(os.Stdin, os.Stdout)
		decide = func(v obsidian.ValidatedVault, s *analyzer.ConfigSuggestion) bool {
			printSuggestion(v, s)
			return c.confirm("Add this vault?")
		}
	default:
		decide = func(obsidian.ValidatedVault, *analyzer.ConfigSuggestion) bool { return false }
	}

	outcomes := configureVaults(newAnalyzer(), m, vaults, configuredMaxDepth(), decide)

	added := countOutcomes(outcomes, configureAdded)
	if added > 0 {
		if err := saveMappings(m); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"mappings_path": getMappingsPath(),
			"added":         added,
			"vaults":        outcomes,
		}, &Meta{Count: len(outcomes)})
		return nil
	}

	printConfigureOutcomes(outcomes)
	if !configureYes && !interactive && countOutcomes(outcomes, configureSkipped) > 0 {
		fmt.Println(ui.Hint("Not a terminal; re-run with --yes to add vaults without prompting."))
	}
	if added > 0 {
		fmt.Println(ui.Hint("mappings: " + getMappingsPath()))
	}
	return nil
}

// configureVaults analyzes each vault not yet in m and adds those decide accepts.
// m is modified in place; the caller saves it.
func configureVaults(a *analyzer.Analyzer, m *config.Mappings, vaults []obsidian.ValidatedVault, maxDepth int, decide decideFunc) []configureOutcome {
	log := logging.Named("configure")
	outcomes := make([]configureOutcome, 0, len(vaults))

	for _, v := range vaults {
		out := configureOutcome{RegistryID: v.ID, Path: v.Path}

		if existing := m.FindByPath(v.Path); existing != nil {
			out.Status = configureConfigured
			out.VaultID = existing.ID
			outcomes = append(outcomes, out)
			continue
		}

		result := a.Analyze(v.Path, analyzer.AnalyzeOptions{MaxDepth: maxDepth, IncludeValidation: true})
		suggestion := analyzer.SuggestConfig(result)
		if suggestion == nil {
			out.Status = configureFailed
			out.Error = result.Error
			log.Warn("vault analysis failed", logging.Path(v.Path), logging.VaultID(v.ID))
			outcomes = append(outcomes, out)
			continue
		}
		out.OrganizationMethod = suggestion.OrganizationMethod
		out.Confidence = result.Confidence

		if !decide(v, suggestion) {
			out.Status = configureSkipped
			outcomes = append(outcomes, out)
			continue
		}

		added, err := m.Add(config.MappingFromSuggestion(suggestion))
		if err != nil {
			out.Status = configureFailed
			out.Error = err.Error()
			log.Warn("vault not added", logging.Path(v.Path), logging.Err(err))
			outcomes = append(outcomes, out)
			continue
		}
		out.Status = configureAdded
		out.VaultID = added.ID
		outcomes = append(outcomes, out)
	}
	return outcomes
}

func countOutcomes(outcomes []configureOutcome, status string) int {
	n := 0
	for _, o := range outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

func printSuggestion(v obsidian.ValidatedVault, s *analyzer.ConfigSuggestion) {
	fmt.Println()
	fmt.Printf("%s %s\n", ui.Header(s.Name), ui.Hint(v.Path))
	fmt.Printf("  %s %s (%s)\n", ui.Muted.Render("method:"), s.OrganizationMethod, s.DetectionConfidence)
	for _, purpose := range sortedKeys(s.KeyLocations) {
		fmt.Printf("  %s %s\n", ui.Muted.Render(purpose+":"), s.KeyLocations[purpose])
	}
	if s.ManualReviewNeeded {
		fmt.Println("  " + ui.Warning("low confidence, review before relying on it"))
	}
}

func printConfigureOutcomes(outcomes []configureOutcome) {
	if len(outcomes) == 0 {
		fmt.Println("No usable vaults found. Run 'vaultkit detect' to see why.")
		return
	}

	fmt.Println()
	for _, o := range outcomes {
		switch o.Status {
		case configureAdded:
			fmt.Println(ui.Successf("%s added as %s (%s)", ui.Accent.Render(o.VaultID), o.OrganizationMethod, analyzer.Percent(o.Confidence)))
		case configureConfigured:
			fmt.Println(ui.Infof("%s already configured as %s", o.Path, o.VaultID))
		case configureSkipped:
			fmt.Println(ui.Hint("- skipped " + o.Path))
		case configureFailed:
			fmt.Println(ui.Error(o.Path + ": " + o.Error))
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	configureCmd.Flags().BoolVarP(&configureYes, "yes", "y", false, "Add every analyzed vault without prompting")
	rootCmd.AddCommand(configureCmd)
}
