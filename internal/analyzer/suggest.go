package analyzer

import (
	"path/filepath"

	"github.com/aidanlsb/vaultkit/internal/slugs"
)

// Default agent and automation template for new vault configurations.
var (
	DefaultAgents = []string{
		"inbox-triage-agent",
		"atomic-note-creator",
		"semantic-linker",
		"query-interpreter",
		"quality-auditor",
	}
	DefaultExcludedFolders = []string{".trash", ".obsidian", "Templates", "Archive"}
)

// ManualReviewThreshold is the confidence below which a suggestion is flagged for review.
const ManualReviewThreshold = 0.7

// AutoProcessing is the agent scheduling block of a vault configuration.
type AutoProcessing struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	Schedule string `json:"schedule" yaml:"schedule"`
	Time     string `json:"time" yaml:"time"`
}

// ConfigSuggestion is a proposed vault configuration derived from an analysis.
type ConfigSuggestion struct {
	ID                  string         `json:"id"`
	Name                string         `json:"name"`
	Path                string         `json:"path"`
	Enabled             bool           `json:"enabled"`
	OrganizationMethod  string         `json:"organizationMethod"`
	KeyLocations        KeyLocations   `json:"keyLocations"`
	AgentsEnabled       []string       `json:"agentsEnabled"`
	AutoProcessing      AutoProcessing `json:"autoProcessing"`
	ExcludedFolders     []string       `json:"excludedFolders"`
	DetectionConfidence string         `json:"_detectionConfidence"`
	ManualReviewNeeded  bool           `json:"_manualReviewNeeded"`
}

// SuggestConfig builds a configuration for an analyzed vault.
// It returns nil when the analysis failed.
func SuggestConfig(r Result) *ConfigSuggestion {
	if r.Failed() {
		return nil
	}

	name := filepath.Base(filepath.Clean(r.VaultPath))
	locations := KeyLocations{}
	for k, v := range r.KeyLocations {
		locations[k] = v
	}

	return &ConfigSuggestion{
		ID:                 slugs.VaultID(name),
		Name:               name,
		Path:               r.VaultPath,
		Enabled:            true,
		OrganizationMethod: r.OrganizationMethod,
		KeyLocations:       locations,
		AgentsEnabled:      append([]string(nil), DefaultAgents...),
		AutoProcessing: AutoProcessing{
			Enabled:  false,
			Schedule: "daily",
			Time:     "09:00",
		},
		ExcludedFolders:     append([]string(nil), DefaultExcludedFolders...),
		DetectionConfidence: Percent(r.Confidence),
		ManualReviewNeeded:  r.Confidence < ManualReviewThreshold,
	}
}
