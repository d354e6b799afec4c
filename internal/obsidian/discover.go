package obsidian

import (
	"fmt"

	"go.uber.org/zap"
)

// ValidatedVault is a registry record annotated with the outcome of every check.
type ValidatedVault struct {
	VaultRecord
	Validated    bool                 `json:"validated"`
	Accessible   *AccessibilityResult `json:"accessible"`
	IsValidVault bool                 `json:"isValidVault"`
	Errors       []string             `json:"errors"`
}

// Usable reports whether the vault passed every check and can be worked on.
func (v ValidatedVault) Usable() bool {
	return len(v.Errors) == 0 &&
		v.Validated &&
		v.Accessible != nil && v.Accessible.OK() &&
		v.IsValidVault
}

// DiscoverOptions controls which checks Discover runs and what it returns.
type DiscoverOptions struct {
	ValidatePaths       bool
	CheckAccessibility  bool
	IncludeInaccessible bool
}

// DefaultDiscoverOptions validates and probes every path and returns only usable vaults.
func DefaultDiscoverOptions() DiscoverOptions {
	return DiscoverOptions{
		ValidatePaths:      true,
		CheckAccessibility: true,
	}
}

// Discover parses the registry and validates every registered vault.
//
// Each check appends its own error and never stops the remaining checks, so
// callers that pass IncludeInaccessible see every problem with a vault at once.
// Without IncludeInaccessible only usable vaults are returned.
func (l *Locator) Discover(opts DiscoverOptions) ([]ValidatedVault, error) {
	reg, err := l.ParseRegistry()
	if err != nil {
		return nil, fmt.Errorf("vault discovery failed: %w", err)
	}

	records := ExtractVaultRecords(reg)
	vaults := make([]ValidatedVault, 0, len(records))
	for _, rec := range records {
		v := l.validateRecord(rec, opts)
		if len(v.Errors) > 0 {
			l.log().Debug("vault has problems",
				zap.String("id", v.ID),
				zap.String("path", v.Path),
				zap.Strings("errors", v.Errors))
		}
		if !opts.IncludeInaccessible && !v.Usable() {
			continue
		}
		vaults = append(vaults, v)
	}
	return vaults, nil
}

func (l *Locator) validateRecord(rec VaultRecord, opts DiscoverOptions) ValidatedVault {
	v := ValidatedVault{
		VaultRecord: rec,
		Errors:      []string{},
	}

	if opts.ValidatePaths {
		normalized, err := ValidatePath(rec.Path)
		if err != nil {
			v.Errors = append(v.Errors, err.Error())
		} else {
			v.Path = normalized
			v.Validated = true
		}
	}

	if opts.CheckAccessibility {
		access := CheckAccessibility(v.Path)
		v.Accessible = &access
		if !access.Exists {
			v.Errors = append(v.Errors, "Vault path does not exist")
		}
		if !access.Readable {
			v.Errors = append(v.Errors, "Vault is not readable")
		}
		if !access.Writable {
			v.Errors = append(v.Errors, "Vault is not writable")
		}
	}

	v.IsValidVault = IsValidVault(v.Path)
	if !v.IsValidVault {
		v.Errors = append(v.Errors, "Not a valid Obsidian vault (.obsidian directory missing)")
	}

	return v
}

// Summary aggregates a full discovery run.
type Summary struct {
	Total        int              `json:"total"`
	Accessible   int              `json:"accessible"`
	Valid        int              `json:"valid"`
	Inaccessible int              `json:"inaccessible"`
	Invalid      int              `json:"invalid"`
	Vaults       []ValidatedVault `json:"vaults"`
	Error        string           `json:"error,omitempty"`
}

// Summarize discovers every registered vault, including broken ones, and counts them.
// It never fails; a discovery error is reported in Summary.Error with zero counts.
func (l *Locator) Summarize() Summary {
	opts := DefaultDiscoverOptions()
	opts.IncludeInaccessible = true

	vaults, err := l.Discover(opts)
	if err != nil {
		return Summary{Vaults: []ValidatedVault{}, Error: err.Error()}
	}

	return SummarizeVaults(vaults)
}

// SummarizeVaults counts an already discovered vault list.
func SummarizeVaults(vaults []ValidatedVault) Summary {
	summary := Summary{Total: len(vaults), Vaults: vaults}
	for _, v := range vaults {
		if v.Accessible != nil && v.Accessible.OK() {
			summary.Accessible++
		}
		if v.IsValidVault {
			summary.Valid++
		}
	}
	summary.Inaccessible = summary.Total - summary.Accessible
	summary.Invalid = summary.Total - summary.Valid
	return summary
}
