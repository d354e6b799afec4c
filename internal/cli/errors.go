package cli

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/aidanlsb/vaultkit/internal/config"
	"github.com/aidanlsb/vaultkit/internal/obsidian"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by agents.
const (
	// Path errors
	ErrInvalidPath     = "INVALID_PATH"
	ErrPathTraversal   = "PATH_TRAVERSAL"
	ErrPathOutsideBase = "PATH_OUTSIDE_BASE"

	// Obsidian registry errors
	ErrRegistryNotFound    = "REGISTRY_NOT_FOUND"
	ErrRegistryInvalid     = "REGISTRY_INVALID"
	ErrUnsupportedPlatform = "UNSUPPORTED_PLATFORM"

	// Vault errors
	ErrVaultNotFound  = "VAULT_NOT_FOUND"
	ErrVaultExists    = "VAULT_EXISTS"
	ErrNotAVault      = "NOT_A_VAULT"
	ErrAnalysisFailed = "ANALYSIS_FAILED"

	// Config errors
	ErrConfigInvalid    = "CONFIG_INVALID"
	ErrMappingsInvalid  = "MAPPINGS_INVALID"
	ErrValidationFailed = "VALIDATION_FAILED"
	ErrFileWriteError   = "FILE_WRITE_ERROR"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnStructure     = "STRUCTURE_WARNING"
	WarnSkippedDirs   = "SKIPPED_DIRECTORIES"
	WarnVaultProblems = "VAULT_PROBLEMS"
	WarnManualReview  = "MANUAL_REVIEW"
)

// errorCode maps library errors onto CLI error codes.
func errorCode(err error) string {
	var verrs validation.Errors
	switch {
	case err == nil:
		return ""
	case errors.Is(err, obsidian.ErrPathTraversal):
		return ErrPathTraversal
	case errors.Is(err, obsidian.ErrPathOutsideBase):
		return ErrPathOutsideBase
	case errors.Is(err, obsidian.ErrInvalidPath):
		return ErrInvalidPath
	case errors.Is(err, obsidian.ErrRegistryNotFound):
		return ErrRegistryNotFound
	case errors.Is(err, obsidian.ErrRegistryParse):
		return ErrRegistryInvalid
	case errors.Is(err, obsidian.ErrUnsupportedPlatform):
		return ErrUnsupportedPlatform
	case errors.Is(err, errConfigLoad):
		return ErrConfigInvalid
	case errors.Is(err, config.ErrVaultNotFound):
		return ErrVaultNotFound
	case errors.Is(err, config.ErrDuplicateVault):
		return ErrVaultExists
	case errors.As(err, &verrs):
		return ErrValidationFailed
	default:
		return ErrInternal
	}
}

func suggestionFor(code string) string {
	switch code {
	case ErrPathTraversal, ErrInvalidPath:
		return "Pass an absolute path to the vault directory"
	case ErrRegistryNotFound:
		return "Open Obsidian once so it writes obsidian.json, or pass --obsidian-dir"
	case ErrRegistryInvalid:
		return "Check that obsidian.json is valid JSON"
	case ErrConfigInvalid:
		return "Check config.toml, or pass --config to use another file"
	case ErrVaultNotFound:
		return "Run 'vaultkit vault list' to see configured vaults"
	case ErrVaultExists:
		return "Run 'vaultkit vault list' to see the existing entry"
	case ErrNotAVault:
		return "Open the folder as a vault in Obsidian first"
	case ErrAnalysisFailed:
		return "Run 'vaultkit detect' to check the vault"
	default:
		return ""
	}
}

// validationDetails returns per-field messages for ozzo validation errors.
func validationDetails(err error) map[string]string {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make(map[string]string, len(verrs))
	for field, ferr := range verrs {
		details[field] = ferr.Error()
	}
	return details
}
