package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/vaultkit/internal/analyzer"
	"github.com/aidanlsb/vaultkit/internal/obsidian"
	"github.com/aidanlsb/vaultkit/internal/ui"
)

var (
	analyzeMaxDepth     int
	analyzeNoValidation bool
)

type analyzeResult struct {
	Analysis   analyzer.Result            `json:"analysis"`
	Suggestion *analyzer.ConfigSuggestion `json:"suggestion"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <path>",
	Short: "Detect how a vault's folders are organized",
	Long: `Walk a vault's folders, classify its organization method and locate key
folders such as the inbox, projects and archive.

The report ends with a suggested vault-mappings.yaml entry. Use
'vaultkit vault add <path>' to save it.

Examples:
  vaultkit analyze ~/Notes
  vaultkit analyze ~/Notes --max-depth 5
  vaultkit analyze ~/Notes --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path, err := obsidian.ValidatePath(args[0])
	if err != nil {
		return handleClassified(err)
	}

	opts := analyzer.AnalyzeOptions{
		MaxDepth:          configuredMaxDepth(),
		IncludeValidation: !analyzeNoValidation,
	}
	if cmd.Flags().Changed("max-depth") {
		if analyzeMaxDepth < 1 {
			return handleErrorMsg(ErrInvalidInput, "--max-depth must be at least 1", "")
		}
		opts.MaxDepth = analyzeMaxDepth
	}

	result := newAnalyzer().Analyze(path, opts)
	if result.Failed() {
		return handleErrorMsg(ErrAnalysisFailed, result.Error, suggestionFor(ErrAnalysisFailed))
	}
	suggestion := analyzer.SuggestConfig(result)

	if isJSONOutput() {
		outputSuccessWithWarnings(analyzeResult{Analysis: result, Suggestion: suggestion}, analysisWarnings(result, suggestion), nil)
		return nil
	}

	display := ui.NewDisplayContext()
	fmt.Print(display.RenderMarkdown(analyzer.RenderReport(result, suggestion)))
	return nil
}

func analysisWarnings(result analyzer.Result, suggestion *analyzer.ConfigSuggestion) []Warning {
	var warnings []Warning
	if result.Validation != nil {
		for _, w := range result.Validation.Warnings {
			warnings = append(warnings, Warning{Code: WarnStructure, Message: w})
		}
	}
	if len(result.Skipped) > 0 {
		warnings = append(warnings, Warning{
			Code:    WarnSkippedDirs,
			Message: fmt.Sprintf("%d directories could not be read", len(result.Skipped)),
		})
	}
	if suggestion != nil && suggestion.ManualReviewNeeded {
		warnings = append(warnings, Warning{
			Code:    WarnManualReview,
			Message: fmt.Sprintf("detection confidence is %s; review the organization method before saving", analyzer.Percent(result.Confidence)),
		})
	}
	return warnings
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeMaxDepth, "max-depth", analyzer.DefaultMaxDepth, "Folder levels to walk below the vault root")
	analyzeCmd.Flags().BoolVar(&analyzeNoValidation, "no-validation", false, "Skip structural warnings and suggestions")
	rootCmd.AddCommand(analyzeCmd)
}
