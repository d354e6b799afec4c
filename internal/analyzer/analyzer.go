// Package analyzer classifies how an Obsidian vault's folders are organized
// and locates the folders that play well-known roles (inbox, archive, ...).
//
// Every call reads the filesystem afresh; an Analyzer keeps no state between calls.
package analyzer

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/aidanlsb/vaultkit/internal/obsidian"
)

// DefaultMaxDepth is how many levels below the root's direct children Analyze descends.
const DefaultMaxDepth = 3

// Analyzer runs structure analysis against a pattern registry.
type Analyzer struct {
	registry  *Registry
	purposes  []Purpose
	markerDir string
	logger    *zap.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithRegistry replaces the built-in organization patterns.
func WithRegistry(r *Registry) Option {
	return func(a *Analyzer) {
		if r != nil {
			a.registry = r
		}
	}
}

// WithPurposes replaces the built-in key folder purposes.
func WithPurposes(p []Purpose) Option {
	return func(a *Analyzer) { a.purposes = p }
}

// WithMarkerDir changes the directory name that marks a vault root.
func WithMarkerDir(name string) Option {
	return func(a *Analyzer) {
		if name != "" {
			a.markerDir = name
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an Analyzer with the default registry and purposes.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		registry:  DefaultRegistry(),
		purposes:  DefaultPurposes(),
		markerDir: obsidian.MarkerDir,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Registry returns the patterns this Analyzer classifies against.
func (a *Analyzer) Registry() *Registry {
	return a.registry
}

// AnalyzeOptions controls Analyze.
type AnalyzeOptions struct {
	MaxDepth          int
	IncludeValidation bool
}

// DefaultAnalyzeOptions returns MaxDepth 3 with validation enabled.
func DefaultAnalyzeOptions() AnalyzeOptions {
	return AnalyzeOptions{MaxDepth: DefaultMaxDepth, IncludeValidation: true}
}

// Result is the full analysis of one vault. Either Error is set, or
// OrganizationMethod and the remaining fields are.
type Result struct {
	VaultPath          string                   `json:"vaultPath"`
	OrganizationMethod string                   `json:"organizationMethod,omitempty"`
	Confidence         float64                  `json:"confidence"`
	MethodDescription  string                   `json:"methodDescription,omitempty"`
	StructureDepth     int                      `json:"structureDepth"`
	TotalFolders       int                      `json:"totalFolders"`
	KeyLocations       KeyLocations             `json:"keyLocations,omitempty"`
	Validation         *Validation              `json:"validation,omitempty"`
	DetectionDetails   map[string]PatternResult `json:"detectionDetails,omitempty"`
	Folders            []FolderEntry            `json:"folders,omitempty"`
	Skipped            []SkippedDir             `json:"skipped,omitempty"`
	Error              string                   `json:"error,omitempty"`

	// order of DetectionDetails keys, for stable rendering
	detectionOrder []string
}

// Failed reports whether the analysis produced an error instead of a classification.
func (r Result) Failed() bool {
	return r.Error != ""
}

// DetectionOrder returns DetectionDetails keys in registry order.
func (r Result) DetectionOrder() []string {
	return r.detectionOrder
}

// Analyze inspects the vault at vaultPath. It never returns an error: a missing
// path or a directory without the vault marker yields a Result with Error set.
func (a *Analyzer) Analyze(vaultPath string, opts AnalyzeOptions) Result {
	if opts.MaxDepth < 0 {
		opts.MaxDepth = 0
	}

	info, err := os.Stat(vaultPath)
	switch {
	case os.IsNotExist(err):
		return errorResult(vaultPath, fmt.Sprintf("Vault path does not exist: %s", vaultPath))
	case err != nil:
		return errorResult(vaultPath, fmt.Sprintf("Cannot access vault path %s: %v", vaultPath, err))
	case !info.IsDir():
		return errorResult(vaultPath, fmt.Sprintf("Vault path is not a directory: %s", vaultPath))
	}

	if !obsidian.HasMarkerDir(vaultPath, a.markerDir) {
		return errorResult(vaultPath,
			fmt.Sprintf("Not a valid Obsidian vault (missing %s directory): %s", a.markerDir, vaultPath))
	}

	folders, skipped := a.ListFolders(vaultPath, opts.MaxDepth)
	det := a.Classify(folders)
	locations := a.LocateKeyFolders(folders)

	result := Result{
		VaultPath:          vaultPath,
		OrganizationMethod: det.Detected,
		Confidence:         det.Confidence,
		MethodDescription:  det.Description,
		StructureDepth:     det.StructureDepth,
		TotalFolders:       len(folders),
		KeyLocations:       locations,
		DetectionDetails:   det.AllResults,
		Folders:            folders,
		Skipped:            skipped,
		detectionOrder:     det.Order,
	}
	if opts.IncludeValidation {
		v := Validate(det, locations)
		result.Validation = &v
	}

	a.logger.Debug("analyzed vault",
		zap.String("path", vaultPath),
		zap.String("method", det.Detected),
		zap.Float64("confidence", det.Confidence),
		zap.Int("folders", len(folders)),
		zap.Int("skipped", len(skipped)))

	return result
}

func errorResult(path, msg string) Result {
	return Result{VaultPath: path, Error: msg}
}
