package analyzer

import (
	"fmt"
	"regexp"
)

// Organization method keys, in registry order.
const (
	MethodPARA          = "para"
	MethodZettelkasten  = "zettelkasten"
	MethodLYT           = "lyt"
	MethodJohnnyDecimal = "johnnyDecimal"
	MethodCustom        = "custom"
)

// StructureIndicators describe layout preferences that earn a bonus on top of name matches.
type StructureIndicators struct {
	// FlatStructure earns +0.2 when the observed depth is at most MaxDepth.
	FlatStructure bool
	MaxDepth      int
	// NumericalNaming earns up to +0.3 in proportion to two-digit-prefixed folders.
	NumericalNaming bool
	StrictHierarchy bool
}

// Pattern is one organization method the classifier scores a vault against.
type Pattern struct {
	Key             string
	Name            string
	Description     string
	Keywords        []string
	FolderPatterns  []*regexp.Regexp
	Structure       *StructureIndicators
	RequiredMatches int
	Confidence      float64
}

// Registry is an ordered, read-only set of patterns. Order decides ties.
type Registry struct {
	patterns []Pattern
	byKey    map[string]int
}

// NewRegistry builds a registry. Keys must be unique and non-empty.
func NewRegistry(patterns ...Pattern) (*Registry, error) {
	r := &Registry{
		patterns: make([]Pattern, 0, len(patterns)),
		byKey:    make(map[string]int, len(patterns)),
	}
	for _, p := range patterns {
		if p.Key == "" {
			return nil, fmt.Errorf("pattern %q has no key", p.Name)
		}
		if _, dup := r.byKey[p.Key]; dup {
			return nil, fmt.Errorf("duplicate pattern key %q", p.Key)
		}
		if p.RequiredMatches < 0 {
			return nil, fmt.Errorf("pattern %q: required matches must not be negative", p.Key)
		}
		r.byKey[p.Key] = len(r.patterns)
		r.patterns = append(r.patterns, p)
	}
	return r, nil
}

// MustNewRegistry is NewRegistry for static tables.
func MustNewRegistry(patterns ...Pattern) *Registry {
	r, err := NewRegistry(patterns...)
	if err != nil {
		panic(err)
	}
	return r
}

// Patterns returns a copy of the patterns in registry order.
func (r *Registry) Patterns() []Pattern {
	out := make([]Pattern, len(r.patterns))
	copy(out, r.patterns)
	return out
}

// Keys returns pattern keys in registry order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.patterns))
	for i, p := range r.patterns {
		keys[i] = p.Key
	}
	return keys
}

// Get looks up a pattern by key.
func (r *Registry) Get(key string) (Pattern, bool) {
	i, ok := r.byKey[key]
	if !ok {
		return Pattern{}, false
	}
	return r.patterns[i], true
}

var defaultRegistry = MustNewRegistry(
	Pattern{
		Key:         MethodPARA,
		Name:        "PARA",
		Description: "Projects, Areas, Resources, Archives",
		Keywords: []string{
			"projects", "project",
			"areas", "area",
			"resources", "resource",
			"archives", "archive",
		},
		FolderPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^\d+\s*[-–—]?\s*projects?`),
			regexp.MustCompile(`(?i)^\d+\s*[-–—]?\s*areas?`),
			regexp.MustCompile(`(?i)^\d+\s*[-–—]?\s*resources?`),
			regexp.MustCompile(`(?i)^\d+\s*[-–—]?\s*archives?`),
			regexp.MustCompile(`(?i)^projects?$`),
			regexp.MustCompile(`(?i)^areas?$`),
			regexp.MustCompile(`(?i)^resources?$`),
			regexp.MustCompile(`(?i)^archives?$`),
		},
		RequiredMatches: 3,
		Confidence:      0.8,
	},
	Pattern{
		Key:         MethodZettelkasten,
		Name:        "Zettelkasten",
		Description: "Flat structure with atomic notes and heavy linking",
		Keywords: []string{
			"fleeting", "permanent", "literature",
			"slip", "notes", "zettel", "atomic",
			"reference", "bibliography",
		},
		FolderPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^fleeting`),
			regexp.MustCompile(`(?i)^permanent`),
			regexp.MustCompile(`(?i)^literature`),
			regexp.MustCompile(`(?i)^reference`),
			regexp.MustCompile(`^\d{12,14}`), // timestamp IDs, e.g. 202501091430
		},
		Structure: &StructureIndicators{
			FlatStructure: true,
			MaxDepth:      2,
		},
		RequiredMatches: 2,
		Confidence:      0.75,
	},
	Pattern{
		Key:         MethodLYT,
		Name:        "LYT",
		Description: "Linking Your Thinking - MOC-centric organization",
		Keywords: []string{
			"moc", "mocs", "map of content",
			"home", "index", "atlas",
			"sources", "thinking",
		},
		FolderPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^mocs?$`),
			regexp.MustCompile(`(?i)^maps?$`),
			regexp.MustCompile(`(?i)^atlas`),
			regexp.MustCompile(`(?i)^home`),
			regexp.MustCompile(`(?i)^\d+\s*[-–—]?\s*mocs?`),
		},
		RequiredMatches: 1,
		Confidence:      0.7,
	},
	Pattern{
		Key:         MethodJohnnyDecimal,
		Name:        "Johnny Decimal",
		Description: "Strict numerical categorization (10-19, 20-29, etc.)",
		FolderPatterns: []*regexp.Regexp{
			regexp.MustCompile(`^\d{2}-\d{2}`),  // 10-19
			regexp.MustCompile(`^\d{2}\s+`),     // 10 Projects
			regexp.MustCompile(`^\d{2}\.\d{2}`), // 10.01
		},
		Structure: &StructureIndicators{
			NumericalNaming: true,
			StrictHierarchy: true,
		},
		RequiredMatches: 3,
		Confidence:      0.85,
	},
	Pattern{
		Key:         MethodCustom,
		Name:        "Custom",
		Description: "User-defined structure",
		Confidence:  0.3,
	},
)

// DefaultRegistry returns the built-in patterns:
// para, zettelkasten, lyt, johnnyDecimal, custom.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Purpose keys for LocateKeyFolders, in lookup order.
const (
	PurposeInbox       = "inbox"
	PurposeProjects    = "projects"
	PurposeAreas       = "areas"
	PurposeResources   = "resources"
	PurposeArchive     = "archive"
	PurposeAtomicNotes = "atomicNotes"
	PurposeMOCs        = "mocs"
	PurposeTemplates   = "templates"
	PurposeAgentOutput = "agentOutput"
)

// Purpose maps a semantic folder role to the name fragments that suggest it.
type Purpose struct {
	Key      string
	Keywords []string
}

// DefaultPurposes returns the built-in folder purposes.
func DefaultPurposes() []Purpose {
	return []Purpose{
		{PurposeInbox, []string{"inbox", "capture", "fleeting", "quick", "unsorted", "new"}},
		{PurposeProjects, []string{"projects", "active", "current", "doing"}},
		{PurposeAreas, []string{"areas", "responsibilities", "ongoing", "roles"}},
		{PurposeResources, []string{"resources", "reference", "library", "knowledge", "wiki"}},
		{PurposeArchive, []string{"archive", "old", "inactive", "completed", "done"}},
		{PurposeAtomicNotes, []string{"atomic", "permanent", "zettel", "notes", "thinking"}},
		{PurposeMOCs, []string{"mocs", "maps", "index", "structure", "atlas", "home"}},
		{PurposeTemplates, []string{"templates", "meta", "system"}},
		{PurposeAgentOutput, []string{"ai", "generated", "agent", "output", "automated"}},
	}
}
