package analyzer

import (
	"math"
	"strings"
)

// MatchedFolder explains why a folder counted toward a pattern.
type MatchedFolder struct {
	Folder   string   `json:"folder"`
	Keywords []string `json:"keywords"`
	Patterns []string `json:"patterns"`
}

// PatternResult is the score of one pattern against a folder list.
type PatternResult struct {
	Key             string          `json:"key"`
	Method          string          `json:"method"`
	Description     string          `json:"description"`
	Matches         int             `json:"matches"`
	RequiredMatches int             `json:"requiredMatches"`
	MatchedFolders  []MatchedFolder `json:"matchedFolders"`
	// Score is base×ratio+bonus before the cap, halved below threshold.
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
	Detected   bool    `json:"detected"`
}

// Detection is the outcome of Classify.
type Detection struct {
	Detected       string                   `json:"detected"`
	Method         string                   `json:"method"`
	Description    string                   `json:"description"`
	Confidence     float64                  `json:"confidence"`
	StructureDepth int                      `json:"structureDepth"`
	AllResults     map[string]PatternResult `json:"allResults"`
	// Order lists AllResults keys in registry order.
	Order []string `json:"order"`
}

// Classify scores every registered pattern against folders and picks the best.
//
// The winner has the highest confidence. Confidence is capped at 1, so two
// patterns can both report 1.0; ties go to the pattern registered first.
func (a *Analyzer) Classify(folders []FolderEntry) Detection {
	depth := StructureDepth(folders)
	numeric := numericFraction(folders)

	det := Detection{
		StructureDepth: depth,
		AllResults:     make(map[string]PatternResult, len(a.registry.patterns)),
		Order:          make([]string, 0, len(a.registry.patterns)),
	}

	best := -1.0
	for _, p := range a.registry.patterns {
		res := scorePattern(p, folders, depth, numeric)
		det.AllResults[p.Key] = res
		det.Order = append(det.Order, p.Key)

		if res.Confidence > best {
			best = res.Confidence
			det.Detected = p.Key
			det.Method = res.Method
			det.Description = res.Description
			det.Confidence = res.Confidence
		}
	}
	return det
}

func scorePattern(p Pattern, folders []FolderEntry, depth int, numeric float64) PatternResult {
	res := PatternResult{
		Key:             p.Key,
		Method:          p.Name,
		Description:     p.Description,
		RequiredMatches: p.RequiredMatches,
		MatchedFolders:  []MatchedFolder{},
	}

	for _, f := range folders {
		m, ok := matchFolder(p, f.Name)
		if !ok {
			continue
		}
		res.Matches++
		res.MatchedFolders = append(res.MatchedFolders, m)
	}

	bonus := 0.0
	if s := p.Structure; s != nil {
		if s.FlatStructure && depth <= 2 {
			bonus += 0.2
		}
		if s.NumericalNaming {
			bonus += numeric * 0.3
		}
	}

	ratio := 1.0
	if p.RequiredMatches > 0 {
		ratio = float64(res.Matches) / float64(p.RequiredMatches)
	}

	res.Detected = res.Matches >= p.RequiredMatches
	raw := p.Confidence*ratio + bonus
	res.Score = raw
	res.Confidence = math.Min(1, raw)
	if !res.Detected {
		res.Score *= 0.5
		res.Confidence *= 0.5
	}
	return res
}

func matchFolder(p Pattern, name string) (MatchedFolder, bool) {
	lower := strings.ToLower(name)
	m := MatchedFolder{Folder: name, Keywords: []string{}, Patterns: []string{}}
	for _, kw := range p.Keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			m.Keywords = append(m.Keywords, kw)
		}
	}
	for _, re := range p.FolderPatterns {
		if re.MatchString(name) {
			m.Patterns = append(m.Patterns, re.String())
		}
	}
	return m, len(m.Keywords) > 0 || len(m.Patterns) > 0
}

// numericFraction is the share of folders whose name starts with exactly two digits.
func numericFraction(folders []FolderEntry) float64 {
	if len(folders) == 0 {
		return 0
	}
	n := 0
	for _, f := range folders {
		if hasTwoDigitPrefix(f.Name) {
			n++
		}
	}
	return float64(n) / float64(len(folders))
}

func hasTwoDigitPrefix(name string) bool {
	if len(name) < 2 || !isDigit(name[0]) || !isDigit(name[1]) {
		return false
	}
	return len(name) == 2 || !isDigit(name[2])
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
