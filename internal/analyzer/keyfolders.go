package analyzer

import (
	"fmt"
	"sort"
	"strings"
)

// KeyLocations maps a purpose key (inbox, projects, ...) to a folder name.
type KeyLocations map[string]string

// LocateKeyFolders picks one folder per purpose. Candidates are folders whose
// lower-cased name contains one of the purpose keywords; the shallowest wins,
// then the lowest name. The same folder may serve several purposes.
func (a *Analyzer) LocateKeyFolders(folders []FolderEntry) KeyLocations {
	locations := KeyLocations{}
	for _, purpose := range a.purposes {
		var candidates []FolderEntry
		for _, f := range folders {
			if containsAny(strings.ToLower(f.Name), purpose.Keywords) {
				candidates = append(candidates, f)
			}
		}
		if len(candidates) == 0 {
			continue
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			return lessFolder(candidates[i], candidates[j])
		})
		locations[purpose.Key] = candidates[0].Name
	}
	return locations
}

func lessFolder(a, b FolderEntry) bool {
	if a.Depth != b.Depth {
		return a.Depth < b.Depth
	}
	al, bl := strings.ToLower(a.Name), strings.ToLower(b.Name)
	if al != bl {
		return al < bl
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.Path < b.Path
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// Validation lists structural problems found in an analyzed vault.
type Validation struct {
	IsValid     bool     `json:"isValid"`
	Warnings    []string `json:"warnings"`
	Suggestions []string `json:"suggestions"`
}

const (
	lowConfidenceThreshold = 0.5
	deepStructureThreshold = 5
)

// Validate applies each rule independently; every failed rule contributes one
// warning and one suggestion.
func Validate(det Detection, locations KeyLocations) Validation {
	v := Validation{Warnings: []string{}, Suggestions: []string{}}

	if det.Confidence < lowConfidenceThreshold {
		v.Warnings = append(v.Warnings,
			fmt.Sprintf("Low confidence in detected organization method (%s)", Percent(det.Confidence)))
		v.Suggestions = append(v.Suggestions, "Consider manually specifying the organization method")
	}

	if locations[PurposeInbox] == "" {
		v.Warnings = append(v.Warnings, "Missing recommended folders: inbox")
		v.Suggestions = append(v.Suggestions, "Consider creating an inbox folder for new notes")
	}

	if det.StructureDepth > deepStructureThreshold {
		v.Warnings = append(v.Warnings, "Deep folder structure detected (may complicate navigation)")
		v.Suggestions = append(v.Suggestions, "Consider flattening the structure for better note accessibility")
	}

	v.IsValid = len(v.Warnings) == 0
	return v
}

// Percent formats a 0..1 confidence as a whole percentage, e.g. "85%".
func Percent(c float64) string {
	return fmt.Sprintf("%.0f%%", c*100)
}
