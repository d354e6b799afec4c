package analyzer

import (
	"fmt"
	"sort"
	"strings"
)

// RenderReport formats an analysis (and optional suggestion) as markdown.
func RenderReport(r Result, s *ConfigSuggestion) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Vault analysis\n\n`%s`\n\n", r.VaultPath)

	if r.Failed() {
		fmt.Fprintf(&b, "**Error:** %s\n", r.Error)
		return b.String()
	}

	b.WriteString("## Organization\n\n")
	fmt.Fprintf(&b, "- **Method:** %s (%s confidence)\n", r.OrganizationMethod, Percent(r.Confidence))
	if r.MethodDescription != "" {
		fmt.Fprintf(&b, "- **Description:** %s\n", r.MethodDescription)
	}
	fmt.Fprintf(&b, "- **Structure depth:** %d levels\n", r.StructureDepth)
	fmt.Fprintf(&b, "- **Total folders:** %d\n\n", r.TotalFolders)

	b.WriteString("## Key locations\n\n")
	if len(r.KeyLocations) == 0 {
		b.WriteString("None detected.\n\n")
	} else {
		b.WriteString("| Purpose | Folder |\n|---|---|\n")
		for _, k := range orderedPurposeKeys(r.KeyLocations) {
			fmt.Fprintf(&b, "| %s | %s |\n", k, escapeCell(r.KeyLocations[k]))
		}
		b.WriteString("\n")
	}

	if len(r.DetectionDetails) > 0 {
		b.WriteString("## Pattern scores\n\n")
		b.WriteString("| Pattern | Matches | Required | Confidence |\n|---|---|---|---|\n")
		for _, k := range detailKeys(r) {
			d := r.DetectionDetails[k]
			fmt.Fprintf(&b, "| %s | %d | %d | %s |\n", d.Method, d.Matches, d.RequiredMatches, Percent(d.Confidence))
		}
		b.WriteString("\n")
	}

	if v := r.Validation; v != nil {
		b.WriteString("## Validation\n\n")
		if v.IsValid {
			b.WriteString("No problems found.\n\n")
		} else {
			for _, w := range v.Warnings {
				fmt.Fprintf(&b, "- ⚠ %s\n", w)
			}
			b.WriteString("\n")
			for _, s := range v.Suggestions {
				fmt.Fprintf(&b, "- %s\n", s)
			}
			b.WriteString("\n")
		}
	}

	if len(r.Skipped) > 0 {
		b.WriteString("## Skipped directories\n\n")
		for _, sk := range r.Skipped {
			fmt.Fprintf(&b, "- `%s`: %s\n", sk.Path, sk.Reason)
		}
		b.WriteString("\n")
	}

	if s != nil {
		b.WriteString("## Suggested configuration\n\n")
		fmt.Fprintf(&b, "- **ID:** `%s`\n", s.ID)
		fmt.Fprintf(&b, "- **Name:** %s\n", s.Name)
		fmt.Fprintf(&b, "- **Agents:** %s\n", strings.Join(s.AgentsEnabled, ", "))
		fmt.Fprintf(&b, "- **Excluded folders:** %s\n", strings.Join(s.ExcludedFolders, ", "))
		if s.ManualReviewNeeded {
			b.WriteString("\n> Detection confidence is below 70%. Review the organization method before saving.\n")
		}
	}

	return b.String()
}

func detailKeys(r Result) []string {
	if order := r.DetectionOrder(); len(order) == len(r.DetectionDetails) {
		return order
	}
	keys := make([]string, 0, len(r.DetectionDetails))
	for k := range r.DetectionDetails {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// orderedPurposeKeys lists built-in purposes first, then any others by name.
func orderedPurposeKeys(locations KeyLocations) []string {
	rank := make(map[string]int)
	for i, p := range DefaultPurposes() {
		rank[p.Key] = i
	}
	keys := make([]string, 0, len(locations))
	for k := range locations {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, iok := rank[keys[i]]
		rj, jok := rank[keys[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
