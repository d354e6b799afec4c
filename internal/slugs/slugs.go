// Package slugs derives stable identifiers for vaults from their names.
package slugs

import (
	"strconv"
	"strings"

	goslug "github.com/gosimple/slug"
)

// VaultIDPrefix starts every generated vault ID.
const VaultIDPrefix = "vault-"

// ComponentSlug converts a string to a lower-case, dash-separated slug.
// Names that slugify to nothing fall back to a lower-cased, dashed copy.
func ComponentSlug(s string) string {
	s = strings.TrimSpace(s)
	slugged := goslug.Make(s)
	if slugged == "" {
		slugged = strings.ToLower(strings.Join(strings.Fields(s), "-"))
	}
	return slugged
}

// VaultID returns "vault-<slug>" for a vault name, or "vault" when the name is blank.
func VaultID(name string) string {
	s := ComponentSlug(name)
	if s == "" {
		return strings.TrimSuffix(VaultIDPrefix, "-")
	}
	return VaultIDPrefix + s
}

// Unique returns base if taken reports it free, otherwise the first of
// base-2, base-3, ... that is free.
func Unique(base string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}
	for n := 2; ; n++ {
		candidate := base + "-" + strconv.Itoa(n)
		if !taken(candidate) {
			return candidate
		}
	}
}
