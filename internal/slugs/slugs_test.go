package slugs

import "testing"

func TestComponentSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Freya", "freya"},
		{"My Awesome Vault", "my-awesome-vault"},
		{"UPPER CASE", "upper-case"},
		{"  padded  ", "padded"},
		{"Special: Characters!", "special-characters"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ComponentSlug(tt.in); got != tt.want {
				t.Fatalf("ComponentSlug(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestVaultID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"notes", "vault-notes"},
		{"Second Brain", "vault-second-brain"},
		{"", "vault"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := VaultID(tt.in); got != tt.want {
				t.Fatalf("VaultID(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestUnique(t *testing.T) {
	existing := map[string]bool{"vault-notes": true, "vault-notes-2": true}
	taken := func(id string) bool { return existing[id] }

	if got := Unique("vault-work", taken); got != "vault-work" {
		t.Errorf("expected free id unchanged, got %q", got)
	}
	if got := Unique("vault-notes", taken); got != "vault-notes-3" {
		t.Errorf("expected vault-notes-3, got %q", got)
	}
}
