package obsidian

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestValidatePathRejectsInvalidInput(t *testing.T) {
	var nilString *string
	inputs := []struct {
		name  string
		value any
	}{
		{"nil", nil},
		{"empty string", ""},
		{"whitespace", "   "},
		{"number", 42},
		{"nil string pointer", nilString},
		{"bool", true},
	}

	for _, tt := range inputs {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidatePathValue(tt.value)
			if !errors.Is(err, ErrInvalidPath) {
				t.Fatalf("expected ErrInvalidPath, got %v", err)
			}
			var invalid *InvalidPathError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected *InvalidPathError, got %T", err)
			}
		})
	}
}

func TestValidatePathRejectsTraversal(t *testing.T) {
	inputs := []string{
		"../../../etc/passwd",
		"..",
		"notes/%2e%2e/%2E%2E/secret",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ValidatePath(input)
			if !errors.Is(err, ErrPathTraversal) {
				t.Fatalf("expected ErrPathTraversal for %q, got %v", input, err)
			}
		})
	}
}

func TestValidatePathCollapsesAbsoluteParentSegments(t *testing.T) {
	root := t.TempDir()
	notes := filepath.Join(root, "notes")
	if err := os.MkdirAll(notes, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := ValidatePath(filepath.Join(root, "other") + string(filepath.Separator) + ".." + string(filepath.Separator) + "notes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := filepath.EvalSymlinks(notes)
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestValidatePathNormalizesAndIsIdempotent(t *testing.T) {
	root := t.TempDir()
	vault := filepath.Join(root, "My Vault")
	if err := os.MkdirAll(vault, 0o755); err != nil {
		t.Fatal(err)
	}
	canonical, err := filepath.EvalSymlinks(vault)
	if err != nil {
		t.Fatal(err)
	}

	inputs := []string{
		vault,
		vault + string(filepath.Separator),
		filepath.Join(vault, "."),
		filepath.Join(root, "missing") + string(filepath.Separator) + ".." + string(filepath.Separator) + "My Vault",
	}
	for _, input := range inputs {
		got, err := ValidatePath(input)
		if err != nil {
			t.Fatalf("ValidatePath(%q): %v", input, err)
		}
		if !filepath.IsAbs(got) {
			t.Errorf("expected absolute path, got %q", got)
		}
		if got != canonical {
			t.Errorf("ValidatePath(%q) = %q, want %q", input, got, canonical)
		}
		again, err := ValidatePath(got)
		if err != nil {
			t.Fatalf("second ValidatePath(%q): %v", got, err)
		}
		if again != got {
			t.Errorf("not idempotent: %q then %q", got, again)
		}
	}
}

func TestValidatePathMissingPathIsStillAbsolute(t *testing.T) {
	root := t.TempDir()
	missing := filepath.Join(root, "does", "not", "exist")

	got, err := ValidatePath(missing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != missing {
		t.Errorf("expected %q, got %q", missing, got)
	}
}

func TestValidatePathResolvesSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require elevated privileges on windows")
	}
	root := t.TempDir()
	target := filepath.Join(root, "real")
	link := filepath.Join(root, "link")
	if err := os.MkdirAll(target, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}

	got, err := ValidatePath(link)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := filepath.EvalSymlinks(target)
	if got != want {
		t.Errorf("expected symlink to resolve to %q, got %q", want, got)
	}
}

func TestValidatePathBaseDir(t *testing.T) {
	root := t.TempDir()
	inside := filepath.Join(root, "vaults", "work")
	sibling := filepath.Join(root, "vaults-old")
	for _, dir := range []string{inside, sibling} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	base := filepath.Join(root, "vaults")

	t.Run("accepts paths under base", func(t *testing.T) {
		if _, err := ValidatePath(inside, WithBaseDir(base)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("accepts the base itself", func(t *testing.T) {
		if _, err := ValidatePath(base, WithBaseDir(base)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("rejects sibling sharing a name prefix", func(t *testing.T) {
		_, err := ValidatePath(sibling, WithBaseDir(base))
		if !errors.Is(err, ErrPathOutsideBase) {
			t.Fatalf("expected ErrPathOutsideBase, got %v", err)
		}
	})

	t.Run("rejects parent of base", func(t *testing.T) {
		_, err := ValidatePath(root, WithBaseDir(base))
		if !errors.Is(err, ErrPathOutsideBase) {
			t.Fatalf("expected ErrPathOutsideBase, got %v", err)
		}
	})
}

func TestHasTraversalSegment(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/vaults/notes", false},
		{"/vaults/my..notes", false},
		{"/vaults/../notes", true},
		{"/vaults/%2E%2E/notes", true},
	}
	for _, tt := range tests {
		if got := hasTraversalSegment(tt.path); got != tt.want {
			t.Errorf("hasTraversalSegment(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
