package cli

import (
	"strings"
	"testing"

	"github.com/aidanlsb/vaultkit/internal/buildinfo"
)

func TestVersionTable(t *testing.T) {
	info := buildinfo.Info{ModulePath: buildinfo.ModulePath, GoVersion: "go1.24.1", GOOS: "linux", GOARCH: "amd64"}
	out := versionTable(info).String()
	for _, want := range []string{buildinfo.ModulePath, "linux/amd64", "false"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
	if strings.Contains(out, "commit") {
		t.Errorf("expected no commit row without a commit, got %q", out)
	}

	info.Commit = "abc123"
	if out := versionTable(info).String(); !strings.Contains(out, "abc123") {
		t.Errorf("expected commit row, got %q", out)
	}
}
