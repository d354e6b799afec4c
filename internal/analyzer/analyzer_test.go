package analyzer

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/aidanlsb/vaultkit/internal/testutil"
)

func TestAnalyzeClassifiesKnownLayouts(t *testing.T) {
	tests := []struct {
		name    string
		folders []string
		want    string
	}{
		{
			name:    "para",
			folders: []string{"Projects", "Areas", "Resources", "Archive", "Inbox"},
			want:    MethodPARA,
		},
		{
			name:    "zettelkasten",
			folders: []string{"Fleeting", "Permanent", "Literature", "Reference"},
			want:    MethodZettelkasten,
		},
		{
			name:    "johnny decimal",
			folders: []string{"00-09 System", "10-19 Finance", "20-29 Health", "30-39 Travel", "90-99 Admin"},
			want:    MethodJohnnyDecimal,
		},
		{
			name:    "lyt",
			folders: []string{"Atlas", "MOCs", "Sources"},
			want:    MethodLYT,
		},
	}

	a := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := testutil.NewTestVault(t).WithFolders(tt.folders...).Build()
			r := a.Analyze(v.Path, DefaultAnalyzeOptions())
			if r.Failed() {
				t.Fatalf("unexpected error: %s", r.Error)
			}
			if r.OrganizationMethod != tt.want {
				t.Fatalf("expected %s, got %s (details %+v)", tt.want, r.OrganizationMethod, r.DetectionDetails)
			}
			if r.Confidence <= 0.5 {
				t.Errorf("expected confidence > 0.5, got %.2f", r.Confidence)
			}
			if r.TotalFolders != len(tt.folders) {
				t.Errorf("expected %d folders, got %d", len(tt.folders), r.TotalFolders)
			}
		})
	}
}

func TestAnalyzeUnrelatedFoldersAreCustom(t *testing.T) {
	v := testutil.NewTestVault(t).WithFolders("MyStuff", "RandomFolder", "Things").Build()
	r := New().Analyze(v.Path, DefaultAnalyzeOptions())
	if r.Failed() {
		t.Fatalf("unexpected error: %s", r.Error)
	}
	if r.OrganizationMethod != MethodCustom {
		t.Fatalf("expected custom, got %s", r.OrganizationMethod)
	}
	if r.Confidence != 0.3 {
		t.Errorf("expected custom base confidence 0.3, got %v", r.Confidence)
	}
	if r.Validation == nil || r.Validation.IsValid {
		t.Fatalf("expected validation warnings, got %+v", r.Validation)
	}
	want := []string{
		"Low confidence in detected organization method (30%)",
		"Missing recommended folders: inbox",
	}
	if strings.Join(r.Validation.Warnings, "|") != strings.Join(want, "|") {
		t.Errorf("expected warnings %v, got %v", want, r.Validation.Warnings)
	}
	if len(r.Validation.Suggestions) != len(r.Validation.Warnings) {
		t.Errorf("expected one suggestion per warning, got %v", r.Validation.Suggestions)
	}
}

func TestAnalyzeFailsSoftly(t *testing.T) {
	a := New()

	t.Run("missing path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nope")
		r := a.Analyze(path, DefaultAnalyzeOptions())
		if !strings.HasPrefix(r.Error, "Vault path does not exist") {
			t.Fatalf("unexpected error %q", r.Error)
		}
		if r.OrganizationMethod != "" || r.VaultPath != path {
			t.Errorf("unexpected result %+v", r)
		}
		if SuggestConfig(r) != nil {
			t.Error("expected no suggestion for a failed analysis")
		}
	})

	t.Run("missing marker", func(t *testing.T) {
		v := testutil.NewTestVault(t).WithoutMarker().WithFolders("Inbox").Build()
		r := a.Analyze(v.Path, DefaultAnalyzeOptions())
		if !strings.Contains(r.Error, "missing .obsidian directory") {
			t.Fatalf("unexpected error %q", r.Error)
		}
	})

	t.Run("file instead of directory", func(t *testing.T) {
		v := testutil.NewTestVault(t).WithFile("note.md", "# hi").Build()
		r := a.Analyze(filepath.Join(v.Path, "note.md"), DefaultAnalyzeOptions())
		if r.Error == "" {
			t.Fatal("expected an error for a file path")
		}
	})
}

func TestAnalyzeDeepStructure(t *testing.T) {
	a := New()
	opts := AnalyzeOptions{MaxDepth: 10, IncludeValidation: true}

	t.Run("six levels", func(t *testing.T) {
		v := testutil.NewTestVault(t).WithFolders("Inbox/Level1/Level2/Level3/Level4/Level5").Build()
		r := a.Analyze(v.Path, opts)
		if r.StructureDepth <= 3 {
			t.Fatalf("expected structure depth > 3, got %d", r.StructureDepth)
		}
	})

	t.Run("seven levels warns", func(t *testing.T) {
		v := testutil.NewTestVault(t).WithFolders("Inbox/Level1/Level2/Level3/Level4/Level5/Level6").Build()
		r := a.Analyze(v.Path, opts)
		if r.StructureDepth != 6 {
			t.Fatalf("expected structure depth 6, got %d", r.StructureDepth)
		}
		found := false
		for _, w := range r.Validation.Warnings {
			if strings.HasPrefix(w, "Deep folder structure detected") {
				found = true
			}
		}
		if !found {
			t.Errorf("expected deep structure warning, got %v", r.Validation.Warnings)
		}
	})

	t.Run("default depth bounds the walk", func(t *testing.T) {
		v := testutil.NewTestVault(t).WithFolders("Level0/Level1/Level2/Level3/Level4/Level5").Build()
		r := a.Analyze(v.Path, DefaultAnalyzeOptions())
		if r.StructureDepth != DefaultMaxDepth {
			t.Fatalf("expected depth capped at %d, got %d", DefaultMaxDepth, r.StructureDepth)
		}
		if r.TotalFolders != DefaultMaxDepth+1 {
			t.Errorf("expected %d folders, got %d", DefaultMaxDepth+1, r.TotalFolders)
		}
	})
}

func TestAnalyzeWithoutValidation(t *testing.T) {
	v := testutil.NewTestVault(t).WithFolders("Projects").Build()
	r := New().Analyze(v.Path, AnalyzeOptions{MaxDepth: 3})
	if r.Validation != nil {
		t.Fatalf("expected no validation, got %+v", r.Validation)
	}
}

func TestAnalyzeReflectsChanges(t *testing.T) {
	v := testutil.NewTestVault(t).WithFolders("MyStuff").Build()
	a := New()

	first := a.Analyze(v.Path, DefaultAnalyzeOptions())
	if _, ok := first.KeyLocations[PurposeInbox]; ok {
		t.Fatal("did not expect an inbox yet")
	}

	v.Mkdir("Inbox")
	second := a.Analyze(v.Path, DefaultAnalyzeOptions())
	if second.KeyLocations[PurposeInbox] != "Inbox" {
		t.Fatalf("expected new inbox to be found, got %v", second.KeyLocations)
	}
	if second.TotalFolders != first.TotalFolders+1 {
		t.Errorf("expected folder count to grow, got %d then %d", first.TotalFolders, second.TotalFolders)
	}
}

func TestListFolders(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithFolders("b", "a/child", ".git/objects", "node_modules/pkg", "_notes").
		WithFile("a/readme.md", "x").
		Build()

	folders, skipped := New().ListFolders(v.Path, 3)
	if len(skipped) != 0 {
		t.Fatalf("unexpected skipped: %v", skipped)
	}

	var got []string
	for _, f := range folders {
		got = append(got, f.Path)
	}
	want := []string{"_notes", "a", "a/child", "b"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if folders[2].Depth != 1 || folders[2].Name != "child" {
		t.Errorf("unexpected nested entry %+v", folders[2])
	}
}

func TestListFoldersRecordsUnreadableDirectories(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}
	v := testutil.NewTestVault(t).WithFolders("open/inner", "locked/inner").Build()
	locked := filepath.Join(v.Path, "locked")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	folders, skipped := New().ListFolders(v.Path, 3)
	if len(skipped) != 1 || skipped[0].Path != "locked" {
		t.Fatalf("expected locked to be skipped, got %v", skipped)
	}

	paths := map[string]bool{}
	for _, f := range folders {
		paths[f.Path] = true
	}
	if !paths["locked"] || !paths["open/inner"] {
		t.Errorf("expected walk to continue past the unreadable directory, got %v", folders)
	}
	if paths["locked/inner"] {
		t.Error("did not expect contents of an unreadable directory")
	}
}

func TestLocateKeyFolders(t *testing.T) {
	folders := []FolderEntry{
		{Name: "00 Inbox", Path: "00 Inbox", Depth: 0},
		{Name: "10 Projects", Path: "10 Projects", Depth: 0},
		{Name: "Templates", Path: "Templates", Depth: 0},
		{Name: "Inbox", Path: "10 Projects/Inbox", Depth: 1},
	}

	got := New().LocateKeyFolders(folders)
	want := map[string]string{
		PurposeInbox:     "00 Inbox",
		PurposeProjects:  "10 Projects",
		PurposeTemplates: "Templates",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s: expected %q, got %q", k, v, got[k])
		}
	}
}

func TestLocateKeyFoldersAllowsSharedFolders(t *testing.T) {
	folders := []FolderEntry{{Name: "Atomic Notes", Path: "Atomic Notes"}}
	got := New().LocateKeyFolders(folders)
	if got[PurposeAtomicNotes] != "Atomic Notes" {
		t.Fatalf("expected atomic notes location, got %v", got)
	}

	folders = []FolderEntry{{Name: "Fleeting Inbox", Path: "Fleeting Inbox"}}
	got = New().LocateKeyFolders(folders)
	if got[PurposeInbox] != "Fleeting Inbox" {
		t.Fatalf("expected inbox location, got %v", got)
	}
}

func TestSuggestConfig(t *testing.T) {
	v := testutil.NewTestVault(t).WithFolders("Projects", "Areas", "Resources", "Archive", "Inbox").Build()
	r := New().Analyze(v.Path, DefaultAnalyzeOptions())
	s := SuggestConfig(r)
	if s == nil {
		t.Fatal("expected a suggestion")
	}

	name := filepath.Base(v.Path)
	if s.Name != name || s.Path != v.Path || !s.Enabled {
		t.Errorf("unexpected identity fields %+v", s)
	}
	if !strings.HasPrefix(s.ID, "vault-") {
		t.Errorf("expected vault- prefix, got %q", s.ID)
	}
	if s.OrganizationMethod != MethodPARA {
		t.Errorf("expected para, got %s", s.OrganizationMethod)
	}
	if s.DetectionConfidence != "100%" || s.ManualReviewNeeded {
		t.Errorf("unexpected confidence fields %q %v", s.DetectionConfidence, s.ManualReviewNeeded)
	}
	if len(s.AgentsEnabled) != 5 || s.AutoProcessing.Schedule != "daily" || s.AutoProcessing.Time != "09:00" || s.AutoProcessing.Enabled {
		t.Errorf("unexpected defaults %+v", s)
	}
	if s.KeyLocations[PurposeInbox] != "Inbox" {
		t.Errorf("expected inbox key location, got %v", s.KeyLocations)
	}

	s.AgentsEnabled[0] = "changed"
	if DefaultAgents[0] == "changed" {
		t.Error("suggestion shares the default agent slice")
	}
}

func TestSuggestConfigFlagsLowConfidence(t *testing.T) {
	r := Result{VaultPath: "/vaults/misc", OrganizationMethod: MethodLYT, Confidence: 0.69}
	s := SuggestConfig(r)
	if !s.ManualReviewNeeded {
		t.Error("expected manual review below 0.7")
	}
	if s.DetectionConfidence != "69%" {
		t.Errorf("unexpected confidence %q", s.DetectionConfidence)
	}
	if s.ID != "vault-misc" {
		t.Errorf("unexpected id %q", s.ID)
	}
}

func TestRenderReport(t *testing.T) {
	v := testutil.NewTestVault(t).WithFolders("Projects", "Areas", "Resources", "Archive").Build()
	r := New().Analyze(v.Path, DefaultAnalyzeOptions())
	out := RenderReport(r, SuggestConfig(r))

	for _, want := range []string{
		"# Vault analysis",
		"**Method:** para",
		"| projects | Projects |",
		"Missing recommended folders: inbox",
		"## Suggested configuration",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "| PARA |") > strings.Index(out, "| Custom |") {
		t.Error("expected pattern scores in registry order")
	}

	failed := RenderReport(Result{VaultPath: "/x", Error: "boom"}, nil)
	if !strings.Contains(failed, "**Error:** boom") {
		t.Errorf("unexpected error report:\n%s", failed)
	}
}
