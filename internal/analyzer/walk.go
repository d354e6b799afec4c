package analyzer

import (
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// FolderEntry is one directory found under a vault root.
type FolderEntry struct {
	Name string `json:"name"`
	// Path is relative to the vault root, slash-separated.
	Path  string `json:"path"`
	Depth int    `json:"depth"` // 0 = direct child of the root
}

// SkippedDir records a directory the walk could not read.
type SkippedDir struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// ListFolders walks root and returns every folder down to maxDepth levels below
// its direct children. Hidden folders and node_modules are not entered.
// Unreadable directories are reported in the second return value and the walk
// carries on with the rest of the tree.
func (a *Analyzer) ListFolders(root string, maxDepth int) ([]FolderEntry, []SkippedDir) {
	folders := []FolderEntry{}
	skipped := []SkippedDir{}

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if err != nil {
			a.logger.Debug("skipping unreadable directory",
				zap.String("path", path),
				zap.Error(err))
			skipped = append(skipped, SkippedDir{Path: rel, Reason: err.Error()})
			if d != nil && d.IsDir() && rel != "." {
				return filepath.SkipDir
			}
			return nil
		}

		if rel == "." || !d.IsDir() {
			return nil
		}

		name := d.Name()
		if skipFolder(name) {
			return filepath.SkipDir
		}

		depth := strings.Count(rel, "/")
		folders = append(folders, FolderEntry{Name: name, Path: rel, Depth: depth})
		if depth >= maxDepth {
			return filepath.SkipDir
		}
		return nil
	})

	return folders, skipped
}

func skipFolder(name string) bool {
	return strings.HasPrefix(name, ".") || name == "node_modules"
}

// StructureDepth is the deepest folder depth in folders, or 0 when empty.
func StructureDepth(folders []FolderEntry) int {
	depth := 0
	for _, f := range folders {
		if f.Depth > depth {
			depth = f.Depth
		}
	}
	return depth
}
