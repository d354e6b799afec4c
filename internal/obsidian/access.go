package obsidian

import (
	"os"
	"path/filepath"
)

// AccessibilityResult is the outcome of probing a vault path.
// Error is empty iff Exists, Readable and Writable are all true.
type AccessibilityResult struct {
	Exists   bool   `json:"exists"`
	Readable bool   `json:"readable"`
	Writable bool   `json:"writable"`
	Error    string `json:"error,omitempty"`
}

// OK reports whether the path exists and is both readable and writable.
func (a AccessibilityResult) OK() bool {
	return a.Exists && a.Readable && a.Writable
}

// CheckAccessibility probes path for existence, read and write access.
// It never fails: problems are reported in the result's Error field.
// The read and write probes are independent of each other.
func CheckAccessibility(path string) AccessibilityResult {
	var result AccessibilityResult

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			result.Error = "Path does not exist"
		} else {
			result.Error = err.Error()
		}
		return result
	}
	result.Exists = true

	result.Readable = canRead(path)
	result.Writable = canWrite(path)

	switch {
	case !result.Readable && !result.Writable:
		result.Error = "No read/write permission"
	case !result.Readable:
		result.Error = "No read permission"
	case !result.Writable:
		result.Error = "No write permission"
	}

	return result
}

// IsValidVault reports whether path contains the .obsidian marker directory.
// A symlink named .obsidian does not count.
func IsValidVault(path string) bool {
	return HasMarkerDir(path, MarkerDir)
}

// HasMarkerDir reports whether marker exists directly under path as a real directory.
func HasMarkerDir(path, marker string) bool {
	info, err := os.Lstat(filepath.Join(path, marker))
	if err != nil {
		return false
	}
	return info.IsDir()
}
