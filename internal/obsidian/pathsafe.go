package obsidian

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type pathOptions struct {
	baseDir string
}

// PathOption configures ValidatePath.
type PathOption func(*pathOptions)

// WithBaseDir requires the validated path to equal or lie under dir.
func WithBaseDir(dir string) PathOption {
	return func(o *pathOptions) { o.baseDir = dir }
}

// ValidatePathValue validates untyped input (decoded JSON, tool arguments).
// Anything other than a non-empty string is an InvalidPathError.
func ValidatePathValue(v any, opts ...PathOption) (string, error) {
	switch p := v.(type) {
	case nil:
		return "", &InvalidPathError{Reason: "path must be a non-empty string"}
	case string:
		return ValidatePath(p, opts...)
	case *string:
		if p == nil {
			return "", &InvalidPathError{Reason: "path must be a non-empty string"}
		}
		return ValidatePath(*p, opts...)
	default:
		return "", &InvalidPathError{Reason: fmt.Sprintf("path must be a string, got %T", v)}
	}
}

// ValidatePath normalizes input to an absolute, symlink-resolved path.
//
// Relative input that climbs above the working directory is rejected, as is any
// result that still carries a parent segment (or its percent-encoded form)
// after normalization. The result is stable: validating it again returns it
// unchanged.
func ValidatePath(input string, opts ...PathOption) (string, error) {
	var o pathOptions
	for _, opt := range opts {
		opt(&o)
	}

	if strings.TrimSpace(input) == "" {
		return "", &InvalidPathError{Reason: "path must be a non-empty string"}
	}

	if strings.Contains(strings.ToLower(input), "%2e%2e") {
		return "", &PathTraversalError{Path: input}
	}
	if !filepath.IsAbs(input) && escapesWorkingDir(input) {
		return "", &PathTraversalError{Path: input}
	}

	normalized, err := filepath.Abs(input)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	normalized, err = resolveExisting(normalized)
	if err != nil {
		return "", err
	}

	if hasTraversalSegment(normalized) {
		return "", &PathTraversalError{Path: normalized}
	}

	if o.baseDir != "" {
		base, err := filepath.Abs(o.baseDir)
		if err != nil {
			return "", fmt.Errorf("failed to resolve base directory: %w", err)
		}
		base, err = resolveExisting(base)
		if err != nil {
			return "", err
		}
		if !isWithin(base, normalized) {
			return "", &PathOutsideBaseError{Path: normalized, Base: base}
		}
	}

	return normalized, nil
}

// resolveExisting follows symlinks when p exists; missing paths are returned as-is.
func resolveExisting(p string) (string, error) {
	if _, err := os.Stat(p); err != nil {
		return p, nil
	}
	resolved, err := filepath.EvalSymlinks(p)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	return resolved, nil
}

func escapesWorkingDir(rel string) bool {
	cleaned := filepath.ToSlash(filepath.Clean(rel))
	return cleaned == ".." || strings.HasPrefix(cleaned, "../")
}

func hasTraversalSegment(p string) bool {
	lower := strings.ToLower(filepath.ToSlash(p))
	if strings.Contains(lower, "%2e%2e") {
		return true
	}
	for _, seg := range strings.Split(lower, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}

func isWithin(base, target string) bool {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	rel = filepath.ToSlash(rel)
	return rel != ".." && !strings.HasPrefix(rel, "../") && !filepath.IsAbs(rel)
}
