package obsidian

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every typed error below matches exactly one of these with errors.Is.
var (
	ErrInvalidPath         = errors.New("invalid path")
	ErrPathTraversal       = errors.New("path traversal detected")
	ErrPathOutsideBase     = errors.New("path outside allowed directory")
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrRegistryNotFound    = errors.New("obsidian config not found")
	ErrRegistryParse       = errors.New("failed to parse obsidian config")
)

// InvalidPathError reports input that is not a usable path at all.
type InvalidPathError struct {
	Reason string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path: %s", e.Reason)
}

func (e *InvalidPathError) Is(target error) bool { return target == ErrInvalidPath }

// PathTraversalError is returned when a normalized path still contains a parent segment.
type PathTraversalError struct {
	Path string
}

func (e *PathTraversalError) Error() string {
	return "path traversal detected and rejected"
}

func (e *PathTraversalError) Is(target error) bool { return target == ErrPathTraversal }

// PathOutsideBaseError is returned when a path escapes the required base directory.
type PathOutsideBaseError struct {
	Path string
	Base string
}

func (e *PathOutsideBaseError) Error() string {
	return fmt.Sprintf("path outside allowed directory: %s", e.Path)
}

func (e *PathOutsideBaseError) Is(target error) bool { return target == ErrPathOutsideBase }

// UnsupportedPlatformError is returned for operating systems without a known Obsidian config layout.
type UnsupportedPlatformError struct {
	Platform string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("unsupported platform: %s", e.Platform)
}

func (e *UnsupportedPlatformError) Is(target error) bool { return target == ErrUnsupportedPlatform }

// RegistryNotFoundError is returned when obsidian.json does not exist.
type RegistryNotFoundError struct {
	Path string
}

func (e *RegistryNotFoundError) Error() string {
	return fmt.Sprintf("obsidian config not found at: %s", e.Path)
}

func (e *RegistryNotFoundError) Is(target error) bool { return target == ErrRegistryNotFound }

// RegistryParseError wraps read and decode failures for obsidian.json.
type RegistryParseError struct {
	Path string
	Err  error
}

func (e *RegistryParseError) Error() string {
	return fmt.Sprintf("failed to parse obsidian config %s: %v", e.Path, e.Err)
}

func (e *RegistryParseError) Unwrap() error { return e.Err }

func (e *RegistryParseError) Is(target error) bool { return target == ErrRegistryParse }
