// Package atomicfile replaces files by writing a sibling temp file and
// renaming it over the target, so readers never see a half-written file.
package atomicfile

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	defaultPerm    = 0o644
	defaultDirPerm = 0o755
)

type options struct {
	perm    os.FileMode
	parents bool
}

// Option configures Write.
type Option func(*options)

// WithPerm sets the mode of the written file. Without it an existing file
// keeps its mode and a new one gets 0644.
func WithPerm(perm os.FileMode) Option {
	return func(o *options) { o.perm = perm }
}

// WithParents creates missing parent directories.
func WithParents() Option {
	return func(o *options) { o.parents = true }
}

// Write atomically replaces path with data (best-effort on Windows, where the
// target is removed before the rename).
func Write(path string, data []byte, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.perm == 0 {
		o.perm = existingMode(path)
	}

	dir := filepath.Dir(path)
	if o.parents {
		if err := os.MkdirAll(dir, defaultDirPerm); err != nil {
			return fmt.Errorf("create parent directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := fill(tmp, data, o.perm); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := replace(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

func existingMode(path string) os.FileMode {
	if st, err := os.Stat(path); err == nil {
		return st.Mode().Perm()
	}
	return defaultPerm
}

// fill writes data, syncs and closes f. f is closed on every path.
func fill(f *os.File, data []byte, perm os.FileMode) error {
	defer f.Close()

	// Some filesystems reject chmod; the write still matters more.
	_ = f.Chmod(perm)

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return nil
}

func replace(tmpPath, path string) error {
	err := os.Rename(tmpPath, path)
	if err == nil {
		return nil
	}
	// Windows refuses to rename over an existing file.
	_ = os.Remove(path)
	if err2 := os.Rename(tmpPath, path); err2 != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
