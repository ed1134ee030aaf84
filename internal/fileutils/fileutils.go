// Package fileutils provides utility functions for handling files.
package fileutils

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// CopyFile copies the file at src to dst, preserving the file contents but
// not file metadata. The destination appears atomically: readers never see a
// half-written file, and an existing file at dst is overwritten.
func CopyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("could not read source file: %v", err)
	}

	return AtomicWrite(dst, data)
}

// RemoveMatching removes every file in dir whose base name matches pattern.
// Missing directories are not an error; the first removal failure aborts.
func RemoveMatching(dir, pattern string) error {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return fmt.Errorf("invalid pattern %s: %v", pattern, err)
	}

	for _, m := range matches {
		slog.Debug("Removing file", "file", m)
		if err := os.Remove(m); err != nil {
			return fmt.Errorf("could not remove %s: %v", m, err)
		}
	}
	return nil
}

// AtomicWrite writes data to a file atomically.
// If the file already exists, then it will be overwritten.
func AtomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "tmp-*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temporary file: %v", err)
	}
	defer func() {
		_ = tmp.Close()
		if err := os.Remove(tmp.Name()); err != nil && !os.IsNotExist(err) {
			slog.Warn("Failed to remove temporary file", "file", tmp.Name(), "error", err)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("could not write to temporary file: %v", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not close temporary file: %v", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("could not rename temporary file: %v", err)
	}
	return nil
}
