package internal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileExists checks if a file exists
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

// EnsureDirs creates directories if needed
func EnsureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if !FileExists(dir) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
	}
	return nil
}

// copyFile streams src to dst with default permissions
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// MoveFile renames src to dst, falling back to copy-and-remove when the
// rename crosses filesystems.
func MoveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("removing %s after copy: %w", src, err)
	}
	return nil
}

// UniqueDestination returns dir/name, or the first dir/stem_N.ext (N >= 1)
// that does not exist yet. Relocation must never clobber an unrelated file
// that happens to share the name.
func UniqueDestination(dir, name string) string {
	dst := filepath.Join(dir, name)
	if !FileExists(dst) {
		return dst
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, i, ext))
		if !FileExists(candidate) {
			return candidate
		}
	}
}
