// Package writer places rendered configuration files into a repository
// tree. Writes are atomic and refuse to clobber existing files unless
// forced, so a generate run never leaves a half-written workflow behind.
package writer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileExistsError is returned when the destination already exists and
// overwriting was not requested.
type FileExistsError struct {
	Path string
}

func (e *FileExistsError) Error() string {
	return fmt.Sprintf("%s already exists (use --force to overwrite)", e.Path)
}

// IsFileExists reports whether err is a FileExistsError.
func IsFileExists(err error) bool {
	var fe *FileExistsError
	return errors.As(err, &fe)
}

// Writer writes generated files under a root directory.
type Writer struct {
	Root  string
	Force bool
}

// Write places content at relPath under the root, creating parent
// directories as needed.
func (w *Writer) Write(relPath, content string) (string, error) {
	path := filepath.Join(w.Root, relPath)

	if !w.Force {
		if _, err := os.Stat(path); err == nil {
			return path, &FileExistsError{Path: path}
		} else if !os.IsNotExist(err) {
			return path, fmt.Errorf("stat %s: %w", path, err)
		}
	}

	if err := writeAtomic(path, []byte(content)); err != nil {
		return path, err
	}
	return path, nil
}

// writeAtomic writes data to a file atomically by writing to a temp file
// in the same directory, then renaming.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up temp file on any error path.
	defer func() {
		if tmpName != "" {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s -> %s: %w", tmpName, path, err)
	}
	tmpName = "" // prevent deferred removal
	return nil
}
