package fileutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// WriteAtomic streams write's output into a temp file in the target directory,
// syncs it, and renames it over path. Readers see either the old or the new
// content, never a partial file.
func WriteAtomic(path string, mode os.FileMode, write func(io.Writer) error) error {
	return writeTemp(path, mode, write, os.Rename)
}

// CreateAtomic behaves like WriteAtomic but refuses to replace an existing
// file. It returns an error matching fs.ErrExist when path is already taken.
func CreateAtomic(path string, mode os.FileMode, write func(io.Writer) error) error {
	if _, err := os.Lstat(path); err == nil {
		return &fs.PathError{Op: "create", Path: path, Err: fs.ErrExist}
	}
	return writeTemp(path, mode, write, RenameNoReplace)
}

// RenameNoReplace renames oldpath to newpath, failing with an error matching
// fs.ErrExist when newpath exists.
func RenameNoReplace(oldpath, newpath string) error {
	if err := renameNoReplace(oldpath, newpath); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return &fs.PathError{Op: "rename", Path: newpath, Err: fs.ErrExist}
		}
		return err
	}
	return nil
}

// Exists reports whether path exists. Errors other than "not exist" are
// returned so callers do not mistake an unreadable directory for absence.
func Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func writeTemp(path string, mode os.FileMode, write func(io.Writer) error, commit func(string, string) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	// Removing after a successful rename is a harmless no-op.
	defer func() { _ = os.Remove(tmpPath) }()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := commit(tmpPath, path); err != nil {
		return err
	}
	return nil
}
