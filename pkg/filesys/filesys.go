// Package filesys provides a small collection of utility functions for the
// file system operations the index performs: creating directory trees,
// enumerating subdirectories during discovery, and renaming a finished
// segment. DeleteDir and Exists are also provided; the index itself does
// not call them.
package filesys

import (
	"errors"
	"io/fs"
	"os"
)

var (
	ErrIsNotDir = errors.New("path isn't a directory")
)

// CreateDir creates a directory at the specified path with the given
// permissions, creating parents on demand. An existing directory is not an
// error; an existing regular file at the path is.
func CreateDir(dirPath string, permission fs.FileMode) error {
	stat, err := os.Stat(dirPath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	// If the path exists and it's not a directory, return an error.
	if stat != nil && !stat.IsDir() {
		return ErrIsNotDir
	}

	return os.MkdirAll(dirPath, permission)
}

// ListSubdirs returns the names of the direct subdirectories of dirPath.
// Regular files and symlinks are skipped; only real directories count,
// which is what segment and field discovery require.
func ListSubdirs(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// DeleteDir deletes a directory and all its contents recursively.
func DeleteDir(path string) error {
	return os.RemoveAll(path)
}

// Rename atomically renames oldPath to newPath. Both paths must live on
// the same filesystem for the rename to be atomic, which holds for a
// segment temp directory and its final name inside one field directory.
func Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

// Exists checks if a file or directory at the given path exists.
// It returns true if the path exists, false if it does not, and an error
// if there's any other issue checking its status.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
