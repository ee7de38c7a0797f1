// Package filesystem provides an abstraction layer for filesystem operations
// so the comparison and file-operation code can run against local disks,
// SFTP servers, or an in-memory filesystem in tests.
package filesystem

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/kr/fs"
)

// File is an interface that abstracts file operations.
// This allows us to work with both real files and mock files.
type File interface {
	io.Reader
	io.Writer
	io.Closer
	Stat() (os.FileInfo, error)
}

// FileSystem is an interface that abstracts filesystem operations.
type FileSystem interface {
	// Walk returns an iterator over every entry below root, parents before children.
	Walk(root string) FileScanner

	// ReadDir returns the names of the direct children of a directory.
	ReadDir(path string) ([]string, error)

	Open(path string) (File, error)
	Create(path string) (File, error)
	MkdirAll(path string, perm os.FileMode) error
	Chtimes(path string, atime, mtime time.Time) error
	Remove(path string) error
	Rename(oldPath, newPath string) error
	Stat(path string) (os.FileInfo, error)

	// Join and Dir use the path syntax of the filesystem (slashes for SFTP).
	Join(elem ...string) string
	Dir(path string) string
}

// RealFileSystem implements FileSystem using actual os/filepath functions.
type RealFileSystem struct{}

// NewRealFileSystem creates a new RealFileSystem instance.
func NewRealFileSystem() *RealFileSystem {
	return &RealFileSystem{}
}

// Chtimes changes the access and modification times of a file.
func (rfs *RealFileSystem) Chtimes(path string, atime, mtime time.Time) error {
	err := os.Chtimes(path, atime, mtime)
	if err != nil {
		return fmt.Errorf("failed to change times for %s: %w", path, err)
	}

	return nil
}

// Create creates or truncates a file for writing.
func (rfs *RealFileSystem) Create(path string) (File, error) {
	file, err := os.Create(path) // #nosec G304 - file path is controlled by caller
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	return file, nil
}

// Dir returns all but the last element of path.
func (rfs *RealFileSystem) Dir(path string) string {
	return filepath.Dir(path)
}

// Join joins path elements with the OS separator.
func (rfs *RealFileSystem) Join(elem ...string) string {
	return filepath.Join(elem...)
}

// MkdirAll creates a directory and all necessary parents.
func (rfs *RealFileSystem) MkdirAll(path string, perm os.FileMode) error {
	err := os.MkdirAll(path, perm)
	if err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}

	return nil
}

// Open opens a file for reading.
func (rfs *RealFileSystem) Open(path string) (File, error) {
	file, err := os.Open(path) // #nosec G304 - file path is controlled by caller
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	return file, nil
}

// ReadDir returns the sorted names of the direct children of path.
func (rfs *RealFileSystem) ReadDir(path string) ([]string, error) {
	dir, err := os.Open(path) // #nosec G304 - directory path is controlled by caller
	if err != nil {
		return nil, fmt.Errorf("failed to open directory %s: %w", path, err)
	}

	defer func() {
		_ = dir.Close()
	}()

	names, err := dir.Readdirnames(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory %s: %w", path, err)
	}

	sort.Strings(names)

	return names, nil
}

// Remove removes a file or empty directory.
func (rfs *RealFileSystem) Remove(path string) error {
	err := os.Remove(path)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}

	return nil
}

// Rename renames (moves) oldPath to newPath, replacing an existing file.
func (rfs *RealFileSystem) Rename(oldPath, newPath string) error {
	err := os.Rename(oldPath, newPath)
	if err != nil {
		return fmt.Errorf("failed to rename %s to %s: %w", oldPath, newPath, err)
	}

	return nil
}

// Stat returns file information, following symbolic links.
func (rfs *RealFileSystem) Stat(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	return info, nil
}

// Walk returns an iterator over the local directory tree rooted at root.
func (rfs *RealFileSystem) Walk(root string) FileScanner {
	return newWalkerScanner(fs.Walk(root), root, filepath.Rel)
}
