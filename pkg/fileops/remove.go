package fileops

import (
	"errors"
	"fmt"
	"os"
)

// Rename atomically renames src to dst. It only works when source and
// destination share a filesystem; otherwise it returns ErrCrossFileSystem.
// Renaming onto the same path does nothing.
func (fo *FileOps) Rename(src, dst string) error {
	if !fo.SameFileSystem() {
		return fmt.Errorf("cannot rename %s: %w", src, ErrCrossFileSystem)
	}

	if fo.samePath(src, dst) {
		return nil
	}

	err := fo.SourceFS.Rename(src, dst)
	if err != nil {
		return fmt.Errorf("failed to rename %s to %s: %w", src, dst, err)
	}

	return nil
}

// RemoveFile removes a file from the source filesystem. A file that does not
// exist counts as removed.
func (fo *FileOps) RemoveFile(path string) error {
	err := fo.SourceFS.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}

	return nil
}

// RemoveTree removes path and everything below it from the source
// filesystem, children before parents. A missing path counts as removed.
func (fo *FileOps) RemoveTree(path string) error {
	fs := fo.SourceFS

	info, err := fs.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if !info.IsDir() {
		return fo.RemoveFile(path)
	}

	var descendants []string

	scanner := fs.Walk(path)
	for entry, ok := scanner.Next(); ok; entry, ok = scanner.Next() {
		descendants = append(descendants, fs.Join(path, entry.RelativePath))
	}

	err = scanner.Err()
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", path, err)
	}

	// Walk yields parents first, so the reverse order removes children first.
	for i := len(descendants) - 1; i >= 0; i-- {
		err = fo.RemoveFile(descendants[i])
		if err != nil {
			return err
		}
	}

	return fo.RemoveFile(path)
}
