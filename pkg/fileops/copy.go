package fileops

import (
	"errors"
	"fmt"
	"io"

	"github.com/joe/folder-compare/pkg/filesystem"
)

// CopyFile copies the regular file src to dst, creating dst's parent
// directories, overwriting dst, and preserving the modification time.
// Copying a file onto itself does nothing.
func (fo *FileOps) CopyFile(src, dst string, progress ProgressCallback) (int64, error) {
	srcFS := fo.SourceFS
	dstFS := fo.DestFS

	sourceFile, err := srcFS.Open(src)
	if err != nil {
		return 0, fmt.Errorf("failed to open source file %s: %w", src, err)
	}

	defer func() {
		_ = sourceFile.Close()
	}()

	sourceInfo, err := sourceFile.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat source file %s: %w", src, err)
	}

	if !sourceInfo.Mode().IsRegular() {
		return 0, fmt.Errorf("cannot copy %s: %w", src, ErrNotRegularFile)
	}

	if fo.samePath(src, dst) {
		return 0, nil
	}

	dstDir := dstFS.Dir(dst)

	err = dstFS.MkdirAll(dstDir, DefaultDirPermissions)
	if err != nil {
		return 0, fmt.Errorf("failed to create destination directory %s: %w", dstDir, err)
	}

	destFile, err := dstFS.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("failed to create destination file %s: %w", dst, err)
	}

	copyCompleted := false

	defer func() {
		// a partial copy is worse than none
		if !copyCompleted {
			_ = dstFS.Remove(dst)
		}
	}()

	written, err := copyLoop(sourceFile, destFile, sourceInfo.Size(), src, progress)
	if err != nil {
		_ = destFile.Close()
		return written, fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}

	// Close before Chtimes, some network filesystems reset the time on close
	err = destFile.Close()
	if err != nil {
		return written, fmt.Errorf("failed to close destination file %s: %w", dst, err)
	}

	err = dstFS.Chtimes(dst, sourceInfo.ModTime(), sourceInfo.ModTime())
	if err != nil {
		return written, fmt.Errorf("failed to preserve modification time for %s: %w", dst, err)
	}

	copyCompleted = true

	return written, nil
}

// CopyTree recreates the directory src (and everything below it) at dst,
// creating intermediate directories and overwriting files with the same
// relative path. Symbolic links are followed, so a linked directory is copied
// with its contents. It stops at the first failure.
func (fo *FileOps) CopyTree(src, dst string) error {
	srcFS := fo.SourceFS

	info, err := srcFS.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat source directory %s: %w", src, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("cannot copy tree %s: %w", src, ErrNotDirectory)
	}

	if fo.samePath(src, dst) {
		return nil
	}

	if fo.SameFileSystem() && isWithin(srcFS, src, dst) {
		return fmt.Errorf("cannot copy %s to %s: %w", src, dst, ErrDestinationInsideSource)
	}

	return fo.copyDir(src, dst)
}

// copyDir lists src and recurses into every child that stats as a directory.
func (fo *FileOps) copyDir(src, dst string) error {
	srcFS := fo.SourceFS
	dstFS := fo.DestFS

	err := dstFS.MkdirAll(dst, DefaultDirPermissions)
	if err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dst, err)
	}

	children, err := srcFS.ReadDir(src)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", src, err)
	}

	for _, name := range children {
		srcPath := srcFS.Join(src, name)
		dstPath := dstFS.Join(dst, name)

		info, err := srcFS.Stat(srcPath)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", srcPath, err)
		}

		if info.IsDir() {
			err = fo.copyDir(srcPath, dstPath)
		} else {
			_, err = fo.CopyFile(srcPath, dstPath, nil)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// copyLoop performs the actual copy with progress tracking.
//
//nolint:lll // Long function signature with many parameters
func copyLoop(sourceFile filesystem.File, destFile filesystem.File, sourceSize int64, srcPath string, progress ProgressCallback) (int64, error) {
	var written int64

	buf := make([]byte, BufferSize)

	for {
		nr, err := sourceFile.Read(buf) //nolint:varnamelen // nr is idiomatic for bytes read
		if nr > 0 {
			nw, err := destFile.Write(buf[0:nr]) //nolint:varnamelen // nw is idiomatic for bytes written
			if err != nil {
				return written, fmt.Errorf("failed to write to destination: %w", err)
			}

			if nr != nw {
				return written, fmt.Errorf("short write: %w", io.ErrShortWrite)
			}

			written += int64(nw)

			if progress != nil {
				progress(written, sourceSize, srcPath)
			}
		}

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return written, fmt.Errorf("failed to read from source: %w", err)
		}
	}

	return written, nil
}
