package fileops

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/joe/folder-compare/pkg/filesystem"
)

// FilesEqual reports whether a (on the source filesystem) and b (on the
// destination filesystem) are regular files with identical bytes.
// Any failure to stat or read either file yields false.
func (fo *FileOps) FilesEqual(a, b string) bool {
	equal, err := fo.CompareFilesBytes(a, b)

	return err == nil && equal
}

// DirectoriesEqual reports whether a and b are directories whose direct
// regular-file children have identical (case-sensitive) names and content.
// Subdirectories are ignored. Any failure yields false.
func (fo *FileOps) DirectoriesEqual(a, b string) bool {
	namesA, err := regularFileNames(fo.SourceFS, a)
	if err != nil {
		return false
	}

	namesB, err := regularFileNames(fo.DestFS, b)
	if err != nil {
		return false
	}

	if len(namesA) != len(namesB) {
		return false
	}

	for i := range namesA {
		if namesA[i] != namesB[i] {
			return false
		}
	}

	for _, name := range namesA {
		if !fo.FilesEqual(fo.SourceFS.Join(a, name), fo.DestFS.Join(b, name)) {
			return false
		}
	}

	return true
}

// CompareFilesBytes compares two regular files byte by byte after a size check.
func (fo *FileOps) CompareFilesBytes(path1, path2 string) (bool, error) {
	info1, err := fo.SourceFS.Stat(path1)
	if err != nil {
		return false, fmt.Errorf("failed to stat file %s: %w", path1, err)
	}

	info2, err := fo.DestFS.Stat(path2)
	if err != nil {
		return false, fmt.Errorf("failed to stat file %s: %w", path2, err)
	}

	if !info1.Mode().IsRegular() {
		return false, fmt.Errorf("cannot compare %s: %w", path1, ErrNotRegularFile)
	}

	if !info2.Mode().IsRegular() {
		return false, fmt.Errorf("cannot compare %s: %w", path2, ErrNotRegularFile)
	}

	// Quick size check
	if info1.Size() != info2.Size() {
		return false, nil
	}

	file1, err := fo.SourceFS.Open(path1)
	if err != nil {
		return false, fmt.Errorf("failed to open file %s: %w", path1, err)
	}

	defer func() {
		_ = file1.Close()
	}()

	file2, err := fo.DestFS.Open(path2)
	if err != nil {
		return false, fmt.Errorf("failed to open file %s: %w", path2, err)
	}

	defer func() {
		_ = file2.Close()
	}()

	identical, err := compareFileContents(file1, file2)
	if err != nil {
		return false, fmt.Errorf("failed to compare %s and %s: %w", path1, path2, err)
	}

	return identical, nil
}

// compareFileContents compares two open files in BufferSize chunks.
// io.ReadFull keeps the chunks aligned when a reader returns short reads.
func compareFileContents(file1, file2 filesystem.File) (bool, error) {
	buf1 := make([]byte, BufferSize)
	buf2 := make([]byte, BufferSize)

	for {
		n1, err1 := io.ReadFull(file1, buf1) //nolint:varnamelen // n1/n2 are idiomatic for bytes read
		n2, err2 := io.ReadFull(file2, buf2)

		if err1 != nil && !isEndOfData(err1) {
			return false, fmt.Errorf("failed to read from first file: %w", err1)
		}

		if err2 != nil && !isEndOfData(err2) {
			return false, fmt.Errorf("failed to read from second file: %w", err2)
		}

		if n1 != n2 || !bytes.Equal(buf1[:n1], buf2[:n2]) {
			return false, nil
		}

		if err1 != nil || err2 != nil {
			// both sides ended together only if both report end of data
			return err1 != nil && err2 != nil, nil
		}
	}
}

func isEndOfData(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// regularFileNames returns the sorted names of the regular files directly in dir.
func regularFileNames(fs filesystem.FileSystem, dir string) ([]string, error) {
	info, err := fs.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", dir, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("cannot list %s: %w", dir, ErrNotDirectory)
	}

	children, err := fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	names := make([]string, 0, len(children))

	for _, name := range children {
		// a child that cannot be stat'ed (a dangling link, say) is not a regular file
		childInfo, err := fs.Stat(fs.Join(dir, name))
		if err == nil && childInfo.Mode().IsRegular() {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	return names, nil
}
