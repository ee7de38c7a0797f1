package filesystem

import (
	"fmt"
	"time"

	"github.com/kr/fs"
)

// FileScanner is an iterator over files in a directory tree.
// It provides a simple Next pattern for traversing directory contents.
type FileScanner interface {
	// Next advances to the next file and returns its info.
	// Returns (FileInfo{}, false) when done or on error.
	// Check Err() after Next() returns false to distinguish between end-of-scan and error.
	Next() (FileInfo, bool)

	// Err returns any error that occurred during scanning.
	// Should be checked after Next() returns false.
	Err() error
}

// FileInfo contains metadata about a file found while walking a tree.
type FileInfo struct {
	// RelativePath is the path relative to the walk root
	RelativePath string

	// Size is the file size in bytes
	Size int64

	// ModTime is the modification time
	ModTime time.Time

	// IsDir indicates if this is a directory
	IsDir bool
}

// relFunc computes the path of target relative to root.
type relFunc func(root, target string) (string, error)

// walkerScanner adapts a kr/fs Walker (used for both local trees and, via
// pkg/sftp, remote trees) to the FileScanner interface.
// The walk stops at the first error.
type walkerScanner struct {
	walker *fs.Walker
	root   string
	rel    relFunc
	err    error
}

func newWalkerScanner(walker *fs.Walker, root string, rel relFunc) *walkerScanner {
	return &walkerScanner{
		walker: walker,
		root:   root,
		rel:    rel,
	}
}

// Err returns any error that occurred during scanning.
func (s *walkerScanner) Err() error {
	return s.err
}

// Next advances to the next file and returns its info.
func (s *walkerScanner) Next() (FileInfo, bool) {
	if s.err != nil {
		return FileInfo{}, false
	}

	for s.walker.Step() {
		if err := s.walker.Err(); err != nil {
			s.err = fmt.Errorf("error walking %s: %w", s.walker.Path(), err)
			return FileInfo{}, false
		}

		relPath, err := s.rel(s.root, s.walker.Path())
		if err != nil {
			s.err = fmt.Errorf("failed to get relative path for %s: %w", s.walker.Path(), err)
			return FileInfo{}, false
		}

		// Skip the root directory itself
		if relPath == "." {
			continue
		}

		stat := s.walker.Stat()

		return FileInfo{
			RelativePath: relPath,
			Size:         stat.Size(),
			ModTime:      stat.ModTime(),
			IsDir:        stat.IsDir(),
		}, true
	}

	return FileInfo{}, false
}

// errScanner is a FileScanner that yields nothing but an error.
type errScanner struct {
	err error
}

func (s errScanner) Next() (FileInfo, bool) { return FileInfo{}, false }
func (s errScanner) Err() error             { return s.err }
