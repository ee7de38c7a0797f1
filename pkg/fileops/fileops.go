// Package fileops provides file operations over a filesystem.FileSystem:
// copying files and trees, removing trees, renaming, and byte-level
// comparison of files and directories.
package fileops

import (
	"errors"

	"github.com/joe/folder-compare/pkg/filesystem"
)

// Exported constants.
const (
	// BufferSize is the size of the buffer used for copying and comparing (32KB)
	BufferSize = 32 * 1024
	// DefaultDirPermissions is the default permission mode for created directories
	DefaultDirPermissions = 0o750
)

// Exported variables.
var (
	ErrCrossFileSystem         = errors.New("source and destination are on different filesystems")
	ErrDestinationInsideSource = errors.New("destination is inside the source directory")
	ErrNotDirectory            = errors.New("not a directory")
	ErrNotRegularFile          = errors.New("not a regular file")
)

// ProgressCallback is called during file copies to report progress
type ProgressCallback func(bytesTransferred int64, totalBytes int64, currentFile string)

// FileOps provides file operations with dependency injection for filesystem access.
// Source paths are read from SourceFS and destination paths from DestFS, which
// allows copying between a local disk and an SFTP server.
type FileOps struct {
	SourceFS filesystem.FileSystem
	DestFS   filesystem.FileSystem
}

// NewFileOps creates a FileOps whose source and destination share one filesystem.
func NewFileOps(fs filesystem.FileSystem) *FileOps {
	return &FileOps{SourceFS: fs, DestFS: fs}
}

// NewDualFileOps creates a FileOps with separate source and destination filesystems.
func NewDualFileOps(sourceFS, destFS filesystem.FileSystem) *FileOps {
	return &FileOps{SourceFS: sourceFS, DestFS: destFS}
}

// NewRealFileOps creates a FileOps using the real filesystem.
func NewRealFileOps() *FileOps {
	return NewFileOps(filesystem.NewRealFileSystem())
}

// SameFileSystem reports whether source and destination are the same filesystem,
// which is required for Rename.
func (fo *FileOps) SameFileSystem() bool {
	return fo.SourceFS == fo.DestFS
}

// samePath reports whether src and dst name the same location.
func (fo *FileOps) samePath(src, dst string) bool {
	return fo.SameFileSystem() && fo.SourceFS.Join(src) == fo.DestFS.Join(dst)
}

// isWithin reports whether child is parent or lies below it, lexically.
func isWithin(fs filesystem.FileSystem, parent, child string) bool {
	parent = fs.Join(parent)

	for p := fs.Join(child); ; {
		if p == parent {
			return true
		}

		next := fs.Dir(p)
		if next == p {
			return false
		}

		p = next
	}
}
