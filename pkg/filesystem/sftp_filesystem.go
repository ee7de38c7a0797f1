package filesystem

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/pkg/sftp"
)

// SFTPFileSystem implements FileSystem over a single SFTP session.
// Remote paths always use forward slashes.
type SFTPFileSystem struct {
	conn   *SFTPConnection
	client *sftp.Client
}

// NewSFTPFileSystem creates a new SFTP filesystem using an established connection.
// The filesystem takes ownership of the connection; Close closes it.
func NewSFTPFileSystem(conn *SFTPConnection) *SFTPFileSystem {
	return &SFTPFileSystem{
		conn:   conn,
		client: conn.Client(),
	}
}

// Chtimes changes the access and modification times of a remote file.
func (sfs *SFTPFileSystem) Chtimes(name string, atime, mtime time.Time) error {
	err := sfs.client.Chtimes(name, atime, mtime)
	if err != nil {
		return fmt.Errorf("failed to change times for remote file %s: %w", name, err)
	}

	return nil
}

// Close closes the SFTP session and the SSH connection.
func (sfs *SFTPFileSystem) Close() error {
	return sfs.conn.Close()
}

// Create creates or truncates a remote file for writing.
func (sfs *SFTPFileSystem) Create(name string) (File, error) {
	file, err := sfs.client.Create(name)
	if err != nil {
		return nil, fmt.Errorf("failed to create remote file %s: %w", name, err)
	}

	return newSFTPFile(file), nil
}

// Dir returns all but the last element of a remote path.
func (sfs *SFTPFileSystem) Dir(p string) string {
	return path.Dir(p)
}

// Join joins remote path elements with forward slashes.
func (sfs *SFTPFileSystem) Join(elem ...string) string {
	return path.Join(elem...)
}

// MkdirAll creates a remote directory and all necessary parents.
func (sfs *SFTPFileSystem) MkdirAll(name string, _ os.FileMode) error {
	err := sfs.client.MkdirAll(name)
	if err != nil {
		return fmt.Errorf("failed to create remote directory %s: %w", name, err)
	}

	return nil
}

// Open opens a remote file for reading.
func (sfs *SFTPFileSystem) Open(name string) (File, error) {
	file, err := sfs.client.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open remote file %s: %w", name, err)
	}

	return newSFTPFile(file), nil
}

// ReadDir returns the names of the direct children of a remote directory.
func (sfs *SFTPFileSystem) ReadDir(name string) ([]string, error) {
	infos, err := sfs.client.ReadDir(name)
	if err != nil {
		return nil, fmt.Errorf("failed to list remote directory %s: %w", name, err)
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}

	return names, nil
}

// Remove removes a remote file or empty directory.
func (sfs *SFTPFileSystem) Remove(name string) error {
	err := sfs.client.Remove(name)
	if err != nil {
		return fmt.Errorf("failed to remove remote file %s: %w", name, err)
	}

	return nil
}

// Rename renames a remote file, replacing the target when the server
// supports the posix-rename extension.
func (sfs *SFTPFileSystem) Rename(oldName, newName string) error {
	err := sfs.client.PosixRename(oldName, newName)
	if err != nil {
		err = sfs.client.Rename(oldName, newName)
	}

	if err != nil {
		return fmt.Errorf("failed to rename remote file %s to %s: %w", oldName, newName, err)
	}

	return nil
}

// Stat returns file information for a remote file.
func (sfs *SFTPFileSystem) Stat(name string) (os.FileInfo, error) {
	info, err := sfs.client.Stat(name)
	if err != nil {
		return nil, fmt.Errorf("failed to stat remote file %s: %w", name, err)
	}

	return info, nil
}

// Walk returns an iterator over a remote directory tree.
func (sfs *SFTPFileSystem) Walk(root string) FileScanner {
	return newWalkerScanner(sfs.client.Walk(root), root, relativePath)
}

// relativePath computes the relative path from root to target.
// Uses path package (not filepath) since SFTP always uses forward slashes.
func relativePath(root, target string) (string, error) {
	root = path.Clean(root)
	target = path.Clean(target)

	if target == root {
		return ".", nil
	}

	if root == "." {
		return target, nil
	}

	if root != "/" {
		root += "/"
	}

	if len(target) < len(root) || target[:len(root)] != root {
		return "", fmt.Errorf("target %s is not under root %s", target, root) //nolint:err113 // Path validation error with actual paths
	}

	return target[len(root):], nil
}
