package filesystem

import (
	"fmt"
	"sync"
)

// Resolver maps a user-supplied path (a local path or an sftp:// URL) to the
// filesystem that serves it and the path to use on that filesystem.
type Resolver interface {
	Resolve(path string) (FileSystem, string, error)
}

// LocalResolver resolves every path to one filesystem, unchanged.
type LocalResolver struct {
	fs FileSystem
}

// NewLocalResolver returns a resolver that always answers with fs.
func NewLocalResolver(fs FileSystem) *LocalResolver {
	return &LocalResolver{fs: fs}
}

// Resolve returns the resolver's filesystem and p.
func (r *LocalResolver) Resolve(p string) (FileSystem, string, error) {
	return r.fs, p, nil
}

// URLResolver resolves local paths to the real filesystem and sftp:// URLs to
// SFTP filesystems. One connection is opened per user@host:port and reused
// until Close.
type URLResolver struct {
	local FileSystem

	mu      sync.Mutex
	remotes map[string]*SFTPFileSystem
	connect func(host string, port int, user string) (*SFTPConnection, error)
}

// NewURLResolver creates a resolver backed by the real local filesystem.
func NewURLResolver() *URLResolver {
	return &URLResolver{
		local:   NewRealFileSystem(),
		remotes: make(map[string]*SFTPFileSystem),
		connect: Connect,
	}
}

// Resolve parses p and returns the filesystem serving it.
func (r *URLResolver) Resolve(p string) (FileSystem, string, error) {
	parsed, err := ParsePath(p)
	if err != nil {
		return nil, "", err
	}

	if !parsed.IsRemote {
		return r.local, parsed.LocalPath, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	endpoint := parsed.Endpoint()
	if remote, ok := r.remotes[endpoint]; ok {
		return remote, parsed.Path, nil
	}

	conn, err := r.connect(parsed.Host, parsed.Port, parsed.User)
	if err != nil {
		return nil, "", fmt.Errorf("failed to connect to %s: %w", endpoint, err)
	}

	remote := NewSFTPFileSystem(conn)
	r.remotes[endpoint] = remote

	return remote, parsed.Path, nil
}

// Close closes every SFTP connection the resolver opened.
func (r *URLResolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error

	for endpoint, remote := range r.remotes {
		if err := remote.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close %s: %w", endpoint, err)
		}

		delete(r.remotes, endpoint)
	}

	return firstErr
}
