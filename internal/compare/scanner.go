package compare

import (
	"strings"

	"go.uber.org/zap"

	"github.com/joe/folder-compare/pkg/filesystem"
)

// Scanner lists the direct children of a directory with their metadata.
// Scanning is best-effort: unreadable children are left out and an
// unreadable directory yields an empty listing. Both are logged at debug level.
type Scanner struct {
	resolver filesystem.Resolver

	// Logger receives debug messages about skipped entries. Defaults to a no-op logger.
	Logger *zap.Logger

	// Filter, when set, excludes children from every listing.
	Filter FileFilter
}

// NewScanner creates a Scanner reading from fs.
func NewScanner(fs filesystem.FileSystem) *Scanner {
	return NewResolvingScanner(filesystem.NewLocalResolver(fs))
}

// NewResolvingScanner creates a Scanner that resolves each path (local or
// sftp:// URL) through resolver.
func NewResolvingScanner(resolver filesystem.Resolver) *Scanner {
	return &Scanner{
		resolver: resolver,
		Logger:   zap.NewNop(),
	}
}

// ScanDir scans a local directory.
func ScanDir(path string) *Listing {
	return NewScanner(filesystem.NewRealFileSystem()).Scan(path)
}

// Scan returns the direct children of path. A blank path, or one that is not
// an existing directory, yields an empty listing.
func (s *Scanner) Scan(path string) *Listing {
	logger := s.logger()

	if strings.TrimSpace(path) == "" {
		return NewListing(nil)
	}

	fs, dir, err := s.resolver.Resolve(path)
	if err != nil {
		logger.Debug("cannot resolve directory", zap.String("path", path), zap.Error(err))
		return NewListing(nil)
	}

	info, err := fs.Stat(dir)
	if err != nil || !info.IsDir() {
		logger.Debug("not a directory", zap.String("path", path), zap.Error(err))
		return NewListing(nil)
	}

	names, err := fs.ReadDir(dir)
	if err != nil {
		logger.Debug("cannot list directory", zap.String("path", path), zap.Error(err))
		return NewListing(nil)
	}

	entries := make([]Entry, 0, len(names))

	for _, name := range names {
		if s.Filter != nil && !s.Filter.ShouldInclude(name) {
			continue
		}

		childInfo, err := fs.Stat(fs.Join(dir, name))
		if err != nil {
			logger.Debug("skipping unreadable entry",
				zap.String("path", path), zap.String("name", name), zap.Error(err))

			continue
		}

		entries = append(entries, newEntry(name, childInfo))
	}

	listing := NewListing(entries)
	if listing.Len() < len(entries) {
		logger.Debug("dropped names differing only in case",
			zap.String("path", path), zap.Int("dropped", len(entries)-listing.Len()))
	}

	return listing
}

func (s *Scanner) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}

	return s.Logger
}
