package operations

import (
	"fmt"

	"github.com/joe/folder-compare/pkg/filesystem"
)

// NewResolvedEngine resolves srcDir and dstDir (local paths or sftp:// URLs)
// and returns an engine over their filesystems together with the paths to
// pass to Copy, Move or Delete.
func NewResolvedEngine(resolver filesystem.Resolver, srcDir, dstDir string) (*Engine, string, string, error) {
	srcFS, srcPath, err := resolver.Resolve(srcDir)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to open source %s: %w", srcDir, err)
	}

	dstFS, dstPath, err := resolver.Resolve(dstDir)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to open destination %s: %w", dstDir, err)
	}

	return NewEngine(srcFS, dstFS), srcPath, dstPath, nil
}

// Targets builds targets for names in dir on the source filesystem. A name
// that cannot be stat'ed becomes a file target.
func (e *Engine) Targets(dir string, names []string) []Target {
	targets := make([]Target, 0, len(names))

	for _, name := range names {
		target := Target{Name: name}

		if info, err := e.ops.SourceFS.Stat(e.ops.SourceFS.Join(dir, name)); err == nil {
			target.IsDir = info.IsDir()
		}

		targets = append(targets, target)
	}

	return targets
}
