package compare

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileFilter decides whether a directory child takes part in a comparison.
type FileFilter interface {
	// ShouldInclude reports whether the child with the given name is listed.
	ShouldInclude(name string) bool
}

// GlobFilter excludes children whose name matches any of its glob patterns.
// Matching is case-insensitive.
type GlobFilter struct {
	patterns []string
}

// NewGlobFilter creates a filter from ignore patterns. Blank patterns are
// dropped; with no patterns every child is included.
func NewGlobFilter(patterns ...string) *GlobFilter {
	normalized := make([]string, 0, len(patterns))

	for _, pattern := range patterns {
		if strings.TrimSpace(pattern) == "" {
			continue
		}

		normalized = append(normalized, strings.ToLower(pattern))
	}

	return &GlobFilter{patterns: normalized}
}

// ValidatePatterns returns the first pattern doublestar cannot parse.
func ValidatePatterns(patterns []string) (string, bool) {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return pattern, false
		}
	}

	return "", true
}

// ShouldInclude returns false when name matches an ignore pattern.
func (f *GlobFilter) ShouldInclude(name string) bool {
	normalizedName := strings.ToLower(name)

	for _, pattern := range f.patterns {
		matched, err := doublestar.Match(pattern, normalizedName)
		if err == nil && matched {
			return false
		}
	}

	return true
}
