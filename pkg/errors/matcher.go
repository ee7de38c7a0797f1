package errors

import "strings"

// PatternMatcher matches error messages to categories using string patterns.
type PatternMatcher interface {
	Match(errorMsg string) ErrorCategory
}

// NewPatternMatcher creates a new PatternMatcher with predefined patterns.
// Categories are checked in order; the first match wins.
func NewPatternMatcher() PatternMatcher {
	return &patternMatcher{
		rules: []categoryRule{
			{CategoryPermission, []string{
				"permission denied",
				"access denied",
				"operation not permitted",
				"read-only file system",
			}},
			{CategoryDiskSpace, []string{
				"no space left on device",
				"disk full",
				"quota exceeded",
			}},
			{CategoryConnection, []string{
				"ssh connection failed",
				"sftp session creation failed",
				"connection refused",
				"connection lost",
				"no route to host",
				"handshake failed",
			}},
			{CategoryMove, []string{
				"cross-device link",
				"different filesystems",
				"file exists",
			}},
			{CategoryDelete, []string{
				"directory not empty",
				"cannot remove",
			}},
			{CategoryPath, []string{
				"no such file or directory",
				"file does not exist",
				"file not found",
				"path does not exist",
				"not a directory",
			}},
			{CategoryCopy, []string{
				"short write",
				"input/output error",
				"i/o error",
				"not a regular file",
				"destination is inside the source",
			}},
		},
	}
}

type categoryRule struct {
	category ErrorCategory
	patterns []string
}

// patternMatcher is the concrete implementation of PatternMatcher.
type patternMatcher struct {
	rules []categoryRule
}

// Match returns the error category based on pattern matching.
func (m *patternMatcher) Match(errorMsg string) ErrorCategory {
	lowerMsg := strings.ToLower(errorMsg)

	for _, rule := range m.rules {
		for _, pattern := range rule.patterns {
			if strings.Contains(lowerMsg, pattern) {
				return rule.category
			}
		}
	}

	return CategoryUnknown
}
