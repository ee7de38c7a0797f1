// Package history remembers the most recently compared directory pairs.
package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Exported constants.
const (
	// MaxItems is the maximum number of remembered entries.
	MaxItems = 10
	// PairSeparator joins the two paths of a stored pair.
	PairSeparator = " <-> "
)

// Exported variables.
var (
	ErrNotPair = errors.New("history entry is not a directory pair")
)

// Store is an ordered list of at most MaxItems strings, newest first,
// persisted as a YAML document. It is not safe for concurrent use.
type Store struct {
	path    string
	entries []string
}

type document struct {
	Entries []string `yaml:"entries"`
}

// DefaultPath returns folder-compare/history.yaml under the user config directory.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}

	return filepath.Join(configDir, "folder-compare", "history.yaml"), nil
}

// Open loads the store persisted at path. A missing file is an empty store.
// Blank entries are skipped and entries beyond MaxItems dropped.
func Open(path string) (*Store, error) {
	store := &Store{path: path}

	data, err := os.ReadFile(path) // #nosec G304 - path is the configured history file
	if errors.Is(err, os.ErrNotExist) {
		return store, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read history %s: %w", path, err)
	}

	var doc document

	err = yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse history %s: %w", path, err)
	}

	for _, entry := range doc.Entries {
		if strings.TrimSpace(entry) == "" {
			continue
		}

		store.entries = append(store.entries, entry)
		if len(store.entries) == MaxItems {
			break
		}
	}

	return store, nil
}

// Entries returns a copy of the entries, newest first.
func (s *Store) Entries() []string {
	return append([]string(nil), s.entries...)
}

// Path returns the file the store is saved to.
func (s *Store) Path() string {
	return s.path
}

// Push inserts item at the front. A blank item or one already present
// (exact match) leaves the list untouched and Push returns false.
func (s *Store) Push(item string) bool {
	if strings.TrimSpace(item) == "" {
		return false
	}

	for _, existing := range s.entries {
		if existing == item {
			return false
		}
	}

	s.entries = append([]string{item}, s.entries...)
	if len(s.entries) > MaxItems {
		s.entries = s.entries[:MaxItems]
	}

	return true
}

// Save writes the store atomically, creating the parent directory.
func (s *Store) Save() error {
	data, err := yaml.Marshal(document{Entries: s.entries})
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	dir := filepath.Dir(s.path)

	err = os.MkdirAll(dir, 0o700)
	if err != nil {
		return fmt.Errorf("failed to create history directory %s: %w", dir, err)
	}

	return writeFileAtomic(s.path, data)
}

// writeFileAtomic writes data to a temporary file next to path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	temp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := temp.Name()

	_, err = temp.Write(data)
	if err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)

		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	err = temp.Close()
	if err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	err = os.Rename(tempPath, path)
	if err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}

// FormatPair encodes a directory pair as "<left> <-> <right>".
func FormatPair(left, right string) string {
	return left + PairSeparator + right
}

// ParsePair splits an entry produced by FormatPair.
func ParsePair(entry string) (string, string, error) {
	left, right, ok := strings.Cut(entry, PairSeparator)
	if !ok {
		return "", "", fmt.Errorf("%q: %w", entry, ErrNotPair)
	}

	return left, right, nil
}
