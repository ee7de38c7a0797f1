// Package compare pairs the entries of two directories by case-insensitive
// name and classifies each pair as identical, different, or present on one
// side only. Classification looks at metadata (kind, size, modification
// time) and never reads file content.
package compare

import (
	"os"
	"time"

	"golang.org/x/text/cases"
)

// SizeNotApplicable is the Size stored for directories.
const SizeNotApplicable int64 = -1

// Entry is the metadata of one directory child, captured at scan time.
// A zero ModTime means the timestamp is unknown.
type Entry struct {
	Name    string
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// HasSize reports whether Size is meaningful (false for directories).
func (e Entry) HasSize() bool {
	return !e.IsDir && e.Size >= 0
}

// Key returns the case-folded name used to pair entries.
func (e Entry) Key() string {
	return foldKey(e.Name)
}

func newEntry(name string, info os.FileInfo) Entry {
	entry := Entry{
		Name:    name,
		IsDir:   info.IsDir(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}

	if entry.IsDir {
		entry.Size = SizeNotApplicable
	}

	return entry
}

// foldKey returns the case-insensitive key of a name.
// A new Caser per call: Casers keep state and are not safe for concurrent use.
func foldKey(name string) string {
	return cases.Fold().String(name)
}

// keyedEntry carries an entry's folded key so sorting folds each name once.
type keyedEntry struct {
	key   string
	entry Entry
}

// less orders by folded key, then by raw name.
func (k keyedEntry) less(other keyedEntry) bool {
	if k.key != other.key {
		return k.key < other.key
	}

	return k.entry.Name < other.entry.Name
}
