package compare

import (
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
)

// TimestampLayout is the fixed layout of ModifiedDisplay.
const TimestampLayout = "2006-01-02 15:04:05"

// DisplayName returns the entry name, with a trailing path separator for directories.
func DisplayName(e Entry) string {
	if e.IsDir {
		return e.Name + string(filepath.Separator)
	}

	return e.Name
}

// SizeDisplay returns the size in bytes, or "" for directories.
func SizeDisplay(e Entry) string {
	if !e.HasSize() {
		return ""
	}

	return strconv.FormatInt(e.Size, 10)
}

// HumanSizeDisplay returns the size in SI units ("1.2 MB"), or "" for directories.
func HumanSizeDisplay(e Entry) string {
	if !e.HasSize() {
		return ""
	}

	return humanize.Bytes(uint64(e.Size))
}

// ModifiedDisplay returns the modification time in local time, or "" when unknown.
func ModifiedDisplay(e Entry) string {
	if e.ModTime.IsZero() {
		return ""
	}

	return e.ModTime.Local().Format(TimestampLayout)
}
