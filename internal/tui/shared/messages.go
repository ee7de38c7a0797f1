package shared

import (
	"github.com/joe/folder-compare/internal/compare"
	"github.com/joe/folder-compare/internal/operations"
)

// ============================================================================
// Result Messages
// Sent by commands that run off the UI goroutine
// ============================================================================

// CompareDoneMsg carries the paired rows of a scan. Err is set when either
// directory could not be opened.
type CompareDoneMsg struct {
	Left  string
	Right string
	Rows  []compare.Row
	Err   error
}

// OperationDoneMsg is sent when a copy, move or delete batch has finished.
// Err is a precondition failure; item failures live in Result.
type OperationDoneMsg struct {
	Op     operations.Op
	Left   string
	Right  string
	Result operations.Result
	Err    error
}

// VerifyDoneMsg reports the content comparison of one row.
type VerifyDoneMsg struct {
	Name  string
	Equal bool
	Err   error
}
