package operations

import (
	"errors"
	"fmt"
)

// Exported variables.
var (
	ErrNotDirectory = errors.New("not an existing directory")
)

// PreconditionError reports that a batch was refused before any item was touched.
// It matches ErrNotDirectory with errors.Is.
type PreconditionError struct {
	Role string // "source", "destination" or "target"
	Path string
	Err  error // underlying stat failure, if any
}

func (e *PreconditionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s directory %s is %v: %v", e.Role, e.Path, ErrNotDirectory, e.Err)
	}

	return fmt.Sprintf("%s directory %s is %v", e.Role, e.Path, ErrNotDirectory)
}

// Is reports whether target is ErrNotDirectory.
func (e *PreconditionError) Is(target error) bool {
	return target == ErrNotDirectory //nolint:errorlint // Sentinel identity check
}

// Unwrap returns the underlying stat failure.
func (e *PreconditionError) Unwrap() error {
	return e.Err
}
