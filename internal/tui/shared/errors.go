package shared

import (
	"fmt"
	"strings"

	"github.com/joe/folder-compare/internal/operations"
	"github.com/joe/folder-compare/pkg/errors"
)

// ErrorLimit is how many failures the status area lists before summarizing
// the rest.
const ErrorLimit = 5

// ErrorListConfig holds configuration for rendering failure lists
type ErrorListConfig struct {
	// Failures are the per-item failures of the last batch
	Failures []operations.Failure

	// Limit overrides ErrorLimit when positive
	Limit int

	// MaxWidth is the maximum width for error message display
	MaxWidth int
}

// RenderErrorList renders batch failures with their suggestions. Returns ""
// when there are none.
func RenderErrorList(config ErrorListConfig) string {
	if len(config.Failures) == 0 {
		return ""
	}

	limit := config.Limit
	if limit <= 0 {
		limit = ErrorLimit
	}

	var builder strings.Builder

	for i, failure := range config.Failures {
		if i >= limit {
			fmt.Fprintf(&builder, "... and %d more error(s)\n", len(config.Failures)-limit)

			break
		}

		fmt.Fprintf(&builder, "  ✗ %s\n", ErrorStyle().Render(failure.Name))

		errMsg := failure.Err.Error()
		if config.MaxWidth > 3 && len(errMsg) > config.MaxWidth {
			errMsg = errMsg[:config.MaxWidth-3] + "..."
		}

		fmt.Fprintf(&builder, "    %s\n", errMsg)

		// Engine failures are already enriched
		suggestions := errors.FormatSuggestions(failure.Err)
		if suggestions != "" {
			fmt.Fprintf(&builder, "    %s\n", strings.ReplaceAll(suggestions, "\n", "\n    "))
		}
	}

	return builder.String()
}
