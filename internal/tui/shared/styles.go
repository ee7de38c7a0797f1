package shared

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/joe/folder-compare/internal/compare"
)

// Exported constants.
const (
	// DefaultPadding is the default padding for UI elements
	DefaultPadding = 2

	// PromptArrow marks the focused path input
	PromptArrow = "▶ "
	// PromptBlank keeps unfocused inputs aligned with the focused one
	PromptBlank = "  "

	// SelectedMarker prefixes selected entry names in the table
	SelectedMarker = "● "
)

// ============================================================================
// Colors
// ============================================================================

func AccentColor() lipgloss.Color { return lipgloss.Color(accentColorCode) }

func DimColor() lipgloss.Color { return lipgloss.Color(dimColorCode) }

func ErrorColor() lipgloss.Color { return lipgloss.Color(errorColorCode) }

func HighlightColor() lipgloss.Color { return lipgloss.Color(highlightColorCode) }

func NormalColor() lipgloss.Color { return lipgloss.Color(normalColorCode) }

// PrimaryColor returns the primary color for the UI
func PrimaryColor() lipgloss.Color { return lipgloss.Color(primaryColorCode) }

func SuccessColor() lipgloss.Color { return lipgloss.Color(successColorCode) }

func WarningColor() lipgloss.Color { return lipgloss.Color(warningColorCode) }

// StatusColor returns the color used for a row status.
func StatusColor(status compare.Status) lipgloss.Color {
	switch status {
	case compare.StatusDifferent:
		return WarningColor()
	case compare.StatusLeftOnly, compare.StatusRightOnly:
		return HighlightColor()
	default:
		return NormalColor()
	}
}

// ============================================================================
// Box and Container Styles
// ============================================================================

// BoxStyle returns the style for boxes with padding
func BoxStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(DimColor()).
		Padding(0, 1)
}

// FocusedBoxStyle returns the box style for the focused pane
func FocusedBoxStyle() lipgloss.Style {
	return BoxStyle().BorderForeground(AccentColor())
}

// ConfirmStyle returns the style for the y/n confirmation prompt
func ConfirmStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("231")).
		Background(ErrorColor()).
		Bold(true).
		Padding(0, 1)
}

// ============================================================================
// Text Styles
// ============================================================================

// DimStyle returns the style for dimmed text
func DimStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(DimColor())
}

// ErrorStyle returns the style for error messages
func ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(ErrorColor()).
		Bold(true)
}

// LabelStyle returns the style for labels
func LabelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(HighlightColor()).
		Bold(true)
}

func StatusStyle(status compare.Status) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(StatusColor(status))
}

// SuccessStyle returns the style for success messages
func SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(SuccessColor()).
		Bold(true)
}

// TitleStyle returns the style for titles
func TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor())
}

// WarningStyle returns the style for warning messages
func WarningStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(WarningColor()).
		Bold(true)
}

// ============================================================================
// Helper Functions
// ============================================================================

// RenderDim renders dimmed text with consistent styling
func RenderDim(text string) string {
	return DimStyle().Render(text)
}

// RenderError renders an error message with consistent styling
func RenderError(text string) string {
	return ErrorStyle().Render(text)
}

// RenderLabel renders a label with consistent styling
func RenderLabel(text string) string {
	return LabelStyle().Render(text)
}

// RenderSuccess renders a success message with consistent styling
func RenderSuccess(text string) string {
	return SuccessStyle().Render(text)
}

// RenderTitle renders a title with consistent styling
func RenderTitle(text string) string {
	return TitleStyle().Render(text)
}

// RenderWarning renders a warning message with consistent styling
func RenderWarning(text string) string {
	return WarningStyle().Render(text)
}

// unexported constants.
const (
	accentColorCode    = "62"  // Blue
	dimColorCode       = "240" // Dark gray
	errorColorCode     = "196" // Red
	highlightColorCode = "86"  // Cyan
	normalColorCode    = "252" // Light gray
	primaryColorCode   = "205" // Pink/purple
	successColorCode   = "42"  // Green
	warningColorCode   = "214" // Orange
)
