package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/joe/folder-compare/internal/compare"
	"github.com/joe/folder-compare/internal/tui/shared"
)

// unexported constants.
const (
	defaultWidth       = 120
	defaultTableHeight = 15
	minNameWidth       = 12
	sizeWidth          = 10
	modifiedWidth      = len(compare.TimestampLayout)
	statusWidth        = 10
	// title, input box, status lines, help and the table border
	chromeHeight = 13
)

// View renders the TUI
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(shared.RenderTitle("folder-compare"))
	b.WriteString("\n")
	b.WriteString(m.renderInputs())
	b.WriteString("\n")
	b.WriteString(m.renderTable())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")

	if m.pending != nil {
		b.WriteString(shared.ConfirmStyle().Render(m.pending.prompt))
		b.WriteString("\n")
	}

	if list := shared.RenderErrorList(shared.ErrorListConfig{
		Failures: m.failures,
		MaxWidth: m.width - shared.DefaultPadding*2,
	}); list != "" {
		b.WriteString(list)
	}

	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m Model) renderInputs() string {
	box := shared.BoxStyle()
	if m.focus != FocusTable {
		box = shared.FocusedBoxStyle()
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		shared.RenderLabel("Left  ")+m.leftInput.View(),
		shared.RenderLabel("Right ")+m.rightInput.View(),
	)

	return box.Render(content)
}

func (m Model) renderTable() string {
	box := shared.BoxStyle()
	if m.focus == FocusTable {
		box = shared.FocusedBoxStyle()
	}

	return box.Render(m.table.View())
}

func (m Model) renderStatus() string {
	var parts []string

	if m.busy {
		parts = append(parts, shared.RenderWarning("Working..."))
	}

	if m.leftPath != "" {
		summary := compare.Summarize(m.rows)
		parts = append(parts, fmt.Sprintf("%d same, %d different, %d left only, %d right only",
			summary.Same, summary.Different, summary.LeftOnly, summary.RightOnly))
	}

	side := fmt.Sprintf("active: %s", m.activeSide)
	if n := len(m.selected); n > 0 {
		side += fmt.Sprintf(" • %d selected", n)
	}

	parts = append(parts, shared.RenderDim(side))

	line := strings.Join(parts, "  ")

	switch {
	case m.status == "":
		return line
	case m.statusErr:
		return line + "\n" + shared.RenderError(m.status)
	default:
		return line + "\n" + shared.RenderSuccess(m.status)
	}
}

// ============================================================================
// Table
// ============================================================================

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width

	m.table.SetColumns(columns(width))
	m.table.SetHeight(max(height-chromeHeight, 3)) //nolint:mnd // header plus two rows
}

// columns splits width between the two name columns; the rest are fixed.
func columns(width int) []table.Column {
	fixed := 2*(sizeWidth+modifiedWidth) + statusWidth
	// cell padding and the surrounding box
	overhead := 7*2 + 4 //nolint:mnd // seven columns

	nameWidth := max((width-fixed-overhead)/2, minNameWidth) //nolint:mnd // two name columns

	return []table.Column{
		{Title: "Left", Width: nameWidth},
		{Title: "Size", Width: sizeWidth},
		{Title: "Modified", Width: modifiedWidth},
		{Title: "Status", Width: statusWidth},
		{Title: "Right", Width: nameWidth},
		{Title: "Size", Width: sizeWidth},
		{Title: "Modified", Width: modifiedWidth},
	}
}

// refreshTable rebuilds the table rows from m.rows, keeping the cursor in range.
func (m *Model) refreshTable() {
	rows := make([]table.Row, 0, len(m.rows))

	for _, row := range m.rows {
		cells := make(table.Row, 0, 7) //nolint:mnd // seven columns
		cells = append(cells, m.sideCells(row, SideLeft)...)
		cells = append(cells, row.Status().String())
		cells = append(cells, m.sideCells(row, SideRight)...)

		rows = append(rows, cells)
	}

	m.table.SetRows(rows)

	if cursor := m.table.Cursor(); cursor >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (m Model) sideCells(row compare.Row, side Side) []string {
	entry := sideEntry(row, side)
	if entry == nil {
		return []string{"", "", ""}
	}

	name := compare.DisplayName(*entry)
	if side == m.activeSide && m.selected[row.Key()] {
		name = shared.SelectedMarker + name
	}

	return []string{name, compare.SizeDisplay(*entry), compare.ModifiedDisplay(*entry)}
}
