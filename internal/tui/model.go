// Package tui is the interactive side-by-side comparison screen.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/joe/folder-compare/internal/compare"
	"github.com/joe/folder-compare/internal/history"
	"github.com/joe/folder-compare/internal/operations"
	"github.com/joe/folder-compare/internal/tui/shared"
	"github.com/joe/folder-compare/pkg/filesystem"
)

// Side is one of the two compared directories.
type Side int

// Sides.
const (
	SideLeft Side = iota
	SideRight
)

// Other returns the opposite side.
func (s Side) Other() Side {
	if s == SideLeft {
		return SideRight
	}

	return SideLeft
}

func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}

	return "right"
}

// Focus is the part of the screen receiving keys.
type Focus int

// Focus targets, in tab order.
const (
	FocusLeftInput Focus = iota
	FocusRightInput
	FocusTable
)

// Options configures NewModel.
type Options struct {
	Left     string
	Right    string
	Resolver filesystem.Resolver
	History  *history.Store // may be nil
	Logger   *zap.Logger
}

// pendingOp is a batch waiting for y/n confirmation.
type pendingOp struct {
	op      operations.Op
	from    Side
	targets []operations.Target
	prompt  string
}

// Model represents the TUI state
type Model struct {
	resolver filesystem.Resolver
	history  *history.Store
	logger   *zap.Logger

	leftInput  textinput.Model
	rightInput textinput.Model
	focus      Focus

	// Paths of the last comparison; operations act on these, not on the
	// input text.
	leftPath  string
	rightPath string
	rows      []compare.Row

	table      table.Model
	activeSide Side
	selected   map[string]bool // row keys on activeSide

	pending      *pendingOp
	busy         bool
	status       string
	statusErr    bool
	failures     []operations.Failure
	historyIndex int

	help help.Model
	keys keyMap

	width  int
	height int
}

// NewModel creates a new TUI model
func NewModel(opts Options) Model {
	leftInput := textinput.New()
	leftInput.Placeholder = "/path/to/left or sftp://user@host/path"
	leftInput.Prompt = shared.PromptArrow
	leftInput.SetValue(opts.Left)
	leftInput.Focus()

	rightInput := textinput.New()
	rightInput.Placeholder = "/path/to/right"
	rightInput.Prompt = shared.PromptBlank
	rightInput.SetValue(opts.Right)

	t := table.New(
		table.WithColumns(columns(defaultWidth)),
		table.WithHeight(defaultTableHeight),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(shared.DimColor()).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(shared.AccentColor()).
		Bold(true)
	t.SetStyles(styles)

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	resolver := opts.Resolver
	if resolver == nil {
		resolver = filesystem.NewLocalResolver(filesystem.NewRealFileSystem())
	}

	return Model{
		resolver:     resolver,
		history:      opts.History,
		logger:       logger,
		leftInput:    leftInput,
		rightInput:   rightInput,
		focus:        FocusLeftInput,
		table:        t,
		selected:     make(map[string]bool),
		historyIndex: -1,
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

// Init initializes the model. When both paths were given on the command
// line the first comparison starts right away.
func (m Model) Init() tea.Cmd {
	left, right := m.inputPaths()
	if left != "" && right != "" {
		return tea.Batch(textinput.Blink, m.compareCmd(left, right))
	}

	return textinput.Blink
}

// ActiveSide returns the side selections and deletes apply to.
func (m Model) ActiveSide() Side {
	return m.activeSide
}

// Busy reports whether a scan or batch is running.
func (m Model) Busy() bool {
	return m.busy
}

// Failures returns the item failures of the last batch.
func (m Model) Failures() []operations.Failure {
	return m.failures
}

// Focus returns the focused part of the screen.
func (m Model) Focus() Focus {
	return m.focus
}

// Inputs returns the text of the two path inputs.
func (m Model) Inputs() (string, string) {
	return m.leftInput.Value(), m.rightInput.Value()
}

// Paths returns the directories of the last comparison.
func (m Model) Paths() (string, string) {
	return m.leftPath, m.rightPath
}

// Pending reports whether a batch is waiting for confirmation.
func (m Model) Pending() bool {
	return m.pending != nil
}

// Rows returns the rows of the last comparison.
func (m Model) Rows() []compare.Row {
	return m.rows
}

// Selected returns the selected names on the active side, in row order.
func (m Model) Selected() []string {
	var names []string

	for _, row := range m.rows {
		if !m.selected[row.Key()] {
			continue
		}

		if entry := sideEntry(row, m.activeSide); entry != nil {
			names = append(names, entry.Name)
		}
	}

	return names
}

// Status returns the status line text.
func (m Model) Status() string {
	return m.status
}

func (m Model) inputPaths() (string, string) {
	return strings.TrimSpace(m.leftInput.Value()), strings.TrimSpace(m.rightInput.Value())
}

func (m Model) sidePath(side Side) string {
	if side == SideLeft {
		return m.leftPath
	}

	return m.rightPath
}

func sideEntry(row compare.Row, side Side) *compare.Entry {
	if side == SideLeft {
		return row.Left
	}

	return row.Right
}
