package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/joe/folder-compare/internal/compare"
	"github.com/joe/folder-compare/internal/history"
	"github.com/joe/folder-compare/internal/operations"
	"github.com/joe/folder-compare/internal/tui/shared"
	"github.com/joe/folder-compare/pkg/fileops"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case shared.CompareDoneMsg:
		return m.handleCompareDone(msg), nil

	case shared.OperationDoneMsg:
		return m.handleOperationDone(msg)

	case shared.VerifyDoneMsg:
		return m.handleVerifyDone(msg), nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	return m.updateFocused(msg)
}

// ============================================================================
// Keys
// ============================================================================

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	if m.pending != nil {
		return m.handleConfirmKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.NextFocus):
		cmd := m.setFocus((m.focus + 1) % (FocusTable + 1))
		return m, cmd
	case key.Matches(msg, m.keys.History):
		return m.recallHistory()
	}

	if m.focus == FocusTable {
		return m.handleTableKey(msg)
	}

	if key.Matches(msg, m.keys.Compare) {
		left, right := m.inputPaths()
		return m.startCompare(left, right)
	}

	return m.updateFocused(msg)
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		pending := *m.pending
		m.pending = nil
		m.busy = true
		m.status = fmt.Sprintf("Running %s...", pending.op)
		m.statusErr = false

		return m, m.operationCmd(pending)
	case key.Matches(msg, m.keys.Cancel):
		m.pending = nil
		m.status = "Cancelled"
		m.statusErr = false
	}

	return m, nil
}

func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.LeftSide):
		m.setActiveSide(SideLeft)
	case key.Matches(msg, m.keys.RightSide):
		m.setActiveSide(SideRight)
	case key.Matches(msg, m.keys.Toggle):
		m.toggleSelection()
	case key.Matches(msg, m.keys.Copy):
		m.requestTransfer(operations.OpCopy)
	case key.Matches(msg, m.keys.Move):
		m.requestTransfer(operations.OpMove)
	case key.Matches(msg, m.keys.Delete):
		m.requestDelete()
	case key.Matches(msg, m.keys.Refresh):
		return m.startCompare(m.leftPath, m.rightPath)
	case key.Matches(msg, m.keys.Swap):
		m.swap()
	case key.Matches(msg, m.keys.Verify):
		return m.startVerify()
	default:
		return m.updateFocused(msg)
	}

	return m, nil
}

// updateFocused forwards msg to the focused input or the table.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.focus {
	case FocusLeftInput:
		m.leftInput, cmd = m.leftInput.Update(msg)
	case FocusRightInput:
		m.rightInput, cmd = m.rightInput.Update(msg)
	case FocusTable:
		m.table, cmd = m.table.Update(msg)
	}

	return m, cmd
}

func (m *Model) setFocus(focus Focus) tea.Cmd {
	m.focus = focus

	m.leftInput.Blur()
	m.rightInput.Blur()
	m.table.Blur()

	m.leftInput.Prompt = shared.PromptBlank
	m.rightInput.Prompt = shared.PromptBlank

	switch focus {
	case FocusLeftInput:
		m.leftInput.Prompt = shared.PromptArrow
		return m.leftInput.Focus()
	case FocusRightInput:
		m.rightInput.Prompt = shared.PromptArrow
		return m.rightInput.Focus()
	case FocusTable:
		m.table.Focus()
	}

	return nil
}

// ============================================================================
// Selection
// ============================================================================

// setActiveSide switches sides. A selection never spans both sides, so
// switching clears it.
func (m *Model) setActiveSide(side Side) {
	if side == m.activeSide {
		return
	}

	m.activeSide = side
	m.selected = make(map[string]bool)
	m.refreshTable()
}

func (m *Model) toggleSelection() {
	row, ok := m.highlighted()
	if !ok {
		return
	}

	if sideEntry(row, m.activeSide) == nil {
		m.setStatus(fmt.Sprintf("Nothing on the %s side to select", m.activeSide), true)
		return
	}

	if m.selected[row.Key()] {
		delete(m.selected, row.Key())
	} else {
		m.selected[row.Key()] = true
	}

	m.refreshTable()
}

// targets returns the selected entries on the active side, or the
// highlighted one when nothing is selected.
func (m Model) targets() []operations.Target {
	var targets []operations.Target

	for _, row := range m.rows {
		entry := sideEntry(row, m.activeSide)
		if entry != nil && m.selected[row.Key()] {
			targets = append(targets, operations.Target{Name: entry.Name, IsDir: entry.IsDir})
		}
	}

	if len(targets) > 0 {
		return targets
	}

	if row, ok := m.highlighted(); ok {
		if entry := sideEntry(row, m.activeSide); entry != nil {
			return []operations.Target{{Name: entry.Name, IsDir: entry.IsDir}}
		}
	}

	return nil
}

func (m Model) highlighted() (compare.Row, bool) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.rows) {
		return compare.Row{}, false
	}

	return m.rows[cursor], true
}

// ============================================================================
// Operations
// ============================================================================

func (m *Model) requestTransfer(op operations.Op) {
	if !m.ready() {
		return
	}

	targets := m.targets()
	if len(targets) == 0 {
		m.setStatus(fmt.Sprintf("Nothing selected on the %s side", m.activeSide), true)
		return
	}

	from, to := m.activeSide, m.activeSide.Other()
	m.pending = &pendingOp{
		op:      op,
		from:    from,
		targets: targets,
		prompt: fmt.Sprintf("%s %d item(s) from %s to %s? (y/n)",
			op, len(targets), m.sidePath(from), m.sidePath(to)),
	}
}

func (m *Model) requestDelete() {
	if !m.ready() {
		return
	}

	targets := m.targets()
	if len(targets) == 0 {
		m.setStatus(fmt.Sprintf("Nothing selected on the %s side", m.activeSide), true)
		return
	}

	m.pending = &pendingOp{
		op:      operations.OpDelete,
		from:    m.activeSide,
		targets: targets,
		prompt:  fmt.Sprintf("delete %d item(s) from %s? (y/n)", len(targets), m.sidePath(m.activeSide)),
	}
}

// ready reports whether a comparison is loaded and nothing is running.
func (m *Model) ready() bool {
	switch {
	case m.busy:
		m.setStatus("Still working, please wait", true)
		return false
	case m.leftPath == "" || m.rightPath == "":
		m.setStatus("Compare two directories first", true)
		return false
	}

	return true
}

func (m Model) operationCmd(pending pendingOp) tea.Cmd {
	resolver, logger := m.resolver, m.logger
	left, right := m.leftPath, m.rightPath
	src, dst := m.sidePath(pending.from), m.sidePath(pending.from.Other())

	if pending.op == operations.OpDelete {
		dst = src
	}

	return func() tea.Msg {
		done := shared.OperationDoneMsg{Op: pending.op, Left: left, Right: right}

		engine, srcDir, dstDir, err := operations.NewResolvedEngine(resolver, src, dst)
		if err != nil {
			done.Err = err
			return done
		}

		engine.Logger = logger

		switch pending.op {
		case operations.OpCopy:
			done.Result, done.Err = engine.Copy(pending.targets, srcDir, dstDir)
		case operations.OpMove:
			done.Result, done.Err = engine.Move(pending.targets, srcDir, dstDir)
		case operations.OpDelete:
			done.Result, done.Err = engine.Delete(pending.targets, srcDir)
		}

		return done
	}
}

func (m Model) handleOperationDone(msg shared.OperationDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = false

	if msg.Err != nil {
		m.failures = nil
		m.setStatus(fmt.Sprintf("%s failed: %v", msg.Op, msg.Err), true)

		return m, nil
	}

	m.failures = msg.Result.Failures
	m.setStatus(fmt.Sprintf("%s: %s", msg.Op, msg.Result), msg.Result.Failed > 0)
	m.selected = make(map[string]bool)

	if msg.Op != operations.OpDelete {
		m.remember(msg.Left, msg.Right)
	}

	// Rescan so the table shows the new state of both sides
	m.busy = true

	return m, m.compareCmd(msg.Left, msg.Right)
}

// ============================================================================
// Compare, swap, verify, history
// ============================================================================

func (m Model) startCompare(left, right string) (tea.Model, tea.Cmd) {
	if m.busy {
		m.setStatus("Still working, please wait", true)
		return m, nil
	}

	if left == "" || right == "" {
		m.setStatus("Both paths are required", true)
		return m, nil
	}

	m.busy = true
	m.failures = nil
	m.setStatus("", false)
	m.setFocus(FocusTable)

	return m, m.compareCmd(left, right)
}

func (m Model) compareCmd(left, right string) tea.Cmd {
	resolver, logger := m.resolver, m.logger

	return func() tea.Msg {
		for _, path := range []string{left, right} {
			if _, _, err := resolver.Resolve(path); err != nil {
				return shared.CompareDoneMsg{Left: left, Right: right, Err: err}
			}
		}

		scanner := compare.NewResolvingScanner(resolver)
		scanner.Logger = logger

		return shared.CompareDoneMsg{Left: left, Right: right, Rows: compare.Compare(scanner, left, right)}
	}
}

func (m Model) handleCompareDone(msg shared.CompareDoneMsg) Model {
	m.busy = false

	if msg.Err != nil {
		m.setStatus(msg.Err.Error(), true)
		return m
	}

	m.leftPath, m.rightPath = msg.Left, msg.Right
	m.rows = msg.Rows

	// Keep only selections whose entry still exists on the active side
	for rowKey := range m.selected {
		if !m.hasEntry(rowKey) {
			delete(m.selected, rowKey)
		}
	}

	m.refreshTable()
	m.remember(msg.Left, msg.Right)

	m.logger.Debug("comparison loaded",
		zap.String("left", msg.Left), zap.String("right", msg.Right), zap.Int("rows", len(msg.Rows)))

	return m
}

func (m Model) hasEntry(rowKey string) bool {
	for _, row := range m.rows {
		if row.Key() == rowKey {
			return sideEntry(row, m.activeSide) != nil
		}
	}

	return false
}

// swap exchanges the two sides. Selections follow their entries.
func (m *Model) swap() {
	if m.busy {
		m.setStatus("Still working, please wait", true)
		return
	}

	left, right := m.Inputs()
	m.leftInput.SetValue(right)
	m.rightInput.SetValue(left)

	m.leftPath, m.rightPath = m.rightPath, m.leftPath

	for i, row := range m.rows {
		m.rows[i] = compare.Row{Left: row.Right, Right: row.Left}
	}

	m.activeSide = m.activeSide.Other()
	m.refreshTable()
}

func (m Model) startVerify() (tea.Model, tea.Cmd) {
	if !m.ready() {
		return m, nil
	}

	row, ok := m.highlighted()
	if !ok || row.Left == nil || row.Right == nil {
		m.setStatus("Verify needs an entry on both sides", true)
		return m, nil
	}

	m.busy = true
	resolver := m.resolver
	left, right := m.leftPath, m.rightPath

	return m, func() tea.Msg {
		leftFS, leftDir, err := resolver.Resolve(left)
		if err != nil {
			return shared.VerifyDoneMsg{Name: row.Name(), Err: err}
		}

		rightFS, rightDir, err := resolver.Resolve(right)
		if err != nil {
			return shared.VerifyDoneMsg{Name: row.Name(), Err: err}
		}

		equal := compare.Verify(fileops.NewDualFileOps(leftFS, rightFS), leftDir, rightDir, row)

		return shared.VerifyDoneMsg{Name: row.Name(), Equal: equal}
	}
}

func (m Model) handleVerifyDone(msg shared.VerifyDoneMsg) Model {
	m.busy = false

	switch {
	case msg.Err != nil:
		m.setStatus(fmt.Sprintf("verify failed: %v", msg.Err), true)
	case msg.Equal:
		m.setStatus(msg.Name+": identical content", false)
	default:
		m.setStatus(msg.Name+": content differs", true)
	}

	return m
}

// recallHistory loads the next remembered pair into the inputs and compares it.
func (m Model) recallHistory() (tea.Model, tea.Cmd) {
	if m.history == nil || len(m.history.Entries()) == 0 {
		m.setStatus("No history yet", false)
		return m, nil
	}

	entries := m.history.Entries()
	m.historyIndex = (m.historyIndex + 1) % len(entries)

	left, right, err := history.ParsePair(entries[m.historyIndex])
	if err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}

	m.leftInput.SetValue(left)
	m.rightInput.SetValue(right)

	return m.startCompare(left, right)
}

func (m *Model) remember(left, right string) {
	if m.history == nil {
		return
	}

	if !m.history.Push(history.FormatPair(left, right)) {
		return
	}

	if err := m.history.Save(); err != nil {
		m.logger.Warn("failed to save history", zap.Error(err))
	}
}

func (m *Model) setStatus(status string, isErr bool) {
	m.status = status
	m.statusErr = isErr
}
