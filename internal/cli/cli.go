// Package cli runs the non-interactive subcommands: compare, verify, copy,
// move, delete and history.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"go.uber.org/zap"

	"github.com/joe/folder-compare/internal/compare"
	"github.com/joe/folder-compare/internal/config"
	"github.com/joe/folder-compare/internal/history"
	"github.com/joe/folder-compare/internal/operations"
	fcerrors "github.com/joe/folder-compare/pkg/errors"
	"github.com/joe/folder-compare/pkg/fileops"
	"github.com/joe/folder-compare/pkg/filesystem"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1 // arguments, preconditions or connections failed; nothing was touched
	ExitPartial = 2 // some items failed, or verify found different content
)

// App carries what the subcommands share.
type App struct {
	Resolver filesystem.Resolver
	History  *history.Store // may be nil
	Logger   *zap.Logger
	Out      io.Writer
	Err      io.Writer
}

// Run executes the selected non-interactive subcommand and returns the exit code.
func (a *App) Run(cfg *config.Config) int {
	switch {
	case cfg.Compare != nil:
		return a.compare(cfg.Compare)
	case cfg.Verify != nil:
		return a.verify(cfg.Verify)
	case cfg.Copy != nil:
		return a.transfer(operations.OpCopy, cfg.Copy)
	case cfg.Move != nil:
		return a.transfer(operations.OpMove, cfg.Move)
	case cfg.Delete != nil:
		return a.delete(cfg.Delete)
	case cfg.History != nil:
		return a.history()
	default:
		a.errorf("no command selected")
		return ExitFailure
	}
}

func (a *App) compare(cmd *config.CompareCmd) int {
	// Resolve up front so connection failures are reported instead of
	// showing up as an empty side.
	for _, path := range []string{cmd.Left, cmd.Right} {
		if _, _, err := a.Resolver.Resolve(path); err != nil {
			a.errorf("%v", err)
			return ExitFailure
		}
	}

	scanner := compare.NewResolvingScanner(a.Resolver)
	scanner.Logger = a.logger()

	if len(cmd.Ignore) > 0 {
		scanner.Filter = compare.NewGlobFilter(cmd.Ignore...)
	}

	rows := compare.Compare(scanner, cmd.Left, cmd.Right)
	a.logger().Info("compared",
		zap.String("left", cmd.Left), zap.String("right", cmd.Right), zap.Int("rows", len(rows)))

	RenderRows(a.Out, rows, RenderOptions{Human: cmd.Human, OnlyDiff: cmd.OnlyDiff, Left: cmd.Left, Right: cmd.Right})

	summary := compare.Summarize(rows)
	_, _ = fmt.Fprintf(a.Out, "%d same, %d different, %d left only, %d right only\n",
		summary.Same, summary.Different, summary.LeftOnly, summary.RightOnly)

	a.remember(cmd.Left, cmd.Right)

	return ExitOK
}

func (a *App) verify(cmd *config.VerifyCmd) int {
	leftFS, leftDir, err := a.Resolver.Resolve(cmd.Left)
	if err != nil {
		a.errorf("%v", err)
		return ExitFailure
	}

	rightFS, rightDir, err := a.Resolver.Resolve(cmd.Right)
	if err != nil {
		a.errorf("%v", err)
		return ExitFailure
	}

	left := compare.NewScanner(leftFS).Scan(leftDir)
	right := compare.NewScanner(rightFS).Scan(rightDir)

	row := compare.Row{}
	if entry, ok := left.Get(cmd.Name); ok {
		row.Left = &entry
	}

	if entry, ok := right.Get(cmd.Name); ok {
		row.Right = &entry
	}

	if row.Left == nil || row.Right == nil {
		a.errorf("%s is not present on both sides", cmd.Name)
		return ExitFailure
	}

	if compare.Verify(fileops.NewDualFileOps(leftFS, rightFS), leftDir, rightDir, row) {
		_, _ = fmt.Fprintf(a.Out, "%s: identical content\n", row.Name())
		a.remember(cmd.Left, cmd.Right)

		return ExitOK
	}

	_, _ = fmt.Fprintf(a.Out, "%s: content differs\n", row.Name())
	a.remember(cmd.Left, cmd.Right)

	return ExitPartial
}

func (a *App) transfer(op operations.Op, cmd *config.TransferCmd) int {
	engine, src, dst, err := operations.NewResolvedEngine(a.Resolver, cmd.Source, cmd.Dest)
	if err != nil {
		a.errorf("%v", err)
		return ExitFailure
	}

	engine.Logger = a.logger()
	targets := engine.Targets(src, cmd.Names)

	var result operations.Result
	if op == operations.OpMove {
		result, err = engine.Move(targets, src, dst)
	} else {
		result, err = engine.Copy(targets, src, dst)
	}

	if err != nil {
		a.errorf("%v", err)
		return ExitFailure
	}

	a.remember(cmd.Source, cmd.Dest)

	return a.report(op, result)
}

func (a *App) delete(cmd *config.DeleteCmd) int {
	engine, dir, _, err := operations.NewResolvedEngine(a.Resolver, cmd.Dir, cmd.Dir)
	if err != nil {
		a.errorf("%v", err)
		return ExitFailure
	}

	engine.Logger = a.logger()

	result, err := engine.Delete(engine.Targets(dir, cmd.Names), dir)
	if err != nil {
		a.errorf("%v", err)
		return ExitFailure
	}

	return a.report(operations.OpDelete, result)
}

func (a *App) history() int {
	if a.History == nil {
		return ExitOK
	}

	for i, entry := range a.History.Entries() {
		_, _ = fmt.Fprintf(a.Out, "%2d  %s\n", i+1, entry)
	}

	return ExitOK
}

// report prints a batch result and picks the exit code.
func (a *App) report(op operations.Op, result operations.Result) int {
	_, _ = fmt.Fprintf(a.Out, "%s: %s\n", op, result)

	for _, failure := range result.Failures {
		a.errorf("%s: %v", failure.Name, failure.Err)

		var actionable fcerrors.ActionableError
		if errors.As(failure.Err, &actionable) {
			if suggestions := fcerrors.FormatSuggestions(actionable); suggestions != "" {
				_, _ = fmt.Fprintln(a.Err, suggestions)
			}
		}
	}

	if result.Failed > 0 {
		return ExitPartial
	}

	return ExitOK
}

// remember pushes the pair into the history and saves it.
func (a *App) remember(left, right string) {
	if a.History == nil {
		return
	}

	if !a.History.Push(history.FormatPair(left, right)) {
		return
	}

	if err := a.History.Save(); err != nil {
		a.logger().Warn("failed to save history", zap.Error(err))
	}
}

func (a *App) errorf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.Err, "Error: "+format+"\n", args...)
}

func (a *App) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}

	return a.Logger
}

// RenderOptions controls RenderRows.
type RenderOptions struct {
	Human    bool
	OnlyDiff bool
	Left     string
	Right    string
}

// RenderRows writes the paired rows as a table. Colors are used only when w
// is a terminal.
func RenderRows(w io.Writer, rows []compare.Row, opts RenderOptions) {
	renderer := lipgloss.NewRenderer(w)
	header := renderer.NewStyle().Bold(true).Padding(0, 1)
	cell := renderer.NewStyle().Padding(0, 1)

	statusStyles := map[compare.Status]lipgloss.Style{
		compare.StatusSame:      cell,
		compare.StatusDifferent: cell.Foreground(lipgloss.Color("214")),
		compare.StatusLeftOnly:  cell.Foreground(lipgloss.Color("39")),
		compare.StatusRightOnly: cell.Foreground(lipgloss.Color("170")),
	}

	size := compare.SizeDisplay
	if opts.Human {
		size = compare.HumanSizeDisplay
	}

	var (
		data     [][]string
		statuses []compare.Status
	)

	for _, row := range rows {
		status := row.Status()
		if opts.OnlyDiff && status == compare.StatusSame {
			continue
		}

		data = append(data, append(append(side(row.Left, size), status.String()), side(row.Right, size)...))
		statuses = append(statuses, status)
	}

	leftTitle := firstNonEmpty(opts.Left, "Left")
	rightTitle := firstNonEmpty(opts.Right, "Right")

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(renderer.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(leftTitle, "Size", "Modified", "Status", rightTitle, "Size", "Modified").
		Rows(data...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow || row < 0 || row >= len(statuses) {
				return header
			}

			return statusStyles[statuses[row]]
		})

	_, _ = fmt.Fprintln(w, t.Render())
}

func side(entry *compare.Entry, size func(compare.Entry) string) []string {
	if entry == nil {
		return []string{"", "", ""}
	}

	return []string{compare.DisplayName(*entry), size(*entry), compare.ModifiedDisplay(*entry)}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}

	return ""
}
