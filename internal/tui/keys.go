package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextFocus key.Binding
	Compare   key.Binding
	Toggle    key.Binding
	LeftSide  key.Binding
	RightSide key.Binding
	Copy      key.Binding
	Move      key.Binding
	Delete    key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
	Refresh   key.Binding
	Swap      key.Binding
	Verify    key.Binding
	History   key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		NextFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch focus"),
		),
		Compare: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "compare"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "select"),
		),
		LeftSide: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "left side"),
		),
		RightSide: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "right side"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy"),
		),
		Move: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "move"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "cancel"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Swap: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "swap sides"),
		),
		Verify: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "verify content"),
		),
		History: key.NewBinding(
			key.WithKeys("ctrl+h"),
			key.WithHelp("ctrl+h", "history"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextFocus, k.Toggle, k.Copy, k.Move, k.Delete, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextFocus, k.Compare, k.History, k.Refresh, k.Swap},
		{k.LeftSide, k.RightSide, k.Toggle, k.Verify},
		{k.Copy, k.Move, k.Delete, k.Confirm, k.Cancel},
		{k.Help, k.Quit},
	}
}
