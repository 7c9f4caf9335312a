package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the picker's key bindings. Printable keys go to the input.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Finish key.Binding
	Close  key.Binding
	Remove key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑/ctrl+p", "previous option"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓/ctrl+n", "next option"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Finish: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "done"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close menu / cancel"),
		),
		Remove: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("backspace", "remove last selection"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Finish, k.Help}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Select, k.Remove, k.Finish},
		{k.Close, k.Help, k.Quit},
	}
}
