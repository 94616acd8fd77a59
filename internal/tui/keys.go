package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Add, Edit, Toggle, Delete, Refresh, Dismiss key.Binding
	Home, Todos, Help, Quit                     key.Binding
}

var keys = keyMap{
	Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
	Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Dismiss: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss toast")),
	Home:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "home")),
	Todos:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "todos")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// listKeys are shown in the list's own help line.
func (k keyMap) listKeys(home bool) []key.Binding {
	out := []key.Binding{k.Add, k.Edit}
	if home {
		out = append(out, k.Toggle)
	}
	return append(out, k.Delete, k.Refresh, k.Dismiss, k.Home, k.Todos, k.Help)
}

func (k keyMap) all() []key.Binding {
	return []key.Binding{
		k.Add, k.Edit, k.Toggle, k.Delete, k.Refresh, k.Dismiss,
		k.Home, k.Todos, k.Help, k.Quit,
	}
}
