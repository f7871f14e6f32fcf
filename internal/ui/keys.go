package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	Back    key.Binding
	NextTag key.Binding
	PrevTag key.Binding
	Search  key.Binding
	Theme   key.Binding
	Reload  key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:    key.NewBinding(key.WithKeys("esc", "backspace", "h"), key.WithHelp("esc", "back")),
		NextTag: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tag")),
		PrevTag: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tag")),
		Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Theme:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// listKeys is the help shown on the list screen.
type listKeys keyMap

func (k listKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.NextTag, k.Search, k.Theme, k.Quit}
}

func (k listKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open},
		{k.NextTag, k.PrevTag, k.Search},
		{k.Theme, k.Reload, k.Quit},
	}
}

// postKeys is the help shown on the post screen.
type postKeys keyMap

func (k postKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Back, k.Theme, k.Quit}
}

func (k postKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Back, k.Theme, k.Quit}}
}
