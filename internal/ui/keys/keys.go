package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the application key bindings
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Enter    key.Binding
	Back     key.Binding
	Quit     key.Binding
	Tab      key.Binding
	New      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Search   key.Binding
	Filter   key.Binding
	Toggle   key.Binding
	Comments key.Binding
	Refresh  key.Binding
	Theme    key.Binding
	Sidebar  key.Binding

	// Page navigation
	GoDashboard key.Binding
	GoTasks     key.Binding
	GoStats     key.Binding
	GoAdmin     key.Binding
	GoLogout    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle done"),
		),
		Comments: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "comments"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Theme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "theme"),
		),
		Sidebar: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "sidebar"),
		),
		GoDashboard: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "dashboard"),
		),
		GoTasks: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "tasks"),
		),
		GoStats: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "statistics"),
		),
		GoAdmin: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "admin"),
		),
		GoLogout: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "logout"),
		),
	}
}
