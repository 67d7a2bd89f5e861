package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	Back  key.Binding

	// Screens
	Books      key.Binding
	Borrows    key.Binding
	Categories key.Binding
	Users      key.Binding
	Fines      key.Binding

	// Actions
	Quit     key.Binding
	Filter   key.Binding
	Search   key.Binding
	Refresh  key.Binding
	New      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Borrow   key.Binding
	Return   key.Binding
	Email    key.Binding
	PayFine  key.Binding
	CheckDue key.Binding
	Logout   key.Binding
	Escape   key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("h", "left", "backspace"),
			key.WithHelp("h/←", "back"),
		),
		Books: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "books"),
		),
		Borrows: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "loans"),
		),
		Categories: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "categories"),
		),
		Users: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "users"),
		),
		Fines: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "fines"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Search: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "server search"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
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
			key.WithKeys("x"),
			key.WithHelp("x", "delete"),
		),
		Borrow: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "borrow"),
		),
		Return: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "return"),
		),
		Email: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "email borrower"),
		),
		PayFine: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "mark fine paid"),
		),
		CheckDue: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "check due books"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "logout"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}
