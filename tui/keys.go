package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Open     key.Binding
	Back     key.Binding
	Search   key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	Sort     key.Binding
	Filter   key.Binding
	Locale   key.Binding
	Login    key.Binding
	Logout   key.Binding
	Next     key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		PrevPage: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev page")),
		NextPage: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next page")),
		Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Filter:   key.NewBinding(key.WithKeys("0", "1", "2", "3", "4", "5"), key.WithHelp("0-5", "rating")),
		Locale:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "language")),
		Login:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "sign in")),
		Logout:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sign out")),
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) catalogHelp() []key.Binding {
	return []key.Binding{k.Search, k.Up, k.Down, k.Open, k.PrevPage, k.NextPage, k.Sort, k.Locale, k.Login, k.Quit}
}

func (k keyMap) productHelp() []key.Binding {
	return []key.Binding{k.Filter, k.PrevPage, k.NextPage, k.Back, k.Locale, k.Quit}
}

func (k keyMap) loginHelp() []key.Binding {
	return []key.Binding{k.Next, k.Open, k.Back}
}
