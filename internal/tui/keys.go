package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit       key.Binding
	Abort      key.Binding
	DayScale   key.Binding
	WeekScale  key.Binding
	MonthScale key.Binding
	Left       key.Binding
	Right      key.Binding
	Up         key.Binding
	Down       key.Binding
	Today      key.Binding
	Reload     key.Binding
}

var keys = keyMap{
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Abort:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel gesture")),
	DayScale:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "days")),
	WeekScale:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "weeks")),
	MonthScale: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "months")),
	Left:       key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/l", "scroll")),
	Right:      key.NewBinding(key.WithKeys("l", "right")),
	Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("j/k", "lanes")),
	Down:       key.NewBinding(key.WithKeys("j", "down")),
	Today:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
	Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
}

// helpLine lists the bindings shown in the status bar.
func (k keyMap) helpLine() string {
	var s string
	for _, b := range []key.Binding{k.DayScale, k.WeekScale, k.MonthScale, k.Left, k.Up, k.Today, k.Reload, k.Quit} {
		h := b.Help()
		if s != "" {
			s += " "
		}
		s += h.Key + ":" + h.Desc
	}
	return s
}
