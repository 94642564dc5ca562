package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Back      key.Binding
	Up        key.Binding
	Down      key.Binding
	Enter     key.Binding

	TabReservations key.Binding
	TabMenu         key.Binding
	TabPayments     key.Binding

	New    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Search key.Binding
	Filter key.Binding
	Export key.Binding

	AddItem key.Binding
	Prepay  key.Binding
	Advance key.Binding
	Cancel  key.Binding

	Toggle key.Binding
	Image  key.Binding
	Import key.Binding
	Refund key.Binding

	Settings key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),

		TabReservations: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reservations")),
		TabMenu:         key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "menu")),
		TabPayments:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "payments")),

		New:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete: key.NewBinding(key.WithKeys("backspace", "delete"), key.WithHelp("del", "delete")),
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Filter: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status filter")),
		Export: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "export day")),

		AddItem: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "add item")),
		Prepay:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prepay")),
		Advance: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "advance status")),
		Cancel:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "cancel")),

		Toggle: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "toggle available")),
		Image:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload image")),
		Import: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import menu")),
		Refund: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "refund")),

		Settings: key.NewBinding(key.WithKeys(","), key.WithHelp(",", "settings")),
	}
}

// helpLine renders a compact footer hint from a set of bindings.
func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, "["+h.Key+"] "+h.Desc)
	}
	return helpStyle.Render(strings.Join(parts, "  "))
}
