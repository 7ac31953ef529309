package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/dreamstory/internal/sim"
)

// KeyMap defines the key bindings for the game screen.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Start  key.Binding
	Room   key.Binding
	Pause  key.Binding
	Faster key.Binding
	Slower key.Binding
	Save   key.Binding
	Load   key.Binding
	Reset  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Room, k.Pause, k.Save, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Start, k.Room},
		{k.Pause, k.Faster, k.Slower},
		{k.Save, k.Load, k.Reset},
		{k.Help, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "next"),
		),
		Start: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "do activity"),
		),
		Room: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5"),
			key.WithHelp("1-5", "change room"),
		),
		Pause: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space/p", "pause"),
		),
		Faster: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "faster"),
		),
		Slower: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "slower"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save"),
		),
		Load: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "load"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "new game"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// roomForKey maps the digit keys onto sim.Rooms in display order.
func roomForKey(msg tea.KeyMsg) (sim.Room, bool) {
	s := msg.String()
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return "", false
	}
	i := int(s[0] - '1')
	if i >= len(sim.Rooms) {
		return "", false
	}
	return sim.Rooms[i], true
}

// speedSteps are the multipliers the +/- keys move between.
var speedSteps = []float64{0.25, 0.5, 1, 2, 4, 8, 16}

// nextSpeed returns the neighbouring step of current in direction dir (+1 or -1).
// Speeds between steps snap to the nearest step in that direction.
func nextSpeed(current float64, dir int) float64 {
	if dir > 0 {
		for _, s := range speedSteps {
			if s > current {
				return s
			}
		}
		return speedSteps[len(speedSteps)-1]
	}
	for i := len(speedSteps) - 1; i >= 0; i-- {
		if speedSteps[i] < current {
			return speedSteps[i]
		}
	}
	return speedSteps[0]
}
