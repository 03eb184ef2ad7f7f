package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines keybindings for the structure browser
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Home        key.Binding
	End         key.Binding
	Open        key.Binding
	Parent      key.Binding
	Refresh     key.Binding
	Download    key.Binding
	CopyPath    key.Binding
	Expand      key.Binding
	RotateLeft  key.Binding
	RotateRight key.Binding
	TiltUp      key.Binding
	TiltDown    key.Binding
	Close       key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("home/g", "go to start"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("end/G", "go to end"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter", "right", "l"),
			key.WithHelp("enter", "open"),
		),
		Parent: key.NewBinding(
			key.WithKeys("backspace", "left", "u"),
			key.WithHelp("backspace", "parent directory"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "f5"),
			key.WithHelp("r/f5", "refresh"),
		),
		Download: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "download"),
		),
		CopyPath: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy path"),
		),
		Expand: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "expand preview"),
		),
		RotateLeft: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "rotate left"),
		),
		RotateRight: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "rotate right"),
		),
		TiltUp: key.NewBinding(
			key.WithKeys("{"),
			key.WithHelp("{", "tilt up"),
		),
		TiltDown: key.NewBinding(
			key.WithKeys("}"),
			key.WithHelp("}", "tilt down"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close selection"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Parent, k.Download, k.Close, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End},
		{k.Open, k.Parent, k.Refresh, k.Close},
		{k.Download, k.CopyPath, k.Expand},
		{k.RotateLeft, k.RotateRight, k.TiltUp, k.TiltDown},
		{k.Help, k.Quit},
	}
}
