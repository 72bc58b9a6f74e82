package monitor

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Torch       key.Binding
	Focus       key.Binding
	Record      key.Binding
	NightVision key.Binding
	Overlay     key.Binding
	Motion      key.Binding
	ZoomIn      key.Binding
	ZoomOut     key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Torch, k.Record, k.ZoomIn, k.ZoomOut, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Torch, k.Focus, k.Record},
		{k.NightVision, k.Overlay, k.Motion},
		{k.ZoomIn, k.ZoomOut},
		{k.Help, k.Quit},
	}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Torch: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "torch"),
		),
		Focus: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "focus"),
		),
		Record: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "record"),
		),
		NightVision: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "night vision"),
		),
		Overlay: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "overlay"),
		),
		Motion: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "motion detect"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "zoom out"),
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
