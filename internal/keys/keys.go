package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Search
	Search key.Binding

	// Help toggle
	Help key.Binding

	// Re-run suites
	Run key.Binding

	// Suite filters
	FilterBasket  key.Binding
	FilterWeb     key.Binding
	FilterInstant key.Binding

	// Show only failed runs
	FailedOnly key.Binding

	// Jira actions
	Report key.Binding
	Setup  key.Binding

	// Sort
	CycleSort key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open run"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Run: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "run suites"),
		),
		FilterBasket: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "basket runs"),
		),
		FilterWeb: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "web runs"),
		),
		FilterInstant: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "instant answer runs"),
		),
		FailedOnly: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "failed only"),
		),
		Report: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "publish to Jira"),
		),
		Setup: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Jira setup"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "cycle sort"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.Back,
		k.Quit, k.Help, k.Run,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit},
		{k.Search, k.Help, k.Run, k.CycleSort},
		{k.FilterBasket, k.FilterWeb, k.FilterInstant, k.FailedOnly},
		{k.Report, k.Setup},
	}
}
