// Package runlist renders the scrollable history of feature suite runs.
package runlist

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/cucumber-basket/internal/keys"
	"github.com/nhle/cucumber-basket/internal/model"
	"github.com/nhle/cucumber-basket/internal/store"
	"github.com/nhle/cucumber-basket/internal/theme"
)

// RunsLoadedMsg is sent when runs have been loaded from the store.
type RunsLoadedMsg struct {
	Runs []model.Run
}

// SelectedRunMsg is sent when a user selects a run to view its scenarios.
type SelectedRunMsg struct {
	RunID string
}

// sortModes defines the available sort modes cycled by Tab.
var sortModes = []string{
	"started_at",
	"suite",
	"failed",
}

// Model is the run history list view component.
type Model struct {
	list         list.Model
	store        store.Store
	keys         *keys.KeyMap
	filter       store.RunFilter
	suiteFilters map[string]bool
	sortIndex    int
	searchMode   bool
	searchInput  textinput.Model
	width        int
	height       int
}

// New creates a new run list model.
func New(s store.Store, k *keys.KeyMap, width, height int) Model {
	delegate := RunDelegate{}
	l := list.New([]list.Item{}, delegate, width, height-2)
	l.Title = "Runs"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "filter by suite..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:  l,
		store: s,
		keys:  k,
		filter: store.RunFilter{
			SortBy:   "started_at",
			SortDesc: true,
		},
		suiteFilters: make(map[string]bool),
		sortIndex:    0,
		searchInput:  si,
		width:        width,
		height:       height,
	}
}

// Init returns a command that loads the initial set of runs.
func (m Model) Init() tea.Cmd {
	return m.LoadRuns()
}

// Update handles messages for the run list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RunsLoadedMsg:
		items := make([]list.Item, len(msg.Runs))
		for i, run := range msg.Runs {
			items[i] = RunItem{Run: run}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	// Delegate to list model for other messages
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		suite := m.searchInput.Value()
		if suite != "" {
			m.filter.Suite = &suite
		} else {
			m.filter.Suite = nil
		}
		return m, m.LoadRuns()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.filter.Suite = nil
		return m, m.LoadRuns()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(RunItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedRunMsg{RunID: item.Run.ID}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.FilterBasket):
		m.toggleSuiteFilter("basket")
		return m, m.LoadRuns()

	case key.Matches(msg, m.keys.FilterWeb):
		m.toggleSuiteFilter("web")
		return m, m.LoadRuns()

	case key.Matches(msg, m.keys.FilterInstant):
		m.toggleSuiteFilter("instant")
		return m, m.LoadRuns()

	case key.Matches(msg, m.keys.FailedOnly):
		m.filter.FailedOnly = !m.filter.FailedOnly
		return m, m.LoadRuns()

	case key.Matches(msg, m.keys.CycleSort):
		m.sortIndex = (m.sortIndex + 1) % len(sortModes)
		m.filter.SortBy = sortModes[m.sortIndex]
		return m, m.LoadRuns()
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// toggleSuiteFilter toggles a suite filter on or off and updates the
// filter struct accordingly.
func (m *Model) toggleSuiteFilter(suite string) {
	if m.suiteFilters[suite] {
		delete(m.suiteFilters, suite)
	} else {
		m.suiteFilters[suite] = true
	}

	// Count active suite filters
	var active []string
	for s, on := range m.suiteFilters {
		if on {
			active = append(active, s)
		}
	}

	// If exactly one suite filter is active, apply it; otherwise show all
	if len(active) == 1 {
		s := active[0]
		m.filter.Suite = &s
	} else {
		m.filter.Suite = nil
	}
}

// View renders the run list view.
func (m Model) View() string {
	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	return m.list.View()
}

// renderEmptyState shows guidance text when no runs are available.
func (m Model) renderEmptyState() string {
	hasFilters := m.filter.Suite != nil || m.filter.FailedOnly

	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if hasFilters {
		return style.Render("No matching runs.\nTry adjusting your filters.")
	}

	return style.Render(
		"No runs yet.\n\n" +
			"Press r to run the feature suites.",
	)
}

// LoadRuns returns a tea.Cmd that queries the store with the current filter.
func (m Model) LoadRuns() tea.Cmd {
	filter := m.filter
	s := m.store
	return func() tea.Msg {
		runs, err := s.GetRuns(context.Background(), filter)
		if err != nil {
			return RunsLoadedMsg{Runs: nil}
		}
		return RunsLoadedMsg{Runs: runs}
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
