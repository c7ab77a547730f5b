// Package detail renders a single run with its scenario results.
package detail

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/cucumber-basket/internal/keys"
	"github.com/nhle/cucumber-basket/internal/model"
	"github.com/nhle/cucumber-basket/internal/theme"
)

// BackMsg signals the parent to navigate back to the run list.
type BackMsg struct{}

// ReportMsg signals the parent to publish the current run to Jira.
type ReportMsg struct {
	RunID string
}

// Model is the run detail view component.
type Model struct {
	run      *model.Run
	results  []model.ScenarioResult
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
	loading  bool
}

// New creates a new detail view model.
func New(keys *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     keys,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.Report):
			if m.run != nil {
				id := m.run.ID
				return m, func() tea.Msg {
					return ReportMsg{RunID: id}
				}
			}
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.loading {
		loadingStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return loadingStyle.Render("Loading run...")
	}

	if m.run == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("No run selected")
	}

	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.run == nil {
		return ""
	}

	run := m.run
	var sections []string

	// Title
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(run.Suite+" suite"))

	// Badges line: outcome + suite + pass rate
	var outcomeBadge string
	if run.Succeeded() {
		outcomeBadge = theme.StatusStyle(model.StatusPassed).Render("PASS")
	} else {
		outcomeBadge = theme.StatusStyle(model.StatusFailed).Render("FAIL")
	}

	suiteBadge := theme.SuiteLabelStyle(run.Suite).Render(run.Suite)

	rateBadge := theme.PassRateStyle(run.PassRate()).Render(
		fmt.Sprintf("%.1f%%", run.PassRate()),
	)

	badgeLine := lipgloss.JoinHorizontal(
		lipgloss.Top, outcomeBadge, "  ", suiteBadge, "  ", rateBadge,
	)
	sections = append(sections, badgeLine)
	sections = append(sections, "")

	// Metadata table
	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	sections = append(sections, fmt.Sprintf(
		"%s  %s",
		metaStyle.Render("Environment:"),
		valStyle.Render(run.Environment),
	))
	if !run.StartedAt.IsZero() {
		sections = append(sections, fmt.Sprintf(
			"%s      %s",
			metaStyle.Render("Started:"),
			valStyle.Render(run.StartedAt.Format("2006-01-02 15:04:05")),
		))
	}
	if !run.FinishedAt.IsZero() {
		sections = append(sections, fmt.Sprintf(
			"%s     %s",
			metaStyle.Render("Finished:"),
			valStyle.Render(run.FinishedAt.Format("2006-01-02 15:04:05")),
		))
		sections = append(sections, fmt.Sprintf(
			"%s     %s",
			metaStyle.Render("Duration:"),
			valStyle.Render(run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String()),
		))
	}
	sections = append(sections, fmt.Sprintf(
		"%s    %s",
		metaStyle.Render("Scenarios:"),
		valStyle.Render(fmt.Sprintf(
			"%d total, %d passed, %d failed",
			run.Total, run.Passed, run.Failed,
		)),
	))

	// Separator
	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", min(m.width-4, 80)))
	sections = append(sections, "")
	sections = append(sections, separator)
	sections = append(sections, "")

	// Scenario results
	resultHeaderStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite)

	sections = append(sections, resultHeaderStyle.Render(
		fmt.Sprintf("Scenarios (%d)", len(m.results)),
	))
	sections = append(sections, "")

	nameStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	durStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	failStyle := lipgloss.NewStyle().Foreground(theme.ColorRed)

	if len(m.results) == 0 {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No scenario results recorded"))
	}

	for _, res := range m.results {
		header := fmt.Sprintf(
			"%s %s  %s",
			theme.StatusStyle(res.Status).Render(res.Status),
			nameStyle.Render(res.Name),
			durStyle.Render(res.Duration.Round(time.Millisecond).String()),
		)
		sections = append(sections, header)

		if res.FailureMessage != "" {
			sections = append(sections, failStyle.Render("  "+res.FailureMessage))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetRun updates the run being displayed and re-renders the content.
func (m *Model) SetRun(run *model.Run, results []model.ScenarioResult) {
	m.run = run
	m.results = results
	m.loading = false
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// SetLoading sets the loading state.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
}
