package runlist

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/cucumber-basket/internal/model"
	"github.com/nhle/cucumber-basket/internal/theme"
)

// RunItem wraps a model.Run so it can be used in a bubbles/list.
type RunItem struct {
	Run model.Run
}

// FilterValue returns the string used for fuzzy filtering.
func (i RunItem) FilterValue() string { return i.Run.Suite }

// Title returns the suite name for the list.
func (i RunItem) Title() string { return i.Run.Suite }

// Description returns a short summary line for the list.
func (i RunItem) Description() string {
	return fmt.Sprintf(
		"%d/%d passed | %s",
		i.Run.Passed, i.Run.Total, relativeTime(i.Run.StartedAt),
	)
}

// RunDelegate implements list.ItemDelegate for rendering run rows.
type RunDelegate struct{}

// Height returns the number of lines each item takes.
func (d RunDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d RunDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused for now).
func (d RunDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single run row.
func (d RunDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	runItem, ok := item.(RunItem)
	if !ok {
		return
	}

	run := runItem.Run
	isSelected := index == m.Index()

	// Outcome badge
	var outcomeBadge string
	switch {
	case run.FinishedAt.IsZero():
		outcomeBadge = theme.StatusStyle("").Render("RUNNING")
	case run.Succeeded():
		outcomeBadge = theme.StatusStyle(model.StatusPassed).Render("PASS")
	default:
		outcomeBadge = theme.StatusStyle(model.StatusFailed).Render("FAIL")
	}

	// Suite badge
	suiteBadge := theme.SuiteLabelStyle(run.Suite).Render(run.Suite)

	// Pass rate
	rate := run.PassRate()
	rateBadge := theme.PassRateStyle(rate).Render(fmt.Sprintf("%.0f%%", rate))

	counts := fmt.Sprintf("%d/%d", run.Passed, run.Total)

	timeStr := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(relativeTime(run.StartedAt))

	line := fmt.Sprintf(
		"%s %s %s %s  %s",
		outcomeBadge, suiteBadge, rateBadge, counts, timeStr,
	)

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case d < 24*time.Hour:
		hrs := int(d.Hours())
		if hrs == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hrs)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	default:
		weeks := int(d.Hours() / 24 / 7)
		if weeks == 1 {
			return "1w ago"
		}
		return fmt.Sprintf("%dw ago", weeks)
	}
}
