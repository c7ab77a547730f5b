// Package app holds the root Bubble Tea model. It routes between the
// run list, run detail, help overlay, and Jira setup form, and owns the
// watch poller that re-runs the feature suites.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/nhle/cucumber-basket/internal/credential"
	"github.com/nhle/cucumber-basket/internal/features"
	"github.com/nhle/cucumber-basket/internal/keys"
	"github.com/nhle/cucumber-basket/internal/model"
	"github.com/nhle/cucumber-basket/internal/report/jira"
	"github.com/nhle/cucumber-basket/internal/runner"
	"github.com/nhle/cucumber-basket/internal/search/instant"
	"github.com/nhle/cucumber-basket/internal/search/web"
	"github.com/nhle/cucumber-basket/internal/store"
	"github.com/nhle/cucumber-basket/internal/ui"
	"github.com/nhle/cucumber-basket/internal/ui/detail"
	helpview "github.com/nhle/cucumber-basket/internal/ui/help"
	"github.com/nhle/cucumber-basket/internal/ui/runlist"
	setupview "github.com/nhle/cucumber-basket/internal/ui/setup"
	"github.com/nhle/cucumber-basket/internal/watch"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewDetail
	ViewHelp
	ViewSetup
)

// runLoadedMsg carries a run and its scenario results from the store.
type runLoadedMsg struct {
	run     *model.Run
	results []model.ScenarioResult
	err     error
}

// reportedMsg carries the result of publishing a run to Jira.
type reportedMsg struct {
	issueKey string
	err      error
}

// Model is the root Bubble Tea model that manages view routing, layout,
// and access to the persistence layer.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	config       *model.AppConfig
	configPath   string
	store        store.Store
	keys         *keys.KeyMap
	log          zerolog.Logger
	runList      runlist.Model
	detail       detail.Model
	helpView     helpview.Model
	setupView    setupview.Model
	poller       *watch.Poller
	ready        bool
	statusMsg    string
}

// New creates a new root application model. Suites run against the
// endpoints in cfg and their results land in s.
func New(cfg *model.AppConfig, configPath string, s store.Store, log zerolog.Logger) Model {
	k := keys.DefaultKeyMap()

	r := newRunner(cfg, s, log)
	p := watch.New(r, time.Duration(cfg.WatchIntervalSec)*time.Second)
	registerSuites(p, cfg, log)

	return Model{
		currentView: ViewList,
		config:      cfg,
		configPath:  configPath,
		store:       s,
		keys:        k,
		log:         log.With().Str("component", "app").Logger(),
		runList:     runlist.New(s, k, 80, 24),
		detail:      detail.New(k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		setupView:   setupview.New(cfg, configPath, k, 80, 24),
		poller:      p,
	}
}

// newRunner builds the suite runner, attaching the Jira reporter when
// reporting is configured and a token is available.
func newRunner(cfg *model.AppConfig, s store.Store, log zerolog.Logger) *runner.Runner {
	opts := []runner.Option{
		runner.WithStore(s),
		runner.WithOutput(io.Discard),
	}

	if cfg.Jira.Enabled && cfg.Jira.Configured() {
		if token := credential.JiraToken(); token != "" {
			client := jira.NewClient(cfg.Jira.Server, cfg.Jira.Email, token)
			reporter := jira.NewReporter(client, cfg.Jira.ProjectKey, "", log)
			opts = append(opts, runner.WithReporter(reporter))
		}
	}

	return runner.New(log, opts...)
}

// registerSuites adds the three feature suites to the watch poller.
func registerSuites(p *watch.Poller, cfg *model.AppConfig, log zerolog.Logger) {
	timeout := time.Duration(cfg.Search.TimeoutSec) * time.Second

	p.RegisterSuite(features.Basket(cfg.Basket.Capacity))
	p.RegisterSuite(features.Web(
		web.NewHTTPSearcher(cfg.Search.WebBaseURL, timeout, log),
	))
	p.RegisterSuite(features.Instant(
		instant.NewClient(cfg.Search.APIBaseURL, timeout, log),
		log,
	))
}

// Init loads the run history and starts the watch poller.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.runList.Init(),
		m.poller.Start(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.runList.SetSize(contentWidth, contentHeight)
		m.detail.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.setupView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case watch.RunResultMsg:
		if msg.Error != nil {
			m.statusMsg = fmt.Sprintf("%s suite failed to run: %v", msg.Suite, msg.Error)
		} else {
			m.statusMsg = ""
		}
		// A run finished. Reload the history and keep listening.
		return m, tea.Batch(
			m.runList.LoadRuns(),
			m.poller.WaitForNextResult(),
		)

	case runlist.SelectedRunMsg:
		m.previousView = m.currentView
		m.currentView = ViewDetail
		m.detail.SetLoading(true)
		return m, m.loadRun(msg.RunID)

	case runLoadedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Loading run failed: %v", msg.err)
		}
		m.detail.SetRun(msg.run, msg.results)
		return m, nil

	case detail.BackMsg:
		m.currentView = ViewList
		return m, m.runList.LoadRuns()

	case detail.ReportMsg:
		return m, m.reportRun(msg.RunID)

	case reportedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Jira report failed: %v", msg.err)
		} else {
			m.statusMsg = fmt.Sprintf("Reported to Jira as %s", msg.issueKey)
		}
		return m, nil

	case setupview.DoneMsg:
		m.currentView = ViewList
		if msg.Saved {
			// The reporter settings changed; rebuild the runner so the
			// next runs report to the new project.
			m.poller.Stop()
			r := newRunner(m.config, m.store, m.log)
			m.poller = watch.New(
				r, time.Duration(m.config.WatchIntervalSec)*time.Second,
			)
			registerSuites(m.poller, m.config, m.log)
			m.statusMsg = "Jira reporting configured"
			return m, m.poller.Start()
		}
		return m, nil

	case tea.KeyMsg:
		// Global keys that work regardless of current view
		switch msg.String() {
		case "ctrl+c":
			m.poller.Stop()
			return m, tea.Quit

		case "q":
			if m.currentView == ViewList {
				m.poller.Stop()
				return m, tea.Quit
			}

		case "?":
			if m.currentView == ViewSetup {
				break
			}
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil

		case "r":
			if m.currentView == ViewList {
				m.poller.RefreshAll()
				return m, nil
			}

		case "s":
			if m.currentView == ViewList {
				m.previousView = m.currentView
				m.currentView = ViewSetup
				m.setupView = setupview.New(
					m.config, m.configPath, m.keys,
					m.layout.ContentWidth(), m.layout.ContentHeight(),
				)
				return m, m.setupView.Init()
			}
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.runList, cmd = m.runList.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewSetup:
		m.setupView, cmd = m.setupView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Cucumber Basket", m.watchStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.runList.View()
	case ViewDetail:
		return m.detail.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewSetup:
		return m.setupView.View()
	default:
		return ""
	}
}

// watchStatus returns a short string describing the combined watch state.
func (m Model) watchStatus() string {
	statuses := m.poller.GetStatuses()
	if len(statuses) == 0 {
		return "no suites"
	}

	running := 0
	errCount := 0
	var failing []string
	for _, s := range statuses {
		switch s.State {
		case watch.SuiteRunning:
			running++
		case watch.SuiteError:
			errCount++
			failing = append(failing, s.Suite)
		}
	}

	if running > 0 {
		return fmt.Sprintf("running (%d)", running)
	}
	if errCount > 0 {
		return "broken: " + joinNames(failing)
	}
	return "idle"
}

// joinNames joins suite names for display.
func joinNames(names []string) string {
	if len(names) == 0 {
		return ""
	}
	result := names[0]
	for i := 1; i < len(names); i++ {
		result += ", " + names[i]
	}
	return result
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	// Show transient status prominently when present.
	if m.statusMsg != "" && m.currentView == ViewList {
		return m.statusMsg
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewDetail:
		return "esc back | p publish to Jira | j/k scroll"
	case ViewSetup:
		return "enter submit | esc cancel"
	default:
		return "q quit | ? help | r run | / search | f failed | 1-3 suite | tab sort"
	}
}

// loadRun returns a command that loads a run and its scenario results.
func (m Model) loadRun(runID string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx := context.Background()
		run, err := s.GetRunByID(ctx, runID)
		if err != nil {
			return runLoadedMsg{err: fmt.Errorf("loading run %s: %w", runID, err)}
		}
		if run == nil {
			return runLoadedMsg{err: fmt.Errorf("run %s not found", runID)}
		}
		results, err := s.GetScenarioResults(ctx, runID)
		if err != nil {
			return runLoadedMsg{run: run, err: fmt.Errorf("loading results for run %s: %w", runID, err)}
		}
		return runLoadedMsg{run: run, results: results}
	}
}

// reportRun returns a command that publishes a stored run to Jira.
func (m Model) reportRun(runID string) tea.Cmd {
	cfg := m.config
	s := m.store
	log := m.log
	return func() tea.Msg {
		if !cfg.Jira.Configured() {
			return reportedMsg{err: fmt.Errorf("Jira is not configured; press s to set it up")}
		}
		token := credential.JiraToken()
		if token == "" {
			return reportedMsg{err: fmt.Errorf("no Jira API token in keyring or JIRA_TOKEN")}
		}

		ctx := context.Background()
		run, err := s.GetRunByID(ctx, runID)
		if err != nil {
			return reportedMsg{err: err}
		}
		if run == nil {
			return reportedMsg{err: fmt.Errorf("run %s not found", runID)}
		}
		results, err := s.GetScenarioResults(ctx, runID)
		if err != nil {
			return reportedMsg{err: err}
		}

		client := jira.NewClient(cfg.Jira.Server, cfg.Jira.Email, token)
		reporter := jira.NewReporter(client, cfg.Jira.ProjectKey, "", log)
		key, err := reporter.Report(ctx, *run, results)
		return reportedMsg{issueKey: key, err: err}
	}
}
