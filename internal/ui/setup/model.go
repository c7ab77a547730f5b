// Package setup provides the interactive form for configuring the Jira
// reporting integration.
package setup

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/cucumber-basket/internal/credential"
	"github.com/nhle/cucumber-basket/internal/keys"
	"github.com/nhle/cucumber-basket/internal/model"
	"github.com/nhle/cucumber-basket/internal/report/jira"
	"github.com/nhle/cucumber-basket/internal/theme"
)

// Mode represents the current state of the setup view.
type Mode int

const (
	ModeForm           Mode = iota // Jira settings form
	ModeValidating                 // Testing connection
	ModeValidateResult             // Show validation result
)

// DoneMsg signals the setup view should close and return to the main app.
type DoneMsg struct {
	// Saved is true when the configuration was persisted.
	Saved bool
}

// ValidateResultMsg carries the result of a connection validation attempt.
type ValidateResultMsg struct {
	Name string
	Err  error
}

// savedMsg is sent after the configuration is persisted.
type savedMsg struct {
	err error
}

// Model is the Bubble Tea model for the Jira setup form.
type Model struct {
	mode       Mode
	config     *model.AppConfig
	configPath string

	form *huh.Form

	// Form field values (huh binds to these)
	formServer     string
	formEmail      string
	formProjectKey string
	formToken      string

	// Validation
	validResult string
	validError  error
	spinner     spinner.Model

	// Status message for transient feedback
	statusMsg string

	keys          *keys.KeyMap
	width, height int
}

// New creates a new setup view model pre-filled from cfg.
func New(cfg *model.AppConfig, configPath string, k *keys.KeyMap, width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		mode:           ModeForm,
		config:         cfg,
		configPath:     configPath,
		formServer:     cfg.Jira.Server,
		formEmail:      cfg.Jira.Email,
		formProjectKey: cfg.Jira.ProjectKey,
		keys:           k,
		spinner:        sp,
		width:          width,
		height:         height,
	}
	m.form = m.buildForm()
	return m
}

// Init starts the form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages and dispatches based on current mode.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error saving config: %v", msg.err)
			m.mode = ModeForm
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		return m, func() tea.Msg { return DoneMsg{Saved: true} }

	case ValidateResultMsg:
		m.validResult = msg.Name
		m.validError = msg.Err
		m.mode = ModeValidateResult
		return m, nil

	case spinner.TickMsg:
		if m.mode == ModeValidating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m.updateForm(msg)
}

// handleKeyMsg processes key messages based on the current mode.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.mode {
	case ModeForm:
		return m.updateForm(msg)
	case ModeValidateResult:
		return m.handleValidateResultKeys(msg)
	case ModeValidating:
		// Only allow escape during validation
		if msg.String() == "esc" {
			m.mode = ModeForm
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		return m, nil
	}
	return m, nil
}

// handleValidateResultKeys processes key events on the validation result
// screen. A successful validation saves the config; a failure goes back
// to the form.
func (m Model) handleValidateResultKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.validError == nil {
			return m, m.save()
		}
		m.mode = ModeForm
		m.form = m.buildForm()
		return m, m.form.Init()
	case "esc":
		m.mode = ModeForm
		m.form = m.buildForm()
		return m, m.form.Init()
	case "r":
		if m.validError != nil {
			m.mode = ModeValidating
			return m, tea.Batch(m.spinner.Tick, m.validate())
		}
		return m, nil
	}
	return m, nil
}

// --- Form ---

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Jira Server").
				Description("Jira instance URL (e.g., https://yourteam.atlassian.net)").
				Placeholder("https://yourteam.atlassian.net").
				Value(&m.formServer).
				Validate(validateURL),
			huh.NewInput().
				Title("Email").
				Description("Account email used for basic authentication").
				Placeholder("qa@example.com").
				Value(&m.formEmail).
				Validate(validateRequired("Email")),
			huh.NewInput().
				Title("Project Key").
				Description("Key of the project that receives test-execution issues").
				Placeholder("QA").
				Value(&m.formProjectKey).
				Validate(validateRequired("Project Key")),
			huh.NewInput().
				Title("API Token").
				Description("Stored in the system keyring, never in the config file").
				EchoMode(huh.EchoModePassword).
				Value(&m.formToken).
				Validate(validateRequired("API Token")),
		),
	).WithWidth(m.formWidth())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.mode = ModeValidating
		return m, tea.Batch(m.spinner.Tick, m.validate())
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return DoneMsg{Saved: false} }
	}

	return m, cmd
}

// validate tests the entered credentials against the Jira API.
func (m Model) validate() tea.Cmd {
	server := m.formServer
	email := m.formEmail
	token := m.formToken
	return func() tea.Msg {
		client := jira.NewClient(server, email, token)
		name, err := client.Myself(context.Background())
		return ValidateResultMsg{Name: name, Err: err}
	}
}

// save persists the token to the keyring and the settings to the config
// file.
func (m Model) save() tea.Cmd {
	cfg := m.config
	path := m.configPath
	server := strings.TrimRight(m.formServer, "/")
	email := m.formEmail
	projectKey := strings.ToUpper(strings.TrimSpace(m.formProjectKey))
	token := m.formToken
	return func() tea.Msg {
		if err := credential.Set(credential.JiraTokenKey, token); err != nil {
			return savedMsg{err: err}
		}

		cfg.Jira.Server = server
		cfg.Jira.Email = email
		cfg.Jira.ProjectKey = projectKey
		cfg.Jira.Enabled = true

		return savedMsg{err: model.SaveConfig(path, cfg)}
	}
}

// --- View ---

// View renders the setup UI based on the current mode.
func (m Model) View() string {
	switch m.mode {
	case ModeForm:
		return m.viewForm()
	case ModeValidating:
		return m.viewValidating()
	case ModeValidateResult:
		return m.viewValidateResult()
	default:
		return ""
	}
}

func (m Model) viewForm() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Jira Reporting Setup"))
	b.WriteString("\n\n")
	b.WriteString(m.form.View())

	if m.statusMsg != "" {
		b.WriteString("\n")
		statusStyle := lipgloss.NewStyle().
			Foreground(theme.ColorYellow).
			Italic(true)
		b.WriteString(statusStyle.Render(m.statusMsg))
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height).
		Render(b.String())
}

func (m Model) viewValidating() string {
	style := lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height)

	content := fmt.Sprintf(
		"%s Testing connection...\n\nPress esc to cancel.",
		m.spinner.View(),
	)

	return style.Render(content)
}

func (m Model) viewValidateResult() string {
	style := lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height)

	var content string
	if m.validError != nil {
		errStyle := lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorRed)
		content = errStyle.Render("Connection failed") + "\n\n" +
			m.validError.Error() + "\n\n" +
			lipgloss.NewStyle().Foreground(theme.ColorGray).
				Render("r retry | enter/esc back")
	} else {
		okStyle := lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorGreen)
		displayName := m.validResult
		if displayName == "" {
			displayName = "OK"
		}
		content = okStyle.Render("Connection successful") + "\n\n" +
			fmt.Sprintf("Authenticated as: %s", displayName) + "\n\n" +
			lipgloss.NewStyle().Foreground(theme.ColorGray).
				Render("enter save | esc back")
	}

	return style.Render(content)
}

// --- Helpers ---

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

// --- Validators ---

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateURL(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("URL is required")
	}
	parsed, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("URL must include scheme and host (e.g., https://example.com)")
	}
	return nil
}
