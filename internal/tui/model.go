package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tsfarizi/cbt-mcp-playground/internal"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	metaStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135"))
	systemStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	toolStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

const requestTimeout = 30 * time.Second

// Options configures the playground view
type Options struct {
	MaxToolSteps int
	Agent        bool
}

type initialDataMsg struct {
	tools  []internal.ToolDefinition
	config *internal.ConfigFileResponse
	err    error
}

type turnDoneMsg struct {
	result *internal.TurnResult
	err    error
}

// Model is the interactive playground view
type Model struct {
	store  *internal.Store
	client *internal.Client
	runner *internal.TurnRunner
	opts   Options

	width  int
	height int

	prompt     textarea.Model
	transcript viewport.Model
	spin       spinner.Model
	keys       keyMap
	help       help.Model

	tools     []internal.ToolDefinition
	providers []internal.ProviderDefinition
	provider  string
	model     string

	loading bool
	sending bool
	status  string
	isError bool
}

// New creates the playground model
func New(store *internal.Store, client *internal.Client, opts Options) Model {
	prompt := textarea.New()
	prompt.Placeholder = "Type a prompt..."
	prompt.SetHeight(3)
	prompt.Focus()
	prompt.ShowLineNumbers = false

	transcript := viewport.New(80, 20)

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return Model{
		store:      store,
		client:     client,
		runner:     internal.NewTurnRunner(client, store),
		opts:       opts,
		prompt:     prompt,
		transcript: transcript,
		spin:       spin,
		keys:       defaultKeyMap,
		help:       help.New(),
		loading:    true,
		status:     "Loading tools and configuration...",
	}
}

// Run starts the playground TUI and blocks until it exits
func Run(store *internal.Store, client *internal.Client, opts Options) error {
	p := tea.NewProgram(New(store, client, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(loadInitialCmd(m.client), m.spin.Tick, textarea.Blink)
}

func loadInitialCmd(client *internal.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		tools, err := client.FetchTools(ctx)
		if err != nil {
			return initialDataMsg{err: err}
		}
		config, err := client.LoadConfig(ctx)
		if err != nil {
			return initialDataMsg{tools: tools, err: err}
		}
		return initialDataMsg{tools: tools, config: config}
	}
}

func sendTurnCmd(runner *internal.TurnRunner, opts internal.TurnOptions) tea.Cmd {
	return func() tea.Msg {
		result, err := runner.Run(context.Background(), opts)
		return turnDoneMsg{result: result, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.prompt.SetWidth(msg.Width - 2)
		m.transcript.Width = msg.Width
		m.transcript.Height = max(msg.Height-m.prompt.Height()-6, 3)
		m.help.Width = msg.Width
		m.refreshTranscript()
		return m, nil

	case initialDataMsg:
		m.loading = false
		if msg.tools != nil {
			m.tools = msg.tools
		}
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
			return m, nil
		}
		m.providers = msg.config.Providers
		m.provider, m.model = pickProviderAndModel(msg.config, m.provider, m.model)
		m.setStatus(fmt.Sprintf("Ready (%d tools configured).", len(m.tools)), false)
		m.refreshTranscript()
		return m, nil

	case turnDoneMsg:
		m.sending = false
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
		} else {
			if msg.result.Provider != "" {
				m.provider = msg.result.Provider
			}
			if msg.result.Model != "" {
				m.model = msg.result.Model
			}
			m.setStatus(fmt.Sprintf("Answer received (%s / %s).", m.provider, m.model), false)
		}
		m.prompt.Reset()
		m.refreshTranscript()
		m.transcript.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		if !m.sending && !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Send):
		return m.startTurn()

	case key.Matches(msg, m.keys.Newline):
		m.prompt.InsertString("\n")
		return m, nil

	case key.Matches(msg, m.keys.NewSession):
		m.store.CreateSession("")
		m.setStatus("New session ready.", false)
		m.refreshTranscript()
		return m, nil

	case key.Matches(msg, m.keys.NextSession):
		m.selectNextSession()
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if id := m.store.CurrentID(); id != "" {
			m.store.DeleteSession(id)
			m.setStatus("Session deleted.", false)
			m.refreshTranscript()
		}
		return m, nil

	case key.Matches(msg, m.keys.Provider):
		m.cycleProvider()
		return m, nil

	case key.Matches(msg, m.keys.Model):
		m.cycleModel()
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.transcript.LineUp(m.transcript.Height / 2)
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.transcript.LineDown(m.transcript.Height / 2)
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// startTurn validates locally before any request is issued
func (m Model) startTurn() (tea.Model, tea.Cmd) {
	if m.sending {
		return m, nil
	}
	prompt := strings.TrimSpace(m.prompt.Value())
	if prompt == "" {
		m.setStatus("Prompt must not be empty.", true)
		return m, nil
	}
	if m.provider == "" || m.model == "" {
		m.setStatus("Select a provider and model first.", true)
		return m, nil
	}

	m.sending = true
	m.setStatus(fmt.Sprintf("Sending request (%s / %s)...", m.provider, m.model), false)
	opts := internal.TurnOptions{
		Prompt:       prompt,
		Provider:     m.provider,
		Model:        m.model,
		MaxToolSteps: m.opts.MaxToolSteps,
		Agent:        m.opts.Agent,
	}
	return m, tea.Batch(sendTurnCmd(m.runner, opts), m.spin.Tick)
}

func (m *Model) selectNextSession() {
	sessions := m.store.Sessions()
	if len(sessions) == 0 {
		return
	}
	current := m.store.CurrentID()
	next := sessions[0].ID
	for i, session := range sessions {
		if session.ID == current && i+1 < len(sessions) {
			next = sessions[i+1].ID
			break
		}
	}
	m.store.SelectSession(next)
	m.refreshTranscript()
}

func (m *Model) cycleProvider() {
	if len(m.providers) == 0 {
		return
	}
	next := 0
	for i, provider := range m.providers {
		if provider.ID == m.provider {
			next = (i + 1) % len(m.providers)
			break
		}
	}
	m.provider = m.providers[next].ID
	if models := m.providers[next].Models; len(models) > 0 {
		m.model = models[0].Name
	} else {
		m.model = ""
	}
	m.setStatus(fmt.Sprintf("Provider: %s", m.provider), false)
}

func (m *Model) cycleModel() {
	var models []internal.ProviderModel
	for _, provider := range m.providers {
		if provider.ID == m.provider {
			models = provider.Models
			break
		}
	}
	if len(models) == 0 {
		return
	}
	next := 0
	for i, model := range models {
		if model.Name == m.model {
			next = (i + 1) % len(models)
			break
		}
	}
	m.model = models[next].Name
	m.setStatus(fmt.Sprintf("Model: %s", m.model), false)
}

func (m *Model) setStatus(text string, isError bool) {
	m.status = text
	m.isError = isError
}

func (m *Model) refreshTranscript() {
	m.transcript.SetContent(renderTranscript(m.store.Current(), m.transcript.Width))
}

func (m Model) View() string {
	var b strings.Builder

	title := "MCP Playground"
	session := m.store.Current()
	if session != nil {
		title = fmt.Sprintf("MCP Playground · %s", session.Name)
	}
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(metaStyle.Render(fmt.Sprintf("%s · provider: %s · model: %s · sessions: %d",
		m.client.BaseURL(), orDash(m.provider), orDash(m.model), len(m.store.Sessions()))))
	b.WriteString("\n\n")

	b.WriteString(m.transcript.View())
	b.WriteString("\n")
	b.WriteString(m.prompt.View())
	b.WriteString("\n")

	status := m.status
	if m.sending || m.loading {
		status = m.spin.View() + " " + status
	}
	if m.isError {
		b.WriteString(errStyle.Render(status))
	} else {
		b.WriteString(statusStyle.Render(status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func renderTranscript(session *internal.Session, width int) string {
	if session == nil {
		return dimStyle.Render("No session selected. Send a prompt to start one, or press ctrl+n.")
	}
	if len(session.Messages) == 0 {
		return dimStyle.Render("Empty session. Send a prompt to start the conversation.")
	}

	var b strings.Builder
	for _, msg := range session.Messages {
		var label string
		switch msg.Role {
		case internal.RoleUser:
			label = userStyle.Render("You")
		case internal.RoleAssistant:
			label = assistantStyle.Render("Assistant")
		default:
			label = systemStyle.Render("System")
		}
		b.WriteString(label)
		if msg.Timestamp != "" {
			b.WriteString(" " + dimStyle.Render(formatClock(msg.Timestamp)))
		}
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(max(width-2, 20)).Render(msg.Content))
		b.WriteString("\n\n")
	}

	if len(session.Tools) > 0 {
		names := map[string]bool{}
		var used []string
		for _, tool := range session.Tools {
			if !names[tool.Tool] {
				names[tool.Tool] = true
				used = append(used, tool.Tool)
			}
		}
		b.WriteString(toolStyle.Render("Tools used: " + strings.Join(used, ", ")))
		b.WriteString("\n")
	}

	return b.String()
}

// pickProviderAndModel resolves the provider and model selection against the
// backend configuration: keep the current provider when the backend still
// offers it, else fall back to the configured default provider, else the
// first provider. The model follows the same pattern within the resolved
// provider, preferring the configured model name.
func pickProviderAndModel(config *internal.ConfigFileResponse, currentProvider, currentModel string) (string, string) {
	providers := config.Providers
	if len(providers) == 0 {
		return "", ""
	}

	// The configured default only counts when the backend still offers it
	fallback := providers[0].ID
	for _, p := range providers {
		if p.ID == config.DefaultProvider {
			fallback = config.DefaultProvider
			break
		}
	}
	provider := fallback
	for _, p := range providers {
		if p.ID == currentProvider {
			provider = currentProvider
			break
		}
	}

	var models []internal.ProviderModel
	for _, p := range providers {
		if p.ID == provider {
			models = p.Models
			break
		}
	}

	model := ""
	for _, candidate := range []string{config.Model, currentModel} {
		for _, m := range models {
			if m.Name == candidate && candidate != "" {
				return provider, candidate
			}
		}
	}
	if len(models) > 0 {
		model = models[0].Name
	} else if config.Model != "" {
		model = config.Model
	}
	return provider, model
}

func formatClock(timestamp string) string {
	if t, err := time.Parse(time.RFC3339Nano, timestamp); err == nil {
		return t.Local().Format("15:04:05")
	}
	return timestamp
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
