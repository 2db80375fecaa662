package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/spoolsync/internal/spoolman"
)

// ErrSetupAborted is returned by RunSetup when the user leaves the form.
var ErrSetupAborted = errors.New("setup aborted")

// ProbeFunc checks that a SpoolmanSync server answers at url.
type ProbeFunc func(ctx context.Context, url string) error

// SetupOptions configures the setup form.
type SetupOptions struct {
	Context   context.Context
	URL       string // prefilled value; defaults to spoolman.DefaultURL
	ThemeName string
	Probe     ProbeFunc
}

type setupPhase int

const (
	setupEditing setupPhase = iota
	setupChecking
	setupDone
	setupAborted
)

// SetupModel is the one-field form that asks for the server URL.
type SetupModel struct {
	ctx    context.Context
	probe  ProbeFunc
	keys   keyMap
	theme  Theme
	input  textinput.Model
	phase  setupPhase
	errMsg string
	url    string
	width  int
	height int
}

type probeResultMsg struct {
	url string
	err error
}

// NewSetup builds the setup form.
func NewSetup(opts SetupOptions) SetupModel {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	value := strings.TrimSpace(opts.URL)
	if value == "" {
		value = spoolman.DefaultURL
	}

	ti := textinput.New()
	ti.Placeholder = spoolman.DefaultURL
	ti.CharLimit = 256
	ti.Width = 48
	ti.Prompt = "URL: "
	ti.SetValue(value)
	ti.Focus()

	return SetupModel{
		ctx:   ctx,
		probe: opts.Probe,
		keys:  DefaultKeyMap(),
		theme: GetTheme(opts.ThemeName),
		input: ti,
	}
}

// URL returns the confirmed server URL once setup succeeded.
func (m SetupModel) URL() string {
	return m.url
}

// Done reports whether the URL was confirmed.
func (m SetupModel) Done() bool {
	return m.phase == setupDone
}

// Init implements tea.Model.
func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case probeResultMsg:
		if msg.err != nil {
			m.phase = setupEditing
			m.errMsg = "cannot_connect: failed to connect to SpoolmanSync"
			return m, nil
		}
		m.phase = setupDone
		m.url = msg.url
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || key.Matches(msg, m.keys.Cancel) {
			m.phase = setupAborted
			return m, tea.Quit
		}
		if m.phase == setupChecking {
			return m, nil
		}
		if key.Matches(msg, m.keys.Confirm) {
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit trims trailing slashes and probes the server.
func (m SetupModel) submit() (tea.Model, tea.Cmd) {
	url := strings.TrimRight(strings.TrimSpace(m.input.Value()), "/")
	if url == "" {
		m.errMsg = "a URL is required"
		return m, nil
	}
	m.input.SetValue(url)
	m.errMsg = ""
	if m.probe == nil {
		m.phase = setupDone
		m.url = url
		return m, tea.Quit
	}
	m.phase = setupChecking
	return m, probeCmd(m.ctx, m.probe, url)
}

func probeCmd(ctx context.Context, probe ProbeFunc, url string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
		defer cancel()
		return probeResultMsg{url: url, err: probe(ctx, url)}
	}
}

// View implements tea.Model.
func (m SetupModel) View() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Logo.Render("SpoolmanSync"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("Enter the address of your SpoolmanSync server."))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.phase == setupChecking:
		b.WriteString(styles.WarningText.Render("Checking connection..."))
	case m.errMsg != "":
		b.WriteString(styles.DangerText.Render(m.errMsg))
	default:
		b.WriteString(styles.FaintText.Render("enter connect  esc cancel"))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(60).
		Render(b.String())

	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// RunSetup shows the setup form and returns the confirmed URL.
func RunSetup(opts SetupOptions) (string, error) {
	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	final, err := tea.NewProgram(NewSetup(opts), programOpts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return "", ErrSetupAborted
	}
	if err != nil {
		return "", err
	}
	m, ok := final.(SetupModel)
	if !ok || !m.Done() {
		return "", ErrSetupAborted
	}
	return m.URL(), nil
}
