package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/five82/spoolsync/internal/entity"
	"github.com/five82/spoolsync/internal/prefs"
	"github.com/five82/spoolsync/internal/spoolman"
	"github.com/five82/spoolsync/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewTrays View = iota
	ViewLogs
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Source    entity.Source
	Refresher entity.Refresher
	Platform  *entity.Platform
	ServerURL string
	LogPath   string
	PollTick  time.Duration
	Prefs     prefs.Prefs
	PrefsPath string
	Log       logrus.FieldLogger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	source    entity.Source
	refresher entity.Refresher
	platform  *entity.Platform
	serverURL string
	logPath   string
	pollTick  time.Duration
	prefs     prefs.Prefs
	prefsPath string
	log       logrus.FieldLogger
	keys      keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	focusedPane int // 0 = table, 1 = detail

	// Data state
	snapshot    state.Snapshot
	entities    entity.Set
	discovered  bool
	lastUpdated time.Time

	// Tray state
	selectedRow int
	pending     int
	notice      string

	// Detail state
	detailViewport viewport.Model

	// Log state
	logViewport viewport.Model
	logState    logState

	// Overlays
	showHelp bool
	modal    Modal
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	return Model{
		ctx:         ctx,
		source:      opts.Source,
		refresher:   opts.Refresher,
		platform:    opts.Platform,
		serverURL:   opts.ServerURL,
		logPath:     opts.LogPath,
		pollTick:    pollTick,
		prefs:       opts.Prefs,
		prefsPath:   prefsPath,
		log:         log.WithField("component", "ui"),
		keys:        DefaultKeyMap(),
		theme:       GetTheme(opts.Prefs.Theme),
		currentView: ViewTrays,
		logState:    newLogState(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.source != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.source))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.updateDetailViewport()
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		m.updateDetailViewport()
		return m, nil

	case selectDoneMsg:
		if m.pending > 0 {
			m.pending--
		}
		m.notice = fmt.Sprintf("%s: %s", msg.tray, msg.option)
		return m, nil

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil
	}

	return m, nil
}

// applySnapshot stores the latest snapshot and rebuilds the entity set when
// new data changes which trays exist.
func (m *Model) applySnapshot(snap state.Snapshot) {
	changed := snap.Version != m.snapshot.Version || !m.discovered
	m.snapshot = snap
	m.lastUpdated = time.Now()
	if !snap.HasData || !changed || m.platform == nil {
		return
	}
	set := m.platform.Discover(snap.Data)
	if !m.discovered || !set.SameTrays(m.entities) {
		m.entities = set
	}
	m.discovered = true
	m.clampSelection()
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		modal, cmd, done := m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		} else {
			m.modal = modal
		}
		if done && cmd != nil {
			m.pending++
		}
		return m, cmd
	}

	// The search prompt and an applied search claim keys before the globals.
	if m.currentView == ViewLogs && (m.logState.searchActive ||
		(m.logState.searchRegex != nil && key.Matches(msg, m.keys.Escape))) {
		return m.handleLogsKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		m.updateDetailViewport()
		m.logState.dirty = true
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.refresher != nil {
			m.refresher.RequestRefresh()
			m.notice = "refresh requested"
		}
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		return m.toggleFocus()

	case key.Matches(msg, m.keys.ViewTrays), key.Matches(msg, m.keys.Escape):
		m.currentView = ViewTrays
		return m, nil

	case key.Matches(msg, m.keys.ViewLogs):
		m.currentView = ViewLogs
		m.focusedPane = 0
		return m, m.refreshLogs()
	}

	switch m.currentView {
	case ViewTrays:
		return m.handleTraysKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}

	return m, nil
}

// toggleFocus cycles focus: tray table, detail pane, logs, and back.
func (m Model) toggleFocus() (tea.Model, tea.Cmd) {
	switch m.currentView {
	case ViewTrays:
		if m.focusedPane == 0 {
			m.focusedPane = 1
			return m, nil
		}
		m.focusedPane = 0
		m.currentView = ViewLogs
		return m, m.refreshLogs()
	default:
		m.currentView = ViewTrays
		m.focusedPane = 0
	}
	return m, nil
}

// savePrefs persists preferences. Failures are logged and otherwise ignored.
func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.log.WithError(err).Warn("save preferences")
	}
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.source != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.source))
	}

	if m.currentView == ViewLogs && m.logState.follow &&
		time.Since(m.logState.lastRefresh) >= LogRefreshInterval {
		if cmd := m.refreshLogs(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	cmds = append(cmds, tickCmd(m.pollTick))

	return m, tea.Batch(cmds...)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	// Header line 1: logo + status
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	// Header line 2: command bar
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	b.WriteString(m.renderContent())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewTrays:
		return m.renderTrays()
	case ViewLogs:
		return m.renderLogs()
	default:
		return ""
	}
}

// contentHeight is the number of rows below the two header lines.
func (m Model) contentHeight() int {
	return maxInt(m.height-2, 3)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type selectDoneMsg struct {
	tray   string
	option string
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(source entity.Source) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(source.Snapshot())
	}
}

// selectOptionCmd runs a tray selection off the UI goroutine. The select
// logs its own failures and requests a coordinator refresh.
func selectOptionCmd(ctx context.Context, sel *entity.TraySelect, option string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, WriteTimeout)
		defer cancel()
		sel.SelectOption(ctx, option)
		label := option
		if option == spoolman.NoneOption {
			label = "emptied"
		}
		return selectDoneMsg{tray: sel.Name(), option: label}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, programOpts...)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
