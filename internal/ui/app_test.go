package ui

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/spoolsync/internal/entity"
	"github.com/five82/spoolsync/internal/prefs"
	"github.com/five82/spoolsync/internal/spoolman"
	"github.com/five82/spoolsync/internal/state"
)

type writeCall struct {
	op      string
	spoolID int64
	trayID  string
}

type fakeWriter struct {
	mu    sync.Mutex
	calls []writeCall
}

func (w *fakeWriter) AssignSpool(_ context.Context, spoolID int64, trayID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, writeCall{op: "assign", spoolID: spoolID, trayID: trayID})
	return nil
}

func (w *fakeWriter) UnassignSpool(_ context.Context, spoolID int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, writeCall{op: "unassign", spoolID: spoolID})
	return nil
}

type countingRefresher struct {
	mu    sync.Mutex
	count int
}

func (r *countingRefresher) RequestRefresh() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count++
}

func strPtr(s string) *string { return &s }

func spool(id int64, vendor, material, name, tray string, weight float64) spoolman.Spool {
	s := spoolman.Spool{
		ID: id,
		Filament: spoolman.Filament{
			Name:     strPtr(name),
			Material: strPtr(material),
			ColorHex: strPtr("ff8800"),
			Vendor:   &spoolman.Vendor{Name: strPtr(vendor)},
		},
		RemainingWeight: &weight,
	}
	if tray != "" {
		quoted, _ := json.Marshal(tray)
		encoded, _ := json.Marshal(string(quoted))
		s.Extra = map[string]json.RawMessage{"active_tray": encoded}
	}
	return s
}

func testData() state.Data {
	return state.Data{
		Printers: []spoolman.Printer{{
			Name: "X1C",
			AMSUnits: []spoolman.AMSUnit{{
				Name: "AMS 1",
				Trays: []spoolman.Tray{
					{EntityID: "tray-1", TrayNumber: 1},
					{EntityID: "tray-2", TrayNumber: 2},
				},
			}},
			ExternalSpool: &spoolman.Tray{EntityID: "ext-1"},
		}},
		Spools: []spoolman.Spool{
			spool(7, "Prusa", "PLA", "Red", "tray-1", 812.5),
			spool(8, "Bambu", "PETG", "Blue", "", 1000),
		},
	}
}

type harness struct {
	model     Model
	store     *state.Store
	writer    *fakeWriter
	refresher *countingRefresher
}

func newHarness(t *testing.T, data state.Data) *harness {
	t.Helper()
	log, _ := test.NewNullLogger()
	store := &state.Store{}
	store.Update(data, nil)
	writer := &fakeWriter{}
	refresher := &countingRefresher{}
	platform := entity.NewPlatform(store, writer, refresher, log)

	m := New(Options{
		Source:    store,
		Refresher: refresher,
		Platform:  platform,
		ServerURL: "http://spoolmansync.local:3000",
		PrefsPath: t.TempDir() + "/prefs.toml",
		Prefs:     prefs.Prefs{Theme: "Slate"},
		Log:       log,
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})
	m = update(t, m, snapshotMsg(store.Snapshot()))
	return &harness{model: m, store: store, writer: writer, refresher: refresher}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func press(t *testing.T, m Model, keys string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch keys {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	}
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func TestSnapshotDiscoversTrays(t *testing.T) {
	h := newHarness(t, testData())

	require.Equal(t, 3, h.model.entities.Len())
	rows := h.model.trayRows()
	require.Len(t, rows, 3)
	assert.Equal(t, "X1C AMS 1 Tray 1", rows[0].ref.Label())
	assert.Equal(t, "#7 Prusa PLA Red", rows[0].current)
	assert.Equal(t, "Spool #7", rows[0].value)
	assert.Equal(t, spoolman.NoneOption, rows[1].current)
	assert.Equal(t, "X1C External Tray", rows[2].ref.Label())
	assert.True(t, rows[2].ref.External())
}

func TestSnapshotKeepsEntitiesWhenTraysUnchanged(t *testing.T) {
	h := newHarness(t, testData())
	before := h.model.entities.Selects[0]

	data := testData()
	data.Spools = data.Spools[1:]
	h.store.Update(data, nil)
	m := update(t, h.model, snapshotMsg(h.store.Snapshot()))

	assert.Same(t, before, m.entities.Selects[0])
	assert.Equal(t, spoolman.NoneOption, m.trayRows()[0].current)
}

func TestSnapshotRediscoversWhenTraysChange(t *testing.T) {
	h := newHarness(t, testData())

	data := testData()
	data.Printers[0].ExternalSpool = nil
	h.store.Update(data, nil)
	m := update(t, h.model, snapshotMsg(h.store.Snapshot()))

	assert.Equal(t, 2, m.entities.Len())
}

func TestHideEmptyTogglesAndPersists(t *testing.T) {
	h := newHarness(t, testData())

	m, _ := press(t, h.model, "H")
	assert.True(t, m.prefs.HideEmpty)
	require.Len(t, m.trayRows(), 1)

	saved, err := prefs.Load(m.prefsPath)
	require.NoError(t, err)
	assert.True(t, saved.HideEmpty)
	assert.Equal(t, "Slate", saved.Theme)
}

func TestUnassignKeyEmptiesSelectedTray(t *testing.T) {
	h := newHarness(t, testData())

	m, cmd := press(t, h.model, "u")
	require.NotNil(t, cmd)
	assert.Equal(t, 1, m.pending)

	msg := cmd()
	m = update(t, m, msg)
	assert.Equal(t, 0, m.pending)
	assert.Contains(t, m.notice, "emptied")

	assert.Equal(t, []writeCall{{op: "unassign", spoolID: 7}}, h.writer.calls)
	assert.Equal(t, 1, h.refresher.count)
}

func TestUnassignKeyOnEmptyTrayDoesNothing(t *testing.T) {
	h := newHarness(t, testData())

	m, _ := press(t, h.model, "down")
	m, cmd := press(t, m, "u")
	assert.Nil(t, cmd)
	assert.Contains(t, m.notice, "already empty")
	assert.Empty(t, h.writer.calls)
}

func TestPickerAssignsFilteredSpool(t *testing.T) {
	h := newHarness(t, testData())

	m, _ := press(t, h.model, "down")
	m, _ = press(t, m, "enter")
	require.NotNil(t, m.modal)

	m, _ = press(t, m, "petg")
	picker, ok := m.modal.(*spoolPicker)
	require.True(t, ok)
	assert.Equal(t, []string{"#8 Bambu PETG Blue"}, picker.filtered)

	m, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)
	assert.Nil(t, m.modal)
	assert.Equal(t, 1, m.pending)

	cmd()
	assert.Equal(t, []writeCall{{op: "assign", spoolID: 8, trayID: "tray-2"}}, h.writer.calls)
	assert.Equal(t, 1, h.refresher.count)
}

func TestPickerStartsOnCurrentAndSkipsNoOp(t *testing.T) {
	h := newHarness(t, testData())

	m, _ := press(t, h.model, "enter")
	picker, ok := m.modal.(*spoolPicker)
	require.True(t, ok)
	option, _ := picker.selected()
	assert.Equal(t, "#7 Prusa PLA Red", option)

	m, cmd := press(t, m, "enter")
	assert.Nil(t, cmd)
	assert.Nil(t, m.modal)
	assert.Empty(t, h.writer.calls)
}

func TestPickerEscapeCancels(t *testing.T) {
	h := newHarness(t, testData())

	m, _ := press(t, h.model, "enter")
	m, cmd := press(t, m, "esc")
	assert.Nil(t, cmd)
	assert.Nil(t, m.modal)
	assert.Equal(t, 0, m.pending)
}

func TestRefreshKeyRequestsRefresh(t *testing.T) {
	h := newHarness(t, testData())

	m, _ := press(t, h.model, "r")
	assert.Equal(t, 1, h.refresher.count)
	assert.Equal(t, "refresh requested", m.notice)
}

func TestTrayCountsFlagConflicts(t *testing.T) {
	data := testData()
	data.Spools = append(data.Spools, spool(9, "Sunlu", "PLA", "White", "tray-1", 50))
	h := newHarness(t, data)

	loaded, conflicts := h.model.trayCounts()
	assert.Equal(t, 1, loaded)
	assert.Equal(t, 1, conflicts)

	rows := h.model.trayRows()
	assert.Equal(t, stateConflict, rows[0].state())
	assert.Equal(t, "#7 Prusa PLA Red", rows[0].current)
}

func TestLowWeightState(t *testing.T) {
	data := testData()
	data.Spools[0] = spool(7, "Prusa", "PLA", "Red", "tray-1", 42)
	h := newHarness(t, data)

	assert.Equal(t, stateLow, h.model.trayRows()[0].state())
	assert.Equal(t, stateEmpty, h.model.trayRows()[1].state())
}

func TestTabCyclesFocusThenLogs(t *testing.T) {
	h := newHarness(t, testData())

	m, _ := press(t, h.model, "tab")
	assert.Equal(t, 1, m.focusedPane)
	m, _ = press(t, m, "tab")
	assert.Equal(t, ViewLogs, m.currentView)
	m, _ = press(t, m, "tab")
	assert.Equal(t, ViewTrays, m.currentView)
	assert.Equal(t, 0, m.focusedPane)
}

func TestViewRendersTrays(t *testing.T) {
	h := newHarness(t, testData())

	out := h.model.View()
	assert.Contains(t, out, "spoolsync")
	assert.Contains(t, out, "ONLINE")
	assert.Contains(t, out, "Prusa")
	assert.Contains(t, out, "External")
}

func TestViewBeforeFirstData(t *testing.T) {
	store := &state.Store{}
	m := New(Options{Source: store})
	m = update(t, m, tea.WindowSizeMsg{Width: 90, Height: 30})
	m = update(t, m, snapshotMsg(store.Snapshot()))

	out := m.View()
	assert.Contains(t, out, "Connecting to SpoolmanSync")
	assert.Equal(t, 0, m.entities.Len())
}

func TestLogSearchFindsAndCyclesMatches(t *testing.T) {
	h := newHarness(t, testData())
	m, _ := press(t, h.model, "l")
	require.Equal(t, ViewLogs, m.currentView)

	m = update(t, m, logLinesMsg{lines: []string{
		`time="2026-01-02T10:00:00Z" level=info msg="spoolmansync connected"`,
		`time="2026-01-02T10:00:30Z" level=error msg="assign spool" spool_id=7`,
		`time="2026-01-02T10:01:00Z" level=info msg="refresh recovered"`,
		`time="2026-01-02T10:01:30Z" level=error msg="unassign spool" spool_id=7`,
	}})
	require.Len(t, m.logState.entries, 4)

	m, _ = press(t, m, "/")
	require.True(t, m.logState.searchActive)
	// Keys typed into the prompt must not switch views.
	m, _ = press(t, m, "t")
	assert.Equal(t, ViewLogs, m.currentView)
	m.logState.searchInput.SetValue("ASSIGN")
	m, _ = press(t, m, "enter")

	assert.False(t, m.logState.searchActive)
	assert.Equal(t, []int{1, 3}, m.logState.searchMatches)
	assert.Equal(t, 0, m.logState.searchMatchIdx)
	assert.False(t, m.logState.follow)

	m, _ = press(t, m, "n")
	assert.Equal(t, 1, m.logState.searchMatchIdx)
	m, _ = press(t, m, "n")
	assert.Equal(t, 0, m.logState.searchMatchIdx)
	m, _ = press(t, m, "N")
	assert.Equal(t, 1, m.logState.searchMatchIdx)

	m, _ = press(t, m, "esc")
	assert.Nil(t, m.logState.searchRegex)
	assert.Equal(t, ViewLogs, m.currentView)
	m, _ = press(t, m, "esc")
	assert.Equal(t, ViewTrays, m.currentView)
}

func TestLogSearchInvalidPatternKeepsPrompt(t *testing.T) {
	h := newHarness(t, testData())
	m, _ := press(t, h.model, "l")
	m, _ = press(t, m, "/")
	m.logState.searchInput.SetValue("(")
	m, _ = press(t, m, "enter")

	assert.True(t, m.logState.searchActive)
	assert.Nil(t, m.logState.searchRegex)
}
