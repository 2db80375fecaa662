package ui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/spoolsync/internal/spoolman"
)

func setupUpdate(t *testing.T, m SetupModel, msg tea.Msg) (SetupModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(SetupModel)
	require.True(t, ok)
	return out, cmd
}

func TestSetupPrefillsDefaultURL(t *testing.T) {
	m := NewSetup(SetupOptions{})
	assert.Equal(t, spoolman.DefaultURL, m.input.Value())
	assert.Contains(t, m.View(), "SpoolmanSync")
}

func TestSetupProbesTrimmedURL(t *testing.T) {
	var probed string
	m := NewSetup(SetupOptions{
		URL: "http://spoolmansync.local:3000//",
		Probe: func(_ context.Context, url string) error {
			probed = url
			return nil
		},
	})

	m, cmd := setupUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, setupChecking, m.phase)

	m, _ = setupUpdate(t, m, cmd())
	assert.Equal(t, "http://spoolmansync.local:3000", probed)
	assert.True(t, m.Done())
	assert.Equal(t, "http://spoolmansync.local:3000", m.URL())
}

func TestSetupProbeFailureKeepsFormOpen(t *testing.T) {
	m := NewSetup(SetupOptions{
		Probe: func(context.Context, string) error {
			return errors.New("connection refused")
		},
	})

	m, cmd := setupUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m, _ = setupUpdate(t, m, cmd())

	assert.False(t, m.Done())
	assert.Equal(t, setupEditing, m.phase)
	assert.Contains(t, m.errMsg, "cannot_connect")
	assert.Contains(t, m.View(), "cannot_connect")
}

func TestSetupRejectsEmptyURL(t *testing.T) {
	m := NewSetup(SetupOptions{Probe: func(context.Context, string) error { return nil }})
	m.input.SetValue("  ")

	m, cmd := setupUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, setupEditing, m.phase)
	assert.Equal(t, "a URL is required", m.errMsg)
}

func TestSetupEscapeAborts(t *testing.T) {
	m := NewSetup(SetupOptions{})

	m, cmd := setupUpdate(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, setupAborted, m.phase)
	assert.False(t, m.Done())
}
