package logging

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "spoolsync.log")
	log, err := New(Options{Level: "debug", File: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = log.Close() })

	assert.Equal(t, path, log.Path())
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("tray", "tray-3").Info("spool assigned")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "spool assigned")
	assert.Contains(t, string(raw), "tray=tray-3")
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "chatty", Output: &buf})
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.Equal(t, "", log.Path())

	log.Debug("hidden")
	log.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_OffDiscards(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never.log")
	log, err := New(Options{Level: "off", File: path})
	require.NoError(t, err)
	assert.Equal(t, io.Discard, log.Out)
	require.NoError(t, log.Close())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
