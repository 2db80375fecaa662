package coordinator

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/spoolsync/internal/spoolman"
	"github.com/five82/spoolsync/internal/state"
)

type fakeFetcher struct {
	mu          sync.Mutex
	printers    []spoolman.Printer
	spools      []spoolman.Spool
	printersErr error
	spoolsErr   error
	calls       []string
}

func (f *fakeFetcher) FetchPrinters(context.Context) ([]spoolman.Printer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "printers")
	return f.printers, f.printersErr
}

func (f *fakeFetcher) FetchSpools(context.Context) ([]spoolman.Spool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "spools")
	return f.spools, f.spoolsErr
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeFetcher) setSpoolsErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spoolsErr = err
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRefresh_PublishesBothCollections(t *testing.T) {
	f := &fakeFetcher{
		printers: []spoolman.Printer{{Name: "X1C"}},
		spools:   []spoolman.Spool{{ID: 7}},
	}
	c := New(f, nil, 0, quietLogger())

	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, []string{"printers", "spools"}, f.calls)
	assert.Equal(t, DefaultInterval, c.Interval())

	snap := c.Store().Snapshot()
	require.True(t, snap.HasData)
	assert.Equal(t, "X1C", snap.Data.Printers[0].Name)
	assert.Equal(t, int64(7), snap.Data.Spools[0].ID)
}

func TestRefresh_FailureWrapsAndKeepsData(t *testing.T) {
	f := &fakeFetcher{
		printers: []spoolman.Printer{{Name: "X1C"}},
		spools:   []spoolman.Spool{{ID: 7}},
	}
	store := &state.Store{}
	c := New(f, store, time.Minute, quietLogger())
	require.NoError(t, c.Refresh(context.Background()))

	cause := &spoolman.StatusError{Method: "GET", Path: "/api/spools", Code: 500}
	f.setSpoolsErr(cause)

	err := c.Refresh(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpdateFailed)
	var statusErr *spoolman.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 500, statusErr.Code)

	snap := store.Snapshot()
	assert.True(t, snap.HasData)
	assert.Equal(t, int64(7), snap.Data.Spools[0].ID)
	assert.Equal(t, 1, snap.ConsecutiveFailures)
	assert.ErrorIs(t, snap.LastError, ErrUpdateFailed)
}

func TestRefresh_PrinterFailureSkipsSpools(t *testing.T) {
	f := &fakeFetcher{printersErr: errors.New("connection refused")}
	c := New(f, nil, time.Minute, quietLogger())

	err := c.Refresh(context.Background())
	require.ErrorIs(t, err, ErrUpdateFailed)
	assert.Equal(t, []string{"printers"}, f.calls)
}

func TestFirstRefresh_ReportsNotReady(t *testing.T) {
	f := &fakeFetcher{printersErr: errors.New("no route to host")}
	c := New(f, nil, time.Minute, quietLogger())

	err := c.FirstRefresh(context.Background())
	require.ErrorIs(t, err, ErrNotReady)
	assert.ErrorIs(t, err, ErrUpdateFailed)
}

func TestRequestRefresh_TriggersLoopAndCoalesces(t *testing.T) {
	f := &fakeFetcher{}
	c := New(f, nil, time.Hour, quietLogger())

	// Pending requests collapse into one before the loop starts.
	c.RequestRefresh()
	c.RequestRefresh()
	c.RequestRefresh()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	c.Start(ctx)

	require.Eventually(t, func() bool { return f.callCount() == 2 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 2, f.callCount(), "expected a single refresh for coalesced requests")

	c.RequestRefresh()
	require.Eventually(t, func() bool { return f.callCount() == 4 }, 2*time.Second, 10*time.Millisecond)
}

func TestStart_TicksAndStopsOnCancel(t *testing.T) {
	f := &fakeFetcher{}
	c := New(f, nil, 20*time.Millisecond, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx)

	require.Eventually(t, func() bool { return f.callCount() >= 4 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	time.Sleep(60 * time.Millisecond)
	stopped := f.callCount()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, stopped, f.callCount(), "loop kept refreshing after cancel")
}
